package persistence

import (
	"time"
)

// ActivityLogModel represents the activity_logs table
type ActivityLogModel struct {
	ID           int       `gorm:"column:id;primaryKey;autoIncrement"`
	SettlementID string    `gorm:"column:settlement_id;not null;index:idx_activity_logs_scope"`
	WorkerID     string    `gorm:"column:worker_id;index:idx_activity_logs_scope"`
	MarsTime     float64   `gorm:"column:mars_time;not null"`
	Level        string    `gorm:"column:level;not null;default:'INFO'"`
	Message      string    `gorm:"column:message;type:text;not null"`
	Metadata     string    `gorm:"column:metadata;type:text"`
	CreatedAt    time.Time `gorm:"column:created_at;autoCreateTime"`
}

func (ActivityLogModel) TableName() string {
	return "activity_logs"
}

// TaskScheduleModel represents the task_schedules table: one row per
// finished activity
type TaskScheduleModel struct {
	ID            int     `gorm:"column:id;primaryKey;autoIncrement"`
	ActivityID    string  `gorm:"column:activity_id;not null;uniqueIndex"`
	SettlementID  string  `gorm:"column:settlement_id;not null;index"`
	WorkerID      string  `gorm:"column:worker_id;not null;index"`
	WorkerName    string  `gorm:"column:worker_name"`
	Activity      string  `gorm:"column:activity;not null"`
	Description   string  `gorm:"column:description;type:text"`
	LastPhase     string  `gorm:"column:last_phase"`
	StartedAt     float64 `gorm:"column:started_at;not null"`
	EndedAt       float64 `gorm:"column:ended_at;not null;index"`
	TimeCompleted float64 `gorm:"column:time_completed;not null;default:0"`
}

func (TaskScheduleModel) TableName() string {
	return "task_schedules"
}
