package persistence

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/mars-sim/mars-sim-sub055/internal/domain/shared"
	"github.com/mars-sim/mars-sim-sub055/internal/domain/task"
)

// GormTaskScheduleRepository implements task.ScheduleRepository using GORM
type GormTaskScheduleRepository struct {
	db *gorm.DB
}

// NewGormTaskScheduleRepository creates a new GORM task schedule repository
func NewGormTaskScheduleRepository(db *gorm.DB) *GormTaskScheduleRepository {
	return &GormTaskScheduleRepository{db: db}
}

// Add stores a finished activity and sets the entry's ID
func (r *GormTaskScheduleRepository) Add(ctx context.Context, entry *task.ScheduleEntry) error {
	if entry == nil {
		return fmt.Errorf("schedule entry cannot be nil")
	}
	model := scheduleEntryToModel(entry)
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		return fmt.Errorf("failed to add schedule entry for %s: %w", entry.WorkerID, err)
	}
	entry.ID = model.ID
	return nil
}

// FindByWorker returns the worker's most recent entries, newest first
func (r *GormTaskScheduleRepository) FindByWorker(ctx context.Context, workerID string, limit int) ([]*task.ScheduleEntry, error) {
	var models []TaskScheduleModel
	query := r.db.WithContext(ctx).Where("worker_id = ?", workerID).Order("ended_at DESC, id DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := query.Find(&models).Error; err != nil {
		return nil, fmt.Errorf("failed to find schedule for worker %s: %w", workerID, err)
	}
	return modelsToScheduleEntries(models), nil
}

// FindBySettlement returns entries ended at or after since, newest first
func (r *GormTaskScheduleRepository) FindBySettlement(ctx context.Context, settlementID string, since shared.MarsTime, limit int) ([]*task.ScheduleEntry, error) {
	var models []TaskScheduleModel
	query := r.db.WithContext(ctx).
		Where("settlement_id = ? AND ended_at >= ?", settlementID, float64(since)).
		Order("ended_at DESC, id DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := query.Find(&models).Error; err != nil {
		return nil, fmt.Errorf("failed to find schedule for settlement %s: %w", settlementID, err)
	}
	return modelsToScheduleEntries(models), nil
}

func scheduleEntryToModel(e *task.ScheduleEntry) *TaskScheduleModel {
	return &TaskScheduleModel{
		ActivityID:    e.ActivityID,
		SettlementID:  e.SettlementID,
		WorkerID:      e.WorkerID,
		WorkerName:    e.WorkerName,
		Activity:      e.Activity,
		Description:   e.Description,
		LastPhase:     string(e.LastPhase),
		StartedAt:     float64(e.StartedAt),
		EndedAt:       float64(e.EndedAt),
		TimeCompleted: e.TimeCompleted,
	}
}

func modelsToScheduleEntries(models []TaskScheduleModel) []*task.ScheduleEntry {
	out := make([]*task.ScheduleEntry, len(models))
	for i, m := range models {
		out[i] = &task.ScheduleEntry{
			ID:            m.ID,
			ActivityID:    m.ActivityID,
			SettlementID:  m.SettlementID,
			WorkerID:      m.WorkerID,
			WorkerName:    m.WorkerName,
			Activity:      m.Activity,
			Description:   m.Description,
			LastPhase:     task.Phase(m.LastPhase),
			StartedAt:     shared.MarsTime(m.StartedAt),
			EndedAt:       shared.MarsTime(m.EndedAt),
			TimeCompleted: m.TimeCompleted,
		}
	}
	return out
}
