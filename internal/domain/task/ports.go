package task

import (
	"context"

	"github.com/mars-sim/mars-sim-sub055/internal/domain/shared"
)

// ScheduleEntry is one finished activity in a worker's task schedule
type ScheduleEntry struct {
	ID            int
	ActivityID    string
	SettlementID  string
	WorkerID      string
	WorkerName    string
	Activity      string
	Description   string
	LastPhase     Phase
	StartedAt     shared.MarsTime
	EndedAt       shared.MarsTime
	TimeCompleted float64
}

// ScheduleRepository persists task schedules
type ScheduleRepository interface {
	// Add stores a finished activity
	Add(ctx context.Context, entry *ScheduleEntry) error

	// FindByWorker returns the worker's most recent entries, newest first
	FindByWorker(ctx context.Context, workerID string, limit int) ([]*ScheduleEntry, error)

	// FindBySettlement returns entries ended at or after since, newest first
	FindBySettlement(ctx context.Context, settlementID string, since shared.MarsTime, limit int) ([]*ScheduleEntry, error)
}
