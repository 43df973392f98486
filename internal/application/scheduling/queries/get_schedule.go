package queries

import (
	"context"
	"fmt"

	"github.com/mars-sim/mars-sim-sub055/internal/application/mediator"
	"github.com/mars-sim/mars-sim-sub055/internal/domain/shared"
	"github.com/mars-sim/mars-sim-sub055/internal/domain/task"
)

// GetScheduleQuery reads finished activities of a worker or a settlement
type GetScheduleQuery struct {
	SettlementID string
	WorkerID     string
	Since        shared.MarsTime
	Limit        int
}

// GetScheduleResponse carries schedule entries, newest first
type GetScheduleResponse struct {
	Entries []*task.ScheduleEntry
}

// GetScheduleHandler handles the GetSchedule query
type GetScheduleHandler struct {
	scheduleRepo task.ScheduleRepository
}

// NewGetScheduleHandler creates a new GetScheduleHandler
func NewGetScheduleHandler(scheduleRepo task.ScheduleRepository) *GetScheduleHandler {
	return &GetScheduleHandler{scheduleRepo: scheduleRepo}
}

// Handle executes the GetSchedule query
func (h *GetScheduleHandler) Handle(ctx context.Context, request mediator.Request) (mediator.Response, error) {
	query, ok := request.(*GetScheduleQuery)
	if !ok {
		return nil, fmt.Errorf("invalid request type: expected *GetScheduleQuery")
	}
	if query.Limit <= 0 {
		query.Limit = 50
	}

	var (
		entries []*task.ScheduleEntry
		err     error
	)
	switch {
	case query.WorkerID != "":
		entries, err = h.scheduleRepo.FindByWorker(ctx, query.WorkerID, query.Limit)
	case query.SettlementID != "":
		entries, err = h.scheduleRepo.FindBySettlement(ctx, query.SettlementID, query.Since, query.Limit)
	default:
		return nil, shared.NewValidationError("query", "worker or settlement required")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read task schedule: %w", err)
	}
	return &GetScheduleResponse{Entries: entries}, nil
}
