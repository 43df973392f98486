package queries

import (
	"context"
	"fmt"
	"strings"

	"github.com/mars-sim/mars-sim-sub055/internal/application/mediator"
	"github.com/mars-sim/mars-sim-sub055/internal/domain/shared"
)

// LogEntry is one persisted activity log line
type LogEntry struct {
	WorkerID string
	MarsTime shared.MarsTime
	Level    string
	Message  string
}

// LogReader reads persisted activity logs, newest first
type LogReader interface {
	ReadLogs(ctx context.Context, settlementID, workerID string, limit int, level *string, since *shared.MarsTime) ([]LogEntry, error)
}

// GetLogsQuery reads a settlement's activity log
type GetLogsQuery struct {
	SettlementID string
	WorkerID     string
	Level        string
	Since        *shared.MarsTime
	Limit        int
}

// GetLogsResponse carries log entries, oldest first
type GetLogsResponse struct {
	Entries []LogEntry
}

// GetLogsHandler handles the GetLogs query
type GetLogsHandler struct {
	reader LogReader
}

// NewGetLogsHandler creates a new GetLogsHandler
func NewGetLogsHandler(reader LogReader) *GetLogsHandler {
	return &GetLogsHandler{reader: reader}
}

// Handle executes the GetLogs query
func (h *GetLogsHandler) Handle(ctx context.Context, request mediator.Request) (mediator.Response, error) {
	query, ok := request.(*GetLogsQuery)
	if !ok {
		return nil, fmt.Errorf("invalid request type: expected *GetLogsQuery")
	}
	if query.SettlementID == "" {
		return nil, shared.NewValidationError("settlement", "required")
	}
	if query.Limit <= 0 {
		query.Limit = 100
	}

	var level *string
	if query.Level != "" {
		l := strings.ToUpper(query.Level)
		level = &l
	}

	entries, err := h.reader.ReadLogs(ctx, query.SettlementID, query.WorkerID, query.Limit, level, query.Since)
	if err != nil {
		return nil, fmt.Errorf("failed to read activity logs: %w", err)
	}
	for i, j := 0, len(entries)-1; i < j; i, j = i+1, j-1 {
		entries[i], entries[j] = entries[j], entries[i]
	}
	return &GetLogsResponse{Entries: entries}, nil
}
