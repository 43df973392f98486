package persistence

import (
	"context"
	"log"

	"github.com/mars-sim/mars-sim-sub055/internal/application/common"
)

// RepositoryLogger is a common.ActivityLogger that writes to an
// ActivityLogRepository
type RepositoryLogger struct {
	repo         ActivityLogRepository
	settlementID string
	workerID     string
}

// NewWorkerLogger binds the repository to one worker of a settlement
func NewWorkerLogger(repo ActivityLogRepository, settlementID, workerID string) *RepositoryLogger {
	return &RepositoryLogger{repo: repo, settlementID: settlementID, workerID: workerID}
}

// NewSettlementLogger binds the repository to a settlement. The worker of
// each entry is read from its "worker" metadata.
func NewSettlementLogger(repo ActivityLogRepository, settlementID string) *RepositoryLogger {
	return &RepositoryLogger{repo: repo, settlementID: settlementID}
}

var _ common.ActivityLogger = (*RepositoryLogger)(nil)

func (l *RepositoryLogger) Log(level, message string, metadata map[string]interface{}) {
	workerID := l.workerID
	if workerID == "" {
		if id, ok := metadata["worker"].(string); ok {
			workerID = id
		}
	}
	if err := l.repo.Log(context.Background(), l.settlementID, workerID, message, level, metadata); err != nil {
		log.Printf("failed to persist activity log for %s: %v", l.settlementID, err)
	}
}
