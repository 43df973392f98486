package persistence

import (
	"context"
	"encoding/json"
	"sync"

	"gorm.io/gorm"

	"github.com/mars-sim/mars-sim-sub055/internal/domain/shared"
)

// DefaultDedupWindow is how long, in millisols, an identical message from the
// same worker is suppressed
const DefaultDedupWindow = 10.0

// ActivityLogRepository manages activity log persistence
type ActivityLogRepository interface {
	// Log writes a log entry with deduplication
	Log(ctx context.Context, settlementID, workerID, message, level string, metadata map[string]interface{}) error

	// GetLogs retrieves a settlement's logs, newest first. An empty workerID
	// matches every worker.
	GetLogs(ctx context.Context, settlementID, workerID string, limit int, level *string, since *shared.MarsTime) ([]ActivityLogEntry, error)
}

// ActivityLogEntry represents a log entry
type ActivityLogEntry struct {
	ID           int
	SettlementID string
	WorkerID     string
	MarsTime     shared.MarsTime
	Level        string
	Message      string
	Metadata     map[string]interface{}
}

// GormActivityLogRepository is a GORM-based implementation stamped with
// simulation time
type GormActivityLogRepository struct {
	db    *gorm.DB
	clock shared.SimClock

	dedupCache   map[string]shared.MarsTime
	dedupMu      sync.Mutex
	dedupWindow  float64
	dedupMaxSize int
}

// NewGormActivityLogRepository creates a new activity log repository.
// If clock is nil, entries are stamped at mission start.
func NewGormActivityLogRepository(db *gorm.DB, clock shared.SimClock) *GormActivityLogRepository {
	if clock == nil {
		clock = shared.NewMasterClock(0)
	}
	return &GormActivityLogRepository{
		db:           db,
		clock:        clock,
		dedupCache:   make(map[string]shared.MarsTime),
		dedupWindow:  DefaultDedupWindow,
		dedupMaxSize: 10000,
	}
}

// SetDedupWindow changes the suppression window; 0 disables deduplication
func (r *GormActivityLogRepository) SetDedupWindow(millisols float64) {
	r.dedupMu.Lock()
	defer r.dedupMu.Unlock()
	r.dedupWindow = max(0, millisols)
}

// Log writes a log entry with time-windowed deduplication
func (r *GormActivityLogRepository) Log(ctx context.Context, settlementID, workerID, message, level string, metadata map[string]interface{}) error {
	now := r.clock.Now()
	cacheKey := settlementID + "|" + workerID + "|" + message

	r.dedupMu.Lock()
	if r.dedupWindow > 0 {
		if last, exists := r.dedupCache[cacheKey]; exists && now.Since(last) < r.dedupWindow {
			r.dedupMu.Unlock()
			return nil
		}
		if len(r.dedupCache) >= r.dedupMaxSize {
			r.cleanupDedupCache(now)
		}
		r.dedupCache[cacheKey] = now
	}
	r.dedupMu.Unlock()

	// metadata is optional, a value that cannot be encoded is dropped
	var metadataJSON string
	if len(metadata) > 0 {
		if b, err := json.Marshal(metadata); err == nil {
			metadataJSON = string(b)
		}
	}

	entry := &ActivityLogModel{
		SettlementID: settlementID,
		WorkerID:     workerID,
		MarsTime:     float64(now),
		Level:        level,
		Message:      message,
		Metadata:     metadataJSON,
	}
	return r.db.WithContext(ctx).Create(entry).Error
}

// cleanupDedupCache drops entries older than the window. Must be called
// while holding dedupMu.
func (r *GormActivityLogRepository) cleanupDedupCache(now shared.MarsTime) {
	for key, at := range r.dedupCache {
		if now.Since(at) >= r.dedupWindow {
			delete(r.dedupCache, key)
		}
	}
}

// GetLogs retrieves a settlement's logs with optional filtering
func (r *GormActivityLogRepository) GetLogs(ctx context.Context, settlementID, workerID string, limit int, level *string, since *shared.MarsTime) ([]ActivityLogEntry, error) {
	var models []ActivityLogModel

	query := r.db.WithContext(ctx).Where("settlement_id = ?", settlementID)
	if workerID != "" {
		query = query.Where("worker_id = ?", workerID)
	}
	if level != nil {
		query = query.Where("level = ?", *level)
	}
	if since != nil {
		query = query.Where("mars_time >= ?", float64(*since))
	}
	if limit > 0 {
		query = query.Limit(limit)
	}

	if err := query.Order("mars_time DESC, id DESC").Find(&models).Error; err != nil {
		return nil, err
	}

	entries := make([]ActivityLogEntry, len(models))
	for i, m := range models {
		var metadata map[string]interface{}
		if m.Metadata != "" {
			if err := json.Unmarshal([]byte(m.Metadata), &metadata); err != nil {
				metadata = nil
			}
		}
		entries[i] = ActivityLogEntry{
			ID:           m.ID,
			SettlementID: m.SettlementID,
			WorkerID:     m.WorkerID,
			MarsTime:     shared.MarsTime(m.MarsTime),
			Level:        m.Level,
			Message:      m.Message,
			Metadata:     metadata,
		}
	}
	return entries, nil
}
