package persistence

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"gorm.io/gorm"

	"github.com/andrescamacho/headquartz-go/internal/application/common"
	"github.com/andrescamacho/headquartz-go/internal/domain/shared"
)

// EngineLogEntry represents a persisted log line
type EngineLogEntry struct {
	ID        int
	Component string
	Timestamp time.Time
	Level     string
	Message   string
	Metadata  map[string]interface{}
}

// GormEngineLogRepository persists engine and processor logs.
// Identical component+message pairs inside the dedup window are written once.
type GormEngineLogRepository struct {
	db    *gorm.DB
	clock shared.Clock

	dedupCache   map[string]time.Time // key: component|message
	dedupMu      sync.Mutex
	dedupWindow  time.Duration
	dedupMaxSize int
}

// NewGormEngineLogRepository creates a new engine log repository
// If clock is nil, uses RealClock (production behavior). A zero window means 60s.
func NewGormEngineLogRepository(db *gorm.DB, clock shared.Clock, dedupWindow time.Duration) *GormEngineLogRepository {
	if clock == nil {
		clock = shared.NewRealClock()
	}
	if dedupWindow <= 0 {
		dedupWindow = 60 * time.Second
	}
	return &GormEngineLogRepository{
		db:           db,
		clock:        clock,
		dedupCache:   make(map[string]time.Time),
		dedupWindow:  dedupWindow,
		dedupMaxSize: 10000,
	}
}

// Log writes a log entry with time-windowed deduplication
func (r *GormEngineLogRepository) Log(ctx context.Context, component, message, level string, metadata map[string]interface{}) error {
	now := r.clock.Now()
	cacheKey := component + "|" + message

	r.dedupMu.Lock()
	if lastLogged, exists := r.dedupCache[cacheKey]; exists && now.Sub(lastLogged) < r.dedupWindow {
		r.dedupMu.Unlock()
		return nil
	}
	if len(r.dedupCache) >= r.dedupMaxSize {
		r.cleanupDedupCache(now)
	}
	r.dedupCache[cacheKey] = now
	r.dedupMu.Unlock()

	// Metadata is optional; an unencodable map is dropped rather than failing the write
	var metadataJSON string
	if len(metadata) > 0 {
		if raw, err := json.Marshal(metadata); err == nil {
			metadataJSON = string(raw)
		}
	}

	entry := &EngineLogModel{
		Component: component,
		Timestamp: now,
		Level:     level,
		Message:   message,
		Metadata:  metadataJSON,
	}
	return r.db.WithContext(ctx).Create(entry).Error
}

// cleanupDedupCache removes entries older than the window. Caller holds dedupMu.
func (r *GormEngineLogRepository) cleanupDedupCache(now time.Time) {
	cutoff := now.Add(-r.dedupWindow)
	for key, ts := range r.dedupCache {
		if ts.Before(cutoff) {
			delete(r.dedupCache, key)
		}
	}
}

// GetLogs retrieves logs, newest first, with optional component, level and time filters
func (r *GormEngineLogRepository) GetLogs(ctx context.Context, component string, limit int, level *string, since *time.Time) ([]EngineLogEntry, error) {
	query := r.db.WithContext(ctx).Model(&EngineLogModel{})
	if component != "" {
		query = query.Where("component = ?", component)
	}
	if level != nil {
		query = query.Where("level = ?", *level)
	}
	if since != nil {
		query = query.Where("timestamp > ?", *since)
	}
	if limit <= 0 {
		limit = 100
	}

	var models []EngineLogModel
	if err := query.Order("timestamp DESC, id DESC").Limit(limit).Find(&models).Error; err != nil {
		return nil, err
	}

	entries := make([]EngineLogEntry, len(models))
	for i, model := range models {
		var metadata map[string]interface{}
		if model.Metadata != "" {
			if err := json.Unmarshal([]byte(model.Metadata), &metadata); err != nil {
				metadata = nil
			}
		}
		entries[i] = EngineLogEntry{
			ID:        model.ID,
			Component: model.Component,
			Timestamp: model.Timestamp,
			Level:     model.Level,
			Message:   model.Message,
			Metadata:  metadata,
		}
	}
	return entries, nil
}

// RecentLogs adapts GetLogs to the application's log source port
func (r *GormEngineLogRepository) RecentLogs(ctx context.Context, filter common.LogFilter) ([]common.LogEntry, error) {
	var level *string
	if filter.Level != "" {
		normalized := common.NormalizeLevel(filter.Level)
		level = &normalized
	}
	var since *time.Time
	if !filter.Since.IsZero() {
		since = &filter.Since
	}

	rows, err := r.GetLogs(ctx, filter.Component, filter.Limit, level, since)
	if err != nil {
		return nil, err
	}
	entries := make([]common.LogEntry, len(rows))
	for i, row := range rows {
		entries[i] = common.LogEntry{
			Component: row.Component,
			Timestamp: row.Timestamp,
			Level:     row.Level,
			Message:   row.Message,
			Metadata:  row.Metadata,
		}
	}
	return entries, nil
}
