package persistence

import (
	"context"
	"strings"
	"time"

	"github.com/andrescamacho/headquartz-go/internal/application/common"
)

// DatabaseLogger forwards every entry to another logger and persists
// non-debug entries to the engine_logs table.
type DatabaseLogger struct {
	component string
	next      common.Logger
	repo      *GormEngineLogRepository
	timeout   time.Duration
}

// NewDatabaseLogger wraps next. A nil next discards console output.
func NewDatabaseLogger(component string, next common.Logger, repo *GormEngineLogRepository) *DatabaseLogger {
	if next == nil {
		next = common.NoOpLogger{}
	}
	return &DatabaseLogger{component: component, next: next, repo: repo, timeout: 2 * time.Second}
}

// WithComponent returns a logger writing rows under another component name
func (l *DatabaseLogger) WithComponent(component string, next common.Logger) *DatabaseLogger {
	clone := *l
	clone.component = component
	if next != nil {
		clone.next = next
	}
	return &clone
}

// Log implements common.Logger. Persistence failures are reported to the wrapped logger only.
func (l *DatabaseLogger) Log(level, message string, metadata map[string]interface{}) {
	l.next.Log(level, message, metadata)

	if strings.EqualFold(level, common.LevelDebug) {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), l.timeout)
	defer cancel()
	if err := l.repo.Log(ctx, l.component, message, common.NormalizeLevel(level), metadata); err != nil {
		l.next.Log(common.LevelWarning, "Failed to persist log entry", map[string]interface{}{
			"error": err.Error(),
		})
	}
}
