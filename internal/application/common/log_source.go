package common

import (
	"context"
	"time"
)

// LogEntry is one persisted log line
type LogEntry struct {
	Component string                 `json:"component"`
	Timestamp time.Time              `json:"timestamp"`
	Level     string                 `json:"level"`
	Message   string                 `json:"message"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
}

// LogFilter narrows a log lookup; zero values match everything
type LogFilter struct {
	Component string
	Level     string
	Since     time.Time
	Limit     int
}

// LogSource reads back logs written through a persisting Logger
type LogSource interface {
	RecentLogs(ctx context.Context, filter LogFilter) ([]LogEntry, error)
}
