package common

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"sort"
	"strings"
)

// Log levels accepted by Logger.Log
const (
	LevelDebug   = "DEBUG"
	LevelInfo    = "INFO"
	LevelWarning = "WARNING"
	LevelError   = "ERROR"
)

// Logger is the structured logging port used by the engine, tick manager and adapters
type Logger interface {
	Log(level, message string, metadata map[string]interface{})
}

// Context keys for passing logger through context
type contextKey int

const (
	loggerKey contextKey = iota
)

// WithLogger adds a logger to the context
func WithLogger(ctx context.Context, logger Logger) context.Context {
	return context.WithValue(ctx, loggerKey, logger)
}

// LoggerFromContext extracts the logger from context, or returns a no-op logger if not found
func LoggerFromContext(ctx context.Context) Logger {
	if logger, ok := ctx.Value(loggerKey).(Logger); ok {
		return logger
	}
	return NoOpLogger{}
}

// NoOpLogger discards everything
type NoOpLogger struct{}

func (NoOpLogger) Log(level, message string, metadata map[string]interface{}) {}

// StdLogger writes through the standard log package as "[Component] LEVEL message key=value"
// or, in json format, as one JSON object per line.
type StdLogger struct {
	component string
	minLevel  int
	json      bool
	logger    *log.Logger
}

// NewStdLogger creates a logger for a component. level is one of debug, info, warn, error;
// format is text or json. A nil out uses the default log package logger.
func NewStdLogger(component, level, format string, out *log.Logger) *StdLogger {
	if out == nil {
		out = log.Default()
	}
	return &StdLogger{
		component: component,
		minLevel:  levelRank(level),
		json:      strings.EqualFold(format, "json"),
		logger:    out,
	}
}

// WithComponent returns a logger sharing settings but tagged with another component
func (l *StdLogger) WithComponent(component string) *StdLogger {
	clone := *l
	clone.component = component
	return &clone
}

// Log writes the entry if its level is at or above the configured minimum
func (l *StdLogger) Log(level, message string, metadata map[string]interface{}) {
	level = NormalizeLevel(level)
	if levelRank(level) < l.minLevel {
		return
	}

	if l.json {
		entry := make(map[string]interface{}, len(metadata)+3)
		for k, v := range metadata {
			entry[k] = v
		}
		entry["component"] = l.component
		entry["level"] = level
		entry["message"] = message
		data, err := json.Marshal(entry)
		if err != nil {
			l.logger.Printf("[%s] %s %s (metadata not encodable: %v)", l.component, level, message, err)
			return
		}
		l.logger.Println(string(data))
		return
	}

	l.logger.Printf("[%s] %s %s%s", l.component, level, message, formatMetadata(metadata))
}

func formatMetadata(metadata map[string]interface{}) string {
	if len(metadata) == 0 {
		return ""
	}
	keys := make([]string, 0, len(metadata))
	for k := range metadata {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	for _, k := range keys {
		fmt.Fprintf(&b, " %s=%v", k, metadata[k])
	}
	return b.String()
}

// NormalizeLevel maps free-form level names onto the four canonical levels
func NormalizeLevel(level string) string {
	switch strings.ToUpper(level) {
	case "DEBUG":
		return LevelDebug
	case "WARN", "WARNING":
		return LevelWarning
	case "ERROR", "FATAL":
		return LevelError
	default:
		return LevelInfo
	}
}

func levelRank(level string) int {
	switch NormalizeLevel(level) {
	case LevelDebug:
		return 0
	case LevelWarning:
		return 2
	case LevelError:
		return 3
	default:
		return 1
	}
}
