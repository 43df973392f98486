package common

import (
	"context"
	"fmt"
	"log"
	"sort"
	"strings"
)

// Log levels accepted by ActivityLogger
const (
	LevelDebug   = "DEBUG"
	LevelInfo    = "INFO"
	LevelWarning = "WARNING"
	LevelError   = "ERROR"
)

// ActivityLogger records what workers and the scheduler are doing
type ActivityLogger interface {
	Log(level, message string, metadata map[string]interface{})
}

// Context keys for passing logger through context
type contextKey int

const (
	loggerKey contextKey = iota
)

// WithLogger adds a logger to the context
func WithLogger(ctx context.Context, logger ActivityLogger) context.Context {
	return context.WithValue(ctx, loggerKey, logger)
}

// LoggerFromContext extracts the logger from context, or returns a no-op logger if not found
func LoggerFromContext(ctx context.Context) ActivityLogger {
	if logger, ok := ctx.Value(loggerKey).(ActivityLogger); ok {
		return logger
	}
	return &noOpLogger{}
}

// noOpLogger is a logger that does nothing (fallback when no logger in context)
type noOpLogger struct{}

func (l *noOpLogger) Log(level, message string, metadata map[string]interface{}) {}

// StdLogger writes entries through the standard library logger
type StdLogger struct {
	prefix   string
	minLevel int
}

var levelRank = map[string]int{
	LevelDebug:   0,
	LevelInfo:    1,
	LevelWarning: 2,
	LevelError:   3,
}

// NewStdLogger creates a console logger dropping entries below minLevel
// (debug, info, warn or error)
func NewStdLogger(prefix, minLevel string) *StdLogger {
	rank, ok := levelRank[normalizeLevel(minLevel)]
	if !ok {
		rank = levelRank[LevelInfo]
	}
	return &StdLogger{prefix: prefix, minLevel: rank}
}

func (l *StdLogger) Log(level, message string, metadata map[string]interface{}) {
	level = normalizeLevel(level)
	if levelRank[level] < l.minLevel {
		return
	}
	log.Printf("%s[%s] %s%s", l.prefix, level, message, formatMetadata(metadata))
}

// MultiLogger fans entries out to several loggers
type MultiLogger []ActivityLogger

func (m MultiLogger) Log(level, message string, metadata map[string]interface{}) {
	for _, l := range m {
		if l != nil {
			l.Log(level, message, metadata)
		}
	}
}

func normalizeLevel(level string) string {
	switch strings.ToUpper(level) {
	case "DEBUG":
		return LevelDebug
	case "WARN", "WARNING":
		return LevelWarning
	case "ERROR":
		return LevelError
	default:
		return LevelInfo
	}
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

	var sb strings.Builder
	for _, k := range keys {
		fmt.Fprintf(&sb, " %s=%v", k, metadata[k])
	}
	return sb.String()
}
