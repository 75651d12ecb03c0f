package logger

import (
	"log/slog"
	"time"
)

// SlowQueryThreshold promotes successful queries to WARN.
const SlowQueryThreshold = time.Second

// QueryLogger times one repository operation.
type QueryLogger struct {
	operation string
	entity    string
	started   time.Time
}

func NewQueryLogger(operation, entity string) *QueryLogger {
	return &QueryLogger{operation: operation, entity: entity, started: time.Now()}
}

// Log records the outcome; rows is the number of rows written or read.
func (l *QueryLogger) Log(err error, rows int64) {
	took := time.Since(l.started)
	attrs := []any{
		slog.String("type", "db"),
		slog.String("operation", l.operation),
		slog.String("entity", l.entity),
		slog.Duration("took", took),
	}

	switch {
	case err != nil:
		slog.Error("Query failed", append(attrs, slog.String("status", "failed"), slog.Any("error", err))...)
	case took >= SlowQueryThreshold:
		slog.Warn("Slow query", append(attrs, slog.String("status", "slow"), slog.Int64("rows", rows))...)
	default:
		slog.Debug("Query executed", append(attrs, slog.Int64("rows", rows))...)
	}
}
