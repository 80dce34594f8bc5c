// Package jobctx attaches a per-job correlation ID and a zerolog logger
// carrying it to a context.Context: a request-scoped correlation ID
// propagated through context and echoed into every log line, applied to
// codec jobs instead of HTTP requests.
package jobctx

import (
	"context"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

type contextKey int

const (
	jobIDKey contextKey = iota
	loggerKey
)

// New returns a context carrying a fresh job ID and a logger with that ID
// bound as the "job_id" field.
func New(ctx context.Context, base zerolog.Logger) context.Context {
	jobID := uuid.NewString()
	logger := base.With().Str("job_id", jobID).Logger()
	ctx = context.WithValue(ctx, jobIDKey, jobID)
	ctx = context.WithValue(ctx, loggerKey, logger)
	return ctx
}

// JobID returns the correlation ID bound to ctx, or "" if none was set.
func JobID(ctx context.Context) string {
	id, _ := ctx.Value(jobIDKey).(string)
	return id
}

// Logger returns the logger bound to ctx, falling back to a no-op logger
// if none was set.
func Logger(ctx context.Context) zerolog.Logger {
	if logger, ok := ctx.Value(loggerKey).(zerolog.Logger); ok {
		return logger
	}
	return zerolog.Nop()
}
