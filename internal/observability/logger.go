// Package observability holds the process-wide structured logger.
package observability

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync/atomic"

	"github.com/go-chi/chi/v5/middleware"
)

var logger atomic.Pointer[slog.Logger]

func init() {
	logger.Store(New(os.Stdout, "info"))
}

// New returns a JSON logger writing to w at the named level
// (debug, info, warn, error; anything else means info).
func New(w io.Writer, level string) *slog.Logger {
	return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: ParseLevel(level)}))
}

// ParseLevel maps a level name to a slog.Level.
func ParseLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Logger returns the process-wide logger.
func Logger() *slog.Logger {
	return logger.Load()
}

// SetLogger replaces the process-wide logger.
func SetLogger(l *slog.Logger) {
	logger.Store(l)
}

// WithRequest adds the chi request id from ctx to l, if present.
func WithRequest(ctx context.Context, l *slog.Logger) *slog.Logger {
	reqID := middleware.GetReqID(ctx)
	if reqID == "" {
		return l
	}
	return l.With("request_id", reqID)
}

// LoggerFromContext is WithRequest applied to the process-wide logger.
func LoggerFromContext(ctx context.Context) *slog.Logger {
	return WithRequest(ctx, Logger())
}

// Discard returns a logger that drops everything; handy in tests.
func Discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
