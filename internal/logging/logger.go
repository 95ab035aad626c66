// Package logging defines the structured-logging interface used by the
// storefront server. The only implementation wraps log/slog.
package logging

import "context"

// Logger is a context-aware, structured logger.
//
// The variadic args are interpreted as key–value pairs, e.g.:
//
//	log.Info(ctx, "request served", "method", "GET", "status", 200)
type Logger interface {
	Debug(ctx context.Context, msg string, args ...any)
	Info(ctx context.Context, msg string, args ...any)
	// Warn is used for rejected requests and other expected failures.
	Warn(ctx context.Context, msg string, args ...any)
	// Error is reserved for infrastructure failures that may need alerting.
	Error(ctx context.Context, msg string, args ...any)

	// With returns a child logger that always includes the given key–value pairs.
	With(args ...any) Logger
}
