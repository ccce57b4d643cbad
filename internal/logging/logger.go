// Package logging is the logging surface of credseal. Components depend on
// Logger rather than on log/slog so tests can swap in a silent or capturing
// implementation.
package logging

import "context"

// Logger writes leveled, structured records. args are alternating keys and
// values:
//
//	log.Warn(ctx, "deprecated hash method", "attempt_id", id, "method", m)
//
// Callers must never pass passwords, peppers, keys or full sealed blobs.
type Logger interface {
	Debug(ctx context.Context, msg string, args ...any)
	Info(ctx context.Context, msg string, args ...any)
	Warn(ctx context.Context, msg string, args ...any)
	Error(ctx context.Context, msg string, args ...any)

	// With returns a Logger that adds args to every record.
	With(args ...any) Logger
}
