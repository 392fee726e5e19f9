// Package logging defines the structured-logging interface shared by the
// panel components and a log/slog backed implementation of it.
package logging

import "context"

// Logger is a context-aware, structured logger.
//
// Variadic args are key–value pairs:
//
//	log.Info(ctx, "alarm fired", "id", a.ID, "time", models.FormatTime(a.Hour, a.Minute))
type Logger interface {
	// Debug logs diagnostic details that are noisy in normal operation.
	Debug(ctx context.Context, msg string, args ...any)

	// Info logs an informational message.
	Info(ctx context.Context, msg string, args ...any)

	// Warn logs a non-fatal problem, e.g. a failed save of the alarm set.
	Warn(ctx context.Context, msg string, args ...any)

	// Error logs a failure the user should know about.
	Error(ctx context.Context, msg string, args ...any)

	// With returns a child logger that always includes the given key–value pairs.
	With(args ...any) Logger
}

// Nop returns a Logger that discards everything.
func Nop() Logger { return nopLogger{} }

type nopLogger struct{}

func (nopLogger) Debug(context.Context, string, ...any) {}
func (nopLogger) Info(context.Context, string, ...any)  {}
func (nopLogger) Warn(context.Context, string, ...any)  {}
func (nopLogger) Error(context.Context, string, ...any) {}
func (n nopLogger) With(...any) Logger                  { return n }

// SuccessLogger is implemented by loggers that record positive outcomes at
// their own level.
type SuccessLogger interface {
	Success(ctx context.Context, msg string, args ...any)
}

// Success logs msg as a success when l supports it and at info otherwise.
func Success(ctx context.Context, l Logger, msg string, args ...any) {
	if s, ok := l.(SuccessLogger); ok {
		s.Success(ctx, msg, args...)
		return
	}
	l.Info(ctx, msg, args...)
}
