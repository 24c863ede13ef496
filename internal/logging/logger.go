// Package logging is the structured logger every SecureGuard component takes.
// New builds one on log/slog or rs/zerolog depending on the configured format.
package logging

import "context"

// Logger logs a message with key/value attributes:
//
//	log.Info(ctx, "sign-in finished", "method", "password", "outcome", outcome)
//
// A key without a value at the end of args is dropped.
type Logger interface {
	Debug(ctx context.Context, msg string, args ...any)
	Info(ctx context.Context, msg string, args ...any)
	Warn(ctx context.Context, msg string, args ...any)
	Error(ctx context.Context, msg string, args ...any)

	// With returns a logger that adds args to every entry.
	With(args ...any) Logger
}

type nopLogger struct{}

func (nopLogger) Debug(context.Context, string, ...any) {}
func (nopLogger) Info(context.Context, string, ...any)  {}
func (nopLogger) Warn(context.Context, string, ...any)  {}
func (nopLogger) Error(context.Context, string, ...any) {}
func (n nopLogger) With(...any) Logger                  { return n }

// Nop returns a Logger that discards everything.
func Nop() Logger { return nopLogger{} }
