// Package logging is the structured logging surface of the server. Callers
// depend on Logger; the slog adapter is the only production implementation.
package logging

import "context"

// Logger takes a context on every call so request-scoped attributes
// (see ContextWith) end up on each record. args are key/value pairs:
//
//	log.Info(ctx, "video published", "video_id", v.ID, "owner", v.OwnerID)
type Logger interface {
	Debug(ctx context.Context, msg string, args ...any)
	Info(ctx context.Context, msg string, args ...any)
	Warn(ctx context.Context, msg string, args ...any)
	Error(ctx context.Context, msg string, args ...any)

	// With returns a logger that adds args to every record.
	With(args ...any) Logger
}

type attrsKey struct{}

// ContextWith returns a child context carrying extra key/value pairs that
// every record logged with it will include.
func ContextWith(ctx context.Context, args ...any) context.Context {
	if len(args) == 0 {
		return ctx
	}
	prev := attrsFrom(ctx)
	merged := make([]any, 0, len(prev)+len(args))
	merged = append(merged, prev...)
	merged = append(merged, args...)
	return context.WithValue(ctx, attrsKey{}, merged)
}

func attrsFrom(ctx context.Context) []any {
	if ctx == nil {
		return nil
	}
	args, _ := ctx.Value(attrsKey{}).([]any)
	return args
}

// Nop discards everything.
type Nop struct{}

func (Nop) Debug(context.Context, string, ...any) {}
func (Nop) Info(context.Context, string, ...any)  {}
func (Nop) Warn(context.Context, string, ...any)  {}
func (Nop) Error(context.Context, string, ...any) {}
func (n Nop) With(...any) Logger                  { return n }
