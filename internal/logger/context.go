package logger

import (
	"context"
	"sync"

	"go.uber.org/zap"
)

type ctxKey struct{}

type eventKey struct{}

// event collects fields for the canonical per-request log line.
type event struct {
	mu     sync.Mutex
	fields []zap.Field
}

// ContextWithLogger stores a request-scoped logger and an empty canonical
// event in the context. The returned func yields the fields annotated so far.
func ContextWithLogger(ctx context.Context, logger *zap.Logger) (context.Context, func() []zap.Field) {
	ev := &event{}
	ctx = context.WithValue(ctx, ctxKey{}, logger)
	ctx = context.WithValue(ctx, eventKey{}, ev)
	return ctx, func() []zap.Field {
		ev.mu.Lock()
		defer ev.mu.Unlock()
		return append([]zap.Field(nil), ev.fields...)
	}
}

// FromContext extracts a logger from the context.
// Returns zap.NewNop() if no logger is found.
func FromContext(ctx context.Context) *zap.Logger {
	if l, ok := ctx.Value(ctxKey{}).(*zap.Logger); ok {
		return l
	}
	return zap.NewNop()
}

// Annotate adds fields to the canonical log line of the current request.
// Outside a request context it does nothing.
func Annotate(ctx context.Context, fields ...zap.Field) {
	ev, ok := ctx.Value(eventKey{}).(*event)
	if !ok {
		return
	}
	ev.mu.Lock()
	ev.fields = append(ev.fields, fields...)
	ev.mu.Unlock()
}
