package contextx

import (
	"context"
	"fmt"

	"github.com/rs/xid"
)

// TraceID correlates the log lines of one request, CLI run or queued task.
type TraceID string

type contextKeyTraceID struct{}

func NewTraceID() TraceID {
	return TraceID(xid.New().String())
}

func (t TraceID) String() string {
	return string(t)
}

func WithTraceID(ctx context.Context, traceID TraceID) context.Context {
	return context.WithValue(ctx, contextKeyTraceID{}, traceID)
}

// EnsureTraceID keeps the trace id already in ctx or adds a new one.
func EnsureTraceID(ctx context.Context) (context.Context, TraceID) {
	if traceID, err := TraceIDFromContext(ctx); err == nil {
		return ctx, traceID
	}

	traceID := NewTraceID()

	return WithTraceID(ctx, traceID), traceID
}

func TraceIDFromContext(ctx context.Context) (TraceID, error) {
	traceID, ok := ctx.Value(contextKeyTraceID{}).(TraceID)
	if !ok || traceID == "" {
		return "", fmt.Errorf("trace id: %w", ErrNoValue)
	}

	return traceID, nil
}
