package contextx_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"shaftmatch/pkg/contextx"
)

func TestTraceID(t *testing.T) {
	rq := require.New(t)
	ctx := context.Background()

	var testTraceIDEmpty contextx.TraceID

	testTraceIDNotEmpty := contextx.TraceID("test-trace-id")

	traceID, err := contextx.TraceIDFromContext(ctx)
	rq.Equal(testTraceIDEmpty, traceID)
	rq.ErrorIs(err, contextx.ErrNoValue)
	rq.ErrorContains(err, "trace id: no value in context")

	ctx = contextx.WithTraceID(ctx, testTraceIDNotEmpty)

	traceID, err = contextx.TraceIDFromContext(ctx)
	rq.Equal(testTraceIDNotEmpty, traceID)
	rq.NoError(err)
}

func TestEnsureTraceID(t *testing.T) {
	rq := require.New(t)

	ctx, generated := contextx.EnsureTraceID(context.Background())
	rq.Len(generated.String(), 20)

	fromCtx, err := contextx.TraceIDFromContext(ctx)
	rq.NoError(err)
	rq.Equal(generated, fromCtx)

	_, kept := contextx.EnsureTraceID(ctx)
	rq.Equal(generated, kept)

	_, err = contextx.TraceIDFromContext(contextx.WithTraceID(context.Background(), ""))
	rq.ErrorIs(err, contextx.ErrNoValue)

	rq.NotEqual(contextx.NewTraceID(), contextx.NewTraceID())
}
