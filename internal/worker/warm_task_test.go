package worker_test

import (
	"context"
	"errors"
	"testing"

	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/require"

	"shaftmatch/internal/domain"
	"shaftmatch/internal/worker"
	"shaftmatch/pkg/errcodes"
)

func TestNewWarmTask(t *testing.T) {
	rq := require.New(t)

	task, err := worker.NewWarmTask("Ventus Blue 6")
	rq.NoError(err)
	rq.Equal(worker.TypeWarmMatches, task.Type())
	rq.JSONEq(`{"model":"Ventus Blue 6"}`, string(task.Payload()))
}

func TestWarmTaskHandler(t *testing.T) {
	svc := newFake("a", "b")
	svc.failing["b"] = true
	svc.missing = map[string]bool{"gone": true}

	handler := worker.NewWarmTaskHandler(svc)

	valid := func(model string) *asynq.Task {
		task, err := worker.NewWarmTask(model)
		require.NoError(t, err)

		return task
	}

	testCases := []struct {
		name      string
		task      *asynq.Task
		err       bool
		skipRetry bool
	}{
		{
			name: "Warmed",
			task: valid("a"),
		},
		{
			name: "Warm failure is retried",
			task: valid("b"),
			err:  true,
		},
		{
			name:      "Unknown model",
			task:      valid("gone"),
			err:       true,
			skipRetry: true,
		},
		{
			name:      "Malformed payload",
			task:      asynq.NewTask(worker.TypeWarmMatches, []byte(`{"model":`)),
			err:       true,
			skipRetry: true,
		},
		{
			name:      "Empty model",
			task:      asynq.NewTask(worker.TypeWarmMatches, []byte(`{}`)),
			err:       true,
			skipRetry: true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			rq := require.New(t)

			err := handler.ProcessTask(context.Background(), tc.task)
			if !tc.err {
				rq.NoError(err)
				return
			}

			rq.Error(err)
			rq.Equal(tc.skipRetry, errors.Is(err, asynq.SkipRetry))
		})
	}

	rq := require.New(t)
	rq.Equal([]string{"a", "b", "gone"}, svc.calls)

	code, ok := domain.GetCode(handler.ProcessTask(context.Background(), valid("gone")))
	rq.True(ok)
	rq.Equal(errcodes.ShaftNotFound, code)
}
