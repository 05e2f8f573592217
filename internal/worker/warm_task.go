package worker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/hibiken/asynq"
	jsoniter "github.com/json-iterator/go"

	"shaftmatch/internal/domain"
	"shaftmatch/pkg/contextx"
	"shaftmatch/pkg/errcodes"
	"shaftmatch/pkg/logx"
)

// TypeWarmMatches is the asynq task type that warms the matches of one shaft.
const TypeWarmMatches = "shafts:warm"

var json = jsoniter.ConfigCompatibleWithStandardLibrary //nolint:gochecknoglobals

var ErrEmptyModel = errors.New("warm task has no model")

type warmPayload struct {
	Model string `json:"model"`
}

func NewWarmTask(model string) (*asynq.Task, error) {
	payload, err := json.Marshal(warmPayload{Model: model})
	if err != nil {
		return nil, fmt.Errorf("json.Marshal: %w", err)
	}

	return asynq.NewTask(TypeWarmMatches, payload), nil
}

type warmer interface {
	Warm(ctx context.Context, model string) error
}

// WarmTaskHandler processes TypeWarmMatches tasks, possibly enqueued by
// another replica.
type WarmTaskHandler struct {
	shaftService warmer
}

func NewWarmTaskHandler(shaftService warmer) WarmTaskHandler {
	return WarmTaskHandler{
		shaftService: shaftService,
	}
}

// ProcessTask warms the model named by the payload. Malformed payloads and
// models missing from this replica's catalog are not retried.
func (h WarmTaskHandler) ProcessTask(ctx context.Context, task *asynq.Task) error {
	if taskID, ok := asynq.GetTaskID(ctx); ok {
		ctx = contextx.WithTraceID(ctx, contextx.TraceID(taskID))
	}

	ctx, traceID := contextx.EnsureTraceID(ctx)
	ctx = contextx.WithLogger(ctx, logger(ctx).With(logx.Stringer(logx.FieldTraceID, traceID)))

	var payload warmPayload

	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return fmt.Errorf("json.Unmarshal: %w: %w", err, asynq.SkipRetry)
	}

	if payload.Model == "" {
		return fmt.Errorf("%w: %w", ErrEmptyModel, asynq.SkipRetry)
	}

	if err := h.shaftService.Warm(ctx, payload.Model); err != nil {
		if code, ok := domain.GetCode(err); ok && code == errcodes.ShaftNotFound {
			return fmt.Errorf("shaftService.Warm(%q): %w: %w", payload.Model, err, asynq.SkipRetry)
		}

		return fmt.Errorf("shaftService.Warm(%q): %w", payload.Model, err)
	}

	logger(ctx).Debug("warm task done", slog.String(logx.FieldModel, payload.Model))

	return nil
}
