package worker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"

	"shaftmatch/internal/domain/entity"
	"shaftmatch/pkg/contextx"
	"shaftmatch/pkg/logx"
)

const defaultUniqueFor = time.Minute

var logger = contextx.LoggerFromContextOrDefault //nolint:gochecknoglobals

type shaftService interface {
	List(ctx context.Context) []entity.Shaft
	Warm(ctx context.Context, model string) error
}

type taskEnqueuer interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

// CacheWarmer computes the matches of every catalog shaft ahead of the first
// request. Without a queue it warms this process directly; with one it
// enqueues a TypeWarmMatches task per shaft so the work is shared by every
// replica consuming the queue.
type CacheWarmer struct {
	shaftService    shaftService
	enqueuer        taskEnqueuer
	queue           string
	requestInterval time.Duration
	refreshInterval time.Duration
}

func NewCacheWarmer(shaftService shaftService) *CacheWarmer {
	return &CacheWarmer{
		shaftService: shaftService,
	}
}

// WithRequestInterval spaces out consecutive shafts so a cold shared cache is
// not hit with the whole catalog at once.
func (w *CacheWarmer) WithRequestInterval(interval time.Duration) *CacheWarmer {
	w.requestInterval = interval
	return w
}

// WithRefreshInterval repeats the warm-up periodically, renewing the expiry
// of cached matches. Zero warms once.
func (w *CacheWarmer) WithRefreshInterval(interval time.Duration) *CacheWarmer {
	w.refreshInterval = interval
	return w
}

func (w *CacheWarmer) WithQueue(enqueuer taskEnqueuer, queue string) *CacheWarmer {
	w.enqueuer = enqueuer
	w.queue = queue

	return w
}

// Run warms the cache and, with a refresh interval, keeps re-warming it until
// ctx is done. Cancellation is not an error.
func (w *CacheWarmer) Run(ctx context.Context) error {
	for {
		warmed, err := w.WarmAll(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return nil
			}

			return err
		}

		logger(ctx).Info("match cache warmed",
			slog.Int(logx.FieldMatches, warmed),
			slog.Bool(logx.FieldQueued, w.enqueuer != nil),
		)

		if w.refreshInterval <= 0 {
			return nil
		}

		select {
		case <-ctx.Done():
			return nil
		case <-time.After(w.refreshInterval):
		}
	}
}

// WarmAll warms or enqueues every shaft once and returns how many succeeded.
// A failing shaft is logged and skipped; only cancellation stops the walk.
func (w *CacheWarmer) WarmAll(ctx context.Context) (int, error) {
	var warmed int

	for i, shaft := range w.shaftService.List(ctx) {
		if i > 0 {
			if err := w.waitForNextSlot(ctx); err != nil {
				return warmed, err
			}
		} else if err := ctx.Err(); err != nil {
			return warmed, err
		}

		if err := w.warm(ctx, shaft.Model); err != nil {
			logger(ctx).Error("warm-up failed",
				slog.String(logx.FieldModel, shaft.Model),
				logx.Error(err),
			)

			continue
		}

		warmed++
	}

	return warmed, nil
}

func (w *CacheWarmer) warm(ctx context.Context, model string) error {
	if w.enqueuer == nil {
		return w.shaftService.Warm(ctx, model)
	}

	task, err := NewWarmTask(model)
	if err != nil {
		return fmt.Errorf("NewWarmTask: %w", err)
	}

	uniqueFor := w.refreshInterval
	if uniqueFor <= 0 {
		uniqueFor = defaultUniqueFor
	}

	_, err = w.enqueuer.EnqueueContext(ctx, task, asynq.Queue(w.queue), asynq.Unique(uniqueFor))

	switch {
	case errors.Is(err, asynq.ErrDuplicateTask):
		logger(ctx).Debug("warm task already queued", slog.String(logx.FieldModel, model))
		return nil
	case err != nil:
		return fmt.Errorf("enqueuer.EnqueueContext: %w", err)
	default:
		return nil
	}
}

func (w *CacheWarmer) waitForNextSlot(ctx context.Context) error {
	if w.requestInterval <= 0 {
		return ctx.Err()
	}

	timer := time.NewTimer(w.requestInterval)
	defer timer.Stop()

	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
