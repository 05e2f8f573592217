package modules

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/hibiken/asynq"
	"golang.org/x/sync/errgroup"
)

type AsynqQueues map[string]int

type AsynqHandler struct {
	Pattern string
	Handle  func(context.Context, *asynq.Task) error
}

// AsynqServer consumes task queues inside the application's errgroup. It
// stops with ctx instead of waiting for OS signals like asynq.Server.Run.
type AsynqServer struct {
	RedisUsername   string
	RedisPassword   string
	RedisAddress    string
	RedisDB         int
	Queues          AsynqQueues
	Concurrency     int
	ShutdownTimeout time.Duration
}

// RedisClientOpt is shared with the asynq.Client that feeds the queues.
func (s AsynqServer) RedisClientOpt() asynq.RedisClientOpt {
	return asynq.RedisClientOpt{
		Addr:     s.RedisAddress,
		Username: s.RedisUsername,
		Password: s.RedisPassword,
		DB:       s.RedisDB,
	}
}

func (s AsynqServer) Run(
	ctx context.Context,
	g *errgroup.Group,
	handlers ...AsynqHandler,
) {
	g.Go(func() error {
		worker := asynq.NewServer(s.RedisClientOpt(), asynq.Config{ //nolint:exhaustruct
			BaseContext:     func() context.Context { return ctx },
			Queues:          s.Queues,
			Concurrency:     s.Concurrency,
			ShutdownTimeout: s.ShutdownTimeout,
			Logger:          asynqLogger{log: logger(ctx)},
		})

		mux := asynq.NewServeMux()

		for _, h := range handlers {
			mux.HandleFunc(h.Pattern, h.Handle)
		}

		if err := worker.Start(mux); err != nil {
			return fmt.Errorf("asynqServer.Start: %w", err)
		}

		logger(ctx).Info("asynq server started", slog.String("redis-address", s.RedisAddress), slog.Int("redis-db", s.RedisDB))

		<-ctx.Done()
		worker.Shutdown()

		logger(ctx).Info("asynq server stopped", slog.String("redis-address", s.RedisAddress), slog.Int("redis-db", s.RedisDB))

		return nil
	})
}

// asynqLogger routes asynq's internal logs to slog.
type asynqLogger struct {
	log *slog.Logger
}

func (l asynqLogger) Debug(args ...any) { l.log.Debug(fmt.Sprint(args...)) }
func (l asynqLogger) Info(args ...any)  { l.log.Info(fmt.Sprint(args...)) }
func (l asynqLogger) Warn(args ...any)  { l.log.Warn(fmt.Sprint(args...)) }
func (l asynqLogger) Error(args ...any) { l.log.Error(fmt.Sprint(args...)) }

func (l asynqLogger) Fatal(args ...any) {
	l.log.Error(fmt.Sprint(args...))
	os.Exit(1)
}
