package application

import (
	"context"
	"fmt"
	"net"
	"net/http"

	"github.com/hibiken/asynq"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"golang.org/x/sync/errgroup"

	"shaftmatch/internal/config"
	"shaftmatch/internal/domain/entity"
	service "shaftmatch/internal/domain/service/shaft"
	"shaftmatch/internal/infrastructure/persistence"
	"shaftmatch/internal/server"
	"shaftmatch/internal/worker"
	"shaftmatch/pkg/application/connectors"
	"shaftmatch/pkg/application/modules"
	"shaftmatch/pkg/contextx"
	"shaftmatch/pkg/logx"
	"shaftmatch/pkg/probe"
)

const metricsNamespace = "shaftmatch"

var logger = contextx.LoggerFromContextOrDefault //nolint:gochecknoglobals

// Run loads the catalog and serves the API, probe and metrics servers until
// ctx is cancelled or one of them fails.
func Run(ctx context.Context, cfg config.Config) error {
	catalog, err := LoadCatalog(ctx, cfg)
	if err != nil {
		return fmt.Errorf("LoadCatalog: %w", err)
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}), //nolint:exhaustruct
	)

	shaftService := service.NewShaftService(catalog).
		WithMemoTTL(cfg.Cache.TTL, cfg.Cache.CleanupInterval).
		WithMetrics(service.NewMetrics(registry))

	checks := map[string]probe.ReadinessCheck{
		"catalog": catalogCheck(catalog),
	}

	if cfg.Redis.Enabled() {
		rc := newRedis(cfg.Redis)
		defer rc.Close(ctx)

		client := rc.Client(ctx)

		matchCache, err := persistence.NewMatchCache(client, catalog, cfg.Redis.KeyPrefix, cfg.Redis.TTL)
		if err != nil {
			return fmt.Errorf("persistence.NewMatchCache: %w", err)
		}

		shaftService.WithSharedCache(matchCache)
		checks["redis"] = func(ctx context.Context) error { return client.Ping(ctx).Err() }
	}

	handler := server.NewRouter(
		server.NewServer(server.NewShaftServer(shaftService)),
		server.RouterOptions{
			AllowedOrigins:      cfg.HTTP.AllowedOrigins,
			SensitiveDataMasker: logx.NewSensitiveDataMasker().WithEnabled(cfg.HTTP.MaskSensitiveData),
			LogFieldMaxLen:      cfg.HTTP.LogFieldMaxLen,
			MetricsRegisterer:   registry,
			MetricsNamespace:    metricsNamespace,
		},
	)

	g, ctx := errgroup.WithContext(ctx)

	modules.HTTPServer{
		Name:            "api",
		ShutdownTimeout: cfg.HTTP.ShutdownTimeout,
	}.Run(ctx, g, &http.Server{
		//nolint:exhaustruct
		Addr:              cfg.HTTP.ListenAddress,
		Handler:           handler,
		ReadHeaderTimeout: cfg.HTTP.ReadHeaderTimeout,
		BaseContext: func(net.Listener) context.Context {
			return ctx
		},
	})

	modules.ProbeServer{
		Name:          cfg.App.Name,
		Version:       cfg.App.Version,
		ListenAddress: cfg.HTTP.ProbeListenAddress,
		Checks:        checks,
	}.Run(ctx, g)

	modules.MetricServer{
		ListenAddress: cfg.HTTP.MetricsListenAddress,
		Gatherer:      registry,
	}.Run(ctx, g)

	if cfg.Cache.WarmUp {
		warmer := worker.NewCacheWarmer(shaftService).
			WithRequestInterval(cfg.Cache.WarmUpRequestInterval).
			WithRefreshInterval(cfg.Cache.RefreshInterval)

		if cfg.Redis.Enabled() {
			asynqServer := newAsynqServer(cfg)

			client := asynq.NewClient(asynqServer.RedisClientOpt())
			defer client.Close()

			warmer.WithQueue(client, cfg.Cache.WarmUpQueue)

			asynqServer.Run(ctx, g, modules.AsynqHandler{
				Pattern: worker.TypeWarmMatches,
				Handle:  worker.NewWarmTaskHandler(shaftService).ProcessTask,
			})
		}

		g.Go(func() error {
			if err := warmer.Run(ctx); err != nil {
				return fmt.Errorf("cacheWarmer.Run: %w", err)
			}

			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return fmt.Errorf("errgroup.Wait: %w", err)
	}

	return nil
}

func catalogCheck(catalog *entity.Catalog) probe.ReadinessCheck {
	return func(context.Context) error {
		if catalog.Len() == 0 {
			return entity.ErrEmptyCatalog
		}

		return nil
	}
}

func newAsynqServer(cfg config.Config) modules.AsynqServer {
	return modules.AsynqServer{
		RedisUsername:   cfg.Redis.Username,
		RedisPassword:   cfg.Redis.Password,
		RedisAddress:    cfg.Redis.Address,
		RedisDB:         cfg.Redis.DatabaseNumber,
		Queues:          modules.AsynqQueues{cfg.Cache.WarmUpQueue: 1},
		Concurrency:     cfg.Cache.WarmUpConcurrency,
		ShutdownTimeout: cfg.HTTP.ShutdownTimeout,
	}
}

func newRedis(cfg config.Redis) *connectors.Redis {
	return &connectors.Redis{
		Address:            cfg.Address,
		Username:           cfg.Username,
		Password:           cfg.Password,
		DatabaseNumber:     cfg.DatabaseNumber,
		PoolSize:           cfg.PoolSize,
		MinIdleConnections: cfg.MinIdleConnections,
		MaxIdleConnections: cfg.MaxIdleConnections,
	}
}
