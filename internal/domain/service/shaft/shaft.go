package service

import (
	"cmp"
	"context"
	"fmt"
	"log/slog"
	"slices"
	"time"

	"github.com/patrickmn/go-cache"
	"github.com/samber/lo"

	"shaftmatch/internal/domain"
	"shaftmatch/internal/domain/entity"
	"shaftmatch/internal/domain/service/matcher"
	"shaftmatch/pkg/contextx"
	"shaftmatch/pkg/errcodes"
	"shaftmatch/pkg/logx"
	"shaftmatch/pkg/lox"
)

const (
	defaultMemoTTL     = 10 * time.Minute
	defaultMemoCleanup = 30 * time.Minute
	cacheLayerMemory   = "memory"
	cacheLayerShared   = "shared"
)

var logger = contextx.LoggerFromContextOrDefault //nolint:gochecknoglobals

// SharedMatchCache stores match results outside the process.
type SharedMatchCache interface {
	Get(ctx context.Context, model string) ([]entity.MatchResult, bool, error)
	Set(ctx context.Context, model string, results []entity.MatchResult) error
}

// ShaftService answers catalog and matching queries. The catalog never
// changes, so memoized match results stay valid for the life of the service.
type ShaftService struct {
	catalog *entity.Catalog
	memo    *cache.Cache
	shared  SharedMatchCache
	metrics *Metrics
}

func NewShaftService(catalog *entity.Catalog) *ShaftService {
	return &ShaftService{
		catalog: catalog,
		memo:    cache.New(defaultMemoTTL, defaultMemoCleanup),
	}
}

func (s *ShaftService) WithMemoTTL(ttl, cleanupInterval time.Duration) *ShaftService {
	s.memo = cache.New(ttl, cleanupInterval)
	return s
}

func (s *ShaftService) WithSharedCache(shared SharedMatchCache) *ShaftService {
	s.shared = shared
	return s
}

func (s *ShaftService) WithMetrics(metrics *Metrics) *ShaftService {
	s.metrics = metrics
	return s
}

// List returns the catalog in its original order.
func (s *ShaftService) List(context.Context) []entity.Shaft {
	return s.catalog.All()
}

func (s *ShaftService) Get(_ context.Context, model string) (entity.Shaft, error) {
	shaft, ok := s.catalog.Get(model)
	if !ok {
		return entity.Shaft{}, domain.NewError(errcodes.ShaftNotFound, fmt.Sprintf("shaft %q not found", model))
	}

	return shaft, nil
}

// Matches classifies the catalog against the shaft with the given model.
func (s *ShaftService) Matches(ctx context.Context, model string) (entity.TieredMatches, error) {
	reference, err := s.Get(ctx, model)
	if err != nil {
		return entity.TieredMatches{}, err
	}

	if cached, found := s.memo.Get(model); found {
		s.metrics.observeLookup(cacheLayerMemory, true)
		return cached.(entity.TieredMatches), nil //nolint:forcetypeassert
	}

	s.metrics.observeLookup(cacheLayerMemory, false)

	results, err := s.sharedResults(ctx, model)
	if err != nil {
		return entity.TieredMatches{}, err
	}

	if results == nil {
		results, err = s.match(ctx, reference)
		if err != nil {
			return entity.TieredMatches{}, err
		}
	}

	tiered := matcher.Group(reference, results)
	s.memo.Set(model, tiered, cache.DefaultExpiration)

	return tiered, nil
}

// Warm recomputes the matches of model and stores them in every cache layer
// with a fresh expiry. Reads are skipped: go-cache and redis do not extend an
// entry's lifetime on Get.
func (s *ShaftService) Warm(ctx context.Context, model string) error {
	reference, err := s.Get(ctx, model)
	if err != nil {
		return err
	}

	results, err := s.match(ctx, reference)
	if err != nil {
		return err
	}

	s.memo.Set(model, matcher.Group(reference, results), cache.DefaultExpiration)

	return nil
}

// sharedResults returns nil results on a miss. Shared cache failures are
// logged and treated as misses.
func (s *ShaftService) sharedResults(ctx context.Context, model string) ([]entity.MatchResult, error) {
	if s.shared == nil {
		return nil, nil
	}

	results, found, err := s.shared.Get(ctx, model)
	if err != nil {
		logger(ctx).Warn("shared match cache read failed",
			slog.String(logx.FieldModel, model),
			logx.Error(err),
		)

		return nil, nil
	}

	s.metrics.observeLookup(cacheLayerShared, found)

	if !found {
		return nil, nil
	}

	return results, nil
}

func (s *ShaftService) match(ctx context.Context, reference entity.Shaft) ([]entity.MatchResult, error) {
	start := time.Now()

	results, err := matcher.Match(s.catalog, reference)
	if err != nil {
		return nil, domain.WrapError(err, errcodes.InvalidInput, "failed to match catalog")
	}

	elapsed := time.Since(start)
	s.metrics.observeMatch(results, elapsed)

	logger(ctx).Debug("catalog matched",
		slog.String(logx.FieldModel, reference.Model),
		slog.Int(logx.FieldMatches, len(results)),
		slog.Int64(logx.FieldDurationMs, elapsed.Milliseconds()),
	)

	if s.shared != nil {
		if err := s.shared.Set(ctx, reference.Model, results); err != nil {
			logger(ctx).Warn("shared match cache write failed",
				slog.String(logx.FieldModel, reference.Model),
				logx.Error(err),
			)
		}
	}

	return results, nil
}

// Compare returns the selected shafts in catalog order, without any
// classification. Repeated models are returned once.
func (s *ShaftService) Compare(ctx context.Context, models []string) ([]entity.Shaft, error) {
	shafts, err := lox.MapErr(lo.Uniq(models), func(model string) (entity.Shaft, error) {
		return s.Get(ctx, model)
	})
	if err != nil {
		return nil, err
	}

	slices.SortFunc(shafts, func(a, b entity.Shaft) int {
		return cmp.Compare(s.catalog.Position(a.Model), s.catalog.Position(b.Model))
	})

	return shafts, nil
}
