package persistence

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/redis/go-redis/v9"

	"shaftmatch/internal/domain/entity"
)

// MatchCache keeps match results in redis so that several service replicas
// share work. Keys are namespaced by a fingerprint of the catalog contents,
// which makes entries of a different catalog unreachable.
type MatchCache struct {
	client    *redis.Client
	catalog   *entity.Catalog
	namespace string
	ttl       time.Duration
}

func NewMatchCache(client *redis.Client, catalog *entity.Catalog, prefix string, ttl time.Duration) (*MatchCache, error) {
	fingerprint, err := CatalogFingerprint(catalog)
	if err != nil {
		return nil, fmt.Errorf("CatalogFingerprint: %w", err)
	}

	return &MatchCache{
		client:    client,
		catalog:   catalog,
		namespace: prefix + ":matches:" + fingerprint,
		ttl:       ttl,
	}, nil
}

// CatalogFingerprint hashes the catalog records in order.
func CatalogFingerprint(catalog *entity.Catalog) (string, error) {
	raw, err := json.Marshal(catalog.All())
	if err != nil {
		return "", fmt.Errorf("json.Marshal: %w", err)
	}

	return strconv.FormatUint(xxhash.Sum64(raw), 16), nil
}

func (c *MatchCache) key(model string) string {
	return c.namespace + ":" + model
}

// Get returns the cached results for a reference model. A miss, or an entry
// naming shafts no longer in the catalog, reports ok == false.
func (c *MatchCache) Get(ctx context.Context, model string) ([]entity.MatchResult, bool, error) {
	raw, err := c.client.Get(ctx, c.key(model)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}

	if err != nil {
		return nil, false, fmt.Errorf("redis.Get: %w", err)
	}

	var cached []cachedMatch
	if err := json.Unmarshal(raw, &cached); err != nil {
		return nil, false, fmt.Errorf("json.Unmarshal: %w", err)
	}

	results := make([]entity.MatchResult, 0, len(cached))

	for _, m := range cached {
		shaft, ok := c.catalog.Get(m.Model)
		if !ok || !m.Tier.Valid() {
			return nil, false, nil
		}

		results = append(results, entity.MatchResult{Shaft: shaft, Tier: m.Tier})
	}

	return results, true, nil
}

func (c *MatchCache) Set(ctx context.Context, model string, results []entity.MatchResult) error {
	cached := make([]cachedMatch, len(results))
	for i, r := range results {
		cached[i] = cachedMatch{Model: r.Shaft.Model, Tier: r.Tier}
	}

	raw, err := json.Marshal(cached)
	if err != nil {
		return fmt.Errorf("json.Marshal: %w", err)
	}

	if err := c.client.Set(ctx, c.key(model), raw, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis.Set: %w", err)
	}

	return nil
}
