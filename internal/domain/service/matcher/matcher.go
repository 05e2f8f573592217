// Package matcher applies the similarity classifier across a catalog.
package matcher

import (
	"fmt"

	"shaftmatch/internal/domain/entity"
	"shaftmatch/internal/domain/service/similarity"
	"shaftmatch/internal/domain/value"
)

// Match classifies every catalog shaft except the reference itself. The
// reference is excluded by model, so it does not need to be a catalog member.
// Results keep catalog order.
func Match(catalog *entity.Catalog, reference entity.Shaft) ([]entity.MatchResult, error) {
	results := make([]entity.MatchResult, 0, catalog.Len())

	for _, candidate := range catalog.All() {
		if candidate.Model == reference.Model {
			continue
		}

		tier, err := similarity.Classify(reference, candidate)
		if err != nil {
			return nil, fmt.Errorf("similarity.Classify(%q, %q): %w", reference.Model, candidate.Model, err)
		}

		results = append(results, entity.MatchResult{Shaft: candidate, Tier: tier})
	}

	return results, nil
}

// Group buckets results by tier in a single pass. Groups follow
// value.DisplayOrder and are always present, possibly empty; order inside a
// group is the order of results.
func Group(reference entity.Shaft, results []entity.MatchResult) entity.TieredMatches {
	groups := make([]entity.TierGroup, len(value.DisplayOrder))
	slot := make(map[value.Tier]int, len(value.DisplayOrder))

	for i, tier := range value.DisplayOrder {
		groups[i] = entity.TierGroup{Tier: tier, Matches: []entity.MatchResult{}}
		slot[tier] = i
	}

	for _, r := range results {
		i := slot[r.Tier]
		groups[i].Matches = append(groups[i].Matches, r)
	}

	return entity.TieredMatches{
		Reference: reference,
		Results:   results,
		Groups:    groups,
	}
}
