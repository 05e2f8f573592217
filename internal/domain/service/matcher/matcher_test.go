package matcher_test

import (
	"fmt"
	"testing"

	"github.com/samber/lo"
	"github.com/stretchr/testify/require"

	"shaftmatch/internal/domain"
	"shaftmatch/internal/domain/entity"
	"shaftmatch/internal/domain/service/matcher"
	"shaftmatch/internal/domain/value"
	"shaftmatch/pkg/tests"
)

func shaft(model string, tipFlex, balance float64, profile ...float64) entity.Shaft {
	return entity.Shaft{
		Brand:        "Brand",
		Model:        model,
		Flex:         "S",
		Weight:       65,
		Torque:       3.5,
		BalancePoint: balance,
		TipFlex:      tipFlex,
		CPM:          240,
		EIProfile:    profile,
	}
}

func testCatalog(t *testing.T) *entity.Catalog {
	t.Helper()

	c, err := entity.NewCatalog([]entity.Shaft{
		shaft("low-1", 100, 13.0, 100, 200, 300),
		shaft("ref", 100, 12.0, 100, 200, 300),
		shaft("medium-1", 100, 12.2, 108, 208, 308),
		shaft("high-1", 100, 12.4, 104, 204, 304),
		shaft("not-1", 107, 12.0, 100, 200, 300),
		shaft("high-2", 101, 12.0, 100, 200, 300),
		shaft("medium-2", 100, 12.0, 110, 200, 300),
	})
	require.NoError(t, err)

	return c
}

func models(results []entity.MatchResult) []string {
	return lo.Map(results, func(r entity.MatchResult, _ int) string { return r.Shaft.Model })
}

func TestMatch(t *testing.T) {
	rq := require.New(t)
	c := testCatalog(t)

	reference, ok := c.Get("ref")
	rq.True(ok)

	results, err := matcher.Match(c, reference)
	rq.NoError(err)

	rq.Len(results, c.Len()-1)
	rq.NotContains(models(results), "ref")
	rq.Equal([]string{"low-1", "medium-1", "high-1", "not-1", "high-2", "medium-2"}, models(results))

	tiers := lo.Map(results, func(r entity.MatchResult, _ int) value.Tier { return r.Tier })
	rq.Equal([]value.Tier{
		value.LowSimilarity,
		value.MediumSimilarity,
		value.HighSimilarity,
		value.NotSimilar,
		value.HighSimilarity,
		value.MediumSimilarity,
	}, tiers)
}

func TestMatchExcludesByKey(t *testing.T) {
	rq := require.New(t)
	c := testCatalog(t)

	// Same key with different data is still the reference.
	reference := shaft("ref", 90, 10, 1, 2, 3)

	results, err := matcher.Match(c, reference)
	rq.NoError(err)
	rq.Len(results, c.Len()-1)
	rq.NotContains(models(results), "ref")

	// A structural twin under another key is a candidate.
	twin, _ := c.Get("ref")
	twin.Model = "outsider"

	results, err = matcher.Match(c, twin)
	rq.NoError(err)
	rq.Len(results, c.Len())
	rq.Contains(models(results), "ref")
}

func TestMatchProfileLengthMismatch(t *testing.T) {
	rq := require.New(t)
	c := testCatalog(t)

	_, err := matcher.Match(c, shaft("short", 100, 12, 100, 200))
	rq.ErrorIs(err, domain.ErrInvalidInput)
	rq.ErrorContains(err, `"short"`)
}

func TestGroup(t *testing.T) {
	rq := require.New(t)
	c := testCatalog(t)

	reference, _ := c.Get("ref")

	results, err := matcher.Match(c, reference)
	rq.NoError(err)

	tiered := matcher.Group(reference, results)

	rq.Equal(reference, tiered.Reference)
	rq.Equal(results, tiered.Results)
	rq.Len(tiered.Groups, 4)

	for i, tier := range value.DisplayOrder {
		rq.Equal(tier, tiered.Groups[i].Tier)
	}

	rq.Equal([]string{"high-1", "high-2"}, models(tiered.Group(value.HighSimilarity)))
	rq.Equal([]string{"medium-1", "medium-2"}, models(tiered.Group(value.MediumSimilarity)))
	rq.Equal([]string{"low-1"}, models(tiered.Group(value.LowSimilarity)))
	rq.Equal([]string{"not-1"}, models(tiered.Group(value.NotSimilar)))

	charted := lo.Map(tiered.Charted(), func(s entity.Shaft, _ int) string { return s.Model })
	rq.Equal([]string{"medium-1", "high-1", "high-2", "medium-2"}, charted)
}

func TestGroupEmpty(t *testing.T) {
	rq := require.New(t)

	tiered := matcher.Group(shaft("solo", 100, 12, 1), nil)

	rq.Len(tiered.Groups, 4)

	for _, g := range tiered.Groups {
		rq.NotNil(g.Matches)
		rq.Empty(g.Matches)
	}

	rq.Empty(tiered.Charted())
}

func TestMatchCompleteness(t *testing.T) {
	rq := require.New(t)
	r := tests.NewSeededRandomizer(42)

	shafts := make([]entity.Shaft, 40)
	for i := range shafts {
		shafts[i] = shaft(
			fmt.Sprintf("model-%02d", i),
			r.Between(95, 105),
			r.Between(11.5, 12.5),
			r.Between(60, 70), r.Between(60, 70), r.Between(60, 70), r.Between(60, 70),
		)
	}

	c, err := entity.NewCatalog(shafts)
	rq.NoError(err)

	for _, reference := range c.All() {
		results, err := matcher.Match(c, reference)
		rq.NoError(err)
		rq.Len(results, c.Len()-1)

		tiered := matcher.Group(reference, results)

		total := 0
		for _, g := range tiered.Groups {
			total += len(g.Matches)

			for _, m := range g.Matches {
				rq.Equal(g.Tier, m.Tier)
				rq.NotEqual(reference.Model, m.Shaft.Model)
			}
		}

		rq.Equal(len(results), total)
	}
}
