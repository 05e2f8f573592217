package value_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"shaftmatch/internal/domain/value"
)

func TestTierOrdering(t *testing.T) {
	rq := require.New(t)

	rq.True(value.HighSimilarity.StrongerThan(value.MediumSimilarity))
	rq.True(value.MediumSimilarity.StrongerThan(value.LowSimilarity))
	rq.True(value.LowSimilarity.StrongerThan(value.NotSimilar))
	rq.False(value.NotSimilar.StrongerThan(value.NotSimilar))

	for i := 1; i < len(value.DisplayOrder); i++ {
		rq.True(value.DisplayOrder[i-1].StrongerThan(value.DisplayOrder[i]))
	}
}

func TestTierText(t *testing.T) {
	rq := require.New(t)

	testCases := []struct {
		tier  value.Tier
		label string
		slug  string
	}{
		{tier: value.HighSimilarity, label: "High Similarity", slug: "high"},
		{tier: value.MediumSimilarity, label: "Medium Similarity", slug: "medium"},
		{tier: value.LowSimilarity, label: "Low Similarity", slug: "low"},
		{tier: value.NotSimilar, label: "Not Similar", slug: "not_similar"},
	}

	for _, tc := range testCases {
		t.Run(tc.slug, func(*testing.T) {
			rq.Equal(tc.label, tc.tier.String())

			text, err := tc.tier.MarshalText()
			rq.NoError(err)
			rq.Equal(tc.slug, string(text))

			var parsed value.Tier

			rq.NoError(parsed.UnmarshalText(text))
			rq.Equal(tc.tier, parsed)
		})
	}
}

func TestParseTierUnknown(t *testing.T) {
	rq := require.New(t)

	_, err := value.ParseTier("excellent")
	rq.ErrorIs(err, value.ErrUnknownTier)

	var zero value.Tier

	rq.False(zero.Valid())

	_, err = zero.MarshalText()
	rq.ErrorIs(err, value.ErrUnknownTier)
}
