package entity

import "shaftmatch/internal/domain/value"

// MatchResult pairs a candidate with its tier relative to a reference shaft.
type MatchResult struct {
	Shaft Shaft
	Tier  value.Tier
}

type TierGroup struct {
	Tier    value.Tier
	Matches []MatchResult
}

// TieredMatches is the outcome of matching one reference against a catalog.
// Results keeps catalog order; Groups holds the same results bucketed in
// display order.
type TieredMatches struct {
	Reference Shaft
	Results   []MatchResult
	Groups    []TierGroup
}

// Group returns the matches of a single tier.
func (t TieredMatches) Group(tier value.Tier) []MatchResult {
	for _, g := range t.Groups {
		if g.Tier == tier {
			return g.Matches
		}
	}

	return nil
}

// Charted returns the candidates drawn next to the reference on the EI chart:
// High and Medium tiers, in catalog order.
func (t TieredMatches) Charted() []Shaft {
	var charted []Shaft

	for _, r := range t.Results {
		if r.Tier == value.HighSimilarity || r.Tier == value.MediumSimilarity {
			charted = append(charted, r.Shaft)
		}
	}

	return charted
}
