package value

import (
	"errors"
	"fmt"
)

var ErrUnknownTier = errors.New("unknown tier")

// Tier is a similarity class between a reference and a candidate shaft.
// Larger values are stronger; the zero value is not a valid tier.
type Tier int

const (
	NotSimilar Tier = iota + 1
	LowSimilarity
	MediumSimilarity
	HighSimilarity
)

// DisplayOrder lists every tier from strongest to weakest.
var DisplayOrder = [...]Tier{HighSimilarity, MediumSimilarity, LowSimilarity, NotSimilar} //nolint:gochecknoglobals

// String returns the human readable label, e.g. "High Similarity".
func (t Tier) String() string {
	switch t {
	case HighSimilarity:
		return "High Similarity"
	case MediumSimilarity:
		return "Medium Similarity"
	case LowSimilarity:
		return "Low Similarity"
	case NotSimilar:
		return "Not Similar"
	default:
		return fmt.Sprintf("Tier(%d)", int(t))
	}
}

// Slug is the stable machine name used in URLs and serialized payloads.
func (t Tier) Slug() string {
	switch t {
	case HighSimilarity:
		return "high"
	case MediumSimilarity:
		return "medium"
	case LowSimilarity:
		return "low"
	case NotSimilar:
		return "not_similar"
	default:
		return ""
	}
}

func (t Tier) Valid() bool {
	return t >= NotSimilar && t <= HighSimilarity
}

// StrongerThan reports whether t ranks above other.
func (t Tier) StrongerThan(other Tier) bool {
	return t > other
}

func ParseTier(s string) (Tier, error) {
	for _, t := range DisplayOrder {
		if s == t.Slug() {
			return t, nil
		}
	}

	return 0, fmt.Errorf("%w: %q", ErrUnknownTier, s)
}

func (t Tier) MarshalText() ([]byte, error) {
	if !t.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownTier, int(t))
	}

	return []byte(t.Slug()), nil
}

func (t *Tier) UnmarshalText(text []byte) error {
	parsed, err := ParseTier(string(text))
	if err != nil {
		return err
	}

	*t = parsed

	return nil
}
