package tests

import (
	"math/rand"
	"time"
)

// Randomizer produces pseudo-random values for property style tests.
type Randomizer struct {
	Float64 func() float64
	Bool    func() bool
	Intn    func(n int) int
}

func NewRandomizer() Randomizer {
	return NewSeededRandomizer(time.Now().UnixNano())
}

func NewSeededRandomizer(seed int64) Randomizer {
	random := rand.New(rand.NewSource(seed)) //nolint:gosec // for tests

	return Randomizer{
		Float64: random.Float64,
		Bool:    func() bool { return random.Intn(2) == 0 }, //nolint:mnd // skip
		Intn:    random.Intn,
	}
}

// Between returns a value in [lo, hi).
func (r Randomizer) Between(lo, hi float64) float64 {
	return lo + r.Float64()*(hi-lo)
}
