package similarity

import (
	"fmt"
	"math"

	"shaftmatch/internal/domain"
	"shaftmatch/internal/domain/entity"
	"shaftmatch/internal/domain/value"
)

// Gate and tier tolerances, inclusive.
const (
	tipFlexTolerance      = 6
	cpmTolerance          = 6
	torqueTolerance       = 0.5
	balancePointTolerance = 0.5
	eiTightTolerance      = 5
	eiLooseTolerance      = 10
)

// ProfileLengthError is returned when two EI profiles cannot be compared
// sample by sample. It matches domain.ErrInvalidInput.
type ProfileLengthError struct {
	Reference int
	Candidate int
}

func (e *ProfileLengthError) Error() string {
	return fmt.Sprintf("ei profile length mismatch: reference has %d samples, candidate has %d", e.Reference, e.Candidate)
}

func (e *ProfileLengthError) Is(target error) bool {
	return target == domain.ErrInvalidInput
}

// Classify places candidate into a similarity tier relative to reference.
//
// Tip flex, CPM and torque are hard gates: if any of them is out of
// tolerance the pair is NotSimilar. Otherwise balance point and the EI
// profile decide between High, Medium and Low.
func Classify(reference, candidate entity.Shaft) (value.Tier, error) {
	if len(reference.EIProfile) != len(candidate.EIProfile) {
		return 0, &ProfileLengthError{
			Reference: len(reference.EIProfile),
			Candidate: len(candidate.EIProfile),
		}
	}

	tipFlexClose := within(reference.TipFlex, candidate.TipFlex, tipFlexTolerance)
	cpmClose := within(reference.CPM, candidate.CPM, cpmTolerance)
	torqueClose := within(reference.Torque, candidate.Torque, torqueTolerance)

	if !tipFlexClose || !cpmClose || !torqueClose {
		return value.NotSimilar, nil
	}

	balanceClose := within(reference.BalancePoint, candidate.BalancePoint, balancePointTolerance)
	eiWithin5 := profileWithin(reference.EIProfile, candidate.EIProfile, eiTightTolerance)
	eiWithin10 := profileWithin(reference.EIProfile, candidate.EIProfile, eiLooseTolerance)

	if balanceClose && eiWithin5 {
		return value.HighSimilarity, nil
	}

	if balanceClose && eiWithin10 {
		return value.MediumSimilarity, nil
	}

	return value.LowSimilarity, nil
}

func within(a, b, tolerance float64) bool {
	return math.Abs(a-b) <= tolerance
}

// profileWithin expects a and b to have equal length.
func profileWithin(a, b []float64, tolerance float64) bool {
	for i := range a {
		if !within(a[i], b[i], tolerance) {
			return false
		}
	}

	return true
}
