package entity

import (
	"fmt"
	"slices"
	"strconv"
)

// Shaft is a single catalog record. Shafts are read-only once a Catalog has
// been built from them.
type Shaft struct {
	Brand        string    `json:"brand" db:"brand" validate:"required"`
	Model        string    `json:"model" db:"model" validate:"required"`
	Flex         string    `json:"flex" db:"flex"`
	Weight       float64   `json:"weight" db:"weight" validate:"gt=0"` // grams
	Torque       float64   `json:"torque" db:"torque" validate:"gt=0"` // degrees
	BalancePoint float64   `json:"balance_point" db:"balance_point"`
	TipFlex      float64   `json:"tip_flex" db:"tip_flex"`
	CPM          float64   `json:"cpm" db:"cpm"`
	EIProfile    []float64 `json:"ei_profile" db:"ei_profile" validate:"required,min=1"`
}

// Label is the dropdown text, e.g. "Fujikura - Ventus Blue 6 (S)".
func (s Shaft) Label() string {
	return fmt.Sprintf("%s - %s (%s)", s.Brand, s.Model, s.Flex)
}

// Summary is the one-line spec sheet shown next to a match.
func (s Shaft) Summary() string {
	return fmt.Sprintf("%s %s (%s) – Weight: %sg, Torque: %s, Balance Point: %s, Tip Flex: %s, CPM: %s",
		s.Brand, s.Model, s.Flex,
		formatNumber(s.Weight),
		formatNumber(s.Torque),
		formatNumber(s.BalancePoint),
		formatNumber(s.TipFlex),
		formatNumber(s.CPM),
	)
}

func (s Shaft) clone() Shaft {
	s.EIProfile = slices.Clone(s.EIProfile)
	return s
}

// formatNumber prints plain decimals without exponent or trailing zeros, so
// 65 stays "65" and 0.00001 stays "0.00001".
func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
