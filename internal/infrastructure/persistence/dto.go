package persistence

import (
	jsoniter "github.com/json-iterator/go"

	"shaftmatch/internal/domain/entity"
	"shaftmatch/internal/domain/value"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary //nolint:gochecknoglobals // skip

// shaftSchema maps a row of the shafts table.
type shaftSchema struct {
	Position     int     `db:"position"`
	Model        string  `db:"model"`
	Brand        string  `db:"brand"`
	Flex         string  `db:"flex"`
	Weight       float64 `db:"weight"`
	Torque       float64 `db:"torque"`
	BalancePoint float64 `db:"balance_point"`
	TipFlex      float64 `db:"tip_flex"`
	CPM          float64 `db:"cpm"`
	EIProfile    []byte  `db:"ei_profile"`
}

func fromShaft(position int, s entity.Shaft) (shaftSchema, error) {
	profile, err := json.Marshal(s.EIProfile)
	if err != nil {
		return shaftSchema{}, err
	}

	return shaftSchema{
		Position:     position,
		Model:        s.Model,
		Brand:        s.Brand,
		Flex:         s.Flex,
		Weight:       s.Weight,
		Torque:       s.Torque,
		BalancePoint: s.BalancePoint,
		TipFlex:      s.TipFlex,
		CPM:          s.CPM,
		EIProfile:    profile,
	}, nil
}

func (s shaftSchema) toDomain() (entity.Shaft, error) {
	var profile []float64
	if len(s.EIProfile) > 0 {
		if err := json.Unmarshal(s.EIProfile, &profile); err != nil {
			return entity.Shaft{}, err
		}
	}

	return entity.Shaft{
		Brand:        s.Brand,
		Model:        s.Model,
		Flex:         s.Flex,
		Weight:       s.Weight,
		Torque:       s.Torque,
		BalancePoint: s.BalancePoint,
		TipFlex:      s.TipFlex,
		CPM:          s.CPM,
		EIProfile:    profile,
	}, nil
}

// cachedMatch is the redis representation of a match result. Shafts are
// stored by key and resolved against the catalog on read.
type cachedMatch struct {
	Model string     `json:"model"`
	Tier  value.Tier `json:"tier"`
}
