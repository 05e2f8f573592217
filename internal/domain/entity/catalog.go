package entity

import (
	"errors"
	"fmt"
)

var (
	ErrDuplicateModel = errors.New("duplicate model")
	ErrProfileLength  = errors.New("ei profile length differs from catalog")
	ErrEmptyCatalog   = errors.New("catalog is empty")
)

// Catalog is the ordered, immutable set of known shafts keyed by model.
type Catalog struct {
	shafts     []Shaft
	index      map[string]int
	profileLen int
}

// NewCatalog builds a catalog preserving the order of shafts. Models must be
// unique and every EI profile must have the same number of samples.
func NewCatalog(shafts []Shaft) (*Catalog, error) {
	if len(shafts) == 0 {
		return nil, ErrEmptyCatalog
	}

	c := &Catalog{
		shafts:     make([]Shaft, len(shafts)),
		index:      make(map[string]int, len(shafts)),
		profileLen: len(shafts[0].EIProfile),
	}

	for i, s := range shafts {
		if _, ok := c.index[s.Model]; ok {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateModel, s.Model)
		}

		if len(s.EIProfile) != c.profileLen {
			return nil, fmt.Errorf("%w: %q has %d samples, want %d", ErrProfileLength, s.Model, len(s.EIProfile), c.profileLen)
		}

		c.shafts[i] = s.clone()
		c.index[s.Model] = i
	}

	return c, nil
}

// All returns a copy of the shafts in catalog order.
func (c *Catalog) All() []Shaft {
	shafts := make([]Shaft, len(c.shafts))
	for i, s := range c.shafts {
		shafts[i] = s.clone()
	}

	return shafts
}

func (c *Catalog) Get(model string) (Shaft, bool) {
	i, ok := c.index[model]
	if !ok {
		return Shaft{}, false
	}

	return c.shafts[i].clone(), true
}

// Position reports the catalog index of model, or -1.
func (c *Catalog) Position(model string) int {
	i, ok := c.index[model]
	if !ok {
		return -1
	}

	return i
}

func (c *Catalog) Len() int {
	return len(c.shafts)
}

// ProfileLen is the EI sample count shared by every shaft in the catalog.
func (c *Catalog) ProfileLen() int {
	return c.profileLen
}
