package server

import (
	"errors"

	"git.appkode.ru/pub/go/failure"
	"github.com/samber/lo"

	"shaftmatch/internal/domain"
	"shaftmatch/internal/domain/entity"
	"shaftmatch/pkg/errcodes"
	"shaftmatch/pkg/rest"
)

func newRESTShaft(shaft entity.Shaft) rest.Shaft {
	return rest.Shaft{
		Brand:        shaft.Brand,
		Model:        shaft.Model,
		Flex:         shaft.Flex,
		Weight:       shaft.Weight,
		Torque:       shaft.Torque,
		BalancePoint: shaft.BalancePoint,
		TipFlex:      shaft.TipFlex,
		CPM:          shaft.CPM,
		EIProfile:    shaft.EIProfile,
		Label:        shaft.Label(),
	}
}

func newRESTShafts(shafts []entity.Shaft) []rest.Shaft {
	return lo.Map(shafts, func(s entity.Shaft, _ int) rest.Shaft { return newRESTShaft(s) })
}

func newRESTMatches(tiered entity.TieredMatches, groups []entity.TierGroup) rest.Matches {
	return rest.Matches{
		Reference: newRESTShaft(tiered.Reference),
		Groups: lo.Map(groups, func(g entity.TierGroup, _ int) rest.TierGroup {
			return rest.TierGroup{
				Tier:  g.Tier.Slug(),
				Label: g.Tier.String(),
				Matches: lo.Map(g.Matches, func(m entity.MatchResult, _ int) rest.Match {
					return rest.Match{
						Shaft:   newRESTShaft(m.Shaft),
						Tier:    m.Tier.Slug(),
						Summary: m.Shaft.Summary(),
					}
				}),
			}
		}),
	}
}

func newRESTComparison(shafts []entity.Shaft) rest.Comparison {
	return rest.Comparison{
		Shafts: lo.Map(shafts, func(s entity.Shaft, _ int) rest.ComparisonItem {
			return rest.ComparisonItem{
				Shaft:   newRESTShaft(s),
				Summary: s.Summary(),
			}
		}),
		Chart: newChart(shafts[0], shafts[1:]),
	}
}

// transportError turns domain errors into failure classes understood by reply.Error.
func transportError(err error) error {
	code, ok := domain.GetCode(err)
	if !ok {
		return err
	}

	var appErr *domain.AppError
	errors.As(err, &appErr)

	switch {
	case code == errcodes.ShaftNotFound:
		return failure.NewNotFoundError(
			err.Error(),
			failure.WithCode(code),
			failure.WithDescription(appErr.Message),
		)
	case errors.Is(err, domain.ErrInvalidInput):
		return failure.NewInvalidArgumentErrorFromError(
			err,
			failure.WithCode(errcodes.InvalidInput),
			failure.WithDescription(appErr.Message),
		)
	default:
		return err
	}
}
