package server

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"git.appkode.ru/pub/go/failure"
	"github.com/go-chi/chi/v5"
	"github.com/samber/lo"

	"shaftmatch/internal/domain/entity"
	"shaftmatch/internal/domain/value"
	"shaftmatch/pkg/errcodes"
	"shaftmatch/pkg/httpx/reply"
	"shaftmatch/pkg/httpx/req"
	"shaftmatch/pkg/rest"
)

type shaftService interface {
	List(ctx context.Context) []entity.Shaft
	Get(ctx context.Context, model string) (entity.Shaft, error)
	Matches(ctx context.Context, model string) (entity.TieredMatches, error)
	Compare(ctx context.Context, models []string) ([]entity.Shaft, error)
}

type ShaftServer struct {
	shaftService shaftService
}

func NewShaftServer(shaftService shaftService) ShaftServer {
	return ShaftServer{
		shaftService: shaftService,
	}
}

func (s ShaftServer) getV1Shafts(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()

	reply.JSON(ctx, w, http.StatusOK, rest.ShaftList{
		Shafts: newRESTShafts(s.shaftService.List(ctx)),
	})

	return nil
}

func (s ShaftServer) getV1Shaft(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()

	model, err := modelParam(r)
	if err != nil {
		return err
	}

	shaft, err := s.shaftService.Get(ctx, model)
	if err != nil {
		return transportError(fmt.Errorf("shaftService.Get: %w", err))
	}

	reply.JSON(ctx, w, http.StatusOK, newRESTShaft(shaft))

	return nil
}

func (s ShaftServer) getV1ShaftMatches(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()

	model, err := modelParam(r)
	if err != nil {
		return err
	}

	groups, err := tierFilter(r.URL.Query()["tier"])
	if err != nil {
		return err
	}

	tiered, err := s.shaftService.Matches(ctx, model)
	if err != nil {
		return transportError(fmt.Errorf("shaftService.Matches: %w", err))
	}

	selected := tiered.Groups
	if len(groups) > 0 {
		selected = lo.Filter(tiered.Groups, func(g entity.TierGroup, _ int) bool {
			return lo.Contains(groups, g.Tier)
		})
	}

	reply.JSON(ctx, w, http.StatusOK, newRESTMatches(tiered, selected))

	return nil
}

func (s ShaftServer) getV1ShaftChart(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()

	model, err := modelParam(r)
	if err != nil {
		return err
	}

	tiered, err := s.shaftService.Matches(ctx, model)
	if err != nil {
		return transportError(fmt.Errorf("shaftService.Matches: %w", err))
	}

	reply.JSON(ctx, w, http.StatusOK, newChart(tiered.Reference, tiered.Charted()))

	return nil
}

func (s ShaftServer) postV1Comparisons(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()

	var request rest.ComparisonRequest

	if err := req.Read(r, &request); err != nil {
		return fmt.Errorf("req.Read: %w", err)
	}

	shafts, err := s.shaftService.Compare(ctx, request.Models)
	if err != nil {
		return transportError(fmt.Errorf("shaftService.Compare: %w", err))
	}

	reply.JSON(ctx, w, http.StatusOK, newRESTComparison(shafts))

	return nil
}

// modelParam reads the {model} path segment. Models may carry spaces and
// slashes, so the raw segment is unescaped when the router matched on RawPath.
func modelParam(r *http.Request) (string, error) {
	model := chi.URLParam(r, "model")
	if r.URL.RawPath == "" {
		return model, nil
	}

	unescaped, err := url.PathUnescape(model)
	if err != nil {
		return "", failure.NewInvalidArgumentErrorFromError(
			fmt.Errorf("url.PathUnescape: %w", err),
			failure.WithCode(errcodes.ValidationError),
			failure.WithDescription("Invalid shaft model"),
		)
	}

	return unescaped, nil
}

func tierFilter(slugs []string) ([]value.Tier, error) {
	tiers := make([]value.Tier, 0, len(slugs))

	for _, slug := range slugs {
		tier, err := value.ParseTier(slug)
		if err != nil {
			return nil, failure.NewInvalidArgumentErrorFromError(
				fmt.Errorf("value.ParseTier: %w", err),
				failure.WithCode(errcodes.InvalidTier),
				failure.WithDescription(fmt.Sprintf("Unknown tier %q", slug)),
			)
		}

		tiers = append(tiers, tier)
	}

	return tiers, nil
}
