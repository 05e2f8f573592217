package server_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/samber/lo"
	"github.com/stretchr/testify/require"

	service "shaftmatch/internal/domain/service/shaft"
	"shaftmatch/internal/infrastructure/persistence"
	"shaftmatch/internal/server"
	"shaftmatch/pkg/errcodes"
	"shaftmatch/pkg/logx"
	"shaftmatch/pkg/rest"
	"shaftmatch/pkg/tests"
)

func setupServer(t *testing.T) tests.APIClient {
	t.Helper()

	catalog, err := persistence.LoadCatalogFile("../../data/shafts.json")
	require.NoError(t, err)

	handler := server.NewRouter(
		server.NewServer(server.NewShaftServer(service.NewShaftService(catalog))),
		server.RouterOptions{
			AllowedOrigins:      []string{"http://localhost:3000"},
			SensitiveDataMasker: logx.NewNopSensitiveDataMasker(),
			LogFieldMaxLen:      4096,
			MetricsRegisterer:   prometheus.NewRegistry(),
			MetricsNamespace:    "shaftmatch",
		},
	)

	ts := httptest.NewServer(handler)
	t.Cleanup(ts.Close)

	return tests.NewAPIClient(ts.URL, ts.Client())
}

func shaftPath(model string, suffix string) string {
	return "/v1/shafts/" + url.PathEscape(model) + suffix
}

func groupModels(groups []rest.TierGroup) map[string][]string {
	return lo.SliceToMap(groups, func(g rest.TierGroup) (string, []string) {
		return g.Tier, lo.Map(g.Matches, func(m rest.Match, _ int) string { return m.Shaft.Model })
	})
}

func TestGetV1Shafts(t *testing.T) {
	rq := require.New(t)
	client := setupServer(t)

	var list rest.ShaftList

	resp, err := client.Get(context.Background(), "/v1/shafts", nil, &list, nil)
	rq.NoError(err)
	rq.Equal(http.StatusOK, resp.StatusCode)

	rq.Len(list.Shafts, 10)
	rq.Equal("Ventus Blue 6", list.Shafts[0].Model)
	rq.Equal("Fujikura - Ventus Blue 6 (S)", list.Shafts[0].Label)
	rq.Equal("KBS - TD 60 (S)", list.Shafts[9].Label)
	rq.NotEmpty(resp.Header.Get("X-Trace-Id"))
}

func TestGetV1Shaft(t *testing.T) {
	testCases := []struct {
		name       string
		model      string
		statusCode int
		code       string
	}{
		{
			name:       "known model with spaces",
			model:      "Tensei 1K Pro White 65",
			statusCode: http.StatusOK,
		},
		{
			name:       "unknown model",
			model:      "Ventus Red 5",
			statusCode: http.StatusNotFound,
			code:       errcodes.ShaftNotFound.String(),
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			rq := require.New(t)
			client := setupServer(t)

			var (
				shaft   rest.Shaft
				errResp rest.Error
			)

			resp, err := client.Get(context.Background(), shaftPath(tc.model, ""), nil, &shaft, &errResp)
			rq.NoError(err)
			rq.Equal(tc.statusCode, resp.StatusCode)

			if tc.code != "" {
				rq.Equal(tc.code, string(errResp.Code))
				rq.NotEmpty(errResp.SupportID)

				return
			}

			rq.Equal(tc.model, shaft.Model)
			rq.Equal("Mitsubishi", shaft.Brand)
			rq.InDelta(66.5, shaft.Weight, 1e-9)
			rq.Len(shaft.EIProfile, 6)
		})
	}
}

func TestGetV1ShaftMatches(t *testing.T) {
	rq := require.New(t)
	client := setupServer(t)

	var matches rest.Matches

	resp, err := client.Get(context.Background(), shaftPath("Ventus Blue 6", "/matches"), nil, &matches, nil)
	rq.NoError(err)
	rq.Equal(http.StatusOK, resp.StatusCode)

	rq.Equal("Ventus Blue 6", matches.Reference.Model)
	rq.Equal([]string{"high", "medium", "low", "not_similar"}, lo.Map(matches.Groups, func(g rest.TierGroup, _ int) string { return g.Tier }))
	rq.Equal([]string{"High Similarity", "Medium Similarity", "Low Similarity", "Not Similar"}, lo.Map(matches.Groups, func(g rest.TierGroup, _ int) string { return g.Label }))

	rq.Equal(map[string][]string{
		"high":        {"Tensei AV Blue 65", "Tensei 1K Pro White 65"},
		"medium":      {"Tour AD IZ 6", "Diamana DF 60"},
		"low":         {"Tour AD DI 6", "Rogue White 130 MSI 60"},
		"not_similar": {"Ventus Black 6", "HZRDUS Smoke Black 60", "TD 60"},
	}, groupModels(matches.Groups))

	first := matches.Groups[0].Matches[0]
	rq.Equal("high", first.Tier)
	rq.Equal("Mitsubishi Tensei AV Blue 65 (S) – Weight: 66g, Torque: 3.4, Balance Point: 12.8, Tip Flex: 110, CPM: 258", first.Summary)
}

func TestGetV1ShaftMatchesTierFilter(t *testing.T) {
	testCases := []struct {
		name       string
		query      string
		statusCode int
		tiers      []string
		code       string
	}{
		{
			name:       "single tier",
			query:      "?tier=medium",
			statusCode: http.StatusOK,
			tiers:      []string{"medium"},
		},
		{
			name:       "several tiers keep display order",
			query:      "?tier=not_similar&tier=high",
			statusCode: http.StatusOK,
			tiers:      []string{"high", "not_similar"},
		},
		{
			name:       "unknown tier",
			query:      "?tier=perfect",
			statusCode: http.StatusBadRequest,
			code:       errcodes.InvalidTier.String(),
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			rq := require.New(t)
			client := setupServer(t)

			var (
				matches rest.Matches
				errResp rest.Error
			)

			resp, err := client.Get(context.Background(), shaftPath("Ventus Blue 6", "/matches"+tc.query), nil, &matches, &errResp)
			rq.NoError(err)
			rq.Equal(tc.statusCode, resp.StatusCode)

			if tc.code != "" {
				rq.Equal(tc.code, string(errResp.Code))
				return
			}

			rq.Equal(tc.tiers, lo.Map(matches.Groups, func(g rest.TierGroup, _ int) string { return g.Tier }))
		})
	}
}

func TestGetV1ShaftChart(t *testing.T) {
	rq := require.New(t)
	client := setupServer(t)

	var chart rest.Chart

	resp, err := client.Get(context.Background(), shaftPath("Ventus Blue 6", "/chart"), nil, &chart, nil)
	rq.NoError(err)
	rq.Equal(http.StatusOK, resp.StatusCode)

	rq.Equal([]string{"EI1", "EI2", "EI3", "EI4", "EI5", "EI6"}, chart.Labels)
	rq.Equal(
		[]string{"Ventus Blue 6", "Tensei AV Blue 65", "Tensei 1K Pro White 65", "Tour AD IZ 6", "Diamana DF 60"},
		lo.Map(chart.Datasets, func(d rest.ChartDataset, _ int) string { return d.Label }),
	)
	rq.Equal(
		[]string{"blue", "green", "orange", "gray", "purple"},
		lo.Map(chart.Datasets, func(d rest.ChartDataset, _ int) string { return d.BorderColor }),
	)
	rq.Equal([]float64{320, 295, 260, 225, 185, 150}, chart.Datasets[0].Data)
}

func TestPostV1Comparisons(t *testing.T) {
	testCases := []struct {
		name       string
		request    string
		statusCode int
		models     []string
		colors     []string
		code       string
	}{
		{
			name:       "catalog order and unconditional overlays",
			request:    `{"models":["TD 60","Ventus Blue 6","Tour AD DI 6"]}`,
			statusCode: http.StatusOK,
			models:     []string{"Ventus Blue 6", "Tour AD DI 6", "TD 60"},
			colors:     []string{"blue", "green", "orange"},
		},
		{
			name:       "single shaft",
			request:    `{"models":["Diamana DF 60"]}`,
			statusCode: http.StatusOK,
			models:     []string{"Diamana DF 60"},
			colors:     []string{"blue"},
		},
		{
			name:       "unknown model",
			request:    `{"models":["Ventus Blue 6","Ventus Red 5"]}`,
			statusCode: http.StatusNotFound,
			code:       errcodes.ShaftNotFound.String(),
		},
		{
			name:       "empty selection",
			request:    `{"models":[]}`,
			statusCode: http.StatusBadRequest,
			code:       errcodes.ValidationError.String(),
		},
		{
			name:       "malformed body",
			request:    `{"models":`,
			statusCode: http.StatusBadRequest,
			code:       errcodes.ValidationError.String(),
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			rq := require.New(t)
			client := setupServer(t)

			var (
				comparison rest.Comparison
				errResp    rest.Error
			)

			resp, err := client.PostJSON(context.Background(), "/v1/comparisons", nil, tc.request, &comparison, &errResp)
			rq.NoError(err)
			rq.Equal(tc.statusCode, resp.StatusCode)

			if tc.code != "" {
				rq.Equal(tc.code, string(errResp.Code))
				return
			}

			rq.Equal(tc.models, lo.Map(comparison.Shafts, func(i rest.ComparisonItem, _ int) string { return i.Shaft.Model }))
			rq.Equal(tc.models, lo.Map(comparison.Chart.Datasets, func(d rest.ChartDataset, _ int) string { return d.Label }))
			rq.Equal(tc.colors, lo.Map(comparison.Chart.Datasets, func(d rest.ChartDataset, _ int) string { return d.BorderColor }))
			rq.Len(comparison.Chart.Labels, 6)

			for _, item := range comparison.Shafts {
				rq.Contains(item.Summary, item.Shaft.Model)
			}
		})
	}
}

func TestCORSPreflight(t *testing.T) {
	rq := require.New(t)
	client := setupServer(t)

	headers := http.Header{}
	headers.Set("Origin", "http://localhost:3000")
	headers.Set("Access-Control-Request-Method", http.MethodPost)

	resp, err := client.Options(context.Background(), "/v1/comparisons", headers)
	rq.NoError(err)
	rq.Equal("http://localhost:3000", resp.Header.Get("Access-Control-Allow-Origin"))
}
