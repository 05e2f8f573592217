package middlewarex_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"

	"shaftmatch/pkg/contextx"
	"shaftmatch/pkg/middlewarex"
)

func TestTraceID(t *testing.T) {
	testCases := []struct {
		name     string
		incoming string
		reused   bool
	}{
		{
			name:     "generated when absent",
			incoming: "",
		},
		{
			name:     "reused when present",
			incoming: "caller-trace-1",
			reused:   true,
		},
		{
			name:     "replaced when too long",
			incoming: strings.Repeat("x", 65),
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			rq := require.New(t)

			var seen contextx.TraceID

			h := middlewarex.TraceID(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
				traceID, err := contextx.TraceIDFromContext(r.Context())
				rq.NoError(err)

				seen = traceID
			}))

			r := httptest.NewRequest(http.MethodGet, "/", http.NoBody)
			if tc.incoming != "" {
				r.Header.Set("X-Trace-Id", tc.incoming)
			}

			w := httptest.NewRecorder()
			h.ServeHTTP(w, r)

			rq.NotEmpty(seen.String())
			rq.Equal(seen.String(), w.Header().Get("X-Trace-Id"))

			if tc.reused {
				rq.Equal(tc.incoming, seen.String())
			} else {
				rq.NotEqual(tc.incoming, seen.String())
			}
		})
	}
}

func TestRecovery(t *testing.T) {
	rq := require.New(t)

	h := middlewarex.TraceID(middlewarex.Recovery(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	})))

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", http.NoBody))

	rq.Equal(http.StatusInternalServerError, w.Code)
	rq.Contains(w.Body.String(), `"code":"InternalServerError"`)
	rq.Contains(w.Body.String(), w.Header().Get("X-Trace-Id"))
}

func TestRequestMetrics(t *testing.T) {
	rq := require.New(t)
	reg := prometheus.NewRegistry()

	r := chi.NewRouter()
	r.Use(middlewarex.RequestMetrics(reg, "test"))
	r.Get("/v1/shafts/{model}", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})
	r.Get("/ok", func(http.ResponseWriter, *http.Request) {})

	for _, path := range []string{"/v1/shafts/a", "/v1/shafts/b", "/ok"} {
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, path, http.NoBody))
	}

	expected := `
# HELP test_http_requests_total HTTP requests by route, method and status
# TYPE test_http_requests_total counter
test_http_requests_total{method="GET",route="/ok",status="200"} 1
test_http_requests_total{method="GET",route="/v1/shafts/{model}",status="404"} 2
`
	rq.NoError(testutil.GatherAndCompare(reg, strings.NewReader(expected), "test_http_requests_total"))
}
