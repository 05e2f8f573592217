package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus"

	"shaftmatch/pkg/httpx/reply"
	"shaftmatch/pkg/logx"
	"shaftmatch/pkg/middlewarex"
)

const corsMaxAge = 300

type RouterOptions struct {
	AllowedOrigins      []string
	SensitiveDataMasker logx.SensitiveDataMaskerInterface
	LogFieldMaxLen      int
	MetricsRegisterer   prometheus.Registerer
	MetricsNamespace    string
}

// NewRouter builds the public API handler with the full middleware chain.
func NewRouter(s Server, opts RouterOptions) http.Handler {
	r := chi.NewRouter()

	r.Use(cors.Handler(cors.Options{ //nolint:exhaustruct
		AllowedOrigins: opts.AllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Trace-Id"},
		ExposedHeaders: []string{"X-Trace-Id"},
		MaxAge:         corsMaxAge,
	}))
	r.Use(
		middlewarex.TraceID,
		middlewarex.Logger,
		middlewarex.Recovery,
		middlewarex.RequestMetrics(opts.MetricsRegisterer, opts.MetricsNamespace),
		middlewarex.RequestLogging(opts.SensitiveDataMasker, opts.LogFieldMaxLen),
		middlewarex.ResponseLogging(opts.SensitiveDataMasker, opts.LogFieldMaxLen),
	)

	s.RegisterRoutes(r)

	return r
}

func (s Server) RegisterRoutes(r chi.Router) {
	r.Route("/v1", func(r chi.Router) {
		r.Route("/shafts", func(r chi.Router) {
			r.Get("/", handler(s.getV1Shafts))
			r.Get("/{model}", handler(s.getV1Shaft))
			r.Get("/{model}/matches", handler(s.getV1ShaftMatches))
			r.Get("/{model}/chart", handler(s.getV1ShaftChart))
		})
		r.Post("/comparisons", handler(s.postV1Comparisons))
	})
}

func handler(f func(http.ResponseWriter, *http.Request) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := f(w, r); err != nil {
			reply.Error(r.Context(), w, err)
		}
	}
}
