package middlewarex

import (
	"net/http"

	"shaftmatch/pkg/contextx"
)

const (
	headerNameTraceID = "X-Trace-Id"
	maxTraceIDLen     = 64
)

// TraceID reuses the caller's X-Trace-Id when it is present and short enough,
// otherwise it generates a new one. The id is echoed in the response headers.
func TraceID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		traceID := contextx.TraceID(r.Header.Get(headerNameTraceID))

		if traceID == "" || len(traceID) > maxTraceIDLen {
			traceID = contextx.NewTraceID()
		}

		w.Header().Set(headerNameTraceID, traceID.String())

		next.ServeHTTP(w, r.WithContext(contextx.WithTraceID(r.Context(), traceID)))
	})
}
