package httpx

import (
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httputil"
	"time"

	"shaftmatch/pkg/contextx"
	"shaftmatch/pkg/logx"
)

const HeaderTraceID = "X-Trace-Id"

var logger = contextx.LoggerFromContextOrDefault //nolint:gochecknoglobals

// LoggingRoundTripper logs outgoing requests and their responses. Every
// request carries an X-Trace-Id header so client and server log lines can be
// joined; an id already set by the caller is kept.
type LoggingRoundTripper struct {
	next                http.RoundTripper
	sensitiveDataMasker logx.SensitiveDataMaskerInterface
	logFieldMaxLen      int
}

// NewLoggingRoundTripper wraps next, or http.DefaultTransport when next is
// nil. A zero logFieldMaxLen disables truncation.
func NewLoggingRoundTripper(
	next http.RoundTripper,
	sensitiveDataMasker logx.SensitiveDataMaskerInterface,
	logFieldMaxLen int,
) LoggingRoundTripper {
	if next == nil {
		next = http.DefaultTransport
	}

	if sensitiveDataMasker == nil {
		sensitiveDataMasker = logx.NewNopSensitiveDataMasker()
	}

	return LoggingRoundTripper{
		next:                next,
		sensitiveDataMasker: sensitiveDataMasker,
		logFieldMaxLen:      logFieldMaxLen,
	}
}

func (rt LoggingRoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	ctx := req.Context()

	traceID := req.Header.Get(HeaderTraceID)
	if traceID == "" {
		var id contextx.TraceID

		ctx, id = contextx.EnsureTraceID(ctx)
		traceID = id.String()

		req = req.Clone(ctx)
		req.Header.Set(HeaderTraceID, traceID)
	}

	log := logger(ctx).With(slog.String(logx.FieldTraceID, traceID))

	reqBytes, err := httputil.DumpRequestOut(req, true)
	if err != nil {
		log.Error("httputil.DumpRequestOut", logx.Error(err))
	}

	log.Info(
		logx.FieldHTTPRequest,
		slog.String(logx.FieldRequestBody, string(rt.sensitiveDataMasker.Mask(rt.truncate(reqBytes)))),
	)

	start := time.Now()

	resp, err := rt.next.RoundTrip(req)
	if err != nil {
		return nil, fmt.Errorf("next.RoundTrip: %w", err)
	}

	respBytes, err := httputil.DumpResponse(resp, true)
	if err != nil {
		log.Error("httputil.DumpResponse", logx.Error(err))
	}

	log.Info(
		logx.FieldHTTPResponse,
		slog.Int(logx.FieldResponseStatus, resp.StatusCode),
		slog.String(logx.FieldResponseBody, string(rt.sensitiveDataMasker.Mask(rt.truncate(respBytes)))),
		slog.Int64(logx.FieldDurationMs, time.Since(start).Milliseconds()),
	)

	return resp, nil
}

func (rt LoggingRoundTripper) truncate(dump []byte) []byte {
	if rt.logFieldMaxLen != 0 && len(dump) > rt.logFieldMaxLen {
		return dump[:rt.logFieldMaxLen]
	}

	return dump
}
