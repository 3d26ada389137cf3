package httpapi

import (
	"fmt"
	"net"
	"net/http"
	"strings"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/isogloss/tarkov-search/internal/platform/observability"
	"github.com/isogloss/tarkov-search/internal/platform/resilience"
)

// clientID derives the rate-limiting identity for a request: the first
// X-Forwarded-For hop when present, otherwise the remote address host.
func clientID(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		if i := strings.IndexByte(fwd, ','); i >= 0 {
			return strings.TrimSpace(fwd[:i])
		}
		return strings.TrimSpace(fwd)
	}

	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// rateLimit rejects requests from clients that exhausted their window.
func (s *Server) rateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !s.limiter.Admit(clientID(r)) {
			if s.metrics != nil {
				s.metrics.RecordRateLimitRejection(r.Context())
			}
			respondError(w, http.StatusTooManyRequests, resilience.ErrRateLimitExceeded.Error())
			return
		}

		next.ServeHTTP(w, r)
	})
}

// statusRecorder captures the response status for span annotation.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// traceRequests wraps handlers in a server span when tracing is wired.
// Server-side failures are recorded on the span.
func (s *Server) traceRequests(next http.Handler) http.Handler {
	if s.tracer == nil {
		return next
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx, span := s.tracer.StartSpan(r.Context(), r.Method+" "+r.URL.Path,
			trace.WithSpanKind(trace.SpanKindServer),
			trace.WithAttributes(
				attribute.String("http.method", r.Method),
				attribute.String("http.target", r.URL.Path),
			),
		)

		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r.WithContext(ctx))

		span.SetAttributes(attribute.Int("http.status_code", rec.status))

		var err error
		if rec.status >= http.StatusInternalServerError {
			err = fmt.Errorf("request failed with status %d", rec.status)
		}
		observability.EndSpanWithError(span, err)
	})
}
