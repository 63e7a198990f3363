package telemetry

import (
	"net/http"
	"strconv"
	"time"
)

// --- Server-side middleware ---

// responseWriter wraps http.ResponseWriter to capture the status code
// written to the response, since the standard interface doesn't expose it.
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func newResponseWriter(w http.ResponseWriter) *responseWriter {
	return &responseWriter{w, http.StatusOK}
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// MetricsMiddleware records each request's path, method, and resulting
// status code as an HTTPRequestsTotal observation.
func MetricsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rw := newResponseWriter(w)
		next.ServeHTTP(rw, r)

		HTTPRequestsTotal.WithLabelValues(r.URL.Path, r.Method, strconv.Itoa(rw.statusCode)).Inc()
	})
}

// CORSMiddleware allows cross-origin GET requests from any origin, since
// the catalogue and station endpoints are read-only and meant for
// client-side map consumption.
func CORSMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		next.ServeHTTP(w, r)
	})
}

// --- Client-side middleware (RoundTripper) ---

// Transport wraps another RoundTripper to record the duration and outcome
// of outbound requests to an upstream service.
type Transport struct {
	Wrapped http.RoundTripper
	Service string
}

func (t *Transport) RoundTrip(req *http.Request) (*http.Response, error) {
	start := time.Now()
	resp, err := t.Wrapped.RoundTrip(req)
	duration := time.Since(start).Seconds()

	outcome := "ok"
	if err != nil || (resp != nil && resp.StatusCode >= 500) {
		outcome = "error"
	}
	ExternalRequestDuration.WithLabelValues(t.Service, outcome).Observe(duration)

	return resp, err
}
