package telemetry

import (
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mockHandler(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		w.WriteHeader(http.StatusOK)
		_, _ = io.WriteString(w, "OK")
	case http.MethodPost:
		w.WriteHeader(http.StatusNotFound)
		_, _ = io.WriteString(w, "Not Found")
	case http.MethodPut:
		_, _ = io.WriteString(w, "Implicit OK")
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
		_, _ = io.WriteString(w, "Method Not Allowed")
	}
}

func TestMetricsMiddleware(t *testing.T) {
	tests := []struct {
		name           string
		method         string
		path           string
		expectedStatus int
		expectedLabels prometheus.Labels
	}{
		{
			name:           "successful GET",
			method:         http.MethodGet,
			path:           "/stations",
			expectedStatus: http.StatusOK,
			expectedLabels: prometheus.Labels{"path": "/stations", "method": "GET", "code": "200"},
		},
		{
			name:           "not found POST",
			method:         http.MethodPost,
			path:           "/stations",
			expectedStatus: http.StatusNotFound,
			expectedLabels: prometheus.Labels{"path": "/stations", "method": "POST", "code": "404"},
		},
		{
			name:           "method not allowed DELETE",
			method:         http.MethodDelete,
			path:           "/admin/purge",
			expectedStatus: http.StatusMethodNotAllowed,
			expectedLabels: prometheus.Labels{"path": "/admin/purge", "method": "DELETE", "code": "405"},
		},
		{
			name:           "implicit OK for PUT",
			method:         http.MethodPut,
			path:           "/implicit",
			expectedStatus: http.StatusOK,
			expectedLabels: prometheus.Labels{"path": "/implicit", "method": "PUT", "code": "200"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			HTTPRequestsTotal.Reset()

			req := httptest.NewRequest(tt.method, tt.path, nil)
			rr := httptest.NewRecorder()

			handler := MetricsMiddleware(http.HandlerFunc(mockHandler))
			handler.ServeHTTP(rr, req)

			assert.Equal(t, tt.expectedStatus, rr.Code)

			counter := HTTPRequestsTotal.With(tt.expectedLabels)
			err := testutil.CollectAndCompare(counter, strings.NewReader(
				`# HELP saltyocean_http_requests_total Total number of HTTP requests by path, method and code.
				# TYPE saltyocean_http_requests_total counter
				saltyocean_http_requests_total{code="`+strconv.Itoa(tt.expectedStatus)+`",method="`+tt.method+`",path="`+tt.path+`"} 1
				`,
			), "saltyocean_http_requests_total")
			require.NoError(t, err)
		})
	}
}

func TestCORSMiddleware(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rr := httptest.NewRecorder()

	dummy := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	handler := CORSMiddleware(dummy)
	handler.ServeHTTP(rr, req)

	assert.Equal(t, "*", rr.Header().Get("Access-Control-Allow-Origin"))
}

type mockTransport struct {
	resp *http.Response
	err  error
}

func (t *mockTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	return t.resp, t.err
}

func TestTransport(t *testing.T) {
	tests := []struct {
		name            string
		transport       http.RoundTripper
		expectError     bool
		expectedOutcome string
	}{
		{
			name: "successful round trip",
			transport: &mockTransport{
				resp: &http.Response{StatusCode: http.StatusOK, Body: io.NopCloser(strings.NewReader("OK"))},
			},
			expectedOutcome: "ok",
		},
		{
			name:            "network error",
			transport:       &mockTransport{err: errors.New("network error")},
			expectError:     true,
			expectedOutcome: "error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ExternalRequestDuration.Reset()

			mt := &Transport{Wrapped: tt.transport, Service: "ndbc"}
			req := httptest.NewRequest(http.MethodGet, "http://testhost/api", nil)

			resp, err := mt.RoundTrip(req)

			if tt.expectError {
				assert.Error(t, err)
			} else {
				require.NoError(t, err)
				assert.Equal(t, http.StatusOK, resp.StatusCode)
			}

			observer := ExternalRequestDuration.WithLabelValues("ndbc", tt.expectedOutcome)
			metric := &dto.Metric{}
			require.NoError(t, observer.(prometheus.Metric).Write(metric))
			require.NotNil(t, metric.Histogram)
			assert.Equal(t, uint64(1), *metric.Histogram.SampleCount)
		})
	}
}
