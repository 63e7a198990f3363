package httpapi

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/cor0nius/saltyocean/internal/telemetry"
)

// NewRouter builds the full HTTP handler for the service: routes wrapped
// in CORS and metrics middleware, plus the Prometheus scrape endpoint.
func NewRouter(api *API) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /stations", api.handlerStations)
	mux.HandleFunc("GET /stations/nearest", api.handlerStationsNearest)
	mux.HandleFunc("GET /stations/{id}", api.handlerStationByID)
	mux.HandleFunc("POST /admin/purge", api.handlerAdminPurge)
	mux.HandleFunc("GET /healthz", api.handlerHealthz)
	mux.Handle("GET /metrics", promhttp.Handler())

	return telemetry.CORSMiddleware(telemetry.MetricsMiddleware(mux))
}
