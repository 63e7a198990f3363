// Package httpapi exposes the aggregator over HTTP: station discovery,
// per-station envelopes, cache administration, and health/metrics.
package httpapi

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/cor0nius/saltyocean/internal/apierr"
	"github.com/cor0nius/saltyocean/internal/core"
)

// API holds the wired services a handler needs and exposes the mux that
// routes requests to them.
type API struct {
	Services *core.Services
	Logger   *slog.Logger
}

func (a *API) logger() *slog.Logger {
	if a.Logger != nil {
		return a.Logger
	}
	return slog.Default()
}

// handlerStations serves the full station catalogue as a GeoJSON
// FeatureCollection.
func (a *API) handlerStations(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		respondWithError(a.logger(), w, r, http.StatusMethodNotAllowed, "method not allowed", nil)
		return
	}
	respondWithJSON(a.logger(), w, http.StatusOK, a.Services.Catalogue.AsGeoJSON())
}

// handlerStationsNearest resolves the catalogue station nearest a given
// lat/lon pair.
func (a *API) handlerStationsNearest(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		respondWithError(a.logger(), w, r, http.StatusMethodNotAllowed, "method not allowed", nil)
		return
	}

	lat, err := strconv.ParseFloat(r.URL.Query().Get("lat"), 64)
	if err != nil {
		respondWithError(a.logger(), w, r, http.StatusBadRequest, "lat must be a valid number", err)
		return
	}
	lon, err := strconv.ParseFloat(r.URL.Query().Get("lon"), 64)
	if err != nil {
		respondWithError(a.logger(), w, r, http.StatusBadRequest, "lon must be a valid number", err)
		return
	}

	station, ok := a.Services.Catalogue.Nearest(lat, lon)
	if !ok {
		respondWithError(a.logger(), w, r, http.StatusNotFound, "no stations in catalogue", nil)
		return
	}

	respondWithJSON(a.logger(), w, http.StatusOK, station)
}

// handlerStationByID serves a single station's current conditions and
// forecast envelope.
func (a *API) handlerStationByID(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		respondWithError(a.logger(), w, r, http.StatusMethodNotAllowed, "method not allowed", nil)
		return
	}

	id := r.PathValue("id")
	envelope, err := a.Services.Aggregator.GetStation(r.Context(), id)
	if err != nil {
		kind := apierr.KindOf(err)
		respondWithError(a.logger(), w, r, kind.StatusCode(), err.Error(), err)
		return
	}

	respondWithJSON(a.logger(), w, http.StatusOK, envelope)
}

// handlerAdminPurge drops every cached entry, forcing the next request
// for any station to re-fetch from upstream.
func (a *API) handlerAdminPurge(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		respondWithError(a.logger(), w, r, http.StatusMethodNotAllowed, "method not allowed", nil)
		return
	}

	purged := a.Services.Cache.Purge()
	respondWithJSON(a.logger(), w, http.StatusOK, map[string]int{"purged": purged})
}

// handlerHealthz reports liveness plus the last completed prefetch cycle,
// so an operator can tell a healthy-but-never-filled service apart from
// one that's actively serving warm data.
func (a *API) handlerHealthz(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		respondWithError(a.logger(), w, r, http.StatusMethodNotAllowed, "method not allowed", nil)
		return
	}

	respondWithJSON(a.logger(), w, http.StatusOK, map[string]any{
		"status":   "ok",
		"prefetch": a.Services.Prefetcher.Status(),
	})
}
