package aggregator

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cor0nius/saltyocean/internal/apierr"
	"github.com/cor0nius/saltyocean/internal/buoy"
	"github.com/cor0nius/saltyocean/internal/cache"
	"github.com/cor0nius/saltyocean/internal/catalogue"
	"github.com/cor0nius/saltyocean/internal/clock"
	"github.com/cor0nius/saltyocean/internal/forecast"
	"github.com/cor0nius/saltyocean/internal/grid"
)

const (
	buoyDeadline     = 10 * time.Second
	forecastDeadline = 20 * time.Second
)

// Aggregator composes per-station Envelopes from the catalogue, the
// buoy/forecast fetchers, and the shared cache store.
type Aggregator struct {
	Catalogue       *catalogue.Catalogue
	Cache           *cache.Store
	BuoyFetcher     buoy.Fetcher
	ForecastFetcher forecast.Fetcher
	Cadence         clock.Cadence
	// CacheCeiling caps every computed TTL (spec's cache.hours ceiling).
	CacheCeiling time.Duration
	Now          func() time.Time
}

func (a *Aggregator) now() time.Time {
	if a.Now != nil {
		return a.Now()
	}
	return time.Now()
}

func (a *Aggregator) clampTTL(ttl time.Duration) time.Duration {
	if a.CacheCeiling > 0 && ttl > a.CacheCeiling {
		return a.CacheCeiling
	}
	return ttl
}

func obsCacheKey(stationID string) string {
	return "obs:" + stationID
}

func fcstCacheKey(lat, lon float64) string {
	return fmt.Sprintf("fcst:%.4f_%.4f", lat, grid.NormalizeLon(lon))
}

func envCacheKey(stationID string) string {
	return "env:" + stationID
}

type obsResult struct {
	obs buoy.Observation
	err error
}

type fcstResult struct {
	fc  forecast.Forecast
	err error
}

// GetStation returns the cached Envelope for a station, filling it
// through the buoy and forecast fetchers on a miss. See spec.md §4.6 for
// the full sequencing contract this implements.
func (a *Aggregator) GetStation(ctx context.Context, stationID string) (Envelope, error) {
	station, ok := a.Catalogue.Get(stationID)
	if !ok {
		return Envelope{}, apierr.New(apierr.NotFound, fmt.Sprintf("station %s is not in the catalogue", stationID))
	}

	if v, ok := a.Cache.Get(envCacheKey(stationID)); ok {
		return v.(Envelope), nil
	}

	now := a.now()
	obsTTL := a.clampTTL(a.Cadence.SecondsUntilNextObservation(now))

	obsCh := make(chan obsResult, 1)
	go func() {
		fetchCtx, cancel := context.WithTimeout(ctx, buoyDeadline)
		defer cancel()
		obs, err := cache.GetOrFillTyped(fetchCtx, a.Cache, obsCacheKey(stationID), obsTTL, func(c context.Context) (buoy.Observation, error) {
			return a.BuoyFetcher.Fetch(c, stationID)
		})
		obsCh <- obsResult{obs: obs, err: err}
	}()

	var fcstTTL time.Duration
	var fcstCh chan fcstResult
	if station.InGrid {
		fcstTTL = a.clampTTL(a.Cadence.SecondsUntilNextCycleAvailable(now))
		fcstCh = make(chan fcstResult, 1)
		go func() {
			fetchCtx, cancel := context.WithTimeout(ctx, forecastDeadline)
			defer cancel()
			fc, err := cache.GetOrFillTyped(fetchCtx, a.Cache, fcstCacheKey(station.Lat, station.Lon), fcstTTL, func(c context.Context) (forecast.Forecast, error) {
				return a.ForecastFetcher.Fetch(c, station.Lat, station.Lon)
			})
			fcstCh <- fcstResult{fc: fc, err: err}
		}()
	}

	obsRes := <-obsCh
	if obsRes.err != nil {
		if errors.Is(obsRes.err, buoy.ErrNoData) {
			return Envelope{}, apierr.Wrap(apierr.NotFound, "no observation data for station "+stationID, obsRes.err)
		}
		return Envelope{}, apierr.Wrap(apierr.UpstreamUnavailable, "fetching observation for station "+stationID, obsRes.err)
	}

	var fcView *ForecastView
	ttl := obsTTL
	if fcstCh != nil {
		fcRes := <-fcstCh
		if fcRes.err != nil {
			fcView = &ForecastView{Error: &EnvelopeError{
				Kind:    apierr.KindOf(fcRes.err).String(),
				Message: fcRes.err.Error(),
			}}
		} else {
			fcView = composeForecast(fcRes.fc)
		}
		if fcstTTL < ttl {
			ttl = fcstTTL
		}
	}

	env := compose(station, obsRes.obs, fcView, now)
	a.Cache.Put(envCacheKey(stationID), env, ttl)

	return env, nil
}

// PlannedTTLs returns the observation and forecast TTLs GetStation would
// currently use for a station, without performing any fetch. The
// Prefetcher uses this to decide whether a fill is worth doing at all.
func (a *Aggregator) PlannedTTLs(station catalogue.Station) (obsTTL, fcstTTL time.Duration) {
	now := a.now()
	obsTTL = a.clampTTL(a.Cadence.SecondsUntilNextObservation(now))
	if station.InGrid {
		fcstTTL = a.clampTTL(a.Cadence.SecondsUntilNextCycleAvailable(now))
	}
	return obsTTL, fcstTTL
}
