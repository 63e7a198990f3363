// Package core wires the service's components together: the shared HTTP
// client, the station catalogue, the upstream fetchers, the cache, the
// aggregator, the prefetcher, and the scheduler.
package core

import (
	"fmt"
	"net/http"
	"time"

	"github.com/cor0nius/saltyocean/internal/aggregator"
	"github.com/cor0nius/saltyocean/internal/buoy"
	"github.com/cor0nius/saltyocean/internal/cache"
	"github.com/cor0nius/saltyocean/internal/catalogue"
	"github.com/cor0nius/saltyocean/internal/clock"
	"github.com/cor0nius/saltyocean/internal/config"
	"github.com/cor0nius/saltyocean/internal/forecast"
	"github.com/cor0nius/saltyocean/internal/prefetch"
	"github.com/cor0nius/saltyocean/internal/scheduler"
	"github.com/cor0nius/saltyocean/internal/telemetry"
)

// httpClientIdleTimeout bounds how long a pooled idle connection to an
// upstream service is kept open.
const httpClientIdleTimeout = 60 * time.Second

// Services holds every wired component the HTTP surface and the
// background scheduler depend on.
type Services struct {
	Config      *config.Config
	Catalogue   *catalogue.Catalogue
	Cache       *cache.Store
	Aggregator  *aggregator.Aggregator
	Prefetcher  *prefetch.Prefetcher
	Scheduler   *scheduler.Scheduler
}

// New builds a fully wired Services from a loaded Config. It loads the
// station catalogue from disk, so it can fail if the catalogue file is
// missing or malformed.
func New(cfg *config.Config) (*Services, error) {
	cat, err := catalogue.Load(cfg.CataloguePath)
	if err != nil {
		return nil, fmt.Errorf("loading station catalogue: %w", err)
	}

	transport := &http.Transport{
		IdleConnTimeout: httpClientIdleTimeout,
	}

	ndbcClient := &http.Client{
		Timeout:   cfg.RequestTimeout,
		Transport: &telemetry.Transport{Wrapped: transport, Service: "ndbc"},
	}
	nomadsClient := &http.Client{
		Timeout:   cfg.RequestTimeout,
		Transport: &telemetry.Transport{Wrapped: transport, Service: "nomads"},
	}

	cadence := clock.Default
	cadence.CycleHours = cfg.ModelRunHours
	cadence.CycleLatency = cfg.ModelRunAvailableAfter

	buoyFetcher := buoy.NewHTTPFetcher(ndbcClient, cfg.NDBCBaseURL)
	forecastFetcher := forecast.NewHTTPFetcher(nomadsClient, cfg.NOMADSBaseURL, cadence)

	cacheStore := cache.New()

	agg := &aggregator.Aggregator{
		Catalogue:       cat,
		Cache:           cacheStore,
		BuoyFetcher:     buoyFetcher,
		ForecastFetcher: forecastFetcher,
		Cadence:         cadence,
		CacheCeiling:    cfg.CacheHoursCeiling,
	}

	pf := &prefetch.Prefetcher{
		Catalogue:  cat,
		Aggregator: agg,
	}

	sched := &scheduler.Scheduler{
		Prefetcher: pf,
		Cadence:    cadence,
		Logger:     cfg.Logger,
	}

	return &Services{
		Config:     cfg,
		Catalogue:  cat,
		Cache:      cacheStore,
		Aggregator: agg,
		Prefetcher: pf,
		Scheduler:  sched,
	}, nil
}
