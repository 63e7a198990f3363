package prefetch

import (
	"context"
	"errors"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cor0nius/saltyocean/internal/aggregator"
	"github.com/cor0nius/saltyocean/internal/buoy"
	"github.com/cor0nius/saltyocean/internal/cache"
	"github.com/cor0nius/saltyocean/internal/catalogue"
	"github.com/cor0nius/saltyocean/internal/clock"
	"github.com/cor0nius/saltyocean/internal/forecast"
	"github.com/cor0nius/saltyocean/internal/telemetry"
)

type countingBuoyFetcher struct {
	calls int32
	err   error
}

func (f *countingBuoyFetcher) Fetch(ctx context.Context, stationID string) (buoy.Observation, error) {
	atomic.AddInt32(&f.calls, 1)
	if f.err != nil {
		return buoy.Observation{}, f.err
	}
	speed := 5.0
	height := 1.0
	return buoy.Observation{StationID: stationID, Time: time.Now(), Wind: buoy.Wind{SpeedMS: &speed}, Wave: buoy.Wave{HeightM: &height}}, nil
}

type countingForecastFetcher struct {
	calls int32
}

func (f *countingForecastFetcher) Fetch(ctx context.Context, lat, lon float64) (forecast.Forecast, error) {
	atomic.AddInt32(&f.calls, 1)
	return forecast.Forecast{ModelName: "wcoast.0p16", Periods: []forecast.Period{{WaveHeightM: 1.0}}}, nil
}

func testCatalogue(t *testing.T) *catalogue.Catalogue {
	t.Helper()
	c, err := catalogue.Load(filepath.Join("..", "..", "testdata", "stations.geojson"))
	require.NoError(t, err)
	return c
}

func TestRunFillsInGridStations(t *testing.T) {
	bf := &countingBuoyFetcher{}
	ff := &countingForecastFetcher{}
	agg := &aggregator.Aggregator{
		Catalogue:       testCatalogue(t),
		Cache:           cache.New(),
		BuoyFetcher:     bf,
		ForecastFetcher: ff,
		Cadence:         clock.Default,
		CacheCeiling:    6 * time.Hour,
		Now:             func() time.Time { return time.Date(2026, 7, 30, 12, 30, 0, 0, time.UTC) },
	}
	p := &Prefetcher{Catalogue: agg.Catalogue, Aggregator: agg}

	snap := p.Run(context.Background())

	// stations.geojson has 3 in-grid stations (46086, 44098, 41047) and
	// one out-of-grid (51201); 41047 (atlocn) has no live data flag,
	// which does not exclude it from prefetch.
	assert.GreaterOrEqual(t, snap.Filled, 1)
	assert.Equal(t, 0, snap.Failed)
}

func TestRunRecordsPrefetchCycleStationMetrics(t *testing.T) {
	telemetry.PrefetchCycleStations.Reset()

	bf := &countingBuoyFetcher{}
	ff := &countingForecastFetcher{}
	agg := &aggregator.Aggregator{
		Catalogue:       testCatalogue(t),
		Cache:           cache.New(),
		BuoyFetcher:     bf,
		ForecastFetcher: ff,
		Cadence:         clock.Default,
		CacheCeiling:    6 * time.Hour,
		Now:             func() time.Time { return time.Date(2026, 7, 30, 12, 30, 0, 0, time.UTC) },
	}
	p := &Prefetcher{Catalogue: agg.Catalogue, Aggregator: agg}

	snap := p.Run(context.Background())

	filled := testutil.ToFloat64(telemetry.PrefetchCycleStations.WithLabelValues("filled"))
	assert.Equal(t, float64(snap.Filled), filled)
}

func TestRunSkipsNearExpiryStations(t *testing.T) {
	bf := &countingBuoyFetcher{}
	ff := &countingForecastFetcher{}
	cacheStore := cache.New()
	agg := &aggregator.Aggregator{
		Catalogue:       testCatalogue(t),
		Cache:           cacheStore,
		BuoyFetcher:     bf,
		ForecastFetcher: ff,
		Cadence:         clock.Default,
		CacheCeiling:    6 * time.Hour,
		// 12:25:59 is 1s before the next observation publish at 12:26:00,
		// so planned obs TTL is under the 300s skip threshold.
		Now: func() time.Time { return time.Date(2026, 7, 30, 12, 25, 59, 0, time.UTC) },
	}
	p := &Prefetcher{Catalogue: agg.Catalogue, Aggregator: agg}

	snap := p.Run(context.Background())
	assert.Equal(t, 0, snap.Filled)
	assert.Greater(t, snap.Skipped, 0)
	assert.Equal(t, int32(0), atomic.LoadInt32(&bf.calls))
}

func TestRunRecordsFailuresWithoutHalting(t *testing.T) {
	bf := &countingBuoyFetcher{err: errors.New("network down")}
	ff := &countingForecastFetcher{}
	agg := &aggregator.Aggregator{
		Catalogue:       testCatalogue(t),
		Cache:           cache.New(),
		BuoyFetcher:     bf,
		ForecastFetcher: ff,
		Cadence:         clock.Default,
		CacheCeiling:    6 * time.Hour,
		Now:             func() time.Time { return time.Date(2026, 7, 30, 12, 30, 0, 0, time.UTC) },
	}
	p := &Prefetcher{Catalogue: agg.Catalogue, Aggregator: agg}

	snap := p.Run(context.Background())
	assert.Equal(t, 0, snap.Filled)
	assert.Greater(t, snap.Failed, 0)
	assert.NotEmpty(t, snap.Errors)
}

func TestStatusReturnsLastCompletedRun(t *testing.T) {
	bf := &countingBuoyFetcher{}
	ff := &countingForecastFetcher{}
	agg := &aggregator.Aggregator{
		Catalogue:       testCatalogue(t),
		Cache:           cache.New(),
		BuoyFetcher:     bf,
		ForecastFetcher: ff,
		Cadence:         clock.Default,
		CacheCeiling:    6 * time.Hour,
		Now:             func() time.Time { return time.Date(2026, 7, 30, 12, 30, 0, 0, time.UTC) },
	}
	p := &Prefetcher{Catalogue: agg.Catalogue, Aggregator: agg}

	assert.Equal(t, 0, p.Status().Filled)
	p.Run(context.Background())
	assert.Greater(t, p.Status().Filled, 0)
}
