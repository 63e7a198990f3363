package forecast

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/cor0nius/saltyocean/internal/apierr"
	"github.com/cor0nius/saltyocean/internal/clock"
	"github.com/cor0nius/saltyocean/internal/grid"
)

const (
	maxAttempts  = 3
	retryBackoff = 2 * time.Second
)

// Fetcher retrieves the Forecast for a grid-routed location.
type Fetcher interface {
	Fetch(ctx context.Context, lat, lon float64) (Forecast, error)
}

// HTTPFetcher is the production Fetcher: it routes a coordinate through
// internal/grid, builds a NOMADS ASCII query for the latest available
// model cycle, and retries transient failures with a fixed backoff.
//
// cenkalti/backoff was considered for the retry loop and dropped: the
// policy here is a fixed count and fixed delay, which a bounded for-loop
// with time.Sleep expresses directly without pulling in a strategy
// library built for exponential/jittered schedules this fetcher doesn't
// use.
type HTTPFetcher struct {
	Client  *http.Client
	BaseURL string // e.g. "https://nomads.ncep.noaa.gov/dods/wave/gfswave"
	Cadence clock.Cadence
	Now     func() time.Time
}

// NewHTTPFetcher builds a Fetcher over a shared pooled client.
func NewHTTPFetcher(client *http.Client, baseURL string, cadence clock.Cadence) *HTTPFetcher {
	return &HTTPFetcher{Client: client, BaseURL: baseURL, Cadence: cadence, Now: time.Now}
}

func (f *HTTPFetcher) now() time.Time {
	if f.Now != nil {
		return f.Now()
	}
	return time.Now()
}

// Fetch resolves (lat, lon) to a grid cell, then retrieves and parses the
// latest available model cycle's forecast for that cell.
func (f *HTTPFetcher) Fetch(ctx context.Context, lat, lon float64) (Forecast, error) {
	idx, err := grid.Route(lat, lon)
	if err != nil {
		return Forecast{}, err // callers check errors.Is(err, grid.ErrOutOfGrid)
	}

	cycle := f.Cadence.LatestAvailableCycle(f.now())
	url := buildURL(f.BaseURL, cycle, idx.Model.Name, idx.Row, idx.Col)

	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		series, err := f.fetchOnce(ctx, url)
		if err == nil {
			periods := assemble(series, cycle.Nominal())
			return Forecast{
				ModelName:   idx.Model.Name,
				GeneratedAt: cycle.Nominal(),
				Lat:         lat,
				Lon:         lon,
				Periods:     periods,
			}, nil
		}

		lastErr = err
		if !isTransient(err) {
			return Forecast{}, err
		}
		if attempt < maxAttempts {
			select {
			case <-ctx.Done():
				return Forecast{}, apierr.Wrap(apierr.Timeout, "forecast fetch cancelled during retry", ctx.Err())
			case <-time.After(retryBackoff):
			}
		}
	}
	return Forecast{}, lastErr
}

// fetchOnce issues a single HTTP GET and parses the body on success.
func (f *HTTPFetcher) fetchOnce(ctx context.Context, url string) (map[string]map[int]float64, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, apierr.Wrap(apierr.Internal, "building forecast request", err)
	}

	resp, err := f.Client.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, apierr.Wrap(apierr.Timeout, "forecast request", err)
		}
		return nil, apierr.Wrap(apierr.UpstreamUnavailable, "forecast request", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, apierr.New(apierr.UpstreamUnavailable, "forecast cycle not yet published")
	case resp.StatusCode >= 500:
		return nil, apierr.New(apierr.UpstreamUnavailable, fmt.Sprintf("forecast upstream returned %d", resp.StatusCode))
	case resp.StatusCode >= 400:
		return nil, apierr.New(apierr.Internal, fmt.Sprintf("forecast request rejected with status %d", resp.StatusCode))
	case resp.StatusCode != http.StatusOK:
		return nil, apierr.New(apierr.UpstreamUnavailable, fmt.Sprintf("forecast upstream returned %d", resp.StatusCode))
	}

	series, err := parseASCII(resp.Body)
	if err != nil {
		if errors.Is(err, ErrEmptyBody) {
			return nil, apierr.Wrap(apierr.UpstreamUnavailable, "forecast body empty", err)
		}
		return nil, apierr.Wrap(apierr.Internal, "parsing forecast body", err)
	}
	return series, nil
}

// isTransient decides whether a failure is retryable: network errors,
// 5xx, empty/parse-of-empty-body, and timeouts all are; a non-404 4xx
// (apierr.Internal here) indicates a malformed request and is fatal.
func isTransient(err error) bool {
	switch apierr.KindOf(err) {
	case apierr.UpstreamUnavailable, apierr.Timeout:
		return true
	default:
		return false
	}
}
