package buoy

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/cor0nius/saltyocean/internal/apierr"
)

// ErrNoData is returned when a station's meteorological stream parses
// without error but yields no usable observation row. The aggregator
// treats this as NotFound rather than UpstreamUnavailable.
var ErrNoData = errors.New("buoy: no valid observation rows")

// Fetcher retrieves the current Observation for a station.
type Fetcher interface {
	Fetch(ctx context.Context, stationID string) (Observation, error)
}

// HTTPFetcher is the production Fetcher: it pulls NDBC's realtime2
// meteorological and spectral text streams over HTTP.
type HTTPFetcher struct {
	Client  *http.Client
	BaseURL string // e.g. "https://www.ndbc.noaa.gov/data/realtime2"
}

// NewHTTPFetcher builds a Fetcher sharing client, the pooled connection
// client constructed once at startup.
func NewHTTPFetcher(client *http.Client, baseURL string) *HTTPFetcher {
	return &HTTPFetcher{Client: client, BaseURL: baseURL}
}

type metResult struct {
	rows []metRow
	err  error
}

type specResult struct {
	rows []specRow
	err  error
}

// Fetch retrieves and parses both streams concurrently. A 404 on the
// spectral stream is tolerated (nil spectral rows, not an error); any
// other failure on the meteorological stream is fatal.
func (f *HTTPFetcher) Fetch(ctx context.Context, stationID string) (Observation, error) {
	metCh := make(chan metResult, 1)
	specCh := make(chan specResult, 1)

	go func() {
		rows, err := f.fetchMet(ctx, stationID)
		metCh <- metResult{rows: rows, err: err}
	}()
	go func() {
		rows, err := f.fetchSpec(ctx, stationID)
		specCh <- specResult{rows: rows, err: err}
	}()

	met := <-metCh
	spec := <-specCh

	if met.err != nil {
		return Observation{}, met.err
	}
	if len(met.rows) == 0 {
		return Observation{}, ErrNoData
	}
	// spec.err is non-nil only for failures other than 404, which
	// fetchSpec already folds into a nil result; still, a transport-level
	// failure on the spectral stream does not fail the whole observation.
	var specRows []specRow
	if spec.err == nil {
		specRows = spec.rows
	}

	return buildObservation(stationID, met.rows, specRows), nil
}

func (f *HTTPFetcher) fetchMet(ctx context.Context, stationID string) ([]metRow, error) {
	url := fmt.Sprintf("%s/%s.txt", f.BaseURL, stationID)
	resp, err := f.get(ctx, url)
	if err != nil {
		return nil, apierr.Wrap(apierr.UpstreamUnavailable, "fetching meteorological record", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, apierr.New(apierr.UpstreamUnavailable, "meteorological record not found")
	}
	if resp.StatusCode != http.StatusOK {
		return nil, apierr.New(apierr.UpstreamUnavailable, fmt.Sprintf("meteorological record returned status %d", resp.StatusCode))
	}

	rows, err := parseMetRecord(resp.Body)
	if err != nil {
		return nil, apierr.Wrap(apierr.Internal, "parsing meteorological record", err)
	}
	return rows, nil
}

func (f *HTTPFetcher) fetchSpec(ctx context.Context, stationID string) ([]specRow, error) {
	url := fmt.Sprintf("%s/%s.spec", f.BaseURL, stationID)
	resp, err := f.get(ctx, url)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, nil
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("spectral record returned status %d", resp.StatusCode)
	}

	return parseSpecRecord(resp.Body)
}

func (f *HTTPFetcher) get(ctx context.Context, url string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	return f.Client.Do(req)
}

// buildObservation composes the latest met row and, if present, the
// latest spec row into an Observation, deriving trend and Beaufort
// classification from the met window.
func buildObservation(stationID string, metRows []metRow, specRows []specRow) Observation {
	latest := metRows[0]

	wave := latest.Wave
	var windWaveComp *SwellComponent
	var swellComp *SwellComponent
	var dominantPartitionVal Partition = PartitionMixed

	if len(specRows) > 0 {
		s := specRows[0]
		swellComp = &s.Swell
		windWaveComp = &s.WindWave
		dominantPartitionVal = dominantPartition(s.Swell.HeightM, s.WindWave.HeightM)
	}
	wave.Swell = swellComp
	wave.WindWave = windWaveComp

	beaufort := Beaufort{}
	if latest.Wind.SpeedMS != nil {
		beaufort = classifyBeaufort(*latest.Wind.SpeedMS)
	}

	return Observation{
		StationID:         stationID,
		Time:              latest.Time,
		Wind:              latest.Wind,
		Wave:              wave,
		Atmosphere:        latest.Atmo,
		Trend:             deriveTrend(metRows),
		Beaufort:          beaufort,
		DominantPartition: dominantPartitionVal,
	}
}
