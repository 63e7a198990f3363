package forecast

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cor0nius/saltyocean/internal/clock"
)

func asciiFixture() string {
	var b strings.Builder
	write := func(name string, vals map[int]float64) {
		fmt.Fprintf(&b, "%s[0:55][48][195], wcoast.0p16_00z, lat=33.0, lon=242.5\n", name)
		for i := 0; i < 3; i++ {
			v, ok := vals[i]
			if !ok {
				continue
			}
			fmt.Fprintf(&b, "[%d][0], %g\n", i, v)
		}
	}
	write("htsgwsfc", map[int]float64{0: 1.2, 1: 1.3, 2: 1.4})
	write("perpwsfc", map[int]float64{0: 9.0, 1: 9.1, 2: 9.2})
	write("dirpwsfc", map[int]float64{0: 280, 1: 281, 2: 282})
	write("wvhgtsfc", map[int]float64{0: 0.5, 1: 0.6})
	write("wvpersfc", map[int]float64{0: 4.0, 1: 4.1})
	write("wvdirsfc", map[int]float64{0: 270, 1: 271})
	write("swell1htsgwsfc", map[int]float64{0: 1.0, 1: 1.0, 2: 1.0})
	write("swell1perpwsfc", map[int]float64{0: 10, 1: 10, 2: 10})
	write("swell1dirpwsfc", map[int]float64{0: 280, 1: 280, 2: 280})
	write("windsfc", map[int]float64{0: 7.0, 1: 7.1, 2: 7.2})
	write("wdirsfc", map[int]float64{0: 260, 1: 261, 2: 262})
	write("ugrdsfc", map[int]float64{0: 1.0, 1: 1.1, 2: 1.2})
	write("vgrdsfc", map[int]float64{0: 2.0, 1: 2.1, 2: 2.2})
	return b.String()
}

func TestParseASCII(t *testing.T) {
	series, err := parseASCII(strings.NewReader(asciiFixture()))
	require.NoError(t, err)
	require.Contains(t, series, "htsgwsfc")
	assert.InDelta(t, 1.2, series["htsgwsfc"][0], 1e-6)
}

func TestParseASCIIEmptyBody(t *testing.T) {
	_, err := parseASCII(strings.NewReader("\n\n"))
	assert.ErrorIs(t, err, ErrEmptyBody)
}

func TestAssemblePeriods(t *testing.T) {
	series, err := parseASCII(strings.NewReader(asciiFixture()))
	require.NoError(t, err)

	start := time.Date(2026, 7, 30, 0, 0, 0, 0, time.UTC)
	periods := assemble(series, start)

	require.Len(t, periods, 3)
	assert.Equal(t, start, periods[0].Time)
	assert.Equal(t, start.Add(3*time.Hour), periods[1].Time)
	require.NotNil(t, periods[0].WindWave)
	require.Len(t, periods[0].Swells, 1)

	// step 2 has no wvhgtsfc sample -> WindWave must be nil there.
	assert.Nil(t, periods[2].WindWave)
}

func TestBuildURL(t *testing.T) {
	cycle := clock.Cycle{Date: time.Date(2026, 7, 30, 0, 0, 0, 0, time.UTC), Hour: 0}
	url := buildURL("https://nomads.example/gfswave", cycle, "wcoast.0p16", 48, 195)
	assert.Contains(t, url, "20260730")
	assert.Contains(t, url, "gfswave.wcoast.0p16_00z.ascii")
	assert.Contains(t, url, "htsgwsfc[0:55][48][195]")
}

func TestHTTPFetcherSuccess(t *testing.T) {
	fixture := asciiFixture()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(fixture))
	}))
	defer srv.Close()

	now := time.Date(2026, 7, 30, 12, 0, 0, 0, time.UTC)
	f := NewHTTPFetcher(srv.Client(), srv.URL, clock.Default)
	f.Now = func() time.Time { return now }

	fc, err := f.Fetch(context.Background(), 33.0, -117.5)
	require.NoError(t, err)
	assert.Equal(t, "wcoast.0p16", fc.ModelName)
	require.Len(t, fc.Periods, 3)
}

func TestHTTPFetcherOutOfGrid(t *testing.T) {
	f := NewHTTPFetcher(http.DefaultClient, "https://nomads.example", clock.Default)
	_, err := f.Fetch(context.Background(), 60.0, 0.0)
	require.Error(t, err)
}

func TestHTTPFetcherRetriesThenFails(t *testing.T) {
	var calls int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	f := NewHTTPFetcher(srv.Client(), srv.URL, clock.Default)
	f.Now = func() time.Time { return time.Date(2026, 7, 30, 12, 0, 0, 0, time.UTC) }

	start := time.Now()
	_, err := f.Fetch(context.Background(), 33.0, -117.5)
	elapsed := time.Since(start)

	require.Error(t, err)
	assert.Equal(t, maxAttempts, calls)
	assert.GreaterOrEqual(t, elapsed, 2*retryBackoff)
}

func TestHTTPFetcherNon404FourXXIsFatal(t *testing.T) {
	var calls int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer srv.Close()

	f := NewHTTPFetcher(srv.Client(), srv.URL, clock.Default)
	f.Now = func() time.Time { return time.Date(2026, 7, 30, 12, 0, 0, 0, time.UTC) }

	_, err := f.Fetch(context.Background(), 33.0, -117.5)
	require.Error(t, err)
	assert.Equal(t, 1, calls, "a non-404 4xx must not retry")
}
