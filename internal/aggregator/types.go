// Package aggregator composes a station's buoy observation and forecast
// into a single cached response envelope.
package aggregator

import (
	"time"

	"github.com/cor0nius/saltyocean/internal/buoy"
)

// Units labels the fixed presentation units every Envelope is expressed
// in, regardless of the metric units upstream sources report in.
type Units struct {
	WaveHeight string `json:"waveHeight"`
	WindSpeed  string `json:"windSpeed"`
	Direction  string `json:"direction"`
	Period     string `json:"period"`
}

// FixedUnits is the single Units value every Envelope carries.
var FixedUnits = Units{WaveHeight: "ft", WindSpeed: "mph", Direction: "deg", Period: "s"}

// SwellView is a presentation-unit copy of buoy.SwellComponent or
// forecast.SwellPartition.
type SwellView struct {
	HeightFT  *float64 `json:"heightFt,omitempty"`
	PeriodSec *float64 `json:"periodSec,omitempty"`
	DirDeg    *float64 `json:"dirDeg,omitempty"`
	Steepness string   `json:"steepness,omitempty"`
}

// ObservationView is the presentation-unit copy of a buoy.Observation.
type ObservationView struct {
	Time time.Time `json:"time"`

	WindDirDeg   *float64 `json:"windDirDeg,omitempty"`
	WindSpeedMPH *float64 `json:"windSpeedMph,omitempty"`
	WindGustMPH  *float64 `json:"windGustMph,omitempty"`

	WaveHeightFT          *float64   `json:"waveHeightFt,omitempty"`
	WaveDominantPeriodSec *float64   `json:"waveDominantPeriodSec,omitempty"`
	WaveAveragePeriodSec  *float64   `json:"waveAveragePeriodSec,omitempty"`
	WaveDirDeg            *float64   `json:"waveDirDeg,omitempty"`
	Swell                 *SwellView `json:"swell,omitempty"`
	WindWave              *SwellView `json:"windWave,omitempty"`

	PressureHPA *float64 `json:"pressureHpa,omitempty"`
	AirTempC    *float64 `json:"airTempC,omitempty"`
	WaterTempC  *float64 `json:"waterTempC,omitempty"`
	DewPointC   *float64 `json:"dewPointC,omitempty"`

	Trend             buoy.Trend     `json:"trend"`
	Beaufort          buoy.Beaufort  `json:"beaufort"`
	DominantPartition buoy.Partition `json:"dominantPartition"`
}

// PeriodView is the presentation-unit copy of a forecast.Period.
type PeriodView struct {
	Time time.Time `json:"time"`

	WaveHeightFT  float64 `json:"waveHeightFt"`
	WavePeriodSec float64 `json:"wavePeriodSec"`
	WaveDirDeg    float64 `json:"waveDirDeg"`

	WindWave *SwellView  `json:"windWave,omitempty"`
	Swells   []SwellView `json:"swells,omitempty"`

	WindSpeedMPH float64 `json:"windSpeedMph"`
	WindDirDeg   float64 `json:"windDirDeg"`
	WindU        float64 `json:"windU"`
	WindV        float64 `json:"windV"`
}

// EnvelopeError describes a non-fatal failure folded into an otherwise
// successful Envelope (currently only ever the forecast leg).
type EnvelopeError struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

// ForecastView is the presentation-unit copy of a forecast.Forecast, or
// an error stub describing why it's missing.
type ForecastView struct {
	ModelName   string         `json:"modelName,omitempty"`
	GeneratedAt time.Time      `json:"generatedAt,omitempty"`
	Periods     []PeriodView   `json:"periods,omitempty"`
	Error       *EnvelopeError `json:"error,omitempty"`
}

// Envelope is the merged per-station response: a header, the latest
// observation, an optional forecast (omitted for out-of-grid stations),
// and the fixed units block.
type Envelope struct {
	StationID   string        `json:"stationId"`
	StationName string        `json:"stationName"`
	Generated   time.Time     `json:"generated"`
	Observation *ObservationView `json:"observation,omitempty"`
	Forecast    *ForecastView    `json:"forecast,omitempty"`
	Units       Units            `json:"units"`
}
