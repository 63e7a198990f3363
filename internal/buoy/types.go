// Package buoy fetches and parses NDBC real-time buoy observations and
// derives short-window trends from them.
package buoy

import "time"

// Wind is a single observation's wind reading. Values are nil when the
// source row carries the "MM" sentinel.
type Wind struct {
	DirDeg   *float64
	SpeedMS  *float64
	GustMS   *float64
}

// SwellComponent is one partition of the wave spectrum: the primary
// (total) wave, a swell train, or the wind-wave component.
type SwellComponent struct {
	HeightM   *float64
	PeriodSec *float64
	DirDeg    *float64
	Steepness string
}

// Wave is the primary wave reading plus its optional spectral partitions.
type Wave struct {
	HeightM           *float64
	DominantPeriodSec *float64
	AveragePeriodSec  *float64
	DirDeg            *float64
	Swell             *SwellComponent
	WindWave          *SwellComponent
}

// Atmosphere is the non-wave, non-wind meteorological reading.
type Atmosphere struct {
	PressureHPA *float64
	AirTempC    *float64
	WaterTempC  *float64
	DewPointC   *float64
}

// TrendLabel is a ternary direction of change over the recent window.
type TrendLabel string

const (
	TrendSteady   TrendLabel = "steady"
	TrendBuilding TrendLabel = "building"
	TrendDropping TrendLabel = "dropping"

	TrendLengthening TrendLabel = "lengthening"
	TrendShortening  TrendLabel = "shortening"

	TrendIncreasing TrendLabel = "increasing"
	TrendDecreasing TrendLabel = "decreasing"
)

// Trend bundles the three derived trend labels. Any field is the zero
// value ("") when fewer than two valid samples existed for it.
type Trend struct {
	WaveHeight TrendLabel
	WavePeriod TrendLabel
	WindSpeed  TrendLabel
}

// Beaufort describes the wind-condition category a speed falls into.
type Beaufort struct {
	Force          int
	Name           string
	SeaDescription string
}

// Partition names the dominant contributor to the total wave energy.
type Partition string

const (
	PartitionMixed    Partition = "mixed"
	PartitionSwell    Partition = "swell-only"
	PartitionWindWave Partition = "wind-wave-only"
)

// Observation is one station's most recent buoy reading, with trend and
// Beaufort classification derived from the recent window. Prose summaries
// are deliberately not part of this type: they are a presentation-layer
// concern built from Trend, Beaufort, and DominantPartition.
type Observation struct {
	StationID string
	Time      time.Time

	Wind       Wind
	Wave       Wave
	Atmosphere Atmosphere

	Trend             Trend
	Beaufort          Beaufort
	DominantPartition Partition
}
