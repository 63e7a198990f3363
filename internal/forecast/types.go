// Package forecast fetches and parses NOAA NOMADS gridded wave-model
// output for a single grid cell into a time-ordered sequence of periods.
package forecast

import "time"

// DaysAhead, PeriodsPerDay, and PeriodHours describe the fixed forecast
// horizon: 7 days at 8 periods/day, 3 hours apart, for 56 total periods.
const (
	DaysAhead     = 7
	PeriodsPerDay = 8
	PeriodHours   = 3
	TotalPeriods  = DaysAhead * PeriodsPerDay
)

// SwellPartition is one wave-energy partition: a swell train or the
// wind-wave component.
type SwellPartition struct {
	HeightM   float64
	PeriodSec float64
	DirDeg    float64
}

// Period is one 3-hour forecast step.
type Period struct {
	Time time.Time

	WaveHeightM   float64
	WavePeriodSec float64
	WaveDirDeg    float64

	// WindWave is nil when its own height sample was absent at this step.
	WindWave *SwellPartition
	// Swells holds up to three swell partitions, in producer order, each
	// included only when its own height sample was present.
	Swells []SwellPartition

	WindSpeedMS float64
	WindDirDeg  float64
	WindU       float64
	WindV       float64
}

// Forecast is one model run's output for a single grid cell.
type Forecast struct {
	ModelName   string
	GeneratedAt time.Time
	Lat, Lon    float64
	Periods     []Period
}
