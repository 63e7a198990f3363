package buoy

// windowSize is N: the number of most-recent observations considered for
// trend derivation (~4 hours at the 30-minute publication cadence).
const windowSize = 8

// Threshold constants are given in the spec in feet/mph; converted here
// to the metric units this package stores values in so the comparison
// logic stays in one unit system. Periods are seconds in both systems.
const (
	waveHeightThresholdM  = 0.5 * 0.3048   // 0.5 ft
	wavePeriodThresholdS  = 1.0            // 1 s, no conversion
	windSpeedThresholdMS  = 2.0 * 0.44704  // 2 mph
)

// deriveTrend computes the three trend labels from a most-recent-first
// slice of met rows, using at most the first windowSize rows. Each trend
// field is computed independently: it only requires two valid (non-nil)
// samples for its own quantity within the window, even if other fields in
// those rows are absent.
func deriveTrend(rows []metRow) Trend {
	if len(rows) > windowSize {
		rows = rows[:windowSize]
	}

	var t Trend
	if label, ok := waveHeightTrend(rows); ok {
		t.WaveHeight = label
	}
	if label, ok := wavePeriodTrend(rows); ok {
		t.WavePeriod = label
	}
	if label, ok := windSpeedTrend(rows); ok {
		t.WindSpeed = label
	}
	return t
}

// mostRecentAndOldestValid scans a most-recent-first window and returns
// the first (most recent) and last (oldest) non-nil sample of the given
// accessor. ok is false if fewer than two valid samples exist.
func mostRecentAndOldestValid(rows []metRow, get func(metRow) *float64) (recent, oldest float64, ok bool) {
	var recentPtr, oldestPtr *float64
	for _, row := range rows {
		v := get(row)
		if v == nil {
			continue
		}
		if recentPtr == nil {
			recentPtr = v
		}
		oldestPtr = v
	}
	if recentPtr == nil || oldestPtr == nil || recentPtr == oldestPtr {
		return 0, 0, false
	}
	return *recentPtr, *oldestPtr, true
}

func waveHeightTrend(rows []metRow) (TrendLabel, bool) {
	recent, oldest, ok := mostRecentAndOldestValid(rows, func(r metRow) *float64 { return r.Wave.HeightM })
	if !ok {
		return "", false
	}
	delta := recent - oldest
	switch {
	case delta > waveHeightThresholdM:
		return TrendBuilding, true
	case delta < -waveHeightThresholdM:
		return TrendDropping, true
	default:
		return TrendSteady, true
	}
}

func wavePeriodTrend(rows []metRow) (TrendLabel, bool) {
	recent, oldest, ok := mostRecentAndOldestValid(rows, func(r metRow) *float64 { return r.Wave.DominantPeriodSec })
	if !ok {
		return "", false
	}
	delta := recent - oldest
	switch {
	case delta >= wavePeriodThresholdS:
		return TrendLengthening, true
	case delta <= -wavePeriodThresholdS:
		return TrendShortening, true
	default:
		return TrendSteady, true
	}
}

func windSpeedTrend(rows []metRow) (TrendLabel, bool) {
	recent, oldest, ok := mostRecentAndOldestValid(rows, func(r metRow) *float64 { return r.Wind.SpeedMS })
	if !ok {
		return "", false
	}
	delta := recent - oldest
	switch {
	case delta > windSpeedThresholdMS:
		return TrendIncreasing, true
	case delta < -windSpeedThresholdMS:
		return TrendDecreasing, true
	default:
		return TrendSteady, true
	}
}

// dominantPartition classifies the spectral breakdown of a row: mixed if
// both a swell and a wind-wave height are present, swell-only or
// wind-wave-only if just one is, and mixed as the conservative default
// when neither spectral sample is available (the primary wave height
// still stands on its own in that case).
func dominantPartition(swell, windWave *float64) Partition {
	hasSwell := swell != nil && *swell > 0
	hasWindWave := windWave != nil && *windWave > 0
	switch {
	case hasSwell && hasWindWave:
		return PartitionMixed
	case hasSwell:
		return PartitionSwell
	case hasWindWave:
		return PartitionWindWave
	default:
		return PartitionMixed
	}
}
