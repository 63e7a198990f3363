// Package clock implements the cadence oracle: pure functions mapping a
// point in time to the publication schedules of the two upstream data
// producers this service aggregates. Every function here takes "now" as
// an explicit argument and touches no wall clock itself, so the cadence
// math can be driven from fixed fixtures in tests.
package clock

import "time"

// Cadence bundles the tunables describing both upstream publication
// schedules. The zero value is not useful; use Default.
type Cadence struct {
	// ObservationMinutes are the minute-of-hour offsets at which the
	// buoy producer republishes, e.g. {26, 56}.
	ObservationMinutes []int
	// ObservationBuffer is added to the raw time-to-next-publish so a
	// request arriving exactly at publish time still reads the fresh
	// value.
	ObservationBuffer time.Duration

	// CycleHours are the nominal UTC hours at which the forecast
	// producer starts a new model run, e.g. {0, 6, 12, 18}.
	CycleHours []int
	// CycleLatency is how long after its nominal hour a cycle's output
	// becomes retrievable.
	CycleLatency time.Duration
	// CycleBuffer is added to the raw time-to-next-availability.
	CycleBuffer time.Duration
}

// Default is the cadence described by the spec: buoy republish at
// minutes {26, 56} with a 60s buffer; forecast cycles at {00, 06, 12,
// 18}Z, available 5h after their nominal hour, with a 5m buffer.
var Default = Cadence{
	ObservationMinutes: []int{26, 56},
	ObservationBuffer:  60 * time.Second,
	CycleHours:         []int{0, 6, 12, 18},
	CycleLatency:       5 * time.Hour,
	CycleBuffer:        5 * time.Minute,
}

// Cycle identifies a single forecast model run: a calendar date (UTC
// midnight) plus a nominal cycle hour.
type Cycle struct {
	Date time.Time
	Hour int
}

// Nominal returns the instant the cycle nominally starts (its run time,
// before the production/availability latency is applied).
func (c Cycle) Nominal() time.Time {
	return time.Date(c.Date.Year(), c.Date.Month(), c.Date.Day(), c.Hour, 0, 0, 0, time.UTC)
}

// AvailableAt returns the instant the cycle's output becomes retrievable
// given the cadence's publication latency.
func (c Cycle) AvailableAt(cadence Cadence) time.Time {
	return c.Nominal().Add(cadence.CycleLatency)
}

// next returns the cycle immediately following c in the fixed rotation
// of CycleHours, rolling the calendar date over at the end of the list.
func (c Cycle) next(cadence Cadence) Cycle {
	hours := cadence.CycleHours
	for i, h := range hours {
		if h == c.Hour {
			if i+1 < len(hours) {
				return Cycle{Date: c.Date, Hour: hours[i+1]}
			}
			return Cycle{Date: c.Date.AddDate(0, 0, 1), Hour: hours[0]}
		}
	}
	// c.Hour isn't one of the configured hours; there's nothing sane to
	// return, so treat it as already the first configured hour of the
	// next day.
	return Cycle{Date: c.Date.AddDate(0, 0, 1), Hour: hours[0]}
}

// SecondsUntilNextObservation returns the duration until the buoy
// producer's next scheduled republish, plus the safety buffer. A now
// that lands exactly on a publish minute resolves to the *next* one,
// never zero.
func (c Cadence) SecondsUntilNextObservation(now time.Time) time.Duration {
	now = now.UTC()
	next := c.nextObservationInstant(now)
	return next.Sub(now) + c.ObservationBuffer
}

func (c Cadence) nextObservationInstant(now time.Time) time.Time {
	dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	for day := 0; day < 2; day++ {
		for hour := 0; hour < 24; hour++ {
			for _, minute := range c.ObservationMinutes {
				candidate := dayStart.AddDate(0, 0, day).Add(time.Duration(hour)*time.Hour + time.Duration(minute)*time.Minute)
				if candidate.After(now) {
					return candidate
				}
			}
		}
	}
	// Unreachable given ObservationMinutes is non-empty, but keeps the
	// function total.
	return dayStart.AddDate(0, 0, 2)
}

// LatestAvailableCycle returns the most recent forecast cycle whose
// availability instant is at or before now. If no cycle qualifies yet
// today, it rolls back to yesterday's last configured cycle hour.
func (c Cadence) LatestAvailableCycle(now time.Time) Cycle {
	now = now.UTC()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	for i := len(c.CycleHours) - 1; i >= 0; i-- {
		candidate := Cycle{Date: today, Hour: c.CycleHours[i]}
		if !candidate.AvailableAt(c).After(now) {
			return candidate
		}
	}
	yesterday := today.AddDate(0, 0, -1)
	lastHour := c.CycleHours[len(c.CycleHours)-1]
	return Cycle{Date: yesterday, Hour: lastHour}
}

// SecondsUntilNextCycleAvailable returns the duration until the cycle
// following the latest available one becomes retrievable, plus the
// cadence's safety buffer.
func (c Cadence) SecondsUntilNextCycleAvailable(now time.Time) time.Duration {
	now = now.UTC()
	latest := c.LatestAvailableCycle(now)
	next := latest.next(c)
	avail := next.AvailableAt(c)
	return avail.Sub(now) + c.CycleBuffer
}
