// Package prefetch runs a batched, bounded-concurrency fill of the
// station catalogue ahead of client requests.
package prefetch

import (
	"context"
	"sync"
	"time"

	"github.com/cor0nius/saltyocean/internal/aggregator"
	"github.com/cor0nius/saltyocean/internal/catalogue"
	"github.com/cor0nius/saltyocean/internal/telemetry"
)

const (
	// BatchSize and ConcurrentBatches give an effective parallelism of 15
	// in-flight upstream calls per wave.
	BatchSize         = 5
	ConcurrentBatches = 3
	WaveSize          = BatchSize * ConcurrentBatches

	// InterWaveDelay is the mandatory pause between waves, providing
	// upstream backpressure.
	InterWaveDelay = 1000 * time.Millisecond

	// skipThreshold: a station whose planned TTL is already under this is
	// about to expire anyway and is skipped rather than refilled.
	skipThreshold = 300 * time.Second
)

// StatusSnapshot is a point-in-time, read-only copy of a prefetch run's
// progress.
type StatusSnapshot struct {
	Filled  int
	Skipped int
	Failed  int
	Errors  []string
	LastRun time.Time
}

// status is the mutable, mutex-guarded run state. Only the per-station
// goroutines of a single Run write to it; readers always go through
// snapshot.
type status struct {
	mu      sync.Mutex
	filled  int
	skipped int
	failed  int
	errors  []string
	lastRun time.Time
}

func (s *status) recordFilled() {
	s.mu.Lock()
	s.filled++
	s.mu.Unlock()
}

func (s *status) recordSkipped() {
	s.mu.Lock()
	s.skipped++
	s.mu.Unlock()
}

func (s *status) recordFailed(err error) {
	s.mu.Lock()
	s.failed++
	s.errors = append(s.errors, err.Error())
	s.mu.Unlock()
}

func (s *status) snapshot() StatusSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	errs := make([]string, len(s.errors))
	copy(errs, s.errors)
	return StatusSnapshot{Filled: s.filled, Skipped: s.skipped, Failed: s.failed, Errors: errs, LastRun: s.lastRun}
}

// Prefetcher fills the Aggregator's cache ahead of client requests by
// walking every in-grid station in the catalogue.
type Prefetcher struct {
	Catalogue  *catalogue.Catalogue
	Aggregator *aggregator.Aggregator

	mu   sync.Mutex
	last StatusSnapshot
}

// Status returns a snapshot of the most recently completed run.
func (p *Prefetcher) Status() StatusSnapshot {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.last
}

// Run performs one prefetch cycle over every station in the catalogue
// that lies in some model grid, in waves of WaveSize with InterWaveDelay
// between waves. Partial success is the normal outcome: a failure on one
// station never halts the cycle. The returned snapshot is also stored for
// later retrieval via Status.
func (p *Prefetcher) Run(ctx context.Context) StatusSnapshot {
	var eligible []catalogue.Station
	for _, s := range p.Catalogue.All() {
		if s.InGrid {
			eligible = append(eligible, s)
		}
	}

	st := &status{lastRun: time.Now()}

	for i := 0; i < len(eligible); i += WaveSize {
		end := i + WaveSize
		if end > len(eligible) {
			end = len(eligible)
		}
		wave := eligible[i:end]

		var wg sync.WaitGroup
		sem := make(chan struct{}, WaveSize)
		for _, station := range wave {
			wg.Add(1)
			sem <- struct{}{}
			go func(s catalogue.Station) {
				defer wg.Done()
				defer func() { <-sem }()
				p.fillOne(ctx, st, s)
			}(station)
		}
		wg.Wait()

		if end < len(eligible) {
			select {
			case <-ctx.Done():
				return p.finish(st)
			case <-time.After(InterWaveDelay):
			}
		}
	}

	return p.finish(st)
}

func (p *Prefetcher) fillOne(ctx context.Context, st *status, station catalogue.Station) {
	obsTTL, fcstTTL := p.Aggregator.PlannedTTLs(station)
	if obsTTL < skipThreshold || (station.InGrid && fcstTTL < skipThreshold) {
		st.recordSkipped()
		telemetry.PrefetchCycleStations.WithLabelValues("skipped").Inc()
		return
	}

	if _, err := p.Aggregator.GetStation(ctx, station.ID); err != nil {
		st.recordFailed(err)
		telemetry.PrefetchCycleStations.WithLabelValues("failed").Inc()
		return
	}
	st.recordFilled()
	telemetry.PrefetchCycleStations.WithLabelValues("filled").Inc()
}

func (p *Prefetcher) finish(st *status) StatusSnapshot {
	snap := st.snapshot()
	p.mu.Lock()
	p.last = snap
	p.mu.Unlock()
	return snap
}
