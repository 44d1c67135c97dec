package generator

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
)

// progressReporter logs generation throughput at a fixed interval. The clock
// is injected so tests can drive it.
type progressReporter struct {
	clock    quartz.Clock
	logger   *log.Logger
	interval time.Duration
	stats    *Stats
	target   int
}

func newProgressReporter(clock quartz.Clock, logger *log.Logger, stats *Stats, target int) *progressReporter {
	return &progressReporter{
		clock:    clock,
		logger:   logger,
		interval: 5 * time.Second,
		stats:    stats,
		target:   target,
	}
}

// run blocks until the context is cancelled, logging a progress line every
// interval.
func (r *progressReporter) run(ctx context.Context) {
	start := r.clock.Now()
	last := 0

	ticker := r.clock.TickerFunc(ctx, r.interval, func() error {
		snap := r.stats.Snapshot()
		elapsed := r.clock.Since(start)
		rate := 0.0
		if elapsed > 0 {
			rate = float64(snap.Played) / elapsed.Seconds()
		}
		if snap.Played != last {
			r.logger.Info("generating",
				"played", snap.Played,
				"target", r.target,
				"skipped", snap.Skipped,
				"hands_per_sec", int(rate))
			last = snap.Played
		}
		return nil
	}, "progress")
	_ = ticker.Wait()
}
