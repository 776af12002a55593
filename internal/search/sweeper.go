package search

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
)

// The progression is fixed: sizes below 4 are either trivial or empty,
// so the driver starts at 4 and climbs without bound.
const startSize = 4

// Sweep describes one fully enumerated board size.
type Sweep struct {
	SweepID   string
	Size      int
	Solutions uint64
	Elapsed   time.Duration
	Variant   string
	Workers   int
}

// Sweeper drives the unbounded size progression: enumerate a size,
// report its elapsed time, hold briefly so the final state stays
// visible, move to the next size.
type Sweeper struct {
	engine  *Engine
	rep     Reporter
	hold    time.Duration
	results chan<- Sweep // optional; delivery is drop-on-full
}

// NewSweeper wires a sweeper. results may be nil when nobody consumes
// sweep records; sends to a full channel are dropped rather than
// stalling the progression.
func NewSweeper(engine *Engine, rep Reporter, hold time.Duration, results chan<- Sweep) *Sweeper {
	return &Sweeper{engine: engine, rep: rep, hold: hold, results: results}
}

// Run enumerates sizes 4, 5, 6, ... until ctx is cancelled. The only
// error ever returned is the context's; a cancelled sweep is abandoned
// without publishing a partial elapsed time.
func (s *Sweeper) Run(ctx context.Context) error {
	for size := startSize; ; size++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		sweepID := uuid.NewString()
		s.rep.BeginSweep(sweepID, size)
		slog.Info("sweep started",
			"sweep_id", sweepID,
			"size", size,
			"variant", s.engine.Variant(),
			"workers", s.engine.Workers(),
		)

		start := time.Now()
		solutions, err := s.engine.Enumerate(ctx, size)
		if err != nil {
			// Cancelled mid-sweep: the count is partial, so nothing
			// exact can be reported for this size.
			return err
		}
		elapsed := time.Since(start)

		s.rep.PublishElapsed(elapsed)
		slog.Info("sweep finished",
			"sweep_id", sweepID,
			"size", size,
			"solutions", solutions,
			"elapsed", elapsed,
		)

		s.forward(Sweep{
			SweepID:   sweepID,
			Size:      size,
			Solutions: solutions,
			Elapsed:   elapsed,
			Variant:   s.engine.Variant(),
			Workers:   s.engine.Workers(),
		})

		if !s.holdFor(ctx) {
			return ctx.Err()
		}
	}
}

// forward offers a sweep record to the results channel without ever
// blocking the progression.
func (s *Sweeper) forward(sw Sweep) {
	if s.results == nil {
		return
	}
	select {
	case s.results <- sw:
	default:
		slog.Debug("sweep record dropped, results channel full", "sweep_id", sw.SweepID)
	}
}

// holdFor pauses between sweeps so the finished size's board and time
// stay on screen. Returns false when the context ended the pause early.
func (s *Sweeper) holdFor(ctx context.Context) bool {
	if s.hold <= 0 {
		return ctx.Err() == nil
	}
	timer := time.NewTimer(s.hold)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}
