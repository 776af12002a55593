// Package search enumerates every N-Queens solution for one board size
// at a time and feeds completed boards to the progress reporter.
//
// Two engine variants ship. The sequential engine walks the state space
// depth-first on a single goroutine and discovers solutions in a fixed,
// repeatable order. The parallel engine spreads the candidate rows of
// the first column across a bounded worker group; each worker performs
// its own row's validity filter and then searches that subtree
// sequentially. Both variants count solutions through one shared atomic
// counter, so the totals agree regardless of scheduling.
package search

import (
	"context"
	"runtime"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/Osspial/nqueens/internal/board"
)

// Engine variant names as they appear in configuration.
const (
	EngineSequential = "sequential"
	EngineParallel   = "parallel"
)

// Publisher receives completed boards. Offers are best-effort: a false
// return means the result was skipped, never that counting failed.
type Publisher interface {
	Publish(b board.Board, solution uint64) bool
}

// Reporter is the full driver-facing reporting surface.
type Reporter interface {
	Publisher
	BeginSweep(id string, size int)
	PublishElapsed(d time.Duration)
}

// Config selects the engine variant and its fan-out width.
type Config struct {
	Variant string // EngineSequential or EngineParallel; empty means parallel
	Workers int    // parallel fan-out width; <= 0 means one per CPU
}

// Engine enumerates all solutions of a single board size.
type Engine struct {
	pub     Publisher
	variant string
	workers int
}

// New returns an engine publishing to pub. The zero Config yields the
// parallel variant with one worker per CPU.
func New(pub Publisher, cfg Config) *Engine {
	variant := cfg.Variant
	if variant == "" {
		variant = EngineParallel
	}
	workers := cfg.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	return &Engine{pub: pub, variant: variant, workers: workers}
}

// Variant returns the engine variant name.
func (e *Engine) Variant() string { return e.variant }

// Workers returns the parallel fan-out width.
func (e *Engine) Workers() int { return e.workers }

// Enumerate finds every solution of the given size and returns the
// exact count. The context is honored only at the coarse fan-out
// boundary: cancellation abandons the sweep between first-column
// subtrees, never mid-branch, so a nil error always means the count is
// complete.
func (e *Engine) Enumerate(ctx context.Context, size int) (uint64, error) {
	root := board.New(size)
	var counter atomic.Uint64

	// A size-0 board is complete with zero queens placed.
	if root.IsComplete() {
		n := counter.Add(1)
		e.pub.Publish(root, n)
		return counter.Load(), nil
	}

	var err error
	switch e.variant {
	case EngineSequential:
		err = e.sequentialRoot(ctx, root, &counter)
	default:
		err = e.parallelRoot(ctx, root, &counter)
	}
	return counter.Load(), err
}

// sequentialRoot iterates the first column's children in row order,
// searching each subtree to exhaustion before moving on. Discovery
// order is therefore deterministic: columns left to right, rows
// ascending.
func (e *Engine) sequentialRoot(ctx context.Context, root board.Board, counter *atomic.Uint64) error {
	for _, child := range root.ChildrenInColumn(0) {
		if err := ctx.Err(); err != nil {
			return err
		}
		e.searchFrom(child, 1, counter)
	}
	return nil
}

// parallelRoot examines the candidate rows of column 0 concurrently.
// Each worker filters its own row and, when the placement stands, walks
// that subtree on its own. The group joins before returning, so a nil
// error guarantees every branch was fully explored.
//
// Fan-out happens at the first column only: nested fan-out with a
// bounded group would let parents waiting on children exhaust the
// limit.
func (e *Engine) parallelRoot(ctx context.Context, root board.Board, counter *atomic.Uint64) error {
	var g errgroup.Group
	g.SetLimit(e.workers)

	for row := 0; row < root.Side(); row++ {
		row := row
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			child, ok := root.TryPlace(board.NewQueen(0, row))
			if !ok {
				return nil
			}
			e.searchFrom(child, 1, counter)
			return nil
		})
	}
	return g.Wait()
}

// searchFrom walks the remaining columns depth-first. Completed boards
// are counted exactly once and offered to the publisher; a contended
// offer is dropped while the count still stands.
func (e *Engine) searchFrom(b board.Board, col int, counter *atomic.Uint64) {
	if b.IsComplete() {
		n := counter.Add(1)
		e.pub.Publish(b, n)
		return
	}
	for _, child := range b.ChildrenInColumn(col) {
		e.searchFrom(child, col+1, counter)
	}
}
