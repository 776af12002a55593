// Package progress implements the latest-result hand-off between the
// search engine and the display consumer.
//
// Philosophy: drop intermediate results, never queue. The display only
// ever needs the freshest complete board; rendering every solution of a
// large sweep would either stall the search or build an unbounded
// backlog. The reporter is therefore a single-slot mailbox: publishing
// overwrites, the consumer wakes on change and reads whatever is
// current, and everything superseded in between is discarded.
//
// Guarantees:
//   - Publish never blocks a search worker. The slot lock is taken with
//     TryLock; on contention the result is counted as dropped and the
//     worker moves on immediately.
//   - PublishElapsed never loses a measurement. Elapsed times arrive
//     once per sweep from the driver, so that path may take the lock
//     unconditionally.
//   - The consumer never observes a torn or stale-forever state: every
//     slot change bumps a version and signals the condition variable.
package progress

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/Osspial/nqueens/internal/board"
)

// Result is a snapshot of the reporter slot.
type Result struct {
	Board    board.Board
	HasBoard bool   // false until the first board is published
	Solution uint64 // ordinal of Board within its sweep, 1-based

	SweepID string // id of the sweep currently being searched
	Size    int    // side length the current sweep is searching

	Elapsed     time.Duration // wall-clock time of the last finished sweep
	ElapsedSize int           // side length the elapsed time belongs to
	HasElapsed  bool

	Version uint64 // process-lifetime change stamp, one per slot update
}

// Reporter is the single-slot mailbox connecting search workers to the
// display consumer.
//
// Thread-safety: Publish, PublishElapsed, BeginSweep, Latest, and Stats
// are safe from any goroutine. WaitForNext must be called from exactly
// one consumer goroutine; the reporter tracks what that consumer has
// already seen.
type Reporter struct {
	mu   sync.Mutex
	cond *sync.Cond // signaled on every slot change, broadcast on Close

	cur       Result
	hasBoard  bool
	version   uint64 // bumped under mu on every slot change
	delivered uint64 // last version handed to the consumer
	closed    bool

	published uint64        // publishes that won the slot, under mu
	dropped   atomic.Uint64 // publishes skipped on contention; atomic because the lock was not held
}

// New returns an empty reporter.
func New() *Reporter {
	r := &Reporter{}
	r.cond = sync.NewCond(&r.mu)
	return r
}

// Publish offers a completed board to the slot. It never blocks: when
// the lock is contended the offer is counted as dropped and the caller
// returns immediately. The returned bool reports whether the slot was
// updated. solution is the board's 1-based ordinal within its sweep.
func (r *Reporter) Publish(b board.Board, solution uint64) bool {
	if !r.mu.TryLock() {
		r.dropped.Add(1)
		return false
	}
	if r.closed {
		r.mu.Unlock()
		return false
	}

	r.version++
	r.cur.Board = b
	r.cur.Solution = solution
	r.cur.Version = r.version
	// A fresh board belongs to the sweep still running; any elapsed
	// time in the slot describes a sweep that is already over.
	r.cur.Elapsed = 0
	r.cur.ElapsedSize = 0
	r.cur.HasElapsed = false
	r.hasBoard = true
	r.published++

	r.cond.Signal()
	r.mu.Unlock()
	return true
}

// PublishElapsed attaches the finished sweep's duration to whatever
// board is currently latest. Called once per sweep by the driver; takes
// the lock unconditionally because elapsed times must never be lost to
// contention. When a sweep found no solutions the slot still holds the
// previous sweep's board; the elapsed time is attached to it anyway and
// ElapsedSize records which sweep it measures.
func (r *Reporter) PublishElapsed(d time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return
	}
	r.version++
	r.cur.Elapsed = d
	r.cur.ElapsedSize = r.cur.Size
	r.cur.HasElapsed = true
	r.cur.Version = r.version
	r.cond.Signal()
}

// BeginSweep records the sweep now being searched. The slot contents
// are left alone and the consumer is not woken: the previous sweep's
// final state stays visible until the new sweep publishes its first
// solution.
func (r *Reporter) BeginSweep(id string, size int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return
	}
	r.cur.SweepID = id
	r.cur.Size = size
}

// WaitForNext blocks until the slot has changed since this reporter
// last delivered a snapshot, then returns the current contents. The
// second return is false once the reporter is closed and no undelivered
// state remains.
//
// Single-consumer contract: exactly one goroutine may call WaitForNext.
func (r *Reporter) WaitForNext() (Result, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for r.version == r.delivered && !r.closed {
		r.cond.Wait()
	}
	if r.version == r.delivered {
		// Closed with nothing new to deliver.
		return Result{}, false
	}

	r.delivered = r.version
	res := r.cur
	res.HasBoard = r.hasBoard
	return res, true
}

// Latest returns the current slot contents without consuming freshness:
// a later WaitForNext still wakes for any state Latest observed. Meant
// for health snapshots, not for the display loop. The second return is
// false while nothing has ever been written to the slot.
func (r *Reporter) Latest() (Result, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.version == 0 {
		return Result{}, false
	}
	res := r.cur
	res.HasBoard = r.hasBoard
	return res, true
}

// Close releases a blocked consumer and turns all further writes into
// no-ops. Idempotent.
func (r *Reporter) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return
	}
	r.closed = true
	r.cond.Broadcast()
}

// Stats is a point-in-time snapshot of reporter activity.
type Stats struct {
	Published    uint64 // publishes that won the slot
	Dropped      uint64 // publishes skipped on lock contention
	Version      uint64 // total slot updates, publishes plus elapsed marks
	LastSolution uint64 // ordinal of the newest published board, 0 if none
	LastSize     int    // side length of the current sweep
}

// Stats returns reporter counters. The drop counter is read atomically
// before the lock so a contended publish in flight is still visible.
func (r *Reporter) Stats() Stats {
	dropped := r.dropped.Load()
	r.mu.Lock()
	defer r.mu.Unlock()
	return Stats{
		Published:    r.published,
		Dropped:      dropped,
		Version:      r.version,
		LastSolution: r.cur.Solution,
		LastSize:     r.cur.Size,
	}
}
