package search_test

import (
	"context"
	"sync"
	"testing"

	"github.com/Osspial/nqueens/internal/board"
	"github.com/Osspial/nqueens/internal/search"
)

// recordingPublisher accepts every offer and keeps the full sequence,
// unlike the real reporter which only ever holds the newest result.
type recordingPublisher struct {
	mu       sync.Mutex
	boards   []board.Board
	ordinals []uint64
}

func (p *recordingPublisher) Publish(b board.Board, solution uint64) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.boards = append(p.boards, b)
	p.ordinals = append(p.ordinals, solution)
	return true
}

func (p *recordingPublisher) snapshot() ([]board.Board, []uint64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	boards := make([]board.Board, len(p.boards))
	copy(boards, p.boards)
	ordinals := make([]uint64, len(p.ordinals))
	copy(ordinals, p.ordinals)
	return boards, ordinals
}

// --- Test 1: Known solution counts ---

// TestKnownCounts pins both engine variants to the published N-Queens
// sequence for sizes 1 through 8.
func TestKnownCounts(t *testing.T) {
	want := map[int]uint64{
		1: 1,
		2: 0,
		3: 0,
		4: 2,
		5: 10,
		6: 4,
		7: 40,
		8: 92,
	}

	for _, variant := range []string{search.EngineSequential, search.EngineParallel} {
		for size := 1; size <= 8; size++ {
			eng := search.New(&recordingPublisher{}, search.Config{Variant: variant, Workers: 4})
			got, err := eng.Enumerate(context.Background(), size)
			if err != nil {
				t.Fatalf("%s size %d: %v", variant, size, err)
			}
			if got != want[size] {
				t.Errorf("%s size %d: %d solutions, want %d", variant, size, got, want[size])
			}
		}
	}
}

// TestSizeZeroTriviallyComplete checks the boundary: an empty board of
// size 0 needs no placements and counts as the single solution.
func TestSizeZeroTriviallyComplete(t *testing.T) {
	rec := &recordingPublisher{}
	eng := search.New(rec, search.Config{Variant: search.EngineSequential})

	got, err := eng.Enumerate(context.Background(), 0)
	if err != nil {
		t.Fatal(err)
	}
	if got != 1 {
		t.Fatalf("size 0: %d solutions, want 1", got)
	}
	boards, _ := rec.snapshot()
	if len(boards) != 1 || len(boards[0].Queens()) != 0 {
		t.Error("size 0 did not publish the empty board")
	}
}

// --- Test 2: Ordering ---

// TestSequentialDeterministicOrder validates the fixed discovery order:
// columns left to right, candidate rows ascending. For size 4 that
// yields rows (1,3,0,2) strictly before (2,0,3,1), and two runs must
// agree on the entire sequence.
func TestSequentialDeterministicOrder(t *testing.T) {
	run := func() []board.Board {
		rec := &recordingPublisher{}
		eng := search.New(rec, search.Config{Variant: search.EngineSequential})
		if _, err := eng.Enumerate(context.Background(), 4); err != nil {
			t.Fatal(err)
		}
		boards, _ := rec.snapshot()
		return boards
	}

	first := run()
	if len(first) != 2 {
		t.Fatalf("size 4: %d solutions, want 2", len(first))
	}
	wantRows := [][]int{{1, 3, 0, 2}, {2, 0, 3, 1}}
	for i, b := range first {
		for col, q := range b.Queens() {
			if q.Row() != wantRows[i][col] {
				t.Errorf("solution %d column %d: row %d, want %d", i, col, q.Row(), wantRows[i][col])
			}
		}
	}

	second := run()
	for i := range first {
		fq, sq := first[i].Queens(), second[i].Queens()
		for c := range fq {
			if fq[c] != sq[c] {
				t.Errorf("runs disagree at solution %d column %d: %v vs %v", i, c, fq[c], sq[c])
			}
		}
	}
}

// TestParallelMatchesSequentialCount re-runs each size under both
// variants; the parallel order is unspecified but the totals must be
// identical.
func TestParallelMatchesSequentialCount(t *testing.T) {
	for size := 4; size <= 9; size++ {
		seq := search.New(&recordingPublisher{}, search.Config{Variant: search.EngineSequential})
		par := search.New(&recordingPublisher{}, search.Config{Variant: search.EngineParallel, Workers: 8})

		nSeq, err := seq.Enumerate(context.Background(), size)
		if err != nil {
			t.Fatal(err)
		}
		nPar, err := par.Enumerate(context.Background(), size)
		if err != nil {
			t.Fatal(err)
		}
		if nSeq != nPar {
			t.Errorf("size %d: sequential %d vs parallel %d", size, nSeq, nPar)
		}
	}
}

// --- Test 3: Reported boards ---

// TestReportedBoardsAreValidSolutions checks every published board of a
// size-6 parallel sweep: complete, conflict-free, one queen per column.
func TestReportedBoardsAreValidSolutions(t *testing.T) {
	rec := &recordingPublisher{}
	eng := search.New(rec, search.Config{Variant: search.EngineParallel, Workers: 3})
	if _, err := eng.Enumerate(context.Background(), 6); err != nil {
		t.Fatal(err)
	}

	boards, _ := rec.snapshot()
	if len(boards) != 4 {
		t.Fatalf("size 6 published %d boards, want 4", len(boards))
	}
	for i, b := range boards {
		if !b.IsComplete() || !b.Valid() {
			t.Errorf("board %d is not a valid complete solution", i)
		}
		qs := b.Queens()
		if len(qs) != 6 {
			t.Errorf("board %d has %d queens, want 6", i, len(qs))
		}
		for col, q := range qs {
			if q.Col() != col {
				t.Errorf("board %d: queen %d sits in column %d, want %d", i, col, q.Col(), col)
			}
		}
	}
}

// TestOrdinalsAreDense validates the shared counter under parallel
// publishing: the ordinals 1..N must each appear exactly once, in any
// order.
func TestOrdinalsAreDense(t *testing.T) {
	rec := &recordingPublisher{}
	eng := search.New(rec, search.Config{Variant: search.EngineParallel, Workers: 8})

	total, err := eng.Enumerate(context.Background(), 7)
	if err != nil {
		t.Fatal(err)
	}
	_, ordinals := rec.snapshot()
	if uint64(len(ordinals)) != total {
		t.Fatalf("published %d ordinals for %d solutions", len(ordinals), total)
	}

	seen := make(map[uint64]bool, len(ordinals))
	for _, n := range ordinals {
		if n == 0 || n > total {
			t.Errorf("ordinal %d outside 1..%d", n, total)
		}
		if seen[n] {
			t.Errorf("ordinal %d published twice", n)
		}
		seen[n] = true
	}
}

// --- Test 4: Cancellation boundary ---

// TestEnumerateCancelled confirms a pre-cancelled context abandons the
// sweep with the context's error instead of a partial success.
func TestEnumerateCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	for _, variant := range []string{search.EngineSequential, search.EngineParallel} {
		eng := search.New(&recordingPublisher{}, search.Config{Variant: variant, Workers: 2})
		if _, err := eng.Enumerate(ctx, 8); err == nil {
			t.Errorf("%s: cancelled enumerate returned nil error", variant)
		}
	}
}
