// Package board holds the queen placement state the search walks over.
//
// Boards are immutable values: extending a board always allocates a new
// queen list, so a parent and the children spawned from it never share
// mutable state. That property is what lets search branches run on
// separate goroutines without any locking around board data.
package board

import (
	"fmt"
	"sort"
)

// Board is a partial or complete placement of mutually non-attacking
// queens on a side×side board. The queen list is kept sorted
// column-major and is pairwise conflict-free at all times; both
// invariants are established at construction and never violated
// afterwards.
type Board struct {
	queens []Queen
	side   int
}

// New returns an empty board with the given side length. A side of 0 is
// legal and trivially complete. Panics on a negative side: that is a
// caller bug, not a searchable state.
func New(side int) Board {
	if side < 0 {
		panic(fmt.Sprintf("board: negative side length %d", side))
	}
	return Board{side: side}
}

// Side returns the board's side length.
func (b Board) Side() int { return b.side }

// Queens returns a copy of the placed queens in column-major order.
func (b Board) Queens() []Queen {
	out := make([]Queen, len(b.queens))
	copy(out, b.queens)
	return out
}

// IsComplete reports whether every column holds a queen.
func (b Board) IsComplete() bool { return len(b.queens) == b.side }

// Occupied reports whether a queen stands at column x, row y.
func (b Board) Occupied(x, y int) bool {
	for _, q := range b.queens {
		if q.X == x && q.Y == y {
			return true
		}
	}
	return false
}

// TryPlace returns a new board extended with q, or ok == false when q
// is already present or the extension would put two queens on a shared
// row, column, or diagonal. The receiver is never modified.
//
// Panics when q lies outside the board: out-of-range coordinates are a
// programming error in the caller, never a search dead-end.
func (b Board) TryPlace(q Queen) (Board, bool) {
	if q.X < 0 || q.X >= b.side || q.Y < 0 || q.Y >= b.side {
		panic(fmt.Sprintf("board: queen (%d,%d) outside %dx%d board", q.X, q.Y, b.side, b.side))
	}
	for _, placed := range b.queens {
		if placed == q {
			return Board{}, false
		}
	}

	queens := make([]Queen, len(b.queens)+1)
	copy(queens, b.queens)
	queens[len(b.queens)] = q
	sort.Slice(queens, func(i, j int) bool { return queens[i].Less(queens[j]) })

	next := Board{queens: queens, side: b.side}
	if !next.Valid() {
		return Board{}, false
	}
	return next, true
}

// ChildrenInColumn returns every valid single-queen extension of b in
// the given column, in row-ascending order. Row order fixes the
// discovery order of the sequential search; it has no bearing on which
// solutions exist.
func (b Board) ChildrenInColumn(col int) []Board {
	children := make([]Board, 0, b.side)
	for row := 0; row < b.side; row++ {
		if child, ok := b.TryPlace(NewQueen(col, row)); ok {
			children = append(children, child)
		}
	}
	return children
}

// Valid reports whether no two placed queens share a row, column, or
// diagonal. The occupancy trackers are sized to the board side, so any
// side length the process can hold is checked without truncation.
func (b Board) Valid() bool {
	if b.side == 0 {
		return true
	}

	rows := make([]bool, b.side)
	cols := make([]bool, b.side)
	sw := make([]bool, 2*b.side-1)
	se := make([]bool, 2*b.side-1)

	for _, q := range b.queens {
		if rows[q.Row()] {
			return false
		}
		rows[q.Row()] = true

		if cols[q.Col()] {
			return false
		}
		cols[q.Col()] = true

		if sw[q.SWDiagonal(b.side)] {
			return false
		}
		sw[q.SWDiagonal(b.side)] = true

		if se[q.SEDiagonal()] {
			return false
		}
		se[q.SEDiagonal()] = true
	}
	return true
}
