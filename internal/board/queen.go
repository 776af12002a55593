package board

// Queen is a single placement: X is the column index, Y the row index,
// both in [0, side). Queens are plain values; equality compares (X, Y).
type Queen struct {
	X int
	Y int
}

// NewQueen returns the queen at column x, row y.
func NewQueen(x, y int) Queen {
	return Queen{X: x, Y: y}
}

// Row returns the row index.
func (q Queen) Row() int { return q.Y }

// Col returns the column index.
func (q Queen) Col() int { return q.X }

// SWDiagonal returns the id of the diagonal through q along which both
// coordinates grow together. Every cell on one such diagonal maps to
// the same integer in [0, 2*side-2] for a board of the given side.
func (q Queen) SWDiagonal(side int) int {
	return side + q.X - q.Y - 1
}

// SEDiagonal returns the id of the crossing diagonal family, constant
// where X grows as Y shrinks. Range [0, 2*side-2]; the side length does
// not enter the formula.
func (q Queen) SEDiagonal() int {
	return q.X + q.Y
}

// Less orders queens column-major: by X, then Y. Boards keep their
// queen lists in this order so equal placements compare equal.
func (q Queen) Less(other Queen) bool {
	if q.X != other.X {
		return q.X < other.X
	}
	return q.Y < other.Y
}
