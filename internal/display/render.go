package display

import (
	"strings"

	"github.com/Osspial/nqueens/internal/board"
)

// RenderBoard formats b as the terminal grid: two characters per cell,
// "QQ" where a queen stands, "__" elsewhere, one line per row. Rows are
// printed top to bottom in ascending y.
func RenderBoard(b board.Board) string {
	side := b.Side()
	var sb strings.Builder
	sb.Grow(side * (2*side + 1))
	for y := 0; y < side; y++ {
		for x := 0; x < side; x++ {
			if b.Occupied(x, y) {
				sb.WriteString("QQ")
			} else {
				sb.WriteString("__")
			}
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}
