// Package display renders the progress reporter's latest state to a
// terminal. A single consumer goroutine blocks on the reporter, wakes
// on change, and paints exactly the current snapshot. Bursts of
// solutions coalesce upstream in the reporter's slot, so the display
// can never fall behind the search no matter how fast solutions arrive.
package display

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync/atomic"

	"github.com/Osspial/nqueens/internal/progress"
)

// clearSequence wipes the terminal and homes the cursor.
const clearSequence = "\x1B[2J\x1B[1;1H"

// Display consumes the reporter and owns the terminal.
type Display struct {
	rep   *progress.Reporter
	out   io.Writer
	clear bool

	renders atomic.Uint64
}

// New returns a display rendering rep's snapshots to out. When clear is
// set each frame starts with a clear-screen escape, which keeps exactly
// one board visible on an interactive terminal.
func New(rep *progress.Reporter, out io.Writer, clear bool) *Display {
	return &Display{rep: rep, out: out, clear: clear}
}

// Run consumes the reporter until it closes. Closing the reporter is
// the shutdown path; the context only guards the window between
// renders.
func (d *Display) Run(ctx context.Context) {
	slog.Debug("display consumer started")
	for {
		select {
		case <-ctx.Done():
			slog.Debug("display consumer stopped", "reason", "context", "renders", d.renders.Load())
			return
		default:
		}

		res, ok := d.rep.WaitForNext()
		if !ok {
			slog.Debug("display consumer stopped", "reason", "reporter closed", "renders", d.renders.Load())
			return
		}
		d.render(res)
	}
}

// Renders returns how many frames have been painted.
func (d *Display) Renders() uint64 {
	return d.renders.Load()
}

// render paints one snapshot. The snapshot was copied out of the slot
// before rendering, so slow terminals never hold the reporter lock.
func (d *Display) render(res progress.Result) {
	var sb strings.Builder
	if d.clear {
		sb.WriteString(clearSequence)
	}
	if res.HasBoard {
		fmt.Fprintf(&sb, "complete board #%d of size %d found\n", res.Solution, res.Board.Side())
		sb.WriteString(RenderBoard(res.Board))
		sb.WriteByte('\n')
	}
	if res.HasElapsed {
		fmt.Fprintf(&sb, "finding all valid boards of size %d took %v\n", res.ElapsedSize, res.Elapsed)
	}
	sb.WriteString("Press Ctrl+C to exit\n")

	if _, err := io.WriteString(d.out, sb.String()); err != nil {
		slog.Error("render failed", "error", err)
		return
	}
	d.renders.Add(1)
}

// Summary writes the end-of-run statistics block to the display's
// writer.
func (d *Display) Summary() {
	st := d.rep.Stats()

	fmt.Fprintf(d.out, "\n╭──────────────────────────────────────────╮\n")
	fmt.Fprintf(d.out, "│             SESSION SUMMARY              │\n")
	fmt.Fprintf(d.out, "├──────────────────────────────────────────┤\n")
	fmt.Fprintf(d.out, "│ Last size searched:   %-18d │\n", st.LastSize)
	fmt.Fprintf(d.out, "│ Boards published:     %-18d │\n", st.Published)
	fmt.Fprintf(d.out, "│ Publishes dropped:    %-18d │\n", st.Dropped)
	fmt.Fprintf(d.out, "│ Drop rate:            %-18s │\n", dropRate(st.Published, st.Dropped))
	fmt.Fprintf(d.out, "│ Frames rendered:      %-18d │\n", d.renders.Load())
	fmt.Fprintf(d.out, "╰──────────────────────────────────────────╯\n")
}

// dropRate formats dropped/(published+dropped) as a percentage.
func dropRate(published, dropped uint64) string {
	total := published + dropped
	if total == 0 {
		return "0.0%"
	}
	return fmt.Sprintf("%.1f%%", float64(dropped)/float64(total)*100)
}
