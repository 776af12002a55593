package display_test

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/Osspial/nqueens/internal/board"
	"github.com/Osspial/nqueens/internal/display"
	"github.com/Osspial/nqueens/internal/progress"
)

func solutionBoard(t *testing.T, rows []int) board.Board {
	t.Helper()
	b := board.New(len(rows))
	for col, row := range rows {
		var ok bool
		b, ok = b.TryPlace(board.NewQueen(col, row))
		if !ok {
			t.Fatalf("fixture placement (%d,%d) rejected", col, row)
		}
	}
	return b
}

// --- Test 1: Grid format ---

// TestRenderBoardFormat pins the grid to the exact terminal format: two
// characters per cell, queens as QQ, empty squares as __, one line per
// row.
func TestRenderBoardFormat(t *testing.T) {
	b := solutionBoard(t, []int{1, 3, 0, 2})

	want := "" +
		"____QQ__\n" +
		"QQ______\n" +
		"______QQ\n" +
		"__QQ____\n"
	if got := display.RenderBoard(b); got != want {
		t.Errorf("RenderBoard:\n%q\nwant:\n%q", got, want)
	}
}

func TestRenderBoardEmpty(t *testing.T) {
	if got := display.RenderBoard(board.New(0)); got != "" {
		t.Errorf("size-0 board rendered %q, want empty", got)
	}
}

// --- Test 2: Full frames ---

// waitForRenders polls until the display has painted at least n frames.
func waitForRenders(t *testing.T, d *display.Display, n uint64) {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for d.Renders() < n {
		if time.Now().After(deadline) {
			t.Fatalf("display stuck at %d renders, want %d", d.Renders(), n)
		}
		time.Sleep(time.Millisecond)
	}
}

// TestFrameWithoutElapsed checks a mid-sweep frame byte for byte.
func TestFrameWithoutElapsed(t *testing.T) {
	rep := progress.New()
	var buf bytes.Buffer
	d := display.New(rep, &buf, false)

	rep.BeginSweep("sweep-4", 4)
	rep.Publish(solutionBoard(t, []int{1, 3, 0, 2}), 2)

	done := make(chan struct{})
	go func() {
		d.Run(context.Background())
		close(done)
	}()
	waitForRenders(t, d, 1)
	rep.Close()
	<-done

	want := "complete board #2 of size 4 found\n" +
		"____QQ__\n" +
		"QQ______\n" +
		"______QQ\n" +
		"__QQ____\n" +
		"\n" +
		"Press Ctrl+C to exit\n"
	if got := buf.String(); got != want {
		t.Errorf("frame:\n%q\nwant:\n%q", got, want)
	}
}

// TestFrameWithElapsed checks the end-of-sweep frame: board, elapsed
// line, exit hint.
func TestFrameWithElapsed(t *testing.T) {
	rep := progress.New()
	var buf bytes.Buffer
	d := display.New(rep, &buf, false)

	rep.BeginSweep("sweep-4", 4)
	rep.Publish(solutionBoard(t, []int{1, 3, 0, 2}), 2)
	rep.PublishElapsed(1500 * time.Millisecond)

	done := make(chan struct{})
	go func() {
		d.Run(context.Background())
		close(done)
	}()
	waitForRenders(t, d, 1)
	rep.Close()
	<-done

	out := buf.String()
	if !strings.Contains(out, "complete board #2 of size 4 found\n") {
		t.Errorf("frame missing header:\n%q", out)
	}
	if !strings.Contains(out, "finding all valid boards of size 4 took 1.5s\n") {
		t.Errorf("frame missing elapsed line:\n%q", out)
	}
	if !strings.HasSuffix(out, "Press Ctrl+C to exit\n") {
		t.Errorf("frame missing exit hint:\n%q", out)
	}
}

func TestClearScreenPrefix(t *testing.T) {
	rep := progress.New()
	var buf bytes.Buffer
	d := display.New(rep, &buf, true)

	rep.Publish(solutionBoard(t, []int{1, 3, 0, 2}), 1)

	done := make(chan struct{})
	go func() {
		d.Run(context.Background())
		close(done)
	}()
	waitForRenders(t, d, 1)
	rep.Close()
	<-done

	if !strings.HasPrefix(buf.String(), "\x1B[2J\x1B[1;1H") {
		t.Error("frame does not start with the clear-screen escape")
	}
}

// --- Test 3: Coalescing ---

// TestBurstCoalescesToOneFrame publishes a burst before the display
// starts; the slot keeps only the newest board, so exactly one frame is
// painted and it shows the final ordinal.
func TestBurstCoalescesToOneFrame(t *testing.T) {
	rep := progress.New()
	var buf bytes.Buffer
	d := display.New(rep, &buf, false)

	b := solutionBoard(t, []int{1, 3, 0, 2})
	for n := uint64(1); n <= 50; n++ {
		rep.Publish(b, n)
	}

	done := make(chan struct{})
	go func() {
		d.Run(context.Background())
		close(done)
	}()
	waitForRenders(t, d, 1)
	rep.Close()
	<-done

	if got := d.Renders(); got != 1 {
		t.Errorf("burst painted %d frames, want 1", got)
	}
	if !strings.Contains(buf.String(), "complete board #50 of size 4 found") {
		t.Errorf("frame does not show the newest ordinal:\n%q", buf.String())
	}
	t.Logf("✅ 50 publishes coalesced into %d frame", d.Renders())
}

// --- Test 4: Summary block ---

func TestSummary(t *testing.T) {
	rep := progress.New()
	var buf bytes.Buffer
	d := display.New(rep, &buf, false)

	rep.BeginSweep("sweep-4", 4)
	rep.Publish(solutionBoard(t, []int{1, 3, 0, 2}), 2)
	d.Summary()

	out := buf.String()
	for _, want := range []string{"SESSION SUMMARY", "Boards published:", "Drop rate:", "Last size searched:"} {
		if !strings.Contains(out, want) {
			t.Errorf("summary missing %q:\n%s", want, out)
		}
	}
}
