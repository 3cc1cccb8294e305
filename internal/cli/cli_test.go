package cli

import (
	"bytes"
	"os"
	"strings"
	"testing"

	"github.com/bartekd/kropla/internal/cnn"
	"github.com/bartekd/kropla/internal/config"
	"github.com/bartekd/kropla/internal/pattern"
)

func newTestCLI(t *testing.T) (*CLI, *bytes.Buffer, *bytes.Buffer) {
	t.Helper()
	cfg := config.Config{Workers: 1, Iterations: 20, Msec: 200, Komi: 0}
	c, err := New(cfg, pattern.DefaultTables(), cnn.NewRandom(19, 19, 1), nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	out, errOut := &bytes.Buffer{}, &bytes.Buffer{}
	c.out, c.errOut = out, errOut
	if err := c.reset(9, 9); err != nil {
		t.Fatalf("reset: %v", err)
	}
	return c, out, errOut
}

func TestHumanMovePlacesDotAndRecordsHistory(t *testing.T) {
	c, _, errOut := newTestCLI(t)
	c.dispatch("cc")
	if errOut.Len() != 0 {
		t.Fatalf("unexpected error output: %s", errOut.String())
	}
	if len(c.moves) != 1 {
		t.Fatalf("expected 1 recorded move, got %d", len(c.moves))
	}
}

func TestHumanMoveRejectsOccupiedPoint(t *testing.T) {
	c, _, errOut := newTestCLI(t)
	c.dispatch("cc")
	errOut.Reset()
	c.dispatch("cc")
	if !strings.Contains(errOut.String(), "occupied") {
		t.Fatalf("expected an occupied-point error, got %q", errOut.String())
	}
	if len(c.moves) != 1 {
		t.Fatalf("the rejected move must not be recorded")
	}
}

func TestBackUndoesLastMove(t *testing.T) {
	c, _, _ := newTestCLI(t)
	c.dispatch("cc")
	c.dispatch("dd")
	c.dispatch("back")
	if len(c.moves) != 1 {
		t.Fatalf("expected 1 move after undo, got %d", len(c.moves))
	}
}

func TestSetThreadsAndItersValidateInput(t *testing.T) {
	c, _, errOut := newTestCLI(t)
	c.dispatch("threads 0")
	if !strings.Contains(errOut.String(), "threads requires") {
		t.Fatalf("expected a validation error, got %q", errOut.String())
	}
	errOut.Reset()
	c.dispatch("threads 8")
	if c.cfg.Workers != 8 {
		t.Fatalf("expected Workers=8, got %d", c.cfg.Workers)
	}
	c.dispatch("iters 500")
	if c.cfg.Iterations != 500 {
		t.Fatalf("expected Iterations=500, got %d", c.cfg.Iterations)
	}
}

func TestEngineMovePlaysOrPasses(t *testing.T) {
	c, _, _ := newTestCLI(t)
	c.engineMove()
	if len(c.moves) != 1 {
		t.Fatalf("expected the engine to record exactly one move, got %d", len(c.moves))
	}
}

func TestShowSVGWritesAPNGFile(t *testing.T) {
	c, _, errOut := newTestCLI(t)
	c.dispatch("cc")
	path := t.TempDir() + "/board.png"
	c.dispatch("show -svg " + path)
	if errOut.Len() != 0 {
		t.Fatalf("unexpected error output: %s", errOut.String())
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("expected a PNG file at %s: %v", path, err)
	}
}

func TestTranscriptRoundTripsThroughApply(t *testing.T) {
	c, _, _ := newTestCLI(t)
	c.dispatch("cc")
	c.dispatch("dd")
	rec := c.Transcript()
	encoded := rec.Encode()
	if !strings.HasPrefix(encoded, "(") || !strings.HasSuffix(encoded, ")") {
		t.Fatalf("expected a parenthesised record, got %q", encoded)
	}
}
