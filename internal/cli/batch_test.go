package cli

import (
	"bufio"
	"io"
	"strings"
	"testing"

	"github.com/bartekd/kropla/internal/cnn"
	"github.com/bartekd/kropla/internal/config"
	"github.com/bartekd/kropla/internal/pattern"
)

func TestRunBatchTranscriptEmitsOneMoreMoveThanInput(t *testing.T) {
	cfg := config.Config{Workers: 1, Iterations: 20, Msec: 200, Komi: 0}
	c, err := New(cfg, pattern.DefaultTables(), cnn.NewRandom(9, 9, 1), nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	out := &strings.Builder{}
	c.out = out

	transcript := "(;SZ[9];B[cc];W[dd])"
	if err := c.runBatchTranscript(transcript, -1, 200); err != nil {
		t.Fatalf("runBatchTranscript: %v", err)
	}
	if len(c.moves) != 3 {
		t.Fatalf("expected 3 moves (2 replayed + 1 engine move), got %d", len(c.moves))
	}
	if !strings.HasPrefix(out.String(), "(") {
		t.Fatalf("expected an emitted transcript, got %q", out.String())
	}
}

func TestRunBatchTranscriptHonoursMaxMoves(t *testing.T) {
	cfg := config.Config{Workers: 1, Iterations: 20, Msec: 200, Komi: 0}
	c, err := New(cfg, pattern.DefaultTables(), cnn.NewRandom(9, 9, 1), nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	c.out = &strings.Builder{}

	transcript := "(;SZ[9];B[cc];W[dd];B[ee])"
	if err := c.runBatchTranscript(transcript, 1, 200); err != nil {
		t.Fatalf("runBatchTranscript: %v", err)
	}
	// 1 replayed move (B[cc]) plus the engine's own reply.
	if len(c.moves) != 2 {
		t.Fatalf("expected 2 moves after truncating to max-moves=1, got %d", len(c.moves))
	}
}

func TestReadRecordUntilTopLevelCloseStopsAtMatchingParen(t *testing.T) {
	r := bufio.NewReader(strings.NewReader("(;SZ[9];B[cc]) 1500\nleftover"))
	transcript, trailer, err := readRecordUntilTopLevelClose(r)
	if err != nil {
		t.Fatalf("readRecordUntilTopLevelClose: %v", err)
	}
	if transcript != "(;SZ[9];B[cc])" {
		t.Fatalf("unexpected transcript: %q", transcript)
	}
	if trailer != "1500" {
		t.Fatalf("expected trailing msec override 1500, got %q", trailer)
	}
}

func TestReadRecordUntilTopLevelCloseHandlesEndTerminator(t *testing.T) {
	r := bufio.NewReader(strings.NewReader("END\n"))
	transcript, _, err := readRecordUntilTopLevelClose(r)
	if err != io.EOF {
		t.Fatalf("expected io.EOF once the terminator line runs out without a top-level ')', got %v", err)
	}
	if strings.TrimSpace(transcript) != "END" {
		t.Fatalf("expected the terminator text back, got %q", transcript)
	}
}
