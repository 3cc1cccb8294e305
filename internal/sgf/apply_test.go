package sgf

import (
	"testing"

	"github.com/bartekd/kropla/internal/worm"
)

func TestApplyPlaysSetupAndMoves(t *testing.T) {
	rec, err := Parse("(;SZ[9]AB[cc];W[dd])")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	g, _, err := Apply(rec)
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	b := g.Simple.Board
	ccP, _ := b.ParseSGFPoint("cc")
	if g.Simple.Worms.OwnerAt(ccP) != worm.Black {
		t.Errorf("expected setup dot at cc to be black")
	}
	ddP, _ := b.ParseSGFPoint("dd")
	if g.Simple.Worms.OwnerAt(ddP) != worm.White {
		t.Errorf("expected move dot at dd to be white")
	}
	if g.NowMoves != worm.Black {
		t.Errorf("expected turn to flip back to black after white's move")
	}
}

func TestApplyRejectsOccupiedMove(t *testing.T) {
	rec, err := Parse("(;SZ[9]AB[cc];B[cc])")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if _, _, err := Apply(rec); err == nil {
		t.Fatal("expected an error for playing on an occupied point")
	}
}

func TestRuleStringDetectsStopFlag(t *testing.T) {
	rec, err := Parse("(;SZ[9]RU[Stop=1])")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	_, meta, err := Apply(rec)
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if !meta.StopOnPass {
		t.Error("expected StopOnPass to be true for RU[Stop=1]")
	}
}
