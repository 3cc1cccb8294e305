package scoring

import (
	"testing"

	"github.com/bartekd/kropla/internal/game"
	"github.com/bartekd/kropla/internal/worm"
)

func TestSimpleScoresRealisedTerritory(t *testing.T) {
	g, err := game.New(9, 9, game.Ruleset{})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	place := func(sgf string, owner worm.Owner) {
		x, y, err := g.Simple.Board.ParseSGFCoord(sgf)
		if err != nil {
			t.Fatalf("ParseSGFCoord(%q): %v", sgf, err)
		}
		if err := g.MakeMove(g.Simple.Board.Index(x, y), owner, nil); err != nil {
			t.Fatalf("MakeMove: %v", err)
		}
	}
	place("cb", worm.Black)
	place("bc", worm.Black)
	place("dc", worm.Black)
	place("cd", worm.Black) // closes the ring; cc is auto-captured as a mandatory enclosure

	ccX, ccY, _ := g.Simple.Board.ParseSGFCoord("cc")
	cc := g.Simple.Board.Index(ccX, ccY)
	if g.Simple.Worms.OwnerAt(cc) != worm.Black {
		t.Fatalf("expected cc to be auto-captured once the ring closed")
	}

	r := Simple(g.Simple.Board, g.Simple.Worms, g.Simple.Threats, 0, worm.Empty)
	if r.Black != 1 {
		t.Errorf("expected Black to be credited the captured point, got %+v", r)
	}
}
