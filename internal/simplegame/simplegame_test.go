package simplegame

import (
	"testing"

	"github.com/bartekd/kropla/internal/movelist"
	"github.com/bartekd/kropla/internal/worm"
)

func TestPlaceDotRemovesPointFromMoveList(t *testing.T) {
	gm, err := New(9, 9)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	x, y, _ := gm.Board.ParseSGFCoord("ee")
	p := gm.Board.Index(x, y)

	gm.PlaceDot(p, worm.Black)

	if gm.Worms.OwnerAt(p) != worm.Black {
		t.Fatalf("expected ee to be owned by black")
	}
	if gm.Moves.ListOf(p) != movelist.Removed {
		t.Errorf("expected ee to be removed from the move list, got list %d", gm.Moves.ListOf(p))
	}
}

func TestPlaceDotBuildsEnclosureThreat(t *testing.T) {
	gm, err := New(9, 9)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	place := func(sgf string, owner worm.Owner) {
		x, y, err := gm.Board.ParseSGFCoord(sgf)
		if err != nil {
			t.Fatalf("ParseSGFCoord(%q): %v", sgf, err)
		}
		gm.PlaceDot(gm.Board.Index(x, y), owner)
	}
	place("cb", worm.Black)
	place("bc", worm.Black)
	place("dc", worm.Black)
	place("cd", worm.Black)

	ccX, ccY, _ := gm.Board.ParseSGFCoord("cc")
	cc := gm.Board.Index(ccX, ccY)
	threatsHere := gm.Threats[worm.Black].ThreatsAt(cc)
	if len(threatsHere) == 0 {
		t.Errorf("expected a discovered enclosure threat at cc after closing the ring")
	}
}
