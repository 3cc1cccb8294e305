package game

import (
	"testing"

	"github.com/bartekd/kropla/internal/worm"
)

func TestMakeMoveRealisesMandatoryEnclosure(t *testing.T) {
	g, err := New(9, 9, Ruleset{})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	place := func(sgf string, owner worm.Owner) {
		x, y, err := g.Simple.Board.ParseSGFCoord(sgf)
		if err != nil {
			t.Fatalf("ParseSGFCoord(%q): %v", sgf, err)
		}
		p := g.Simple.Board.Index(x, y)
		if err := g.MakeMove(p, owner, nil); err != nil {
			t.Fatalf("MakeMove(%q): %v", sgf, err)
		}
	}

	place("cb", worm.Black)
	place("bc", worm.Black)
	place("dc", worm.Black)
	place("cd", worm.Black)

	ccX, ccY, _ := g.Simple.Board.ParseSGFCoord("cc")
	cc := g.Simple.Board.Index(ccX, ccY)
	if g.Simple.Worms.OwnerAt(cc) != worm.Black {
		t.Fatalf("cc should be captured once cd closes the ring")
	}

	// No further Black move is needed: closing the ring realises the
	// enclosure, which stays recorded as a territory threat covering cc.
	if len(g.Simple.Threats[worm.Black].ThreatsAt(cc)) == 0 {
		t.Errorf("expected an enclosure threat recorded at cc")
	}
}

func TestPassTwiceEndsGame(t *testing.T) {
	g, err := New(7, 7, Ruleset{})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	g.MakePass(worm.Black)
	if g.GameOver() {
		t.Fatalf("one pass should not end the game")
	}
	g.MakePass(worm.White)
	if !g.GameOver() {
		t.Errorf("two consecutive passes should end the game")
	}
}
