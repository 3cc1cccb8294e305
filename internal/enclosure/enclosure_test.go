package enclosure

import (
	"testing"

	"github.com/bartekd/kropla/internal/geom"
	"github.com/bartekd/kropla/internal/worm"
)

func setup(t *testing.T, w, h int) (*geom.Board, *worm.State, *Finder) {
	t.Helper()
	g, err := geom.NewBoard(w, h)
	if err != nil {
		t.Fatalf("NewBoard: %v", err)
	}
	ws := worm.NewState(g)
	z := geom.NewZobrist(g)
	return g, ws, NewFinder(g, ws, z)
}

// TestFindSimpleDiamond grounds spec §8 scenario #4: placing cb, bc, dc, cd
// for Black then cc completes a one-point diamond enclosure.
func TestFindSimpleDiamond(t *testing.T) {
	g, ws, f := setup(t, 9, 9)

	place := func(sgf string, owner worm.Owner) geom.Point {
		x, y, err := g.ParseSGFCoord(sgf)
		if err != nil {
			t.Fatalf("ParseSGFCoord(%q): %v", sgf, err)
		}
		p := g.Index(x, y)
		ws.PlaceDot(p, owner)
		return p
	}

	place("cb", worm.Black)
	place("bc", worm.Black)
	place("dc", worm.Black)
	place("cd", worm.Black)

	ccX, ccY, _ := g.ParseSGFCoord("cc")
	cc := g.Index(ccX, ccY)

	enc, ok := f.FindSimple(cc, worm.Black)
	if !ok {
		t.Fatalf("expected a simple enclosure at cc")
	}
	if enc.InteriorSize() != 1 || !enc.ContainsInterior(cc) {
		t.Errorf("expected interior = {cc}, got %v", enc.Interior)
	}
	if len(enc.Border) != 5 {
		t.Errorf("expected closed 4-point border, got %v", enc.Border)
	}
}

func TestFindSimpleRejectsIncompleteRing(t *testing.T) {
	g, ws, f := setup(t, 9, 9)
	place := func(sgf string, owner worm.Owner) {
		x, y, _ := g.ParseSGFCoord(sgf)
		ws.PlaceDot(g.Index(x, y), owner)
	}
	place("cb", worm.Black)
	place("bc", worm.Black)
	place("dc", worm.Black)
	// cd deliberately missing.

	ccX, ccY, _ := g.ParseSGFCoord("cc")
	cc := g.Index(ccX, ccY)
	if _, ok := f.FindSimple(cc, worm.Black); ok {
		t.Errorf("expected no simple enclosure with an incomplete ring")
	}
	if _, ok := f.Find(cc, worm.Black); ok {
		t.Errorf("expected no enclosure at all with the ring open to the board edge")
	}
}

// TestFindNonSimpleCapturesOpponentDot grounds the general flood-fill path:
// a ring of Black dots enclosing a single White dot captures it as interior.
func TestFindNonSimpleCapturesOpponentDot(t *testing.T) {
	g, ws, f := setup(t, 9, 9)
	place := func(sgf string, owner worm.Owner) geom.Point {
		x, y, _ := g.ParseSGFCoord(sgf)
		p := g.Index(x, y)
		ws.PlaceDot(p, owner)
		return p
	}

	ccX, ccY, _ := g.ParseSGFCoord("cc")
	cc := g.Index(ccX, ccY)
	ws.PlaceDot(cc, worm.White)

	place("cb", worm.Black)
	place("bc", worm.Black)
	place("dc", worm.Black)
	place("cd", worm.Black)

	enc, ok := f.Find(cc, worm.Black)
	if !ok {
		t.Fatalf("expected an enclosure capturing the White dot at cc")
	}
	if enc.InteriorSize() != 1 || !enc.ContainsInterior(cc) {
		t.Errorf("expected interior = {cc}, got %v", enc.Interior)
	}
}

func TestFindNonSimpleOpenRegionFindsNothing(t *testing.T) {
	g, ws, f := setup(t, 9, 9)
	place := func(sgf string, owner worm.Owner) {
		x, y, _ := g.ParseSGFCoord(sgf)
		ws.PlaceDot(g.Index(x, y), owner)
	}
	place("cb", worm.Black)
	place("bc", worm.Black)
	place("dc", worm.Black)

	ccX, ccY, _ := g.ParseSGFCoord("cc")
	cc := g.Index(ccX, ccY)
	if _, ok := f.Find(cc, worm.Black); ok {
		t.Errorf("expected no enclosure: region reaches the board edge")
	}
}
