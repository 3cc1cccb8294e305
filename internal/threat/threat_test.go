package threat

import (
	"testing"

	"github.com/bartekd/kropla/internal/enclosure"
	"github.com/bartekd/kropla/internal/geom"
	"github.com/bartekd/kropla/internal/worm"
)

func setup(t *testing.T) (*geom.Board, *worm.State, *enclosure.Finder) {
	t.Helper()
	g, err := geom.NewBoard(9, 9)
	if err != nil {
		t.Fatalf("NewBoard: %v", err)
	}
	ws := worm.NewState(g)
	z := geom.NewZobrist(g)
	return g, ws, enclosure.NewFinder(g, ws, z)
}

func TestAddSubtractThreatUpdatesByPointIndex(t *testing.T) {
	g, ws, f := setup(t)
	idx := NewIndex(g, ws)

	x, y, _ := g.ParseSGFCoord("cc")
	p := g.Index(x, y)
	enc, _ := f.FindSimple(p, worm.Black) // not a real enclosure yet, just a value to attach
	if enc == nil {
		enc = &enclosure.Enclosure{}
	}
	th := &Threat{Owner: worm.Black, Kind: KindEncl, Where: p, Where2: geom.NoPoint, Encl: enc}
	id := idx.AddThreat(th)

	if len(idx.ThreatsAt(p)) != 1 {
		t.Fatalf("expected 1 threat at p, got %d", len(idx.ThreatsAt(p)))
	}
	idx.SubtractThreat(id)
	if len(idx.ThreatsAt(p)) != 0 {
		t.Errorf("expected threat removed from index after SubtractThreat")
	}
}

func TestScannerFindsEnclosureThreatAfterPlacement(t *testing.T) {
	g, ws, f := setup(t)
	blackIdx := NewIndex(g, ws)
	whiteIdx := NewIndex(g, ws)
	sc := NewScanner(g, ws, f, blackIdx, whiteIdx)

	place := func(sgf string, owner worm.Owner) geom.Point {
		x, y, _ := g.ParseSGFCoord(sgf)
		p := g.Index(x, y)
		ws.PlaceDot(p, owner)
		return p
	}
	place("cb", worm.Black)
	place("bc", worm.Black)
	place("dc", worm.Black)

	ccX, ccY, _ := g.ParseSGFCoord("cd")
	lastMove := g.Index(ccX, ccY)

	cands, twoMove := sc.PrePlacementScan(lastMove, worm.Black)
	place("cd", worm.Black)
	sc.PostPlacementVerify(lastMove, worm.Black, cands, twoMove)

	ccX2, ccY2, _ := g.ParseSGFCoord("cc")
	cc := g.Index(ccX2, ccY2)
	found := false
	for _, th := range blackIdx.ThreatsAt(cc) {
		if th.Encl != nil && th.Encl.ContainsInterior(cc) {
			found = true
		}
	}
	if !found {
		t.Errorf("expected a discovered one-move enclosure threat covering cc")
	}
}
