// Package simplegame implements spec component H: the aggregate of
// geometry, enclosure, worms, threats, patterns, safety, and move lists
// behind a single mutating method, PlaceDot, that the rule layer
// (internal/game) drives.
package simplegame

import (
	"github.com/bartekd/kropla/internal/enclosure"
	"github.com/bartekd/kropla/internal/geom"
	"github.com/bartekd/kropla/internal/movelist"
	"github.com/bartekd/kropla/internal/pattern"
	"github.com/bartekd/kropla/internal/safety"
	"github.com/bartekd/kropla/internal/threat"
	"github.com/bartekd/kropla/internal/worm"
)

// Dirty is the aggregate dirty-flags record returned by PlaceDot, used by
// internal/game to decide which refreshes (soft safety, pattern drain) are
// needed (spec §4.H).
type Dirty struct {
	worm.DirtyFlags
	Candidates      []geom.Point // one-move threat candidates to verify
	TwoMoveCand     int          // count only, detail kept inside the scanner call
	NeedsSafetyFull bool
	NeedsSafetyLocal []geom.Point
}

// Game is the simple-game core: everything needed to place a dot and read
// back the derived state, with no rule-level concepts (mandatory capture,
// scoring, passing) layered on yet.
type Game struct {
	Board    *geom.Board
	Zobrist  *geom.Zobrist
	Worms    *worm.State
	Finder   *enclosure.Finder
	Patterns *pattern.Tables
	Recalc   *pattern.RecalcList
	Safety   *safety.State
	Moves    *movelist.Partition

	Threats [3]*threat.Index // indexed by worm.Owner, slot 0 unused
	scanner *threat.Scanner

	NowMoves worm.Owner // whose turn it is (informational; game layer owns rule semantics)
	History  []geom.Point
}

// New allocates a fresh simple-game core over a w x h board.
func New(w, h int) (*Game, error) {
	g, err := geom.NewBoard(w, h)
	if err != nil {
		return nil, err
	}
	z := geom.NewZobrist(g)
	ws := worm.NewState(g)
	finder := enclosure.NewFinder(g, ws, z)
	blackThreats := threat.NewIndex(g, ws)
	whiteThreats := threat.NewIndex(g, ws)

	game := &Game{
		Board:    g,
		Zobrist:  z,
		Worms:    ws,
		Finder:   finder,
		Patterns: pattern.DefaultTables(),
		Recalc:   pattern.NewRecalcList(),
		Safety:   safety.NewState(g, ws),
		Moves:    movelist.NewPartition(g, movelist.Neutral),
		NowMoves: worm.Black,
	}
	game.Threats[worm.Black] = blackThreats
	game.Threats[worm.White] = whiteThreats
	game.scanner = threat.NewScanner(g, ws, finder, blackThreats, whiteThreats)
	return game, nil
}

// PlaceDot is the package's only mutating method (spec §4.H). It assumes p
// is on-board and currently empty; the rule layer is responsible for
// rejecting illegal placements before calling this.
func (gm *Game) PlaceDot(p geom.Point, who worm.Owner) Dirty {
	preCandidates, preTwoMove := gm.scanner.PrePlacementScan(p, who)

	wd := gm.Worms.PlaceDot(p, who)

	gm.Threats[who].CheckStaged(gm.Finder)
	gm.Threats[who.Other()].CheckStaged(gm.Finder)
	gm.scanner.PostPlacementVerify(p, who, preCandidates, preTwoMove)

	gm.Recalc.AddAll(wd.RecalculatePatterns)
	gm.Moves.ChangeMove(p, movelist.Removed)
	if gm.Board.Dist(p) == 0 {
		gm.Moves.MarginFilled(edgeDirOf(gm.Board, p), p)
	}

	d := Dirty{DirtyFlags: wd}
	if wd.SoftSafety == worm.SoftSafetyFull {
		gm.Safety.RefreshAll()
		d.NeedsSafetyFull = true
	} else if wd.SoftSafety == worm.SoftSafetyLocal {
		gm.Safety.RefreshPoint(p)
		d.NeedsSafetyLocal = append(d.NeedsSafetyLocal, p)
	}

	gm.Recalc.Drain(func(q geom.Point) {
		cls := gm.Patterns.Classify(gm.Board, gm.Worms, q)
		if !gm.Worms.IsEmpty(q) {
			return
		}
		switch gm.Moves.ListOf(q) {
		case movelist.Neutral, movelist.Dame, movelist.TerrM:
			if cls.DameFor[worm.Black] || cls.DameFor[worm.White] {
				gm.Moves.ChangeMove(q, movelist.Dame)
			}
		}
	})

	gm.History = append(gm.History, p)
	return d
}

func edgeDirOf(g *geom.Board, p geom.Point) int {
	x, y := g.XY(p)
	switch {
	case y == 1:
		return 0
	case x == g.W:
		return 1
	case y == g.H:
		return 2
	default:
		return 3
	}
}
