package simplegame

import (
	"github.com/bartekd/kropla/internal/enclosure"
	"github.com/bartekd/kropla/internal/geom"
	"github.com/bartekd/kropla/internal/pattern"
	"github.com/bartekd/kropla/internal/threat"
	"github.com/bartekd/kropla/internal/worm"
)

// Clone returns a deep, independent copy of gm: Board and Zobrist (both
// read-only lookup tables once built) and the compiled pattern Tables
// (never mutated after load) are shared; every mutable component is
// deep-copied so concurrent MCTS workers never alias each other's state
// (spec §5).
func (gm *Game) Clone() *Game {
	ws := gm.Worms.Clone()
	finder := enclosure.NewFinder(gm.Board, ws, gm.Zobrist)

	blackThreats := gm.Threats[worm.Black].Clone(ws)
	whiteThreats := gm.Threats[worm.White].Clone(ws)

	clone := &Game{
		Board:    gm.Board,
		Zobrist:  gm.Zobrist,
		Worms:    ws,
		Finder:   finder,
		Patterns: gm.Patterns,
		Recalc:   pattern.NewRecalcList(),
		Safety:   gm.Safety.Clone(ws),
		Moves:    gm.Moves.Clone(),
		NowMoves: gm.NowMoves,
		History:  append([]geom.Point(nil), gm.History...),
	}
	clone.Threats[worm.Black] = blackThreats
	clone.Threats[worm.White] = whiteThreats
	clone.scanner = threat.NewScanner(gm.Board, ws, finder, blackThreats, whiteThreats)
	return clone
}
