package mcts

import (
	"github.com/bartekd/kropla/internal/game"
	"github.com/bartekd/kropla/internal/geom"
	"github.com/bartekd/kropla/internal/pattern"
	"github.com/bartekd/kropla/internal/worm"
)

// PriorCap is the fixed normalisation cap every child's prior simulations
// are scaled down to (spec §4.L "Priors").
const PriorCap = 20

// CNN is the optional policy-network collaborator (spec component M): a
// single call translating a plane stack at the given depth into a
// probability map. A nil CNN (or IsAvailable()==false) means priors skip
// the CNN mixing step entirely; the engine must remain correct either way.
type CNN interface {
	IsAvailable() bool
	Probabilities(g *game.Game, depth int) (probs []float64, ok bool)
}

// MaxCNNDepth bounds how deep into the tree the CNN is consulted (spec
// §4.L/§4.M).
const MaxCNNDepth = 3

func cnnPriorMax(depth int) float64 {
	switch {
	case depth <= 1:
		return 800
	case depth == 2:
		return 400
	default:
		return 200
	}
}

// priorAccum collects the "(N won, N total)" components the spec lists
// before they are summed and rescaled to PriorCap.
type priorAccum struct {
	wonSims   float64
	totalSims float64
}

func (p *priorAccum) addWon(n float64)  { p.wonSims += n; p.totalSims += n }
func (p *priorAccum) addLost(n float64) { p.totalSims += n }

// BuildPriors implements spec §4.L's prior construction for one candidate
// child move, returning (playouts, wins) scaled to PriorCap.
func BuildPriors(g *game.Game, tables *pattern.Tables, ladders LadderReader, who worm.Owner, move geom.Point, lastMove, lastButOne geom.Point, insideOppTerr bool, minAreaIfInside int) (playouts int32, wins int32) {
	// Base: 30 simulations at 0.5 (spec §4.L "Priors").
	acc := &priorAccum{wonSims: 15, totalSims: 30}

	cls := tables.Classify(g.Simple.Board, g.Simple.Worms, move)
	if v := tables.Value(who, pattern.CodeAt(g.Simple.Board, g.Simple.Worms, move)); v > 0 {
		acc.addWon((float64(v) + 15) / 8)
	}

	if cls.Interesting != 0 {
		acc.addWon(4 * float64(cls.Interesting))
	}

	if lastMove != geom.NoPoint {
		dist := chebyshevPoints(g, move, lastMove)
		if dist <= 4 {
			acc.addWon(float64(6 - dist))
		}
	}
	if lastButOne != geom.NoPoint {
		dist := chebyshevPoints(g, move, lastButOne)
		if dist <= 4 {
			acc.addWon(float64(6 - dist))
		}
	}

	n2m := countTwoMoveThreatsThrough(g, who, move)
	if n2m > 0 {
		acc.addWon(5 + minF(float64(n2m), 15))
	}

	if g.Simple.Threats[who.Other()].IsIn2MoveEnclosure(move) {
		acc.addLost(15)
	}

	if atariValue := atariWinValue(g, who, move); atariValue > 0 {
		acc.addWon(5 + 2*minF(atariValue, 15))
	}

	if insideOppTerr {
		if minAreaIfInside > 0 {
			acc.addLost(80 - minF(float64(minAreaIfInside), 20))
		} else {
			acc.addLost(14)
		}
	}

	if ladders != nil {
		status, _, _ := ladders.CheckLadder(who, move)
		switch {
		case status > 0:
			acc.addWon(3)
		case status < 0:
			acc.addLost(5)
		}
	}

	total := acc.totalSims
	won := acc.wonSims
	if total > PriorCap {
		scale := PriorCap / total
		total *= scale
		won *= scale
	}
	return int32(total), int32(won)
}

func chebyshevPoints(g *game.Game, a, b geom.Point) int {
	ax, ay := g.Simple.Board.XY(a)
	bx, by := g.Simple.Board.XY(b)
	return geom.Chebyshev(ax, ay, bx, by)
}

func minF(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}

// countTwoMoveThreatsThrough counts our two-move threats whose Where or
// Where2 is move, a cheap proxy for "threats-in-2 created/avoided".
func countTwoMoveThreatsThrough(g *game.Game, who worm.Owner, move geom.Point) int {
	n := 0
	for _, t := range g.Simple.Threats[who].ThreatsAt(move) {
		if t.TwoMove {
			n++
		}
	}
	return n
}

// atariWinValue is a coarse proxy for "our/opp atari win value at this
// point": the largest dot count among own/opponent worms orthogonally
// adjacent to move whose hard safety is below 2.
func atariWinValue(g *game.Game, who worm.Owner, move geom.Point) float64 {
	best := 0.0
	g.Simple.Board.EachNB4(move, func(_ int, q geom.Point) {
		if !g.Simple.Board.OnBoard(q) || g.Simple.Worms.IsEmpty(q) {
			return
		}
		if d := g.Simple.Worms.Descr(g.Simple.Worms.IDAt(q)); d != nil && d.Safety < 2 {
			if v := float64(d.Dots); v > best {
				best = v
			}
		}
	})
	return best
}

// LadderReader is the interface BuildPriors consults for the ladder
// extension component; internal/ladder.Reader implements it.
type LadderReader interface {
	CheckLadder(defender worm.Owner, where geom.Point) (status int, nextAttacker, nextDefender geom.Point)
}

