// Package playout implements spec component K: the weighted heuristic
// cascade that picks one legal move per ply on a scratch copy of the game
// until a termination condition, then scores the result into a value in
// (0,1).
package playout

import (
	"math/rand"

	"github.com/bartekd/kropla/internal/game"
	"github.com/bartekd/kropla/internal/geom"
	"github.com/bartekd/kropla/internal/movelist"
	"github.com/bartekd/kropla/internal/pattern"
	"github.com/bartekd/kropla/internal/scoring"
	"github.com/bartekd/kropla/internal/worm"
)

// LastGoodReply is a per-thread table mapping (opponent's last move) to the
// reply most recently played after it. Run records every reply it plays,
// whatever the playout's result, and a later entry replaces an earlier one.
type LastGoodReply struct {
	table map[geom.Point]geom.Point
}

// NewLastGoodReply allocates an empty table; Policy holds one per worker
// thread (spec §5 "per-thread state").
func NewLastGoodReply() *LastGoodReply { return &LastGoodReply{table: make(map[geom.Point]geom.Point)} }

// Update records reply as the answer to opponentMove, replacing any
// earlier entry (last write wins).
func (l *LastGoodReply) Update(opponentMove, reply geom.Point) {
	l.table[opponentMove] = reply
}

// Lookup returns the remembered reply to opponentMove, if any.
func (l *LastGoodReply) Lookup(opponentMove geom.Point) (geom.Point, bool) {
	p, ok := l.table[opponentMove]
	return p, ok
}

// Policy runs one playout's move selection; it is single-threaded per game
// copy (spec §4.K) and holds the per-thread scratch the cascade needs.
type Policy struct {
	Tables *pattern.Tables
	LGR    *LastGoodReply
	Rand   *rand.Rand

	// ForbiddenPlace / ForcedMove are hooks that Run consults first.
	// NewPolicy leaves ForbiddenPlace empty and ForcedMove nil, and no
	// other package sets them.
	ForbiddenPlace map[geom.Point]bool
	ForcedMove     func(g *game.Game, who worm.Owner) (geom.Point, bool)
}

// NewPolicy builds a playout policy seeded from seed (per-thread PRNG, spec
// §5).
func NewPolicy(tables *pattern.Tables, seed int64) *Policy {
	return &Policy{
		Tables:         tables,
		LGR:            NewLastGoodReply(),
		Rand:           rand.New(rand.NewSource(seed)),
		ForbiddenPlace: make(map[geom.Point]bool),
	}
}

// Result is a finished playout's outcome: the terminal score mapped to
// (0,1) from Black's perspective, plus the move sequence for AMAF credit.
type Result struct {
	ValueForBlack float64
	Moves         []geom.Point
	MoveOwners    []worm.Owner
}

// Run plays the game to a terminal state (two consecutive dame-only moves,
// or no legal move) from g's current position, mutating g in place, and
// returns the scored result (spec §4.K).
func (p *Policy) Run(g *game.Game, komi int) Result {
	var res Result
	consecutiveDame := 0
	lastMove, lastButOne := geom.NoPoint, geom.NoPoint

	for {
		who := g.NowMoves
		if p.ForcedMove != nil {
			if mv, ok := p.ForcedMove(g, who); ok {
				p.play(g, who, mv, &res)
				lastButOne, lastMove = lastMove, mv
				consecutiveDame = 0
				continue
			}
		}

		mv, isDame, ok := p.choose(g, who, lastMove, lastButOne)
		if !ok {
			break
		}
		if isDame {
			consecutiveDame++
		} else {
			consecutiveDame = 0
		}
		p.play(g, who, mv, &res)
		if lastMove != geom.NoPoint {
			p.LGR.Update(lastMove, mv)
		}
		lastButOne, lastMove = lastMove, mv
		if consecutiveDame >= 2 {
			break
		}
	}

	r := scoring.Simple(g.Simple.Board, g.Simple.Worms, g.Simple.Threats, komi, g.NowMoves)
	res.ValueForBlack = scoreToValue(r, g.Simple.Board)
	return res
}

func (p *Policy) play(g *game.Game, who worm.Owner, mv geom.Point, res *Result) {
	_ = g.MakeMove(mv, who, nil)
	res.Moves = append(res.Moves, mv)
	res.MoveOwners = append(res.MoveOwners, who)
}

// choose runs the 24-bit-mask heuristic cascade (spec §4.K table), trying
// each policy bit in order and returning the first move any of them
// proposes.
func (p *Policy) choose(g *game.Game, who worm.Owner, lastMove, lastButOne geom.Point) (mv geom.Point, isDame bool, ok bool) {
	r := p.Rand.Uint32() & 0xFFFFFF

	type attempt struct {
		mask uint32
		fn   func() (geom.Point, bool)
	}
	attempts := []attempt{
		{0x10000, func() (geom.Point, bool) {
			if lastMove == geom.NoPoint {
				return geom.NoPoint, false
			}
			return p.LGR.Lookup(lastMove)
		}},
		{0xc00, func() (geom.Point, bool) { return p.atariResponse(g, who, lastMove) }},
		{0xc000, func() (geom.Point, bool) { return p.softSafetyResponse(g, who, true) }},
		{0x300, func() (geom.Point, bool) { return p.patternAround(g, who, lastMove) }},
		{0x2000, func() (geom.Point, bool) { return p.softSafetyResponse(g, who, false) }},
		{0x4, func() (geom.Point, bool) { return p.patternAround(g, who, lastButOne) }},
		{0x2, func() (geom.Point, bool) { return p.atariMove(g, who) }},
		{0x80, func() (geom.Point, bool) { return p.interestingMove(g, who) }},
		{0x1, func() (geom.Point, bool) { return p.safetyMove(g, who) }},
	}

	for _, a := range attempts {
		if r&a.mask == 0 {
			continue
		}
		if mv, ok := a.fn(); ok && p.legal(g, mv) {
			return mv, g.Simple.Moves.ListOf(mv) == movelist.Dame, true
		}
	}
	return p.randomMove(g, who)
}

func (p *Policy) legal(g *game.Game, mv geom.Point) bool {
	return g.Simple.Board.OnBoard(mv) && g.Simple.Worms.IsEmpty(mv) && !p.ForbiddenPlace[mv]
}

func (p *Policy) atariResponse(g *game.Game, who worm.Owner, lastMove geom.Point) (geom.Point, bool) {
	if lastMove == geom.NoPoint {
		return geom.NoPoint, false
	}
	found := geom.NoPoint
	g.Simple.Board.EachNB8(lastMove, func(_ int, q geom.Point) {
		if found != geom.NoPoint || !g.Simple.Board.OnBoard(q) || !g.Simple.Worms.IsEmpty(q) {
			return
		}
		found = q
	})
	return found, found != geom.NoPoint
}

func (p *Policy) softSafetyResponse(g *game.Game, who worm.Owner, fresh bool) (geom.Point, bool) {
	var pts []geom.Point
	if fresh {
		pts = g.Simple.Safety.JustAdded()
	} else {
		pts = g.Simple.Safety.JustRemoved()
	}
	for _, pt := range pts {
		if g.Simple.Worms.IsEmpty(pt) {
			return pt, true
		}
	}
	return geom.NoPoint, false
}

func (p *Policy) patternAround(g *game.Game, who worm.Owner, around geom.Point) (geom.Point, bool) {
	if around == geom.NoPoint {
		return geom.NoPoint, false
	}
	best := geom.NoPoint
	bestVal := 0
	for i := 0; i < 8; i++ {
		q := g.Simple.Board.NB8(around, i)
		if !g.Simple.Board.OnBoard(q) || !g.Simple.Worms.IsEmpty(q) {
			continue
		}
		v := p.Tables.Value(who, pattern.CodeAt(g.Simple.Board, g.Simple.Worms, q))
		if v > bestVal {
			bestVal, best = v, q
		}
	}
	return best, best != geom.NoPoint
}

func (p *Policy) atariMove(g *game.Game, who worm.Owner) (geom.Point, bool) {
	for _, t := range g.Simple.Threats[who].All() {
		if t.SingularDots > 0 && t.Encl != nil {
			return t.Encl.BorderElement(), true
		}
	}
	return geom.NoPoint, false
}

func (p *Policy) interestingMove(g *game.Game, who worm.Owner) (geom.Point, bool) {
	neutral := g.Simple.Moves.List(movelist.Neutral)
	best := geom.NoPoint
	bestVal := 0
	for _, pt := range neutral {
		v := p.Tables.SymmValue(pattern.CodeAt(g.Simple.Board, g.Simple.Worms, pt))
		if v > bestVal {
			bestVal, best = v, pt
		}
	}
	return best, best != geom.NoPoint
}

func (p *Policy) safetyMove(g *game.Game, who worm.Owner) (geom.Point, bool) {
	for y := 1; y <= g.Simple.Board.H; y++ {
		for x := 1; x <= g.Simple.Board.W; x++ {
			pt := g.Simple.Board.Index(x, y)
			if g.Simple.Board.Dist(pt) != 0 || !g.Simple.Worms.IsEmpty(pt) {
				continue
			}
			mv := g.Simple.Safety.MoveValueAt(pt)
			if (who == worm.Black && mv.ForBlack > 0) || (who == worm.White && mv.ForWhite > 0) {
				return pt, true
			}
		}
	}
	return geom.NoPoint, false
}

// randomMove falls back to the possible_moves partition, preferring
// NEUTRAL over TERRM over DAME (spec §4.K).
func (p *Policy) randomMove(g *game.Game, who worm.Owner) (geom.Point, bool, bool) {
	for _, t := range []movelist.Type{movelist.Neutral, movelist.TerrM, movelist.Dame} {
		list := g.Simple.Moves.List(t)
		if len(list) == 0 {
			continue
		}
		for tries := 0; tries < 8; tries++ {
			pt := list[p.Rand.Intn(len(list))]
			if p.legal(g, pt) {
				return pt, t == movelist.Dame, true
			}
		}
	}
	return geom.NoPoint, false, false
}

// scoreToValue maps a final score into [0.04, 0.96]: the Black-minus-White
// difference is divided by (W+H)/2, clamped to +-1 and mapped linearly, so
// a tie gives 0.5. No small-score term enters the difference and there is
// no separate tie band.
func scoreToValue(r scoring.Result, board *geom.Board) float64 {
	diff := float64(r.Black - r.White)
	scale := float64(board.W+board.H) / 2
	x := diff / scale
	if x > 1 {
		x = 1
	}
	if x < -1 {
		x = -1
	}
	// Squash linearly into [0.04, 0.96], with the midpoint fixed at 0.5 so
	// a true tie shades continuously rather than jumping.
	return 0.5 + x*0.46
}
