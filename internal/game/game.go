// Package game implements spec component I: the full rule layer on top of
// internal/simplegame — make_move with mandatory/optional enclosure
// realisation, must-surround auto-capture, and pass/turn bookkeeping.
package game

import (
	"fmt"

	"github.com/bartekd/kropla/internal/enclosure"
	"github.com/bartekd/kropla/internal/geom"
	"github.com/bartekd/kropla/internal/movelist"
	"github.com/bartekd/kropla/internal/simplegame"
	"github.com/bartekd/kropla/internal/threat"
	"github.com/bartekd/kropla/internal/worm"
)

// Ruleset toggles the one rule variant the spec enumerates in §6:
// must-surround mode, where any opponent dot left inside our territory at
// the end of a move must be auto-enclosed.
type Ruleset struct {
	MustSurround bool
	Komi         int // fixed integer added to player 2's score
}

// Game is the mutable rule-layer state: a simple-game core plus move
// history and pass bookkeeping. MakeMove plays a dot, MakePass records a
// pass (spec §4.I step 4's "flip now_moves"), and RealizeEnclosure
// realises an enclosure outside MakeMove.
type Game struct {
	Simple  *simplegame.Game
	Rules   Ruleset
	passes  int // consecutive passes; two in a row end the game
	NowMoves worm.Owner
}

// New allocates a fresh rule-layer game over a w x h board.
func New(w, h int, rules Ruleset) (*Game, error) {
	sg, err := simplegame.New(w, h)
	if err != nil {
		return nil, err
	}
	return &Game{Simple: sg, Rules: rules, NowMoves: worm.Black}, nil
}

// MakeMove plays p for who, realising every mandatory enclosure plus the
// caller-selected optional ones, then (if must-surround is on) auto-closes
// any opponent dot left in our territory, and finally flips the turn (spec
// §4.I).
//
// Playing on an occupied point is a programming error (spec: "fatal"), so
// it panics rather than returning an error — callers are expected to have
// already validated legality via Simple.Moves before calling MakeMove.
func (g *Game) MakeMove(p geom.Point, who worm.Owner, optional []*enclosure.Enclosure) error {
	if !g.Simple.Worms.IsEmpty(p) {
		panic(fmt.Sprintf("MakeMove: point %d already occupied", p))
	}
	g.passes = 0

	g.Simple.PlaceDot(p, who)

	// Every ENCL threat this move's dot just joined (either as the
	// completing Where, or because p itself became one of its border
	// dots, the simple-diamond case) is a mandatory capture (spec §4.I
	// step 2: "enclosure attached to the move").
	var toRealise []*enclosure.Enclosure
	seen := map[uint64]bool{}
	for _, t := range g.Simple.Threats[who].ThreatsAt(p) {
		if t.Kind != threat.KindEncl || t.Encl == nil {
			continue
		}
		if t.Where != p && !t.Encl.ContainsBorder(p) {
			continue
		}
		if seen[t.Encl.Key()] {
			continue
		}
		seen[t.Encl.Key()] = true
		toRealise = append(toRealise, t.Encl)
	}
	toRealise = append(toRealise, optional...)

	for _, encl := range toRealise {
		g.makeEnclosure(encl, who)
	}

	if g.Rules.MustSurround {
		g.autoSurround(who)
	}

	g.NowMoves = who.Other()
	return nil
}

// MakePass records a pass for who; two consecutive passes end the game.
// The RU "Stop=1" flag (sgf.Meta.StopOnPass) is not consulted here, so a
// single pass never ends the game.
func (g *Game) MakePass(who worm.Owner) {
	g.passes++
	g.NowMoves = who.Other()
}

// GameOver reports whether two consecutive passes have occurred.
func (g *Game) GameOver() bool { return g.passes >= 2 }

// RealizeEnclosure exposes makeEnclosure for callers (such as internal/sgf)
// that discover an optional enclosure to realise outside of MakeMove's own
// automatic detection — e.g. an `!<pt>` forced-enclosure annotation on a
// transcript move that names a pre-existing territory rather than one the
// placed dot itself completes.
func (g *Game) RealizeEnclosure(encl *enclosure.Enclosure, who worm.Owner) {
	g.makeEnclosure(encl, who)
}

// makeEnclosure implements spec §4.I step 2: merge border worms, capture
// interior, repair split opponent groups, reset connections, and remove
// threats the capture invalidates (no threat is shrunk).
func (g *Game) makeEnclosure(encl *enclosure.Enclosure, who worm.Owner) {
	ws := g.Simple.Worms
	survivor := ws.MergeBorder(encl.Border)
	touchedOpp := ws.CaptureInterior(encl.Interior, who, survivor)

	for _, oppID := range touchedOpp {
		if d := ws.Descr(oppID); d != nil {
			ws.RelabelGroup(oppID, d.GroupID)
		}
	}

	for _, p := range encl.Interior {
		ws.ResetConnAt(p)
		g.Simple.Moves.ChangeMove(p, movelist.Removed)
	}
	for _, p := range encl.Border {
		g.Simple.Recalc.Add(p)
	}

	g.pruneThreatsAfterCapture(encl, who)

	if g.territoryFullyOwnInterior(encl, who) {
		g.checkThreatTerr(encl, who)
	}
}

// pruneThreatsAfterCapture removes own threats whose border or interior
// touches the just-realised enclosure, and opponent threats whose `where`
// lies inside it or whose enclosure touches it (spec §4.I step 2). No
// threat is shrunk, and no smaller replacement enclosure is searched for.
func (g *Game) pruneThreatsAfterCapture(encl *enclosure.Enclosure, who worm.Owner) {
	own := g.Simple.Threats[who]
	opp := g.Simple.Threats[who.Other()]

	for _, t := range own.All() {
		if t.Encl == nil {
			continue
		}
		if touchesEnclosure(t.Encl, encl) {
			own.MarkRemove(t.ID)
		}
	}
	own.RemoveMarked()

	for _, t := range opp.All() {
		if encl.ContainsInterior(t.Where) || (t.Encl != nil && touchesEnclosure(t.Encl, encl)) {
			opp.MarkRemove(t.ID)
		}
	}
	opp.RemoveMarked()
}

func touchesEnclosure(a, b *enclosure.Enclosure) bool {
	for _, p := range a.Border {
		if b.ContainsInterior(p) || b.ContainsBorder(p) {
			return true
		}
	}
	for _, p := range a.Interior {
		if b.ContainsInterior(p) {
			return true
		}
	}
	return false
}

// territoryFullyOwnInterior reports whether no point just outside encl's
// border (an 8-neighbour of a border dot lying outside the enclosure)
// holds an opponent dot. Empty outside points pass whether or not they lie
// in who's territory.
func (g *Game) territoryFullyOwnInterior(encl *enclosure.Enclosure, who worm.Owner) bool {
	gboard := g.Simple.Board
	for _, p := range encl.Border {
		ok := true
		gboard.EachNB8(p, func(_ int, q geom.Point) {
			if !gboard.OnBoard(q) {
				return
			}
			if encl.ContainsBorder(q) || encl.ContainsInterior(q) {
				return
			}
			if g.Simple.Worms.OwnerAt(q) != who && !g.Simple.Worms.IsEmpty(q) {
				ok = false
			}
		})
		if !ok {
			return false
		}
	}
	return true
}

// checkThreatTerr inserts a nested TERR threat recording that this
// enclosure sits wholly inside our own already-claimed territory (spec
// §4.I step 2, last bullet).
func (g *Game) checkThreatTerr(encl *enclosure.Enclosure, who worm.Owner) {
	idx := g.Simple.Threats[who]
	if idx.FindByZobrist(geom.NoPoint, geom.NoPoint, encl) != nil {
		return
	}
	idx.AddThreat(&threat.Threat{
		Owner:  who,
		Kind:   threat.KindTerr,
		Where:  geom.NoPoint,
		Where2: geom.NoPoint,
		Encl:   encl,
	})
}

// autoSurround implements must-surround mode (spec §4.I step 3): scan our
// territory for any opponent dot not yet captured and enclose it.
func (g *Game) autoSurround(who worm.Owner) {
	own := g.Simple.Threats[who]
	for _, t := range own.All() {
		if t.Kind != threat.KindTerr {
			continue
		}
		for _, p := range t.Encl.Interior {
			if g.Simple.Worms.OwnerAt(p) != worm.Empty && g.Simple.Worms.OwnerAt(p) != who {
				g.makeEnclosure(t.Encl, who)
				break
			}
		}
	}
}
