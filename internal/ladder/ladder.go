// Package ladder implements spec component N: a recursive ladder reader
// that decides whether a chased worm escapes or is caught, and surfaces
// forbidden_place/forced_move signals to the playout policy.
package ladder

import (
	"github.com/bartekd/kropla/internal/geom"
	"github.com/bartekd/kropla/internal/worm"
)

// Status is the ladder outcome (spec §4.N): -1 escaper wins, 0 undecided,
// 1 attacker wins.
type Status int

const (
	EscaperWins Status = -1
	Undecided   Status = 0
	AttackerWins Status = 1
)

// Breaker records a point whose state would flip a ladder's outcome; kept
// for debugging only (spec §4.N), never consulted by the playout cascade.
type Breaker struct {
	Point  geom.Point
	Flips  Status
}

// Reader runs check_ladder over a live board/worm state. Its only mutable
// state is a memo of step outcomes (grounded on internal/engine/pawnhash.go's
// cache); ladder outcomes depend on the whole local configuration, not a
// single hashable key, so the memo keys on (where, defender,
// escape-direction) and must be cleared with Invalidate after any move.
type Reader struct {
	g *geom.Board
	w *worm.State

	memo map[memoKey]Status
}

type memoKey struct {
	where geom.Point
	who   worm.Owner
	dir   int
}

// NewReader builds a ladder reader over g/w.
func NewReader(g *geom.Board, w *worm.State) *Reader {
	return &Reader{g: g, w: w, memo: make(map[memoKey]Status)}
}

// Invalidate drops the memo; callers clear it after any move since ladder
// status depends on the live board.
func (r *Reader) Invalidate() { r.memo = make(map[memoKey]Status) }

// CheckLadder implements spec §4.N's check_ladder(who_defends, where):
// validates the ladder configuration around where, then recurses stepping
// the escape direction by 90 degrees each ply.
func (r *Reader) CheckLadder(defender worm.Owner, where geom.Point) (status int, nextAttacker, nextDefender geom.Point) {
	attacker := defender.Other()
	dir, ok := r.validateLadderShape(defender, attacker, where)
	if !ok {
		return int(Undecided), geom.NoPoint, geom.NoPoint
	}
	st, att, def := r.step(defender, attacker, where, dir, 0, nil)
	return int(st), att, def
}

// validateLadderShape checks spec step 1: exactly one attacker worm on
// either side of where sharing a group (the two ladder flanks), with one
// empty escape neighbour, and returns the escape direction (an nb4 index).
func (r *Reader) validateLadderShape(defender, attacker worm.Owner, where geom.Point) (dir int, ok bool) {
	if !r.g.OnBoard(where) || !r.w.IsEmpty(where) {
		return 0, false
	}
	var attackerIDs []worm.ID
	var escapeDir = -1
	for i := 0; i < 4; i++ {
		q := r.g.NB4(where, i)
		if !r.g.OnBoard(q) {
			continue
		}
		switch r.w.OwnerAt(q) {
		case attacker:
			id := r.w.IDAt(q)
			dup := false
			for _, have := range attackerIDs {
				if have == id {
					dup = true
				}
			}
			if !dup {
				attackerIDs = append(attackerIDs, id)
			}
		case worm.Empty:
			escapeDir = i
		}
	}
	if len(attackerIDs) != 2 || escapeDir < 0 {
		return 0, false
	}
	d0, d1 := r.w.Descr(attackerIDs[0]), r.w.Descr(attackerIDs[1])
	if d0 == nil || d1 == nil || d0.GroupID != d1.GroupID {
		return 0, false
	}
	return escapeDir, true
}

// step implements spec step 2-3: advance where by the escape direction,
// inspect all 8 ring-1 points around the advanced point, then recurse with
// the escape direction rotated 90 degrees. The breakers slice is passed
// down unchanged; nothing is appended to it.
func (r *Reader) step(defender, attacker worm.Owner, where geom.Point, escapeDir, depth int, breakers []Breaker) (Status, geom.Point, geom.Point) {
	if depth > r.g.W+r.g.H {
		return Undecided, geom.NoPoint, geom.NoPoint
	}
	key := memoKey{where, defender, escapeDir}
	if st, ok := r.memo[key]; ok {
		return st, geom.NoPoint, geom.NoPoint
	}

	next := r.g.NB4(where, escapeDir)
	if !r.g.OnBoard(next) {
		r.memo[key] = EscaperWins
		return EscaperWins, geom.NoPoint, geom.NoPoint
	}

	attackerConnected := false
	defenderOnEscapeLine := false
	defenderGivesAtari := false
	for i := 0; i < 8; i++ {
		q := r.g.NB8(next, i)
		if !r.g.OnBoard(q) {
			continue
		}
		switch r.w.OwnerAt(q) {
		case attacker:
			if d := r.w.Descr(r.w.IDAt(q)); d != nil && d.Safety >= 2 {
				attackerConnected = true
			}
		case defender:
			defenderOnEscapeLine = true
			if d := r.w.Descr(r.w.IDAt(q)); d != nil && d.Safety < 2 {
				defenderGivesAtari = true
			}
		}
	}

	if attackerConnected {
		r.memo[key] = AttackerWins
		return AttackerWins, next, geom.NoPoint
	}
	if defenderOnEscapeLine && !defenderGivesAtari {
		r.memo[key] = EscaperWins
		return EscaperWins, geom.NoPoint, next
	}

	rotated := (escapeDir + 1) % 4
	st, att, def := r.step(defender, attacker, next, rotated, depth+1, breakers)
	r.memo[key] = st
	return st, att, def
}
