// Package safety implements spec component F: soft edge safety, computed
// margin by margin from hard worm safety (internal/worm), plus the
// move-value table that tags edge points as good defence or dame.
package safety

import (
	"github.com/bartekd/kropla/internal/geom"
	"github.com/bartekd/kropla/internal/worm"
)

// Margin identifies one of the board's four edges, indexed the same way as
// geom's nb4 directions (N=0, E=1, S=2, W=3).
type Margin int

const (
	MarginNorth Margin = iota
	MarginEast
	MarginSouth
	MarginWest
)

// cell holds the four soft-safety contributions for one point: two
// directions (the two ways to walk the margin past this point) times two
// owners, matching spec's `safety[p].saf[owner,dir]`.
type cell struct {
	saf [2][2]float64 // [owner-1][dir: 0=forward,1=backward]
}

// MoveValue tags an edge point as good ("value>0") or dame ("value<0") for
// each owner.
type MoveValue struct {
	ForBlack int
	ForWhite int
}

// State is the soft-safety model for one board. It is rebuilt margin by
// margin; RefreshAll and RefreshPoint are the two public dirty signals the
// spec calls for.
type State struct {
	g *geom.Board
	w *worm.State

	cells     []cell
	moveValue []MoveValue

	// justAdded / justRemoved record move-suggestion deltas from the last
	// refresh, so the playout layer can tell fresh responses from stale
	// continuations (spec §4.F).
	justAdded   []geom.Point
	justRemoved []geom.Point
	prevGood    map[geom.Point]bool
}

// NewState allocates soft-safety bookkeeping for g/w.
func NewState(g *geom.Board, w *worm.State) *State {
	return &State{
		g:         g,
		w:         w,
		cells:     make([]cell, g.Size()),
		moveValue: make([]MoveValue, g.Size()),
		prevGood:  make(map[geom.Point]bool),
	}
}

// MoveValueAt returns the current move-value tag for p.
func (s *State) MoveValueAt(p geom.Point) MoveValue { return s.moveValue[p] }

// JustAdded / JustRemoved return (and do not clear) the most recent
// refresh's move-suggestion deltas.
func (s *State) JustAdded() []geom.Point   { return s.justAdded }
func (s *State) JustRemoved() []geom.Point { return s.justRemoved }

// RefreshAll recomputes every margin (spec's "refresh all margins" signal).
func (s *State) RefreshAll() {
	s.justAdded = s.justAdded[:0]
	s.justRemoved = s.justRemoved[:0]
	for m := MarginNorth; m <= MarginWest; m++ {
		s.refreshMargin(m)
	}
}

// RefreshPoint recomputes only the margin(s) whose edge segment contains p
// (spec's "refresh only the margin(s) containing point p"); most points lie
// on at most one margin, corner points on two.
func (s *State) RefreshPoint(p geom.Point) {
	s.justAdded = s.justAdded[:0]
	s.justRemoved = s.justRemoved[:0]
	x, y := s.g.XY(p)
	if y == 1 {
		s.refreshMargin(MarginNorth)
	}
	if y == s.g.H {
		s.refreshMargin(MarginSouth)
	}
	if x == 1 {
		s.refreshMargin(MarginWest)
	}
	if x == s.g.W {
		s.refreshMargin(MarginEast)
	}
}

// refreshMargin walks margin m end to end, maintaining a running
// current_safety per owner (spec §4.F): it jumps to 1.0 on a safe worm
// touching the segment, accumulates +0.5*hard-safety across empty runs,
// and resets to 0 on opponent contact.
func (s *State) refreshMargin(m Margin) {
	pts := s.marginPoints(m)
	for owner := worm.Black; owner <= worm.White; owner++ {
		s.walkMargin(pts, owner, 0)
	}
	reversed := make([]geom.Point, len(pts))
	for i, p := range pts {
		reversed[len(pts)-1-i] = p
	}
	for owner := worm.Black; owner <= worm.White; owner++ {
		s.walkMargin(reversed, owner, 1)
	}
	for _, p := range pts {
		s.recomputeMoveValue(p)
	}
}

func (s *State) walkMargin(pts []geom.Point, owner worm.Owner, dir int) {
	current := 0.0
	for _, p := range pts {
		switch s.w.OwnerAt(p) {
		case owner:
			if d := s.w.Descr(s.w.IDAt(p)); d != nil && d.Safety >= 2 {
				current = 1.0
			}
		case owner.Other():
			current = 0.0
		default:
			// empty point: accumulate half the local hard-safety
			// contribution of the nearer same-owner worm, if any.
			current += 0.5 * localHardSafety(s.g, s.w, p, owner)
		}
		if current > 1.0 {
			current = 1.0
		}
		s.cells[p].saf[owner-1][dir] = current
	}
}

// marginPoints enumerates one edge's points corner to corner.
func (s *State) marginPoints(m Margin) []geom.Point {
	var pts []geom.Point
	switch m {
	case MarginNorth:
		for x := 1; x <= s.g.W; x++ {
			pts = append(pts, s.g.Index(x, 1))
		}
	case MarginSouth:
		for x := 1; x <= s.g.W; x++ {
			pts = append(pts, s.g.Index(x, s.g.H))
		}
	case MarginWest:
		for y := 1; y <= s.g.H; y++ {
			pts = append(pts, s.g.Index(1, y))
		}
	case MarginEast:
		for y := 1; y <= s.g.H; y++ {
			pts = append(pts, s.g.Index(s.g.W, y))
		}
	}
	return pts
}

func localHardSafety(g *geom.Board, w *worm.State, p geom.Point, owner worm.Owner) float64 {
	best := 0
	g.EachNB4(p, func(_ int, q geom.Point) {
		if g.OnBoard(q) && w.OwnerAt(q) == owner {
			if d := w.Descr(w.IDAt(q)); d != nil {
				safety := d.Safety
				if safety > 2 {
					safety = 2
				}
				if safety > best {
					best = safety
				}
			}
		}
	})
	return float64(best)
}

// recomputeMoveValue implements spec §4.F's move_value classification for
// edge point p from the local 3-point window's hard+soft totals.
func (s *State) recomputeMoveValue(p geom.Point) {
	if !s.g.OnBoard(p) || s.g.Dist(p) != 0 {
		return
	}
	prev := s.moveValue[p]
	var mv MoveValue
	for owner := worm.Black; owner <= worm.White; owner++ {
		hard, soft := s.localTotals(p, owner)
		val := 0
		switch {
		case hard >= 2 && s.w.IsEmpty(p):
			val = -1 // dame
		case hard == 1 && soft == 0 && s.w.IsEmpty(p):
			val = 1 // good defence
		case hard == 0 && soft >= 0.75:
			val = 1
		case hard == 0 && soft == 0.5:
			val = 1
		}
		if owner == worm.Black {
			mv.ForBlack = val
		} else {
			mv.ForWhite = val
		}
	}
	s.moveValue[p] = mv

	wasGood := prev.ForBlack > 0 || prev.ForWhite > 0
	isGood := mv.ForBlack > 0 || mv.ForWhite > 0
	if isGood && !wasGood {
		s.justAdded = append(s.justAdded, p)
	} else if wasGood && !isGood {
		s.justRemoved = append(s.justRemoved, p)
	}
}

func (s *State) localTotals(p geom.Point, owner worm.Owner) (hard int, soft float64) {
	s.g.EachNB4(p, func(_ int, q geom.Point) {
		if !s.g.OnBoard(q) {
			return
		}
		if s.w.OwnerAt(q) == owner {
			if d := s.w.Descr(s.w.IDAt(q)); d != nil && d.Safety > hard {
				hard = d.Safety
			}
		}
	})
	if hard > 2 {
		hard = 2
	}
	fwd := s.cells[p].saf[owner-1][0]
	bwd := s.cells[p].saf[owner-1][1]
	soft = fwd
	if bwd > soft {
		soft = bwd
	}
	return hard, soft
}
