package threat

import (
	"github.com/bartekd/kropla/internal/enclosure"
	"github.com/bartekd/kropla/internal/geom"
	"github.com/bartekd/kropla/internal/worm"
)

// Scanner runs the pre-/post-placement threat scan described in spec §4.D.
// It is grounded on hailam-chessplay/internal/board/movegen.go's pattern of
// enumerating pseudo-candidates first and verifying them in a second pass,
// mirrored here as "candidate scan" then "post-placement verification".
type Scanner struct {
	g *geom.Board
	w *worm.State
	f *enclosure.Finder

	byOwner [3]*Index // indexed by worm.Owner; slot 0 unused
}

// NewScanner builds a scanner maintaining both owners' threat indices over
// the same board/worm state.
func NewScanner(g *geom.Board, w *worm.State, f *enclosure.Finder, black, white *Index) *Scanner {
	s := &Scanner{g: g, w: w, f: f}
	s.byOwner[worm.Black] = black
	s.byOwner[worm.White] = white
	return s
}

// candidate is a not-yet-verified one-move enclosure threat.
type candidate struct {
	where geom.Point
}

// twoMoveCandidate is a not-yet-verified two-move enclosure threat.
type twoMoveCandidate struct {
	where, where2 geom.Point
}

// PrePlacementScan runs before p is actually placed on the board (the
// board/worm state still reflects the position before who plays p). It
// returns the candidate lists for PostPlacementVerify to confirm once p has
// been placed.
func (s *Scanner) PrePlacementScan(p geom.Point, who worm.Owner) (candidates []candidate, twoMove []twoMoveCandidate) {
	idx := s.indexFor(who)

	// Existing ENCL threats whose `where` is p become realised territory;
	// existing ENCL threats whose interior contains p shrink or die.
	for _, t := range idx.ThreatsAt(p) {
		if t.Kind == KindEncl && t.Where == p {
			t.Kind = KindTerr
			t.Where = geom.NoPoint
			continue
		}
		if t.Encl != nil && t.Encl.ContainsInterior(p) {
			if t.Encl.InteriorSize() <= 1 {
				idx.MarkRemove(t.ID)
			} else {
				idx.MarkCheck(t.ID)
			}
		}
	}

	// Candidate one-move ENCL threats: empty points whose Conn now touches
	// >=2 distinct groups reachable through p.
	s.g.EachNB4(p, func(_ int, q geom.Point) {
		if !s.g.OnBoard(q) || !s.w.IsEmpty(q) {
			return
		}
		if len(s.w.Conn(who, q).DistinctGroups()) >= 2 {
			candidates = append(candidates, candidate{where: q})
		}
	})
	if len(s.w.Conn(who, p).DistinctGroups()) >= 1 && s.w.IsEmpty(p) {
		candidates = append(candidates, candidate{where: p})
	}

	// Candidate two-move threats: pairs (nb, nb2) in the 5x5 neighbourhood
	// of p whose Conn entries together touch at least two distinct groups.
	for i := 0; i < 25; i++ {
		nb := s.g.NB25(p, i)
		if !s.g.OnBoard(nb) || !s.w.IsEmpty(nb) {
			continue
		}
		s.g.EachNB4(nb, func(_ int, nb2 geom.Point) {
			if !s.g.OnBoard(nb2) || !s.w.IsEmpty(nb2) || nb2 == nb {
				return
			}
			groups := map[worm.ID]bool{}
			for _, gid := range s.w.Conn(who, nb).DistinctGroups() {
				groups[gid] = true
			}
			for _, gid := range s.w.Conn(who, nb2).DistinctGroups() {
				groups[gid] = true
			}
			if len(groups) >= 2 {
				twoMove = append(twoMove, twoMoveCandidate{where: nb, where2: nb2})
			}
		})
	}
	return candidates, twoMove
}

// PostPlacementVerify runs after p has been placed (worm/conn state already
// updated), confirming each candidate by temporarily "pretending" ownership
// and calling the enclosure finder, then dedups by Zobrist and inserts new
// threats. Call after the caller has re-run CheckStaged on marked threats.
func (s *Scanner) PostPlacementVerify(p geom.Point, who worm.Owner, candidates []candidate, twoMove []twoMoveCandidate) {
	idx := s.indexFor(who)

	for _, c := range candidates {
		for i := 0; i < 4; i++ {
			q := s.g.NB4(c.where, i)
			if !s.g.OnBoard(q) || s.w.OwnerAt(q) == who {
				continue
			}
			encl, ok := s.f.FindPretend(q, who, c.where, c.where)
			if !ok || !encl.ContainsBorder(c.where) {
				continue
			}
			if idx.FindByZobrist(c.where, geom.NoPoint, encl) != nil {
				continue
			}
			t := &Threat{Owner: who, Kind: KindEncl, Where: c.where, Where2: geom.NoPoint, Encl: encl}
			idx.AddThreat(t)
			idx.refreshCounters(t)
		}
	}

	for _, c := range twoMove {
		if !s.w.IsEmpty(c.where) || !s.w.IsEmpty(c.where2) {
			continue
		}
		encl, ok := s.verifyTwoMove(c.where, c.where2, who)
		if !ok {
			continue
		}
		if idx.FindByZobrist(c.where, c.where2, encl) != nil {
			continue
		}
		t := &Threat{Owner: who, Kind: KindEncl, Where: c.where, Where2: c.where2, TwoMove: true, Encl: encl}
		idx.AddThreat(t)
		idx.refreshCounters(t)
	}

	idx.RemoveMarked()
	s.indexFor(who.Other()).RemoveMarkedAndAtPoint(p)
}

// verifyTwoMove pretends who already owns both where0 and where1 and runs
// the enclosure finder from a not-yet-enclosed 4-neighbour of either, the
// same way the one-move case probes each not-yet-enclosed 4-neighbour of its
// candidate (spec §4.D): "pretend who owns both where0 and where1, run the
// enclosure finder, require the result to have both pretend-points on its
// border". Symmetric in where0/where1 by construction, so candidates
// generated as (a,b) and (b,a) verify identically (invariant §8.7).
func (s *Scanner) verifyTwoMove(where0, where1 geom.Point, who worm.Owner) (*enclosure.Enclosure, bool) {
	var found *enclosure.Enclosure
	try := func(q geom.Point) bool {
		if found != nil || !s.g.OnBoard(q) || !s.w.IsEmpty(q) || q == where0 || q == where1 {
			return false
		}
		encl, ok := s.f.FindPretend(q, who, where0, where1)
		if !ok || !encl.ContainsBorder(where0) || !encl.ContainsBorder(where1) {
			return false
		}
		found = encl
		return true
	}
	s.g.EachNB4(where0, func(_ int, q geom.Point) { try(q) })
	if found == nil {
		s.g.EachNB4(where1, func(_ int, q geom.Point) { try(q) })
	}
	return found, found != nil
}

func (s *Scanner) indexFor(who worm.Owner) *Index {
	return s.byOwner[who]
}
