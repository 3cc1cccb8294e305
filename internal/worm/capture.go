package worm

import "github.com/bartekd/kropla/internal/geom"

// MergeBorder merges every distinct worm touching border into one surviving
// id, the same smallest-into-largest rule PlaceDot's step 3 uses. It is the
// entry point internal/game calls when realising an enclosure (spec §4.I
// "merge all border worms into one").
func (s *State) MergeBorder(border []geom.Point) ID {
	var survivor ID
	seen := map[ID]bool{}
	for _, p := range border {
		id := s.id[p]
		if id == NoID || seen[id] {
			continue
		}
		seen[id] = true
		if survivor == NoID {
			survivor = id
			continue
		}
		survivor = s.mergeWorms(survivor, id)
	}
	return survivor
}

// CaptureInterior folds every interior point of a realised enclosure into
// the surviving border worm: empty points become new dots of who, owned by
// survivor; opponent dots are absorbed via an "other-colour" merge that
// awards their dot count as captured score and leaves survivor's own
// identity intact (spec §4.I step 2).
//
// It returns the opponent worm ids whose membership changed, so the caller
// can re-flood their group graph (an opponent worm split by the capture
// keeps its old group id on each remaining fragment until regrouped).
func (s *State) CaptureInterior(interior []geom.Point, who Owner, survivor ID) (touchedOpponents []ID) {
	sv := s.descrs[survivor]
	seenOpp := map[ID]bool{}

	for _, p := range interior {
		switch s.owner[p] {
		case Empty:
			s.owner[p] = who
			s.next[p] = s.next[sv.Leftmost]
			s.next[sv.Leftmost] = p
			s.id[p] = survivor
			sv.Dots++
			if p < sv.Leftmost {
				sv.Leftmost = p
			}
		case who:
			// Already part of survivor or another own worm inside the
			// enclosure; fold it in like any other same-owner merge.
			if s.id[p] != survivor {
				survivor = s.mergeWorms(survivor, s.id[p])
				sv = s.descrs[survivor]
			}
		default:
			oppID := s.id[p]
			if !seenOpp[oppID] {
				seenOpp[oppID] = true
				touchedOpponents = append(touchedOpponents, oppID)
			}
			s.captureOpponentCell(p, survivor)
			sv = s.descrs[survivor]
		}
	}
	return touchedOpponents
}

// captureOpponentCell removes p from its current (opponent) worm and
// reassigns it to survivor, splicing it into survivor's dot cycle. If this
// empties the opponent worm's descriptor, it is deleted.
func (s *State) captureOpponentCell(p geom.Point, survivor ID) {
	oldID := s.id[p]
	old := s.descrs[oldID]
	if old != nil {
		old.Dots--
		if old.Dots <= 0 {
			delete(s.descrs, oldID)
		} else if old.Leftmost == p {
			// p is leaving the cycle: re-enter it at the smallest
			// remaining dot.
			best := s.next[p]
			for q := s.next[best]; q != p; q = s.next[q] {
				if q < best {
					best = q
				}
			}
			old.Leftmost = best
		}
	}

	// Splice p out of its old cycle by finding its predecessor.
	pred := p
	for s.next[pred] != p {
		pred = s.next[pred]
		if pred == p {
			break
		}
	}
	if s.next[p] != p {
		s.next[pred] = s.next[p]
	}

	sv := s.descrs[survivor]
	s.owner[p] = sv.Owner
	s.id[p] = survivor
	s.next[p] = s.next[sv.Leftmost]
	s.next[sv.Leftmost] = p
	sv.Dots++
	if p < sv.Leftmost {
		sv.Leftmost = p
	}
}

// ResetConnAt clears both owners' Conn entries for p, used when an
// enclosure's interior points change ownership (spec §4.I "reset connection
// entries for every interior point").
func (s *State) ResetConnAt(p geom.Point) {
	s.conn[0][p] = ConnCode{}
	s.conn[1][p] = ConnCode{}
}

// RelabelGroup starts a flood over the neighbour-list graph from seed and
// assigns every reachable worm the given new group id, used to repair an
// opponent group that an enclosure's capture may have split (spec §4.I:
// "recomputed by a flood over the neighbour-list graph starting from an
// unlabelled descr").
func (s *State) RelabelGroup(seed ID, newGroup ID) {
	if s.descrs[seed] == nil {
		return
	}
	visited := map[ID]bool{seed: true}
	queue := []ID{seed}
	var members []ID
	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		d := s.descrs[id]
		if d == nil {
			continue
		}
		d.GroupID = newGroup
		members = append(members, id)
		for _, n := range d.Neighbours {
			nd := s.descrs[n]
			if nd == nil || nd.Owner != d.Owner || visited[n] {
				continue
			}
			// Only same-owner, diagonally-touching worms belong to the
			// same group; Neighbours mixes both, so filter here.
			if !s.sameGroupCandidate(id, n) {
				continue
			}
			visited[n] = true
			queue = append(queue, n)
		}
	}
	s.groupMembers[newGroup] = members
}

// sameGroupCandidate reports whether a and b were linked as a diagonal
// same-owner pair (as opposed to an opposite-owner Neighbours entry).
func (s *State) sameGroupCandidate(a, b ID) bool {
	da, db := s.descrs[a], s.descrs[b]
	return da != nil && db != nil && da.Owner == db.Owner
}

// GetOwner exposes a descriptor's owner for callers outside the package.
func (d *Descr) GetOwner() Owner { return d.Owner }
