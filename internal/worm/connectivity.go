package worm

import "github.com/bartekd/kropla/internal/geom"

// PlaceDot is the component's single mutating entry point (spec §4.C).
// It assumes p is currently empty and on-board; callers (simplegame) are
// responsible for rejecting occupied points as a rule error.
func (s *State) PlaceDot(p geom.Point, who Owner) DirtyFlags {
	var dirty DirtyFlags

	s.owner[p] = who
	s.next[p] = p // singleton cycle until merges attach it

	// Step 1: 4-neighbour worm-id set of the same owner.
	var sameOwnerNeighbours []ID
	s.g.EachNB4(p, func(_ int, q geom.Point) {
		if !s.g.OnBoard(q) {
			return
		}
		if s.owner[q] == who {
			id := s.id[q]
			found := false
			for _, have := range sameOwnerNeighbours {
				if have == id {
					found = true
					break
				}
			}
			if !found {
				sameOwnerNeighbours = append(sameOwnerNeighbours, id)
			}
		}
	})

	var myID ID
	if len(sameOwnerNeighbours) == 0 {
		// Step 2: mint a fresh worm.
		myID = s.newID(who)
		s.descrs[myID] = &Descr{Owner: who, Dots: 1, Leftmost: p, GroupID: myID}
		s.id[p] = myID
		s.groupMembers[myID] = []ID{myID}
	} else {
		// Step 3: fold p into the first neighbour worm, then merge the
		// rest pairwise, always absorbing the smaller into the larger.
		myID = sameOwnerNeighbours[0]
		s.attachDot(myID, p)
		for _, other := range sameOwnerNeighbours[1:] {
			myID = s.mergeWorms(myID, other)
		}
	}
	dirty.TouchedGroups = append(dirty.TouchedGroups, s.descrs[myID].GroupID)

	// Step 4: safety accounting.
	dirty.UpdateSafetyDame = s.updateSafetyOnPlacement(p, myID)

	// Step 5: diagonal pass — unify groups of same-owner diagonal dots.
	s.g.EachNB8(p, func(dir int, q geom.Point) {
		if dir%2 == 0 { // NE,SE,SW,NW are the diagonal slots in nb8 order
			if s.g.OnBoard(q) && s.owner[q] == who {
				otherID := s.id[q]
				if s.descrs[otherID].GroupID != s.descrs[myID].GroupID {
					s.unifyGroups(s.descrs[myID].GroupID, s.descrs[otherID].GroupID)
					dirty.TouchedGroups = append(dirty.TouchedGroups, s.descrs[myID].GroupID)
				}
			}
		}
	})

	// Also register reciprocal opposite-colour diagonal neighbour links
	// (used by threat/enclosure cross-worm bookkeeping).
	s.g.EachNB8(p, func(dir int, q geom.Point) {
		if dir%2 == 0 && s.g.OnBoard(q) {
			if qOwner := s.owner[q]; qOwner != Empty && qOwner != who {
				s.descrs[myID].addNeighbour(s.id[q])
				s.descrs[s.id[q]].addNeighbour(myID)
			}
		}
	})

	// Step 6: recompute Conn for the played point and toggle membership
	// bits on its ring-1 neighbours.
	s.recomputeConn(who, p)
	s.g.EachNB8(p, func(dir int, q geom.Point) {
		if !s.g.OnBoard(q) || s.owner[q] != Empty {
			return
		}
		opp := (dir + 4) % 8
		c := &s.conn[who-1][q]
		c.Bits |= 1 << uint(opp)
		c.addGroup(s.descrs[myID].GroupID)
		dirty.RecalculatePatterns = append(dirty.RecalculatePatterns, q)
	})
	dirty.RecalculatePatterns = append(dirty.RecalculatePatterns, p)

	if s.dist(p) <= 1 {
		dirty.SoftSafety = SoftSafetyLocal
	}
	if dirty.UpdateSafetyDame {
		dirty.SoftSafety = SoftSafetyFull
	}

	return dirty
}

func (s *State) dist(p geom.Point) int { return s.g.Dist(p) }

// attachDot appends p to worm id's next_dot cycle (entered at Leftmost)
// and updates Dots/Leftmost.
func (s *State) attachDot(id ID, p geom.Point) {
	d := s.descrs[id]
	// Splice p right after Leftmost: Leftmost -> p -> (old Leftmost.next)
	s.next[p] = s.next[d.Leftmost]
	s.next[d.Leftmost] = p
	s.id[p] = id
	d.Dots++
	if p < d.Leftmost {
		d.Leftmost = p
	}
}

// mergeWorms merges worms `a` and `b`, absorbing the smaller (by dot count)
// into the larger (`a` survives a tie) and erasing the absorbed id (spec
// §4.C step 3). Returns the surviving id.
func (s *State) mergeWorms(a, b ID) ID {
	if a == b {
		return a
	}
	da, db := s.descrs[a], s.descrs[b]
	survivor, absorbed := a, b
	if db.Dots > da.Dots {
		survivor, absorbed = b, a
	}
	sv, ab := s.descrs[survivor], s.descrs[absorbed]

	// Rewrite every cell of the absorbed worm to point at the survivor and
	// splice its dot cycle into the survivor's.
	s.EachDot(absorbed, func(p geom.Point) {
		s.id[p] = survivor
	})
	survivorNext := s.next[sv.Leftmost]
	absorbedNext := s.next[ab.Leftmost]
	s.next[sv.Leftmost] = absorbedNext
	s.next[ab.Leftmost] = survivorNext

	if ab.Leftmost < sv.Leftmost {
		sv.Leftmost = ab.Leftmost
	}
	sv.Dots += ab.Dots
	sv.Safety += ab.Safety
	if sv.Safety > Infinite {
		sv.Safety = Infinite
	}

	for _, n := range ab.Neighbours {
		sv.addNeighbour(n)
		if nd := s.descrs[n]; nd != nil {
			nd.removeNeighbour(absorbed)
			nd.addNeighbour(survivor)
		}
	}

	// If the absorbed worm carried a different group tag, fold its group
	// membership into the survivor's group.
	if ab.GroupID != sv.GroupID {
		s.unifyGroups(sv.GroupID, ab.GroupID)
	} else {
		s.replaceGroupMember(ab.GroupID, absorbed, survivor)
	}

	ab.dead = true
	delete(s.descrs, absorbed)
	return survivor
}

func (s *State) replaceGroupMember(group, old, new_ ID) {
	members := s.groupMembers[group]
	for i, m := range members {
		if m == old {
			members[i] = new_
		}
	}
	s.groupMembers[group] = members
}

// unifyGroups merges groups a and b into whichever has the smaller id, so
// that id is the stable survivor and repeated unifications of the same
// pair are idempotent.
func (s *State) unifyGroups(a, b ID) {
	if a == b {
		return
	}
	survivor, absorbed := a, b
	if absorbed < survivor {
		survivor, absorbed = absorbed, survivor
	}
	for _, m := range s.groupMembers[absorbed] {
		if d := s.descrs[m]; d != nil {
			d.GroupID = survivor
		}
	}
	s.groupMembers[survivor] = append(s.groupMembers[survivor], s.groupMembers[absorbed]...)
	delete(s.groupMembers, absorbed)
}

// updateSafetyOnPlacement implements spec §4.C step 4 and returns whether
// any worm's safety crossed the safe (>=2) threshold.
func (s *State) updateSafetyOnPlacement(p geom.Point, id ID) bool {
	d := s.descrs[id]
	before := d.Safety
	wasSafe := before >= 2
	otherCrossed := false

	if s.g.Dist(p) == 0 {
		d.Safety = Infinite
		// Decrement safety of adjacent worms (any owner) at distance 1
		// that touch this new edge dot orthogonally.
		s.g.EachNB4(p, func(_ int, q geom.Point) {
			if s.g.OnBoard(q) && s.g.Dist(q) == 1 && s.owner[q] != Empty {
				qd := s.descrs[s.id[q]]
				if qd != nil && qd.Safety < Infinite {
					qd.Safety--
					if qd.Safety == 1 {
						otherCrossed = true
					}
				}
			}
		})
	} else if s.g.Dist(p) == 1 {
		inc := 0
		s.g.EachNB4(p, func(_ int, q geom.Point) {
			if s.g.OnBoard(q) && s.g.Dist(q) == 0 && s.owner[q] == Empty {
				inc++
			}
		})
		if d.Safety < Infinite {
			d.Safety += inc
		}
	}

	nowSafe := d.Safety >= 2
	return nowSafe != wasSafe || otherCrossed
}

// recomputeConn recalculates Conn[who][p] from scratch for the point just
// played (it is no longer empty, so its own Conn entry becomes stale and
// is cleared; its role in neighbouring empty points' Conn is updated by
// the caller).
func (s *State) recomputeConn(who Owner, p geom.Point) {
	s.conn[who-1][p] = ConnCode{}
	s.conn[who.Other()-1][p] = ConnCode{}
}
