// Package worm implements spec component C: the incremental maintenance of
// worms (maximal 4-connected same-colour sets of dots) and their diagonal group
// connectivity, driven by the single place_dot(x,y,who) entry point.
package worm

import (
	"math"

	"github.com/bartekd/kropla/internal/geom"
)

// Owner identifies which player's dot occupies a cell. Zero means empty.
// The two non-zero values double as the low bits of every worm id, so a
// worm id's owner can be read directly off the id (spec §3).
type Owner uint8

const (
	Empty Owner = 0
	Black Owner = 1
	White Owner = 2
)

// Other returns the opposing owner; undefined for Empty.
func (o Owner) Other() Owner {
	if o == Black {
		return White
	}
	return Black
}

// ID is a worm identifier. Ids are >=4 and congruent to their owner's value
// mod 4, so `ID(k).Owner()` recovers ownership without a table lookup.
type ID uint32

// NoID marks "no worm here".
const NoID ID = 0

// Owner recovers the owning player from the low two bits of the id.
func (id ID) Owner() Owner { return Owner(id & 3) }

// Infinite is the safety-counter sentinel for a worm with a dot on the
// board edge (spec §4.C step 4): such a worm can never be captured, so its
// safety counter is pinned at a value no finite accumulation can reach.
const Infinite = math.MaxInt32 / 2

// Descr is a worm's descriptor (spec §3 "Worm").
type Descr struct {
	Owner    Owner
	Dots     int // count of this worm's own dots
	Leftmost geom.Point
	GroupID  ID
	Safety   int
	// Neighbours lists opposite-colour worm ids touching this worm
	// diagonally, deduplicated.
	Neighbours []ID
	dead       bool
}

func (d *Descr) hasNeighbour(id ID) bool {
	for _, n := range d.Neighbours {
		if n == id {
			return true
		}
	}
	return false
}

func (d *Descr) addNeighbour(id ID) {
	if id != NoID && !d.hasNeighbour(id) {
		d.Neighbours = append(d.Neighbours, id)
	}
}

func (d *Descr) removeNeighbour(id ID) {
	for i, n := range d.Neighbours {
		if n == id {
			d.Neighbours = append(d.Neighbours[:i], d.Neighbours[i+1:]...)
			return
		}
	}
}

// ConnCode packs, per empty point and per owner, which of the 8 ring-1
// neighbours hold a dot of that owner (bit i set => nb8 direction i is
// that owner's dot), plus up to four distinct touching group ids.
type ConnCode struct {
	Bits   uint8
	Groups [4]ID
}

func (c *ConnCode) addGroup(g ID) {
	if g == NoID {
		return
	}
	for _, have := range c.Groups {
		if have == g {
			return
		}
	}
	for i, have := range c.Groups {
		if have == NoID {
			c.Groups[i] = g
			return
		}
	}
}

// DistinctGroups returns the (up to 4) distinct non-zero group ids touching
// this point for this owner.
func (c ConnCode) DistinctGroups() []ID {
	out := make([]ID, 0, 4)
	for _, g := range c.Groups {
		if g != NoID {
			out = append(out, g)
		}
	}
	return out
}

// SoftSafetyUpdate signals how much of the soft-safety margin table needs
// refreshing after a move (spec §4.C return value, consumed by package
// safety).
type SoftSafetyUpdate int

const (
	SoftSafetyNone SoftSafetyUpdate = iota
	SoftSafetyLocal
	SoftSafetyFull
)

// DirtyFlags is the return value of PlaceDot.
type DirtyFlags struct {
	UpdateSafetyDame bool
	SoftSafety       SoftSafetyUpdate
	// RecalculatePatterns lists points whose 3x3 pattern code may have
	// changed and must be recomputed by package pattern.
	RecalculatePatterns []geom.Point
	// TouchedGroups lists group ids that were created or merged by this
	// placement, for threat bookkeeping to re-scan.
	TouchedGroups []ID
}

// State is the mutable worm/connectivity model for one board.
type State struct {
	g *geom.Board

	owner []Owner
	id    []ID
	next  []geom.Point // cyclic linked list within a worm, entered at Leftmost

	descrs map[ID]*Descr
	lastID [3]ID // indexed by Owner (0 unused)

	conn [2][]ConnCode // indexed by owner-1

	// groupMembers maps a group id to the worm ids currently tagged with
	// it, so relabelling on a group merge only touches that group's own
	// members rather than every worm on the board.
	groupMembers map[ID][]ID
}

// NewState allocates worm/connectivity state for a fresh board.
func NewState(g *geom.Board) *State {
	s := &State{
		g:            g,
		owner:        make([]Owner, g.Size()),
		id:           make([]ID, g.Size()),
		next:         make([]geom.Point, g.Size()),
		descrs:       make(map[ID]*Descr),
		groupMembers: make(map[ID][]ID),
	}
	s.conn[0] = make([]ConnCode, g.Size())
	s.conn[1] = make([]ConnCode, g.Size())
	return s
}

// OwnerAt and IDAt are read-only accessors for other components.
func (s *State) OwnerAt(p geom.Point) Owner { return s.owner[p] }
func (s *State) IDAt(p geom.Point) ID       { return s.id[p] }
func (s *State) Descr(id ID) *Descr         { return s.descrs[id] }
func (s *State) Conn(owner Owner, p geom.Point) ConnCode {
	return s.conn[owner-1][p]
}

// NextDot walks the cyclic next_dot list one step.
func (s *State) NextDot(p geom.Point) geom.Point { return s.next[p] }

// IsEmpty reports whether p currently holds no dot.
func (s *State) IsEmpty(p geom.Point) bool { return s.owner[p] == Empty }

// EachDot calls fn once for every point in worm id's cycle.
func (s *State) EachDot(id ID, fn func(p geom.Point)) {
	d := s.descrs[id]
	if d == nil {
		return
	}
	start := d.Leftmost
	p := start
	for {
		fn(p)
		p = s.next[p]
		if p == start {
			break
		}
	}
}

// newID mints the next worm id for owner. Ids climb in steps of 4 so the
// low two bits always equal the owner (spec §3).
func (s *State) newID(owner Owner) ID {
	s.lastID[owner] += 4
	return s.lastID[owner] + ID(owner)
}
