// Package movelist implements spec component G: two small, mutually
// exclusive partitions over every empty on-board point (NEUTRAL/DAME/TERRM
// and the MOVE_0/1/2/REMOVED playout-tracking partition), each supporting
// O(1) removal via swap-with-last.
package movelist

import "github.com/bartekd/kropla/internal/geom"

// Type classifies a point within the possible-moves partition.
type Type uint8

const (
	Neutral Type = iota
	Dame
	TerrM // territory move: playing here only matters inside contested territory
	Removed
)

// slot packs (list index << 12 | position on list), matching spec §4.G's
// packed per-point location so a removal looks the position up in O(1).
type slot uint32

const (
	listShift = 12
	posMask   = (1 << listShift) - 1
)

func pack(list Type, pos int) slot { return slot(uint32(list)<<listShift | uint32(pos)&posMask) }
func (s slot) list() Type          { return Type(s >> listShift) }
func (s slot) pos() int            { return int(s & posMask) }

// Partition holds NEUTRAL/DAME/TERRM (or, reused, the MOVE_0/1/2/REMOVED
// playout partition) as three parallel vectors plus a per-point slot index.
type Partition struct {
	lists [3][]geom.Point
	where []slot // indexed by geom.Point; Removed points carry a stale slot

	// marginEmpty tracks the four "margin is empty" booleans (spec §4.G);
	// margin indices match geom's nb4 ordering (N,E,S,W).
	marginEmpty [4]bool
	marginPts   [4][]geom.Point
}

// NewPartition allocates a partition over every point of g, placing each
// on-board empty point onto list0 initially and every off-board/occupied
// slot into Removed.
func NewPartition(g *geom.Board, list0 Type) *Partition {
	p := &Partition{where: make([]slot, g.Size())}
	for i := range p.where {
		p.where[i] = pack(Removed, 0)
	}
	for i := range p.marginEmpty {
		p.marginEmpty[i] = true
	}
	p.marginPts[0] = marginPoints(g, 0)
	p.marginPts[1] = marginPoints(g, 1)
	p.marginPts[2] = marginPoints(g, 2)
	p.marginPts[3] = marginPoints(g, 3)

	for y := 1; y <= g.H; y++ {
		for x := 1; x <= g.W; x++ {
			pt := g.Index(x, y)
			p.insert(pt, list0)
		}
	}
	return p
}

func marginPoints(g *geom.Board, dir int) []geom.Point {
	var pts []geom.Point
	switch dir {
	case 0:
		for x := 1; x <= g.W; x++ {
			pts = append(pts, g.Index(x, 1))
		}
	case 2:
		for x := 1; x <= g.W; x++ {
			pts = append(pts, g.Index(x, g.H))
		}
	case 3:
		for y := 1; y <= g.H; y++ {
			pts = append(pts, g.Index(1, y))
		}
	case 1:
		for y := 1; y <= g.H; y++ {
			pts = append(pts, g.Index(g.W, y))
		}
	}
	return pts
}

func (p *Partition) insert(pt geom.Point, list Type) {
	p.lists[list] = append(p.lists[list], pt)
	p.where[pt] = pack(list, len(p.lists[list])-1)
}

// ListOf reports which list currently holds pt.
func (p *Partition) ListOf(pt geom.Point) Type { return p.where[pt].list() }

// List returns the live contents of one list; callers must not retain it
// across a mutating call.
func (p *Partition) List(t Type) []geom.Point { return p.lists[t] }

// ChangeMove is the single mutation entry point (spec §4.G): moves pt from
// its current list to newType via swap-with-last removal from the old
// list and append to the new one.
func (p *Partition) ChangeMove(pt geom.Point, newType Type) {
	old := p.where[pt]
	oldList := old.list()
	if oldList == newType {
		return
	}
	if oldList != Removed {
		p.removeFrom(oldList, old.pos())
	}
	if newType == Removed {
		p.where[pt] = pack(Removed, 0)
		return
	}
	p.insert(pt, newType)
}

func (p *Partition) removeFrom(list Type, pos int) {
	l := p.lists[list]
	last := len(l) - 1
	if pos != last {
		moved := l[last]
		l[pos] = moved
		p.where[moved] = pack(list, pos)
	}
	p.lists[list] = l[:last]
}

// MarginFilled marks the margin dir as no longer all-empty: every edge
// point on it still NEUTRAL is reclassified to DAME except pt itself (spec
// §4.G: "when a margin stops being empty, all edge points on it are
// reclassified NEUTRAL to DAME except the one being filled").
func (p *Partition) MarginFilled(dir int, pt geom.Point) {
	if !p.marginEmpty[dir] {
		return
	}
	p.marginEmpty[dir] = false
	for _, q := range p.marginPts[dir] {
		if q == pt {
			continue
		}
		if p.ListOf(q) == Neutral {
			p.ChangeMove(q, Dame)
		}
	}
}

// MarginIsEmpty reports the current state of the four margin-is-empty
// booleans.
func (p *Partition) MarginIsEmpty(dir int) bool { return p.marginEmpty[dir] }
