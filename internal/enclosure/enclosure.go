// Package enclosure implements spec component B: a closed polyline of
// same-owner dots (the border) together with its interior, as a first-class
// immutable value once constructed.
package enclosure

import (
	"github.com/bartekd/kropla/internal/geom"
	"github.com/bartekd/kropla/internal/worm"
)

// Enclosure is immutable after construction (spec §4.B).
type Enclosure struct {
	Owner    worm.Owner
	Interior []geom.Point
	Border   []geom.Point // closed: Border[0] == Border[len(Border)-1]

	interiorSet map[geom.Point]bool
	borderSet   map[geom.Point]bool
	key         uint64 // cached Zobrist(Owner)
}

func newEnclosure(owner worm.Owner, interior, border []geom.Point, z *geom.Zobrist) *Enclosure {
	e := &Enclosure{
		Owner:       owner,
		Interior:    interior,
		Border:      border,
		interiorSet: make(map[geom.Point]bool, len(interior)),
		borderSet:   make(map[geom.Point]bool, len(border)),
	}
	for _, p := range interior {
		e.interiorSet[p] = true
	}
	end := len(border)
	if end > 0 {
		end-- // last entry duplicates Border[0]
	}
	for i := 0; i < end; i++ {
		e.borderSet[border[i]] = true
	}
	e.key = e.Zobrist(z, owner)
	return e
}

// ContainsInterior reports whether p is part of this enclosure's interior.
func (e *Enclosure) ContainsInterior(p geom.Point) bool { return e.interiorSet[p] }

// ContainsBorder reports whether p is one of this enclosure's border dots.
func (e *Enclosure) ContainsBorder(p geom.Point) bool { return e.borderSet[p] }

// BorderElement returns an arbitrary border point (conventionally the
// traversal start), used as a stable identity when comparing enclosures.
func (e *Enclosure) BorderElement() geom.Point {
	if len(e.Border) == 0 {
		return geom.NoPoint
	}
	return e.Border[0]
}

// InteriorSize is the number of interior points.
func (e *Enclosure) InteriorSize() int { return len(e.Interior) }

// IsEmpty reports whether this is the degenerate empty enclosure (used as
// the "no enclosure here" sentinel returned by failed finds, though finders
// prefer returning (nil, false) — IsEmpty exists for the few call sites
// that hold a value, not a pointer).
func (e *Enclosure) IsEmpty() bool { return e == nil || len(e.Interior) == 0 }

// Zobrist computes XOR over interior of Z_encl[owner][p] (spec §3). Cached
// at construction for Owner; callers asking with a different owner (the
// threat layer's "pretend who owns this" scans) get a freshly computed key.
func (e *Enclosure) Zobrist(z *geom.Zobrist, owner worm.Owner) uint64 {
	if owner == e.Owner && e.key != 0 {
		return e.key
	}
	var key uint64
	for _, p := range e.Interior {
		key ^= z.Encl[owner-1][p]
	}
	return key
}

// Key returns the cached Zobrist key for this enclosure's actual owner.
func (e *Enclosure) Key() uint64 { return e.key }

// IsRedundant reports whether borderP's two neighbours on the traversal
// order are themselves 8-adjacent, meaning the border could skip borderP
// without breaking closure (spec §4.B).
func (e *Enclosure) IsRedundant(g *geom.Board, borderP geom.Point) bool {
	idx := e.borderIndex(borderP)
	if idx < 0 {
		return false
	}
	n := len(e.Border) - 1 // logical cycle length (excluding duplicate close)
	if n < 3 {
		return false
	}
	prev := e.Border[(idx-1+n)%n]
	next := e.Border[(idx+1)%n]
	return isNB8Adjacent(g, prev, next)
}

// IsShortcut reports whether p (typically a candidate new dot) would make
// borderP redundant: both of borderP's border-neighbours are adjacent to p.
func (e *Enclosure) IsShortcut(g *geom.Board, p, borderP geom.Point) bool {
	idx := e.borderIndex(borderP)
	if idx < 0 {
		return false
	}
	n := len(e.Border) - 1
	if n < 2 {
		return false
	}
	prev := e.Border[(idx-1+n)%n]
	next := e.Border[(idx+1)%n]
	return isNB8Adjacent(g, prev, p) && isNB8Adjacent(g, next, p)
}

func (e *Enclosure) borderIndex(p geom.Point) int {
	n := len(e.Border) - 1
	for i := 0; i < n; i++ {
		if e.Border[i] == p {
			return i
		}
	}
	return -1
}

func isNB8Adjacent(g *geom.Board, a, b geom.Point) bool {
	adjacent := false
	g.EachNB8(a, func(_ int, q geom.Point) {
		if q == b {
			adjacent = true
		}
	})
	return adjacent
}
