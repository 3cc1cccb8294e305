package pattern

import (
	"github.com/bartekd/kropla/internal/geom"
	"github.com/bartekd/kropla/internal/worm"
)

// EdgeCode is the 5x2 edge-window code (two rows: the edge line itself and
// the row just inside it) used only to seed priors for edge moves; spec
// §4.E notes it is "not part of the hot path", so unlike Code it is
// recomputed on demand rather than incrementally maintained.
type EdgeCode uint32

// EdgeTables holds prior seeds per edge-window code, keyed separately from
// the 3x3 tables since the two never share a lookup.
type EdgeTables struct {
	values map[EdgeCode][2]int
}

// DefaultEdgeTables builds an empty edge-pattern table, populated the same
// way as Tables via Register.
func DefaultEdgeTables() *EdgeTables {
	return &EdgeTables{values: make(map[EdgeCode][2]int)}
}

// Register installs an explicit per-owner prior seed for one edge code.
func (t *EdgeTables) Register(code EdgeCode, blackValue, whiteValue int) {
	t.values[code] = [2]int{blackValue, whiteValue}
}

// Value returns the prior seed for owner at code, defaulting to 0.
func (t *EdgeTables) Value(owner worm.Owner, code EdgeCode) int {
	v, ok := t.values[code]
	if !ok {
		return 0
	}
	if owner == worm.Black {
		return v[0]
	}
	return v[1]
}

// EdgeCodeAt computes the 5x2 window code along the edge direction
// containing p (p must have Dist == 0). dir selects which of the four
// board edges to read the window along (N=0,E=1,S=2,W=3, matching geom's
// nb4 ordering).
func EdgeCodeAt(g *geom.Board, w *worm.State, p geom.Point, dir int) EdgeCode {
	var code EdgeCode
	along := alongEdgeOffset(g, dir)
	inward := g.NB4(p, (dir+2)%4) // toward board interior
	inwardOff := inward - p

	idx := 0
	for d := -2; d <= 2; d++ {
		outer := p + geom.Point(d)*along
		code |= ownerBits(g, w, outer) << uint(2*idx)
		idx++
		inner := outer + inwardOff
		code |= ownerBits(g, w, inner) << uint(2*idx)
		idx++
	}
	return code
}

func ownerBits(g *geom.Board, w *worm.State, p geom.Point) EdgeCode {
	if !g.OnBoard(p) {
		return 3
	}
	switch w.OwnerAt(p) {
	case worm.Black:
		return 1
	case worm.White:
		return 2
	default:
		return 0
	}
}

// alongEdgeOffset returns the per-step offset running parallel to the edge
// that the given nb4 direction points away from.
func alongEdgeOffset(g *geom.Board, dir int) geom.Point {
	if dir == 0 || dir == 2 { // N or S edge: run East-West
		return g.NB4(g.Index(1, 1), 1) - g.Index(1, 1)
	}
	return g.NB4(g.Index(1, 1), 2) - g.Index(1, 1) // E or W edge: run North-South
}
