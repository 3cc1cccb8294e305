// Package pattern implements spec component E: the 3x3 neighbourhood
// pattern tables used to seed move priors and classify points as dame or
// interesting, plus the dirty-list draining that keeps per-point pattern
// values current after incremental board updates.
package pattern

import (
	"github.com/bartekd/kropla/internal/geom"
	"github.com/bartekd/kropla/internal/worm"
)

// Code packs a point's local neighbourhood: 2 bits per ring-1 neighbour
// (00=empty, 01=black, 10=white, 11=off-board) for the 8 nb8 slots, plus 4
// atari bits (N/E/S/W neighbour worm currently at hard safety < 2).
type Code uint32

const (
	atariShift = 16
)

// Tables holds the two static pattern tables built once at program start
// from a pattern asset (spec §4.E): patt3 (asymmetric, per-owner value and
// dame tag) and patt3Symm (symmetric, interesting-move classification).
type Tables struct {
	patt3     map[Code][2]int // value per owner (index 0=black,1=white)
	patt3Symm map[Code]int
}

// DefaultTables returns empty tables: no pattern is registered, so Value
// and SymmValue return 0 for every code until Register/RegisterSymm fill
// them. cmd/kropla-cli uses it when no compiled table set is cached in
// internal/storage.
func DefaultTables() *Tables {
	t := &Tables{patt3: make(map[Code][2]int), patt3Symm: make(map[Code]int)}
	return t
}

// Register installs an explicit value for one 3x3 code, owner pair.
func (t *Tables) Register(code Code, blackValue, whiteValue int) {
	t.patt3[code] = [2]int{blackValue, whiteValue}
}

// RegisterSymm installs an explicit symmetric "interesting move" strength.
func (t *Tables) RegisterSymm(code Code, value int) {
	t.patt3Symm[code] = value
}

// Value looks up a code's per-owner value, defaulting to 0 (neutral) for
// patterns with no explicit entry.
func (t *Tables) Value(owner worm.Owner, code Code) int {
	v, ok := t.patt3[code]
	if !ok {
		return 0
	}
	if owner == worm.Black {
		return v[0]
	}
	return v[1]
}

// SymmValue looks up the symmetric interesting-move strength for code.
func (t *Tables) SymmValue(code Code) int {
	return t.patt3Symm[code]
}

// Classification is the outcome of recomputing a point's pattern values:
// whether it is dame for either owner and its interesting-move class.
type Classification struct {
	DameFor      [3]bool // indexed by worm.Owner; slot 0 unused
	Interesting  int
}

// CodeAt computes the 3x3 code for p from the live worm/connectivity state.
func CodeAt(g *geom.Board, w *worm.State, p geom.Point) Code {
	var code Code
	for i := 0; i < 8; i++ {
		q := g.NB8(p, i)
		var bits Code
		if !g.OnBoard(q) {
			bits = 3
		} else {
			switch w.OwnerAt(q) {
			case worm.Empty:
				bits = 0
			case worm.Black:
				bits = 1
			case worm.White:
				bits = 2
			}
		}
		code |= bits << uint(2*i)
	}
	for i := 0; i < 4; i++ {
		q := g.NB4(p, i)
		if g.OnBoard(q) && w.OwnerAt(q) != worm.Empty {
			if d := w.Descr(w.IDAt(q)); d != nil && d.Safety < 2 {
				code |= 1 << uint(atariShift+i)
			}
		}
	}
	return code
}

// Classify recomputes a point's dame/interesting classification from its
// 3x3 code (spec §4.E: "recomputing patt3_value also reclassifies
// possible_moves (dame if negative value) and interesting_moves").
func (t *Tables) Classify(g *geom.Board, w *worm.State, p geom.Point) Classification {
	code := CodeAt(g, w, p)
	var c Classification
	c.DameFor[worm.Black] = t.Value(worm.Black, code) < 0
	c.DameFor[worm.White] = t.Value(worm.White, code) < 0
	c.Interesting = t.SymmValue(code)
	return c
}

// RecalcList accumulates points whose pattern code may have changed and
// need Classify re-run; it is drained at the end of move application (spec
// §4.E). Grounded on hailam-chessplay/internal/engine/pawnhash.go's
// touched-list-then-clear idiom, reused here for a dirty set rather than a
// probe cache.
type RecalcList struct {
	queued map[geom.Point]bool
	order  []geom.Point
}

// NewRecalcList allocates an empty dirty list.
func NewRecalcList() *RecalcList {
	return &RecalcList{queued: make(map[geom.Point]bool)}
}

// Add enqueues p for recomputation if it is not already pending.
func (r *RecalcList) Add(p geom.Point) {
	if !r.queued[p] {
		r.queued[p] = true
		r.order = append(r.order, p)
	}
}

// AddAll enqueues every point in pts.
func (r *RecalcList) AddAll(pts []geom.Point) {
	for _, p := range pts {
		r.Add(p)
	}
}

// Drain calls fn once per queued point, in insertion order, and empties the
// list.
func (r *RecalcList) Drain(fn func(geom.Point)) {
	for _, p := range r.order {
		fn(p)
		delete(r.queued, p)
	}
	r.order = r.order[:0]
}

// Len reports how many points are currently queued.
func (r *RecalcList) Len() int { return len(r.order) }
