// Package scoring implements spec component J: simple territory scoring
// (the common case, no nested pools) and the general nested-pool scorer
// used when territories can contain other territories.
package scoring

import (
	"github.com/bartekd/kropla/internal/enclosure"
	"github.com/bartekd/kropla/internal/geom"
	"github.com/bartekd/kropla/internal/threat"
	"github.com/bartekd/kropla/internal/worm"
)

// Result is the final tally, player 1 (Black) vs player 2 (White).
type Result struct {
	Black int
	White int
}

// Winner reports which owner has the higher score, or worm.Empty on a tie.
func (r Result) Winner() worm.Owner {
	switch {
	case r.Black > r.White:
		return worm.Black
	case r.White > r.Black:
		return worm.White
	default:
		return worm.Empty
	}
}

// Simple implements the common no-nested-pools case (spec §4.J): walk
// every realised TERR threat's interior once, crediting its owner one
// point per territory/captured cell, then add komi to White and break any
// remaining tie by the now_moves parity.
func Simple(g *geom.Board, ws *worm.State, threats [3]*threat.Index, komi int, nowMoves worm.Owner) Result {
	var r Result
	for owner := worm.Black; owner <= worm.White; owner++ {
		idx := threats[owner]
		if idx == nil {
			continue
		}
		counted := map[geom.Point]bool{}
		for _, t := range idx.All() {
			if t.Kind != threat.KindTerr || t.Encl == nil {
				continue
			}
			for _, p := range t.Encl.Interior {
				if counted[p] {
					continue
				}
				counted[p] = true
				if owner == worm.Black {
					r.Black++
				} else {
					r.White++
				}
			}
		}
	}
	r.White += komi
	if r.Black == r.White && nowMoves != worm.Empty {
		// The player to move owns the disputed dame-token pair (spec
		// §4.J): award it one extra point.
		if nowMoves == worm.Black {
			r.Black++
		} else {
			r.White++
		}
	}
	return r
}

// General implements the nested-pools case (spec §4.J): flood one exterior
// marking from the board edge through empty points (dot colour plays no
// part), then for every remaining empty point run the enclosure finder for
// each colour. A pool is skipped when its border shares a point with an
// already-counted pool's border; a pool lying inside a counted pool
// without sharing a border point is counted as well. Captured dots are
// scored once per worm via a leftmost-of-worm marking.
func General(g *geom.Board, ws *worm.State, finder *enclosure.Finder, komi int, nowMoves worm.Owner) Result {
	var r Result
	exterior := exteriorFlood(g, ws)

	countedBorder := map[geom.Point]bool{}
	countedWorm := map[worm.ID]bool{}

	for y := 1; y <= g.H; y++ {
		for x := 1; x <= g.W; x++ {
			p := g.Index(x, y)
			if exterior[p] || !ws.IsEmpty(p) {
				continue
			}
			for _, owner := range [2]worm.Owner{worm.Black, worm.White} {
				encl, ok := finder.Find(p, owner)
				if !ok {
					continue
				}
				if countedBorder[encl.BorderElement()] {
					continue
				}
				skip := false
				for _, bp := range encl.Border {
					if countedBorder[bp] {
						skip = true
						break
					}
				}
				if skip {
					continue
				}
				for _, bp := range encl.Border {
					countedBorder[bp] = true
				}
				for _, ip := range encl.Interior {
					if ws.IsEmpty(ip) {
						credit(&r, owner, komi)
					} else {
						id := ws.IDAt(ip)
						d := ws.Descr(id)
						if d != nil && ip == d.Leftmost && !countedWorm[id] {
							countedWorm[id] = true
							for i := 0; i < d.Dots; i++ {
								credit(&r, owner, komi)
							}
						}
					}
				}
			}
		}
	}
	r.White += komi
	if r.Black == r.White && nowMoves != worm.Empty {
		if nowMoves == worm.Black {
			r.Black++
		} else {
			r.White++
		}
	}
	return r
}

func credit(r *Result, owner worm.Owner, _ int) {
	if owner == worm.Black {
		r.Black++
	} else {
		r.White++
	}
}

// exteriorFlood marks every point reachable from the board's halo without
// crossing a dot, i.e. every point that is NOT inside any enclosure.
func exteriorFlood(g *geom.Board, ws *worm.State) []bool {
	marks := make([]bool, g.Size())
	var queue []geom.Point
	for x := 1; x <= g.W; x++ {
		queue = append(queue, g.Index(x, 1), g.Index(x, g.H))
	}
	for y := 1; y <= g.H; y++ {
		queue = append(queue, g.Index(1, y), g.Index(g.W, y))
	}
	for len(queue) > 0 {
		p := queue[0]
		queue = queue[1:]
		if marks[p] || !ws.IsEmpty(p) {
			continue
		}
		marks[p] = true
		g.EachNB4(p, func(_ int, q geom.Point) {
			if g.OnBoard(q) && !marks[q] && ws.IsEmpty(q) {
				queue = append(queue, q)
			}
		})
	}
	return marks
}
