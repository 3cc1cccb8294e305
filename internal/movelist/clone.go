package movelist

import "github.com/bartekd/kropla/internal/geom"

// Clone returns a deep copy of p for internal/mcts's per-worker game
// clones (spec §5).
func (p *Partition) Clone() *Partition {
	c := &Partition{where: append([]slot(nil), p.where...), marginEmpty: p.marginEmpty}
	for i := range p.lists {
		c.lists[i] = append([]geom.Point(nil), p.lists[i]...)
	}
	for i := range p.marginPts {
		c.marginPts[i] = append([]geom.Point(nil), p.marginPts[i]...)
	}
	return c
}
