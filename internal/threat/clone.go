package threat

import (
	"github.com/bartekd/kropla/internal/geom"
	"github.com/bartekd/kropla/internal/worm"
)

// Clone returns a deep copy of idx, rebound to w (the clone's own worm
// state) so its g/w pointers never alias back into the original Game
// being cloned. Each Threat is copied (with its own OppThr slice), since
// the scanner and CheckStaged change threats in place; Enclosure values
// are shared by pointer.
func (idx *Index) Clone(w *worm.State) *Index {
	c := &Index{
		g:        idx.g,
		w:        w,
		threats:  make(map[uint64]*Threat, len(idx.threats)),
		byPoint:  make(map[geom.Point][]uint64, len(idx.byPoint)),
		is2mEncl: make(map[geom.Point]bool, len(idx.is2mEncl)),
		nextID:   idx.nextID,
	}
	for id, t := range idx.threats {
		copyT := *t
		copyT.OppThr = append([]uint64(nil), t.OppThr...)
		c.threats[id] = &copyT
	}
	for p, ids := range idx.byPoint {
		c.byPoint[p] = append([]uint64(nil), ids...)
	}
	for p, v := range idx.is2mEncl {
		c.is2mEncl[p] = v
	}
	return c
}
