package safety

import (
	"github.com/bartekd/kropla/internal/geom"
	"github.com/bartekd/kropla/internal/worm"
)

// Clone returns a deep copy of s rebound to w, the clone's own worm state
// (spec §5 per-worker Game clones).
func (s *State) Clone(w *worm.State) *State {
	c := &State{
		g:           s.g,
		w:           w,
		cells:       append([]cell(nil), s.cells...),
		moveValue:   append([]MoveValue(nil), s.moveValue...),
		justAdded:   append([]geom.Point(nil), s.justAdded...),
		justRemoved: append([]geom.Point(nil), s.justRemoved...),
		prevGood:    make(map[geom.Point]bool, len(s.prevGood)),
	}
	for p, v := range s.prevGood {
		c.prevGood[p] = v
	}
	return c
}
