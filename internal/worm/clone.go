package worm

import "github.com/bartekd/kropla/internal/geom"

// Clone returns a deep copy of s sharing the same (read-only) board
// geometry, used by internal/mcts to give every worker goroutine and every
// playout its own mutable copy of the root position (spec §5: "each
// worker owns... its own clone of the Game state").
func (s *State) Clone() *State {
	clone := &State{
		g:            s.g,
		owner:        append([]Owner(nil), s.owner...),
		id:           append([]ID(nil), s.id...),
		next:         append([]geom.Point(nil), s.next...),
		descrs:       make(map[ID]*Descr, len(s.descrs)),
		groupMembers: make(map[ID][]ID, len(s.groupMembers)),
		lastID:       s.lastID,
	}
	for id, d := range s.descrs {
		nd := *d
		nd.Neighbours = append([]ID(nil), d.Neighbours...)
		clone.descrs[id] = &nd
	}
	for gid, members := range s.groupMembers {
		clone.groupMembers[gid] = append([]ID(nil), members...)
	}
	clone.conn[0] = append([]ConnCode(nil), s.conn[0]...)
	clone.conn[1] = append([]ConnCode(nil), s.conn[1]...)
	return clone
}
