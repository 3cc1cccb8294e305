// Package mcts implements spec component L: a lock-light, shared-memory
// parallel Monte-Carlo tree over simplegame/game positions, expanded from
// priors built out of the derived structures (threats, patterns, safety,
// ladder reading) and driven by playouts (internal/playout).
package mcts

import (
	"runtime"
	"sync/atomic"

	"github.com/bartekd/kropla/internal/geom"
	"github.com/bartekd/kropla/internal/worm"
)

// statLine holds one (playouts, value_sum) accumulator with relaxed atomic
// updates, matching spec §5's "tiny stat inconsistencies are tolerated".
// Grounded on hailam-chessplay/internal/engine/transposition.go's
// fixed-layout entry plus atomic counters in worker.go's shared-history
// idiom.
type statLine struct {
	playouts int32
	value    int64 // fixed-point: value*1e6, summed; avoids a float CAS loop
}

func (s *statLine) add(n int32, value float64) {
	atomic.AddInt32(&s.playouts, n)
	atomic.AddInt64(&s.value, int64(value*1e6))
}

func (s *statLine) read() (playouts int32, mean float64) {
	n := atomic.LoadInt32(&s.playouts)
	v := atomic.LoadInt64(&s.value)
	if n == 0 {
		return 0, 0.5
	}
	return n, float64(v) / 1e6 / float64(n)
}

// VirtualLoss is the constant playout bias applied while a thread is
// descending through a node (spec §5).
const VirtualLoss = 2

// Node is one tree vertex: the move that reached it (Move, Move2 for a
// bundled enclosure choice), and its t/amaf/prior statistics.
//
// Children are published as a single contiguous slice after expansion
// (spec §5: "children is stored as a single contiguous block... published
// after expansion, so [sibling iteration] is lock-free"); expansion itself
// is guarded by expandMu, the per-node mutex.
type Node struct {
	Move      geom.Point
	Move2     geom.Point // non-NoPoint for a bundled two-move/enclosure choice
	Owner     worm.Owner
	IsEnclMove bool
	InsideOppTerrNoAtari bool

	t     statLine
	amaf  statLine
	prior statLine

	children   atomic.Pointer[[]*Node]
	expandMu   chan struct{} // 1-buffered channel used as a cheap trylock
	expanded   atomic.Bool
	parent     *Node
}

// newNode allocates a node ready for expansion.
func newNode(parent *Node, move, move2 geom.Point, owner worm.Owner) *Node {
	n := &Node{Move: move, Move2: move2, Owner: owner, parent: parent, expandMu: make(chan struct{}, 1)}
	n.expandMu <- struct{}{}
	return n
}

// Children returns the published child slice, or nil if not yet expanded.
func (n *Node) Children() []*Node {
	p := n.children.Load()
	if p == nil {
		return nil
	}
	return *p
}

// TryExpand runs build() to populate children exactly once, even under
// concurrent callers; later callers observe the already-published slice
// and skip (spec §5: "first thread to acquire it populates children").
func (n *Node) TryExpand(build func() []*Node) []*Node {
	if c := n.Children(); c != nil {
		return c
	}
	select {
	case <-n.expandMu:
	default:
		// Someone else is expanding; wait for the publish.
		for n.children.Load() == nil {
			runtime.Gosched()
		}
		return n.Children()
	}
	defer func() { n.expandMu <- struct{}{} }()
	if c := n.Children(); c != nil {
		return c
	}
	kids := build()
	n.children.Store(&kids)
	n.expanded.Store(true)
	return kids
}

// AddVirtualLoss / RemoveVirtualLoss bias the node away from concurrent
// descents (spec §5).
func (n *Node) AddVirtualLoss()    { n.t.add(VirtualLoss, 0) }
func (n *Node) RemoveVirtualLoss() { n.t.add(-VirtualLoss, 0) }

// Backprop adds one playout's result, (1, value) in the node-owner's frame.
func (n *Node) Backprop(value float64) { n.t.add(1, value) }

// BackpropAMAF adds a sibling AMAF credit of the given weight.
func (n *Node) BackpropAMAF(weight float64, won bool) {
	v := 0.0
	if won {
		v = weight
	}
	n.amaf.add(int32(weight), v)
}

// Stats exposes the raw accumulators for UCT/RAVE blending and reporting.
func (n *Node) Stats() (playouts int32, q float64)       { return n.t.read() }
func (n *Node) AMAFStats() (playouts int32, q float64)   { return n.amaf.read() }
func (n *Node) PriorStats() (playouts int32, q float64)  { return n.prior.read() }

// SeedPrior installs a node's initial (playouts, value_sum) from the prior
// construction pass (spec §4.L "Priors"), capped by the caller.
func (n *Node) SeedPrior(playouts int32, wins int32) {
	n.t.add(playouts, float64(wins))
	n.prior.add(playouts, float64(wins))
}

