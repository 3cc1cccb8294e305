package mcts

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/bartekd/kropla/internal/game"
	"github.com/bartekd/kropla/internal/geom"
	"github.com/bartekd/kropla/internal/ladder"
	"github.com/bartekd/kropla/internal/movelist"
	"github.com/bartekd/kropla/internal/pattern"
	"github.com/bartekd/kropla/internal/playout"
	"github.com/bartekd/kropla/internal/worm"
)

// Limits bounds one search round (spec §4.L "Termination").
type Limits struct {
	Iterations int64
	Msec       int64
}

// Search drives the shared-memory parallel MCTS round described in spec
// §5: a fixed worker set, each owning its own tree-node allocator
// equivalent (none needed here beyond per-worker Game clones) and its own
// clone of the game state, descending the shared tree. Grounded on
// hailam-chessplay/internal/engine/engine.go's goroutine-per-worker +
// shared atomic stop-flag Lazy-SMP driver (internal/engine/worker.go).
type Search struct {
	Root    *Node
	Tables  *pattern.Tables
	CNN     CNN
	Workers int
	Komi    *KomiController

	stopFlag atomic.Bool
}

// NewSearch builds a search with a fresh root node; the position it
// searches is the template later passed to Run.
func NewSearch(tables *pattern.Tables, cnnNet CNN, workers int, initialKomi int) *Search {
	if workers < 1 {
		workers = 1
	}
	return &Search{
		Root:    newNode(nil, geom.NoPoint, geom.NoPoint, worm.Black),
		Tables:  tables,
		CNN:     cnnNet,
		Workers: workers,
		Komi:    NewKomiController(initialKomi),
	}
}

// Run executes the search round to completion under limits; each worker
// goroutine clones template afresh for every iteration (spec §5 "each
// worker owns... its own clone of the Game state"), so template itself is
// never mutated.
func (s *Search) Run(template *game.Game, who worm.Owner, limits Limits, clone func(*game.Game) *game.Game) {
	start := time.Now()
	var iterations int64
	var wg sync.WaitGroup

	for w := 0; w < s.Workers; w++ {
		wg.Add(1)
		go func(workerID int) {
			defer wg.Done()
			pol := playout.NewPolicy(s.Tables, int64(workerID)+1)
			laddr := ladder.NewReader(template.Simple.Board, template.Simple.Worms)

			for {
				if s.stopFlag.Load() {
					return
				}
				n := atomic.AddInt64(&iterations, 1)
				if limits.Iterations > 0 && n > limits.Iterations {
					s.stopFlag.Store(true)
					return
				}
				if limits.Msec > 0 && time.Since(start) > time.Duration(limits.Msec)*time.Millisecond {
					s.stopFlag.Store(true)
					return
				}

				gameCopy := clone(template)
				s.iterate(gameCopy, who, pol, laddr)

				if n%50 == 0 {
					pl, q := s.Root.Stats()
					s.Komi.MaybeAdjust(int64(pl), winRateFor(q, who), who == worm.Black)
				}
			}
		}(w)
	}
	wg.Wait()
}

// Stop requests every worker to finish its current rollout and return
// (spec §5 "Cancellation": "workers check this only between iterations").
func (s *Search) Stop() { s.stopFlag.Store(true) }

func winRateFor(rootQ float64, who worm.Owner) float64 {
	if who == worm.Black {
		return rootQ
	}
	return 1 - rootQ
}

// iterate runs one full descend -> playout -> backpropagate cycle.
func (s *Search) iterate(g *game.Game, who worm.Owner, pol *playout.Policy, laddr *ladder.Reader) {
	path := Descend(s.Root, func(n *Node) []*Node {
		return n.TryExpand(func() []*Node { return s.expand(g, n, who, laddr) })
	})

	replay(g, path)
	laddr.Invalidate()

	res := pol.Run(g, s.Komi.Komi)
	Backpropagate(path, res.ValueForBlack)
	s.creditAMAF(path, res)
}

// replay applies every move on path (skipping the rootless sentinel) to g,
// since the shared tree only stores moves, not positions.
func replay(g *game.Game, path []*Node) {
	for _, n := range path {
		if n.Move == geom.NoPoint {
			continue
		}
		if !g.Simple.Worms.IsEmpty(n.Move) {
			continue
		}
		_ = g.MakeMove(n.Move, n.Owner, nil)
	}
}

// creditAMAF implements spec §4.L step 3/4's sibling AMAF update: for
// every move actually played during the rollout, credit the leaf's
// same-colour siblings (children of the leaf's parent) that share that
// move, weighted by a distance-from-leaf decay.
func (s *Search) creditAMAF(path []*Node, res playout.Result) {
	leaf := path[len(path)-1]
	siblings := leaf.parent
	if siblings == nil {
		return
	}
	for i, mv := range res.Moves {
		weight := amafWeight(i)
		won := res.ValueForBlack > 0.5
		for _, sib := range siblings.Children() {
			if sib.Move == mv && sib.Owner == res.MoveOwners[i] {
				sib.BackpropAMAF(weight, won)
			}
		}
	}
}

func amafWeight(plyIndexFromStart int) float64 {
	bin := plyIndexFromStart / 3
	w := 1.0 - float64(bin)*0.15
	if w < 0.1 {
		w = 0.1
	}
	return w
}

// expand builds n's children from the candidate move list (possible_moves
// partition), seeding priors from BuildPriors and mixing in CNN
// probabilities when available and shallow enough (spec §4.L step 1).
func (s *Search) expand(g *game.Game, n *Node, rootOwner worm.Owner, laddr *ladder.Reader) []*Node {
	who := n.Owner
	if n.Move == geom.NoPoint {
		who = rootOwner
	} else {
		who = n.Owner.Other()
	}

	depth := depthOf(n)
	var cnnProbs []float64
	if s.CNN != nil && s.CNN.IsAvailable() && depth <= MaxCNNDepth {
		if probs, ok := s.CNN.Probabilities(g, depth); ok {
			cnnProbs = probs
		}
	}

	var children []*Node
	for _, list := range []movelist.Type{movelist.Neutral, movelist.TerrM, movelist.Dame} {
		for _, mv := range g.Simple.Moves.List(list) {
			child := newNode(n, mv, geom.NoPoint, who)
			playouts, wins := BuildPriors(g, s.Tables, laddr, who, mv, geom.NoPoint, geom.NoPoint, false, 0)
			child.SeedPrior(playouts, wins)
			if cnnProbs != nil && int(mv) < len(cnnProbs) {
				boost := cnnProbs[mv] * cnnPriorMax(depth)
				child.prior.add(int32(boost), boost)
				child.t.add(int32(boost), boost)
			}
			children = append(children, child)
		}
	}
	return children
}

func depthOf(n *Node) int {
	d := 0
	for p := n; p != nil; p = p.parent {
		d++
	}
	return d
}
