package mcts

import (
	"math"

	"github.com/bartekd/kropla/internal/worm"
)

// Select chooses the child maximising the UCT+RAVE blend (spec §4.L step
// 2). root reports whether the exploration constant should use the root
// value (0.4) or the interior value (0.14).
func Select(parent *Node, children []*Node, root bool) *Node {
	c := 0.14
	if root {
		c = 0.4
	}
	parentN, _ := parent.Stats()

	var best *Node
	bestValue := math.Inf(-1)
	for _, child := range children {
		v := childValue(child, parentN, c)
		if v > bestValue {
			bestValue = v
			best = child
		}
	}
	return best
}

func childValue(n *Node, parentPlayouts int32, c float64) float64 {
	playouts, q := n.Stats()
	amafN, amafQ := n.AMAFStats()

	k := 1.0 / 400.0
	if n.IsEnclMove {
		k = 1.0 / 20.0
	}
	beta := 0.0
	denom := float64(amafN) + float64(playouts) + float64(playouts)*float64(amafN)*k
	if denom > 0 {
		beta = float64(amafN) / denom
	}
	blended := (1-beta)*q + beta*amafQ

	explore := c * math.Sqrt(math.Log(float64(parentPlayouts)+1)/(float64(playouts)+0.1))

	penalty := 0.0
	if n.InsideOppTerrNoAtari {
		penalty = -0.02
	}
	return blended + explore + penalty
}

// Descend walks from root to a leaf, applying virtual loss along the way,
// returning the visited path (root first, leaf last); the caller replays
// the path's moves on a playout copy of the game.
func Descend(root *Node, expand func(*Node) []*Node) []*Node {
	path := []*Node{root}
	node := root
	node.AddVirtualLoss()
	for {
		children := node.Children()
		if children == nil {
			children = expand(node)
		}
		if len(children) == 0 {
			break
		}
		next := Select(node, children, node.parent == nil)
		if next == nil {
			break
		}
		next.AddVirtualLoss()
		path = append(path, next)
		node = next
		if node.Children() == nil {
			// Leaf reached: a playout runs from here; stop descending.
			pl, _ := node.Stats()
			pr, _ := node.PriorStats()
			if pl-pr-VirtualLoss < expandThreshold(len(path)) {
				break
			}
		}
	}
	return path
}

// expandThreshold implements spec §4.L step 1's progressive-widening gate:
// expand once depth==1 or playouts-priors crosses EXPAND_THRESHOLD.
const EXPAND_THRESHOLD = 8

func expandThreshold(depth int) int32 {
	if depth <= 1 {
		return 0
	}
	return EXPAND_THRESHOLD
}

// Backpropagate undoes virtual loss and records the playout result along
// path, flipping the value's perspective to match each node's owner (spec
// §4.L step 4).
func Backpropagate(path []*Node, valueForOwner1 float64) {
	for _, n := range path {
		n.RemoveVirtualLoss()
		v := valueForOwner1
		if n.Owner == worm.White {
			v = 1 - v
		}
		n.Backprop(v)
	}
}
