package mcts

import (
	"testing"

	"github.com/bartekd/kropla/internal/worm"
)

func TestSelectPrefersHigherBlendedValue(t *testing.T) {
	parent := newNode(nil, 0, 0, worm.Black)
	parent.t.add(10, 5)

	a := newNode(parent, 1, 0, worm.Black)
	a.t.add(5, 4) // strong
	b := newNode(parent, 2, 0, worm.Black)
	b.t.add(5, 1) // weak

	best := Select(parent, []*Node{a, b}, false)
	if best != a {
		t.Errorf("expected the stronger child to be selected")
	}
}

func TestBackpropagateFlipsValueForWhiteNodes(t *testing.T) {
	root := newNode(nil, 0, 0, worm.Black)
	whiteChild := newNode(root, 1, 0, worm.White)
	// Descend adds virtual loss on the way down; Backpropagate removes it.
	root.AddVirtualLoss()
	whiteChild.AddVirtualLoss()

	Backpropagate([]*Node{root, whiteChild}, 0.9)

	_, blackQ := root.Stats()
	_, whiteQ := whiteChild.Stats()
	if blackQ <= 0.5 {
		t.Errorf("expected black node's Q to reflect a black-favoured value, got %v", blackQ)
	}
	if whiteQ >= 0.5 {
		t.Errorf("expected white node's Q to be flipped to a white-unfavoured value, got %v", whiteQ)
	}
}

func TestKomiControllerPushesInGreenZone(t *testing.T) {
	k := NewKomiController(0)
	k.MaybeAdjust(200, 0.6, true)
	if k.Komi != -2 {
		t.Errorf("expected komi to push toward black (mover), got %d", k.Komi)
	}
}
