// Package cnn implements spec component M: the optional convolutional
// policy network collaborator. Its public surface is one call — a plane
// stack in, a probability map out — so the MCTS layer can mix its output
// into priors without knowing anything about the network's internals.
//
// Grounded on hailam-chessplay's internal/nnue package for the load-weights-
// or-fall-back-to-random shape (NewEvaluator/LoadWeights/InitRandom), here
// adapted from a position evaluator to a move-probability network.
package cnn

import (
	"encoding/binary"
	"fmt"
	"math"
	"math/rand"
	"os"

	"github.com/bartekd/kropla/internal/game"
	"github.com/bartekd/kropla/internal/geom"
	"github.com/bartekd/kropla/internal/worm"
)

// PlaneCount is the number of input planes fed to the network: occupancy
// (empty/us/opponent), is-in-territory per side, is-in-enclosure per side,
// is-in-border per side, and total safety — 10 planes (spec §4.M "at least
// 7, optionally 10 or 20").
const PlaneCount = 10

// Network is a minimal linear policy head over the flattened plane stack:
// weights[plane][point] combined with a bias per point, softmax-normalised.
// A real deployment trains and loads a much deeper convolutional stack; the
// engine's correctness does not depend on the network's architecture, only
// on this call's signature, so a linear head is sufficient scaffolding.
type Network struct {
	w, h    int
	weights [][]float32 // [plane][point]
	bias    []float32
	random  bool
}

// NewRandom builds a Network with small random weights, used when no
// trained weights file is available (mirrors nnue.Evaluator's
// InitRandom(seed) fallback for testability without a real asset).
func NewRandom(w, h int, seed int64) *Network {
	size := (w + 2) * (h + 2) // geom.Board.Size() for a w x h board
	rng := rand.New(rand.NewSource(seed))
	weights := make([][]float32, PlaneCount)
	for i := range weights {
		weights[i] = make([]float32, size)
		for j := range weights[i] {
			weights[i][j] = float32(rng.NormFloat64() * 0.01)
		}
	}
	return &Network{w: w, h: h, weights: weights, bias: make([]float32, size), random: true}
}

// LoadWeights reads a flat binary asset: w, h (uint32), then
// PlaneCount*size float32 weights, then size float32 biases.
func LoadWeights(path string) (*Network, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var dims [2]uint32
	if err := binary.Read(f, binary.LittleEndian, dims[:]); err != nil {
		return nil, fmt.Errorf("cnn: reading dims: %w", err)
	}
	w, h := int(dims[0]), int(dims[1])
	size := (w + 2) * (h + 2) // geom.Board.Size() for a w x h board

	net := &Network{w: w, h: h, weights: make([][]float32, PlaneCount), bias: make([]float32, size)}
	for i := range net.weights {
		net.weights[i] = make([]float32, size)
		if err := binary.Read(f, binary.LittleEndian, net.weights[i]); err != nil {
			return nil, fmt.Errorf("cnn: reading plane %d: %w", i, err)
		}
	}
	if err := binary.Read(f, binary.LittleEndian, net.bias); err != nil {
		return nil, fmt.Errorf("cnn: reading bias: %w", err)
	}
	return net, nil
}

// IsAvailable reports whether this network can be consulted: false only for
// a nil receiver (spec §4.M: "the engine remains correct with the function
// returning... is_available = false"). A network whose dimensions don't
// match the live board is still available here; Probabilities reports that
// case by returning ok == false.
func (n *Network) IsAvailable() bool { return n != nil }

// Probabilities implements the mcts.CNN interface: build the plane stack
// for g's current position and return a per-point probability map.
func (n *Network) Probabilities(g *game.Game, depth int) ([]float64, bool) {
	if n == nil {
		return nil, false
	}
	b := g.Simple.Board
	if b.W != n.w || b.H != n.h {
		return nil, false
	}
	planes := BuildPlanes(g)
	size := b.Size()
	scores := make([]float64, size)
	for p := 0; p < size; p++ {
		var sum float64
		for pl := 0; pl < PlaneCount; pl++ {
			sum += float64(planes[pl][p]) * float64(n.weights[pl][p])
		}
		sum += float64(n.bias[p])
		scores[p] = sum
	}
	return softmax(scores), true
}

// BuildPlanes assembles the input plane stack described in spec §4.M.
func BuildPlanes(g *game.Game) [PlaneCount][]float32 {
	b := g.Simple.Board
	ws := g.Simple.Worms
	us := g.NowMoves
	size := b.Size()
	var planes [PlaneCount][]float32
	for i := range planes {
		planes[i] = make([]float32, size)
	}

	for y := 1; y <= b.H; y++ {
		for x := 1; x <= b.W; x++ {
			p := b.Index(x, y)
			switch ws.OwnerAt(p) {
			case worm.Empty:
				planes[0][p] = 1
			case us:
				planes[1][p] = 1
			default:
				planes[2][p] = 1
			}
			if d := safetyTotal(ws, p); d > 0 {
				planes[9][p] = float32(d) / 4.0
			}
		}
	}

	fillTerritoryAndEnclosurePlanes(g, planes)
	return planes
}

func safetyTotal(ws *worm.State, p geom.Point) int {
	if ws.OwnerAt(p) == worm.Empty {
		return 0
	}
	if d := ws.Descr(ws.IDAt(p)); d != nil {
		if d.Safety > 4 {
			return 4
		}
		return d.Safety
	}
	return 0
}

// fillTerritoryAndEnclosurePlanes fills planes 3-8 (is-in-territory and
// is-in-enclosure per side, is-in-border per side) from the live threat
// indices, without re-running the enclosure finder.
func fillTerritoryAndEnclosurePlanes(g *game.Game, planes [PlaneCount][]float32) {
	for owner := worm.Black; owner <= worm.White; owner++ {
		terrPlane, enclPlane, borderPlane := 3, 5, 7
		if owner == worm.White {
			terrPlane, enclPlane, borderPlane = 4, 6, 8
		}
		idx := g.Simple.Threats[owner]
		if idx == nil {
			continue
		}
		for _, t := range idx.All() {
			if t.Encl == nil {
				continue
			}
			plane := enclPlane
			if t.Kind == 1 {
				plane = terrPlane
			}
			for _, p := range t.Encl.Interior {
				planes[plane][p] = 1
			}
			for _, p := range t.Encl.Border {
				planes[borderPlane][p] = 1
			}
		}
	}
}

func softmax(scores []float64) []float64 {
	maxV := scores[0]
	for _, s := range scores {
		if s > maxV {
			maxV = s
		}
	}
	sum := 0.0
	out := make([]float64, len(scores))
	for i, s := range scores {
		e := expClamped(s - maxV)
		out[i] = e
		sum += e
	}
	if sum == 0 {
		return out
	}
	for i := range out {
		out[i] /= sum
	}
	return out
}

func expClamped(x float64) float64 {
	if x < -40 {
		return 0
	}
	return math.Exp(x)
}
