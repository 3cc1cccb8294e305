package sgf

import (
	"github.com/bartekd/kropla/internal/geom"
	"github.com/bartekd/kropla/internal/worm"
)

// MoveRecord is one played move, kept by a caller (internal/cli) so the
// transcript can be reconstructed and re-emitted without replaying the
// Game (spec §6: "prints the modified SGF to stdout").
type MoveRecord struct {
	Owner  worm.Owner
	Point  geom.Point // geom.NoPoint for a pass
	Pass   bool
}

// Emit builds a Record for a game of size w x h with the given setup dots
// and played moves, in the property order Apply expects.
func Emit(b *geom.Board, blackSetup, whiteSetup []geom.Point, moves []MoveRecord, meta *Meta) *Record {
	setup := Node{}
	setup.Props = append(setup.Props, Prop{Key: "SZ", Values: []string{EncodeSize(b.W, b.H)}})
	if len(blackSetup) > 0 {
		setup.Props = append(setup.Props, Prop{Key: "AB", Values: pointsToCoords(b, blackSetup)})
	}
	if len(whiteSetup) > 0 {
		setup.Props = append(setup.Props, Prop{Key: "AW", Values: pointsToCoords(b, whiteSetup)})
	}
	if meta != nil {
		if meta.PlayerBlack != "" {
			setup.Props = append(setup.Props, Prop{Key: "PB", Values: []string{meta.PlayerBlack}})
		}
		if meta.PlayerWhite != "" {
			setup.Props = append(setup.Props, Prop{Key: "PW", Values: []string{meta.PlayerWhite}})
		}
		if meta.Result != "" {
			setup.Props = append(setup.Props, Prop{Key: "RE", Values: []string{meta.Result}})
		}
	}

	rec := &Record{Nodes: []Node{setup}}
	for _, mv := range moves {
		key := "B"
		if mv.Owner == worm.White {
			key = "W"
		}
		value := ""
		if !mv.Pass {
			value = b.PointToSGF(mv.Point)
		}
		rec.Nodes = append(rec.Nodes, Node{Props: []Prop{{Key: key, Values: []string{value}}}})
	}
	return rec
}

func pointsToCoords(b *geom.Board, pts []geom.Point) []string {
	out := make([]string, len(pts))
	for i, p := range pts {
		out[i] = b.PointToSGF(p)
	}
	return out
}
