package sgf

import (
	"fmt"

	"github.com/bartekd/kropla/internal/enclosure"
	"github.com/bartekd/kropla/internal/geom"
	"github.com/bartekd/kropla/internal/game"
	"github.com/bartekd/kropla/internal/worm"
)

// Meta carries the transcript-level properties Apply does not fold into
// the Game itself: player names, the recorded result (tests only), and
// the Stop=1 rule toggle (spec §6's RU property, resolved per
// SPEC_FULL.md Part D item 1).
type Meta struct {
	PlayerBlack string
	PlayerWhite string
	Result      string
	StopOnPass  bool
}

// Apply builds a fresh Game from rec's setup node and plays every move
// node in order, returning the resulting game and the transcript
// metadata. A malformed property or an off-board/occupied move returns a
// plain error (the move/rule error kind of spec §7); it never panics,
// unlike Game.MakeMove's direct API, since an externally supplied
// transcript cannot be assumed legal.
func Apply(rec *Record) (*game.Game, *Meta, error) {
	if len(rec.Nodes) == 0 {
		return nil, nil, fmt.Errorf("sgf: record has no nodes")
	}
	setup := rec.Nodes[0]

	szVals := setup.Get("SZ")
	if szVals == nil {
		return nil, nil, fmt.Errorf("sgf: missing required SZ property")
	}
	w, h, err := ParseSize(szVals[0])
	if err != nil {
		return nil, nil, err
	}

	meta := &Meta{}
	if v := setup.Get("PB"); v != nil {
		meta.PlayerBlack = v[0]
	}
	if v := setup.Get("PW"); v != nil {
		meta.PlayerWhite = v[0]
	}
	if v := setup.Get("RE"); v != nil {
		meta.Result = v[0]
	}
	if v := setup.Get("RU"); v != nil {
		meta.StopOnPass = ruleStringHasStop(v[0])
	}

	g, err := game.New(w, h, game.Ruleset{})
	if err != nil {
		return nil, nil, err
	}
	b := g.Simple.Board

	for _, coord := range setup.Get("AB") {
		p, err := b.ParseSGFPoint(coord)
		if err != nil {
			return nil, nil, err
		}
		g.Simple.PlaceDot(p, worm.Black)
	}
	for _, coord := range setup.Get("AW") {
		p, err := b.ParseSGFPoint(coord)
		if err != nil {
			return nil, nil, err
		}
		g.Simple.PlaceDot(p, worm.White)
	}

	for _, node := range rec.Nodes[1:] {
		if err := applyMoveNode(g, node); err != nil {
			return nil, meta, err
		}
	}

	return g, meta, nil
}

func ruleStringHasStop(v string) bool {
	for _, part := range splitRules(v) {
		if part == "Stop=1" {
			return true
		}
	}
	return false
}

func splitRules(v string) []string {
	var out []string
	start := 0
	for i := 0; i <= len(v); i++ {
		if i == len(v) || v[i] == ',' {
			if i > start {
				out = append(out, v[start:i])
			}
			start = i + 1
		}
	}
	return out
}

func applyMoveNode(g *game.Game, node Node) error {
	if bv := node.Get("B"); bv != nil {
		return playMove(g, worm.Black, bv[0])
	}
	if wv := node.Get("W"); wv != nil {
		return playMove(g, worm.White, wv[0])
	}
	return nil
}

func playMove(g *game.Game, who worm.Owner, value string) error {
	coord, borderCoords, forcedCoord := ParseMoveValue(value)
	b := g.Simple.Board

	if coord == "" {
		g.MakePass(who)
		return nil
	}

	p, err := b.ParseSGFPoint(coord)
	if err != nil {
		return err
	}
	if !g.Simple.Worms.IsEmpty(p) {
		return fmt.Errorf("sgf: move at %s: point already occupied", coord)
	}

	if err := g.MakeMove(p, who, nil); err != nil {
		return err
	}

	// Any enclosure the dot itself completes is already realised by
	// MakeMove's own mandatory-capture scan; the `.<border-pts>`/`!<pt>`
	// annotations name additional, pre-existing enclosures the transcript
	// author chose to realise on this same ply (spec §6).
	finder := enclosure.NewFinder(g.Simple.Board, g.Simple.Worms, g.Simple.Zobrist)

	if len(borderCoords) > 0 {
		border := make([]geom.Point, 0, len(borderCoords))
		for _, bc := range borderCoords {
			bp, err := b.ParseSGFPoint(bc)
			if err != nil {
				return err
			}
			border = append(border, bp)
		}
		if encl, ok := finder.FromBorder(border, who); ok {
			g.RealizeEnclosure(encl, who)
		}
	}
	if forcedCoord != "" {
		fp, err := b.ParseSGFPoint(forcedCoord)
		if err != nil {
			return err
		}
		if encl, ok := finder.Find(fp, who); ok {
			g.RealizeEnclosure(encl, who)
		}
	}

	return nil
}
