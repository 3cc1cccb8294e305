package game

// Clone returns a deep, independent copy of g for internal/mcts's
// per-worker descent (spec §5: "each worker owns... its own clone of the
// Game state").
func (g *Game) Clone() *Game {
	return &Game{
		Simple:   g.Simple.Clone(),
		Rules:    g.Rules,
		passes:   g.passes,
		NowMoves: g.NowMoves,
	}
}
