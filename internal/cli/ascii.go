package cli

import (
	"strings"

	"github.com/bartekd/kropla/internal/game"
	"github.com/bartekd/kropla/internal/worm"
)

// renderASCII renders g to a plain-text board, grounded on the teacher's
// position.String() debug dump (internal/uci's "d" command).
func renderASCII(g *game.Game) string {
	b := g.Simple.Board
	ws := g.Simple.Worms
	var sb strings.Builder
	for y := 1; y <= b.H; y++ {
		for x := 1; x <= b.W; x++ {
			switch ws.OwnerAt(b.Index(x, y)) {
			case worm.Black:
				sb.WriteByte('#')
			case worm.White:
				sb.WriteByte('o')
			default:
				sb.WriteByte('.')
			}
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}
