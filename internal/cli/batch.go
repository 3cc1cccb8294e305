package cli

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/bartekd/kropla/internal/game"
	"github.com/bartekd/kropla/internal/mcts"
	"github.com/bartekd/kropla/internal/sgf"
	"github.com/bartekd/kropla/internal/worm"
)

// RunBatchFile implements spec §6's file-driven batch mode: replay at most
// maxMoves move-nodes from path, play one engine move for the resulting
// position, and print the modified transcript to stdout. A rule error
// (playing on an occupied point) is fatal in this mode (spec §7): it is
// reported and the process exits non-zero.
func (c *CLI) RunBatchFile(path string, maxMoves int) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return c.runBatchTranscript(string(data), maxMoves, c.cfg.Msec)
}

func (c *CLI) runBatchTranscript(transcript string, maxMoves int, msec int64) error {
	rec, err := sgf.Parse(transcript)
	if err != nil {
		return fmt.Errorf("batch: %w", err)
	}
	if len(rec.Nodes) == 0 {
		return fmt.Errorf("batch: transcript has no nodes")
	}

	limited := &sgf.Record{Nodes: rec.Nodes}
	if maxMoves >= 0 && len(rec.Nodes)-1 > maxMoves {
		limited = &sgf.Record{Nodes: rec.Nodes[:maxMoves+1]}
	}

	g, meta, err := sgf.Apply(limited)
	if err != nil {
		return fmt.Errorf("batch: %w", err)
	}
	c.g = g
	c.meta = meta
	c.moves = replayMoves(limited)

	who := c.g.NowMoves
	search := mcts.NewSearch(c.tables, c.cnnNet, c.cfg.Workers, c.g.Rules.Komi)
	search.Run(c.g, who, mcts.Limits{Iterations: c.cfg.Iterations, Msec: msec}, func(gg *game.Game) *game.Game {
		return gg.Clone()
	})

	best := bestMove(search.Root)
	if best == nil {
		c.g.MakePass(who)
		c.moves = append(c.moves, sgf.MoveRecord{Owner: who, Pass: true})
	} else {
		if err := c.g.MakeMove(best.Move, who, nil); err != nil {
			return fmt.Errorf("batch: engine move rejected: %w", err)
		}
		c.moves = append(c.moves, sgf.MoveRecord{Owner: who, Point: best.Move})
	}

	fmt.Fprintln(c.out, c.Transcript().Encode())
	return nil
}

func replayMoves(rec *sgf.Record) []sgf.MoveRecord {
	var out []sgf.MoveRecord
	for _, n := range rec.Nodes[1:] {
		if bv := n.Get("B"); bv != nil {
			out = append(out, moveRecordFromValue(bv[0], worm.Black))
		} else if wv := n.Get("W"); wv != nil {
			out = append(out, moveRecordFromValue(wv[0], worm.White))
		}
	}
	return out
}

func moveRecordFromValue(value string, owner worm.Owner) sgf.MoveRecord {
	coord, _, _ := sgf.ParseMoveValue(value)
	return sgf.MoveRecord{Owner: owner, Pass: coord == ""}
}

// RunStdinBatch implements spec §6's `-` stdin-driven mode: read a
// transcript up to its top-level `)`, emit one engine move, then wait for
// more input; the line "END" exits. A trailing integer after `)` overrides
// the wall-clock millisecond budget for that round.
func (c *CLI) RunStdinBatch() error {
	reader := bufio.NewReader(os.Stdin)
	for {
		transcript, trailer, err := readRecordUntilTopLevelClose(reader)
		if err == io.EOF && transcript == "" {
			return nil
		}
		if err != nil && err != io.EOF {
			return err
		}
		if strings.TrimSpace(transcript) == "END" {
			return nil
		}
		msec := c.cfg.Msec
		if trailer != "" {
			if v, err := strconv.ParseInt(strings.TrimSpace(trailer), 10, 64); err == nil {
				msec = v
			}
		}
		if err := c.runBatchTranscript(transcript, -1, msec); err != nil {
			fmt.Fprintf(c.errOut, "error: %v\n", err)
		}
		if err == io.EOF {
			return nil
		}
	}
}

// readRecordUntilTopLevelClose reads runes until the paren depth returns
// to zero after having gone positive, returning the transcript (inclusive
// of the closing paren) and any trailing text on that line (spec's
// "trailing integer after the final )").
func readRecordUntilTopLevelClose(r *bufio.Reader) (transcript, trailer string, err error) {
	var sb strings.Builder
	depth := 0
	seenOpen := false
	for {
		ch, _, rerr := r.ReadRune()
		if rerr != nil {
			return sb.String(), "", rerr
		}
		if ch == '(' {
			depth++
			seenOpen = true
		}
		sb.WriteRune(ch)
		if ch == ')' {
			depth--
			if seenOpen && depth == 0 {
				rest, _ := r.ReadString('\n')
				return sb.String(), strings.TrimSpace(rest), nil
			}
		}
	}
}
