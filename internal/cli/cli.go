// Package cli implements spec §6's external interfaces: the interactive
// line-oriented command set and the two non-interactive batch modes
// (file-driven and stdin-driven). Grounded on hailam-chessplay's
// internal/uci package: a bufio.Scanner main loop dispatching
// whitespace-split commands through a switch, with handleX methods per
// command and search state tracked on the struct itself.
package cli

import (
	"bufio"
	"fmt"
	"image/png"
	"io"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/bartekd/kropla/internal/cnn"
	"github.com/bartekd/kropla/internal/config"
	"github.com/bartekd/kropla/internal/enclosure"
	"github.com/bartekd/kropla/internal/game"
	"github.com/bartekd/kropla/internal/geom"
	"github.com/bartekd/kropla/internal/mcts"
	"github.com/bartekd/kropla/internal/pattern"
	"github.com/bartekd/kropla/internal/render"
	"github.com/bartekd/kropla/internal/sgf"
	"github.com/bartekd/kropla/internal/storage"
	"github.com/bartekd/kropla/internal/worm"
)

// CLI holds the mutable session state for both interactive and batch
// modes: the live position, search tunables, and everything needed to
// re-emit a transcript (spec §6: "prints the modified SGF to stdout").
type CLI struct {
	cfg     config.Config
	tables  *pattern.Tables
	cnnNet  *cnn.Network
	store   *storage.Storage
	saveMC  bool

	g          *game.Game
	boardW     int
	boardH     int
	blackSetup []geom.Point
	whiteSetup []geom.Point
	moves      []sgf.MoveRecord
	meta       *sgf.Meta

	out io.Writer
	errOut io.Writer
}

// New builds a CLI session over a fresh 19x19 board using cfg's tunables.
func New(cfg config.Config, tables *pattern.Tables, cnnNet *cnn.Network, store *storage.Storage) (*CLI, error) {
	c := &CLI{
		cfg:    cfg,
		tables: tables,
		cnnNet: cnnNet,
		store:  store,
		out:    os.Stdout,
		errOut: os.Stderr,
	}
	return c, c.reset(19, 19)
}

// SetSaveMCStats toggles whether engine/human moves append an MCStatsEntry
// to the store (spec §6: "appended on every move when a sibling file
// savemc.config exists").
func (c *CLI) SetSaveMCStats(on bool) {
	c.saveMC = on
}

func (c *CLI) reset(w, h int) error {
	g, err := game.New(w, h, game.Ruleset{Komi: c.cfg.Komi})
	if err != nil {
		return err
	}
	c.g = g
	c.boardW, c.boardH = w, h
	c.blackSetup = nil
	c.whiteSetup = nil
	c.moves = nil
	c.meta = &sgf.Meta{}
	return nil
}

// RunInteractive runs the line-oriented command loop of spec §6's
// interactive table over stdin/stdout, exiting (status 0) on quit/bye or
// EOF.
func (c *CLI) RunInteractive() {
	scanner := bufio.NewScanner(os.Stdin)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if c.dispatch(line) {
			return
		}
	}
}

// dispatch handles one interactive command line, returning true if the
// session should end.
func (c *CLI) dispatch(line string) (quit bool) {
	fields := strings.Fields(line)
	cmd := fields[0]
	args := fields[1:]

	switch cmd {
	case "new":
		if err := c.reset(c.boardW, c.boardH); err != nil {
			fmt.Fprintf(c.errOut, "error: %v\n", err)
		}
	case "move":
		c.engineMove()
	case "back":
		c.undo()
	case "show":
		c.show(args)
	case "threads":
		c.setThreads(args)
	case "iters":
		c.setIters(args)
	case "help", "?":
		c.printHelp()
	case "quit", "bye":
		return true
	default:
		// <coord>[ <coord> ...]: human plays at the first coordinate,
		// encloses at the remaining ones.
		c.humanMove(fields)
	}
	return false
}

func (c *CLI) printHelp() {
	fmt.Fprintln(c.out, "commands: new, move, <coord> [<coord>...], back, show [-svg <path>], threads N, iters N, help, quit")
}

func (c *CLI) setThreads(args []string) {
	if len(args) != 1 {
		fmt.Fprintln(c.errOut, "usage: threads N")
		return
	}
	n, err := strconv.Atoi(args[0])
	if err != nil || n < 1 {
		fmt.Fprintln(c.errOut, "error: threads requires N >= 1")
		return
	}
	c.cfg.Workers = n
}

func (c *CLI) setIters(args []string) {
	if len(args) != 1 {
		fmt.Fprintln(c.errOut, "usage: iters N")
		return
	}
	n, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil || n < 1 {
		fmt.Fprintln(c.errOut, "error: iters requires N >= 1")
		return
	}
	c.cfg.Iterations = n
}

// show prints an ASCII board to stderr, or with "-svg <path>" rasterizes
// the position to a PNG file instead.
func (c *CLI) show(args []string) {
	if len(args) == 2 && args[0] == "-svg" {
		if err := c.writeSVGSnapshot(args[1]); err != nil {
			fmt.Fprintf(c.errOut, "error: %v\n", err)
		}
		return
	}
	fmt.Fprintln(c.errOut, renderASCII(c.g))
}

func (c *CLI) writeSVGSnapshot(path string) error {
	svgDoc := render.SVG(c.g, render.DefaultTheme())
	width := c.g.Simple.Board.W*render.CellSize + render.CellSize
	height := c.g.Simple.Board.H*render.CellSize + render.CellSize
	img, err := render.Rasterize(svgDoc, width, height, c.g.Simple.Board)
	if err != nil {
		return fmt.Errorf("rendering snapshot: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return png.Encode(f, img)
}

func (c *CLI) undo() {
	if len(c.moves) == 0 {
		return
	}
	last := c.moves[:len(c.moves)-1]
	c.moves = nil
	w, h := c.boardW, c.boardH
	blackSetup, whiteSetup := c.blackSetup, c.whiteSetup
	if err := c.reset(w, h); err != nil {
		fmt.Fprintf(c.errOut, "error: %v\n", err)
		return
	}
	c.blackSetup, c.whiteSetup = blackSetup, whiteSetup
	for _, p := range blackSetup {
		c.g.Simple.PlaceDot(p, worm.Black)
	}
	for _, p := range whiteSetup {
		c.g.Simple.PlaceDot(p, worm.White)
	}
	for _, mv := range last {
		if mv.Pass {
			c.g.MakePass(mv.Owner)
		} else if err := c.g.MakeMove(mv.Point, mv.Owner, nil); err != nil {
			fmt.Fprintf(c.errOut, "error replaying history: %v\n", err)
			return
		}
		c.moves = append(c.moves, mv)
	}
}

// humanMove plays fields[0] for the mover and realises any enclosure
// named by fields[1:] (spec §6: "human plays at first coord, encloses at
// remaining coords"). A rule error (occupied point) rejects the line and
// leaves the board unchanged (interactive-mode error handling, spec §7).
func (c *CLI) humanMove(coords []string) {
	who := c.g.NowMoves
	p, err := c.g.Simple.Board.ParseSGFPoint(coords[0])
	if err != nil {
		fmt.Fprintf(c.errOut, "%v\n", err)
		return
	}
	if !c.g.Simple.Worms.IsEmpty(p) {
		fmt.Fprintf(c.errOut, "error: point %s is occupied\n", coords[0])
		return
	}

	if err := c.g.MakeMove(p, who, nil); err != nil {
		fmt.Fprintf(c.errOut, "error: %v\n", err)
		return
	}
	c.moves = append(c.moves, sgf.MoveRecord{Owner: who, Point: p})

	if len(coords) > 1 {
		border := make([]geom.Point, 0, len(coords)-1)
		for _, cs := range coords[1:] {
			bp, err := c.g.Simple.Board.ParseSGFPoint(cs)
			if err != nil {
				fmt.Fprintf(c.errOut, "%v\n", err)
				continue
			}
			border = append(border, bp)
		}
		finder := enclosure.NewFinder(c.g.Simple.Board, c.g.Simple.Worms, c.g.Simple.Zobrist)
		if encl, ok := finder.FromBorder(border, who); ok {
			c.g.RealizeEnclosure(encl, who)
		}
	}

	c.maybeLogMCStats(who, 0, 0, 0)
}

// engineMove runs an MCTS search round for the mover and plays its best
// move (spec §6's `move` command).
func (c *CLI) engineMove() {
	who := c.g.NowMoves
	start := time.Now()

	search := mcts.NewSearch(c.tables, c.cnnNet, c.cfg.Workers, c.g.Rules.Komi)
	search.Run(c.g, who, mcts.Limits{Iterations: c.cfg.Iterations, Msec: c.cfg.Msec}, func(g *game.Game) *game.Game {
		return g.Clone()
	})

	best := bestMove(search.Root)
	if best == nil || best.Move == geom.NoPoint {
		c.g.MakePass(who)
		c.moves = append(c.moves, sgf.MoveRecord{Owner: who, Pass: true})
		return
	}
	if err := c.g.MakeMove(best.Move, who, nil); err != nil {
		fmt.Fprintf(c.errOut, "error applying engine move: %v\n", err)
		return
	}
	c.moves = append(c.moves, sgf.MoveRecord{Owner: who, Point: best.Move})

	playouts, value := best.Stats()
	c.maybeLogMCStats(who, int64(playouts), value, time.Since(start).Milliseconds())
}

func bestMove(root *mcts.Node) *mcts.Node {
	var best *mcts.Node
	var bestPlayouts int32
	for _, n := range root.Children() {
		pl, _ := n.Stats()
		if best == nil || pl > bestPlayouts {
			best = n
			bestPlayouts = pl
		}
	}
	return best
}

func (c *CLI) maybeLogMCStats(who worm.Owner, visits int64, value float64, elapsedMs int64) {
	if c.store == nil || !c.saveMC {
		return
	}
	move := "pass"
	if len(c.moves) > 0 {
		last := c.moves[len(c.moves)-1]
		if !last.Pass {
			move = c.g.Simple.Board.PointToSGF(last.Point)
		}
	}
	if err := c.store.AppendMCStats(storage.MCStatsEntry{
		Move: move, Visits: visits, Value: value, ElapsedMs: elapsedMs,
	}); err != nil {
		log.Printf("[CLI] mcstats append failed: %v", err)
	}
}

// Transcript returns the current session encoded as an SGF-like record.
func (c *CLI) Transcript() *sgf.Record {
	return sgf.Emit(c.g.Simple.Board, c.blackSetup, c.whiteSetup, c.moves, c.meta)
}
