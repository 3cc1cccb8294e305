// kropla-view is an optional interactive board viewer: it loads an SGF-like
// transcript and displays the resulting position, re-rendering when the
// right/left arrow key steps forward/back one move. Grounded on hailam-chessplay's
// main.go/internal/ui.Game for the ebiten.Game wiring, much reduced since
// the engine core does not need a full interactive GUI (SPEC_FULL.md
// Part C).
package main

import (
	"log"
	"os"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/bartekd/kropla/internal/render"
	"github.com/bartekd/kropla/internal/sgf"
)

const (
	screenWidth  = 800
	screenHeight = 800
)

type viewer struct {
	record *sgf.Record
	ply    int // how many move-nodes have been applied so far
	img    *ebiten.Image
}

func newViewer(rec *sgf.Record) *viewer {
	v := &viewer{record: rec, ply: 0}
	v.refresh()
	return v
}

func (v *viewer) refresh() {
	partial := &sgf.Record{Nodes: v.record.Nodes[:v.ply+1]}
	g, _, err := sgf.Apply(partial)
	if err != nil {
		log.Printf("[Viewer] replay error at ply %d: %v", v.ply, err)
		return
	}
	svg := render.SVG(g, render.DefaultTheme())
	rgba, err := render.Rasterize(svg, screenWidth, screenHeight, g.Simple.Board)
	if err != nil {
		log.Printf("[Viewer] rasterize error: %v", err)
		return
	}
	v.img = ebiten.NewImageFromImage(rgba)
}

func (v *viewer) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyRight) && v.ply+1 < len(v.record.Nodes) {
		v.ply++
		v.refresh()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyLeft) && v.ply > 0 {
		v.ply--
		v.refresh()
	}
	return nil
}

func (v *viewer) Draw(screen *ebiten.Image) {
	if v.img != nil {
		screen.DrawImage(v.img, &ebiten.DrawImageOptions{})
	}
}

func (v *viewer) Layout(outsideWidth, outsideHeight int) (int, int) {
	return screenWidth, screenHeight
}

func main() {
	if len(os.Args) < 2 {
		log.Fatal("usage: kropla-view <transcript.sgf>")
	}
	data, err := os.ReadFile(os.Args[1])
	if err != nil {
		log.Fatalf("[Viewer] reading %s: %v", os.Args[1], err)
	}
	rec, err := sgf.Parse(string(data))
	if err != nil {
		log.Fatalf("[Viewer] parsing transcript: %v", err)
	}
	if len(rec.Nodes) == 0 {
		log.Fatal("[Viewer] transcript has no nodes")
	}

	v := newViewer(rec)

	ebiten.SetWindowSize(screenWidth, screenHeight)
	ebiten.SetWindowTitle("kropla-view")

	if err := ebiten.RunGame(v); err != nil {
		log.Fatal(err)
	}
}
