package render

import (
	"strings"
	"testing"

	"github.com/bartekd/kropla/internal/game"
	"github.com/bartekd/kropla/internal/worm"
)

func TestSVGIncludesPlacedDots(t *testing.T) {
	g, err := game.New(9, 9, game.Ruleset{})
	if err != nil {
		t.Fatalf("game.New: %v", err)
	}
	p, err := g.Simple.Board.ParseSGFPoint("dd")
	if err != nil {
		t.Fatalf("ParseSGFPoint: %v", err)
	}
	if err := g.MakeMove(p, worm.Black, nil); err != nil {
		t.Fatalf("MakeMove: %v", err)
	}

	svg := SVG(g, DefaultTheme())
	if !strings.Contains(svg, "<svg") || !strings.Contains(svg, "circle") {
		t.Errorf("expected an <svg> document with at least one circle, got %q", svg)
	}
}

func TestRasterizeProducesExpectedDimensions(t *testing.T) {
	g, err := game.New(5, 5, game.Ruleset{})
	if err != nil {
		t.Fatalf("game.New: %v", err)
	}
	svg := SVG(g, DefaultTheme())
	img, err := Rasterize(svg, 200, 200, g.Simple.Board)
	if err != nil {
		t.Fatalf("Rasterize: %v", err)
	}
	if img.Bounds().Dx() != 200 || img.Bounds().Dy() != 200 {
		t.Errorf("expected 200x200 image, got %v", img.Bounds())
	}
}
