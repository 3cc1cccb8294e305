// Package render draws a Kropla board to SVG and rasterizes it to an
// image.RGBA for cmd/kropla-view and the CLI's `show -svg` flag. The
// renderer is an external collaborator (spec §1: "a separate rendering
// layer, out of scope for the engine core"), grounded on
// hailam-chessplay/internal/ui's Theme/Renderer split (renderer.go) and
// its oksvg/rasterx SVG-to-image pipeline (sprites.go's loadPieces).
package render

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"strings"

	"github.com/srwiley/oksvg"
	"github.com/srwiley/rasterx"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/bartekd/kropla/internal/game"
	"github.com/bartekd/kropla/internal/geom"
	"github.com/bartekd/kropla/internal/threat"
	"github.com/bartekd/kropla/internal/worm"
)

// Theme mirrors the teacher's Theme struct: a named colour scheme, here
// for dots/background/grid instead of chess squares.
type Theme struct {
	Background color.RGBA
	Grid       color.RGBA
	Black      color.RGBA
	White      color.RGBA
	Border     color.RGBA
}

// DefaultTheme returns the built-in colour scheme.
func DefaultTheme() Theme {
	return Theme{
		Background: color.RGBA{250, 248, 240, 255},
		Grid:       color.RGBA{200, 195, 180, 255},
		Black:      color.RGBA{20, 20, 20, 255},
		White:      color.RGBA{235, 235, 235, 255},
		Border:     color.RGBA{220, 60, 60, 255},
	}
}

// CellSize is the SVG coordinate-space size of one board cell.
const CellSize = 32

// SVG renders g's current position to an SVG document string: grid lines,
// one dot per occupied point, and a highlighted polyline per realised
// enclosure border (spec §8's "enclosure... closed border polyline").
func SVG(g *game.Game, theme Theme) string {
	b := g.Simple.Board
	w := b.W*CellSize + CellSize
	h := b.H*CellSize + CellSize

	var sb strings.Builder
	fmt.Fprintf(&sb, `<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">`, w, h, w, h)
	fmt.Fprintf(&sb, `<rect width="%d" height="%d" fill="%s"/>`, w, h, hexColor(theme.Background))

	for x := 0; x <= b.W; x++ {
		xc := CellSize/2 + x*CellSize
		fmt.Fprintf(&sb, `<line x1="%d" y1="%d" x2="%d" y2="%d" stroke="%s"/>`,
			xc, CellSize/2, xc, CellSize/2+b.H*CellSize, hexColor(theme.Grid))
	}
	for y := 0; y <= b.H; y++ {
		yc := CellSize/2 + y*CellSize
		fmt.Fprintf(&sb, `<line x1="%d" y1="%d" x2="%d" y2="%d" stroke="%s"/>`,
			CellSize/2, yc, CellSize/2+b.W*CellSize, yc, hexColor(theme.Grid))
	}

	ws := g.Simple.Worms
	for y := 1; y <= b.H; y++ {
		for x := 1; x <= b.W; x++ {
			p := b.Index(x, y)
			owner := ws.OwnerAt(p)
			if owner == worm.Empty {
				continue
			}
			cx, cy := cellCenter(x, y)
			fillColor := theme.Black
			if owner == worm.White {
				fillColor = theme.White
			}
			fmt.Fprintf(&sb, `<circle cx="%d" cy="%d" r="%d" fill="%s"/>`, cx, cy, CellSize/3, hexColor(fillColor))
		}
	}

	for owner := worm.Black; owner <= worm.White; owner++ {
		idx := g.Simple.Threats[owner]
		if idx == nil {
			continue
		}
		for _, t := range idx.All() {
			if t.Encl == nil || t.Kind != threat.KindTerr {
				continue
			}
			drawBorder(&sb, b, t.Encl.Border, theme.Border)
		}
	}

	sb.WriteString(`</svg>`)
	return sb.String()
}

func drawBorder(sb *strings.Builder, b *geom.Board, border []geom.Point, c color.RGBA) {
	if len(border) == 0 {
		return
	}
	sb.WriteString(`<polyline fill="none" stroke="`)
	sb.WriteString(hexColor(c))
	sb.WriteString(`" stroke-width="2" points="`)
	for _, p := range border {
		x, y := b.XY(p)
		cx, cy := cellCenter(x, y)
		fmt.Fprintf(sb, "%d,%d ", cx, cy)
	}
	x0, y0 := b.XY(border[0])
	cx0, cy0 := cellCenter(x0, y0)
	fmt.Fprintf(sb, "%d,%d", cx0, cy0)
	sb.WriteString(`"/>`)
}

func cellCenter(x, y int) (int, int) {
	return CellSize/2 + (x-1)*CellSize + CellSize/2, CellSize/2 + (y-1)*CellSize + CellSize/2
}

func hexColor(c color.RGBA) string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

// Rasterize parses an SVG document and rasterizes it to an RGBA image,
// matching the teacher's loadPieces pipeline: oksvg.ReadIconStream ->
// icon.SetTarget -> rasterx.NewDasher draw. Coordinate letters are drawn
// on top along the board's two edges with x/image's basic face, since SVG
// <text> shaping is out of oksvg's scope.
func Rasterize(svg string, width, height int, b *geom.Board) (*image.RGBA, error) {
	icon, err := oksvg.ReadIconStream(bytes.NewReader([]byte(svg)))
	if err != nil {
		return nil, fmt.Errorf("render: parsing svg: %w", err)
	}
	icon.SetTarget(0, 0, float64(width), float64(height))

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	scanner := rasterx.NewScannerGV(width, height, img, img.Bounds())
	raster := rasterx.NewDasher(width, height, scanner)
	icon.Draw(raster, 1.0)

	if b != nil {
		drawCoordLabels(img, b)
	}
	return img, nil
}

// drawCoordLabels writes the SGF-letter coordinate for each column along
// the top edge and each row along the left edge.
func drawCoordLabels(img *image.RGBA, b *geom.Board) {
	face := basicfont.Face7x13
	ink := image.NewUniform(color.RGBA{80, 75, 60, 255})
	drawer := &font.Drawer{Dst: img, Src: ink, Face: face}

	for x := 1; x <= b.W; x++ {
		cx, _ := cellCenter(x, 1)
		label := string(geom.SGFCoord(x-1, 0)[0])
		drawer.Dot = fixed.P(cx-face.Advance/4, CellSize/2-4)
		drawer.DrawString(label)
	}
	for y := 1; y <= b.H; y++ {
		_, cy := cellCenter(1, y)
		label := string(geom.SGFCoord(0, y-1)[1])
		drawer.Dot = fixed.P(4, cy+face.Height/4)
		drawer.DrawString(label)
	}
}
