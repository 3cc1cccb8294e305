package geom

import "testing"

func TestSGFCoordRoundTrip(t *testing.T) {
	b, err := NewBoard(19, 19)
	if err != nil {
		t.Fatalf("NewBoard: %v", err)
	}

	for y := 0; y < b.H; y++ {
		for x := 0; x < b.W; x++ {
			s := SGFCoord(x, y)
			gotX, gotY, err := b.ParseSGFCoord(s)
			if err != nil {
				t.Fatalf("ParseSGFCoord(%q): %v", s, err)
			}
			if gotX != x || gotY != y {
				t.Errorf("round trip %d,%d -> %q -> %d,%d", x, y, s, gotX, gotY)
			}
		}
	}
}

func TestParseSGFCoordRejectsOffBoard(t *testing.T) {
	b, _ := NewBoard(5, 5)
	if _, _, err := b.ParseSGFCoord("ff"); err == nil {
		t.Errorf("expected off-board coordinate to fail")
	}
	if _, _, err := b.ParseSGFCoord("1a"); err == nil {
		t.Errorf("expected non-letter coordinate to fail")
	}
	if _, _, err := b.ParseSGFCoord("a"); err == nil {
		t.Errorf("expected too-short coordinate to fail")
	}
}

func TestDistToEdge(t *testing.T) {
	b, _ := NewBoard(7, 7)
	cases := []struct{ x, y, want int }{
		{1, 1, 0}, {7, 7, 0}, {1, 7, 0}, {4, 4, 3}, {2, 4, 1},
	}
	for _, c := range cases {
		p := b.Index(c.x, c.y)
		if got := b.Dist(p); got != c.want {
			t.Errorf("Dist(%d,%d) = %d, want %d", c.x, c.y, got, c.want)
		}
	}
}

func TestNeighbourOrderIsRotationallyConsistent(t *testing.T) {
	b, _ := NewBoard(9, 9)
	center := b.Index(5, 5)
	// nb4 order is N,E,S,W: N then S must be stride apart in opposite signs.
	n := b.NB4(center, 0)
	s := b.NB4(center, 2)
	if (center - n) != (s - center) {
		t.Errorf("N/S offsets are not symmetric: N=%d S=%d center=%d", n, s, center)
	}
	e := b.NB4(center, 1)
	w := b.NB4(center, 3)
	if (center - w) != (e - center) {
		t.Errorf("E/W offsets are not symmetric")
	}
}

func TestZobristInsensitiveToPlacementOrder(t *testing.T) {
	b, _ := NewBoard(7, 7)
	z := NewZobrist(b)

	pts := []Point{b.Index(1, 1), b.Index(3, 4), b.Index(7, 7)}
	var forward, backward uint64
	for _, p := range pts {
		forward ^= z.Dot[0][p]
	}
	for i := len(pts) - 1; i >= 0; i-- {
		backward ^= z.Dot[0][pts[i]]
	}
	if forward != backward {
		t.Errorf("zobrist XOR is order sensitive: %x != %x", forward, backward)
	}
}

func TestResizeRebuildsGeometry(t *testing.T) {
	b, _ := NewBoard(5, 5)
	if err := b.Resize(11, 13); err != nil {
		t.Fatalf("Resize: %v", err)
	}
	if b.W != 11 || b.H != 13 {
		t.Fatalf("Resize did not update dimensions: got %dx%d", b.W, b.H)
	}
	p := b.Index(11, 13)
	if !b.OnBoard(p) {
		t.Errorf("corner point should be on-board after resize")
	}
}

func TestNewBoardRejectsOutOfRange(t *testing.T) {
	if _, err := NewBoard(4, 10); err == nil {
		t.Errorf("expected error for width below MinSize")
	}
	if _, err := NewBoard(10, 46); err == nil {
		t.Errorf("expected error for height above MaxSize")
	}
}
