package sgf

import "testing"

func TestParseRecordRoundTrip(t *testing.T) {
	in := "(;SZ[9]AB[cc];B[dd];W[ee])"
	rec, err := Parse(in)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(rec.Nodes) != 3 {
		t.Fatalf("expected 3 nodes, got %d", len(rec.Nodes))
	}
	if got := rec.Nodes[0].Get("SZ"); len(got) != 1 || got[0] != "9" {
		t.Errorf("SZ = %v", got)
	}
	if got := rec.Nodes[1].Get("B"); len(got) != 1 || got[0] != "dd" {
		t.Errorf("B = %v", got)
	}
	if out := rec.Encode(); out != in {
		t.Errorf("Encode round-trip: got %q want %q", out, in)
	}
}

func TestParseRejectsMissingCloseParen(t *testing.T) {
	_, err := Parse("(;SZ[9]")
	if err == nil {
		t.Fatal("expected a syntax error for an unterminated record")
	}
	var syn *SyntaxError
	if !asSyntaxError(err, &syn) {
		t.Fatalf("expected *SyntaxError, got %T", err)
	}
}

func asSyntaxError(err error, out **SyntaxError) bool {
	se, ok := err.(*SyntaxError)
	if ok {
		*out = se
	}
	return ok
}

func TestParseMoveValueSplitsCapturesAndForced(t *testing.T) {
	coord, border, forced := ParseMoveValue("dd.cb.bc.dc.cd!cc")
	if coord != "dd" {
		t.Errorf("coord = %q", coord)
	}
	if len(border) != 4 {
		t.Errorf("border = %v", border)
	}
	if forced != "cc" {
		t.Errorf("forced = %q", forced)
	}
	if got := EncodeMoveValue(coord, border, forced); got != "dd.cb.bc.dc.cd!cc" {
		t.Errorf("EncodeMoveValue round-trip: got %q", got)
	}
}

func TestParseSizeHandlesSquareAndRectangular(t *testing.T) {
	w, h, err := ParseSize("19")
	if err != nil || w != 19 || h != 19 {
		t.Fatalf("ParseSize(19) = %d,%d,%v", w, h, err)
	}
	w, h, err = ParseSize("9:13")
	if err != nil || w != 9 || h != 13 {
		t.Fatalf("ParseSize(9:13) = %d,%d,%v", w, h, err)
	}
}
