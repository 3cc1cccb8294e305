package geom

// sgfLetters is the 52-letter alphabet SGF-like coordinates use for both
// axes: a..z then A..Z, representing 0..51 (spec §6).
const sgfLetters = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ"

var sgfLetterIndex [256]int8

func init() {
	for i := range sgfLetterIndex {
		sgfLetterIndex[i] = -1
	}
	for i := 0; i < len(sgfLetters); i++ {
		sgfLetterIndex[sgfLetters[i]] = int8(i)
	}
}

// ParseSGFCoord decodes a two-letter SGF-style coordinate ("ab" -> x=0,y=1)
// into 0-based board coordinates, validating against the board's W,H.
func (b *Board) ParseSGFCoord(s string) (x, y int, err error) {
	if len(s) != 2 {
		return 0, 0, &BadCoordinate{Input: s, Why: "coordinate must be exactly two letters"}
	}
	xi := sgfLetterIndex[s[0]]
	yi := sgfLetterIndex[s[1]]
	if xi < 0 {
		return 0, 0, &BadCoordinate{Input: s, Why: "first character is not a letter"}
	}
	if yi < 0 {
		return 0, 0, &BadCoordinate{Input: s, Why: "second character is not a letter"}
	}
	x, y = int(xi), int(yi)
	if x >= b.W || y >= b.H {
		return 0, 0, &BadCoordinate{Input: s, Why: "coordinate is off-board"}
	}
	return x, y, nil
}

// SGFCoord encodes 0-based board coordinates into the two-letter form.
func SGFCoord(x, y int) string {
	return string([]byte{sgfLetters[x], sgfLetters[y]})
}

// ParseSGFPoint is ParseSGFCoord followed by Index, returning a Point and
// the BadCoordinate error (or a "point occupied" check is left to callers,
// since occupancy is not geometry's concern).
func (b *Board) ParseSGFPoint(s string) (Point, error) {
	x, y, err := b.ParseSGFCoord(s)
	if err != nil {
		return NoPoint, err
	}
	return b.Index(x+1, y+1), nil
}

// PointToSGF is the inverse of ParseSGFPoint.
func (b *Board) PointToSGF(p Point) string {
	x, y := b.XY(p)
	return SGFCoord(x-1, y-1)
}
