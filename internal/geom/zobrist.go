package geom

// Zobrist holds the random 64-bit keys used by worms, enclosures and
// threats to hash sets of owned/enclosed points (spec §3). Keyed by
// (owner, point); index 0/1 is worm.Owner's two player values (Black=1,
// White=2) minus one.
type Zobrist struct {
	Dot  [2][]uint64 // Z_dot[owner][point]
	Encl [2][]uint64 // Z_encl[owner][point]
}

// prng is the same xorshift64* generator the teacher uses for its own
// Zobrist tables (board/zobrist.go), seeded fixed so keys are reproducible
// across runs — this module has no use for varying seeds since nothing
// here is persisted across incompatible board sizes.
type prng struct{ state uint64 }

func newPRNG(seed uint64) *prng { return &prng{state: seed} }

func (p *prng) next() uint64 {
	p.state ^= p.state >> 12
	p.state ^= p.state << 25
	p.state ^= p.state >> 27
	return p.state * 0x2545F4914F6CDD1D
}

// NewZobrist builds Zobrist tables sized for the given board.
func NewZobrist(b *Board) *Zobrist {
	rng := newPRNG(0xA17BEEF5C0FFEE1D)
	z := &Zobrist{}
	for owner := 0; owner < 2; owner++ {
		z.Dot[owner] = make([]uint64, b.Size())
		z.Encl[owner] = make([]uint64, b.Size())
	}
	for p := 0; p < b.Size(); p++ {
		for owner := 0; owner < 2; owner++ {
			z.Dot[owner][p] = rng.next()
			z.Encl[owner][p] = rng.next()
		}
	}
	return z
}
