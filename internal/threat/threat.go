// Package threat implements spec component D: enumeration and incremental
// maintenance of one-move (ENCL/TERR) and two-move enclosure threats, with
// the cross-indices that let the playout and MCTS layers ask "what threats
// touch this point" in O(1) amortised time.
package threat

import (
	"github.com/bartekd/kropla/internal/enclosure"
	"github.com/bartekd/kropla/internal/geom"
	"github.com/bartekd/kropla/internal/worm"
)

// Kind classifies a threat record's current role (spec §4.D).
type Kind int

const (
	KindEncl Kind = iota // a move at Where would realise an enclosure
	KindTerr              // the enclosure has already been realised (territory)
)

// Threat is one maintained one-move or two-move capture/territory record.
type Threat struct {
	ID    uint64
	Owner worm.Owner
	Kind  Kind

	// Where is the point whose placement completes (or completed) this
	// threat. Where2 is non-zero for two-move threats.
	Where  geom.Point
	Where2 geom.Point
	TwoMove bool

	Encl *enclosure.Enclosure

	OppDots       int // opponent dots captured if realised
	TerrPoints    int // empty points captured if realised
	SingularDots  int // dots of worms captured only by this threat (leftmost in exactly one threat)
	BorderDanger  int // border dots whose own worm is in atari

	// OppThr lists opponent threat ids that this threat cancels/overlaps.
	// Nothing in this package fills it: AddThreat and SubtractThreat leave
	// it untouched, so it stays empty unless a caller sets it.
	OppThr []uint64

	markRemove bool
	markCheck  bool
}

// Zobrist used for threat dedup (Where/Where2/interior Zobrist), the design
// explicitly sanctioned as a linear scan over the (typically <50) active
// threats rather than a hash index (spec §4.D design choice).
func (t *Threat) zobristKey() uint64 {
	k := t.Encl.Key()
	k ^= uint64(t.Where) * 0x9E3779B97F4A7C15
	if t.TwoMove {
		k ^= uint64(t.Where2) * 0xC2B2AE3D27D4EB4F
	}
	return k
}

// Index is the per-owner threat store plus its cross-index counters.
type Index struct {
	g *geom.Board
	w *worm.State

	threats map[uint64]*Threat
	nextID  uint64

	// byPoint maps every point touched (Where, Where2, or any border/
	// interior cell) to the threat ids that reference it, so per-point
	// queries used by the playout/MCTS layers are O(degree) not O(|threats|).
	byPoint map[geom.Point][]uint64

	// is2mEncl marks points that are the `where` or `where2` of at least one
	// live two-move threat (spec's `is_in_2m_encl`).
	is2mEncl map[geom.Point]bool
}

// NewIndex allocates an empty threat index for one owner's threats over g/w.
func NewIndex(g *geom.Board, w *worm.State) *Index {
	return &Index{
		g:        g,
		w:        w,
		threats:  make(map[uint64]*Threat),
		byPoint:  make(map[geom.Point][]uint64),
		is2mEncl: make(map[geom.Point]bool),
	}
}

// AddThreat inserts t and updates every cross-index (spec: "the only places
// where the per-point counters are updated, so the invariants hold by
// construction").
func (idx *Index) AddThreat(t *Threat) uint64 {
	idx.nextID++
	t.ID = idx.nextID
	idx.threats[t.ID] = t

	idx.link(t.Where, t.ID)
	if t.TwoMove {
		idx.link(t.Where2, t.ID)
		idx.is2mEncl[t.Where] = true
		idx.is2mEncl[t.Where2] = true
	}
	if t.Encl != nil {
		for _, p := range t.Encl.Border {
			idx.link(p, t.ID)
		}
		for _, p := range t.Encl.Interior {
			idx.link(p, t.ID)
		}
	}
	return t.ID
}

func (idx *Index) link(p geom.Point, id uint64) {
	list := idx.byPoint[p]
	for _, have := range list {
		if have == id {
			return
		}
	}
	idx.byPoint[p] = append(list, id)
}

func (idx *Index) unlink(p geom.Point, id uint64) {
	list := idx.byPoint[p]
	for i, have := range list {
		if have == id {
			idx.byPoint[p] = append(list[:i], list[i+1:]...)
			return
		}
	}
}

// SubtractThreat removes t from every index it participates in.
func (idx *Index) SubtractThreat(id uint64) {
	t, ok := idx.threats[id]
	if !ok {
		return
	}
	idx.unlink(t.Where, id)
	if t.TwoMove {
		idx.unlink(t.Where2, id)
	}
	if t.Encl != nil {
		for _, p := range t.Encl.Border {
			idx.unlink(p, id)
		}
		for _, p := range t.Encl.Interior {
			idx.unlink(p, id)
		}
	}
	delete(idx.threats, id)
	if t.TwoMove {
		for _, p := range [2]geom.Point{t.Where, t.Where2} {
			live := false
			for _, oid := range idx.byPoint[p] {
				if o := idx.threats[oid]; o != nil && o.TwoMove && (o.Where == p || o.Where2 == p) {
					live = true
				}
			}
			idx.is2mEncl[p] = live
		}
	}
}

// ThreatsAt returns every threat touching p (its Where, Where2, border, or
// interior).
func (idx *Index) ThreatsAt(p geom.Point) []*Threat {
	ids := idx.byPoint[p]
	out := make([]*Threat, 0, len(ids))
	for _, id := range ids {
		if t, ok := idx.threats[id]; ok {
			out = append(out, t)
		}
	}
	return out
}

// IsIn2MoveEnclosure reports whether p is the `where`/`where2` of any live
// two-move threat (spec's `is_in_2m_encl`).
func (idx *Index) IsIn2MoveEnclosure(p geom.Point) bool { return idx.is2mEncl[p] }

// All returns every live threat, for scoring/diagnostic sweeps.
func (idx *Index) All() []*Threat {
	out := make([]*Threat, 0, len(idx.threats))
	for _, t := range idx.threats {
		out = append(out, t)
	}
	return out
}

// FindByZobrist performs the linear dedup scan the spec prescribes: does a
// threat already describe this (where[, where2], enclosure) triple?
func (idx *Index) FindByZobrist(where, where2 geom.Point, encl *enclosure.Enclosure) *Threat {
	candidate := &Threat{Where: where, Where2: where2, TwoMove: where2 != geom.NoPoint, Encl: encl}
	key := candidate.zobristKey()
	for _, t := range idx.threats {
		if t.Where == where && t.Where2 == where2 && t.zobristKey() == key {
			return t
		}
	}
	return nil
}

// MarkRemove / MarkCheck / RemoveMarked implement the TO_REMOVE / TO_CHECK
// staging the spec's pre-placement scan uses before post-placement
// verification runs.
func (idx *Index) MarkRemove(id uint64) {
	if t, ok := idx.threats[id]; ok {
		t.markRemove = true
	}
}

func (idx *Index) MarkCheck(id uint64) {
	if t, ok := idx.threats[id]; ok {
		t.markCheck = true
	}
}

// RemoveMarked purges every threat marked TO_REMOVE.
func (idx *Index) RemoveMarked() {
	for id, t := range idx.threats {
		if t.markRemove {
			idx.SubtractThreat(id)
		}
	}
}

// RemoveMarkedAndAtPoint purges TO_REMOVE threats and additionally any
// threat whose Where equals p, regardless of mark (spec's
// `remove_marked_and_at_point(3-who, p)` call for the opponent's side).
func (idx *Index) RemoveMarkedAndAtPoint(p geom.Point) {
	for id, t := range idx.threats {
		if t.markRemove || t.Where == p {
			idx.SubtractThreat(id)
		}
	}
}

// CheckStaged re-verifies every TO_CHECK threat by re-running the
// enclosure finder inside its previous interior, refreshing its counters or
// marking it TO_REMOVE if the enclosure no longer exists.
func (idx *Index) CheckStaged(f *enclosure.Finder) {
	for id, t := range idx.threats {
		if !t.markCheck {
			continue
		}
		t.markCheck = false
		if t.Encl == nil || len(t.Encl.Interior) == 0 {
			idx.MarkRemove(id)
			continue
		}
		re, ok := f.Find(t.Encl.Interior[0], t.Owner)
		if !ok {
			idx.MarkRemove(id)
			continue
		}
		t.Encl = re
		idx.refreshCounters(t)
	}
}

// refreshCounters recounts OppDots/TerrPoints/SingularDots/BorderDanger for
// t from its (possibly refreshed) enclosure (spec §4.D post-placement step
// "recount opp_dots, terr_points, singular_dots, and border_dots_in_danger").
func (idx *Index) refreshCounters(t *Threat) {
	t.OppDots, t.TerrPoints, t.SingularDots, t.BorderDanger = 0, 0, 0, 0
	seenWorms := map[worm.ID]bool{}
	for _, p := range t.Encl.Interior {
		switch idx.w.OwnerAt(p) {
		case worm.Empty:
			t.TerrPoints++
		default:
			id := idx.w.IDAt(p)
			if !seenWorms[id] {
				seenWorms[id] = true
				d := idx.w.Descr(id)
				t.OppDots += d.Dots
				if idx.threatsContainingInterior(d.Leftmost) == 1 {
					t.SingularDots += d.Dots
				}
			}
		}
	}
	for _, p := range t.Encl.Border {
		id := idx.w.IDAt(p)
		if id == worm.NoID {
			continue
		}
		if d := idx.w.Descr(id); d != nil && d.Safety < 2 {
			t.BorderDanger++
		}
	}
}

// threatsContainingInterior counts this index's live threats whose
// enclosure interior contains p (spec §3: singular_dots sums the dots of
// worms whose leftmost point lies in exactly one of our threats).
func (idx *Index) threatsContainingInterior(p geom.Point) int {
	count := 0
	for _, id := range idx.byPoint[p] {
		t, ok := idx.threats[id]
		if !ok || t.Encl == nil {
			continue
		}
		for _, ip := range t.Encl.Interior {
			if ip == p {
				count++
				break
			}
		}
	}
	return count
}
