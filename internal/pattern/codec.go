package pattern

import "encoding/gob"
import "bytes"

// gobTables is the serialisable shape of Tables — exported maps so gob can
// walk them directly, since Tables itself keeps patt3/patt3Symm unexported
// to stop callers mutating the compiled asset in place.
type gobTables struct {
	Patt3     map[Code][2]int
	Patt3Symm map[Code]int
}

// MarshalBinary encodes t for the pattern-table cache (internal/storage,
// spec Part C: "compiled pattern tables as static assets").
func (t *Tables) MarshalBinary() ([]byte, error) {
	var buf bytes.Buffer
	g := gobTables{Patt3: t.patt3, Patt3Symm: t.patt3Symm}
	if err := gob.NewEncoder(&buf).Encode(g); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// UnmarshalBinary decodes data produced by MarshalBinary into t in place.
func (t *Tables) UnmarshalBinary(data []byte) error {
	var g gobTables
	if err := gob.NewDecoder(bytes.NewReader(data)).Decode(&g); err != nil {
		return err
	}
	t.patt3 = g.Patt3
	t.patt3Symm = g.Patt3Symm
	return nil
}
