// Package sgf implements spec §6's transcript format: a single
// parenthesised record of semicolon-terminated nodes, the first holding
// setup properties and the rest one move each. Grounded on the teacher's
// internal/board/fen.go (field-by-field parsing into a struct, returning
// wrapped errors for every malformed field) and san.go (round-trip
// encode/decode symmetry), adapted from FEN's fixed six fields to SGF's
// free-form property list.
package sgf

import (
	"fmt"
	"strconv"
	"strings"
)

// SyntaxError reports a malformed transcript with a caret-style pointer;
// Parse rejects the whole record with it (spec §7 "Parse errors").
type SyntaxError struct {
	Input  string
	Offset int
	Why    string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("sgf: %s at offset %d\n%s\n%s^", e.Why, e.Offset, e.Input, strings.Repeat(" ", e.Offset))
}

// Prop is one bracketed property occurrence, e.g. AB[cc][dd].
type Prop struct {
	Key    string
	Values []string
}

// Node is one semicolon-terminated node: the setup node (first) or one
// move node (every node after).
type Node struct {
	Props []Prop
}

// Get returns the values of the first occurrence of key, or nil.
func (n Node) Get(key string) []string {
	for _, p := range n.Props {
		if p.Key == key {
			return p.Values
		}
	}
	return nil
}

// Has reports whether key occurs in n.
func (n Node) Has(key string) bool { return n.Get(key) != nil }

// Record is a full parsed transcript: "(" node ";" node ";" ... ")".
type Record struct {
	Nodes []Node
}

// Parse decodes a transcript string into a Record. It does not interpret
// property semantics (board size, move legality); see Apply for that.
func Parse(s string) (*Record, error) {
	p := &parser{s: s}
	return p.parseRecord()
}

type parser struct {
	s   string
	pos int
}

func (p *parser) errf(why string) error {
	return &SyntaxError{Input: p.s, Offset: p.pos, Why: why}
}

func (p *parser) peek() (byte, bool) {
	if p.pos >= len(p.s) {
		return 0, false
	}
	return p.s[p.pos], true
}

func (p *parser) skipSpace() {
	for {
		c, ok := p.peek()
		if !ok || !isSpace(c) {
			return
		}
		p.pos++
	}
}

func isSpace(c byte) bool { return c == ' ' || c == '\t' || c == '\n' || c == '\r' }

func (p *parser) parseRecord() (*Record, error) {
	p.skipSpace()
	c, ok := p.peek()
	if !ok || c != '(' {
		return nil, p.errf("expected '(' to start the record")
	}
	p.pos++

	rec := &Record{}
	for {
		p.skipSpace()
		c, ok := p.peek()
		if !ok {
			return nil, p.errf("unterminated record, expected ')'")
		}
		if c == ')' {
			p.pos++
			return rec, nil
		}
		if c != ';' {
			return nil, p.errf("expected ';' to start a node")
		}
		p.pos++
		node, err := p.parseNode()
		if err != nil {
			return nil, err
		}
		rec.Nodes = append(rec.Nodes, node)
	}
}

func (p *parser) parseNode() (Node, error) {
	var node Node
	for {
		p.skipSpace()
		c, ok := p.peek()
		if !ok || c == ';' || c == ')' {
			return node, nil
		}
		if !isUpper(c) {
			return node, p.errf("expected an uppercase property key")
		}
		start := p.pos
		for {
			c, ok := p.peek()
			if !ok || !isUpper(c) {
				break
			}
			p.pos++
		}
		key := p.s[start:p.pos]

		var values []string
		for {
			p.skipSpace()
			c, ok := p.peek()
			if !ok || c != '[' {
				break
			}
			p.pos++
			vstart := p.pos
			for {
				c, ok := p.peek()
				if !ok {
					return node, p.errf("unterminated property value, expected ']'")
				}
				if c == ']' {
					break
				}
				p.pos++
			}
			values = append(values, p.s[vstart:p.pos])
			p.pos++ // consume ']'
		}
		if values == nil {
			return node, p.errf(fmt.Sprintf("property %s has no value", key))
		}
		node.Props = append(node.Props, Prop{Key: key, Values: values})
	}
}

func isUpper(c byte) bool { return c >= 'A' && c <= 'Z' }

// Encode renders r back to transcript form on a single line, writing every
// property of each node in order, matching the compact form Parse accepts.
func (r *Record) Encode() string {
	var sb strings.Builder
	sb.WriteByte('(')
	for _, n := range r.Nodes {
		sb.WriteByte(';')
		for _, p := range n.Props {
			sb.WriteString(p.Key)
			for _, v := range p.Values {
				sb.WriteByte('[')
				sb.WriteString(v)
				sb.WriteByte(']')
			}
		}
	}
	sb.WriteByte(')')
	return sb.String()
}

// ParseSize decodes an SZ[n] or SZ[w:h] value into width, height.
func ParseSize(v string) (w, h int, err error) {
	if i := strings.IndexByte(v, ':'); i >= 0 {
		w, err = strconv.Atoi(v[:i])
		if err != nil {
			return 0, 0, fmt.Errorf("sgf: bad SZ width %q: %w", v, err)
		}
		h, err = strconv.Atoi(v[i+1:])
		if err != nil {
			return 0, 0, fmt.Errorf("sgf: bad SZ height %q: %w", v, err)
		}
		return w, h, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, 0, fmt.Errorf("sgf: bad SZ value %q: %w", v, err)
	}
	return n, n, nil
}

// EncodeSize is ParseSize's inverse.
func EncodeSize(w, h int) string {
	if w == h {
		return strconv.Itoa(w)
	}
	return fmt.Sprintf("%d:%d", w, h)
}

// ParseMoveValue splits a B[...]/W[...] value into its coordinate and the
// optional trailing `.<border-pts>` captures and `!<pt>` forced-enclosure
// marker (spec §6).
func ParseMoveValue(v string) (coord string, borderPts []string, forcedPt string) {
	if i := strings.IndexByte(v, '!'); i >= 0 {
		forcedPt = v[i+1:]
		v = v[:i]
	}
	parts := strings.Split(v, ".")
	coord = parts[0]
	borderPts = parts[1:]
	return coord, borderPts, forcedPt
}

// EncodeMoveValue is ParseMoveValue's inverse.
func EncodeMoveValue(coord string, borderPts []string, forcedPt string) string {
	var sb strings.Builder
	sb.WriteString(coord)
	for _, b := range borderPts {
		sb.WriteByte('.')
		sb.WriteString(b)
	}
	if forcedPt != "" {
		sb.WriteByte('!')
		sb.WriteString(forcedPt)
	}
	return sb.String()
}
