package jsontree

import (
	"fmt"
	"strings"
	"unicode/utf16"
	"unicode/utf8"
)

// ParseError reports a syntax error with its source position.
type ParseError struct {
	Line   int
	Column int
	Msg    string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse error at line %d, column %d: %s", e.Line, e.Column, e.Msg)
}

// Parse consumes src and returns the document tree. On error the
// returned tree holds whatever top-level values parsed before the
// failure, which may still be worth displaying.
func Parse(src []byte, mode Mode) (*Tree, error) {
	t := NewTree(mode)
	err := parseDocument(src, mode, treeSink{t})
	return t, err
}

// sink receives the top-level decomposition of a document: the opening
// of the outermost container (standard mode only), one call per
// completed value, and the outer close. A sink error aborts the parse;
// the streaming sink uses that for cancellation.
type sink interface {
	Open(kind Kind) error
	Value(nodes []Node, key string, hasKey bool) error
	Close() error
}

type treeSink struct{ t *Tree }

func (s treeSink) Open(kind Kind) error { s.t.OpenContainer(kind); return nil }
func (s treeSink) Value(nodes []Node, key string, hasKey bool) error {
	s.t.Graft(nodes, key, hasKey)
	return nil
}
func (s treeSink) Close() error { s.t.CloseContainer(); return nil }

func parseDocument(src []byte, mode Mode, out sink) error {
	p := &parser{src: src, line: 1}
	if mode == ModeLines {
		return p.parseLines(out)
	}
	p.skipSpace()
	if p.eof() {
		return p.errf("empty input")
	}
	switch p.peek() {
	case '{':
		if err := p.parseOuterObject(out); err != nil {
			return err
		}
	case '[':
		if err := p.parseOuterArray(out); err != nil {
			return err
		}
	default:
		var b builder
		if _, err := p.parseValue(&b, NoParent, 0); err != nil {
			return err
		}
		if err := out.Value(b.nodes, "", false); err != nil {
			return err
		}
	}
	p.skipSpace()
	if !p.eof() {
		return p.errf("trailing data after top-level value")
	}
	return nil
}

func (p *parser) parseLines(out sink) error {
	for {
		p.skipSpace()
		if p.eof() {
			return nil
		}
		var b builder
		if _, err := p.parseValue(&b, NoParent, 0); err != nil {
			return err
		}
		if err := out.Value(b.nodes, "", false); err != nil {
			return err
		}
	}
}

// parseOuterObject streams the members of the outermost object so a
// partially parsed document can already be rendered.
func (p *parser) parseOuterObject(out sink) error {
	p.pos++
	if err := out.Open(KindObject); err != nil {
		return err
	}
	p.skipSpace()
	if !p.eof() && p.peek() == '}' {
		p.pos++
		return out.Close()
	}
	for {
		p.skipSpace()
		key, err := p.parseKey()
		if err != nil {
			return err
		}
		var b builder
		if _, err := p.parseValue(&b, NoParent, 0); err != nil {
			return err
		}
		if err := out.Value(b.nodes, key, true); err != nil {
			return err
		}
		p.skipSpace()
		if p.eof() {
			return p.errf("unexpected end of input in object")
		}
		switch p.peek() {
		case ',':
			p.pos++
		case '}':
			p.pos++
			return out.Close()
		default:
			return p.errf("expected ',' or '}' in object")
		}
	}
}

func (p *parser) parseOuterArray(out sink) error {
	p.pos++
	if err := out.Open(KindArray); err != nil {
		return err
	}
	p.skipSpace()
	if !p.eof() && p.peek() == ']' {
		p.pos++
		return out.Close()
	}
	for {
		var b builder
		if _, err := p.parseValue(&b, NoParent, 0); err != nil {
			return err
		}
		if err := out.Value(b.nodes, "", false); err != nil {
			return err
		}
		p.skipSpace()
		if p.eof() {
			return p.errf("unexpected end of input in array")
		}
		switch p.peek() {
		case ',':
			p.pos++
			p.skipSpace()
		case ']':
			p.pos++
			return out.Close()
		default:
			return p.errf("expected ',' or ']' in array")
		}
	}
}

type parser struct {
	src       []byte
	pos       int
	line      int
	lineStart int // byte offset where the current line begins
}

// builder accumulates one self-contained value: node 0 is the value's
// root, parent and child links are indices into nodes.
type builder struct {
	nodes []Node
}

func (b *builder) add(n Node) int {
	b.nodes = append(b.nodes, n)
	return len(b.nodes) - 1
}

func (p *parser) eof() bool   { return p.pos >= len(p.src) }
func (p *parser) peek() byte  { return p.src[p.pos] }

// errf builds a ParseError at the current position. Column counts
// runes, so multibyte text earlier on the line does not skew it.
func (p *parser) errf(format string, args ...any) error {
	col := utf8.RuneCount(p.src[p.lineStart:p.pos]) + 1
	return &ParseError{Line: p.line, Column: col, Msg: fmt.Sprintf(format, args...)}
}

func (p *parser) skipSpace() {
	for p.pos < len(p.src) {
		switch p.src[p.pos] {
		case ' ', '\t', '\r':
			p.pos++
		case '\n':
			p.pos++
			p.line++
			p.lineStart = p.pos
		default:
			return
		}
	}
}

func (p *parser) parseValue(b *builder, parent, depth int) (int, error) {
	p.skipSpace()
	if p.eof() {
		return 0, p.errf("unexpected end of input")
	}
	switch c := p.peek(); {
	case c == '{':
		return p.parseObject(b, parent, depth)
	case c == '[':
		return p.parseArray(b, parent, depth)
	case c == '"':
		raw, str, err := p.parseString()
		if err != nil {
			return 0, err
		}
		return b.add(Node{Kind: KindString, Parent: parent, Depth: depth, Raw: raw, Str: str, visible: 1}), nil
	case c == '-' || (c >= '0' && c <= '9'):
		raw, err := p.parseNumber()
		if err != nil {
			return 0, err
		}
		return b.add(Node{Kind: KindNumber, Parent: parent, Depth: depth, Raw: raw, visible: 1}), nil
	case c == 't':
		if err := p.literal("true"); err != nil {
			return 0, err
		}
		return b.add(Node{Kind: KindBool, Parent: parent, Depth: depth, Raw: "true", visible: 1}), nil
	case c == 'f':
		if err := p.literal("false"); err != nil {
			return 0, err
		}
		return b.add(Node{Kind: KindBool, Parent: parent, Depth: depth, Raw: "false", visible: 1}), nil
	case c == 'n':
		if err := p.literal("null"); err != nil {
			return 0, err
		}
		return b.add(Node{Kind: KindNull, Parent: parent, Depth: depth, Raw: "null", visible: 1}), nil
	default:
		return 0, p.errf("unexpected character %q", c)
	}
}

func (p *parser) parseObject(b *builder, parent, depth int) (int, error) {
	p.pos++
	idx := b.add(Node{Kind: KindObject, Parent: parent, Depth: depth})
	p.skipSpace()
	if !p.eof() && p.peek() == '}' {
		p.pos++
		b.nodes[idx].visible = 1
		return idx, nil
	}
	for {
		p.skipSpace()
		key, err := p.parseKey()
		if err != nil {
			return 0, err
		}
		child, err := p.parseValue(b, idx, depth+1)
		if err != nil {
			return 0, err
		}
		b.nodes[child].Key = key
		b.nodes[child].HasKey = true
		b.nodes[idx].Children = append(b.nodes[idx].Children, child)
		p.skipSpace()
		if p.eof() {
			return 0, p.errf("unexpected end of input in object")
		}
		switch p.peek() {
		case ',':
			p.pos++
		case '}':
			p.pos++
			b.nodes[idx].visible = containerLines(len(b.nodes[idx].Children), b.childSum(idx))
			return idx, nil
		default:
			return 0, p.errf("expected ',' or '}' in object")
		}
	}
}

func (p *parser) parseArray(b *builder, parent, depth int) (int, error) {
	p.pos++
	idx := b.add(Node{Kind: KindArray, Parent: parent, Depth: depth})
	p.skipSpace()
	if !p.eof() && p.peek() == ']' {
		p.pos++
		b.nodes[idx].visible = 1
		return idx, nil
	}
	for {
		child, err := p.parseValue(b, idx, depth+1)
		if err != nil {
			return 0, err
		}
		b.nodes[idx].Children = append(b.nodes[idx].Children, child)
		p.skipSpace()
		if p.eof() {
			return 0, p.errf("unexpected end of input in array")
		}
		switch p.peek() {
		case ',':
			p.pos++
		case ']':
			p.pos++
			b.nodes[idx].visible = containerLines(len(b.nodes[idx].Children), b.childSum(idx))
			return idx, nil
		default:
			return 0, p.errf("expected ',' or ']' in array")
		}
	}
}

func (b *builder) childSum(idx int) int {
	sum := 0
	for _, c := range b.nodes[idx].Children {
		sum += b.nodes[c].visible
	}
	return sum
}

func containerLines(childCount, childSum int) int {
	if childCount == 0 {
		return 1
	}
	return 2 + childSum
}

// parseKey parses an object key and its ':' separator, returning the
// source form of the key without quotes.
func (p *parser) parseKey() (string, error) {
	if p.eof() || p.peek() != '"' {
		return "", p.errf("expected object key")
	}
	raw, _, err := p.parseString()
	if err != nil {
		return "", err
	}
	p.skipSpace()
	if p.eof() || p.peek() != ':' {
		return "", p.errf("expected ':' after object key")
	}
	p.pos++
	return raw[1 : len(raw)-1], nil
}

// parseString returns the raw source slice (quotes included) and the
// unescaped value.
func (p *parser) parseString() (raw, str string, err error) {
	start := p.pos
	p.pos++ // opening quote
	escaped := false
	for {
		if p.eof() {
			return "", "", p.errf("unterminated string")
		}
		c := p.peek()
		if c == '\n' {
			return "", "", p.errf("newline in string")
		}
		p.pos++
		if c == '"' {
			break
		}
		if c == '\\' {
			escaped = true
			if p.eof() {
				return "", "", p.errf("unterminated string")
			}
			e := p.peek()
			p.pos++
			switch e {
			case '"', '\\', '/', 'b', 'f', 'n', 'r', 't':
			case 'u':
				for i := 0; i < 4; i++ {
					if p.eof() || !isHex(p.peek()) {
						return "", "", p.errf("invalid \\u escape")
					}
					p.pos++
				}
			default:
				return "", "", p.errf("invalid escape \\%c", e)
			}
		}
	}
	raw = string(p.src[start:p.pos])
	if !escaped {
		return raw, raw[1 : len(raw)-1], nil
	}
	str, uerr := unescape(raw[1 : len(raw)-1])
	if uerr != nil {
		return "", "", p.errf("%s", uerr)
	}
	return raw, str, nil
}

func (p *parser) parseNumber() (string, error) {
	start := p.pos
	if p.peek() == '-' {
		p.pos++
	}
	digits := func() int {
		n := 0
		for !p.eof() && p.peek() >= '0' && p.peek() <= '9' {
			p.pos++
			n++
		}
		return n
	}
	if p.eof() {
		return "", p.errf("malformed number")
	}
	if p.peek() == '0' {
		p.pos++
	} else if digits() == 0 {
		return "", p.errf("malformed number")
	}
	if !p.eof() && p.peek() == '.' {
		p.pos++
		if digits() == 0 {
			return "", p.errf("malformed number: missing fraction digits")
		}
	}
	if !p.eof() && (p.peek() == 'e' || p.peek() == 'E') {
		p.pos++
		if !p.eof() && (p.peek() == '+' || p.peek() == '-') {
			p.pos++
		}
		if digits() == 0 {
			return "", p.errf("malformed number: missing exponent digits")
		}
	}
	return string(p.src[start:p.pos]), nil
}

func (p *parser) literal(lit string) error {
	if p.pos+len(lit) > len(p.src) || string(p.src[p.pos:p.pos+len(lit)]) != lit {
		return p.errf("invalid literal")
	}
	p.pos += len(lit)
	return nil
}

func isHex(c byte) bool {
	return c >= '0' && c <= '9' || c >= 'a' && c <= 'f' || c >= 'A' && c <= 'F'
}

// unescape decodes JSON string escapes. The input has already been
// validated structurally by parseString.
func unescape(s string) (string, error) {
	if !strings.ContainsRune(s, '\\') {
		return s, nil
	}
	var sb strings.Builder
	sb.Grow(len(s))
	for i := 0; i < len(s); {
		c := s[i]
		if c != '\\' {
			sb.WriteByte(c)
			i++
			continue
		}
		i++
		switch s[i] {
		case '"':
			sb.WriteByte('"')
		case '\\':
			sb.WriteByte('\\')
		case '/':
			sb.WriteByte('/')
		case 'b':
			sb.WriteByte('\b')
		case 'f':
			sb.WriteByte('\f')
		case 'n':
			sb.WriteByte('\n')
		case 'r':
			sb.WriteByte('\r')
		case 't':
			sb.WriteByte('\t')
		case 'u':
			r, size, err := decodeUnicodeEscape(s[i-1:])
			if err != nil {
				return "", err
			}
			sb.WriteRune(r)
			i += size - 2 // the leading `\u` is accounted for below
		}
		i++
	}
	return sb.String(), nil
}

// decodeUnicodeEscape decodes `\uXXXX`, pairing surrogates when a
// second escape follows. size is the total bytes consumed including
// the backslash.
func decodeUnicodeEscape(s string) (r rune, size int, err error) {
	u, err := hex4(s[2:6])
	if err != nil {
		return 0, 0, err
	}
	r = rune(u)
	size = 6
	if utf16.IsSurrogate(r) {
		if len(s) >= 12 && s[6] == '\\' && s[7] == 'u' {
			u2, err := hex4(s[8:12])
			if err != nil {
				return 0, 0, err
			}
			if combined := utf16.DecodeRune(r, rune(u2)); combined != utf8.RuneError {
				return combined, 12, nil
			}
		}
		r = utf8.RuneError
	}
	return r, size, nil
}

func hex4(s string) (uint16, error) {
	var v uint16
	for i := 0; i < 4; i++ {
		c := s[i]
		v <<= 4
		switch {
		case c >= '0' && c <= '9':
			v |= uint16(c - '0')
		case c >= 'a' && c <= 'f':
			v |= uint16(c-'a') + 10
		case c >= 'A' && c <= 'F':
			v |= uint16(c-'A') + 10
		default:
			return 0, fmt.Errorf("invalid hex digit %q", c)
		}
	}
	return v, nil
}
