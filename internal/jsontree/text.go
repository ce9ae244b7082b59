package jsontree

import (
	"strconv"
	"strings"
)

// LineText renders the plain text of a row, without indentation:
// `{`, `"a": 1,`, `"b": [...],` and so on. The renderer styles and
// indents; this form also backs tests and scalar search.
func (t *Tree) LineText(l Line) string {
	nd := &t.nodes[l.Node]
	var sb strings.Builder
	if l.Role != RoleClose && nd.HasKey {
		sb.WriteByte('"')
		sb.WriteString(nd.Key)
		sb.WriteString(`": `)
	}
	switch l.Role {
	case RoleOpen:
		sb.WriteByte(openDelim(nd.Kind))
	case RoleClose:
		sb.WriteByte(closeDelim(nd.Kind))
	case RoleScalar:
		sb.WriteString(nd.Raw)
	case RoleCollapsed:
		sb.WriteString(collapsedSummary(nd.Kind))
	case RoleEmpty:
		sb.WriteByte(openDelim(nd.Kind))
		sb.WriteByte(closeDelim(nd.Kind))
	}
	if l.Comma {
		sb.WriteByte(',')
	}
	return sb.String()
}

func openDelim(k Kind) byte {
	if k == KindObject {
		return '{'
	}
	return '['
}

func closeDelim(k Kind) byte {
	if k == KindObject {
		return '}'
	}
	return ']'
}

func collapsedSummary(k Kind) string {
	if k == KindObject {
		return "{...}"
	}
	return "[...]"
}

// ScalarText is the display text of a scalar node's value, and the
// text the search engine scans. Strings keep their quotes and original
// escapes.
func (t *Tree) ScalarText(n int) string { return t.nodes[n].Raw }

// ValueText serializes the subtree at n as pretty-printed text,
// ignoring collapse state. Scalars are emitted verbatim from their
// source slices so numbers and string escapes survive the round trip.
func (t *Tree) ValueText(n int) string {
	var sb strings.Builder
	t.writeValue(&sb, n, 0)
	return sb.String()
}

func (t *Tree) writeValue(sb *strings.Builder, n, indent int) {
	nd := &t.nodes[n]
	if !nd.Kind.IsContainer() {
		sb.WriteString(nd.Raw)
		return
	}
	if len(nd.Children) == 0 {
		sb.WriteByte(openDelim(nd.Kind))
		sb.WriteByte(closeDelim(nd.Kind))
		return
	}
	sb.WriteByte(openDelim(nd.Kind))
	sb.WriteByte('\n')
	for i, c := range nd.Children {
		for j := 0; j < (indent+1)*2; j++ {
			sb.WriteByte(' ')
		}
		child := &t.nodes[c]
		if child.HasKey {
			sb.WriteByte('"')
			sb.WriteString(child.Key)
			sb.WriteString(`": `)
		}
		t.writeValue(sb, c, indent+1)
		if i < len(nd.Children)-1 {
			sb.WriteByte(',')
		}
		sb.WriteByte('\n')
	}
	for j := 0; j < indent*2; j++ {
		sb.WriteByte(' ')
	}
	sb.WriteByte(closeDelim(nd.Kind))
}

// PathText renders the access path of node n from the document root,
// e.g. `.items[3].name`. In line-delimited mode the synthetic
// top-level array contributes the leading index. The document root
// itself is `.`.
func (t *Tree) PathText(n int) string {
	var parts []string
	for n != -1 {
		nd := &t.nodes[n]
		p := nd.Parent
		switch {
		case nd.HasKey:
			parts = append(parts, keyPathSegment(nd.Key))
		case p != NoParent && t.nodes[p].Kind == KindArray:
			parts = append(parts, "["+strconv.Itoa(t.childIndex(p, n))+"]")
		case p == NoParent && t.mode == ModeLines:
			parts = append(parts, "["+strconv.Itoa(t.rootIndex(n))+"]")
		}
		n = p
	}
	if len(parts) == 0 {
		return "."
	}
	var sb strings.Builder
	for i := len(parts) - 1; i >= 0; i-- {
		sb.WriteString(parts[i])
	}
	return sb.String()
}

func keyPathSegment(key string) string {
	if isIdentKey(key) {
		return "." + key
	}
	return `["` + key + `"]`
}

func isIdentKey(key string) bool {
	if key == "" {
		return false
	}
	for i, r := range key {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r == '_':
		case r >= '0' && r <= '9':
			if i == 0 {
				return false
			}
		default:
			return false
		}
	}
	return true
}

func (t *Tree) childIndex(parent, n int) int {
	for i, c := range t.nodes[parent].Children {
		if c == n {
			return i
		}
	}
	return -1
}

func (t *Tree) rootIndex(n int) int {
	for i, r := range t.roots {
		if r == n {
			return i
		}
	}
	return -1
}
