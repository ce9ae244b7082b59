package jsontree

// Role tags what a flattened row shows for its node.
type Role uint8

const (
	// RoleOpen is the opening delimiter row of an expanded container.
	RoleOpen Role = iota
	// RoleClose is the closing delimiter row of an expanded container.
	RoleClose
	// RoleScalar is a null/bool/number/string row.
	RoleScalar
	// RoleCollapsed is the single summary row of a collapsed container.
	RoleCollapsed
	// RoleEmpty is the single row of a childless container.
	RoleEmpty
)

// Line identifies one renderable row. Lines are computed on demand and
// never stored for the whole document.
type Line struct {
	Node  int
	Role  Role
	Depth int
	// Comma reports whether the row ends with a separating comma: set
	// when a later sibling follows, and always on a collapsed summary
	// row.
	Comma bool
}

// LineAt returns the row at global visible-line index i, descending
// through the count annotations so whole subtrees are skipped without
// being walked.
func (t *Tree) LineAt(i int) (Line, bool) {
	if i < 0 {
		return Line{}, false
	}
	for _, r := range t.roots {
		v := t.nodes[r].visible
		if i < v {
			return t.lineIn(r, i), true
		}
		i -= v
	}
	return Line{}, false
}

// trailingSibling reports whether a separating comma follows node n.
// Root-level values are independent blocks and never take one.
func (t *Tree) trailingSibling(n int) bool {
	return t.nodes[n].Parent != NoParent && t.nextSibling(n) != -1
}

func (t *Tree) lineIn(n, i int) Line {
	nd := &t.nodes[n]
	if !nd.Kind.IsContainer() {
		return Line{Node: n, Role: RoleScalar, Depth: nd.Depth, Comma: t.trailingSibling(n)}
	}
	if len(nd.Children) == 0 {
		if nd.visible == 2 {
			// Outer container still growing: row 0 opens, row 1 closes.
			if i == 0 {
				return Line{Node: n, Role: RoleOpen, Depth: nd.Depth, Comma: false}
			}
			return Line{Node: n, Role: RoleClose, Depth: nd.Depth, Comma: false}
		}
		return Line{Node: n, Role: RoleEmpty, Depth: nd.Depth, Comma: t.trailingSibling(n)}
	}
	if nd.Collapsed {
		// Summary rows keep a trailing comma even for the last member;
		// root-level blocks still take none.
		return Line{Node: n, Role: RoleCollapsed, Depth: nd.Depth, Comma: nd.Parent != NoParent}
	}
	if i == 0 {
		return Line{Node: n, Role: RoleOpen, Depth: nd.Depth, Comma: false}
	}
	i--
	for _, c := range nd.Children {
		v := t.nodes[c].visible
		if i < v {
			return t.lineIn(c, i)
		}
		i -= v
	}
	return Line{Node: n, Role: RoleClose, Depth: nd.Depth, Comma: t.trailingSibling(n)}
}

// AppendRange appends the rows for indexes [start, end) to dst with a
// single descent, walking forward instead of restarting per row.
func (t *Tree) AppendRange(dst []Line, start, end int) []Line {
	if start < 0 {
		start = 0
	}
	budget := end - start
	if budget <= 0 {
		return dst
	}
	skip := start
	for _, r := range t.roots {
		v := t.nodes[r].visible
		if skip >= v {
			skip -= v
			continue
		}
		dst, skip, budget = t.walk(dst, r, skip, budget)
		if budget == 0 {
			return dst
		}
	}
	return dst
}

// walk emits up to budget rows from the subtree at n after skipping
// skip rows inside it.
func (t *Tree) walk(dst []Line, n, skip, budget int) ([]Line, int, int) {
	nd := &t.nodes[n]
	emit := func(l Line) {
		dst = append(dst, l)
		budget--
	}
	single := !nd.Kind.IsContainer() || nd.Collapsed ||
		(len(nd.Children) == 0 && nd.visible == 1)
	if single {
		if skip > 0 {
			return dst, skip - 1, budget
		}
		emit(t.lineIn(n, 0))
		return dst, 0, budget
	}
	// Expanded container (or a growing one with its 2 delimiter rows).
	if skip == 0 {
		emit(Line{Node: n, Role: RoleOpen, Depth: nd.Depth})
		if budget == 0 {
			return dst, 0, 0
		}
	} else {
		skip--
	}
	for _, c := range nd.Children {
		v := t.nodes[c].visible
		if skip >= v {
			skip -= v
			continue
		}
		dst, skip, budget = t.walk(dst, c, skip, budget)
		if budget == 0 {
			return dst, 0, 0
		}
	}
	if skip > 0 {
		return dst, skip - 1, budget
	}
	emit(Line{Node: n, Role: RoleClose, Depth: nd.Depth, Comma: t.trailingSibling(n)})
	return dst, 0, budget
}

// NodeLines returns the global index of the first and last row the
// subtree at n currently occupies. ok is false when an ancestor is
// collapsed and n produces no rows at all.
func (t *Tree) NodeLines(n int) (first, last int, ok bool) {
	if !t.IsVisible(n) {
		return 0, 0, false
	}
	first = t.firstLine(n)
	return first, first + t.nodes[n].visible - 1, true
}

func (t *Tree) firstLine(n int) int {
	p := t.nodes[n].Parent
	if p == NoParent {
		off := 0
		for _, r := range t.roots {
			if r == n {
				break
			}
			off += t.nodes[r].visible
		}
		return off
	}
	off := t.firstLine(p) + 1
	for _, c := range t.nodes[p].Children {
		if c == n {
			break
		}
		off += t.nodes[c].visible
	}
	return off
}
