package jsontree

// Mutation of collapse flags and visible-line counts lives here. All
// methods assume a single writer; the interactive loop is the only
// caller once parsing has finished.

// bubble adds delta to the visible count of p and every expanded
// ancestor above it. It stops at the first collapsed ancestor: a
// collapsed subtree contributes a fixed single row, so counts above it
// are unaffected.
func (t *Tree) bubble(p, delta int) {
	for ; p != NoParent; p = t.nodes[p].Parent {
		if t.nodes[p].Collapsed {
			return
		}
		t.nodes[p].visible += delta
	}
}

// subtreeLines returns the row count node n should report given its
// current flag and its children's counts.
func (t *Tree) subtreeLines(n int) int {
	nd := &t.nodes[n]
	if !nd.Kind.IsContainer() || len(nd.Children) == 0 {
		if nd.Kind.IsContainer() && t.growing && n == t.growTop {
			return 2
		}
		return 1
	}
	if nd.Collapsed {
		return 1
	}
	sum := 0
	for _, c := range nd.Children {
		sum += t.nodes[c].visible
	}
	return 2 + sum
}

// Toggle flips the collapse flag of container n and updates counts in
// O(depth). Toggling a scalar or an empty container is a no-op.
func (t *Tree) Toggle(n int) {
	nd := &t.nodes[n]
	if !nd.Kind.IsContainer() || len(nd.Children) == 0 {
		return
	}
	t.setCollapsed(n, !nd.Collapsed)
}

// Expand ensures container n is expanded; Collapse ensures it is
// collapsed. Both are no-ops when already in the requested state or
// when n cannot collapse.
func (t *Tree) Expand(n int)   { t.setOne(n, false) }
func (t *Tree) Collapse(n int) { t.setOne(n, true) }

func (t *Tree) setOne(n int, collapsed bool) {
	nd := &t.nodes[n]
	if !nd.Kind.IsContainer() || len(nd.Children) == 0 || nd.Collapsed == collapsed {
		return
	}
	t.setCollapsed(n, collapsed)
}

func (t *Tree) setCollapsed(n int, collapsed bool) {
	old := t.nodes[n].visible
	t.nodes[n].Collapsed = collapsed
	t.nodes[n].visible = t.subtreeLines(n)
	if delta := t.nodes[n].visible - old; delta != 0 {
		t.bubble(t.nodes[n].Parent, delta)
	}
}

// SetSubtree applies one collapse flag to container n and every
// container below it, then repairs counts for n and its ancestors.
// This backs the recursive expand/collapse operations on the focused
// node.
func (t *Tree) SetSubtree(n int, collapsed bool) {
	old := t.nodes[n].visible
	t.applyDown(n, collapsed)
	t.recomputeUp(n)
	if delta := t.nodes[n].visible - old; delta != 0 {
		t.bubble(t.nodes[n].Parent, delta)
	}
}

func (t *Tree) applyDown(n int, collapsed bool) {
	nd := &t.nodes[n]
	if !nd.Kind.IsContainer() {
		return
	}
	if len(nd.Children) > 0 {
		nd.Collapsed = collapsed
	}
	for _, c := range nd.Children {
		t.applyDown(c, collapsed)
	}
}

// recomputeUp rebuilds visible counts bottom-up for the subtree at n.
func (t *Tree) recomputeUp(n int) {
	for _, c := range t.nodes[n].Children {
		t.recomputeUp(c)
	}
	t.nodes[n].visible = t.subtreeLines(n)
}

// SetAll applies a depth policy over the whole document in one pass:
// containers at depth >= maxDepth collapse, the rest expand. SetAll(0)
// collapses everything; ExpandAll reopens everything.
func (t *Tree) SetAll(maxDepth int) {
	for i := range t.nodes {
		nd := &t.nodes[i]
		if nd.Kind.IsContainer() && len(nd.Children) > 0 {
			nd.Collapsed = nd.Depth >= maxDepth
		}
	}
	t.recomputeAll()
}

// ExpandAll clears every collapse flag.
func (t *Tree) ExpandAll() {
	for i := range t.nodes {
		t.nodes[i].Collapsed = false
	}
	t.recomputeAll()
}

// recomputeAll rebuilds every count in a single bottom-up sweep.
// Children always sit at higher arena indices than their parents, so a
// reverse scan visits each subtree after its descendants.
func (t *Tree) recomputeAll() {
	for i := len(t.nodes) - 1; i >= 0; i-- {
		t.nodes[i].visible = t.subtreeLines(i)
	}
}

// ExpandPath expands every collapsed ancestor of n so that n becomes
// visible. Used when search selects a match inside a collapsed
// subtree.
func (t *Tree) ExpandPath(n int) {
	for p := t.nodes[n].Parent; p != NoParent; p = t.nodes[p].Parent {
		if t.nodes[p].Collapsed {
			t.setCollapsed(p, false)
		}
	}
}

// Growing-tree plumbing. OpenContainer/Graft/CloseContainer are called
// by whichever goroutine owns the tree while it is being built; once
// EndGrow runs, the interactive loop is the sole owner.

// BeginGrow marks the tree as still receiving parsed values.
func (t *Tree) BeginGrow() { t.growing = true }

// EndGrow marks parsing as finished.
func (t *Tree) EndGrow() { t.growing = false }

// OpenContainer starts the outermost container of a standard-mode
// document before its members have parsed. While open it renders as
// its opening and closing delimiter rows.
func (t *Tree) OpenContainer(kind Kind) int {
	depth := 0
	if t.growTop != NoParent {
		depth = t.nodes[t.growTop].Depth + 1
	}
	idx := len(t.nodes)
	t.nodes = append(t.nodes, Node{Kind: kind, Parent: t.growTop, Depth: depth, visible: 2})
	t.attach(idx, 2)
	t.growTop = idx
	return idx
}

// CloseContainer finishes the container opened by OpenContainer. An
// outer container that ended up empty shrinks to its single `{}` row.
func (t *Tree) CloseContainer() {
	c := t.growTop
	if c == NoParent {
		return
	}
	t.growTop = t.nodes[c].Parent
	if len(t.nodes[c].Children) == 0 {
		old := t.nodes[c].visible
		t.nodes[c].visible = 1
		t.bubble(t.nodes[c].Parent, 1-old)
	}
}

// Graft appends a completed value to the grow point. nodes is
// self-contained: index 0 is the value's root, links are relative.
// Returns the arena index of the grafted root.
func (t *Tree) Graft(nodes []Node, key string, hasKey bool) int {
	base := len(t.nodes)
	depth := 0
	if t.growTop != NoParent {
		depth = t.nodes[t.growTop].Depth + 1
	}
	for _, n := range nodes {
		if n.Parent != NoParent {
			n.Parent += base
		}
		n.Depth += depth
		if len(n.Children) > 0 {
			kids := make([]int, len(n.Children))
			for i, c := range n.Children {
				kids[i] = c + base
			}
			n.Children = kids
		}
		t.nodes = append(t.nodes, n)
	}
	t.nodes[base].Parent = t.growTop
	t.nodes[base].Key = key
	t.nodes[base].HasKey = hasKey
	t.attach(base, t.nodes[base].visible)
	return base
}

// attach registers a new child of the grow point and credits its rows
// to the ancestor chain.
func (t *Tree) attach(idx, lines int) {
	if t.growTop == NoParent {
		t.roots = append(t.roots, idx)
		return
	}
	t.nodes[t.growTop].Children = append(t.nodes[t.growTop].Children, idx)
	t.bubble(t.growTop, lines)
}
