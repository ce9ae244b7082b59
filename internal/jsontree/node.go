package jsontree

// Kind identifies the variant stored in a Node.
type Kind uint8

const (
	KindNull Kind = iota
	KindBool
	KindNumber
	KindString
	KindObject
	KindArray
)

func (k Kind) IsContainer() bool {
	return k == KindObject || k == KindArray
}

func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBool:
		return "bool"
	case KindNumber:
		return "number"
	case KindString:
		return "string"
	case KindObject:
		return "object"
	case KindArray:
		return "array"
	}
	return "invalid"
}

// NoParent marks a root-level node.
const NoParent = -1

// Node is one arena entry. Value content is immutable after parsing;
// only Collapsed and the visible-line count change afterwards, and only
// through the Tree's mutation methods.
type Node struct {
	Kind   Kind
	Parent int
	Depth  int

	// Key is the object key this node sits under, in source form
	// (escapes preserved, quotes stripped). Empty keys are legal, so
	// HasKey distinguishes "no key" from `"": ...`.
	Key    string
	HasKey bool

	// Raw is the original source text of a scalar: numbers keep their
	// exact formatting, strings keep their quotes and escapes, bools
	// and null keep their literal.
	Raw string
	// Str is the unescaped value of a string node.
	Str string

	Children  []int
	Collapsed bool

	// visible is the number of rows this subtree currently contributes:
	// 1 for scalars, empty containers and collapsed containers,
	// 2 + sum(children) for an expanded container.
	visible int
}

// Mode selects the accepted input grammar.
type Mode int

const (
	// ModeJSON parses a single top-level value.
	ModeJSON Mode = iota
	// ModeLines parses newline-delimited top-level values, each one
	// becoming an element of a synthetic top-level array.
	ModeLines
)

// Tree is the parsed document: an arena of nodes addressed by index.
// The arena owns every node; parent and child links are plain indices.
// A Tree is written by exactly one goroutine at a time.
type Tree struct {
	nodes []Node
	roots []int
	mode  Mode

	// growing is set while a background parse is still appending
	// top-level values; growTop is the container receiving them
	// (NoParent when values attach to the virtual root).
	growing bool
	growTop int
}

// NewTree returns an empty tree that values can be grafted onto.
func NewTree(mode Mode) *Tree {
	return &Tree{mode: mode, growTop: NoParent}
}

func (t *Tree) Mode() Mode    { return t.mode }
func (t *Tree) Len() int      { return len(t.nodes) }
func (t *Tree) Roots() []int  { return t.roots }
func (t *Tree) Growing() bool { return t.growing }

// Node returns the arena entry at index n. The pointer stays valid only
// until the next graft, which may reallocate the arena.
func (t *Tree) Node(n int) *Node { return &t.nodes[n] }

// TotalLines is the number of rows the whole document currently
// occupies in its flattened form.
func (t *Tree) TotalLines() int {
	total := 0
	for _, r := range t.roots {
		total += t.nodes[r].visible
	}
	return total
}

// VisibleLines reports how many rows the subtree rooted at n
// contributes to its parent when no ancestor is collapsed.
func (t *Tree) VisibleLines(n int) int { return t.nodes[n].visible }

// IsVisible reports whether node n itself produces at least one row,
// i.e. no ancestor of n is collapsed.
func (t *Tree) IsVisible(n int) bool {
	for p := t.nodes[n].Parent; p != NoParent; p = t.nodes[p].Parent {
		if t.nodes[p].Collapsed {
			return false
		}
	}
	return true
}

// nextSibling returns the index of the sibling following n under its
// parent, or -1. Root-level nodes are siblings of each other.
func (t *Tree) nextSibling(n int) int {
	return t.siblingAt(n, 1)
}

func (t *Tree) prevSibling(n int) int {
	return t.siblingAt(n, -1)
}

func (t *Tree) siblingAt(n, delta int) int {
	sibs := t.roots
	if p := t.nodes[n].Parent; p != NoParent {
		sibs = t.nodes[p].Children
	}
	for i, s := range sibs {
		if s == n {
			j := i + delta
			if j < 0 || j >= len(sibs) {
				return -1
			}
			return sibs[j]
		}
	}
	return -1
}

// Sibling returns the node delta positions away from n at the same
// depth under the same parent, clamped to the first/last sibling.
func (t *Tree) Sibling(n, delta int) int {
	for delta > 0 {
		s := t.nextSibling(n)
		if s == -1 {
			break
		}
		n = s
		delta--
	}
	for delta < 0 {
		s := t.prevSibling(n)
		if s == -1 {
			break
		}
		n = s
		delta++
	}
	return n
}
