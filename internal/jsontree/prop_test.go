package jsontree

import (
	"strings"
	"testing"

	"pgregory.net/rapid"
)

// genValue emits a random JSON source text with bounded depth.
func genValue(t *rapid.T, depth int) string {
	max := 5
	if depth >= 3 {
		max = 2 // scalars only once deep enough
	}
	switch rapid.IntRange(0, max).Draw(t, "variant") {
	case 0:
		return rapid.SampledFrom([]string{"null", "true", "false"}).Draw(t, "lit")
	case 1:
		return rapid.SampledFrom([]string{"0", "-1", "3.14", "1e9", "2.5E-3"}).Draw(t, "num")
	case 2:
		s := rapid.StringMatching(`[a-z]{0,6}`).Draw(t, "str")
		return `"` + s + `"`
	case 3:
		n := rapid.IntRange(0, 4).Draw(t, "arrlen")
		elems := make([]string, n)
		for i := range elems {
			elems[i] = genValue(t, depth+1)
		}
		return "[" + strings.Join(elems, ",") + "]"
	default:
		n := rapid.IntRange(0, 4).Draw(t, "objlen")
		members := make([]string, n)
		for i := range members {
			key := rapid.StringMatching(`[a-z]{0,4}`).Draw(t, "key")
			members[i] = `"` + key + `": ` + genValue(t, depth+1)
		}
		return "{" + strings.Join(members, ",") + "}"
	}
}

func containers(tree *Tree) []int {
	var cs []int
	for i := 0; i < tree.Len(); i++ {
		n := tree.Node(i)
		if n.Kind.IsContainer() && len(n.Children) > 0 {
			cs = append(cs, i)
		}
	}
	return cs
}

// The count annotation must always agree with the rows the flattener
// actually produces, under any interleaving of toggles.
func TestPropCountsMatchFlatten(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		src := genValue(t, 0)
		tree, err := Parse([]byte(src), ModeJSON)
		if err != nil {
			t.Fatalf("parse %q: %v", src, err)
		}
		cs := containers(tree)
		steps := rapid.IntRange(0, 12).Draw(t, "steps")
		for i := 0; i < steps; i++ {
			if len(cs) == 0 {
				break
			}
			tree.Toggle(rapid.SampledFrom(cs).Draw(t, "target"))
		}

		total := tree.TotalLines()
		lines := tree.AppendRange(nil, 0, total)
		if len(lines) != total {
			t.Fatalf("flatten produced %d rows, counts say %d", len(lines), total)
		}
		for i, l := range lines {
			got, ok := tree.LineAt(i)
			if !ok || got != l {
				t.Fatalf("LineAt(%d) = %+v ok=%v, range gave %+v", i, got, ok, l)
			}
		}
	})
}

func TestPropToggleRoundTrip(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		src := genValue(t, 0)
		tree, err := Parse([]byte(src), ModeJSON)
		if err != nil {
			t.Fatalf("parse %q: %v", src, err)
		}
		cs := containers(tree)
		if len(cs) == 0 {
			t.Skip("no collapsible containers")
		}
		n := rapid.SampledFrom(cs).Draw(t, "target")

		before := flattenTexts(tree)
		v := tree.VisibleLines(n)
		tree.Toggle(n)
		tree.Toggle(n)
		if tree.VisibleLines(n) != v {
			t.Fatalf("count %d -> %d after round trip", v, tree.VisibleLines(n))
		}
		after := flattenTexts(tree)
		if len(before) != len(after) {
			t.Fatalf("row count changed: %d -> %d", len(before), len(after))
		}
		for i := range before {
			if before[i] != after[i] {
				t.Fatalf("row %d changed: %q -> %q", i, before[i], after[i])
			}
		}
	})
}

func TestPropNodeLinesConsistent(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		src := genValue(t, 0)
		tree, err := Parse([]byte(src), ModeJSON)
		if err != nil {
			t.Fatalf("parse %q: %v", src, err)
		}
		for _, c := range containers(tree) {
			if rapid.Bool().Draw(t, "collapse") {
				tree.Toggle(c)
			}
		}
		for i := 0; i < tree.Len(); i++ {
			first, last, ok := tree.NodeLines(i)
			if !ok {
				continue
			}
			l, lok := tree.LineAt(first)
			if !lok || l.Node != i {
				t.Fatalf("first line %d of node %d resolves to %+v", first, i, l)
			}
			if last-first+1 != tree.VisibleLines(i) {
				t.Fatalf("node %d spans %d rows, count says %d", i, last-first+1, tree.VisibleLines(i))
			}
		}
	})
}
