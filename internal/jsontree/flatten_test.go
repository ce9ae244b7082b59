package jsontree

import "testing"

func flattenTexts(tree *Tree) []string {
	lines := tree.AppendRange(nil, 0, tree.TotalLines())
	texts := make([]string, len(lines))
	for i, l := range lines {
		texts[i] = tree.LineText(l)
	}
	return texts
}

func assertLines(t *testing.T, tree *Tree, want []string) {
	t.Helper()
	got := flattenTexts(tree)
	if len(got) != len(want) {
		t.Fatalf("lines = %q, want %q", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("line %d = %q, want %q (full: %q)", i, got[i], want[i], got)
		}
	}
}

func TestFlattenExpanded(t *testing.T) {
	tree := mustParse(t, `{"a":1,"b":[1,2,3]}`, ModeJSON)
	assertLines(t, tree, []string{
		`{`,
		`"a": 1,`,
		`"b": [`,
		`1,`,
		`2,`,
		`3`,
		`]`,
		`}`,
	})
	if tree.TotalLines() != 8 {
		t.Fatalf("total = %d, want 8", tree.TotalLines())
	}
}

func TestFlattenCollapsedContainer(t *testing.T) {
	tree := mustParse(t, `{"a":1,"b":[1,2,3]}`, ModeJSON)
	b := findKey(t, tree, tree.Roots()[0], "b")
	tree.Toggle(b)
	assertLines(t, tree, []string{
		`{`,
		`"a": 1,`,
		`"b": [...],`,
		`}`,
	})
	if tree.TotalLines() != 4 {
		t.Fatalf("total = %d, want 4", tree.TotalLines())
	}
}

func TestLineAtMatchesRange(t *testing.T) {
	tree := mustParse(t, `{"a":{"b":[1,{"c":null}]},"d":[[],{}],"e":"x"}`, ModeJSON)
	total := tree.TotalLines()
	lines := tree.AppendRange(nil, 0, total)
	if len(lines) != total {
		t.Fatalf("range produced %d lines, total says %d", len(lines), total)
	}
	for i := 0; i < total; i++ {
		l, ok := tree.LineAt(i)
		if !ok {
			t.Fatalf("LineAt(%d) failed", i)
		}
		if l != lines[i] {
			t.Fatalf("LineAt(%d) = %+v, range[%d] = %+v", i, l, i, lines[i])
		}
	}
	if _, ok := tree.LineAt(total); ok {
		t.Fatal("LineAt past end succeeded")
	}
	if _, ok := tree.LineAt(-1); ok {
		t.Fatal("LineAt(-1) succeeded")
	}
}

func TestAppendRangeWindow(t *testing.T) {
	tree := mustParse(t, `[[1,2],{"a":[3]},4,[{"b":5},6]]`, ModeJSON)
	total := tree.TotalLines()
	for start := 0; start < total; start++ {
		for end := start; end <= total; end++ {
			window := tree.AppendRange(nil, start, end)
			if len(window) != end-start {
				t.Fatalf("window [%d,%d) has %d lines", start, end, len(window))
			}
			for i, l := range window {
				want, _ := tree.LineAt(start + i)
				if l != want {
					t.Fatalf("window [%d,%d)[%d] = %+v, want %+v", start, end, i, l, want)
				}
			}
		}
	}
}

func TestNodeLines(t *testing.T) {
	tree := mustParse(t, `{"a":1,"b":[1,2,3]}`, ModeJSON)
	root := tree.Roots()[0]
	b := findKey(t, tree, root, "b")

	first, last, ok := tree.NodeLines(b)
	if !ok || first != 2 || last != 6 {
		t.Fatalf("b occupies [%d,%d] ok=%v, want [2,6]", first, last, ok)
	}
	first, last, ok = tree.NodeLines(root)
	if !ok || first != 0 || last != 7 {
		t.Fatalf("root occupies [%d,%d] ok=%v, want [0,7]", first, last, ok)
	}

	tree.Toggle(b)
	first, last, ok = tree.NodeLines(b)
	if !ok || first != 2 || last != 2 {
		t.Fatalf("collapsed b occupies [%d,%d] ok=%v, want [2,2]", first, last, ok)
	}
	inner := tree.Node(b).Children[0]
	if _, _, ok := tree.NodeLines(inner); ok {
		t.Fatal("child of collapsed container reported visible")
	}
}

func TestNoLinesFromCollapsedSubtree(t *testing.T) {
	tree := mustParse(t, `{"a":{"x":[1,2]},"b":3}`, ModeJSON)
	a := findKey(t, tree, tree.Roots()[0], "a")
	tree.Toggle(a)
	for _, l := range tree.AppendRange(nil, 0, tree.TotalLines()) {
		if l.Node == a && l.Role != RoleCollapsed {
			t.Fatalf("collapsed node produced role %v", l.Role)
		}
		for p := tree.Node(l.Node).Parent; p != NoParent; p = tree.Node(p).Parent {
			if p == a {
				t.Fatalf("line for node %d inside collapsed subtree", l.Node)
			}
		}
	}
}

func TestFlattenLinesMode(t *testing.T) {
	tree := mustParse(t, "{\"x\":1}\n{\"y\":2}\n", ModeLines)
	assertLines(t, tree, []string{
		`{`,
		`"x": 1`,
		`}`,
		`{`,
		`"y": 2`,
		`}`,
	})
}
