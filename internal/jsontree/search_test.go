package jsontree

import "testing"

func TestSearchKeysAndValues(t *testing.T) {
	tree := mustParse(t, `{"name":"needle","count":7,"nested":{"name":true}}`, ModeJSON)
	re, err := CompilePattern("name", false)
	if err != nil {
		t.Fatal(err)
	}
	matches := tree.Search(re)
	// two "name" keys plus no values containing "name"
	if len(matches) != 2 {
		t.Fatalf("matches = %d, want 2", len(matches))
	}
	for _, m := range matches {
		if m.Field != FieldKey {
			t.Fatalf("match field = %v, want key", m.Field)
		}
	}

	re, _ = CompilePattern("needle", false)
	matches = tree.Search(re)
	if len(matches) != 1 || matches[0].Field != FieldValue {
		t.Fatalf("matches = %+v, want one value match", matches)
	}
}

func TestSearchDocumentOrder(t *testing.T) {
	tree := mustParse(t, `{"a":"x","b":{"c":"x"},"d":"x"}`, ModeJSON)
	re, _ := CompilePattern("x", false)
	matches := tree.Search(re)
	if len(matches) != 3 {
		t.Fatalf("matches = %d, want 3", len(matches))
	}
	prev := -1
	for _, m := range matches {
		if m.Node <= prev {
			t.Fatalf("matches out of document order: %+v", matches)
		}
		prev = m.Node
	}
}

func TestSearchIgnoresCollapseState(t *testing.T) {
	tree := mustParse(t, `{"k":"needle value"}`, ModeJSON)
	root := tree.Roots()[0]
	tree.Toggle(root)

	re, _ := CompilePattern("needle", false)
	matches := tree.Search(re)
	if len(matches) != 1 {
		t.Fatalf("matches = %d, want 1 despite collapse", len(matches))
	}
	k := matches[0].Node
	if tree.IsVisible(k) {
		t.Fatal("match node unexpectedly visible")
	}
	tree.ExpandPath(k)
	if _, _, ok := tree.NodeLines(k); !ok {
		t.Fatal("match not reachable after expanding ancestors")
	}
}

func TestSearchFindsDuplicateKeys(t *testing.T) {
	tree := mustParse(t, `{"dup":1,"dup":2}`, ModeJSON)
	re, _ := CompilePattern("dup", false)
	matches := tree.Search(re)
	if len(matches) != 2 {
		t.Fatalf("matches = %d, want both duplicate keys", len(matches))
	}
	if matches[0].Node == matches[1].Node {
		t.Fatal("duplicate key matches collapsed onto one node")
	}
}

func TestSearchSmartCase(t *testing.T) {
	tree := mustParse(t, `{"k":"Needle"}`, ModeJSON)

	re, _ := CompilePattern("needle", false)
	if len(tree.Search(re)) != 1 {
		t.Fatal("lowercase pattern should match case-insensitively")
	}
	re, _ = CompilePattern("Needle", false)
	if len(tree.Search(re)) != 1 {
		t.Fatal("exact-case pattern should match")
	}
	re, _ = CompilePattern("nEEdle", false)
	if len(tree.Search(re)) != 0 {
		t.Fatal("uppercase in pattern should force exact case")
	}
}

func TestCompilePatternInvalid(t *testing.T) {
	if _, err := CompilePattern("(unclosed", false); err == nil {
		t.Fatal("expected compile error")
	}
}

func TestSearchNumberText(t *testing.T) {
	tree := mustParse(t, `[1e10,"1e10"]`, ModeLines)
	re, _ := CompilePattern(`1e10`, false)
	matches := tree.Search(re)
	if len(matches) != 2 {
		t.Fatalf("matches = %d, want number and string", len(matches))
	}
}
