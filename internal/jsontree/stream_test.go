package jsontree

import (
	"context"
	"io"
	"testing"
)

func applyAll(t *testing.T, tree *Tree, ch <-chan Fragment) error {
	t.Helper()
	tree.BeginGrow()
	defer tree.EndGrow()
	for f := range ch {
		if err := tree.Apply(f); err != nil {
			return err
		}
	}
	return nil
}

func TestStreamMatchesSyncParse(t *testing.T) {
	srcs := []struct {
		src  string
		mode Mode
	}{
		{`{"a":1,"b":[1,2,3],"c":{"d":null}}`, ModeJSON},
		{`[1,{"x":[]},"s"]`, ModeJSON},
		{`"just a string"`, ModeJSON},
		{`{}`, ModeJSON},
		{"{\"x\":1}\n[2,3]\n", ModeLines},
	}
	for _, tc := range srcs {
		want := mustParse(t, tc.src, tc.mode)

		got := NewTree(tc.mode)
		ch := ParseStream(context.Background(), []byte(tc.src), tc.mode)
		if err := applyAll(t, got, ch); err != nil {
			t.Fatalf("%s: %v", tc.src, err)
		}
		if got.TotalLines() != want.TotalLines() {
			t.Fatalf("%s: total %d, want %d", tc.src, got.TotalLines(), want.TotalLines())
		}
		wantLines := flattenTexts(want)
		gotLines := flattenTexts(got)
		for i := range wantLines {
			if gotLines[i] != wantLines[i] {
				t.Fatalf("%s: line %d = %q, want %q", tc.src, i, gotLines[i], wantLines[i])
			}
		}
	}
}

func TestStreamPartialTreeRenderable(t *testing.T) {
	tree := NewTree(ModeJSON)
	tree.BeginGrow()
	ch := ParseStream(context.Background(), []byte(`{"a":1,"b":2}`), ModeJSON)

	f := <-ch
	if !f.HasOpen || f.Open != KindObject {
		t.Fatalf("first fragment = %+v, want object open", f)
	}
	if err := tree.Apply(f); err != nil {
		t.Fatal(err)
	}
	// A growing container already renders its delimiters.
	if tree.TotalLines() != 2 {
		t.Fatalf("open container total = %d, want 2", tree.TotalLines())
	}

	f = <-ch
	if err := tree.Apply(f); err != nil {
		t.Fatal(err)
	}
	if tree.TotalLines() != 3 {
		t.Fatalf("after first member total = %d, want 3", tree.TotalLines())
	}
	l, _ := tree.LineAt(1)
	if tree.LineText(l) != `"a": 1` {
		t.Fatalf("partial member line = %q", tree.LineText(l))
	}

	for f := range ch {
		if err := tree.Apply(f); err != nil {
			t.Fatal(err)
		}
	}
	tree.EndGrow()
	if tree.TotalLines() != 4 {
		t.Fatalf("final total = %d, want 4", tree.TotalLines())
	}
}

func TestStreamParseError(t *testing.T) {
	tree := NewTree(ModeJSON)
	ch := ParseStream(context.Background(), []byte(`{"a":1,"b":`), ModeJSON)
	err := applyAll(t, tree, ch)
	if err == nil {
		t.Fatal("expected parse error fragment")
	}
	if len(tree.Roots()) != 1 || len(tree.Node(tree.Roots()[0]).Children) != 1 {
		t.Fatal("partial members missing from tree")
	}
}

func TestStreamCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	ch := ParseStream(ctx, []byte(`{"a":1,"b":2,"c":3}`), ModeJSON)
	n := 0
	for range ch {
		n++
	}
	if n != 0 {
		t.Fatalf("received %d fragments after cancel, want 0", n)
	}
}

func TestStreamReaderStartsBeforeEOF(t *testing.T) {
	pr, pw := io.Pipe()
	ch := ParseStreamReader(context.Background(), pr, ModeJSON)

	// The pipe has delivered nothing yet; the call must not have
	// blocked on it and no fragment may be ready.
	select {
	case f := <-ch:
		t.Fatalf("fragment before any input: %+v", f)
	default:
	}

	go func() {
		_, _ = pw.Write([]byte(`{"a": 1}`))
		_ = pw.Close()
	}()

	tree := NewTree(ModeJSON)
	if err := applyAll(t, tree, ch); err != nil {
		t.Fatalf("apply: %v", err)
	}
	want := mustParse(t, `{"a": 1}`, ModeJSON)
	if tree.TotalLines() != want.TotalLines() {
		t.Fatalf("total %d, want %d", tree.TotalLines(), want.TotalLines())
	}
}

func TestStreamReaderPropagatesReadError(t *testing.T) {
	pr, pw := io.Pipe()
	ch := ParseStreamReader(context.Background(), pr, ModeJSON)
	pw.CloseWithError(io.ErrUnexpectedEOF)

	tree := NewTree(ModeJSON)
	if err := applyAll(t, tree, ch); err == nil {
		t.Fatal("expected read error")
	}
}

func TestStreamEmptyOuterObject(t *testing.T) {
	tree := NewTree(ModeJSON)
	ch := ParseStream(context.Background(), []byte(`{}`), ModeJSON)
	if err := applyAll(t, tree, ch); err != nil {
		t.Fatal(err)
	}
	if tree.TotalLines() != 1 {
		t.Fatalf("total = %d, want single {} row", tree.TotalLines())
	}
	l, _ := tree.LineAt(0)
	if l.Role != RoleEmpty {
		t.Fatalf("role = %v, want empty", l.Role)
	}
}
