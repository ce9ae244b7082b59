package app

import (
	"context"
	"testing"

	"github.com/guox18/jless/internal/jsontree"
)

func TestNewArgs(t *testing.T) {
	a, err := New(nil)
	if err != nil {
		t.Fatalf("New(nil): %v", err)
	}
	if a.path != "" || a.lines {
		t.Fatalf("defaults = %+v", a)
	}

	a, err = New([]string{"--lines", "data.ndjson"})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if !a.lines || a.path != "data.ndjson" {
		t.Fatalf("parsed = %+v", a)
	}

	a, err = New([]string{"-l", "-"})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if !a.lines || a.path != "-" {
		t.Fatalf("parsed = %+v", a)
	}
}

func TestNewArgsErrors(t *testing.T) {
	if _, err := New([]string{"--bogus"}); err == nil {
		t.Fatal("unknown flag accepted")
	}
	if _, err := New([]string{"a.json", "b.json"}); err == nil {
		t.Fatal("two paths accepted")
	}
	if _, err := New([]string{"--help"}); err == nil {
		t.Fatal("help did not error out")
	}
}

// drainAll replays the event loop's fragment discipline without a
// screen: apply everything, remember the last parse error.
func drainAll(t *testing.T, src string) (*jsontree.Tree, error) {
	t.Helper()
	tree := jsontree.NewTree(jsontree.ModeJSON)
	tree.BeginGrow()
	var parseErr error
	for f := range jsontree.ParseStream(context.Background(), []byte(src), jsontree.ModeJSON) {
		if err := tree.Apply(f); err != nil {
			parseErr = err
		}
	}
	tree.EndGrow()
	return tree, parseErr
}

func TestFatalParseEndsSession(t *testing.T) {
	tree, parseErr := drainAll(t, "garbage")
	if parseErr == nil {
		t.Fatal("expected a parse error")
	}
	if !fatalParse(tree, parseErr) {
		t.Fatal("parse failure with an empty tree must end the session")
	}
}

func TestPartialParseKeepsSession(t *testing.T) {
	tree, parseErr := drainAll(t, `{"a": 1, oops`)
	if parseErr == nil {
		t.Fatal("expected a parse error")
	}
	if tree.Len() == 0 {
		t.Fatal("expected a partial tree")
	}
	if fatalParse(tree, parseErr) {
		t.Fatal("partial tree must keep the session alive")
	}
}

func TestCleanParseIsNotFatal(t *testing.T) {
	tree, parseErr := drainAll(t, `{"a": 1}`)
	if parseErr != nil {
		t.Fatalf("parse error: %v", parseErr)
	}
	if fatalParse(tree, parseErr) {
		t.Fatal("clean parse flagged fatal")
	}
}
