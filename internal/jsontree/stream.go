package jsontree

import (
	"context"
	"io"
)

// Fragment is one step of a background parse: the outer container
// opening, a completed top-level value, the outer close, or a parse
// failure. Fragments are applied to a Tree by the goroutine that owns
// it, so the parser never touches the reader's arena.
type Fragment struct {
	HasOpen bool
	Open    Kind

	Nodes  []Node
	Key    string
	HasKey bool

	Close bool
	Err   error
}

// ParseStream parses src on a background goroutine and emits the
// top-level decomposition as fragments. The channel closes when
// parsing completes, fails (after a final Err fragment), or ctx is
// cancelled; cancellation is checked at every fragment boundary.
func ParseStream(ctx context.Context, src []byte, mode Mode) <-chan Fragment {
	ch := make(chan Fragment, 64)
	go func() {
		defer close(ch)
		emitDocument(ctx, ch, src, mode)
	}()
	return ch
}

// ParseStreamReader drains r on the background goroutine before
// parsing, so the caller can bring up the screen while a slow pipe is
// still delivering the document.
func ParseStreamReader(ctx context.Context, r io.Reader, mode Mode) <-chan Fragment {
	ch := make(chan Fragment, 64)
	go func() {
		defer close(ch)
		src, err := io.ReadAll(r)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			select {
			case ch <- Fragment{Err: err}:
			case <-ctx.Done():
			}
			return
		}
		emitDocument(ctx, ch, src, mode)
	}()
	return ch
}

func emitDocument(ctx context.Context, ch chan<- Fragment, src []byte, mode Mode) {
	s := &chanSink{ctx: ctx, ch: ch}
	if err := parseDocument(src, mode, s); err != nil {
		if ctx.Err() != nil {
			return
		}
		select {
		case ch <- Fragment{Err: err}:
		case <-ctx.Done():
		}
	}
}

// Apply grafts one fragment onto the tree. It returns the fragment's
// parse error, if any, so the caller can decide whether the partial
// tree is still worth keeping.
func (t *Tree) Apply(f Fragment) error {
	switch {
	case f.Err != nil:
		return f.Err
	case f.HasOpen:
		t.OpenContainer(f.Open)
	case f.Close:
		t.CloseContainer()
	default:
		t.Graft(f.Nodes, f.Key, f.HasKey)
	}
	return nil
}

type chanSink struct {
	ctx context.Context
	ch  chan<- Fragment
}

func (s *chanSink) send(f Fragment) error {
	// Checked first so cancellation wins even when the channel has
	// buffer space.
	if err := s.ctx.Err(); err != nil {
		return err
	}
	select {
	case s.ch <- f:
		return nil
	case <-s.ctx.Done():
		return s.ctx.Err()
	}
}

func (s *chanSink) Open(kind Kind) error { return s.send(Fragment{HasOpen: true, Open: kind}) }

func (s *chanSink) Value(nodes []Node, key string, hasKey bool) error {
	return s.send(Fragment{Nodes: nodes, Key: key, HasKey: hasKey})
}

func (s *chanSink) Close() error { return s.send(Fragment{Close: true}) }
