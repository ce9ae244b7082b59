// Package viewer is the interactive side of jless: it owns the cursor,
// viewport, collapse commands, search session and key chords over a
// jsontree.Tree, and renders the tree to a tcell screen.
package viewer

import (
	"fmt"

	"github.com/gdamore/tcell/v2"

	"github.com/guox18/jless/internal/config"
	"github.com/guox18/jless/internal/jsontree"
	"github.com/guox18/jless/internal/logger"
)

type Mode int

const (
	ModeNormal Mode = iota
	ModeSearch
)

// YankFunc receives text for the system clipboard.
type YankFunc func(text string) error

type Viewer struct {
	tree    *jsontree.Tree
	docName string
	cfg     config.Config
	styles  styles

	cursor  int // index into the visible-line sequence
	vp      viewport
	pending Pending

	mode Mode

	// search session
	searchInput        []rune
	searchCursor       int
	searchForward      bool
	lastPattern        string
	lastForward        bool
	matches            []jsontree.Match
	matchIndex         int
	matchTreeLen       int
	searchHistory      []string
	searchHistoryIndex int
	searchHistoryStash string

	status  string
	loading bool

	yankFunc   YankFunc
	actionHook func(action string)
}

func New(tree *jsontree.Tree, docName string, cfg config.Config) *Viewer {
	v := &Viewer{
		tree:               tree,
		docName:            docName,
		cfg:                cfg,
		styles:             newStyles(cfg.Theme),
		searchHistoryIndex: -1,
		lastForward:        true,
	}
	v.vp.scrolloff = cfg.Viewer.Scrolloff
	return v
}

func (v *Viewer) Tree() *jsontree.Tree { return v.tree }

func (v *Viewer) SetYankFunc(fn YankFunc) { v.yankFunc = fn }

// SetLoading toggles the statusline loading indicator while the
// document is still streaming in.
func (v *Viewer) SetLoading(loading bool) { v.loading = loading }

func (v *Viewer) setStatus(msg string) { v.status = msg }

// SetStatus shows a message on the prompt line until the next keypress.
func (v *Viewer) SetStatus(msg string) { v.setStatus(msg) }

// TreeChanged reclamps the cursor after the tree grew or shrank
// underneath the viewer.
func (v *Viewer) TreeChanged() { v.clampCursor() }

func (v *Viewer) clampCursor() {
	total := v.tree.TotalLines()
	if v.cursor >= total {
		v.cursor = total - 1
	}
	if v.cursor < 0 {
		v.cursor = 0
	}
	v.vp.clamp(total)
}

// nodeAt resolves a visible line index to its node, or -1 past the end.
func (v *Viewer) nodeAt(line int) int {
	l, ok := v.tree.LineAt(line)
	if !ok {
		return -1
	}
	return l.Node
}

func (v *Viewer) moveCursor(line int) {
	total := v.tree.TotalLines()
	if line >= total {
		line = total - 1
	}
	if line < 0 {
		line = 0
	}
	v.cursor = line
	v.vp.EnsureVisible(v.cursor, total)
}

// jumpToNode expands the node's ancestors if needed and puts the cursor
// on its first visible line.
func (v *Viewer) jumpToNode(n int) {
	v.tree.ExpandPath(n)
	if first, _, ok := v.tree.NodeLines(n); ok {
		v.moveCursor(first)
	}
}

func (v *Viewer) HandleKey(ev *tcell.EventKey) bool {
	if v.mode == ModeSearch {
		v.handleSearchKey(ev)
		return false
	}
	if v.status != "" {
		v.status = ""
	}
	cmd, next := step(v.pending, ev)
	v.pending = next
	if cmd.Action == "" {
		return false
	}
	if v.actionHook != nil {
		v.actionHook(cmd.Action)
	}
	return v.execAction(cmd)
}

func (v *Viewer) HandleMouse(ev *tcell.EventMouse) {
	total := v.tree.TotalLines()
	switch ev.Buttons() {
	case tcell.WheelUp:
		v.vp.ScrollBy(-3, total)
		v.followViewport()
	case tcell.WheelDown:
		v.vp.ScrollBy(3, total)
		v.followViewport()
	case tcell.Button1:
		_, y := ev.Position()
		line := v.vp.top + y
		if line < total && y < v.vp.height {
			v.cursor = line
		}
	}
}

// followViewport drags the cursor along when scrolling would leave it
// outside the scrolloff margin, so the next EnsureVisible keeps the
// viewport where the scroll put it.
func (v *Viewer) followViewport() {
	off := v.vp.margin()
	if v.cursor < v.vp.top+off {
		v.cursor = v.vp.top + off
	}
	if last := v.vp.top + v.vp.height - 1 - off; v.cursor > last && last >= 0 {
		v.cursor = last
	}
	v.clampCursor()
}

func (v *Viewer) execAction(cmd Command) bool {
	total := v.tree.TotalLines()
	switch cmd.Action {
	case actionQuit:
		return true

	case actionCursorDown:
		v.moveCursor(v.cursor + cmd.Count)
	case actionCursorUp:
		v.moveCursor(v.cursor - cmd.Count)

	case actionScrollLeft:
		v.hscroll(-hscrollStep * cmd.Count)
	case actionScrollRight:
		v.hscroll(hscrollStep * cmd.Count)
	case actionScrollDown:
		v.scrollLines(cmd.Count)
	case actionScrollUp:
		v.scrollLines(-cmd.Count)

	case actionGotoTop:
		if cmd.HasCount {
			v.moveCursor(cmd.Count - 1)
		} else {
			v.moveCursor(0)
		}
	case actionGotoBottom:
		if cmd.HasCount {
			v.moveCursor(cmd.Count - 1)
		} else {
			v.moveCursor(total - 1)
		}

	case actionSiblingNext:
		v.moveSibling(cmd.Count)
	case actionSiblingPrev:
		v.moveSibling(-cmd.Count)

	case actionToggle:
		v.withCursorNode(func(n int) {
			v.tree.Toggle(n)
			v.snapToNode(n)
		})
	case actionExpand:
		v.withCursorNode(func(n int) { v.tree.Expand(n) })
	case actionCollapse:
		v.withCursorNode(func(n int) {
			v.tree.Collapse(n)
			v.snapToNode(n)
		})

	case actionExpandRec:
		v.withCursorNode(func(n int) { v.tree.SetSubtree(n, false) })
	case actionCollapseRec:
		v.withCursorNode(func(n int) {
			v.tree.SetSubtree(n, true)
			v.snapToNode(n)
		})

	case actionExpandAll:
		if v.tree.Growing() {
			v.setStatus("still loading")
			break
		}
		n := v.nodeAt(v.cursor)
		v.tree.ExpandAll()
		v.snapToNode(n)
	case actionCollapseAll:
		if v.tree.Growing() {
			v.setStatus("still loading")
			break
		}
		n := v.nodeAt(v.cursor)
		v.tree.SetAll(0)
		v.resolveCursor(n)

	case actionScrollTop:
		v.vp.AlignTop(v.cursor, total)
	case actionScrollCenter:
		v.vp.CenterOn(v.cursor, total)
	case actionScrollBottom:
		v.vp.AlignBottom(v.cursor, total)

	case actionHalfDown:
		v.pageMove(v.vp.height / 2 * cmd.Count)
	case actionHalfUp:
		v.pageMove(-v.vp.height / 2 * cmd.Count)
	case actionPageDown:
		v.pageMove(v.vp.height * cmd.Count)
	case actionPageUp:
		v.pageMove(-v.vp.height * cmd.Count)

	case actionSearch:
		v.enterSearch(true)
	case actionSearchBack:
		v.enterSearch(false)
	case actionSearchNext:
		v.advanceMatch(cmd.Count)
	case actionSearchPrev:
		v.advanceMatch(-cmd.Count)

	case actionYankValue:
		v.yankValue()
	case actionYankPath:
		v.yankPath()
	}
	return false
}

func (v *Viewer) withCursorNode(fn func(n int)) {
	if n := v.nodeAt(v.cursor); n >= 0 {
		fn(n)
		v.clampCursor()
		v.vp.EnsureVisible(v.cursor, v.tree.TotalLines())
	}
}

// snapToNode puts the cursor on the node's first line, e.g. after a
// toggle issued from its closing bracket row.
func (v *Viewer) snapToNode(n int) {
	if n < 0 {
		return
	}
	if first, _, ok := v.tree.NodeLines(n); ok {
		v.cursor = first
	}
}

// resolveCursor re-seats the cursor after a bulk collapse hid the node
// under it: ascend to the nearest still-visible ancestor.
func (v *Viewer) resolveCursor(n int) {
	for n >= 0 && !v.tree.IsVisible(n) {
		n = v.tree.Node(n).Parent
	}
	if n < 0 {
		v.moveCursor(0)
		return
	}
	if first, _, ok := v.tree.NodeLines(n); ok {
		v.moveCursor(first)
	}
}

// hscrollStep is how many columns one h/l press shifts the window.
const hscrollStep = 4

// hscroll shifts every rendered row by the same column delta, clamped
// so the window never scrolls past the widest line currently on screen.
func (v *Viewer) hscroll(delta int) {
	widest := 0
	lines := v.tree.AppendRange(nil, v.vp.top, v.vp.top+v.vp.height)
	for _, l := range lines {
		if lw := v.lineWidth(l); lw > widest {
			widest = lw
		}
	}
	v.vp.HScrollBy(delta, widest)
}

// scrollLines moves the viewport without moving the cursor relative to
// the document, except to keep it on screen.
func (v *Viewer) scrollLines(delta int) {
	v.vp.ScrollBy(delta, v.tree.TotalLines())
	v.followViewport()
}

func (v *Viewer) moveSibling(delta int) {
	n := v.nodeAt(v.cursor)
	if n < 0 {
		return
	}
	v.snapToNode(v.tree.Sibling(n, delta))
	v.vp.EnsureVisible(v.cursor, v.tree.TotalLines())
}

// pageMove shifts cursor and viewport together, keeping the cursor's
// row on screen stable where possible.
func (v *Viewer) pageMove(delta int) {
	total := v.tree.TotalLines()
	rel := v.cursor - v.vp.top
	v.vp.ScrollBy(delta, total)
	v.moveCursor(v.vp.top + rel)
}

func (v *Viewer) yankValue() {
	n := v.nodeAt(v.cursor)
	if n < 0 || v.yankFunc == nil {
		return
	}
	if err := v.yankFunc(v.tree.ValueText(n)); err != nil {
		logger.Warn("yank value failed", "err", err)
		v.setStatus("clipboard unavailable")
		return
	}
	v.setStatus("yanked value")
}

func (v *Viewer) yankPath() {
	n := v.nodeAt(v.cursor)
	if n < 0 || v.yankFunc == nil {
		return
	}
	if err := v.yankFunc(v.tree.PathText(n)); err != nil {
		logger.Warn("yank path failed", "err", err)
		v.setStatus("clipboard unavailable")
		return
	}
	v.setStatus("yanked path")
}

// matchStatus formats the "[i/n]" indicator after a search jump.
func (v *Viewer) matchStatus() string {
	return fmt.Sprintf("[%d/%d]", v.matchIndex+1, len(v.matches))
}
