package viewer

import (
	"fmt"
	"sort"

	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"

	"github.com/guox18/jless/internal/jsontree"
)

func (v *Viewer) Render(s tcell.Screen) {
	w, h := s.Size()
	if w <= 0 || h <= 0 {
		return
	}

	statusY := h - 2
	promptY := h - 1
	viewHeight := h - 2
	if h < 2 {
		statusY = h - 1
		promptY = h - 1
		viewHeight = 0
	}
	v.vp.SetSize(w, viewHeight)
	v.clampCursor()
	if v.mode == ModeNormal {
		v.vp.EnsureVisible(v.cursor, v.tree.TotalLines())
	}

	lines := v.tree.AppendRange(nil, v.vp.top, v.vp.top+viewHeight)
	for row := 0; row < viewHeight; row++ {
		y := row
		if row < len(lines) {
			v.renderLine(s, y, v.vp.top+row, lines[row])
		} else {
			v.fillRow(s, y, w, v.styles.base)
		}
	}

	if statusY >= 0 && statusY < h {
		v.renderStatusline(s, statusY, w)
	}
	if promptY >= 0 && promptY < h && promptY != statusY {
		v.renderPrompt(s, promptY, w)
	}
	if v.mode != ModeSearch {
		s.HideCursor()
	}
	s.Show()
}

func (v *Viewer) fillRow(s tcell.Screen, y, w int, style tcell.Style) {
	for x := 0; x < w; x++ {
		s.SetContent(x, y, ' ', nil, style)
	}
}

// renderLine draws one document row: indentation, optional key, the
// value or bracket, and a trailing comma.
func (v *Viewer) renderLine(s tcell.Screen, y, lineIdx int, l jsontree.Line) {
	w := v.vp.width
	onCursor := lineIdx == v.cursor

	rowBase := v.styles.base
	if onCursor {
		rowBase = rowBase.Background(v.styles.cursorBg)
	}
	v.fillRow(s, y, w, rowBase)

	nd := v.tree.Node(l.Node)
	x := l.Depth * v.cfg.Viewer.IndentWidth

	keyMatches, valMatches := v.matchesForNode(l.Node)

	hoff := v.vp.hoff
	if nd.HasKey && l.Role != jsontree.RoleClose {
		keyText := nd.Key
		offset := 0
		if v.cfg.Viewer.QuoteKeys {
			keyText = `"` + nd.Key + `"`
			offset = 1
		}
		x = v.drawHighlighted(s, x, y, w, hoff, keyText, v.restyle(v.styles.key, onCursor), keyMatches, offset)
		x = v.drawText(s, x, y, w, hoff, ": ", v.restyle(v.styles.punct, onCursor))
	}

	switch l.Role {
	case jsontree.RoleScalar:
		x = v.drawHighlighted(s, x, y, w, hoff, nd.Raw, v.restyle(v.scalarStyle(nd.Kind), onCursor), valMatches, 0)
	case jsontree.RoleOpen:
		x = v.drawText(s, x, y, w, hoff, string(openBracket(nd.Kind)), v.restyle(v.styles.punct, onCursor))
	case jsontree.RoleClose:
		x = v.drawText(s, x, y, w, hoff, string(closeBracket(nd.Kind)), v.restyle(v.styles.punct, onCursor))
	case jsontree.RoleCollapsed:
		x = v.drawText(s, x, y, w, hoff, collapsedText(nd.Kind), v.restyle(v.styles.collapsed, onCursor))
	case jsontree.RoleEmpty:
		x = v.drawText(s, x, y, w, hoff, emptyText(nd.Kind), v.restyle(v.styles.punct, onCursor))
	}

	if l.Comma {
		v.drawText(s, x, y, w, hoff, ",", v.restyle(v.styles.punct, onCursor))
	}
}

// lineWidth measures a document row in screen columns, mirroring what
// renderLine draws. Used to clamp horizontal scrolling.
func (v *Viewer) lineWidth(l jsontree.Line) int {
	nd := v.tree.Node(l.Node)
	lw := l.Depth * v.cfg.Viewer.IndentWidth
	if nd.HasKey && l.Role != jsontree.RoleClose {
		lw += runewidth.StringWidth(nd.Key) + 2
		if v.cfg.Viewer.QuoteKeys {
			lw += 2
		}
	}
	switch l.Role {
	case jsontree.RoleScalar:
		lw += runewidth.StringWidth(nd.Raw)
	case jsontree.RoleOpen, jsontree.RoleClose:
		lw++
	case jsontree.RoleCollapsed:
		lw += len(collapsedText(nd.Kind))
	case jsontree.RoleEmpty:
		lw += len(emptyText(nd.Kind))
	}
	if l.Comma {
		lw++
	}
	return lw
}

// restyle applies the cursor-row background on top of a role style.
func (v *Viewer) restyle(style tcell.Style, onCursor bool) tcell.Style {
	if onCursor {
		return style.Background(v.styles.cursorBg)
	}
	return style
}

func (v *Viewer) scalarStyle(k jsontree.Kind) tcell.Style {
	switch k {
	case jsontree.KindString:
		return v.styles.str
	case jsontree.KindNumber:
		return v.styles.num
	default:
		return v.styles.literal
	}
}

// drawText draws text at virtual column x, shifting every rune left by
// hoff and clipping at both screen edges. Returns the advanced virtual
// column so callers can chain segments.
func (v *Viewer) drawText(s tcell.Screen, x, y, w, hoff int, text string, style tcell.Style) int {
	for _, r := range text {
		rw := runewidth.RuneWidth(r)
		sx := x - hoff
		if sx >= w {
			return x
		}
		if sx >= 0 && sx+rw <= w {
			s.SetContent(sx, y, r, nil, style)
		}
		x += rw
	}
	return x
}

// drawHighlighted draws text, overlaying search-match styling on the
// byte ranges in matches. offset shifts ranges for decoration added
// around the matched field, like key quotes.
func (v *Viewer) drawHighlighted(s tcell.Screen, x, y, w, hoff int, text string, base tcell.Style, matches []matchRange, offset int) int {
	if len(matches) == 0 {
		return v.drawText(s, x, y, w, hoff, text, base)
	}
	for i, r := range text {
		rw := runewidth.RuneWidth(r)
		sx := x - hoff
		if sx >= w {
			return x
		}
		style := base
		for _, m := range matches {
			if i >= m.start+offset && i < m.end+offset {
				if m.current {
					style = v.styles.currentMatch
				} else {
					style = v.styles.match
				}
				break
			}
		}
		if sx >= 0 && sx+rw <= w {
			s.SetContent(sx, y, r, nil, style)
		}
		x += rw
	}
	return x
}

type matchRange struct {
	start, end int
	current    bool
}

// matchesForNode returns the key and value highlight ranges for a node,
// found by binary search over the ordered match list.
func (v *Viewer) matchesForNode(n int) (keys, values []matchRange) {
	if len(v.matches) == 0 {
		return nil, nil
	}
	i := sort.Search(len(v.matches), func(i int) bool { return v.matches[i].Node >= n })
	for ; i < len(v.matches) && v.matches[i].Node == n; i++ {
		m := v.matches[i]
		r := matchRange{start: m.Start, end: m.End, current: i == v.matchIndex}
		if m.Field == jsontree.FieldKey {
			keys = append(keys, r)
		} else {
			values = append(values, r)
		}
	}
	return keys, values
}

func (v *Viewer) renderStatusline(s tcell.Screen, y, w int) {
	v.fillRow(s, y, w, v.styles.statusline)

	left := v.docName
	if n := v.nodeAt(v.cursor); n >= 0 {
		left += "  " + v.tree.PathText(n)
	}

	right := fmt.Sprintf("%d/%d", v.cursor+1, v.tree.TotalLines())
	if v.loading {
		right = "loading… " + right
	}

	v.drawText(s, 0, y, w, 0, left, v.styles.statusline)
	rx := w - runewidth.StringWidth(right)
	if rx < 0 {
		rx = 0
	}
	v.drawText(s, rx, y, w, 0, right, v.styles.statusline)
}

func (v *Viewer) renderPrompt(s tcell.Screen, y, w int) {
	v.fillRow(s, y, w, v.styles.prompt)

	if v.mode == ModeSearch {
		sigil := "/"
		if !v.searchForward {
			sigil = "?"
		}
		v.drawText(s, 0, y, w, 0, sigil+string(v.searchInput), v.styles.prompt)
		cx := runewidth.StringWidth(sigil + string(v.searchInput[:v.searchCursor]))
		s.ShowCursor(cx, y)
		return
	}

	if v.status != "" {
		v.drawText(s, 0, y, w, 0, v.status, v.styles.prompt)
	}
	if echo := v.pending.Echo(); echo != "" {
		rx := w - runewidth.StringWidth(echo) - 1
		if rx < 0 {
			rx = 0
		}
		v.drawText(s, rx, y, w, 0, echo, v.styles.prompt)
	}
}

func openBracket(k jsontree.Kind) byte {
	if k == jsontree.KindArray {
		return '['
	}
	return '{'
}

func closeBracket(k jsontree.Kind) byte {
	if k == jsontree.KindArray {
		return ']'
	}
	return '}'
}

func collapsedText(k jsontree.Kind) string {
	if k == jsontree.KindArray {
		return "[...]"
	}
	return "{...}"
}

func emptyText(k jsontree.Kind) string {
	if k == jsontree.KindArray {
		return "[]"
	}
	return "{}"
}
