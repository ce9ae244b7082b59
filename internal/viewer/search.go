package viewer

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/gdamore/tcell/v2"

	"github.com/guox18/jless/internal/config"
	"github.com/guox18/jless/internal/jsontree"
)

func (v *Viewer) enterSearch(forward bool) {
	v.mode = ModeSearch
	v.searchForward = forward
	v.searchInput = v.searchInput[:0]
	v.searchCursor = 0
	v.searchHistoryIndex = -1
	v.searchHistoryStash = ""
}

func (v *Viewer) leaveSearch() {
	v.mode = ModeNormal
	v.searchInput = v.searchInput[:0]
	v.searchCursor = 0
	v.searchHistoryIndex = -1
}

func (v *Viewer) handleSearchKey(ev *tcell.EventKey) {
	switch ev.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		v.leaveSearch()
		return
	case tcell.KeyEnter:
		pattern := string(v.searchInput)
		v.leaveSearch()
		v.commitSearch(pattern, v.searchForward)
		return
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		if len(v.searchInput) == 0 {
			v.leaveSearch()
			return
		}
		if v.searchCursor > 0 {
			v.searchInput = append(v.searchInput[:v.searchCursor-1], v.searchInput[v.searchCursor:]...)
			v.searchCursor--
		}
		return
	case tcell.KeyDelete:
		if v.searchCursor < len(v.searchInput) {
			v.searchInput = append(v.searchInput[:v.searchCursor], v.searchInput[v.searchCursor+1:]...)
		}
		return
	case tcell.KeyLeft:
		if v.searchCursor > 0 {
			v.searchCursor--
		}
		return
	case tcell.KeyRight:
		if v.searchCursor < len(v.searchInput) {
			v.searchCursor++
		}
		return
	case tcell.KeyHome, tcell.KeyCtrlA:
		v.searchCursor = 0
		return
	case tcell.KeyEnd, tcell.KeyCtrlE:
		v.searchCursor = len(v.searchInput)
		return
	case tcell.KeyUp, tcell.KeyCtrlP:
		v.navigateSearchHistory(-1)
		return
	case tcell.KeyDown, tcell.KeyCtrlN:
		v.navigateSearchHistory(1)
		return
	case tcell.KeyCtrlU:
		v.searchInput = v.searchInput[:0]
		v.searchCursor = 0
		return
	case tcell.KeyCtrlW:
		if v.searchCursor > 0 {
			i := v.searchCursor - 1
			for i > 0 && v.searchInput[i-1] == ' ' {
				i--
			}
			for i > 0 && v.searchInput[i-1] != ' ' {
				i--
			}
			v.searchInput = append(v.searchInput[:i], v.searchInput[v.searchCursor:]...)
			v.searchCursor = i
		}
		return
	case tcell.KeyRune:
		v.searchInput = append(v.searchInput[:v.searchCursor],
			append([]rune{ev.Rune()}, v.searchInput[v.searchCursor:]...)...)
		v.searchCursor++
		return
	}
}

// commitSearch runs a committed pattern. An empty pattern repeats the
// previous search in the new direction.
func (v *Viewer) commitSearch(pattern string, forward bool) {
	if pattern == "" {
		pattern = v.lastPattern
	}
	if pattern == "" {
		return
	}
	re, err := jsontree.CompilePattern(pattern, false)
	if err != nil {
		v.setStatus("bad pattern: " + err.Error())
		return
	}
	v.addSearchToHistory(pattern)
	v.lastPattern = pattern
	v.lastForward = forward
	v.matches = v.tree.Search(re)
	v.matchTreeLen = v.tree.Len()
	if len(v.matches) == 0 {
		v.setStatus(fmt.Sprintf("pattern not found: %s", pattern))
		return
	}
	v.matchIndex = v.seedMatch(forward)
	v.gotoMatch()
}

// refreshMatches re-runs the active pattern when the document grew
// since the match list was built.
func (v *Viewer) refreshMatches() {
	if v.lastPattern == "" || v.matchTreeLen == v.tree.Len() {
		return
	}
	re, err := jsontree.CompilePattern(v.lastPattern, false)
	if err != nil {
		return
	}
	v.matches = v.tree.Search(re)
	v.matchTreeLen = v.tree.Len()
	if v.matchIndex >= len(v.matches) {
		v.matchIndex = 0
	}
}

// seedMatch picks the first match strictly past the cursor in the
// given direction, wrapping around the document.
func (v *Viewer) seedMatch(forward bool) int {
	c := v.nodeAt(v.cursor)
	if forward {
		for i, m := range v.matches {
			if m.Node > c {
				return i
			}
		}
		return 0
	}
	for i := len(v.matches) - 1; i >= 0; i-- {
		if v.matches[i].Node < c {
			return i
		}
	}
	return len(v.matches) - 1
}

// advanceMatch moves through the match list; positive delta follows the
// direction of the original search, negative reverses it.
func (v *Viewer) advanceMatch(delta int) {
	v.refreshMatches()
	if len(v.matches) == 0 {
		if v.lastPattern == "" {
			v.setStatus("no previous search")
		} else {
			v.setStatus(fmt.Sprintf("pattern not found: %s", v.lastPattern))
		}
		return
	}
	if !v.lastForward {
		delta = -delta
	}
	n := len(v.matches)
	v.matchIndex = ((v.matchIndex+delta)%n + n) % n
	v.gotoMatch()
}

func (v *Viewer) gotoMatch() {
	m := v.matches[v.matchIndex]
	v.jumpToNode(m.Node)
	v.setStatus(v.matchStatus())
}

func searchHistoryFilePath() (string, error) {
	dir, err := config.ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "search_history"), nil
}

// LoadSearchHistory loads persisted search queries, oldest first.
func (v *Viewer) LoadSearchHistory() {
	path, err := searchHistoryFilePath()
	if err != nil {
		return
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return // no history yet, that's ok
	}
	for _, line := range strings.Split(string(data), "\n") {
		if line != "" {
			v.searchHistory = append(v.searchHistory, line)
		}
	}
}

func (v *Viewer) saveSearchHistory() {
	path, err := searchHistoryFilePath()
	if err != nil {
		return
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return
	}
	history := v.searchHistory
	limit := v.cfg.Viewer.SearchHistoryLimit
	if limit > 0 && len(history) > limit {
		history = history[len(history)-limit:]
	}
	_ = os.WriteFile(path, []byte(strings.Join(history, "\n")), 0o644)
}

func (v *Viewer) addSearchToHistory(query string) {
	if query == "" {
		return
	}
	// Don't add duplicates consecutively
	if len(v.searchHistory) > 0 && v.searchHistory[len(v.searchHistory)-1] == query {
		return
	}
	v.searchHistory = append(v.searchHistory, query)
	v.saveSearchHistory()
}

// navigateSearchHistory walks older (-1) or newer (1) entries, filtered
// by whatever was already typed when browsing began.
func (v *Viewer) navigateSearchHistory(direction int) {
	if len(v.searchHistory) == 0 {
		return
	}
	if v.searchHistoryIndex == -1 && direction < 0 {
		v.searchHistoryStash = string(v.searchInput)
	}
	start := v.searchHistoryIndex
	if start == -1 {
		start = len(v.searchHistory)
	}
	if direction < 0 {
		for i := start - 1; i >= 0; i-- {
			if strings.HasPrefix(v.searchHistory[i], v.searchHistoryStash) {
				v.searchHistoryIndex = i
				v.searchInput = []rune(v.searchHistory[i])
				v.searchCursor = len(v.searchInput)
				return
			}
		}
		return
	}
	for i := start + 1; i < len(v.searchHistory); i++ {
		if strings.HasPrefix(v.searchHistory[i], v.searchHistoryStash) {
			v.searchHistoryIndex = i
			v.searchInput = []rune(v.searchHistory[i])
			v.searchCursor = len(v.searchInput)
			return
		}
	}
	// Past the newest entry: restore what was being typed
	v.searchHistoryIndex = -1
	v.searchInput = []rune(v.searchHistoryStash)
	v.searchCursor = len(v.searchInput)
}
