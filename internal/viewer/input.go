package viewer

import (
	"github.com/gdamore/tcell/v2"
)

// Action names executed by the viewer. Kept as strings so tests can hook
// dispatch without caring about key chords.
const (
	actionCursorDown   = "cursor_down"
	actionCursorUp     = "cursor_up"
	actionScrollLeft   = "scroll_left"
	actionScrollRight  = "scroll_right"
	actionScrollDown   = "scroll_down"
	actionScrollUp     = "scroll_up"
	actionGotoTop      = "goto_top"
	actionGotoBottom   = "goto_bottom"
	actionSiblingNext  = "sibling_next"
	actionSiblingPrev  = "sibling_prev"
	actionToggle       = "toggle_node"
	actionExpand       = "expand_node"
	actionCollapse     = "collapse_node"
	actionExpandRec    = "expand_recursive"
	actionCollapseRec  = "collapse_recursive"
	actionExpandAll    = "expand_all"
	actionCollapseAll  = "collapse_all"
	actionScrollTop    = "scroll_cursor_top"
	actionScrollCenter = "scroll_cursor_center"
	actionScrollBottom = "scroll_cursor_bottom"
	actionHalfDown     = "half_page_down"
	actionHalfUp       = "half_page_up"
	actionPageDown     = "page_down"
	actionPageUp       = "page_up"
	actionSearch       = "search_forward"
	actionSearchBack   = "search_backward"
	actionSearchNext   = "search_next"
	actionSearchPrev   = "search_prev"
	actionYankValue    = "yank_value"
	actionYankPath     = "yank_path"
	actionQuit         = "quit"
)

// Pending accumulates a partially typed chord: an optional count followed
// by an optional prefix key (g, z or y).
type Pending struct {
	count    int
	hasCount bool
	prefix   rune
}

func (p Pending) empty() bool {
	return !p.hasCount && p.prefix == 0
}

// Echo renders the pending chord for the statusline.
func (p Pending) Echo() string {
	var out []rune
	if p.hasCount {
		n := p.count
		var digits []rune
		for n > 0 {
			digits = append(digits, rune('0'+n%10))
			n /= 10
		}
		if len(digits) == 0 {
			digits = append(digits, '0')
		}
		for i := len(digits) - 1; i >= 0; i-- {
			out = append(out, digits[i])
		}
	}
	if p.prefix != 0 {
		out = append(out, p.prefix)
	}
	return string(out)
}

// Command is a completed chord. Action is empty while the chord is still
// being typed or when the key sequence bound to nothing.
type Command struct {
	Action   string
	Count    int
	HasCount bool
}

const countLimit = 1_000_000

// step consumes one key event and either completes a command or carries
// the chord state forward. Any key that fits no binding discards the whole
// pending chord, count included.
func step(p Pending, ev *tcell.EventKey) (Command, Pending) {
	if ev.Key() == tcell.KeyEscape {
		return Command{}, Pending{}
	}

	if ev.Key() == tcell.KeyRune && p.prefix == 0 {
		r := ev.Rune()
		if r >= '1' && r <= '9' || (r == '0' && p.hasCount) {
			p.hasCount = true
			if p.count < countLimit {
				p.count = p.count*10 + int(r-'0')
			}
			return Command{}, p
		}
	}

	switch p.prefix {
	case 'g':
		if ev.Key() == tcell.KeyRune && ev.Rune() == 'g' {
			return complete(p, actionGotoTop), Pending{}
		}
		return Command{}, Pending{}
	case 'z':
		if ev.Key() != tcell.KeyRune {
			return Command{}, Pending{}
		}
		switch ev.Rune() {
		case 'a':
			return complete(p, actionToggle), Pending{}
		case 'o':
			return complete(p, actionExpand), Pending{}
		case 'c':
			return complete(p, actionCollapse), Pending{}
		case 'R':
			return complete(p, actionExpandAll), Pending{}
		case 'M':
			return complete(p, actionCollapseAll), Pending{}
		case 't':
			return complete(p, actionScrollTop), Pending{}
		case 'z':
			return complete(p, actionScrollCenter), Pending{}
		case 'b':
			return complete(p, actionScrollBottom), Pending{}
		case 'O':
			return complete(p, actionExpandRec), Pending{}
		case 'C':
			return complete(p, actionCollapseRec), Pending{}
		}
		return Command{}, Pending{}
	case 'y':
		if ev.Key() != tcell.KeyRune {
			return Command{}, Pending{}
		}
		switch ev.Rune() {
		case 'v':
			return complete(p, actionYankValue), Pending{}
		case 'p':
			return complete(p, actionYankPath), Pending{}
		}
		return Command{}, Pending{}
	}

	switch ev.Key() {
	case tcell.KeyDown:
		return complete(p, actionCursorDown), Pending{}
	case tcell.KeyUp:
		return complete(p, actionCursorUp), Pending{}
	case tcell.KeyLeft:
		return complete(p, actionScrollLeft), Pending{}
	case tcell.KeyRight:
		return complete(p, actionScrollRight), Pending{}
	case tcell.KeyEnter:
		return complete(p, actionToggle), Pending{}
	case tcell.KeyPgDn, tcell.KeyCtrlF:
		return complete(p, actionPageDown), Pending{}
	case tcell.KeyPgUp, tcell.KeyCtrlB:
		return complete(p, actionPageUp), Pending{}
	case tcell.KeyCtrlE:
		return complete(p, actionScrollDown), Pending{}
	case tcell.KeyCtrlY:
		return complete(p, actionScrollUp), Pending{}
	case tcell.KeyCtrlD:
		return complete(p, actionHalfDown), Pending{}
	case tcell.KeyCtrlU:
		return complete(p, actionHalfUp), Pending{}
	case tcell.KeyHome:
		return complete(p, actionGotoTop), Pending{}
	case tcell.KeyEnd:
		return complete(p, actionGotoBottom), Pending{}
	case tcell.KeyCtrlC:
		return complete(p, actionQuit), Pending{}
	}

	if ev.Key() != tcell.KeyRune {
		return Command{}, Pending{}
	}

	switch ev.Rune() {
	case 'j':
		return complete(p, actionCursorDown), Pending{}
	case 'k':
		return complete(p, actionCursorUp), Pending{}
	case 'h':
		return complete(p, actionScrollLeft), Pending{}
	case 'l':
		return complete(p, actionScrollRight), Pending{}
	case 'J':
		return complete(p, actionSiblingNext), Pending{}
	case 'K':
		return complete(p, actionSiblingPrev), Pending{}
	case 'G':
		return complete(p, actionGotoBottom), Pending{}
	case ' ':
		return complete(p, actionToggle), Pending{}
	case '/':
		return complete(p, actionSearch), Pending{}
	case '?':
		return complete(p, actionSearchBack), Pending{}
	case 'n':
		return complete(p, actionSearchNext), Pending{}
	case 'N':
		return complete(p, actionSearchPrev), Pending{}
	case 'q':
		return complete(p, actionQuit), Pending{}
	case 'g', 'z', 'y':
		p.prefix = ev.Rune()
		return Command{}, p
	}
	return Command{}, Pending{}
}

func complete(p Pending, action string) Command {
	count := p.count
	if count < 1 {
		count = 1
	}
	return Command{Action: action, Count: count, HasCount: p.hasCount}
}
