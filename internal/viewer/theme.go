package viewer

import (
	"strconv"
	"strings"

	"github.com/gdamore/tcell/v2"

	"github.com/guox18/jless/internal/config"
)

// styles holds the resolved tcell styles for every visual role.
type styles struct {
	base         tcell.Style
	key          tcell.Style
	str          tcell.Style
	num          tcell.Style
	literal      tcell.Style
	punct        tcell.Style
	collapsed    tcell.Style
	cursorBg     tcell.Color
	match        tcell.Style
	currentMatch tcell.Style
	statusline   tcell.Style
	prompt       tcell.Style
}

func newStyles(t config.Theme) styles {
	fg := parseColor(t.Foreground, tcell.ColorWhite)
	bg := parseColor(t.Background, tcell.ColorBlack)
	base := tcell.StyleDefault.Foreground(fg).Background(bg)
	return styles{
		base:      base,
		key:       base.Foreground(parseColor(t.Key, fg)),
		str:       base.Foreground(parseColor(t.String, fg)),
		num:       base.Foreground(parseColor(t.Number, fg)),
		literal:   base.Foreground(parseColor(t.Literal, fg)),
		punct:     base.Foreground(parseColor(t.Punctuation, fg)),
		collapsed: base.Foreground(parseColor(t.Collapsed, fg)),
		cursorBg:  parseColor(t.CursorLineBackground, bg),
		match: tcell.StyleDefault.
			Foreground(parseColor(t.SearchMatchForeground, tcell.ColorBlack)).
			Background(parseColor(t.SearchMatchBackground, tcell.ColorYellow)),
		currentMatch: tcell.StyleDefault.
			Foreground(parseColor(t.CurrentMatchForeground, tcell.ColorBlack)).
			Background(parseColor(t.CurrentMatchBackground, tcell.ColorOrange)),
		statusline: tcell.StyleDefault.
			Foreground(parseColor(t.StatuslineForeground, tcell.ColorBlack)).
			Background(parseColor(t.StatuslineBackground, tcell.ColorGray)),
		prompt: tcell.StyleDefault.
			Foreground(parseColor(t.PromptForeground, tcell.ColorBlack)).
			Background(parseColor(t.PromptBackground, tcell.ColorGray)),
	}
}

func parseColor(name string, fallback tcell.Color) tcell.Color {
	name = strings.TrimSpace(name)
	if name == "" {
		return fallback
	}
	if strings.HasPrefix(name, "#") && len(name) == 7 {
		r, err1 := strconv.ParseInt(name[1:3], 16, 32)
		g, err2 := strconv.ParseInt(name[3:5], 16, 32)
		b, err3 := strconv.ParseInt(name[5:7], 16, 32)
		if err1 == nil && err2 == nil && err3 == nil {
			return tcell.NewRGBColor(int32(r), int32(g), int32(b))
		}
		return fallback
	}
	name = strings.ToLower(name)
	if name == "default" {
		return tcell.ColorDefault
	}
	c := tcell.GetColor(name)
	if c == tcell.ColorDefault {
		return fallback
	}
	return c
}
