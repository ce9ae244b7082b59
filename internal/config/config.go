package config

import (
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

type ViewerOptions struct {
	IndentWidth        int  `toml:"indent-width"`
	Scrolloff          int  `toml:"scrolloff"`
	QuoteKeys          bool `toml:"quote-keys"`
	SearchHistoryLimit int  `toml:"search-history-limit"`
}

type Theme struct {
	Theme                   string `toml:"theme"`
	Foreground              string `toml:"foreground"`
	Background              string `toml:"background"`
	Key                     string `toml:"key"`
	String                  string `toml:"string"`
	Number                  string `toml:"number"`
	Literal                 string `toml:"literal"`
	Punctuation             string `toml:"punctuation"`
	Collapsed               string `toml:"collapsed"`
	CursorLineBackground    string `toml:"cursor-line-background"`
	SearchMatchForeground   string `toml:"search-foreground"`
	SearchMatchBackground   string `toml:"search-background"`
	CurrentMatchForeground  string `toml:"current-match-foreground"`
	CurrentMatchBackground  string `toml:"current-match-background"`
	StatuslineForeground    string `toml:"statusline-foreground"`
	StatuslineBackground    string `toml:"statusline-background"`
	PromptForeground        string `toml:"prompt-foreground"`
	PromptBackground        string `toml:"prompt-background"`
}

type Config struct {
	Viewer ViewerOptions `toml:"viewer"`
	Theme  Theme         `toml:"theme"`
}

func Default() Config {
	return Config{
		Viewer: ViewerOptions{
			IndentWidth:        2,
			Scrolloff:          3,
			QuoteKeys:          false,
			SearchHistoryLimit: 100,
		},
		Theme: Theme{
			Theme:                  "",
			Foreground:             "#B3B1AD",
			Background:             "#0A0E14",
			Key:                    "#59C2FF",
			String:                 "#BAE67E",
			Number:                 "#D4BFFF",
			Literal:                "#FFA759",
			Punctuation:            "#5C6773",
			Collapsed:              "#E6B450",
			CursorLineBackground:   "#1C2430",
			SearchMatchForeground:  "#000000",
			SearchMatchBackground:  "#FFD700",
			CurrentMatchForeground: "#000000",
			CurrentMatchBackground: "#FF8F40",
			StatuslineForeground:   "#B3B1AD",
			StatuslineBackground:   "#0F1419",
			PromptForeground:       "#B3B1AD",
			PromptBackground:       "#0F1419",
		},
	}
}

func Load() (Config, error) {
	cfg := Default()
	path, err := ConfigPath()
	if err != nil {
		return cfg, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, err
	}

	var userCfg Config
	if _, err := toml.Decode(string(data), &userCfg); err != nil {
		return cfg, err
	}

	if userCfg.Viewer.IndentWidth > 0 {
		cfg.Viewer.IndentWidth = userCfg.Viewer.IndentWidth
	}
	if userCfg.Viewer.Scrolloff > 0 {
		cfg.Viewer.Scrolloff = userCfg.Viewer.Scrolloff
	}
	if userCfg.Viewer.QuoteKeys {
		cfg.Viewer.QuoteKeys = true
	}
	if userCfg.Viewer.SearchHistoryLimit > 0 {
		cfg.Viewer.SearchHistoryLimit = userCfg.Viewer.SearchHistoryLimit
	}
	if userCfg.Theme.Theme != "" {
		cfg.Theme.Theme = userCfg.Theme.Theme
	}
	if cfg.Theme.Theme != "" {
		theme, err := LoadTheme(cfg.Theme.Theme)
		if err != nil {
			return cfg, err
		}
		mergeTheme(&cfg.Theme, theme)
	}
	mergeTheme(&cfg.Theme, userCfg.Theme)

	return cfg, nil
}

func mergeTheme(dst *Theme, src Theme) {
	if src.Foreground != "" {
		dst.Foreground = src.Foreground
	}
	if src.Background != "" {
		dst.Background = src.Background
	}
	if src.Key != "" {
		dst.Key = src.Key
	}
	if src.String != "" {
		dst.String = src.String
	}
	if src.Number != "" {
		dst.Number = src.Number
	}
	if src.Literal != "" {
		dst.Literal = src.Literal
	}
	if src.Punctuation != "" {
		dst.Punctuation = src.Punctuation
	}
	if src.Collapsed != "" {
		dst.Collapsed = src.Collapsed
	}
	if src.CursorLineBackground != "" {
		dst.CursorLineBackground = src.CursorLineBackground
	}
	if src.SearchMatchForeground != "" {
		dst.SearchMatchForeground = src.SearchMatchForeground
	}
	if src.SearchMatchBackground != "" {
		dst.SearchMatchBackground = src.SearchMatchBackground
	}
	if src.CurrentMatchForeground != "" {
		dst.CurrentMatchForeground = src.CurrentMatchForeground
	}
	if src.CurrentMatchBackground != "" {
		dst.CurrentMatchBackground = src.CurrentMatchBackground
	}
	if src.StatuslineForeground != "" {
		dst.StatuslineForeground = src.StatuslineForeground
	}
	if src.StatuslineBackground != "" {
		dst.StatuslineBackground = src.StatuslineBackground
	}
	if src.PromptForeground != "" {
		dst.PromptForeground = src.PromptForeground
	}
	if src.PromptBackground != "" {
		dst.PromptBackground = src.PromptBackground
	}
}

func ThemePath(name string) (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "theme", name+".toml"), nil
}

func LoadTheme(name string) (Theme, error) {
	path, err := ThemePath(name)
	if err != nil {
		return Theme{}, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Theme{}, err
	}
	var t Theme
	if _, err := toml.Decode(string(data), &t); err == nil {
		return t, nil
	}
	var wrap struct {
		Theme Theme `toml:"theme"`
	}
	if _, err := toml.Decode(string(data), &wrap); err != nil {
		return Theme{}, err
	}
	return wrap.Theme, nil
}

func ConfigDir() (string, error) {
	if v := os.Getenv("JLESS_CONFIG_HOME"); v != "" {
		return filepath.Join(v), nil
	}
	if v := os.Getenv("XDG_CONFIG_HOME"); v != "" {
		return filepath.Join(v, "jless"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "jless"), nil
}

func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}
