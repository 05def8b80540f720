package render

import (
	"github.com/charmbracelet/lipgloss"
)

// TUITheme defines the color scheme for the chat screen and message labels
type TUITheme struct {
	Name        string
	Description string

	Border lipgloss.Color

	Primary   lipgloss.Color // title, assistant label
	Secondary lipgloss.Color // user label
	Accent    lipgloss.Color // loading animation
	Warning   lipgloss.Color
	Error     lipgloss.Color

	Text    lipgloss.Color
	TextDim lipgloss.Color
}

// Built-in TUI themes
var (
	TokyoNightTheme = TUITheme{
		Name:        "tokyonight",
		Description: "Tokyo Night - Dark theme with blue accents",
		Border:      lipgloss.Color("#414868"),
		Primary:     lipgloss.Color("#7aa2f7"),
		Secondary:   lipgloss.Color("#9ece6a"),
		Accent:      lipgloss.Color("#bb9af7"),
		Warning:     lipgloss.Color("#e0af68"),
		Error:       lipgloss.Color("#f7768e"),
		Text:        lipgloss.Color("#c0caf5"),
		TextDim:     lipgloss.Color("#565f89"),
	}

	CatppuccinMochaTheme = TUITheme{
		Name:        "catppuccin",
		Description: "Catppuccin Mocha - Warm dark theme with pastel colors",
		Border:      lipgloss.Color("#45475a"),
		Primary:     lipgloss.Color("#89b4fa"),
		Secondary:   lipgloss.Color("#a6e3a1"),
		Accent:      lipgloss.Color("#cba6f7"),
		Warning:     lipgloss.Color("#f9e2af"),
		Error:       lipgloss.Color("#f38ba8"),
		Text:        lipgloss.Color("#cdd6f4"),
		TextDim:     lipgloss.Color("#6c7086"),
	}

	// SkyTheme is a light theme for bright terminals
	SkyTheme = TUITheme{
		Name:        "sky",
		Description: "Sky - Light theme in airline blues",
		Border:      lipgloss.Color("#9fb3c8"),
		Primary:     lipgloss.Color("#0b5394"),
		Secondary:   lipgloss.Color("#38761d"),
		Accent:      lipgloss.Color("#3d85c6"),
		Warning:     lipgloss.Color("#b45f06"),
		Error:       lipgloss.Color("#990000"),
		Text:        lipgloss.Color("#1c2833"),
		TextDim:     lipgloss.Color("#5d6d7e"),
	}
)

var currentTUITheme = TokyoNightTheme

// GetTUITheme returns the currently active TUI theme
func GetTUITheme() TUITheme {
	return currentTUITheme
}

// SetTUITheme sets the active TUI theme by name. Unknown names leave the
// current theme in place and return false.
func SetTUITheme(name string) bool {
	theme, ok := GetTUIThemeByName(name)
	if ok {
		currentTUITheme = theme
	}
	return ok
}

// GetTUIThemeByName returns a TUI theme by its name
func GetTUIThemeByName(name string) (TUITheme, bool) {
	for _, t := range AvailableTUIThemes() {
		if t.Name == name {
			return t, true
		}
	}
	return TUITheme{}, false
}

// AvailableTUIThemes returns all built-in TUI themes
func AvailableTUIThemes() []TUITheme {
	return []TUITheme{
		TokyoNightTheme,
		CatppuccinMochaTheme,
		SkyTheme,
	}
}

// TUIThemeNames returns just the theme names
func TUIThemeNames() []string {
	themes := AvailableTUIThemes()
	names := make([]string, len(themes))
	for i, t := range themes {
		names[i] = t.Name
	}
	return names
}
