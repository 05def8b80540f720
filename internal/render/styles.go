package render

import "github.com/charmbracelet/glamour/styles"

// Markdown style names accepted in config and GLAMOUR_STYLE
const (
	StyleDark       = styles.DarkStyle
	StyleLight      = styles.LightStyle
	StyleDracula    = styles.DraculaStyle
	StyleTokyoNight = "tokyonight"
	StyleNoTTY      = styles.NoTTYStyle
	StyleASCII      = styles.AsciiStyle
)

// StyleInfo describes a markdown style for `airchat config`.
type StyleInfo struct {
	Name        string
	Description string
}

// AvailableStyles lists the built-in markdown styles.
func AvailableStyles() []StyleInfo {
	return []StyleInfo{
		{Name: StyleDark, Description: "Dark theme (default)"},
		{Name: StyleLight, Description: "Light theme for bright terminals"},
		{Name: StyleTokyoNight, Description: "Tokyo Night color scheme"},
		{Name: StyleDracula, Description: "Dracula color scheme"},
		{Name: StyleNoTTY, Description: "Plain text (no styling)"},
		{Name: StyleASCII, Description: "ASCII-only output"},
	}
}

// resolveStyle maps airchat style names onto glamour's. Anything unknown is
// passed through and treated by glamour as a style file path.
func resolveStyle(name string) string {
	switch name {
	case "":
		return StyleDark
	case StyleTokyoNight, "tokyo_night":
		return styles.TokyoNightStyle
	default:
		return name
	}
}

// IsBuiltinStyle reports whether name is a built-in style rather than a path.
func IsBuiltinStyle(name string) bool {
	_, ok := styles.DefaultStyles[resolveStyle(name)]
	return ok
}
