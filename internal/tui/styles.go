// Package tui provides the terminal chat interface for airchat.
package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/diogo/airchat/internal/errors"
	"github.com/diogo/airchat/internal/render"
)

// Color variables (updated from theme)
var (
	colorBorder    lipgloss.Color
	colorPrimary   lipgloss.Color
	colorSecondary lipgloss.Color
	colorAccent    lipgloss.Color
	colorWarning   lipgloss.Color
	colorError     lipgloss.Color
	colorText      lipgloss.Color
	colorTextDim   lipgloss.Color
)

// Style variables (rebuilt when theme changes)
var (
	headerStyle       lipgloss.Style
	titleStyle        lipgloss.Style
	captionStyle      lipgloss.Style
	hintStyle         lipgloss.Style
	messagesAreaStyle lipgloss.Style
	inputPanelStyle   lipgloss.Style
	inputLabelStyle   lipgloss.Style
	loadingStyle      lipgloss.Style

	statusBarStyle  lipgloss.Style
	statusKeyStyle  lipgloss.Style
	statusDescStyle lipgloss.Style

	errorStyle  lipgloss.Style
	detailStyle lipgloss.Style

	welcomeStyle      lipgloss.Style
	welcomeTitleStyle lipgloss.Style
	welcomeIconStyle  lipgloss.Style
)

// Gradient colors for the loading animation (fixed colors)
var gradientColors = []lipgloss.Color{
	lipgloss.Color("#ff6b6b"),
	lipgloss.Color("#feca57"),
	lipgloss.Color("#48dbfb"),
	lipgloss.Color("#ff9ff3"),
	lipgloss.Color("#54a0ff"),
	lipgloss.Color("#5f27cd"),
	lipgloss.Color("#00d2d3"),
	lipgloss.Color("#1dd1a1"),
}

func init() {
	UpdateTheme()
}

// UpdateTheme refreshes all styles based on the current TUI theme
func UpdateTheme() {
	theme := render.GetTUITheme()

	colorBorder = theme.Border
	colorPrimary = theme.Primary
	colorSecondary = theme.Secondary
	colorAccent = theme.Accent
	colorWarning = theme.Warning
	colorError = theme.Error
	colorText = theme.Text
	colorTextDim = theme.TextDim

	rebuildStyles()
}

func rebuildStyles() {
	headerStyle = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(colorBorder).
		Padding(0, 2)

	titleStyle = lipgloss.NewStyle().
		Foreground(colorPrimary).
		Bold(true)

	captionStyle = lipgloss.NewStyle().
		Foreground(colorTextDim)

	hintStyle = lipgloss.NewStyle().
		Foreground(colorTextDim).
		Italic(true)

	messagesAreaStyle = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(colorBorder).
		Padding(0, 1)

	inputPanelStyle = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(colorBorder).
		Padding(0, 1)

	inputLabelStyle = lipgloss.NewStyle().
		Foreground(colorSecondary).
		Bold(true)

	loadingStyle = lipgloss.NewStyle().
		Foreground(colorAccent).
		Bold(true)

	statusBarStyle = lipgloss.NewStyle().
		Foreground(colorTextDim)

	statusKeyStyle = lipgloss.NewStyle().
		Foreground(colorText).
		Bold(true)

	statusDescStyle = lipgloss.NewStyle().
		Foreground(colorTextDim)

	errorStyle = lipgloss.NewStyle().
		Foreground(colorError).
		Bold(true)

	detailStyle = lipgloss.NewStyle().
		Foreground(colorTextDim).
		PaddingLeft(2)

	welcomeStyle = lipgloss.NewStyle().
		Foreground(colorTextDim).
		Align(lipgloss.Center)

	welcomeTitleStyle = lipgloss.NewStyle().
		Foreground(colorPrimary).
		Bold(true).
		Align(lipgloss.Center)

	welcomeIconStyle = lipgloss.NewStyle().
		Foreground(colorAccent).
		Align(lipgloss.Center)
}

// FormatFailure returns styled details for a failed service call: the
// HTTP status, the endpoint and a hint. It returns "" for a nil error.
func FormatFailure(err error) string {
	if err == nil {
		return ""
	}

	var sb strings.Builder
	sb.WriteString(errorStyle.Render(fmt.Sprintf("⚠ %v", err)))

	if status := errors.GetHTTPStatus(err); status > 0 {
		sb.WriteString("\n")
		sb.WriteString(detailStyle.Render(fmt.Sprintf("HTTP Status: %d", status)))
	}

	if endpoint := errors.GetEndpoint(err); endpoint != "" {
		sb.WriteString("\n")
		sb.WriteString(detailStyle.Render("Endpoint: " + endpoint))
	}

	var hint string
	switch {
	case errors.IsTimeoutError(err):
		hint = "Request timed out. Try again or raise --timeout"
	case errors.IsNetworkError(err):
		hint = "Check your internet connection"
	case errors.IsStatusError(err):
		hint = "The airline service rejected the request. Try again later"
	case errors.IsDecodeError(err):
		hint = "The airline service returned an unexpected response"
	}
	if hint != "" {
		sb.WriteString("\n")
		sb.WriteString(lipgloss.NewStyle().Foreground(colorWarning).PaddingLeft(2).Render("💡 " + hint))
	}

	return sb.String()
}
