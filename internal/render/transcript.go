package render

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/diogo/airchat/internal/models"
)

// Role labels shown above each message
const (
	UserLabel      = "👤 You"
	AssistantLabel = "✈️ Assistant"
)

// Transcript renders every message in order, labelled by role. It only reads
// messages, so calling it again yields the same output.
func Transcript(messages []models.Message, opts Options) string {
	blocks := make([]string, 0, len(messages))
	for _, msg := range messages {
		blocks = append(blocks, Message(msg, opts))
	}
	return strings.Join(blocks, "\n")
}

// Message renders one labelled message block. Assistant replies go through
// glamour; user text is wrapped as-is. A markdown failure falls back to the
// raw text.
func Message(msg models.Message, opts Options) string {
	theme := GetTUITheme()

	width := opts.Width
	if width <= 0 {
		width = DefaultOptions().Width
	}

	var label, body string
	switch msg.Role {
	case models.RoleUser:
		label = lipgloss.NewStyle().Foreground(theme.Secondary).Bold(true).Render(UserLabel)
		body = lipgloss.NewStyle().Width(width).PaddingLeft(2).Render(msg.Content)
	default:
		label = lipgloss.NewStyle().Foreground(theme.Primary).Bold(true).Render(AssistantLabel)
		rendered, err := Markdown(msg.Content, opts.WithWidth(width))
		if err != nil {
			rendered = lipgloss.NewStyle().Width(width).PaddingLeft(2).Render(msg.Content)
		}
		body = strings.TrimRight(rendered, "\n")
	}

	return label + "\n" + body + "\n"
}
