package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/diogo/airchat/internal/chat"
	"github.com/diogo/airchat/internal/models"
	"github.com/diogo/airchat/internal/render"
)

// Animation tick message
type animationTickMsg time.Time

// answerMsg carries the outcome of one service call back to the update loop
type answerMsg struct {
	answer string
	err    error
}

// Model represents the TUI state
type Model struct {
	ctx     context.Context
	session *chat.Session
	opts    render.Options

	viewport viewport.Model
	textarea textarea.Model
	spinner  spinner.Model

	loading        bool
	ready          bool
	lastErr        error // failure behind the most recent reply, if any
	animationFrame int

	width  int
	height int
}

// NewChatModel creates a chat model bound to session. opts controls how
// assistant replies are rendered; its width is managed by the model.
func NewChatModel(ctx context.Context, session *chat.Session, opts render.Options) Model {
	if ctx == nil {
		ctx = context.Background()
	}

	ta := textarea.New()
	ta.Placeholder = models.InputPlaceholder
	ta.CharLimit = 2000
	ta.ShowLineNumbers = false
	ta.SetHeight(2)
	ta.Focus()

	ta.FocusedStyle.CursorLine = lipgloss.NewStyle()
	ta.FocusedStyle.Base = lipgloss.NewStyle().Foreground(colorText)
	ta.FocusedStyle.Placeholder = lipgloss.NewStyle().Foreground(colorTextDim)
	ta.BlurredStyle = ta.FocusedStyle

	s := spinner.New()
	s.Spinner = spinner.Points
	s.Style = loadingStyle

	return Model{
		ctx:      ctx,
		session:  session,
		opts:     opts,
		textarea: ta,
		spinner:  s,
	}
}

// Init initializes the model
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		textarea.Blink,
		m.spinner.Tick,
	)
}

func animationTick() tea.Cmd {
	return tea.Tick(time.Millisecond*80, func(t time.Time) tea.Msg {
		return animationTickMsg(t)
	})
}

// isExitCommand reports whether input asks to leave the chat
func isExitCommand(input string) bool {
	switch strings.ToLower(input) {
	case "exit", "quit", "/exit", "/quit":
		return true
	}
	return false
}

// Update handles messages and updates the model
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

		headerHeight := 4 // title + caption inside a border
		inputHeight := 5  // label + textarea inside a border
		statusHeight := 1
		padding := 2 // messages panel border

		vpHeight := m.height - headerHeight - inputHeight - statusHeight - padding
		if vpHeight < 5 {
			vpHeight = 5
		}

		contentWidth := m.width - 4

		if !m.ready {
			m.viewport = viewport.New(contentWidth, vpHeight)
			m.ready = true
		} else {
			m.viewport.Width = contentWidth
			m.viewport.Height = vpHeight
		}
		m.textarea.SetWidth(contentWidth - 2)
		m.updateViewport()

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit

		case "esc":
			// A turn in flight still has to append its reply
			if !m.loading {
				return m, tea.Quit
			}
			return m, nil

		case "enter":
			if m.loading {
				return m, nil
			}

			input := m.textarea.Value()
			trimmed := strings.TrimSpace(input)
			if trimmed == "" {
				m.textarea.Reset()
				return m, nil
			}
			if isExitCommand(trimmed) {
				return m, tea.Quit
			}

			m.session.AddQuestion(input)
			m.textarea.Reset()
			m.updateViewport()
			m.viewport.GotoBottom()

			m.loading = true
			m.lastErr = nil
			m.animationFrame = 0

			return m, tea.Batch(
				m.askCmd(input),
				m.spinner.Tick,
				animationTick(),
			)
		}

	case answerMsg:
		m.loading = false
		m.lastErr = msg.err
		m.session.AddReply(msg.answer, msg.err)
		m.updateViewport()
		m.viewport.GotoBottom()

	case spinner.TickMsg:
		if m.loading {
			m.spinner, cmd = m.spinner.Update(msg)
			cmds = append(cmds, cmd)
		}

	case animationTickMsg:
		if m.loading {
			m.animationFrame++
			cmds = append(cmds, animationTick())
		}
	}

	// Only KeyMsg reaches the textarea so escape sequences don't leak in
	if !m.loading {
		if _, ok := msg.(tea.KeyMsg); ok {
			m.textarea, cmd = m.textarea.Update(msg)
			cmds = append(cmds, cmd)
		}
	}

	m.viewport, cmd = m.viewport.Update(msg)
	cmds = append(cmds, cmd)

	return m, tea.Batch(cmds...)
}

// askCmd runs the service call off the update loop. The transcript is only
// touched when the resulting answerMsg comes back.
func (m Model) askCmd(question string) tea.Cmd {
	session := m.session
	ctx := m.ctx
	return func() tea.Msg {
		answer, err := session.Ask(ctx, question)
		return answerMsg{answer: answer, err: err}
	}
}

// View renders the TUI
func (m Model) View() string {
	if !m.ready {
		return loadingStyle.Render("  Initializing...")
	}

	contentWidth := m.width - 4
	var sections []string

	header := lipgloss.JoinVertical(
		lipgloss.Left,
		titleStyle.Render(models.AppTitle),
		captionStyle.Render(models.AppCaption),
	)
	sections = append(sections, headerStyle.Width(contentWidth).Render(header))

	messagesContent := m.viewport.View()
	if m.session.Len() == 0 {
		messagesContent = m.renderWelcome()
	}
	sections = append(sections, messagesAreaStyle.
		Width(contentWidth).
		Height(m.viewport.Height).
		Render(messagesContent))

	var inputContent string
	if m.loading {
		inputContent = m.renderLoadingAnimation()
	} else {
		inputContent = lipgloss.JoinVertical(
			lipgloss.Left,
			inputLabelStyle.Render(render.UserLabel),
			m.textarea.View(),
		)
	}
	sections = append(sections, inputPanelStyle.Width(contentWidth).Render(inputContent))

	if m.lastErr != nil {
		sections = append(sections, FormatFailure(m.lastErr))
	}

	sections = append(sections, m.renderStatusBar(contentWidth))

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m Model) renderWelcome() string {
	width := m.viewport.Width - 4
	height := m.viewport.Height

	content := lipgloss.JoinVertical(
		lipgloss.Center,
		welcomeIconStyle.Width(width).Render("✈"),
		"",
		welcomeTitleStyle.Width(width).Render("Welcome aboard"),
		"",
		welcomeStyle.Width(width).Render(models.AppCaption),
	)

	topPadding := (height - lipgloss.Height(content)) / 2
	if topPadding < 0 {
		topPadding = 0
	}

	return strings.Repeat("\n", topPadding) + content
}

func (m Model) renderLoadingAnimation() string {
	chars := []string{"⣾", "⣽", "⣻", "⢿", "⡿", "⣟", "⣯", "⣷"}
	frame := m.animationFrame

	spin := lipgloss.NewStyle().
		Foreground(gradientColors[frame%len(gradientColors)]).
		Bold(true).
		Render(chars[frame%len(chars)])

	// A plane crossing a short runway
	const runway = 20
	pos := frame % runway
	var track strings.Builder
	for i := 0; i < runway; i++ {
		style := lipgloss.NewStyle().Foreground(gradientColors[(i+frame)%len(gradientColors)])
		if i == pos {
			track.WriteString(style.Bold(true).Render("✈"))
			continue
		}
		track.WriteString(style.Render("·"))
	}

	text := lipgloss.NewStyle().Foreground(colorText).Render(" Contacting airline service...")

	return fmt.Sprintf("%s %s%s", spin, track.String(), text)
}

func (m Model) renderStatusBar(width int) string {
	shortcuts := []struct {
		key  string
		desc string
	}{
		{"Enter", "Send"},
		{"Esc", "Quit"},
		{"↑↓", "Scroll"},
	}

	var items []string
	for _, s := range shortcuts {
		items = append(items, statusKeyStyle.Render(s.key)+statusDescStyle.Render(" "+s.desc))
	}

	bar := strings.Join(items, statusDescStyle.Render("  │  "))
	if n := m.session.Len(); n > 0 {
		bar += statusDescStyle.Render(fmt.Sprintf("  │  %d messages", n))
	}
	return statusBarStyle.Width(width).Align(lipgloss.Center).Render(bar)
}

// updateViewport re-renders the whole transcript into the viewport
func (m *Model) updateViewport() {
	width := m.viewport.Width - 4
	if width < 20 {
		width = 20
	}
	m.viewport.SetContent(render.Transcript(m.session.Messages(), m.opts.WithWidth(width)))
}

// RunChat starts the chat TUI on the alternate screen and blocks until the
// user quits.
func RunChat(ctx context.Context, session *chat.Session, opts render.Options) error {
	m := NewChatModel(ctx, session, opts)

	p := tea.NewProgram(
		m,
		tea.WithAltScreen(),
		tea.WithContext(ctx),
	)

	_, err := p.Run()
	if err != nil && ctx.Err() != nil {
		// Interrupted by the caller's context
		return nil
	}
	return err
}
