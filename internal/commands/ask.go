package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/diogo/airchat/internal/chat"
	"github.com/diogo/airchat/internal/config"
	apierrors "github.com/diogo/airchat/internal/errors"
	"github.com/diogo/airchat/internal/render"
	"github.com/diogo/airchat/internal/tui"
)

// Gradient colors for animation
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

var (
	colorText     = lipgloss.Color("#c0caf5")
	colorTextMute = lipgloss.Color("#3b4261")
	colorSuccess  = lipgloss.Color("#9ece6a")
	colorWarn     = lipgloss.Color("#f7768e")
	colorPrimary  = lipgloss.Color("#7aa2f7")
)

var assistantBubbleStyle = lipgloss.NewStyle().
	BorderStyle(lipgloss.RoundedBorder()).
	BorderForeground(colorPrimary).
	Padding(0, 1).
	MarginBottom(1)

// askOptions are the flags shared by `airchat ask` and the root command
type askOptions struct {
	file   string
	output string
	copy   bool
	strict bool
	raw    bool
}

func addAskFlags(cmd *cobra.Command, opts *askOptions) {
	cmd.Flags().StringVarP(&opts.file, "file", "f", "", "Read the question from a file")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "Save the reply to a file")
	cmd.Flags().BoolVar(&opts.copy, "copy", false, "Copy the reply to the clipboard")
	cmd.Flags().BoolVar(&opts.strict, "strict", false, "Exit with status 1 when the service call fails")
	cmd.Flags().BoolVar(&opts.raw, "raw", false, "Print only the reply text")
}

var askOpts askOptions

var askCmd = &cobra.Command{
	Use:   "ask [question]",
	Short: "Ask a single question",
	Long: `Ask the airline assistant one question and print the reply.

The question comes from the argument, --file, or stdin. A failed service
call is printed as the reply; use --strict to turn it into a non-zero exit.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := effectiveConfig(cmd)
		if err != nil {
			return err
		}

		question, err := readQuestion(args, askOpts.file, deps.Stdin, deps.StdinPiped())
		if err != nil {
			return err
		}
		return runAsk(cmd.Context(), deps, cfg, question, askOpts)
	},
}

func init() {
	addAskFlags(askCmd, &askOpts)
}

// readQuestion picks the question from --file, then the argument, then piped
// stdin. Surrounding whitespace is trimmed; blank input is an error.
func readQuestion(args []string, file string, stdin io.Reader, stdinPiped bool) (string, error) {
	var raw string

	switch {
	case file != "":
		data, err := os.ReadFile(file)
		if err != nil {
			return "", fmt.Errorf("failed to read file: %w", err)
		}
		raw = string(data)
	case len(args) > 0:
		raw = args[0]
	case stdinPiped:
		data, err := io.ReadAll(stdin)
		if err != nil {
			return "", fmt.Errorf("failed to read stdin: %w", err)
		}
		raw = string(data)
	}

	question := strings.TrimSpace(raw)
	if question == "" {
		return "", apierrors.ErrEmptyQuestion
	}
	return question, nil
}

// runAsk runs one turn on a fresh session and prints the reply
func runAsk(ctx context.Context, d *Dependencies, cfg config.Config, question string, opts askOptions) error {
	tty := d.IsTTY() && !opts.raw

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	if cfg.Verbose {
		logger = slog.New(slog.NewTextHandler(d.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
	}

	client, err := d.NewClient(cfg, logger)
	if err != nil {
		return fmt.Errorf("failed to create client: %w", err)
	}
	defer client.Close()

	verbosef(d.Stderr, cfg, "Endpoint: %s", client.Endpoint())
	verbosef(d.Stderr, cfg, "Timeout: %s", cfg.Timeout())
	if tty {
		verbosef(d.Stderr, cfg, "Markdown style: %s", describeStyle(cfg.Markdown.Style))
	}

	session := chat.NewSession(client)

	var spin *spinner
	if tty {
		spin = newSpinner(d.Stderr, "Contacting airline service")
		spin.start()
	}

	start := time.Now()
	session.AddQuestion(question)
	answer, askErr := session.Ask(ctx, question)
	reply := session.AddReply(answer, askErr)

	if spin != nil {
		if askErr != nil {
			spin.stopWithError()
		} else {
			spin.stopWithSuccess("Done")
		}
	}

	verbosef(d.Stderr, cfg, "Request took %s", time.Since(start).Round(time.Millisecond))
	if askErr != nil && cfg.Verbose {
		fmt.Fprintln(d.Stderr, tui.FormatFailure(askErr))
	}

	if err := writeReply(d, cfg, reply.Content, opts, tty); err != nil {
		return err
	}

	if opts.strict && askErr != nil {
		return fmt.Errorf("service call failed: %w", askErr)
	}
	return nil
}

// writeReply sends the reply to the clipboard, a file, or stdout
func writeReply(d *Dependencies, cfg config.Config, text string, opts askOptions, tty bool) error {
	if tty && (opts.copy || cfg.CopyToClipboard) {
		if err := clipboard.WriteAll(text); err != nil {
			fmt.Fprintln(d.Stderr, lipgloss.NewStyle().Foreground(colorWarn).Render(
				fmt.Sprintf("⚠ Failed to copy to clipboard: %v", err),
			))
		} else {
			fmt.Fprintln(d.Stderr, lipgloss.NewStyle().Foreground(colorSuccess).Render("✓ Copied to clipboard"))
		}
	}

	if opts.output != "" {
		if err := os.WriteFile(opts.output, []byte(text), 0o644); err != nil {
			return fmt.Errorf("failed to write output file: %w", err)
		}
		if tty {
			fmt.Fprintln(d.Stderr, lipgloss.NewStyle().Foreground(colorSuccess).Render(
				fmt.Sprintf("✓ Reply saved to %s", opts.output),
			))
		}
		return nil
	}

	if !tty {
		_, err := fmt.Fprintln(d.Stdout, text)
		return err
	}

	bubbleWidth := getTerminalWidth() - 4
	if bubbleWidth < 40 {
		bubbleWidth = 40
	}
	if bubbleWidth > 120 {
		bubbleWidth = 120
	}

	fmt.Fprintln(d.Stdout, lipgloss.NewStyle().Foreground(colorPrimary).Bold(true).Render(render.AssistantLabel))
	rendered, err := render.Markdown(text, render.OptionsFromConfigWithWidth(cfg, bubbleWidth-4))
	if err != nil {
		rendered = text
	}
	_, err = fmt.Fprintln(d.Stdout, assistantBubbleStyle.Width(bubbleWidth).Render(strings.TrimRight(rendered, "\n")))
	return err
}

// spinner draws an animated loading line on w until stopped
type spinner struct {
	w       io.Writer
	message string
	stop    chan struct{}
	done    chan struct{}
	mu      sync.Mutex
	frame   int
	stopped bool
}

func newSpinner(w io.Writer, message string) *spinner {
	return &spinner{
		w:       w,
		message: message,
		stop:    make(chan struct{}),
		done:    make(chan struct{}),
	}
}

func (s *spinner) start() {
	go func() {
		defer close(s.done)

		ticker := time.NewTicker(80 * time.Millisecond)
		defer ticker.Stop()

		// Hide cursor
		fmt.Fprint(s.w, "\033[?25l")

		for {
			select {
			case <-s.stop:
				// Clear line and show cursor
				fmt.Fprint(s.w, "\r\033[K\033[?25h")
				return
			case <-ticker.C:
				s.mu.Lock()
				s.render()
				s.frame++
				s.mu.Unlock()
			}
		}
	}()
}

func (s *spinner) render() {
	chars := []string{"⣾", "⣽", "⣻", "⢿", "⡿", "⣟", "⣯", "⣷"}

	spinColor := gradientColors[s.frame%len(gradientColors)]
	spinnerChar := lipgloss.NewStyle().Foreground(spinColor).Bold(true).Render(chars[s.frame%len(chars)])

	var dots strings.Builder
	numDots := (s.frame / 3) % 4
	for i := 0; i < 3; i++ {
		if i < numDots {
			dotColor := gradientColors[(s.frame+i)%len(gradientColors)]
			dots.WriteString(lipgloss.NewStyle().Foreground(dotColor).Render("●"))
		} else {
			dots.WriteString(lipgloss.NewStyle().Foreground(colorTextMute).Render("○"))
		}
	}

	msg := lipgloss.NewStyle().Foreground(colorText).Render(s.message)
	fmt.Fprintf(s.w, "\r\033[K%s %s %s", spinnerChar, msg, dots.String())
}

func (s *spinner) stopOnce() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.stopped {
		close(s.stop)
		s.stopped = true
	}
}

func (s *spinner) stopWithSuccess(message string) {
	s.stopOnce()
	<-s.done

	checkmark := lipgloss.NewStyle().Foreground(colorSuccess).Bold(true).Render("✓")
	fmt.Fprintf(s.w, "%s %s\n", checkmark, lipgloss.NewStyle().Foreground(colorSuccess).Render(message))
}

func (s *spinner) stopWithError() {
	s.stopOnce()
	<-s.done
}

// getTerminalWidth returns the terminal width or a default value
func getTerminalWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		return 80
	}
	return width
}

// isStdoutTTY returns true if stdout is connected to a terminal
func isStdoutTTY() bool {
	return term.IsTerminal(int(os.Stdout.Fd()))
}

// isStdinPiped returns true if stdin is a pipe or file rather than a terminal
func isStdinPiped() bool {
	return !term.IsTerminal(int(os.Stdin.Fd()))
}
