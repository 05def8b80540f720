package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/diogo/airchat/internal/api"
	"github.com/diogo/airchat/internal/chat"
	"github.com/diogo/airchat/internal/config"
	"github.com/diogo/airchat/internal/render"
	"github.com/diogo/airchat/internal/tui"
)

// TUIInterface defines the methods required from the TUI package.
type TUIInterface interface {
	RunChat(ctx context.Context, session *chat.Session, opts render.Options) error
}

// ClientFactory builds the airline service client for a command run.
type ClientFactory func(cfg config.Config, logger *slog.Logger) (api.AirlineClientInterface, error)

// Dependencies holds the external dependencies for the commands.
// Tests swap in a mock client and TUI.
type Dependencies struct {
	NewClient ClientFactory
	TUI       TUIInterface

	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer

	// IsTTY reports whether stdout is a terminal
	IsTTY func() bool
	// StdinPiped reports whether stdin carries input
	StdinPiped func() bool
}

// DefaultTUI is the production implementation of TUIInterface.
type DefaultTUI struct{}

func (d *DefaultTUI) RunChat(ctx context.Context, session *chat.Session, opts render.Options) error {
	return tui.RunChat(ctx, session, opts)
}

// NewDependencies creates a Dependencies struct with default implementations.
func NewDependencies() *Dependencies {
	return &Dependencies{
		NewClient:  newAirlineClient,
		TUI:        &DefaultTUI{},
		Stdin:      os.Stdin,
		Stdout:     os.Stdout,
		Stderr:     os.Stderr,
		IsTTY:      isStdoutTTY,
		StdinPiped: isStdinPiped,
	}
}

func newAirlineClient(cfg config.Config, logger *slog.Logger) (api.AirlineClientInterface, error) {
	return api.NewClient(
		api.WithEndpoint(cfg.Endpoint),
		api.WithTimeout(cfg.Timeout()),
		api.WithLogger(logger),
	)
}

// verbosef prints a [verbose] diagnostic line when enabled
func verbosef(w io.Writer, cfg config.Config, format string, args ...interface{}) {
	if !cfg.Verbose {
		return
	}
	fmt.Fprintf(w, "[verbose] "+format+"\n", args...)
}

// describeStyle names a markdown style for diagnostics, flagging style files
func describeStyle(style string) string {
	if style == "" {
		style = render.StyleDark
	}
	if render.IsBuiltinStyle(style) {
		return style
	}
	return style + " (style file)"
}
