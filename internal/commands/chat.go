package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"github.com/diogo/airchat/internal/chat"
	"github.com/diogo/airchat/internal/config"
	"github.com/diogo/airchat/internal/render"
	"github.com/diogo/airchat/internal/tui"
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Start an interactive chat session",
	Long: `Start an interactive chat session with the airline assistant.

The transcript lives for the length of the session.
Type 'exit', 'quit', or press Esc or Ctrl+C to end it.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := effectiveConfig(cmd)
		if err != nil {
			return err
		}
		return runChat(cmd.Context(), deps, cfg)
	},
}

func runChat(ctx context.Context, d *Dependencies, cfg config.Config) error {
	if cfg.TUITheme != "" && !render.SetTUITheme(cfg.TUITheme) {
		verbosef(d.Stderr, cfg, "Unknown TUI theme %q (available: %s), using %s",
			cfg.TUITheme, strings.Join(render.TUIThemeNames(), ", "), render.GetTUITheme().Name)
	}
	tui.UpdateTheme()

	verbosef(d.Stderr, cfg, "Endpoint: %s", cfg.Endpoint)
	verbosef(d.Stderr, cfg, "Markdown style: %s", describeStyle(cfg.Markdown.Style))

	// The chat screen owns the terminal, so the client never logs
	client, err := d.NewClient(cfg, slog.New(slog.NewTextHandler(io.Discard, nil)))
	if err != nil {
		return fmt.Errorf("failed to create client: %w", err)
	}
	defer client.Close()

	session := chat.NewSession(client)
	if err := d.TUI.RunChat(ctx, session, render.OptionsFromConfig(cfg)); err != nil {
		return fmt.Errorf("chat failed: %w", err)
	}

	verbosef(d.Stderr, cfg, "Session %s ended with %d messages", session.ID(), session.Len())
	return nil
}
