package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"github.com/diogo/airchat/internal/chat"
	"github.com/diogo/airchat/internal/config"
	"github.com/diogo/airchat/internal/web"
)

var (
	addrFlag         string
	secureCookieFlag bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the browser chat page",
	Long: `Serve the airline assistant as a web page.

Each browser gets its own transcript, kept in memory until it has been
idle for the configured session TTL. Logs are JSON on stdout.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := effectiveConfig(cmd)
		if err != nil {
			return err
		}
		if cmd.Flags().Changed("addr") {
			cfg.Server.Addr = addrFlag
		}
		return runServe(cmd.Context(), deps, cfg)
	},
}

func init() {
	serveCmd.Flags().StringVar(&addrFlag, "addr", "", "Listen address (default :8501)")
	serveCmd.Flags().BoolVar(&secureCookieFlag, "secure-cookies", false, "Mark the session cookie Secure (HTTPS only)")
}

// newServerLogger returns the JSON logger used by `airchat serve`
func newServerLogger(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level}))
}

// janitorInterval sweeps a few times per TTL, at most once a minute
func janitorInterval(ttl time.Duration) time.Duration {
	if ttl <= 0 {
		return 0
	}
	interval := ttl / 4
	if interval < time.Minute {
		interval = time.Minute
	}
	return interval
}

func runServe(ctx context.Context, d *Dependencies, cfg config.Config) error {
	logger := newServerLogger(d.Stdout, cfg.Verbose)
	slog.SetDefault(logger)

	client, err := d.NewClient(cfg, logger.With("component", "airline_client"))
	if err != nil {
		return fmt.Errorf("failed to create client: %w", err)
	}
	defer client.Close()

	ttl := cfg.SessionTTL()
	store := chat.NewStore(func() *chat.Session { return chat.NewSession(client) }, ttl)

	srv := web.NewServer(store,
		web.WithLogger(logger),
		web.WithSecureCookies(secureCookieFlag),
	)

	logger.Info("starting airchat server",
		"version", Version,
		"endpoint", client.Endpoint(),
		"timeout", cfg.Timeout().String(),
		"session_ttl", ttl.String(),
	)

	return srv.ListenAndServe(ctx, web.ServeOptions{
		Addr:            cfg.Server.Addr,
		MaxConns:        cfg.Server.MaxConns,
		JanitorInterval: janitorInterval(ttl),
	})
}
