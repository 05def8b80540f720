// Package commands provides CLI commands for airchat.
package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/diogo/airchat/internal/config"
	"github.com/diogo/airchat/internal/models"
)

var (
	// Global flags
	endpointFlag string
	timeoutFlag  int
	envFileFlag  string
	verboseFlag  bool

	// Version info (set at build time)
	Version   = models.Version
	BuildTime = "unknown"

	deps = NewDependencies()
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "airchat [question]",
	Short: "Chat with the airline assistant",
	Long: `airchat is a chat client for the airline question-answering service.
Ask about flights, delays, routes, and dates from the terminal or a browser.

Examples:
  airchat                               Start interactive chat
  airchat "Is AI202 delayed?"           Ask a single question
  airchat -f question.txt               Read the question from a file
  echo "Flights to Pune?" | airchat     Read the question from stdin
  airchat serve --addr :8501            Serve the browser chat page
  airchat config                        Show the effective configuration`,
	Args:          cobra.MaximumNArgs(1),
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		if v, _ := cmd.Flags().GetBool("version"); v {
			fmt.Fprintf(cmd.OutOrStdout(), "airchat %s (built %s)\n", Version, BuildTime)
			return nil
		}

		cfg, err := effectiveConfig(cmd)
		if err != nil {
			return err
		}

		// Nothing to ask and nothing piped in: open the chat screen
		if len(args) == 0 && rootAskOpts.file == "" && !deps.StdinPiped() {
			if !deps.IsTTY() {
				return cmd.Help()
			}
			return runChat(cmd.Context(), deps, cfg)
		}

		question, err := readQuestion(args, rootAskOpts.file, deps.Stdin, deps.StdinPiped())
		if err != nil {
			return err
		}
		return runAsk(cmd.Context(), deps, cfg, question, rootAskOpts)
	},
}

var rootAskOpts askOptions

// Execute runs the root command
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		stop()
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&endpointFlag, "endpoint", "", "Airline service URL (default "+models.EndpointChat+")")
	rootCmd.PersistentFlags().IntVar(&timeoutFlag, "timeout", 0, "Service call timeout in seconds (default 30)")
	rootCmd.PersistentFlags().StringVar(&envFileFlag, "env-file", ".env", "Load environment variables from this file")
	rootCmd.PersistentFlags().BoolVar(&verboseFlag, "verbose", false, "Print diagnostics to stderr")
	rootCmd.Flags().BoolP("version", "v", false, "Show version and exit")
	addAskFlags(rootCmd, &rootAskOpts)

	rootCmd.AddCommand(chatCmd)
	rootCmd.AddCommand(askCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(configCmd)
}

// effectiveConfig loads .env, the config file and the environment, then
// applies flags the user set explicitly.
func effectiveConfig(cmd *cobra.Command) (config.Config, error) {
	if err := config.LoadDotEnv(envFileFlag); err != nil {
		return config.Config{}, err
	}

	cfg, err := config.Load()
	if err != nil {
		return cfg, fmt.Errorf("failed to load configuration: %w", err)
	}

	flags := cmd.Flags()
	if flags.Changed("endpoint") {
		cfg.Endpoint = endpointFlag
	}
	if flags.Changed("timeout") {
		cfg.TimeoutSeconds = timeoutFlag
	}
	if flags.Changed("verbose") {
		cfg.Verbose = verboseFlag
	}

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}
