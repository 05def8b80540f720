package commands

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/diogo/airchat/internal/config"
	"github.com/diogo/airchat/internal/render"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show the effective configuration",
	Long: `Print the configuration airchat would run with: defaults, then
~/.airchat/config.json, then .env and AIRCHAT_* environment variables,
then command-line flags.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := effectiveConfig(cmd)
		if err != nil {
			return err
		}

		path, err := config.GetConfigPath()
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		status := "not found, using defaults"
		if _, err := os.Stat(path); err == nil {
			status = "loaded"
		}
		fmt.Fprintf(out, "# %s (%s)\n", path, status)

		data, err := json.MarshalIndent(cfg, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal config: %w", err)
		}
		fmt.Fprintln(out, string(data))
		return nil
	},
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write the default configuration file",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := config.GetConfigPath()
		if err != nil {
			return err
		}

		force, _ := cmd.Flags().GetBool("force")
		if _, err := os.Stat(path); err == nil && !force {
			return fmt.Errorf("%s already exists (use --force to overwrite)", path)
		}

		if err := config.SaveConfig(config.DefaultConfig()); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", path)
		return nil
	},
}

var configThemesCmd = &cobra.Command{
	Use:   "themes",
	Short: "List markdown styles and TUI themes",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()

		fmt.Fprintln(out, "Markdown styles (markdown.style, GLAMOUR_STYLE):")
		for _, s := range render.AvailableStyles() {
			fmt.Fprintf(out, "  %-12s %s\n", s.Name, s.Description)
		}

		fmt.Fprintln(out, "\nTUI themes (tui_theme):")
		for _, t := range render.AvailableTUIThemes() {
			fmt.Fprintf(out, "  %-12s %s\n", t.Name, t.Description)
		}
		return nil
	},
}

func init() {
	configInitCmd.Flags().Bool("force", false, "Overwrite an existing config file")
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configThemesCmd)
}
