package render

import (
	"github.com/diogo/airchat/internal/config"
)

// OptionsFromConfig builds render options from the effective configuration.
// GLAMOUR_STYLE has already been folded into cfg by config.ApplyEnv.
func OptionsFromConfig(cfg config.Config) Options {
	opts := DefaultOptions()

	md := cfg.Markdown
	if md.Style != "" {
		opts = opts.WithStyle(md.Style)
	}
	opts.EnableEmoji = md.EnableEmoji
	opts.PreserveNewLines = md.PreserveNewLines
	opts.TableWrap = md.TableWrap
	opts.InlineTableLinks = md.InlineTableLinks

	return opts
}

// OptionsFromConfigWithWidth is OptionsFromConfig at a specific width.
func OptionsFromConfigWithWidth(cfg config.Config, width int) Options {
	return OptionsFromConfig(cfg).WithWidth(width)
}
