// Package config handles configuration loading for airchat.
package config

import (
	"encoding/json"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"github.com/diogo/airchat/internal/models"
)

// MarkdownConfig configures markdown rendering options
type MarkdownConfig struct {
	Style            string `json:"style"`              // "dark", "light", "dracula", "notty", "ascii"
	EnableEmoji      bool   `json:"enable_emoji"`       // Convert :emoji: to unicode
	PreserveNewLines bool   `json:"preserve_newlines"`  // Preserve original line breaks
	TableWrap        bool   `json:"table_wrap"`         // Enable word wrap in table cells
	InlineTableLinks bool   `json:"inline_table_links"` // Render links inline in tables
}

// ServerConfig configures the browser chat surface
type ServerConfig struct {
	Addr string `json:"addr"`
	// SessionTTLMinutes drops browser sessions idle for longer. 0 keeps them
	// for the life of the process.
	SessionTTLMinutes int `json:"session_ttl_minutes"`
	// MaxConns caps concurrent connections. 0 means unlimited.
	MaxConns int `json:"max_conns"`
}

// Config represents the user configuration
type Config struct {
	// Endpoint is the airline service URL.
	Endpoint string `json:"endpoint"`
	// TimeoutSeconds bounds each service call.
	TimeoutSeconds int `json:"timeout_seconds"`
	// Verbose enables [verbose] diagnostics on stderr for terminal commands
	// and debug-level logs for the server.
	Verbose         bool           `json:"verbose"`
	CopyToClipboard bool           `json:"copy_to_clipboard"`
	TUITheme        string         `json:"tui_theme,omitempty"`
	Markdown        MarkdownConfig `json:"markdown,omitempty"`
	Server          ServerConfig   `json:"server"`
}

// DefaultMarkdownConfig returns the default markdown configuration
func DefaultMarkdownConfig() MarkdownConfig {
	return MarkdownConfig{
		Style:            "dark",
		EnableEmoji:      true,
		PreserveNewLines: true,
		TableWrap:        true,
		InlineTableLinks: false,
	}
}

// DefaultConfig returns the default configuration
func DefaultConfig() Config {
	return Config{
		Endpoint:        models.EndpointChat,
		TimeoutSeconds:  int(models.DefaultTimeout / time.Second),
		Verbose:         false,
		CopyToClipboard: false,
		TUITheme:        "tokyonight",
		Markdown:        DefaultMarkdownConfig(),
		Server: ServerConfig{
			Addr:              ":8501",
			SessionTTLMinutes: 60,
			MaxConns:          256,
		},
	}
}

// Timeout returns the per-call timeout as a duration
func (c Config) Timeout() time.Duration {
	if c.TimeoutSeconds <= 0 {
		return models.DefaultTimeout
	}
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// SessionTTL returns the browser session idle timeout
func (c Config) SessionTTL() time.Duration {
	if c.Server.SessionTTLMinutes <= 0 {
		return 0
	}
	return time.Duration(c.Server.SessionTTLMinutes) * time.Minute
}

// Validate checks values that would make every service call fail
func (c Config) Validate() error {
	u, err := url.Parse(c.Endpoint)
	if err != nil {
		return fmt.Errorf("invalid endpoint %q: %w", c.Endpoint, err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("invalid endpoint %q: must be an absolute http(s) URL", c.Endpoint)
	}
	if c.TimeoutSeconds < 0 {
		return fmt.Errorf("invalid timeout %d: must not be negative", c.TimeoutSeconds)
	}
	if c.Server.MaxConns < 0 {
		return fmt.Errorf("invalid max_conns %d: must not be negative", c.Server.MaxConns)
	}
	return nil
}

// GetConfigDir returns the configuration directory path
func GetConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}

	return filepath.Join(home, ".airchat"), nil
}

// EnsureConfigDir creates the configuration directory if it doesn't exist
func EnsureConfigDir() (string, error) {
	configDir, err := GetConfigDir()
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(configDir, 0o700); err != nil {
		return "", fmt.Errorf("failed to create config directory: %w", err)
	}

	return configDir, nil
}

// GetConfigPath returns the path to the config file
func GetConfigPath() (string, error) {
	configDir, err := GetConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "config.json"), nil
}

// LoadConfig loads the configuration from disk
func LoadConfig() (Config, error) {
	cfg := DefaultConfig()

	configPath, err := GetConfigPath()
	if err != nil {
		return cfg, err
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil // Use defaults if config doesn't exist
		}
		return cfg, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := json.Unmarshal(data, &cfg); err != nil {
		return DefaultConfig(), fmt.Errorf("failed to parse config file: %w", err)
	}

	return cfg, nil
}

// Load returns the effective configuration: defaults, then the config file,
// then environment overrides.
func Load() (Config, error) {
	cfg, err := LoadConfig()
	if err != nil {
		return cfg, err
	}

	if err := ApplyEnv(&cfg); err != nil {
		return cfg, err
	}

	return cfg, cfg.Validate()
}

// SaveConfig saves the configuration to disk
func SaveConfig(cfg Config) error {
	configDir, err := EnsureConfigDir()
	if err != nil {
		return err
	}

	configPath := filepath.Join(configDir, "config.json")

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(configPath, data, 0o600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}
