package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/diogo/airchat/internal/models"
)

// isolateHome points HOME at a temp dir and clears overrides
func isolateHome(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	for _, key := range []string{EnvEndpoint, EnvTimeout, EnvAddr, EnvVerbose, EnvSessionTTL, EnvMaxConns, EnvStyle} {
		t.Setenv(key, "")
	}
	return home
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Endpoint != models.EndpointChat {
		t.Errorf("Expected endpoint %s, got %s", models.EndpointChat, cfg.Endpoint)
	}
	if cfg.TimeoutSeconds != 30 {
		t.Errorf("Expected TimeoutSeconds to be 30, got %d", cfg.TimeoutSeconds)
	}
	if cfg.Timeout() != 30*time.Second {
		t.Errorf("Expected Timeout() to be 30s, got %v", cfg.Timeout())
	}
	if cfg.Verbose {
		t.Error("Expected Verbose to be false")
	}
	if cfg.Markdown.Style != "dark" {
		t.Errorf("Expected markdown style dark, got %s", cfg.Markdown.Style)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("DefaultConfig().Validate() = %v", err)
	}
}

func TestGetConfigPath(t *testing.T) {
	home := isolateHome(t)

	path, err := GetConfigPath()
	if err != nil {
		t.Fatalf("GetConfigPath() returned error: %v", err)
	}
	if path != filepath.Join(home, ".airchat", "config.json") {
		t.Errorf("GetConfigPath() = %s", path)
	}
}

func TestLoadConfig_FileNotExists(t *testing.T) {
	isolateHome(t)

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig() returned error: %v", err)
	}
	if cfg.Endpoint != models.EndpointChat {
		t.Errorf("Expected default endpoint, got %s", cfg.Endpoint)
	}
}

func TestSaveAndLoadConfig(t *testing.T) {
	isolateHome(t)

	cfg := DefaultConfig()
	cfg.Endpoint = "http://localhost:9000/chat"
	cfg.TimeoutSeconds = 5
	cfg.CopyToClipboard = true

	if err := SaveConfig(cfg); err != nil {
		t.Fatalf("SaveConfig() returned error: %v", err)
	}

	path, _ := GetConfigPath()
	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("config file not written: %v", err)
	}
	if info.Mode().Perm() != 0o600 {
		t.Errorf("config file mode = %v, want 0600", info.Mode().Perm())
	}

	loaded, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig() returned error: %v", err)
	}
	if loaded.Endpoint != cfg.Endpoint || loaded.TimeoutSeconds != 5 || !loaded.CopyToClipboard {
		t.Errorf("LoadConfig() = %+v", loaded)
	}
}

func TestLoadConfig_PartialFileKeepsDefaults(t *testing.T) {
	isolateHome(t)

	dir, err := EnsureConfigDir()
	if err != nil {
		t.Fatalf("EnsureConfigDir() returned error: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "config.json"), []byte(`{"verbose": true}`), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig() returned error: %v", err)
	}
	if !cfg.Verbose {
		t.Error("Expected Verbose from file")
	}
	if cfg.TimeoutSeconds != 30 || cfg.Endpoint != models.EndpointChat {
		t.Errorf("Expected defaults for unset fields, got %+v", cfg)
	}
}

func TestLoadConfig_InvalidJSON(t *testing.T) {
	isolateHome(t)

	dir, _ := EnsureConfigDir()
	if err := os.WriteFile(filepath.Join(dir, "config.json"), []byte(`{not json`), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfig()
	if err == nil {
		t.Error("Expected parse error")
	}
	if cfg.Endpoint != models.EndpointChat {
		t.Error("Expected defaults on parse error")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"defaults", func(c *Config) {}, false},
		{"http endpoint", func(c *Config) { c.Endpoint = "http://127.0.0.1:8080/chat" }, false},
		{"relative endpoint", func(c *Config) { c.Endpoint = "/chat" }, true},
		{"ftp endpoint", func(c *Config) { c.Endpoint = "ftp://host/chat" }, true},
		{"negative timeout", func(c *Config) { c.TimeoutSeconds = -1 }, true},
		{"negative max conns", func(c *Config) { c.Server.MaxConns = -1 }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			if err := cfg.Validate(); (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestSessionTTL(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.SessionTTL() != time.Hour {
		t.Errorf("SessionTTL() = %v, want 1h", cfg.SessionTTL())
	}
	cfg.Server.SessionTTLMinutes = 0
	if cfg.SessionTTL() != 0 {
		t.Errorf("SessionTTL() = %v, want 0", cfg.SessionTTL())
	}
}
