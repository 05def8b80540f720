package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Environment variables that override the config file
const (
	EnvEndpoint   = "AIRCHAT_ENDPOINT"
	EnvTimeout    = "AIRCHAT_TIMEOUT"
	EnvAddr       = "AIRCHAT_ADDR"
	EnvVerbose    = "AIRCHAT_VERBOSE"
	EnvSessionTTL = "AIRCHAT_SESSION_TTL"
	EnvMaxConns   = "AIRCHAT_MAX_CONNS"
	EnvStyle      = "GLAMOUR_STYLE"
)

// LoadDotEnv loads variables from the given .env files (".env" when none are
// given). Missing files are not an error; variables already set win.
func LoadDotEnv(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{".env"}
	}

	for _, path := range paths {
		if err := godotenv.Load(path); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return fmt.Errorf("failed to load %s: %w", path, err)
		}
	}
	return nil
}

// ApplyEnv overrides cfg with values from the environment
func ApplyEnv(cfg *Config) error {
	if endpoint := getEnv(EnvEndpoint); endpoint != "" {
		cfg.Endpoint = endpoint
	}

	if timeout, err := parseOptionalIntEnv(EnvTimeout); err != nil {
		return err
	} else if timeout != nil {
		cfg.TimeoutSeconds = *timeout
	}

	if addr := getEnv(EnvAddr); addr != "" {
		cfg.Server.Addr = normalizeAddr(addr)
	}

	verbose, err := parseBoolEnv(EnvVerbose, cfg.Verbose)
	if err != nil {
		return err
	}
	cfg.Verbose = verbose

	if ttl, err := parseOptionalIntEnv(EnvSessionTTL); err != nil {
		return err
	} else if ttl != nil {
		cfg.Server.SessionTTLMinutes = *ttl
	}

	if maxConns, err := parseOptionalIntEnv(EnvMaxConns); err != nil {
		return err
	} else if maxConns != nil {
		cfg.Server.MaxConns = *maxConns
	}

	if style := getEnv(EnvStyle); style != "" {
		cfg.Markdown.Style = style
	}

	return nil
}

// normalizeAddr accepts "8080", ":8080" or "host:8080"
func normalizeAddr(addr string) string {
	if strings.Contains(addr, ":") {
		return addr
	}
	return ":" + addr
}

func getEnv(key string) string {
	return strings.TrimSpace(os.Getenv(key))
}

func parseBoolEnv(key string, defaultValue bool) (bool, error) {
	raw := getEnv(key)
	if raw == "" {
		return defaultValue, nil
	}

	val, err := strconv.ParseBool(raw)
	if err != nil {
		return false, fmt.Errorf("invalid %s value %q: %w", key, raw, err)
	}
	return val, nil
}

func parseOptionalIntEnv(key string) (*int, error) {
	value := getEnv(key)
	if value == "" {
		return nil, nil
	}

	val, err := strconv.Atoi(value)
	if err != nil {
		return nil, fmt.Errorf("invalid %s value %q: %w", key, value, err)
	}
	return &val, nil
}
