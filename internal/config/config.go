// Package config provides application configuration.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Config holds all client configuration.
type Config struct {
	// APIURL is the backend base URL, without a trailing slash.
	APIURL string
	// DataDir holds persisted client state (the session token).
	DataDir string
	// LogFile receives slog output; the terminal itself belongs to the TUI.
	LogFile string
	// Debug lowers the log level to debug.
	Debug bool
}

// Load reads configuration from environment variables, falling back to the
// user config directory for client state.
func Load() (*Config, error) {
	dataDir := getEnv("BOTFORGE_DATA_DIR", "")
	if dataDir == "" {
		base, err := os.UserConfigDir()
		if err != nil {
			// Last resort: a dot-directory next to the binary.
			base = "."
		}
		dataDir = filepath.Join(base, "botforge")
	}

	cfg := &Config{
		APIURL:  strings.TrimRight(getEnv("BOTFORGE_API_URL", "http://localhost:8001"), "/"),
		DataDir: dataDir,
		LogFile: getEnv("BOTFORGE_LOG_FILE", filepath.Join(dataDir, "botforge.log")),
		Debug:   getEnvBool("BOTFORGE_DEBUG", false),
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// Validate checks that all required configuration fields are set.
func (c *Config) Validate() error {
	if c.APIURL == "" {
		return fmt.Errorf("BOTFORGE_API_URL cannot be empty")
	}
	if !strings.HasPrefix(c.APIURL, "http://") && !strings.HasPrefix(c.APIURL, "https://") {
		return fmt.Errorf("BOTFORGE_API_URL must be an http(s) URL, got %q", c.APIURL)
	}
	if c.DataDir == "" {
		return fmt.Errorf("BOTFORGE_DATA_DIR cannot be empty")
	}
	return nil
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	value, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "1", "true", "yes", "on":
		return true
	case "0", "false", "no", "off":
		return false
	default:
		return fallback
	}
}
