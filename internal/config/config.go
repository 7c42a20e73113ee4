// Package config loads tada settings from defaults, a TOML file, the
// environment and command-line flags, in that order of precedence.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/log"
)

// Storage backends.
const (
	StoreJSON   = "json"
	StoreSQLite = "sqlite"
	StoreMemory = "memory"
)

// ConfigFileName is looked up in the working directory and the user
// config dir.
const ConfigFileName = "tada.toml"

// Config holds resolved settings.
type Config struct {
	// Store selects the key-value backend: json, sqlite or memory.
	Store string `toml:"store" env:"TADA_STORE"`
	// DataPath is the store file. Empty means a file under DataDir.
	DataPath string `toml:"data" env:"TADA_DATA"`
	// DataDir holds the default store and the TUI log file.
	DataDir string `toml:"data_dir" env:"TADA_DATA_DIR"`

	Theme    string `toml:"theme" env:"TADA_THEME"`
	LogLevel string `toml:"log_level" env:"TADA_LOG_LEVEL"`
	// LogFile receives logs while the TUI owns the terminal.
	LogFile string `toml:"log_file" env:"TADA_LOG_FILE"`

	RemoteURL string `toml:"remote_url" env:"TADA_REMOTE_URL"`
	// RemoteTimeout is a time.ParseDuration string; empty means none.
	RemoteTimeout string `toml:"remote_timeout" env:"TADA_REMOTE_TIMEOUT"`

	// ConfigFile is the file that was loaded, if any.
	ConfigFile string `toml:"-"`
}

// Timeout parses RemoteTimeout. Finalize has already validated it.
func (c *Config) Timeout() time.Duration {
	d, _ := time.ParseDuration(c.RemoteTimeout)
	return d
}

// Level returns the parsed log level.
func (c *Config) Level() log.Level {
	lvl, err := log.ParseLevel(c.LogLevel)
	if err != nil {
		return log.WarnLevel
	}
	return lvl
}

func setDefaults(cfg *Config) {
	cfg.Store = StoreJSON
	cfg.Theme = "classic"
	cfg.LogLevel = "warn"
}

// finalizeConfig validates values and fills derived paths.
func finalizeConfig(cfg *Config) error {
	cfg.Store = strings.ToLower(strings.TrimSpace(cfg.Store))
	switch cfg.Store {
	case StoreJSON, StoreSQLite, StoreMemory:
	default:
		return fmt.Errorf("unknown store %q, must be one of: json, sqlite, memory", cfg.Store)
	}
	if _, err := log.ParseLevel(cfg.LogLevel); err != nil {
		return fmt.Errorf("invalid log level %q: %w", cfg.LogLevel, err)
	}
	if cfg.RemoteTimeout != "" {
		d, err := time.ParseDuration(cfg.RemoteTimeout)
		if err != nil {
			return fmt.Errorf("invalid remote timeout %q: %w", cfg.RemoteTimeout, err)
		}
		if d < 0 {
			return fmt.Errorf("remote timeout must not be negative, got %s", d)
		}
	}

	cfg.DataDir = expandPath(cfg.DataDir)
	if cfg.DataDir == "" {
		cfg.DataDir = defaultDataDir()
	}
	cfg.DataPath = expandPath(cfg.DataPath)
	if cfg.DataPath == "" {
		cfg.DataPath = defaultDataPath(cfg.DataDir, cfg.Store)
	}
	cfg.LogFile = expandPath(cfg.LogFile)
	return nil
}
