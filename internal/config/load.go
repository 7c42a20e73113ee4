package config

import (
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
	"github.com/caarlos0/env/v11"
)

// flagValues captures global flags before the config file is known.
type flagValues struct {
	config        string
	store         string
	data          string
	theme         string
	logLevel      string
	logFile       string
	remoteURL     string
	remoteTimeout string
}

// Load resolves configuration from, lowest to highest precedence:
// 1. Defaults
// 2. User config file (<user config dir>/tada/tada.toml)
// 3. Project config file (./tada.toml), or the file named by -config
// 4. TADA_* environment variables
// 5. CLI flags
// It returns the config and the arguments left after global flags.
func Load(fs *flag.FlagSet, args []string) (*Config, []string, error) {
	if fs == nil {
		fs = flag.NewFlagSet("tada", flag.ContinueOnError)
	}
	var fv flagValues
	registerFlags(fs, &fv)
	if err := fs.Parse(args); err != nil {
		return nil, nil, fmt.Errorf("parsing flags: %w", err)
	}
	set := map[string]bool{}
	fs.Visit(func(f *flag.Flag) { set[f.Name] = true })

	cfg := &Config{}
	setDefaults(cfg)

	if fv.config != "" {
		if err := loadConfigFile(cfg, fv.config); err != nil {
			return nil, nil, fmt.Errorf("loading config file %s: %w", fv.config, err)
		}
	} else {
		if p := findUserConfigFile(); p != "" {
			if err := loadConfigFile(cfg, p); err != nil {
				return nil, nil, fmt.Errorf("loading user config file %s: %w", p, err)
			}
		}
		if p := findProjectConfigFile(); p != "" {
			if err := loadConfigFile(cfg, p); err != nil {
				return nil, nil, fmt.Errorf("loading project config file %s: %w", p, err)
			}
		}
	}

	if err := env.Parse(cfg); err != nil {
		return nil, nil, fmt.Errorf("parse env: %w", err)
	}

	applyFlags(cfg, &fv, set)

	if err := finalizeConfig(cfg); err != nil {
		return nil, nil, fmt.Errorf("finalizing config: %w", err)
	}
	return cfg, fs.Args(), nil
}

// registerFlags defines the global flags on fs.
func registerFlags(fs *flag.FlagSet, fv *flagValues) {
	fs.StringVar(&fv.config, "config", "", "Path to a tada.toml config file")
	fs.StringVar(&fv.store, "store", "", "Storage backend: json, sqlite or memory")
	fs.StringVar(&fv.data, "data", "", "Path to the store file")
	fs.StringVar(&fv.theme, "theme", "", "Color theme: classic, neon or mono")
	fs.StringVar(&fv.logLevel, "log-level", "", "Log level: debug, info, warn, error")
	fs.StringVar(&fv.logFile, "log-file", "", "Write logs to this file")
	fs.StringVar(&fv.remoteURL, "remote-url", "", "Remote task API URL for fetch")
	fs.StringVar(&fv.remoteTimeout, "remote-timeout", "", "Remote fetch timeout (e.g. 10s); empty waits indefinitely")
}

// applyFlags copies only the flags that were explicitly set.
func applyFlags(cfg *Config, fv *flagValues, set map[string]bool) {
	if set["store"] {
		cfg.Store = fv.store
	}
	if set["data"] {
		cfg.DataPath = fv.data
	}
	if set["theme"] {
		cfg.Theme = fv.theme
	}
	if set["log-level"] {
		cfg.LogLevel = fv.logLevel
	}
	if set["log-file"] {
		cfg.LogFile = fv.logFile
	}
	if set["remote-url"] {
		cfg.RemoteURL = fv.remoteURL
	}
	if set["remote-timeout"] {
		cfg.RemoteTimeout = fv.remoteTimeout
	}
}

func loadConfigFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("config file not found")
		}
		return err
	}
	md, err := toml.Decode(string(data), cfg)
	if err != nil {
		return err
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return fmt.Errorf("unknown config keys: %v", undecoded)
	}
	cfg.ConfigFile = path
	return nil
}
