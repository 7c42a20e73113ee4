package config

import (
	"os"
	"path/filepath"
	"strings"
)

// expandPath expands ~/ and environment variables.
func expandPath(p string) string {
	if p == "" {
		return p
	}
	expanded := os.ExpandEnv(p)
	if expanded == "~" || strings.HasPrefix(expanded, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return expanded
		}
		return filepath.Join(home, strings.TrimPrefix(expanded[1:], "/"))
	}
	return expanded
}

// defaultDataDir follows XDG: $XDG_DATA_HOME/tada or ~/.local/share/tada.
func defaultDataDir() string {
	if xdg := os.Getenv("XDG_DATA_HOME"); xdg != "" {
		return filepath.Join(xdg, "tada")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ".tada"
	}
	return filepath.Join(home, ".local", "share", "tada")
}

func defaultDataPath(dataDir, storeKind string) string {
	switch storeKind {
	case StoreSQLite:
		return filepath.Join(dataDir, "tada.db")
	case StoreMemory:
		return ""
	}
	return filepath.Join(dataDir, "store.json")
}

// findProjectConfigFile returns ./tada.toml when present.
func findProjectConfigFile() string {
	if fileExists(ConfigFileName) {
		return ConfigFileName
	}
	return ""
}

// findUserConfigFile returns <user config dir>/tada/tada.toml when present.
func findUserConfigFile() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	p := filepath.Join(dir, "tada", ConfigFileName)
	if fileExists(p) {
		return p
	}
	return ""
}

func fileExists(p string) bool {
	info, err := os.Stat(p)
	return err == nil && !info.IsDir()
}
