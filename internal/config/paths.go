package config

import (
	"os"
	"path/filepath"

	"projio/internal/pathutil"
)

const (
	ProjectDir        = ".projio"
	ConfigFile        = "config.toml"
	DefaultLedgerFile = ".projio/producers.jsonl"
	maxAncestorSearch = 50
)

// StateRoot returns the .projio directory for a project root.
func StateRoot(projectRoot string) string {
	return filepath.Join(projectRoot, ProjectDir)
}

// ConfigPath returns the path to config.toml for a project root.
func ConfigPath(projectRoot string) string {
	return filepath.Join(projectRoot, ProjectDir, ConfigFile)
}

// FindProjectRoot walks up from startDir looking for .projio/config.toml.
// Returns (projectRoot, true) if found, or ("", false) if not.
func FindProjectRoot(startDir string) (string, bool) {
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", false
	}
	for i := 0; i < maxAncestorSearch; i++ {
		if _, err := os.Stat(ConfigPath(dir)); err == nil {
			return dir, true
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break // reached filesystem root
		}
		dir = parent
	}
	return "", false
}

// Resolve makes a config path value absolute. Relative values are taken
// from projectRoot; "~" expands to the home directory. Empty stays empty.
func Resolve(value, projectRoot string) (string, error) {
	if value == "" {
		return "", nil
	}
	return pathutil.Normalize(value, projectRoot)
}

// LedgerPath returns the absolute ledger file for cfg.
func LedgerPath(cfg Config, projectRoot string) (string, error) {
	return Resolve(cfg.Ledger.Path, projectRoot)
}
