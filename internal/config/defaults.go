package config

import (
	"projio/internal/datestamp"
	"projio/internal/template"
)

const (
	SchemaVersion = 1
)

// DefaultConfig returns a fully-populated v1 config document.
func DefaultConfig() Config {
	return Config{
		Version: SchemaVersion,
		Paths: PathsConfig{
			Root:      ".",
			Gitignore: ".gitignore",
		},
		Datestamp: DatestampConfig{
			Enabled:   true,
			Placement: string(template.PlaceDirs),
			Format:    datestamp.DefaultPattern,
		},
		Behavior: BehaviorConfig{
			AutoCreate:      true,
			ManageGitignore: true,
		},
		Logging: LoggingConfig{
			Level:  "warn",
			Format: "text",
		},
		Ledger: LedgerConfig{
			Persist: true,
			Path:    DefaultLedgerFile,
		},
	}
}
