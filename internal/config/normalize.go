package config

import (
	"strings"

	"projio/internal/datestamp"
	"projio/internal/template"
)

func Normalize(cfg Config) Config {
	if cfg.Version == 0 {
		cfg.Version = SchemaVersion
	}
	cfg.Requires = strings.TrimSpace(cfg.Requires)
	if cfg.Paths.Root == "" {
		cfg.Paths.Root = "."
	}
	if cfg.Datestamp.Placement == "" {
		cfg.Datestamp.Placement = string(template.PlaceDirs)
	}
	cfg.Datestamp.Placement = strings.ToLower(strings.TrimSpace(cfg.Datestamp.Placement))
	if cfg.Datestamp.Format == "" {
		cfg.Datestamp.Format = datestamp.DefaultPattern
	}
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "warn"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "text"
	}
	if cfg.Ledger.Path == "" {
		cfg.Ledger.Path = DefaultLedgerFile
	}
	for i := range cfg.Templates {
		t := &cfg.Templates[i]
		t.Name = strings.TrimSpace(t.Name)
		if t.Root == "" && len(t.Under) == 0 {
			t.Root = template.RootOutputs
		}
	}
	return cfg
}
