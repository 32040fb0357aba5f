package config

import (
	"slices"
	"strings"

	"github.com/cockroachdb/errors"

	"projio/internal/datestamp"
	"projio/internal/template"
)

var allowedLogFormats = map[string]struct{}{
	"text": {},
	"json": {},
}

func Validate(cfg Config) error {
	if cfg.Version != SchemaVersion {
		return errors.Newf("CFG_VERSION: unsupported version %d", cfg.Version)
	}
	if err := CheckRequires(cfg.Requires); err != nil {
		return err
	}
	if strings.TrimSpace(cfg.Paths.Root) == "" {
		return errors.New("CFG_PATHS: missing root")
	}
	if _, ok := template.ParsePlacement(cfg.Datestamp.Placement); !ok {
		return errors.WithHint(
			errors.Newf("CFG_DATESTAMP: invalid placement %q", cfg.Datestamp.Placement),
			"use one of dirs, files, both, none")
	}
	if err := datestamp.Validate(cfg.Datestamp.Format); err != nil {
		return errors.Wrap(err, "CFG_DATESTAMP")
	}
	if cfg.Logging.Level == "" || cfg.Logging.Format == "" {
		return errors.New("CFG_LOGGING: missing logging level/format")
	}
	if _, ok := allowedLogFormats[cfg.Logging.Format]; !ok {
		return errors.Newf("CFG_LOGGING: unsupported format %q", cfg.Logging.Format)
	}
	if cfg.Ledger.Path == "" {
		return errors.New("CFG_LEDGER: missing ledger path")
	}

	names := map[string]struct{}{}
	for _, t := range cfg.Templates {
		if err := validateTemplate(t); err != nil {
			return err
		}
		if _, ok := names[t.Name]; ok {
			return errors.Newf("CFG_TEMPLATE: duplicate template %q", t.Name)
		}
		names[t.Name] = struct{}{}
	}
	return nil
}

func validateTemplate(t TemplateConfig) error {
	if t.Name == "" {
		return errors.New("CFG_TEMPLATE: template name is required")
	}
	if t.Root != "" && !slices.Contains(template.Roots, t.Root) {
		return errors.WithHint(
			errors.Newf("CFG_TEMPLATE: template %q has unknown root %q", t.Name, t.Root),
			"roots: "+strings.Join(template.Roots, ", "))
	}
	if len(t.Pattern) > 0 && len(t.Files) > 0 {
		return errors.Newf("CFG_TEMPLATE: template %q sets both pattern and files", t.Name)
	}
	for _, seg := range t.Pattern {
		if strings.TrimSpace(seg) == "" {
			return errors.Newf("CFG_TEMPLATE: template %q has an empty pattern segment", t.Name)
		}
	}
	for key, value := range t.Files {
		if key == "" || strings.TrimSpace(value) == "" {
			return errors.Newf("CFG_TEMPLATE: template %q has an empty files entry", t.Name)
		}
	}
	return nil
}
