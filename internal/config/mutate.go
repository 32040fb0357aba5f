package config

import (
	"github.com/cockroachdb/errors"
)

func AddTemplate(cfg *Config, t TemplateConfig) error {
	if cfg == nil {
		return errors.New("CFG_TEMPLATE: nil config")
	}
	for _, existing := range cfg.Templates {
		if existing.Name == t.Name {
			return errors.Newf("CFG_TEMPLATE: template %q already exists", t.Name)
		}
	}
	cfg.Templates = append(cfg.Templates, t)
	*cfg = Normalize(*cfg)
	return Validate(*cfg)
}

func RemoveTemplate(cfg *Config, name string) error {
	if cfg == nil {
		return errors.New("CFG_TEMPLATE: nil config")
	}
	for i, t := range cfg.Templates {
		if t.Name == name {
			cfg.Templates = append(cfg.Templates[:i], cfg.Templates[i+1:]...)
			return nil
		}
	}
	return errors.Newf("CFG_TEMPLATE: template %q not found", name)
}

func FindTemplate(cfg Config, name string) (TemplateConfig, bool) {
	for _, t := range cfg.Templates {
		if t.Name == name {
			return t, true
		}
	}
	return TemplateConfig{}, false
}
