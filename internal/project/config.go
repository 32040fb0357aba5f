package project

import (
	"github.com/cockroachdb/errors"

	"projio/internal/config"
	"projio/internal/ledger"
	"projio/internal/template"
)

// OptionsFromConfig translates a loaded config into Options. Relative paths
// are taken from projectRoot, the directory holding .projio/.
func OptionsFromConfig(cfg config.Config, projectRoot string) (Options, error) {
	opts := DefaultOptions()
	resolve := func(v string) (string, error) { return config.Resolve(v, projectRoot) }

	var err error
	if opts.Root, err = resolve(cfg.Paths.Root); err != nil {
		return Options{}, errors.Wrap(err, "PIO_CONFIG_ROOT")
	}
	if opts.Inputs, err = resolve(cfg.Paths.Inputs); err != nil {
		return Options{}, errors.Wrap(err, "PIO_CONFIG_INPUTS")
	}
	if opts.Outputs, err = resolve(cfg.Paths.Outputs); err != nil {
		return Options{}, errors.Wrap(err, "PIO_CONFIG_OUTPUTS")
	}
	if opts.Resources, err = resolve(cfg.Paths.Resources); err != nil {
		return Options{}, errors.Wrap(err, "PIO_CONFIG_RESOURCES")
	}
	opts.Gitignore = ""
	if cfg.Behavior.ManageGitignore {
		if opts.Gitignore, err = resolve(cfg.Paths.Gitignore); err != nil {
			return Options{}, errors.Wrap(err, "PIO_CONFIG_GITIGNORE")
		}
	}

	placement, ok := template.ParsePlacement(cfg.Datestamp.Placement)
	if !ok {
		return Options{}, errors.Newf("PIO_PLACEMENT: invalid datestamp placement %q", cfg.Datestamp.Placement)
	}
	opts.UseDatestamp = cfg.Datestamp.Enabled
	opts.DatestampIn = placement
	opts.DatestampFormat = cfg.Datestamp.Format
	opts.AutoCreate = cfg.Behavior.AutoCreate
	opts.DryRun = cfg.Behavior.DryRun

	if len(cfg.Templates) > 0 {
		opts.Templates = []template.Set{TemplatesFromConfig(cfg.Templates)}
	}
	if cfg.Ledger.Persist {
		if opts.LedgerPath, err = config.LedgerPath(cfg, projectRoot); err != nil {
			return Options{}, errors.Wrap(err, "PIO_CONFIG_LEDGER")
		}
	}
	return opts, nil
}

// TemplatesFromConfig converts declared templates into a registry set.
func TemplatesFromConfig(decls []config.TemplateConfig) template.Set {
	set := make(template.Set, len(decls))
	for _, d := range decls {
		root := d.Root
		if root == "" {
			root = template.RootOutputs
		}
		spec := template.Spec{
			Name:      d.Name,
			Root:      root,
			Ext:       d.Ext,
			Datestamp: d.Datestamp,
			Create:    d.Create,
			Dir:       d.Dir,
		}
		if len(d.Under) > 0 {
			spec.Base = template.Under(root, d.Under...)
		}
		if len(d.Files) > 0 {
			spec.Pattern = template.Mapping(d.Files)
		} else {
			spec.Pattern = template.Sequence(d.Pattern...)
		}
		set[d.Name] = spec
	}
	return set
}

// CheckTemplates reports whether decls can be registered next to the
// built-in templates: names must not collide and patterns must parse.
func CheckTemplates(decls []config.TemplateConfig) error {
	reg, err := template.NewDefaultRegistry()
	if err != nil {
		return err
	}
	return reg.Merge(TemplatesFromConfig(decls))
}

// Open discovers the project containing startDir, loads its config and
// persisted ledger, and builds a ProjectIO from them.
func Open(startDir string) (*ProjectIO, config.Config, error) {
	cfg, root, err := config.Discover(startDir)
	if err != nil {
		return nil, config.Config{}, err
	}
	p, err := FromConfig(cfg, root)
	if err != nil {
		return nil, config.Config{}, err
	}
	return p, cfg, nil
}

// FromConfig builds a ProjectIO for an already loaded config.
func FromConfig(cfg config.Config, projectRoot string) (*ProjectIO, error) {
	opts, err := OptionsFromConfig(cfg, projectRoot)
	if err != nil {
		return nil, err
	}
	if opts.LedgerPath != "" {
		led, err := ledger.Load(opts.LedgerPath)
		if err != nil {
			return nil, err
		}
		opts.Ledger = led
	}
	return New(opts)
}
