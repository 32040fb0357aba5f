package project

import (
	"io/fs"
	"path/filepath"
	"strings"
	"time"

	"github.com/cockroachdb/errors"

	"projio/internal/fsutil"
	"projio/internal/template"
)

// PathOptions tunes the convenience path builders. Nil pointers defer to the
// template and then to the project settings.
type PathOptions struct {
	// Subdirs are inserted between the base directory and the file name.
	Subdirs []string
	// Ext is normalized onto the file name; empty keeps the template's.
	Ext       string
	Datestamp *bool
	Create    *bool
	Now       time.Time
}

func (o PathOptions) request(run string, vars map[string]string) template.Request {
	req := template.Request{
		Variant:   run,
		Vars:      vars,
		Datestamp: o.Datestamp,
		Create:    o.Create,
		Now:       o.Now,
	}
	if o.Ext != "" {
		ext := o.Ext
		req.Ext = &ext
	}
	return req
}

// TemplatePath resolves the registered template name against the project.
func (p *ProjectIO) TemplatePath(name string, req template.Request) (template.Result, error) {
	spec, err := p.reg.Get(name)
	if err != nil {
		return template.Result{}, err
	}
	return template.Resolve(spec, p, req)
}

// PathFor builds <Dir(kind)>/<subdirs...>/<name> with the project's
// datestamp policy. An empty name yields the directory itself.
func (p *ProjectIO) PathFor(kind, name string, opts PathOptions) (string, error) {
	dir, err := p.Dir(kind)
	if err != nil {
		return "", err
	}
	base := filepath.Join(append([]string{dir}, opts.Subdirs...)...)
	spec := template.Spec{
		Name:    "path_for:" + kind,
		Base:    template.Fixed(base),
		Pattern: template.Sequence(),
	}
	if name != "" {
		spec.Pattern = template.Sequence(escapeBraces(name))
	}
	res, err := template.Resolve(spec, p, opts.request("", nil))
	if err != nil {
		return "", err
	}
	return res.Path, nil
}

// CheckpointPath returns checkpoints/<run>/<name>.ckpt. Subdirs nest the
// file below the run directory.
func (p *ProjectIO) CheckpointPath(name, run string, opts PathOptions) (string, error) {
	return p.namedPath(template.Checkpoint, name, run, opts)
}

// LogPath returns logs/<run>/<name>.log.
func (p *ProjectIO) LogPath(name, run string, opts PathOptions) (string, error) {
	return p.namedPath(template.Log, name, run, opts)
}

func (p *ProjectIO) namedPath(tmpl, name, run string, opts PathOptions) (string, error) {
	if name == "" {
		return "", errors.Newf("PIO_EMPTY_NAME: %s needs a file name", tmpl)
	}
	if len(opts.Subdirs) > 0 {
		name = strings.Join(append(append([]string{}, opts.Subdirs...), name), "/")
	}
	res, err := p.TemplatePath(tmpl, opts.request(run, map[string]string{"name": name}))
	if err != nil {
		return "", err
	}
	return res.Path, nil
}

// CheckpointDir returns the checkpoint directory for run.
func (p *ProjectIO) CheckpointDir(run string, opts PathOptions) (string, error) {
	res, err := p.TemplatePath(template.CheckpointDir, opts.request(run, nil))
	if err != nil {
		return "", err
	}
	return res.Path, nil
}

// TensorboardRun returns the tensorboard directory for run. It is a
// directory, so no extension is applied.
func (p *ProjectIO) TensorboardRun(run string, opts PathOptions) (string, error) {
	res, err := p.TemplatePath(template.Tensorboard, opts.request(run, nil))
	if err != nil {
		return "", err
	}
	return res.Path, nil
}

// ResourcePath returns Resources()/name. With mustExist a missing path is an
// error matching fs.ErrNotExist; with create the path is made as a
// directory, subject to auto-create and dry-run.
func (p *ProjectIO) ResourcePath(name string, mustExist, create bool) (string, error) {
	path := filepath.Join(p.Resources(), name)
	if mustExist && !fsutil.Exists(path) {
		return "", errors.WithStack(&fs.PathError{Op: "resource", Path: path, Err: fs.ErrNotExist})
	}
	if create && p.AutoCreate() && !p.DryRun() {
		if err := fsutil.EnsureDir(path); err != nil {
			return "", err
		}
	}
	return path, nil
}

func escapeBraces(s string) string {
	return strings.NewReplacer("{", "{{", "}", "}}").Replace(s)
}
