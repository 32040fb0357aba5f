// Package project binds the template engine to a concrete project layout.
//
// A ProjectIO owns the project root and the directories derived from it,
// the datestamp and creation policy, a template registry and a producer
// ledger. It implements template.Context, so every template resolves
// against its current settings.
package project

import (
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/cockroachdb/errors"

	"projio/internal/datestamp"
	"projio/internal/fsutil"
	"projio/internal/ledger"
	"projio/internal/logger"
	"projio/internal/pathutil"
	"projio/internal/template"
)

// Options configures New. Start from DefaultOptions.
type Options struct {
	// Root is the project root; empty means the working directory.
	Root string
	// Inputs and Outputs follow Root when empty. Relative values are taken
	// from Root.
	Inputs  string
	Outputs string
	// Resources defaults to <cwd>/resources.
	Resources string
	// Gitignore is the managed ignore file, relative to Root. Empty disables
	// gitignore management.
	Gitignore string

	UseDatestamp    bool
	DatestampIn     template.Placement
	DatestampFormat string
	AutoCreate      bool
	DryRun          bool

	// Templates are merged into the built-in registry.
	Templates []template.Set
	// Ledger receives producer records; nil means a fresh in-memory ledger.
	Ledger *ledger.Ledger
	// LedgerPath is where SaveLedger persists the ledger. Empty disables
	// persistence.
	LedgerPath string
}

// DefaultOptions mirrors the defaults of a freshly initialized project.
func DefaultOptions() Options {
	return Options{
		Gitignore:       ".gitignore",
		UseDatestamp:    true,
		DatestampIn:     template.PlaceDirs,
		DatestampFormat: datestamp.DefaultPattern,
		AutoCreate:      true,
	}
}

// state holds the mutable settings. Using snapshots it and restores only
// the fields it overrode.
type state struct {
	root            string
	iroot           DerivedPath
	oroot           DerivedPath
	resources       string
	gitignore       string
	useDatestamp    bool
	datestampIn     template.Placement
	datestampFormat string
	autoCreate      bool
	dryRun          bool
	stamp           datestamp.Func
}

// ProjectIO is safe for concurrent use. Settings changed through setters
// are visible to the next resolution.
type ProjectIO struct {
	mu         sync.RWMutex
	st         state
	cwp        string
	reg        *template.Registry
	led        *ledger.Ledger
	ledgerPath string
}

var _ template.Context = (*ProjectIO)(nil)

// New builds a ProjectIO from opts.
func New(opts Options) (*ProjectIO, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return nil, errors.Wrap(err, "PIO_CWD")
	}
	root, err := pathutil.Normalize(opts.Root, cwd)
	if err != nil {
		return nil, errors.Wrap(err, "PIO_ROOT")
	}

	placement := opts.DatestampIn
	if placement == "" {
		placement = template.PlaceDirs
	}
	if _, ok := template.ParsePlacement(string(placement)); !ok {
		return nil, errors.Newf("PIO_PLACEMENT: invalid datestamp placement %q", placement)
	}
	format := opts.DatestampFormat
	if format == "" {
		format = datestamp.DefaultPattern
	}
	if err := datestamp.Validate(format); err != nil {
		return nil, err
	}

	reg, err := template.NewDefaultRegistry()
	if err != nil {
		return nil, err
	}
	if len(opts.Templates) > 0 {
		if err := reg.Merge(opts.Templates...); err != nil {
			return nil, err
		}
	}

	p := &ProjectIO{
		cwp:        cwd,
		reg:        reg,
		led:        opts.Ledger,
		ledgerPath: opts.LedgerPath,
	}
	if p.led == nil {
		p.led = ledger.New()
	}
	p.st = state{
		root:            root,
		gitignore:       opts.Gitignore,
		useDatestamp:    opts.UseDatestamp,
		datestampIn:     placement,
		datestampFormat: format,
		autoCreate:      opts.AutoCreate,
		dryRun:          opts.DryRun,
	}
	p.st.iroot.follow(root)
	p.st.oroot.follow(root)
	if opts.Inputs != "" {
		dir, err := pathutil.Normalize(opts.Inputs, root)
		if err != nil {
			return nil, errors.Wrap(err, "PIO_INPUTS")
		}
		p.st.iroot.set(dir)
	}
	if opts.Outputs != "" {
		dir, err := pathutil.Normalize(opts.Outputs, root)
		if err != nil {
			return nil, errors.Wrap(err, "PIO_OUTPUTS")
		}
		p.st.oroot.set(dir)
	}
	if opts.Resources != "" {
		dir, err := pathutil.Normalize(opts.Resources, root)
		if err != nil {
			return nil, errors.Wrap(err, "PIO_RESOURCES")
		}
		p.st.resources = dir
	}
	logger.Logger.Debugw("project initialized", "root", root, "dry_run", opts.DryRun)
	return p, nil
}

// ---------------------------------------------------------------------------
// template.Context
// ---------------------------------------------------------------------------

func (p *ProjectIO) UseDatestamp() bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.st.useDatestamp
}

func (p *ProjectIO) DatestampIn() template.Placement {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.st.datestampIn
}

func (p *ProjectIO) DatestampFormat() string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.st.datestampFormat
}

func (p *ProjectIO) AutoCreate() bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.st.autoCreate
}

func (p *ProjectIO) DryRun() bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.st.dryRun
}

// DatestampValue renders t with the configured format, or with the function
// installed by SetDatestampFunc.
func (p *ProjectIO) DatestampValue(t time.Time) string {
	p.mu.RLock()
	stamp, format := p.st.stamp, p.st.datestampFormat
	p.mu.RUnlock()
	if stamp != nil {
		return stamp(t)
	}
	return datestamp.Format(t, format)
}

// Dir returns the directory for a root kind (see template.Roots).
func (p *ProjectIO) Dir(kind string) (string, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.dirLocked(kind)
}

func (p *ProjectIO) dirLocked(kind string) (string, error) {
	lightning := filepath.Join(p.st.oroot.value, "lightning")
	switch kind {
	case template.RootInputs:
		return p.st.iroot.value, nil
	case template.RootOutputs:
		return p.st.oroot.value, nil
	case template.RootLightning:
		return lightning, nil
	case template.RootCheckpoints:
		return filepath.Join(lightning, "checkpoints"), nil
	case template.RootTensorboard:
		return filepath.Join(lightning, "tensorboard"), nil
	case template.RootLogs:
		return filepath.Join(p.st.oroot.value, "logs"), nil
	case template.RootCache:
		return filepath.Join(p.st.oroot.value, "cache"), nil
	case template.RootResources:
		if p.st.resources != "" {
			return p.st.resources, nil
		}
		return filepath.Join(p.cwp, "resources"), nil
	default:
		return "", errors.WithStack(&UnknownKindError{Kind: kind})
	}
}

// Ensure returns Dir(kind), creating it when auto-create is on and dry-run
// is off.
func (p *ProjectIO) Ensure(kind string) (string, error) {
	p.mu.RLock()
	dir, err := p.dirLocked(kind)
	create := p.st.autoCreate && !p.st.dryRun
	p.mu.RUnlock()
	if err != nil {
		return "", err
	}
	if create {
		if err := fsutil.EnsureDir(dir); err != nil {
			return "", err
		}
	}
	return dir, nil
}

// ---------------------------------------------------------------------------
// accessors
// ---------------------------------------------------------------------------

func (p *ProjectIO) Root() string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.st.root
}

func (p *ProjectIO) mustDir(kind string) string {
	dir, _ := p.Dir(kind)
	return dir
}

func (p *ProjectIO) Inputs() string      { return p.mustDir(template.RootInputs) }
func (p *ProjectIO) Outputs() string     { return p.mustDir(template.RootOutputs) }
func (p *ProjectIO) Lightning() string   { return p.mustDir(template.RootLightning) }
func (p *ProjectIO) Checkpoints() string { return p.mustDir(template.RootCheckpoints) }
func (p *ProjectIO) Tensorboard() string { return p.mustDir(template.RootTensorboard) }
func (p *ProjectIO) Logs() string        { return p.mustDir(template.RootLogs) }
func (p *ProjectIO) Cache() string       { return p.mustDir(template.RootCache) }
func (p *ProjectIO) Resources() string   { return p.mustDir(template.RootResources) }

// Cwp is the working directory captured when the ProjectIO was built.
func (p *ProjectIO) Cwp() string { return p.cwp }

// InputsState and OutputsState report how the derived roots were set.
func (p *ProjectIO) InputsState() Derivation {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.st.iroot.state
}

func (p *ProjectIO) OutputsState() Derivation {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.st.oroot.state
}

// GitignorePath returns the absolute managed ignore file, or "" when
// gitignore management is off.
func (p *ProjectIO) GitignorePath() string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.gitignoreLocked()
}

func (p *ProjectIO) gitignoreLocked() string {
	if p.st.gitignore == "" {
		return ""
	}
	path, err := pathutil.Normalize(p.st.gitignore, p.st.root)
	if err != nil {
		return ""
	}
	return path
}

// Registry exposes the template registry for registration of extra
// templates.
func (p *ProjectIO) Registry() *template.Registry { return p.reg }

// Ledger exposes the producer ledger.
func (p *ProjectIO) Ledger() *ledger.Ledger { return p.led }

// Templates lists the registered template names.
func (p *ProjectIO) Templates() []string { return p.reg.Names() }

// ---------------------------------------------------------------------------
// setters
// ---------------------------------------------------------------------------

// SetRoot moves the project. Inherited inputs/outputs follow; explicit ones
// stay where they are.
func (p *ProjectIO) SetRoot(root string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.setRootLocked(root)
}

func (p *ProjectIO) setRootLocked(root string) error {
	if strings.TrimSpace(root) == "" {
		return errors.WithStack(ErrEmptyRoot)
	}
	abs, err := pathutil.Normalize(root, p.cwp)
	if err != nil {
		return errors.Wrap(err, "PIO_ROOT")
	}
	p.st.root = abs
	p.st.iroot.follow(abs)
	p.st.oroot.follow(abs)
	return nil
}

// SetInputs pins the inputs directory; it no longer follows the root.
func (p *ProjectIO) SetInputs(dir string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	abs, err := p.pinLocked(dir)
	if err != nil {
		return err
	}
	p.st.iroot.set(abs)
	return nil
}

// SetOutputs pins the outputs directory; it no longer follows the root.
func (p *ProjectIO) SetOutputs(dir string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	abs, err := p.pinLocked(dir)
	if err != nil {
		return err
	}
	p.st.oroot.set(abs)
	return nil
}

func (p *ProjectIO) SetResources(dir string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	abs, err := p.pinLocked(dir)
	if err != nil {
		return err
	}
	p.st.resources = abs
	return nil
}

func (p *ProjectIO) pinLocked(dir string) (string, error) {
	if strings.TrimSpace(dir) == "" {
		return "", errors.New("PIO_EMPTY_PATH: directory must not be empty")
	}
	return pathutil.Normalize(dir, p.st.root)
}

func (p *ProjectIO) SetUseDatestamp(v bool) {
	p.mu.Lock()
	p.st.useDatestamp = v
	p.mu.Unlock()
}

func (p *ProjectIO) SetDatestampIn(placement template.Placement) error {
	parsed, ok := template.ParsePlacement(string(placement))
	if !ok {
		return errors.Newf("PIO_PLACEMENT: invalid datestamp placement %q", placement)
	}
	p.mu.Lock()
	p.st.datestampIn = parsed
	p.mu.Unlock()
	return nil
}

func (p *ProjectIO) SetDatestampFormat(format string) error {
	if err := datestamp.Validate(format); err != nil {
		return err
	}
	p.mu.Lock()
	p.st.datestampFormat = format
	p.mu.Unlock()
	return nil
}

// SetDatestampFunc replaces the datestamp renderer; nil restores the
// configured format.
func (p *ProjectIO) SetDatestampFunc(fn datestamp.Func) {
	p.mu.Lock()
	p.st.stamp = fn
	p.mu.Unlock()
}

func (p *ProjectIO) SetAutoCreate(v bool) {
	p.mu.Lock()
	p.st.autoCreate = v
	p.mu.Unlock()
}

func (p *ProjectIO) SetDryRun(v bool) {
	p.mu.Lock()
	p.st.dryRun = v
	p.mu.Unlock()
}

// SetGitignore changes the managed ignore file; "" disables management.
func (p *ProjectIO) SetGitignore(path string) {
	p.mu.Lock()
	p.st.gitignore = path
	p.mu.Unlock()
}

// ---------------------------------------------------------------------------
// describe
// ---------------------------------------------------------------------------

// Description is a flat snapshot of the project layout and settings.
type Description struct {
	Root            string   `json:"root"`
	Inputs          string   `json:"inputs"`
	Outputs         string   `json:"outputs"`
	Lightning       string   `json:"lightning"`
	Checkpoints     string   `json:"checkpoints"`
	Tensorboard     string   `json:"tensorboard"`
	Logs            string   `json:"logs"`
	Cache           string   `json:"cache"`
	Resources       string   `json:"resources"`
	Cwp             string   `json:"cwp"`
	Gitignore       string   `json:"gitignore,omitempty"`
	InputsState     string   `json:"inputs_state"`
	OutputsState    string   `json:"outputs_state"`
	UseDatestamp    bool     `json:"use_datestamp"`
	DatestampIn     string   `json:"datestamp_in"`
	DatestampFormat string   `json:"datestamp_format"`
	AutoCreate      bool     `json:"auto_create"`
	DryRun          bool     `json:"dry_run"`
	Templates       []string `json:"templates"`
	Producers       int      `json:"producers"`
}

func (p *ProjectIO) Describe() Description {
	p.mu.RLock()
	defer p.mu.RUnlock()
	dir := func(kind string) string {
		d, _ := p.dirLocked(kind)
		return d
	}
	return Description{
		Root:            p.st.root,
		Inputs:          dir(template.RootInputs),
		Outputs:         dir(template.RootOutputs),
		Lightning:       dir(template.RootLightning),
		Checkpoints:     dir(template.RootCheckpoints),
		Tensorboard:     dir(template.RootTensorboard),
		Logs:            dir(template.RootLogs),
		Cache:           dir(template.RootCache),
		Resources:       dir(template.RootResources),
		Cwp:             p.cwp,
		Gitignore:       p.gitignoreLocked(),
		InputsState:     p.st.iroot.state.String(),
		OutputsState:    p.st.oroot.state.String(),
		UseDatestamp:    p.st.useDatestamp,
		DatestampIn:     string(p.st.datestampIn),
		DatestampFormat: p.st.datestampFormat,
		AutoCreate:      p.st.autoCreate,
		DryRun:          p.st.dryRun,
		Templates:       p.reg.Names(),
		Producers:       p.led.Len(),
	}
}
