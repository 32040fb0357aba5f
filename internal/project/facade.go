package project

import (
	"sync"

	"projio/internal/ledger"
	"projio/internal/template"
)

// Facade owns a lazily created ProjectIO and forwards the common
// operations to it. The zero value is ready to use.
type Facade struct {
	mu sync.Mutex
	io *ProjectIO
	// NewFunc builds the instance on first use; nil means
	// New(DefaultOptions()).
	NewFunc func() (*ProjectIO, error)
}

// Shared is the process-wide facade behind Default, SetDefault and Reset.
var Shared = &Facade{}

// Default returns the shared instance, creating it on first use.
func Default() (*ProjectIO, error) { return Shared.Instance() }

// SetDefault replaces the shared instance.
func SetDefault(p *ProjectIO) { Shared.Set(p) }

// Reset drops the shared instance; the next Default call builds a new one.
func Reset() { Shared.Reset() }

// Instance returns the owned ProjectIO, creating it if needed.
func (f *Facade) Instance() (*ProjectIO, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.io != nil {
		return f.io, nil
	}
	build := f.NewFunc
	if build == nil {
		build = func() (*ProjectIO, error) { return New(DefaultOptions()) }
	}
	p, err := build()
	if err != nil {
		return nil, err
	}
	f.io = p
	return p, nil
}

// Loaded reports whether an instance exists without creating one.
func (f *Facade) Loaded() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.io != nil
}

func (f *Facade) Set(p *ProjectIO) {
	f.mu.Lock()
	f.io = p
	f.mu.Unlock()
}

func (f *Facade) Reset() { f.Set(nil) }

func (f *Facade) Root() (string, error) {
	p, err := f.Instance()
	if err != nil {
		return "", err
	}
	return p.Root(), nil
}

func (f *Facade) SetRoot(root string) error {
	p, err := f.Instance()
	if err != nil {
		return err
	}
	return p.SetRoot(root)
}

func (f *Facade) SetUseDatestamp(v bool) error {
	p, err := f.Instance()
	if err != nil {
		return err
	}
	p.SetUseDatestamp(v)
	return nil
}

func (f *Facade) CheckpointPath(name, run string, opts PathOptions) (string, error) {
	p, err := f.Instance()
	if err != nil {
		return "", err
	}
	return p.CheckpointPath(name, run, opts)
}

func (f *Facade) LogPath(name, run string, opts PathOptions) (string, error) {
	p, err := f.Instance()
	if err != nil {
		return "", err
	}
	return p.LogPath(name, run, opts)
}

func (f *Facade) TemplatePath(name string, req template.Request) (template.Result, error) {
	p, err := f.Instance()
	if err != nil {
		return template.Result{}, err
	}
	return p.TemplatePath(name, req)
}

func (f *Facade) PathFor(kind, name string, opts PathOptions) (string, error) {
	p, err := f.Instance()
	if err != nil {
		return "", err
	}
	return p.PathFor(kind, name, opts)
}

func (f *Facade) TrackProducer(target, producer, kind, tag string) (ledger.Record, error) {
	p, err := f.Instance()
	if err != nil {
		return ledger.Record{}, err
	}
	return p.TrackProducer(target, producer, kind, tag)
}

func (f *Facade) Describe() (Description, error) {
	p, err := f.Instance()
	if err != nil {
		return Description{}, err
	}
	return p.Describe(), nil
}
