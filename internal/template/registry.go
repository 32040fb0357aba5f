package template

import (
	"maps"
	"slices"
	"sync"

	"github.com/cockroachdb/errors"
)

// Set is a named group of templates keyed by template name.
type Set map[string]Spec

// Registry maps template names to specs. Names are unique; nothing is ever
// silently replaced.
type Registry struct {
	mu    sync.RWMutex
	specs map[string]Spec
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{specs: map[string]Spec{}}
}

// NewDefaultRegistry returns a registry holding the framework and core
// template sets.
func NewDefaultRegistry() (*Registry, error) {
	r := NewRegistry()
	if err := r.Merge(LightningTemplates(), CoreTemplates()); err != nil {
		return nil, err
	}
	return r, nil
}

// Register adds spec under spec.Name.
func (r *Registry) Register(spec Spec) error {
	if err := spec.Validate(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.specs[spec.Name]; ok {
		return errors.WithStack(&DuplicateTemplateError{Name: spec.Name})
	}
	r.specs[spec.Name] = spec
	return nil
}

// Merge adds every template of every set. A name that collides with the
// registry or with another set fails the whole merge and leaves the registry
// unchanged.
func (r *Registry) Merge(sets ...Set) error {
	merged, err := MergeSets(sets...)
	if err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, name := range slices.Sorted(maps.Keys(merged)) {
		if _, ok := r.specs[name]; ok {
			return errors.WithStack(&DuplicateTemplateError{Name: name})
		}
	}
	maps.Copy(r.specs, merged)
	return nil
}

// Get returns the template registered under name.
func (r *Registry) Get(name string) (Spec, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	spec, ok := r.specs[name]
	if !ok {
		return Spec{}, errors.WithStack(&UnknownTemplateError{Name: name})
	}
	return spec, nil
}

// Has reports whether name is registered.
func (r *Registry) Has(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.specs[name]
	return ok
}

// Names returns the registered names, sorted.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return slices.Sorted(maps.Keys(r.specs))
}

// Len returns the number of registered templates.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.specs)
}

// MergeSets composes disjoint sets into one. Each spec must validate and its
// Name must be empty or equal to its key.
func MergeSets(sets ...Set) (Set, error) {
	out := Set{}
	for _, set := range sets {
		for _, key := range slices.Sorted(maps.Keys(set)) {
			spec := set[key]
			if spec.Name == "" {
				spec.Name = key
			}
			if spec.Name != key {
				return nil, invalid(key, "registered under %q but named %q", key, spec.Name)
			}
			if err := spec.Validate(); err != nil {
				return nil, err
			}
			if _, ok := out[key]; ok {
				return nil, errors.WithStack(&DuplicateTemplateError{Name: key})
			}
			out[key] = spec
		}
	}
	return out, nil
}
