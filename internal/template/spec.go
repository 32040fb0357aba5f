// Package template turns named path templates into concrete filesystem paths.
//
// A Spec pairs a base-directory selector with a pattern: either an ordered
// sequence of segments (one path) or a mapping of logical names to relative
// paths (one path per key). Segments may contain {placeholder} tokens that are
// filled from caller variables; the run identifier is bound as {run}.
// Resolve applies datestamp placement, extension normalization and optional
// directory creation according to the Context it is given.
package template

import (
	"maps"
	"slices"
	"strings"
	"time"
)

// Placement selects where a datestamp lands in a derived path.
type Placement string

const (
	PlaceDirs  Placement = "dirs"
	PlaceFiles Placement = "files"
	PlaceBoth  Placement = "both"
	PlaceNone  Placement = "none"
)

// ParsePlacement validates a placement name. Empty means dirs.
func ParsePlacement(s string) (Placement, bool) {
	switch p := Placement(strings.ToLower(strings.TrimSpace(s))); p {
	case "":
		return PlaceDirs, true
	case PlaceDirs, PlaceFiles, PlaceBoth, PlaceNone:
		return p, true
	default:
		return "", false
	}
}

func (p Placement) dirs() bool  { return p == PlaceDirs || p == PlaceBoth }
func (p Placement) files() bool { return p == PlaceFiles || p == PlaceBoth }

// Settings is the read-only view of the surrounding configuration.
type Settings interface {
	UseDatestamp() bool
	DatestampIn() Placement
	DatestampFormat() string
	AutoCreate() bool
	DryRun() bool
	// DatestampValue renders the datestamp for t (zero t means now).
	DatestampValue(t time.Time) string
}

// Context is what Resolve reads: the settings plus the named root
// directories ("outputs", "logs", ...) that base selectors start from.
type Context interface {
	Settings
	Dir(kind string) (string, error)
}

// BaseFunc selects the directory a template is rooted at.
type BaseFunc func(ctx Context) (string, error)

// Under returns a BaseFunc for ctx.Dir(kind) joined with elems.
func Under(kind string, elems ...string) BaseFunc {
	elems = slices.Clone(elems)
	return func(ctx Context) (string, error) {
		dir, err := ctx.Dir(kind)
		if err != nil {
			return "", err
		}
		return joinPath(dir, elems), nil
	}
}

// Fixed returns a BaseFunc that ignores the context.
func Fixed(dir string) BaseFunc {
	return func(Context) (string, error) { return dir, nil }
}

// PatternKind distinguishes sequence and mapping patterns.
type PatternKind int

const (
	KindInvalid PatternKind = iota
	KindSequence
	KindMapping
)

func (k PatternKind) String() string {
	switch k {
	case KindSequence:
		return "sequence"
	case KindMapping:
		return "mapping"
	default:
		return "invalid"
	}
}

// Pattern is a sequence of path segments or a mapping of logical names to
// relative paths. The zero value is invalid.
type Pattern struct {
	kind     PatternKind
	segments []string
	entries  map[string]string
}

// Sequence builds a single-path pattern. No segments means the template
// names a directory.
func Sequence(segments ...string) Pattern {
	return Pattern{kind: KindSequence, segments: slices.Clone(segments)}
}

// Mapping builds a multi-path pattern.
func Mapping(entries map[string]string) Pattern {
	return Pattern{kind: KindMapping, entries: maps.Clone(entries)}
}

func (p Pattern) Kind() PatternKind { return p.kind }

// Segments returns a copy of the sequence segments.
func (p Pattern) Segments() []string { return slices.Clone(p.segments) }

// Entries returns a copy of the mapping entries.
func (p Pattern) Entries() map[string]string { return maps.Clone(p.entries) }

// Keys returns the mapping keys in sorted order.
func (p Pattern) Keys() []string {
	return slices.Sorted(maps.Keys(p.entries))
}

func (p Pattern) String() string {
	switch p.kind {
	case KindSequence:
		return "[" + strings.Join(p.segments, ", ") + "]"
	case KindMapping:
		parts := make([]string, 0, len(p.entries))
		for _, k := range p.Keys() {
			parts = append(parts, k+": "+p.entries[k])
		}
		return "{" + strings.Join(parts, ", ") + "}"
	default:
		return "<invalid>"
	}
}

// DefaultRoot is the root category used when a Spec leaves Root empty.
const DefaultRoot = "outputs"

// Spec describes one named template. Treat it as a value: the pattern is
// copied on construction and on access.
type Spec struct {
	Name string
	// Base overrides the default base of ctx.Dir(Root).
	Base    BaseFunc
	Pattern Pattern
	// Root is the logical root category, "outputs" when empty.
	Root string
	// Datestamp and Create override the context when non-nil.
	Datestamp *bool
	Create    *bool
	// Ext is applied to the final segment of sequence patterns and to every
	// mapping value.
	Ext string
	// Dir marks a directory template. Empty sequences are always directories.
	Dir bool
}

// RootLabel returns Root or DefaultRoot.
func (s Spec) RootLabel() string {
	if s.Root == "" {
		return DefaultRoot
	}
	return s.Root
}

// IsDir reports whether the template resolves to a directory.
func (s Spec) IsDir() bool {
	return s.Dir || (s.Pattern.kind == KindSequence && len(s.Pattern.segments) == 0)
}

// Validate checks the pattern shape and placeholder syntax.
func (s Spec) Validate() error {
	if strings.TrimSpace(s.Name) == "" {
		return invalid(s.Name, "name is required")
	}
	switch s.Pattern.kind {
	case KindSequence:
		for i, seg := range s.Pattern.segments {
			if seg == "" {
				return invalid(s.Name, "segment %d is empty", i)
			}
			if _, err := placeholders(seg); err != nil {
				return invalid(s.Name, "segment %q: %v", seg, err)
			}
		}
	case KindMapping:
		if len(s.Pattern.entries) == 0 {
			return invalid(s.Name, "mapping pattern has no entries")
		}
		for key, value := range s.Pattern.entries {
			if key == "" {
				return invalid(s.Name, "mapping key is empty")
			}
			if value == "" {
				return invalid(s.Name, "mapping entry %q is empty", key)
			}
			if _, err := placeholders(value); err != nil {
				return invalid(s.Name, "entry %q: %v", key, err)
			}
		}
		if s.Dir {
			return invalid(s.Name, "mapping pattern cannot be a directory template")
		}
	default:
		return invalid(s.Name, "pattern is neither a sequence nor a mapping")
	}
	return nil
}

// Placeholders lists the distinct placeholder names the pattern references,
// sorted.
func (s Spec) Placeholders() []string {
	seen := map[string]struct{}{}
	collect := func(text string) {
		names, _ := placeholders(text)
		for _, n := range names {
			seen[n] = struct{}{}
		}
	}
	for _, seg := range s.Pattern.segments {
		collect(seg)
	}
	for _, v := range s.Pattern.entries {
		collect(v)
	}
	return slices.Sorted(maps.Keys(seen))
}

// Bool returns a pointer to v, for the optional override fields.
func Bool(v bool) *bool { return &v }
