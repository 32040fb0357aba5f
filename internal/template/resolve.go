package template

import (
	"maps"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/cockroachdb/errors"

	"projio/internal/fsutil"
	"projio/internal/logger"
	"projio/internal/pathutil"
)

// RunPlaceholder is the variable the run identifier is bound to.
const RunPlaceholder = "run"

// DatestampSeparator joins a datestamp prefix to a file name.
const DatestampSeparator = "__"

// Request carries the per-call inputs to Resolve.
type Request struct {
	// Variant is the run identifier. It is bound to {run} and, for sequence
	// patterns, also appended to the base directory as its own segment.
	Variant string
	Vars    map[string]string
	// Datestamp, Create and Ext override the spec and context when non-nil.
	Datestamp *bool
	Create    *bool
	Ext       *string
	// Now is the instant handed to the datestamp callable; zero means now.
	Now time.Time
}

// Result is a single path (sequence patterns) or a mapping of logical names
// to paths (mapping patterns).
type Result struct {
	Path  string
	Paths map[string]string
}

// IsMapping reports whether the result came from a mapping pattern.
func (r Result) IsMapping() bool { return r.Paths != nil }

// All returns every resolved path, mapping values in key order.
func (r Result) All() []string {
	if !r.IsMapping() {
		return []string{r.Path}
	}
	out := make([]string, 0, len(r.Paths))
	for _, k := range sortedKeys(r.Paths) {
		out = append(out, r.Paths[k])
	}
	return out
}

// Resolve derives the concrete path(s) for spec. Every path is computed
// before any directory is created, so a failing call never touches the
// filesystem.
func Resolve(spec Spec, ctx Context, req Request) (Result, error) {
	if err := spec.Validate(); err != nil {
		return Result{}, err
	}
	if req.Variant != "" && pathutil.HasSeparator(req.Variant) {
		return Result{}, errors.WithStack(&InvalidVariantError{Variant: req.Variant})
	}

	base, err := baseDir(spec, ctx)
	if err != nil {
		return Result{}, err
	}

	placement := PlaceNone
	if effective(ctx.UseDatestamp(), spec.Datestamp, req.Datestamp) {
		placement = ctx.DatestampIn()
	}
	stamp := ""
	if placement != PlaceNone {
		stamp = ctx.DatestampValue(req.Now)
	}

	vars := maps.Clone(req.Vars)
	if vars == nil {
		vars = map[string]string{}
	}
	if req.Variant != "" {
		vars[RunPlaceholder] = req.Variant
	}

	ext := spec.Ext
	if req.Ext != nil {
		ext = *req.Ext
	}

	b := builder{stamp: stamp, placement: placement, ext: ext, dir: spec.IsDir()}
	var res Result
	switch spec.Pattern.kind {
	case KindSequence:
		segs, err := substituteAll(spec.Name, spec.Pattern.segments, vars)
		if err != nil {
			return Result{}, err
		}
		root := base
		if req.Variant != "" {
			root = filepath.Join(base, req.Variant)
		}
		res.Path = b.build(root, segs)
	case KindMapping:
		res.Paths = make(map[string]string, len(spec.Pattern.entries))
		for key, value := range spec.Pattern.entries {
			text, err := substitute(spec.Name, value, vars)
			if err != nil {
				return Result{}, err
			}
			res.Paths[key] = b.build(base, splitSegments(text))
		}
	}

	if effective(ctx.AutoCreate(), spec.Create, req.Create) && !ctx.DryRun() {
		for _, p := range res.All() {
			dir := p
			if !b.dir {
				dir = filepath.Dir(p)
			}
			if err := fsutil.EnsureDir(dir); err != nil {
				return Result{}, errors.Wrapf(err, "TPL_CREATE: template %q", spec.Name)
			}
		}
	}

	logger.Logger.Debugw("resolved template",
		"template", spec.Name,
		"run", req.Variant,
		"placement", string(placement),
		"paths", res.All())
	return res, nil
}

func baseDir(spec Spec, ctx Context) (string, error) {
	var (
		base string
		err  error
	)
	if spec.Base != nil {
		base, err = spec.Base(ctx)
	} else {
		base, err = ctx.Dir(spec.RootLabel())
	}
	if err != nil {
		return "", err
	}
	return pathutil.Normalize(base, "")
}

type builder struct {
	stamp     string
	placement Placement
	ext       string
	dir       bool
}

func (b builder) build(root string, segs []string) string {
	segs = dropEmpty(segs)
	if b.dir {
		if b.placement.dirs() {
			segs = append(segs, b.stamp)
		}
		return joinPath(root, segs)
	}
	if len(segs) == 0 {
		return root
	}
	last := len(segs) - 1
	name := pathutil.EnsureExtension(segs[last], b.ext)
	if b.placement.files() {
		name = b.stamp + DatestampSeparator + name
	}
	out := make([]string, 0, len(segs)+1)
	out = append(out, segs[:last]...)
	if b.placement.dirs() {
		out = append(out, b.stamp)
	}
	out = append(out, name)
	return joinPath(root, out)
}

func substituteAll(name string, segs []string, vars map[string]string) ([]string, error) {
	out := make([]string, 0, len(segs))
	for _, seg := range segs {
		text, err := substitute(name, seg, vars)
		if err != nil {
			return nil, err
		}
		out = append(out, splitSegments(text)...)
	}
	return out, nil
}

// substitute replaces {name} tokens with vars[name]. "{{" and "}}" are
// literal braces.
func substitute(tmpl, text string, vars map[string]string) (string, error) {
	var sb strings.Builder
	err := scan(text, func(literal string) {
		sb.WriteString(literal)
	}, func(key string) error {
		v, ok := vars[key]
		if !ok {
			return errors.WithStack(&MissingPlaceholderError{Template: tmpl, Placeholder: key})
		}
		sb.WriteString(v)
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrMissingPlaceholder) {
			return "", err
		}
		return "", invalid(tmpl, "%v", err)
	}
	return sb.String(), nil
}

func placeholders(text string) ([]string, error) {
	var names []string
	err := scan(text, func(string) {}, func(key string) error {
		names = append(names, key)
		return nil
	})
	return names, err
}

// scan walks text, calling lit for literal runs and key for each
// placeholder name.
func scan(text string, lit func(string), key func(string) error) error {
	for i := 0; i < len(text); {
		c := text[i]
		switch {
		case c == '{' && i+1 < len(text) && text[i+1] == '{':
			lit("{")
			i += 2
		case c == '}' && i+1 < len(text) && text[i+1] == '}':
			lit("}")
			i += 2
		case c == '{':
			end := strings.IndexByte(text[i+1:], '}')
			if end < 0 {
				return errors.Newf("unclosed placeholder at offset %d", i)
			}
			name := strings.TrimSpace(text[i+1 : i+1+end])
			if name == "" || strings.ContainsAny(name, "{") {
				return errors.Newf("malformed placeholder at offset %d", i)
			}
			if err := key(name); err != nil {
				return err
			}
			i += end + 2
		case c == '}':
			return errors.Newf("unmatched '}' at offset %d", i)
		default:
			j := i
			for j < len(text) && text[j] != '{' && text[j] != '}' {
				j++
			}
			lit(text[i:j])
			i = j
		}
	}
	return nil
}

func splitSegments(text string) []string {
	return strings.FieldsFunc(text, func(r rune) bool {
		return r == '/' || r == filepath.Separator
	})
}

func dropEmpty(segs []string) []string {
	out := segs[:0:0]
	for _, s := range segs {
		if s != "" {
			out = append(out, s)
		}
	}
	return out
}

func joinPath(root string, segs []string) string {
	return filepath.Join(append([]string{root}, segs...)...)
}

// effective returns the last non-nil override, or def when all are nil.
// Overrides are ordered lowest to highest precedence.
func effective(def bool, overrides ...*bool) bool {
	v := def
	for _, o := range overrides {
		if o != nil {
			v = *o
		}
	}
	return v
}

func sortedKeys(m map[string]string) []string {
	return slices.Sorted(maps.Keys(m))
}
