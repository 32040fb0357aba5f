// Package datestamp formats and parses the date strings embedded in derived
// paths. Patterns use strftime directives ("%Y_%m_%d").
package datestamp

import (
	"fmt"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/ncruces/go-strftime"
)

// DefaultPattern is the pattern used when none is configured.
const DefaultPattern = "%Y_%m_%d"

// ErrFormat matches every *FormatError via errors.Is.
var ErrFormat = errors.New("DATE_FORMAT: cannot parse datestamp")

// FormatError reports text that does not match a datestamp pattern.
type FormatError struct {
	Text    string
	Pattern string
	Err     error
}

func (e *FormatError) Error() string {
	msg := fmt.Sprintf("DATE_FORMAT: Cannot parse '%s' with pattern '%s'", e.Text, e.Pattern)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *FormatError) Unwrap() error { return e.Err }

func (e *FormatError) Is(target error) bool { return target == ErrFormat }

// Format renders t with pattern. A zero t means now.
func Format(t time.Time, pattern string) string {
	if t.IsZero() {
		t = time.Now()
	}
	if pattern == "" {
		pattern = DefaultPattern
	}
	return strftime.Format(pattern, t)
}

// Parse is the inverse of Format for stamps rendered in local time. Fields
// the pattern does not encode are zero.
func Parse(text, pattern string) (time.Time, error) {
	return ParseIn(text, pattern, time.Local)
}

// ParseIn reads text as a wall-clock time in loc unless the pattern carries
// an offset.
func ParseIn(text, pattern string, loc *time.Location) (time.Time, error) {
	if pattern == "" {
		pattern = DefaultPattern
	}
	if loc == nil {
		loc = time.Local
	}
	layout, err := strftime.Layout(pattern)
	if err != nil {
		return time.Time{}, errors.WithStack(&FormatError{Text: text, Pattern: pattern, Err: err})
	}
	t, err := time.ParseInLocation(layout, text, loc)
	if err != nil {
		return time.Time{}, errors.WithStack(&FormatError{Text: text, Pattern: pattern, Err: err})
	}
	return t, nil
}

// Validate reports whether pattern only uses directives the codec can
// round-trip. A stamp is a single path segment, so separators are refused.
func Validate(pattern string) error {
	if strings.ContainsAny(pattern, `/\`) {
		return errors.Newf("DATE_PATTERN: datestamp pattern %q must not contain a path separator", pattern)
	}
	if _, err := strftime.Layout(pattern); err != nil {
		return errors.Wrapf(err, "DATE_PATTERN: unsupported datestamp pattern %q", pattern)
	}
	return nil
}

// Func produces the datestamp for an instant. Contexts expose one so tests
// can pin the value.
type Func func(t time.Time) string

// PatternFunc returns a Func bound to pattern.
func PatternFunc(pattern string) Func {
	return func(t time.Time) string {
		return Format(t, pattern)
	}
}

// Fixed returns a Func that always yields value.
func Fixed(value string) Func {
	return func(time.Time) string { return value }
}
