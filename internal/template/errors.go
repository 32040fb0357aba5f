package template

import (
	"fmt"

	"github.com/cockroachdb/errors"
)

// Sentinels for errors.Is; every typed error below matches exactly one.
var (
	ErrMissingPlaceholder = errors.New("TPL_MISSING_PLACEHOLDER")
	ErrInvalidTemplate    = errors.New("TPL_INVALID")
	ErrInvalidVariant     = errors.New("TPL_INVALID_VARIANT")
	ErrDuplicateTemplate  = errors.New("TPL_DUPLICATE")
	ErrUnknownTemplate    = errors.New("TPL_UNKNOWN")
)

// MissingPlaceholderError is returned when a pattern references a variable
// that was not supplied.
type MissingPlaceholderError struct {
	Template    string
	Placeholder string
}

func (e *MissingPlaceholderError) Error() string {
	return fmt.Sprintf("TPL_MISSING_PLACEHOLDER: template %q references {%s} but no value was supplied", e.Template, e.Placeholder)
}

func (e *MissingPlaceholderError) Is(target error) bool { return target == ErrMissingPlaceholder }

// InvalidTemplateError reports a malformed Spec.
type InvalidTemplateError struct {
	Template string
	Reason   string
}

func (e *InvalidTemplateError) Error() string {
	return fmt.Sprintf("TPL_INVALID: template %q: %s", e.Template, e.Reason)
}

func (e *InvalidTemplateError) Is(target error) bool { return target == ErrInvalidTemplate }

// InvalidVariantError rejects run identifiers that would escape their
// directory.
type InvalidVariantError struct {
	Variant string
}

func (e *InvalidVariantError) Error() string {
	return fmt.Sprintf("TPL_INVALID_VARIANT: run %q must not contain a path separator", e.Variant)
}

func (e *InvalidVariantError) Is(target error) bool { return target == ErrInvalidVariant }

// DuplicateTemplateError is returned when a name is registered twice.
type DuplicateTemplateError struct {
	Name string
}

func (e *DuplicateTemplateError) Error() string {
	return fmt.Sprintf("TPL_DUPLICATE: template %q already registered", e.Name)
}

func (e *DuplicateTemplateError) Is(target error) bool { return target == ErrDuplicateTemplate }

// UnknownTemplateError is returned by Registry.Get for unregistered names.
type UnknownTemplateError struct {
	Name string
}

func (e *UnknownTemplateError) Error() string {
	return fmt.Sprintf("TPL_UNKNOWN: no template named %q", e.Name)
}

func (e *UnknownTemplateError) Is(target error) bool { return target == ErrUnknownTemplate }

func invalid(name, format string, args ...any) error {
	return errors.WithStack(&InvalidTemplateError{Template: name, Reason: fmt.Sprintf(format, args...)})
}
