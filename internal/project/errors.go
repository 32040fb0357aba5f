package project

import (
	"fmt"

	"github.com/cockroachdb/errors"
)

var (
	ErrUnknownKind = errors.New("PIO_UNKNOWN_KIND")
	ErrEmptyRoot   = errors.New("PIO_EMPTY_ROOT: root must not be empty")
)

// UnknownKindError is returned for a directory kind ProjectIO does not know.
type UnknownKindError struct {
	Kind string
}

func (e *UnknownKindError) Error() string {
	return fmt.Sprintf("PIO_UNKNOWN_KIND: unknown path kind %q", e.Kind)
}

func (e *UnknownKindError) Is(target error) bool { return target == ErrUnknownKind }
