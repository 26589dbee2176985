package embedding

import (
	"fmt"

	"github.com/imajayshakya/toolcat/core"
)

// Error is a structured embedding failure with engine context. It
// reports as core.ErrEmbeddingUnavailable so callers can keep their
// taxonomy check to a single errors.Is.
type Error struct {
	Op    string // Operation that failed
	Model string // Model or engine name
	cause error
}

// Error implements the error interface.
func (e *Error) Error() string {
	return fmt.Sprintf("embedding error in %s with model %s: %v", e.Op, e.Model, e.cause)
}

// Unwrap exposes both the taxonomy sentinel and the underlying cause.
func (e *Error) Unwrap() []error {
	return []error{core.ErrEmbeddingUnavailable, e.cause}
}

// Unavailable wraps cause as an embedding failure for the given
// operation and model.
func Unavailable(op, model string, cause error) error {
	return &Error{Op: op, Model: model, cause: cause}
}
