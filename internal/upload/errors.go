package upload

import (
	"errors"
	"fmt"
)

var (
	ErrMissingFile          = errors.New("no file was uploaded")
	ErrFileTooLarge         = errors.New("uploaded file exceeds the maximum allowed size")
	ErrUnsupportedMediaType = errors.New("uploaded file has an unsupported media type")

	// ErrNotOwner is returned when the requesting user does not own the
	// video they are attempting to modify.
	ErrNotOwner = errors.New("video is not owned by the requesting user")
)

// ValidationError is returned when an upload is rejected before any
// processing has begun. Kind is one of the Err* sentinels above, and
// can be matched using errors.Is.
type ValidationError struct {
	Kind   error
	Reason string
}

func newValidationError(kind error, format string, args ...any) *ValidationError {
	return &ValidationError{Kind: kind, Reason: fmt.Sprintf(format, args...)}
}

func (err *ValidationError) Error() string {
	return fmt.Sprintf("upload rejected: %s", err.Reason)
}

func (err *ValidationError) Unwrap() error { return err.Kind }
