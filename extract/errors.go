package extract

import (
	"fmt"

	"github.com/tsawler/docxtract/artifact"
)

// SaveError is returned when the destination document, or a directory it
// needs, cannot be written.
type SaveError struct {
	Operation string
	Path      string
	Cause     error
}

func (e *SaveError) Error() string {
	return fmt.Sprintf("save error during %s on %s: %v", e.Operation, e.Path, e.Cause)
}

func (e *SaveError) Unwrap() error {
	return e.Cause
}

// ObjectError describes why one image or math object was not extracted. It
// is recorded on the object's Outcome rather than returned.
type ObjectError struct {
	Kind  artifact.Kind
	Seq   int
	Cause error
}

func (e *ObjectError) Error() string {
	return fmt.Sprintf("%s %d: %v", e.Kind, e.Seq, e.Cause)
}

func (e *ObjectError) Unwrap() error {
	return e.Cause
}
