package ranking

import (
	"errors"
	"fmt"
)

// ErrSourceUnavailable is matched by every SourceUnavailableError via errors.Is.
var ErrSourceUnavailable = errors.New("source unavailable")

// MissingColumnError reports a required column absent after normalisation.
type MissingColumnError struct {
	Column string
}

func (e *MissingColumnError) Error() string {
	return fmt.Sprintf("missing required column %q", e.Column)
}

// SourceUnavailableError wraps a failure to reach the upstream data source or
// to find the named resource in it.
type SourceUnavailableError struct {
	Source   string
	Resource string
	Err      error
}

func (e *SourceUnavailableError) Error() string {
	if e.Resource == "" {
		return fmt.Sprintf("%s source unavailable: %v", e.Source, e.Err)
	}
	return fmt.Sprintf("%s source unavailable (%s): %v", e.Source, e.Resource, e.Err)
}

func (e *SourceUnavailableError) Unwrap() error { return e.Err }

// Is lets errors.Is(err, ErrSourceUnavailable) match without unwrapping the cause.
func (e *SourceUnavailableError) Is(target error) bool {
	return target == ErrSourceUnavailable
}

// Unavailable builds a SourceUnavailableError.
func Unavailable(source, resource string, err error) *SourceUnavailableError {
	return &SourceUnavailableError{Source: source, Resource: resource, Err: err}
}
