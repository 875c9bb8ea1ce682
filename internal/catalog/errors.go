package catalog

import (
	"errors"
	"fmt"
)

// ErrLoadFailure is the single failure kind of the catalog: the source was
// unreachable, answered with a non-success status, or returned content that
// does not decode.  Match with errors.Is.
var ErrLoadFailure = errors.New("catalog load failure")

// UserMessage is what a presenter should show when the catalog is empty
// because loading failed.
const UserMessage = "We could not load the video library right now. Please refresh the page."

// LoadFailure carries the source name and the underlying cause.
type LoadFailure struct {
	Source string
	Err    error
}

func (e *LoadFailure) Error() string {
	return fmt.Sprintf("%s: source %s: %v", ErrLoadFailure, e.Source, e.Err)
}

// Unwrap exposes the cause.
func (e *LoadFailure) Unwrap() error { return e.Err }

// Is makes errors.Is(err, ErrLoadFailure) hold for every *LoadFailure.
func (e *LoadFailure) Is(target error) bool { return target == ErrLoadFailure }
