package snapshot

import (
	"errors"

	"github.com/cruciblehq/bifrost/internal/fault"
)

var (
	ErrWalk        = errors.New("walk error")
	ErrUnreadable  = fault.Kind(ErrWalk, "unreadable directory")
	ErrRootMissing = fault.Kind(ErrWalk, "root missing")

	errNotDir = errors.New("not a directory")
	errIsDir  = errors.New("is a directory")
)

// Failure tied to a single path in the walk.
type PathError struct {
	Kind error  // ErrUnreadable or ErrRootMissing.
	Path string // Relative path (slash separated) that failed, "." for the root.
	Err  error  // Underlying filesystem error.
}

// Returns the failure category, the path, and the cause.
func (e *PathError) Error() string {
	return e.Kind.Error() + ": " + e.Path + ": " + e.Err.Error()
}

// Exposes the category and the cause to [errors.Is].
func (e *PathError) Unwrap() []error {
	return []error{e.Kind, e.Err}
}
