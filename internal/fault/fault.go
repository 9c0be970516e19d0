package fault

import (
	"errors"
	"fmt"
)

// Error that belongs to a sentinel category and carries an optional cause.
type categorized struct {
	kind  error // Sentinel category.
	cause error // Underlying error, may be nil.
	msg   string
}

// Returns the category followed by the cause.
func (e *categorized) Error() string {
	switch {
	case e.msg != "":
		return e.kind.Error() + ": " + e.msg
	case e.cause != nil:
		return e.kind.Error() + ": " + e.cause.Error()
	default:
		return e.kind.Error()
	}
}

// Exposes both the category and the cause to [errors.Is] and [errors.As].
func (e *categorized) Unwrap() []error {
	if e.cause == nil {
		return []error{e.kind}
	}
	return []error{e.kind, e.cause}
}

// Wraps err under the sentinel kind.
//
// Returns nil if err is nil. If err already matches kind it is returned
// unchanged so that repeated wrapping at each layer does not stutter.
func Wrap(kind, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, kind) {
		return err
	}
	return &categorized{kind: kind, cause: err}
}

// Creates an error under the sentinel kind from a format string.
//
// The format follows [fmt.Errorf], so a %w verb keeps its operand reachable
// through [errors.Is].
func Wrapf(kind error, format string, args ...any) error {
	cause := fmt.Errorf(format, args...)
	return &categorized{kind: kind, cause: cause, msg: cause.Error()}
}

// Creates a sentinel that belongs to the parent category.
//
// The returned error matches both itself and parent under [errors.Is],
// which lets a package expose fine-grained sentinels that still roll up
// into a coarse category (for example, a missing manifest is also a
// configuration error).
func Kind(parent error, text string) error {
	return &categorized{kind: parent, cause: errors.New(text)}
}
