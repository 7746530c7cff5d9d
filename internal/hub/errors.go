package hub

import (
	"errors"
	"fmt"
)

// sourceNotFoundError is returned when a source name is unknown.
type sourceNotFoundError struct{ name string }

func (e sourceNotFoundError) Error() string { return "source not found: " + e.name }

// ErrSourceNotFound returns an error for a missing source.
func ErrSourceNotFound(name string) error { return sourceNotFoundError{name: name} }

// IsSourceNotFound reports whether err indicates a missing source.
func IsSourceNotFound(err error) bool {
	var e sourceNotFoundError
	return errors.As(err, &e)
}

// sinkNotFoundError is returned when a sink id is unknown, or does not belong
// to the source it was addressed through.
type sinkNotFoundError struct{ id string }

func (e sinkNotFoundError) Error() string { return "sink not found: " + e.id }

// ErrSinkNotFound returns an error for a missing sink.
func ErrSinkNotFound(id string) error { return sinkNotFoundError{id: id} }

// IsSinkNotFound reports whether err indicates a missing sink.
func IsSinkNotFound(err error) bool {
	var e sinkNotFoundError
	return errors.As(err, &e)
}

// duplicateError signals a name or id collision.
type duplicateError struct{ what, id string }

func (e duplicateError) Error() string { return fmt.Sprintf("%s already exists: %s", e.what, e.id) }

// IsDuplicate reports whether err indicates a name or id collision.
func IsDuplicate(err error) bool {
	var e duplicateError
	return errors.As(err, &e)
}

// invalidSpecError reports a malformed source or sink spec.
type invalidSpecError struct{ msg string }

func (e invalidSpecError) Error() string { return "invalid spec: " + e.msg }

func errInvalidSpec(format string, a ...any) error {
	return invalidSpecError{msg: fmt.Sprintf(format, a...)}
}

// IsInvalidSpec reports whether err indicates a malformed spec or request.
func IsInvalidSpec(err error) bool {
	var e invalidSpecError
	return errors.As(err, &e)
}

// ErrStreamComplete is returned when writing to a completed stream.
var ErrStreamComplete = errors.New("stream already complete")

// IsStreamComplete reports whether err indicates a write after completion.
func IsStreamComplete(err error) bool { return errors.Is(err, ErrStreamComplete) }
