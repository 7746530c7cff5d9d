package eventsource

import (
	"errors"
	"fmt"
	"reflect"
)

// ErrTypeMismatch is matched by every error As returns.
var ErrTypeMismatch = errors.New("eventsource: type mismatch")

// TypeMismatchError reports that a source does not offer a capability.
type TypeMismatchError struct {
	Source string       // name of the source, may be empty
	Want   reflect.Type // the capability that was asked for
}

func (e *TypeMismatchError) Error() string {
	if e.Source == "" {
		return fmt.Sprintf("eventsource: source does not support %v", e.Want)
	}
	return fmt.Sprintf("eventsource: source %q does not support %v", e.Source, e.Want)
}

func (e *TypeMismatchError) Is(target error) bool { return target == ErrTypeMismatch }

// IsTypeMismatch reports whether err came from a failed As.
func IsTypeMismatch(err error) bool { return errors.Is(err, ErrTypeMismatch) }
