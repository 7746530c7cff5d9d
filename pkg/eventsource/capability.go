package eventsource

import "reflect"

var sourceType = reflect.TypeFor[*Source]()

// Provide records view as the capability T of src. Producers call it while
// constructing themselves, for example:
//
//	w := &Window{Source: eventsource.New()}
//	eventsource.Provide[WindowView](w.Source, w)
//
// Providing T again replaces the earlier view. Provide panics if view is nil.
func Provide[T any](src *Source, view T) {
	if any(view) == nil {
		panic("eventsource: nil capability " + reflect.TypeFor[T]().String())
	}
	src.capsMu.Lock()
	defer src.capsMu.Unlock()
	if src.caps == nil {
		src.caps = make(map[reflect.Type]any)
	}
	src.caps[reflect.TypeFor[T]()] = view
}

// As returns the T view of src. It fails with a *TypeMismatchError, matching
// ErrTypeMismatch, if T was never provided. *Source is always available.
func As[T any](src *Source) (T, error) {
	if v, ok := lookup[T](src); ok {
		return v, nil
	}
	var zero T
	return zero, &TypeMismatchError{Source: src.name, Want: reflect.TypeFor[T]()}
}

// Supports reports whether As[T] would succeed.
func Supports[T any](src *Source) bool {
	_, ok := lookup[T](src)
	return ok
}

// lookup matches T exactly against the capability table; it never tests
// whether some provided view happens to implement T.
func lookup[T any](src *Source) (T, bool) {
	t := reflect.TypeFor[T]()
	if t == sourceType {
		v, ok := any(src).(T)
		return v, ok
	}
	src.capsMu.RLock()
	v, ok := src.caps[t]
	src.capsMu.RUnlock()
	if !ok {
		var zero T
		return zero, false
	}
	tv, ok := v.(T)
	return tv, ok
}
