package eventsource

import (
	"reflect"
	"slices"
	"sync"
	"unsafe"
	"weak"
)

// entry is one registration. It references its sink weakly: ref resolves to
// nil once the sink has been reclaimed.
type entry struct {
	ref weak.Pointer[byte]
	typ reflect.Type // pointer type of the registered sink

	// removed is set, under the source lock, when the entry leaves the
	// registry so that in-flight broadcasts skip it.
	removed bool
}

// tinySize is the runtime's tiny allocator block size. Pointer-free values
// smaller than this share a block with unrelated values and are only freed
// together with them, so a weak pointer to one may outlive the value.
const tinySize = 16

// weakRef builds the weak reference for sink. ok is false when sink cannot be
// referenced weakly: nil, not a pointer, pointing at a zero-sized value, or
// pointing at a pointer-free value smaller than tinySize.
//
// All entries share the weak.Pointer[byte] shape so that the same sink always
// yields an equal ref, however it was attached.
func weakRef(sink Sink) (ref weak.Pointer[byte], typ reflect.Type, ok bool) {
	if sink == nil {
		return ref, nil, false
	}
	v := reflect.ValueOf(sink)
	if v.Kind() != reflect.Pointer || v.IsNil() || !weaklyReferable(v.Type().Elem()) {
		return ref, nil, false
	}
	return weak.Make((*byte)(v.UnsafePointer())), v.Type(), true
}

var referable sync.Map // reflect.Type -> bool

func weaklyReferable(t reflect.Type) bool {
	if ok, cached := referable.Load(t); cached {
		return ok.(bool)
	}
	ok := t.Size() >= tinySize || (t.Size() > 0 && hasPointers(t))
	referable.Store(t, ok)
	return ok
}

// hasPointers reports whether values of t contain pointers the garbage
// collector scans.
func hasPointers(t reflect.Type) bool {
	switch t.Kind() {
	case reflect.Pointer, reflect.UnsafePointer, reflect.Map, reflect.Chan,
		reflect.Func, reflect.Interface, reflect.Slice, reflect.String:
		return true
	case reflect.Array:
		return t.Len() > 0 && hasPointers(t.Elem())
	case reflect.Struct:
		for i := 0; i < t.NumField(); i++ {
			if hasPointers(t.Field(i).Type) {
				return true
			}
		}
	}
	return false
}

// resolve returns a strong reference to the sink, or nil if it is gone.
func (e *entry) resolve() Sink {
	p := e.ref.Value()
	if p == nil {
		return nil
	}
	return reflect.NewAt(e.typ.Elem(), unsafe.Pointer(p)).Interface().(Sink)
}

func (e *entry) dead() bool { return e.ref.Value() == nil }

// pruneLocked drops entries whose sink has been reclaimed and returns how many
// were dropped. The caller holds the source lock.
func (s *Source) pruneLocked() int {
	before := len(s.entries)
	s.entries = slices.DeleteFunc(s.entries, func(e *entry) bool {
		if e.dead() {
			e.removed = true
			return true
		}
		return false
	})
	n := before - len(s.entries)
	if n > 0 {
		s.log.Debug().Int("pruned", n).Int("sinks", len(s.entries)).Msg("pruned reclaimed sinks")
		if s.obs != nil {
			s.obs.SinksPruned(s.name, n)
		}
	}
	return n
}

func (s *Source) indexLocked(ref weak.Pointer[byte]) int {
	return slices.IndexFunc(s.entries, func(e *entry) bool { return e.ref == ref })
}
