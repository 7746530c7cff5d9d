package eventsource

import (
	"context"
	"fmt"
	"reflect"
	"slices"
	"sync"
	"time"
	"weak"

	"github.com/rs/zerolog"
)

// Event is the payload of a single occurrence. Sources never retain an event
// past the Broadcast call that delivered it.
type Event any

// Sink receives events from the sources it is attached to.
//
// HandleEvent reports whether it handled ev. ctx carries src's lock; pass it
// to Attach, Detach or Broadcast on src to re-enter without deadlocking.
//
// A Sink given to Attach must be a non-nil pointer to a heap-allocated value
// that is either at least 16 bytes or contains a pointer. Smaller
// pointer-free values share memory with unrelated values and cannot be
// tracked weakly; pad such a type or give it a pointer field.
type Sink interface {
	HandleEvent(ctx context.Context, src *Source, ev Event) bool
}

// Observer is notified of registry activity. Implementations must be cheap
// and must not call back into the source.
type Observer interface {
	SinkAttached(source string)
	SinkDetached(source string)
	SinksPruned(source string, n int)
	Broadcast(source string, handled bool, delivered int, took time.Duration)
}

// Option configures a Source created by New.
type Option func(*Source)

// WithName names the source in logs, metrics and errors.
func WithName(name string) Option { return func(s *Source) { s.name = name } }

// WithLogger installs a structured logger. The default discards everything.
func WithLogger(l zerolog.Logger) Option { return func(s *Source) { s.log = l } }

// WithObserver installs an Observer, typically a metrics collector.
func WithObserver(o Observer) Option { return func(s *Source) { s.obs = o } }

// Source broadcasts events to its attached sinks, in registration order,
// stopping at the first sink that reports the event handled.
//
// Attaching a sink that is already attached is a no-op: a sink appears at
// most once and keeps its original position.
//
// Attach, Detach, Broadcast and Len are safe for concurrent use.
type Source struct {
	self *Source // set by New
	name string
	log  zerolog.Logger
	obs  Observer

	mu      reentrantMutex
	entries []*entry

	capsMu sync.RWMutex
	caps   map[reflect.Type]any
}

// New returns a Source. Producers embed the returned pointer; the source is
// never handed out by value.
func New(opts ...Option) *Source {
	s := &Source{log: zerolog.Nop()}
	for _, o := range opts {
		o(s)
	}
	if s.name != "" {
		s.log = s.log.With().Str("source", s.name).Logger()
	}
	s.self = s
	return s
}

// Name returns the name given with WithName.
func (s *Source) Name() string { return s.name }

// Handle returns the shared handle of s, suitable for passing around and
// narrowing later with As or Supports.
//
// Handle panics if s was not created by New. That is a programming error.
func (s *Source) Handle() *Source {
	if s.self == nil {
		panic("eventsource: Handle called on a Source not created by New")
	}
	return s.self
}

// Attach registers sink for future broadcasts. Only a weak reference is kept.
//
// Attach panics if sink cannot be referenced weakly (see Sink).
func (s *Source) Attach(ctx context.Context, sink Sink) {
	ref, typ, ok := weakRef(sink)
	if !ok {
		panic(fmt.Sprintf("eventsource: cannot attach %T: sink must be a non-nil pointer to a value of at least 16 bytes or containing a pointer", sink))
	}

	_, unlock := s.mu.lock(ctx)
	defer unlock()

	s.pruneLocked()
	if s.indexLocked(ref) >= 0 {
		return
	}
	s.entries = append(s.entries, &entry{ref: ref, typ: typ})
	s.log.Debug().Str("sink", typ.String()).Int("sinks", len(s.entries)).Msg("sink attached")
	if s.obs != nil {
		s.obs.SinkAttached(s.name)
	}
}

// AttachWeak is like Attach for a caller that only holds a weak pointer to
// the sink. It does nothing if the sink has already been reclaimed.
func AttachWeak[T any, P interface {
	*T
	Sink
}](ctx context.Context, src *Source, wp weak.Pointer[T]) {
	p := wp.Value()
	if p == nil {
		return
	}
	src.Attach(ctx, P(p))
}

// Detach removes sink from the registry. Detaching a sink that is not
// attached does nothing.
func (s *Source) Detach(ctx context.Context, sink Sink) {
	ref, typ, ok := weakRef(sink)
	if !ok {
		return
	}

	_, unlock := s.mu.lock(ctx)
	defer unlock()

	if i := s.indexLocked(ref); i >= 0 {
		s.entries[i].removed = true
		s.entries = slices.Delete(s.entries, i, i+1)
		s.log.Debug().Str("sink", typ.String()).Int("sinks", len(s.entries)).Msg("sink detached")
		if s.obs != nil {
			s.obs.SinkDetached(s.name)
		}
	}
	s.pruneLocked()
}

// Broadcast delivers ev to the attached sinks in registration order and
// reports whether one of them handled it. Delivery stops at the first sink
// that returns true. Sinks that have been reclaimed are skipped silently.
//
// Broadcast visits the sinks registered when it was called: sinks attached by
// a handler first see the next event, and sinks detached by a handler before
// their turn are not visited.
func (s *Source) Broadcast(ctx context.Context, ev Event) bool {
	ctx, unlock := s.mu.lock(ctx)
	defer unlock()

	start := time.Now()
	handled := false
	delivered := 0
	for _, e := range slices.Clone(s.entries) {
		if e.removed {
			continue
		}
		sink := e.resolve()
		if sink == nil {
			continue
		}
		delivered++
		if sink.HandleEvent(ctx, s, ev) {
			handled = true
			break
		}
	}
	s.pruneLocked()

	took := time.Since(start)
	s.log.Trace().Bool("handled", handled).Int("delivered", delivered).Dur("took", took).Msg("broadcast")
	if s.obs != nil {
		s.obs.Broadcast(s.name, handled, delivered, took)
	}
	return handled
}

// Len returns the number of attached sinks that are still alive.
func (s *Source) Len(ctx context.Context) int {
	_, unlock := s.mu.lock(ctx)
	defer unlock()
	s.pruneLocked()
	return len(s.entries)
}
