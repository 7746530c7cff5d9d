package hub

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/rs/zerolog"

	"sourced/pkg/eventsource"
	"sourced/pkg/types"
)

// ownedSink is a sink the hub created. The hub's map entry is its only strong
// reference.
type ownedSink interface {
	eventsource.Sink
	core() *sinkCore
}

// sinkCore carries what every hub sink shares: identity, the type filter and
// the answer given for matching events.
type sinkCore struct {
	id      string
	kind    string
	source  string
	handles bool
	types   map[string]struct{}

	received atomic.Uint64
	attached atomic.Bool
}

func (c *sinkCore) init(id, source string, spec types.SinkSpec) {
	c.id, c.kind, c.source, c.handles = id, spec.Kind, source, spec.Handles
	if len(spec.Types) > 0 {
		c.types = make(map[string]struct{}, len(spec.Types))
		for _, t := range spec.Types {
			c.types[t] = struct{}{}
		}
	}
}

func (c *sinkCore) core() *sinkCore { return c }

// accept unwraps ev and applies the type filter.
func (c *sinkCore) accept(ev eventsource.Event) (types.Event, bool) {
	e, ok := ev.(types.Event)
	if !ok {
		return types.Event{}, false
	}
	if c.types != nil {
		if _, ok := c.types[e.Type]; !ok {
			return types.Event{}, false
		}
	}
	c.received.Add(1)
	return e, true
}

func (c *sinkCore) info() types.SinkInfo {
	return types.SinkInfo{
		ID:       c.id,
		Kind:     c.kind,
		Source:   c.source,
		Handles:  c.handles,
		Attached: c.attached.Load(),
		Received: c.received.Load(),
	}
}

// logSink writes every accepted event to the hub logger.
type logSink struct {
	sinkCore
	log zerolog.Logger
}

func (s *logSink) HandleEvent(_ context.Context, src *eventsource.Source, ev eventsource.Event) bool {
	e, ok := s.accept(ev)
	if !ok {
		return false
	}
	s.log.Info().Str("sink", s.id).Str("source", src.Name()).Str("type", e.Type).Interface("data", e.Data).Msg("event")
	return s.handles
}

// memorySink keeps the most recent accepted events.
type memorySink struct {
	sinkCore
	capacity int

	mu     sync.Mutex
	events []types.Event
}

func (s *memorySink) HandleEvent(_ context.Context, _ *eventsource.Source, ev eventsource.Event) bool {
	e, ok := s.accept(ev)
	if !ok {
		return false
	}
	s.mu.Lock()
	s.events = append(s.events, e)
	if over := len(s.events) - s.capacity; over > 0 {
		s.events = append(s.events[:0:0], s.events[over:]...)
	}
	s.mu.Unlock()
	return s.handles
}

// Events returns the retained events, oldest first.
func (s *memorySink) Events() []types.Event {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]types.Event, len(s.events))
	copy(out, s.events)
	return out
}

// counterSink counts accepted events per type.
type counterSink struct {
	sinkCore

	mu     sync.Mutex
	counts map[string]uint64
}

func (s *counterSink) HandleEvent(_ context.Context, _ *eventsource.Source, ev eventsource.Event) bool {
	e, ok := s.accept(ev)
	if !ok {
		return false
	}
	s.mu.Lock()
	if s.counts == nil {
		s.counts = make(map[string]uint64)
	}
	s.counts[e.Type]++
	s.mu.Unlock()
	return s.handles
}

// Counts returns a copy of the per-type counters.
func (s *counterSink) Counts() map[string]uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[string]uint64, len(s.counts))
	for k, v := range s.counts {
		out[k] = v
	}
	return out
}

// describeSink reports s together with any kind-specific state.
func describeSink(s ownedSink) types.SinkInfo {
	info := s.core().info()
	if c, ok := s.(*counterSink); ok {
		info.Counts = c.Counts()
	}
	return info
}

// sameSpec reports whether spec describes s. A spec naming only an id
// describes any sink.
func sameSpec(s ownedSink, spec types.SinkSpec) bool {
	c := s.core()
	if spec.Kind == "" {
		return spec.ID != "" && !spec.Handles && len(spec.Types) == 0 && spec.Capacity == 0
	}
	if spec.Kind != c.kind || spec.Handles != c.handles || len(spec.Types) != len(c.types) {
		return false
	}
	for _, t := range spec.Types {
		if _, ok := c.types[t]; !ok {
			return false
		}
	}
	if m, ok := s.(*memorySink); ok && spec.Capacity > 0 && spec.Capacity != m.capacity {
		return false
	}
	return true
}

// newSink builds the sink described by spec.
func (h *Hub) newSink(id, source string, spec types.SinkSpec) (ownedSink, error) {
	var s ownedSink
	switch spec.Kind {
	case types.SinkLog:
		s = &logSink{log: h.log}
	case types.SinkMemory:
		capacity := spec.Capacity
		if capacity <= 0 {
			capacity = h.memCap
		}
		s = &memorySink{capacity: capacity}
	case types.SinkCounter:
		s = &counterSink{}
	default:
		return nil, errInvalidSpec("unknown sink kind %q", spec.Kind)
	}
	s.core().init(id, source, spec)
	return s, nil
}
