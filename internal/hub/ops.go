package hub

import (
	"context"
	"fmt"
	"time"

	"sourced/pkg/eventsource"
	"sourced/pkg/types"
)

// Broadcast delivers ev through the named source.
func (h *Hub) Broadcast(ctx context.Context, name string, ev types.Event) (types.BroadcastResult, error) {
	p, err := h.Source(name)
	if err != nil {
		return types.BroadcastResult{}, err
	}
	if ev.Type == "" {
		return types.BroadcastResult{}, errInvalidSpec("event type is required")
	}
	if ev.Time.IsZero() {
		ev.Time = time.Now().UTC()
	}
	return h.result(name, p.Handle().Broadcast(ctx, ev)), nil
}

func (h *Hub) result(name string, handled bool) types.BroadcastResult {
	h.broadcasts.Add(1)
	if handled {
		h.handled.Add(1)
	}
	return types.BroadcastResult{Source: name, Handled: handled}
}

// AttachSink creates a sink from spec and attaches it to the named source.
// Re-attaching a detached sink by id attaches it again; attaching a sink that
// is already attached to that source is a no-op. For an existing id the spec
// may name only the id; any other field must match the owned sink.
func (h *Hub) AttachSink(ctx context.Context, source string, spec types.SinkSpec) (types.SinkInfo, error) {
	p, err := h.Source(source)
	if err != nil {
		return types.SinkInfo{}, err
	}

	h.mu.Lock()
	s, exists := h.sinks[spec.ID]
	if exists && s.core().source != source {
		h.mu.Unlock()
		return types.SinkInfo{}, duplicateError{what: "sink", id: spec.ID}
	}
	if exists && !sameSpec(s, spec) {
		h.mu.Unlock()
		return types.SinkInfo{}, errInvalidSpec("sink %s exists with a different spec", spec.ID)
	}
	if !exists {
		if err := validateSink(spec); err != nil {
			h.mu.Unlock()
			return types.SinkInfo{}, err
		}
		id := spec.ID
		if id == "" {
			h.seq++
			id = fmt.Sprintf("%s-%s-%d", source, spec.Kind, h.seq)
		}
		if s, err = h.newSink(id, source, spec); err != nil {
			h.mu.Unlock()
			return types.SinkInfo{}, err
		}
		h.sinks[id] = s
	}
	h.mu.Unlock()

	p.Handle().Attach(ctx, s)
	c := s.core()
	if !c.attached.Swap(true) {
		h.log.Info().Str("source", source).Str("sink", c.id).Str("kind", c.kind).Msg("sink attached")
		h.publish(LifecycleEvent{Name: EventSinkAttached, Source: source, Sink: c.id, Fields: map[string]any{"kind": c.kind}})
	}
	return describeSink(s), nil
}

// DetachSink detaches an owned sink from its source. The hub keeps the sink,
// so its state stays inspectable and it can be attached again.
func (h *Hub) DetachSink(ctx context.Context, source, id string) error {
	p, err := h.Source(source)
	if err != nil {
		return err
	}
	s, err := h.sink(id)
	if err != nil {
		return err
	}
	if s.core().source != source {
		return ErrSinkNotFound(id)
	}
	p.Handle().Detach(ctx, s)
	if s.core().attached.Swap(false) {
		h.log.Info().Str("source", source).Str("sink", id).Msg("sink detached")
		h.publish(LifecycleEvent{Name: EventSinkDetached, Source: source, Sink: id})
	}
	return nil
}

// DropSink releases the hub's reference to a sink without detaching it. The
// source stops delivering to it once the garbage collector reclaims it.
func (h *Hub) DropSink(id string) error {
	h.mu.Lock()
	s, ok := h.sinks[id]
	if ok {
		delete(h.sinks, id)
	}
	h.mu.Unlock()
	if !ok {
		return ErrSinkNotFound(id)
	}
	source := s.core().source
	h.log.Info().Str("source", source).Str("sink", id).Msg("sink dropped")
	h.publish(LifecycleEvent{Name: EventSinkDropped, Source: source, Sink: id})
	return nil
}

func (h *Hub) sink(id string) (ownedSink, error) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	s, ok := h.sinks[id]
	if !ok {
		return nil, ErrSinkNotFound(id)
	}
	return s, nil
}

// Sink describes an owned sink.
func (h *Hub) Sink(id string) (types.SinkInfo, error) {
	s, err := h.sink(id)
	if err != nil {
		return types.SinkInfo{}, err
	}
	return describeSink(s), nil
}

// SinkEvents returns the events retained by a memory sink.
func (h *Hub) SinkEvents(id string) ([]types.Event, error) {
	s, err := h.sink(id)
	if err != nil {
		return nil, err
	}
	m, ok := s.(*memorySink)
	if !ok {
		return nil, errInvalidSpec("sink %s is a %s sink and keeps no events", id, s.core().kind)
	}
	return m.Events(), nil
}

// Resize resizes a window source. It fails with eventsource.ErrTypeMismatch
// when the source is not a window.
func (h *Hub) Resize(ctx context.Context, name string, width, height int) (types.BroadcastResult, error) {
	if width <= 0 || height <= 0 {
		return types.BroadcastResult{}, errInvalidSpec("width and height must be positive")
	}
	w, err := capability[Window](h, name)
	if err != nil {
		return types.BroadcastResult{}, err
	}
	return h.result(name, w.Resize(ctx, width, height)), nil
}

// Focus sends a focus event through a window source.
func (h *Hub) Focus(ctx context.Context, name string) (types.BroadcastResult, error) {
	w, err := capability[Window](h, name)
	if err != nil {
		return types.BroadcastResult{}, err
	}
	return h.result(name, w.Focus(ctx)), nil
}

// Write appends data to a stream source, optionally completing it.
func (h *Hub) Write(ctx context.Context, name string, data []byte, complete bool) (types.BroadcastResult, error) {
	s, err := capability[Stream](h, name)
	if err != nil {
		return types.BroadcastResult{}, err
	}
	handled := false
	if len(data) > 0 {
		if handled, err = s.Write(ctx, data); err != nil {
			return types.BroadcastResult{}, err
		}
		h.result(name, handled)
	}
	if complete {
		done, err := s.Complete(ctx)
		if err != nil {
			return types.BroadcastResult{}, err
		}
		h.result(name, done)
		handled = handled || done
	}
	return types.BroadcastResult{Source: name, Handled: handled}, nil
}

// capability narrows the named source to T.
func capability[T any](h *Hub, name string) (T, error) {
	p, err := h.Source(name)
	if err != nil {
		var zero T
		return zero, err
	}
	return eventsource.As[T](p.Handle())
}
