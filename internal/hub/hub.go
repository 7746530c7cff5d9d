package hub

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"sourced/pkg/eventsource"
	"sourced/pkg/types"
)

// Hub hosts named producers and owns the sinks created through it.
type Hub struct {
	mu      sync.RWMutex
	sources map[string]Producer
	order   []string
	sinks   map[string]ownedSink
	seq     int

	log    zerolog.Logger
	obs    eventsource.Observer
	pub    EventPublisher
	memCap int

	startTime  time.Time
	broadcasts atomic.Uint64
	handled    atomic.Uint64
}

// New constructs a Hub and creates the sources listed in cfg.
func New(cfg Config) (*Hub, error) {
	h := &Hub{
		sources:   make(map[string]Producer),
		sinks:     make(map[string]ownedSink),
		log:       zerolog.Nop(),
		obs:       cfg.Observer,
		pub:       cfg.Publisher,
		memCap:    cfg.MemoryCapacity,
		startTime: time.Now(),
	}
	if cfg.Logger != nil {
		h.log = cfg.Logger.With().Str("component", "hub").Logger()
	}
	if h.obs == nil {
		h.obs = promObserver{}
	}
	if h.pub == nil {
		h.pub = noopPublisher{}
	}
	if h.memCap <= 0 {
		h.memCap = defaultMemoryCapacity
	}
	for _, spec := range cfg.Sources {
		if _, err := h.AddSource(context.Background(), spec); err != nil {
			return nil, fmt.Errorf("source %q: %w", spec.Name, err)
		}
	}
	return h, nil
}

// SetEventPublisher replaces the lifecycle publisher.
func (h *Hub) SetEventPublisher(p EventPublisher) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if p == nil {
		p = noopPublisher{}
	}
	h.pub = p
}

func (h *Hub) publish(e LifecycleEvent) {
	h.mu.RLock()
	p := h.pub
	h.mu.RUnlock()
	p.Publish(e)
}

// Ready reports whether the hub hosts at least one source.
func (h *Hub) Ready() bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.sources) > 0
}

// Source returns the producer registered under name.
func (h *Hub) Source(name string) (Producer, error) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	p, ok := h.sources[name]
	if !ok {
		return nil, ErrSourceNotFound(name)
	}
	return p, nil
}

// AddSource creates a producer from spec, then attaches the sinks it lists.
func (h *Hub) AddSource(ctx context.Context, spec types.SourceSpec) (types.SourceInfo, error) {
	if err := validateSource(spec); err != nil {
		return types.SourceInfo{}, err
	}
	opts := []eventsource.Option{
		eventsource.WithLogger(h.log),
		eventsource.WithObserver(h.obs),
	}
	var p Producer
	switch spec.Kind {
	case types.KindWindow:
		p = NewWindowSource(spec.Name, spec.Width, spec.Height, opts...)
	case types.KindStream:
		p = NewStreamSource(spec.Name, spec.URL, opts...)
	}

	h.mu.Lock()
	if _, exists := h.sources[spec.Name]; exists {
		h.mu.Unlock()
		return types.SourceInfo{}, duplicateError{what: "source", id: spec.Name}
	}
	for _, ss := range spec.Sinks {
		if _, owned := h.sinks[ss.ID]; ss.ID != "" && owned {
			h.mu.Unlock()
			return types.SourceInfo{}, fmt.Errorf("sink %q: %w", ss.ID, duplicateError{what: "sink", id: ss.ID})
		}
	}
	h.sources[spec.Name] = p
	h.order = append(h.order, spec.Name)
	h.mu.Unlock()

	for _, ss := range spec.Sinks {
		if _, err := h.AttachSink(ctx, spec.Name, ss); err != nil {
			h.removeSource(ctx, spec.Name)
			return types.SourceInfo{}, fmt.Errorf("sink %q: %w", ss.ID, err)
		}
	}

	h.log.Info().Str("source", spec.Name).Str("kind", spec.Kind).Msg("source added")
	h.publish(LifecycleEvent{Name: EventSourceAdded, Source: spec.Name, Fields: map[string]any{"kind": spec.Kind}})
	return h.SourceInfo(ctx, spec.Name)
}

// removeSource undoes a partially created source: it detaches and forgets the
// sinks created for it, then unregisters the producer.
func (h *Hub) removeSource(ctx context.Context, name string) {
	h.mu.Lock()
	p := h.sources[name]
	delete(h.sources, name)
	h.order = slices.DeleteFunc(h.order, func(n string) bool { return n == name })
	var owned []ownedSink
	for id, s := range h.sinks {
		if s.core().source == name {
			owned = append(owned, s)
			delete(h.sinks, id)
		}
	}
	h.mu.Unlock()

	if p != nil {
		for _, s := range owned {
			p.Handle().Detach(ctx, s)
		}
	}
	h.log.Warn().Str("source", name).Int("sinks", len(owned)).Msg("source creation rolled back")
}

func validateSource(spec types.SourceSpec) error {
	if spec.Name == "" {
		return errInvalidSpec("source name is required")
	}
	switch spec.Kind {
	case types.KindWindow, types.KindStream:
	default:
		return errInvalidSpec("unknown source kind %q", spec.Kind)
	}
	seen := map[string]bool{}
	for _, ss := range spec.Sinks {
		if err := validateSink(ss); err != nil {
			return err
		}
		if ss.ID != "" {
			if seen[ss.ID] {
				return duplicateError{what: "sink", id: ss.ID}
			}
			seen[ss.ID] = true
		}
	}
	return nil
}

func validateSink(spec types.SinkSpec) error {
	switch spec.Kind {
	case "":
		return errInvalidSpec("sink kind is required")
	case types.SinkLog, types.SinkMemory, types.SinkCounter:
	default:
		return errInvalidSpec("unknown sink kind %q", spec.Kind)
	}
	if spec.Capacity < 0 {
		return errInvalidSpec("capacity must not be negative")
	}
	return nil
}
