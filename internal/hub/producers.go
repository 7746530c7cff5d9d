package hub

import (
	"context"
	"sync"
	"time"

	"sourced/pkg/eventsource"
	"sourced/pkg/types"
)

// Producer is provided by every source the hub hosts.
type Producer interface {
	Name() string
	Kind() string
	Handle() *eventsource.Source
}

// Window is the capability of window-like sources.
type Window interface {
	Size() (width, height int)
	Resize(ctx context.Context, width, height int) bool
	Focus(ctx context.Context) bool
}

// Stream is the capability of data stream sources.
type Stream interface {
	URL() string
	Write(ctx context.Context, p []byte) (bool, error)
	Complete(ctx context.Context) (bool, error)
	BytesWritten() int64
}

// capabilityNames lists, in order, the capabilities reported by ListSources.
var capabilityNames = []struct {
	name     string
	supports func(*eventsource.Source) bool
}{
	{types.KindWindow, eventsource.Supports[Window]},
	{types.KindStream, eventsource.Supports[Stream]},
}

func capabilitiesOf(src *eventsource.Source) []string {
	out := []string{}
	for _, c := range capabilityNames {
		if c.supports(src) {
			out = append(out, c.name)
		}
	}
	return out
}

func newEvent(typ string, data map[string]any) types.Event {
	return types.Event{Type: typ, Data: data, Time: time.Now().UTC()}
}

// WindowSource is a window producer: it broadcasts resize and focus events.
type WindowSource struct {
	*eventsource.Source

	mu     sync.Mutex
	width  int
	height int
}

// NewWindowSource creates a window source and registers its capabilities.
func NewWindowSource(name string, width, height int, opts ...eventsource.Option) *WindowSource {
	if width <= 0 {
		width = defaultWindowWidth
	}
	if height <= 0 {
		height = defaultWindowHeight
	}
	w := &WindowSource{
		Source: eventsource.New(append([]eventsource.Option{eventsource.WithName(name)}, opts...)...),
		width:  width,
		height: height,
	}
	eventsource.Provide[Producer](w.Source, w)
	eventsource.Provide[Window](w.Source, w)
	return w
}

func (w *WindowSource) Kind() string { return types.KindWindow }

func (w *WindowSource) Size() (int, int) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.width, w.height
}

// Resize records the new size and broadcasts a "resize" event.
func (w *WindowSource) Resize(ctx context.Context, width, height int) bool {
	w.mu.Lock()
	w.width, w.height = width, height
	w.mu.Unlock()
	return w.Broadcast(ctx, newEvent("resize", map[string]any{"width": width, "height": height}))
}

// Focus broadcasts a "focus" event.
func (w *WindowSource) Focus(ctx context.Context) bool {
	return w.Broadcast(ctx, newEvent("focus", nil))
}

// StreamSource is a data stream producer: it broadcasts "data" events for each
// write and a final "complete" event.
type StreamSource struct {
	*eventsource.Source
	url string

	mu       sync.Mutex
	written  int64
	complete bool
}

// NewStreamSource creates a stream source and registers its capabilities.
func NewStreamSource(name, url string, opts ...eventsource.Option) *StreamSource {
	s := &StreamSource{
		Source: eventsource.New(append([]eventsource.Option{eventsource.WithName(name)}, opts...)...),
		url:    url,
	}
	eventsource.Provide[Producer](s.Source, s)
	eventsource.Provide[Stream](s.Source, s)
	return s
}

func (s *StreamSource) Kind() string { return types.KindStream }

func (s *StreamSource) URL() string { return s.url }

func (s *StreamSource) BytesWritten() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.written
}

// Write broadcasts p as a "data" event. It fails once the stream is complete.
func (s *StreamSource) Write(ctx context.Context, p []byte) (bool, error) {
	s.mu.Lock()
	if s.complete {
		s.mu.Unlock()
		return false, ErrStreamComplete
	}
	s.written += int64(len(p))
	total := s.written
	s.mu.Unlock()
	return s.Broadcast(ctx, newEvent("data", map[string]any{
		"data":  string(p),
		"bytes": len(p),
		"total": total,
	})), nil
}

// Complete marks the stream finished and broadcasts a "complete" event.
func (s *StreamSource) Complete(ctx context.Context) (bool, error) {
	s.mu.Lock()
	if s.complete {
		s.mu.Unlock()
		return false, ErrStreamComplete
	}
	s.complete = true
	total := s.written
	s.mu.Unlock()
	return s.Broadcast(ctx, newEvent("complete", map[string]any{"total": total, "url": s.url})), nil
}
