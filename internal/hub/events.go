package hub

// LifecycleEvent represents a hub lifecycle notification.
// Minimal and stable: name + source and optional sink id plus key/values.
type LifecycleEvent struct {
	Name   string
	Source string
	Sink   string
	Fields map[string]any
}

// Lifecycle event names.
const (
	EventSourceAdded  = "source_added"
	EventSinkAttached = "sink_attached"
	EventSinkDetached = "sink_detached"
	EventSinkDropped  = "sink_dropped"
)

// EventPublisher receives lifecycle notifications from the hub.
// Implementations should be lightweight and non-blocking; Publish must not panic.
type EventPublisher interface {
	Publish(LifecycleEvent)
}

// noopPublisher is the default; it drops events.
type noopPublisher struct{}

func (noopPublisher) Publish(LifecycleEvent) {}
