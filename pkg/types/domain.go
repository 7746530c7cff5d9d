package types

import "time"

// Event is the payload the daemon broadcasts through its sources.
type Event struct {
	// Event type, used by sinks to filter.
	// example: resize
	Type string `json:"type" yaml:"type" example:"resize"`
	// Arbitrary event fields.
	Data map[string]any `json:"data,omitempty" yaml:"data,omitempty"`
	// Time the event was produced. Filled in by the server when omitted.
	Time time.Time `json:"time,omitempty" yaml:"time,omitempty"`
}

// SinkSpec describes a sink the daemon creates and owns.
type SinkSpec struct {
	// Stable identifier. Generated when empty.
	// example: audit
	ID string `json:"id,omitempty" yaml:"id,omitempty" toml:"id,omitempty" example:"audit"`
	// One of: log, memory, counter.
	// example: memory
	Kind string `json:"kind" yaml:"kind" toml:"kind" example:"memory"`
	// Whether the sink reports matching events as handled, which stops delivery to later sinks.
	// example: false
	Handles bool `json:"handles,omitempty" yaml:"handles,omitempty" toml:"handles,omitempty" example:"false"`
	// Only consider these event types; empty means all.
	// example: ["resize","focus"]
	Types []string `json:"types,omitempty" yaml:"types,omitempty" toml:"types,omitempty"`
	// Number of recent events a memory sink keeps.
	// example: 64
	Capacity int `json:"capacity,omitempty" yaml:"capacity,omitempty" toml:"capacity,omitempty" example:"64"`
}

// SourceSpec describes a producer hosted by the daemon.
type SourceSpec struct {
	// Unique source name.
	// example: main-window
	Name string `json:"name" yaml:"name" toml:"name" example:"main-window"`
	// One of: window, stream.
	// example: window
	Kind string `json:"kind" yaml:"kind" toml:"kind" example:"window"`
	// Initial window size (window sources only).
	Width  int `json:"width,omitempty" yaml:"width,omitempty" toml:"width,omitempty" example:"800"`
	Height int `json:"height,omitempty" yaml:"height,omitempty" toml:"height,omitempty" example:"600"`
	// Stream origin (stream sources only).
	// example: https://example.com/feed
	URL string `json:"url,omitempty" yaml:"url,omitempty" toml:"url,omitempty" example:"https://example.com/feed"`
	// Sinks attached when the source is created.
	Sinks []SinkSpec `json:"sinks,omitempty" yaml:"sinks,omitempty" toml:"sinks,omitempty"`
}
