package types

// ErrorResponse is a consistent JSON error payload.
type ErrorResponse struct {
	// Error message.
	// example: invalid JSON body
	Error string `json:"error" example:"invalid JSON body"`
	// HTTP status code.
	// example: 400
	Code int `json:"code" example:"400"`
}

// SourceInfo summarizes a hosted source for GET /sources.
type SourceInfo struct {
	// example: main-window
	Name string `json:"name" example:"main-window"`
	// example: window
	Kind string `json:"kind" example:"window"`
	// Live sinks currently attached.
	// example: 2
	Sinks int `json:"sinks" example:"2"`
	// Capabilities the source can be narrowed to.
	// example: ["window"]
	Capabilities []string `json:"capabilities"`
	// Current size of a window source.
	Width  int `json:"width,omitempty" example:"800"`
	Height int `json:"height,omitempty" example:"600"`
	// Origin and bytes written so far of a stream source.
	URL          string `json:"url,omitempty" example:"https://example.com/feed"`
	BytesWritten int64  `json:"bytes_written,omitempty" example:"2048"`
	// Sinks the daemon owns on this source, attached or not.
	Owned []SinkInfo `json:"owned,omitempty"`
}

// SourcesResponse wraps the list returned by GET /sources.
type SourcesResponse struct {
	Sources []SourceInfo `json:"sources"`
}

// SinkInfo describes a sink owned by the daemon.
type SinkInfo struct {
	// example: audit
	ID string `json:"id" example:"audit"`
	// example: memory
	Kind string `json:"kind" example:"memory"`
	// example: main-window
	Source string `json:"source" example:"main-window"`
	// example: false
	Handles bool `json:"handles" example:"false"`
	// Whether the sink is currently attached to its source.
	// example: true
	Attached bool `json:"attached" example:"true"`
	// Events delivered to this sink so far.
	// example: 12
	Received uint64 `json:"received" example:"12"`
	// Per event type counts kept by a counter sink.
	Counts map[string]uint64 `json:"counts,omitempty"`
}

// BroadcastResult is returned by the broadcasting endpoints.
type BroadcastResult struct {
	// example: main-window
	Source string `json:"source" example:"main-window"`
	// Whether a sink reported the event as handled.
	// example: true
	Handled bool `json:"handled" example:"true"`
}

// ResizeRequest is the body of POST /sources/{name}/resize.
type ResizeRequest struct {
	// example: 1024
	Width int `json:"width" example:"1024"`
	// example: 768
	Height int `json:"height" example:"768"`
}

// WriteRequest is the body of POST /sources/{name}/write.
type WriteRequest struct {
	// Data appended to the stream.
	// example: hello
	Data string `json:"data" example:"hello"`
	// Complete the stream after writing.
	// example: false
	Complete bool `json:"complete,omitempty" example:"false"`
}

// SinkEventsResponse is returned by GET /sinks/{id}/events.
type SinkEventsResponse struct {
	ID     string  `json:"id"`
	Events []Event `json:"events"`
}

// StatusResponse is returned by GET /status.
type StatusResponse struct {
	// Overall hub state (e.g., ready).
	// example: ready
	State string `json:"state" example:"ready"`
	// example: 3
	Sources int `json:"sources" example:"3"`
	// Live sinks across all sources.
	// example: 5
	Sinks int `json:"sinks" example:"5"`
	// Sinks the daemon owns.
	// example: 5
	OwnedSinks int `json:"owned_sinks" example:"5"`
	// example: 120
	BroadcastsTotal uint64 `json:"broadcasts_total" example:"120"`
	// example: 40
	HandledTotal uint64 `json:"handled_total" example:"40"`
	// Uptime of the server in seconds.
	// example: 3600
	UptimeSeconds int64 `json:"uptime_seconds" example:"3600"`
	// Server time in unix seconds.
	// example: 1700000000
	ServerTimeUnix int64 `json:"server_time_unix" example:"1700000000"`
}
