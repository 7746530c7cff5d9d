// Package types holds the wire and configuration types shared by the daemon,
// its HTTP API and the CLI client.
package types

// Source kinds.
const (
	KindWindow = "window"
	KindStream = "stream"
)

// Sink kinds.
const (
	SinkLog     = "log"
	SinkMemory  = "memory"
	SinkCounter = "counter"
)
