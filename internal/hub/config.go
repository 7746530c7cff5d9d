package hub

import (
	"github.com/rs/zerolog"

	"sourced/pkg/eventsource"
	"sourced/pkg/types"
)

// Defaults applied when corresponding Config fields are unset.
const (
	defaultMemoryCapacity = 64
	defaultWindowWidth    = 800
	defaultWindowHeight   = 600
)

// Config encapsulates all tunables for Hub construction.
type Config struct {
	// Sources created by New, in order.
	Sources []types.SourceSpec
	// Logger for the hub, its sources and its log sinks. Nil discards.
	Logger *zerolog.Logger
	// Observer installed on every source. Nil uses the package Prometheus collectors.
	Observer eventsource.Observer
	// Publisher receives lifecycle notifications. Nil drops them.
	Publisher EventPublisher
	// Default number of events a memory sink keeps.
	MemoryCapacity int
}
