// Package hub hosts the daemon's event sources and the sinks it owns. It is
// structured into small files by concern:
//
//   - hub.go: core Hub type, constructor, lookups.
//   - config.go: Config and package defaults.
//   - producers.go: WindowSource and StreamSource, the producers embedding an eventsource.Source.
//   - sinks.go: the log, memory and counter sinks.
//   - ops.go: broadcasting and sink lifecycle operations.
//   - status_report.go: ListSources/Status reporting.
//   - errors.go: error types and helpers (IsSourceNotFound, IsSinkNotFound, ...).
//   - events.go, eventpub_memory.go: lifecycle notifications.
//   - metrics.go: Prometheus collectors fed through eventsource.Observer.
//
// The hub holds the only strong reference to the sinks it creates. Sources
// reference them weakly, so DropSink releasing a sink is enough for its
// source to stop delivering to it once the garbage collector reclaims it.
package hub
