// Package eventsource provides Source, a synchronous broadcaster that notifies
// a dynamic set of Sinks without ever keeping them alive.
//
//   - source.go: Source, New, Attach/Detach/Broadcast.
//   - registry.go: weak sink entries and lazy pruning.
//   - lock.go: the context-carried reentrant mutex guarding the registry.
//   - capability.go: Provide, As and Supports capability narrowing.
//   - errors.go: TypeMismatchError and helpers.
//
// Sinks are held through weak pointers. A sink that becomes unreachable is
// skipped by the next Broadcast and pruned from the registry; it never has to
// call Detach.
//
// Handlers run with the source locked. The context passed to
// [Sink.HandleEvent] carries that lock, so a handler that passes it back into
// Attach, Detach or Broadcast on the same source re-enters instead of
// deadlocking:
//
//	func (p *Plugin) HandleEvent(ctx context.Context, src *eventsource.Source, ev eventsource.Event) bool {
//		if _, ok := ev.(Closed); ok {
//			src.Detach(ctx, p)
//			return true
//		}
//		return false
//	}
//
// The lock-carrying context must stay on the handler's goroutine. Passing it to
// another goroutine while the handler is still running lets that goroutine
// bypass the lock.
//
// Producers embed a *Source obtained from [New] and register the richer views
// they offer with [Provide]; holders of a bare handle narrow it with [As] or
// test it with [Supports].
package eventsource
