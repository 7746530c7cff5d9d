package eventsource

import (
	"context"
	"reflect"
	"runtime"
	"sync"
	"testing"
	"unsafe"
)

// tinySink is pointer-free and smaller than a tiny allocator block.
type tinySink struct{ id uint8 }

func (*tinySink) HandleEvent(context.Context, *Source, Event) bool { return false }

// paddedSink is pointer-free but large enough for its own allocation.
type paddedSink struct {
	id  uint64
	pad uint64
}

var padded struct {
	mu   sync.Mutex
	seen map[uint64]bool
}

func (p *paddedSink) HandleEvent(context.Context, *Source, Event) bool {
	padded.mu.Lock()
	padded.seen[p.id] = true
	padded.mu.Unlock()
	return false
}

func TestWeaklyReferable(t *testing.T) {
	cases := []struct {
		name string
		typ  reflect.Type
		want bool
	}{
		{"empty", reflect.TypeFor[struct{}](), false},
		{"uint8", reflect.TypeFor[tinySink](), false},
		{"two ints", reflect.TypeFor[struct{ a, b int32 }](), false},
		{"16 bytes", reflect.TypeFor[paddedSink](), true},
		{"pointer", reflect.TypeFor[struct{ p *int }](), true},
		{"string", reflect.TypeFor[struct{ s string }](), true},
		{"nested pointer", reflect.TypeFor[struct{ a [1]struct{ f func() } }](), true},
		{"unsafe pointer", reflect.TypeFor[struct{ p unsafe.Pointer }](), true},
		{"zero-length array of pointers", reflect.TypeFor[struct {
			a [0]*int
			b uint8
		}](), false},
		{"recSink", reflect.TypeFor[recSink](), true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := weaklyReferable(tc.typ); got != tc.want {
				t.Fatalf("weaklyReferable(%v)=%v want %v", tc.typ, got, tc.want)
			}
		})
	}
}

func TestAttach_TinySinkPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic for a 1-byte pointer-free sink")
		}
	}()
	New().Attach(context.Background(), &tinySink{id: 7})
}

// Pointer-free sinks that are accepted are reclaimed one by one: dropping
// every other sink never leaves a dropped one reachable through a neighbour.
func TestBroadcast_DroppedPointerFreeSinksNotInvoked(t *testing.T) {
	ctx := context.Background()
	padded.mu.Lock()
	padded.seen = map[uint64]bool{}
	padded.mu.Unlock()

	const n = 256
	s := New()
	kept := make([]*paddedSink, 0, n/2)
	for i := uint64(0); i < n; i++ {
		p := &paddedSink{id: i}
		s.Attach(ctx, p)
		if i%2 == 0 {
			kept = append(kept, p)
		}
	}
	for i := 0; i < 50 && s.Len(ctx) != n/2; i++ {
		runtime.GC()
	}
	if got := s.Len(ctx); got != n/2 {
		t.Fatalf("Len=%d want %d after GC", got, n/2)
	}

	s.Broadcast(ctx, "e")
	padded.mu.Lock()
	defer padded.mu.Unlock()
	for id := range padded.seen {
		if id%2 == 1 {
			t.Fatalf("dropped sink %d was invoked", id)
		}
	}
	if len(padded.seen) != n/2 {
		t.Fatalf("invoked %d sinks want %d", len(padded.seen), n/2)
	}
	runtime.KeepAlive(kept)
}
