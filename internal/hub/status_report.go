package hub

import (
	"context"
	"sort"
	"time"

	"sourced/pkg/eventsource"
	"sourced/pkg/types"
)

// SourceInfo describes one source and the sinks the hub owns on it.
func (h *Hub) SourceInfo(ctx context.Context, name string) (types.SourceInfo, error) {
	p, err := h.Source(name)
	if err != nil {
		return types.SourceInfo{}, err
	}
	return h.describe(ctx, p), nil
}

// ListSources describes every source in creation order.
func (h *Hub) ListSources(ctx context.Context) []types.SourceInfo {
	h.mu.RLock()
	ps := make([]Producer, 0, len(h.order))
	for _, name := range h.order {
		ps = append(ps, h.sources[name])
	}
	h.mu.RUnlock()

	out := make([]types.SourceInfo, 0, len(ps))
	for _, p := range ps {
		out = append(out, h.describe(ctx, p))
	}
	return out
}

func (h *Hub) describe(ctx context.Context, p Producer) types.SourceInfo {
	info := types.SourceInfo{
		Name:         p.Name(),
		Kind:         p.Kind(),
		Sinks:        p.Handle().Len(ctx),
		Capabilities: capabilitiesOf(p.Handle()),
		Owned:        []types.SinkInfo{},
	}
	if w, err := eventsource.As[Window](p.Handle()); err == nil {
		info.Width, info.Height = w.Size()
	}
	if st, err := eventsource.As[Stream](p.Handle()); err == nil {
		info.URL = st.URL()
		info.BytesWritten = st.BytesWritten()
	}
	h.mu.RLock()
	for _, s := range h.sinks {
		if s.core().source == info.Name {
			info.Owned = append(info.Owned, describeSink(s))
		}
	}
	h.mu.RUnlock()
	sort.Slice(info.Owned, func(i, j int) bool { return info.Owned[i].ID < info.Owned[j].ID })
	return info
}

// Status summarizes the hub for the status endpoint.
func (h *Hub) Status(ctx context.Context) types.StatusResponse {
	h.mu.RLock()
	ps := make([]Producer, 0, len(h.sources))
	for _, p := range h.sources {
		ps = append(ps, p)
	}
	owned := len(h.sinks)
	h.mu.RUnlock()

	live := 0
	for _, p := range ps {
		live += p.Handle().Len(ctx)
	}
	state := "loading"
	if len(ps) > 0 {
		state = "ready"
	}
	now := time.Now()
	return types.StatusResponse{
		State:           state,
		Sources:         len(ps),
		Sinks:           live,
		OwnedSinks:      owned,
		BroadcastsTotal: h.broadcasts.Load(),
		HandledTotal:    h.handled.Load(),
		UptimeSeconds:   int64(now.Sub(h.startTime).Seconds()),
		ServerTimeUnix:  now.Unix(),
	}
}
