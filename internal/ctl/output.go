package ctl

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"
	"text/tabwriter"

	"sourced/pkg/types"
)

// printer renders results as text tables or indented JSON.
type printer struct {
	w    io.Writer
	json bool
}

func (p printer) emit(v any, text func(w io.Writer)) error {
	if p.json {
		enc := json.NewEncoder(p.w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	}
	tw := tabwriter.NewWriter(p.w, 0, 4, 2, ' ', 0)
	text(tw)
	return tw.Flush()
}

func (p printer) sources(list []types.SourceInfo) error {
	return p.emit(types.SourcesResponse{Sources: list}, func(w io.Writer) {
		fmt.Fprintln(w, "NAME\tKIND\tSINKS\tOWNED\tCAPABILITIES")
		for _, s := range list {
			fmt.Fprintf(w, "%s\t%s\t%d\t%d\t%s\n", s.Name, s.Kind, s.Sinks, len(s.Owned), strings.Join(s.Capabilities, ","))
		}
	})
}

func (p printer) source(s types.SourceInfo) error {
	return p.emit(s, func(w io.Writer) {
		fmt.Fprintf(w, "name:\t%s\nkind:\t%s\nsinks:\t%d\ncapabilities:\t%s\n", s.Name, s.Kind, s.Sinks, strings.Join(s.Capabilities, ","))
		if s.Width > 0 {
			fmt.Fprintf(w, "size:\t%dx%d\n", s.Width, s.Height)
		}
		if s.URL != "" || s.BytesWritten > 0 {
			fmt.Fprintf(w, "url:\t%s\nbytes written:\t%d\n", s.URL, s.BytesWritten)
		}
		if len(s.Owned) > 0 {
			fmt.Fprintln(w, "\nID\tKIND\tHANDLES\tATTACHED\tRECEIVED")
			for _, k := range s.Owned {
				fmt.Fprintf(w, "%s\t%s\t%t\t%t\t%d\n", k.ID, k.Kind, k.Handles, k.Attached, k.Received)
			}
		}
	})
}

func (p printer) sink(k types.SinkInfo) error {
	return p.emit(k, func(w io.Writer) {
		fmt.Fprintf(w, "id:\t%s\nkind:\t%s\nsource:\t%s\nhandles:\t%t\nattached:\t%t\nreceived:\t%d\n",
			k.ID, k.Kind, k.Source, k.Handles, k.Attached, k.Received)
		if len(k.Counts) > 0 {
			counts := make(map[string]any, len(k.Counts))
			for t, n := range k.Counts {
				counts[t] = n
			}
			fmt.Fprintf(w, "counts:\t%s\n", formatData(counts))
		}
	})
}

func (p printer) result(r types.BroadcastResult) error {
	return p.emit(r, func(w io.Writer) {
		state := "unhandled"
		if r.Handled {
			state = "handled"
		}
		fmt.Fprintf(w, "%s: %s\n", r.Source, state)
	})
}

func (p printer) events(id string, evs []types.Event) error {
	return p.emit(types.SinkEventsResponse{ID: id, Events: evs}, func(w io.Writer) {
		fmt.Fprintln(w, "TIME\tTYPE\tDATA")
		for _, e := range evs {
			fmt.Fprintf(w, "%s\t%s\t%s\n", e.Time.Format("15:04:05.000"), e.Type, formatData(e.Data))
		}
	})
}

func (p printer) status(s types.StatusResponse) error {
	return p.emit(s, func(w io.Writer) {
		fmt.Fprintf(w, "state:\t%s\nsources:\t%d\nsinks:\t%d\nowned sinks:\t%d\nbroadcasts:\t%d\nhandled:\t%d\nuptime:\t%ds\n",
			s.State, s.Sources, s.Sinks, s.OwnedSinks, s.BroadcastsTotal, s.HandledTotal, s.UptimeSeconds)
	})
}

func formatData(m map[string]any) string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s=%v", k, m[k]))
	}
	return strings.Join(parts, " ")
}
