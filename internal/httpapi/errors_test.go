package httpapi

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"testing"

	"sourced/internal/hub"
	"sourced/pkg/eventsource"
	"sourced/pkg/types"
)

func TestErrorMapping(t *testing.T) {
	h, err := hub.New(hub.Config{Sources: []types.SourceSpec{{Name: "win", Kind: types.KindWindow}}})
	if err != nil {
		t.Fatalf("hub.New: %v", err)
	}
	_, dupErr := h.AddSource(context.Background(), types.SourceSpec{Name: "win", Kind: types.KindWindow})
	_, badErr := h.AddSource(context.Background(), types.SourceSpec{Name: "x", Kind: "tape"})

	cases := []struct {
		name string
		err  error
		want int
	}{
		{"source not found", hub.ErrSourceNotFound("x"), http.StatusNotFound},
		{"sink not found", hub.ErrSinkNotFound("x"), http.StatusNotFound},
		{"wrapped not found", fmt.Errorf("lookup: %w", hub.ErrSourceNotFound("x")), http.StatusNotFound},
		{"stream complete", hub.ErrStreamComplete, http.StatusConflict},
		{"type mismatch", &eventsource.TypeMismatchError{Source: "x"}, http.StatusConflict},
		{"duplicate", dupErr, http.StatusConflict},
		{"invalid spec", badErr, http.StatusBadRequest},
		{"generic", io.EOF, http.StatusInternalServerError},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			svc := &mockService{err: tc.err}
			w := doJSON(t, NewMux(svc), http.MethodPost, "/sources/win/events", `{"type":"x"}`)
			if w.Code != tc.want {
				t.Fatalf("status=%d want %d", w.Code, tc.want)
			}
		})
	}
}
