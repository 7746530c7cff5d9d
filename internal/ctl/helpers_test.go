package ctl

import (
	"bytes"
	"context"
	"net/http/httptest"
	"testing"

	"sourced/internal/httpapi"
	"sourced/internal/hub"
	"sourced/pkg/types"
)

// newDaemon serves a real hub through the HTTP API.
func newDaemon(t *testing.T) *httptest.Server {
	t.Helper()
	h, err := hub.New(hub.Config{Sources: []types.SourceSpec{
		{Name: "win", Kind: types.KindWindow, Width: 640, Height: 480, Sinks: []types.SinkSpec{{ID: "audit", Kind: types.SinkMemory}}},
		{Name: "feed", Kind: types.KindStream, URL: "mem://feed"},
	}})
	if err != nil {
		t.Fatalf("hub.New: %v", err)
	}
	srv := httptest.NewServer(httpapi.NewMux(h))
	t.Cleanup(srv.Close)
	return srv
}

func run(t *testing.T, srv *httptest.Server, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cfg := &Config{Server: srv.URL, Output: "text", LogLvl: "error"}
	err := runWith(context.Background(), cfg, args, &out)
	return out.String(), err
}
