package ctl

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"sourced/pkg/types"
)

func TestClient_Flow(t *testing.T) {
	srv := newDaemon(t)
	c := NewClient(srv.URL + "/")
	ctx := context.Background()

	list, err := c.ListSources(ctx)
	if err != nil || len(list) != 2 {
		t.Fatalf("ListSources=%v err=%v", list, err)
	}
	k, err := c.AttachSink(ctx, "win", types.SinkSpec{ID: "stop", Kind: types.SinkCounter, Handles: true})
	if err != nil || !k.Attached || k.Source != "win" {
		t.Fatalf("AttachSink=%+v err=%v", k, err)
	}
	res, err := c.Broadcast(ctx, "win", types.Event{Type: "click", Data: map[string]any{"x": 1}})
	if err != nil || !res.Handled {
		t.Fatalf("Broadcast=%+v err=%v", res, err)
	}
	evs, err := c.SinkEvents(ctx, "audit")
	if err != nil || len(evs) != 1 || evs[0].Type != "click" {
		t.Fatalf("SinkEvents=%+v err=%v", evs, err)
	}
	if err := c.DetachSink(ctx, "win", "stop"); err != nil {
		t.Fatalf("DetachSink: %v", err)
	}
	if k, err := c.Sink(ctx, "stop"); err != nil || k.Attached {
		t.Fatalf("Sink=%+v err=%v", k, err)
	}
	if _, err := c.Resize(ctx, "win", 800, 600); err != nil {
		t.Fatalf("Resize: %v", err)
	}
	if _, err := c.Focus(ctx, "win"); err != nil {
		t.Fatalf("Focus: %v", err)
	}
	if _, err := c.Write(ctx, "feed", "abc", true); err != nil {
		t.Fatalf("Write: %v", err)
	}
	st, err := c.Status(ctx)
	if err != nil || st.State != "ready" || st.Sources != 2 {
		t.Fatalf("Status=%+v err=%v", st, err)
	}
}

func TestClient_APIError(t *testing.T) {
	srv := newDaemon(t)
	c := NewClient(srv.URL)
	_, err := c.Source(context.Background(), "missing")
	var apiErr *APIError
	if !errors.As(err, &apiErr) || apiErr.Status != http.StatusNotFound {
		t.Fatalf("expected 404 APIError, got %v", err)
	}
	if apiErr.Message == "" {
		t.Fatalf("message should carry the server error")
	}
}

func TestClient_APIErrorPlainBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusBadGateway)
	}))
	defer srv.Close()
	_, err := NewClient(srv.URL).Status(context.Background())
	var apiErr *APIError
	if !errors.As(err, &apiErr) || apiErr.Status != http.StatusBadGateway || apiErr.Message != "boom" {
		t.Fatalf("unexpected err %#v", err)
	}
}

func TestClient_WaitReady(t *testing.T) {
	srv := newDaemon(t)
	if err := NewClient(srv.URL).WaitReady(context.Background(), time.Second, 10*time.Millisecond); err != nil {
		t.Fatalf("WaitReady: %v", err)
	}

	notReady := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer notReady.Close()
	if err := NewClient(notReady.URL).WaitReady(context.Background(), 50*time.Millisecond, 10*time.Millisecond); err == nil {
		t.Fatalf("expected timeout")
	}
}
