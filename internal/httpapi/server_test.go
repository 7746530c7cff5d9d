package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"sourced/internal/hub"
	"sourced/pkg/types"
)

type mockService struct {
	sources []types.SourceInfo
	status  types.StatusResponse
	ready   bool
	err     error

	lastEvent types.Event
	lastSpec  types.SinkSpec
	lastWrite string
	dropped   string
}

func (m *mockService) ListSources(context.Context) []types.SourceInfo {
	return append([]types.SourceInfo(nil), m.sources...)
}
func (m *mockService) SourceInfo(_ context.Context, name string) (types.SourceInfo, error) {
	for _, s := range m.sources {
		if s.Name == name {
			return s, nil
		}
	}
	return types.SourceInfo{}, hub.ErrSourceNotFound(name)
}
func (m *mockService) AddSource(_ context.Context, spec types.SourceSpec) (types.SourceInfo, error) {
	if m.err != nil {
		return types.SourceInfo{}, m.err
	}
	return types.SourceInfo{Name: spec.Name, Kind: spec.Kind}, nil
}
func (m *mockService) Broadcast(_ context.Context, name string, ev types.Event) (types.BroadcastResult, error) {
	m.lastEvent = ev
	return types.BroadcastResult{Source: name, Handled: ev.Type == "handled"}, m.err
}
func (m *mockService) AttachSink(_ context.Context, source string, spec types.SinkSpec) (types.SinkInfo, error) {
	m.lastSpec = spec
	return types.SinkInfo{ID: "s-1", Kind: spec.Kind, Source: source, Attached: true}, m.err
}
func (m *mockService) DetachSink(context.Context, string, string) error { return m.err }
func (m *mockService) DropSink(id string) error {
	m.dropped = id
	return m.err
}
func (m *mockService) Sink(id string) (types.SinkInfo, error) {
	return types.SinkInfo{ID: id}, m.err
}
func (m *mockService) SinkEvents(string) ([]types.Event, error) {
	return []types.Event{{Type: "a"}, {Type: "b"}}, m.err
}
func (m *mockService) Resize(_ context.Context, name string, _, _ int) (types.BroadcastResult, error) {
	return types.BroadcastResult{Source: name, Handled: true}, m.err
}
func (m *mockService) Focus(_ context.Context, name string) (types.BroadcastResult, error) {
	return types.BroadcastResult{Source: name}, m.err
}
func (m *mockService) Write(_ context.Context, name string, data []byte, _ bool) (types.BroadcastResult, error) {
	m.lastWrite = string(data)
	return types.BroadcastResult{Source: name}, m.err
}
func (m *mockService) Status(context.Context) types.StatusResponse { return m.status }
func (m *mockService) Ready() bool                                 { return m.ready }

func doJSON(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, bytes.NewBufferString(body))
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func TestSourcesHandler(t *testing.T) {
	svc := &mockService{sources: []types.SourceInfo{{Name: "a"}, {Name: "b"}}}
	w := doJSON(t, NewMux(svc), http.MethodGet, "/sources", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status=%d", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); !strings.Contains(ct, "application/json") {
		t.Fatalf("content-type=%s", ct)
	}
	var body types.SourcesResponse
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("json: %v", err)
	}
	if len(body.Sources) != 2 {
		t.Fatalf("sources len=%d", len(body.Sources))
	}
}

func TestGetSource(t *testing.T) {
	svc := &mockService{sources: []types.SourceInfo{{Name: "win", Kind: "window"}}}
	r := NewMux(svc)
	if w := doJSON(t, r, http.MethodGet, "/sources/win", ""); w.Code != http.StatusOK || !strings.Contains(w.Body.String(), `"kind":"window"`) {
		t.Fatalf("status=%d body=%s", w.Code, w.Body.String())
	}
	w := doJSON(t, r, http.MethodGet, "/sources/nope", "")
	if w.Code != http.StatusNotFound {
		t.Fatalf("status=%d", w.Code)
	}
	var e types.ErrorResponse
	if err := json.Unmarshal(w.Body.Bytes(), &e); err != nil || e.Code != http.StatusNotFound || e.Error == "" {
		t.Fatalf("error body=%s err=%v", w.Body.String(), err)
	}
}

func TestAddSource(t *testing.T) {
	svc := &mockService{}
	r := NewMux(svc)
	w := doJSON(t, r, http.MethodPost, "/sources", `{"name":"w2","kind":"window"}`)
	if w.Code != http.StatusCreated {
		t.Fatalf("status=%d body=%s", w.Code, w.Body.String())
	}
	if w := doJSON(t, r, http.MethodPost, "/sources", `{"kind":"window"}`); w.Code != http.StatusBadRequest {
		t.Fatalf("missing name status=%d", w.Code)
	}
}

func TestBroadcast(t *testing.T) {
	svc := &mockService{}
	r := NewMux(svc)
	w := doJSON(t, r, http.MethodPost, "/sources/win/events", `{"type":"handled","data":{"x":1}}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status=%d body=%s", w.Code, w.Body.String())
	}
	var res types.BroadcastResult
	if err := json.Unmarshal(w.Body.Bytes(), &res); err != nil || !res.Handled || res.Source != "win" {
		t.Fatalf("result=%+v err=%v", res, err)
	}
	if svc.lastEvent.Type != "handled" || svc.lastEvent.Data["x"] != float64(1) {
		t.Fatalf("event=%+v", svc.lastEvent)
	}
	if w := doJSON(t, r, http.MethodPost, "/sources/win/events", `{"data":{}}`); w.Code != http.StatusBadRequest {
		t.Fatalf("missing type status=%d", w.Code)
	}
}

func TestBadJSON(t *testing.T) {
	w := doJSON(t, NewMux(&mockService{}), http.MethodPost, "/sources/win/events", "not-json")
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status=%d", w.Code)
	}
}

func TestUnsupportedMediaType(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/sources/win/events", bytes.NewBufferString(`{"type":"x"}`))
	req.Header.Set("Content-Type", "text/plain")
	w := httptest.NewRecorder()
	NewMux(&mockService{}).ServeHTTP(w, req)
	if w.Code != http.StatusUnsupportedMediaType {
		t.Fatalf("status=%d", w.Code)
	}
}

func TestContentTypeCaseInsensitive(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/sources/win/events", bytes.NewBufferString(`{"type":"x"}`))
	req.Header.Set("Content-Type", "Application/JSON; charset=utf-8")
	w := httptest.NewRecorder()
	NewMux(&mockService{}).ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 with mixed-case content-type, got %d", w.Code)
	}
}

func TestBodyTooLarge(t *testing.T) {
	big := `{"type":"x","data":{"pad":"` + strings.Repeat("a", (1<<20)+10) + `"}}`
	w := doJSON(t, NewMux(&mockService{}), http.MethodPost, "/sources/win/events", big)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for too-large body, got %d", w.Code)
	}
}

func TestSinkRoutes(t *testing.T) {
	svc := &mockService{}
	r := NewMux(svc)
	w := doJSON(t, r, http.MethodPost, "/sources/win/sinks", `{"kind":"memory","handles":true,"types":["resize"]}`)
	if w.Code != http.StatusCreated {
		t.Fatalf("attach status=%d body=%s", w.Code, w.Body.String())
	}
	if svc.lastSpec.Kind != "memory" || !svc.lastSpec.Handles || len(svc.lastSpec.Types) != 1 {
		t.Fatalf("spec=%+v", svc.lastSpec)
	}
	if w := doJSON(t, r, http.MethodDelete, "/sources/win/sinks/s-1", ""); w.Code != http.StatusNoContent {
		t.Fatalf("detach status=%d", w.Code)
	}
	if w := doJSON(t, r, http.MethodGet, "/sinks/s-1", ""); w.Code != http.StatusOK || !strings.Contains(w.Body.String(), `"id":"s-1"`) {
		t.Fatalf("get sink status=%d body=%s", w.Code, w.Body.String())
	}
	w = doJSON(t, r, http.MethodGet, "/sinks/s-1/events", "")
	var evs types.SinkEventsResponse
	if err := json.Unmarshal(w.Body.Bytes(), &evs); err != nil || evs.ID != "s-1" || len(evs.Events) != 2 {
		t.Fatalf("events=%+v err=%v", evs, err)
	}
	if w := doJSON(t, r, http.MethodDelete, "/sinks/s-1", ""); w.Code != http.StatusNoContent || svc.dropped != "s-1" {
		t.Fatalf("drop status=%d dropped=%q", w.Code, svc.dropped)
	}
}

func TestCapabilityRoutes(t *testing.T) {
	svc := &mockService{}
	r := NewMux(svc)
	if w := doJSON(t, r, http.MethodPost, "/sources/win/resize", `{"width":10,"height":20}`); w.Code != http.StatusOK {
		t.Fatalf("resize status=%d", w.Code)
	}
	if w := doJSON(t, r, http.MethodPost, "/sources/win/focus", ""); w.Code != http.StatusOK {
		t.Fatalf("focus status=%d", w.Code)
	}
	if w := doJSON(t, r, http.MethodPost, "/sources/feed/write", `{"data":"hello"}`); w.Code != http.StatusOK || svc.lastWrite != "hello" {
		t.Fatalf("write status=%d data=%q", w.Code, svc.lastWrite)
	}
}

func TestStatusHandler(t *testing.T) {
	svc := &mockService{status: types.StatusResponse{State: "ready", Sources: 3}}
	w := doJSON(t, NewMux(svc), http.MethodGet, "/status", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status=%d", w.Code)
	}
	var body types.StatusResponse
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("json: %v", err)
	}
	if body.Sources != 3 || body.State != "ready" {
		t.Fatalf("unexpected body: %+v", body)
	}
}

func TestReadyz(t *testing.T) {
	w := doJSON(t, NewMux(&mockService{ready: true}), http.MethodGet, "/readyz", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status=%d", w.Code)
	}
}

func TestReadyz_NotReady(t *testing.T) {
	w := doJSON(t, NewMux(&mockService{}), http.MethodGet, "/readyz", "")
	if w.Code != http.StatusServiceUnavailable {
		t.Fatalf("status=%d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "loading") {
		t.Fatalf("body=%q", w.Body.String())
	}
}

func TestHealthz(t *testing.T) {
	w := doJSON(t, NewMux(&mockService{}), http.MethodGet, "/healthz", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status=%d", w.Code)
	}
}
