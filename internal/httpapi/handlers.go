package httpapi

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"sourced/pkg/types"
)

type handlers struct {
	svc Service
}

func (h *handlers) listSources(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, types.SourcesResponse{Sources: h.svc.ListSources(r.Context())})
}

func (h *handlers) getSource(w http.ResponseWriter, r *http.Request) {
	info, err := h.svc.SourceInfo(r.Context(), chi.URLParam(r, "name"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, info)
}

func (h *handlers) addSource(w http.ResponseWriter, r *http.Request) {
	var spec types.SourceSpec
	if !decodeJSON(w, r, &spec) {
		return
	}
	if strings.TrimSpace(spec.Name) == "" {
		writeJSONError(w, http.StatusBadRequest, "name is required")
		return
	}
	ctx, cancel := requestContext(r)
	defer cancel()
	info, err := h.svc.AddSource(ctx, spec)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, info)
}

func (h *handlers) broadcast(w http.ResponseWriter, r *http.Request) {
	var ev types.Event
	if !decodeJSON(w, r, &ev) {
		return
	}
	if strings.TrimSpace(ev.Type) == "" {
		writeJSONError(w, http.StatusBadRequest, "type is required")
		return
	}
	name := chi.URLParam(r, "name")
	debugEvent(r).Str("source", name).Str("type", ev.Type).Interface("data", ev.Data).Msg("broadcast")
	ctx, cancel := requestContext(r)
	defer cancel()
	res, err := h.svc.Broadcast(ctx, name, ev)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (h *handlers) attachSink(w http.ResponseWriter, r *http.Request) {
	var spec types.SinkSpec
	if !decodeJSON(w, r, &spec) {
		return
	}
	ctx, cancel := requestContext(r)
	defer cancel()
	info, err := h.svc.AttachSink(ctx, chi.URLParam(r, "name"), spec)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, info)
}

func (h *handlers) detachSink(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := requestContext(r)
	defer cancel()
	if err := h.svc.DetachSink(ctx, chi.URLParam(r, "name"), chi.URLParam(r, "id")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *handlers) resize(w http.ResponseWriter, r *http.Request) {
	var req types.ResizeRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	ctx, cancel := requestContext(r)
	defer cancel()
	res, err := h.svc.Resize(ctx, chi.URLParam(r, "name"), req.Width, req.Height)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (h *handlers) focus(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := requestContext(r)
	defer cancel()
	res, err := h.svc.Focus(ctx, chi.URLParam(r, "name"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (h *handlers) write(w http.ResponseWriter, r *http.Request) {
	var req types.WriteRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	ctx, cancel := requestContext(r)
	defer cancel()
	res, err := h.svc.Write(ctx, chi.URLParam(r, "name"), []byte(req.Data), req.Complete)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (h *handlers) getSink(w http.ResponseWriter, r *http.Request) {
	info, err := h.svc.Sink(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, info)
}

func (h *handlers) dropSink(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.DropSink(chi.URLParam(r, "id")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *handlers) sinkEvents(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	evs, err := h.svc.SinkEvents(id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, types.SinkEventsResponse{ID: id, Events: evs})
}
