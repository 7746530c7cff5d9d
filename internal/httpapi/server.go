package httpapi

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"sourced/pkg/types"
)

// Service defines the methods required by the HTTP API layer.
type Service interface {
	ListSources(ctx context.Context) []types.SourceInfo
	SourceInfo(ctx context.Context, name string) (types.SourceInfo, error)
	AddSource(ctx context.Context, spec types.SourceSpec) (types.SourceInfo, error)
	Broadcast(ctx context.Context, name string, ev types.Event) (types.BroadcastResult, error)
	AttachSink(ctx context.Context, source string, spec types.SinkSpec) (types.SinkInfo, error)
	DetachSink(ctx context.Context, source, id string) error
	DropSink(id string) error
	Sink(id string) (types.SinkInfo, error)
	SinkEvents(id string) ([]types.Event, error)
	Resize(ctx context.Context, name string, width, height int) (types.BroadcastResult, error)
	Focus(ctx context.Context, name string) (types.BroadcastResult, error)
	Write(ctx context.Context, name string, data []byte, complete bool) (types.BroadcastResult, error)
	Status(ctx context.Context) types.StatusResponse
	Ready() bool
}

// NewMux builds the HTTP API over svc.
func NewMux(svc Service) http.Handler {
	r := chi.NewRouter()
	// Basic middlewares: request id, real ip, recoverer
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger)
	r.Use(middleware.Recoverer)
	r.Use(MetricsMiddleware)
	r.Use(middleware.Compress(5))
	if corsEnabled {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: corsAllowedOrigins,
			AllowedMethods: corsAllowedMethods,
			AllowedHeaders: corsAllowedHeaders,
			MaxAge:         300,
		}))
	}
	// Security headers
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("X-Content-Type-Options", "nosniff")
			next.ServeHTTP(w, r)
		})
	})

	h := &handlers{svc: svc}
	r.Route("/sources", func(r chi.Router) {
		r.Get("/", h.listSources)
		r.Post("/", h.addSource)
		r.Route("/{name}", func(r chi.Router) {
			r.Get("/", h.getSource)
			r.Post("/events", h.broadcast)
			r.Post("/sinks", h.attachSink)
			r.Delete("/sinks/{id}", h.detachSink)
			r.Post("/resize", h.resize)
			r.Post("/focus", h.focus)
			r.Post("/write", h.write)
		})
	})
	r.Route("/sinks/{id}", func(r chi.Router) {
		r.Get("/", h.getSink)
		r.Delete("/", h.dropSink)
		r.Get("/events", h.sinkEvents)
	})

	r.Get("/status", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, svc.Status(r.Context()))
	})

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	r.Get("/readyz", func(w http.ResponseWriter, r *http.Request) {
		if svc.Ready() {
			w.WriteHeader(http.StatusOK)
			w.Write([]byte("ready"))
			return
		}
		w.WriteHeader(http.StatusServiceUnavailable)
		w.Write([]byte("loading"))
	})

	// Prometheus metrics endpoint
	r.Get("/metrics", promhttp.Handler().ServeHTTP)

	MountSwagger(r)
	return r
}

// decodeJSON enforces the JSON content type and body limit, then decodes into v.
// It writes the error response itself and reports whether decoding succeeded.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	ct := r.Header.Get("Content-Type")
	if ct == "" || !strings.HasPrefix(strings.ToLower(ct), "application/json") {
		writeJSONError(w, http.StatusUnsupportedMediaType, "Content-Type must be application/json")
		return false
	}
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		// Oversized bodies also land here; report 400 without size details.
		writeJSONError(w, http.StatusBadRequest, "invalid JSON body")
		return false
	}
	return true
}
