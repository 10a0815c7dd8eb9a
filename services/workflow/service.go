package workflow

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"github.com/Mamtha-mass/HR-designer-workflow/services/automation"
)

const tracerName = "github.com/Mamtha-mass/HR-designer-workflow/services/workflow"

const (
	defaultSimulationTimeout = 10 * time.Second
	defaultCatalogTimeout    = 5 * time.Second
)

// Service handles HTTP requests for simulation, checking and the
// automation catalog. The catalog is an interface so the source
// (static, file, Postgres, remote directory) can be swapped.
type Service struct {
	catalog           automation.Catalog
	engine            *Engine
	tracer            trace.Tracer
	simulationTimeout time.Duration
	catalogTimeout    time.Duration
}

// ServiceOption configures a Service.
type ServiceOption func(*Service)

// WithEngine replaces the default engine.
func WithEngine(e *Engine) ServiceOption {
	return func(s *Service) { s.engine = e }
}

// WithTracerProvider sets where spans are sent. Defaults to the global provider.
func WithTracerProvider(tp trace.TracerProvider) ServiceOption {
	return func(s *Service) { s.tracer = tp.Tracer(tracerName) }
}

// WithTimeouts bounds the engine call and the catalog fetch.
func WithTimeouts(simulation, catalog time.Duration) ServiceOption {
	return func(s *Service) {
		if simulation > 0 {
			s.simulationTimeout = simulation
		}
		if catalog > 0 {
			s.catalogTimeout = catalog
		}
	}
}

// NewService creates a workflow Service backed by the given catalog.
func NewService(catalog automation.Catalog, opts ...ServiceOption) (*Service, error) {
	if catalog == nil {
		return nil, fmt.Errorf("service: catalog cannot be nil")
	}
	s := &Service{
		catalog:           catalog,
		engine:            NewEngine(),
		tracer:            otel.Tracer(tracerName),
		simulationTimeout: defaultSimulationTimeout,
		catalogTimeout:    defaultCatalogTimeout,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

type ctxKey string

const requestIDKey ctxKey = "requestId"

// requestIDMiddleware tags each request with an id, reusing X-Request-ID
// when the caller sends one.
func requestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get("X-Request-ID")
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set("X-Request-ID", id)
		ctx := context.WithValue(r.Context(), requestIDKey, id)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// jsonMiddleware sets the Content-Type header to application/json
func jsonMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		next.ServeHTTP(w, r)
	})
}

func (s *Service) LoadRoutes(parentRouter *mux.Router) {
	router := parentRouter.NewRoute().Subrouter()
	router.StrictSlash(false)
	router.Use(requestIDMiddleware, jsonMiddleware)

	router.HandleFunc("/workflows/simulate", s.HandleSimulateWorkflow).Methods("POST")
	router.HandleFunc("/workflows/check", s.HandleCheckWorkflow).Methods("POST")
	router.HandleFunc("/workflows/initial", s.HandleGetInitialWorkflow).Methods("GET")
	router.HandleFunc("/automations", s.HandleListAutomations).Methods("GET")
	router.HandleFunc("/automations/{id}", s.HandleGetAutomation).Methods("GET")
	router.HandleFunc("/nodes", s.HandleCreateNode).Methods("POST")
}
