package workflow

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/moogar0880/problems"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/Mamtha-mass/HR-designer-workflow/services/automation"
	"github.com/Mamtha-mass/HR-designer-workflow/services/nodes"
)

// maxRequestBody limits the size of request bodies to prevent abuse.
const maxRequestBody = 1 << 20 // 1MB

// HandleSimulateWorkflow runs the simulation engine over the snapshot in the
// request body. A workflow that fails validation is still a 200: the result
// carries success=false and the error message for the editor to display.
func (s *Service) HandleSimulateWorkflow(w http.ResponseWriter, r *http.Request) {
	rid := reqID(r)

	var snap nodes.Snapshot
	if !decodeBody(w, r, &snap) {
		return
	}
	slog.Debug("simulating workflow", "nodes", len(snap.Nodes), "edges", len(snap.Edges), "requestId", rid)

	ctx, span := s.tracer.Start(r.Context(), "workflow.Simulate")
	defer span.End()
	span.SetAttributes(
		attribute.Int("workflow.nodes", len(snap.Nodes)),
		attribute.Int("workflow.edges", len(snap.Edges)),
	)

	ctx, cancel := context.WithTimeout(ctx, s.simulationTimeout)
	defer cancel()

	result, err := s.engine.Run(ctx, snap)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		if errors.Is(err, context.DeadlineExceeded) {
			slog.Warn("simulation timed out", "requestId", rid, "error", err)
			writeProblem(w, r, http.StatusGatewayTimeout, "upstream_timeout", "simulation timed out")
			return
		}
		slog.Warn("simulation aborted", "requestId", rid, "error", err)
		writeProblem(w, r, http.StatusServiceUnavailable, "cancelled", "simulation was cancelled")
		return
	}

	span.SetAttributes(
		attribute.Bool("simulation.success", result.Success),
		attribute.Int("simulation.steps", len(result.Logs)),
	)
	if !result.Success {
		slog.Info("workflow failed validation", "requestId", rid, "error", result.Error)
	}

	writeJSON(w, r, http.StatusOK, result)
}

// checkRequest is the body of the check endpoint: a snapshot plus
// optional workflow settings.
type checkRequest struct {
	Nodes    []nodes.Node `json:"nodes"`
	Edges    []nodes.Edge `json:"edges"`
	Settings *Settings    `json:"settings"`
}

// CheckResponse lists every problem found in a workflow.
type CheckResponse struct {
	Valid  bool        `json:"valid"`
	Stats  nodes.Stats `json:"stats"`
	Issues []Issue     `json:"issues"`
}

// HandleCheckWorkflow runs the strict structural and configuration checks,
// resolving automation references against the current catalog.
func (s *Service) HandleCheckWorkflow(w http.ResponseWriter, r *http.Request) {
	rid := reqID(r)

	var body checkRequest
	if !decodeBody(w, r, &body) {
		return
	}
	snap := nodes.Snapshot{Nodes: body.Nodes, Edges: body.Edges}

	ctx, span := s.tracer.Start(r.Context(), "workflow.Check")
	defer span.End()

	entries, ok := s.listCatalog(ctx, w, r)
	if !ok {
		return
	}

	issues := Check(snap, body.Settings, entries)
	span.SetAttributes(attribute.Int("check.issues", len(issues)))
	slog.Debug("checked workflow", "issues", len(issues), "requestId", rid)

	writeJSON(w, r, http.StatusOK, CheckResponse{
		Valid:  len(issues) == 0,
		Stats:  snap.Stats(),
		Issues: issues,
	})
}

// HandleListAutomations returns the automation catalog.
func (s *Service) HandleListAutomations(w http.ResponseWriter, r *http.Request) {
	ctx, span := s.tracer.Start(r.Context(), "automation.List")
	defer span.End()

	entries, ok := s.listCatalog(ctx, w, r)
	if !ok {
		return
	}
	span.SetAttributes(attribute.Int("automation.entries", len(entries)))
	writeJSON(w, r, http.StatusOK, entries)
}

// entryGetter is implemented by catalogs that can look up a single entry
// without listing everything, e.g. storage.PgStorage.
type entryGetter interface {
	Get(ctx context.Context, id string) (*automation.Entry, error)
}

// HandleGetAutomation returns one catalog entry by id.
func (s *Service) HandleGetAutomation(w http.ResponseWriter, r *http.Request) {
	rid := reqID(r)
	id := mux.Vars(r)["id"]

	ctx, span := s.tracer.Start(r.Context(), "automation.Get")
	defer span.End()
	span.SetAttributes(attribute.String("automation.id", id))

	var (
		entry *automation.Entry
		err   error
	)
	if getter, ok := s.catalog.(entryGetter); ok {
		ctx, cancel := context.WithTimeout(ctx, s.catalogTimeout)
		defer cancel()
		entry, err = getter.Get(ctx, id)
	} else {
		entries, ok := s.listCatalog(ctx, w, r)
		if !ok {
			return
		}
		var found automation.Entry
		found, err = automation.Find(entries, id)
		entry = &found
	}

	switch {
	case err == nil:
		writeJSON(w, r, http.StatusOK, entry)
	case errors.Is(err, automation.ErrNotFound):
		slog.Debug("automation not found", "id", id, "requestId", rid)
		writeProblem(w, r, http.StatusNotFound, "not_found", err.Error())
	case errors.Is(err, context.DeadlineExceeded):
		slog.Warn("automation lookup timed out", "id", id, "requestId", rid, "error", err)
		writeProblem(w, r, http.StatusGatewayTimeout, "upstream_timeout", "automation catalog timed out")
	default:
		slog.Error("failed to get automation", "id", id, "requestId", rid, "error", err)
		writeProblem(w, r, http.StatusBadGateway, "catalog_unavailable", "automation catalog unavailable")
	}
}

// HandleCreateNode returns the default node for a kind dropped on the
// canvas, with a freshly generated id.
func (s *Service) HandleCreateNode(w http.ResponseWriter, r *http.Request) {
	rid := reqID(r)

	var body struct {
		Type     string         `json:"type"`
		Position nodes.Position `json:"position"`
	}
	if !decodeBody(w, r, &body) {
		return
	}

	kind, err := nodes.ParseKind(body.Type)
	if err != nil {
		slog.Warn("unknown node type", "type", body.Type, "requestId", rid)
		writeProblem(w, r, http.StatusBadRequest, "unknown_node_type", err.Error())
		return
	}
	node, err := nodes.NewDefault(nodes.NewID(), kind, body.Position)
	if err != nil {
		slog.Error("failed to build default node", "type", kind, "requestId", rid, "error", err)
		writeProblem(w, r, http.StatusInternalServerError, "internal_error", "internal server error")
		return
	}
	slog.Debug("created node", "id", node.ID, "type", kind, "requestId", rid)
	writeJSON(w, r, http.StatusCreated, node)
}

// HandleGetInitialWorkflow returns the graph a new editor session starts with.
func (s *Service) HandleGetInitialWorkflow(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, nodes.InitialSnapshot())
}

// listCatalog fetches the catalog under the catalog timeout, writing a
// problem response and returning false on failure.
func (s *Service) listCatalog(ctx context.Context, w http.ResponseWriter, r *http.Request) ([]automation.Entry, bool) {
	ctx, cancel := context.WithTimeout(ctx, s.catalogTimeout)
	defer cancel()

	entries, err := s.catalog.List(ctx)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			slog.Warn("automation catalog timed out", "requestId", reqID(r), "error", err)
			writeProblem(w, r, http.StatusGatewayTimeout, "upstream_timeout", "automation catalog timed out")
			return nil, false
		}
		slog.Error("failed to list automations", "requestId", reqID(r), "error", err)
		writeProblem(w, r, http.StatusBadGateway, "catalog_unavailable", "automation catalog unavailable")
		return nil, false
	}
	return entries, true
}

// decodeBody reads a size-limited JSON body into dst. It writes a problem
// response and returns false when the body is unusable.
func decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBody)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		slog.Warn("failed to decode request body", "path", r.URL.Path, "requestId", reqID(r), "error", err)
		if errors.Is(err, nodes.ErrUnknownKind) {
			writeProblem(w, r, http.StatusBadRequest, "unknown_node_type", err.Error())
			return false
		}
		writeProblem(w, r, http.StatusBadRequest, "invalid_body", "invalid request body")
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	payload, err := json.Marshal(v)
	if err != nil {
		slog.Error("failed to marshal response", "path", r.URL.Path, "requestId", reqID(r), "error", err)
		writeProblem(w, r, http.StatusInternalServerError, "internal_error", "internal server error")
		return
	}
	w.WriteHeader(status)
	if _, err := w.Write(payload); err != nil {
		slog.Error("failed to write response", "path", r.URL.Path, "requestId", reqID(r), "error", err)
	}
}

// writeProblem writes an RFC 7807 problem document. The type is a short
// machine-readable code so clients can tell retryable failures
// (internal_error, upstream_timeout) from request errors (invalid_body).
func writeProblem(w http.ResponseWriter, r *http.Request, status int, problemType, detail string) {
	problem := problems.NewStatusProblem(status).
		WithInstance(r.URL.Path).
		WithType(problemType).
		WithDetail(detail)

	w.Header().Set("Content-Type", "application/problem+json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(problem); err != nil {
		slog.Error("failed to write problem", "path", r.URL.Path, "requestId", reqID(r), "error", err)
	}
}

// reqID extracts the request ID from context (set by requestIDMiddleware).
func reqID(r *http.Request) string {
	id, _ := r.Context().Value(requestIDKey).(string)
	return id
}
