package workflow

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Mamtha-mass/HR-designer-workflow/services/nodes"
)

// ErrNoStartNode is the structural validation failure reported when a
// snapshot contains no start node.
var ErrNoStartNode = errors.New("workflow must have a start node")

// NoStartNodeMessage is the editor's wording for ErrNoStartNode. Results
// carry it verbatim, so it keeps the editor's capitalization.
const NoStartNodeMessage = "Validation Failed: Workflow must have a Start Node."

// validationError pairs a Go error with the text reported in a result.
type validationError struct {
	err     error
	message string
}

func (e *validationError) Error() string { return e.err.Error() }

func (e *validationError) Unwrap() error { return e.err }

// resultMessage returns the text a failed result reports for err.
func resultMessage(err error) string {
	var verr *validationError
	if errors.As(err, &verr) {
		return verr.message
	}
	return err.Error()
}

// timestampLayout matches JavaScript's Date.toISOString (UTC, milliseconds).
const timestampLayout = "2006-01-02T15:04:05.000Z"

// LogStatus is the outcome recorded for a visited node. The engine only
// ever produces StatusSuccess; the others are reserved.
type LogStatus string

const (
	StatusSuccess LogStatus = "success"
	StatusPending LogStatus = "pending"
	StatusFailed  LogStatus = "failed"
)

// LogEntry records one visited node.
type LogEntry struct {
	Step      int        `json:"step"`
	NodeID    string     `json:"nodeId"`
	NodeType  nodes.Kind `json:"nodeType"`
	Label     string     `json:"label"`
	Status    LogStatus  `json:"status"`
	Message   string     `json:"message"`
	Timestamp string     `json:"timestamp"`
}

// SimulationResult is the outcome of a simulation. On validation failure
// Success is false, Logs is empty and Error carries the message.
type SimulationResult struct {
	Success bool       `json:"success"`
	Logs    []LogEntry `json:"logs"`
	Error   string     `json:"error,omitempty"`
}

// Engine walks workflow snapshots. The zero value is not usable; use NewEngine.
type Engine struct {
	now   func() time.Time
	delay time.Duration
}

// EngineOption configures an Engine.
type EngineOption func(*Engine)

// WithClock overrides the time source used for log timestamps.
func WithClock(now func() time.Time) EngineOption {
	return func(e *Engine) { e.now = now }
}

// WithDelay adds artificial latency to Run, simulating a remote service.
func WithDelay(d time.Duration) EngineOption {
	return func(e *Engine) { e.delay = d }
}

// NewEngine returns an engine using the wall clock and no delay.
func NewEngine(opts ...EngineOption) *Engine {
	e := &Engine{now: time.Now}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Run is the service-boundary form of Simulate: it waits out the configured
// delay, honoring ctx, then simulates.
func (e *Engine) Run(ctx context.Context, snap nodes.Snapshot) (*SimulationResult, error) {
	if e.delay > 0 {
		timer := time.NewTimer(e.delay)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-timer.C:
		}
	} else if err := ctx.Err(); err != nil {
		return nil, err
	}
	return e.Simulate(snap), nil
}

// Simulate validates snap and walks it from the first start node, following
// the first outgoing edge of each node. The walk ends silently when a node
// repeats (cycle), when an edge points at a missing node, or when a node has
// no outgoing edge. Branches other than the first edge are never explored.
// snap is only read.
func (e *Engine) Simulate(snap nodes.Snapshot) *SimulationResult {
	start, err := validateSnapshot(snap)
	if err != nil {
		return &SimulationResult{Success: false, Logs: []LogEntry{}, Error: resultMessage(err)}
	}

	// First node per id and first outgoing edge per source, in snapshot order.
	byID := make(map[string]int, len(snap.Nodes))
	for i, n := range snap.Nodes {
		if _, ok := byID[n.ID]; !ok {
			byID[n.ID] = i
		}
	}
	firstOut := make(map[string]string, len(snap.Edges))
	for _, edge := range snap.Edges {
		if _, ok := firstOut[edge.Source]; !ok {
			firstOut[edge.Source] = edge.Target
		}
	}

	logs := []LogEntry{}
	visited := make(map[string]bool, len(snap.Nodes))
	current, ok := start, true

	for ok {
		n := snap.Nodes[current]
		if visited[n.ID] {
			break
		}
		visited[n.ID] = true

		logs = append(logs, LogEntry{
			Step:      len(logs) + 1,
			NodeID:    n.ID,
			NodeType:  n.Kind(),
			Label:     n.Label(),
			Status:    StatusSuccess,
			Message:   fmt.Sprintf("Executed %s node: %s", n.Kind(), n.Label()),
			Timestamp: e.now().UTC().Format(timestampLayout),
		})

		target, hasEdge := firstOut[n.ID]
		if !hasEdge {
			break
		}
		current, ok = byID[target]
	}

	return &SimulationResult{Success: true, Logs: logs}
}

// validateSnapshot returns the index of the first start node. A snapshot
// without one fails; so does a node with no recognized kind, including one
// whose config is a typed nil.
func validateSnapshot(snap nodes.Snapshot) (int, error) {
	start := -1
	for i, n := range snap.Nodes {
		if n.Kind() == nodes.KindStart {
			start = i
			break
		}
	}
	if start < 0 {
		return -1, &validationError{err: ErrNoStartNode, message: NoStartNodeMessage}
	}
	for _, n := range snap.Nodes {
		if !n.Kind().Valid() {
			return -1, &validationError{
				err:     fmt.Errorf("node %q: %w", n.ID, nodes.ErrUnknownKind),
				message: fmt.Sprintf("Validation Failed: node %q has an unrecognized type.", n.ID),
			}
		}
	}
	return start, nil
}
