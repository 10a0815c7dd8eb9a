package workflow

import (
	"errors"
	"fmt"

	"github.com/Mamtha-mass/HR-designer-workflow/services/automation"
	"github.com/Mamtha-mass/HR-designer-workflow/services/nodes"
)

// Categories lists the process categories a workflow can be filed under.
var Categories = []string{"onboarding", "recruitment", "performance", "offboarding", "administrative"}

// Settings are the workflow-level properties edited in the settings dialog.
type Settings struct {
	Name               string `json:"name" validate:"required"`
	Category           string `json:"category" validate:"required,oneof=onboarding recruitment performance offboarding administrative"`
	PolicyAcknowledged bool   `json:"policyAcknowledged" validate:"required"`
}

// Issue is one problem found by Check. NodeID or EdgeID is set when the
// problem belongs to a specific element.
type Issue struct {
	NodeID  string `json:"nodeId,omitempty"`
	EdgeID  string `json:"edgeId,omitempty"`
	Field   string `json:"field,omitempty"`
	Message string `json:"message"`
}

// Check is the strict validation the editor runs before saving or
// simulating. Unlike Simulate it reports every structural problem: duplicate
// ids, dangling edges, start-node count, unreachable nodes, invalid config
// fields, and automation references the catalog does not know. settings may
// be nil to skip the settings checks.
func Check(snap nodes.Snapshot, settings *Settings, catalog []automation.Entry) []Issue {
	issues := []Issue{}

	nodeIDs := make(map[string]bool, len(snap.Nodes))
	var starts []string
	for _, n := range snap.Nodes {
		if nodeIDs[n.ID] {
			issues = append(issues, Issue{NodeID: n.ID, Message: fmt.Sprintf("duplicate node id %q", n.ID)})
		}
		nodeIDs[n.ID] = true
		if n.Kind() == nodes.KindStart {
			starts = append(starts, n.ID)
		}
	}

	switch {
	case len(starts) == 0:
		issues = append(issues, Issue{Message: ErrNoStartNode.Error()})
	case len(starts) > 1:
		for _, id := range starts[1:] {
			issues = append(issues, Issue{NodeID: id, Message: fmt.Sprintf("extra start node; only %q is used", starts[0])})
		}
	}

	edgeIDs := make(map[string]bool, len(snap.Edges))
	adjacency := make(map[string][]string)
	for _, e := range snap.Edges {
		if edgeIDs[e.ID] {
			issues = append(issues, Issue{EdgeID: e.ID, Message: fmt.Sprintf("duplicate edge id %q", e.ID)})
		}
		edgeIDs[e.ID] = true
		if !nodeIDs[e.Source] {
			issues = append(issues, Issue{EdgeID: e.ID, Field: "source", Message: fmt.Sprintf("edge references non-existent source node %q", e.Source)})
		}
		if !nodeIDs[e.Target] {
			issues = append(issues, Issue{EdgeID: e.ID, Field: "target", Message: fmt.Sprintf("edge references non-existent target node %q", e.Target)})
		}
		adjacency[e.Source] = append(adjacency[e.Source], e.Target)
	}

	if len(starts) > 0 {
		reached := reachable(starts[0], adjacency)
		for _, n := range snap.Nodes {
			if !reached[n.ID] && n.Kind() != nodes.KindStart {
				issues = append(issues, Issue{NodeID: n.ID, Message: "node is not reachable from the start node"})
			}
		}
	}

	for _, n := range snap.Nodes {
		issues = append(issues, checkNode(n, catalog)...)
	}

	if settings != nil {
		for _, f := range nodes.ValidateStruct(settings) {
			issues = append(issues, Issue{Field: "settings." + f.Field, Message: f.Message})
		}
	}

	return issues
}

func checkNode(n nodes.Node, catalog []automation.Entry) []Issue {
	var issues []Issue

	if err := n.Validate(); err != nil {
		var verr *nodes.ValidationError
		if !errors.As(err, &verr) {
			return append(issues, Issue{NodeID: n.ID, Message: err.Error()})
		}
		for _, f := range verr.Fields {
			issues = append(issues, Issue{NodeID: n.ID, Field: f.Field, Message: f.Message})
		}
	}

	cfg, ok := n.Config.(*nodes.AutomatedConfig)
	if !ok || cfg.AutomationID == "" {
		return issues
	}
	entry, err := automation.Find(catalog, cfg.AutomationID)
	if err != nil {
		return append(issues, Issue{NodeID: n.ID, Field: "automationId", Message: err.Error()})
	}
	if err := entry.ValidateParams(cfg.AutomationParams); err != nil {
		issues = append(issues, Issue{NodeID: n.ID, Field: "automationParams", Message: err.Error()})
	}
	return issues
}

// reachable returns every node id reachable from start over any edge.
func reachable(start string, adjacency map[string][]string) map[string]bool {
	seen := map[string]bool{start: true}
	queue := []string{start}
	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		for _, next := range adjacency[id] {
			if !seen[next] {
				seen[next] = true
				queue = append(queue, next)
			}
		}
	}
	return seen
}
