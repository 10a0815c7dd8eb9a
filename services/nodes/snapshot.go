package nodes

import "encoding/json"

// Snapshot is a point-in-time copy of a workflow graph. Order matters: the
// engine picks the first start node and the first outgoing edge it finds.
// Consumers treat a Snapshot as read-only.
type Snapshot struct {
	Nodes []Node `json:"nodes"`
	Edges []Edge `json:"edges"`
}

// Stats summarizes a snapshot for display.
type Stats struct {
	Nodes int `json:"nodes"`
	Edges int `json:"edges"`
}

func (s Snapshot) Stats() Stats {
	return Stats{Nodes: len(s.Nodes), Edges: len(s.Edges)}
}

// UnmarshalJSON tolerates missing or null "nodes"/"edges" by treating them as empty.
func (s *Snapshot) UnmarshalJSON(b []byte) error {
	var raw struct {
		Nodes []Node `json:"nodes"`
		Edges []Edge `json:"edges"`
	}
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	if raw.Nodes == nil {
		raw.Nodes = []Node{}
	}
	if raw.Edges == nil {
		raw.Edges = []Edge{}
	}
	s.Nodes, s.Edges = raw.Nodes, raw.Edges
	return nil
}

// WithoutNode returns a copy of s with the node removed along with every
// edge that uses it as source or target. s itself is not modified.
func (s Snapshot) WithoutNode(id string) Snapshot {
	out := Snapshot{
		Nodes: make([]Node, 0, len(s.Nodes)),
		Edges: make([]Edge, 0, len(s.Edges)),
	}
	for _, n := range s.Nodes {
		if n.ID != id {
			out.Nodes = append(out.Nodes, n)
		}
	}
	for _, e := range s.Edges {
		if e.Source != id && e.Target != id {
			out.Edges = append(out.Edges, e)
		}
	}
	return out
}

// InitialSnapshot returns the graph a new editor session starts with:
// a single start node for a new employee.
func InitialSnapshot() Snapshot {
	return Snapshot{
		Nodes: []Node{{
			ID:       "start-1",
			Position: Position{X: 100, Y: 100},
			Config:   &StartConfig{Base: Base{Label: "New Employee"}},
		}},
		Edges: []Edge{},
	}
}
