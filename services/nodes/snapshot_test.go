package nodes

import (
	"encoding/json"
	"testing"
)

func sampleSnapshot() Snapshot {
	return Snapshot{
		Nodes: []Node{
			{ID: "s", Config: &StartConfig{Base: Base{Label: "Start"}}},
			{ID: "t", Config: &TaskConfig{Base: Base{Label: "Task"}}},
			{ID: "e", Config: &EndConfig{Base: Base{Label: "End"}}},
		},
		Edges: []Edge{
			{ID: "e1", Source: "s", Target: "t"},
			{ID: "e2", Source: "t", Target: "e"},
			{ID: "e3", Source: "s", Target: "e"},
		},
	}
}

func TestSnapshot_WithoutNode(t *testing.T) {
	t.Parallel()
	snap := sampleSnapshot()

	got := snap.WithoutNode("t")

	if len(got.Nodes) != 2 || got.Nodes[0].ID != "s" || got.Nodes[1].ID != "e" {
		t.Errorf("unexpected nodes: %+v", got.Nodes)
	}
	if len(got.Edges) != 1 || got.Edges[0].ID != "e3" {
		t.Errorf("expected only e3 to survive, got %+v", got.Edges)
	}

	// The receiver is untouched.
	if len(snap.Nodes) != 3 || len(snap.Edges) != 3 {
		t.Errorf("receiver was modified: %d nodes, %d edges", len(snap.Nodes), len(snap.Edges))
	}
}

func TestSnapshot_WithoutNode_Missing(t *testing.T) {
	t.Parallel()
	got := sampleSnapshot().WithoutNode("nope")
	if got.Stats() != (Stats{Nodes: 3, Edges: 3}) {
		t.Errorf("unexpected stats: %+v", got.Stats())
	}
}

func TestSnapshot_UnmarshalJSON(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name      string
		input     string
		wantNodes int
		wantEdges int
		wantErr   bool
	}{
		{name: "empty object", input: `{}`},
		{name: "null collections", input: `{"nodes":null,"edges":null}`},
		{
			name:      "react flow payload",
			input:     `{"nodes":[{"id":"s","type":"start","position":{"x":0,"y":0},"data":{"label":"Go"}}],"edges":[{"id":"e","source":"s","target":"x","type":"smoothstep","animated":true}]}`,
			wantNodes: 1,
			wantEdges: 1,
		},
		{name: "unknown node type", input: `{"nodes":[{"id":"s","type":"timer"}]}`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			var snap Snapshot
			err := json.Unmarshal([]byte(tt.input), &snap)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if snap.Nodes == nil || snap.Edges == nil {
				t.Fatal("collections should never decode as nil")
			}
			if len(snap.Nodes) != tt.wantNodes || len(snap.Edges) != tt.wantEdges {
				t.Errorf("got %d nodes, %d edges", len(snap.Nodes), len(snap.Edges))
			}
		})
	}
}

func TestInitialSnapshot(t *testing.T) {
	t.Parallel()
	snap := InitialSnapshot()
	if len(snap.Nodes) != 1 {
		t.Fatalf("expected 1 node, got %d", len(snap.Nodes))
	}
	n := snap.Nodes[0]
	if n.ID != "start-1" || n.Kind() != KindStart || n.Label() != "New Employee" {
		t.Errorf("unexpected initial node: %+v", n)
	}
}
