package nodes

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"
)

func TestNewDefault(t *testing.T) {
	t.Parallel()
	tests := []struct {
		kind      Kind
		wantLabel string
	}{
		{kind: KindStart, wantLabel: "Start"},
		{kind: KindTask, wantLabel: "Task"},
		{kind: KindApproval, wantLabel: "Approval"},
		{kind: KindAutomated, wantLabel: "Automated"},
		{kind: KindEnd, wantLabel: "End"},
	}

	for _, tt := range tests {
		t.Run(string(tt.kind), func(t *testing.T) {
			t.Parallel()
			pos := Position{X: 40, Y: 80}
			n, err := NewDefault("n1", tt.kind, pos)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if n.Kind() != tt.kind {
				t.Errorf("kind: got %q, want %q", n.Kind(), tt.kind)
			}
			if n.Label() != tt.wantLabel {
				t.Errorf("label: got %q, want %q", n.Label(), tt.wantLabel)
			}
			if n.Position != pos {
				t.Errorf("position: got %+v, want %+v", n.Position, pos)
			}

			// Every other field stays unset.
			data, err := json.Marshal(n.Config)
			if err != nil {
				t.Fatalf("marshal config: %v", err)
			}
			want := `{"label":"` + tt.wantLabel + `"}`
			if string(data) != want {
				t.Errorf("config: got %s, want %s", data, want)
			}
		})
	}
}

func TestNewDefault_Deterministic(t *testing.T) {
	t.Parallel()
	a, _ := NewDefault("x", KindTask, Position{})
	b, _ := NewDefault("x", KindTask, Position{})
	if a.ID != b.ID || a.Label() != b.Label() || a.Kind() != b.Kind() {
		t.Errorf("expected identical nodes, got %+v and %+v", a, b)
	}
	// Separate config values: editing one must not leak into the other.
	a.Config.(*TaskConfig).Assignee = "alice"
	if b.Config.(*TaskConfig).Assignee != "" {
		t.Error("default nodes share config state")
	}
}

func TestNewDefault_UnknownKind(t *testing.T) {
	t.Parallel()
	_, err := NewDefault("x", Kind("webhook"), Position{})
	if !errors.Is(err, ErrUnknownKind) {
		t.Errorf("expected ErrUnknownKind, got %v", err)
	}
}

func TestNewID(t *testing.T) {
	t.Parallel()
	a, b := NewID(), NewID()
	if a == "" || a == b {
		t.Errorf("expected distinct non-empty ids, got %q and %q", a, b)
	}
}

func TestParseKind(t *testing.T) {
	t.Parallel()
	for _, k := range Kinds() {
		got, err := ParseKind(string(k))
		if err != nil || got != k {
			t.Errorf("ParseKind(%q) = %q, %v", k, got, err)
		}
	}
	if _, err := ParseKind("Start"); !errors.Is(err, ErrUnknownKind) {
		t.Errorf("kinds are case-sensitive, got %v", err)
	}
	if _, err := ParseKind(""); !errors.Is(err, ErrUnknownKind) {
		t.Errorf("empty kind should fail, got %v", err)
	}
}

func TestNode_UnmarshalJSON(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name    string
		input   string
		wantErr string
		check   func(t *testing.T, n Node)
	}{
		{
			name:  "start with metadata",
			input: `{"id":"s1","type":"start","position":{"x":1,"y":2},"data":{"label":"Begin","metadata":{"source":"HR Portal"}}}`,
			check: func(t *testing.T, n Node) {
				cfg, ok := n.Config.(*StartConfig)
				if !ok {
					t.Fatalf("expected *StartConfig, got %T", n.Config)
				}
				if cfg.Label != "Begin" || cfg.Metadata["source"] != "HR Portal" {
					t.Errorf("unexpected config: %+v", cfg)
				}
				if n.Position != (Position{X: 1, Y: 2}) {
					t.Errorf("unexpected position: %+v", n.Position)
				}
			},
		},
		{
			name:  "task fields",
			input: `{"id":"t1","type":"task","data":{"label":"Collect documents","assignee":"hr@example.com","dueDate":"2026-01-31","customFields":{"team":"core"}}}`,
			check: func(t *testing.T, n Node) {
				cfg := n.Config.(*TaskConfig)
				if cfg.Assignee != "hr@example.com" || cfg.DueDate != "2026-01-31" || cfg.CustomFields["team"] != "core" {
					t.Errorf("unexpected config: %+v", cfg)
				}
			},
		},
		{
			name:  "approval fields",
			input: `{"id":"a1","type":"approval","data":{"label":"Manager sign-off","approverRole":"Manager","autoApproveThreshold":3}}`,
			check: func(t *testing.T, n Node) {
				cfg := n.Config.(*ApprovalConfig)
				if cfg.ApproverRole != "Manager" || cfg.AutoApproveThreshold != 3 {
					t.Errorf("unexpected config: %+v", cfg)
				}
			},
		},
		{
			name:  "automated fields",
			input: `{"id":"au1","type":"automated","data":{"label":"Welcome mail","automationId":"send_email","automationParams":{"to":"new@example.com"}}}`,
			check: func(t *testing.T, n Node) {
				cfg := n.Config.(*AutomatedConfig)
				if cfg.AutomationID != "send_email" || cfg.AutomationParams["to"] != "new@example.com" {
					t.Errorf("unexpected config: %+v", cfg)
				}
			},
		},
		{
			name:  "end fields",
			input: `{"id":"e1","type":"end","data":{"label":"Done","endMessage":"Welcome aboard","isSummary":true}}`,
			check: func(t *testing.T, n Node) {
				cfg := n.Config.(*EndConfig)
				if cfg.EndMessage != "Welcome aboard" || !cfg.IsSummary {
					t.Errorf("unexpected config: %+v", cfg)
				}
			},
		},
		{
			name:  "missing data yields empty config",
			input: `{"id":"e1","type":"end"}`,
			check: func(t *testing.T, n Node) {
				if n.Kind() != KindEnd || n.Label() != "" {
					t.Errorf("unexpected node: %+v", n)
				}
			},
		},
		{
			name:    "unknown type",
			input:   `{"id":"x","type":"webhook","data":{"label":"X"}}`,
			wantErr: `node "x": unknown node type: "webhook"`,
		},
		{
			name:    "wrong data shape",
			input:   `{"id":"a1","type":"approval","data":{"label":"A","autoApproveThreshold":"high"}}`,
			wantErr: `invalid approval data for node "a1"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			var n Node
			err := json.Unmarshal([]byte(tt.input), &n)
			if tt.wantErr != "" {
				if err == nil {
					t.Fatalf("expected error containing %q, got nil", tt.wantErr)
				}
				if !strings.Contains(err.Error(), tt.wantErr) {
					t.Errorf("expected error containing %q, got %q", tt.wantErr, err.Error())
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			tt.check(t, n)
		})
	}
}

func TestNode_MarshalJSON(t *testing.T) {
	t.Parallel()
	n := Node{
		ID:       "a1",
		Position: Position{X: 10, Y: 20},
		Config: &ApprovalConfig{
			Base:         Base{Label: "HR review"},
			ApproverRole: "HRBP",
		},
	}
	data, err := json.Marshal(n)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := `{"id":"a1","type":"approval","position":{"x":10,"y":20},"data":{"label":"HR review","approverRole":"HRBP"}}`
	if string(data) != want {
		t.Errorf("got %s, want %s", data, want)
	}

	if _, err := json.Marshal(Node{ID: "bare"}); err == nil {
		t.Error("expected error for node without config")
	}
}

func TestAutomatedConfig_SelectAutomation(t *testing.T) {
	t.Parallel()
	cfg := &AutomatedConfig{
		AutomationID:     "send_email",
		AutomationParams: map[string]string{"to": "a@b.com"},
	}
	cfg.SelectAutomation("slack_notify")
	if cfg.AutomationID != "slack_notify" {
		t.Errorf("expected slack_notify, got %q", cfg.AutomationID)
	}
	if len(cfg.AutomationParams) != 0 {
		t.Errorf("expected params reset, got %v", cfg.AutomationParams)
	}
}

func TestNode_TypedNilConfig(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name string
		node Node
		want bool
	}{
		{name: "no config", node: Node{ID: "a"}, want: false},
		{name: "typed nil start", node: Node{ID: "a", Config: (*StartConfig)(nil)}, want: false},
		{name: "typed nil automated", node: Node{ID: "a", Config: (*AutomatedConfig)(nil)}, want: false},
		{name: "empty config", node: Node{ID: "a", Config: &EndConfig{}}, want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := tt.node.HasConfig(); got != tt.want {
				t.Fatalf("HasConfig: got %v, want %v", got, tt.want)
			}
			if tt.want {
				return
			}
			// None of these may dereference the nil config.
			if tt.node.Kind() != "" || tt.node.Label() != "" {
				t.Errorf("expected empty kind and label, got %q %q", tt.node.Kind(), tt.node.Label())
			}
			if err := tt.node.Validate(); !errors.Is(err, ErrUnknownKind) {
				t.Errorf("expected ErrUnknownKind, got %v", err)
			}
			if _, err := json.Marshal(tt.node); err == nil {
				t.Error("expected marshal error")
			}
		})
	}
}
