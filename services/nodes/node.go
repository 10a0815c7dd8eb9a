package nodes

import (
	"bytes"
	"encoding/json"
	"fmt"
	"reflect"

	"github.com/google/uuid"
)

// Position represents a node's canvas coordinates. It is presentation-only
// and never affects traversal.
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Base holds the fields every node kind shares. Each kind-specific config
// embeds it, so they serialize flat inside the node's "data" object.
type Base struct {
	Label       string `json:"label" validate:"required"`
	Description string `json:"description,omitempty"`
}

func (b *Base) base() *Base { return b }

// Config is the kind-specific payload of a node. It is implemented only by
// the config types in this package, one per Kind, so a node's kind is
// always derived from its config and the two cannot disagree.
type Config interface {
	Kind() Kind
	base() *Base
}

// Node is a vertex in the workflow graph.
type Node struct {
	ID       string
	Position Position
	Config   Config
}

// HasConfig reports whether the node carries a usable config. A typed nil
// pointer such as (*StartConfig)(nil) counts as no config.
func (n Node) HasConfig() bool {
	if n.Config == nil {
		return false
	}
	v := reflect.ValueOf(n.Config)
	return v.Kind() != reflect.Pointer || !v.IsNil()
}

// Kind reports the node's kind, or "" when the node carries no config.
func (n Node) Kind() Kind {
	if !n.HasConfig() {
		return ""
	}
	return n.Config.Kind()
}

// Label reports the node's human-readable label.
func (n Node) Label() string {
	if !n.HasConfig() {
		return ""
	}
	return n.Config.base().Label
}

// nodeJSON is the React Flow representation of a node.
type nodeJSON struct {
	ID       string          `json:"id"`
	Type     string          `json:"type"`
	Position Position        `json:"position"`
	Data     json.RawMessage `json:"data"`
}

func (n Node) MarshalJSON() ([]byte, error) {
	if !n.HasConfig() {
		return nil, fmt.Errorf("node %q has no config", n.ID)
	}
	data, err := json.Marshal(n.Config)
	if err != nil {
		return nil, fmt.Errorf("marshal node %q data: %w", n.ID, err)
	}
	return json.Marshal(nodeJSON{
		ID:       n.ID,
		Type:     string(n.Config.Kind()),
		Position: n.Position,
		Data:     data,
	})
}

// UnmarshalJSON decodes the React Flow shape. The "type" field selects the
// config variant; unknown types fail with ErrUnknownKind.
func (n *Node) UnmarshalJSON(b []byte) error {
	var raw nodeJSON
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	kind, err := ParseKind(raw.Type)
	if err != nil {
		return fmt.Errorf("node %q: %w", raw.ID, err)
	}
	cfg := newConfig(kind)
	if len(raw.Data) > 0 && !bytes.Equal(raw.Data, []byte("null")) {
		if err := json.Unmarshal(raw.Data, cfg); err != nil {
			return fmt.Errorf("invalid %s data for node %q: %w", kind, raw.ID, err)
		}
	}
	*n = Node{ID: raw.ID, Position: raw.Position, Config: cfg}
	return nil
}

// newConfig returns an empty config for kind, or nil if kind is not valid.
// Adding a node kind means adding a case here and a config type.
func newConfig(kind Kind) Config {
	switch kind {
	case KindStart:
		return &StartConfig{}
	case KindTask:
		return &TaskConfig{}
	case KindApproval:
		return &ApprovalConfig{}
	case KindAutomated:
		return &AutomatedConfig{}
	case KindEnd:
		return &EndConfig{}
	default:
		return nil
	}
}

// NewDefault builds the node the editor creates when a kind is dropped on the
// canvas: the label is the title-cased kind name and every other field is
// unset. It is deterministic; callers supply the id (see NewID).
func NewDefault(id string, kind Kind, pos Position) (Node, error) {
	cfg := newConfig(kind)
	if cfg == nil {
		return Node{}, fmt.Errorf("%w: %q", ErrUnknownKind, string(kind))
	}
	cfg.base().Label = kind.Title()
	return Node{ID: id, Position: pos, Config: cfg}, nil
}

// NewID returns a fresh random node id.
func NewID() string {
	return uuid.NewString()
}

// Edge is a directed connection between two nodes. Source and Target are
// node ids; they are not checked against the snapshot's nodes here.
type Edge struct {
	ID           string  `json:"id"`
	Source       string  `json:"source"`
	Target       string  `json:"target"`
	SourceHandle *string `json:"sourceHandle,omitempty"`
	Type         string  `json:"type,omitempty"`
	Animated     bool    `json:"animated,omitempty"`
}
