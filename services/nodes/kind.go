package nodes

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownKind is returned when a node type is not one of the supported kinds.
var ErrUnknownKind = errors.New("unknown node type")

// Kind identifies a workflow step type. The set is closed; the string
// values match the "type" field the editor sends for each node.
type Kind string

const (
	KindStart     Kind = "start"
	KindTask      Kind = "task"
	KindApproval  Kind = "approval"
	KindAutomated Kind = "automated"
	KindEnd       Kind = "end"
)

// Kinds returns every supported kind in node library order
// (flow control first, then actions).
func Kinds() []Kind {
	return []Kind{KindStart, KindEnd, KindTask, KindApproval, KindAutomated}
}

// ParseKind converts a raw type string into a Kind.
func ParseKind(s string) (Kind, error) {
	k := Kind(s)
	if !k.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownKind, s)
	}
	return k, nil
}

// Valid reports whether k is one of the supported kinds.
func (k Kind) Valid() bool {
	switch k {
	case KindStart, KindTask, KindApproval, KindAutomated, KindEnd:
		return true
	default:
		return false
	}
}

// Title returns the kind name with its first letter upper-cased,
// e.g. "task" -> "Task". Used as the label of freshly dropped nodes.
func (k Kind) Title() string {
	if k == "" {
		return ""
	}
	s := string(k)
	return strings.ToUpper(s[:1]) + s[1:]
}

func (k Kind) String() string {
	return string(k)
}
