package nodes

// StartConfig configures the trigger that begins a workflow.
// Metadata carries free-form key/value context (e.g. {"source": "HR Portal"}).
type StartConfig struct {
	Base
	Metadata map[string]string `json:"metadata,omitempty"`
}

func (*StartConfig) Kind() Kind { return KindStart }
