package nodes

// EndConfig terminates a workflow. IsSummary asks for a run summary
// to be shown alongside EndMessage.
type EndConfig struct {
	Base
	EndMessage string `json:"endMessage,omitempty"`
	IsSummary  bool   `json:"isSummary,omitempty"`
}

func (*EndConfig) Kind() Kind { return KindEnd }
