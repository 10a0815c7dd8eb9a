package nodes

// TaskConfig describes a human task assigned to a person.
type TaskConfig struct {
	Base
	Assignee     string            `json:"assignee,omitempty"`
	DueDate      string            `json:"dueDate,omitempty" validate:"omitempty,datetime=2006-01-02"`
	CustomFields map[string]string `json:"customFields,omitempty"`
}

func (*TaskConfig) Kind() Kind { return KindTask }
