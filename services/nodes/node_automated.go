package nodes

// AutomatedConfig references an entry in the automation catalog by id.
// The valid keys of AutomationParams are defined by that entry; they are
// checked against the catalog by the workflow check, not here.
type AutomatedConfig struct {
	Base
	AutomationID     string            `json:"automationId,omitempty"`
	AutomationParams map[string]string `json:"automationParams,omitempty"`
}

func (*AutomatedConfig) Kind() Kind { return KindAutomated }

// SelectAutomation points the node at a different automation. Parameters
// belong to the previous automation, so they are cleared.
func (c *AutomatedConfig) SelectAutomation(id string) {
	c.AutomationID = id
	c.AutomationParams = map[string]string{}
}
