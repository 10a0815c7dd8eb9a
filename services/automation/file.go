package automation

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// fileFormat is the layout of a catalog file:
//
//	automations:
//	  - id: send_email
//	    label: Send Email
//	    params: [to, subject, body]
type fileFormat struct {
	Automations []Entry `yaml:"automations"`
}

// LoadFile reads a YAML catalog from path.
func LoadFile(path string) ([]Entry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog file: %w", err)
	}
	return Parse(data)
}

// Parse decodes a YAML catalog document.
func Parse(data []byte) ([]Entry, error) {
	var f fileFormat
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}
	if f.Automations == nil {
		f.Automations = []Entry{}
	}
	for i := range f.Automations {
		if f.Automations[i].Params == nil {
			f.Automations[i].Params = []string{}
		}
	}
	if err := validateEntries(f.Automations); err != nil {
		return nil, fmt.Errorf("invalid catalog: %w", err)
	}
	return f.Automations, nil
}
