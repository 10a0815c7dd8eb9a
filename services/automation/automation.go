// Package automation describes the catalog of automatable actions an
// automated workflow step can reference, and the sources it is served from.
package automation

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sort"
	"strings"
	"time"
)

// ErrNotFound is returned when an automation id is not in the catalog.
var ErrNotFound = errors.New("automation not found")

// Entry is one automatable action. Params lists, in display order, the
// parameter names an automated node may set for it.
type Entry struct {
	ID     string   `json:"id" yaml:"id"`
	Label  string   `json:"label" yaml:"label"`
	Params []string `json:"params" yaml:"params"`
}

// Catalog is a read-only source of automation entries.
// Implementations: Static, storage.PgStorage, directory.Client.
type Catalog interface {
	List(ctx context.Context) ([]Entry, error)
}

// Find returns the entry with the given id.
func Find(entries []Entry, id string) (Entry, error) {
	for _, e := range entries {
		if e.ID == id {
			return e, nil
		}
	}
	return Entry{}, fmt.Errorf("%w: %q", ErrNotFound, id)
}

// ValidateParams reports parameter keys that the entry does not declare.
// Missing parameters are allowed; the editor only fills what it knows.
func (e Entry) ValidateParams(params map[string]string) error {
	var unknown []string
	for k := range params {
		if !slices.Contains(e.Params, k) {
			unknown = append(unknown, k)
		}
	}
	if len(unknown) == 0 {
		return nil
	}
	sort.Strings(unknown)
	return fmt.Errorf("automation %q does not accept params: %s", e.ID, strings.Join(unknown, ", "))
}

func validateEntries(entries []Entry) error {
	seen := make(map[string]bool, len(entries))
	for i, e := range entries {
		if strings.TrimSpace(e.ID) == "" {
			return fmt.Errorf("automation [%d] has a blank id", i)
		}
		if seen[e.ID] {
			return fmt.Errorf("duplicate automation id %q", e.ID)
		}
		seen[e.ID] = true
	}
	return nil
}

// Default returns the built-in catalog.
func Default() []Entry {
	return []Entry{
		{ID: "send_email", Label: "Send Email", Params: []string{"to", "subject", "body"}},
		{ID: "generate_pdf", Label: "Generate PDF", Params: []string{"template_id", "output_name"}},
		{ID: "slack_notify", Label: "Slack Notification", Params: []string{"channel", "message"}},
		{ID: "update_hrms", Label: "Update HRMS", Params: []string{"employee_id", "field", "value"}},
	}
}

// Static serves a fixed list of entries, optionally after a delay that
// stands in for a remote lookup.
type Static struct {
	entries []Entry
	latency time.Duration
}

// NewStatic creates a catalog over entries. A nil slice serves Default().
func NewStatic(entries []Entry, latency time.Duration) (*Static, error) {
	if entries == nil {
		entries = Default()
	}
	if err := validateEntries(entries); err != nil {
		return nil, err
	}
	return &Static{entries: entries, latency: latency}, nil
}

// List returns a copy of the entries so callers cannot alter the catalog.
func (s *Static) List(ctx context.Context) ([]Entry, error) {
	if s.latency > 0 {
		timer := time.NewTimer(s.latency)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-timer.C:
		}
	}
	out := make([]Entry, len(s.entries))
	for i, e := range s.entries {
		out[i] = Entry{ID: e.ID, Label: e.Label, Params: slices.Clone(e.Params)}
	}
	return out, nil
}
