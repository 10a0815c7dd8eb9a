// Package directory fetches the automation catalog from a remote service.
package directory

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/Mamtha-mass/HR-designer-workflow/services/automation"
)

var _ automation.Catalog = (*Client)(nil)

// Client reads automation entries from GET {baseURL}/automations.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a client for the directory at baseURL.
// Accepts an optional http.Client for custom timeouts or transport settings.
func NewClient(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
	}
}

func (c *Client) List(ctx context.Context) ([]automation.Entry, error) {
	url := c.baseURL + "/automations"

	slog.Debug("calling automation directory", "url", url)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("automation directory request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("automation directory returned %d: %s", resp.StatusCode, string(body))
	}

	var entries []automation.Entry
	if err := json.Unmarshal(body, &entries); err != nil {
		return nil, fmt.Errorf("failed to parse automation directory response: %w", err)
	}
	if entries == nil {
		entries = []automation.Entry{}
	}
	for i := range entries {
		if entries[i].Params == nil {
			entries[i].Params = []string{}
		}
	}

	return entries, nil
}
