package directory_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Mamtha-mass/HR-designer-workflow/pkg/clients/directory"
	"github.com/Mamtha-mass/HR-designer-workflow/services/automation"
)

func TestClient_List(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		want    []automation.Entry
		wantErr string
	}{
		{
			name:   "entries",
			status: http.StatusOK,
			body:   `[{"id":"send_email","label":"Send Email","params":["to","subject","body"]},{"id":"ping","label":"Ping"}]`,
			want: []automation.Entry{
				{ID: "send_email", Label: "Send Email", Params: []string{"to", "subject", "body"}},
				{ID: "ping", Label: "Ping", Params: []string{}},
			},
		},
		{
			name:   "null body is an empty catalog",
			status: http.StatusOK,
			body:   `null`,
			want:   []automation.Entry{},
		},
		{
			name:    "non-200 status",
			status:  http.StatusServiceUnavailable,
			body:    "down for maintenance",
			wantErr: "automation directory returned 503: down for maintenance",
		},
		{
			name:    "malformed body",
			status:  http.StatusOK,
			body:    `{"id":`,
			wantErr: "failed to parse automation directory response",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, "/automations", r.URL.Path)
				assert.Equal(t, http.MethodGet, r.Method)
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			entries, err := directory.NewClient(srv.URL+"/", srv.Client()).List(context.Background())
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, entries)
		})
	}
}

func TestClient_List_ContextDeadline(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(release)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := directory.NewClient(srv.URL, nil).List(ctx)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}
