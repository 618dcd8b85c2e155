package actionkit

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunReport(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		body     string
		wantErr  string
		wantRows int
	}{
		{
			name:     "success",
			status:   http.StatusOK,
			body:     `[[101, "pat", null, "brown", "Austin", "TX", "78701", "pat@example.com", "5125550100", "subscribed", "race", "White", 9001, "2024-03-01 09:00:00", "2024-03-01 09:00:00", 346]]`,
			wantRows: 1,
		},
		{
			name:     "empty_result",
			status:   http.StatusOK,
			body:     `[]`,
			wantRows: 0,
		},
		{
			name:    "auth_failure",
			status:  http.StatusForbidden,
			body:    `{"detail": "Authentication credentials were not provided."}`,
			wantErr: "report status 403",
		},
		{
			name:    "malformed_body",
			status:  http.StatusOK,
			body:    `{"not": "rows"}`,
			wantErr: "unmarshal report rows",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, http.MethodPost, r.Method)
				assert.Equal(t, "/rest/v1/report/run/sql/", r.URL.Path)
				assert.Equal(t, "application/x-www-form-urlencoded", r.Header.Get("Content-Type"))

				user, pass, ok := r.BasicAuth()
				require.True(t, ok)
				assert.Equal(t, "reporter", user)
				assert.Equal(t, "hunter2", pass)

				require.NoError(t, r.ParseForm())
				assert.Contains(t, r.PostForm.Get("query"), "SELECT DISTINCT")

				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			client := NewClient("act.example.org", "reporter", "hunter2", WithBaseURL(srv.URL))
			rows, err := client.RunReport(context.Background(), BuildSignupQuery(346, 1))

			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Len(t, rows, tt.wantRows)
			for _, row := range rows {
				assert.Len(t, row, ColumnCount)
			}
		})
	}
}

func TestBuildSignupQuery(t *testing.T) {
	q := BuildSignupQuery(346, 1)
	assert.Contains(t, q, "WHERE page_id = 346")
	assert.Contains(t, q, "INTERVAL 1 DAY")
	assert.NotContains(t, q, "%d")

	q = BuildSignupQuery(512, 3)
	assert.Contains(t, q, "WHERE page_id = 512")
	assert.Contains(t, q, "INTERVAL 3 DAY")
}
