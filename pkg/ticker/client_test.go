package ticker

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReport(t *testing.T) {
	var got map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		body, _ := io.ReadAll(r.Body)
		require.NoError(t, json.Unmarshal(body, &got))
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	client := NewClient(srv.URL)
	err := client.Report(context.Background(), RunReport{
		ScriptName:             "signup-sync",
		RunID:                  "run-1",
		ContactsUpserted:       12,
		ActivistCodesApplied:   1,
		SurveyResponsesApplied: 9,
		FinishedAt:             time.Date(2024, 3, 1, 6, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)

	assert.Equal(t, "signup-sync", got["script_name"])
	assert.Equal(t, float64(12), got["contacts_upserted"])
	assert.Equal(t, float64(1), got["activist_codes_applied"])
	assert.Equal(t, float64(9), got["survey_responses_applied"])
}

func TestReportErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	client := NewClient(srv.URL)
	err := client.Report(context.Background(), RunReport{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "report status 502")
}
