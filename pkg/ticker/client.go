// Package ticker posts end-of-run counts to the shared telemetry webhook.
package ticker

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/rotisserie/eris"
)

// RunReport is the payload posted after a sync run. The sink ignores
// fields it does not know.
type RunReport struct {
	ScriptName             string    `json:"script_name"`
	RunID                  string    `json:"run_id"`
	ContactsUpserted       int       `json:"contacts_upserted"`
	ActivistCodesApplied   int       `json:"activist_codes_applied"`
	SurveyResponsesApplied int       `json:"survey_responses_applied"`
	FinishedAt             time.Time `json:"finished_at"`
}

// Client reports run counts.
type Client interface {
	Report(ctx context.Context, r RunReport) error
}

// Option configures the client.
type Option func(*httpClient)

// WithHTTPClient overrides the default http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *httpClient) {
		c.http = hc
	}
}

type httpClient struct {
	webhookURL string
	http       *http.Client
}

// NewClient creates a ticker client posting to the given webhook URL.
func NewClient(webhookURL string, opts ...Option) Client {
	c := &httpClient{
		webhookURL: webhookURL,
		http: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

func (c *httpClient) Report(ctx context.Context, r RunReport) error {
	body, err := json.Marshal(r)
	if err != nil {
		return eris.Wrap(err, "ticker: marshal report")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.webhookURL, bytes.NewReader(body))
	if err != nil {
		return eris.Wrap(err, "ticker: create request")
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return eris.Wrap(err, "ticker: send report")
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		respBody, _ := io.ReadAll(resp.Body)
		return eris.Errorf("ticker: report status %d: %s", resp.StatusCode, string(respBody))
	}
	return nil
}
