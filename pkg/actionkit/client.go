// Package actionkit runs ad-hoc SQL reports against the ActionKit
// reporting API and returns the positional row sets it produces.
package actionkit

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rotisserie/eris"
)

const reportPath = "/rest/v1/report/run/sql/"

// Client executes SQL reports.
type Client interface {
	// RunReport posts the query and returns the resulting rows. Each row is
	// a positional slice of JSON values; string cells may be null.
	RunReport(ctx context.Context, query string) ([][]any, error)
}

// Option configures the client.
type Option func(*httpClient)

// WithBaseURL overrides the URL derived from the instance domain.
func WithBaseURL(url string) Option {
	return func(c *httpClient) {
		c.baseURL = url
	}
}

// WithHTTPClient overrides the default http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *httpClient) {
		c.http = hc
	}
}

type httpClient struct {
	baseURL  string
	username string
	password string
	http     *http.Client
}

// NewClient creates a reporting client for the given ActionKit instance
// domain (for example "act.example.org"), authenticated with basic auth.
func NewClient(domain, username, password string, opts ...Option) Client {
	c := &httpClient{
		baseURL:  "https://" + domain,
		username: username,
		password: password,
		http: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

func (c *httpClient) RunReport(ctx context.Context, query string) ([][]any, error) {
	form := url.Values{"query": {query}}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+reportPath, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, eris.Wrap(err, "actionkit: create report request")
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.SetBasicAuth(c.username, c.password)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, eris.Wrap(err, "actionkit: send report request")
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, eris.Wrap(err, "actionkit: read report response")
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, eris.Errorf("actionkit: report status %d: %s", resp.StatusCode, string(body))
	}

	var rows [][]any
	if err := json.Unmarshal(body, &rows); err != nil {
		return nil, eris.Wrap(err, "actionkit: unmarshal report rows")
	}
	return rows, nil
}
