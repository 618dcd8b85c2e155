// Package van is a minimal client for the NGP VAN (EveryAction) API v4,
// covering the people findOrCreate, findByPhone, and canvassResponses
// operations.
package van

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rotisserie/eris"
	"golang.org/x/time/rate"
)

const defaultBaseURL = "https://api.securevan.com/v4"

// Canvass context constants for responses recorded through the API on
// behalf of the volunteer-signup page.
const (
	inputTypeAPI         = 11
	contactTypeOrganizer = 75
)

// Client performs people operations against the VAN API.
type Client interface {
	// FindOrCreatePerson upserts a person and returns their VAN id.
	FindOrCreatePerson(ctx context.Context, p Person) (int, error)
	// VerifyPhone reports whether VAN considers the phone deliverable.
	// A 400 response means it does not; that is not an error.
	VerifyPhone(ctx context.Context, phone string) (bool, error)
	// ApplySurveyResponse records a survey response with skipMatching set,
	// so repeated responses to the same question are all kept.
	ApplySurveyResponse(ctx context.Context, vanID, questionID, responseID int, dateCanvassed string) error
	// ApplyActivistCode applies an activist code to the person.
	ApplyActivistCode(ctx context.Context, vanID, codeID int, dateCanvassed string) error
}

// Person is the findOrCreate request body. Emails and Phones are omitted
// entirely when empty; VAN treats an empty block as a field wipe.
type Person struct {
	FirstName  string    `json:"firstName"`
	MiddleName string    `json:"middleName"`
	LastName   string    `json:"lastName"`
	Sex        string    `json:"sex"`
	Emails     []Email   `json:"emails,omitempty"`
	Phones     []Phone   `json:"phones,omitempty"`
	Addresses  []Address `json:"addresses"`
}

// Email is a single email entry with its subscription status code
// (S subscribed, U unsubscribed, N neutral).
type Email struct {
	Email              string `json:"email"`
	SubscriptionStatus string `json:"subscriptionStatus"`
}

// Phone is a single phone entry with its opt-in status code
// (I opt in, O opt out, U unknown; VAN defaults blank to U).
type Phone struct {
	PhoneNumber      string `json:"phoneNumber"`
	PhoneOptInStatus string `json:"phoneOptInStatus"`
}

// Address is a single address entry.
type Address struct {
	City            string `json:"city"`
	StateOrProvince string `json:"stateOrProvince"`
	ZipOrPostalCode string `json:"zipOrPostalCode"`
}

type findOrCreateResponse struct {
	VanID int `json:"vanId"`
}

type canvassContext struct {
	InputTypeID   int    `json:"inputTypeId"`
	ContactTypeID int    `json:"contactTypeId"`
	DateCanvassed string `json:"dateCanvassed"`
	SkipMatching  bool   `json:"skipMatching,omitempty"`
}

type canvassResponse struct {
	Action           string `json:"action"`
	Type             string `json:"type"`
	SurveyQuestionID int    `json:"surveyQuestionId,omitempty"`
	SurveyResponseID int    `json:"surveyResponseId,omitempty"`
	ActivistCodeID   int    `json:"activistCodeId,omitempty"`
}

type canvassBody struct {
	CanvassContext canvassContext    `json:"canvassContext"`
	Responses      []canvassResponse `json:"responses"`
}

// Option configures the client.
type Option func(*httpClient)

// WithBaseURL overrides the default API base URL.
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

// WithRateLimit caps outbound requests per second. Zero or negative leaves
// the client unlimited.
func WithRateLimit(rps float64) Option {
	return func(c *httpClient) {
		if rps > 0 {
			c.limiter = rate.NewLimiter(rate.Limit(rps), 1)
		}
	}
}

type httpClient struct {
	apiKey  string
	baseURL string
	http    *http.Client
	limiter *rate.Limiter
}

// NewClient creates a VAN API client. The key is sent verbatim in the
// Authorization header of every request.
func NewClient(apiKey string, opts ...Option) Client {
	c := &httpClient{
		apiKey:  apiKey,
		baseURL: defaultBaseURL,
		http: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

func (c *httpClient) FindOrCreatePerson(ctx context.Context, p Person) (int, error) {
	status, body, err := c.post(ctx, "/people/findOrCreate", p)
	if err != nil {
		return 0, err
	}
	if status < 200 || status > 299 {
		return 0, eris.Errorf("van: findOrCreate status %d: %s", status, string(body))
	}
	var result findOrCreateResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return 0, eris.Wrap(err, "van: unmarshal findOrCreate response")
	}
	if result.VanID == 0 {
		return 0, eris.Errorf("van: findOrCreate response missing vanId: %s", string(body))
	}
	return result.VanID, nil
}

func (c *httpClient) VerifyPhone(ctx context.Context, phone string) (bool, error) {
	status, body, err := c.post(ctx, "/people/findByPhone", map[string]string{"phoneNumber": phone})
	if err != nil {
		return false, err
	}
	if status == http.StatusBadRequest {
		return false, nil
	}
	if status < 200 || status > 299 {
		return false, eris.Errorf("van: findByPhone status %d: %s", status, string(body))
	}
	return true, nil
}

func (c *httpClient) ApplySurveyResponse(ctx context.Context, vanID, questionID, responseID int, dateCanvassed string) error {
	body := canvassBody{
		CanvassContext: canvassContext{
			InputTypeID:   inputTypeAPI,
			ContactTypeID: contactTypeOrganizer,
			DateCanvassed: dateCanvassed,
			SkipMatching:  true,
		},
		Responses: []canvassResponse{{
			Action:           "Apply",
			Type:             "SurveyResponse",
			SurveyQuestionID: questionID,
			SurveyResponseID: responseID,
		}},
	}
	return c.applyCanvass(ctx, vanID, body)
}

func (c *httpClient) ApplyActivistCode(ctx context.Context, vanID, codeID int, dateCanvassed string) error {
	body := canvassBody{
		CanvassContext: canvassContext{
			InputTypeID:   inputTypeAPI,
			ContactTypeID: contactTypeOrganizer,
			DateCanvassed: dateCanvassed,
		},
		Responses: []canvassResponse{{
			Action:         "Apply",
			Type:           "ActivistCode",
			ActivistCodeID: codeID,
		}},
	}
	return c.applyCanvass(ctx, vanID, body)
}

func (c *httpClient) applyCanvass(ctx context.Context, vanID int, body canvassBody) error {
	status, respBody, err := c.post(ctx, fmt.Sprintf("/people/%d/canvassResponses", vanID), body)
	if err != nil {
		return err
	}
	if status < 200 || status > 299 {
		return eris.Errorf("van: canvassResponses status %d: %s", status, string(respBody))
	}
	return nil
}

func (c *httpClient) post(ctx context.Context, path string, payload any) (int, []byte, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return 0, nil, eris.Wrap(err, "van: rate limit wait")
		}
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return 0, nil, eris.Wrapf(err, "van: marshal %s request", path)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return 0, nil, eris.Wrapf(err, "van: create %s request", path)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", c.apiKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return 0, nil, eris.Wrapf(err, "van: send %s request", path)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, nil, eris.Wrapf(err, "van: read %s response", path)
	}
	return resp.StatusCode, respBody, nil
}
