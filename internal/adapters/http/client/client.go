// Package client calls a remote insight service over the POST /v1/insights
// contract. It lets dashboards and the report CLI delegate generation to a
// deployed service instead of holding provider credentials.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/okian/cohortinsights/internal/domain/insight"
)

// Default client configuration.
const (
	insightsPath   = "/v1/insights"
	defaultTimeout = 5 * time.Minute
	maxErrorBody   = 4096
)

type response struct {
	Success        bool   `json:"success"`
	Insights       string `json:"insights"`
	CompanyContext string `json:"companyContext"`
	Error          string `json:"error"`
	Message        string `json:"message"`
}

// Client is a remote insight generator.
type Client struct {
	endpoint   string
	token      string
	httpClient *http.Client
}

// New creates a client for the service at baseURL, e.g. "https://insights.example.com".
func New(baseURL, token string, opts ...Option) (*Client, error) {
	if strings.TrimSpace(baseURL) == "" {
		return nil, ErrMissingEndpoint
	}
	c := &Client{
		endpoint:   strings.TrimRight(baseURL, "/") + insightsPath,
		token:      token,
		httpClient: &http.Client{Timeout: defaultTimeout},
	}

	// Apply all options
	for _, opt := range opts {
		opt(c)
	}

	return c, nil
}

// Generate posts req and returns the generated insights. Every failure wraps
// insight.ErrGenerationFailed and carries the service's message when one
// could be extracted.
func (c *Client) Generate(ctx context.Context, req insight.Request) (insight.Result, error) {
	payload, err := json.Marshal(req)
	if err != nil {
		return insight.Result{}, fmt.Errorf("encode request: %w", err)
	}
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(payload))
	if err != nil {
		return insight.Result{}, fmt.Errorf("build request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		httpReq.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return insight.Result{}, fmt.Errorf("%w: %w", insight.ErrGenerationFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return insight.Result{}, &StatusError{StatusCode: resp.StatusCode, Message: errorMessage(raw)}
	}

	var out response
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return insight.Result{}, fmt.Errorf("%w: decode response: %w", insight.ErrGenerationFailed, err)
	}
	if !out.Success {
		msg := out.Error
		if msg == "" {
			msg = "failed to generate insights"
		}
		return insight.Result{}, fmt.Errorf("%w: %s", insight.ErrGenerationFailed, msg)
	}
	return insight.Result{Insights: out.Insights, CompanyContext: out.CompanyContext}, nil
}

// errorMessage extracts {error} or {message} from a failed response body,
// falling back to the raw text.
func errorMessage(raw []byte) string {
	var r response
	if err := json.Unmarshal(raw, &r); err == nil {
		if r.Error != "" {
			return r.Error
		}
		if r.Message != "" {
			return r.Message
		}
	}
	return strings.TrimSpace(string(raw))
}
