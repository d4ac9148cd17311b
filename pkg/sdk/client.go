package gensum

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"
)

const defaultTimeout = 90 * time.Second

// Client is the gensum API client.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// New creates a Client for the API at baseURL.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		httpClient: &http.Client{Timeout: defaultTimeout},
	}
	for _, o := range opts {
		o.apply(c)
	}
	return c
}

type generateSummaryRequest struct {
	Query   string         `json:"query"`
	Context []SearchResult `json:"context"`
}

type generateSummaryResponse struct {
	Summary string `json:"summary"`
	Status  string `json:"status"`
	Error   string `json:"error"`
	Details *struct {
		ErrorType string `json:"errorType"`
	} `json:"details"`
}

// GenerateSummary asks the service to answer query grounded on results.
// results may be empty but not nil-skipped: the server requires the context
// array to be present.
func (c *Client) GenerateSummary(ctx context.Context, query string, results []SearchResult) (string, error) {
	if results == nil {
		results = []SearchResult{}
	}

	payload, err := json.Marshal(generateSummaryRequest{
		Query:   query,
		Context: results,
	})
	if err != nil {
		return "", fmt.Errorf("gensum: encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/api/generate-summary", bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("gensum: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("gensum: request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	var body generateSummaryResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", fmt.Errorf("gensum: decode response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		apiErr := &APIError{
			StatusCode: resp.StatusCode,
			Message:    body.Error,
		}
		if body.Details != nil {
			apiErr.ErrorType = body.Details.ErrorType
		}
		return "", apiErr
	}

	return body.Summary, nil
}

// Health returns the service health report. A degraded service yields the
// report alongside an APIError with status 503.
func (c *Client) Health(ctx context.Context) (HealthReport, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/health", http.NoBody)
	if err != nil {
		return HealthReport{}, fmt.Errorf("gensum: build request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return HealthReport{}, fmt.Errorf("gensum: request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	var report HealthReport
	if err := json.NewDecoder(resp.Body).Decode(&report); err != nil {
		return HealthReport{}, fmt.Errorf("gensum: decode response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return report, &APIError{StatusCode: resp.StatusCode, Message: report.Status}
	}

	return report, nil
}
