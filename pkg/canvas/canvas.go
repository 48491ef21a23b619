// Package canvas implements a client for the Canvas LMS REST API.
// One exported method per supported operation; every method takes typed
// parameters and returns the decoded JSON response.
package canvas

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/raihanp/canvassist/internal/metrics"
)

// APIError represents a Canvas API failure
type APIError struct {
	StatusCode int
	Message    string
	Body       string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("canvas API error: status %d: %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("canvas API error: status %d", e.StatusCode)
}

// Client talks to a single Canvas instance
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
	logger     zerolog.Logger
	metrics    *metrics.Metrics
}

// Options configures a Client
type Options struct {
	HTTPClient *http.Client
	Logger     zerolog.Logger
	Metrics    *metrics.Metrics
}

// New creates a Canvas client for the given instance URL and access token
func New(baseURL, token string, opts Options) *Client {
	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 60 * time.Second}
	}

	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		token:      token,
		httpClient: httpClient,
		logger:     opts.Logger,
		metrics:    opts.Metrics,
	}
}

// request performs one API call and decodes the JSON response. All failures,
// including non-2xx statuses, come back as *APIError so callers can surface
// the HTTP status to the user.
func (c *Client) request(ctx context.Context, method, endpoint string, query url.Values, body any) (any, error) {
	reqURL := fmt.Sprintf("%s/api/v1/%s", c.baseURL, strings.TrimLeft(endpoint, "/"))
	if len(query) > 0 {
		reqURL += "?" + query.Encode()
	}

	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to encode request body: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, reqURL, reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.recordRequest(method, "error")
		return nil, &APIError{Message: fmt.Sprintf("request failed: %v", err)}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		c.recordRequest(method, "error")
		return nil, &APIError{StatusCode: resp.StatusCode, Message: fmt.Sprintf("failed to read response: %v", err)}
	}

	c.recordRequest(method, statusClass(resp.StatusCode))
	c.logger.Debug().
		Str("method", method).
		Str("endpoint", endpoint).
		Int("status", resp.StatusCode).
		Dur("duration", time.Since(start)).
		Msg("Canvas request")

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &APIError{
			StatusCode: resp.StatusCode,
			Message:    extractErrorMessage(respBody),
			Body:       string(respBody),
		}
	}

	if len(respBody) == 0 {
		return map[string]any{}, nil
	}

	var result any
	if err := json.Unmarshal(respBody, &result); err != nil {
		return nil, &APIError{
			StatusCode: resp.StatusCode,
			Message:    "malformed JSON response",
			Body:       string(respBody),
		}
	}

	return result, nil
}

func (c *Client) recordRequest(method, status string) {
	if c.metrics != nil {
		c.metrics.CanvasRequestsTotal.WithLabelValues(method, status).Inc()
	}
}

func statusClass(code int) string {
	return strconv.Itoa(code/100) + "xx"
}

// extractErrorMessage pulls the human-readable message out of a Canvas error
// body, which is usually {"errors":[{"message":"..."}]} or {"message":"..."}.
func extractErrorMessage(body []byte) string {
	var withErrors struct {
		Errors []struct {
			Message string `json:"message"`
		} `json:"errors"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &withErrors); err == nil {
		if withErrors.Message != "" {
			return withErrors.Message
		}
		if len(withErrors.Errors) > 0 && withErrors.Errors[0].Message != "" {
			return withErrors.Errors[0].Message
		}
	}

	trimmed := strings.TrimSpace(string(body))
	if len(trimmed) > 200 {
		trimmed = trimmed[:200]
	}
	return trimmed
}
