// Package graphql is a minimal GraphQL-over-HTTP client.
package graphql

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const (
	maxErrorBodyBytes    = 4 * 1024
	maxResponseBodyBytes = 8 << 20
)

var (
	// ErrEmptyEndpoint is returned when a client is built without an endpoint.
	ErrEmptyEndpoint = errors.New("graphql endpoint is empty")
	// ErrResponseTooLarge is returned when a response body exceeds the read limit.
	ErrResponseTooLarge = errors.New("graphql response too large")
)

// Request is a single GraphQL operation.
type Request struct {
	Query         string         `json:"query"`
	OperationName string         `json:"operationName,omitempty"`
	Variables     map[string]any `json:"variables,omitempty"`
}

// Error is one entry of a GraphQL "errors" array.
type Error struct {
	Message string `json:"message"`
	Path    []any  `json:"path,omitempty"`
}

// Errors is returned when the server responds with a non-empty errors array.
type Errors []Error

func (e Errors) Error() string {
	msgs := make([]string, 0, len(e))
	for _, err := range e {
		msgs = append(msgs, err.Message)
	}
	return strings.Join(msgs, "; ")
}

// StatusError is returned for non-2xx responses that carry no GraphQL errors.
type StatusError struct {
	StatusCode int
	Status     string
	Body       string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("graphql http %s", e.Status)
	}
	return fmt.Sprintf("graphql http %s: %s", e.Status, e.Body)
}

type envelope struct {
	Data   json.RawMessage `json:"data"`
	Errors Errors          `json:"errors"`
}

// Client posts operations to a single endpoint.
type Client struct {
	endpoint  string
	http      *http.Client
	userAgent string
	maxBody   int64
}

// New creates a client. A zero timeout means requests never time out.
func New(endpoint string, timeout time.Duration) *Client {
	return &Client{
		endpoint:  endpoint,
		http:      &http.Client{Timeout: timeout},
		userAgent: "pokesearch/1.0",
		maxBody:   maxResponseBodyBytes,
	}
}

// Endpoint returns the configured endpoint URL.
func (c *Client) Endpoint() string {
	return c.endpoint
}

// Do executes req and decodes the "data" member into out.
// out may be nil when the caller only cares about success.
func (c *Client) Do(ctx context.Context, req Request, out any) error {
	if c.endpoint == "" {
		return ErrEmptyEndpoint
	}

	body, err := json.Marshal(req)
	if err != nil {
		return fmt.Errorf("failed to encode request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set("User-Agent", c.userAgent)

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, c.maxBody+1))
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}
	if int64(len(raw)) > c.maxBody {
		return fmt.Errorf("%w: over %d bytes", ErrResponseTooLarge, c.maxBody)
	}

	var env envelope
	decodeErr := json.Unmarshal(raw, &env)

	// GraphQL servers may report errors with a 4xx/5xx status; prefer their message.
	if decodeErr == nil && len(env.Errors) > 0 {
		return env.Errors
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		snippet := strings.TrimSpace(string(raw))
		if len(snippet) > maxErrorBodyBytes {
			snippet = snippet[:maxErrorBodyBytes]
		}
		return &StatusError{StatusCode: resp.StatusCode, Status: resp.Status, Body: snippet}
	}

	if decodeErr != nil {
		return fmt.Errorf("failed to decode response: %w", decodeErr)
	}

	if out == nil || len(env.Data) == 0 {
		return nil
	}
	return json.Unmarshal(env.Data, out)
}
