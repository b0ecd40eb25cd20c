package orders

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Transport issues JSON requests against the API and decodes the outcome.
// It carries no domain logic; the clients decide what each status means.
// Unlike the clients built on top of it, a Transport is safe for concurrent
// use.
type Transport struct {
	baseURL string
	client  *http.Client
	log     *slog.Logger
}

// NewTransport creates a transport for the API at baseURL
func NewTransport(baseURL string, timeout time.Duration, log *slog.Logger) *Transport {
	if log == nil {
		log = slog.Default()
	}

	return &Transport{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		client: &http.Client{
			Timeout: timeout,
		},
		log: log,
	}
}

// Get issues a GET request and decodes the response into out
func (t *Transport) Get(ctx context.Context, path string, out interface{}) error {
	return t.do(ctx, http.MethodGet, path, nil, out)
}

// Post issues a POST request with a JSON body and decodes the response into out
func (t *Transport) Post(ctx context.Context, path string, body, out interface{}) error {
	return t.do(ctx, http.MethodPost, path, body, out)
}

// Put issues a PUT request and decodes the response into out.
// A nil body still declares a JSON content type, which the API expects even
// for bodyless transitions.
func (t *Transport) Put(ctx context.Context, path string, body, out interface{}) error {
	return t.do(ctx, http.MethodPut, path, body, out)
}

// Delete issues a DELETE request, discarding any response body
func (t *Transport) Delete(ctx context.Context, path string) error {
	return t.do(ctx, http.MethodDelete, path, nil, nil)
}

func (t *Transport) do(ctx context.Context, method, path string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request body: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, t.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	// Content type is always JSON, even for empty bodies
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Request-ID", uuid.New().String())

	start := time.Now()
	resp, err := t.client.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	t.log.Debug("api request",
		"method", method,
		"path", path,
		"status", resp.StatusCode,
		"duration_ms", time.Since(start).Milliseconds(),
	)

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return newError(resp.StatusCode, data)
	}

	if out != nil && len(data) > 0 {
		if err := json.Unmarshal(data, out); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}

	return nil
}
