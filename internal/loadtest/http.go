package loadtest

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/codeGROOVE-dev/retry"
	"github.com/okian/betterrest/internal/domain/types"
)

// Health check retry constants.
const (
	healthAttempts = 5
	healthDelay    = 200 * time.Millisecond
)

var (
	errUnexpectedStatus = errors.New("unexpected status")
	errServiceDown      = errors.New("service health check failed")
)

// HTTPClient is a JSON client for the forms API.
type HTTPClient struct {
	client  *http.Client
	baseURL string
}

// newHTTPClient creates a new HTTP client with timeout.
func newHTTPClient(baseURL string, timeout time.Duration) *HTTPClient {
	return &HTTPClient{
		client:  &http.Client{Timeout: timeout},
		baseURL: baseURL,
	}
}

// do sends body as JSON and decodes the response into out when it is non-nil.
func (c *HTTPClient) do(ctx context.Context, method, path string, body, out any, want int) error {
	var r io.Reader = http.NoBody
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request body: %w", err)
		}
		r = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, r)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != want {
		return fmt.Errorf("%w: %s %s: %d", errUnexpectedStatus, method, path, resp.StatusCode)
	}
	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%s %s: decode response: %w", method, path, err)
	}
	return nil
}

func (c *HTTPClient) openForm(ctx context.Context) (types.FormState, error) {
	var s types.FormState
	err := c.do(ctx, http.MethodPost, "/forms", nil, &s, http.StatusCreated)
	return s, err
}

func (c *HTTPClient) patchForm(ctx context.Context, id string, ch Change) (types.FormState, error) {
	var s types.FormState
	err := c.do(ctx, http.MethodPatch, "/forms/"+id, ch, &s, http.StatusOK)
	return s, err
}

func (c *HTTPClient) getForm(ctx context.Context, id string) (types.FormState, error) {
	var s types.FormState
	err := c.do(ctx, http.MethodGet, "/forms/"+id, nil, &s, http.StatusOK)
	return s, err
}

func (c *HTTPClient) closeForm(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/forms/"+id, nil, nil, http.StatusNoContent)
}

// checkHealth waits for /healthz to answer, retrying while the server starts.
func (c *HTTPClient) checkHealth(ctx context.Context) error {
	err := retry.Do(
		func() error { return c.do(ctx, http.MethodGet, "/healthz", nil, nil, http.StatusOK) },
		retry.Context(ctx),
		retry.Attempts(healthAttempts),
		retry.Delay(healthDelay),
		retry.DelayType(retry.BackOffDelay),
		retry.LastErrorOnly(true),
	)
	if err != nil {
		return fmt.Errorf("%w: %w", errServiceDown, err)
	}
	return nil
}
