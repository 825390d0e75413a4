package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const (
	defaultTimeout = 10 * time.Second
	maxErrorBody   = 4096
)

type httpDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Observer receives one notification per backend call.
type Observer interface {
	ObserveCall(op string, status int, duration time.Duration)
}

// Observers fans a call out to several observers.
type Observers []Observer

// ObserveCall implements Observer.
func (o Observers) ObserveCall(op string, status int, duration time.Duration) {
	for _, obs := range o {
		if obs != nil {
			obs.ObserveCall(op, status, duration)
		}
	}
}

// Config controls how the client reaches the reservation backend.
type Config struct {
	BaseURL    string
	HTTPClient *http.Client
	Timeout    time.Duration
	Observer   Observer
}

// Client calls the reservation backend's HTTP API.
type Client struct {
	baseURL    string
	httpClient httpDoer
	observer   Observer
}

// NewClient constructs a backend client.
func NewClient(cfg Config) *Client {
	return &Client{
		baseURL:    normalizeBaseURL(cfg.BaseURL),
		httpClient: resolveHTTPClient(cfg.HTTPClient, cfg.Timeout),
		observer:   cfg.Observer,
	}
}

func normalizeBaseURL(raw string) string {
	return strings.TrimSuffix(strings.TrimSpace(raw), "/")
}

func resolveHTTPClient(client *http.Client, timeout time.Duration) httpDoer {
	if client != nil {
		return client
	}
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &http.Client{Timeout: timeout}
}

// call performs one request. body is JSON-encoded when non-nil; out is decoded
// from a 2xx response when non-nil. Non-2xx responses return *APIError.
func (c *Client) call(ctx context.Context, op, method, path string, query url.Values, body, out any) error {
	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("backend %s: encode request: %w", op, err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return fmt.Errorf("backend %s: build request: %w", op, err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	status := 0
	if resp != nil {
		status = resp.StatusCode
	}
	c.observe(op, method, path, status, start)
	if err != nil {
		return fmt.Errorf("backend %s: %w", op, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return &APIError{Op: op, Status: resp.StatusCode, Message: messageFromBody(resp.StatusCode, raw)}
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("backend %s: decode response: %w", op, err)
	}
	return nil
}

func (c *Client) observe(op, method, path string, status int, start time.Time) {
	duration := time.Since(start)
	durationMs := float64(duration.Microseconds()) / 1000.0
	if status >= 500 || status == 0 {
		slog.Warn("backend_call", "op", op, "method", method, "path", path, "status", status, "duration_ms", durationMs)
	} else {
		slog.Debug("backend_call", "op", op, "method", method, "path", path, "status", status, "duration_ms", durationMs)
	}
	if c.observer != nil {
		c.observer.ObserveCall(op, status, duration)
	}
}
