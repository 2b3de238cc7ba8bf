// Package client is a small HTTP client for a beaker server, plus fluent
// builders for assembling catalog configurations in code.
package client

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

	"github.com/beakerlab/beaker/internal/chem"
)

// Client talks to a beaker server. The zero value is not usable; construct
// one with New.
type Client struct {
	baseURL string
	http    *http.Client
}

// New creates a client for the server at baseURL
// (e.g. "http://localhost:8080").
func New(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: 10 * time.Second},
	}
}

// WithHTTPClient replaces the underlying HTTP client, e.g. to change the
// timeout, and returns the client for chaining.
func (c *Client) WithHTTPClient(hc *http.Client) *Client {
	c.http = hc
	return c
}

// NotifierInfo identifies one registered notifier.
type NotifierInfo struct {
	ID   string `json:"id"`
	Type string `json:"type"`
}

// MatterRequest describes matter to add to a beaker. Temperature and
// SurfaceArea are optional; the server applies the usual defaults.
type MatterRequest struct {
	Substance   string   `json:"substance"`
	Amount      float64  `json:"amount"`
	Temperature *float64 `json:"temperature,omitempty"`
	SurfaceArea *float64 `json:"surface_area,omitempty"`
}

// TickResult reports how far the server advanced a beaker and which
// reactions fired along the way.
type TickResult struct {
	Ticks   int           `json:"ticks"`
	Firings []chem.Firing `json:"firings"`
}

// Health checks the server's health endpoint.
func (c *Client) Health(ctx context.Context) error {
	return c.do(ctx, http.MethodGet, []string{"healthz"}, nil, nil, nil)
}

// CreateBeaker creates a beaker from a catalog configuration and returns
// its ID. Pass an empty id to let the server assign one.
func (c *Client) CreateBeaker(ctx context.Context, id string, cfg chem.CatalogConfig) (string, error) {
	body := struct {
		ID      string             `json:"id,omitempty"`
		Catalog chem.CatalogConfig `json:"catalog"`
	}{ID: id, Catalog: cfg}

	var out struct {
		ID string `json:"id"`
	}
	if err := c.do(ctx, http.MethodPost, []string{"beakers"}, nil, body, &out); err != nil {
		return "", err
	}
	return out.ID, nil
}

// ListBeakers returns the IDs of all beakers on the server.
func (c *Client) ListBeakers(ctx context.Context) ([]string, error) {
	var out struct {
		Beakers []string `json:"beakers"`
	}
	if err := c.do(ctx, http.MethodGet, []string{"beakers"}, nil, nil, &out); err != nil {
		return nil, err
	}
	return out.Beakers, nil
}

// DeleteBeaker removes a beaker, stopping it first if it is running.
func (c *Client) DeleteBeaker(ctx context.Context, beakerID string) error {
	return c.do(ctx, http.MethodDelete, []string{"beakers", beakerID}, nil, nil, nil)
}

// ReplaceCatalog swaps a beaker's catalog while keeping its matter.
func (c *Client) ReplaceCatalog(ctx context.Context, beakerID string, cfg chem.CatalogConfig) error {
	return c.do(ctx, http.MethodPost, []string{"beakers", beakerID, "catalog"}, nil, cfg, nil)
}

// AddMatter adds matter to a beaker.
func (c *Client) AddMatter(ctx context.Context, beakerID string, m MatterRequest) error {
	return c.do(ctx, http.MethodPost, []string{"beakers", beakerID, "matter"}, nil, m, nil)
}

// Tick advances a beaker by n ticks (minimum 1) and reports the firings.
func (c *Client) Tick(ctx context.Context, beakerID string, n int) (TickResult, error) {
	query := url.Values{}
	if n > 1 {
		query.Set("n", strconv.Itoa(n))
	}
	var out TickResult
	err := c.do(ctx, http.MethodPost, []string{"beakers", beakerID, "tick"}, query, nil, &out)
	return out, err
}

// Start puts a beaker on a ticker with the given wall-clock interval.
func (c *Client) Start(ctx context.Context, beakerID string, interval time.Duration) error {
	query := url.Values{}
	if interval > 0 {
		query.Set("interval", strconv.Itoa(int(interval.Milliseconds())))
	}
	return c.do(ctx, http.MethodPost, []string{"beakers", beakerID, "start"}, query, nil, nil)
}

// Stop halts a beaker's ticker.
func (c *Client) Stop(ctx context.Context, beakerID string) error {
	return c.do(ctx, http.MethodPost, []string{"beakers", beakerID, "stop"}, nil, nil, nil)
}

// SetEnvironment sets the beaker's environment temperature; nil isolates
// the beaker.
func (c *Client) SetEnvironment(ctx context.Context, beakerID string, temperature *float64) error {
	body := struct {
		Temperature *float64 `json:"temperature"`
	}{Temperature: temperature}
	return c.do(ctx, http.MethodPost, []string{"beakers", beakerID, "environment"}, nil, body, nil)
}

// State fetches a beaker's current snapshot.
func (c *Client) State(ctx context.Context, beakerID string) (chem.BeakerSnapshot, error) {
	var out chem.BeakerSnapshot
	err := c.do(ctx, http.MethodGet, []string{"beakers", beakerID, "state"}, nil, nil, &out)
	return out, err
}

// Describe fetches the plain-text observer summary of a beaker.
func (c *Client) Describe(ctx context.Context, beakerID string) (string, error) {
	return c.getText(ctx, []string{"beakers", beakerID, "describe"})
}

// ListNotifiers returns all notifiers registered on the server.
func (c *Client) ListNotifiers(ctx context.Context) ([]NotifierInfo, error) {
	var out struct {
		Notifiers []NotifierInfo `json:"notifiers"`
	}
	if err := c.do(ctx, http.MethodGet, []string{"notifiers"}, nil, nil, &out); err != nil {
		return nil, err
	}
	return out.Notifiers, nil
}

// RegisterWebhook registers a webhook notifier and returns its ID. Pass an
// empty id to let the server assign one; headers may be nil.
func (c *Client) RegisterWebhook(ctx context.Context, id, webhookURL string, headers map[string]string) (string, error) {
	config := map[string]any{"url": webhookURL}
	if len(headers) > 0 {
		config["headers"] = headers
	}
	return c.registerNotifier(ctx, "webhook", id, config)
}

// RegisterWebSocket registers a websocket notifier and returns its ID.
// Clients can then connect to /ws/{id} on the server.
func (c *Client) RegisterWebSocket(ctx context.Context, id string) (string, error) {
	return c.registerNotifier(ctx, "websocket", id, nil)
}

func (c *Client) registerNotifier(ctx context.Context, notifierType, id string, config map[string]any) (string, error) {
	body := struct {
		Type   string         `json:"type"`
		ID     string         `json:"id,omitempty"`
		Config map[string]any `json:"config,omitempty"`
	}{Type: notifierType, ID: id, Config: config}

	var out NotifierInfo
	if err := c.do(ctx, http.MethodPost, []string{"notifiers"}, nil, body, &out); err != nil {
		return "", err
	}
	return out.ID, nil
}

// UnregisterNotifier removes a notifier from the server.
func (c *Client) UnregisterNotifier(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, []string{"notifiers", id}, nil, nil, nil)
}

// do runs one JSON round trip: optional request body in, optional decoded
// response out. Any non-2xx status becomes an error carrying the server's
// response text.
func (c *Client) do(ctx context.Context, method string, path []string, query url.Values, body, out any) error {
	u, err := url.JoinPath(c.baseURL, path...)
	if err != nil {
		return fmt.Errorf("failed to build URL: %w", err)
	}
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		data, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("server returned status %d: %s", resp.StatusCode, strings.TrimSpace(string(data)))
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}
	return nil
}

// getText fetches a plain-text endpoint.
func (c *Client) getText(ctx context.Context, path []string) (string, error) {
	u, err := url.JoinPath(c.baseURL, path...)
	if err != nil {
		return "", fmt.Errorf("failed to build URL: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("server returned status %d: %s", resp.StatusCode, strings.TrimSpace(string(data)))
	}
	return string(data), nil
}
