package notifiers

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/beakerlab/beaker/internal/chem"
)

// WebhookNotifier delivers tick events as JSON POSTs to a fixed URL.
type WebhookNotifier struct {
	id      string
	url     string
	client  *http.Client
	headers map[string]string
}

// NewWebhookNotifier creates a webhook notifier with a 5 second delivery
// timeout.
func NewWebhookNotifier(id, url string) *WebhookNotifier {
	return &WebhookNotifier{
		id:      id,
		url:     url,
		client:  &http.Client{Timeout: 5 * time.Second},
		headers: make(map[string]string),
	}
}

// SetHeader adds a header to every webhook request, e.g. an auth token
func (n *WebhookNotifier) SetHeader(key, value string) {
	n.headers[key] = value
}

// ID returns the notifier ID
func (n *WebhookNotifier) ID() string {
	return n.id
}

// Type returns the notifier type
func (n *WebhookNotifier) Type() string {
	return "webhook"
}

// Notify posts the event to the webhook URL. Any non-2xx response counts
// as a delivery failure.
func (n *WebhookNotifier) Notify(ctx context.Context, event chem.TickEvent) error {
	payload, err := event.JSON()
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.url, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	for key, value := range n.headers {
		req.Header.Set(key, value)
	}

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send webhook: %w", err)
	}
	defer resp.Body.Close()

	// Drain so the connection can be reused
	io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("webhook returned status %d", resp.StatusCode)
	}

	return nil
}

// Close closes the notifier (no-op for webhook)
func (n *WebhookNotifier) Close() error {
	return nil
}
