// Package sink delivers best-effort writes to external webhook endpoints:
// the dialog log sheet, the lead sheet and the CRM. Every sink failure is the
// caller's to contain; nothing here retries.
package sink

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

// ErrDisabled is returned by sinks constructed without a URL.
var ErrDisabled = errors.New("sink disabled: no URL configured")

// Webhook is a minimal JSON-over-HTTP client for one external endpoint.
type Webhook struct {
	url    string
	client *http.Client
}

// NewWebhook creates a webhook client. An empty URL yields a disabled sink
// whose calls return ErrDisabled.
func NewWebhook(rawURL string, timeout time.Duration) *Webhook {
	return &Webhook{
		url:    rawURL,
		client: &http.Client{Timeout: timeout},
	}
}

// Enabled reports whether the sink has a configured URL.
func (w *Webhook) Enabled() bool {
	return w.url != ""
}

func (w *Webhook) post(ctx context.Context, payload any) error {
	if !w.Enabled() {
		return ErrDisabled
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, w.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := w.client.Do(req)
	if err != nil {
		return fmt.Errorf("webhook request failed: %w", err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("webhook returned status %d", resp.StatusCode)
	}
	return nil
}

func (w *Webhook) get(ctx context.Context, query url.Values) ([]byte, error) {
	if !w.Enabled() {
		return nil, ErrDisabled
	}

	u := w.url
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := w.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("webhook request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("webhook returned status %d", resp.StatusCode)
	}

	return io.ReadAll(io.LimitReader(resp.Body, 1<<20))
}
