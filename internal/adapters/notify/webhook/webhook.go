// Package webhook delivers password-reset requests to an HTTP endpoint as JSON.
// The payload carries a Slack-compatible "text" field alongside structured fields.
package webhook

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

// EventPasswordReset names the event in the payload.
const EventPasswordReset = "password_reset_requested"

// errPermanent marks responses that a retry cannot fix.
var errPermanent = errors.New("permanent webhook failure")

// Config captures the webhook delivery settings.
type Config struct {
	URL        string
	Timeout    time.Duration
	RetryLimit int
	Client     *http.Client
	Now        func() time.Time
}

// Client posts password-reset requests to a webhook.
type Client struct {
	url        string
	retryLimit int
	client     *http.Client
	now        func() time.Time
}

// Payload is the JSON document posted for each request.
type Payload struct {
	Event       string    `json:"event"`
	Email       string    `json:"email"`
	RequestedAt time.Time `json:"requested_at"`
	Text        string    `json:"text"`
}

// NewClient builds a webhook client. Callers should pass a validated config.
func NewClient(cfg Config) (*Client, error) {
	target := strings.TrimSpace(cfg.URL)
	if target == "" {
		return nil, errors.New("webhook url is required")
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	hc := cfg.Client
	if hc == nil {
		hc = &http.Client{Timeout: timeout}
	}
	now := cfg.Now
	if now == nil {
		now = time.Now
	}

	return &Client{
		url:        target,
		retryLimit: max(cfg.RetryLimit, 0),
		client:     hc,
		now:        now,
	}, nil
}

// NotifyPasswordReset implements ports.ResetNotifier.
func (c *Client) NotifyPasswordReset(ctx context.Context, email string) error {
	at := c.now().UTC()
	body, err := json.Marshal(Payload{
		Event:       EventPasswordReset,
		Email:       email,
		RequestedAt: at,
		Text:        fmt.Sprintf("*Password reset requested* for %s at %s", email, at.Format(time.RFC3339)),
	})
	if err != nil {
		return fmt.Errorf("encode webhook payload: %w", err)
	}

	attempts := c.retryLimit + 1
	var lastErr error
	for attempt := range attempts {
		if lastErr = c.post(ctx, body); lastErr == nil {
			return nil
		}
		if errors.Is(lastErr, errPermanent) || attempt == attempts-1 {
			break
		}
		timer := time.NewTimer(time.Duration(attempt+1) * 200 * time.Millisecond)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}
	return lastErr
}

func (c *Client) post(ctx context.Context, body []byte) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create webhook request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("webhook request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 4<<10))
		err = fmt.Errorf("webhook %s: %s", resp.Status, strings.TrimSpace(string(respBody)))
		// 4xx means the request itself was rejected; only 5xx and transport errors are retried.
		if resp.StatusCode >= 400 && resp.StatusCode < 500 {
			return fmt.Errorf("%w: %w", errPermanent, err)
		}
		return err
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}
