package config

import (
	"strings"
	"time"
)

// NotificationsConfig controls delivery of password reset requests.
// Without a webhook URL, requests are only logged.
type NotificationsConfig struct {
	ResetWebhookURL string        `env:"NOTIFY_RESET_WEBHOOK_URL"`
	Timeout         time.Duration `env:"NOTIFY_TIMEOUT"     envDefault:"5s"`
	RetryLimit      int           `env:"NOTIFY_RETRY_LIMIT" envDefault:"2"`
}

// Sanitize normalises notification configuration values.
func (c *NotificationsConfig) Sanitize() {
	c.ResetWebhookURL = strings.TrimSpace(c.ResetWebhookURL)
	if c.Timeout <= 0 {
		c.Timeout = 5 * time.Second
	}
	if c.RetryLimit < 0 {
		c.RetryLimit = 0
	}
	if c.RetryLimit > 5 {
		c.RetryLimit = 5
	}
}

// WebhookEnabled reports whether reset requests are posted to a webhook.
func (c *NotificationsConfig) WebhookEnabled() bool {
	return c.ResetWebhookURL != ""
}
