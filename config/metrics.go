package config

import "strings"

// MetricsConfig controls StatsD metric emission.
type MetricsConfig struct {
	// Enabled turns on metric emission. An empty Address also disables it.
	Enabled bool `env:"METRICS_ENABLED" envDefault:"false"`

	// Address is the host:port of a StatsD-compatible UDP listener.
	Address string `env:"METRICS_STATSD_ADDRESS" envDefault:"127.0.0.1:8125"`

	// Prefix is prepended to every metric name.
	Prefix string `env:"METRICS_PREFIX" envDefault:"lexdesk"`

	// Environment is attached to every metric as the env tag when set.
	Environment string `env:"METRICS_ENV" envDefault:""`
}

// Sanitize trims whitespace from metric settings.
func (m *MetricsConfig) Sanitize() {
	m.Address = strings.TrimSpace(m.Address)
	m.Prefix = strings.TrimSpace(m.Prefix)
	m.Environment = strings.TrimSpace(m.Environment)
}

// GlobalTags returns tags applied to every metric.
func (m MetricsConfig) GlobalTags() map[string]string {
	if m.Environment == "" {
		return nil
	}
	return map[string]string{"env": m.Environment}
}
