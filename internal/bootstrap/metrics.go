package bootstrap

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/target/lexdesk/config"
	"github.com/target/lexdesk/internal/observability/statsd"
)

// BuildMetrics creates the StatsD client. A disabled configuration yields a
// client that drops every metric.
func BuildMetrics(ctx context.Context, cfg config.MetricsConfig, logger *slog.Logger) (*statsd.Client, error) {
	client, err := statsd.NewClient(ctx, statsd.Config{
		Enabled:    cfg.Enabled,
		Address:    cfg.Address,
		Prefix:     cfg.Prefix,
		Logger:     logger,
		GlobalTags: cfg.GlobalTags(),
	})
	if err != nil {
		return nil, fmt.Errorf("create statsd client: %w", err)
	}
	if client.Enabled() && logger != nil {
		logger.InfoContext(ctx, "statsd metrics enabled", "address", cfg.Address, "prefix", cfg.Prefix)
	}
	return client, nil
}

// metricsSink converts a possibly nil client into a Sink, keeping nil as a nil interface.
//
//nolint:ireturn // callers take the Sink interface.
func metricsSink(c *statsd.Client) statsd.Sink {
	if c == nil {
		return nil
	}
	return c
}
