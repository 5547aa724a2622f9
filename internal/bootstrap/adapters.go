package bootstrap

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/target/lexdesk/config"
	"github.com/target/lexdesk/internal/adapters/reaper"
	"github.com/target/lexdesk/internal/observability/statsd"
	"github.com/target/lexdesk/internal/ports"
)

// ReaperConfig contains configuration for the idle-client reaper.
type ReaperConfig struct {
	DB      *sql.DB
	Logger  *slog.Logger
	Config  config.ReaperConfig
	Metrics statsd.Sink

	// Repo replaces the postgres repository, for tests.
	Repo ports.ClientStatePurger
}

// RunReaper starts the reaper and blocks until ctx is cancelled.
func RunReaper(ctx context.Context, cfg ReaperConfig) error {
	runner, err := reaper.NewRunner(reaper.RunnerOptions{
		DB:      cfg.DB,
		Config:  cfg.Config,
		Logger:  cfg.Logger,
		Repo:    cfg.Repo,
		Metrics: cfg.Metrics,
	})
	if err != nil {
		return fmt.Errorf("create reaper runner: %w", err)
	}

	return runner.Run(ctx)
}
