package service

import (
	"context"
	"crypto/rand"
	"encoding/binary"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/target/lexdesk/config"
	"github.com/target/lexdesk/internal/observability/metrics"
	"github.com/target/lexdesk/internal/observability/statsd"
	"github.com/target/lexdesk/internal/ports"
)

// ReaperServiceOptions groups dependencies for ReaperService.
type ReaperServiceOptions struct {
	Repo    ports.ClientStatePurger // Required: client state repository
	Config  config.ReaperConfig     // Required: reaper configuration
	Logger  *slog.Logger            // Optional: structured logger
	Now     func() time.Time        // Optional: clock, defaults to time.Now
	Metrics statsd.Sink             // Optional: metrics sink
}

// ReaperService purges the persisted state of clients that have been idle longer
// than the configured max age. Sessions and theme preferences of such clients are
// dropped together.
type ReaperService struct {
	repo    ports.ClientStatePurger
	config  config.ReaperConfig
	logger  *slog.Logger
	now     func() time.Time
	metrics statsd.Sink
}

// NewReaperService constructs a new ReaperService.
func NewReaperService(opts ReaperServiceOptions) (*ReaperService, error) {
	if opts.Repo == nil {
		return nil, errors.New("client state repository is required")
	}
	if opts.Config.Interval <= 0 {
		return nil, errors.New("reaper interval must be positive")
	}

	var logger *slog.Logger
	if opts.Logger != nil {
		logger = opts.Logger.With("component", "reaper_service")
		logger.Debug("ReaperService initialized",
			"interval", opts.Config.Interval,
			"idle_max_age", opts.Config.IdleMaxAge,
			"batch_size", opts.Config.BatchSize,
		)
	}

	now := opts.Now
	if now == nil {
		now = time.Now
	}

	return &ReaperService{
		repo:    opts.Repo,
		config:  opts.Config,
		logger:  logger,
		now:     now,
		metrics: opts.Metrics,
	}, nil
}

// Run starts the reaper loop and runs until the context is cancelled.
// Returns nil on graceful shutdown (context.Canceled), error otherwise.
func (s *ReaperService) Run(ctx context.Context) error {
	if s.logger != nil {
		s.logger.InfoContext(ctx, "starting reaper service", "interval", s.config.Interval)
	}

	// Stagger instances that start together.
	s.waitWithJitter(ctx)

	ticker := time.NewTicker(s.config.Interval)
	defer ticker.Stop()

	if _, err := s.PurgeIdle(ctx); err != nil {
		s.logCleanupError(err, "initial cleanup")
	}

	return s.runLoop(ctx, ticker)
}

// waitWithJitter adds a random delay up to 10% of the interval.
func (s *ReaperService) waitWithJitter(ctx context.Context) {
	maxJitter := int64(s.config.Interval / 10)
	if maxJitter <= 0 {
		return
	}

	var buf [8]byte
	if _, err := rand.Read(buf[:]); err != nil {
		if s.logger != nil {
			s.logger.WarnContext(ctx, "failed to generate jitter, skipping", "error", err)
		}
		return
	}

	jitterNanos := binary.BigEndian.Uint64(buf[:]) % uint64(maxJitter)
	jitter := time.Duration(int64(jitterNanos)) // #nosec G115 - bounded by maxJitter which is int64

	select {
	case <-time.After(jitter):
	case <-ctx.Done():
	}
}

func (s *ReaperService) runLoop(ctx context.Context, ticker *time.Ticker) error {
	for {
		select {
		case <-ctx.Done():
			if s.logger != nil {
				s.logger.InfoContext(ctx, "reaper service stopping", "reason", ctx.Err())
			}
			if errors.Is(ctx.Err(), context.Canceled) {
				return nil
			}
			return ctx.Err()

		case <-ticker.C:
			if _, err := s.PurgeIdle(ctx); err != nil {
				s.logCleanupError(err, "cleanup")
			}
		}
	}
}

// PurgeIdle removes idle client state in batches until a batch comes back empty.
// It returns the total number of rows removed.
func (s *ReaperService) PurgeIdle(ctx context.Context) (total int64, err error) {
	start := s.now()
	cutoff := start.Add(-s.config.IdleMaxAge)
	defer func() {
		metrics.EmitReaperRun(s.metrics, metrics.ReaperMetric{
			Rows:     total,
			Duration: s.now().Sub(start),
			Err:      err,
		})
	}()

	for {
		count, purgeErr := s.repo.PurgeIdle(ctx, cutoff, s.config.BatchSize)
		if purgeErr != nil {
			return total, fmt.Errorf("purge idle client state: %w", purgeErr)
		}
		total += count
		if count == 0 {
			break
		}
		if ctx.Err() != nil {
			return total, ctx.Err()
		}
	}

	if total > 0 && s.logger != nil {
		s.logger.InfoContext(ctx, "purged idle client state",
			"rows", total,
			"idle_max_age", s.config.IdleMaxAge,
			"elapsed", s.now().Sub(start),
		)
	}
	return total, nil
}

func (s *ReaperService) logCleanupError(err error, label string) {
	if err == nil || s.logger == nil {
		return
	}

	if isContextCancellation(err) {
		s.logger.Debug(label+" cancelled by context", "error", err)
		return
	}

	s.logger.Error(label+" failed", "error", err)
}

func isContextCancellation(err error) bool {
	if err == nil {
		return false
	}
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}
