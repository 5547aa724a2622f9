package bootstrap

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net"

	"github.com/redis/go-redis/v9"
	"github.com/target/lexdesk/config"
	"github.com/target/lexdesk/internal/observability/statsd"
	"github.com/target/lexdesk/internal/ports"
	"github.com/target/lexdesk/internal/service"
	"golang.org/x/sync/errgroup"
)

// ServiceContainer holds all application services.
type ServiceContainer struct {
	Auth   *service.AuthService
	Themes *service.ThemeService
	Store  ports.ClientStore
	// Metrics is nil when metrics are disabled.
	Metrics *statsd.Client
}

// ServiceDeps groups dependencies for service initialization.
// Exchange and Notifier override the configured adapters when set.
type ServiceDeps struct {
	Config      *config.AppConfig
	DB          *sql.DB
	RedisClient redis.UniversalClient
	Exchange    ports.CredentialExchange
	Notifier    ports.ResetNotifier
	Metrics     *statsd.Client
	Logger      *slog.Logger
}

// NewServices wires the client store, auth and theme services.
func NewServices(ctx context.Context, deps *ServiceDeps) (ServiceContainer, error) {
	if deps == nil || deps.Config == nil {
		return ServiceContainer{}, errors.New("service deps with config are required")
	}
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}

	store, err := BuildClientStore(StoreDeps{
		Config: deps.Config.Store,
		DB:     deps.DB,
		Redis:  deps.RedisClient,
	})
	if err != nil {
		return ServiceContainer{}, err
	}

	exchange := deps.Exchange
	if exchange == nil {
		exchange, err = BuildExchange(ctx, AuthConfig{Auth: deps.Config.Auth, Logger: logger})
		if err != nil {
			return ServiceContainer{}, err
		}
	}

	notifier := deps.Notifier
	if notifier == nil {
		notifier, err = BuildNotifier(deps.Config.Notifications, logger)
		if err != nil {
			return ServiceContainer{}, err
		}
	}

	sink := deps.Metrics
	if sink == nil {
		sink, err = BuildMetrics(ctx, deps.Config.Metrics, logger)
		if err != nil {
			return ServiceContainer{}, err
		}
	}

	authSvc, err := service.NewAuthService(service.AuthServiceOptions{
		Exchange: exchange,
		Notifier: notifier,
		Store:    store,
		Logger:   logger,
		Metrics:  metricsSink(sink),
	})
	if err != nil {
		return ServiceContainer{}, err
	}
	themes, err := service.NewThemeService(service.ThemeServiceOptions{Store: store, Logger: logger})
	if err != nil {
		return ServiceContainer{}, err
	}

	logger.InfoContext(ctx, "services initialized",
		"store_backend", deps.Config.Store.Backend,
		"auth_mode", deps.Config.Auth.Mode,
		"reset_webhook", deps.Config.Notifications.WebhookEnabled(),
		"metrics", sink.Enabled(),
	)
	return ServiceContainer{Auth: authSvc, Themes: themes, Store: store, Metrics: sink}, nil
}

// ServiceOrchestrationConfig contains configuration for service orchestration.
type ServiceOrchestrationConfig struct {
	Config   *config.AppConfig
	Services ServiceContainer
	DB       *sql.DB
	Logger   *slog.Logger
	// Listener overrides the listener on HTTP.Addr, for tests.
	Listener net.Listener
}

// backgroundService describes a startable component bound to a service mode.
type backgroundService struct {
	mode  config.ServiceMode
	name  string
	start func(context.Context) error
}

// RunServices starts every enabled service and blocks until ctx is cancelled or
// one of them fails. A failure cancels the others.
func RunServices(ctx context.Context, cfg *ServiceOrchestrationConfig) error {
	if cfg == nil || cfg.Config == nil {
		return errors.New("service orchestration config is required")
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	enabled, err := cfg.Config.GetEnabledServices()
	if err != nil {
		return fmt.Errorf("determine enabled services: %w", err)
	}

	g, gctx := errgroup.WithContext(ctx)
	for _, svc := range buildBackgroundServices(cfg, logger) {
		if !enabled[svc.mode] {
			continue
		}
		g.Go(func() error {
			logger.InfoContext(gctx, "service started", "service", svc.name)
			if runErr := svc.start(gctx); runErr != nil {
				return fmt.Errorf("%s failed: %w", svc.name, runErr)
			}
			logger.InfoContext(gctx, "service stopped", "service", svc.name)
			return nil
		})
	}
	return g.Wait()
}

func buildBackgroundServices(cfg *ServiceOrchestrationConfig, logger *slog.Logger) []backgroundService {
	return []backgroundService{
		{
			mode: config.ServiceModeHTTP,
			name: "http",
			start: func(ctx context.Context) error {
				return runHTTP(ctx, cfg, logger)
			},
		},
		{
			mode: config.ServiceModeReaper,
			name: "reaper",
			start: func(ctx context.Context) error {
				return RunReaper(ctx, ReaperConfig{
					DB:      cfg.DB,
					Logger:  logger,
					Config:  cfg.Config.Reaper,
					Metrics: metricsSink(cfg.Services.Metrics),
				})
			},
		},
	}
}

func runHTTP(ctx context.Context, cfg *ServiceOrchestrationConfig, logger *slog.Logger) error {
	handler, err := BuildHTTPHandler(&HTTPServerConfig{
		Config:   cfg.Config,
		Services: cfg.Services,
		Logger:   logger,
	})
	if err != nil {
		return err
	}
	server := NewHTTPServer(cfg.Config.HTTP.Addr, handler)

	ln := cfg.Listener
	if ln == nil {
		var lc net.ListenConfig
		ln, err = lc.Listen(ctx, "tcp", server.Addr)
		if err != nil {
			return fmt.Errorf("listen on %s: %w", server.Addr, err)
		}
	}
	return ServeHTTP(ctx, server, ln, cfg.Config.HTTP.ShutdownTimeout, logger)
}
