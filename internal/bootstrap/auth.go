package bootstrap

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/target/lexdesk/config"
	"github.com/target/lexdesk/internal/adapters/authroles"
	"github.com/target/lexdesk/internal/adapters/devauth"
	"github.com/target/lexdesk/internal/adapters/notify"
	"github.com/target/lexdesk/internal/adapters/notify/webhook"
	"github.com/target/lexdesk/internal/adapters/oidc"
	"github.com/target/lexdesk/internal/ports"
)

// AuthConfig contains configuration for the credential exchange.
type AuthConfig struct {
	Auth   config.AuthConfig
	Logger *slog.Logger
}

// BuildExchange creates the credential exchange for the configured auth mode.
//
//nolint:ireturn // the exchange implementation depends on the auth mode.
func BuildExchange(ctx context.Context, cfg AuthConfig) (ports.CredentialExchange, error) {
	switch cfg.Auth.Mode {
	case config.AuthModeMock, "":
		return buildDevExchange(ctx, cfg)
	case config.AuthModeOAuth:
		return buildOAuthExchange(ctx, cfg)
	default:
		return nil, fmt.Errorf("unsupported auth mode %q", cfg.Auth.Mode)
	}
}

func buildDevExchange(ctx context.Context, cfg AuthConfig) (*devauth.Provider, error) {
	mock := cfg.Auth.Mock
	prov, err := devauth.NewProvider(devauth.Config{
		Latency:  mock.Latency,
		Secret:   []byte(mock.TokenSecret),
		TokenTTL: mock.TokenTTL,
	})
	if err != nil {
		return nil, fmt.Errorf("create dev auth provider: %w", err)
	}
	if cfg.Logger != nil {
		cfg.Logger.WarnContext(ctx, "dev auth enabled: any credentials are accepted", "latency", mock.Latency)
	}
	return prov, nil
}

func buildOAuthExchange(ctx context.Context, cfg AuthConfig) (*oidc.Provider, error) {
	oauth := cfg.Auth.OAuth
	prov, err := oidc.NewProvider(ctx, oidc.ProviderConfig{
		ClientID:     oauth.ClientID,
		ClientSecret: oauth.ClientSecret,
		Scope:        oauth.Scope,
		DiscoveryURL: oauth.DiscoveryURL,
		SignupURL:    oauth.SignupURL,
		Roles: authroles.StaticRoleMapper{
			AdminGroup: cfg.Auth.AdminGroup,
			UserGroup:  cfg.Auth.UserGroup,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("create oidc provider: %w", err)
	}
	if cfg.Logger != nil {
		cfg.Logger.InfoContext(ctx, "oidc auth enabled", "signup_enabled", oauth.SignupURL != "")
	}
	return prov, nil
}

// BuildNotifier returns the password-reset notifier: the webhook when a URL is
// configured, otherwise a notifier that only logs.
//
//nolint:ireturn // the notifier implementation depends on configuration.
func BuildNotifier(cfg config.NotificationsConfig, logger *slog.Logger) (ports.ResetNotifier, error) {
	if !cfg.WebhookEnabled() {
		return notify.NewLogNotifier(logger), nil
	}
	client, err := webhook.NewClient(webhook.Config{
		URL:        cfg.ResetWebhookURL,
		Timeout:    cfg.Timeout,
		RetryLimit: cfg.RetryLimit,
	})
	if err != nil {
		return nil, fmt.Errorf("create reset webhook: %w", err)
	}
	return client, nil
}
