package service

import (
	"context"
	"fmt"
	"log/slog"

	domainauth "github.com/target/lexdesk/internal/domain/auth"
	apperrors "github.com/target/lexdesk/internal/errors"
	"github.com/target/lexdesk/internal/ports"
)

// ThemeServiceOptions groups dependencies for ThemeService.
type ThemeServiceOptions struct {
	Store  ports.ClientStore // Required
	Logger *slog.Logger      // Optional
}

// ThemeService hands out per-client theme stores.
type ThemeService struct {
	store  ports.ClientStore
	logger *slog.Logger
}

// NewThemeService constructs a ThemeService.
func NewThemeService(opts ThemeServiceOptions) (*ThemeService, error) {
	if opts.Store == nil {
		return nil, fmt.Errorf("theme service: %w", errClientStoreRequired)
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &ThemeService{store: opts.Store, logger: logger.With("component", "theme_service")}, nil
}

// For returns the theme store for one client.
func (s *ThemeService) For(clientID string) *ThemeStore {
	return &ThemeStore{store: s.store, clientID: clientID, logger: s.logger}
}

// ThemeStore resolves and persists one client's theme preference.
type ThemeStore struct {
	store    ports.ClientStore
	clientID string
	logger   *slog.Logger
}

// Resolve returns the persisted theme, else system, else light. It never fails:
// read errors and unrecognised values fall through to the next source.
// Pass an empty system theme when the client sent no preference.
func (t *ThemeStore) Resolve(ctx context.Context, system domainauth.Theme) domainauth.Theme {
	vals, err := t.store.Get(ctx, t.clientID, KeyTheme)
	if err != nil {
		t.logger.WarnContext(ctx, "theme load failed", "client_id", t.clientID, "error", err)
	} else if raw, ok := vals[KeyTheme]; ok {
		if th, valid := domainauth.ParseTheme(raw); valid {
			return th
		}
		t.logger.DebugContext(ctx, "ignoring unrecognised theme", "client_id", t.clientID, "value", raw)
	}
	if system == domainauth.ThemeDark || system == domainauth.ThemeLight {
		return system
	}
	return domainauth.ThemeLight
}

// Set persists an explicit choice.
func (t *ThemeStore) Set(ctx context.Context, theme domainauth.Theme) error {
	th, ok := domainauth.ParseTheme(string(theme))
	if !ok {
		return apperrors.ValidationField("theme", fmt.Sprintf("unknown theme %q", theme))
	}
	if err := t.store.Set(ctx, t.clientID, map[string]string{KeyTheme: string(th)}); err != nil {
		return apperrors.RequestFailed(err, "save theme")
	}
	return nil
}

// Toggle flips the resolved theme and persists the result.
func (t *ThemeStore) Toggle(ctx context.Context, system domainauth.Theme) (domainauth.Theme, error) {
	next := t.Resolve(ctx, system).Toggle()
	if err := t.Set(ctx, next); err != nil {
		return "", err
	}
	return next, nil
}
