package httpx

import (
	"context"

	domainauth "github.com/target/lexdesk/internal/domain/auth"
	"github.com/target/lexdesk/internal/service"
)

// Context key types are unexported to avoid collisions across packages.
// Centralized in this file so all handlers/middleware use the same keys.
type (
	clientIDKey struct{}
	managerKey  struct{}
	themeKey    struct{}
)

// SetClientIDInContext returns a child context that carries the client id.
func SetClientIDInContext(ctx context.Context, clientID string) context.Context {
	if clientID == "" {
		return ctx
	}
	return context.WithValue(ctx, clientIDKey{}, clientID)
}

// GetClientIDFromContext returns the client id for the request, or "" when the
// client middleware did not run.
func GetClientIDFromContext(ctx context.Context) string {
	if id, ok := ctx.Value(clientIDKey{}).(string); ok {
		return id
	}
	return ""
}

// SetManagerInContext returns a child context that carries the session manager.
// If m is nil, the original ctx is returned unchanged.
func SetManagerInContext(ctx context.Context, m *service.Manager) context.Context {
	if m == nil {
		return ctx
	}
	return context.WithValue(ctx, managerKey{}, m)
}

// GetManagerFromContext returns the session manager placed by the session middleware.
func GetManagerFromContext(ctx context.Context) (*service.Manager, bool) {
	m, ok := ctx.Value(managerKey{}).(*service.Manager)
	return m, ok && m != nil
}

// SetThemeInContext returns a child context that carries the resolved theme.
func SetThemeInContext(ctx context.Context, theme domainauth.Theme) context.Context {
	return context.WithValue(ctx, themeKey{}, theme)
}

// GetThemeFromContext returns the resolved theme, defaulting to light.
func GetThemeFromContext(ctx context.Context) domainauth.Theme {
	if th, ok := ctx.Value(themeKey{}).(domainauth.Theme); ok && th != "" {
		return th
	}
	return domainauth.ThemeLight
}

// IdentityFromContext returns the signed-in identity for the request, if any.
func IdentityFromContext(ctx context.Context) (domainauth.Identity, bool) {
	m, ok := GetManagerFromContext(ctx)
	if !ok {
		return domainauth.Identity{}, false
	}
	return m.Identity()
}
