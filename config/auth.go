package config

import (
	"fmt"
	"strings"
	"time"
)

// AuthMode represents which credential exchange the application uses.
type AuthMode string

const (
	// AuthModeOAuth exchanges credentials with an OIDC identity provider.
	AuthModeOAuth AuthMode = "oauth"
	// AuthModeMock accepts any credentials after a simulated delay (development only).
	AuthModeMock AuthMode = "mock"
)

// UnmarshalText implements encoding.TextUnmarshaler for AuthMode.
func (a *AuthMode) UnmarshalText(text []byte) error {
	v := strings.ToLower(string(text))
	switch v {
	case "oauth", "mock":
		*a = AuthMode(v)
		return nil
	default:
		return fmt.Errorf("invalid AuthMode: %q (valid options: oauth, mock)", v)
	}
}

// OAuthConfig contains OAuth/OIDC configuration.
type OAuthConfig struct {
	ClientID     string `env:"CLIENT_ID"     envDefault:"lexdesk"`
	ClientSecret string `env:"CLIENT_SECRET" envDefault:"lexdesk"`
	Scope        string `env:"SCOPE"         envDefault:"openid profile email groups"`
	DiscoveryURL string `env:"DISCOVERY_URL"`
	// SignupURL is the provider's registration endpoint. Signup is unavailable when empty.
	SignupURL string `env:"SIGNUP_URL"`
}

// MockAuthConfig controls the development credential exchange.
// Used when AUTH_MODE=mock.
type MockAuthConfig struct {
	// Latency simulates the round trip to a real provider.
	Latency time.Duration `env:"LATENCY"     envDefault:"1s"`
	// TokenSecret signs issued tokens. A random secret is generated when empty,
	// which invalidates tokens across restarts.
	TokenSecret string        `env:"TOKEN_SECRET"`
	TokenTTL    time.Duration `env:"TOKEN_TTL"   envDefault:"8h"`
}

// AuthConfig groups all authentication-related configuration.
type AuthConfig struct {
	// Mode determines which credential exchange to use.
	Mode AuthMode `env:"AUTH_MODE" envDefault:"mock"`

	// OAuth configuration (used when Mode=oauth).
	OAuth OAuthConfig `envPrefix:"OAUTH_"`

	// Mock configuration (used when Mode=mock).
	Mock MockAuthConfig `envPrefix:"MOCK_AUTH_"`

	// AdminGroup is the identity provider group granted the admin role.
	AdminGroup string `env:"ADMIN_GROUP"`

	// UserGroup is the identity provider group granted the user role.
	// Empty grants the user role to everyone the provider authenticates.
	UserGroup string `env:"USER_GROUP"`
}

// Sanitize applies guardrails to auth configuration values.
func (a *AuthConfig) Sanitize() {
	if a.Mode == "" {
		a.Mode = AuthModeMock
	}
	if a.Mock.Latency < 0 {
		a.Mock.Latency = 0
	}
	if a.Mock.TokenTTL <= 0 {
		a.Mock.TokenTTL = 8 * time.Hour
	}
	a.OAuth.DiscoveryURL = strings.TrimSpace(a.OAuth.DiscoveryURL)
	a.OAuth.SignupURL = strings.TrimSpace(a.OAuth.SignupURL)
	a.AdminGroup = strings.TrimSpace(a.AdminGroup)
	a.UserGroup = strings.TrimSpace(a.UserGroup)
}
