package config

import (
	"reflect"
	"testing"
	"time"

	env "github.com/caarlos0/env/v11"
)

func TestParseServices(t *testing.T) {
	tests := []struct {
		name        string
		input       string
		expected    map[ServiceMode]bool
		expectError bool
	}{
		{
			name:     "single service - http",
			input:    "http",
			expected: map[ServiceMode]bool{ServiceModeHTTP: true},
		},
		{
			name:     "single service - reaper",
			input:    "reaper",
			expected: map[ServiceMode]bool{ServiceModeReaper: true},
		},
		{
			name:     "services with spaces and duplicates",
			input:    " http , reaper , http ",
			expected: map[ServiceMode]bool{ServiceModeHTTP: true, ServiceModeReaper: true},
		},
		{
			name:        "empty string",
			input:       "",
			expectError: true,
		},
		{
			name:        "only commas",
			input:       ",,",
			expectError: true,
		},
		{
			name:        "unknown service",
			input:       "http,scheduler",
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := ParseServices(tt.input)
			if tt.expectError {
				if err == nil {
					t.Errorf("expected error but got none")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !reflect.DeepEqual(result, tt.expected) {
				t.Errorf("expected %v, got %v", tt.expected, result)
			}
		})
	}
}

func TestAppConfig_Defaults(t *testing.T) {
	var cfg AppConfig
	if err := env.Parse(&cfg); err != nil {
		t.Fatalf("parse config: %v", err)
	}
	cfg.Sanitize()

	if cfg.Auth.Mode != AuthModeMock {
		t.Errorf("auth mode = %q, want mock", cfg.Auth.Mode)
	}
	if cfg.Auth.Mock.Latency != time.Second {
		t.Errorf("mock latency = %v, want 1s", cfg.Auth.Mock.Latency)
	}
	if cfg.Store.Backend != StoreBackendMemory {
		t.Errorf("store backend = %q, want memory", cfg.Store.Backend)
	}
	if cfg.Store.KeyPrefix != "lexdesk:client:" {
		t.Errorf("key prefix = %q", cfg.Store.KeyPrefix)
	}
	if cfg.HTTP.Addr != ":8080" {
		t.Errorf("addr = %q", cfg.HTTP.Addr)
	}
	if !cfg.IsHTTPServerEnabled() {
		t.Error("http should be enabled by default")
	}
	if cfg.NeedsPostgres() || cfg.NeedsRedis() {
		t.Error("memory backend needs no infrastructure")
	}
	if cfg.Notifications.WebhookEnabled() {
		t.Error("webhook should be disabled without a URL")
	}
}

func TestAppConfig_ParseAuthEnv(t *testing.T) {
	t.Setenv("AUTH_MODE", "OAUTH")
	t.Setenv("ADMIN_GROUP", "cn=partners,ou=groups,dc=example,dc=org")
	t.Setenv("USER_GROUP", "cn=staff,ou=groups,dc=example,dc=org")
	t.Setenv("OAUTH_CLIENT_ID", "app-client")
	t.Setenv("OAUTH_CLIENT_SECRET", "super-secret")
	t.Setenv("OAUTH_DISCOVERY_URL", "https://login.example.com/.well-known/openid-configuration")
	t.Setenv("OAUTH_SCOPE", "openid profile email")
	t.Setenv("OAUTH_SIGNUP_URL", "https://login.example.com/register")
	t.Setenv("MOCK_AUTH_LATENCY", "250ms")
	t.Setenv("MOCK_AUTH_TOKEN_SECRET", "s3cret")

	var cfg AppConfig
	if err := env.Parse(&cfg); err != nil {
		t.Fatalf("parse config: %v", err)
	}

	expected := AuthConfig{
		Mode: AuthModeOAuth,
		OAuth: OAuthConfig{
			ClientID:     "app-client",
			ClientSecret: "super-secret",
			Scope:        "openid profile email",
			DiscoveryURL: "https://login.example.com/.well-known/openid-configuration",
			SignupURL:    "https://login.example.com/register",
		},
		Mock: MockAuthConfig{
			Latency:     250 * time.Millisecond,
			TokenSecret: "s3cret",
			TokenTTL:    8 * time.Hour,
		},
		AdminGroup: "cn=partners,ou=groups,dc=example,dc=org",
		UserGroup:  "cn=staff,ou=groups,dc=example,dc=org",
	}

	if !reflect.DeepEqual(cfg.Auth, expected) {
		t.Fatalf("unexpected auth configuration:\nexpected: %#v\ngot:      %#v", expected, cfg.Auth)
	}
}

func TestAppConfig_InvalidEnums(t *testing.T) {
	t.Run("auth mode", func(t *testing.T) {
		t.Setenv("AUTH_MODE", "saml")
		var cfg AppConfig
		if err := env.Parse(&cfg); err == nil {
			t.Fatal("expected error for unknown auth mode")
		}
	})
	t.Run("store backend", func(t *testing.T) {
		t.Setenv("STORE_BACKEND", "sqlite")
		var cfg AppConfig
		if err := env.Parse(&cfg); err == nil {
			t.Fatal("expected error for unknown store backend")
		}
	})
}

func TestAppConfig_BackendRequirements(t *testing.T) {
	tests := []struct {
		backend      StoreBackend
		services     string
		wantPostgres bool
		wantRedis    bool
		wantReaper   bool
	}{
		{StoreBackendMemory, "http,reaper", false, false, false},
		{StoreBackendRedis, "http,reaper", false, true, false},
		{StoreBackendPostgres, "http", true, false, false},
		{StoreBackendPostgres, "http,reaper", true, false, true},
		{StoreBackendPostgres, "bogus", true, false, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.backend)+"/"+tt.services, func(t *testing.T) {
			cfg := AppConfig{Services: tt.services, Store: StoreConfig{Backend: tt.backend}}
			if got := cfg.NeedsPostgres(); got != tt.wantPostgres {
				t.Errorf("NeedsPostgres() = %v, want %v", got, tt.wantPostgres)
			}
			if got := cfg.NeedsRedis(); got != tt.wantRedis {
				t.Errorf("NeedsRedis() = %v, want %v", got, tt.wantRedis)
			}
			if got := cfg.IsReaperEnabled(); got != tt.wantReaper {
				t.Errorf("IsReaperEnabled() = %v, want %v", got, tt.wantReaper)
			}
		})
	}
}

func TestAppConfig_DetectDevMode(t *testing.T) {
	t.Setenv("NODE_ENV", "development")
	cfg := AppConfig{}
	cfg.Sanitize()
	if !cfg.IsDev {
		t.Error("NODE_ENV=development should enable dev mode")
	}
}

func TestValidServiceModes(t *testing.T) {
	modes := ValidServiceModes()
	if len(modes) != 2 {
		t.Fatalf("expected 2 service modes, got %d", len(modes))
	}
	for _, m := range modes {
		if _, err := ParseServices(string(m)); err != nil {
			t.Errorf("mode %q does not parse: %v", m, err)
		}
	}
}

func TestReaperConfig_Sanitize(t *testing.T) {
	r := ReaperConfig{Interval: time.Second, IdleMaxAge: time.Minute, BatchSize: 0}
	r.Sanitize()
	if r.Interval != time.Minute {
		t.Errorf("interval = %v, want 1m", r.Interval)
	}
	if r.IdleMaxAge != time.Hour {
		t.Errorf("idle max age = %v, want 1h", r.IdleMaxAge)
	}
	if r.BatchSize != 1 {
		t.Errorf("batch size = %d, want 1", r.BatchSize)
	}

	r.BatchSize = 50000
	r.Sanitize()
	if r.BatchSize != 10000 {
		t.Errorf("batch size = %d, want 10000", r.BatchSize)
	}
}

func TestNotificationsConfig_Sanitize(t *testing.T) {
	c := NotificationsConfig{ResetWebhookURL: "  https://hooks.example.com/reset  ", Timeout: 0, RetryLimit: -3}
	c.Sanitize()
	if c.ResetWebhookURL != "https://hooks.example.com/reset" {
		t.Errorf("url not trimmed: %q", c.ResetWebhookURL)
	}
	if c.Timeout != 5*time.Second {
		t.Errorf("timeout = %v, want 5s", c.Timeout)
	}
	if c.RetryLimit != 0 {
		t.Errorf("retry limit = %d, want 0", c.RetryLimit)
	}
	if !c.WebhookEnabled() {
		t.Error("webhook should be enabled")
	}
}

func TestAuthAndStoreConfig_Sanitize(t *testing.T) {
	a := AuthConfig{Mock: MockAuthConfig{Latency: -time.Second}}
	a.Sanitize()
	if a.Mode != AuthModeMock || a.Mock.Latency != 0 || a.Mock.TokenTTL != 8*time.Hour {
		t.Errorf("unexpected auth config after sanitize: %#v", a)
	}

	s := StoreConfig{TTL: time.Minute}
	s.Sanitize()
	if s.Backend != StoreBackendMemory || s.KeyPrefix == "" || s.TTL != time.Hour {
		t.Errorf("unexpected store config after sanitize: %#v", s)
	}
}
