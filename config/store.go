package config

import (
	"fmt"
	"strings"
	"time"
)

// StoreBackend selects where per-client state is persisted.
type StoreBackend string

const (
	// StoreBackendMemory keeps state in process memory. State is lost on restart.
	StoreBackendMemory StoreBackend = "memory"
	// StoreBackendRedis keeps state in a Redis hash per client.
	StoreBackendRedis StoreBackend = "redis"
	// StoreBackendPostgres keeps state in the client_state table.
	StoreBackendPostgres StoreBackend = "postgres"
)

// UnmarshalText implements encoding.TextUnmarshaler for StoreBackend.
func (b *StoreBackend) UnmarshalText(text []byte) error {
	v := strings.ToLower(strings.TrimSpace(string(text)))
	switch v {
	case "memory", "redis", "postgres":
		*b = StoreBackend(v)
		return nil
	default:
		return fmt.Errorf("invalid StoreBackend: %q (valid options: memory, redis, postgres)", v)
	}
}

// StoreConfig contains client state storage configuration.
type StoreConfig struct {
	Backend StoreBackend `env:"STORE_BACKEND" envDefault:"memory"`

	// KeyPrefix namespaces Redis keys.
	KeyPrefix string `env:"STORE_KEY_PREFIX" envDefault:"lexdesk:client:"`

	// TTL is how long an idle client's state is kept. Redis refreshes it on every write;
	// the PostgreSQL backend relies on the reaper.
	TTL time.Duration `env:"STORE_TTL" envDefault:"720h"` // 30 days
}

// Sanitize applies guardrails to store configuration values.
func (s *StoreConfig) Sanitize() {
	if s.Backend == "" {
		s.Backend = StoreBackendMemory
	}
	if strings.TrimSpace(s.KeyPrefix) == "" {
		s.KeyPrefix = "lexdesk:client:"
	}
	if s.TTL < time.Hour {
		s.TTL = time.Hour
	}
}
