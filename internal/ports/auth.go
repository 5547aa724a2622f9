// Package ports defines interfaces (hexagonal ports) for client state and credential exchange.
// Implementations live in internal/adapters and internal/data; orchestration in internal/service.
package ports

import (
	"context"

	domainauth "github.com/target/lexdesk/internal/domain/auth"
)

// ClientStore is durable key/value storage scoped to one client device.
// Set and Delete apply all keys atomically from the caller's perspective.
// Get omits keys that are not present.
type ClientStore interface {
	Get(ctx context.Context, clientID string, keys ...string) (map[string]string, error)
	Set(ctx context.Context, clientID string, values map[string]string) error
	Delete(ctx context.Context, clientID string, keys ...string) error
}

// LoginRequest carries the credentials for a login exchange.
type LoginRequest struct {
	Email    string
	Password string
}

// SignupRequest carries the details for a registration exchange.
type SignupRequest struct {
	Email    string
	Password string
	Name     string
}

// ExchangeResult is returned by a successful credential exchange.
// Token is opaque to callers.
type ExchangeResult struct {
	Token   string
	Profile domainauth.Identity
}

// CredentialExchange trades credentials for an opaque token and a profile.
type CredentialExchange interface {
	Login(ctx context.Context, req LoginRequest) (ExchangeResult, error)
	Signup(ctx context.Context, req SignupRequest) (ExchangeResult, error)
}

// ResetNotifier delivers password-reset requests.
type ResetNotifier interface {
	NotifyPasswordReset(ctx context.Context, email string) error
}
