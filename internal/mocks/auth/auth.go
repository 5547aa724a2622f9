// Package auth contains simple hand-written test doubles for auth ports.
// These are lightweight and suitable for unit tests without codegen.
package auth

import (
	"context"
	"fmt"
	"sync"

	domainauth "github.com/target/lexdesk/internal/domain/auth"
	"github.com/target/lexdesk/internal/ports"
)

// Ensure compile-time conformance to ports.
var (
	_ ports.CredentialExchange = (*StubExchange)(nil)
	_ ports.ResetNotifier      = (*RecordingNotifier)(nil)
	_ ports.ClientStore        = (*FaultyClientStore)(nil)
)

// StubExchange accepts any credentials and returns deterministic results.
// Hold, when non-nil, blocks each call until it is closed or the context ends;
// Entered receives one value per call once the call is blocked on Hold.
type StubExchange struct {
	LoginFunc  func(ctx context.Context, req ports.LoginRequest) (ports.ExchangeResult, error)
	SignupFunc func(ctx context.Context, req ports.SignupRequest) (ports.ExchangeResult, error)

	Token   string
	UserID  string
	Hold    chan struct{}
	Entered chan struct{}

	mu          sync.Mutex
	loginCalls  []ports.LoginRequest
	signupCalls []ports.SignupRequest
}

// NewStubExchange creates a StubExchange with sensible defaults.
func NewStubExchange() *StubExchange {
	return &StubExchange{Token: "mock-token", UserID: "user-123"}
}

func (s *StubExchange) wait(ctx context.Context) error {
	if s.Hold == nil {
		return nil
	}
	if s.Entered != nil {
		s.Entered <- struct{}{}
	}
	select {
	case <-s.Hold:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Login implements ports.CredentialExchange.
func (s *StubExchange) Login(ctx context.Context, req ports.LoginRequest) (ports.ExchangeResult, error) {
	s.mu.Lock()
	s.loginCalls = append(s.loginCalls, req)
	s.mu.Unlock()

	if err := s.wait(ctx); err != nil {
		return ports.ExchangeResult{}, err
	}
	if s.LoginFunc != nil {
		return s.LoginFunc(ctx, req)
	}
	return ports.ExchangeResult{
		Token:   s.Token,
		Profile: domainauth.Identity{ID: s.UserID, Email: req.Email, Role: domainauth.RoleUser},
	}, nil
}

// Signup implements ports.CredentialExchange.
func (s *StubExchange) Signup(ctx context.Context, req ports.SignupRequest) (ports.ExchangeResult, error) {
	s.mu.Lock()
	s.signupCalls = append(s.signupCalls, req)
	n := len(s.signupCalls)
	s.mu.Unlock()

	if err := s.wait(ctx); err != nil {
		return ports.ExchangeResult{}, err
	}
	if s.SignupFunc != nil {
		return s.SignupFunc(ctx, req)
	}
	return ports.ExchangeResult{
		Token: s.Token,
		Profile: domainauth.Identity{
			ID:    fmt.Sprintf("%s-signup-%d", s.UserID, n),
			Email: req.Email,
			Name:  req.Name,
			Role:  domainauth.RoleUser,
		},
	}, nil
}

// LoginCalls returns a copy of the recorded login requests.
func (s *StubExchange) LoginCalls() []ports.LoginRequest {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]ports.LoginRequest(nil), s.loginCalls...)
}

// SignupCalls returns a copy of the recorded signup requests.
func (s *StubExchange) SignupCalls() []ports.SignupRequest {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]ports.SignupRequest(nil), s.signupCalls...)
}

// RecordingNotifier records every reset request and returns Err.
type RecordingNotifier struct {
	Err error

	mu     sync.Mutex
	emails []string
}

// NotifyPasswordReset implements ports.ResetNotifier.
func (n *RecordingNotifier) NotifyPasswordReset(_ context.Context, email string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.emails = append(n.emails, email)
	return n.Err
}

// Emails returns a copy of the recorded addresses.
func (n *RecordingNotifier) Emails() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]string(nil), n.emails...)
}

// FaultyClientStore wraps a ClientStore and injects errors per operation.
type FaultyClientStore struct {
	ports.ClientStore

	mu        sync.Mutex
	GetErr    error
	SetErr    error
	DeleteErr error
}

// Fail sets the injected errors under the lock.
func (f *FaultyClientStore) Fail(get, set, del error) {
	f.mu.Lock()
	f.GetErr, f.SetErr, f.DeleteErr = get, set, del
	f.mu.Unlock()
}

func (f *FaultyClientStore) errs() (error, error, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.GetErr, f.SetErr, f.DeleteErr
}

// Get implements ports.ClientStore.
func (f *FaultyClientStore) Get(ctx context.Context, clientID string, keys ...string) (map[string]string, error) {
	if err, _, _ := f.errs(); err != nil {
		return nil, err
	}
	return f.ClientStore.Get(ctx, clientID, keys...)
}

// Set implements ports.ClientStore.
func (f *FaultyClientStore) Set(ctx context.Context, clientID string, values map[string]string) error {
	if _, err, _ := f.errs(); err != nil {
		return err
	}
	return f.ClientStore.Set(ctx, clientID, values)
}

// Delete implements ports.ClientStore.
func (f *FaultyClientStore) Delete(ctx context.Context, clientID string, keys ...string) error {
	if _, _, err := f.errs(); err != nil {
		return err
	}
	return f.ClientStore.Delete(ctx, clientID, keys...)
}
