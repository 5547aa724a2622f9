package service

import (
	"context"
	"errors"
	"fmt"
	"html"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/microcosm-cc/bluemonday"
	"github.com/target/lexdesk/internal/domain/access"
	domainauth "github.com/target/lexdesk/internal/domain/auth"
	apperrors "github.com/target/lexdesk/internal/errors"
	"github.com/target/lexdesk/internal/observability/metrics"
	"github.com/target/lexdesk/internal/observability/statsd"
	"github.com/target/lexdesk/internal/ports"
)

var (
	errClientStoreRequired = errors.New("client store is required")
	errExchangeRequired    = errors.New("credential exchange is required")
	errNotifierRequired    = errors.New("reset notifier is required")
)

// AuthServiceOptions groups dependencies for AuthService.
type AuthServiceOptions struct {
	Exchange ports.CredentialExchange // Required
	Notifier ports.ResetNotifier      // Required
	Store    ports.ClientStore        // Required
	Logger   *slog.Logger             // Optional
	Metrics  statsd.Sink              // Optional
}

// AuthService creates per-client session managers and owns the state they share:
// the credential exchange, the reset notifier and the in-flight guard registry.
type AuthService struct {
	exchange ports.CredentialExchange
	notifier ports.ResetNotifier
	store    ports.ClientStore
	logger   *slog.Logger
	metrics  statsd.Sink
	names    *bluemonday.Policy
	guards   *clientGuards
}

// NewAuthService constructs a new AuthService.
func NewAuthService(opts AuthServiceOptions) (*AuthService, error) {
	var errs []error
	if opts.Exchange == nil {
		errs = append(errs, errExchangeRequired)
	}
	if opts.Notifier == nil {
		errs = append(errs, errNotifierRequired)
	}
	if opts.Store == nil {
		errs = append(errs, errClientStoreRequired)
	}
	if err := errors.Join(errs...); err != nil {
		return nil, fmt.Errorf("auth service: %w", err)
	}

	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &AuthService{
		exchange: opts.Exchange,
		notifier: opts.Notifier,
		store:    opts.Store,
		logger:   logger.With("component", "auth_service"),
		metrics:  opts.Metrics,
		names:    bluemonday.StrictPolicy(),
		guards:   newClientGuards(),
	}, nil
}

// observe emits the outcome of a credential operation once it returns.
func (s *AuthService) observe(op string, start time.Time, errp *error) {
	metrics.EmitAuthOperation(s.metrics, metrics.AuthMetric{
		Operation: op,
		Duration:  time.Since(start),
		Err:       *errp,
	})
}

// Session builds the manager for one client and hydrates it from the persisted record.
func (s *AuthService) Session(ctx context.Context, clientID string) *Manager {
	m := &Manager{
		svc:      s,
		clientID: clientID,
		sessions: NewSessionStore(s.store, clientID, s.logger),
		logger:   s.logger.With("client_id", clientID),
	}
	m.hydrate(ctx)
	return m
}

// Manager is the sole mutator of one client's Identity.
// It is safe for concurrent use.
type Manager struct {
	svc      *AuthService
	clientID string
	sessions *SessionStore
	logger   *slog.Logger

	mu       sync.RWMutex
	identity *domainauth.Identity
	running  int
}

// SignupInput carries the registration form.
// ConfirmPassword is checked only when non-empty.
type SignupInput struct {
	Email           string
	Password        string
	ConfirmPassword string
	Name            string
}

func (m *Manager) hydrate(ctx context.Context) {
	done := m.begin()
	defer done()

	rec, ok := m.sessions.Load(ctx)
	if !ok {
		return
	}
	id := rec.Identity
	m.setIdentity(&id)
}

// begin marks an operation as running on this manager and returns its completion func.
func (m *Manager) begin() func() {
	m.mu.Lock()
	m.running++
	m.mu.Unlock()
	return func() {
		m.mu.Lock()
		m.running--
		m.mu.Unlock()
	}
}

func (m *Manager) setIdentity(id *domainauth.Identity) {
	m.mu.Lock()
	m.identity = id
	m.mu.Unlock()
}

// ClientID returns the client this manager is bound to.
func (m *Manager) ClientID() string { return m.clientID }

// Identity returns a copy of the current identity.
func (m *Manager) Identity() (domainauth.Identity, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.identity == nil {
		return domainauth.Identity{}, false
	}
	return *m.identity, true
}

// IsAuthenticated reports whether an identity is present.
func (m *Manager) IsAuthenticated() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.identity != nil
}

// IsLoading reports whether hydration or a credential operation is outstanding,
// on this manager or on any other request for the same client.
func (m *Manager) IsLoading() bool {
	m.mu.RLock()
	running := m.running
	m.mu.RUnlock()
	return running > 0 || m.svc.guards.busy(m.clientID)
}

// Subject returns the gate input for the current state.
func (m *Manager) Subject() access.Subject {
	var subj access.Subject
	if id, ok := m.Identity(); ok {
		subj.Identity = &id
	}
	subj.Loading = m.IsLoading()
	return subj
}

func (m *Manager) claim() (func(), error) {
	release, ok := m.svc.guards.tryAcquire(m.clientID)
	if !ok {
		return nil, apperrors.OperationInProgress("another request for this session is still in progress")
	}
	done := m.begin()
	return func() {
		done()
		release()
	}, nil
}

// Login exchanges credentials and replaces the identity on success.
// On any failure the identity is left unchanged.
func (m *Manager) Login(ctx context.Context, email, password string) (_ domainauth.Identity, err error) {
	defer m.svc.observe(metrics.OpLogin, time.Now(), &err)

	email = strings.TrimSpace(email)
	if email == "" || strings.TrimSpace(password) == "" {
		return domainauth.Identity{}, apperrors.InvalidCredentials("email and password are required")
	}

	finish, err := m.claim()
	if err != nil {
		return domainauth.Identity{}, err
	}
	defer finish()

	res, err := m.svc.exchange.Login(ctx, ports.LoginRequest{Email: email, Password: password})
	if err != nil {
		m.logger.WarnContext(ctx, "login exchange failed", "error", err)
		return domainauth.Identity{}, apperrors.RequestFailed(err, "login request failed")
	}
	return m.establish(ctx, res, email, "")
}

// Signup registers a new account and replaces the identity on success.
func (m *Manager) Signup(ctx context.Context, in SignupInput) (_ domainauth.Identity, err error) {
	defer m.svc.observe(metrics.OpSignup, time.Now(), &err)

	email := strings.TrimSpace(in.Email)
	name := m.cleanName(in.Name)
	switch {
	case email == "":
		return domainauth.Identity{}, apperrors.InvalidRegistrationField("email", "email is required")
	case strings.TrimSpace(in.Password) == "":
		return domainauth.Identity{}, apperrors.InvalidRegistrationField("password", "password is required")
	case name == "":
		return domainauth.Identity{}, apperrors.InvalidRegistrationField("name", "name is required")
	case in.ConfirmPassword != "" && in.ConfirmPassword != in.Password:
		return domainauth.Identity{}, apperrors.InvalidRegistrationField("confirmPassword", "passwords do not match")
	}

	finish, err := m.claim()
	if err != nil {
		return domainauth.Identity{}, err
	}
	defer finish()

	res, err := m.svc.exchange.Signup(ctx, ports.SignupRequest{Email: email, Password: in.Password, Name: name})
	if err != nil {
		m.logger.WarnContext(ctx, "signup exchange failed", "error", err)
		return domainauth.Identity{}, apperrors.RequestFailed(err, "signup request failed")
	}
	return m.establish(ctx, res, email, name)
}

// cleanName strips markup from a display name and restores plain-text characters.
func (m *Manager) cleanName(raw string) string {
	return strings.TrimSpace(html.UnescapeString(m.svc.names.Sanitize(raw)))
}

// establish builds the identity from an exchange result, persists it, then publishes it.
func (m *Manager) establish(ctx context.Context, res ports.ExchangeResult, email, name string) (domainauth.Identity, error) {
	id := res.Profile
	if id.Email == "" {
		id.Email = email
	}
	if id.Name == "" {
		id.Name = name
	}
	if id.Name == "" {
		id.Name = domainauth.NameFromEmail(id.Email)
	}
	if id.Role == "" {
		id.Role = domainauth.RoleUser
	}

	if err := m.sessions.Save(ctx, domainauth.SessionRecord{Token: res.Token, Identity: id}); err != nil {
		m.logger.ErrorContext(ctx, "persist session failed", "error", err)
		return domainauth.Identity{}, apperrors.RequestFailed(err, "could not persist session")
	}
	m.setIdentity(&id)
	m.logger.InfoContext(ctx, "session established", "user_id", id.ID, "role", id.Role)
	return id, nil
}

// Logout clears the identity and the persisted record. It waits for any outstanding
// credential operation for this client, so it always has the last word.
// Logging out an anonymous client is a no-op. Logout does not count as loading.
func (m *Manager) Logout(ctx context.Context) (err error) {
	defer m.svc.observe(metrics.OpLogout, time.Now(), &err)

	release, err := m.svc.guards.acquire(ctx, m.clientID)
	if err != nil {
		return apperrors.Wrap(err, apperrors.ErrCodeCanceled, "logout abandoned")
	}
	defer release()

	m.setIdentity(nil)
	if err := m.sessions.Clear(ctx); err != nil {
		m.logger.ErrorContext(ctx, "clear session failed", "error", err)
		return apperrors.RequestFailed(err, "could not clear session")
	}
	m.logger.InfoContext(ctx, "session cleared")
	return nil
}

// ForgotPassword requests a reset notification. It never touches the identity.
func (m *Manager) ForgotPassword(ctx context.Context, email string) (err error) {
	defer m.svc.observe(metrics.OpForgotPassword, time.Now(), &err)

	email = strings.TrimSpace(email)
	if email == "" {
		return apperrors.ValidationField("email", "email is required")
	}

	finish, err := m.claim()
	if err != nil {
		return err
	}
	defer finish()

	if err := m.svc.notifier.NotifyPasswordReset(ctx, email); err != nil {
		m.logger.WarnContext(ctx, "password reset notification failed", "error", err)
		return apperrors.RequestFailed(err, "password reset request failed")
	}
	return nil
}
