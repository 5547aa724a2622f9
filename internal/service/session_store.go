package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	domainauth "github.com/target/lexdesk/internal/domain/auth"
	apperrors "github.com/target/lexdesk/internal/errors"
	"github.com/target/lexdesk/internal/ports"
)

// Persisted key layout within a client's namespace.
const (
	KeyAuthToken = "auth_token"
	KeyUser      = "user"
	KeyTheme     = "theme"
)

// SessionStore persists one client's Session Record. Token and user record are
// always written and removed together.
type SessionStore struct {
	store    ports.ClientStore
	clientID string
	logger   *slog.Logger
}

// NewSessionStore binds a SessionStore to clientID.
func NewSessionStore(store ports.ClientStore, clientID string, logger *slog.Logger) *SessionStore {
	if logger == nil {
		logger = slog.Default()
	}
	return &SessionStore{store: store, clientID: clientID, logger: logger}
}

// Load returns the persisted record when both halves are present and well formed.
// Anything else reports false. Malformed records are discarded best-effort.
func (s *SessionStore) Load(ctx context.Context) (domainauth.SessionRecord, bool) {
	vals, err := s.store.Get(ctx, s.clientID, KeyAuthToken, KeyUser)
	if err != nil {
		s.logger.WarnContext(ctx, "session load failed", "client_id", s.clientID, "error", err)
		return domainauth.SessionRecord{}, false
	}

	token, hasToken := vals[KeyAuthToken]
	raw, hasUser := vals[KeyUser]
	if !hasToken && !hasUser {
		return domainauth.SessionRecord{}, false
	}

	rec, err := decodeSessionRecord(token, hasToken, raw, hasUser)
	if err != nil {
		s.logger.WarnContext(ctx, "discarding malformed session", "client_id", s.clientID, "error", err)
		if delErr := s.store.Delete(ctx, s.clientID, KeyAuthToken, KeyUser); delErr != nil {
			s.logger.WarnContext(ctx, "malformed session cleanup failed", "client_id", s.clientID, "error", delErr)
		}
		return domainauth.SessionRecord{}, false
	}
	return rec, true
}

func decodeSessionRecord(token string, hasToken bool, raw string, hasUser bool) (domainauth.SessionRecord, error) {
	switch {
	case !hasToken:
		return domainauth.SessionRecord{}, apperrors.MalformedSession(errors.New("user record without token"))
	case !hasUser:
		return domainauth.SessionRecord{}, apperrors.MalformedSession(errors.New("token without user record"))
	case token == "":
		return domainauth.SessionRecord{}, apperrors.MalformedSession(errors.New("empty token"))
	}

	var id domainauth.Identity
	if err := json.Unmarshal([]byte(raw), &id); err != nil {
		return domainauth.SessionRecord{}, apperrors.MalformedSession(fmt.Errorf("decode user record: %w", err))
	}
	if err := id.Validate(); err != nil {
		return domainauth.SessionRecord{}, apperrors.MalformedSession(err)
	}
	return domainauth.SessionRecord{Token: token, Identity: id}, nil
}

// Save writes the token and user record in one store call.
func (s *SessionStore) Save(ctx context.Context, rec domainauth.SessionRecord) error {
	if rec.Token == "" {
		return apperrors.ValidationField("token", "token is required")
	}
	if err := rec.Identity.Validate(); err != nil {
		return apperrors.Wrap(err, apperrors.ErrCodeValidation, "invalid identity")
	}
	raw, err := json.Marshal(rec.Identity)
	if err != nil {
		return fmt.Errorf("encode user record: %w", err)
	}
	if err := s.store.Set(ctx, s.clientID, map[string]string{
		KeyAuthToken: rec.Token,
		KeyUser:      string(raw),
	}); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

// Clear removes the token and user record. Clearing an empty session is not an error.
func (s *SessionStore) Clear(ctx context.Context) error {
	if err := s.store.Delete(ctx, s.clientID, KeyAuthToken, KeyUser); err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	return nil
}
