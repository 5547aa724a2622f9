// Package devauth provides a local CredentialExchange that accepts any credentials.
// It stands in for a real identity backend during development and demos.
package devauth

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	domainauth "github.com/target/lexdesk/internal/domain/auth"
	"github.com/target/lexdesk/internal/ports"
)

// loginNamespace derives stable identity ids from an email address.
var loginNamespace = uuid.MustParse("6f1c1f0e-3c55-4f43-9a53-5a1d2b1e7c11")

// Config controls the dev exchange behavior. All fields are optional.
type Config struct {
	// Latency simulates a network round trip before each exchange.
	Latency time.Duration
	// Secret signs issued tokens. A random secret is generated when empty.
	Secret []byte
	// TokenTTL defaults to 8h when zero.
	TokenTTL time.Duration
	Issuer   string
	// Now overrides the clock, for tests.
	Now func() time.Time
}

// Provider implements ports.CredentialExchange without contacting any backend.
// Every login and signup succeeds with role user.
type Provider struct {
	latency time.Duration
	secret  []byte
	ttl     time.Duration
	issuer  string
	now     func() time.Time
}

// Claims are the JWT claims carried by tokens this provider issues.
type Claims struct {
	Email string          `json:"email"`
	Role  domainauth.Role `json:"role"`
	jwt.RegisteredClaims
}

// NewProvider constructs a dev exchange from Config.
func NewProvider(cfg Config) (*Provider, error) {
	secret := cfg.Secret
	if len(secret) == 0 {
		secret = make([]byte, 32)
		if _, err := rand.Read(secret); err != nil {
			return nil, fmt.Errorf("dev auth: generate secret: %w", err)
		}
	}
	ttl := cfg.TokenTTL
	if ttl == 0 {
		ttl = 8 * time.Hour
	}
	issuer := cfg.Issuer
	if issuer == "" {
		issuer = "lexdesk-dev"
	}
	now := cfg.Now
	if now == nil {
		now = time.Now
	}
	if cfg.Latency < 0 {
		return nil, errors.New("dev auth: Latency must not be negative")
	}
	return &Provider{latency: cfg.Latency, secret: secret, ttl: ttl, issuer: issuer, now: now}, nil
}

// Login returns an identity whose id is stable for the given email.
func (p *Provider) Login(ctx context.Context, req ports.LoginRequest) (ports.ExchangeResult, error) {
	if err := p.wait(ctx); err != nil {
		return ports.ExchangeResult{}, err
	}
	email := strings.TrimSpace(req.Email)
	profile := domainauth.Identity{
		ID:    uuid.NewSHA1(loginNamespace, []byte(strings.ToLower(email))).String(),
		Email: email,
		Name:  domainauth.NameFromEmail(email),
		Role:  domainauth.RoleUser,
	}
	return p.issue(profile)
}

// Signup returns a new identity with a fresh random id.
func (p *Provider) Signup(ctx context.Context, req ports.SignupRequest) (ports.ExchangeResult, error) {
	if err := p.wait(ctx); err != nil {
		return ports.ExchangeResult{}, err
	}
	profile := domainauth.Identity{
		ID:    uuid.NewString(),
		Email: strings.TrimSpace(req.Email),
		Name:  req.Name,
		Role:  domainauth.RoleUser,
	}
	return p.issue(profile)
}

// Verify parses a token issued by this provider.
func (p *Provider) Verify(token string) (*Claims, error) {
	claims := &Claims{}
	_, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (any, error) {
		return p.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(p.issuer),
		jwt.WithTimeFunc(p.now),
	)
	if err != nil {
		return nil, fmt.Errorf("dev auth: verify token: %w", err)
	}
	return claims, nil
}

func (p *Provider) issue(profile domainauth.Identity) (ports.ExchangeResult, error) {
	now := p.now()
	claims := Claims{
		Email: profile.Email,
		Role:  profile.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    p.issuer,
			Subject:   profile.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(p.ttl)),
			ID:        uuid.NewString(),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(p.secret)
	if err != nil {
		return ports.ExchangeResult{}, fmt.Errorf("dev auth: sign token: %w", err)
	}
	return ports.ExchangeResult{Token: signed, Profile: profile}, nil
}

func (p *Provider) wait(ctx context.Context) error {
	if p.latency <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(p.latency)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
