// Package oidc exchanges lexdesk credentials with an OpenID Connect provider using the
// OAuth2 resource-owner password grant.
package oidc

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	gooidc "github.com/coreos/go-oidc/v3/oidc"
	"github.com/target/lexdesk/internal/adapters/authroles"
	domainauth "github.com/target/lexdesk/internal/domain/auth"
	"github.com/target/lexdesk/internal/ports"
	"golang.org/x/oauth2"
)

// ErrSignupUnsupported is returned by Signup when no registration endpoint is configured.
var ErrSignupUnsupported = errors.New("oidc: signup is not supported by this provider")

// ErrNotPermitted is returned when the authenticated principal maps to no lexdesk role.
var ErrNotPermitted = errors.New("oidc: principal is not a member of any permitted group")

// Provider implements ports.CredentialExchange against an OIDC provider.
type Provider struct {
	config     *oauth2.Config
	httpClient *http.Client
	signupURL  string
	roles      authroles.StaticRoleMapper

	oidcProvider *gooidc.Provider
	verifier     *gooidc.IDTokenVerifier
}

// ProviderConfig holds configuration for the OIDC provider.
type ProviderConfig struct {
	ClientID     string
	ClientSecret string
	Scope        string
	DiscoveryURL string
	// SignupURL receives a JSON registration request before the new account logs in. Optional.
	SignupURL  string
	Roles      authroles.StaticRoleMapper
	HTTPClient *http.Client // Optional, defaults to a client with a 30s timeout
}

// DiscoveryDocument represents the OIDC discovery document.
type DiscoveryDocument struct {
	Issuer                string `json:"issuer"`
	AuthorizationEndpoint string `json:"authorization_endpoint"`
	TokenEndpoint         string `json:"token_endpoint"`
	UserinfoEndpoint      string `json:"userinfo_endpoint"`
	JwksURI               string `json:"jwks_uri"`
}

// NewProvider creates a new OIDC provider, fetching the discovery document once.
func NewProvider(ctx context.Context, config ProviderConfig) (*Provider, error) {
	if config.ClientID == "" {
		return nil, errors.New("client ID is required")
	}
	if config.ClientSecret == "" {
		return nil, errors.New("client secret is required")
	}
	if config.DiscoveryURL == "" {
		return nil, errors.New("discovery URL is required")
	}

	httpClient := config.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}

	issuer := strings.TrimSuffix(config.DiscoveryURL, "/")
	issuer = strings.TrimSuffix(issuer, "/.well-known/openid-configuration")
	op, err := gooidc.NewProvider(gooidc.ClientContext(ctx, httpClient), issuer)
	if err != nil {
		return nil, fmt.Errorf("oidc new provider: %w", err)
	}

	scopes := strings.Fields(config.Scope)
	if len(scopes) == 0 {
		scopes = []string{gooidc.ScopeOpenID, "profile", "email"}
	}

	return &Provider{
		config: &oauth2.Config{
			ClientID:     config.ClientID,
			ClientSecret: config.ClientSecret,
			Scopes:       scopes,
			Endpoint:     op.Endpoint(),
		},
		httpClient:   httpClient,
		signupURL:    config.SignupURL,
		roles:        config.Roles,
		oidcProvider: op,
		verifier:     op.Verifier(&gooidc.Config{ClientID: config.ClientID}),
	}, nil
}

// Login trades an email and password for tokens and maps the verified claims to a profile.
// The access token is returned as the opaque session token.
func (p *Provider) Login(ctx context.Context, req ports.LoginRequest) (ports.ExchangeResult, error) {
	ctx = gooidc.ClientContext(ctx, p.httpClient)
	token, err := p.config.PasswordCredentialsToken(ctx, req.Email, req.Password)
	if err != nil {
		return ports.ExchangeResult{}, fmt.Errorf("password grant: %w", err)
	}

	fields, err := p.extractFromIDToken(ctx, token)
	if err != nil {
		return ports.ExchangeResult{}, fmt.Errorf("extract id_token: %w", err)
	}
	if fields.userID == "" || fields.email == "" {
		if fillErr := p.fillFromUserInfo(ctx, token, &fields); fillErr != nil {
			return ports.ExchangeResult{}, fmt.Errorf("get user info: %w", fillErr)
		}
	}
	if fields.email == "" {
		fields.email = strings.TrimSpace(req.Email)
	}

	role, ok := p.roles.Map(fields.groups)
	if !ok {
		return ports.ExchangeResult{}, ErrNotPermitted
	}

	return ports.ExchangeResult{
		Token: token.AccessToken,
		Profile: domainauth.Identity{
			ID:    fields.userID,
			Email: fields.email,
			Name:  fields.displayName(),
			Role:  role,
		},
	}, nil
}

type signupPayload struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

// Signup registers the account at the configured endpoint and then logs it in.
func (p *Provider) Signup(ctx context.Context, req ports.SignupRequest) (ports.ExchangeResult, error) {
	if p.signupURL == "" {
		return ports.ExchangeResult{}, ErrSignupUnsupported
	}
	body, err := json.Marshal(signupPayload(req))
	if err != nil {
		return ports.ExchangeResult{}, fmt.Errorf("encode signup: %w", err)
	}
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, p.signupURL, bytes.NewReader(body))
	if err != nil {
		return ports.ExchangeResult{}, fmt.Errorf("build signup request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := p.httpClient.Do(httpReq)
	if err != nil {
		return ports.ExchangeResult{}, fmt.Errorf("signup request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 1<<16))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return ports.ExchangeResult{}, fmt.Errorf("signup request: unexpected status %d", resp.StatusCode)
	}

	res, err := p.Login(ctx, ports.LoginRequest{Email: req.Email, Password: req.Password})
	if err != nil {
		return ports.ExchangeResult{}, err
	}
	if res.Profile.Name == "" {
		res.Profile.Name = req.Name
	}
	return res, nil
}

// UserInfo represents the user information from the OIDC userinfo endpoint.
type UserInfo struct {
	Subject        string   `json:"sub"`
	Email          string   `json:"email"`
	Name           string   `json:"name"`
	Groups         []string `json:"groups"`
	SamAccountName string   `json:"samaccountname"`
	FirstName      string   `json:"firstname"`
	LastName       string   `json:"lastname"`
	Mail           string   `json:"mail"`
	MemberOf       []string `json:"memberof"`
}

type idFields struct {
	userID     string
	email      string
	name       string
	givenName  string
	familyName string
	groups     []string
}

func (f idFields) displayName() string {
	if f.name != "" {
		return f.name
	}
	return strings.TrimSpace(f.givenName + " " + f.familyName)
}

// idTokenClaims covers standard OIDC claims plus the AD/ADFS shape.
type idTokenClaims struct {
	Sub            string   `json:"sub"`
	Email          string   `json:"email"`
	Name           string   `json:"name"`
	GivenName      string   `json:"given_name"`
	FamilyName     string   `json:"family_name"`
	Groups         []string `json:"groups"`
	SamAccountName string   `json:"samaccountname"`
	FirstName      string   `json:"firstname"`
	LastName       string   `json:"lastname"`
	Mail           string   `json:"mail"`
	MemberOf       []string `json:"memberof"`
}

func (p *Provider) extractFromIDToken(ctx context.Context, tok *oauth2.Token) (idFields, error) {
	if !p.hasOpenIDScope() {
		return idFields{}, nil
	}
	rawID, err := getIDTokenFromToken(tok)
	if err != nil {
		return idFields{}, err
	}
	idTok, err := p.verifier.Verify(ctx, rawID)
	if err != nil {
		return idFields{}, fmt.Errorf("verify id_token: %w", err)
	}
	var claims idTokenClaims
	if claimsErr := idTok.Claims(&claims); claimsErr != nil {
		return idFields{}, fmt.Errorf("parse id_token claims: %w", claimsErr)
	}
	return mapIDTokenClaims(claims), nil
}

func (p *Provider) fillFromUserInfo(ctx context.Context, tok *oauth2.Token, f *idFields) error {
	ui, err := p.oidcProvider.UserInfo(ctx, oauth2.StaticTokenSource(tok))
	if err != nil {
		return fmt.Errorf("fetch user info: %w", err)
	}
	var info UserInfo
	if claimsErr := ui.Claims(&info); claimsErr != nil {
		return fmt.Errorf("decode user info: %w", claimsErr)
	}
	fillFromUserInfoClaims(f, info)
	return nil
}

// mapIDTokenClaims prefers standard claims and falls back to the AD shape.
func mapIDTokenClaims(c idTokenClaims) idFields {
	return idFields{
		userID:     firstNonEmpty(c.Sub, c.SamAccountName),
		email:      firstNonEmpty(c.Email, c.Mail),
		name:       c.Name,
		givenName:  firstNonEmpty(c.GivenName, c.FirstName),
		familyName: firstNonEmpty(c.FamilyName, c.LastName),
		groups:     firstNonEmptySlice(c.Groups, c.MemberOf),
	}
}

// fillFromUserInfoClaims fills only the fields still missing.
func fillFromUserInfoClaims(f *idFields, ui UserInfo) {
	if f.userID == "" {
		f.userID = firstNonEmpty(ui.Subject, ui.SamAccountName)
	}
	if f.email == "" {
		f.email = firstNonEmpty(ui.Email, ui.Mail)
	}
	if f.name == "" {
		f.name = ui.Name
	}
	if f.givenName == "" {
		f.givenName = ui.FirstName
	}
	if f.familyName == "" {
		f.familyName = ui.LastName
	}
	if len(f.groups) == 0 {
		f.groups = firstNonEmptySlice(ui.Groups, ui.MemberOf)
	}
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}

func firstNonEmptySlice(vals ...[]string) []string {
	for _, v := range vals {
		if len(v) > 0 {
			return v
		}
	}
	return nil
}

func (p *Provider) hasOpenIDScope() bool {
	for _, sc := range p.config.Scopes {
		if sc == gooidc.ScopeOpenID {
			return true
		}
	}
	return false
}

// getIDTokenFromToken extracts the id_token from oauth2.Token.
func getIDTokenFromToken(tok *oauth2.Token) (string, error) {
	if tok == nil {
		return "", errors.New("nil token")
	}
	s, ok := tok.Extra("id_token").(string)
	if !ok || s == "" {
		return "", errors.New("missing id_token in token response")
	}
	return s, nil
}
