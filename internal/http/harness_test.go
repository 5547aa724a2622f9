package httpx

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/target/lexdesk/internal/adapters/memory"
	domainauth "github.com/target/lexdesk/internal/domain/auth"
	mockauth "github.com/target/lexdesk/internal/mocks/auth"
	"github.com/target/lexdesk/internal/ports"
	"github.com/target/lexdesk/internal/service"
)

const staticPathFromTest = "../../frontend/static"

// testApp bundles a fully wired router with its test doubles.
type testApp struct {
	Handler  http.Handler
	Auth     *service.AuthService
	Themes   *service.ThemeService
	Store    *memory.ClientStore
	Exchange *mockauth.StubExchange
	Notifier *mockauth.RecordingNotifier
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestServices(t *testing.T) (*service.AuthService, *service.ThemeService, *memory.ClientStore, *mockauth.StubExchange, *mockauth.RecordingNotifier) {
	t.Helper()
	store := memory.NewClientStore()
	exchange := mockauth.NewStubExchange()
	notifier := &mockauth.RecordingNotifier{}
	logger := discardLogger()

	authSvc, err := service.NewAuthService(service.AuthServiceOptions{
		Exchange: exchange,
		Notifier: notifier,
		Store:    store,
		Logger:   logger,
	})
	require.NoError(t, err)
	themes, err := service.NewThemeService(service.ThemeServiceOptions{Store: store, Logger: logger})
	require.NoError(t, err)
	return authSvc, themes, store, exchange, notifier
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()
	skipIfNoTemplates(t)
	authSvc, themes, store, exchange, notifier := newTestServices(t)

	h, err := NewRouter(RouterServices{
		Auth:       authSvc,
		Themes:     themes,
		TemplateFS: os.DirFS(templatePathFromTest),
		StaticFS:   os.DirFS(staticPathFromTest),
		Logger:     discardLogger(),
	})
	require.NoError(t, err)

	return &testApp{
		Handler:  h,
		Auth:     authSvc,
		Themes:   themes,
		Store:    store,
		Exchange: exchange,
		Notifier: notifier,
	}
}

// signIn establishes an identity with the given role for clientID directly through the service.
func (a *testApp) signIn(t *testing.T, clientID string, role domainauth.Role) domainauth.Identity {
	t.Helper()
	a.Exchange.LoginFunc = func(_ context.Context, req ports.LoginRequest) (ports.ExchangeResult, error) {
		return ports.ExchangeResult{
			Token:   "token-" + string(role),
			Profile: domainauth.Identity{ID: "id-" + string(role), Email: req.Email, Name: "Jane Counsel", Role: role},
		}, nil
	}
	id, err := a.Auth.Session(context.Background(), clientID).Login(context.Background(), "jane@example.com", "secret")
	require.NoError(t, err)
	a.Exchange.LoginFunc = nil
	return id
}

const (
	testClientID  = "0b6a4f7e-1f7c-4b53-9b52-3c6f0d6f2a11"
	testCSRFToken = "test-csrf-token"
)

// browserRequest builds a request carrying the client and CSRF cookies a browser would send.
func browserRequest(method, target string, form url.Values) *http.Request {
	var body io.Reader
	if form != nil {
		form.Set(DefaultCSRFCookieName, testCSRFToken)
		body = strings.NewReader(form.Encode())
	}
	req := httptest.NewRequest(method, target, body)
	if form != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}
	req.Header.Set("Accept", "text/html")
	req.AddCookie(&http.Cookie{Name: ClientIDCookieName, Value: testClientID})
	req.AddCookie(&http.Cookie{Name: DefaultCSRFCookieName, Value: testCSRFToken})
	return req
}

// jsonRequest builds an API request with the CSRF header set.
func jsonRequest(method, target, body string) *http.Request {
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, r)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set(DefaultCSRFHeaderName, testCSRFToken)
	req.AddCookie(&http.Cookie{Name: ClientIDCookieName, Value: testClientID})
	req.AddCookie(&http.Cookie{Name: DefaultCSRFCookieName, Value: testCSRFToken})
	return req
}

func serve(h http.Handler, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

// adminLogin is a LoginFunc that returns an admin profile on the professional tier.
func adminLogin(_ context.Context, req ports.LoginRequest) (ports.ExchangeResult, error) {
	return ports.ExchangeResult{
		Token: "admin-token",
		Profile: domainauth.Identity{
			ID:    "admin-1",
			Email: req.Email,
			Name:  "Ada Admin",
			Role:  domainauth.RoleAdmin,
			Tier:  domainauth.TierProfessional,
		},
	}, nil
}
