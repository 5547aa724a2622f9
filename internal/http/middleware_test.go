package httpx

import (
	"bytes"
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	domainauth "github.com/target/lexdesk/internal/domain/auth"
	"github.com/target/lexdesk/internal/service"
)

func TestClientIdentity(t *testing.T) {
	var seen string
	h := ClientIdentity(CookieConfig{})(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		seen = GetClientIDFromContext(r.Context())
	}))

	t.Run("issues a cookie for new clients", func(t *testing.T) {
		rec := serve(h, httptest.NewRequest(http.MethodGet, "/", nil))
		resp := rec.Result()
		defer resp.Body.Close()

		c := findCookie(resp, ClientIDCookieName)
		require.NotNil(t, c)
		_, err := uuid.Parse(c.Value)
		require.NoError(t, err)
		assert.Equal(t, c.Value, seen)
		assert.True(t, c.HttpOnly)
		assert.Equal(t, http.SameSiteLaxMode, c.SameSite)
		assert.Equal(t, clientIDMaxAge, c.MaxAge)
		assert.Equal(t, "/", c.Path)
	})

	t.Run("reuses a valid cookie", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.AddCookie(&http.Cookie{Name: ClientIDCookieName, Value: testClientID})
		rec := serve(h, req)

		assert.Equal(t, testClientID, seen)
		assert.Empty(t, rec.Header().Values("Set-Cookie"))
	})

	t.Run("replaces a malformed cookie", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.AddCookie(&http.Cookie{Name: ClientIDCookieName, Value: "not-a-uuid"})
		rec := serve(h, req)
		resp := rec.Result()
		defer resp.Body.Close()

		c := findCookie(resp, ClientIDCookieName)
		require.NotNil(t, c)
		assert.NotEqual(t, "not-a-uuid", c.Value)
		assert.Equal(t, c.Value, seen)
	})

	t.Run("secure behind a TLS proxy", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("X-Forwarded-Proto", "https")
		rec := serve(h, req)
		resp := rec.Result()
		defer resp.Body.Close()

		c := findCookie(resp, ClientIDCookieName)
		require.NotNil(t, c)
		assert.True(t, c.Secure)
	})
}

func TestSession_HydratesManagerAndTheme(t *testing.T) {
	authSvc, themes, _, _, _ := newTestServices(t)
	require.NoError(t, themes.For(testClientID).Set(context.Background(), domainauth.ThemeDark))
	_, err := authSvc.Session(context.Background(), testClientID).Login(context.Background(), "jane@example.com", "pw")
	require.NoError(t, err)

	var (
		gotTheme domainauth.Theme
		gotID    domainauth.Identity
		gotOK    bool
	)
	h := chain(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		gotTheme = GetThemeFromContext(r.Context())
		gotID, gotOK = IdentityFromContext(r.Context())
	}),
		ClientIdentity(CookieConfig{}),
		Session(SessionOptions{Auth: authSvc, Themes: themes}),
	)

	req := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
	req.AddCookie(&http.Cookie{Name: ClientIDCookieName, Value: testClientID})
	rec := serve(h, req)

	assert.Equal(t, domainauth.ThemeDark, gotTheme)
	assert.True(t, gotOK)
	assert.Equal(t, "jane@example.com", gotID.Email)
	assert.Equal(t, prefersColorSchemeHint, rec.Header().Get(acceptCHHeader))
	assert.Contains(t, rec.Header().Values("Vary"), prefersColorSchemeHint)
}

func TestSession_SystemThemeHint(t *testing.T) {
	authSvc, themes, _, _, _ := newTestServices(t)

	var gotTheme domainauth.Theme
	h := chain(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		gotTheme = GetThemeFromContext(r.Context())
	}),
		ClientIdentity(CookieConfig{}),
		Session(SessionOptions{Auth: authSvc, Themes: themes}),
	)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(prefersColorSchemeHint, "dark")
	serve(h, req)
	assert.Equal(t, domainauth.ThemeDark, gotTheme)

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(prefersColorSchemeHint, "sepia")
	serve(h, req)
	assert.Equal(t, domainauth.ThemeLight, gotTheme)
}

func TestSession_WithoutClientPassesThrough(t *testing.T) {
	authSvc, themes, _, _, _ := newTestServices(t)
	called := false
	h := Session(SessionOptions{Auth: authSvc, Themes: themes})(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		called = true
		_, ok := GetManagerFromContext(r.Context())
		assert.False(t, ok)
	}))
	serve(h, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.True(t, called)
}

// gateHarness wires ClientIdentity, Session and Gate in front of a handler that
// records whether the protected content rendered.
type gateHarness struct {
	auth     *service.AuthService
	handler  http.Handler
	rendered bool
}

func newGateHarness(t *testing.T) (*gateHarness, *testApp) {
	t.Helper()
	authSvc, themes, store, exchange, notifier := newTestServices(t)
	g := &gateHarness{auth: authSvc}
	pending := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("loading"))
	})
	g.handler = chain(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		g.rendered = true
		_, _ = w.Write([]byte("protected"))
	}),
		ClientIdentity(CookieConfig{}),
		Session(SessionOptions{Auth: authSvc, Themes: themes}),
		Gate(pending),
	)
	return g, &testApp{Auth: authSvc, Themes: themes, Store: store, Exchange: exchange, Notifier: notifier}
}

func (g *gateHarness) get(target string) *httptest.ResponseRecorder {
	g.rendered = false
	req := httptest.NewRequest(http.MethodGet, target, nil)
	req.AddCookie(&http.Cookie{Name: ClientIDCookieName, Value: testClientID})
	return serve(g.handler, req)
}

func TestGate_Decisions(t *testing.T) {
	tests := []struct {
		name         string
		role         domainauth.Role // empty means anonymous
		target       string
		wantRender   bool
		wantLocation string
	}{
		{name: "public page anonymous", target: "/pricing", wantRender: true},
		{name: "dashboard anonymous", target: "/dashboard", wantLocation: "/login?redirect_uri=%2Fdashboard"},
		{name: "dashboard child anonymous keeps query", target: "/dashboard/clients?tab=active", wantLocation: "/login?redirect_uri=%2Fdashboard%2Fclients%3Ftab%3Dactive"},
		{name: "admin anonymous", target: "/admin/users", wantLocation: "/login?redirect_uri=%2Fadmin%2Fusers"},
		{name: "dashboard as user", role: domainauth.RoleUser, target: "/dashboard/billing", wantRender: true},
		{name: "admin as user", role: domainauth.RoleUser, target: "/admin/dashboard", wantLocation: "/unauthorized"},
		{name: "admin as admin", role: domainauth.RoleAdmin, target: "/admin/logs", wantRender: true},
		{name: "dashboard as admin", role: domainauth.RoleAdmin, target: "/dashboard", wantLocation: "/unauthorized"},
		{name: "lookalike prefix is public", target: "/dashboards", wantRender: true},
		{name: "unknown path under admin is still gated", target: "/admin/nope", wantLocation: "/login?redirect_uri=%2Fadmin%2Fnope"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g, app := newGateHarness(t)
			if tt.role != "" {
				app.signIn(t, testClientID, tt.role)
			}

			rec := g.get(tt.target)

			assert.Equal(t, tt.wantRender, g.rendered)
			if tt.wantLocation != "" {
				assert.Equal(t, http.StatusSeeOther, rec.Code)
				assert.Equal(t, tt.wantLocation, rec.Header().Get("Location"))
			} else {
				assert.Equal(t, http.StatusOK, rec.Code)
			}
		})
	}
}

func TestGate_PendingWhileCredentialOperationOutstanding(t *testing.T) {
	g, app := newGateHarness(t)
	app.Exchange.Hold = make(chan struct{})
	app.Exchange.Entered = make(chan struct{}, 1)

	done := make(chan error, 1)
	go func() {
		_, err := g.auth.Session(context.Background(), testClientID).Login(context.Background(), "jane@example.com", "pw")
		done <- err
	}()

	select {
	case <-app.Exchange.Entered:
	case <-time.After(2 * time.Second):
		t.Fatal("login never reached the exchange")
	}

	rec := g.get("/dashboard")
	assert.False(t, g.rendered)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "loading", rec.Body.String())
	assert.Equal(t, "no-store", rec.Header().Get("Cache-Control"))
	assert.Equal(t, "1", rec.Header().Get("Refresh"))

	// Public pages are never held back.
	g.get("/pricing")
	assert.True(t, g.rendered)

	close(app.Exchange.Hold)
	require.NoError(t, <-done)

	g.get("/dashboard")
	assert.True(t, g.rendered, "resolved session renders the dashboard")
}

func TestGate_WithoutSessionRedirectsToLogin(t *testing.T) {
	rendered := false
	h := Gate(http.NotFoundHandler())(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		rendered = true
	}))
	rec := serve(h, httptest.NewRequest(http.MethodGet, "/dashboard", nil))

	assert.False(t, rendered)
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	loc, err := url.Parse(rec.Header().Get("Location"))
	require.NoError(t, err)
	assert.Equal(t, "/login", loc.Path)
	assert.Equal(t, "/dashboard", loc.Query().Get("redirect_uri"))
}

func TestSafeRedirectPath(t *testing.T) {
	tests := map[string]string{
		"":                         "/",
		"/dashboard":               "/dashboard",
		"/dashboard/clients?x=1":   "/dashboard/clients?x=1",
		"//evil.example.com":       "/",
		`/\evil.example.com`:       "/",
		"https://evil.example.com": "/",
		"dashboard":                "/",
		"javascript:alert(1)":      "/",
	}
	for in, want := range tests {
		assert.Equal(t, want, safeRedirectPath(in), "input %q", in)
	}
}

func TestSafeRedirectFromURL(t *testing.T) {
	assert.Equal(t, "/", safeRedirectFromURL(""))
	assert.Equal(t, "/pricing?x=1", safeRedirectFromURL("http://localhost:8080/pricing?x=1"))
	assert.Equal(t, "/dashboard", safeRedirectFromURL("/dashboard"))
	assert.Equal(t, "/", safeRedirectFromURL("//evil.example.com/path"))
}

func TestIsForwardedHTTPS(t *testing.T) {
	tests := []struct {
		header string
		want   bool
	}{
		{"", false},
		{"http", false},
		{"https", true},
		{"HTTPS", true},
		{"http, https", true},
	}
	for _, tt := range tests {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		if tt.header != "" {
			req.Header.Set("X-Forwarded-Proto", tt.header)
		}
		assert.Equal(t, tt.want, isForwardedHTTPS(req), "header %q", tt.header)
	}
}

func TestRecover(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))
	h := Recover(logger)(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}))

	rec := serve(h, httptest.NewRequest(http.MethodGet, "/dashboard", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, buf.String(), `"msg":"panic"`)
	assert.Contains(t, buf.String(), "boom")
}

func TestLogging(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))
	h := chain(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}), Logging(logger))

	serve(h, httptest.NewRequest(http.MethodGet, "/pricing", nil))

	out := buf.String()
	assert.True(t, strings.Contains(out, `"status":418`), out)
	assert.Contains(t, out, `"path":"/pricing"`)
}
