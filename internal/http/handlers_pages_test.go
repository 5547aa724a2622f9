package httpx

import (
	"net/http"
	"net/url"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	domainauth "github.com/target/lexdesk/internal/domain/auth"
)

func TestPublicPages(t *testing.T) {
	app := newTestApp(t)

	tests := []struct {
		target string
		want   []string
	}{
		{"/", []string{"<title>LegalCRM</title>", "Management Platform", `href="/signup"`}},
		{"/pricing", []string{"<title>Pricing | LegalCRM</title>", "Basic", "Professional", "Enterprise", "$49/month", "Most Popular", "Contact Sales"}},
		{"/signup", []string{"Create an account", `name="confirmPassword"`}},
		{"/forgot-password", []string{"Reset your password", `action="/forgot-password"`}},
		{"/unauthorized", []string{"Access Denied", "You need to be signed in with the appropriate permissions."}},
	}
	for _, tt := range tests {
		t.Run(tt.target, func(t *testing.T) {
			rec := serve(app.Handler, browserRequest(http.MethodGet, tt.target, nil))
			require.Equal(t, http.StatusOK, rec.Code)
			assert.Equal(t, "text/html; charset=utf-8", rec.Header().Get("Content-Type"))
			assert.True(t, containsAll(rec.Body.String(), tt.want), rec.Body.String())
		})
	}
}

func TestCheckout(t *testing.T) {
	app := newTestApp(t)

	t.Run("known plan", func(t *testing.T) {
		rec := serve(app.Handler, browserRequest(http.MethodGet, "/checkout?planId=pro", nil))
		require.Equal(t, http.StatusOK, rec.Code)
		body := rec.Body.String()
		assert.True(t, containsAll(body, []string{"Payment successful", "Professional", "$99/month"}), body)
		assert.Regexp(t, regexp.MustCompile(`SUB-[0-9A-F]{9}`), body)
	})

	t.Run("unknown plan falls back to default", func(t *testing.T) {
		rec := serve(app.Handler, browserRequest(http.MethodGet, "/checkout?planId=platinum", nil))
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "$49/month")
	})

	t.Run("canceled", func(t *testing.T) {
		rec := serve(app.Handler, browserRequest(http.MethodGet, "/checkout?planId=basic&canceled=true", nil))
		require.Equal(t, http.StatusOK, rec.Code)
		body := rec.Body.String()
		assert.Contains(t, body, "Payment canceled")
		assert.NotContains(t, body, "Payment successful")
	})
}

func TestNewSubscriptionID(t *testing.T) {
	a, b := newSubscriptionID(), newSubscriptionID()
	assert.Regexp(t, `^SUB-[0-9A-F]{9}$`, a)
	assert.NotEqual(t, a, b)
}

func TestUnauthorized_SignedIn(t *testing.T) {
	app := newTestApp(t)
	app.signIn(t, testClientID, domainauth.RoleUser)

	rec := serve(app.Handler, browserRequest(http.MethodGet, "/unauthorized", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "Your account (jane@example.com) has the role of user.")
	assert.Contains(t, body, `href="/dashboard"`)
}

func TestDashboard_SignedIn(t *testing.T) {
	app := newTestApp(t)
	app.signIn(t, testClientID, domainauth.RoleUser)

	rec := serve(app.Handler, browserRequest(http.MethodGet, "/dashboard", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.True(t, containsAll(body, []string{
		"Welcome back, Jane",
		`class="sidebar"`,
		`href="/dashboard/clients"`,
		"JC",
		"No active subscription",
	}), body)
	assert.NotContains(t, body, `href="/admin/users"`)
}

func TestDashboardSubpages(t *testing.T) {
	app := newTestApp(t)
	app.signIn(t, testClientID, domainauth.RoleUser)

	pages := map[string]string{
		"/dashboard/clients":      "Clients",
		"/dashboard/intake-forms": "Intake Forms",
		"/dashboard/contracts":    "Contracts",
		"/dashboard/documents":    "Documents",
		"/dashboard/billing":      "Current Plan",
		"/dashboard/settings":     "Appearance",
	}
	for target, want := range pages {
		t.Run(target, func(t *testing.T) {
			rec := serve(app.Handler, browserRequest(http.MethodGet, target, nil))
			require.Equal(t, http.StatusOK, rec.Code)
			assert.Contains(t, rec.Body.String(), want)
		})
	}
}

func TestAdminPages(t *testing.T) {
	app := newTestApp(t)
	app.signIn(t, testClientID, domainauth.RoleAdmin)

	rec := serve(app.Handler, browserRequest(http.MethodGet, "/admin", nil))
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/admin/dashboard", rec.Header().Get("Location"))

	pages := map[string]string{
		"/admin/dashboard":     "Admin Dashboard",
		"/admin/users":         "All Users",
		"/admin/subscriptions": "Subscriptions",
		"/admin/platform":      "Platform Settings",
		"/admin/logs":          "System Logs",
	}
	for target, want := range pages {
		t.Run(target, func(t *testing.T) {
			rec := serve(app.Handler, browserRequest(http.MethodGet, target, nil))
			require.Equal(t, http.StatusOK, rec.Code)
			body := rec.Body.String()
			assert.Contains(t, body, want)
			assert.Contains(t, body, `href="/admin/users"`)
		})
	}
}

func TestNotFound(t *testing.T) {
	app := newTestApp(t)

	rec := serve(app.Handler, browserRequest(http.MethodGet, "/no-such-page", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "Oops! Page not found")

	// Unknown pages inside a gated subtree are gated first.
	rec = serve(app.Handler, browserRequest(http.MethodGet, "/dashboard/unknown", nil))
	assert.Equal(t, http.StatusSeeOther, rec.Code)

	app.signIn(t, testClientID, domainauth.RoleUser)
	rec = serve(app.Handler, browserRequest(http.MethodGet, "/dashboard/unknown", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestFlashToastShownOnce(t *testing.T) {
	app := newTestApp(t)
	app.signIn(t, testClientID, domainauth.RoleUser)

	req := browserRequest(http.MethodGet, "/dashboard", nil)
	req.AddCookie(&http.Cookie{Name: flashCookieName, Value: url.QueryEscape(msgLoginSuccess)})
	rec := serve(app.Handler, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), msgLoginSuccess)
	resp := rec.Result()
	defer resp.Body.Close()
	cleared := findCookie(resp, flashCookieName)
	require.NotNil(t, cleared)
	assert.Equal(t, -1, cleared.MaxAge)
}

func TestThemeToggle(t *testing.T) {
	t.Run("browser returns to the page", func(t *testing.T) {
		app := newTestApp(t)
		form := url.Values{}
		form.Set("redirect_uri", "/pricing")

		rec := serve(app.Handler, browserRequest(http.MethodPost, "/theme/toggle", form))

		assert.Equal(t, http.StatusSeeOther, rec.Code)
		assert.Equal(t, "/pricing", rec.Header().Get("Location"))
		assert.Equal(t, "dark", storedValues(t, app)["theme"])

		page := serve(app.Handler, browserRequest(http.MethodGet, "/pricing", nil))
		assert.Contains(t, page.Body.String(), `data-theme="dark"`)
	})

	t.Run("json flips twice", func(t *testing.T) {
		app := newTestApp(t)

		rec := serve(app.Handler, jsonRequest(http.MethodPost, "/theme/toggle", ""))
		require.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"theme":"dark"}`, rec.Body.String())

		rec = serve(app.Handler, jsonRequest(http.MethodPost, "/theme/toggle", ""))
		assert.JSONEq(t, `{"theme":"light"}`, rec.Body.String())
	})

	t.Run("referer fallback rejects other origins", func(t *testing.T) {
		app := newTestApp(t)
		req := browserRequest(http.MethodPost, "/theme/toggle", url.Values{})
		req.Header.Set("Referer", "//evil.example.com/x")

		rec := serve(app.Handler, req)
		assert.Equal(t, "/", rec.Header().Get("Location"))
	})
}

func TestStaticAndHealth(t *testing.T) {
	app := newTestApp(t)

	rec := serve(app.Handler, browserRequest(http.MethodGet, "/static/css/app.css", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "public, max-age=3600", rec.Header().Get("Cache-Control"))

	rec = serve(app.Handler, browserRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, rec.Header().Values("Set-Cookie"), "machine endpoints do not mint client ids")
}
