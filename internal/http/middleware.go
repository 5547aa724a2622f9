package httpx

import (
	"log/slog"
	"net/http"
	"net/url"
	"runtime/debug"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/target/lexdesk/internal/domain/access"
	domainauth "github.com/target/lexdesk/internal/domain/auth"
	"github.com/target/lexdesk/internal/service"
)

// Logging returns a middleware that logs HTTP requests and responses.
func Logging(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			const defaultHTTPStatus = 200
			ww := &respWriter{ResponseWriter: w, status: defaultHTTPStatus}
			next.ServeHTTP(ww, r)
			logger.Info("http",
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
				slog.Int("status", ww.status),
				slog.Duration("duration", time.Since(start)),
				slog.String("client_id", GetClientIDFromContext(r.Context())),
			)
		})
	}
}

type respWriter struct {
	http.ResponseWriter
	status int
}

func (w *respWriter) WriteHeader(status int) {
	w.status = status
	w.ResponseWriter.WriteHeader(status)
}

// Recover returns a middleware that recovers from panics and logs them.
func Recover(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if err := recover(); err != nil {
					logger.Error("panic",
						slog.Any("error", err),
						slog.String("path", r.URL.Path),
						slog.String("method", r.Method),
						slog.String("stack", string(debug.Stack())))
					http.Error(w, "Internal Server Error", http.StatusInternalServerError)
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

// CookieConfig holds the attributes shared by the cookies this package sets.
type CookieConfig struct {
	Domain string
	// Secure forces the Secure attribute; otherwise it follows the request scheme.
	Secure bool
}

func (c CookieConfig) secure(r *http.Request) bool {
	return c.Secure || r.TLS != nil || isForwardedHTTPS(r)
}

const clientIDMaxAge = 365 * 24 * 60 * 60 // one year

// ClientIdentity returns a middleware that binds every request to a client id.
// The id lives in a long-lived HttpOnly cookie; a missing or malformed cookie
// yields a fresh id.
func ClientIdentity(cfg CookieConfig) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			clientID := readClientID(r)
			if clientID == "" {
				clientID = uuid.NewString()
				http.SetCookie(w, &http.Cookie{
					Name:     ClientIDCookieName,
					Value:    clientID,
					Path:     "/",
					Domain:   cfg.Domain,
					HttpOnly: true,
					Secure:   cfg.secure(r),
					SameSite: http.SameSiteLaxMode,
					MaxAge:   clientIDMaxAge,
				})
			}
			next.ServeHTTP(w, r.WithContext(SetClientIDInContext(r.Context(), clientID)))
		})
	}
}

func readClientID(r *http.Request) string {
	c, err := r.Cookie(ClientIDCookieName)
	if err != nil {
		return ""
	}
	id, err := uuid.Parse(c.Value)
	if err != nil {
		return ""
	}
	return id.String()
}

// Client hint headers for the system color scheme.
const (
	acceptCHHeader         = "Accept-CH"
	prefersColorSchemeHint = "Sec-CH-Prefers-Color-Scheme"
)

// SystemTheme reads the client's system color scheme from the client hint header.
// It returns "" when the client sent no usable hint.
func SystemTheme(r *http.Request) domainauth.Theme {
	th, ok := domainauth.ParseTheme(r.Header.Get(prefersColorSchemeHint))
	if !ok {
		return ""
	}
	return th
}

// SessionOptions groups the services the session middleware needs.
type SessionOptions struct {
	Auth   *service.AuthService
	Themes *service.ThemeService
}

// Session returns a middleware that hydrates the client's session manager and
// resolves its theme once per request. It must run after ClientIdentity.
func Session(opts SessionOptions) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set(acceptCHHeader, prefersColorSchemeHint)
			w.Header().Add("Vary", prefersColorSchemeHint)

			ctx := r.Context()
			clientID := GetClientIDFromContext(ctx)
			if clientID == "" {
				next.ServeHTTP(w, r)
				return
			}
			if opts.Auth != nil {
				ctx = SetManagerInContext(ctx, opts.Auth.Session(ctx, clientID))
			}
			if opts.Themes != nil {
				ctx = SetThemeInContext(ctx, opts.Themes.For(clientID).Resolve(ctx, SystemTheme(r)))
			}
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// Gate returns a middleware that enforces the role rules for protected subtrees.
// Anonymous visitors are sent to the login page, visitors with another role to
// the unauthorized page. While a credential operation is outstanding and no
// identity is known yet, pending serves a neutral placeholder instead.
func Gate(pending http.Handler) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			required, gated := access.RequiredRole(r.URL.Path)
			if !gated {
				next.ServeHTTP(w, r)
				return
			}

			var subject access.Subject
			if m, ok := GetManagerFromContext(r.Context()); ok {
				subject = m.Subject()
			}

			switch access.Decide(subject, required) {
			case access.Render:
				next.ServeHTTP(w, r)
			case access.Pending:
				w.Header().Set("Cache-Control", "no-store")
				w.Header().Set("Refresh", "1")
				pending.ServeHTTP(w, r)
			case access.RedirectUnauthorized:
				http.Redirect(w, r, access.UnauthorizedPath, http.StatusSeeOther)
			default:
				redirectToLogin(w, r)
			}
		})
	}
}

// redirectToLogin redirects to the login page with the current URL as redirect_uri.
func redirectToLogin(w http.ResponseWriter, r *http.Request) {
	u := url.URL{Path: access.LoginPath}
	q := url.Values{}
	q.Set("redirect_uri", safeRedirectPath(r.URL.RequestURI()))
	u.RawQuery = q.Encode()
	http.Redirect(w, r, u.String(), http.StatusSeeOther)
}

// isForwardedHTTPS checks if the request was forwarded over HTTPS.
// Handles comma-separated values in X-Forwarded-Proto header.
func isForwardedHTTPS(r *http.Request) bool {
	xfProto := r.Header.Get("X-Forwarded-Proto")
	if xfProto == "" {
		return false
	}
	for proto := range strings.SplitSeq(xfProto, ",") {
		if strings.EqualFold(strings.TrimSpace(proto), "https") {
			return true
		}
	}
	return false
}

// safeRedirectPath ensures the provided redirect is a same-origin relative path
// starting with "/" and not an absolute or scheme-relative URL. Returns "/" when invalid.
func safeRedirectPath(candidate string) string {
	if candidate == "" {
		return "/"
	}
	if strings.HasPrefix(candidate, "//") || strings.HasPrefix(candidate, `/\`) {
		return "/"
	}
	u, err := url.Parse(candidate)
	if err != nil || u.IsAbs() || u.Host != "" || !strings.HasPrefix(u.Path, "/") {
		return "/"
	}
	return candidate
}
