package httpx

import (
	"net/http"
	"net/url"
	"time"
)

// setFlash stores a one-shot message shown by the next rendered page.
func setFlash(w http.ResponseWriter, r *http.Request, cfg CookieConfig, msg string) {
	http.SetCookie(w, &http.Cookie{
		Name:     flashCookieName,
		Value:    url.QueryEscape(msg),
		Path:     "/",
		Domain:   cfg.Domain,
		HttpOnly: true,
		Secure:   cfg.secure(r),
		SameSite: http.SameSiteLaxMode,
		MaxAge:   60,
	})
}

// takeFlash returns the pending flash message, if any, and clears it.
func takeFlash(w http.ResponseWriter, r *http.Request, cfg CookieConfig) string {
	c, err := r.Cookie(flashCookieName)
	if err != nil {
		return ""
	}
	clearCookie(w, r, cookieRef{Name: flashCookieName, Config: cfg})
	msg, err := url.QueryUnescape(c.Value)
	if err != nil {
		return ""
	}
	return msg
}

type cookieRef struct {
	Name   string
	Config CookieConfig
}

// clearCookie clears a cookie by setting it to expire immediately.
// It mirrors key attributes (Secure, Path, Domain, SameSite) used when setting cookies
// to maximize compatibility across browsers during deletion.
func clearCookie(w http.ResponseWriter, r *http.Request, ref cookieRef) {
	http.SetCookie(w, &http.Cookie{
		Name:     ref.Name,
		Value:    "",
		Path:     "/",
		Domain:   ref.Config.Domain,
		HttpOnly: true,
		Secure:   ref.Config.secure(r),
		MaxAge:   -1,
		Expires:  time.Unix(0, 0).UTC(),
		SameSite: http.SameSiteLaxMode,
	})
}
