package httpx

import (
	"log/slog"
	"net/http"
	"net/url"

	apperrors "github.com/target/lexdesk/internal/errors"
	"github.com/target/lexdesk/internal/service"
)

// ThemeHandlers serves the theme preference endpoints.
type ThemeHandlers struct {
	Themes *service.ThemeService
	Logger *slog.Logger
}

// Toggle flips the client's theme. POST /theme/toggle.
// Browsers are sent back to redirect_uri, or to the referring page.
func (h *ThemeHandlers) Toggle(w http.ResponseWriter, r *http.Request) {
	clientID := GetClientIDFromContext(r.Context())
	if clientID == "" {
		WriteAppError(w, apperrors.Internalf("request is not bound to a client"))
		return
	}

	next, err := h.Themes.For(clientID).Toggle(r.Context(), GetThemeFromContext(r.Context()))
	if err != nil {
		if h.Logger != nil {
			h.Logger.WarnContext(r.Context(), "theme toggle failed", "client_id", clientID, "error", err)
		}
		if wantsJSON(r) {
			WriteAppError(w, err)
			return
		}
	}

	if wantsJSON(r) {
		WriteJSON(w, http.StatusOK, map[string]string{"theme": string(next)})
		return
	}
	http.Redirect(w, r, backTo(r), http.StatusSeeOther)
}

// backTo picks a same-origin destination for form actions that return to the current page.
func backTo(r *http.Request) string {
	if candidate := r.FormValue("redirect_uri"); candidate != "" {
		return safeRedirectPath(candidate)
	}
	return safeRedirectFromURL(r.Header.Get("Referer"))
}

// safeRedirectFromURL reduces an absolute or relative URL to a same-origin path.
func safeRedirectFromURL(raw string) string {
	if raw == "" {
		return "/"
	}
	u, err := url.Parse(raw)
	if err != nil {
		return "/"
	}
	// Reject scheme-relative or host-only references.
	if u.Host != "" && !u.IsAbs() {
		return "/"
	}
	if u.IsAbs() {
		return safeRedirectPath(u.RequestURI())
	}
	return safeRedirectPath(raw)
}
