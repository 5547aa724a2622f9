package httpx

import (
	"html"
	"log/slog"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/target/lexdesk/internal/domain/billing"
)

const appName = "LegalCRM"

// UIHandlers serves browser-facing pages.
type UIHandlers struct {
	T       *TemplateRenderer
	Cookies CookieConfig
	IsDev   bool // Development mode flag for enhanced error reporting
	Logger  *slog.Logger
}

// logger returns the configured logger or falls back to slog.Default().
func (h *UIHandlers) logger() *slog.Logger {
	if h != nil && h.Logger != nil {
		return h.Logger
	}
	return slog.Default()
}

func pageMeta(page, pageTitle string) PageMeta {
	title := appName
	if pageTitle != "" {
		title = pageTitle + " | " + appName
	}
	return PageMeta{Title: title, PageTitle: pageTitle, CurrentPage: page}
}

// Render renders a full page. A pending flash message becomes the page toast.
func (h *UIHandlers) Render(w http.ResponseWriter, r *http.Request, status int, data map[string]any) {
	if _, ok := data["Toast"]; !ok {
		if msg := takeFlash(w, r, h.Cookies); msg != "" {
			data["Toast"] = msg
		}
	}
	if err := h.T.RenderFull(w, status, data); err != nil {
		h.logAndRenderTemplateError(w, r, err)
	}
}

// staticPage serves a page whose content needs nothing beyond the layout data.
func (h *UIHandlers) staticPage(meta PageMeta) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		h.Render(w, r, http.StatusOK, NewTemplateData(r, meta).Build())
	}
}

// Home serves the landing page.
func (h *UIHandlers) Home(w http.ResponseWriter, r *http.Request) {
	data := NewTemplateData(r, pageMeta(PageHome, "")).
		With("Plans", billing.Plans()).
		Build()
	h.Render(w, r, http.StatusOK, data)
}

// Pricing serves the plan catalog.
func (h *UIHandlers) Pricing(w http.ResponseWriter, r *http.Request) {
	data := NewTemplateData(r, pageMeta(PagePricing, "Pricing")).
		With("Plans", billing.Plans()).
		Build()
	h.Render(w, r, http.StatusOK, data)
}

// Checkout confirms a subscription for ?planId=. Unknown plans fall back to the
// default plan; ?canceled marks the payment as canceled.
func (h *UIHandlers) Checkout(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	plan, ok := billing.LookupPlan(q.Get("planId"))
	if !ok {
		plan, _ = billing.LookupPlan(billing.DefaultPlanID)
	}
	data := NewTemplateData(r, pageMeta(PageCheckout, "Subscription Checkout")).
		With("Plan", plan).
		With("Canceled", q.Has("canceled")).
		With("SubscriptionID", newSubscriptionID()).
		Build()
	h.Render(w, r, http.StatusOK, data)
}

func newSubscriptionID() string {
	raw := strings.ReplaceAll(uuid.NewString(), "-", "")
	return "SUB-" + strings.ToUpper(raw[:9])
}

// Unauthorized serves the access denied page.
func (h *UIHandlers) Unauthorized(w http.ResponseWriter, r *http.Request) {
	h.staticPage(pageMeta(PageUnauthorized, "Access Denied"))(w, r)
}

// NotFound serves the not-found page with a 404 status.
func (h *UIHandlers) NotFound(w http.ResponseWriter, r *http.Request) {
	data := NewTemplateData(r, pageMeta(PageNotFound, "Page Not Found")).Build()
	h.Render(w, r, http.StatusNotFound, data)
}

// Loading serves the neutral placeholder shown while the session is unresolved.
func (h *UIHandlers) Loading(w http.ResponseWriter, r *http.Request) {
	data := NewTemplateData(r, pageMeta(PageLoading, "Loading")).Build()
	h.Render(w, r, http.StatusOK, data)
}

// Dashboard serves the user dashboard home.
func (h *UIHandlers) Dashboard(w http.ResponseWriter, r *http.Request) {
	b := NewTemplateData(r, pageMeta(PageDashboard, "Dashboard"))
	if id, ok := IdentityFromContext(r.Context()); ok {
		if plan, found := planForTier(string(id.Tier)); found {
			b.With("Plan", plan)
		}
	}
	h.Render(w, r, http.StatusOK, b.Build())
}

// Billing serves the subscription details page.
func (h *UIHandlers) Billing(w http.ResponseWriter, r *http.Request) {
	b := NewTemplateData(r, pageMeta(PageBilling, "Billing")).With("Plans", billing.Plans())
	if id, ok := IdentityFromContext(r.Context()); ok {
		if plan, found := planForTier(string(id.Tier)); found {
			b.With("Plan", plan)
		}
	}
	h.Render(w, r, http.StatusOK, b.Build())
}

func planForTier(tier string) (billing.Plan, bool) {
	if tier == "" {
		return billing.Plan{}, false
	}
	for _, p := range billing.Plans() {
		if string(p.Tier) == tier {
			return p, true
		}
	}
	return billing.Plan{}, false
}

// AdminRoot sends /admin to the admin dashboard.
func (h *UIHandlers) AdminRoot(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, "/admin/dashboard", http.StatusSeeOther)
}

// logAndRenderTemplateError logs template errors and renders them in dev mode.
func (h *UIHandlers) logAndRenderTemplateError(w http.ResponseWriter, r *http.Request, err error) {
	h.logger().Error("template rendering failed",
		"error", err,
		"path", r.URL.Path,
		"method", r.Method,
	)

	if h.IsDev {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(http.StatusInternalServerError)
		body := `<div class="dev-error"><h2>Template Rendering Error</h2>` +
			`<p><strong>Path:</strong> ` + html.EscapeString(r.URL.Path) + `</p>` +
			`<pre>` + html.EscapeString(err.Error()) + `</pre></div>`
		if _, writeErr := w.Write([]byte(body)); writeErr != nil {
			h.logger().Error("failed to write template error response", "error", writeErr)
		}
		return
	}

	http.Error(w, "internal server error", http.StatusInternalServerError)
}
