package httpx

// CurrentPage constants define the page identifiers used in templates and navigation.
// These constants ensure consistency across handlers and template mapping.
const (
	// Public pages.
	PageHome           = "home"
	PageLogin          = "login"
	PageSignup         = "signup"
	PageForgotPassword = "forgot-password"
	PagePricing        = "pricing"
	PageCheckout       = "checkout"
	PageUnauthorized   = "unauthorized"
	PageNotFound       = "not-found"
	PageLoading        = "loading"

	// User dashboard pages.
	PageDashboard   = "dashboard"
	PageClients     = "clients"
	PageIntakeForms = "intake-forms"
	PageContracts   = "contracts"
	PageDocuments   = "documents"
	PageBilling     = "billing"
	PageSettings    = "settings"

	// Admin pages.
	PageAdminDashboard     = "admin-dashboard"
	PageAdminUsers         = "admin-users"
	PageAdminSubscriptions = "admin-subscriptions"
	PageAdminPlatform      = "admin-platform"
	PageAdminLogs          = "admin-logs"
)

// Asset paths relative to the project root, read from disk in dev mode.
const (
	TemplatePathFromRoot = "frontend/templates" // From project root
	StaticPathFromRoot   = "frontend/static"
)

// Cookie names.
const (
	ClientIDCookieName = "client_id"
	flashCookieName    = "flash"
)

// Content templates are defined once and reused to avoid per-call allocations.
//
//nolint:gochecknoglobals // static read-only lookup for templates
var contentTemplates = map[string]string{
	PageHome:           "home-content",
	PageLogin:          "login-content",
	PageSignup:         "signup-content",
	PageForgotPassword: "forgot-password-content",
	PagePricing:        "pricing-content",
	PageCheckout:       "checkout-content",
	PageUnauthorized:   "unauthorized-content",
	PageNotFound:       "not-found-content",
	PageLoading:        "loading-content",

	PageDashboard:   "dashboard-content",
	PageClients:     "clients-content",
	PageIntakeForms: "intake-forms-content",
	PageContracts:   "contracts-content",
	PageDocuments:   "documents-content",
	PageBilling:     "billing-content",
	PageSettings:    "settings-content",

	PageAdminDashboard:     "admin-dashboard-content",
	PageAdminUsers:         "admin-users-content",
	PageAdminSubscriptions: "admin-subscriptions-content",
	PageAdminPlatform:      "admin-platform-content",
	PageAdminLogs:          "admin-logs-content",
}

// ContentTemplateFor returns the content template name for a given page.
func ContentTemplateFor(page string) string {
	if t, ok := contentTemplates[page]; ok {
		return t
	}
	return contentTemplates[PageNotFound]
}
