package httpx

import (
	"errors"
	"io/fs"
	"log/slog"
	"net/http"
	"os"

	lexdesk "github.com/target/lexdesk"
	"github.com/target/lexdesk/internal/service"
)

// RouterServices holds all the services needed by the HTTP router.
type RouterServices struct {
	Auth   *service.AuthService  // Required
	Themes *service.ThemeService // Required
	// Cookies carries the domain and Secure policy for client, CSRF and flash cookies.
	Cookies CookieConfig
	// TemplateFS and StaticFS override the embedded assets (tests, dev mode).
	TemplateFS fs.FS
	StaticFS   fs.FS
	// StoreBackend names the client store in /healthz responses.
	StoreBackend string
	IsDev        bool         // Development mode: serve templates and static files from disk
	Logger       *slog.Logger // Logger for template and HTTP errors (optional)
}

// NewRouter creates the HTTP handler: machine endpoints and static assets at the
// top level, every page and form action behind the client, session, CSRF and
// role gate middleware.
func NewRouter(services RouterServices) (http.Handler, error) {
	if services.Auth == nil || services.Themes == nil {
		return nil, errors.New("router: auth and theme services are required")
	}
	logger := services.Logger
	if logger == nil {
		logger = slog.Default()
	}

	templateFS, staticFS, err := resolveAssetFS(services)
	if err != nil {
		return nil, err
	}
	tr, err := NewTemplateRenderer(TemplateRendererConfig{TemplateFS: templateFS, Logger: logger})
	if err != nil {
		return nil, err
	}

	ui := &UIHandlers{T: tr, Cookies: services.Cookies, IsDev: services.IsDev, Logger: logger}
	authHandlers := &AuthHandlers{Auth: services.Auth, UI: ui, Logger: logger}
	themeHandlers := &ThemeHandlers{Themes: services.Themes, Logger: logger}

	pages := http.NewServeMux()
	registerPublicRoutes(pages, ui)
	registerAuthRoutes(pages, authHandlers)
	pages.HandleFunc("POST /theme/toggle", themeHandlers.Toggle)
	registerDashboardRoutes(pages, ui)
	registerAdminRoutes(pages, ui)
	pages.HandleFunc("/", ui.NotFound)

	app := chain(pages,
		ClientIdentity(services.Cookies),
		Session(SessionOptions{Auth: services.Auth, Themes: services.Themes}),
		CSRFProtection(CSRFConfig{Cookie: services.Cookies}),
		Gate(http.HandlerFunc(ui.Loading)),
	)

	root := http.NewServeMux()
	health := healthHandler(services.StoreBackend)
	root.Handle("GET /healthz", health)
	root.Handle("HEAD /healthz", health)
	root.Handle("GET /static/", staticHandler(staticFS))
	root.Handle("/", app)

	return chain(root, Recover(logger), Logging(logger)), nil
}

// chain applies middleware so the first one listed is the outermost.
func chain(h http.Handler, mws ...func(http.Handler) http.Handler) http.Handler {
	for i := len(mws) - 1; i >= 0; i-- {
		h = mws[i](h)
	}
	return h
}

func registerPublicRoutes(mux *http.ServeMux, ui *UIHandlers) {
	mux.HandleFunc("GET /{$}", ui.Home)
	mux.HandleFunc("GET /pricing", ui.Pricing)
	mux.HandleFunc("GET /checkout", ui.Checkout)
	mux.HandleFunc("GET /unauthorized", ui.Unauthorized)
}

func registerAuthRoutes(mux *http.ServeMux, h *AuthHandlers) {
	mux.HandleFunc("GET /login", h.LoginPage)
	mux.HandleFunc("POST /login", h.Login)
	mux.HandleFunc("GET /signup", h.SignupPage)
	mux.HandleFunc("POST /signup", h.Signup)
	mux.HandleFunc("GET /forgot-password", h.ForgotPasswordPage)
	mux.HandleFunc("POST /forgot-password", h.ForgotPassword)
	mux.HandleFunc("POST /logout", h.Logout)
	mux.HandleFunc("GET /auth/status", h.Status)
}

// Gated subtrees: the role gate runs before the mux, so unknown paths below
// /dashboard and /admin are checked first and only then fall through to NotFound.
func registerDashboardRoutes(mux *http.ServeMux, ui *UIHandlers) {
	mux.HandleFunc("GET /dashboard", ui.Dashboard)
	mux.HandleFunc("GET /dashboard/clients", ui.staticPage(pageMeta(PageClients, "Clients")))
	mux.HandleFunc("GET /dashboard/intake-forms", ui.staticPage(pageMeta(PageIntakeForms, "Intake Forms")))
	mux.HandleFunc("GET /dashboard/contracts", ui.staticPage(pageMeta(PageContracts, "Contracts")))
	mux.HandleFunc("GET /dashboard/documents", ui.staticPage(pageMeta(PageDocuments, "Documents")))
	mux.HandleFunc("GET /dashboard/billing", ui.Billing)
	mux.HandleFunc("GET /dashboard/settings", ui.staticPage(pageMeta(PageSettings, "Settings")))
}

func registerAdminRoutes(mux *http.ServeMux, ui *UIHandlers) {
	mux.HandleFunc("GET /admin", ui.AdminRoot)
	mux.HandleFunc("GET /admin/{$}", ui.AdminRoot)
	mux.HandleFunc("GET /admin/dashboard", ui.staticPage(pageMeta(PageAdminDashboard, "Admin Dashboard")))
	mux.HandleFunc("GET /admin/users", ui.staticPage(pageMeta(PageAdminUsers, "All Users")))
	mux.HandleFunc("GET /admin/subscriptions", ui.staticPage(pageMeta(PageAdminSubscriptions, "Subscriptions")))
	mux.HandleFunc("GET /admin/platform", ui.staticPage(pageMeta(PageAdminPlatform, "Platform Settings")))
	mux.HandleFunc("GET /admin/logs", ui.staticPage(pageMeta(PageAdminLogs, "System Logs")))
}

// resolveAssetFS picks the template and static filesystems.
// Explicit filesystems win; dev mode reads from disk; otherwise the embedded copies are used.
func resolveAssetFS(services RouterServices) (fs.FS, fs.FS, error) {
	templateFS, staticFS := services.TemplateFS, services.StaticFS
	if services.IsDev {
		if templateFS == nil {
			templateFS = os.DirFS(TemplatePathFromRoot)
		}
		if staticFS == nil {
			staticFS = os.DirFS(StaticPathFromRoot)
		}
		return templateFS, staticFS, nil
	}

	if templateFS == nil {
		sub, err := fs.Sub(lexdesk.TemplateFS, TemplatePathFromRoot)
		if err != nil {
			return nil, nil, err
		}
		templateFS = sub
	}
	if staticFS == nil {
		sub, err := fs.Sub(lexdesk.StaticFS, StaticPathFromRoot)
		if err != nil {
			return nil, nil, err
		}
		staticFS = sub
	}
	return templateFS, staticFS, nil
}

// staticHandler serves /static/* assets with cache headers.
func staticHandler(staticFS fs.FS) http.Handler {
	files := http.StripPrefix("/static/", http.FileServer(http.FS(staticFS)))
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Cache-Control", "public, max-age=3600")
		files.ServeHTTP(w, r)
	})
}
