package httpx

import (
	"net/http"

	"github.com/target/lexdesk/internal/domain/access"
	domainauth "github.com/target/lexdesk/internal/domain/auth"
)

// PageMeta contains metadata for page rendering.
type PageMeta struct {
	Title       string
	PageTitle   string
	CurrentPage string
}

// NavItem is one entry of the dashboard sidebar.
type NavItem struct {
	Title  string
	Href   string
	Page   string
	Active bool
}

// Layout is the data shared by every page: header, navigation, theme and the visitor.
type Layout struct {
	Title           string
	PageTitle       string
	CurrentPage     string
	Theme           domainauth.Theme
	CSRFToken       string
	IsAuthenticated bool
	IsAdmin         bool
	User            *domainauth.Identity
	HomePath        string
	Sidebar         []NavItem
	Path            string
}

//nolint:gochecknoglobals // static navigation tables
var (
	userSidebar = []NavItem{
		{Title: "Dashboard", Href: "/dashboard", Page: PageDashboard},
		{Title: "Clients", Href: "/dashboard/clients", Page: PageClients},
		{Title: "Intake Forms", Href: "/dashboard/intake-forms", Page: PageIntakeForms},
		{Title: "Contracts", Href: "/dashboard/contracts", Page: PageContracts},
		{Title: "Documents", Href: "/dashboard/documents", Page: PageDocuments},
		{Title: "Billing", Href: "/dashboard/billing", Page: PageBilling},
		{Title: "Settings", Href: "/dashboard/settings", Page: PageSettings},
	}
	adminSidebar = []NavItem{
		{Title: "Dashboard", Href: "/admin/dashboard", Page: PageAdminDashboard},
		{Title: "Users", Href: "/admin/users", Page: PageAdminUsers},
		{Title: "Subscriptions", Href: "/admin/subscriptions", Page: PageAdminSubscriptions},
		{Title: "Platform", Href: "/admin/platform", Page: PageAdminPlatform},
		{Title: "Logs", Href: "/admin/logs", Page: PageAdminLogs},
	}
)

// sidebarFor returns the sidebar for the subtree path belongs to, with the current page marked.
func sidebarFor(path, current string) []NavItem {
	role, gated := access.RequiredRole(path)
	if !gated {
		return nil
	}
	src := userSidebar
	if role == domainauth.RoleAdmin {
		src = adminSidebar
	}
	items := make([]NavItem, len(src))
	for i, item := range src {
		item.Active = item.Page == current
		items[i] = item
	}
	return items
}

// homePathFor returns the landing page of the dashboard matching the identity's role.
func homePathFor(id *domainauth.Identity) string {
	if id != nil && id.Role == domainauth.RoleAdmin {
		return "/admin/dashboard"
	}
	return "/dashboard"
}

// buildLayout constructs shared layout metadata from the request context.
func buildLayout(r *http.Request, meta PageMeta) Layout {
	layout := Layout{
		Title:       meta.Title,
		PageTitle:   meta.PageTitle,
		CurrentPage: meta.CurrentPage,
		Theme:       GetThemeFromContext(r.Context()),
		CSRFToken:   GetCSRFToken(r),
		Sidebar:     sidebarFor(r.URL.Path, meta.CurrentPage),
		Path:        r.URL.Path,
	}

	if id, ok := IdentityFromContext(r.Context()); ok {
		layout.User = &id
		layout.IsAuthenticated = true
		layout.IsAdmin = id.Role == domainauth.RoleAdmin
	}
	layout.HomePath = homePathFor(layout.User)

	return layout
}

// basePageData constructs the common page data map with visitor context.
func basePageData(r *http.Request, meta PageMeta) map[string]any {
	layout := buildLayout(r, meta)
	data := map[string]any{
		"Title":           layout.Title,
		"PageTitle":       layout.PageTitle,
		"CurrentPage":     layout.CurrentPage,
		"Theme":           string(layout.Theme),
		"IsAuthenticated": layout.IsAuthenticated,
		"IsAdmin":         layout.IsAdmin,
		"HomePath":        layout.HomePath,
		"Sidebar":         layout.Sidebar,
		"Path":            layout.Path,
		"CSRFToken":       layout.CSRFToken,
	}

	if layout.User != nil {
		data["User"] = layout.User
	}

	return data
}
