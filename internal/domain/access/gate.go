// Package access decides whether a navigation may render a role-gated subtree.
package access

import (
	"strings"

	domainauth "github.com/target/lexdesk/internal/domain/auth"
)

// Decision is the outcome of evaluating a navigation against a required role.
type Decision int

const (
	// Render allows the protected subtree to render.
	Render Decision = iota
	// RedirectLogin sends an anonymous visitor to the login page.
	RedirectLogin
	// RedirectUnauthorized sends a signed-in visitor with the wrong role to the unauthorized page.
	RedirectUnauthorized
	// Pending means the session has not been resolved yet; render a neutral loading state.
	Pending
)

func (d Decision) String() string {
	switch d {
	case Render:
		return "render"
	case RedirectLogin:
		return "redirect_login"
	case RedirectUnauthorized:
		return "redirect_unauthorized"
	case Pending:
		return "pending"
	default:
		return "unknown"
	}
}

const (
	LoginPath        = "/login"
	UnauthorizedPath = "/unauthorized"
)

// Subject is what the gate knows about the visitor for one navigation.
type Subject struct {
	Identity *domainauth.Identity
	Loading  bool
}

// Decide evaluates a navigation. Role comparison is exact; there is no hierarchy.
func Decide(s Subject, required domainauth.Role) Decision {
	if required == "" {
		return Render
	}
	if s.Identity == nil {
		if s.Loading {
			return Pending
		}
		return RedirectLogin
	}
	if s.Identity.Role != required {
		return RedirectUnauthorized
	}
	return Render
}

// Rule binds a path subtree to the role required to view it.
type Rule struct {
	Prefix string
	Role   domainauth.Role
}

// Rules is the static table of protected subtrees. Paths not covered are public.
var Rules = []Rule{
	{Prefix: "/dashboard", Role: domainauth.RoleUser},
	{Prefix: "/admin", Role: domainauth.RoleAdmin},
}

// RequiredRole returns the role guarding path, or false when the path is public.
// A rule covers its prefix exactly and every path below it.
func RequiredRole(path string) (domainauth.Role, bool) {
	for _, rule := range Rules {
		if path == rule.Prefix || strings.HasPrefix(path, rule.Prefix+"/") {
			return rule.Role, true
		}
	}
	return "", false
}
