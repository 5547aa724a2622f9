// Package authroles maps identity-provider group claims onto lexdesk roles.
package authroles

import (
	domainauth "github.com/target/lexdesk/internal/domain/auth"
)

// StaticRoleMapper maps groups by simple string membership rules.
// Admin membership wins over user membership. When UserGroup is empty every
// authenticated principal that is not an admin is a user.
type StaticRoleMapper struct {
	AdminGroup string
	UserGroup  string
}

// Map returns the role for groups and whether the principal is permitted at all.
func (m StaticRoleMapper) Map(groups []string) (domainauth.Role, bool) {
	for _, g := range groups {
		if m.AdminGroup != "" && g == m.AdminGroup {
			return domainauth.RoleAdmin, true
		}
	}
	if m.UserGroup == "" {
		return domainauth.RoleUser, true
	}
	for _, g := range groups {
		if g == m.UserGroup {
			return domainauth.RoleUser, true
		}
	}
	return "", false
}
