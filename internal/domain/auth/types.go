package auth

// Package auth contains domain-level types for identities, sessions and display preferences.
// It is pure and free of framework/adapter concerns.

import (
	"errors"
	"fmt"
	"strings"
)

// Role represents an application's authorization role.
// Keep string form for easy persistence and cookies.
// Valid values are defined as constants below.
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// Valid reports whether r is one of the defined roles.
func (r Role) Valid() bool {
	return r == RoleUser || r == RoleAdmin
}

// Tier is the subscription tier attached to an identity. The zero value means no subscription.
type Tier string

const (
	TierNone         Tier = ""
	TierBasic        Tier = "basic"
	TierProfessional Tier = "professional"
	TierEnterprise   Tier = "enterprise"
)

// Valid reports whether t is absent or one of the defined tiers.
func (t Tier) Valid() bool {
	switch t {
	case TierNone, TierBasic, TierProfessional, TierEnterprise:
		return true
	default:
		return false
	}
}

// Identity represents the signed-in principal.
// JSON names follow the persisted user record layout.
type Identity struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name,omitempty"`
	Role  Role   `json:"role"`
	Tier  Tier   `json:"subscriptionType,omitempty"`
}

// Validate checks the invariants a persisted or freshly built identity must hold.
func (i Identity) Validate() error {
	var errs []error
	if strings.TrimSpace(i.ID) == "" {
		errs = append(errs, errors.New("id is required"))
	}
	if strings.TrimSpace(i.Email) == "" {
		errs = append(errs, errors.New("email is required"))
	}
	if !i.Role.Valid() {
		errs = append(errs, fmt.Errorf("invalid role %q", i.Role))
	}
	if !i.Tier.Valid() {
		errs = append(errs, fmt.Errorf("invalid subscription tier %q", i.Tier))
	}
	return errors.Join(errs...)
}

// SessionRecord is the persisted pairing of an opaque token and the identity it belongs to.
// Token is a capability and is never parsed.
type SessionRecord struct {
	Token    string
	Identity Identity
}

// NameFromEmail derives a display name from the local part of an email address.
func NameFromEmail(email string) string {
	local, _, _ := strings.Cut(strings.TrimSpace(email), "@")
	return local
}

// Theme is the light/dark display preference.
type Theme string

const (
	ThemeLight Theme = "light"
	ThemeDark  Theme = "dark"
)

// ParseTheme parses a persisted or client-hinted theme value.
// Surrounding quotes are accepted because structured client hints quote their values.
func ParseTheme(s string) (Theme, bool) {
	v := strings.ToLower(strings.Trim(strings.TrimSpace(s), `"`))
	switch Theme(v) {
	case ThemeLight, ThemeDark:
		return Theme(v), true
	default:
		return "", false
	}
}

// Toggle returns the opposite theme.
func (t Theme) Toggle() Theme {
	if t == ThemeDark {
		return ThemeLight
	}
	return ThemeDark
}
