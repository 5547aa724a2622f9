package httpx

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	domainauth "github.com/target/lexdesk/internal/domain/auth"
)

func TestNewTemplateData(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/pricing", nil)
	meta := PageMeta{
		Title:       "Pricing | LegalCRM",
		PageTitle:   "Pricing",
		CurrentPage: PagePricing,
	}

	data := NewTemplateData(r, meta).Build()

	if data["Title"] != "Pricing | LegalCRM" {
		t.Errorf("Title = %v, want %v", data["Title"], "Pricing | LegalCRM")
	}
	if data["PageTitle"] != "Pricing" {
		t.Errorf("PageTitle = %v, want %v", data["PageTitle"], "Pricing")
	}
	if data["CurrentPage"] != PagePricing {
		t.Errorf("CurrentPage = %v, want %v", data["CurrentPage"], PagePricing)
	}
	if data["IsAuthenticated"] != false {
		t.Errorf("IsAuthenticated = %v, want %v", data["IsAuthenticated"], false)
	}
	if data["Theme"] != "light" {
		t.Errorf("Theme = %v, want light", data["Theme"])
	}
	if data["HomePath"] != "/dashboard" {
		t.Errorf("HomePath = %v, want /dashboard", data["HomePath"])
	}
	if _, ok := data["User"]; ok {
		t.Error("User should not be set for anonymous visitors")
	}
	if sidebar, _ := data["Sidebar"].([]NavItem); len(sidebar) != 0 {
		t.Errorf("public pages have no sidebar, got %d items", len(sidebar))
	}
	if _, ok := data["CSRFToken"]; !ok {
		t.Error("CSRFToken should always be present")
	}
}

func TestNewTemplateData_SignedInAdmin(t *testing.T) {
	authSvc, _, _, exchange, _ := newTestServices(t)
	exchange.LoginFunc = adminLogin
	m := authSvc.Session(context.Background(), "client-admin")
	if _, err := m.Login(context.Background(), "ada@example.com", "secret"); err != nil {
		t.Fatalf("login: %v", err)
	}

	r := httptest.NewRequest(http.MethodGet, "/admin/users", nil)
	ctx := SetManagerInContext(r.Context(), m)
	ctx = SetThemeInContext(ctx, domainauth.ThemeDark)
	r = r.WithContext(ctx)

	data := NewTemplateData(r, pageMeta(PageAdminUsers, "All Users")).Build()

	if data["IsAuthenticated"] != true || data["IsAdmin"] != true {
		t.Errorf("IsAuthenticated/IsAdmin = %v/%v, want true/true", data["IsAuthenticated"], data["IsAdmin"])
	}
	if data["HomePath"] != "/admin/dashboard" {
		t.Errorf("HomePath = %v, want /admin/dashboard", data["HomePath"])
	}
	if data["Theme"] != "dark" {
		t.Errorf("Theme = %v, want dark", data["Theme"])
	}
	user, ok := data["User"].(*domainauth.Identity)
	if !ok || user.Email != "ada@example.com" {
		t.Errorf("User = %v, want ada@example.com", data["User"])
	}
	sidebar, _ := data["Sidebar"].([]NavItem)
	if len(sidebar) != len(adminSidebar) {
		t.Fatalf("Sidebar len = %d, want %d", len(sidebar), len(adminSidebar))
	}
	for _, item := range sidebar {
		if item.Active != (item.Page == PageAdminUsers) {
			t.Errorf("item %s Active = %v", item.Page, item.Active)
		}
	}
}

func TestTemplateDataBuilder_WithError(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/login", nil)

	data := NewTemplateData(r, pageMeta(PageLogin, "Login")).
		WithError("Something went wrong").
		Build()

	if data["Error"] != true {
		t.Errorf("Error = %v, want %v", data["Error"], true)
	}
	if data["ErrorMessage"] != "Something went wrong" {
		t.Errorf("ErrorMessage = %v, want %v", data["ErrorMessage"], "Something went wrong")
	}
}

func TestTemplateDataBuilder_WithFieldErrors(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/signup", nil)
	meta := pageMeta(PageSignup, "Sign Up")

	t.Run("with errors", func(t *testing.T) {
		errs := map[string]string{
			"name":  "Name is required",
			"email": "Enter a valid email address.",
		}
		data := NewTemplateData(r, meta).WithFieldErrors(errs).Build()

		got, ok := data["Errors"].(map[string]string)
		if !ok {
			t.Fatal("Errors is not a map[string]string")
		}
		if got["name"] != "Name is required" {
			t.Errorf("Errors[name] = %v, want %v", got["name"], "Name is required")
		}
		if got["email"] != "Enter a valid email address." {
			t.Errorf("Errors[email] = %v", got["email"])
		}
	})

	t.Run("with empty errors", func(t *testing.T) {
		data := NewTemplateData(r, meta).WithFieldErrors(map[string]string{}).Build()
		if _, ok := data["Errors"]; ok {
			t.Error("Errors should not be set when errors map is empty")
		}
	})

	t.Run("with nil errors", func(t *testing.T) {
		data := NewTemplateData(r, meta).WithFieldErrors(nil).Build()
		if _, ok := data["Errors"]; ok {
			t.Error("Errors should not be set when errors map is nil")
		}
	})
}

func TestTemplateDataBuilder_WithToast(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/dashboard", nil)

	data := NewTemplateData(r, pageMeta(PageDashboard, "Dashboard")).WithToast("").Build()
	if _, ok := data["Toast"]; ok {
		t.Error("empty toast should not be set")
	}

	data = NewTemplateData(r, pageMeta(PageDashboard, "Dashboard")).WithToast("Login successful!").Build()
	if data["Toast"] != "Login successful!" {
		t.Errorf("Toast = %v", data["Toast"])
	}
}

func TestTemplateDataBuilder_Chaining(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/checkout?planId=pro", nil)

	data := NewTemplateData(r, pageMeta(PageCheckout, "Subscription Checkout")).
		With("SubscriptionID", "SUB-ABC").
		With("Canceled", false).
		WithError("Test error").
		Build()

	if data["SubscriptionID"] != "SUB-ABC" {
		t.Error("SubscriptionID not set correctly in chaining")
	}
	if data["Canceled"] != false {
		t.Error("Canceled not set correctly in chaining")
	}
	if data["Error"] != true || data["ErrorMessage"] != "Test error" {
		t.Error("Error not set correctly in chaining")
	}
}
