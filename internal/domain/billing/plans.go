// Package billing holds the static subscription plan catalog shown on the pricing and checkout pages.
package billing

import (
	"fmt"

	domainauth "github.com/target/lexdesk/internal/domain/auth"
)

// Plan is a purchasable subscription.
type Plan struct {
	ID           string
	Name         string
	Tier         domainauth.Tier
	MonthlyPrice int // whole USD
	Description  string
	Features     []string
	Popular      bool
	ContactSales bool
}

// PriceLabel formats the monthly price for display, e.g. "$99/month".
func (p Plan) PriceLabel() string {
	return fmt.Sprintf("$%d/month", p.MonthlyPrice)
}

// DefaultPlanID is used by checkout when no plan is requested.
const DefaultPlanID = "basic"

var plans = []Plan{
	{
		ID:           "basic",
		Name:         "Basic",
		Tier:         domainauth.TierBasic,
		MonthlyPrice: 49,
		Description:  "For solo practitioners getting organized",
		Features: []string{
			"Up to 50 clients",
			"Client intake forms",
			"Document storage (5GB)",
			"Email support",
		},
	},
	{
		ID:           "pro",
		Name:         "Professional",
		Tier:         domainauth.TierProfessional,
		MonthlyPrice: 99,
		Description:  "For growing firms",
		Features: []string{
			"Unlimited clients",
			"Custom intake forms",
			"Contract templates",
			"Document storage (50GB)",
			"Priority support",
		},
		Popular: true,
	},
	{
		ID:           "enterprise",
		Name:         "Enterprise",
		Tier:         domainauth.TierEnterprise,
		MonthlyPrice: 199,
		Description:  "For multi-office practices",
		Features: []string{
			"Everything in Professional",
			"Unlimited storage",
			"Team roles and audit logs",
			"Dedicated account manager",
		},
		ContactSales: true,
	},
}

// Plans returns the catalog in display order.
func Plans() []Plan {
	out := make([]Plan, len(plans))
	copy(out, plans)
	return out
}

// LookupPlan finds a plan by id. An empty id resolves to the default plan.
func LookupPlan(id string) (Plan, bool) {
	if id == "" {
		id = DefaultPlanID
	}
	for _, p := range plans {
		if p.ID == id {
			return p, true
		}
	}
	return Plan{}, false
}
