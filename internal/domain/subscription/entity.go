// internal/domain/subscription/entity.go
package subscription

import (
	"time"
)

type Status string

const (
	StatusActive    Status = "active"
	StatusCancelled Status = "cancelled"
	StatusExpired   Status = "expired"
	StatusTrialing  Status = "trialing"
)

// UsageKind selects which per-period counter an increment targets.
type UsageKind string

const (
	UsageStudent    UsageKind = "student"
	UsageReport     UsageKind = "report"
	UsageGeneration UsageKind = "generation"
)

// Valid reports whether k is a known usage kind.
func (k UsageKind) Valid() bool {
	switch k {
	case UsageStudent, UsageReport, UsageGeneration:
		return true
	}
	return false
}

// BillingCycle is the checkout charge interval.
type BillingCycle string

const (
	CycleMonthly BillingCycle = "monthly"
	CycleAnnual  BillingCycle = "annual"
)

// Valid reports whether c is a known billing cycle.
func (c BillingCycle) Valid() bool {
	return c == CycleMonthly || c == CycleAnnual
}

// Subscription is the single entitlement record of an account. One record per
// account, created lazily on first access, never hard-deleted: cancellation is
// a transition back to the free plan.
type Subscription struct {
	ID        int64  `json:"id" db:"id"`
	AccountID int64  `json:"account_id" db:"account_id"`
	PlanID    string `json:"plan_id" db:"plan_id"`
	Status    Status `json:"status" db:"status"`

	// Usage counters, scoped to the current billing period. The reconciler's
	// period rollover is the only place these move backward.
	StudentsUsed              int `json:"students_used" db:"students_used"`
	ReportsUsedThisPeriod     int `json:"reports_used_this_period" db:"reports_used_this_period"`
	GenerationsUsedThisPeriod int `json:"generations_used_this_period" db:"generations_used_this_period"`

	// Period timestamps
	TrialEndsAt        *time.Time `json:"trial_ends_at,omitempty" db:"trial_ends_at"`
	CurrentPeriodStart *time.Time `json:"current_period_start,omitempty" db:"current_period_start"`
	CurrentPeriodEnd   *time.Time `json:"current_period_end,omitempty" db:"current_period_end"`
	CancelledAt        *time.Time `json:"cancelled_at,omitempty" db:"cancelled_at"`

	// External billing identifiers, present only once a paid checkout completed.
	ProviderCustomerID     string `json:"provider_customer_id,omitempty" db:"provider_customer_id"`
	ProviderSubscriptionID string `json:"provider_subscription_id,omitempty" db:"provider_subscription_id"`
	ProviderPriceID        string `json:"provider_price_id,omitempty" db:"provider_price_id"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// Patch describes a partial update: the store sets exactly the fields that are
// non-nil and leaves everything else untouched. Double pointers distinguish
// "leave alone" (outer nil) from "clear the column" (inner nil).
type Patch struct {
	PlanID             *string
	Status             *Status
	StudentsUsed       *int
	ReportsUsed        *int
	GenerationsUsed    *int
	CurrentPeriodStart *time.Time
	CurrentPeriodEnd   *time.Time
	CancelledAt        **time.Time
	ProviderCustomerID *string
	ProviderPriceID    *string
}

// SetCancelledAt records a cancelled_at value; passing nil clears the column.
func (p *Patch) SetCancelledAt(t *time.Time) *Patch {
	p.CancelledAt = &t
	return p
}

// IsZero reports whether the patch carries no field at all.
func (p *Patch) IsZero() bool {
	return p == nil || (p.PlanID == nil && p.Status == nil &&
		p.StudentsUsed == nil && p.ReportsUsed == nil && p.GenerationsUsed == nil &&
		p.CurrentPeriodStart == nil && p.CurrentPeriodEnd == nil &&
		p.CancelledAt == nil && p.ProviderCustomerID == nil && p.ProviderPriceID == nil)
}
