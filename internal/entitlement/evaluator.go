// internal/entitlement/evaluator.go
package entitlement

import (
	"time"

	"incluso-service/internal/domain/subscription"
	"incluso-service/internal/plan"
)

// View is the derived, read-only summary of what an account may currently do.
// It is a pure function of the subscription record and the plan catalog.
type View struct {
	AccountID int64               `json:"account_id"`
	PlanID    string              `json:"plan_id"`
	Plan      plan.Plan           `json:"plan"`
	Status    subscription.Status `json:"status"`
	IsPremium bool                `json:"is_premium"`

	StudentsUsed              int `json:"students_used"`
	ReportsUsedThisPeriod     int `json:"reports_used_this_period"`
	GenerationsUsedThisPeriod int `json:"generations_used_this_period"`

	CanAddStudent bool `json:"can_add_student"`
	CanUseAI      bool `json:"can_use_ai"`
	CanUseAAC     bool `json:"can_use_aac"`

	// Remaining quotas; plan.Unlimited (-1) means no limit.
	StudentsRemaining    int `json:"students_remaining"`
	ReportsRemaining     int `json:"reports_remaining"`
	GenerationsRemaining int `json:"generations_remaining"`

	TrialEndsAt      *time.Time `json:"trial_ends_at,omitempty"`
	CurrentPeriodEnd *time.Time `json:"current_period_end,omitempty"`
	CancelledAt      *time.Time `json:"cancelled_at,omitempty"`
}

// CanUseFeature reports whether the named plan feature flag is enabled.
func (v View) CanUseFeature(name string) bool {
	return v.Plan.Features.Has(name)
}

// Remaining computes the quota left under a limit. Unlimited stays unlimited;
// finite limits never go negative.
func Remaining(limit, used int) int {
	if limit == plan.Unlimited {
		return plan.Unlimited
	}
	if used >= limit {
		return 0
	}
	return limit - used
}

// withinLimit reports whether one more unit fits under the limit.
func withinLimit(limit, used int) bool {
	return limit == plan.Unlimited || used < limit
}

// Evaluate derives the entitlement view for a subscription record under p.
// No side effects, no I/O.
func Evaluate(sub *subscription.Subscription, p plan.Plan) View {
	return View{
		AccountID: sub.AccountID,
		PlanID:    sub.PlanID,
		Plan:      p,
		Status:    sub.Status,
		IsPremium: sub.PlanID != plan.PlanFree.ID && sub.Status == subscription.StatusActive,

		StudentsUsed:              sub.StudentsUsed,
		ReportsUsedThisPeriod:     sub.ReportsUsedThisPeriod,
		GenerationsUsedThisPeriod: sub.GenerationsUsedThisPeriod,

		CanAddStudent: withinLimit(p.MaxStudents, sub.StudentsUsed),
		CanUseAI:      p.Features.AIAssistant,
		CanUseAAC:     p.Features.AACModule,

		StudentsRemaining:    Remaining(p.MaxStudents, sub.StudentsUsed),
		ReportsRemaining:     Remaining(p.MaxReportsPerPeriod, sub.ReportsUsedThisPeriod),
		GenerationsRemaining: Remaining(p.MaxGenerationsPerPeriod, sub.GenerationsUsedThisPeriod),

		TrialEndsAt:      sub.TrialEndsAt,
		CurrentPeriodEnd: sub.CurrentPeriodEnd,
		CancelledAt:      sub.CancelledAt,
	}
}

// CanIncrement reports whether the counter matching kind has room for one
// more unit under p. Callers gate on this before asking the store to
// increment.
func CanIncrement(sub *subscription.Subscription, p plan.Plan, kind subscription.UsageKind) bool {
	switch kind {
	case subscription.UsageStudent:
		return withinLimit(p.MaxStudents, sub.StudentsUsed)
	case subscription.UsageReport:
		return withinLimit(p.MaxReportsPerPeriod, sub.ReportsUsedThisPeriod)
	case subscription.UsageGeneration:
		return withinLimit(p.MaxGenerationsPerPeriod, sub.GenerationsUsedThisPeriod)
	}
	return false
}
