// internal/domain/subscription/dto.go
package subscription

type UpgradeRequest struct {
	PlanID  string       `json:"plan_id" binding:"required"`
	Billing BillingCycle `json:"billing_cycle"`
}

type IncrementUsageRequest struct {
	Kind UsageKind `json:"kind" binding:"required"`
}

type UpgradeResponse struct {
	PlanID    string       `json:"plan_id"`
	PlanName  string       `json:"plan_name"`
	Billing   BillingCycle `json:"billing_cycle"`
	Price     float64      `json:"price"`
	PeriodEnd string       `json:"period_end"`
}
