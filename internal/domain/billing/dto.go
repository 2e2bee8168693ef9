// internal/domain/billing/dto.go
package billing

type CheckoutRequest struct {
	PlanID       string `json:"plan_id" binding:"required"`
	BillingCycle string `json:"billing_cycle"`
	Origin       string `json:"origin" binding:"required"`
}

type PortalRequest struct {
	Origin string `json:"origin" binding:"required"`
}

type RedirectResponse struct {
	URL string `json:"url"`
}

// CheckoutParams is everything the provider needs to open a hosted checkout.
// Plan id and billing cycle ride along as metadata so the webhook can
// correlate the completed session back to a catalog plan.
type CheckoutParams struct {
	AccountID       int64
	Email           string
	Name            string
	PlanID          string
	PlanName        string
	PlanDescription string
	BillingCycle    string
	AmountCents     int64
	Currency        string
	Interval        string // "month" or "year"
	SuccessURL      string
	CancelURL       string
}
