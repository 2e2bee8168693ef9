// internal/domain/billing/entity.go
package billing

import (
	"time"
)

// ProviderSubscription is a read-back snapshot of a subscription as the
// payment provider sees it, used for period-end computation.
type ProviderSubscription struct {
	ID                 string
	Status             string
	PriceID            string
	CancelAt           time.Time // zero when the provider set no hard cancel
	BillingCycleAnchor time.Time
	Interval           string // "month" or "year"
	IntervalCount      int
	Metadata           map[string]string
}

// CheckoutSession is the read-back of a hosted checkout session, used by the
// post-checkout landing page.
type CheckoutSession struct {
	ID           string `json:"id"`
	Status       string `json:"status"`
	PlanID       string `json:"plan_id"`
	BillingCycle string `json:"billing_cycle"`
	AccountID    int64  `json:"-"`
}

// Invoice is one entry of an account's payment history.
type Invoice struct {
	ID          string    `json:"id"`
	Date        time.Time `json:"date"`
	Amount      float64   `json:"amount"`
	Currency    string    `json:"currency"`
	Status      string    `json:"status"`
	PDFURL      string    `json:"pdf_url,omitempty"`
	Description string    `json:"description"`
}
