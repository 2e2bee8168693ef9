// internal/domain/billing/events.go
package billing

import (
	"time"
)

// Provider events, delivered at-least-once and possibly out of order. Each
// carries the provider event id for logging and the key the reconciler uses
// to address the subscription record.

type CheckoutCompleted struct {
	EventID        string
	AccountID      int64
	PlanID         string
	CustomerID     string
	SubscriptionID string
}

type InvoicePaid struct {
	EventID        string
	SubscriptionID string
	// PeriodEnd is the provider-supplied period end; zero when the invoice
	// carried none, in which case the reconciler falls back to now + 1 period.
	PeriodEnd time.Time
}

type InvoicePaymentFailed struct {
	EventID        string
	SubscriptionID string
}

type SubscriptionDeleted struct {
	EventID        string
	SubscriptionID string
}

type SubscriptionUpdated struct {
	EventID        string
	SubscriptionID string
	PlanID         string
	PriceID        string
	ProviderStatus string
	CancelAt       time.Time // zero unless the provider set a hard cancel
	Anchor         time.Time
	Interval       string
	IntervalCount  int
}
