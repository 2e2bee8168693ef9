// internal/service/billing/period.go
package billing

import (
	"time"

	"incluso-service/internal/domain/billing"
)

// PeriodEnd computes the end of the current billing period from the
// provider's view of the subscription. A hard cancellation timestamp from the
// provider is authoritative; otherwise the anchor is advanced by whole
// intervals until it lands strictly after now.
func PeriodEnd(ps *billing.ProviderSubscription, now time.Time) time.Time {
	if !ps.CancelAt.IsZero() {
		return ps.CancelAt
	}
	return NextPeriodEnd(ps.BillingCycleAnchor, ps.Interval, ps.IntervalCount, now)
}

// NextPeriodEnd advances anchor by whole intervals (month or year, times
// count) until the result is strictly after now. A zero anchor yields
// now + 1 interval.
func NextPeriodEnd(anchor time.Time, interval string, count int, now time.Time) time.Time {
	if count < 1 {
		count = 1
	}

	end := anchor
	if end.IsZero() {
		end = now
	}
	for !end.After(now) {
		end = advance(end, interval, count)
	}
	return end
}

func advance(t time.Time, interval string, count int) time.Time {
	if interval == "year" {
		return t.AddDate(count, 0, 0)
	}
	return t.AddDate(0, count, 0)
}
