// internal/service/billing/period_test.go
package billing

import (
	"testing"
	"time"

	domain "incluso-service/internal/domain/billing"

	"github.com/stretchr/testify/assert"
)

func TestPeriodEndPrefersCancelAt(t *testing.T) {
	now := time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)
	cancelAt := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)

	ps := &domain.ProviderSubscription{
		CancelAt:           cancelAt,
		BillingCycleAnchor: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		Interval:           "month",
		IntervalCount:      1,
	}

	assert.Equal(t, cancelAt, PeriodEnd(ps, now))
}

func TestNextPeriodEndIsAlwaysInTheFuture(t *testing.T) {
	now := time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		anchor   time.Time
		interval string
		count    int
		want     time.Time
	}{
		{
			name:     "monthly anchor in the past rolls forward",
			anchor:   time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC),
			interval: "month",
			count:    1,
			want:     time.Date(2024, 4, 5, 0, 0, 0, 0, time.UTC),
		},
		{
			name:     "annual anchor",
			anchor:   time.Date(2023, 6, 1, 0, 0, 0, 0, time.UTC),
			interval: "year",
			count:    1,
			want:     time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC),
		},
		{
			name:     "quarterly interval count",
			anchor:   time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
			interval: "month",
			count:    3,
			want:     time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC),
		},
		{
			name:     "zero anchor falls back to one interval from now",
			anchor:   time.Time{},
			interval: "month",
			count:    1,
			want:     now.AddDate(0, 1, 0),
		},
		{
			name:     "non-positive count treated as one",
			anchor:   time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
			interval: "month",
			count:    0,
			want:     time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NextPeriodEnd(tt.anchor, tt.interval, tt.count, now)
			assert.Equal(t, tt.want, got)
			assert.True(t, got.After(now))
		})
	}
}
