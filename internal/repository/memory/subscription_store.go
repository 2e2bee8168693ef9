// internal/repository/memory/subscription_store.go
package memory

import (
	"context"
	"sync"
	"time"

	"incluso-service/internal/domain/subscription"
	xerrors "incluso-service/internal/pkg/errors"
)

// SubscriptionStore is a thread-safe in-memory subscription.Store used in
// tests and local development.
type SubscriptionStore struct {
	mu     sync.RWMutex
	byID   map[int64]*subscription.Subscription
	nextID int64

	// FailNext makes the next mutating call return the given error, for
	// exercising transient-persistence paths in tests.
	FailNext error
}

func NewSubscriptionStore() *SubscriptionStore {
	return &SubscriptionStore{byID: make(map[int64]*subscription.Subscription)}
}

func (s *SubscriptionStore) takeFailure() error {
	err := s.FailNext
	s.FailNext = nil
	return err
}

func copyOf(sub *subscription.Subscription) *subscription.Subscription {
	cp := *sub
	return &cp
}

func (s *SubscriptionStore) findByAccount(accountID int64) *subscription.Subscription {
	for _, sub := range s.byID {
		if sub.AccountID == accountID {
			return sub
		}
	}
	return nil
}

func (s *SubscriptionStore) GetOrCreate(_ context.Context, accountID int64) (*subscription.Subscription, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.takeFailure(); err != nil {
		return nil, err
	}

	if sub := s.findByAccount(accountID); sub != nil {
		return copyOf(sub), nil
	}

	s.nextID++
	now := time.Now()
	sub := &subscription.Subscription{
		ID:        s.nextID,
		AccountID: accountID,
		PlanID:    "free",
		Status:    subscription.StatusActive,
		CreatedAt: now,
		UpdatedAt: now,
	}
	s.byID[sub.ID] = sub
	return copyOf(sub), nil
}

func (s *SubscriptionStore) FindByAccount(_ context.Context, accountID int64) (*subscription.Subscription, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if sub := s.findByAccount(accountID); sub != nil {
		return copyOf(sub), nil
	}
	return nil, xerrors.ErrNotFound
}

func (s *SubscriptionStore) FindByProviderSubscription(_ context.Context, providerSubID string) (*subscription.Subscription, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if providerSubID != "" {
		for _, sub := range s.byID {
			if sub.ProviderSubscriptionID == providerSubID {
				return copyOf(sub), nil
			}
		}
	}
	return nil, xerrors.ErrNotFound
}

func (s *SubscriptionStore) ApplyPatch(_ context.Context, accountID int64, patch *subscription.Patch) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.takeFailure(); err != nil {
		return err
	}

	sub := s.findByAccount(accountID)
	if sub == nil {
		return xerrors.ErrNotFound
	}

	if patch.PlanID != nil {
		sub.PlanID = *patch.PlanID
	}
	if patch.Status != nil {
		sub.Status = *patch.Status
	}
	if patch.StudentsUsed != nil {
		sub.StudentsUsed = *patch.StudentsUsed
	}
	if patch.ReportsUsed != nil {
		sub.ReportsUsedThisPeriod = *patch.ReportsUsed
	}
	if patch.GenerationsUsed != nil {
		sub.GenerationsUsedThisPeriod = *patch.GenerationsUsed
	}
	if patch.CurrentPeriodStart != nil {
		t := *patch.CurrentPeriodStart
		sub.CurrentPeriodStart = &t
	}
	if patch.CurrentPeriodEnd != nil {
		t := *patch.CurrentPeriodEnd
		sub.CurrentPeriodEnd = &t
	}
	if patch.CancelledAt != nil {
		sub.CancelledAt = *patch.CancelledAt
	}
	if patch.ProviderCustomerID != nil {
		sub.ProviderCustomerID = *patch.ProviderCustomerID
	}
	if patch.ProviderPriceID != nil {
		sub.ProviderPriceID = *patch.ProviderPriceID
	}
	sub.UpdatedAt = time.Now()

	return nil
}

func (s *SubscriptionStore) IncrementUsage(_ context.Context, accountID int64, kind subscription.UsageKind) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.takeFailure(); err != nil {
		return err
	}

	sub := s.findByAccount(accountID)
	if sub == nil {
		return xerrors.ErrNotFound
	}

	switch kind {
	case subscription.UsageStudent:
		sub.StudentsUsed++
	case subscription.UsageReport:
		sub.ReportsUsedThisPeriod++
	case subscription.UsageGeneration:
		sub.GenerationsUsedThisPeriod++
	default:
		return xerrors.ErrInvalidInput
	}
	sub.UpdatedAt = time.Now()

	return nil
}

func (s *SubscriptionStore) UpsertCheckout(_ context.Context, in *subscription.Subscription) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.takeFailure(); err != nil {
		return err
	}

	now := time.Now()
	sub := s.findByAccount(in.AccountID)
	if sub == nil {
		s.nextID++
		sub = &subscription.Subscription{ID: s.nextID, AccountID: in.AccountID, CreatedAt: now}
		s.byID[sub.ID] = sub
	}

	sub.PlanID = in.PlanID
	sub.Status = in.Status
	sub.StudentsUsed = 0
	sub.ReportsUsedThisPeriod = 0
	sub.GenerationsUsedThisPeriod = 0
	sub.CurrentPeriodStart = in.CurrentPeriodStart
	sub.CurrentPeriodEnd = in.CurrentPeriodEnd
	sub.CancelledAt = nil
	sub.ProviderCustomerID = in.ProviderCustomerID
	sub.ProviderSubscriptionID = in.ProviderSubscriptionID
	sub.ProviderPriceID = in.ProviderPriceID
	sub.UpdatedAt = now

	in.ID = sub.ID
	in.CreatedAt = sub.CreatedAt
	in.UpdatedAt = sub.UpdatedAt

	return nil
}
