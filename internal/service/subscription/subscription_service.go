// internal/service/subscription/subscription_service.go
package subscription

import (
	"context"
	"errors"
	"fmt"
	"time"

	"incluso-service/internal/domain/subscription"
	"incluso-service/internal/entitlement"
	"incluso-service/internal/pkg/entcache"
	xerrors "incluso-service/internal/pkg/errors"
	"incluso-service/internal/plan"

	"go.uber.org/zap"
)

// SubscriptionService is the management surface of the subscription record:
// read status, change plans directly, cancel, and meter usage. Provider-driven
// transitions live in the billing reconciler.
type SubscriptionService struct {
	store  subscription.Store
	cache  *entcache.Cache
	logger *zap.Logger
}

func NewSubscriptionService(store subscription.Store, cache *entcache.Cache, logger *zap.Logger) *SubscriptionService {
	return &SubscriptionService{
		store:  store,
		cache:  cache,
		logger: logger,
	}
}

// Status returns the entitlement view for an account, creating the free
// record on first access. A storage outage is surfaced as unavailable rather
// than silently granting or denying access.
func (s *SubscriptionService) Status(ctx context.Context, accountID int64) (*entitlement.View, error) {
	if view := s.cache.Get(ctx, accountID); view != nil {
		return view, nil
	}

	sub, err := s.store.GetOrCreate(ctx, accountID)
	if err != nil {
		s.logger.Error("failed to load subscription", zap.Int64("account_id", accountID), zap.Error(err))
		return nil, xerrors.Wrap(xerrors.ErrServiceUnavailable, "subscription status")
	}

	view := entitlement.Evaluate(sub, plan.ByID(sub.PlanID))
	s.cache.Set(ctx, &view)
	return &view, nil
}

// ListPlans returns the public plan catalog.
func (s *SubscriptionService) ListPlans() []plan.Plan {
	return plan.AllPlans
}

// Upgrade moves the account directly onto a paid plan, computing the period
// locally. The hosted checkout flow is the usual path; this one serves
// manually provisioned accounts.
func (s *SubscriptionService) Upgrade(ctx context.Context, accountID int64, req *subscription.UpgradeRequest) (*subscription.UpgradeResponse, error) {
	if !plan.IsPaid(req.PlanID) {
		return nil, xerrors.Wrap(xerrors.ErrInvalidInput, "unknown or free plan")
	}
	billing := req.Billing
	if billing == "" {
		billing = subscription.CycleMonthly
	}
	if !billing.Valid() {
		return nil, xerrors.Wrap(xerrors.ErrInvalidInput, "billing cycle")
	}

	if _, err := s.store.GetOrCreate(ctx, accountID); err != nil {
		return nil, fmt.Errorf("failed to load subscription: %w", err)
	}

	p := plan.ByID(req.PlanID)
	now := time.Now()
	periodEnd := now.AddDate(0, 1, 0)
	price := p.PriceMonthly
	if billing == subscription.CycleAnnual {
		periodEnd = now.AddDate(1, 0, 0)
		price = p.PriceAnnual
	}

	active := subscription.StatusActive
	patch := (&subscription.Patch{
		PlanID:             &req.PlanID,
		Status:             &active,
		CurrentPeriodStart: &now,
		CurrentPeriodEnd:   &periodEnd,
	}).SetCancelledAt(nil)

	if err := s.store.ApplyPatch(ctx, accountID, patch); err != nil {
		return nil, fmt.Errorf("failed to upgrade subscription: %w", err)
	}
	s.cache.Invalidate(ctx, accountID)

	s.logger.Info("subscription upgraded",
		zap.Int64("account_id", accountID),
		zap.String("plan_id", req.PlanID),
		zap.String("billing_cycle", string(billing)),
	)

	return &subscription.UpgradeResponse{
		PlanID:    p.ID,
		PlanName:  p.Name,
		Billing:   billing,
		Price:     price,
		PeriodEnd: periodEnd.Format(time.RFC3339),
	}, nil
}

// Cancel returns the account to the free plan immediately and stamps when the
// cancellation happened. The record itself stays active so the free tier
// keeps working.
func (s *SubscriptionService) Cancel(ctx context.Context, accountID int64) error {
	if _, err := s.store.GetOrCreate(ctx, accountID); err != nil {
		return fmt.Errorf("failed to load subscription: %w", err)
	}

	now := time.Now()
	free := plan.PlanFree.ID
	active := subscription.StatusActive
	patch := (&subscription.Patch{
		PlanID: &free,
		Status: &active,
	}).SetCancelledAt(&now)

	if err := s.store.ApplyPatch(ctx, accountID, patch); err != nil {
		return fmt.Errorf("failed to cancel subscription: %w", err)
	}
	s.cache.Invalidate(ctx, accountID)

	s.logger.Info("subscription cancelled", zap.Int64("account_id", accountID))
	return nil
}

// IncrementUsage meters one unit of the given kind, enforcing the plan limit
// first.
func (s *SubscriptionService) IncrementUsage(ctx context.Context, accountID int64, kind subscription.UsageKind) error {
	if !kind.Valid() {
		return xerrors.Wrap(xerrors.ErrInvalidInput, "usage kind")
	}

	sub, err := s.store.GetOrCreate(ctx, accountID)
	if err != nil {
		return fmt.Errorf("failed to load subscription: %w", err)
	}

	if !entitlement.CanIncrement(sub, plan.ByID(sub.PlanID), kind) {
		return xerrors.Wrap(xerrors.ErrLimitExceeded, string(kind))
	}

	if err := s.store.IncrementUsage(ctx, accountID, kind); err != nil {
		if errors.Is(err, xerrors.ErrNotFound) {
			return err
		}
		return fmt.Errorf("failed to increment usage: %w", err)
	}
	s.cache.Invalidate(ctx, accountID)

	return nil
}
