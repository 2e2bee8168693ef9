// internal/service/billing/reconciler.go
package billing

import (
	"context"
	"errors"
	"fmt"
	"time"

	"incluso-service/internal/domain/billing"
	"incluso-service/internal/domain/subscription"
	"incluso-service/internal/pkg/entcache"
	xerrors "incluso-service/internal/pkg/errors"
	"incluso-service/internal/plan"

	"go.uber.org/zap"
)

// ProviderGateway is the slice of the payment provider the reconciler needs:
// reading a subscription back after checkout to compute the billing period.
type ProviderGateway interface {
	RetrieveSubscription(ctx context.Context, subscriptionID string) (*billing.ProviderSubscription, error)
}

// Reconciler translates provider billing events into subscription record
// state. Events arrive at-least-once and possibly out of order; every
// transition is a field overwrite, never a delta, so reapplying an event is
// harmless. Handlers stay side-effect-free until the final persist, which
// makes a retry after a persistence failure safe.
type Reconciler struct {
	store   subscription.Store
	gateway ProviderGateway
	cache   *entcache.Cache
	logger  *zap.Logger
}

func NewReconciler(store subscription.Store, gateway ProviderGateway, cache *entcache.Cache, logger *zap.Logger) *Reconciler {
	return &Reconciler{
		store:   store,
		gateway: gateway,
		cache:   cache,
		logger:  logger,
	}
}

// HandleEvent dispatches a typed provider event to its transition. An error
// return means the persist failed and the event should be redelivered.
func (r *Reconciler) HandleEvent(ctx context.Context, event interface{}) error {
	switch ev := event.(type) {
	case billing.CheckoutCompleted:
		return r.applyCheckoutCompleted(ctx, ev)
	case billing.InvoicePaid:
		return r.applyInvoicePaid(ctx, ev)
	case billing.InvoicePaymentFailed:
		return r.applyInvoicePaymentFailed(ctx, ev)
	case billing.SubscriptionDeleted:
		return r.applySubscriptionDeleted(ctx, ev)
	case billing.SubscriptionUpdated:
		return r.applySubscriptionUpdated(ctx, ev)
	}

	r.logger.Debug("unhandled billing event", zap.Any("event", event))
	return nil
}

// applyCheckoutCompleted upserts the record keyed by account id: the checkout
// event is the one transition that can run before a provider subscription id
// is known locally.
func (r *Reconciler) applyCheckoutCompleted(ctx context.Context, ev billing.CheckoutCompleted) error {
	if ev.AccountID == 0 || ev.SubscriptionID == "" {
		r.logger.Warn("checkout event missing correlation metadata, dropped",
			zap.String("event_id", ev.EventID),
			zap.Int64("account_id", ev.AccountID),
		)
		return nil
	}
	if !plan.IsPaid(ev.PlanID) {
		r.logger.Error("checkout event references unknown plan, dropped",
			zap.String("event_id", ev.EventID),
			zap.String("plan_id", ev.PlanID),
		)
		return nil
	}

	ps, err := r.gateway.RetrieveSubscription(ctx, ev.SubscriptionID)
	if err != nil {
		return fmt.Errorf("failed to read provider subscription: %w", err)
	}

	now := time.Now()
	periodEnd := PeriodEnd(ps, now)

	sub := &subscription.Subscription{
		AccountID:              ev.AccountID,
		PlanID:                 ev.PlanID,
		Status:                 subscription.StatusActive,
		CurrentPeriodStart:     &now,
		CurrentPeriodEnd:       &periodEnd,
		ProviderCustomerID:     ev.CustomerID,
		ProviderSubscriptionID: ev.SubscriptionID,
		ProviderPriceID:        ps.PriceID,
	}
	if err := r.store.UpsertCheckout(ctx, sub); err != nil {
		return fmt.Errorf("failed to activate subscription: %w", err)
	}
	r.cache.Invalidate(ctx, ev.AccountID)

	r.logger.Info("subscription activated",
		zap.Int64("account_id", ev.AccountID),
		zap.String("plan_id", ev.PlanID),
		zap.Time("period_end", periodEnd),
	)
	return nil
}

// applyInvoicePaid handles period rollover: reactivate, extend the period and
// reset the per-period counters. Resetting to zero twice is a no-op, so a
// replay stays idempotent.
func (r *Reconciler) applyInvoicePaid(ctx context.Context, ev billing.InvoicePaid) error {
	sub, err := r.findBySubscriptionID(ctx, ev.SubscriptionID, ev.EventID, "invoice.paid")
	if err != nil || sub == nil {
		return err
	}

	now := time.Now()
	periodEnd := ev.PeriodEnd
	if periodEnd.IsZero() {
		periodEnd = NextPeriodEnd(now, "month", 1, now)
	}

	active := subscription.StatusActive
	zero := 0
	patch := (&subscription.Patch{
		Status:           &active,
		CurrentPeriodEnd: &periodEnd,
		ReportsUsed:      &zero,
		GenerationsUsed:  &zero,
	}).SetCancelledAt(nil)

	if err := r.store.ApplyPatch(ctx, sub.AccountID, patch); err != nil {
		return fmt.Errorf("failed to renew subscription: %w", err)
	}
	r.cache.Invalidate(ctx, sub.AccountID)

	r.logger.Info("subscription renewed",
		zap.Int64("account_id", sub.AccountID),
		zap.Time("period_end", periodEnd),
	)
	return nil
}

func (r *Reconciler) applyInvoicePaymentFailed(ctx context.Context, ev billing.InvoicePaymentFailed) error {
	sub, err := r.findBySubscriptionID(ctx, ev.SubscriptionID, ev.EventID, "invoice.payment_failed")
	if err != nil || sub == nil {
		return err
	}

	expired := subscription.StatusExpired
	if err := r.store.ApplyPatch(ctx, sub.AccountID, &subscription.Patch{Status: &expired}); err != nil {
		return fmt.Errorf("failed to expire subscription: %w", err)
	}
	r.cache.Invalidate(ctx, sub.AccountID)

	r.logger.Info("subscription expired after failed payment",
		zap.Int64("account_id", sub.AccountID),
		zap.String("provider_subscription_id", ev.SubscriptionID),
	)
	return nil
}

func (r *Reconciler) applySubscriptionDeleted(ctx context.Context, ev billing.SubscriptionDeleted) error {
	sub, err := r.findBySubscriptionID(ctx, ev.SubscriptionID, ev.EventID, "subscription.deleted")
	if err != nil || sub == nil {
		return err
	}

	now := time.Now()
	cancelled := subscription.StatusCancelled
	patch := (&subscription.Patch{Status: &cancelled}).SetCancelledAt(&now)

	if err := r.store.ApplyPatch(ctx, sub.AccountID, patch); err != nil {
		return fmt.Errorf("failed to cancel subscription: %w", err)
	}
	r.cache.Invalidate(ctx, sub.AccountID)

	r.logger.Info("subscription cancelled by provider",
		zap.Int64("account_id", sub.AccountID),
		zap.String("provider_subscription_id", ev.SubscriptionID),
	)
	return nil
}

func (r *Reconciler) applySubscriptionUpdated(ctx context.Context, ev billing.SubscriptionUpdated) error {
	if ev.PlanID == "" {
		r.logger.Debug("subscription update without plan metadata, dropped",
			zap.String("event_id", ev.EventID))
		return nil
	}
	if !plan.Exists(ev.PlanID) {
		r.logger.Error("subscription update references unknown plan, dropped",
			zap.String("event_id", ev.EventID),
			zap.String("plan_id", ev.PlanID),
		)
		return nil
	}

	sub, err := r.findBySubscriptionID(ctx, ev.SubscriptionID, ev.EventID, "subscription.updated")
	if err != nil || sub == nil {
		return err
	}

	now := time.Now()
	periodEnd := ev.CancelAt
	if periodEnd.IsZero() {
		periodEnd = NextPeriodEnd(ev.Anchor, ev.Interval, ev.IntervalCount, now)
	}

	status := subscription.StatusExpired
	if ev.ProviderStatus == "active" {
		status = subscription.StatusActive
	}

	patch := &subscription.Patch{
		PlanID:           &ev.PlanID,
		Status:           &status,
		CurrentPeriodEnd: &periodEnd,
	}
	if ev.PriceID != "" {
		patch.ProviderPriceID = &ev.PriceID
	}

	if err := r.store.ApplyPatch(ctx, sub.AccountID, patch); err != nil {
		return fmt.Errorf("failed to update subscription: %w", err)
	}
	r.cache.Invalidate(ctx, sub.AccountID)

	r.logger.Info("subscription plan updated",
		zap.Int64("account_id", sub.AccountID),
		zap.String("plan_id", ev.PlanID),
		zap.String("status", string(status)),
	)
	return nil
}

// findBySubscriptionID resolves the record targeted by an event. A missing
// record is an expected race with the initiating user action: the event is
// logged and dropped, not escalated.
func (r *Reconciler) findBySubscriptionID(ctx context.Context, subscriptionID, eventID, eventType string) (*subscription.Subscription, error) {
	if subscriptionID == "" {
		r.logger.Debug("billing event without subscription id, dropped",
			zap.String("event_id", eventID),
			zap.String("event_type", eventType),
		)
		return nil, nil
	}

	sub, err := r.store.FindByProviderSubscription(ctx, subscriptionID)
	if errors.Is(err, xerrors.ErrNotFound) {
		r.logger.Warn("billing event for unknown subscription, dropped",
			zap.String("event_id", eventID),
			zap.String("event_type", eventType),
			zap.String("provider_subscription_id", subscriptionID),
		)
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to look up subscription: %w", err)
	}
	return sub, nil
}
