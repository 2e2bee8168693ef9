// internal/repository/postgres/subscription_repo.go
package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"incluso-service/internal/domain/subscription"
	xerrors "incluso-service/internal/pkg/errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const subscriptionColumns = `
	id, account_id, plan_id, status,
	students_used, reports_used_this_period, generations_used_this_period,
	trial_ends_at, current_period_start, current_period_end, cancelled_at,
	provider_customer_id, provider_subscription_id, provider_price_id,
	created_at, updated_at
`

type SubscriptionRepository struct {
	db *pgxpool.Pool
}

func NewSubscriptionRepository(db *pgxpool.Pool) *SubscriptionRepository {
	return &SubscriptionRepository{db: db}
}

func scanSubscription(row pgx.Row) (*subscription.Subscription, error) {
	var sub subscription.Subscription
	err := row.Scan(
		&sub.ID, &sub.AccountID, &sub.PlanID, &sub.Status,
		&sub.StudentsUsed, &sub.ReportsUsedThisPeriod, &sub.GenerationsUsedThisPeriod,
		&sub.TrialEndsAt, &sub.CurrentPeriodStart, &sub.CurrentPeriodEnd, &sub.CancelledAt,
		&sub.ProviderCustomerID, &sub.ProviderSubscriptionID, &sub.ProviderPriceID,
		&sub.CreatedAt, &sub.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, xerrors.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan subscription: %w", err)
	}
	return &sub, nil
}

// GetOrCreate returns the account's record, inserting free-plan defaults on
// first access. The unique index on account_id keeps the record singular
// under concurrent first access.
func (r *SubscriptionRepository) GetOrCreate(ctx context.Context, accountID int64) (*subscription.Subscription, error) {
	insert := `
		INSERT INTO subscriptions (account_id, plan_id, status)
		VALUES ($1, 'free', 'active')
		ON CONFLICT (account_id) DO NOTHING
	`
	if _, err := r.db.Exec(ctx, insert, accountID); err != nil {
		return nil, fmt.Errorf("failed to create subscription: %w", err)
	}

	return r.FindByAccount(ctx, accountID)
}

// FindByAccount retrieves the record for an account.
func (r *SubscriptionRepository) FindByAccount(ctx context.Context, accountID int64) (*subscription.Subscription, error) {
	query := `SELECT ` + subscriptionColumns + ` FROM subscriptions WHERE account_id = $1`
	return scanSubscription(r.db.QueryRow(ctx, query, accountID))
}

// FindByProviderSubscription retrieves the record by provider subscription id,
// the key billing events address records with.
func (r *SubscriptionRepository) FindByProviderSubscription(ctx context.Context, providerSubID string) (*subscription.Subscription, error) {
	query := `SELECT ` + subscriptionColumns + ` FROM subscriptions WHERE provider_subscription_id = $1`
	return scanSubscription(r.db.QueryRow(ctx, query, providerSubID))
}

// ApplyPatch updates exactly the fields present in the patch.
func (r *SubscriptionRepository) ApplyPatch(ctx context.Context, accountID int64, patch *subscription.Patch) error {
	if patch.IsZero() {
		return nil
	}

	set := make([]string, 0, 12)
	args := make([]interface{}, 0, 12)
	arg := func(v interface{}) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if patch.PlanID != nil {
		set = append(set, "plan_id = "+arg(*patch.PlanID))
	}
	if patch.Status != nil {
		set = append(set, "status = "+arg(*patch.Status))
	}
	if patch.StudentsUsed != nil {
		set = append(set, "students_used = "+arg(*patch.StudentsUsed))
	}
	if patch.ReportsUsed != nil {
		set = append(set, "reports_used_this_period = "+arg(*patch.ReportsUsed))
	}
	if patch.GenerationsUsed != nil {
		set = append(set, "generations_used_this_period = "+arg(*patch.GenerationsUsed))
	}
	if patch.CurrentPeriodStart != nil {
		set = append(set, "current_period_start = "+arg(*patch.CurrentPeriodStart))
	}
	if patch.CurrentPeriodEnd != nil {
		set = append(set, "current_period_end = "+arg(*patch.CurrentPeriodEnd))
	}
	if patch.CancelledAt != nil {
		set = append(set, "cancelled_at = "+arg(*patch.CancelledAt))
	}
	if patch.ProviderCustomerID != nil {
		set = append(set, "provider_customer_id = "+arg(*patch.ProviderCustomerID))
	}
	if patch.ProviderPriceID != nil {
		set = append(set, "provider_price_id = "+arg(*patch.ProviderPriceID))
	}
	set = append(set, "updated_at = "+arg(time.Now()))

	query := fmt.Sprintf(
		"UPDATE subscriptions SET %s WHERE account_id = %s",
		strings.Join(set, ", "), arg(accountID),
	)

	result, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to patch subscription: %w", err)
	}
	if result.RowsAffected() == 0 {
		return xerrors.ErrNotFound
	}

	return nil
}

// IncrementUsage adds 1 to the counter matching kind as a single conditional
// statement, so concurrent increments are never lost.
func (r *SubscriptionRepository) IncrementUsage(ctx context.Context, accountID int64, kind subscription.UsageKind) error {
	var column string
	switch kind {
	case subscription.UsageStudent:
		column = "students_used"
	case subscription.UsageReport:
		column = "reports_used_this_period"
	case subscription.UsageGeneration:
		column = "generations_used_this_period"
	default:
		return fmt.Errorf("%w: unknown usage kind %q", xerrors.ErrInvalidInput, kind)
	}

	query := fmt.Sprintf(
		"UPDATE subscriptions SET %s = %s + 1, updated_at = NOW() WHERE account_id = $1",
		column, column,
	)

	result, err := r.db.Exec(ctx, query, accountID)
	if err != nil {
		return fmt.Errorf("failed to increment usage: %w", err)
	}
	if result.RowsAffected() == 0 {
		return xerrors.ErrNotFound
	}

	return nil
}

// UpsertCheckout inserts or overwrites the record from a completed checkout,
// keyed by account id. Every field is an overwrite, which keeps replayed
// checkout events idempotent.
func (r *SubscriptionRepository) UpsertCheckout(ctx context.Context, sub *subscription.Subscription) error {
	query := `
		INSERT INTO subscriptions (
			account_id, plan_id, status,
			students_used, reports_used_this_period, generations_used_this_period,
			current_period_start, current_period_end, cancelled_at,
			provider_customer_id, provider_subscription_id, provider_price_id
		) VALUES ($1, $2, $3, 0, 0, 0, $4, $5, NULL, $6, $7, $8)
		ON CONFLICT (account_id) DO UPDATE SET
			plan_id = EXCLUDED.plan_id,
			status = EXCLUDED.status,
			students_used = 0,
			reports_used_this_period = 0,
			generations_used_this_period = 0,
			current_period_start = EXCLUDED.current_period_start,
			current_period_end = EXCLUDED.current_period_end,
			cancelled_at = NULL,
			provider_customer_id = EXCLUDED.provider_customer_id,
			provider_subscription_id = EXCLUDED.provider_subscription_id,
			provider_price_id = EXCLUDED.provider_price_id,
			updated_at = NOW()
		RETURNING id, created_at, updated_at
	`

	err := r.db.QueryRow(
		ctx, query,
		sub.AccountID, sub.PlanID, sub.Status,
		sub.CurrentPeriodStart, sub.CurrentPeriodEnd,
		sub.ProviderCustomerID, sub.ProviderSubscriptionID, sub.ProviderPriceID,
	).Scan(&sub.ID, &sub.CreatedAt, &sub.UpdatedAt)

	if err != nil {
		return fmt.Errorf("failed to upsert subscription: %w", err)
	}

	return nil
}
