// internal/domain/subscription/repository.go
package subscription

import (
	"context"
)

// Store is the persistence contract for subscription records. The record
// store guarantees at most last-write-wins per account; IncrementUsage must be
// implemented as a conditional single-statement update so concurrent
// increments are not lost.
type Store interface {
	// GetOrCreate returns the account's record, creating it with free-plan
	// defaults on first access.
	GetOrCreate(ctx context.Context, accountID int64) (*Subscription, error)
	FindByAccount(ctx context.Context, accountID int64) (*Subscription, error)
	FindByProviderSubscription(ctx context.Context, providerSubID string) (*Subscription, error)

	// ApplyPatch sets exactly the fields present in the patch.
	ApplyPatch(ctx context.Context, accountID int64, patch *Patch) error

	// IncrementUsage adds 1 to the counter matching kind. Limit enforcement is
	// the evaluator's job, not the store's.
	IncrementUsage(ctx context.Context, accountID int64, kind UsageKind) error

	// UpsertCheckout inserts or overwrites the record from a completed
	// checkout, keyed by account id. Field overwrite keeps it idempotent.
	UpsertCheckout(ctx context.Context, sub *Subscription) error
}
