// internal/service/payment/payment_service.go
package payment

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"incluso-service/internal/domain/billing"
	"incluso-service/internal/domain/subscription"
	xerrors "incluso-service/internal/pkg/errors"
	"incluso-service/internal/plan"

	"go.uber.org/zap"
)

// providerTimeout bounds every outbound call to the payment provider so a
// hung provider API cannot pin request handlers.
const providerTimeout = 15 * time.Second

// Gateway is the payment provider surface the service depends on.
type Gateway interface {
	CreateCheckoutSession(ctx context.Context, p billing.CheckoutParams) (string, error)
	CreatePortalSession(ctx context.Context, customerID, returnURL string) (string, error)
	RetrieveCheckoutSession(ctx context.Context, sessionID string) (*billing.CheckoutSession, error)
	ListInvoices(ctx context.Context, customerID string, limit int) ([]billing.Invoice, error)
}

// Account carries the identity fields checkout hands to the provider.
type Account struct {
	ID    int64
	Email string
	Name  string
}

// PaymentService opens hosted provider surfaces (checkout and billing portal)
// and reads payment state back. It never mutates the subscription record;
// that is the reconciler's job once events arrive.
type PaymentService struct {
	store   subscription.Store
	gateway Gateway
	logger  *zap.Logger
}

func NewPaymentService(store subscription.Store, gateway Gateway, logger *zap.Logger) *PaymentService {
	return &PaymentService{
		store:   store,
		gateway: gateway,
		logger:  logger,
	}
}

// CreateCheckout opens a hosted checkout session for a paid plan and returns
// the redirect URL. All input validation happens before the provider is
// touched.
func (s *PaymentService) CreateCheckout(ctx context.Context, account Account, req *billing.CheckoutRequest) (*billing.RedirectResponse, error) {
	if !plan.IsPaid(req.PlanID) {
		return nil, xerrors.Wrap(xerrors.ErrInvalidInput, "unknown or free plan")
	}
	cycle := subscription.BillingCycle(req.BillingCycle)
	if cycle == "" {
		cycle = subscription.CycleMonthly
	}
	if !cycle.Valid() {
		return nil, xerrors.Wrap(xerrors.ErrInvalidInput, "billing cycle")
	}
	if req.Origin == "" {
		return nil, xerrors.Wrap(xerrors.ErrInvalidInput, "origin")
	}

	p := plan.ByID(req.PlanID)
	price := p.PriceMonthly
	interval := "month"
	if cycle == subscription.CycleAnnual {
		price = p.PriceAnnual
		interval = "year"
	}

	params := billing.CheckoutParams{
		AccountID:       account.ID,
		Email:           account.Email,
		Name:            account.Name,
		PlanID:          p.ID,
		PlanName:        p.Name,
		PlanDescription: p.Description,
		BillingCycle:    string(cycle),
		AmountCents:     int64(math.Round(price * 100)),
		Currency:        "brl",
		Interval:        interval,
		SuccessURL:      req.Origin + "/pagamento/sucesso?session_id={CHECKOUT_SESSION_ID}",
		CancelURL:       req.Origin + "/planos",
	}

	ctx, cancel := context.WithTimeout(ctx, providerTimeout)
	defer cancel()

	url, err := s.gateway.CreateCheckoutSession(ctx, params)
	if err != nil {
		s.logger.Error("checkout session creation failed",
			zap.Int64("account_id", account.ID),
			zap.String("plan_id", p.ID),
			zap.Error(err),
		)
		return nil, xerrors.Wrap(xerrors.ErrServiceUnavailable, "payment provider")
	}

	s.logger.Info("checkout session created",
		zap.Int64("account_id", account.ID),
		zap.String("plan_id", p.ID),
		zap.String("billing_cycle", string(cycle)),
	)
	return &billing.RedirectResponse{URL: url}, nil
}

// CreatePortal opens the provider's billing portal for an account that has
// completed a checkout before.
func (s *PaymentService) CreatePortal(ctx context.Context, accountID int64, req *billing.PortalRequest) (*billing.RedirectResponse, error) {
	if req.Origin == "" {
		return nil, xerrors.Wrap(xerrors.ErrInvalidInput, "origin")
	}

	sub, err := s.store.FindByAccount(ctx, accountID)
	if err != nil {
		if errors.Is(err, xerrors.ErrNotFound) {
			return nil, xerrors.Wrap(xerrors.ErrNotFound, "no billing profile")
		}
		return nil, fmt.Errorf("failed to load subscription: %w", err)
	}
	if sub.ProviderCustomerID == "" {
		return nil, xerrors.Wrap(xerrors.ErrNotFound, "no billing profile")
	}

	ctx, cancel := context.WithTimeout(ctx, providerTimeout)
	defer cancel()

	url, err := s.gateway.CreatePortalSession(ctx, sub.ProviderCustomerID, req.Origin+"/configuracoes/assinatura")
	if err != nil {
		s.logger.Error("portal session creation failed", zap.Int64("account_id", accountID), zap.Error(err))
		return nil, xerrors.Wrap(xerrors.ErrServiceUnavailable, "payment provider")
	}
	return &billing.RedirectResponse{URL: url}, nil
}

// VerifySession reads a checkout session back from the provider so the
// success page can confirm the purchase without trusting query parameters.
// Sessions opened by another account are reported as not found.
func (s *PaymentService) VerifySession(ctx context.Context, accountID int64, sessionID string) (*billing.CheckoutSession, error) {
	if sessionID == "" {
		return nil, xerrors.Wrap(xerrors.ErrInvalidInput, "session id")
	}

	ctx, cancel := context.WithTimeout(ctx, providerTimeout)
	defer cancel()

	session, err := s.gateway.RetrieveCheckoutSession(ctx, sessionID)
	if err != nil {
		s.logger.Error("checkout session lookup failed", zap.String("session_id", sessionID), zap.Error(err))
		return nil, xerrors.Wrap(xerrors.ErrServiceUnavailable, "payment provider")
	}
	if session.AccountID != accountID {
		s.logger.Warn("checkout session owned by another account",
			zap.String("session_id", sessionID),
			zap.Int64("account_id", accountID),
		)
		return nil, xerrors.Wrap(xerrors.ErrNotFound, "session")
	}
	return session, nil
}

// PaymentHistory lists recent invoices of the account. Accounts that never
// checked out have no provider customer and get an empty history.
func (s *PaymentService) PaymentHistory(ctx context.Context, accountID int64) ([]billing.Invoice, error) {
	sub, err := s.store.FindByAccount(ctx, accountID)
	if err != nil {
		if errors.Is(err, xerrors.ErrNotFound) {
			return []billing.Invoice{}, nil
		}
		return nil, fmt.Errorf("failed to load subscription: %w", err)
	}
	if sub.ProviderCustomerID == "" {
		return []billing.Invoice{}, nil
	}

	ctx, cancel := context.WithTimeout(ctx, providerTimeout)
	defer cancel()

	invoices, err := s.gateway.ListInvoices(ctx, sub.ProviderCustomerID, 20)
	if err != nil {
		s.logger.Error("invoice listing failed", zap.Int64("account_id", accountID), zap.Error(err))
		return nil, xerrors.Wrap(xerrors.ErrServiceUnavailable, "payment provider")
	}
	return invoices, nil
}
