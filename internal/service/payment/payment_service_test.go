// internal/service/payment/payment_service_test.go
package payment

import (
	"context"
	"errors"
	"testing"

	"incluso-service/internal/domain/billing"
	domain "incluso-service/internal/domain/subscription"
	xerrors "incluso-service/internal/pkg/errors"
	"incluso-service/internal/repository/memory"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeGateway struct {
	lastCheckout billing.CheckoutParams
	lastPortal   string
	lastInvoices string
	invoices     []billing.Invoice
	session      *billing.CheckoutSession
	err          error
}

func (g *fakeGateway) CreateCheckoutSession(_ context.Context, p billing.CheckoutParams) (string, error) {
	if g.err != nil {
		return "", g.err
	}
	g.lastCheckout = p
	return "https://checkout.example/cs_123", nil
}

func (g *fakeGateway) CreatePortalSession(_ context.Context, customerID, returnURL string) (string, error) {
	if g.err != nil {
		return "", g.err
	}
	g.lastPortal = customerID
	return "https://portal.example/" + customerID, nil
}

func (g *fakeGateway) RetrieveCheckoutSession(_ context.Context, sessionID string) (*billing.CheckoutSession, error) {
	if g.err != nil {
		return nil, g.err
	}
	return g.session, nil
}

func (g *fakeGateway) ListInvoices(_ context.Context, customerID string, _ int) ([]billing.Invoice, error) {
	if g.err != nil {
		return nil, g.err
	}
	g.lastInvoices = customerID
	return g.invoices, nil
}

func newTestService(store domain.Store, gw Gateway) *PaymentService {
	return NewPaymentService(store, gw, zap.NewNop())
}

func testAccount() Account {
	return Account{ID: 42, Email: "ana@example.com", Name: "Ana"}
}

func TestCreateCheckoutBuildsProviderParams(t *testing.T) {
	gw := &fakeGateway{}
	svc := newTestService(memory.NewSubscriptionStore(), gw)

	resp, err := svc.CreateCheckout(context.Background(), testAccount(), &billing.CheckoutRequest{
		PlanID:       "basic",
		BillingCycle: "annual",
		Origin:       "https://app.example.com",
	})
	require.NoError(t, err)
	assert.Equal(t, "https://checkout.example/cs_123", resp.URL)

	p := gw.lastCheckout
	assert.Equal(t, int64(42), p.AccountID)
	assert.Equal(t, "basic", p.PlanID)
	assert.Equal(t, "annual", p.BillingCycle)
	assert.Equal(t, int64(7190), p.AmountCents)
	assert.Equal(t, "brl", p.Currency)
	assert.Equal(t, "year", p.Interval)
	assert.Contains(t, p.SuccessURL, "https://app.example.com/pagamento/sucesso")
	assert.Contains(t, p.SuccessURL, "{CHECKOUT_SESSION_ID}")
	assert.Equal(t, "https://app.example.com/planos", p.CancelURL)
}

func TestCreateCheckoutDefaultsToMonthlyCents(t *testing.T) {
	gw := &fakeGateway{}
	svc := newTestService(memory.NewSubscriptionStore(), gw)

	_, err := svc.CreateCheckout(context.Background(), testAccount(), &billing.CheckoutRequest{
		PlanID: "starter",
		Origin: "https://app.example.com",
	})
	require.NoError(t, err)
	assert.Equal(t, int64(4990), gw.lastCheckout.AmountCents)
	assert.Equal(t, "month", gw.lastCheckout.Interval)
}

func TestCreateCheckoutValidatesBeforeProviderCall(t *testing.T) {
	gw := &fakeGateway{err: errors.New("must not be called")}
	svc := newTestService(memory.NewSubscriptionStore(), gw)

	tests := []struct {
		name string
		req  billing.CheckoutRequest
	}{
		{"free plan", billing.CheckoutRequest{PlanID: "free", Origin: "https://x"}},
		{"unknown plan", billing.CheckoutRequest{PlanID: "gold", Origin: "https://x"}},
		{"bad cycle", billing.CheckoutRequest{PlanID: "basic", BillingCycle: "weekly", Origin: "https://x"}},
		{"missing origin", billing.CheckoutRequest{PlanID: "basic"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.CreateCheckout(context.Background(), testAccount(), &tt.req)
			assert.ErrorIs(t, err, xerrors.ErrInvalidInput)
		})
	}
}

func TestCreateCheckoutWrapsProviderFailure(t *testing.T) {
	gw := &fakeGateway{err: errors.New("stripe down")}
	svc := newTestService(memory.NewSubscriptionStore(), gw)

	_, err := svc.CreateCheckout(context.Background(), testAccount(), &billing.CheckoutRequest{
		PlanID: "basic",
		Origin: "https://app.example.com",
	})
	assert.ErrorIs(t, err, xerrors.ErrServiceUnavailable)
}

func withCustomer(t *testing.T, store *memory.SubscriptionStore, accountID int64, customerID string) {
	t.Helper()
	require.NoError(t, store.UpsertCheckout(context.Background(), &domain.Subscription{
		AccountID:              accountID,
		PlanID:                 "basic",
		Status:                 domain.StatusActive,
		ProviderCustomerID:     customerID,
		ProviderSubscriptionID: "sub_123",
	}))
}

func TestCreatePortalRequiresBillingProfile(t *testing.T) {
	store := memory.NewSubscriptionStore()
	svc := newTestService(store, &fakeGateway{})

	_, err := svc.CreatePortal(context.Background(), 42, &billing.PortalRequest{Origin: "https://x"})
	assert.ErrorIs(t, err, xerrors.ErrNotFound)

	// a record without a provider customer is still no profile
	_, err = store.GetOrCreate(context.Background(), 42)
	require.NoError(t, err)
	_, err = svc.CreatePortal(context.Background(), 42, &billing.PortalRequest{Origin: "https://x"})
	assert.ErrorIs(t, err, xerrors.ErrNotFound)
}

func TestCreatePortalUsesStoredCustomer(t *testing.T) {
	store := memory.NewSubscriptionStore()
	gw := &fakeGateway{}
	svc := newTestService(store, gw)
	withCustomer(t, store, 42, "cus_abc")

	resp, err := svc.CreatePortal(context.Background(), 42, &billing.PortalRequest{Origin: "https://x"})
	require.NoError(t, err)
	assert.Equal(t, "https://portal.example/cus_abc", resp.URL)
	assert.Equal(t, "cus_abc", gw.lastPortal)
}

func TestVerifySessionRejectsEmptyID(t *testing.T) {
	svc := newTestService(memory.NewSubscriptionStore(), &fakeGateway{})

	_, err := svc.VerifySession(context.Background(), 42, "")
	assert.ErrorIs(t, err, xerrors.ErrInvalidInput)
}

func TestVerifySessionReturnsProviderView(t *testing.T) {
	gw := &fakeGateway{session: &billing.CheckoutSession{
		ID:           "cs_123",
		Status:       "complete",
		PlanID:       "basic",
		BillingCycle: "monthly",
		AccountID:    42,
	}}
	svc := newTestService(memory.NewSubscriptionStore(), gw)

	session, err := svc.VerifySession(context.Background(), 42, "cs_123")
	require.NoError(t, err)
	assert.Equal(t, "complete", session.Status)
	assert.Equal(t, "basic", session.PlanID)
}

func TestVerifySessionRejectsForeignSession(t *testing.T) {
	gw := &fakeGateway{session: &billing.CheckoutSession{
		ID:        "cs_123",
		Status:    "complete",
		PlanID:    "basic",
		AccountID: 42,
	}}
	svc := newTestService(memory.NewSubscriptionStore(), gw)

	_, err := svc.VerifySession(context.Background(), 99, "cs_123")
	assert.ErrorIs(t, err, xerrors.ErrNotFound)
}

func TestPaymentHistoryEmptyWithoutCustomer(t *testing.T) {
	store := memory.NewSubscriptionStore()
	svc := newTestService(store, &fakeGateway{err: errors.New("must not be called")})

	invoices, err := svc.PaymentHistory(context.Background(), 42)
	require.NoError(t, err)
	assert.Empty(t, invoices)
}

func TestPaymentHistoryListsProviderInvoices(t *testing.T) {
	store := memory.NewSubscriptionStore()
	gw := &fakeGateway{invoices: []billing.Invoice{
		{ID: "in_1", Amount: 89.90, Currency: "brl", Status: "paid"},
	}}
	svc := newTestService(store, gw)
	withCustomer(t, store, 42, "cus_abc")

	invoices, err := svc.PaymentHistory(context.Background(), 42)
	require.NoError(t, err)
	require.Len(t, invoices, 1)
	assert.Equal(t, "in_1", invoices[0].ID)
	assert.Equal(t, "cus_abc", gw.lastInvoices)
}

func TestPaymentHistoryWrapsProviderFailure(t *testing.T) {
	store := memory.NewSubscriptionStore()
	svc := newTestService(store, &fakeGateway{err: errors.New("stripe down")})
	withCustomer(t, store, 42, "cus_abc")

	_, err := svc.PaymentHistory(context.Background(), 42)
	assert.ErrorIs(t, err, xerrors.ErrServiceUnavailable)
}
