// internal/handlers/webhook/webhook_handler_test.go
package webhook

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"incluso-service/internal/domain/billing"
	"incluso-service/internal/pkg/stripeclient"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	stripewebhook "github.com/stripe/stripe-go/v82/webhook"
	"go.uber.org/zap"
)

const testSecret = "whsec_test_secret"

type fakeReconciler struct {
	events []interface{}
	err    error
}

func (r *fakeReconciler) HandleEvent(_ context.Context, event interface{}) error {
	if r.err != nil {
		return r.err
	}
	r.events = append(r.events, event)
	return nil
}

func newTestRouter(rec Reconciler) *gin.Engine {
	gin.SetMode(gin.TestMode)
	handler := NewWebhookHandler(stripeclient.New("sk_test_fake", testSecret), rec, zap.NewNop())

	router := gin.New()
	router.POST("/api/v1/payments/webhook", handler.HandleStripe)
	return router
}

func signedRequest(t *testing.T, payload string) *http.Request {
	t.Helper()

	signed := stripewebhook.GenerateTestSignedPayload(&stripewebhook.UnsignedPayload{
		Payload:   []byte(payload),
		Secret:    testSecret,
		Timestamp: time.Now(),
		Scheme:    "v1",
	})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/payments/webhook", bytes.NewReader(signed.Payload))
	req.Header.Set("Stripe-Signature", signed.Header)
	req.Header.Set("Content-Type", "application/json")
	return req
}

func TestWebhookRejectsMissingSignature(t *testing.T) {
	rec := &fakeReconciler{}
	router := newTestRouter(rec)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/payments/webhook",
		bytes.NewReader([]byte(`{"type":"invoice.paid"}`)))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Empty(t, rec.events)
}

func TestWebhookRejectsBadSignature(t *testing.T) {
	rec := &fakeReconciler{}
	router := newTestRouter(rec)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/payments/webhook",
		bytes.NewReader([]byte(`{"type":"invoice.paid"}`)))
	req.Header.Set("Stripe-Signature", "t=123,v1=deadbeef")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Empty(t, rec.events)
}

func TestWebhookDispatchesCheckoutCompleted(t *testing.T) {
	rec := &fakeReconciler{}
	router := newTestRouter(rec)

	payload := `{
		"id": "evt_1",
		"type": "checkout.session.completed",
		"data": {"object": {
			"id": "cs_123",
			"client_reference_id": "42",
			"metadata": {"plan_id": "basic", "account_id": "42"},
			"customer": {"id": "cus_123"},
			"subscription": {"id": "sub_123"}
		}}
	}`

	w := httptest.NewRecorder()
	router.ServeHTTP(w, signedRequest(t, payload))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"received":true`)

	require.Len(t, rec.events, 1)
	ev, ok := rec.events[0].(billing.CheckoutCompleted)
	require.True(t, ok)
	assert.Equal(t, "evt_1", ev.EventID)
	assert.Equal(t, int64(42), ev.AccountID)
	assert.Equal(t, "basic", ev.PlanID)
	assert.Equal(t, "cus_123", ev.CustomerID)
	assert.Equal(t, "sub_123", ev.SubscriptionID)
}

func TestWebhookDispatchesInvoicePaidWithPeriod(t *testing.T) {
	rec := &fakeReconciler{}
	router := newTestRouter(rec)

	periodEnd := time.Now().AddDate(0, 1, 0).Unix()
	payload := `{
		"id": "evt_2",
		"type": "invoice.paid",
		"data": {"object": {
			"id": "in_123",
			"parent": {"subscription_details": {"subscription": {"id": "sub_123"}}},
			"lines": {"data": [{"period": {"end": ` + timeString(periodEnd) + `}}]}
		}}
	}`

	w := httptest.NewRecorder()
	router.ServeHTTP(w, signedRequest(t, payload))

	assert.Equal(t, http.StatusOK, w.Code)
	require.Len(t, rec.events, 1)
	ev, ok := rec.events[0].(billing.InvoicePaid)
	require.True(t, ok)
	assert.Equal(t, "sub_123", ev.SubscriptionID)
	assert.Equal(t, periodEnd, ev.PeriodEnd.Unix())
}

func TestWebhookDispatchesSubscriptionDeleted(t *testing.T) {
	rec := &fakeReconciler{}
	router := newTestRouter(rec)

	payload := `{
		"id": "evt_3",
		"type": "customer.subscription.deleted",
		"data": {"object": {"id": "sub_123", "status": "canceled"}}
	}`

	w := httptest.NewRecorder()
	router.ServeHTTP(w, signedRequest(t, payload))

	assert.Equal(t, http.StatusOK, w.Code)
	require.Len(t, rec.events, 1)
	ev, ok := rec.events[0].(billing.SubscriptionDeleted)
	require.True(t, ok)
	assert.Equal(t, "sub_123", ev.SubscriptionID)
}

func TestWebhookDispatchesSubscriptionUpdated(t *testing.T) {
	rec := &fakeReconciler{}
	router := newTestRouter(rec)

	payload := `{
		"id": "evt_4",
		"type": "customer.subscription.updated",
		"data": {"object": {
			"id": "sub_123",
			"status": "active",
			"metadata": {"plan_id": "professional"},
			"items": {"data": [{"price": {"id": "price_new", "recurring": {"interval": "month", "interval_count": 1}}}]}
		}}
	}`

	w := httptest.NewRecorder()
	router.ServeHTTP(w, signedRequest(t, payload))

	assert.Equal(t, http.StatusOK, w.Code)
	require.Len(t, rec.events, 1)
	ev, ok := rec.events[0].(billing.SubscriptionUpdated)
	require.True(t, ok)
	assert.Equal(t, "professional", ev.PlanID)
	assert.Equal(t, "price_new", ev.PriceID)
	assert.Equal(t, "month", ev.Interval)
	assert.Equal(t, 1, ev.IntervalCount)
}

func TestWebhookAcknowledgesUnhandledEventTypes(t *testing.T) {
	rec := &fakeReconciler{}
	router := newTestRouter(rec)

	payload := `{"id": "evt_5", "type": "customer.created", "data": {"object": {"id": "cus_123"}}}`

	w := httptest.NewRecorder()
	router.ServeHTTP(w, signedRequest(t, payload))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, rec.events)
}

func TestWebhookReturns500OnProcessingFailure(t *testing.T) {
	rec := &fakeReconciler{err: errors.New("db down")}
	router := newTestRouter(rec)

	payload := `{
		"id": "evt_6",
		"type": "customer.subscription.deleted",
		"data": {"object": {"id": "sub_123"}}
	}`

	w := httptest.NewRecorder()
	router.ServeHTTP(w, signedRequest(t, payload))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func timeString(unix int64) string {
	return strconv.FormatInt(unix, 10)
}
