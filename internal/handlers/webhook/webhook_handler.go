// internal/handlers/webhook/webhook_handler.go
package webhook

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strconv"
	"time"

	"incluso-service/internal/domain/billing"
	"incluso-service/internal/pkg/stripeclient"

	"github.com/gin-gonic/gin"
	"github.com/stripe/stripe-go/v82"
	"go.uber.org/zap"
)

// Reconciler applies a typed billing event to the subscription records.
type Reconciler interface {
	HandleEvent(ctx context.Context, event interface{}) error
}

// WebhookHandler receives provider webhooks. The pipeline is two-stage:
// verify the signature on the raw body, then map the provider payload to a
// typed event and hand it to the reconciler. A non-2xx response makes the
// provider redeliver, so only processing failures return one; malformed or
// irrelevant events are acknowledged and dropped.
type WebhookHandler struct {
	stripe     *stripeclient.Client
	reconciler Reconciler
	logger     *zap.Logger
}

func NewWebhookHandler(stripe *stripeclient.Client, reconciler Reconciler, logger *zap.Logger) *WebhookHandler {
	return &WebhookHandler{
		stripe:     stripe,
		reconciler: reconciler,
		logger:     logger,
	}
}

// HandleStripe is the webhook endpoint. Unauthenticated; the signature is
// the authentication.
func (h *WebhookHandler) HandleStripe(c *gin.Context) {
	payload, err := io.ReadAll(io.LimitReader(c.Request.Body, 1<<20))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "failed to read payload"})
		return
	}

	event, err := h.stripe.VerifyEvent(payload, c.GetHeader("Stripe-Signature"))
	if err != nil {
		h.logger.Warn("webhook signature verification failed",
			zap.String("client_ip", c.ClientIP()),
			zap.Error(err),
		)
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid signature"})
		return
	}

	typed, err := h.mapEvent(event)
	if err != nil {
		h.logger.Error("failed to parse webhook payload",
			zap.String("event_id", event.ID),
			zap.String("event_type", string(event.Type)),
			zap.Error(err),
		)
		c.JSON(http.StatusOK, gin.H{"received": true})
		return
	}

	if typed != nil {
		if err := h.reconciler.HandleEvent(c.Request.Context(), typed); err != nil {
			h.logger.Error("failed to process webhook event",
				zap.String("event_id", event.ID),
				zap.String("event_type", string(event.Type)),
				zap.Error(err),
			)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "event processing failed"})
			return
		}
	}

	c.JSON(http.StatusOK, gin.H{"received": true})
}

// mapEvent converts a provider event into the reconciler's typed form. A nil
// result means the event type is not one this service reacts to.
func (h *WebhookHandler) mapEvent(event stripe.Event) (interface{}, error) {
	switch event.Type {
	case "checkout.session.completed":
		var session stripe.CheckoutSession
		if err := json.Unmarshal(event.Data.Raw, &session); err != nil {
			return nil, err
		}
		ev := billing.CheckoutCompleted{
			EventID:   event.ID,
			AccountID: accountIDOf(&session),
			PlanID:    session.Metadata["plan_id"],
		}
		if session.Customer != nil {
			ev.CustomerID = session.Customer.ID
		}
		if session.Subscription != nil {
			ev.SubscriptionID = session.Subscription.ID
		}
		return ev, nil

	case "invoice.paid":
		var invoice stripe.Invoice
		if err := json.Unmarshal(event.Data.Raw, &invoice); err != nil {
			return nil, err
		}
		return billing.InvoicePaid{
			EventID:        event.ID,
			SubscriptionID: invoiceSubscriptionID(&invoice),
			PeriodEnd:      invoicePeriodEnd(&invoice),
		}, nil

	case "invoice.payment_failed":
		var invoice stripe.Invoice
		if err := json.Unmarshal(event.Data.Raw, &invoice); err != nil {
			return nil, err
		}
		return billing.InvoicePaymentFailed{
			EventID:        event.ID,
			SubscriptionID: invoiceSubscriptionID(&invoice),
		}, nil

	case "customer.subscription.deleted":
		var sub stripe.Subscription
		if err := json.Unmarshal(event.Data.Raw, &sub); err != nil {
			return nil, err
		}
		return billing.SubscriptionDeleted{
			EventID:        event.ID,
			SubscriptionID: sub.ID,
		}, nil

	case "customer.subscription.updated":
		var sub stripe.Subscription
		if err := json.Unmarshal(event.Data.Raw, &sub); err != nil {
			return nil, err
		}
		ev := billing.SubscriptionUpdated{
			EventID:        event.ID,
			SubscriptionID: sub.ID,
			PlanID:         sub.Metadata["plan_id"],
			ProviderStatus: string(sub.Status),
		}
		if sub.CancelAt > 0 {
			ev.CancelAt = time.Unix(sub.CancelAt, 0)
		}
		if sub.BillingCycleAnchor > 0 {
			ev.Anchor = time.Unix(sub.BillingCycleAnchor, 0)
		}
		if sub.Items != nil && len(sub.Items.Data) > 0 {
			if price := sub.Items.Data[0].Price; price != nil {
				ev.PriceID = price.ID
				if price.Recurring != nil {
					ev.Interval = string(price.Recurring.Interval)
					ev.IntervalCount = int(price.Recurring.IntervalCount)
				}
			}
		}
		return ev, nil
	}

	return nil, nil
}

func accountIDOf(session *stripe.CheckoutSession) int64 {
	ref := session.ClientReferenceID
	if ref == "" {
		ref = session.Metadata["account_id"]
	}
	id, _ := strconv.ParseInt(ref, 10, 64)
	return id
}

func invoiceSubscriptionID(invoice *stripe.Invoice) string {
	if invoice.Parent != nil && invoice.Parent.SubscriptionDetails != nil &&
		invoice.Parent.SubscriptionDetails.Subscription != nil {
		return invoice.Parent.SubscriptionDetails.Subscription.ID
	}
	return ""
}

func invoicePeriodEnd(invoice *stripe.Invoice) time.Time {
	if invoice.Lines != nil && len(invoice.Lines.Data) > 0 {
		if p := invoice.Lines.Data[0].Period; p != nil && p.End > 0 {
			return time.Unix(p.End, 0)
		}
	}
	return time.Time{}
}
