// internal/pkg/stripeclient/client.go
package stripeclient

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"incluso-service/internal/domain/billing"

	stripe "github.com/stripe/stripe-go/v82"
	portalsession "github.com/stripe/stripe-go/v82/billingportal/session"
	checkoutsession "github.com/stripe/stripe-go/v82/checkout/session"
	stripeinvoice "github.com/stripe/stripe-go/v82/invoice"
	stripesub "github.com/stripe/stripe-go/v82/subscription"
	"github.com/stripe/stripe-go/v82/webhook"
)

// Client wraps the Stripe API surface the platform uses: hosted checkout,
// the customer portal, subscription read-back, invoice listing and webhook
// signature verification.
type Client struct {
	webhookSecret string
}

// New configures the global Stripe key and returns a Client.
func New(apiKey, webhookSecret string) *Client {
	stripe.Key = apiKey
	return &Client{webhookSecret: webhookSecret}
}

// CreateCheckoutSession opens a hosted subscription checkout and returns the
// redirect URL.
func (c *Client) CreateCheckoutSession(ctx context.Context, p billing.CheckoutParams) (string, error) {
	accountID := strconv.FormatInt(p.AccountID, 10)

	params := &stripe.CheckoutSessionParams{
		Mode:                stripe.String(string(stripe.CheckoutSessionModeSubscription)),
		PaymentMethodTypes:  stripe.StringSlice([]string{"card"}),
		AllowPromotionCodes: stripe.Bool(true),
		ClientReferenceID:   stripe.String(accountID),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
					Currency: stripe.String(p.Currency),
					ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
						Name:        stripe.String(p.PlanName),
						Description: stripe.String(p.PlanDescription),
					},
					UnitAmount: stripe.Int64(p.AmountCents),
					Recurring: &stripe.CheckoutSessionLineItemPriceDataRecurringParams{
						Interval: stripe.String(p.Interval),
					},
				},
				Quantity: stripe.Int64(1),
			},
		},
		SubscriptionData: &stripe.CheckoutSessionSubscriptionDataParams{
			Metadata: map[string]string{
				"plan_id":       p.PlanID,
				"account_id":    accountID,
				"billing_cycle": p.BillingCycle,
			},
		},
		SuccessURL: stripe.String(p.SuccessURL),
		CancelURL:  stripe.String(p.CancelURL),
	}
	if p.Email != "" {
		params.CustomerEmail = stripe.String(p.Email)
	}
	params.Context = ctx
	params.AddMetadata("account_id", accountID)
	params.AddMetadata("plan_id", p.PlanID)
	params.AddMetadata("billing_cycle", p.BillingCycle)

	sess, err := checkoutsession.New(params)
	if err != nil {
		return "", fmt.Errorf("create checkout session: %w", err)
	}
	return sess.URL, nil
}

// CreatePortalSession opens a customer-portal session for an existing billing
// customer and returns the redirect URL.
func (c *Client) CreatePortalSession(ctx context.Context, customerID, returnURL string) (string, error) {
	params := &stripe.BillingPortalSessionParams{
		Customer:  stripe.String(customerID),
		ReturnURL: stripe.String(returnURL),
	}
	params.Context = ctx

	sess, err := portalsession.New(params)
	if err != nil {
		return "", fmt.Errorf("create portal session: %w", err)
	}
	return sess.URL, nil
}

// RetrieveCheckoutSession reads a checkout session back for the post-checkout
// landing page.
func (c *Client) RetrieveCheckoutSession(ctx context.Context, sessionID string) (*billing.CheckoutSession, error) {
	params := &stripe.CheckoutSessionParams{}
	params.Context = ctx

	sess, err := checkoutsession.Get(sessionID, params)
	if err != nil {
		return nil, fmt.Errorf("retrieve checkout session: %w", err)
	}

	accountID, _ := strconv.ParseInt(sess.ClientReferenceID, 10, 64)
	return &billing.CheckoutSession{
		ID:           sess.ID,
		Status:       string(sess.Status),
		PlanID:       sess.Metadata["plan_id"],
		BillingCycle: sess.Metadata["billing_cycle"],
		AccountID:    accountID,
	}, nil
}

// RetrieveSubscription reads the provider's view of a subscription, used by
// the reconciler for period-end computation.
func (c *Client) RetrieveSubscription(ctx context.Context, subscriptionID string) (*billing.ProviderSubscription, error) {
	params := &stripe.SubscriptionParams{}
	params.Context = ctx

	sub, err := stripesub.Get(subscriptionID, params)
	if err != nil {
		return nil, fmt.Errorf("retrieve subscription: %w", err)
	}

	ps := &billing.ProviderSubscription{
		ID:       sub.ID,
		Status:   string(sub.Status),
		Metadata: sub.Metadata,
	}
	if sub.CancelAt > 0 {
		ps.CancelAt = time.Unix(sub.CancelAt, 0)
	}
	if sub.BillingCycleAnchor > 0 {
		ps.BillingCycleAnchor = time.Unix(sub.BillingCycleAnchor, 0)
	}
	if sub.Items != nil && len(sub.Items.Data) > 0 {
		if price := sub.Items.Data[0].Price; price != nil {
			ps.PriceID = price.ID
			if price.Recurring != nil {
				ps.Interval = string(price.Recurring.Interval)
				ps.IntervalCount = int(price.Recurring.IntervalCount)
			}
		}
	}

	return ps, nil
}

// ListInvoices returns up to limit past invoices for a billing customer,
// newest first.
func (c *Client) ListInvoices(ctx context.Context, customerID string, limit int) ([]billing.Invoice, error) {
	params := &stripe.InvoiceListParams{
		Customer: stripe.String(customerID),
	}
	params.Context = ctx
	params.Limit = stripe.Int64(int64(limit))

	invoices := make([]billing.Invoice, 0, limit)
	iter := stripeinvoice.List(params)
	for iter.Next() {
		inv := iter.Invoice()
		entry := billing.Invoice{
			ID:          inv.ID,
			Date:        time.Unix(inv.Created, 0),
			Amount:      float64(inv.AmountPaid) / 100,
			Currency:    string(inv.Currency),
			Status:      string(inv.Status),
			PDFURL:      inv.InvoicePDF,
			Description: "Assinatura",
		}
		if inv.Lines != nil && len(inv.Lines.Data) > 0 && inv.Lines.Data[0].Description != "" {
			entry.Description = inv.Lines.Data[0].Description
		}
		invoices = append(invoices, entry)
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("list invoices: %w", err)
	}

	return invoices, nil
}

// VerifyEvent checks the webhook signature header against the shared secret
// and returns the parsed event. It is the only entry point for inbound
// provider payloads.
func (c *Client) VerifyEvent(payload []byte, signatureHeader string) (stripe.Event, error) {
	return webhook.ConstructEvent(payload, signatureHeader, c.webhookSecret)
}
