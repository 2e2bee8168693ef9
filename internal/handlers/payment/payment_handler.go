// internal/handlers/payment/payment_handler.go
package payment

import (
	"net/http"

	"incluso-service/internal/domain/billing"
	"incluso-service/internal/middleware"
	"incluso-service/internal/pkg/response"
	service "incluso-service/internal/service/payment"

	"github.com/gin-gonic/gin"
)

type PaymentHandler struct {
	paymentService *service.PaymentService
}

func NewPaymentHandler(paymentService *service.PaymentService) *PaymentHandler {
	return &PaymentHandler{
		paymentService: paymentService,
	}
}

func (h *PaymentHandler) account(c *gin.Context) service.Account {
	return service.Account{
		ID:    middleware.MustGetAccountID(c),
		Email: middleware.GetAccountEmail(c),
		Name:  middleware.GetAccountName(c),
	}
}

// CreateCheckout opens a hosted checkout session and returns its URL.
func (h *PaymentHandler) CreateCheckout(c *gin.Context) {
	var req billing.CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid request", err)
		return
	}

	result, err := h.paymentService.CreateCheckout(c.Request.Context(), h.account(c), &req)
	if err != nil {
		response.FromError(c, "failed to start checkout", err)
		return
	}

	response.Success(c, http.StatusOK, "checkout session created", result)
}

// CreatePortal opens the provider billing portal.
func (h *PaymentHandler) CreatePortal(c *gin.Context) {
	accountID := middleware.MustGetAccountID(c)

	var req billing.PortalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid request", err)
		return
	}

	result, err := h.paymentService.CreatePortal(c.Request.Context(), accountID, &req)
	if err != nil {
		response.FromError(c, "failed to open billing portal", err)
		return
	}

	response.Success(c, http.StatusOK, "portal session created", result)
}

// VerifySession confirms a checkout session after the provider redirect.
func (h *PaymentHandler) VerifySession(c *gin.Context) {
	accountID := middleware.MustGetAccountID(c)
	sessionID := c.Query("session_id")

	result, err := h.paymentService.VerifySession(c.Request.Context(), accountID, sessionID)
	if err != nil {
		response.FromError(c, "failed to verify session", err)
		return
	}

	response.Success(c, http.StatusOK, "session verified", result)
}

// PaymentHistory lists recent invoices of the account.
func (h *PaymentHandler) PaymentHistory(c *gin.Context) {
	accountID := middleware.MustGetAccountID(c)

	invoices, err := h.paymentService.PaymentHistory(c.Request.Context(), accountID)
	if err != nil {
		response.FromError(c, "failed to list payments", err)
		return
	}

	response.Success(c, http.StatusOK, "payment history retrieved", invoices)
}
