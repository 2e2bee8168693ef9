// internal/handlers/subscription/subscription_handler.go
package subscription

import (
	"net/http"

	"incluso-service/internal/domain/subscription"
	"incluso-service/internal/middleware"
	"incluso-service/internal/pkg/response"
	service "incluso-service/internal/service/subscription"

	"github.com/gin-gonic/gin"
)

type SubscriptionHandler struct {
	subscriptionService *service.SubscriptionService
}

func NewSubscriptionHandler(subscriptionService *service.SubscriptionService) *SubscriptionHandler {
	return &SubscriptionHandler{
		subscriptionService: subscriptionService,
	}
}

// GetStatus returns the entitlement view of the authenticated account.
func (h *SubscriptionHandler) GetStatus(c *gin.Context) {
	accountID := middleware.MustGetAccountID(c)

	view, err := h.subscriptionService.Status(c.Request.Context(), accountID)
	if err != nil {
		response.FromError(c, "failed to load subscription status", err)
		return
	}

	response.Success(c, http.StatusOK, "subscription status retrieved", view)
}

// ListPlans returns the plan catalog. Public, no auth.
func (h *SubscriptionHandler) ListPlans(c *gin.Context) {
	response.Success(c, http.StatusOK, "plans retrieved", h.subscriptionService.ListPlans())
}

// Upgrade moves the account onto a paid plan directly.
func (h *SubscriptionHandler) Upgrade(c *gin.Context) {
	accountID := middleware.MustGetAccountID(c)

	var req subscription.UpgradeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid request", err)
		return
	}

	result, err := h.subscriptionService.Upgrade(c.Request.Context(), accountID, &req)
	if err != nil {
		response.FromError(c, "failed to upgrade subscription", err)
		return
	}

	response.Success(c, http.StatusOK, "subscription upgraded", result)
}

// Cancel returns the account to the free plan.
func (h *SubscriptionHandler) Cancel(c *gin.Context) {
	accountID := middleware.MustGetAccountID(c)

	if err := h.subscriptionService.Cancel(c.Request.Context(), accountID); err != nil {
		response.FromError(c, "failed to cancel subscription", err)
		return
	}

	response.Success(c, http.StatusOK, "subscription cancelled", nil)
}

// IncrementUsage meters one unit of usage for the account.
func (h *SubscriptionHandler) IncrementUsage(c *gin.Context) {
	accountID := middleware.MustGetAccountID(c)

	var req subscription.IncrementUsageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid request", err)
		return
	}

	if err := h.subscriptionService.IncrementUsage(c.Request.Context(), accountID, req.Kind); err != nil {
		response.FromError(c, "failed to record usage", err)
		return
	}

	response.Success(c, http.StatusOK, "usage recorded", nil)
}
