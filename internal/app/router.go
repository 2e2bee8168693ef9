// internal/app/router.go
package app

import (
	paymentHandler "incluso-service/internal/handlers/payment"
	reportHandler "incluso-service/internal/handlers/report"
	studentHandler "incluso-service/internal/handlers/student"
	subscriptionHandler "incluso-service/internal/handlers/subscription"
	webhookHandler "incluso-service/internal/handlers/webhook"
	"incluso-service/internal/middleware"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Handlers struct {
	SubscriptionHandler *subscriptionHandler.SubscriptionHandler
	PaymentHandler      *paymentHandler.PaymentHandler
	WebhookHandler      *webhookHandler.WebhookHandler
	StudentHandler      *studentHandler.StudentHandler
	ReportHandler       *reportHandler.ReportHandler
	AuthMiddleware      *middleware.AuthMiddleware
}

func SetupRouter(r *gin.Engine, logger *zap.Logger, h *Handlers) {
	api := r.Group("/api/v1")

	// ==================== Health Check ====================
	api.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok", "version": "1.0.0"})
	})

	// ==================== Plans (public) ====================
	api.GET("/plans", h.SubscriptionHandler.ListPlans)

	// ==================== Subscription ====================
	subscriptions := api.Group("/subscription")
	subscriptions.Use(h.AuthMiddleware.Auth())
	{
		subscriptions.GET("/status", h.SubscriptionHandler.GetStatus)
		subscriptions.POST("/upgrade", h.SubscriptionHandler.Upgrade)
		subscriptions.POST("/cancel", h.SubscriptionHandler.Cancel)
		subscriptions.POST("/usage", h.SubscriptionHandler.IncrementUsage)
	}

	// ==================== Payments ====================
	payments := api.Group("/payments")
	{
		// Webhook is unauthenticated; the provider signature is the auth.
		payments.POST("/webhook", h.WebhookHandler.HandleStripe)

		paymentsAuth := payments.Group("")
		paymentsAuth.Use(h.AuthMiddleware.Auth())
		{
			paymentsAuth.POST("/checkout", h.PaymentHandler.CreateCheckout)
			paymentsAuth.POST("/portal", h.PaymentHandler.CreatePortal)
			paymentsAuth.GET("/verify", h.PaymentHandler.VerifySession)
			paymentsAuth.GET("/history", h.PaymentHandler.PaymentHistory)
		}
	}

	// ==================== Students ====================
	students := api.Group("/students")
	students.Use(h.AuthMiddleware.Auth())
	{
		students.POST("", h.StudentHandler.CreateStudent)
		students.GET("", h.StudentHandler.ListStudents)
		students.GET("/:id", h.StudentHandler.GetStudent)
		students.DELETE("/:id", h.StudentHandler.DeleteStudent)
	}

	// ==================== Reports ====================
	reports := api.Group("/reports")
	reports.Use(h.AuthMiddleware.Auth())
	{
		reports.POST("", h.ReportHandler.CreateReport)
		reports.POST("/generate", h.ReportHandler.GenerateReport)
		reports.GET("/student/:studentId", h.ReportHandler.ListReports)
	}
}
