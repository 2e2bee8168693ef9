// internal/app/server.go
package app

import (
	"context"
	"fmt"
	"log"

	"incluso-service/internal/config"
	"incluso-service/internal/db"
	paymentHandler "incluso-service/internal/handlers/payment"
	reportHandler "incluso-service/internal/handlers/report"
	studentHandler "incluso-service/internal/handlers/student"
	subscriptionHandler "incluso-service/internal/handlers/subscription"
	webhookHandler "incluso-service/internal/handlers/webhook"
	"incluso-service/internal/middleware"
	"incluso-service/internal/pkg/auth"
	"incluso-service/internal/pkg/entcache"
	"incluso-service/internal/pkg/stripeclient"
	"incluso-service/internal/repository/postgres"
	billingService "incluso-service/internal/service/billing"
	paymentService "incluso-service/internal/service/payment"
	reportService "incluso-service/internal/service/report"
	studentService "incluso-service/internal/service/student"
	subscriptionService "incluso-service/internal/service/subscription"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

type Server struct {
	cfg    config.AppConfig
	engine *gin.Engine
	logger *zap.Logger
}

func NewServer() *Server {
	cfg := config.Load()
	engine := gin.New()
	return &Server{cfg: cfg, engine: engine}
}

func (s *Server) Start() error {
	ctx := context.Background()

	// ----- Logger -----
	logger, err := zap.NewProduction()
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer logger.Sync()
	s.logger = logger

	// ----- PostgreSQL -----
	pool, err := db.ConnectDB(ctx, s.cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("failed to connect to PostgreSQL: %w", err)
	}

	// ----- Redis (optional; entitlement cache degrades to no-op) -----
	var redisClient *redis.Client
	if s.cfg.RedisAddr != "" {
		redisClient, err = db.NewRedisClient(db.RedisConfig{
			Addr:     s.cfg.RedisAddr,
			Password: s.cfg.RedisPass,
			DB:       0,
			PoolSize: 10,
		})
		if err != nil {
			logger.Warn("redis unavailable, entitlement cache disabled", zap.Error(err))
			redisClient = nil
		}
	}
	cache := entcache.New(redisClient)

	// ----- Payment provider -----
	stripeClient := stripeclient.New(s.cfg.StripeSecretKey, s.cfg.StripeWebhookSecret)

	// ----- Repositories -----
	subscriptionRepo := postgres.NewSubscriptionRepository(pool)
	studentRepo := postgres.NewStudentRepository(pool)
	reportRepo := postgres.NewReportRepository(pool)

	// ----- Services -----
	subService := subscriptionService.NewSubscriptionService(subscriptionRepo, cache, logger)
	payService := paymentService.NewPaymentService(subscriptionRepo, stripeClient, logger)
	reconciler := billingService.NewReconciler(subscriptionRepo, stripeClient, cache, logger)
	stuService := studentService.NewStudentService(studentRepo, subscriptionRepo, cache, logger)
	repService := reportService.NewReportService(reportRepo, studentRepo, subscriptionRepo, cache, logger)

	// ----- Handlers -----
	subHandlerInst := subscriptionHandler.NewSubscriptionHandler(subService)
	payHandlerInst := paymentHandler.NewPaymentHandler(payService)
	webhookHandlerInst := webhookHandler.NewWebhookHandler(stripeClient, reconciler, logger)
	stuHandlerInst := studentHandler.NewStudentHandler(stuService)
	repHandlerInst := reportHandler.NewReportHandler(repService)

	// ----- Middlewares -----
	authMiddleware := middleware.NewAuthMiddleware(auth.NewVerifier(s.cfg.JWTSecret))

	s.engine.Use(
		middleware.RecoveryMiddleware(logger),
		middleware.LoggingMiddleware(logger),
		middleware.CORSMiddleware(),
	)

	// ----- Router -----
	handlers := &Handlers{
		SubscriptionHandler: subHandlerInst,
		PaymentHandler:      payHandlerInst,
		WebhookHandler:      webhookHandlerInst,
		StudentHandler:      stuHandlerInst,
		ReportHandler:       repHandlerInst,
		AuthMiddleware:      authMiddleware,
	}
	SetupRouter(s.engine, logger, handlers)

	log.Printf("server running on %s", s.cfg.HTTPAddr)
	return s.engine.Run(s.cfg.HTTPAddr)
}
