package router

import (
	"github.com/gin-gonic/gin"

	"github.com/ignatzorin/payouts-backend/internal/config"
	"github.com/ignatzorin/payouts-backend/internal/http/handlers"
	"github.com/ignatzorin/payouts-backend/internal/http/middleware"
	"github.com/ignatzorin/payouts-backend/internal/service"
)

func SetupRouter(
	cfg *config.Config,
	withdrawalHandler *handlers.WithdrawalHandler,
	webhookHandler *handlers.WebhookHandler,
	wsHandler *handlers.WSHandler,
	healthHandler *handlers.HealthHandler,
	verifier service.TokenVerifier,
) *gin.Engine {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.Default()
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.CORSMiddleware(cfg.AllowedOrigins))

	r.GET("/health", healthHandler.Health)

	// Вебхуки провайдера: аутентификация — подпись тела, не bearer токен.
	r.POST("/webhooks/:provider", webhookHandler.HandleWebhook)

	api := r.Group("/api")
	api.GET("/ws", wsHandler.Handle)

	protected := api.Group("/")
	protected.Use(middleware.AuthMiddleware(verifier))
	{
		protected.GET("/withdrawals", withdrawalHandler.ListWithdrawals)
		protected.POST("/withdrawals",
			middleware.RateLimitMiddleware(cfg.RateLimitLimit, cfg.RateLimitPeriod),
			withdrawalHandler.CreateWithdrawal)
		protected.POST("/withdrawals/:id/simulate",
			middleware.UUIDValidator("id"),
			withdrawalHandler.SimulateOutcome)
	}

	return r
}
