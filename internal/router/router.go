package router

import (
	"time"

	"growfi/config"
	"growfi/internal/handler"
	"growfi/internal/middleware"
	"growfi/internal/repository"
	"growfi/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

func Setup(cfg *config.Config, db *gorm.DB, log *logrus.Logger, mirror service.EntityMirror) *gin.Engine {
	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery())

	store := repository.NewStore(db)

	// Services
	authSvc := service.NewAuthService(cfg, store, log)
	commissionSvc := service.NewCommissionService(store, log,
		cfg.Ledger.CommissionRatePercent, cfg.Ledger.RegistrationBonus)
	ledgerSvc := service.NewLedgerService(store, log, mirror)

	// Handlers
	authHandler := handler.NewAuthHandler(authSvc, commissionSvc, log)
	planHandler := handler.NewPlanHandler(store)
	investmentHandler := handler.NewInvestmentHandler(ledgerSvc, commissionSvc, store, log)
	accountHandler := handler.NewAccountHandler(store)
	notificationHandler := handler.NewNotificationHandler(store)
	referralHandler := handler.NewReferralHandler(store)

	authMw := middleware.AuthRequired(&cfg.JWT)
	authLimiter := middleware.NewRateLimiter(10, time.Minute)

	api := r.Group("/api/v1")
	{
		authGroup := api.Group("/auth")
		authGroup.Use(middleware.RateLimit(authLimiter))
		{
			authGroup.POST("/register", authHandler.Register)
			authGroup.POST("/login", authHandler.Login)
		}

		api.GET("/plans", planHandler.List)

		authed := api.Group("")
		authed.Use(authMw)
		{
			authed.POST("/investments", investmentHandler.Create)
			authed.GET("/investments", investmentHandler.List)
			authed.GET("/investments/:id", investmentHandler.Get)
			authed.POST("/investments/:id/cancel", investmentHandler.Cancel)
			authed.GET("/account", accountHandler.Get)
			authed.GET("/transactions", accountHandler.ListTransactions)
			authed.GET("/notifications", notificationHandler.List)
			authed.POST("/notifications/:id/read", notificationHandler.MarkRead)
			authed.GET("/referrals", referralHandler.Summary)
		}
	}
	return r
}
