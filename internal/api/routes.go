package api

import (
	"alcyxob/gym-dashboard/internal/config"
	"alcyxob/gym-dashboard/internal/domain"
	"alcyxob/gym-dashboard/internal/metrics"
	"alcyxob/gym-dashboard/internal/service"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func SetupRoutes(
	router *gin.Engine,
	cfg config.Config,
	log *zap.Logger,
	authService service.AuthService,
	clientService service.ClientService,
	activityService service.ActivityService,
	paymentMethodService service.PaymentMethodService,
	invoiceService service.InvoiceService,
	membershipService service.MembershipService,
) {
	authHandler := NewAuthHandler(authService, cfg.App.IsProduction(), log)
	clientHandler := NewClientHandler(clientService, log)
	activityHandler := NewActivityHandler(activityService, log)
	paymentMethodHandler := NewPaymentMethodHandler(paymentMethodService, log)
	invoiceHandler := NewInvoiceHandler(invoiceService, log)
	membershipHandler := NewMembershipHandler(membershipService, log)

	authMiddleware := AuthMiddleware(authService, log)
	authLimiter := RateLimitMiddleware(cfg.RateLimit.AuthRPS, cfg.RateLimit.AuthBurst, log)

	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})
	router.GET("/metrics", gin.WrapH(metrics.Handler()))

	apiGroup := router.Group("/api")
	{
		authGroup := apiGroup.Group("/auth")
		{
			authGroup.POST("/register", authLimiter, authHandler.Register)
			authGroup.POST("/login", authLimiter, authHandler.Login)
			authGroup.POST("/logout", authHandler.Logout)
			authGroup.GET("/me", authMiddleware, authHandler.Me)
		}
	}

	protected := apiGroup.Group("")
	protected.Use(authMiddleware)
	{
		// --- Coach Routes ---
		coachOnly := RoleMiddleware(domain.RoleCoach)

		clientGroup := protected.Group("/clients", coachOnly)
		{
			clientGroup.GET("", clientHandler.GetClients)
			clientGroup.POST("", clientHandler.CreateClient)
			clientGroup.GET("/:id", clientHandler.GetClient)
			clientGroup.PUT("/:id", clientHandler.UpdateClient)
			clientGroup.DELETE("/:id", clientHandler.DeleteClient)
		}
		protected.GET("/stats", coachOnly, clientHandler.GetStats)

		// --- Member Routes ---
		membershipGroup := protected.Group("/membership", RoleMiddleware(domain.RoleMember))
		{
			membershipGroup.GET("", membershipHandler.GetMembership)
			membershipGroup.PUT("/plan", membershipHandler.ChangePlan)
		}

		// --- Routes for any signed-in user ---
		protected.GET("/activities", activityHandler.GetActivities)
		protected.POST("/activities", activityHandler.CreateActivity)

		pmGroup := protected.Group("/payment-methods")
		{
			pmGroup.GET("", paymentMethodHandler.GetPaymentMethods)
			pmGroup.POST("", paymentMethodHandler.AddPaymentMethod)
			pmGroup.PUT("/:id", paymentMethodHandler.UpdatePaymentMethod)
			pmGroup.DELETE("/:id", paymentMethodHandler.DeletePaymentMethod)
		}

		invoiceGroup := protected.Group("/invoices")
		{
			invoiceGroup.GET("", invoiceHandler.GetInvoices)
			invoiceGroup.POST("", invoiceHandler.CreateInvoice)
			invoiceGroup.GET("/:id/download", invoiceHandler.DownloadInvoice)
		}
	}
}
