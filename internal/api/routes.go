package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"lubricentro-backend/internal/middleware"
)

// SetupRoutes configures all the application routes with their handlers and middleware.
// Global middleware (logging, recovery, CORS) is expected on router already.
func SetupRoutes(router *gin.Engine, logger *zap.Logger, verifier middleware.TokenVerifier, svc Services) {
	authMW := middleware.NewAuthMiddleware(verifier, logger)
	access := middleware.ResolveAccess(svc.Shops, logger)
	ownerOnly := middleware.RequireOwner()

	shopHandler := NewShopHandler(svc.Shops, svc.Employees, svc.Overview)
	subscriptionHandler := NewSubscriptionHandler(svc.Entitlements, svc.Trials, svc.Subscriptions)
	oilChangeHandler := NewOilChangeHandler(svc.OilChanges, svc.Handoff)
	employeeHandler := NewEmployeeHandler(svc.Employees)
	reportHandler := NewReportHandler(svc.Reports)

	apiV1 := router.Group("/api/v1")
	{
		// Public
		apiV1.GET("/plans", subscriptionHandler.Plans)

		// Authenticated, before the caller belongs to a shop
		apiV1.POST("/shops/register", authMW.VerifyToken(), shopHandler.Register)
		apiV1.POST("/employees/self-register", authMW.VerifyToken(), shopHandler.SelfRegisterEmployee)

		// Authenticated and bound to a shop
		shop := apiV1.Group("", authMW.VerifyToken(), access)
		{
			shop.GET("/me", shopHandler.Me)
			shop.GET("/overview", shopHandler.Overview)
			shop.GET("/shop", shopHandler.GetShop)
			shop.PUT("/shop", ownerOnly, shopHandler.UpdateShop)

			shop.GET("/entitlements/status", subscriptionHandler.Status)
			shop.GET("/entitlements", subscriptionHandler.ListEntitlements)
			shop.POST("/entitlements/trial", ownerOnly, subscriptionHandler.ActivateTrial)

			requests := shop.Group("/subscription-requests", ownerOnly)
			{
				requests.POST("", subscriptionHandler.CreateRequest)
				requests.GET("", subscriptionHandler.ListRequests)
			}

			oilChanges := shop.Group("/oil-changes")
			{
				oilChanges.GET("", oilChangeHandler.List)
				oilChanges.POST("", oilChangeHandler.Create)
				oilChanges.GET("/ticket-suggestion", oilChangeHandler.TicketSuggestion)
				oilChanges.GET("/:id", oilChangeHandler.Get)
				oilChanges.PUT("/:id", oilChangeHandler.Update)
				oilChanges.DELETE("/:id", oilChangeHandler.Delete)
				oilChanges.GET("/:id/whatsapp", oilChangeHandler.WhatsApp)
				oilChanges.GET("/:id/receipt", oilChangeHandler.Receipt)
			}

			employees := shop.Group("/employees", ownerOnly)
			{
				employees.GET("", employeeHandler.List)
				employees.POST("", employeeHandler.Create)
				employees.PUT("/:id", employeeHandler.Update)
				employees.DELETE("/:id", employeeHandler.Delete)
			}

			reports := shop.Group("/reports")
			{
				reports.GET("/summary", reportHandler.Summary)
				reports.GET("/export.csv", reportHandler.ExportCSV)
			}
		}
	}

	// Public liveness check outside /api/v1.
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "UP", "message": "Lubricentro backend is healthy."})
	})

	logger.Info("API routes configured successfully under /api/v1 and /health.")
}
