package api

import (
	"github.com/gin-gonic/gin"
	"github.com/opentracing/opentracing-go"

	"github.com/burnerpost/burnerpost/api/handlers"
	"github.com/burnerpost/burnerpost/api/middleware"
	"github.com/burnerpost/burnerpost/internal/tracing"
	"github.com/burnerpost/burnerpost/services"
)

// RegisterRoutes sets up all API endpoints
func RegisterRoutes(r *gin.Engine, s *services.Services, apikey string) {
	if s == nil {
		panic("Services cannot be nil")
	}

	// Add recovery middlewares
	r.Use(gin.Recovery())
	r.Use(tracing.RecoveryWithJaeger(opentracing.GlobalTracer()))

	// Health check endpoint (no auth)
	r.GET("/health", handlers.HealthCheck)

	apiKeyMiddleware := middleware.APIKeyMiddleware(middleware.APIKeyConfig{
		HeaderName:  "X-BURNERPOST-API-KEY",
		ValidAPIKey: apikey,
	})

	// API group with version
	api := r.Group("/v1")
	api.Use(apiKeyMiddleware)
	{
		tenants := api.Group("/tenants/:chatId")
		{
			tenants.POST("/mailboxes", handlers.CreateMailbox(s.MailboxService))
			tenants.GET("/mailboxes", handlers.ListMailboxes(s.MailboxService))
			tenants.PUT("/mailboxes/:id/activate", handlers.ActivateMailbox(s.MailboxService))
			tenants.DELETE("/mailboxes/:id", handlers.DeleteMailbox(s.MailboxService))
			tenants.GET("/active", handlers.GetActiveMailbox(s.MailboxService))
			tenants.DELETE("/active", handlers.DeactivateMailbox(s.MailboxService))
		}
	}
}
