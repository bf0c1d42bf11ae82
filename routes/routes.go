package routes

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"order-relay/controllers"
	"order-relay/middleware"
)

// RegisterRoutes wires the relay's HTTP surface. The two webhook endpoints
// share the shared-secret check; the probes are public.
func RegisterRoutes(router *gin.Engine, controller *controllers.WebhookController, webhookSecret string, logger *zap.Logger) {
	router.GET("/", controller.Liveness)
	router.GET("/health", controller.Health)

	secured := router.Group("/", middleware.WebhookSecret(webhookSecret, logger))
	{
		secured.POST("/webhook", controller.HandleWebhook)
		secured.POST("/test-webhook", controller.TestWebhook)
	}
}
