package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// SecretHeader is the header carrying the shared webhook secret; the query
// parameter fallback exists for webhook sources that cannot set headers.
const (
	SecretHeader     = "X-Webhook-Secret"
	SecretQueryParam = "secret"
)

// WebhookSecret rejects inbound webhooks that do not present the configured
// shared secret. An empty expected secret disables the check entirely.
func WebhookSecret(expected string, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if expected == "" {
			c.Next()
			return
		}

		provided := c.GetHeader(SecretHeader)
		if provided == "" {
			provided = c.Query(SecretQueryParam)
		}

		if provided != expected {
			logger.Warn("unauthorized webhook attempt",
				zap.String("path", c.Request.URL.Path),
				zap.String("client_ip", c.ClientIP()),
			)
			c.String(http.StatusUnauthorized, "Unauthorized")
			c.Abort()
			return
		}

		c.Next()
	}
}
