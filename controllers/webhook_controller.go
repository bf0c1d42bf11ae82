package controllers

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"order-relay/models"
)

// OrderNormalizer produces a canonical order summary from a raw payload.
type OrderNormalizer interface {
	Normalize(ctx context.Context, raw map[string]any) (*models.OrderSummary, error)
}

// ApprovalWorkflow is the slice of the workflow the HTTP surface needs.
type ApprovalWorkflow interface {
	Present(ctx context.Context, summary *models.OrderSummary) error
	SendTest(ctx context.Context) error
	Connected() bool
}

// WebhookController handles the inbound webhook surface.
type WebhookController struct {
	normalizer OrderNormalizer
	workflow   ApprovalWorkflow
	logger     *zap.Logger
}

func NewWebhookController(normalizer OrderNormalizer, workflow ApprovalWorkflow, logger *zap.Logger) *WebhookController {
	return &WebhookController{normalizer: normalizer, workflow: workflow, logger: logger}
}

// HandleWebhook receives an order payload, normalizes it, and dispatches the
// review prompt. The response is not written until the prompt dispatch has
// either succeeded or definitively failed.
func (wc *WebhookController) HandleWebhook(c *gin.Context) {
	raw, err := parsePayload(c)
	if err != nil {
		wc.logger.Error("unreadable webhook body", zap.Error(err))
		c.String(http.StatusBadRequest, "No order data received.")
		return
	}

	summary, err := wc.normalizer.Normalize(c.Request.Context(), raw)
	if err != nil {
		var vErr *models.ValidationError
		if errors.As(err, &vErr) {
			wc.logger.Warn("webhook payload rejected",
				zap.String("kind", string(vErr.Kind)),
				zap.Error(vErr),
			)
			switch vErr.Kind {
			case models.ValidationMissingEmail:
				c.String(http.StatusBadRequest, "Customer email is required.")
			default:
				c.String(http.StatusBadRequest, "Invalid order format.")
			}
			return
		}
		wc.logger.Error("order normalization failed upstream", zap.Error(err))
		c.String(http.StatusInternalServerError, "Internal server error")
		return
	}

	if err := wc.workflow.Present(c.Request.Context(), summary); err != nil {
		wc.logger.Error("review prompt dispatch failed",
			zap.String("order_id", summary.OrderID),
			zap.Error(err),
		)
		c.String(http.StatusInternalServerError, "Internal server error")
		return
	}

	wc.logger.Info("webhook handled",
		zap.String("order_id", summary.OrderID),
		zap.String("customer_email", summary.CustomerEmail),
	)
	c.String(http.StatusOK, "Webhook received")
}

// TestWebhook dispatches the canned connectivity-check message.
func (wc *WebhookController) TestWebhook(c *gin.Context) {
	if err := wc.workflow.SendTest(c.Request.Context()); err != nil {
		wc.logger.Error("test webhook failed", zap.Error(err))
		c.String(http.StatusInternalServerError, "Test webhook failed")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Test webhook sent to Discord successfully",
	})
}

// Health reports liveness plus the chat-platform connection state.
func (wc *WebhookController) Health(c *gin.Context) {
	botStatus := "disconnected"
	if wc.workflow.Connected() {
		botStatus = "connected"
	}
	c.JSON(http.StatusOK, gin.H{
		"status":     "healthy",
		"timestamp":  time.Now().UTC().Format(time.RFC3339),
		"bot_status": botStatus,
	})
}

// Liveness is the bare root probe.
func (wc *WebhookController) Liveness(c *gin.Context) {
	c.String(http.StatusOK, "Order approval relay is running")
}

// parsePayload accepts JSON or form-encoded webhook bodies and returns the
// loose field map the normalizer classifies.
func parsePayload(c *gin.Context) (map[string]any, error) {
	if strings.HasPrefix(c.ContentType(), "application/x-www-form-urlencoded") {
		if err := c.Request.ParseForm(); err != nil {
			return nil, err
		}
		raw := make(map[string]any, len(c.Request.PostForm))
		for key, values := range c.Request.PostForm {
			if len(values) > 0 {
				raw[key] = values[0]
			}
		}
		return raw, nil
	}

	var raw map[string]any
	if err := c.ShouldBindJSON(&raw); err != nil {
		return nil, err
	}
	return raw, nil
}
