package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"order-relay/config"
	"order-relay/controllers"
	"order-relay/discord"
	"order-relay/logger"
	"order-relay/normalizer"
	"order-relay/routes"
	"order-relay/sender"
	"order-relay/woocommerce"
	"order-relay/workflow"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		// Logger config depends on the environment, so bootstrap errors go
		// through a bare production logger.
		fallback, _ := zap.NewProduction()
		fallback.Fatal("Config load failed", zap.Error(err))
	}

	log, err := logger.New(cfg.Env)
	if err != nil {
		panic("failed to initialize logger: " + err.Error())
	}
	defer log.Sync()

	// Mail transport
	emailSender := sender.NewSMTPSender(cfg.SMTP)

	// Commerce API client (optional)
	var fetcher normalizer.OrderFetcher
	if cfg.WooCommerce.Enabled() {
		fetcher = woocommerce.NewClient(cfg.WooCommerce, log)
		log.Info("commerce API enabled", zap.String("base_url", cfg.WooCommerce.BaseURL))
	}

	// Discord channel
	notifier, err := discord.NewNotifier(cfg.Discord, log)
	if err != nil {
		log.Fatal("Failed to init Discord notifier", zap.Error(err))
	}

	// Dependency injection
	orderNormalizer := normalizer.New(fetcher, log)
	approvalWorkflow, err := workflow.New(notifier, emailSender, log)
	if err != nil {
		log.Fatal("Failed to init approval workflow", zap.Error(err))
	}
	notifier.RegisterDecisionHandler(approvalWorkflow)

	if err := notifier.Open(); err != nil {
		log.Fatal("Discord login failed", zap.Error(err))
	}

	webhookController := controllers.NewWebhookController(orderNormalizer, approvalWorkflow, log)

	// Router
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery())

	// Request logging
	r.Use(func(c *gin.Context) {
		start := time.Now()
		c.Next()
		log.Info("http_request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
			zap.String("client_ip", c.ClientIP()),
		)
	})

	// Request timeout
	r.Use(func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 30*time.Second)
		defer cancel()
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	})

	routes.RegisterRoutes(r, webhookController, cfg.WebhookSecret, log)

	// HTTP server
	srv := &http.Server{Addr: ":" + cfg.Port, Handler: r}
	go func() {
		log.Info("Order approval relay started", zap.String("port", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("server failed", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Initiating graceful shutdown...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server shutdown error", zap.Error(err))
	}

	if err := notifier.Close(); err != nil {
		log.Error("Discord session close error", zap.Error(err))
	}

	log.Info("Order approval relay stopped gracefully")
}
