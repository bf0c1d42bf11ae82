package config_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"order-relay/config"
)

func setRequiredEnv(t *testing.T) {
	t.Helper()
	t.Setenv("DISCORD_BOT_TOKEN", "token")
	t.Setenv("DISCORD_CHANNEL_ID", "123456789")
	t.Setenv("SMTP_HOST", "smtp.example.com")
	t.Setenv("SMTP_PORT", "587")
	t.Setenv("EMAIL_USER", "bot@example.com")
	t.Setenv("EMAIL_PASS", "hunter2")
	// Make sure optional values from the host environment do not leak in.
	t.Setenv("WEBHOOK_SECRET", "")
	t.Setenv("WOOCOMMERCE_URL", "")
	t.Setenv("WOOCOMMERCE_KEY", "")
	t.Setenv("WOOCOMMERCE_SECRET", "")
	t.Setenv("PORT", "")
	t.Setenv("APP_ENV", "")
}

func TestLoad_AllRequiredPresent(t *testing.T) {
	setRequiredEnv(t)

	cfg, err := config.Load()

	assert.NoError(t, err)
	assert.Equal(t, "token", cfg.Discord.BotToken)
	assert.Equal(t, "123456789", cfg.Discord.ChannelID)
	assert.Equal(t, "smtp.example.com", cfg.SMTP.Host)
	assert.Equal(t, "3000", cfg.Port, "port should default to 3000")
	assert.Equal(t, "development", cfg.Env)
	assert.False(t, cfg.WooCommerce.Enabled())
}

func TestLoad_MissingRequiredValue(t *testing.T) {
	required := []string{
		"DISCORD_BOT_TOKEN",
		"DISCORD_CHANNEL_ID",
		"SMTP_HOST",
		"SMTP_PORT",
		"EMAIL_USER",
		"EMAIL_PASS",
	}

	for _, name := range required {
		t.Run(name, func(t *testing.T) {
			setRequiredEnv(t)
			t.Setenv(name, "")

			_, err := config.Load()

			assert.Error(t, err)
			assert.Contains(t, err.Error(), name)
		})
	}
}

func TestLoad_PortOverride(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("PORT", "8080")

	cfg, err := config.Load()

	assert.NoError(t, err)
	assert.Equal(t, "8080", cfg.Port)
}

func TestLoad_WooCommerceFullyConfigured(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("WOOCOMMERCE_URL", "https://store.example.com/wp-json/wc/v3")
	t.Setenv("WOOCOMMERCE_KEY", "ck_live")
	t.Setenv("WOOCOMMERCE_SECRET", "cs_live")

	cfg, err := config.Load()

	assert.NoError(t, err)
	assert.True(t, cfg.WooCommerce.Enabled())
}

func TestLoad_WooCommercePartialCredentials(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("WOOCOMMERCE_URL", "https://store.example.com/wp-json/wc/v3")
	t.Setenv("WOOCOMMERCE_KEY", "ck_live")

	_, err := config.Load()

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "WOOCOMMERCE_SECRET")
}
