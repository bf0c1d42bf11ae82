package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
)

// DiscordConfig holds the bot credentials and the review destination.
type DiscordConfig struct {
	BotToken  string
	ChannelID string
}

// SMTPConfig holds the mail relay connection settings.
type SMTPConfig struct {
	Host string
	Port string
	User string
	Pass string
}

// WooCommerceConfig holds the optional commerce API settings used to resolve
// reference-only webhook payloads.
type WooCommerceConfig struct {
	BaseURL string
	Key     string
	Secret  string
}

// Enabled reports whether the commerce API is configured.
func (w WooCommerceConfig) Enabled() bool {
	return w.BaseURL != ""
}

type Config struct {
	Port          string
	Env           string
	WebhookSecret string
	Discord       DiscordConfig
	SMTP          SMTPConfig
	WooCommerce   WooCommerceConfig
}

// Load reads the environment (including a .env file when present) and
// validates every required value. A missing required value is a startup
// error; the process must not come up half-configured.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Port:          getEnv("PORT", "3000"),
		Env:           getEnv("APP_ENV", "development"),
		WebhookSecret: os.Getenv("WEBHOOK_SECRET"),
		Discord: DiscordConfig{
			BotToken:  os.Getenv("DISCORD_BOT_TOKEN"),
			ChannelID: os.Getenv("DISCORD_CHANNEL_ID"),
		},
		SMTP: SMTPConfig{
			Host: os.Getenv("SMTP_HOST"),
			Port: os.Getenv("SMTP_PORT"),
			User: os.Getenv("EMAIL_USER"),
			Pass: os.Getenv("EMAIL_PASS"),
		},
		WooCommerce: WooCommerceConfig{
			BaseURL: os.Getenv("WOOCOMMERCE_URL"),
			Key:     os.Getenv("WOOCOMMERCE_KEY"),
			Secret:  os.Getenv("WOOCOMMERCE_SECRET"),
		},
	}

	required := map[string]string{
		"DISCORD_BOT_TOKEN":  cfg.Discord.BotToken,
		"DISCORD_CHANNEL_ID": cfg.Discord.ChannelID,
		"SMTP_HOST":          cfg.SMTP.Host,
		"SMTP_PORT":          cfg.SMTP.Port,
		"EMAIL_USER":         cfg.SMTP.User,
		"EMAIL_PASS":         cfg.SMTP.Pass,
	}
	for name, val := range required {
		if val == "" {
			return nil, fmt.Errorf("%s not set", name)
		}
	}

	// The commerce API is optional, but a partial credential pair is a
	// misconfiguration, not a disabled feature.
	if cfg.WooCommerce.Enabled() {
		if cfg.WooCommerce.Key == "" {
			return nil, fmt.Errorf("WOOCOMMERCE_KEY not set")
		}
		if cfg.WooCommerce.Secret == "" {
			return nil, fmt.Errorf("WOOCOMMERCE_SECRET not set")
		}
	}

	return cfg, nil
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}
