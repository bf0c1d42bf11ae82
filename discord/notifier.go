package discord

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/bwmarrin/discordgo"
	"go.uber.org/zap"

	"order-relay/config"
	"order-relay/models"
)

// Notifier is the chat-platform side of the relay: it dispatches review
// prompts to the configured channel and feeds button decisions back into the
// workflow. One instance is constructed at startup and held for the process
// lifetime.
type Notifier struct {
	session   *discordgo.Session
	channelID string
	logger    *zap.Logger
	ready     atomic.Bool
}

// NewNotifier builds the notifier and its gateway session. The session is
// not opened until Open is called.
func NewNotifier(cfg config.DiscordConfig, logger *zap.Logger) (*Notifier, error) {
	session, err := discordgo.New("Bot " + cfg.BotToken)
	if err != nil {
		return nil, fmt.Errorf("create discord session: %w", err)
	}
	session.Identify.Intents = discordgo.IntentsGuilds

	n := &Notifier{
		session:   session,
		channelID: cfg.ChannelID,
		logger:    logger,
	}

	session.AddHandler(func(_ *discordgo.Session, r *discordgo.Ready) {
		n.ready.Store(true)
		logger.Info("discord bot ready", zap.String("user", r.User.String()))
	})
	session.AddHandler(func(_ *discordgo.Session, _ *discordgo.Disconnect) {
		n.ready.Store(false)
		logger.Warn("discord gateway disconnected")
	})

	return n, nil
}

// Open establishes the gateway connection.
func (n *Notifier) Open() error {
	if err := n.session.Open(); err != nil {
		return fmt.Errorf("open discord session: %w", err)
	}
	return nil
}

// Close tears down the gateway connection.
func (n *Notifier) Close() error {
	return n.session.Close()
}

// Connected reports whether the gateway connection is currently established.
func (n *Notifier) Connected() bool {
	return n.ready.Load()
}

// SendPrompt dispatches the formatted review prompt with its two decision
// buttons to the configured channel.
func (n *Notifier) SendPrompt(ctx context.Context, summary *models.OrderSummary) error {
	msg := &discordgo.MessageSend{
		Content:    formatPrompt(summary, time.Now()),
		Components: []discordgo.MessageComponent{decisionRow(summary.OrderID, summary.CustomerEmail, false)},
	}

	if _, err := n.session.ChannelMessageSendComplex(n.channelID, msg, discordgo.WithContext(ctx)); err != nil {
		return fmt.Errorf("send review prompt: %w", err)
	}
	return nil
}

// SendTestMessage dispatches the canned connectivity-check message.
func (n *Notifier) SendTestMessage(ctx context.Context) error {
	content := "🧪 **Test Webhook Successful!**\n" +
		"✅ Bot is connected and working\n" +
		fmt.Sprintf("⏰ **Time:** %s", time.Now().Format(time.RFC1123))

	if _, err := n.session.ChannelMessageSend(n.channelID, content, discordgo.WithContext(ctx)); err != nil {
		return fmt.Errorf("send test message: %w", err)
	}
	return nil
}

// DisablePrompt replaces the prompt's buttons with disabled copies so the
// reviewer can see the decision was taken. A prompt Discord no longer knows
// about maps to models.ErrPromptExpired.
func (n *Notifier) DisablePrompt(ctx context.Context, decision models.Decision) error {
	components := []discordgo.MessageComponent{
		decisionRow(decision.OrderID, decision.CustomerEmail, true),
	}
	edit := &discordgo.MessageEdit{
		Channel:    n.channelID,
		ID:         decision.PromptID,
		Components: &components,
	}

	if _, err := n.session.ChannelMessageEditComplex(edit, discordgo.WithContext(ctx)); err != nil {
		if isExpiredError(err) {
			return models.ErrPromptExpired
		}
		return fmt.Errorf("disable prompt buttons: %w", err)
	}
	return nil
}

func decisionRow(orderID, email string, disabled bool) discordgo.ActionsRow {
	return discordgo.ActionsRow{
		Components: []discordgo.MessageComponent{
			discordgo.Button{
				Label:    "✅ Accept",
				Style:    discordgo.SuccessButton,
				CustomID: encodeCustomID(models.ActionAccept, orderID, email),
				Disabled: disabled,
			},
			discordgo.Button{
				Label:    "❌ Decline",
				Style:    discordgo.DangerButton,
				CustomID: encodeCustomID(models.ActionDecline, orderID, email),
				Disabled: disabled,
			},
		},
	}
}

func formatPrompt(summary *models.OrderSummary, now time.Time) string {
	content := "🛒 **New Order Received!**\n" +
		fmt.Sprintf("📧 **Email:** %s\n", summary.CustomerEmail) +
		fmt.Sprintf("📦 **Product(s):** %s\n", summary.ProductDescription) +
		fmt.Sprintf("🆔 **Order ID:** %s\n", summary.OrderID) +
		fmt.Sprintf("📊 **Status:** %s\n", summary.Status) +
		fmt.Sprintf("💰 **Total:** $%s\n", summary.TotalAmount)
	if summary.PaymentMethod != models.UnknownValue {
		content += fmt.Sprintf("💳 **Payment:** %s\n", summary.PaymentMethod)
	}
	if summary.MinecraftUsername != models.UnknownUsername {
		content += fmt.Sprintf("🎮 **Minecraft Username:** %s\n", summary.MinecraftUsername)
	}
	content += fmt.Sprintf("⏰ **Time:** %s", now.Format(time.RFC1123))
	return content
}

// isExpiredError matches the REST errors Discord returns once a prompt or
// interaction has been invalidated on its side.
func isExpiredError(err error) bool {
	var restErr *discordgo.RESTError
	if !errors.As(err, &restErr) || restErr.Message == nil {
		return false
	}
	switch restErr.Message.Code {
	case discordgo.ErrCodeUnknownMessage,
		discordgo.ErrCodeUnknownChannel,
		discordgo.ErrCodeUnknownInteraction:
		return true
	}
	return false
}
