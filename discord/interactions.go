package discord

import (
	"context"
	"fmt"
	"time"

	"github.com/bwmarrin/discordgo"
	"go.uber.org/zap"

	"order-relay/models"
)

// resolveTimeout bounds one decision round-trip (prompt edit + email send).
const resolveTimeout = 30 * time.Second

// DecisionResolver consumes one decision event and reports its outcome.
type DecisionResolver interface {
	Resolve(ctx context.Context, decision models.Decision) models.NotificationResult
}

// RegisterDecisionHandler wires button interactions from the gateway into the
// resolver. Only button presses are handled; everything else is ignored.
func (n *Notifier) RegisterDecisionHandler(resolver DecisionResolver) {
	n.session.AddHandler(func(s *discordgo.Session, ic *discordgo.InteractionCreate) {
		if ic.Type != discordgo.InteractionMessageComponent {
			return
		}
		data := ic.MessageComponentData()
		if data.ComponentType != discordgo.ButtonComponent {
			return
		}
		n.handleDecision(s, ic, data.CustomID, resolver)
	})
}

func (n *Notifier) handleDecision(s *discordgo.Session, ic *discordgo.InteractionCreate, customID string, resolver DecisionResolver) {
	ctx, cancel := context.WithTimeout(context.Background(), resolveTimeout)
	defer cancel()

	decision, err := decodeCustomID(customID)
	if err != nil {
		n.logger.Error("undecodable decision button", zap.String("custom_id", customID), zap.Error(err))
		n.respondEphemeral(s, ic, "⚠️ This button could not be processed. Please contact support.")
		return
	}
	if ic.Message != nil {
		decision.PromptID = ic.Message.ID
	}

	// Acknowledge first; the email send may take several seconds and the
	// interaction token is short-lived.
	deferred := &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseDeferredChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{Flags: discordgo.MessageFlagsEphemeral},
	}
	if err := s.InteractionRespond(ic.Interaction, deferred, discordgo.WithContext(ctx)); err != nil {
		if isExpiredError(err) {
			n.logger.Warn("interaction already expired on acknowledge",
				zap.String("prompt_id", decision.PromptID),
				zap.String("customer_email", decision.CustomerEmail),
			)
			return
		}
		n.logger.Error("failed to acknowledge decision", zap.Error(err))
		return
	}

	result := resolver.Resolve(ctx, decision)
	ack := ackText(result)
	if _, err := s.InteractionResponseEdit(ic.Interaction, &discordgo.WebhookEdit{Content: &ack}, discordgo.WithContext(ctx)); err != nil {
		n.logger.Error("failed to deliver decision acknowledgment",
			zap.String("outcome", string(result.Outcome)),
			zap.Error(err),
		)
	}
}

func (n *Notifier) respondEphemeral(s *discordgo.Session, ic *discordgo.InteractionCreate, content string) {
	resp := &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content: content,
			Flags:   discordgo.MessageFlagsEphemeral,
		},
	}
	if err := s.InteractionRespond(ic.Interaction, resp); err != nil && !isExpiredError(err) {
		n.logger.Error("failed to send ephemeral response", zap.Error(err))
	}
}

func ackText(result models.NotificationResult) string {
	switch result.Outcome {
	case models.OutcomeSent:
		return fmt.Sprintf("📩 Email sent to %s", result.Recipient)
	case models.OutcomeAlreadyResolved:
		return "⚠️ This order has already been handled."
	case models.OutcomeExpired:
		return "⌛ This order prompt has expired. Please contact support."
	default:
		return "⚠️ Failed to send email."
	}
}
