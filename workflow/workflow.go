package workflow

import (
	"context"
	"errors"
	"fmt"

	lru "github.com/hashicorp/golang-lru/v2"
	"go.uber.org/zap"

	"order-relay/models"
	"order-relay/sender"
)

// resolvedCacheSize bounds the in-memory set of resolved prompt ids. Old
// entries are evicted; Discord's own interaction-expiry window is far shorter
// than the time it takes to cycle this many prompts.
const resolvedCacheSize = 1024

// NotificationChannel is the chat-platform side of the workflow: prompt
// dispatch, prompt disabling, and connectivity state.
type NotificationChannel interface {
	SendPrompt(ctx context.Context, summary *models.OrderSummary) error
	SendTestMessage(ctx context.Context) error
	// DisablePrompt removes the decision affordances from the originating
	// prompt. It returns models.ErrPromptExpired when the prompt no longer
	// exists or can no longer be edited.
	DisablePrompt(ctx context.Context, decision models.Decision) error
	Connected() bool
}

// Workflow drives the review lifecycle: present an order for human review,
// then resolve the first decision into exactly one notification email.
type Workflow struct {
	channel  NotificationChannel
	mailer   sender.EmailSender
	resolved *lru.Cache[string, struct{}]
	logger   *zap.Logger
}

// New builds the workflow over an injected channel and mailer.
func New(channel NotificationChannel, mailer sender.EmailSender, logger *zap.Logger) (*Workflow, error) {
	resolved, err := lru.New[string, struct{}](resolvedCacheSize)
	if err != nil {
		return nil, fmt.Errorf("init resolved set: %w", err)
	}
	return &Workflow{
		channel:  channel,
		mailer:   mailer,
		resolved: resolved,
		logger:   logger,
	}, nil
}

// Present dispatches the review prompt for a normalized order. The caller's
// HTTP response waits on this; a dispatch failure is the caller's failure.
func (w *Workflow) Present(ctx context.Context, summary *models.OrderSummary) error {
	if err := w.channel.SendPrompt(ctx, summary); err != nil {
		return fmt.Errorf("dispatch review prompt: %w", err)
	}
	w.logger.Info("review prompt dispatched",
		zap.String("order_id", summary.OrderID),
		zap.String("customer_email", summary.CustomerEmail),
	)
	return nil
}

// SendTest dispatches a canned connectivity-check message to the review
// destination.
func (w *Workflow) SendTest(ctx context.Context) error {
	return w.channel.SendTestMessage(ctx)
}

// Connected reports whether the chat-platform connection is established.
func (w *Workflow) Connected() bool {
	return w.channel.Connected()
}

// Resolve consumes one decision event. The prompt is marked resolved before
// anything else, so a redelivered or double-clicked decision never sends a
// second email; a failed send still counts as seen and is not retried.
func (w *Workflow) Resolve(ctx context.Context, decision models.Decision) models.NotificationResult {
	if decision.PromptID != "" {
		if seen, _ := w.resolved.ContainsOrAdd(decision.PromptID, struct{}{}); seen {
			w.logger.Warn("duplicate decision ignored",
				zap.String("prompt_id", decision.PromptID),
				zap.String("customer_email", decision.CustomerEmail),
			)
			return models.NotificationResult{
				Outcome:   models.OutcomeAlreadyResolved,
				Recipient: decision.CustomerEmail,
			}
		}
	}

	if err := w.channel.DisablePrompt(ctx, decision); err != nil {
		if errors.Is(err, models.ErrPromptExpired) {
			w.logger.Warn("decision received for expired prompt",
				zap.String("prompt_id", decision.PromptID),
				zap.String("customer_email", decision.CustomerEmail),
			)
			return models.NotificationResult{
				Outcome:   models.OutcomeExpired,
				Recipient: decision.CustomerEmail,
				Err:       err,
			}
		}
		// Disabling is best-effort; the resolved set already guards
		// against a second send.
		w.logger.Warn("failed to disable prompt affordances",
			zap.String("prompt_id", decision.PromptID),
			zap.Error(err),
		)
	}

	subject, body := templateFor(decision.Action)
	result, err := w.mailer.SendEmail(ctx, decision.CustomerEmail, subject, body)
	if err != nil {
		w.logger.Error("notification email failed",
			zap.String("customer_email", decision.CustomerEmail),
			zap.String("action", string(decision.Action)),
			zap.Error(err),
		)
		return models.NotificationResult{
			Outcome:   models.OutcomeSendFailed,
			Recipient: decision.CustomerEmail,
			Err:       err,
		}
	}

	w.logger.Info("notification email sent",
		zap.String("customer_email", decision.CustomerEmail),
		zap.String("order_id", decision.OrderID),
		zap.String("action", string(decision.Action)),
		zap.String("message_id", result.MessageID),
	)
	return models.NotificationResult{
		Outcome:   models.OutcomeSent,
		Recipient: decision.CustomerEmail,
	}
}
