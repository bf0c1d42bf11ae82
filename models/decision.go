package models

import "errors"

// DecisionAction is one of the two decision affordances on a review prompt.
type DecisionAction string

const (
	ActionAccept  DecisionAction = "accept"
	ActionDecline DecisionAction = "decline"
)

// Valid reports whether the action is one of the two recognized values.
func (a DecisionAction) Valid() bool {
	return a == ActionAccept || a == ActionDecline
}

// Decision is the event produced when a reviewer clicks one of the prompt's
// buttons. All identity is carried in the event itself; resolution never
// looks anything up.
type Decision struct {
	Action        DecisionAction
	OrderID       string
	CustomerEmail string
	// PromptID is the chat message the decision originated from, used as the
	// idempotency key for resolve-once behavior.
	PromptID string
}

// ResolveOutcome classifies what happened when a decision was resolved.
type ResolveOutcome string

const (
	// OutcomeSent means the notification email was dispatched.
	OutcomeSent ResolveOutcome = "sent"
	// OutcomeSendFailed means the mail relay rejected or never accepted the
	// message. The decision still counts as seen; there is no retry.
	OutcomeSendFailed ResolveOutcome = "send_failed"
	// OutcomeAlreadyResolved means a decision for this prompt was already
	// processed; no second email is sent.
	OutcomeAlreadyResolved ResolveOutcome = "already_resolved"
	// OutcomeExpired means the chat platform has already invalidated the
	// prompt; no email is sent.
	OutcomeExpired ResolveOutcome = "expired"
)

// NotificationResult reports the outcome of resolving one decision.
type NotificationResult struct {
	Outcome   ResolveOutcome
	Recipient string
	Err       error
}

// ErrPromptExpired is returned by the notification channel when the prompt a
// decision refers to no longer exists or can no longer be edited.
var ErrPromptExpired = errors.New("review prompt expired")
