package sender

import (
	"context"
	"time"
)

// SendResult describes one accepted outbound message.
type SendResult struct {
	MessageID string
	SentAt    time.Time
}

// EmailSender dispatches one transactional email per call. Implementations
// are constructed once at startup and held for the process lifetime.
type EmailSender interface {
	SendEmail(ctx context.Context, to, subject, body string) (SendResult, error)
}
