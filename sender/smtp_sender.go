package sender

import (
	"context"
	"crypto/tls"
	"fmt"
	"net"
	"net/smtp"
	"time"

	"order-relay/config"
)

const sendTimeout = 10 * time.Second

// SMTPSender sends mail through an authenticated relay. The sender address
// is the authenticated user.
type SMTPSender struct {
	host     string
	port     string
	username string
	password string
}

// NewSMTPSender builds a sender from validated configuration.
func NewSMTPSender(cfg config.SMTPConfig) *SMTPSender {
	return &SMTPSender{
		host:     cfg.Host,
		port:     cfg.Port,
		username: cfg.User,
		password: cfg.Pass,
	}
}

// From returns the relay's sender address.
func (s *SMTPSender) From() string {
	return s.username
}

// SendEmail dispatches one plain-text message. The whole exchange is bounded
// by a deadline so a stalled relay cannot block decision acknowledgment
// indefinitely.
func (s *SMTPSender) SendEmail(ctx context.Context, to, subject, body string) (SendResult, error) {
	addr := net.JoinHostPort(s.host, s.port)

	deadline := time.Now().Add(sendTimeout)
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		deadline = d
	}

	conn, err := (&net.Dialer{Deadline: deadline}).DialContext(ctx, "tcp", addr)
	if err != nil {
		return SendResult{}, fmt.Errorf("smtp dial failed: %w", err)
	}
	if err := conn.SetDeadline(deadline); err != nil {
		conn.Close()
		return SendResult{}, fmt.Errorf("smtp deadline: %w", err)
	}

	client, err := smtp.NewClient(conn, s.host)
	if err != nil {
		conn.Close()
		return SendResult{}, fmt.Errorf("smtp handshake failed: %w", err)
	}
	defer client.Close()

	if ok, _ := client.Extension("STARTTLS"); ok {
		if err := client.StartTLS(&tls.Config{ServerName: s.host}); err != nil {
			return SendResult{}, fmt.Errorf("smtp starttls failed: %w", err)
		}
	}

	auth := smtp.PlainAuth("", s.username, s.password, s.host)
	if err := client.Auth(auth); err != nil {
		return SendResult{}, fmt.Errorf("smtp auth failed: %w", err)
	}

	if err := client.Mail(s.username); err != nil {
		return SendResult{}, fmt.Errorf("smtp mail from failed: %w", err)
	}
	if err := client.Rcpt(to); err != nil {
		return SendResult{}, fmt.Errorf("smtp rcpt failed: %w", err)
	}

	w, err := client.Data()
	if err != nil {
		return SendResult{}, fmt.Errorf("smtp data failed: %w", err)
	}

	msg := "From: " + s.username + "\r\n" +
		"To: " + to + "\r\n" +
		"Subject: " + subject + "\r\n" +
		"MIME-Version: 1.0\r\n" +
		"Content-Type: text/plain; charset=UTF-8\r\n" +
		"\r\n" +
		body
	if _, err := w.Write([]byte(msg)); err != nil {
		return SendResult{}, fmt.Errorf("smtp write failed: %w", err)
	}
	if err := w.Close(); err != nil {
		return SendResult{}, fmt.Errorf("smtp send failed: %w", err)
	}

	if err := client.Quit(); err != nil {
		return SendResult{}, fmt.Errorf("smtp quit failed: %w", err)
	}

	return SendResult{
		MessageID: fmt.Sprintf("smtp-%d", time.Now().UnixNano()),
		SentAt:    time.Now(),
	}, nil
}
