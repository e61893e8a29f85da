package email

import (
	"context"
	"fmt"
	"net/smtp"
	"strconv"

	"go.uber.org/zap"
	"bid-wiser.backend/internal/config"
	"bid-wiser.backend/internal/domain/entities"
	"bid-wiser.backend/pkg/logger"
)

// SMTPNotifier delivers mail over SMTP. Delivery is best-effort: every failure
// is captured in the returned outcome so callers can proceed with their own
// state changes and report the miss in-band.
type SMTPNotifier struct {
	cfg config.SMTPConfig
}

var sendMail = smtp.SendMail

// NewSMTPNotifier creates a new SMTP notifier
func NewSMTPNotifier(cfg config.SMTPConfig) *SMTPNotifier {
	return &SMTPNotifier{cfg: cfg}
}

// Send delivers a plain-text message to one recipient.
func (n *SMTPNotifier) Send(ctx context.Context, to, subject, body string) entities.NotificationOutcome {
	if !n.cfg.Configured() {
		logger.Warn(ctx, "SMTP not configured, skipping delivery", zap.String("to", to))
		return entities.NotificationOutcome{Sent: false, Error: "email configuration missing"}
	}

	msg := []byte("From: " + n.cfg.From + "\r\n" +
		"To: " + to + "\r\n" +
		"Subject: " + subject + "\r\n" +
		"MIME-Version: 1.0\r\n" +
		"Content-Type: text/plain; charset=\"utf-8\"\r\n" +
		"\r\n" +
		body + "\r\n")

	addr := n.cfg.Host + ":" + strconv.Itoa(n.cfg.Port)
	auth := smtp.PlainAuth("", n.cfg.Username, n.cfg.Password, n.cfg.Host)

	if err := sendMail(addr, auth, n.cfg.Username, []string{to}, msg); err != nil {
		logger.Error(ctx, "email delivery failed", zap.String("to", to), zap.Error(err))
		return entities.NotificationOutcome{Sent: false, Error: fmt.Sprintf("email delivery failed: %v", err)}
	}

	logger.Info(ctx, "email delivered", zap.String("to", to), zap.String("subject", subject))
	return entities.NotificationOutcome{Sent: true}
}
