package mail

import (
	"bytes"
	"context"
	"crypto/tls"
	"embed"
	"errors"
	"fmt"
	"html/template"

	"github.com/joy095/bayelite/config"
	"github.com/joy095/bayelite/logger"
	gomail "gopkg.in/gomail.v2"
)

//go:embed templates/*.html
var templateFS embed.FS

var templates = template.Must(template.ParseFS(templateFS, "templates/*.html"))

const (
	pickupReminderTemplate = "pickup_reminder.html"
	refundNoticeTemplate   = "refund_notice.html"
	ratingRequestTemplate  = "rating_request.html"
)

var (
	ErrNoRecipient    = errors.New("no recipient address")
	ErrMailDisabled   = errors.New("mail transport not configured")
	ErrRenderTemplate = errors.New("failed to render email template")
)

// Message is a rendered email ready for a transport.
type Message struct {
	To      string
	Subject string
	HTML    string
}

// Sender delivers rendered messages.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

// SMTPSender delivers mail through an SMTP relay with gomail.
type SMTPSender struct {
	from   string
	dialer *gomail.Dialer
}

func NewSMTPSender(cfg config.MailConfig) *SMTPSender {
	dialer := gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password)
	dialer.TLSConfig = &tls.Config{
		InsecureSkipVerify: false,
		ServerName:         cfg.Host,
	}
	return &SMTPSender{from: cfg.From, dialer: dialer}
}

func (s *SMTPSender) Send(ctx context.Context, msg Message) error {
	if msg.To == "" {
		return ErrNoRecipient
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", msg.To)
	m.SetHeader("Subject", msg.Subject)
	m.SetBody("text/html", msg.HTML)

	logger.InfoLogger.Infof("Attempting to connect to SMTP server: %s:%d", s.dialer.Host, s.dialer.Port)

	if err := s.dialer.DialAndSend(m); err != nil {
		logger.ErrorLogger.Errorf("Failed to send email to %s: %v", msg.To, err)
		return fmt.Errorf("failed to send email: %w", err)
	}

	logger.InfoLogger.Infof("Sent %q to %s", msg.Subject, msg.To)
	return nil
}

// disabledSender is used when no SMTP host is configured. Every send fails with
// ErrMailDisabled so callers log it and carry on.
type disabledSender struct{}

func (disabledSender) Send(_ context.Context, msg Message) error {
	logger.WarnLogger.Warnf("SMTP not configured, not sending %q to %s", msg.Subject, msg.To)
	return ErrMailDisabled
}

// NewSender returns an SMTP sender, or a sender that always fails when SMTP_HOST is unset.
func NewSender(cfg config.MailConfig) Sender {
	if cfg.Host == "" {
		logger.WarnLogger.Warn("SMTP_HOST not set, email notifications are disabled")
		return disabledSender{}
	}
	return NewSMTPSender(cfg)
}

func render(name string, data any) (string, error) {
	var body bytes.Buffer
	if err := templates.ExecuteTemplate(&body, name, data); err != nil {
		logger.ErrorLogger.Errorf("Failed to execute email template %s: %v", name, err)
		return "", fmt.Errorf("%w %s: %w", ErrRenderTemplate, name, err)
	}
	return body.String(), nil
}
