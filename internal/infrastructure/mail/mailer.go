// Package mail sends the storefront's plain-text notifications over SMTP.
package mail

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/storefront/backend/internal/infrastructure/config"
	gomail "github.com/wneessen/go-mail"
	"go.uber.org/zap"
)

// Mailer sends a plain-text message to one or more recipients
type Mailer interface {
	Send(ctx context.Context, to []string, subject, body string) error
}

// ErrNoRecipients is returned when Send is called without a usable address
var ErrNoRecipients = errors.New("mail: no recipients")

// dialer is the part of the go-mail client used to deliver messages
type dialer interface {
	DialAndSendWithContext(ctx context.Context, messages ...*gomail.Msg) error
}

// SMTPMailer delivers mail through an SMTP relay
type SMTPMailer struct {
	client dialer
	from   string
	logger *zap.Logger
}

// NewSMTPMailer creates an SMTP mailer from configuration
func NewSMTPMailer(cfg config.MailConfig, logger *zap.Logger) (*SMTPMailer, error) {
	if cfg.From == "" {
		return nil, errors.New("mail: from address is required")
	}

	opts := []gomail.Option{
		gomail.WithPort(cfg.Port),
		gomail.WithTimeout(timeoutOrDefault(cfg.Timeout)),
	}
	if cfg.Username != "" {
		opts = append(opts,
			gomail.WithSMTPAuth(gomail.SMTPAuthPlain),
			gomail.WithUsername(cfg.Username),
			gomail.WithPassword(cfg.Password),
		)
	}
	if cfg.TLS {
		opts = append(opts, gomail.WithTLSPolicy(gomail.TLSMandatory))
	} else {
		opts = append(opts, gomail.WithTLSPolicy(gomail.TLSOpportunistic))
	}

	client, err := gomail.NewClient(cfg.Host, opts...)
	if err != nil {
		return nil, fmt.Errorf("mail: failed to create SMTP client: %w", err)
	}
	return newSMTPMailer(client, cfg.From, logger), nil
}

func newSMTPMailer(client dialer, from string, logger *zap.Logger) *SMTPMailer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SMTPMailer{client: client, from: from, logger: logger}
}

func timeoutOrDefault(d time.Duration) time.Duration {
	if d <= 0 {
		return 10 * time.Second
	}
	return d
}

// Send builds a text/plain message and delivers it
func (m *SMTPMailer) Send(ctx context.Context, to []string, subject, body string) error {
	msg, err := m.buildMessage(to, subject, body)
	if err != nil {
		return err
	}

	if err := m.client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("mail: failed to send %q: %w", subject, err)
	}
	m.logger.Info("mail sent",
		zap.Strings("to", msg.GetToString()),
		zap.String("subject", subject),
	)
	return nil
}

func (m *SMTPMailer) buildMessage(to []string, subject, body string) (*gomail.Msg, error) {
	recipients := cleanRecipients(to)
	if len(recipients) == 0 {
		return nil, ErrNoRecipients
	}

	msg := gomail.NewMsg()
	if err := msg.From(m.from); err != nil {
		return nil, fmt.Errorf("mail: invalid from address: %w", err)
	}
	if err := msg.To(recipients...); err != nil {
		return nil, fmt.Errorf("mail: invalid recipient: %w", err)
	}
	msg.Subject(subject)
	msg.SetBodyString(gomail.TypeTextPlain, body)
	return msg, nil
}

func cleanRecipients(to []string) []string {
	out := make([]string, 0, len(to))
	for _, addr := range to {
		if addr = strings.TrimSpace(addr); addr != "" {
			out = append(out, addr)
		}
	}
	return out
}

// LogMailer writes messages to the log instead of sending them. It is used
// when no SMTP host is configured.
type LogMailer struct {
	logger *zap.Logger
}

// NewLogMailer creates a new LogMailer
func NewLogMailer(logger *zap.Logger) *LogMailer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LogMailer{logger: logger}
}

// Send logs the message
func (m *LogMailer) Send(_ context.Context, to []string, subject, body string) error {
	recipients := cleanRecipients(to)
	if len(recipients) == 0 {
		return ErrNoRecipients
	}
	m.logger.Info("mail (not sent, no SMTP host configured)",
		zap.Strings("to", recipients),
		zap.String("subject", subject),
		zap.Int("body_bytes", len(body)),
	)
	return nil
}

// New returns an SMTPMailer when a host is configured, otherwise a LogMailer
func New(cfg config.MailConfig, logger *zap.Logger) (Mailer, error) {
	if cfg.Host == "" {
		return NewLogMailer(logger), nil
	}
	return NewSMTPMailer(cfg, logger)
}

var (
	_ Mailer = (*SMTPMailer)(nil)
	_ Mailer = (*LogMailer)(nil)
)
