// Package mail sends transactional email, primarily the signup confirmation
// message carrying the exchange-code link.
package mail

import (
	"context"
	"fmt"
	"log/slog"
	"net/smtp"

	"crm/config"
	"crm/internal/domain/service"

	"github.com/pkg/errors"
	"go.uber.org/fx"
)

// Mail provider types selectable in configuration.
const (
	providerLog  = "log"
	providerSMTP = "smtp"
)

// MailerParams holds dependencies for Mailer, injected by Fx
type MailerParams struct {
	fx.In

	Config *config.Config
	Logger *slog.Logger
}

// NewMailer creates a Mailer based on configuration. Without configuration it
// falls back to logging messages, which keeps local development working
// without an SMTP server.
func NewMailer(params MailerParams) (service.Mailer, error) {
	cfg := params.Config.Mail
	logger := params.Logger

	if cfg == nil || cfg.Provider == "" || cfg.Provider == providerLog {
		logger.Info("Mail not configured, using log mailer")

		return &logMailer{logger: logger}, nil
	}

	if cfg.Provider != providerSMTP {
		return nil, errors.Errorf("unknown mail provider: %s", cfg.Provider)
	}

	if cfg.Host == "" || cfg.Port == 0 {
		return nil, errors.New("host and port are required for smtp provider")
	}
	if cfg.From == "" {
		return nil, errors.New("from address is required for smtp provider")
	}

	logger.Info("Using SMTP mailer",
		slog.String("host", cfg.Host),
		slog.Int("port", cfg.Port),
	)

	return &smtpMailer{cfg: cfg, logger: logger}, nil
}

// logMailer writes outbound mail to the log instead of sending it.
type logMailer struct {
	logger *slog.Logger
}

func (m *logMailer) Send(ctx context.Context, to, subject, body string) error {
	m.logger.InfoContext(ctx, "[LogMailer] Outbound mail",
		slog.String("to", to),
		slog.String("subject", subject),
		slog.String("body", body),
	)

	return nil
}

// smtpMailer delivers mail through a plain-auth SMTP relay.
type smtpMailer struct {
	cfg    *config.MailConfig
	logger *slog.Logger
}

func (m *smtpMailer) Send(ctx context.Context, to, subject, body string) error {
	if err := ctx.Err(); err != nil {
		return errors.WithStack(err)
	}

	msg := fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\nContent-Type: text/plain; charset=utf-8\r\n\r\n%s\r\n",
		m.cfg.From, to, subject, body)

	addr := fmt.Sprintf("%s:%d", m.cfg.Host, m.cfg.Port)

	var auth smtp.Auth
	if m.cfg.Username != "" {
		auth = smtp.PlainAuth("", m.cfg.Username, m.cfg.Password, m.cfg.Host)
	}

	if err := smtp.SendMail(addr, auth, m.cfg.From, []string{to}, []byte(msg)); err != nil {
		return errors.Wrap(err, "failed to send mail")
	}

	m.logger.InfoContext(ctx, "[SMTPMailer] Mail sent",
		slog.String("to", to),
		slog.String("subject", subject),
	)

	return nil
}
