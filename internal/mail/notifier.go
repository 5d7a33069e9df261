// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Conquest Team

// Package mail delivers confirmation links over SMTP.
package mail

import (
	"context"
	"fmt"
	"log/slog"

	gomail "github.com/wneessen/go-mail"
	"github.com/samber/oops"

	"github.com/conquestteam/mmorpg-auth-server/internal/account"
)

// Config holds the SMTP settings for the outbound mailer.
type Config struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

// SMTPNotifier implements account.Notifier over an authenticated SMTP
// relay.
type SMTPNotifier struct {
	client *gomail.Client
	from   string
}

// NewSMTPNotifier creates an SMTPNotifier from the given config.
func NewSMTPNotifier(cfg Config) (*SMTPNotifier, error) {
	if cfg.Host == "" {
		return nil, oops.Errorf("smtp host is required")
	}
	if cfg.From == "" {
		return nil, oops.Errorf("smtp from address is required")
	}

	opts := []gomail.Option{
		gomail.WithPort(cfg.Port),
		gomail.WithSMTPAuth(gomail.SMTPAuthPlain),
		gomail.WithUsername(cfg.Username),
		gomail.WithPassword(cfg.Password),
	}
	client, err := gomail.NewClient(cfg.Host, opts...)
	if err != nil {
		return nil, oops.Code("MAIL_CLIENT_FAILED").With("host", cfg.Host).Wrap(err)
	}
	return &SMTPNotifier{client: client, from: cfg.From}, nil
}

// Send delivers the confirmation link to the given address.
func (n *SMTPNotifier) Send(ctx context.Context, email, confirmationLink string) error {
	msg := gomail.NewMsg()
	if err := msg.From(n.from); err != nil {
		return oops.Code("MAIL_SEND_FAILED").With("operation", "set from").Wrap(err)
	}
	if err := msg.To(email); err != nil {
		return oops.Code("MAIL_SEND_FAILED").With("operation", "set recipient").Wrap(err)
	}
	msg.Subject("Confirm your account")
	msg.SetBodyString(gomail.TypeTextPlain, fmt.Sprintf(
		"Welcome! Confirm your account by opening this link:\n\n%s\n\nIf you did not register, ignore this mail.",
		confirmationLink,
	))

	if err := n.client.DialAndSendWithContext(ctx, msg); err != nil {
		return oops.Code("MAIL_SEND_FAILED").With("operation", "dial and send").Wrap(err)
	}
	return nil
}

// NoopNotifier is the degraded-mode notifier used when SMTP credentials are
// not configured. It logs the link at warn level instead of delivering it;
// registration still succeeds so local setups stay usable.
type NoopNotifier struct {
	logger *slog.Logger
}

// NewNoopNotifier creates a NoopNotifier.
func NewNoopNotifier(logger *slog.Logger) *NoopNotifier {
	if logger == nil {
		logger = slog.Default()
	}
	return &NoopNotifier{logger: logger}
}

// Send logs the confirmation link instead of mailing it.
func (n *NoopNotifier) Send(_ context.Context, email, confirmationLink string) error {
	n.logger.Warn("mail delivery disabled, confirmation link not sent",
		"email", email,
		"link", confirmationLink)
	return nil
}

// Compile-time interface checks.
var (
	_ account.Notifier = (*SMTPNotifier)(nil)
	_ account.Notifier = (*NoopNotifier)(nil)
)
