// Package mail renders localized invite emails and sends them over SMTP.
package mail

import (
	"context"

	"go.uber.org/zap"

	"github.com/simpleai/community-invites/internal/core/domain"
	"github.com/simpleai/community-invites/internal/core/ports"
)

// DispatcherConfig holds the fixed parts of every message.
type DispatcherConfig struct {
	FromName         string
	FromAddress      string
	BillingPortalURL string
	SupportContact   string
}

// Dispatcher implements ports.Notifier.
type Dispatcher struct {
	cfg       DispatcherConfig
	templates map[domain.Locale]localeTemplate
	transport ports.MailTransport
	logger    *zap.Logger
}

// NewDispatcher creates a dispatcher with the locale templates compiled once.
func NewDispatcher(cfg DispatcherConfig, transport ports.MailTransport, logger *zap.Logger) *Dispatcher {
	return &Dispatcher{
		cfg:       cfg,
		templates: parseTemplates(),
		transport: transport,
		logger:    logger,
	}
}

// Render builds the message for a locale without sending it.
func (d *Dispatcher) Render(to string, cred domain.AccessCredential, locale domain.Locale) (domain.NotificationMessage, error) {
	tmpl, ok := d.templates[locale]
	if !ok {
		return domain.NotificationMessage{}, domain.NewServiceError(domain.ErrUnsupportedLocale,
			"no template for locale "+string(locale), "UNSUPPORTED_LOCALE")
	}

	subject, body, err := tmpl.render(templateData{
		InviteURL:        cred.URL,
		BillingPortalURL: d.cfg.BillingPortalURL,
		SupportContact:   d.cfg.SupportContact,
	})
	if err != nil {
		return domain.NotificationMessage{}, domain.NewServiceError(domain.ErrDeliveryFailed,
			"failed to render template: "+err.Error(), "TEMPLATE_ERROR")
	}

	return domain.NotificationMessage{
		From:          formatAddress(d.cfg.FromName, d.cfg.FromAddress),
		To:            to,
		Subject:       subject,
		Body:          body,
		CredentialURL: cred.URL,
	}, nil
}

// Notify renders and sends the invite email. Delivery is attempted once.
func (d *Dispatcher) Notify(ctx context.Context, to string, cred domain.AccessCredential, locale domain.Locale) error {
	msg, err := d.Render(to, cred, locale)
	if err != nil {
		return err
	}

	if err := d.transport.Send(ctx, msg); err != nil {
		return domain.NewServiceError(domain.ErrDeliveryFailed, err.Error(), "SEND_ERROR")
	}

	d.logger.Info("Invite email sent", zap.String("to", to), zap.String("locale", string(locale)))
	return nil
}

func formatAddress(name, address string) string {
	if name == "" {
		return address
	}
	return `"` + name + `" <` + address + `>`
}
