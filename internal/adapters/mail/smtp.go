package mail

import (
	"context"
	"fmt"
	"time"

	gomail "github.com/wneessen/go-mail"

	"github.com/simpleai/community-invites/internal/core/domain"
)

// SMTPConfig holds the relay connection settings.
type SMTPConfig struct {
	Host      string
	Port      int
	Secure    bool // implicit TLS; otherwise STARTTLS is required
	Plaintext bool // no TLS at all, for local relays only
	Username  string
	Password  string
	Timeout   time.Duration
}

// SMTPTransport implements ports.MailTransport over an authenticated SMTP relay.
// A go-mail client holds a single connection, so every Send builds its own client.
type SMTPTransport struct {
	host string
	opts []gomail.Option
}

// NewSMTPTransport creates a transport. No connection is made until Send.
func NewSMTPTransport(cfg SMTPConfig) (*SMTPTransport, error) {
	opts := []gomail.Option{gomail.WithPort(cfg.Port)}
	if cfg.Username != "" {
		opts = append(opts,
			gomail.WithSMTPAuth(gomail.SMTPAuthPlain),
			gomail.WithUsername(cfg.Username),
			gomail.WithPassword(cfg.Password),
		)
	}
	switch {
	case cfg.Secure:
		opts = append(opts, gomail.WithSSL())
	case cfg.Plaintext:
		opts = append(opts, gomail.WithTLSPolicy(gomail.NoTLS))
	default:
		opts = append(opts, gomail.WithTLSPolicy(gomail.TLSMandatory))
	}
	if cfg.Timeout > 0 {
		opts = append(opts, gomail.WithTimeout(cfg.Timeout))
	}

	t := &SMTPTransport{host: cfg.Host, opts: opts}
	if _, err := t.newClient(); err != nil {
		return nil, err
	}
	return t, nil
}

func (t *SMTPTransport) newClient() (*gomail.Client, error) {
	client, err := gomail.NewClient(t.host, t.opts...)
	if err != nil {
		return nil, fmt.Errorf("smtp client: %w", err)
	}
	return client, nil
}

// Send dials the relay on a dedicated connection and delivers one plain-text message.
func (t *SMTPTransport) Send(ctx context.Context, msg domain.NotificationMessage) error {
	m, err := newMessage(msg)
	if err != nil {
		return err
	}
	client, err := t.newClient()
	if err != nil {
		return err
	}
	if err := client.DialAndSendWithContext(ctx, m); err != nil {
		return fmt.Errorf("smtp send failed: %w", err)
	}
	return nil
}

func newMessage(msg domain.NotificationMessage) (*gomail.Msg, error) {
	m := gomail.NewMsg()
	if err := m.From(msg.From); err != nil {
		return nil, fmt.Errorf("invalid from address %q: %w", msg.From, err)
	}
	if err := m.To(msg.To); err != nil {
		return nil, fmt.Errorf("invalid recipient %q: %w", msg.To, err)
	}
	m.Subject(msg.Subject)
	m.SetBodyString(gomail.TypeTextPlain, msg.Body)
	return m, nil
}
