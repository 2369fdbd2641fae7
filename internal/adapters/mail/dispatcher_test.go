package mail

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	gomail "github.com/wneessen/go-mail"
	"go.uber.org/zap"

	"github.com/simpleai/community-invites/internal/core/domain"
)

type fakeTransport struct {
	sent []domain.NotificationMessage
	err  error
}

func (f *fakeTransport) Send(ctx context.Context, msg domain.NotificationMessage) error {
	f.sent = append(f.sent, msg)
	return f.err
}

var testDispatcherConfig = DispatcherConfig{
	FromName:         "SimpleAI - Discord Community",
	FromAddress:      "noreply@simpleai-tools.de",
	BillingPortalURL: "https://billing.example.com/p/login/abc",
	SupportContact:   "support@example.com",
}

var testCred = domain.AccessCredential{URL: "https://discord.gg/abc123", Code: "abc123"}

func TestNotify_German(t *testing.T) {
	transport := &fakeTransport{}
	d := NewDispatcher(testDispatcherConfig, transport, zap.NewNop())

	require.NoError(t, d.Notify(context.Background(), "a@example.com", testCred, domain.LocaleDE))
	require.Len(t, transport.sent, 1)

	msg := transport.sent[0]
	assert.Equal(t, "a@example.com", msg.To)
	assert.Equal(t, `"SimpleAI - Discord Community" <noreply@simpleai-tools.de>`, msg.From)
	assert.Equal(t, "Herzlich Willkommen in der Community 🎉", msg.Subject)
	assert.Equal(t, testCred.URL, msg.CredentialURL)
	assert.Contains(t, msg.Body, "Einladungslink")
	assert.Contains(t, msg.Body, testCred.URL)
	assert.Contains(t, msg.Body, testDispatcherConfig.BillingPortalURL)
	assert.Contains(t, msg.Body, testDispatcherConfig.SupportContact)
}

func TestNotify_English(t *testing.T) {
	transport := &fakeTransport{}
	d := NewDispatcher(testDispatcherConfig, transport, zap.NewNop())

	require.NoError(t, d.Notify(context.Background(), "b@example.com", testCred, domain.LocaleEN))

	msg := transport.sent[0]
	assert.Equal(t, "Welcome to the Community 🎉", msg.Subject)
	assert.Contains(t, msg.Body, "valid for 24 hours, single use only")
	assert.Contains(t, msg.Body, testCred.URL)
	assert.NotContains(t, msg.Body, "{{")
}

func TestNotify_UnsupportedLocale(t *testing.T) {
	transport := &fakeTransport{}
	d := NewDispatcher(testDispatcherConfig, transport, zap.NewNop())

	err := d.Notify(context.Background(), "a@example.com", testCred, "fr")
	assert.ErrorIs(t, err, domain.ErrUnsupportedLocale)
	assert.Empty(t, transport.sent)
}

func TestNotify_TransportFailure(t *testing.T) {
	transport := &fakeTransport{err: errors.New("535 authentication failed")}
	d := NewDispatcher(testDispatcherConfig, transport, zap.NewNop())

	err := d.Notify(context.Background(), "a@example.com", testCred, domain.LocaleDE)
	assert.ErrorIs(t, err, domain.ErrDeliveryFailed)
	assert.Equal(t, "SEND_ERROR", domain.CodeOf(err))
	assert.Len(t, transport.sent, 1, "delivery is attempted exactly once")
}

func TestRender_EveryLocaleHasTemplate(t *testing.T) {
	d := NewDispatcher(testDispatcherConfig, &fakeTransport{}, zap.NewNop())
	for _, locale := range []domain.Locale{domain.LocaleDE, domain.LocaleEN} {
		msg, err := d.Render("a@example.com", testCred, locale)
		require.NoError(t, err, locale)
		assert.NotEmpty(t, msg.Subject)
		assert.Contains(t, msg.Body, testCred.URL)
	}
}

func TestFormatAddress(t *testing.T) {
	assert.Equal(t, "noreply@example.com", formatAddress("", "noreply@example.com"))
	assert.Equal(t, `"Team" <noreply@example.com>`, formatAddress("Team", "noreply@example.com"))
}

func TestNewMessage(t *testing.T) {
	m, err := newMessage(domain.NotificationMessage{
		From:    `"SimpleAI" <noreply@simpleai-tools.de>`,
		To:      "a@example.com",
		Subject: "Welcome",
		Body:    "hello",
	})
	require.NoError(t, err)

	rcpts, err := m.GetRecipients()
	require.NoError(t, err)
	assert.Equal(t, []string{"a@example.com"}, rcpts)
	assert.Equal(t, []string{"Welcome"}, m.GetGenHeader(gomail.HeaderSubject))
}

func TestNewMessage_InvalidRecipient(t *testing.T) {
	_, err := newMessage(domain.NotificationMessage{From: "noreply@example.com", To: "not an address"})
	assert.Error(t, err)
}

func TestNewSMTPTransport(t *testing.T) {
	tr, err := NewSMTPTransport(SMTPConfig{Host: "smtp.example.com", Port: 587, Username: "u", Password: "p"})
	require.NoError(t, err)
	assert.NotNil(t, tr)

	_, err = NewSMTPTransport(SMTPConfig{Host: "", Port: 587})
	assert.Error(t, err)
}
