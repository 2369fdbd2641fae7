// Package stripe authenticates and classifies Stripe webhook events.
package stripe

import (
	"github.com/stripe/stripe-go/v82/webhook"
	"go.uber.org/zap"

	"github.com/simpleai/community-invites/internal/core/domain"
)

// WebhookValidator validates Stripe-Signature headers against the endpoint secret.
type WebhookValidator struct {
	secret string
	logger *zap.Logger
}

// NewWebhookValidator creates a validator for the given endpoint secret.
// Verification is offline, so no Stripe API key is needed or installed.
func NewWebhookValidator(webhookSecret string, logger *zap.Logger) *WebhookValidator {
	return &WebhookValidator{secret: webhookSecret, logger: logger}
}

// Verify checks the signature over the exact bytes received.
// Re-serialized JSON would not match, so payload must be the raw body.
func (v *WebhookValidator) Verify(payload []byte, signatureHeader string) (*domain.PaymentEvent, error) {
	if signatureHeader == "" {
		return nil, domain.NewServiceError(domain.ErrInvalidSignature,
			"missing Stripe-Signature header", "MISSING_SIGNATURE")
	}
	if v.secret == "" {
		return nil, domain.NewServiceError(domain.ErrInvalidSignature,
			"webhook secret not configured", "SECRET_NOT_CONFIGURED")
	}

	event, err := webhook.ConstructEventWithOptions(payload, signatureHeader, v.secret,
		webhook.ConstructEventOptions{IgnoreAPIVersionMismatch: true})
	if err != nil {
		v.logger.Warn("Stripe webhook verification failed", zap.Error(err))
		return nil, domain.NewServiceError(domain.ErrInvalidSignature, err.Error(), "INVALID_SIGNATURE")
	}

	var object []byte
	if event.Data != nil {
		object = event.Data.Raw
	}

	return &domain.PaymentEvent{
		ID:     event.ID,
		Type:   string(event.Type),
		Kind:   domain.KindOf(string(event.Type)),
		Object: object,
	}, nil
}
