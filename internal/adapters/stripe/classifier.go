package stripe

import (
	"encoding/json"
	"strings"

	"github.com/go-playground/validator/v10"
	stripeapi "github.com/stripe/stripe-go/v82"
	"go.uber.org/zap"

	"github.com/simpleai/community-invites/internal/core/domain"
)

// Classifier turns verified events into purchase intents.
type Classifier struct {
	validate *validator.Validate
	logger   *zap.Logger
}

// NewClassifier creates a new classifier.
func NewClassifier(logger *zap.Logger) *Classifier {
	return &Classifier{validate: validator.New(), logger: logger}
}

// Classify extracts the payment link and purchaser email of a completed checkout.
// Only checkout.session.completed carries business meaning; everything else is ignorable.
func (c *Classifier) Classify(event domain.PaymentEvent) (domain.PurchaseIntent, error) {
	if event.Kind != domain.EventCheckoutCompleted {
		return domain.PurchaseIntent{}, domain.NewServiceError(domain.ErrUnrecognizedEventType,
			"event type "+event.Type, "IGNORED_EVENT_TYPE")
	}

	var session stripeapi.CheckoutSession
	if len(event.Object) == 0 {
		return domain.PurchaseIntent{}, domain.NewServiceError(domain.ErrMalformedEvent,
			"checkout session missing from event "+event.ID, "EMPTY_OBJECT")
	}
	if err := json.Unmarshal(event.Object, &session); err != nil {
		return domain.PurchaseIntent{}, domain.NewServiceError(domain.ErrMalformedEvent,
			"failed to decode checkout session: "+err.Error(), "DECODE_ERROR")
	}

	intent := domain.PurchaseIntent{EventID: event.ID}
	if session.PaymentLink != nil {
		intent.PurchasedItemID = session.PaymentLink.ID
	}

	intent.PurchaserEmail = c.purchaserEmail(&session)
	if intent.PurchaserEmail == "" {
		return intent, domain.NewServiceError(domain.ErrMissingPurchaserEmail,
			"no customer email on session "+session.ID, "MISSING_EMAIL")
	}

	return intent, nil
}

// purchaserEmail prefers customer_email over customer_details.email.
func (c *Classifier) purchaserEmail(session *stripeapi.CheckoutSession) string {
	candidates := []string{session.CustomerEmail}
	if session.CustomerDetails != nil {
		candidates = append(candidates, session.CustomerDetails.Email)
	}

	for _, candidate := range candidates {
		candidate = strings.TrimSpace(candidate)
		if candidate == "" {
			continue
		}
		if err := c.validate.Var(candidate, "email"); err != nil {
			c.logger.Warn("Discarding invalid purchaser email",
				zap.String("session_id", session.ID),
				zap.String("email", candidate),
			)
			continue
		}
		return candidate
	}
	return ""
}
