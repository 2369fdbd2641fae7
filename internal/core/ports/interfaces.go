// Package ports defines the interfaces (ports) for the invite service.
// These are contracts that adapters must implement.
package ports

import (
	"context"

	"github.com/simpleai/community-invites/internal/core/domain"
)

// SignatureVerifier authenticates raw webhook payloads.
type SignatureVerifier interface {
	// Verify checks signatureHeader against the exact payload bytes.
	// Returns an error wrapping domain.ErrInvalidSignature on mismatch.
	Verify(payload []byte, signatureHeader string) (*domain.PaymentEvent, error)
}

// EventClassifier extracts the purchase from a verified event.
type EventClassifier interface {
	// Classify returns an ignorable domain error for events that need no action.
	Classify(event domain.PaymentEvent) (domain.PurchaseIntent, error)
}

// CommunityResolver maps purchased items to communities.
type CommunityResolver interface {
	Resolve(purchasedItemID string) (domain.CommunityTarget, bool)
}

// InviteIssuer mints single-use invites on the chat platform.
type InviteIssuer interface {
	// IssueInvite creates a new invite on every call.
	IssueInvite(ctx context.Context, communityID string) (*domain.AccessCredential, error)
}

// Notifier delivers an issued credential to the purchaser.
type Notifier interface {
	Notify(ctx context.Context, to string, cred domain.AccessCredential, locale domain.Locale) error
}

// MailTransport sends a rendered message.
type MailTransport interface {
	Send(ctx context.Context, msg domain.NotificationMessage) error
}
