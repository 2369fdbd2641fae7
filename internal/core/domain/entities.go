// Package domain contains the core business entities for the invite service.
// This is the innermost layer - no external dependencies.
package domain

import "time"

// EventKind classifies a payment event by business meaning.
type EventKind int

const (
	// EventOther is any event the service acknowledges without acting on.
	EventOther EventKind = iota
	// EventCheckoutCompleted marks a finished checkout session.
	EventCheckoutCompleted
)

// CheckoutCompletedType is the gateway's type name for a finished checkout.
const CheckoutCompletedType = "checkout.session.completed"

// KindOf maps a gateway event type name to its EventKind.
func KindOf(eventType string) EventKind {
	if eventType == CheckoutCompletedType {
		return EventCheckoutCompleted
	}
	return EventOther
}

// PaymentEvent is an authenticated webhook event.
// Object holds the raw data.object JSON exactly as the gateway sent it.
type PaymentEvent struct {
	ID     string
	Type   string
	Kind   EventKind
	Object []byte
}

// PurchaseIntent is what a completed checkout asks the service to do.
type PurchaseIntent struct {
	EventID         string
	PurchasedItemID string
	PurchaserEmail  string
}

// Locale selects the language of the notification.
type Locale string

const (
	LocaleDE Locale = "de"
	LocaleEN Locale = "en"
)

// Valid reports whether the locale has message templates.
func (l Locale) Valid() bool {
	return l == LocaleDE || l == LocaleEN
}

// CommunityRoute is one row of the product routing table.
type CommunityRoute struct {
	MatchKey    string `json:"match_key"`
	CommunityID string `json:"community_id"`
	Locale      Locale `json:"locale"`
}

// CommunityTarget is the community and locale a purchase resolves to.
type CommunityTarget struct {
	CommunityID string `json:"community_id"`
	Locale      Locale `json:"locale"`
}

// Invite constraints applied to every issued credential.
const (
	InviteMaxUses = 1
	InviteMaxAge  = 24 * time.Hour
)

// AccessCredential is a freshly minted community invite.
type AccessCredential struct {
	URL       string        `json:"url"`
	Code      string        `json:"code"`
	ChannelID string        `json:"channel_id"`
	MaxUses   int           `json:"max_uses"`
	MaxAge    time.Duration `json:"max_age"`
	Unique    bool          `json:"unique"`
}

// NotificationMessage is a rendered, ready-to-send email.
type NotificationMessage struct {
	From          string
	To            string
	Subject       string
	Body          string
	CredentialURL string
}
