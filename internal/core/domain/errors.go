// Package domain contains the core business entities for the invite service.
package domain

import "errors"

// Domain errors - represent the outcomes of the webhook pipeline.
var (
	// ErrInvalidSignature is returned when the webhook signature does not match the payload.
	ErrInvalidSignature = errors.New("invalid webhook signature")

	// ErrUnrecognizedEventType is returned for events the service does not act on.
	ErrUnrecognizedEventType = errors.New("unrecognized event type")

	// ErrMalformedEvent is returned when an authentic event cannot be decoded.
	ErrMalformedEvent = errors.New("malformed event payload")

	// ErrMissingPurchaserEmail is returned when a checkout carries no usable email.
	ErrMissingPurchaserEmail = errors.New("missing purchaser email")

	// ErrUnmappedProduct is returned when no community is configured for the purchased item.
	ErrUnmappedProduct = errors.New("unmapped product")

	// ErrCommunityNotFound is returned when the bot cannot see the target community.
	ErrCommunityNotFound = errors.New("community not found")

	// ErrNoEligibleChannel is returned when the community has no visible text channel.
	ErrNoEligibleChannel = errors.New("no eligible channel")

	// ErrInviteCreationFailed is returned when the chat platform rejects the invite request.
	ErrInviteCreationFailed = errors.New("invite creation failed")

	// ErrUnsupportedLocale is returned when no template exists for a locale.
	ErrUnsupportedLocale = errors.New("unsupported locale")

	// ErrDeliveryFailed is returned when the mail transport rejects the message.
	ErrDeliveryFailed = errors.New("notification delivery failed")
)

// IsIgnorable reports whether err ends an event without it being a failure.
func IsIgnorable(err error) bool {
	return errors.Is(err, ErrUnrecognizedEventType) ||
		errors.Is(err, ErrMalformedEvent) ||
		errors.Is(err, ErrMissingPurchaserEmail) ||
		errors.Is(err, ErrUnmappedProduct)
}

// ServiceError wraps errors with additional context.
type ServiceError struct {
	Err     error
	Message string
	Code    string
}

func (e *ServiceError) Error() string {
	if e.Message != "" {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Err.Error()
}

func (e *ServiceError) Unwrap() error {
	return e.Err
}

// NewServiceError creates a new ServiceError.
func NewServiceError(err error, message, code string) *ServiceError {
	return &ServiceError{Err: err, Message: message, Code: code}
}

// CodeOf returns the code of the outermost ServiceError in err, or "".
func CodeOf(err error) string {
	var svcErr *ServiceError
	if errors.As(err, &svcErr) {
		return svcErr.Code
	}
	return ""
}
