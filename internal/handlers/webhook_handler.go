// Package handlers contains the HTTP handlers for the invite service.
package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/simpleai/community-invites/internal/core/domain"
	"github.com/simpleai/community-invites/internal/core/service"
	"github.com/simpleai/community-invites/internal/logger"
)

// maxWebhookBody bounds the raw body read before signature verification.
const maxWebhookBody = 1 << 20

// SignatureHeader is the header Stripe signs webhook payloads with.
const SignatureHeader = "Stripe-Signature"

// WebhookProcessor runs one webhook call to completion.
type WebhookProcessor interface {
	Handle(ctx context.Context, payload []byte, signatureHeader string) service.Run
}

// WebhookHandler handles HTTP requests from the payment gateway.
type WebhookHandler struct {
	processor    WebhookProcessor
	ackOnFailure bool
	logger       *zap.Logger
}

// NewWebhookHandler creates a new webhook handler.
// With ackOnFailure set, failures after signature verification still answer 200.
func NewWebhookHandler(processor WebhookProcessor, ackOnFailure bool, logger *zap.Logger) *WebhookHandler {
	return &WebhookHandler{processor: processor, ackOnFailure: ackOnFailure, logger: logger}
}

// HandleWebhook handles POST /webhook
// Verifies the Stripe signature over the raw body and runs the invite pipeline.
func (h *WebhookHandler) HandleWebhook(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxWebhookBody)
	payload, err := c.GetRawData()
	if err != nil {
		logger.FromContext(c.Request.Context(), h.logger).Warn("Failed to read webhook body", zap.Error(err))
		c.String(http.StatusBadRequest, "Webhook Error: %s", err.Error())
		return
	}

	// Once the invite is minted the buyer must get the email, even if the caller hangs up.
	ctx := context.WithoutCancel(c.Request.Context())
	run := h.processor.Handle(ctx, payload, c.GetHeader(SignatureHeader))

	if run.SignatureRejected() {
		c.String(http.StatusBadRequest, "Webhook Error: %s", signatureMessage(run.Reason))
		return
	}

	// Stripe retries non-2xx responses, and a retry would mint a second invite.
	if run.State == service.StateFailed && !h.ackOnFailure {
		c.JSON(http.StatusInternalServerError, gin.H{
			"received": true,
			"error":    run.Reason.Error(),
			"code":     domain.CodeOf(run.Reason),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"received": true})
}

// Health handles GET /health
func (h *WebhookHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"service": "community-invites",
	})
}

// signatureMessage returns the verifier's reason without the sentinel suffix.
func signatureMessage(err error) string {
	var svcErr *domain.ServiceError
	if errors.As(err, &svcErr) && svcErr.Message != "" {
		return svcErr.Message
	}
	return err.Error()
}
