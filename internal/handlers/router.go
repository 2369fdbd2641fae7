// Package handlers contains the HTTP handlers and routing.
package handlers

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// SetupRouter configures the Gin router with all routes.
func SetupRouter(handler *WebhookHandler, ginMode string, log *zap.Logger) *gin.Engine {
	gin.SetMode(ginMode)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(RequestIDMiddleware(log))
	router.Use(RequestLogger(log))

	// Health check (public)
	router.GET("/health", handler.Health)

	// Webhook endpoint (public, validates Stripe-Signature)
	router.POST("/webhook", handler.HandleWebhook)

	return router
}
