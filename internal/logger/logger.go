// Package logger builds the zap logger and carries request-scoped loggers through contexts.
package logger

import (
	"context"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// RequestIDKey is the gin context key holding the request id.
const RequestIDKey = "request_id"

type ctxKey struct{}

// New builds a logger for the given environment.
// "production" emits JSON with ISO8601 timestamps; anything else uses the development console encoder.
func New(env string) (*zap.Logger, error) {
	var config zap.Config

	if env == "production" {
		config = zap.NewProductionConfig()
		config.EncoderConfig.TimeKey = "timestamp"
		config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	} else {
		config = zap.NewDevelopmentConfig()
		config.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}

	return config.Build()
}

// WithRequestID returns a context whose logger is tagged with requestID.
func WithRequestID(ctx context.Context, base *zap.Logger, requestID string) context.Context {
	return context.WithValue(ctx, ctxKey{}, base.With(zap.String(RequestIDKey, requestID)))
}

// FromContext returns the request logger stored in ctx, or fallback.
func FromContext(ctx context.Context, fallback *zap.Logger) *zap.Logger {
	if l, ok := ctx.Value(ctxKey{}).(*zap.Logger); ok {
		return l
	}
	return fallback
}
