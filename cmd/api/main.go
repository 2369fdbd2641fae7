// Community invite service
//
// Receives Stripe checkout webhooks, mints a single-use Discord invite for the
// purchased product's community and emails it to the buyer.
package main

import (
	"context"
	"errors"
	"log"
	"net"
	"net/http"

	"github.com/bwmarrin/discordgo"
	"github.com/gin-gonic/gin"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"

	"github.com/simpleai/community-invites/config"
	"github.com/simpleai/community-invites/internal/adapters/discord"
	"github.com/simpleai/community-invites/internal/adapters/mail"
	stripeadapter "github.com/simpleai/community-invites/internal/adapters/stripe"
	"github.com/simpleai/community-invites/internal/core/ports"
	"github.com/simpleai/community-invites/internal/core/service"
	"github.com/simpleai/community-invites/internal/handlers"
	"github.com/simpleai/community-invites/internal/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Configuration error: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Configuration error: %v", err)
	}

	app := fx.New(
		fx.Supply(cfg),
		fx.Provide(
			provideLogger,

			// Payment gateway
			fx.Annotate(provideVerifier, fx.As(new(ports.SignatureVerifier))),
			fx.Annotate(stripeadapter.NewClassifier, fx.As(new(ports.EventClassifier))),

			// Routing
			fx.Annotate(provideResolver, fx.As(new(ports.CommunityResolver))),

			// Chat platform
			provideDiscordSession,
			fx.Annotate(discord.NewLiveSession, fx.As(new(discord.Session))),
			fx.Annotate(discord.NewIssuer, fx.As(new(ports.InviteIssuer))),

			// Mail
			fx.Annotate(provideSMTPTransport, fx.As(new(ports.MailTransport))),
			fx.Annotate(provideDispatcher, fx.As(new(ports.Notifier))),

			// Pipeline and HTTP
			service.NewPipeline,
			provideWebhookHandler,
			provideRouter,
		),
		fx.WithLogger(func(l *zap.Logger) fxevent.Logger {
			return &fxevent.ZapLogger{Logger: l}
		}),
		fx.Invoke(startServer),
	)

	app.Run()
}

func provideLogger(lc fx.Lifecycle, cfg *config.Config) (*zap.Logger, error) {
	l, err := logger.New(cfg.Log.Env)
	if err != nil {
		return nil, err
	}
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			_ = l.Sync()
			return nil
		},
	})
	return l, nil
}

func provideVerifier(cfg *config.Config, l *zap.Logger) *stripeadapter.WebhookValidator {
	return stripeadapter.NewWebhookValidator(cfg.Stripe.WebhookSecret, l)
}

func provideResolver(cfg *config.Config, l *zap.Logger) (*service.Resolver, error) {
	routes := cfg.Routes()
	for _, r := range routes {
		l.Info("Community route configured",
			zap.String("payment_link", r.MatchKey),
			zap.String("guild_id", r.CommunityID),
			zap.String("locale", string(r.Locale)),
		)
	}
	return service.NewResolver(routes)
}

// provideDiscordSession opens the gateway on start and closes it on stop.
func provideDiscordSession(lc fx.Lifecycle, cfg *config.Config, l *zap.Logger) (*discordgo.Session, error) {
	s, err := discord.NewBotSession(cfg.Discord.BotToken, cfg.Discord.Activity, l)
	if err != nil {
		return nil, err
	}
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			l.Info("Connecting to Discord...")
			return s.Open()
		},
		OnStop: func(ctx context.Context) error {
			l.Info("Closing Discord session...")
			return s.Close()
		},
	})
	return s, nil
}

func provideSMTPTransport(cfg *config.Config) (*mail.SMTPTransport, error) {
	return mail.NewSMTPTransport(mail.SMTPConfig{
		Host:      cfg.Mail.Host,
		Port:      cfg.Mail.Port,
		Secure:    cfg.Mail.Secure,
		Plaintext: cfg.Mail.Plaintext,
		Username:  cfg.Mail.User,
		Password:  cfg.Mail.Pass,
		Timeout:   cfg.Mail.Timeout,
	})
}

func provideDispatcher(cfg *config.Config, transport ports.MailTransport, l *zap.Logger) *mail.Dispatcher {
	return mail.NewDispatcher(mail.DispatcherConfig{
		FromName:         cfg.Mail.FromName,
		FromAddress:      cfg.Mail.FromAddress,
		BillingPortalURL: cfg.Mail.BillingPortalURL,
		SupportContact:   cfg.Mail.SupportContact,
	}, transport, l)
}

func provideWebhookHandler(cfg *config.Config, pipeline *service.Pipeline, l *zap.Logger) *handlers.WebhookHandler {
	return handlers.NewWebhookHandler(pipeline, cfg.Pipeline.AckOnFailure, l)
}

func provideRouter(cfg *config.Config, handler *handlers.WebhookHandler, l *zap.Logger) *gin.Engine {
	return handlers.SetupRouter(handler, cfg.Server.GinMode, l)
}

func startServer(lc fx.Lifecycle, cfg *config.Config, router *gin.Engine, l *zap.Logger) {
	srv := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: router,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			ln, err := net.Listen("tcp", srv.Addr)
			if err != nil {
				return err
			}
			l.Info("Webhook server listening", zap.String("addr", srv.Addr))
			go func() {
				if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
					l.Error("Server error", zap.Error(err))
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			l.Info("Shutting down server...")
			return srv.Shutdown(ctx)
		},
	})
}
