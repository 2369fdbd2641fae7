// Package config handles loading and managing application configuration.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"github.com/samber/lo"

	"github.com/simpleai/community-invites/internal/core/domain"
)

// Config holds all configuration for the application.
type Config struct {
	Server   ServerConfig
	Stripe   StripeConfig
	Discord  DiscordConfig
	Routing  RoutingConfig
	Mail     MailConfig
	Pipeline PipelineConfig
	Log      LogConfig
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Port    string `env:"PORT" envDefault:"3000"`
	GinMode string `env:"GIN_MODE" envDefault:"release"` // "debug", "release", or "test"
}

// StripeConfig holds payment gateway credentials.
type StripeConfig struct {
	// SecretKey is reserved: the service only verifies webhooks and makes no Stripe API calls.
	SecretKey     string `env:"STRIPE_SECRET_KEY"`
	WebhookSecret string `env:"STRIPE_WEBHOOK_SECRET"`
}

// DiscordConfig holds bot settings.
type DiscordConfig struct {
	BotToken string `env:"DISCORD_BOT_TOKEN"`
	Activity string `env:"DISCORD_ACTIVITY" envDefault:"mit dem Code"`
}

// RoutingConfig maps payment links to guilds.
type RoutingConfig struct {
	PaymentLinkGerman  string `env:"PAYMENT_LINK_GERMAN"`
	GuildIDGerman      string `env:"GUILD_ID_GERMAN"`
	PaymentLinkEnglish string `env:"PAYMENT_LINK_ENGLISH"`
	GuildIDEnglish     string `env:"GUILD_ID_ENGLISH"`
}

// MailConfig holds the SMTP relay and message settings.
type MailConfig struct {
	Host             string        `env:"SMTP_HOST" envDefault:"smtp-relay.brevo.com"`
	Port             int           `env:"SMTP_PORT" envDefault:"587"`
	Secure           bool          `env:"SMTP_SECURE" envDefault:"false"`
	Plaintext        bool          `env:"SMTP_PLAINTEXT" envDefault:"false"`
	User             string        `env:"BREVO_USER"`
	Pass             string        `env:"BREVO_PASS"`
	Timeout          time.Duration `env:"SMTP_TIMEOUT" envDefault:"15s"`
	FromName         string        `env:"MAIL_FROM_NAME" envDefault:"SimpleAI - Discord Community"`
	FromAddress      string        `env:"MAIL_FROM_ADDRESS" envDefault:"noreply@simpleai-tools.de"`
	BillingPortalURL string        `env:"BILLING_PORTAL_URL" envDefault:"https://billing.stripe.com/p/login/6oU00i63rffo7ImcxBf7i00"`
	SupportContact   string        `env:"SUPPORT_CONTACT" envDefault:"alex.khr@yahoo.com"`
}

// PipelineConfig holds webhook response policy.
type PipelineConfig struct {
	// AckOnFailure answers 200 even when invite issuance or delivery fails,
	// so Stripe does not retry and mint a second invite.
	AckOnFailure bool `env:"ACK_ON_PIPELINE_FAILURE" envDefault:"true"`
}

// LogConfig selects the logger flavor.
type LogConfig struct {
	Env string `env:"APP_ENV" envDefault:"production"`
}

// Load reads a .env file when present, then environment variables.
func Load(envFiles ...string) (*Config, error) {
	if err := godotenv.Load(envFiles...); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}

// Routes returns the ordered routing table. Rows with a missing key or guild are skipped.
func (c *Config) Routes() []domain.CommunityRoute {
	routes := []domain.CommunityRoute{
		{MatchKey: c.Routing.PaymentLinkGerman, CommunityID: c.Routing.GuildIDGerman, Locale: domain.LocaleDE},
		{MatchKey: c.Routing.PaymentLinkEnglish, CommunityID: c.Routing.GuildIDEnglish, Locale: domain.LocaleEN},
	}
	return lo.Filter(routes, func(r domain.CommunityRoute, _ int) bool {
		return r.MatchKey != "" && r.CommunityID != ""
	})
}

// Validate checks that required configuration values are set.
func (c *Config) Validate() error {
	var errs []error
	if c.Stripe.WebhookSecret == "" {
		errs = append(errs, errors.New("STRIPE_WEBHOOK_SECRET is required"))
	}
	if c.Discord.BotToken == "" {
		errs = append(errs, errors.New("DISCORD_BOT_TOKEN is required"))
	}
	pairs := []struct{ linkVar, link, guildVar, guild string }{
		{"PAYMENT_LINK_GERMAN", c.Routing.PaymentLinkGerman, "GUILD_ID_GERMAN", c.Routing.GuildIDGerman},
		{"PAYMENT_LINK_ENGLISH", c.Routing.PaymentLinkEnglish, "GUILD_ID_ENGLISH", c.Routing.GuildIDEnglish},
	}
	for _, p := range pairs {
		if (p.link == "") != (p.guild == "") {
			errs = append(errs, fmt.Errorf("%s and %s must be set together", p.linkVar, p.guildVar))
		}
	}
	if len(c.Routes()) == 0 {
		errs = append(errs, errors.New("at least one PAYMENT_LINK_*/GUILD_ID_* pair is required"))
	}
	if c.Mail.User == "" || c.Mail.Pass == "" {
		errs = append(errs, errors.New("BREVO_USER and BREVO_PASS are required"))
	}
	return errors.Join(errs...)
}
