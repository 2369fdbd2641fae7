// Package discord issues community invites through a Discord bot session.
package discord

import (
	"context"

	"github.com/bwmarrin/discordgo"
	"go.uber.org/zap"
)

// Session is the part of the Discord client the issuer needs.
// Lookups read the gateway state cache; only CreateInvite hits the REST API.
type Session interface {
	// Guild returns the cached guild, or an error if the bot is not a member.
	Guild(guildID string) (*discordgo.Guild, error)

	// BotPermissions returns the bot's effective permissions on a channel.
	BotPermissions(channelID string) (int64, error)

	// CreateInvite creates an invite on a channel.
	CreateInvite(ctx context.Context, channelID string, invite discordgo.Invite) (*discordgo.Invite, error)
}

// LiveSession adapts a connected *discordgo.Session to Session.
type LiveSession struct {
	s *discordgo.Session
}

// NewLiveSession wraps an existing discordgo session.
func NewLiveSession(s *discordgo.Session) *LiveSession {
	return &LiveSession{s: s}
}

func (l *LiveSession) Guild(guildID string) (*discordgo.Guild, error) {
	return l.s.State.Guild(guildID)
}

func (l *LiveSession) BotPermissions(channelID string) (int64, error) {
	return l.s.State.UserChannelPermissions(l.s.State.User.ID, channelID)
}

func (l *LiveSession) CreateInvite(ctx context.Context, channelID string, invite discordgo.Invite) (*discordgo.Invite, error) {
	return l.s.ChannelInviteCreate(channelID, invite, discordgo.WithContext(ctx))
}

// NewBotSession creates a bot session with the guild and invite intents.
// The session is not connected; call Open to start the gateway.
func NewBotSession(token, activity string, logger *zap.Logger) (*discordgo.Session, error) {
	s, err := discordgo.New("Bot " + token)
	if err != nil {
		return nil, err
	}

	s.Identify.Intents = discordgo.IntentsGuilds | discordgo.IntentsGuildInvites

	s.AddHandler(func(s *discordgo.Session, r *discordgo.Ready) {
		logger.Info("Discord session ready",
			zap.String("user", r.User.String()),
			zap.Int("guilds", len(r.Guilds)),
		)
		for _, g := range r.Guilds {
			logger.Debug("Discord guild available", zap.String("guild_id", g.ID))
		}
		if activity != "" {
			if err := s.UpdateGameStatus(0, activity); err != nil {
				logger.Warn("Failed to set Discord activity", zap.Error(err))
			}
		}
	})

	s.AddHandler(func(s *discordgo.Session, g *discordgo.GuildCreate) {
		logger.Info("Bot is in guild", zap.String("guild", g.Name), zap.String("guild_id", g.ID))
	})

	return s, nil
}
