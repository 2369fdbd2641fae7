package discord

import (
	"context"
	"fmt"

	"github.com/bwmarrin/discordgo"
	"github.com/samber/lo"
	"go.uber.org/zap"

	"github.com/simpleai/community-invites/internal/core/domain"
)

// InviteBaseURL prefixes invite codes to form shareable links.
const InviteBaseURL = "https://discord.gg/"

var textCapable = map[discordgo.ChannelType]bool{
	discordgo.ChannelTypeGuildText:       true,
	discordgo.ChannelTypeGuildNews:       true,
	discordgo.ChannelTypeGuildVoice:      true,
	discordgo.ChannelTypeGuildStageVoice: true,
}

// Issuer implements ports.InviteIssuer on top of a Discord session.
type Issuer struct {
	session Session
	logger  *zap.Logger
}

// NewIssuer creates a new invite issuer.
func NewIssuer(session Session, logger *zap.Logger) *Issuer {
	return &Issuer{session: session, logger: logger}
}

// IssueInvite creates a single-use, 24 hour, unique invite on the first eligible channel of the guild.
// Every call creates a distinct invite.
func (i *Issuer) IssueInvite(ctx context.Context, communityID string) (*domain.AccessCredential, error) {
	guild, err := i.session.Guild(communityID)
	if err != nil || guild == nil {
		return nil, domain.NewServiceError(domain.ErrCommunityNotFound,
			"no guild with id "+communityID, "GUILD_NOT_FOUND")
	}

	channel, ok := i.eligibleChannel(guild)
	if !ok {
		return nil, domain.NewServiceError(domain.ErrNoEligibleChannel,
			"no visible text channel in guild "+communityID, "NO_TEXT_CHANNEL")
	}

	invite, err := i.session.CreateInvite(ctx, channel.ID, discordgo.Invite{
		MaxUses: domain.InviteMaxUses,
		MaxAge:  int(domain.InviteMaxAge.Seconds()),
		Unique:  true,
	})
	if err != nil {
		return nil, domain.NewServiceError(domain.ErrInviteCreationFailed,
			fmt.Sprintf("channel %s: %v", channel.ID, err), "INVITE_ERROR")
	}

	cred := &domain.AccessCredential{
		URL:       InviteBaseURL + invite.Code,
		Code:      invite.Code,
		ChannelID: channel.ID,
		MaxUses:   domain.InviteMaxUses,
		MaxAge:    domain.InviteMaxAge,
		Unique:    true,
	}

	i.logger.Info("Invite created",
		zap.String("guild_id", communityID),
		zap.String("channel_id", channel.ID),
		zap.String("url", cred.URL),
	)

	return cred, nil
}

// eligibleChannel picks the top-most text-capable channel the bot can view.
func (i *Issuer) eligibleChannel(guild *discordgo.Guild) (*discordgo.Channel, bool) {
	candidates := lo.Filter(guild.Channels, func(ch *discordgo.Channel, _ int) bool {
		return ch != nil && textCapable[ch.Type] && i.viewable(ch.ID)
	})
	if len(candidates) == 0 {
		return nil, false
	}

	return lo.MinBy(candidates, func(a, b *discordgo.Channel) bool {
		if a.Position != b.Position {
			return a.Position < b.Position
		}
		return a.ID < b.ID
	}), true
}

func (i *Issuer) viewable(channelID string) bool {
	perms, err := i.session.BotPermissions(channelID)
	if err != nil {
		i.logger.Debug("Cannot compute channel permissions", zap.String("channel_id", channelID), zap.Error(err))
		return false
	}
	return perms&discordgo.PermissionViewChannel != 0
}
