package discord

import (
	"testing"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// stateSession builds a discordgo session whose gateway cache holds one guild
// the bot has joined. #hidden sits above #general but denies @everyone view.
func stateSession(t *testing.T) (*discordgo.Session, *discordgo.Guild) {
	t.Helper()

	s := &discordgo.Session{State: discordgo.NewState()}
	s.State.User = &discordgo.User{ID: "bot"}

	guild := &discordgo.Guild{
		ID:      "g1",
		Name:    "Community",
		OwnerID: "owner",
		Roles: []*discordgo.Role{
			{ID: "g1", Name: "@everyone", Permissions: discordgo.PermissionViewChannel | discordgo.PermissionCreateInstantInvite},
		},
		Channels: []*discordgo.Channel{
			{ID: "cat", GuildID: "g1", Type: discordgo.ChannelTypeGuildCategory, Position: 0},
			{
				ID: "hidden", GuildID: "g1", Type: discordgo.ChannelTypeGuildText, Position: 0,
				PermissionOverwrites: []*discordgo.PermissionOverwrite{
					{ID: "g1", Type: discordgo.PermissionOverwriteTypeRole, Deny: discordgo.PermissionViewChannel},
				},
			},
			{ID: "general", GuildID: "g1", Type: discordgo.ChannelTypeGuildText, Position: 1},
		},
	}
	require.NoError(t, s.State.GuildAdd(guild))
	require.NoError(t, s.State.MemberAdd(&discordgo.Member{GuildID: "g1", User: &discordgo.User{ID: "bot"}}))
	return s, guild
}

func TestLiveSession_Guild(t *testing.T) {
	s, _ := stateSession(t)
	live := NewLiveSession(s)

	g, err := live.Guild("g1")
	require.NoError(t, err)
	assert.Equal(t, "Community", g.Name)

	_, err = live.Guild("unknown")
	assert.ErrorIs(t, err, discordgo.ErrStateNotFound)
}

func TestLiveSession_BotPermissions(t *testing.T) {
	s, _ := stateSession(t)
	live := NewLiveSession(s)

	perms, err := live.BotPermissions("general")
	require.NoError(t, err)
	assert.NotZero(t, perms&discordgo.PermissionViewChannel)

	perms, err = live.BotPermissions("hidden")
	require.NoError(t, err)
	assert.Zero(t, perms&discordgo.PermissionViewChannel)

	_, err = live.BotPermissions("missing")
	assert.Error(t, err)
}

func TestLiveSession_EligibleChannelFromState(t *testing.T) {
	s, guild := stateSession(t)
	issuer := NewIssuer(NewLiveSession(s), zap.NewNop())

	cached, err := s.State.Guild(guild.ID)
	require.NoError(t, err)

	ch, ok := issuer.eligibleChannel(cached)
	require.True(t, ok)
	assert.Equal(t, "general", ch.ID)
}
