package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/simpleai/community-invites/internal/core/domain"
)

var testRoutes = []domain.CommunityRoute{
	{MatchKey: "plink_de", CommunityID: "guild_de", Locale: domain.LocaleDE},
	{MatchKey: "plink_en", CommunityID: "guild_en", Locale: domain.LocaleEN},
}

func TestResolver_Resolve(t *testing.T) {
	r, err := NewResolver(testRoutes)
	require.NoError(t, err)

	target, ok := r.Resolve("plink_de")
	assert.True(t, ok)
	assert.Equal(t, domain.CommunityTarget{CommunityID: "guild_de", Locale: domain.LocaleDE}, target)

	target, ok = r.Resolve("plink_en")
	assert.True(t, ok)
	assert.Equal(t, domain.LocaleEN, target.Locale)

	_, ok = r.Resolve("plink_unknown")
	assert.False(t, ok)

	_, ok = r.Resolve("")
	assert.False(t, ok)
}

func TestResolver_CopiesTable(t *testing.T) {
	routes := append([]domain.CommunityRoute(nil), testRoutes...)
	r, err := NewResolver(routes)
	require.NoError(t, err)

	routes[0].CommunityID = "changed"
	target, _ := r.Resolve("plink_de")
	assert.Equal(t, "guild_de", target.CommunityID)
}

func TestNewResolver_Invalid(t *testing.T) {
	tests := []struct {
		name   string
		routes []domain.CommunityRoute
	}{
		{"empty match key", []domain.CommunityRoute{{CommunityID: "g", Locale: domain.LocaleDE}}},
		{"empty community", []domain.CommunityRoute{{MatchKey: "p", Locale: domain.LocaleDE}}},
		{"bad locale", []domain.CommunityRoute{{MatchKey: "p", CommunityID: "g", Locale: "fr"}}},
		{"duplicate key", []domain.CommunityRoute{
			{MatchKey: "p", CommunityID: "g1", Locale: domain.LocaleDE},
			{MatchKey: "p", CommunityID: "g2", Locale: domain.LocaleEN},
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewResolver(tt.routes)
			assert.Error(t, err)
		})
	}
}
