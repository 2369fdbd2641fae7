package service

import (
	"fmt"

	"github.com/samber/lo"

	"github.com/simpleai/community-invites/internal/core/domain"
)

// Resolver maps purchased items to communities through an ordered routing table.
type Resolver struct {
	routes []domain.CommunityRoute
}

// NewResolver validates the routing table.
// Every match key must be unique so an item resolves to at most one community.
func NewResolver(routes []domain.CommunityRoute) (*Resolver, error) {
	for i, route := range routes {
		if route.MatchKey == "" || route.CommunityID == "" {
			return nil, fmt.Errorf("route %d: match key and community id are required", i)
		}
		if !route.Locale.Valid() {
			return nil, fmt.Errorf("route %d: %w: %q", i, domain.ErrUnsupportedLocale, route.Locale)
		}
	}

	if dups := lo.FindDuplicatesBy(routes, func(r domain.CommunityRoute) string { return r.MatchKey }); len(dups) > 0 {
		return nil, fmt.Errorf("duplicate match key %q", dups[0].MatchKey)
	}

	return &Resolver{routes: append([]domain.CommunityRoute(nil), routes...)}, nil
}

// Resolve returns the target configured for purchasedItemID.
func (r *Resolver) Resolve(purchasedItemID string) (domain.CommunityTarget, bool) {
	route, ok := lo.Find(r.routes, func(route domain.CommunityRoute) bool {
		return route.MatchKey == purchasedItemID
	})
	if !ok {
		return domain.CommunityTarget{}, false
	}
	return domain.CommunityTarget{CommunityID: route.CommunityID, Locale: route.Locale}, true
}
