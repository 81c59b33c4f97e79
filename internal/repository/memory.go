package repository

import (
	"context"

	"github.com/Clark-Hu/podcast-registry/internal/domain"
	"github.com/Clark-Hu/podcast-registry/internal/ledger"
	"github.com/Clark-Hu/podcast-registry/internal/registry"
)

// MemoryPodcasts adapts a registry.Registry to PodcastStore.
type MemoryPodcasts struct {
	registry *registry.Registry
}

func (m *MemoryPodcasts) Register(_ context.Context, caller string, fields domain.PodcastFields) (domain.PodcastID, error) {
	return m.registry.Register(caller, fields), nil
}

func (m *MemoryPodcasts) Get(_ context.Context, id domain.PodcastID) (domain.Podcast, error) {
	return m.registry.Get(id)
}

func (m *MemoryPodcasts) Update(_ context.Context, caller string, id domain.PodcastID, fields domain.PodcastFields) error {
	return m.registry.Update(caller, id, fields)
}

// MemoryRatings adapts a ledger.Ledger to RatingStore.
type MemoryRatings struct {
	ledger *ledger.Ledger
}

func (m *MemoryRatings) Rate(_ context.Context, caller string, id domain.PodcastID, rating int) error {
	return m.ledger.Rate(caller, id, rating)
}

func (m *MemoryRatings) Aggregate(_ context.Context, id domain.PodcastID) (domain.RatingAggregate, error) {
	return m.ledger.Aggregate(id)
}

func (m *MemoryRatings) UserRating(_ context.Context, user string, id domain.PodcastID) (int, error) {
	return m.ledger.UserRating(user, id)
}
