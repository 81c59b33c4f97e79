package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Clark-Hu/podcast-registry/internal/domain"
	"github.com/Clark-Hu/podcast-registry/internal/ledger"
	"github.com/Clark-Hu/podcast-registry/internal/registry"
	"github.com/Clark-Hu/podcast-registry/internal/store"
)

// PodcastStore is the Record Registry contract.
type PodcastStore interface {
	Register(ctx context.Context, caller string, fields domain.PodcastFields) (domain.PodcastID, error)
	Get(ctx context.Context, id domain.PodcastID) (domain.Podcast, error)
	Update(ctx context.Context, caller string, id domain.PodcastID, fields domain.PodcastFields) error
}

// RatingStore is the Rating Ledger contract. Implementations do not check that
// the podcast ID is registered.
type RatingStore interface {
	Rate(ctx context.Context, caller string, id domain.PodcastID, rating int) error
	Aggregate(ctx context.Context, id domain.PodcastID) (domain.RatingAggregate, error)
	UserRating(ctx context.Context, user string, id domain.PodcastID) (int, error)
}

// Repository aggregates the podcast and rating stores.
type Repository struct {
	Podcasts PodcastStore
	Ratings  RatingStore
}

// NewMemory constructs a Repository backed by an in-memory registry and ledger.
func NewMemory() *Repository {
	return &Repository{
		Podcasts: &MemoryPodcasts{registry: registry.New()},
		Ratings:  &MemoryRatings{ledger: ledger.New()},
	}
}

// New constructs a Repository backed by the provided store.
func New(st *store.Store) *Repository {
	return NewWithPool(st.Pool())
}

// NewWithPool allows constructing repositories directly from a pgx pool.
func NewWithPool(pool *pgxpool.Pool) *Repository {
	return &Repository{
		Podcasts: &PodcastsRepository{pool: pool},
		Ratings:  &RatingsRepository{pool: pool},
	}
}
