package repository

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/patrickmn/go-cache"

	"github.com/Clark-Hu/podcast-registry/internal/domain"
)

// CachedRatings serves Aggregate from a TTL cache in front of another
// RatingStore. Every Rate evicts the podcast's entry, accepted or not.
//
// Each podcast has a generation that Rate bumps before and after writing. A
// fill only lands when the generation is unchanged since the read began, so an
// aggregate read before a concurrent Rate is never cached after it.
type CachedRatings struct {
	next  RatingStore
	cache *cache.Cache

	mu   sync.Mutex
	gens map[domain.PodcastID]uint64
}

// NewCachedRatings wraps next with an aggregate cache of the given TTL.
func NewCachedRatings(next RatingStore, ttl time.Duration, logger *log.Logger) *CachedRatings {
	if logger == nil {
		logger = log.Default()
	}
	logger.Printf("repository: aggregate cache enabled (ttl=%s)", ttl)
	return &CachedRatings{
		next:  next,
		cache: cache.New(ttl, 2*ttl),
		gens:  make(map[domain.PodcastID]uint64),
	}
}

func (c *CachedRatings) Rate(ctx context.Context, caller string, id domain.PodcastID, rating int) error {
	c.invalidate(id)
	err := c.next.Rate(ctx, caller, id, rating)
	c.invalidate(id)
	return err
}

func (c *CachedRatings) Aggregate(ctx context.Context, id domain.PodcastID) (domain.RatingAggregate, error) {
	key := id.String()
	if cached, found := c.cache.Get(key); found {
		return cached.(domain.RatingAggregate), nil
	}

	c.mu.Lock()
	gen := c.gens[id]
	c.mu.Unlock()

	agg, err := c.next.Aggregate(ctx, id)
	if err != nil {
		return domain.RatingAggregate{}, err
	}

	c.mu.Lock()
	if c.gens[id] == gen {
		c.cache.Set(key, agg, cache.DefaultExpiration)
	}
	c.mu.Unlock()
	return agg, nil
}

func (c *CachedRatings) UserRating(ctx context.Context, user string, id domain.PodcastID) (int, error) {
	return c.next.UserRating(ctx, user, id)
}

func (c *CachedRatings) invalidate(id domain.PodcastID) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gens[id]++
	c.cache.Delete(id.String())
}

// WithAggregateCache wraps the rating store when ttl is positive.
func (r *Repository) WithAggregateCache(ttl time.Duration, logger *log.Logger) *Repository {
	if ttl <= 0 {
		return r
	}
	return &Repository{
		Podcasts: r.Podcasts,
		Ratings:  NewCachedRatings(r.Ratings, ttl, logger),
	}
}
