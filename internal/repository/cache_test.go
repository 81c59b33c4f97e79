package repository

import (
	"context"
	"errors"
	"io"
	"log"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Clark-Hu/podcast-registry/internal/domain"
)

type countingRatings struct {
	RatingStore
	aggregateCalls int
}

func (c *countingRatings) Aggregate(ctx context.Context, id domain.PodcastID) (domain.RatingAggregate, error) {
	c.aggregateCalls++
	return c.RatingStore.Aggregate(ctx, id)
}

func newCounting() *countingRatings {
	return &countingRatings{RatingStore: NewMemory().Ratings}
}

func TestCachedRatings_ServesFromCache(t *testing.T) {
	ctx := context.Background()
	inner := newCounting()
	cached := NewCachedRatings(inner, time.Minute, log.New(io.Discard, "", 0))

	require.NoError(t, cached.Rate(ctx, "user1", 1, 4))

	for i := 0; i < 3; i++ {
		agg, err := cached.Aggregate(ctx, 1)
		require.NoError(t, err)
		assert.Equal(t, domain.RatingAggregate{AverageRating: 4, NumRatings: 1}, agg)
	}
	assert.Equal(t, 1, inner.aggregateCalls)
}

func TestCachedRatings_RateEvicts(t *testing.T) {
	ctx := context.Background()
	inner := newCounting()
	cached := NewCachedRatings(inner, time.Minute, log.New(io.Discard, "", 0))

	require.NoError(t, cached.Rate(ctx, "user1", 1, 4))
	_, err := cached.Aggregate(ctx, 1)
	require.NoError(t, err)

	require.NoError(t, cached.Rate(ctx, "user2", 1, 5))
	agg, err := cached.Aggregate(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, domain.RatingAggregate{AverageRating: 4.5, NumRatings: 2}, agg)
	assert.Equal(t, 2, inner.aggregateCalls)
}

func TestCachedRatings_RejectedVoteReloads(t *testing.T) {
	ctx := context.Background()
	inner := newCounting()
	cached := NewCachedRatings(inner, time.Minute, log.New(io.Discard, "", 0))

	require.NoError(t, cached.Rate(ctx, "user1", 1, 4))
	_, _ = cached.Aggregate(ctx, 1)

	assert.True(t, errors.Is(cached.Rate(ctx, "user1", 1, 2), domain.ErrAlreadyVoted))
	agg, err := cached.Aggregate(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, domain.RatingAggregate{AverageRating: 4, NumRatings: 1}, agg)
	assert.Equal(t, 2, inner.aggregateCalls)
}

func TestCachedRatings_NotFoundIsNotCached(t *testing.T) {
	ctx := context.Background()
	inner := newCounting()
	cached := NewCachedRatings(inner, time.Minute, log.New(io.Discard, "", 0))

	_, err := cached.Aggregate(ctx, 9)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	require.NoError(t, cached.Rate(ctx, "user1", 9, 3))
	agg, err := cached.Aggregate(ctx, 9)
	require.NoError(t, err)
	assert.Equal(t, int64(1), agg.NumRatings)
}

// pausedRatings blocks Aggregate after it has read the totals until release is closed.
type pausedRatings struct {
	RatingStore
	read    chan struct{}
	release chan struct{}
}

func (p *pausedRatings) Aggregate(ctx context.Context, id domain.PodcastID) (domain.RatingAggregate, error) {
	agg, err := p.RatingStore.Aggregate(ctx, id)
	p.read <- struct{}{}
	<-p.release
	return agg, err
}

func TestCachedRatings_RateDuringFillIsNotMasked(t *testing.T) {
	ctx := context.Background()
	inner := &pausedRatings{
		RatingStore: NewMemory().Ratings,
		read:        make(chan struct{}, 4),
		release:     make(chan struct{}),
	}
	cached := NewCachedRatings(inner, time.Minute, log.New(io.Discard, "", 0))

	require.NoError(t, cached.Rate(ctx, "user1", 1, 4))

	done := make(chan domain.RatingAggregate, 1)
	go func() {
		agg, err := cached.Aggregate(ctx, 1)
		assert.NoError(t, err)
		done <- agg
	}()

	<-inner.read
	require.NoError(t, cached.Rate(ctx, "user2", 1, 5))
	close(inner.release)

	assert.Equal(t, domain.RatingAggregate{AverageRating: 4, NumRatings: 1}, <-done)

	agg, err := cached.Aggregate(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, domain.RatingAggregate{AverageRating: 4.5, NumRatings: 2}, agg)
}

func TestWithAggregateCache(t *testing.T) {
	repo := NewMemory()
	assert.Same(t, repo, repo.WithAggregateCache(0, nil))

	wrapped := repo.WithAggregateCache(time.Second, log.New(io.Discard, "", 0))
	assert.Same(t, repo.Podcasts, wrapped.Podcasts)
	_, ok := wrapped.Ratings.(*CachedRatings)
	assert.True(t, ok)
}
