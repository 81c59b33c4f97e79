package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Clark-Hu/podcast-registry/internal/domain"
)

// RatingsRepository stores votes and per-podcast totals in Postgres.
type RatingsRepository struct {
	pool *pgxpool.Pool
}

// Rate records caller's vote and folds it into the podcast totals in a single
// transaction. Nothing is written when the rating is invalid or the caller has
// already voted.
func (r *RatingsRepository) Rate(ctx context.Context, caller string, id domain.PodcastID, rating int) error {
	if !domain.ValidRating(rating) {
		return domain.ErrInvalidRating
	}

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin rate: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	const insertVote = `
        INSERT INTO user_ratings (user_id, podcast_id, rating)
        VALUES ($1,$2,$3)
        ON CONFLICT (user_id, podcast_id) DO NOTHING
    `
	tag, err := tx.Exec(ctx, insertVote, caller, int64(id), rating)
	if err != nil {
		return fmt.Errorf("insert vote: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrAlreadyVoted
	}

	const upsertTotals = `
        INSERT INTO podcast_ratings (podcast_id, total_rating, num_ratings)
        VALUES ($1,$2,1)
        ON CONFLICT (podcast_id)
        DO UPDATE SET total_rating = podcast_ratings.total_rating + EXCLUDED.total_rating,
                      num_ratings = podcast_ratings.num_ratings + 1
    `
	if _, err := tx.Exec(ctx, upsertTotals, int64(id), rating); err != nil {
		return fmt.Errorf("update totals: %w", err)
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit rate: %w", err)
	}
	return nil
}

// Aggregate returns the truncated average and count for a podcast.
func (r *RatingsRepository) Aggregate(ctx context.Context, id domain.PodcastID) (domain.RatingAggregate, error) {
	const query = `
        SELECT total_rating, num_ratings
        FROM podcast_ratings
        WHERE podcast_id = $1
    `

	var totals domain.RatingTotals
	err := r.pool.QueryRow(ctx, query, int64(id)).Scan(&totals.TotalRating, &totals.NumRatings)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.RatingAggregate{}, domain.ErrNotFound
		}
		return domain.RatingAggregate{}, fmt.Errorf("aggregate ratings: %w", err)
	}
	return totals.Aggregate(), nil
}

// UserRating retrieves the vote a user cast for a podcast.
func (r *RatingsRepository) UserRating(ctx context.Context, user string, id domain.PodcastID) (int, error) {
	const query = `
        SELECT rating
        FROM user_ratings
        WHERE user_id = $1 AND podcast_id = $2
    `
	var rating int
	err := r.pool.QueryRow(ctx, query, user, int64(id)).Scan(&rating)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, domain.ErrNotFound
		}
		return 0, fmt.Errorf("get user rating: %w", err)
	}
	return rating, nil
}
