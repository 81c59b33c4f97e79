package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Clark-Hu/podcast-registry/internal/domain"
)

// PodcastsRepository provides persistence helpers for podcast records.
type PodcastsRepository struct {
	pool *pgxpool.Pool
}

const podcastColumns = `
    id,
    owner,
    name,
    description,
    feed_url
`

// Register inserts a new podcast row owned by caller and returns its ID.
func (r *PodcastsRepository) Register(ctx context.Context, caller string, fields domain.PodcastFields) (domain.PodcastID, error) {
	const query = `
        INSERT INTO podcasts (owner, name, description, feed_url)
        VALUES ($1,$2,$3,$4)
        RETURNING id
    `

	var id int64
	if err := r.pool.QueryRow(ctx, query, caller, fields.Name, fields.Description, fields.FeedURL).Scan(&id); err != nil {
		return 0, fmt.Errorf("insert podcast: %w", err)
	}
	return domain.PodcastID(id), nil
}

// Get fetches a podcast by its identifier.
func (r *PodcastsRepository) Get(ctx context.Context, id domain.PodcastID) (domain.Podcast, error) {
	query := fmt.Sprintf(`SELECT %s FROM podcasts WHERE id = $1`, podcastColumns)
	podcast, err := scanPodcast(r.pool.QueryRow(ctx, query, int64(id)))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Podcast{}, domain.ErrNotFound
		}
		return domain.Podcast{}, fmt.Errorf("get podcast: %w", err)
	}
	return podcast, nil
}

// Update replaces name, description and feed_url. The owner row is locked for
// the duration of the check so a concurrent update cannot interleave.
func (r *PodcastsRepository) Update(ctx context.Context, caller string, id domain.PodcastID, fields domain.PodcastFields) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin update: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var owner string
	err = tx.QueryRow(ctx, `SELECT owner FROM podcasts WHERE id = $1 FOR UPDATE`, int64(id)).Scan(&owner)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("lock podcast: %w", err)
	}
	if owner != caller {
		return domain.ErrOwnerOnly
	}

	const query = `
        UPDATE podcasts
        SET name = $2,
            description = $3,
            feed_url = $4,
            updated_at = now()
        WHERE id = $1
    `
	if _, err := tx.Exec(ctx, query, int64(id), fields.Name, fields.Description, fields.FeedURL); err != nil {
		return fmt.Errorf("update podcast: %w", err)
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit update: %w", err)
	}
	return nil
}

func scanPodcast(row pgx.Row) (domain.Podcast, error) {
	var (
		podcast domain.Podcast
		id      int64
	)
	err := row.Scan(
		&id,
		&podcast.Owner,
		&podcast.Name,
		&podcast.Description,
		&podcast.FeedURL,
	)
	if err != nil {
		return domain.Podcast{}, err
	}
	podcast.ID = domain.PodcastID(id)
	return podcast, nil
}
