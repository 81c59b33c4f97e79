// Package ledger records one-time user ratings and their per-podcast totals.
package ledger

import (
	"sync"

	"github.com/Clark-Hu/podcast-registry/internal/domain"
)

type voteKey struct {
	user string
	id   domain.PodcastID
}

// Ledger accumulates ratings in memory. It does not check that a podcast ID
// was ever registered.
type Ledger struct {
	mu     sync.Mutex
	totals map[domain.PodcastID]domain.RatingTotals
	votes  map[voteKey]int
}

// New returns an empty ledger.
func New() *Ledger {
	return &Ledger{
		totals: make(map[domain.PodcastID]domain.RatingTotals),
		votes:  make(map[voteKey]int),
	}
}

// Rate casts caller's vote for id. A user may rate a podcast once.
func (l *Ledger) Rate(caller string, id domain.PodcastID, rating int) error {
	if !domain.ValidRating(rating) {
		return domain.ErrInvalidRating
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	key := voteKey{user: caller, id: id}
	if _, voted := l.votes[key]; voted {
		return domain.ErrAlreadyVoted
	}
	l.totals[id] = l.totals[id].Add(rating)
	l.votes[key] = rating
	return nil
}

// Aggregate returns the average and count for id, or ErrNotFound when no vote
// has been cast.
func (l *Ledger) Aggregate(id domain.PodcastID) (domain.RatingAggregate, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	totals, ok := l.totals[id]
	if !ok {
		return domain.RatingAggregate{}, domain.ErrNotFound
	}
	return totals.Aggregate(), nil
}

// UserRating returns the rating user gave id.
func (l *Ledger) UserRating(user string, id domain.PodcastID) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	rating, ok := l.votes[voteKey{user: user, id: id}]
	if !ok {
		return 0, domain.ErrNotFound
	}
	return rating, nil
}
