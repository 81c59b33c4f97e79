// Package registry holds podcast records in memory and assigns their IDs.
package registry

import (
	"sync"

	"github.com/Clark-Hu/podcast-registry/internal/domain"
)

// Registry maps podcast IDs to records. The zero value is not usable; use New.
type Registry struct {
	mu      sync.Mutex
	nextID  domain.PodcastID
	records map[domain.PodcastID]domain.Podcast
}

// New returns an empty registry whose first assigned ID is 0.
func New() *Registry {
	return &Registry{records: make(map[domain.PodcastID]domain.Podcast)}
}

// Register stores a new podcast owned by caller and returns its ID. It never fails.
func (r *Registry) Register(caller string, fields domain.PodcastFields) domain.PodcastID {
	r.mu.Lock()
	defer r.mu.Unlock()

	id := r.nextID
	r.records[id] = domain.Podcast{
		ID:          id,
		Owner:       caller,
		Name:        fields.Name,
		Description: fields.Description,
		FeedURL:     fields.FeedURL,
	}
	r.nextID++
	return id
}

// Get returns the podcast stored under id.
func (r *Registry) Get(id domain.PodcastID) (domain.Podcast, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.records[id]
	if !ok {
		return domain.Podcast{}, domain.ErrNotFound
	}
	return p, nil
}

// Update replaces the mutable fields of the podcast. Only the owner may update.
func (r *Registry) Update(caller string, id domain.PodcastID, fields domain.PodcastFields) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.records[id]
	if !ok {
		return domain.ErrNotFound
	}
	if p.Owner != caller {
		return domain.ErrOwnerOnly
	}
	p.Name = fields.Name
	p.Description = fields.Description
	p.FeedURL = fields.FeedURL
	r.records[id] = p
	return nil
}
