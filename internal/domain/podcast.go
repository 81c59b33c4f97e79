package domain

import (
	"fmt"
	"strconv"
)

// PodcastID identifies a registered podcast. IDs are assigned sequentially from 0.
type PodcastID uint64

// String renders the identifier in base 10.
func (id PodcastID) String() string {
	return strconv.FormatUint(uint64(id), 10)
}

// ParsePodcastID parses a non-negative base-10 identifier.
func ParsePodcastID(raw string) (PodcastID, error) {
	v, err := strconv.ParseUint(raw, 10, 63)
	if err != nil {
		return 0, fmt.Errorf("invalid podcast id %q", raw)
	}
	return PodcastID(v), nil
}

// Podcast is a registered record. Owner is fixed at registration.
type Podcast struct {
	ID          PodcastID
	Owner       string
	Name        string
	Description string
	FeedURL     string
}

// PodcastFields bundles the owner-mutable fields. Every update replaces all three.
type PodcastFields struct {
	Name        string
	Description string
	FeedURL     string
}
