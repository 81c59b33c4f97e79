package domain

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAverageRating(t *testing.T) {
	tests := []struct {
		name  string
		total int64
		count int64
		want  float64
	}{
		{"no votes", 0, 0, 0},
		{"single", 4, 1, 4},
		{"half", 9, 2, 4.5},
		{"truncates thirds", 14, 3, 4.66},
		{"truncates low thirds", 5, 3, 1.66},
		{"two thirds", 2, 3, 0.66},
		{"exact", 15, 3, 5},
		{"sevenths", 20, 7, 2.85},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, AverageRating(tt.total, tt.count))
		})
	}
}

func TestRatingTotalsAdd(t *testing.T) {
	totals := RatingTotals{}
	for _, r := range []int{1, 2, 2} {
		totals = totals.Add(r)
	}
	assert.Equal(t, RatingTotals{TotalRating: 5, NumRatings: 3}, totals)
	assert.Equal(t, RatingAggregate{AverageRating: 1.66, NumRatings: 3}, totals.Aggregate())
}

func TestValidRating(t *testing.T) {
	for r := 1; r <= 5; r++ {
		assert.True(t, ValidRating(r), "rating %d", r)
	}
	for _, r := range []int{-1, 0, 6, 100} {
		assert.False(t, ValidRating(r), "rating %d", r)
	}
}

func TestParsePodcastID(t *testing.T) {
	id, err := ParsePodcastID("42")
	require.NoError(t, err)
	assert.Equal(t, PodcastID(42), id)
	assert.Equal(t, "42", id.String())

	for _, raw := range []string{"", "-1", "abc", "1.5", "99999999999999999999"} {
		_, err := ParsePodcastID(raw)
		assert.Error(t, err, "raw %q", raw)
	}
}

func TestErrorCodes(t *testing.T) {
	wrapped := fmt.Errorf("update podcast: %w", ErrOwnerOnly)
	assert.True(t, errors.Is(wrapped, ErrOwnerOnly))
	assert.False(t, errors.Is(wrapped, ErrNotFound))

	var domainErr *Error
	require.True(t, errors.As(wrapped, &domainErr))
	assert.Equal(t, "ERR_OWNER_ONLY", domainErr.Code())

	assert.Equal(t, "ERR_NOT_FOUND", ErrNotFound.Code())
	assert.Equal(t, "ERR_INVALID_RATING", ErrInvalidRating.Code())
	assert.Equal(t, "ERR_ALREADY_VOTED", ErrAlreadyVoted.Code())
}
