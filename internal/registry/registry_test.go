package registry

import (
	"fmt"
	"sort"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Clark-Hu/podcast-registry/internal/domain"
)

func fields(name string) domain.PodcastFields {
	return domain.PodcastFields{Name: name, Description: name + " description", FeedURL: "https://example.com/" + name + "/rss"}
}

func TestRegisterAndGet(t *testing.T) {
	r := New()

	id := r.Register("user1", domain.PodcastFields{
		Name:        "My Podcast",
		Description: "A great podcast",
		FeedURL:     "https://mypodcast.com/rss",
	})
	require.Equal(t, domain.PodcastID(0), id)

	got, err := r.Get(0)
	require.NoError(t, err)
	assert.Equal(t, domain.Podcast{
		ID:          0,
		Owner:       "user1",
		Name:        "My Podcast",
		Description: "A great podcast",
		FeedURL:     "https://mypodcast.com/rss",
	}, got)
}

func TestRegisterAssignsSequentialIDs(t *testing.T) {
	r := New()
	for i := 0; i < 10; i++ {
		// duplicates are allowed
		id := r.Register(fmt.Sprintf("user%d", i%3), fields("same"))
		assert.Equal(t, domain.PodcastID(i), id)
	}
	_, err := r.Get(9)
	require.NoError(t, err)
	_, err = r.Get(10)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestGetUnknown(t *testing.T) {
	r := New()
	_, err := r.Get(0)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	r.Register("user1", fields("a"))
	_, err = r.Get(1)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestUpdateByOwner(t *testing.T) {
	r := New()
	id := r.Register("user1", fields("before"))

	require.NoError(t, r.Update("user1", id, fields("after")))

	got, err := r.Get(id)
	require.NoError(t, err)
	assert.Equal(t, "user1", got.Owner)
	assert.Equal(t, "after", got.Name)
	assert.Equal(t, "after description", got.Description)
	assert.Equal(t, "https://example.com/after/rss", got.FeedURL)
	assert.Equal(t, id, got.ID)
}

func TestUpdateByNonOwnerLeavesRecord(t *testing.T) {
	r := New()
	id := r.Register("user1", fields("original"))
	before, err := r.Get(id)
	require.NoError(t, err)

	err = r.Update("user2", id, fields("hijacked"))
	assert.ErrorIs(t, err, domain.ErrOwnerOnly)

	after, err := r.Get(id)
	require.NoError(t, err)
	assert.Equal(t, before, after)
}

func TestUpdateUnknown(t *testing.T) {
	r := New()
	err := r.Update("user1", 7, fields("x"))
	assert.ErrorIs(t, err, domain.ErrNotFound)
	_, err = r.Get(0)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestUpdateDoesNotConsumeIDs(t *testing.T) {
	r := New()
	first := r.Register("user1", fields("a"))
	require.NoError(t, r.Update("user1", first, fields("b")))
	_ = r.Update("user2", first, fields("c"))

	assert.Equal(t, domain.PodcastID(1), r.Register("user1", fields("d")))
}

func TestConcurrentRegister(t *testing.T) {
	r := New()
	const workers = 50

	var (
		wg  sync.WaitGroup
		mu  sync.Mutex
		ids []int
	)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			id := r.Register(fmt.Sprintf("user-%d", i), fields("c"))
			mu.Lock()
			ids = append(ids, int(id))
			mu.Unlock()
		}(i)
	}
	wg.Wait()

	sort.Ints(ids)
	for i, id := range ids {
		assert.Equal(t, i, id)
	}
}
