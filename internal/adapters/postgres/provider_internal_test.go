package postgres

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inkhouse/backend/internal/content/domain"
	"github.com/inkhouse/backend/internal/content/ports"
)

func TestStatusMapping(t *testing.T) {
	assert.Equal(t, domain.StatusPublished, statusFromPublished(true))
	assert.Equal(t, domain.StatusDraft, statusFromPublished(false))

	assert.True(t, publishedFromStatus(domain.StatusPublished))
	assert.False(t, publishedFromStatus(domain.StatusDraft))
	// No native scheduled concept: stored unpublished.
	assert.False(t, publishedFromStatus(domain.StatusScheduled))
}

func TestParsePostID(t *testing.T) {
	id, err := parsePostID("42")
	assert.NoError(t, err)
	assert.Equal(t, int64(42), id)

	_, err = parsePostID("not-a-number")
	assert.Error(t, err)

	_, err = parsePostID("")
	assert.Error(t, err)
}

func TestDedupeTagNames(t *testing.T) {
	got := dedupeTagNames([]string{" go ", "go", "Go", "", "web", "go"})
	assert.Equal(t, []string{"go", "Go", "web"}, got)
}

func TestDedupeSummaries_PreservesOrder(t *testing.T) {
	rows := []*summaryRow{
		{id: 3}, {id: 1}, {id: 3}, {id: 2}, {id: 1},
	}
	got := dedupeSummaries(rows)
	ids := make([]int64, 0, len(got))
	for _, row := range got {
		ids = append(ids, row.id)
	}
	assert.Equal(t, []int64{3, 1, 2}, ids)
}

func TestPageWindow(t *testing.T) {
	rows := make([]*summaryRow, 12)
	for i := range rows {
		rows[i] = &summaryRow{id: int64(i)}
	}

	// First page gets limit+1 rows for the over-fetch rule.
	window := pageWindow(rows, 1, 5)
	assert.Len(t, window, 6)
	assert.Equal(t, int64(0), window[0].id)

	window = pageWindow(rows, 2, 5)
	assert.Len(t, window, 6)
	assert.Equal(t, int64(5), window[0].id)

	// Last partial page.
	window = pageWindow(rows, 3, 5)
	assert.Len(t, window, 2)

	// Past the end.
	assert.Nil(t, pageWindow(rows, 4, 5))
}

func TestReadCacheInvalidation(t *testing.T) {
	cache := newReadCache()
	cache.setList(listKey(1, 10, true), &ports.ListResult{Page: 1})
	cache.setList(listKey(1, 10, false), &ports.ListResult{Page: 1})
	cache.setPost(postIDKey(7, true), &domain.Post{ID: "7"})
	cache.setPost(postSlugKey("hello", false), &domain.Post{ID: "7"})

	cache.invalidateLists()
	_, ok := cache.getList(listKey(1, 10, true))
	assert.False(t, ok)
	_, ok = cache.getList(listKey(1, 10, false))
	assert.False(t, ok)

	// Post keys survive list invalidation.
	_, ok = cache.getPost(postIDKey(7, true))
	assert.True(t, ok)

	cache.invalidatePost(7, "hello")
	_, ok = cache.getPost(postIDKey(7, true))
	assert.False(t, ok)
	_, ok = cache.getPost(postSlugKey("hello", false))
	assert.False(t, ok)
}

func TestReadCache_ReturnsIsolatedCopies(t *testing.T) {
	cache := newReadCache()

	original := &domain.Post{
		ID:    "7",
		Title: "before",
		Tags:  []domain.Taxonomy{{ID: "1", Name: "go"}},
	}
	cache.setPost(postIDKey(7, false), original)

	// Mutating what went in must not touch the cached value.
	original.Title = "changed after store"
	original.Tags[0].Name = "changed"

	first, ok := cache.getPost(postIDKey(7, false))
	require.True(t, ok)
	assert.Equal(t, "before", first.Title)
	assert.Equal(t, "go", first.Tags[0].Name)

	// Mutating what came out must not poison later reads.
	first.Title = "changed after load"
	first.Tags[0].Name = "changed"

	second, ok := cache.getPost(postIDKey(7, false))
	require.True(t, ok)
	assert.Equal(t, "before", second.Title)
	assert.Equal(t, "go", second.Tags[0].Name)
}

func TestReadCache_ListResultsAreIsolated(t *testing.T) {
	cache := newReadCache()
	key := listKey(1, 10, false)

	cache.setList(key, &ports.ListResult{
		Page:  1,
		Limit: 10,
		Items: []domain.PostListItem{{ID: "1", Title: "before"}},
	})

	first, ok := cache.getList(key)
	require.True(t, ok)
	first.Items[0].Title = "changed"

	second, ok := cache.getList(key)
	require.True(t, ok)
	assert.Equal(t, "before", second.Items[0].Title)
}

func TestNilReadCacheDegradesSilently(t *testing.T) {
	var cache *readCache

	_, ok := cache.getPost("anything")
	assert.False(t, ok)
	_, ok = cache.getList("anything")
	assert.False(t, ok)

	// None of these may panic.
	cache.setPost("key", &domain.Post{})
	cache.setList("key", &ports.ListResult{})
	cache.invalidatePost(1, "slug")
	cache.invalidateLists()
}
