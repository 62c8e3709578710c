package restcms

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inkhouse/backend/internal/content/domain"
	"github.com/inkhouse/backend/internal/content/ports"
	"github.com/inkhouse/backend/internal/platform/logger"
)

func testProvider(t *testing.T, handler http.Handler, writable bool) *Provider {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	cfg := Config{BaseURL: server.URL}
	if writable {
		cfg.Username = "editor"
		cfg.AppPassword = "app-password"
	}
	return NewProvider(cfg, logger.NewNop())
}

func writeJSON(t *testing.T, w http.ResponseWriter, v any) {
	t.Helper()
	w.Header().Set("Content-Type", "application/json")
	require.NoError(t, json.NewEncoder(w).Encode(v))
}

func TestListPosts_OverFetchDerivesHasNext(t *testing.T) {
	var gotPerPage, gotOffset, gotStatus string
	mux := http.NewServeMux()
	mux.HandleFunc("/wp/v2/posts", func(w http.ResponseWriter, r *http.Request) {
		gotPerPage = r.URL.Query().Get("per_page")
		gotOffset = r.URL.Query().Get("offset")
		gotStatus = r.URL.Query().Get("status")

		posts := make([]remotePost, 6)
		for i := range posts {
			posts[i] = remotePost{
				ID:      int64(i + 1),
				Slug:    fmt.Sprintf("post-%d", i+1),
				Status:  "publish",
				DateGMT: "2025-08-01T10:00:00",
			}
		}
		writeJSON(t, w, posts)
	})

	p := testProvider(t, mux, false)
	result, err := p.ListPosts(context.Background(), ports.ListOptions{Page: 2, Limit: 5})
	require.NoError(t, err)

	assert.Equal(t, "6", gotPerPage, "requests exactly limit+1 rows")
	assert.Equal(t, "5", gotOffset)
	assert.Equal(t, "publish", gotStatus)

	assert.Equal(t, 2, result.Page)
	assert.Equal(t, 5, result.Limit)
	assert.True(t, result.HasNext)
	assert.Len(t, result.Items, 5)
	assert.Equal(t, domain.ExcerptPlaceholder, result.Items[0].Excerpt)
}

func TestListPosts_IncludeDraftsWidensStatusFilter(t *testing.T) {
	var gotStatus string
	mux := http.NewServeMux()
	mux.HandleFunc("/wp/v2/posts", func(w http.ResponseWriter, r *http.Request) {
		gotStatus = r.URL.Query().Get("status")
		writeJSON(t, w, []remotePost{})
	})

	p := testProvider(t, mux, false)
	result, err := p.ListPosts(context.Background(), ports.ListOptions{IncludeDrafts: true})
	require.NoError(t, err)

	assert.Equal(t, "publish,future,draft", gotStatus)
	assert.False(t, result.HasNext)
	assert.Empty(t, result.Items)
}

func TestGetPostBySlug(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/wp/v2/posts", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("slug") != "hello-world" {
			writeJSON(t, w, []remotePost{})
			return
		}
		writeJSON(t, w, []remotePost{{
			ID:      7,
			Slug:    "hello-world",
			Status:  "publish",
			DateGMT: "2025-08-01T10:00:00",
			Title:   rendered{Rendered: "Hello &amp; Welcome"},
			Excerpt: rendered{Rendered: "<p>The first post.</p>"},
			Content: rendered{Rendered: "<p>Body markup stays intact.</p>"},
		}})
	})

	p := testProvider(t, mux, false)

	post, err := p.GetPostBySlug(context.Background(), "hello-world", false)
	require.NoError(t, err)
	require.NotNil(t, post)
	assert.Equal(t, "7", post.ID)
	assert.Equal(t, "Hello & Welcome", post.Title)
	assert.Equal(t, domain.BodyFormatHTML, post.Body.Format)
	assert.Equal(t, "<p>Body markup stays intact.</p>", post.Body.Value)
	require.NotNil(t, post.Excerpt)
	assert.Equal(t, "The first post.", *post.Excerpt)
	require.NotNil(t, post.PublishedAt)
	assert.Equal(t, time.Date(2025, 8, 1, 10, 0, 0, 0, time.UTC), *post.PublishedAt)

	missing, err := p.GetPostBySlug(context.Background(), "no-such-post", false)
	require.NoError(t, err)
	assert.Nil(t, missing)

	_, err = p.GetPostBySlug(context.Background(), "", false)
	assert.Error(t, err)
}

func TestGetPostByID(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/wp/v2/posts/9", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, remotePost{
			ID:      9,
			Slug:    "upcoming",
			Status:  "future",
			DateGMT: "2030-01-01T00:00:00",
		})
	})
	mux.HandleFunc("/wp/v2/posts/404", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	p := testProvider(t, mux, false)

	// Scheduled post stays invisible on public reads.
	post, err := p.GetPostByID(context.Background(), "9", false)
	require.NoError(t, err)
	assert.Nil(t, post)

	// Visible with drafts; native "future" becomes scheduled, no publish time.
	post, err = p.GetPostByID(context.Background(), "9", true)
	require.NoError(t, err)
	require.NotNil(t, post)
	assert.Equal(t, domain.StatusScheduled, post.Status)
	assert.Nil(t, post.PublishedAt)

	post, err = p.GetPostByID(context.Background(), "404", true)
	require.NoError(t, err)
	assert.Nil(t, post)

	_, err = p.GetPostByID(context.Background(), "not-numeric", false)
	assert.Error(t, err)
}

func TestSearchPosts_FiltersCombineWithAND(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/wp/v2/posts", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, []remotePost{
			{ID: 1, Slug: "both", Status: "publish", DateGMT: "2025-08-02T00:00:00", Tags: []int64{10, 11}},
			{ID: 2, Slug: "one-tag", Status: "publish", DateGMT: "2025-08-01T00:00:00", Tags: []int64{10}},
		})
	})
	mux.HandleFunc("/wp/v2/tags", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, []remoteTerm{
			{ID: 10, Name: "go", Slug: "go"},
			{ID: 11, Name: "web", Slug: "web"},
		})
	})

	p := testProvider(t, mux, false)
	result, err := p.SearchPosts(context.Background(), ports.SearchOptions{
		Tags: []string{"go", "web"},
	})
	require.NoError(t, err)

	require.Len(t, result.Items, 1)
	assert.Equal(t, "both", result.Items[0].Slug)
	assert.False(t, result.HasNext)
}

func TestSearchPosts_PagesThroughCandidates(t *testing.T) {
	const totalMatches = 120

	var fetchedPages []string
	mux := http.NewServeMux()
	mux.HandleFunc("/wp/v2/posts", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "100", r.URL.Query().Get("per_page"))
		fetchedPages = append(fetchedPages, r.URL.Query().Get("page"))
		pageNum, err := strconv.Atoi(r.URL.Query().Get("page"))
		require.NoError(t, err)

		start := (pageNum - 1) * searchFetchCeiling
		posts := []remotePost{}
		for i := start; i < totalMatches && i < start+searchFetchCeiling; i++ {
			posts = append(posts, remotePost{
				ID:      int64(i + 1),
				Slug:    fmt.Sprintf("match-%d", i+1),
				Status:  "publish",
				DateGMT: "2025-08-01T10:00:00",
			})
		}
		writeJSON(t, w, posts)
	})

	p := testProvider(t, mux, false)

	// Page 2 of 50 needs 101 matches, so a second candidate page is fetched.
	result, err := p.SearchPosts(context.Background(), ports.SearchOptions{Page: 2, Limit: 50})
	require.NoError(t, err)
	assert.Equal(t, []string{"1", "2"}, fetchedPages)
	assert.Len(t, result.Items, 50)
	assert.True(t, result.HasNext)
	assert.Equal(t, "match-51", result.Items[0].Slug)

	// The short second candidate page ends the feed; matches 101-120 land on
	// page 3 with no page after it.
	fetchedPages = nil
	result, err = p.SearchPosts(context.Background(), ports.SearchOptions{Page: 3, Limit: 50})
	require.NoError(t, err)
	assert.Equal(t, []string{"1", "2"}, fetchedPages)
	assert.Len(t, result.Items, 20)
	assert.False(t, result.HasNext)
	assert.Equal(t, "match-101", result.Items[0].Slug)
}

func TestCreatePost_ReusesExistingTagByName(t *testing.T) {
	var tagCreates atomic.Int64
	var createdPayload map[string]any

	mux := http.NewServeMux()
	mux.HandleFunc("/wp/v2/tags", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			tagCreates.Add(1)
			writeJSON(t, w, remoteTerm{ID: 99, Name: "brand-new"})
			return
		}
		// Loose remote search matches "next.js" and near-misses alike.
		writeJSON(t, w, []remoteTerm{
			{ID: 41, Name: "Next.js", Slug: "next-js-cased"},
			{ID: 42, Name: "next.js", Slug: "next-js"},
		})
	})
	mux.HandleFunc("/wp/v2/posts", func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&createdPayload))
		writeJSON(t, w, remotePost{
			ID:      100,
			Slug:    "tagged",
			Status:  "publish",
			DateGMT: "2025-08-01T10:00:00",
			Tags:    []int64{42},
		})
	})

	p := testProvider(t, mux, true)
	post, err := p.CreatePost(context.Background(), ports.CreateInput{
		AuthorID: "1",
		Title:    "Tagged",
		Slug:     "tagged",
		Body:     "<p>body</p>",
		Status:   domain.StatusPublished,
		TagNames: []string{"next.js"},
	})
	require.NoError(t, err)
	require.NotNil(t, post)

	// Exact-name match reused id 42; nothing was created.
	assert.Equal(t, int64(0), tagCreates.Load())
	assert.Equal(t, []any{float64(42)}, createdPayload["tags"])
	require.Len(t, post.Tags, 1)
	assert.Equal(t, "next.js", post.Tags[0].Name)
}

func TestWritesFailFastWithoutCredentials(t *testing.T) {
	var requests atomic.Int64
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests.Add(1)
		w.WriteHeader(http.StatusOK)
	})

	p := testProvider(t, handler, false)

	_, err := p.CreatePost(context.Background(), ports.CreateInput{Slug: "x", Status: domain.StatusDraft})
	assert.True(t, errors.Is(err, ports.ErrWriteNotConfigured))

	_, err = p.UpdatePost(context.Background(), "1", ports.UpdateInput{})
	assert.True(t, errors.Is(err, ports.ErrWriteNotConfigured))

	err = p.DeletePost(context.Background(), "1")
	assert.True(t, errors.Is(err, ports.ErrWriteNotConfigured))

	assert.Equal(t, int64(0), requests.Load(), "no network traffic before the credential check")
}

func TestUpdatePost_NotFound(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/wp/v2/posts/123", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	p := testProvider(t, mux, true)

	title := "renamed"
	_, err := p.UpdatePost(context.Background(), "123", ports.UpdateInput{Title: &title})
	assert.True(t, errors.Is(err, ports.ErrPostNotFound))

	err = p.DeletePost(context.Background(), "123")
	assert.True(t, errors.Is(err, ports.ErrPostNotFound))
}

func TestGetRssEntries(t *testing.T) {
	var gotPerPage string
	mux := http.NewServeMux()
	mux.HandleFunc("/wp/v2/posts", func(w http.ResponseWriter, r *http.Request) {
		gotPerPage = r.URL.Query().Get("per_page")
		writeJSON(t, w, []remotePost{{
			ID:      1,
			Slug:    "latest",
			Status:  "publish",
			DateGMT: "2025-08-01T10:00:00",
			Title:   rendered{Rendered: "Latest &amp; Greatest"},
			Excerpt: rendered{Rendered: "<p>Summary</p>"},
		}})
	})

	p := testProvider(t, mux, false)
	entries, err := p.GetRssEntries(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "20", gotPerPage)
	require.Len(t, entries, 1)
	assert.Equal(t, "Latest & Greatest", entries[0].Title)
	assert.Equal(t, "Summary", entries[0].Description)
}

func TestChunkIDs(t *testing.T) {
	ids := make([]int64, 250)
	for i := range ids {
		ids[i] = int64(i)
	}
	chunks := chunkIDs(ids, batchChunkSize)
	require.Len(t, chunks, 3)
	assert.Len(t, chunks[0], 100)
	assert.Len(t, chunks[1], 100)
	assert.Len(t, chunks[2], 50)

	assert.Nil(t, chunkIDs(nil, batchChunkSize))
}

func TestDedupeNames(t *testing.T) {
	got := dedupeNames([]string{" go ", "go", "Go", "", "web"})
	assert.Equal(t, []string{"go", "Go", "web"}, got)
}

func TestParseRemoteTime(t *testing.T) {
	parsed := parseRemoteTime("2025-08-01T10:30:00")
	assert.Equal(t, time.Date(2025, 8, 1, 10, 30, 0, 0, time.UTC), parsed)

	assert.True(t, parseRemoteTime("").IsZero())
	assert.True(t, parseRemoteTime("garbage").IsZero())
}
