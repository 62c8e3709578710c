package doccms

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inkhouse/backend/internal/content/domain"
	"github.com/inkhouse/backend/internal/content/ports"
	"github.com/inkhouse/backend/internal/platform/logger"
)

var testNow = time.Date(2025, 8, 15, 12, 0, 0, 0, time.UTC)

// testProvider wires a provider directly at a test server, bypassing the
// hosted-domain URL construction.
func testProvider(t *testing.T, handler http.Handler, writeToken string) *Provider {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	return &Provider{
		client: &Client{
			queryBase:  server.URL,
			mutateBase: server.URL,
			dataset:    "production",
			writeToken: writeToken,
			httpClient: server.Client(),
			log:        logger.NewNop(),
		},
		canWrite: writeToken != "",
		log:      logger.NewNop(),
		now:      func() time.Time { return testNow },
	}
}

func respondResult(t *testing.T, w http.ResponseWriter, result any) {
	t.Helper()
	w.Header().Set("Content-Type", "application/json")
	require.NoError(t, json.NewEncoder(w).Encode(map[string]any{"result": result}))
}

func TestNewClientHosts(t *testing.T) {
	live := NewClient(Config{ProjectID: "abc123", Dataset: "production", APIVersion: "2025-02-19"}, logger.NewNop())
	assert.Equal(t, "https://abc123.api.sanity.io/v2025-02-19", live.queryBase)
	assert.Equal(t, "https://abc123.api.sanity.io/v2025-02-19", live.mutateBase)

	edge := NewClient(Config{ProjectID: "abc123", Dataset: "production", APIVersion: "2025-02-19", UseCDN: true}, logger.NewNop())
	assert.Equal(t, "https://abc123.apicdn.sanity.io/v2025-02-19", edge.queryBase)
	// Mutations never go through the CDN edge.
	assert.Equal(t, "https://abc123.api.sanity.io/v2025-02-19", edge.mutateBase)
}

func TestStatusOf(t *testing.T) {
	past := testNow.Add(-time.Hour)
	future := testNow.Add(time.Hour)

	tests := []struct {
		name string
		doc  postDoc
		want domain.PostStatus
	}{
		{"live with past publish date", postDoc{ID: "p1", PublishedAt: &past}, domain.StatusPublished},
		{"live with future publish date", postDoc{ID: "p1", PublishedAt: &future}, domain.StatusScheduled},
		{"live without publish date", postDoc{ID: "p1"}, domain.StatusDraft},
		{"draft namespace wins over publish date", postDoc{ID: "drafts.p1", PublishedAt: &past}, domain.StatusDraft},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, statusOf(tt.doc, testNow))
		})
	}
}

func TestMapDoc_DraftLosesStalePublishDate(t *testing.T) {
	stale := testNow.Add(-time.Hour)
	post := mapDoc(postDoc{ID: "drafts.p1", Slug: "wip", PublishedAt: &stale}, testNow)

	assert.Equal(t, "p1", post.ID)
	assert.Equal(t, domain.StatusDraft, post.Status)
	assert.Nil(t, post.PublishedAt)
	assert.Equal(t, domain.BodyFormatMarkdown, post.Body.Format)
}

func TestListPosts_OverFetchWindow(t *testing.T) {
	var gotParams url.Values
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotParams = r.URL.Query()
		published := testNow.Add(-time.Hour)
		docs := make([]postDoc, 4)
		for i := range docs {
			docs[i] = postDoc{ID: "p", Slug: "post", CreatedAt: testNow, PublishedAt: &published}
		}
		respondResult(t, w, docs)
	})

	p := testProvider(t, handler, "")
	result, err := p.ListPosts(context.Background(), ports.ListOptions{Page: 2, Limit: 3})
	require.NoError(t, err)

	// Range parameters span exactly limit+1 documents.
	assert.Equal(t, "3", gotParams.Get("$offset"))
	assert.Equal(t, "7", gotParams.Get("$end"))
	assert.Equal(t, "false", gotParams.Get("$includeDrafts"))

	assert.True(t, result.HasNext)
	assert.Len(t, result.Items, 3)
}

func TestGetPostBySlug_AbsentIsNil(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		respondResult(t, w, nil)
	})

	p := testProvider(t, handler, "")
	post, err := p.GetPostBySlug(context.Background(), "missing", false)
	require.NoError(t, err)
	assert.Nil(t, post)

	_, err = p.GetPostBySlug(context.Background(), "", false)
	assert.Error(t, err)
}

func TestReadQueries_PublicReadsRequirePublishDate(t *testing.T) {
	// Every read query shares one visibility rule: public callers only see
	// live documents whose publish date has passed.
	for _, groq := range []string{listPostsQuery(), postBySlugQuery(), postByIDQuery()} {
		assert.Contains(t, groq, visibilityFilter)
	}
	assert.Contains(t, visibilityFilter, `publishedAt <= now()`)
	assert.Contains(t, visibilityFilter, `path("drafts.**")`)
}

func TestGetPostBySlug_ScheduledHiddenFromPublicReads(t *testing.T) {
	future := testNow.Add(24 * time.Hour)
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		respondResult(t, w, postDoc{ID: "p-sched", Slug: "launch", CreatedAt: testNow, PublishedAt: &future})
	})

	p := testProvider(t, handler, "")

	post, err := p.GetPostBySlug(context.Background(), "launch", false)
	require.NoError(t, err)
	assert.Nil(t, post)

	post, err = p.GetPostBySlug(context.Background(), "launch", true)
	require.NoError(t, err)
	require.NotNil(t, post)
	assert.Equal(t, domain.StatusScheduled, post.Status)
}

func TestGetPostByID_ScheduledHiddenFromPublicReads(t *testing.T) {
	future := testNow.Add(time.Hour)
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		respondResult(t, w, postDoc{ID: "p1", Slug: "upcoming", CreatedAt: testNow, PublishedAt: &future})
	})

	p := testProvider(t, handler, "")

	post, err := p.GetPostByID(context.Background(), "p1", false)
	require.NoError(t, err)
	assert.Nil(t, post)

	post, err = p.GetPostByID(context.Background(), "p1", true)
	require.NoError(t, err)
	require.NotNil(t, post)
	assert.Equal(t, domain.StatusScheduled, post.Status)
}

func TestWritesFailFastWithoutToken(t *testing.T) {
	var requests atomic.Int64
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests.Add(1)
		respondResult(t, w, nil)
	})

	p := testProvider(t, handler, "")

	_, err := p.CreatePost(context.Background(), ports.CreateInput{Slug: "x", Status: domain.StatusDraft})
	assert.True(t, errors.Is(err, ports.ErrWriteNotConfigured))

	_, err = p.UpdatePost(context.Background(), "p1", ports.UpdateInput{})
	assert.True(t, errors.Is(err, ports.ErrWriteNotConfigured))

	err = p.DeletePost(context.Background(), "p1")
	assert.True(t, errors.Is(err, ports.ErrWriteNotConfigured))

	assert.Equal(t, int64(0), requests.Load(), "no network traffic before the token check")
}

func TestCreatePost_ReusesExistingTagDocuments(t *testing.T) {
	var mutations []map[string]any
	created := testNow.Add(-time.Minute)

	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			var body struct {
				Mutations []map[string]any `json:"mutations"`
			}
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			mutations = body.Mutations
			respondResult(t, w, nil)
			return
		}
		groq := r.URL.Query().Get("query")
		if groq == tagsByNameQuery {
			respondResult(t, w, []docRef{{ID: "tag-existing", Name: "next.js", Slug: "next-js"}})
			return
		}
		// The read-back after the mutation batch.
		respondResult(t, w, postDoc{
			ID:          "p-new",
			Slug:        "tagged",
			CreatedAt:   created,
			PublishedAt: &created,
			Tags:        []docRef{{ID: "tag-existing", Name: "next.js", Slug: "next-js"}},
		})
	})

	p := testProvider(t, handler, "secret-token")
	post, err := p.CreatePost(context.Background(), ports.CreateInput{
		AuthorID: "author-1",
		Title:    "Tagged",
		Slug:     "tagged",
		Body:     "# body",
		Status:   domain.StatusPublished,
		TagNames: []string{"next.js"},
	})
	require.NoError(t, err)
	require.NotNil(t, post)

	// One mutation only: the post create. No tag create was emitted.
	require.Len(t, mutations, 1)
	createDoc, ok := mutations[0]["create"].(map[string]any)
	require.True(t, ok)
	tags, ok := createDoc["tags"].([]any)
	require.True(t, ok)
	require.Len(t, tags, 1)
	ref := tags[0].(map[string]any)
	assert.Equal(t, "tag-existing", ref["_ref"])

	require.Len(t, post.Tags, 1)
	assert.Equal(t, "next.js", post.Tags[0].Name)
}

func TestCreatePost_DraftGoesToDraftNamespace(t *testing.T) {
	var createdID string
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			var body struct {
				Mutations []map[string]any `json:"mutations"`
			}
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			doc := body.Mutations[0]["create"].(map[string]any)
			createdID = doc["_id"].(string)
			_, hasPublishedAt := doc["publishedAt"]
			assert.False(t, hasPublishedAt)
			respondResult(t, w, nil)
			return
		}
		respondResult(t, w, postDoc{ID: createdID, Slug: "wip", CreatedAt: testNow})
	})

	p := testProvider(t, handler, "secret-token")
	post, err := p.CreatePost(context.Background(), ports.CreateInput{
		AuthorID: "author-1",
		Title:    "WIP",
		Slug:     "wip",
		Status:   domain.StatusDraft,
	})
	require.NoError(t, err)
	require.NotNil(t, post)

	assert.Contains(t, createdID, draftPrefix)
	assert.Equal(t, domain.StatusDraft, post.Status)
}

func TestDeletePost_NotFound(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		respondResult(t, w, nil)
	})

	p := testProvider(t, handler, "secret-token")
	err := p.DeletePost(context.Background(), "missing")
	assert.True(t, errors.Is(err, ports.ErrPostNotFound))
}

func TestDedupeNames(t *testing.T) {
	got := dedupeNames([]string{" go ", "go", "Go", "", "web"})
	assert.Equal(t, []string{"go", "Go", "web"}, got)
}
