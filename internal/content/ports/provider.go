package ports

import (
	"context"
	"time"

	"github.com/inkhouse/backend/internal/content/domain"
)

// ListOptions controls paginated post listing.
type ListOptions struct {
	Page          int
	Limit         int
	IncludeDrafts bool
}

// SortOrder is the search result ordering. Default is newest first.
type SortOrder string

const (
	SortNewest SortOrder = "newest"
	SortOldest SortOrder = "oldest"
	SortTitle  SortOrder = "title"
)

// SearchOptions filters and paginates a post search. Filter slices combine
// with AND semantics; an absent slice matches everything.
type SearchOptions struct {
	Query      string
	Tags       []string
	Categories []string
	Authors    []string
	Sort       SortOrder
	Page       int
	Limit      int
}

// ListResult is the uniform paginated result shape for lists and searches.
// HasNext is derived with the over-fetch rule, never trusted from a backend
// total count.
type ListResult struct {
	Page    int
	Limit   int
	HasNext bool
	Items   []domain.PostListItem
}

// Clone returns a deep copy of the result page.
func (r *ListResult) Clone() *ListResult {
	if r == nil {
		return nil
	}
	out := *r
	out.Items = make([]domain.PostListItem, len(r.Items))
	for i, item := range r.Items {
		out.Items[i] = item.Clone()
	}
	return &out
}

// SitemapEntry is one published post in the sitemap export.
type SitemapEntry struct {
	Slug         string
	LastModified time.Time
}

// RssEntry is one published post in the RSS export.
type RssEntry struct {
	ID          string
	Slug        string
	Title       string
	Description string
	Date        time.Time
}

// RssEntryLimit caps the RSS export to the newest N published posts.
const RssEntryLimit = 20

// CreateInput carries everything needed to create a post on any backend.
type CreateInput struct {
	AuthorID       string
	Title          string
	Slug           string
	Excerpt        *string
	Body           string
	Status         domain.PostStatus
	TagNames       []string
	CategoryID     *string
	HeroImageURL   string
	SeoTitle       string
	SeoDescription string
	AllowComments  bool
	Kind           domain.PostKind
	VideoURL       string
	AudioURL       string
	GalleryURLs    []string
}

// UpdateInput is a partial CreateInput; nil fields are left untouched.
// Slug is immutable by convention but technically patchable.
type UpdateInput struct {
	Title          *string
	Slug           *string
	Excerpt        *string
	Body           *string
	Status         *domain.PostStatus
	TagNames       *[]string
	CategoryID     *string
	HeroImageURL   *string
	SeoTitle       *string
	SeoDescription *string
	AllowComments  *bool
	Kind           *domain.PostKind
	VideoURL       *string
	AudioURL       *string
	GalleryURLs    *[]string
}

// ContentProvider is the contract every content backend implements. The rest
// of the application depends only on this interface and the canonical domain
// types; backend-specific types never leak past an implementation.
//
// GetPostBySlug and GetPostByID return (nil, nil) when the post does not
// exist; absence is an expected outcome, not an error.
type ContentProvider interface {
	ListPosts(ctx context.Context, opts ListOptions) (*ListResult, error)
	GetPostBySlug(ctx context.Context, slug string, includeDrafts bool) (*domain.Post, error)
	GetPostByID(ctx context.Context, id string, includeDrafts bool) (*domain.Post, error)
	SearchPosts(ctx context.Context, opts SearchOptions) (*ListResult, error)
	ListCategories(ctx context.Context) ([]domain.Taxonomy, error)
	ListTags(ctx context.Context) ([]domain.Taxonomy, error)
	GetSitemapEntries(ctx context.Context) ([]SitemapEntry, error)
	GetRssEntries(ctx context.Context) ([]RssEntry, error)
	CreatePost(ctx context.Context, input CreateInput) (*domain.Post, error)
	UpdatePost(ctx context.Context, id string, input UpdateInput) (*domain.Post, error)
	DeletePost(ctx context.Context, id string) error
}
