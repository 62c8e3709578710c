package domain

import (
	"strings"
	"time"
)

// BodyFormat tags the raw post body so the rendering layer knows how to
// interpret it. Each backend emits exactly one format.
type BodyFormat string

const (
	BodyFormatRichText BodyFormat = "richtext-markup"
	BodyFormatMarkdown BodyFormat = "markdown"
	BodyFormatHTML     BodyFormat = "html"
)

// ContentBody carries the raw post body together with its format.
type ContentBody struct {
	Format BodyFormat
	Value  string
}

// PostStatus is the canonical publication state every backend's native
// vocabulary is translated into at the read boundary.
type PostStatus string

const (
	StatusDraft     PostStatus = "draft"
	StatusPublished PostStatus = "published"
	StatusScheduled PostStatus = "scheduled"
)

// IsValid checks if the status is a valid canonical value
func (s PostStatus) IsValid() bool {
	switch s {
	case StatusDraft, StatusPublished, StatusScheduled:
		return true
	default:
		return false
	}
}

// PostKind is the content-shape flag that drives which media fields are set.
type PostKind string

const (
	KindStandard PostKind = "standard"
	KindVideo    PostKind = "video"
	KindGallery  PostKind = "gallery"
	KindAudio    PostKind = "audio"
)

// Author is the minimal author reference attached to a post.
type Author struct {
	ID   string
	Name string
}

// Taxonomy is a category or tag reference. Slug may be empty when the backend
// does not track one.
type Taxonomy struct {
	ID   string
	Name string
	Slug string
}

// Post is the canonical, backend-agnostic unit of content.
// IDs are opaque strings; callers must never assume numeric ids.
type Post struct {
	ID          string
	Title       string
	Slug        string
	Excerpt     *string
	Body        ContentBody
	Status      PostStatus
	CreatedAt   time.Time
	UpdatedAt   *time.Time
	PublishedAt *time.Time
	Author      *Author
	Category    *Taxonomy
	Tags        []Taxonomy

	// Presentation extras
	HeroImageURL   string
	SeoTitle       string
	SeoDescription string
	AllowComments  bool
	Kind           PostKind
	VideoURL       string
	AudioURL       string
	GalleryURLs    []string
}

// PostListItem is the projection of Post used by list and search results.
// It omits the body, SEO and media fields.
type PostListItem struct {
	ID           string
	Title        string
	Slug         string
	Excerpt      string
	Status       PostStatus
	CreatedAt    time.Time
	UpdatedAt    *time.Time
	PublishedAt  *time.Time
	Author       *Author
	Category     *Taxonomy
	Tags         []Taxonomy
	HeroImageURL string
	Kind         PostKind
}

// ExcerptPlaceholder is returned in list projections when a backend has no
// excerpt for a post.
const ExcerptPlaceholder = "No excerpt available."

// ExcerptOrPlaceholder converts a nullable backend excerpt into the plain-text
// excerpt list items carry.
func ExcerptOrPlaceholder(excerpt *string) string {
	if excerpt == nil || strings.TrimSpace(*excerpt) == "" {
		return ExcerptPlaceholder
	}
	return *excerpt
}

// Normalize enforces the canonical publish invariant on a post produced by
// any provider: status == published if and only if PublishedAt is set. A
// published post whose backend tracks no publish timestamp gets CreatedAt.
func (p *Post) Normalize() {
	if p.Kind == "" {
		p.Kind = KindStandard
	}
	switch {
	case p.Status == StatusPublished && p.PublishedAt == nil:
		created := p.CreatedAt
		p.PublishedAt = &created
	case p.Status != StatusPublished:
		p.PublishedAt = nil
	}
}

// Clone returns a deep copy. Callers may mutate the copy without affecting
// any other holder of the post.
func (p *Post) Clone() *Post {
	if p == nil {
		return nil
	}
	out := *p
	if p.Excerpt != nil {
		excerpt := *p.Excerpt
		out.Excerpt = &excerpt
	}
	if p.UpdatedAt != nil {
		updated := *p.UpdatedAt
		out.UpdatedAt = &updated
	}
	if p.PublishedAt != nil {
		published := *p.PublishedAt
		out.PublishedAt = &published
	}
	if p.Author != nil {
		author := *p.Author
		out.Author = &author
	}
	if p.Category != nil {
		category := *p.Category
		out.Category = &category
	}
	out.Tags = append([]Taxonomy(nil), p.Tags...)
	out.GalleryURLs = append([]string(nil), p.GalleryURLs...)
	return &out
}

// Clone returns a deep copy of the list item.
func (i PostListItem) Clone() PostListItem {
	out := i
	if i.UpdatedAt != nil {
		updated := *i.UpdatedAt
		out.UpdatedAt = &updated
	}
	if i.PublishedAt != nil {
		published := *i.PublishedAt
		out.PublishedAt = &published
	}
	if i.Author != nil {
		author := *i.Author
		out.Author = &author
	}
	if i.Category != nil {
		category := *i.Category
		out.Category = &category
	}
	out.Tags = append([]Taxonomy(nil), i.Tags...)
	return out
}

// ListItem projects the post into its list/search representation.
func (p *Post) ListItem() PostListItem {
	return PostListItem{
		ID:           p.ID,
		Title:        p.Title,
		Slug:         p.Slug,
		Excerpt:      ExcerptOrPlaceholder(p.Excerpt),
		Status:       p.Status,
		CreatedAt:    p.CreatedAt,
		UpdatedAt:    p.UpdatedAt,
		PublishedAt:  p.PublishedAt,
		Author:       p.Author,
		Category:     p.Category,
		Tags:         p.Tags,
		HeroImageURL: p.HeroImageURL,
		Kind:         p.Kind,
	}
}
