package doccms

import (
	"strings"
	"time"

	"github.com/inkhouse/backend/internal/content/domain"
)

// draftPrefix is the id namespace the backend keeps unpublished working
// copies under.
const draftPrefix = "drafts."

// docRef is a dereferenced author, category or tag document.
type docRef struct {
	ID   string `json:"_id"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}

// postDoc is the projected wire shape of a post document. The body is
// markdown text; publication state is derived from the id namespace and the
// publishedAt field rather than stored explicitly.
type postDoc struct {
	ID          string     `json:"_id"`
	CreatedAt   time.Time  `json:"_createdAt"`
	UpdatedAt   *time.Time `json:"_updatedAt"`
	Title       string     `json:"title"`
	Slug        string     `json:"slug"`
	Excerpt     *string    `json:"excerpt"`
	Body        string     `json:"body"`
	PublishedAt *time.Time `json:"publishedAt"`
	Author      *docRef    `json:"author"`
	Category    *docRef    `json:"category"`
	Tags        []docRef   `json:"tags"`

	HeroImageURL   string   `json:"heroImageUrl"`
	SeoTitle       string   `json:"seoTitle"`
	SeoDescription string   `json:"seoDescription"`
	AllowComments  bool     `json:"allowComments"`
	Kind           string   `json:"kind"`
	VideoURL       string   `json:"videoUrl"`
	AudioURL       string   `json:"audioUrl"`
	GalleryURLs    []string `json:"galleryUrls"`
}

// canonicalID strips the draft namespace so a post keeps one contract id
// across its draft and live incarnations.
func canonicalID(id string) string {
	return strings.TrimPrefix(id, draftPrefix)
}

// statusOf derives the canonical status: draft-namespace documents are
// drafts, a future publish date means scheduled, a past one published, and a
// live document without a date is a draft that was published and retracted.
func statusOf(doc postDoc, now time.Time) domain.PostStatus {
	if strings.HasPrefix(doc.ID, draftPrefix) || doc.PublishedAt == nil {
		return domain.StatusDraft
	}
	if doc.PublishedAt.After(now) {
		return domain.StatusScheduled
	}
	return domain.StatusPublished
}

func taxonomyFromRef(ref *docRef) *domain.Taxonomy {
	if ref == nil {
		return nil
	}
	return &domain.Taxonomy{ID: ref.ID, Name: ref.Name, Slug: ref.Slug}
}

// mapDoc converts a projected document into the canonical post shape.
func mapDoc(doc postDoc, now time.Time) *domain.Post {
	post := &domain.Post{
		ID:      canonicalID(doc.ID),
		Title:   doc.Title,
		Slug:    doc.Slug,
		Excerpt: doc.Excerpt,
		Body: domain.ContentBody{
			Format: domain.BodyFormatMarkdown,
			Value:  doc.Body,
		},
		Status:      statusOf(doc, now),
		CreatedAt:   doc.CreatedAt,
		UpdatedAt:   doc.UpdatedAt,
		PublishedAt: doc.PublishedAt,

		HeroImageURL:   doc.HeroImageURL,
		SeoTitle:       doc.SeoTitle,
		SeoDescription: doc.SeoDescription,
		AllowComments:  doc.AllowComments,
		Kind:           domain.PostKind(doc.Kind),
		VideoURL:       doc.VideoURL,
		AudioURL:       doc.AudioURL,
		GalleryURLs:    doc.GalleryURLs,
	}

	if doc.Author != nil {
		post.Author = &domain.Author{ID: doc.Author.ID, Name: doc.Author.Name}
	}
	post.Category = taxonomyFromRef(doc.Category)
	for _, ref := range doc.Tags {
		post.Tags = append(post.Tags, domain.Taxonomy{ID: ref.ID, Name: ref.Name, Slug: ref.Slug})
	}

	post.Normalize()
	return post
}
