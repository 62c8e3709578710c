package postgres

import (
	"fmt"
	"strconv"

	"github.com/inkhouse/backend/internal/content/domain"
	"github.com/inkhouse/backend/internal/content/ports"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
)

// parsePostID converts an opaque contract id into the backend's numeric key.
func parsePostID(id string) (int64, error) {
	n, err := strconv.ParseInt(id, 10, 64)
	if err != nil {
		return 0, ports.MalformedID(id)
	}
	return n, nil
}

// statusFromPublished maps the native published flag onto the canonical
// status vocabulary. This backend has no scheduled concept, so it can never
// produce scheduled.
func statusFromPublished(published bool) domain.PostStatus {
	if published {
		return domain.StatusPublished
	}
	return domain.StatusDraft
}

// publishedFromStatus maps a canonical status back to the native flag at the
// write boundary. Scheduled has no native representation and is stored
// unpublished.
func publishedFromStatus(status domain.PostStatus) bool {
	return status == domain.StatusPublished
}

// postColumns is the full column list for single-post reads.
var postColumns = []string{
	"p.id", "p.title", "p.slug", "p.excerpt", "p.content", "p.published",
	"p.allow_comments", "p.hero_image_url", "p.seo_title", "p.seo_description",
	"p.kind", "p.video_url", "p.audio_url", "p.gallery_urls",
	"p.created_at", "p.updated_at",
	"p.author_id", "u.name AS author_name",
	"c.id AS category_id", "c.name AS category_name", "c.slug AS category_slug",
}

// scanPost scans one full post row (postColumns order) into a canonical Post.
// Tags are attached separately.
func scanPost(row pgx.Row) (*domain.Post, error) {
	var (
		id           int64
		title        string
		slug         string
		excerpt      *string
		content      string
		published    bool
		allow        bool
		heroImageURL pgtype.Text
		seoTitle     pgtype.Text
		seoDesc      pgtype.Text
		kind         pgtype.Text
		videoURL     pgtype.Text
		audioURL     pgtype.Text
		galleryURLs  []string
		createdAt    pgtype.Timestamptz
		updatedAt    pgtype.Timestamptz
		authorID     pgtype.Int8
		authorName   pgtype.Text
		categoryID   pgtype.Int8
		categoryName pgtype.Text
		categorySlug pgtype.Text
	)

	err := row.Scan(
		&id, &title, &slug, &excerpt, &content, &published,
		&allow, &heroImageURL, &seoTitle, &seoDesc,
		&kind, &videoURL, &audioURL, &galleryURLs,
		&createdAt, &updatedAt,
		&authorID, &authorName,
		&categoryID, &categoryName, &categorySlug,
	)
	if err != nil {
		return nil, fmt.Errorf("scanPost: %w", err)
	}

	post := &domain.Post{
		ID:      strconv.FormatInt(id, 10),
		Title:   title,
		Slug:    slug,
		Excerpt: excerpt,
		Body: domain.ContentBody{
			Format: domain.BodyFormatRichText,
			Value:  content,
		},
		Status:         statusFromPublished(published),
		AllowComments:  allow,
		HeroImageURL:   heroImageURL.String,
		SeoTitle:       seoTitle.String,
		SeoDescription: seoDesc.String,
		Kind:           domain.PostKind(kind.String),
		VideoURL:       videoURL.String,
		AudioURL:       audioURL.String,
		GalleryURLs:    galleryURLs,
		CreatedAt:      createdAt.Time,
	}

	if updatedAt.Valid {
		t := updatedAt.Time
		post.UpdatedAt = &t
	}
	if authorID.Valid {
		post.Author = &domain.Author{
			ID:   strconv.FormatInt(authorID.Int64, 10),
			Name: authorName.String,
		}
	}
	if categoryID.Valid {
		post.Category = &domain.Taxonomy{
			ID:   strconv.FormatInt(categoryID.Int64, 10),
			Name: categoryName.String,
			Slug: categorySlug.String,
		}
	}

	post.Normalize()
	return post, nil
}

// summaryColumns is the projection used by list and search reads.
var summaryColumns = []string{
	"p.id", "p.title", "p.slug", "p.excerpt", "p.published",
	"p.hero_image_url", "p.kind", "p.created_at", "p.updated_at",
	"p.author_id", "u.name AS author_name",
	"c.id AS category_id", "c.name AS category_name", "c.slug AS category_slug",
}

// summaryRow is one list/search row before tags are attached.
type summaryRow struct {
	id   int64
	item domain.PostListItem
}

func scanSummary(rows pgx.Rows) (*summaryRow, error) {
	var (
		id           int64
		title        string
		slug         string
		excerpt      *string
		published    bool
		heroImageURL pgtype.Text
		kind         pgtype.Text
		createdAt    pgtype.Timestamptz
		updatedAt    pgtype.Timestamptz
		authorID     pgtype.Int8
		authorName   pgtype.Text
		categoryID   pgtype.Int8
		categoryName pgtype.Text
		categorySlug pgtype.Text
	)

	err := rows.Scan(
		&id, &title, &slug, &excerpt, &published,
		&heroImageURL, &kind, &createdAt, &updatedAt,
		&authorID, &authorName,
		&categoryID, &categoryName, &categorySlug,
	)
	if err != nil {
		return nil, fmt.Errorf("scanSummary: %w", err)
	}

	item := domain.PostListItem{
		ID:           strconv.FormatInt(id, 10),
		Title:        title,
		Slug:         slug,
		Excerpt:      domain.ExcerptOrPlaceholder(excerpt),
		Status:       statusFromPublished(published),
		CreatedAt:    createdAt.Time,
		HeroImageURL: heroImageURL.String,
		Kind:         domain.PostKind(kind.String),
	}
	if item.Kind == "" {
		item.Kind = domain.KindStandard
	}
	if updatedAt.Valid {
		t := updatedAt.Time
		item.UpdatedAt = &t
	}
	if item.Status == domain.StatusPublished {
		t := createdAt.Time
		item.PublishedAt = &t
	}
	if authorID.Valid {
		item.Author = &domain.Author{
			ID:   strconv.FormatInt(authorID.Int64, 10),
			Name: authorName.String,
		}
	}
	if categoryID.Valid {
		item.Category = &domain.Taxonomy{
			ID:   strconv.FormatInt(categoryID.Int64, 10),
			Name: categoryName.String,
			Slug: categorySlug.String,
		}
	}

	return &summaryRow{id: id, item: item}, nil
}
