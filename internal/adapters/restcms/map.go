package restcms

import (
	"context"
	"fmt"
	"html"
	"strconv"
	"strings"
	"time"

	"github.com/inkhouse/backend/internal/content/domain"
)

// refLookup holds the batch-resolved references for one page of remote posts.
type refLookup struct {
	categories map[int64]domain.Taxonomy
	tags       map[int64]domain.Taxonomy
	users      map[int64]domain.Author
}

func newRefLookup() *refLookup {
	return &refLookup{
		categories: map[int64]domain.Taxonomy{},
		tags:       map[int64]domain.Taxonomy{},
		users:      map[int64]domain.Author{},
	}
}

// absorb merges another page's resolved references.
func (r *refLookup) absorb(other *refLookup) {
	for id, category := range other.categories {
		r.categories[id] = category
	}
	for id, tag := range other.tags {
		r.tags[id] = tag
	}
	for id, user := range other.users {
		r.users[id] = user
	}
}

// resolveRefs collects every category, tag and author id referenced by the
// given posts and resolves them with batched lookups.
func (p *Provider) resolveRefs(ctx context.Context, posts []remotePost) (*refLookup, error) {
	var categoryIDs, tagIDs, userIDs []int64
	for _, post := range posts {
		categoryIDs = append(categoryIDs, post.Categories...)
		tagIDs = append(tagIDs, post.Tags...)
		if post.Author != 0 {
			userIDs = append(userIDs, post.Author)
		}
	}

	refs := newRefLookup()
	var err error
	if len(categoryIDs) > 0 {
		if refs.categories, err = p.fetchTermsByID(ctx, "/categories", categoryIDs); err != nil {
			return nil, fmt.Errorf("resolve categories: %w", err)
		}
	}
	if len(tagIDs) > 0 {
		if refs.tags, err = p.fetchTermsByID(ctx, "/tags", tagIDs); err != nil {
			return nil, fmt.Errorf("resolve tags: %w", err)
		}
	}
	if len(userIDs) > 0 {
		if refs.users, err = p.fetchUsersByID(ctx, userIDs); err != nil {
			return nil, fmt.Errorf("resolve authors: %w", err)
		}
	}
	return refs, nil
}

// stripMarkup reduces a rendered HTML fragment to plain text for the
// canonical excerpt fields.
func (p *Provider) stripMarkup(fragment string) string {
	return strings.TrimSpace(html.UnescapeString(p.strip.Sanitize(fragment)))
}

// mapPost converts a remote post into the canonical shape. The body keeps its
// rendered HTML untouched; only titles and excerpts are stripped or unescaped.
func (p *Provider) mapPost(rp remotePost, refs *refLookup) *domain.Post {
	created := parseRemoteTime(rp.DateGMT)

	var updated *time.Time
	if modified := parseRemoteTime(rp.ModifiedGMT); !modified.IsZero() && !modified.Equal(created) {
		updated = &modified
	}

	var excerpt *string
	if text := p.stripMarkup(rp.Excerpt.Rendered); text != "" {
		excerpt = &text
	}

	post := &domain.Post{
		ID:      strconv.FormatInt(rp.ID, 10),
		Title:   html.UnescapeString(rp.Title.Rendered),
		Slug:    rp.Slug,
		Excerpt: excerpt,
		Body: domain.ContentBody{
			Format: domain.BodyFormatHTML,
			Value:  rp.Content.Rendered,
		},
		Status:    statusFromRemote(rp.Status),
		CreatedAt: created,
		UpdatedAt: updated,

		HeroImageURL:   rp.Meta.HeroImageURL,
		SeoTitle:       rp.Meta.SeoTitle,
		SeoDescription: rp.Meta.SeoDescription,
		AllowComments:  rp.CommentStatus == "open",
		Kind:           domain.PostKind(rp.Meta.Kind),
		VideoURL:       rp.Meta.VideoURL,
		AudioURL:       rp.Meta.AudioURL,
		GalleryURLs:    rp.Meta.GalleryURLs,
	}
	if post.Status == domain.StatusPublished {
		post.PublishedAt = &created
	}

	if author, ok := refs.users[rp.Author]; ok {
		post.Author = &author
	}
	if len(rp.Categories) > 0 {
		if category, ok := refs.categories[rp.Categories[0]]; ok {
			post.Category = &category
		}
	}
	for _, tagID := range rp.Tags {
		if tag, ok := refs.tags[tagID]; ok {
			post.Tags = append(post.Tags, tag)
		}
	}

	post.Normalize()
	return post
}

func (p *Provider) mapListItems(posts []remotePost, refs *refLookup) []domain.PostListItem {
	items := make([]domain.PostListItem, 0, len(posts))
	for _, rp := range posts {
		items = append(items, p.mapPost(rp, refs).ListItem())
	}
	return items
}
