package doccms

import (
	"context"
	"fmt"
	"time"

	"github.com/inkhouse/backend/internal/content/domain"
	"github.com/inkhouse/backend/internal/content/ports"
	"github.com/inkhouse/backend/internal/platform/logger"
)

// Provider adapts a hosted document backend to the content contract. Posts
// are documents whose publication state lives in the id namespace (the
// drafts path) and the publishedAt field; a future publish date reads back as
// scheduled.
type Provider struct {
	client   *Client
	canWrite bool
	log      logger.Logger

	// now is swapped in tests to pin the scheduled/published boundary.
	now func() time.Time
}

var _ ports.ContentProvider = (*Provider)(nil)

func NewProvider(cfg Config, log logger.Logger) *Provider {
	return &Provider{
		client:   NewClient(cfg, log),
		canWrite: cfg.WriteToken != "",
		log:      log,
		now:      time.Now,
	}
}

func (p *Provider) ListPosts(ctx context.Context, opts ports.ListOptions) (*ports.ListResult, error) {
	page, limit, err := ports.NormalizePagination(opts.Page, opts.Limit)
	if err != nil {
		return nil, err
	}

	offset := (page - 1) * limit
	params := map[string]any{
		"includeDrafts": opts.IncludeDrafts,
		"offset":        offset,
		"end":           offset + limit + 1,
	}

	var docs []postDoc
	if err := p.client.query(ctx, listPostsQuery(), params, &docs); err != nil {
		return nil, fmt.Errorf("Provider.ListPosts: %w", err)
	}

	paged, hasNext := ports.Paginate(docs, limit)
	return &ports.ListResult{
		Page:    page,
		Limit:   limit,
		HasNext: hasNext,
		Items:   p.mapListItems(paged),
	}, nil
}

func (p *Provider) GetPostBySlug(ctx context.Context, slug string, includeDrafts bool) (*domain.Post, error) {
	if slug == "" {
		return nil, ports.EmptySlug()
	}

	params := map[string]any{
		"slug":          slug,
		"includeDrafts": includeDrafts,
	}

	var doc *postDoc
	if err := p.client.query(ctx, postBySlugQuery(), params, &doc); err != nil {
		return nil, fmt.Errorf("Provider.GetPostBySlug: %w", err)
	}
	if doc == nil {
		return nil, nil
	}

	post := mapDoc(*doc, p.now())
	// Scheduled posts are live documents but not public content yet.
	if !includeDrafts && post.Status != domain.StatusPublished {
		return nil, nil
	}
	return post, nil
}

func (p *Provider) GetPostByID(ctx context.Context, id string, includeDrafts bool) (*domain.Post, error) {
	if id == "" {
		return nil, ports.MalformedID(id)
	}

	params := map[string]any{
		"id":            canonicalID(id),
		"includeDrafts": includeDrafts,
	}

	var doc *postDoc
	if err := p.client.query(ctx, postByIDQuery(), params, &doc); err != nil {
		return nil, fmt.Errorf("Provider.GetPostByID: %w", err)
	}
	if doc == nil {
		return nil, nil
	}

	post := mapDoc(*doc, p.now())
	// Scheduled posts are live documents but not public content yet.
	if !includeDrafts && post.Status != domain.StatusPublished {
		return nil, nil
	}
	return post, nil
}

func (p *Provider) SearchPosts(ctx context.Context, opts ports.SearchOptions) (*ports.ListResult, error) {
	page, limit, err := ports.NormalizePagination(opts.Page, opts.Limit)
	if err != nil {
		return nil, err
	}

	offset := (page - 1) * limit
	params := map[string]any{
		"query":      opts.Query,
		"tags":       nonNil(opts.Tags),
		"categories": nonNil(opts.Categories),
		"authors":    nonNil(opts.Authors),
		"offset":     offset,
		"end":        offset + limit + 1,
	}

	var docs []postDoc
	if err := p.client.query(ctx, searchPostsQuery(searchOrder(opts.Sort)), params, &docs); err != nil {
		return nil, fmt.Errorf("Provider.SearchPosts: %w", err)
	}

	paged, hasNext := ports.Paginate(docs, limit)
	return &ports.ListResult{
		Page:    page,
		Limit:   limit,
		HasNext: hasNext,
		Items:   p.mapListItems(paged),
	}, nil
}

func searchOrder(sort ports.SortOrder) string {
	switch sort {
	case ports.SortOldest:
		return "publishedAt asc"
	case ports.SortTitle:
		return "title asc"
	default:
		return "publishedAt desc"
	}
}

// nonNil keeps filter parameters encodable as JSON arrays; the query counts
// them, and null is not countable.
func nonNil(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}

func (p *Provider) mapListItems(docs []postDoc) []domain.PostListItem {
	now := p.now()
	items := make([]domain.PostListItem, 0, len(docs))
	for _, doc := range docs {
		items = append(items, mapDoc(doc, now).ListItem())
	}
	return items
}

func (p *Provider) ListCategories(ctx context.Context) ([]domain.Taxonomy, error) {
	return p.listTerms(ctx, "category")
}

func (p *Provider) ListTags(ctx context.Context) ([]domain.Taxonomy, error) {
	return p.listTerms(ctx, "tag")
}

func (p *Provider) listTerms(ctx context.Context, docType string) ([]domain.Taxonomy, error) {
	var refs []docRef
	if err := p.client.query(ctx, listTermsQuery(docType), nil, &refs); err != nil {
		return nil, fmt.Errorf("Provider.listTerms %s: %w", docType, err)
	}

	out := make([]domain.Taxonomy, 0, len(refs))
	for _, ref := range refs {
		out = append(out, domain.Taxonomy{ID: ref.ID, Name: ref.Name, Slug: ref.Slug})
	}
	return out, nil
}

func (p *Provider) GetSitemapEntries(ctx context.Context) ([]ports.SitemapEntry, error) {
	var rows []struct {
		Slug        string     `json:"slug"`
		UpdatedAt   *time.Time `json:"_updatedAt"`
		PublishedAt time.Time  `json:"publishedAt"`
	}
	if err := p.client.query(ctx, sitemapQuery(), nil, &rows); err != nil {
		return nil, fmt.Errorf("Provider.GetSitemapEntries: %w", err)
	}

	out := make([]ports.SitemapEntry, 0, len(rows))
	for _, row := range rows {
		lastModified := row.PublishedAt
		if row.UpdatedAt != nil {
			lastModified = *row.UpdatedAt
		}
		out = append(out, ports.SitemapEntry{Slug: row.Slug, LastModified: lastModified})
	}
	return out, nil
}

func (p *Provider) GetRssEntries(ctx context.Context) ([]ports.RssEntry, error) {
	var rows []struct {
		ID          string    `json:"_id"`
		Slug        string    `json:"slug"`
		Title       string    `json:"title"`
		Excerpt     *string   `json:"excerpt"`
		PublishedAt time.Time `json:"publishedAt"`
	}
	params := map[string]any{"limit": ports.RssEntryLimit}
	if err := p.client.query(ctx, rssQuery(), params, &rows); err != nil {
		return nil, fmt.Errorf("Provider.GetRssEntries: %w", err)
	}

	out := make([]ports.RssEntry, 0, len(rows))
	for _, row := range rows {
		out = append(out, ports.RssEntry{
			ID:          canonicalID(row.ID),
			Slug:        row.Slug,
			Title:       row.Title,
			Description: domain.ExcerptOrPlaceholder(row.Excerpt),
			Date:        row.PublishedAt,
		})
	}
	return out, nil
}
