package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/inkhouse/backend/internal/content/domain"
	"github.com/inkhouse/backend/internal/content/ports"
	"github.com/inkhouse/backend/internal/platform/logger"
	"github.com/inkhouse/backend/internal/platform/postgres"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Provider implements ports.ContentProvider against the self-hosted
// relational schema: posts, categories, tags and a post_tags join table.
// Reads go through a short-TTL keyed cache; writes run inside a single
// transaction and invalidate the affected keys.
type Provider struct {
	postgres.BaseRepository
	tm    postgres.TransactionManager
	cache *readCache
	log   logger.Logger
}

// NewProvider creates the relational content provider.
func NewProvider(pool *pgxpool.Pool, log logger.Logger) *Provider {
	return &Provider{
		BaseRepository: postgres.NewBaseRepository(pool),
		tm:             postgres.NewTransactionManager(pool),
		cache:          newReadCache(),
		log:            log,
	}
}

// ListPosts returns one page of post summaries, newest first.
func (p *Provider) ListPosts(ctx context.Context, opts ports.ListOptions) (*ports.ListResult, error) {
	page, limit, err := ports.NormalizePagination(opts.Page, opts.Limit)
	if err != nil {
		return nil, err
	}

	key := listKey(page, limit, opts.IncludeDrafts)
	if cached, ok := p.cache.getList(key); ok {
		return cached, nil
	}

	qb := p.SB.Select(summaryColumns...).
		From("posts p").
		LeftJoin("users u ON p.author_id = u.id").
		LeftJoin("categories c ON p.category_id = c.id")
	if !opts.IncludeDrafts {
		qb = qb.Where(sq.Eq{"p.published": true})
	}
	qb = qb.OrderBy("p.created_at DESC").
		Limit(uint64(limit + 1)).
		Offset(uint64((page - 1) * limit))

	query, args, err := qb.ToSql()
	if err != nil {
		return nil, fmt.Errorf("Provider.ListPosts: build query: %w", err)
	}

	rows, err := p.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("Provider.ListPosts: %w", err)
	}
	defer rows.Close()

	var summaries []*summaryRow
	for rows.Next() {
		summary, err := scanSummary(rows)
		if err != nil {
			return nil, fmt.Errorf("Provider.ListPosts: %w", err)
		}
		summaries = append(summaries, summary)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("Provider.ListPosts: rows error: %w", err)
	}

	paged, hasNext := ports.Paginate(summaries, limit)
	items, err := p.attachTags(ctx, paged)
	if err != nil {
		return nil, fmt.Errorf("Provider.ListPosts: %w", err)
	}

	result := &ports.ListResult{
		Page:    page,
		Limit:   limit,
		HasNext: hasNext,
		Items:   items,
	}
	p.cache.setList(key, result)
	return result, nil
}

// GetPostBySlug returns the full post or nil when no post has the slug.
func (p *Provider) GetPostBySlug(ctx context.Context, slug string, includeDrafts bool) (*domain.Post, error) {
	if slug == "" {
		return nil, ports.EmptySlug()
	}

	key := postSlugKey(slug, includeDrafts)
	if cached, ok := p.cache.getPost(key); ok {
		return cached, nil
	}

	post, err := p.fetchPost(ctx, sq.Eq{"p.slug": slug}, includeDrafts)
	if err != nil {
		return nil, fmt.Errorf("Provider.GetPostBySlug: %w", err)
	}
	if post != nil {
		p.cache.setPost(key, post)
	}
	return post, nil
}

// GetPostByID returns the full post or nil when the id does not exist.
func (p *Provider) GetPostByID(ctx context.Context, id string, includeDrafts bool) (*domain.Post, error) {
	postID, err := parsePostID(id)
	if err != nil {
		return nil, err
	}

	key := postIDKey(postID, includeDrafts)
	if cached, ok := p.cache.getPost(key); ok {
		return cached, nil
	}

	post, err := p.fetchPost(ctx, sq.Eq{"p.id": postID}, includeDrafts)
	if err != nil {
		return nil, fmt.Errorf("Provider.GetPostByID: %w", err)
	}
	if post != nil {
		p.cache.setPost(key, post)
	}
	return post, nil
}

// ListCategories returns every category ordered by name.
func (p *Provider) ListCategories(ctx context.Context) ([]domain.Taxonomy, error) {
	return p.listTaxonomies(ctx, "categories", true)
}

// ListTags returns every tag ordered by name.
func (p *Provider) ListTags(ctx context.Context) ([]domain.Taxonomy, error) {
	return p.listTaxonomies(ctx, "tags", false)
}

// GetSitemapEntries exports slug + last-modified for every published post.
func (p *Provider) GetSitemapEntries(ctx context.Context) ([]ports.SitemapEntry, error) {
	query, args, err := p.SB.
		Select("slug", "COALESCE(updated_at, created_at)").
		From("posts").
		Where(sq.Eq{"published": true}).
		OrderBy("created_at DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("Provider.GetSitemapEntries: build query: %w", err)
	}

	rows, err := p.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("Provider.GetSitemapEntries: %w", err)
	}
	defer rows.Close()

	var entries []ports.SitemapEntry
	for rows.Next() {
		var entry ports.SitemapEntry
		if err := rows.Scan(&entry.Slug, &entry.LastModified); err != nil {
			return nil, fmt.Errorf("Provider.GetSitemapEntries: %w", err)
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("Provider.GetSitemapEntries: rows error: %w", err)
	}
	return entries, nil
}

// GetRssEntries exports the newest published posts for the RSS feed.
func (p *Provider) GetRssEntries(ctx context.Context) ([]ports.RssEntry, error) {
	query, args, err := p.SB.
		Select("id", "slug", "title", "excerpt", "created_at").
		From("posts").
		Where(sq.Eq{"published": true}).
		OrderBy("created_at DESC").
		Limit(uint64(ports.RssEntryLimit)).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("Provider.GetRssEntries: build query: %w", err)
	}

	rows, err := p.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("Provider.GetRssEntries: %w", err)
	}
	defer rows.Close()

	var entries []ports.RssEntry
	for rows.Next() {
		var (
			id      int64
			slug    string
			title   string
			excerpt *string
			created time.Time
		)
		if err := rows.Scan(&id, &slug, &title, &excerpt, &created); err != nil {
			return nil, fmt.Errorf("Provider.GetRssEntries: %w", err)
		}
		entries = append(entries, ports.RssEntry{
			ID:          fmt.Sprintf("%d", id),
			Slug:        slug,
			Title:       title,
			Description: domain.ExcerptOrPlaceholder(excerpt),
			Date:        created,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("Provider.GetRssEntries: rows error: %w", err)
	}
	return entries, nil
}

// fetchPost loads one full post matching where, honoring the draft filter,
// returning nil when nothing matches.
func (p *Provider) fetchPost(ctx context.Context, where sq.Sqlizer, includeDrafts bool) (*domain.Post, error) {
	qb := p.SB.Select(postColumns...).
		From("posts p").
		LeftJoin("users u ON p.author_id = u.id").
		LeftJoin("categories c ON p.category_id = c.id").
		Where(where)
	if !includeDrafts {
		qb = qb.Where(sq.Eq{"p.published": true})
	}

	query, args, err := qb.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	post, err := scanPost(p.DB.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	postID, err := parsePostID(post.ID)
	if err != nil {
		return nil, err
	}
	tagsByPost, err := p.loadTagsByPost(ctx, []int64{postID})
	if err != nil {
		return nil, err
	}
	post.Tags = tagsByPost[postID]
	return post, nil
}

// attachTags loads tag sets for one page of summaries in a single query.
func (p *Provider) attachTags(ctx context.Context, summaries []*summaryRow) ([]domain.PostListItem, error) {
	items := make([]domain.PostListItem, 0, len(summaries))
	if len(summaries) == 0 {
		return items, nil
	}

	ids := make([]int64, 0, len(summaries))
	for _, s := range summaries {
		ids = append(ids, s.id)
	}

	tagsByPost, err := p.loadTagsByPost(ctx, ids)
	if err != nil {
		return nil, err
	}

	for _, s := range summaries {
		s.item.Tags = tagsByPost[s.id]
		items = append(items, s.item)
	}
	return items, nil
}

// loadTagsByPost fetches tags for a set of posts via the join table.
func (p *Provider) loadTagsByPost(ctx context.Context, postIDs []int64) (map[int64][]domain.Taxonomy, error) {
	query, args, err := p.SB.
		Select("pt.post_id", "t.id", "t.name").
		From("post_tags pt").
		Join("tags t ON t.id = pt.tag_id").
		Where(sq.Eq{"pt.post_id": postIDs}).
		OrderBy("t.name ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("loadTagsByPost: build query: %w", err)
	}

	rows, err := p.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("loadTagsByPost: %w", err)
	}
	defer rows.Close()

	tagsByPost := make(map[int64][]domain.Taxonomy, len(postIDs))
	for rows.Next() {
		var postID, tagID int64
		var name string
		if err := rows.Scan(&postID, &tagID, &name); err != nil {
			return nil, fmt.Errorf("loadTagsByPost: %w", err)
		}
		tagsByPost[postID] = append(tagsByPost[postID], domain.Taxonomy{
			ID:   fmt.Sprintf("%d", tagID),
			Name: name,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("loadTagsByPost: rows error: %w", err)
	}
	return tagsByPost, nil
}

func (p *Provider) listTaxonomies(ctx context.Context, table string, withSlug bool) ([]domain.Taxonomy, error) {
	columns := []string{"id", "name"}
	if withSlug {
		columns = append(columns, "slug")
	}

	query, args, err := p.SB.Select(columns...).From(table).OrderBy("name ASC").ToSql()
	if err != nil {
		return nil, fmt.Errorf("Provider.listTaxonomies: build query: %w", err)
	}

	rows, err := p.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("Provider.listTaxonomies: %w", err)
	}
	defer rows.Close()

	var taxonomies []domain.Taxonomy
	for rows.Next() {
		var id int64
		var name string
		var slug *string
		dests := []any{&id, &name}
		if withSlug {
			dests = append(dests, &slug)
		}
		if err := rows.Scan(dests...); err != nil {
			return nil, fmt.Errorf("Provider.listTaxonomies: %w", err)
		}
		taxonomy := domain.Taxonomy{ID: fmt.Sprintf("%d", id), Name: name}
		if slug != nil {
			taxonomy.Slug = *slug
		}
		taxonomies = append(taxonomies, taxonomy)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("Provider.listTaxonomies: rows error: %w", err)
	}
	return taxonomies, nil
}

// Compile-time check that Provider satisfies the content contract
var _ ports.ContentProvider = (*Provider)(nil)
