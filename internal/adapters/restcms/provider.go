package restcms

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strconv"

	"github.com/microcosm-cc/bluemonday"

	"github.com/inkhouse/backend/internal/content/domain"
	"github.com/inkhouse/backend/internal/content/ports"
	"github.com/inkhouse/backend/internal/platform/logger"
)

// searchFetchCeiling is the candidate page size fetched per round trip during
// a search. Tag, category and author filters need AND semantics the remote
// query language cannot express, so candidates are filtered and paginated
// in-process.
const searchFetchCeiling = 100

// Provider adapts a headless WordPress-compatible REST backend to the
// content contract. Post ids are the remote system's integer ids rendered as
// strings; category and tag references arrive as term ids and are resolved
// through batched term lookups.
type Provider struct {
	client   *Client
	strip    *bluemonday.Policy
	canWrite bool
	log      logger.Logger
}

var _ ports.ContentProvider = (*Provider)(nil)

func NewProvider(cfg Config, log logger.Logger) *Provider {
	return &Provider{
		client:   NewClient(cfg, log),
		strip:    bluemonday.StrictPolicy(),
		canWrite: cfg.Username != "" && cfg.AppPassword != "",
		log:      log,
	}
}

// statusFilter is the status query value for reads: published only, or every
// state when drafts are included.
func statusFilter(includeDrafts bool) string {
	if includeDrafts {
		return "publish,future,draft"
	}
	return "publish"
}

// ListPosts fetches one page plus one extra row so HasNext never depends on
// the remote system's total-count headers.
func (p *Provider) ListPosts(ctx context.Context, opts ports.ListOptions) (*ports.ListResult, error) {
	page, limit, err := ports.NormalizePagination(opts.Page, opts.Limit)
	if err != nil {
		return nil, err
	}

	query := url.Values{}
	query.Set("status", statusFilter(opts.IncludeDrafts))
	query.Set("per_page", strconv.Itoa(limit+1))
	query.Set("offset", strconv.Itoa((page-1)*limit))
	query.Set("orderby", "date")
	query.Set("order", "desc")

	var posts []remotePost
	if err := p.client.get(ctx, "/posts", query, &posts); err != nil {
		return nil, fmt.Errorf("Provider.ListPosts: %w", err)
	}

	paged, hasNext := ports.Paginate(posts, limit)
	refs, err := p.resolveRefs(ctx, paged)
	if err != nil {
		return nil, fmt.Errorf("Provider.ListPosts: %w", err)
	}

	return &ports.ListResult{
		Page:    page,
		Limit:   limit,
		HasNext: hasNext,
		Items:   p.mapListItems(paged, refs),
	}, nil
}

func (p *Provider) GetPostBySlug(ctx context.Context, slug string, includeDrafts bool) (*domain.Post, error) {
	if slug == "" {
		return nil, ports.EmptySlug()
	}

	query := url.Values{}
	query.Set("slug", slug)
	query.Set("status", statusFilter(includeDrafts))

	var posts []remotePost
	if err := p.client.get(ctx, "/posts", query, &posts); err != nil {
		return nil, fmt.Errorf("Provider.GetPostBySlug: %w", err)
	}
	if len(posts) == 0 {
		return nil, nil
	}

	refs, err := p.resolveRefs(ctx, posts[:1])
	if err != nil {
		return nil, fmt.Errorf("Provider.GetPostBySlug: %w", err)
	}
	return p.mapPost(posts[0], refs), nil
}

func (p *Provider) GetPostByID(ctx context.Context, id string, includeDrafts bool) (*domain.Post, error) {
	postID, err := parseRemoteID(id)
	if err != nil {
		return nil, err
	}

	var post remotePost
	err = p.client.get(ctx, fmt.Sprintf("/posts/%d", postID), nil, &post)
	if errors.Is(err, errRemoteNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("Provider.GetPostByID: %w", err)
	}

	// Drafts and scheduled posts stay invisible on public reads even though
	// the id endpoint returns them to an authenticated caller.
	if !includeDrafts && post.Status != "publish" {
		return nil, nil
	}

	refs, err := p.resolveRefs(ctx, []remotePost{post})
	if err != nil {
		return nil, fmt.Errorf("Provider.GetPostByID: %w", err)
	}
	return p.mapPost(post, refs), nil
}

// SearchPosts narrows candidates remotely with the free-text query, then
// applies the AND-combined taxonomy and author filters in-process before
// slicing out the requested page. Candidate pages keep coming until the
// requested window plus one over-fetch row is full or the remote runs dry.
func (p *Provider) SearchPosts(ctx context.Context, opts ports.SearchOptions) (*ports.ListResult, error) {
	page, limit, err := ports.NormalizePagination(opts.Page, opts.Limit)
	if err != nil {
		return nil, err
	}

	query := url.Values{}
	query.Set("status", "publish")
	query.Set("per_page", strconv.Itoa(searchFetchCeiling))
	if opts.Query != "" {
		query.Set("search", opts.Query)
	}
	switch opts.Sort {
	case ports.SortOldest:
		query.Set("orderby", "date")
		query.Set("order", "asc")
	case ports.SortTitle:
		query.Set("orderby", "title")
		query.Set("order", "asc")
	default:
		query.Set("orderby", "date")
		query.Set("order", "desc")
	}

	start := (page - 1) * limit
	needed := start + limit + 1

	refs := newRefLookup()
	var matched []remotePost
	for remotePage := 1; len(matched) < needed; remotePage++ {
		query.Set("page", strconv.Itoa(remotePage))

		var candidates []remotePost
		if err := p.client.get(ctx, "/posts", query, &candidates); err != nil {
			return nil, fmt.Errorf("Provider.SearchPosts: %w", err)
		}

		pageRefs, err := p.resolveRefs(ctx, candidates)
		if err != nil {
			return nil, fmt.Errorf("Provider.SearchPosts: %w", err)
		}
		refs.absorb(pageRefs)

		for _, candidate := range candidates {
			if p.matchesFilters(candidate, pageRefs, opts) {
				matched = append(matched, candidate)
			}
		}
		if len(candidates) < searchFetchCeiling {
			break
		}
	}

	var window []remotePost
	if start < len(matched) {
		end := start + limit + 1
		if end > len(matched) {
			end = len(matched)
		}
		window = matched[start:end]
	}
	paged, hasNext := ports.Paginate(window, limit)

	return &ports.ListResult{
		Page:    page,
		Limit:   limit,
		HasNext: hasNext,
		Items:   p.mapListItems(paged, refs),
	}, nil
}

// matchesFilters checks the AND-combined name filters against a candidate's
// resolved references. Every requested tag must be present on the post.
func (p *Provider) matchesFilters(post remotePost, refs *refLookup, opts ports.SearchOptions) bool {
	if len(opts.Tags) > 0 {
		names := make(map[string]struct{}, len(post.Tags))
		for _, tagID := range post.Tags {
			if tag, ok := refs.tags[tagID]; ok {
				names[tag.Name] = struct{}{}
			}
		}
		for _, want := range opts.Tags {
			if _, ok := names[want]; !ok {
				return false
			}
		}
	}
	if len(opts.Categories) > 0 {
		matched := false
		for _, categoryID := range post.Categories {
			category, ok := refs.categories[categoryID]
			if !ok {
				continue
			}
			for _, want := range opts.Categories {
				if category.Name == want {
					matched = true
				}
			}
		}
		if !matched {
			return false
		}
	}
	if len(opts.Authors) > 0 {
		author, ok := refs.users[post.Author]
		if !ok {
			return false
		}
		matched := false
		for _, want := range opts.Authors {
			if author.Name == want {
				matched = true
			}
		}
		if !matched {
			return false
		}
	}
	return true
}

func (p *Provider) ListCategories(ctx context.Context) ([]domain.Taxonomy, error) {
	return p.listTerms(ctx, "/categories")
}

func (p *Provider) ListTags(ctx context.Context) ([]domain.Taxonomy, error) {
	return p.listTerms(ctx, "/tags")
}

// listTerms pages through a term collection until a short page signals the
// end.
func (p *Provider) listTerms(ctx context.Context, endpoint string) ([]domain.Taxonomy, error) {
	var out []domain.Taxonomy
	for page := 1; ; page++ {
		query := url.Values{}
		query.Set("per_page", strconv.Itoa(batchChunkSize))
		query.Set("page", strconv.Itoa(page))
		query.Set("orderby", "name")

		var terms []remoteTerm
		if err := p.client.get(ctx, endpoint, query, &terms); err != nil {
			return nil, fmt.Errorf("Provider.listTerms %s: %w", endpoint, err)
		}
		for _, term := range terms {
			out = append(out, domain.Taxonomy{
				ID:   strconv.FormatInt(term.ID, 10),
				Name: term.Name,
				Slug: term.Slug,
			})
		}
		if len(terms) < batchChunkSize {
			return out, nil
		}
	}
}

// GetSitemapEntries pages through every published post, keeping only the
// fields the sitemap needs.
func (p *Provider) GetSitemapEntries(ctx context.Context) ([]ports.SitemapEntry, error) {
	var out []ports.SitemapEntry
	for page := 1; ; page++ {
		query := url.Values{}
		query.Set("status", "publish")
		query.Set("per_page", strconv.Itoa(batchChunkSize))
		query.Set("page", strconv.Itoa(page))
		query.Set("orderby", "date")
		query.Set("order", "desc")

		var posts []remotePost
		if err := p.client.get(ctx, "/posts", query, &posts); err != nil {
			return nil, fmt.Errorf("Provider.GetSitemapEntries: %w", err)
		}
		for _, post := range posts {
			lastModified := parseRemoteTime(post.ModifiedGMT)
			if lastModified.IsZero() {
				lastModified = parseRemoteTime(post.DateGMT)
			}
			out = append(out, ports.SitemapEntry{
				Slug:         post.Slug,
				LastModified: lastModified,
			})
		}
		if len(posts) < batchChunkSize {
			return out, nil
		}
	}
}

func (p *Provider) GetRssEntries(ctx context.Context) ([]ports.RssEntry, error) {
	query := url.Values{}
	query.Set("status", "publish")
	query.Set("per_page", strconv.Itoa(ports.RssEntryLimit))
	query.Set("orderby", "date")
	query.Set("order", "desc")

	var posts []remotePost
	if err := p.client.get(ctx, "/posts", query, &posts); err != nil {
		return nil, fmt.Errorf("Provider.GetRssEntries: %w", err)
	}

	entries := make([]ports.RssEntry, 0, len(posts))
	for _, post := range posts {
		entries = append(entries, ports.RssEntry{
			ID:          strconv.FormatInt(post.ID, 10),
			Slug:        post.Slug,
			Title:       p.stripMarkup(post.Title.Rendered),
			Description: p.stripMarkup(post.Excerpt.Rendered),
			Date:        parseRemoteTime(post.DateGMT),
		})
	}
	return entries, nil
}

// parseRemoteID validates that an opaque contract id fits the remote
// backend's integer id shape.
func parseRemoteID(id string) (int64, error) {
	parsed, err := strconv.ParseInt(id, 10, 64)
	if err != nil || parsed <= 0 {
		return 0, ports.MalformedID(id)
	}
	return parsed, nil
}
