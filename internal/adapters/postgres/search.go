package postgres

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/inkhouse/backend/internal/content/ports"
)

// SearchPosts runs a single join-heavy query combining the optional filters
// with AND semantics. The tag join fans out one row per matching tag, so rows
// are de-duplicated by post id in-process before the page window is applied.
func (p *Provider) SearchPosts(ctx context.Context, opts ports.SearchOptions) (*ports.ListResult, error) {
	page, limit, err := ports.NormalizePagination(opts.Page, opts.Limit)
	if err != nil {
		return nil, err
	}

	qb := p.SB.Select(summaryColumns...).
		From("posts p").
		LeftJoin("users u ON p.author_id = u.id").
		LeftJoin("categories c ON p.category_id = c.id").
		LeftJoin("post_tags pt ON pt.post_id = p.id").
		LeftJoin("tags t ON t.id = pt.tag_id").
		Where(sq.Eq{"p.published": true})

	if opts.Query != "" {
		pattern := "%" + opts.Query + "%"
		qb = qb.Where(sq.Or{
			sq.ILike{"p.title": pattern},
			sq.ILike{"p.excerpt": pattern},
		})
	}
	if len(opts.Tags) > 0 {
		qb = qb.Where(sq.Eq{"t.name": opts.Tags})
	}
	if len(opts.Categories) > 0 {
		qb = qb.Where(sq.Eq{"c.name": opts.Categories})
	}
	if len(opts.Authors) > 0 {
		qb = qb.Where(sq.Eq{"u.name": opts.Authors})
	}

	qb = qb.OrderBy(searchOrderClause(opts.Sort))

	query, args, err := qb.ToSql()
	if err != nil {
		return nil, fmt.Errorf("Provider.SearchPosts: build query: %w", err)
	}

	rows, err := p.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("Provider.SearchPosts: %w", err)
	}
	defer rows.Close()

	var fanned []*summaryRow
	for rows.Next() {
		summary, err := scanSummary(rows)
		if err != nil {
			return nil, fmt.Errorf("Provider.SearchPosts: %w", err)
		}
		fanned = append(fanned, summary)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("Provider.SearchPosts: rows error: %w", err)
	}

	deduped := dedupeSummaries(fanned)
	window := pageWindow(deduped, page, limit)
	paged, hasNext := ports.Paginate(window, limit)

	items, err := p.attachTags(ctx, paged)
	if err != nil {
		return nil, fmt.Errorf("Provider.SearchPosts: %w", err)
	}

	return &ports.ListResult{
		Page:    page,
		Limit:   limit,
		HasNext: hasNext,
		Items:   items,
	}, nil
}

func searchOrderClause(sort ports.SortOrder) string {
	switch sort {
	case ports.SortOldest:
		return "p.created_at ASC"
	case ports.SortTitle:
		return "p.title ASC"
	default:
		return "p.created_at DESC"
	}
}

// dedupeSummaries collapses fan-out rows to one summary per post id,
// preserving query order.
func dedupeSummaries(rows []*summaryRow) []*summaryRow {
	seen := make(map[int64]struct{}, len(rows))
	out := make([]*summaryRow, 0, len(rows))
	for _, row := range rows {
		if _, ok := seen[row.id]; ok {
			continue
		}
		seen[row.id] = struct{}{}
		out = append(out, row)
	}
	return out
}

// pageWindow slices out the rows for one page plus the over-fetch row.
func pageWindow(rows []*summaryRow, page, limit int) []*summaryRow {
	start := (page - 1) * limit
	if start >= len(rows) {
		return nil
	}
	end := start + limit + 1
	if end > len(rows) {
		end = len(rows)
	}
	return rows[start:end]
}
