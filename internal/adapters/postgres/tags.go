package postgres

import (
	"context"
	"fmt"
	"strings"

	sq "github.com/Masterminds/squirrel"
	"github.com/inkhouse/backend/internal/platform/postgres"
)

// dedupeTagNames trims, drops empties, and removes duplicates while keeping
// first-seen order. Tag names are case-sensitive: "Go" and "go" are distinct.
func dedupeTagNames(names []string) []string {
	seen := make(map[string]struct{}, len(names))
	out := make([]string, 0, len(names))
	for _, name := range names {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		out = append(out, name)
	}
	return out
}

// reconcileTags repopulates the post_tags join table for one post from the
// requested tag names. Existing associations are deleted first, then fully
// rebuilt; missing tags are inserted with ON CONFLICT DO NOTHING so an
// existing name always resolves to its existing id. Must run inside the same
// transaction as the post write so a crash can never leave partial
// associations.
func reconcileTags(ctx context.Context, db postgres.Querier, sb sq.StatementBuilderType, postID int64, names []string) error {
	names = dedupeTagNames(names)

	query, args, err := sb.Delete("post_tags").Where(sq.Eq{"post_id": postID}).ToSql()
	if err != nil {
		return fmt.Errorf("reconcileTags: build delete: %w", err)
	}
	if _, err := db.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("reconcileTags: clear associations: %w", err)
	}

	if len(names) == 0 {
		return nil
	}

	// Insert any names not present yet. The unique index on tags.name plus
	// ON CONFLICT DO NOTHING guarantees an overlapping name reuses the
	// existing row instead of creating a duplicate.
	insert := sb.Insert("tags").Columns("name")
	for _, name := range names {
		insert = insert.Values(name)
	}
	query, args, err = insert.Suffix("ON CONFLICT (name) DO NOTHING").ToSql()
	if err != nil {
		return fmt.Errorf("reconcileTags: build insert: %w", err)
	}
	if _, err := db.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("reconcileTags: insert tags: %w", err)
	}

	// Resolve every requested name to its id.
	query, args, err = sb.Select("id").From("tags").Where(sq.Eq{"name": names}).ToSql()
	if err != nil {
		return fmt.Errorf("reconcileTags: build lookup: %w", err)
	}
	rows, err := db.Query(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("reconcileTags: lookup tags: %w", err)
	}
	defer rows.Close()

	var tagIDs []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return fmt.Errorf("reconcileTags: %w", err)
		}
		tagIDs = append(tagIDs, id)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("reconcileTags: rows error: %w", err)
	}

	join := sb.Insert("post_tags").Columns("post_id", "tag_id")
	for _, tagID := range tagIDs {
		join = join.Values(postID, tagID)
	}
	query, args, err = join.ToSql()
	if err != nil {
		return fmt.Errorf("reconcileTags: build join insert: %w", err)
	}
	if _, err := db.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("reconcileTags: populate associations: %w", err)
	}

	return nil
}
