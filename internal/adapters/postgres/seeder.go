package postgres

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"

	"github.com/inkhouse/backend/internal/platform/postgres"
)

// ContentSeeder inserts the baseline taxonomy and a sample author so a fresh
// relational backend is usable immediately. Every statement upserts, so
// re-running is harmless.
type ContentSeeder struct {
	sb sq.StatementBuilderType
}

func NewContentSeeder() *ContentSeeder {
	return &ContentSeeder{sb: sq.StatementBuilder.PlaceholderFormat(sq.Dollar)}
}

func (s *ContentSeeder) Name() string { return "content" }

func (s *ContentSeeder) Seed(ctx context.Context, db postgres.Querier) error {
	categories := []struct{ name, slug string }{
		{"General", "general"},
		{"Engineering", "engineering"},
		{"Product", "product"},
	}
	for _, category := range categories {
		query, args, err := s.sb.
			Insert("categories").
			Columns("name", "slug").
			Values(category.name, category.slug).
			Suffix("ON CONFLICT (slug) DO NOTHING").
			ToSql()
		if err != nil {
			return fmt.Errorf("build category insert: %w", err)
		}
		if _, err := db.Exec(ctx, query, args...); err != nil {
			return fmt.Errorf("seed category %s: %w", category.name, err)
		}
	}

	for _, tag := range []string{"announcement", "golang", "web"} {
		query, args, err := s.sb.
			Insert("tags").
			Columns("name").
			Values(tag).
			Suffix("ON CONFLICT (name) DO NOTHING").
			ToSql()
		if err != nil {
			return fmt.Errorf("build tag insert: %w", err)
		}
		if _, err := db.Exec(ctx, query, args...); err != nil {
			return fmt.Errorf("seed tag %s: %w", tag, err)
		}
	}

	query, args, err := s.sb.
		Insert("users").
		Columns("name", "email").
		Values("Editorial Team", "editors@inkhouse.dev").
		Suffix("ON CONFLICT (email) DO NOTHING").
		ToSql()
	if err != nil {
		return fmt.Errorf("build author insert: %w", err)
	}
	if _, err := db.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("seed author: %w", err)
	}

	return nil
}
