package postgres

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/inkhouse/backend/internal/content/domain"
	"github.com/inkhouse/backend/internal/content/ports"
	"github.com/inkhouse/backend/internal/platform/apperror"
	"github.com/inkhouse/backend/internal/platform/postgres"
	"github.com/inkhouse/backend/internal/platform/validator"
	"github.com/jackc/pgx/v5"
)

const maxSlugLength = 250

// CreatePost inserts a new post and reconciles its tag set inside one
// transaction.
func (p *Provider) CreatePost(ctx context.Context, input ports.CreateInput) (*domain.Post, error) {
	if err := validateSlugInput(input.Slug); err != nil {
		return nil, err
	}
	if !input.Status.IsValid() {
		return nil, apperror.InvalidArgument(
			apperror.BusinessCodeInvalidFormat,
			fmt.Sprintf("invalid post status %q", input.Status),
		)
	}
	authorID, err := strconv.ParseInt(input.AuthorID, 10, 64)
	if err != nil {
		return nil, apperror.InvalidArgument(
			apperror.BusinessCodeMalformedID,
			fmt.Sprintf("author id %q must be numeric", input.AuthorID),
		)
	}
	var categoryID *int64
	if input.CategoryID != nil {
		id, err := strconv.ParseInt(*input.CategoryID, 10, 64)
		if err != nil {
			return nil, apperror.InvalidArgument(
				apperror.BusinessCodeMalformedID,
				fmt.Sprintf("category id %q must be numeric", *input.CategoryID),
			)
		}
		categoryID = &id
	}

	kind := input.Kind
	if kind == "" {
		kind = domain.KindStandard
	}

	var postID int64
	err = postgres.RunInTx(ctx, p.tm, func(tx pgx.Tx) error {
		repo := p.BaseRepository.WithTx(tx)

		query, args, err := repo.SB.
			Insert("posts").
			Columns(
				"title", "slug", "excerpt", "content", "published",
				"allow_comments", "hero_image_url", "seo_title", "seo_description",
				"kind", "video_url", "audio_url", "gallery_urls",
				"author_id", "category_id", "created_at",
			).
			Values(
				input.Title,
				input.Slug,
				input.Excerpt,
				input.Body,
				publishedFromStatus(input.Status),
				input.AllowComments,
				input.HeroImageURL,
				input.SeoTitle,
				input.SeoDescription,
				string(kind),
				input.VideoURL,
				input.AudioURL,
				input.GalleryURLs,
				authorID,
				categoryID,
				time.Now().UTC(),
			).
			Suffix("RETURNING id").
			ToSql()
		if err != nil {
			return fmt.Errorf("build insert: %w", err)
		}

		if err := repo.DB.QueryRow(ctx, query, args...).Scan(&postID); err != nil {
			return fmt.Errorf("insert post: %w", err)
		}

		return reconcileTags(ctx, repo.DB, repo.SB, postID, input.TagNames)
	})
	if err != nil {
		return nil, fmt.Errorf("Provider.CreatePost: %w", err)
	}

	p.cache.invalidateLists()

	post, err := p.fetchPost(ctx, sq.Eq{"p.id": postID}, true)
	if err != nil {
		return nil, fmt.Errorf("Provider.CreatePost: %w", err)
	}
	return post, nil
}

// UpdatePost applies a partial update and, when a tag set is supplied, fully
// repopulates the post's tag associations in the same transaction.
func (p *Provider) UpdatePost(ctx context.Context, id string, input ports.UpdateInput) (*domain.Post, error) {
	postID, err := parsePostID(id)
	if err != nil {
		return nil, err
	}
	if input.Slug != nil {
		if err := validateSlugInput(*input.Slug); err != nil {
			return nil, err
		}
	}
	if input.Status != nil && !input.Status.IsValid() {
		return nil, apperror.InvalidArgument(
			apperror.BusinessCodeInvalidFormat,
			fmt.Sprintf("invalid post status %q", *input.Status),
		)
	}
	var categoryID *int64
	if input.CategoryID != nil {
		cid, err := strconv.ParseInt(*input.CategoryID, 10, 64)
		if err != nil {
			return nil, apperror.InvalidArgument(
				apperror.BusinessCodeMalformedID,
				fmt.Sprintf("category id %q must be numeric", *input.CategoryID),
			)
		}
		categoryID = &cid
	}

	var oldSlug string
	err = postgres.RunInTx(ctx, p.tm, func(tx pgx.Tx) error {
		repo := p.BaseRepository.WithTx(tx)

		query, args, err := repo.SB.Select("slug").From("posts").Where(sq.Eq{"id": postID}).ToSql()
		if err != nil {
			return fmt.Errorf("build slug lookup: %w", err)
		}
		if err := repo.DB.QueryRow(ctx, query, args...).Scan(&oldSlug); err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return ports.ErrPostNotFound
			}
			return fmt.Errorf("slug lookup: %w", err)
		}

		qb := repo.SB.Update("posts").
			Set("updated_at", time.Now().UTC()).
			Where(sq.Eq{"id": postID})

		if input.Title != nil {
			qb = qb.Set("title", *input.Title)
		}
		if input.Slug != nil {
			qb = qb.Set("slug", *input.Slug)
		}
		if input.Excerpt != nil {
			qb = qb.Set("excerpt", *input.Excerpt)
		}
		if input.Body != nil {
			qb = qb.Set("content", *input.Body)
		}
		if input.Status != nil {
			qb = qb.Set("published", publishedFromStatus(*input.Status))
		}
		if categoryID != nil {
			qb = qb.Set("category_id", *categoryID)
		}
		if input.HeroImageURL != nil {
			qb = qb.Set("hero_image_url", *input.HeroImageURL)
		}
		if input.SeoTitle != nil {
			qb = qb.Set("seo_title", *input.SeoTitle)
		}
		if input.SeoDescription != nil {
			qb = qb.Set("seo_description", *input.SeoDescription)
		}
		if input.AllowComments != nil {
			qb = qb.Set("allow_comments", *input.AllowComments)
		}
		if input.Kind != nil {
			qb = qb.Set("kind", string(*input.Kind))
		}
		if input.VideoURL != nil {
			qb = qb.Set("video_url", *input.VideoURL)
		}
		if input.AudioURL != nil {
			qb = qb.Set("audio_url", *input.AudioURL)
		}
		if input.GalleryURLs != nil {
			qb = qb.Set("gallery_urls", *input.GalleryURLs)
		}

		query, args, err = qb.ToSql()
		if err != nil {
			return fmt.Errorf("build update: %w", err)
		}
		if _, err := repo.DB.Exec(ctx, query, args...); err != nil {
			return fmt.Errorf("update post: %w", err)
		}

		if input.TagNames != nil {
			return reconcileTags(ctx, repo.DB, repo.SB, postID, *input.TagNames)
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, ports.ErrPostNotFound) {
			return nil, ports.ErrPostNotFound
		}
		return nil, fmt.Errorf("Provider.UpdatePost: %w", err)
	}

	p.cache.invalidatePost(postID, oldSlug)
	if input.Slug != nil && *input.Slug != oldSlug {
		p.cache.invalidatePost(postID, *input.Slug)
	}
	p.cache.invalidateLists()

	post, err := p.fetchPost(ctx, sq.Eq{"p.id": postID}, true)
	if err != nil {
		return nil, fmt.Errorf("Provider.UpdatePost: %w", err)
	}
	return post, nil
}

// DeletePost removes a post and its tag associations.
func (p *Provider) DeletePost(ctx context.Context, id string) error {
	postID, err := parsePostID(id)
	if err != nil {
		return err
	}

	var slug string
	err = postgres.RunInTx(ctx, p.tm, func(tx pgx.Tx) error {
		repo := p.BaseRepository.WithTx(tx)

		query, args, err := repo.SB.Delete("post_tags").Where(sq.Eq{"post_id": postID}).ToSql()
		if err != nil {
			return fmt.Errorf("build association delete: %w", err)
		}
		if _, err := repo.DB.Exec(ctx, query, args...); err != nil {
			return fmt.Errorf("delete associations: %w", err)
		}

		query, args, err = repo.SB.Delete("posts").
			Where(sq.Eq{"id": postID}).
			Suffix("RETURNING slug").
			ToSql()
		if err != nil {
			return fmt.Errorf("build post delete: %w", err)
		}
		if err := repo.DB.QueryRow(ctx, query, args...).Scan(&slug); err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return ports.ErrPostNotFound
			}
			return fmt.Errorf("delete post: %w", err)
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, ports.ErrPostNotFound) {
			return ports.ErrPostNotFound
		}
		return fmt.Errorf("Provider.DeletePost: %w", err)
	}

	p.cache.invalidatePost(postID, slug)
	p.cache.invalidateLists()
	return nil
}

func validateSlugInput(slug string) error {
	if slug == "" {
		return ports.EmptySlug()
	}
	if err := validator.ValidateSlugFormat(slug, maxSlugLength); err != nil {
		return apperror.InvalidArgument(
			apperror.BusinessCodeInvalidFormat,
			fmt.Sprintf("invalid slug %q: %v", slug, err),
		)
	}
	return nil
}
