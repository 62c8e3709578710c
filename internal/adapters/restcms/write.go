package restcms

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/inkhouse/backend/internal/content/domain"
	"github.com/inkhouse/backend/internal/content/ports"
	"github.com/inkhouse/backend/internal/platform/apperror"
	"github.com/inkhouse/backend/internal/platform/validator"
)

const maxSlugLength = 250

// ensureWritable rejects writes before any network traffic when the provider
// was configured without an application password.
func (p *Provider) ensureWritable() error {
	if !p.canWrite {
		return ports.ErrWriteNotConfigured
	}
	return nil
}

// CreatePost creates a post remotely. Tag names are resolved to term ids one
// by one, reusing existing tags by exact name before creating new ones.
func (p *Provider) CreatePost(ctx context.Context, input ports.CreateInput) (*domain.Post, error) {
	if err := p.ensureWritable(); err != nil {
		return nil, err
	}
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

	tagIDs, err := p.resolveTagNames(ctx, input.TagNames)
	if err != nil {
		return nil, fmt.Errorf("Provider.CreatePost: %w", err)
	}

	kind := input.Kind
	if kind == "" {
		kind = domain.KindStandard
	}

	payload := map[string]any{
		"title":   input.Title,
		"slug":    input.Slug,
		"status":  statusToRemote(input.Status),
		"content": input.Body,
		"author":  authorID,
		"tags":    tagIDs,
		"meta": remoteMeta{
			SeoTitle:       input.SeoTitle,
			SeoDescription: input.SeoDescription,
			Kind:           string(kind),
			VideoURL:       input.VideoURL,
			AudioURL:       input.AudioURL,
			GalleryURLs:    input.GalleryURLs,
			HeroImageURL:   input.HeroImageURL,
		},
		"comment_status": commentStatus(input.AllowComments),
	}
	if input.Excerpt != nil {
		payload["excerpt"] = *input.Excerpt
	}
	if input.CategoryID != nil {
		categoryID, err := strconv.ParseInt(*input.CategoryID, 10, 64)
		if err != nil {
			return nil, apperror.InvalidArgument(
				apperror.BusinessCodeMalformedID,
				fmt.Sprintf("category id %q must be numeric", *input.CategoryID),
			)
		}
		payload["categories"] = []int64{categoryID}
	}

	var created remotePost
	if err := p.client.send(ctx, http.MethodPost, "/posts", nil, payload, &created); err != nil {
		return nil, fmt.Errorf("Provider.CreatePost: %w", err)
	}

	refs, err := p.resolveRefs(ctx, []remotePost{created})
	if err != nil {
		return nil, fmt.Errorf("Provider.CreatePost: %w", err)
	}
	return p.mapPost(created, refs), nil
}

// UpdatePost patches only the supplied fields. When a tag set is supplied the
// remote tag list is fully replaced with the resolved term ids.
func (p *Provider) UpdatePost(ctx context.Context, id string, input ports.UpdateInput) (*domain.Post, error) {
	if err := p.ensureWritable(); err != nil {
		return nil, err
	}
	postID, err := parseRemoteID(id)
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

	payload := map[string]any{}
	meta := map[string]any{}
	if input.Title != nil {
		payload["title"] = *input.Title
	}
	if input.Slug != nil {
		payload["slug"] = *input.Slug
	}
	if input.Excerpt != nil {
		payload["excerpt"] = *input.Excerpt
	}
	if input.Body != nil {
		payload["content"] = *input.Body
	}
	if input.Status != nil {
		payload["status"] = statusToRemote(*input.Status)
	}
	if input.CategoryID != nil {
		categoryID, err := strconv.ParseInt(*input.CategoryID, 10, 64)
		if err != nil {
			return nil, apperror.InvalidArgument(
				apperror.BusinessCodeMalformedID,
				fmt.Sprintf("category id %q must be numeric", *input.CategoryID),
			)
		}
		payload["categories"] = []int64{categoryID}
	}
	if input.TagNames != nil {
		tagIDs, err := p.resolveTagNames(ctx, *input.TagNames)
		if err != nil {
			return nil, fmt.Errorf("Provider.UpdatePost: %w", err)
		}
		payload["tags"] = tagIDs
	}
	if input.AllowComments != nil {
		payload["comment_status"] = commentStatus(*input.AllowComments)
	}
	if input.HeroImageURL != nil {
		meta["hero_image_url"] = *input.HeroImageURL
	}
	if input.SeoTitle != nil {
		meta["seo_title"] = *input.SeoTitle
	}
	if input.SeoDescription != nil {
		meta["seo_description"] = *input.SeoDescription
	}
	if input.Kind != nil {
		meta["kind"] = string(*input.Kind)
	}
	if input.VideoURL != nil {
		meta["video_url"] = *input.VideoURL
	}
	if input.AudioURL != nil {
		meta["audio_url"] = *input.AudioURL
	}
	if input.GalleryURLs != nil {
		meta["gallery_urls"] = *input.GalleryURLs
	}
	if len(meta) > 0 {
		payload["meta"] = meta
	}

	var updated remotePost
	err = p.client.send(ctx, http.MethodPost, fmt.Sprintf("/posts/%d", postID), nil, payload, &updated)
	if errors.Is(err, errRemoteNotFound) {
		return nil, ports.ErrPostNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("Provider.UpdatePost: %w", err)
	}

	refs, err := p.resolveRefs(ctx, []remotePost{updated})
	if err != nil {
		return nil, fmt.Errorf("Provider.UpdatePost: %w", err)
	}
	return p.mapPost(updated, refs), nil
}

// DeletePost deletes the post permanently, bypassing the remote trash bin.
func (p *Provider) DeletePost(ctx context.Context, id string) error {
	if err := p.ensureWritable(); err != nil {
		return err
	}
	postID, err := parseRemoteID(id)
	if err != nil {
		return err
	}

	query := url.Values{"force": {"true"}}
	err = p.client.send(ctx, http.MethodDelete, fmt.Sprintf("/posts/%d", postID), query, nil, nil)
	if errors.Is(err, errRemoteNotFound) {
		return ports.ErrPostNotFound
	}
	if err != nil {
		return fmt.Errorf("Provider.DeletePost: %w", err)
	}
	return nil
}

// resolveTagNames maps tag names to term ids serially, creating missing tags
// as it goes.
func (p *Provider) resolveTagNames(ctx context.Context, names []string) ([]int64, error) {
	names = dedupeNames(names)
	ids := make([]int64, 0, len(names))
	for _, name := range names {
		id, err := p.findOrCreateTag(ctx, name)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func commentStatus(allow bool) string {
	if allow {
		return "open"
	}
	return "closed"
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
