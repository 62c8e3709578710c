package doccms

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/inkhouse/backend/internal/content/domain"
	"github.com/inkhouse/backend/internal/content/ports"
	"github.com/inkhouse/backend/internal/platform/apperror"
	"github.com/inkhouse/backend/internal/platform/validator"
)

const maxSlugLength = 250

// ensureWritable rejects mutations before any network traffic when no write
// token is configured.
func (p *Provider) ensureWritable() error {
	if !p.canWrite {
		return ports.ErrWriteNotConfigured
	}
	return nil
}

// CreatePost creates a post document together with any missing tag documents
// in one transactional mutation batch. Draft and scheduled posts are created
// in the drafts namespace; only a published post gets a live id and a publish
// date.
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
	if input.AuthorID == "" {
		return nil, apperror.InvalidArgument(
			apperror.BusinessCodeMalformedID,
			"author id cannot be empty",
		)
	}

	tagRefs, tagCreates, err := p.reconcileTags(ctx, input.TagNames)
	if err != nil {
		return nil, fmt.Errorf("Provider.CreatePost: %w", err)
	}

	kind := input.Kind
	if kind == "" {
		kind = domain.KindStandard
	}

	postID := uuid.NewString()
	docID := postID
	if input.Status != domain.StatusPublished {
		docID = draftPrefix + postID
	}

	doc := map[string]any{
		"_id":           docID,
		"_type":         "post",
		"title":         input.Title,
		"slug":          map[string]any{"_type": "slug", "current": input.Slug},
		"body":          input.Body,
		"author":        reference(input.AuthorID),
		"tags":          tagRefs,
		"allowComments": input.AllowComments,
		"kind":          string(kind),
	}
	if input.Excerpt != nil {
		doc["excerpt"] = *input.Excerpt
	}
	if input.CategoryID != nil {
		doc["category"] = reference(*input.CategoryID)
	}
	if input.Status == domain.StatusPublished {
		doc["publishedAt"] = p.now().UTC().Format(time.RFC3339)
	}
	setPresentation(doc, input.HeroImageURL, input.SeoTitle, input.SeoDescription,
		input.VideoURL, input.AudioURL, input.GalleryURLs)

	mutations := append(tagCreates, map[string]any{"create": doc})
	if _, err := p.client.mutate(ctx, mutations, false); err != nil {
		return nil, fmt.Errorf("Provider.CreatePost: %w", err)
	}

	post, err := p.GetPostByID(ctx, postID, true)
	if err != nil {
		return nil, fmt.Errorf("Provider.CreatePost: %w", err)
	}
	return post, nil
}

// UpdatePost rewrites the current document with the supplied changes. A
// status change can move the document across the drafts namespace boundary,
// in which case the old incarnation is deleted in the same mutation batch.
func (p *Provider) UpdatePost(ctx context.Context, id string, input ports.UpdateInput) (*domain.Post, error) {
	if err := p.ensureWritable(); err != nil {
		return nil, err
	}
	if id == "" {
		return nil, ports.MalformedID(id)
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

	baseID := canonicalID(id)

	var doc map[string]any
	params := map[string]any{"id": baseID}
	if err := p.client.query(ctx, `*[_id == $id || _id == "drafts." + $id] | order(_updatedAt desc) [0]`, params, &doc); err != nil {
		return nil, fmt.Errorf("Provider.UpdatePost: %w", err)
	}
	if doc == nil {
		return nil, ports.ErrPostNotFound
	}
	currentID, _ := doc["_id"].(string)

	if input.Title != nil {
		doc["title"] = *input.Title
	}
	if input.Slug != nil {
		doc["slug"] = map[string]any{"_type": "slug", "current": *input.Slug}
	}
	if input.Excerpt != nil {
		doc["excerpt"] = *input.Excerpt
	}
	if input.Body != nil {
		doc["body"] = *input.Body
	}
	if input.CategoryID != nil {
		doc["category"] = reference(*input.CategoryID)
	}
	if input.AllowComments != nil {
		doc["allowComments"] = *input.AllowComments
	}
	if input.Kind != nil {
		doc["kind"] = string(*input.Kind)
	}
	if input.HeroImageURL != nil {
		doc["heroImageUrl"] = *input.HeroImageURL
	}
	if input.SeoTitle != nil {
		doc["seoTitle"] = *input.SeoTitle
	}
	if input.SeoDescription != nil {
		doc["seoDescription"] = *input.SeoDescription
	}
	if input.VideoURL != nil {
		doc["videoUrl"] = *input.VideoURL
	}
	if input.AudioURL != nil {
		doc["audioUrl"] = *input.AudioURL
	}
	if input.GalleryURLs != nil {
		doc["galleryUrls"] = *input.GalleryURLs
	}

	var tagCreates []any
	if input.TagNames != nil {
		var tagRefs []map[string]any
		var err error
		tagRefs, tagCreates, err = p.reconcileTags(ctx, *input.TagNames)
		if err != nil {
			return nil, fmt.Errorf("Provider.UpdatePost: %w", err)
		}
		doc["tags"] = tagRefs
	}

	targetID := currentID
	if input.Status != nil {
		switch *input.Status {
		case domain.StatusPublished:
			targetID = baseID
			if _, ok := doc["publishedAt"]; !ok {
				doc["publishedAt"] = p.now().UTC().Format(time.RFC3339)
			}
		default:
			targetID = draftPrefix + baseID
			delete(doc, "publishedAt")
		}
	}
	doc["_id"] = targetID

	mutations := append(tagCreates, map[string]any{"createOrReplace": doc})
	if targetID != currentID {
		mutations = append(mutations, map[string]any{"delete": map[string]any{"id": currentID}})
	}
	if _, err := p.client.mutate(ctx, mutations, false); err != nil {
		return nil, fmt.Errorf("Provider.UpdatePost: %w", err)
	}

	post, err := p.GetPostByID(ctx, baseID, true)
	if err != nil {
		return nil, fmt.Errorf("Provider.UpdatePost: %w", err)
	}
	return post, nil
}

// DeletePost removes both incarnations of the post. Absence is checked first
// so a missing id reports not-found instead of silently succeeding.
func (p *Provider) DeletePost(ctx context.Context, id string) error {
	if err := p.ensureWritable(); err != nil {
		return err
	}
	if id == "" {
		return ports.MalformedID(id)
	}

	baseID := canonicalID(id)

	var currentID *string
	params := map[string]any{"id": baseID}
	if err := p.client.query(ctx, currentIDQuery, params, &currentID); err != nil {
		return fmt.Errorf("Provider.DeletePost: %w", err)
	}
	if currentID == nil {
		return ports.ErrPostNotFound
	}

	mutations := []any{
		map[string]any{"delete": map[string]any{"id": baseID}},
		map[string]any{"delete": map[string]any{"id": draftPrefix + baseID}},
	}
	if _, err := p.client.mutate(ctx, mutations, false); err != nil {
		return fmt.Errorf("Provider.DeletePost: %w", err)
	}
	return nil
}

// reconcileTags resolves tag names to document references, returning create
// mutations for names with no existing tag document. Existing tags are
// matched by exact name and reused.
func (p *Provider) reconcileTags(ctx context.Context, names []string) ([]map[string]any, []any, error) {
	names = dedupeNames(names)
	if len(names) == 0 {
		return []map[string]any{}, nil, nil
	}

	var existing []docRef
	params := map[string]any{"names": names}
	if err := p.client.query(ctx, tagsByNameQuery, params, &existing); err != nil {
		return nil, nil, fmt.Errorf("resolve tags: %w", err)
	}

	byName := make(map[string]string, len(existing))
	for _, ref := range existing {
		if _, ok := byName[ref.Name]; !ok {
			byName[ref.Name] = ref.ID
		}
	}

	refs := make([]map[string]any, 0, len(names))
	var creates []any
	for _, name := range names {
		tagID, ok := byName[name]
		if !ok {
			tagID = "tag-" + uuid.NewString()
			creates = append(creates, map[string]any{
				"createIfNotExists": map[string]any{
					"_id":   tagID,
					"_type": "tag",
					"name":  name,
					"slug": map[string]any{
						"_type":   "slug",
						"current": validator.GenerateSlug(name, maxSlugLength),
					},
				},
			})
		}
		ref := reference(tagID)
		ref["_key"] = uuid.NewString()
		refs = append(refs, ref)
	}
	return refs, creates, nil
}

func reference(id string) map[string]any {
	return map[string]any{"_type": "reference", "_ref": id}
}

func setPresentation(doc map[string]any, hero, seoTitle, seoDescription, video, audio string, gallery []string) {
	if hero != "" {
		doc["heroImageUrl"] = hero
	}
	if seoTitle != "" {
		doc["seoTitle"] = seoTitle
	}
	if seoDescription != "" {
		doc["seoDescription"] = seoDescription
	}
	if video != "" {
		doc["videoUrl"] = video
	}
	if audio != "" {
		doc["audioUrl"] = audio
	}
	if len(gallery) > 0 {
		doc["galleryUrls"] = gallery
	}
}

// dedupeNames trims and de-duplicates tag names case-sensitively, preserving
// first-seen order.
func dedupeNames(names []string) []string {
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
