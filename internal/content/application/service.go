package application

import (
	"context"
	"time"

	"github.com/inkhouse/backend/internal/content/domain"
	"github.com/inkhouse/backend/internal/content/ports"
	"github.com/inkhouse/backend/internal/platform/eventbus"
	"github.com/inkhouse/backend/internal/platform/events"
	"github.com/inkhouse/backend/internal/platform/logger"
)

// EventPublisher is the slice of the event bus the service needs.
type EventPublisher interface {
	Publish(ctx context.Context, event eventbus.Event)
}

// ContentService fronts the active content provider. It adds request logging
// and publishes lifecycle events after successful writes; all content
// semantics live in the provider.
type ContentService struct {
	provider     ports.ContentProvider
	providerName string
	bus          EventPublisher
	log          logger.Logger
}

func NewContentService(provider ports.ContentProvider, providerName string, bus EventPublisher, log logger.Logger) *ContentService {
	return &ContentService{
		provider:     provider,
		providerName: providerName,
		bus:          bus,
		log:          log,
	}
}

func (s *ContentService) ListPosts(ctx context.Context, opts ports.ListOptions) (*ports.ListResult, error) {
	result, err := s.provider.ListPosts(ctx, opts)
	if err != nil {
		s.log.Error(ctx, "list posts failed", "error", err)
		return nil, err
	}
	s.log.Debug(ctx, "listed posts",
		"page", result.Page, "limit", result.Limit, "count", len(result.Items), "has_next", result.HasNext)
	return result, nil
}

func (s *ContentService) GetPostBySlug(ctx context.Context, slug string, includeDrafts bool) (*domain.Post, error) {
	post, err := s.provider.GetPostBySlug(ctx, slug, includeDrafts)
	if err != nil {
		s.log.Error(ctx, "get post by slug failed", "slug", slug, "error", err)
		return nil, err
	}
	return post, nil
}

func (s *ContentService) GetPostByID(ctx context.Context, id string, includeDrafts bool) (*domain.Post, error) {
	post, err := s.provider.GetPostByID(ctx, id, includeDrafts)
	if err != nil {
		s.log.Error(ctx, "get post by id failed", "id", id, "error", err)
		return nil, err
	}
	return post, nil
}

func (s *ContentService) SearchPosts(ctx context.Context, opts ports.SearchOptions) (*ports.ListResult, error) {
	result, err := s.provider.SearchPosts(ctx, opts)
	if err != nil {
		s.log.Error(ctx, "search failed", "query", opts.Query, "error", err)
		return nil, err
	}
	s.log.Debug(ctx, "search completed",
		"query", opts.Query, "count", len(result.Items), "has_next", result.HasNext)
	return result, nil
}

func (s *ContentService) ListCategories(ctx context.Context) ([]domain.Taxonomy, error) {
	return s.provider.ListCategories(ctx)
}

func (s *ContentService) ListTags(ctx context.Context) ([]domain.Taxonomy, error) {
	return s.provider.ListTags(ctx)
}

func (s *ContentService) GetSitemapEntries(ctx context.Context) ([]ports.SitemapEntry, error) {
	return s.provider.GetSitemapEntries(ctx)
}

func (s *ContentService) GetRssEntries(ctx context.Context) ([]ports.RssEntry, error) {
	return s.provider.GetRssEntries(ctx)
}

func (s *ContentService) CreatePost(ctx context.Context, input ports.CreateInput) (*domain.Post, error) {
	post, err := s.provider.CreatePost(ctx, input)
	if err != nil {
		s.log.Error(ctx, "create post failed", "slug", input.Slug, "error", err)
		return nil, err
	}

	s.log.Info(ctx, "post created", "id", post.ID, "slug", post.Slug, "provider", s.providerName)
	s.bus.Publish(ctx, eventbus.Event{
		Topic: events.PostCreatedTopic,
		Payload: events.PostCreatedEvent{
			PostID:     post.ID,
			Slug:       post.Slug,
			Title:      post.Title,
			Provider:   s.providerName,
			OccurredAt: time.Now().UTC(),
		},
	})
	return post, nil
}

func (s *ContentService) UpdatePost(ctx context.Context, id string, input ports.UpdateInput) (*domain.Post, error) {
	post, err := s.provider.UpdatePost(ctx, id, input)
	if err != nil {
		s.log.Error(ctx, "update post failed", "id", id, "error", err)
		return nil, err
	}

	s.log.Info(ctx, "post updated", "id", post.ID, "slug", post.Slug, "provider", s.providerName)
	s.bus.Publish(ctx, eventbus.Event{
		Topic: events.PostUpdatedTopic,
		Payload: events.PostUpdatedEvent{
			PostID:     post.ID,
			Slug:       post.Slug,
			Title:      post.Title,
			Provider:   s.providerName,
			OccurredAt: time.Now().UTC(),
		},
	})
	return post, nil
}

func (s *ContentService) DeletePost(ctx context.Context, id string) error {
	if err := s.provider.DeletePost(ctx, id); err != nil {
		s.log.Error(ctx, "delete post failed", "id", id, "error", err)
		return err
	}

	s.log.Info(ctx, "post deleted", "id", id, "provider", s.providerName)
	s.bus.Publish(ctx, eventbus.Event{
		Topic: events.PostDeletedTopic,
		Payload: events.PostDeletedEvent{
			PostID:     id,
			Provider:   s.providerName,
			OccurredAt: time.Now().UTC(),
		},
	})
	return nil
}
