package application

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inkhouse/backend/internal/content/domain"
	"github.com/inkhouse/backend/internal/content/ports"
	"github.com/inkhouse/backend/internal/platform/eventbus"
	"github.com/inkhouse/backend/internal/platform/events"
	"github.com/inkhouse/backend/internal/platform/logger"
)

// mockProvider records calls and returns canned results.
type mockProvider struct {
	ports.ContentProvider

	createErr error
	deleteErr error
	post      *domain.Post
}

func (m *mockProvider) CreatePost(ctx context.Context, input ports.CreateInput) (*domain.Post, error) {
	if m.createErr != nil {
		return nil, m.createErr
	}
	return m.post, nil
}

func (m *mockProvider) UpdatePost(ctx context.Context, id string, input ports.UpdateInput) (*domain.Post, error) {
	return m.post, nil
}

func (m *mockProvider) DeletePost(ctx context.Context, id string) error {
	return m.deleteErr
}

// recordingBus captures published events synchronously.
type recordingBus struct {
	published []eventbus.Event
}

func (b *recordingBus) Publish(ctx context.Context, event eventbus.Event) {
	b.published = append(b.published, event)
}

func newTestService(provider *mockProvider, bus *recordingBus) *ContentService {
	return NewContentService(provider, "default", bus, logger.NewNop())
}

func TestCreatePost_PublishesEvent(t *testing.T) {
	provider := &mockProvider{post: &domain.Post{ID: "7", Slug: "hello", Title: "Hello"}}
	bus := &recordingBus{}
	service := newTestService(provider, bus)

	post, err := service.CreatePost(context.Background(), ports.CreateInput{Slug: "hello"})
	require.NoError(t, err)
	require.NotNil(t, post)

	require.Len(t, bus.published, 1)
	assert.Equal(t, events.PostCreatedTopic, bus.published[0].Topic)

	payload, ok := bus.published[0].Payload.(events.PostCreatedEvent)
	require.True(t, ok)
	assert.Equal(t, "7", payload.PostID)
	assert.Equal(t, "hello", payload.Slug)
	assert.Equal(t, "default", payload.Provider)
	assert.False(t, payload.OccurredAt.IsZero())
}

func TestCreatePost_NoEventOnFailure(t *testing.T) {
	provider := &mockProvider{createErr: errors.New("backend down")}
	bus := &recordingBus{}
	service := newTestService(provider, bus)

	_, err := service.CreatePost(context.Background(), ports.CreateInput{Slug: "hello"})
	require.Error(t, err)
	assert.Empty(t, bus.published)
}

func TestUpdatePost_PublishesEvent(t *testing.T) {
	provider := &mockProvider{post: &domain.Post{ID: "7", Slug: "hello", Title: "Hello"}}
	bus := &recordingBus{}
	service := newTestService(provider, bus)

	_, err := service.UpdatePost(context.Background(), "7", ports.UpdateInput{})
	require.NoError(t, err)

	require.Len(t, bus.published, 1)
	assert.Equal(t, events.PostUpdatedTopic, bus.published[0].Topic)
}

func TestDeletePost_PublishesEvent(t *testing.T) {
	provider := &mockProvider{}
	bus := &recordingBus{}
	service := newTestService(provider, bus)

	require.NoError(t, service.DeletePost(context.Background(), "7"))

	require.Len(t, bus.published, 1)
	assert.Equal(t, events.PostDeletedTopic, bus.published[0].Topic)

	payload, ok := bus.published[0].Payload.(events.PostDeletedEvent)
	require.True(t, ok)
	assert.Equal(t, "7", payload.PostID)
}

func TestDeletePost_NoEventOnFailure(t *testing.T) {
	provider := &mockProvider{deleteErr: ports.ErrPostNotFound}
	bus := &recordingBus{}
	service := newTestService(provider, bus)

	err := service.DeletePost(context.Background(), "missing")
	assert.True(t, errors.Is(err, ports.ErrPostNotFound))
	assert.Empty(t, bus.published)
}
