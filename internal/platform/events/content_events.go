package events

import (
	"time"

	"github.com/inkhouse/backend/internal/platform/eventbus"
)

// Topics for content lifecycle events
const (
	PostCreatedTopic eventbus.Topic = "content.post.created"
	PostUpdatedTopic eventbus.Topic = "content.post.updated"
	PostDeletedTopic eventbus.Topic = "content.post.deleted"
)

// PostCreatedEvent is published after a post has been created on the active backend
type PostCreatedEvent struct {
	PostID     string
	Slug       string
	Title      string
	Provider   string
	OccurredAt time.Time
}

// PostUpdatedEvent is published after a post has been updated on the active backend
type PostUpdatedEvent struct {
	PostID     string
	Slug       string
	Title      string
	Provider   string
	OccurredAt time.Time
}

// PostDeletedEvent is published after a post has been removed from the active backend
type PostDeletedEvent struct {
	PostID     string
	Provider   string
	OccurredAt time.Time
}
