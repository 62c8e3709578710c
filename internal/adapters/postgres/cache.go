package postgres

import (
	"fmt"
	"strings"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/inkhouse/backend/internal/content/domain"
	"github.com/inkhouse/backend/internal/content/ports"
)

// Read-side cache TTL. Short on purpose: the cache only smooths bursts of
// identical reads, it is never a correctness dependency.
const (
	cacheTTL     = 30 * time.Second
	cacheCleanup = time.Minute
)

// readCache wraps the keyed TTL store used by list/get operations. A nil
// readCache degrades silently to direct reads. Values are cloned on the way
// in and out, so no caller ever holds a pointer into the cache.
type readCache struct {
	store *gocache.Cache
}

func newReadCache() *readCache {
	return &readCache{store: gocache.New(cacheTTL, cacheCleanup)}
}

func listKey(page, limit int, includeDrafts bool) string {
	return fmt.Sprintf("list:%d:%d:drafts=%t", page, limit, includeDrafts)
}

func postSlugKey(slug string, includeDrafts bool) string {
	return fmt.Sprintf("post:slug:%s:drafts=%t", slug, includeDrafts)
}

func postIDKey(id int64, includeDrafts bool) string {
	return fmt.Sprintf("post:id:%d:drafts=%t", id, includeDrafts)
}

func (c *readCache) getPost(key string) (*domain.Post, bool) {
	if c == nil {
		return nil, false
	}
	cached, ok := c.store.Get(key)
	if !ok {
		return nil, false
	}
	post, ok := cached.(*domain.Post)
	if !ok {
		return nil, false
	}
	return post.Clone(), true
}

func (c *readCache) setPost(key string, post *domain.Post) {
	if c == nil {
		return
	}
	c.store.SetDefault(key, post.Clone())
}

func (c *readCache) getList(key string) (*ports.ListResult, bool) {
	if c == nil {
		return nil, false
	}
	cached, ok := c.store.Get(key)
	if !ok {
		return nil, false
	}
	result, ok := cached.(*ports.ListResult)
	if !ok {
		return nil, false
	}
	return result.Clone(), true
}

func (c *readCache) setList(key string, result *ports.ListResult) {
	if c == nil {
		return
	}
	c.store.SetDefault(key, result.Clone())
}

// invalidatePost drops both draft-inclusion variants of the post's id and
// slug keys.
func (c *readCache) invalidatePost(id int64, slug string) {
	if c == nil {
		return
	}
	for _, drafts := range []bool{true, false} {
		c.store.Delete(postIDKey(id, drafts))
		if slug != "" {
			c.store.Delete(postSlugKey(slug, drafts))
		}
	}
}

// invalidateLists drops every cached list page, with-drafts and
// published-only alike.
func (c *readCache) invalidateLists() {
	if c == nil {
		return
	}
	for key := range c.store.Items() {
		if strings.HasPrefix(key, "list:") {
			c.store.Delete(key)
		}
	}
}
