package restcms

import (
	"time"

	"github.com/inkhouse/backend/internal/content/domain"
)

// rendered is the remote system's wrapper around HTML-rendered fields.
type rendered struct {
	Rendered string `json:"rendered"`
}

// remoteMeta carries the custom fields the blog stores on a remote post.
type remoteMeta struct {
	SeoTitle       string   `json:"seo_title"`
	SeoDescription string   `json:"seo_description"`
	Kind           string   `json:"kind"`
	VideoURL       string   `json:"video_url"`
	AudioURL       string   `json:"audio_url"`
	GalleryURLs    []string `json:"gallery_urls"`
	HeroImageURL   string   `json:"hero_image_url"`
}

// remotePost is the wire shape of a post in the remote REST namespace.
// Categories and tags are integer term ids; names are resolved separately.
type remotePost struct {
	ID            int64      `json:"id"`
	DateGMT       string     `json:"date_gmt"`
	ModifiedGMT   string     `json:"modified_gmt"`
	Slug          string     `json:"slug"`
	Status        string     `json:"status"`
	Title         rendered   `json:"title"`
	Content       rendered   `json:"content"`
	Excerpt       rendered   `json:"excerpt"`
	Author        int64      `json:"author"`
	Categories    []int64    `json:"categories"`
	Tags          []int64    `json:"tags"`
	CommentStatus string     `json:"comment_status"`
	Meta          remoteMeta `json:"meta"`
}

// remoteTerm is a category or tag record identified by integer term id.
type remoteTerm struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}

// remoteUser is the author record behind a post's author id.
type remoteUser struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

const remoteTimeLayout = "2006-01-02T15:04:05"

// parseRemoteTime parses the remote system's GMT timestamps. A zero value is
// returned for empty or malformed input.
func parseRemoteTime(s string) time.Time {
	t, err := time.Parse(remoteTimeLayout, s)
	if err != nil {
		return time.Time{}
	}
	return t.UTC()
}

// statusFromRemote translates the native publish vocabulary into the
// canonical triplet at the read boundary.
func statusFromRemote(status string) domain.PostStatus {
	switch status {
	case "publish":
		return domain.StatusPublished
	case "future":
		return domain.StatusScheduled
	default:
		return domain.StatusDraft
	}
}

// statusToRemote translates a canonical status back to the native vocabulary
// at the write boundary.
func statusToRemote(status domain.PostStatus) string {
	switch status {
	case domain.StatusPublished:
		return "publish"
	case domain.StatusScheduled:
		return "future"
	default:
		return "draft"
	}
}
