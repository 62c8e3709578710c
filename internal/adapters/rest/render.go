package rest

import (
	"bytes"
	"fmt"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"

	"github.com/inkhouse/backend/internal/content/domain"
)

// BodyRenderer converts a post body to sanitized HTML regardless of which
// backend produced it. Markdown bodies are rendered first; HTML and richtext
// bodies are sanitized as-is.
type BodyRenderer struct {
	markdown goldmark.Markdown
	sanitize *bluemonday.Policy
}

func NewBodyRenderer() *BodyRenderer {
	return &BodyRenderer{
		markdown: goldmark.New(
			goldmark.WithExtensions(extension.GFM),
			goldmark.WithRendererOptions(html.WithHardWraps()),
		),
		sanitize: bluemonday.UGCPolicy(),
	}
}

// Render returns the sanitized HTML for a body.
func (r *BodyRenderer) Render(body domain.ContentBody) (string, error) {
	switch body.Format {
	case domain.BodyFormatMarkdown:
		var buf bytes.Buffer
		if err := r.markdown.Convert([]byte(body.Value), &buf); err != nil {
			return "", fmt.Errorf("BodyRenderer.Render: %w", err)
		}
		return r.sanitize.Sanitize(buf.String()), nil
	default:
		return r.sanitize.Sanitize(body.Value), nil
	}
}
