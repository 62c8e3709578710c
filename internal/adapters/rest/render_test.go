package rest

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inkhouse/backend/internal/content/domain"
)

func TestRender_Markdown(t *testing.T) {
	renderer := NewBodyRenderer()

	out, err := renderer.Render(domain.ContentBody{
		Format: domain.BodyFormatMarkdown,
		Value:  "# Title\n\nSome **bold** text.",
	})
	require.NoError(t, err)

	assert.Contains(t, out, "Title")
	assert.Contains(t, out, "<strong>bold</strong>")
}

func TestRender_HTMLIsSanitized(t *testing.T) {
	renderer := NewBodyRenderer()

	out, err := renderer.Render(domain.ContentBody{
		Format: domain.BodyFormatHTML,
		Value:  `<p>fine</p><script>alert("xss")</script>`,
	})
	require.NoError(t, err)

	assert.Contains(t, out, "<p>fine</p>")
	assert.NotContains(t, out, "<script>")
}

func TestRender_RichTextPassesThroughSanitizer(t *testing.T) {
	renderer := NewBodyRenderer()

	out, err := renderer.Render(domain.ContentBody{
		Format: domain.BodyFormatRichText,
		Value:  `<p onclick="steal()">content</p>`,
	})
	require.NoError(t, err)

	assert.Contains(t, out, "content")
	assert.NotContains(t, out, "onclick")
}
