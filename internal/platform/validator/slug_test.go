package validator_test

import (
	"testing"

	"github.com/inkhouse/backend/internal/platform/validator"
	"github.com/stretchr/testify/assert"
)

func TestValidateSlugFormat(t *testing.T) {
	tests := []struct {
		name    string
		slug    string
		wantErr error
	}{
		{name: "valid slug", slug: "hello-world-42", wantErr: nil},
		{name: "empty slug", slug: "", wantErr: validator.ErrSlugEmpty},
		{name: "uppercase rejected", slug: "Hello-World", wantErr: validator.ErrInvalidSlugFormat},
		{name: "spaces rejected", slug: "hello world", wantErr: validator.ErrInvalidSlugFormat},
		{name: "too long", slug: string(make([]byte, 300)), wantErr: validator.ErrSlugTooLong},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validator.ValidateSlugFormat(tt.slug, 250)
			if tt.wantErr == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tt.wantErr)
			}
		})
	}
}

func TestGenerateSlug(t *testing.T) {
	assert.Equal(t, "hello-world", validator.GenerateSlug("Hello, World!", 250))
	assert.Equal(t, "go-1-24-released", validator.GenerateSlug("Go 1.24 Released", 250))
	assert.Equal(t, "a-b", validator.GenerateSlug("--a---b--", 250))

	// Truncation never leaves a trailing hyphen
	got := validator.GenerateSlug("abc def", 4)
	assert.Equal(t, "abc", got)
}
