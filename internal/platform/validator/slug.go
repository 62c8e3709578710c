package validator

import (
	"errors"
	"regexp"
	"strings"
)

// Slug validation errors
var (
	ErrInvalidSlugFormat = errors.New("slug must contain only lowercase letters, numbers, and hyphens")
	ErrSlugEmpty         = errors.New("slug cannot be empty")
	ErrSlugTooLong       = errors.New("slug is too long")
)

// Compile regex patterns once at package level for performance
var (
	slugValidationRegex = regexp.MustCompile(`^[a-z0-9-]+$`)
	slugReplaceRegex    = regexp.MustCompile(`[^a-z0-9-]+`)
	slugCollapseRegex   = regexp.MustCompile(`-+`)
)

// ValidateSlugFormat checks if a slug has valid format
func ValidateSlugFormat(slug string, maxLength int) error {
	if slug == "" {
		return ErrSlugEmpty
	}

	if len(slug) > maxLength {
		return ErrSlugTooLong
	}

	if !slugValidationRegex.MatchString(slug) {
		return ErrInvalidSlugFormat
	}

	return nil
}

// GenerateSlug creates a URL-friendly slug from a text string
func GenerateSlug(text string, maxLength int) string {
	slug := strings.ToLower(text)

	// Replace spaces and special characters with hyphens
	slug = slugReplaceRegex.ReplaceAllString(slug, "-")

	// Remove leading/trailing hyphens
	slug = strings.Trim(slug, "-")

	// Collapse multiple hyphens
	slug = slugCollapseRegex.ReplaceAllString(slug, "-")

	if len(slug) > maxLength {
		slug = slug[:maxLength]
		// Ensure we don't end with a hyphen after truncation
		slug = strings.TrimRight(slug, "-")
	}

	return slug
}
