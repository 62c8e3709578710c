package ports

import (
	"fmt"
	"net/http"

	"github.com/inkhouse/backend/internal/platform/apperror"
)

// Canonical errors shared by all provider implementations.
var (
	// ErrPostNotFound is returned by mutating operations targeting an id that
	// does not exist. Getters signal absence with a nil post instead.
	ErrPostNotFound = apperror.New(
		apperror.CodeNotFound,
		apperror.BusinessCodePostNotFound,
		"post not found",
		http.StatusNotFound,
	)

	// ErrWriteNotConfigured is raised before any network call when a write is
	// attempted on a provider whose write credential is not configured.
	ErrWriteNotConfigured = apperror.New(
		apperror.CodeWriteAuthorization,
		apperror.BusinessCodeWriteTokenMissing,
		"write operations require a write credential to be configured",
		http.StatusForbidden,
	)
)

// MalformedID reports an id that does not fit the backend's native id shape,
// e.g. a non-numeric id handed to a numeric-id backend.
func MalformedID(id string) *apperror.AppError {
	return apperror.InvalidArgument(
		apperror.BusinessCodeMalformedID,
		fmt.Sprintf("malformed post id %q", id),
	)
}

// EmptySlug reports a blank slug before any I/O is attempted.
func EmptySlug() *apperror.AppError {
	return apperror.InvalidArgument(
		apperror.BusinessCodeEmptySlug,
		"slug cannot be empty",
	)
}
