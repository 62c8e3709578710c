package apperror

import (
	"fmt"
	"net/http"
)

// ErrorCode is the system-level error category.
type ErrorCode string

const (
	CodeNotFound           ErrorCode = "NOT_FOUND"
	CodeConflict           ErrorCode = "CONFLICT"
	CodeValidationFailed   ErrorCode = "VALIDATION_FAILED"
	CodeConfiguration      ErrorCode = "CONFIGURATION"
	CodeRemoteRequest      ErrorCode = "REMOTE_REQUEST"
	CodeInvalidArgument    ErrorCode = "INVALID_ARGUMENT"
	CodeWriteAuthorization ErrorCode = "WRITE_AUTHORIZATION"
	CodeInternalError      ErrorCode = "INTERNAL_ERROR"
)

// BusinessCode narrows an ErrorCode down to the specific business reason.
type BusinessCode string

const (
	BusinessCodeGeneral           BusinessCode = "GENERAL"
	BusinessCodeMissingSetting    BusinessCode = "MISSING_SETTING"
	BusinessCodeUnknownProvider   BusinessCode = "UNKNOWN_PROVIDER"
	BusinessCodeRemoteStatus      BusinessCode = "REMOTE_STATUS"
	BusinessCodeRemoteUnreachable BusinessCode = "REMOTE_UNREACHABLE"
	BusinessCodeMalformedID       BusinessCode = "MALFORMED_ID"
	BusinessCodeEmptySlug         BusinessCode = "EMPTY_SLUG"
	BusinessCodeBadPagination     BusinessCode = "BAD_PAGINATION"
	BusinessCodeWriteTokenMissing BusinessCode = "WRITE_TOKEN_MISSING"
	BusinessCodePostNotFound      BusinessCode = "POST_NOT_FOUND"
	BusinessCodeInvalidFormat     BusinessCode = "INVALID_FORMAT"
)

// MissingSetting reports a required configuration key that is absent for the
// selected content provider. Raised at selector construction time, never
// retried.
func MissingSetting(key string) *AppError {
	return New(
		CodeConfiguration,
		BusinessCodeMissingSetting,
		fmt.Sprintf("required setting %s is not configured", key),
		http.StatusInternalServerError,
	).WithDetails(key)
}

// RemoteStatus reports a non-2xx response from a remote content backend.
func RemoteStatus(op string, status int) *AppError {
	return New(
		CodeRemoteRequest,
		BusinessCodeRemoteStatus,
		fmt.Sprintf("%s: remote backend returned status %d", op, status),
		http.StatusBadGateway,
	).WithDetails(status)
}

// RemoteUnreachable wraps a transport-level failure talking to a remote
// content backend.
func RemoteUnreachable(op string, inner error) *AppError {
	return Wrap(
		inner,
		CodeRemoteRequest,
		BusinessCodeRemoteUnreachable,
		fmt.Sprintf("%s: remote backend unreachable", op),
		http.StatusBadGateway,
	)
}

// InvalidArgument reports malformed caller input, detected before any I/O.
func InvalidArgument(bizCode BusinessCode, message string) *AppError {
	return New(CodeInvalidArgument, bizCode, message, http.StatusBadRequest)
}
