package rest

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/inkhouse/backend/internal/platform/apperror"
	"github.com/inkhouse/backend/internal/platform/logger"
)

// errorBody is the uniform JSON error envelope.
type errorBody struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// BaseHandler contains common dependencies and helper methods for all handlers
type BaseHandler struct {
	logger logger.Logger
}

// NewBaseHandler creates a new base handler with common dependencies
func NewBaseHandler(logger logger.Logger) *BaseHandler {
	return &BaseHandler{
		logger: logger,
	}
}

// WriteJSONError writes a JSON error response
func (h *BaseHandler) WriteJSONError(w http.ResponseWriter, r *http.Request, code string, message string, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	body := errorBody{
		Error:   code,
		Message: message,
	}

	if err := json.NewEncoder(w).Encode(body); err != nil {
		h.logger.Error(r.Context(), "failed to encode error response",
			"error", err,
			"error_code", code,
			"status_code", statusCode,
		)
	}
}

// WriteJSONResponse writes a successful JSON response
func (h *BaseHandler) WriteJSONResponse(w http.ResponseWriter, r *http.Request, data interface{}, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Error(r.Context(), "failed to encode response",
			"error", err,
			"status_code", statusCode,
		)
	}
}

// HandleError maps an error to its HTTP representation. AppErrors carry
// their own status and business code; anything else is an opaque 500.
func (h *BaseHandler) HandleError(w http.ResponseWriter, r *http.Request, err error) {
	var appErr *apperror.AppError
	if errors.As(err, &appErr) {
		if appErr.HTTPStatus >= http.StatusInternalServerError {
			h.logger.Error(r.Context(), "request failed",
				"code", appErr.Code,
				"business_code", appErr.BusinessCode,
				"error", err,
			)
		}
		h.WriteJSONError(w, r, string(appErr.BusinessCode), appErr.Message, appErr.HTTPStatus)
		return
	}

	h.logger.Error(r.Context(), "unhandled error", "error", err)
	h.WriteJSONError(w, r, string(apperror.BusinessCodeGeneral), "internal server error", http.StatusInternalServerError)
}
