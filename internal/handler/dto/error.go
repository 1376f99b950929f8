package dto

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/realtydesk/opsdesk/internal/domain"
)

// ErrorResponse is the standard error response format.
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail contains error code and message.
type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// NewErrorResponse creates a new error response.
func NewErrorResponse(code, message string) ErrorResponse {
	return ErrorResponse{
		Error: ErrorDetail{
			Code:    code,
			Message: message,
		},
	}
}

// MapDomainError maps domain errors to HTTP status codes and error codes.
// ErrNoChanges is intentionally absent: the no-op outcome is not an error
// to the client and handlers surface it separately.
func MapDomainError(err error) (status int, code string, message string) {
	message = err.Error()

	switch {
	// Record errors
	case errors.Is(err, domain.ErrBookingNotFound):
		return http.StatusNotFound, "BOOKING_NOT_FOUND", message
	case errors.Is(err, domain.ErrComplaintNotFound):
		return http.StatusNotFound, "COMPLAINT_NOT_FOUND", message
	case errors.Is(err, domain.ErrDuplicateRecord):
		return http.StatusConflict, "DUPLICATE_RECORD", message
	case errors.Is(err, domain.ErrWriteConflict):
		return http.StatusConflict, "WRITE_CONFLICT", message

	// Permission errors
	case errors.Is(err, domain.ErrPermissionDenied):
		return http.StatusForbidden, "INSUFFICIENT_ACCESS", message
	case errors.Is(err, domain.ErrReadOnlyRecord):
		return http.StatusForbidden, "INSUFFICIENT_ACCESS", message
	case errors.Is(err, domain.ErrStageNotOwned):
		return http.StatusForbidden, "STAGE_NOT_OWNED", message

	// Actor errors
	case errors.Is(err, domain.ErrActorNotFound):
		return http.StatusUnauthorized, "INVALID_TOKEN", message
	case errors.Is(err, domain.ErrActorInactive):
		return http.StatusUnauthorized, "ACTOR_INACTIVE", message
	case errors.Is(err, domain.ErrInvalidToken):
		return http.StatusUnauthorized, "INVALID_TOKEN", message

	// Validation errors
	case errors.Is(err, domain.ErrInvalidStage):
		return http.StatusUnprocessableEntity, "VALIDATION_ERROR", message
	case errors.Is(err, domain.ErrInvalidStatus):
		return http.StatusUnprocessableEntity, "VALIDATION_ERROR", message
	case errors.Is(err, domain.ErrInvalidSeverity):
		return http.StatusUnprocessableEntity, "VALIDATION_ERROR", message
	case errors.Is(err, domain.ErrInvalidScore):
		return http.StatusUnprocessableEntity, "VALIDATION_ERROR", message
	case errors.Is(err, domain.ErrEmptyReason):
		return http.StatusUnprocessableEntity, "VALIDATION_ERROR", message

	// Default: internal server error
	default:
		slog.Error("unmapped domain error returned to client",
			"error", err,
			"error_type", fmt.Sprintf("%T", err),
		)
		return http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error"
	}
}
