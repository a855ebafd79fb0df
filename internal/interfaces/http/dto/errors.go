package dto

import (
	"net/http"

	"github.com/contentgen/backend/internal/domain/shared"
)

// Error codes used by the HTTP layer. Domain codes pass through unchanged.
const (
	ErrCodeValidation      = "VALIDATION_ERROR"
	ErrCodeBadRequest      = "BAD_REQUEST"
	ErrCodeConflict        = "CONFLICT"
	ErrCodeRateLimited     = "RATE_LIMIT_EXCEEDED"
	ErrCodeRequestTooLarge = "REQUEST_TOO_LARGE"
	ErrCodeUnhealthy       = "SERVICE_UNHEALTHY"
)

// ErrorCodeHTTPStatus maps error codes to HTTP status codes
var ErrorCodeHTTPStatus = map[string]int{
	// Input errors -> 400 Bad Request
	ErrCodeValidation:       http.StatusBadRequest,
	ErrCodeBadRequest:       http.StatusBadRequest,
	shared.CodeInvalidInput: http.StatusBadRequest,
	shared.CodeInvalidState: http.StatusBadRequest,

	// Resource errors
	shared.CodeNotFound:      http.StatusNotFound,
	shared.CodeAlreadyExists: http.StatusConflict,
	ErrCodeConflict:          http.StatusConflict,

	// Integration errors
	shared.CodeNotConfigured:   http.StatusServiceUnavailable,
	shared.CodeExternalService: http.StatusInternalServerError,
	shared.CodeInternal:        http.StatusInternalServerError,
	ErrCodeUnhealthy:           http.StatusServiceUnavailable,

	// Transport limits
	ErrCodeRequestTooLarge: http.StatusRequestEntityTooLarge,
	ErrCodeRateLimited:     http.StatusTooManyRequests,
}

// GetHTTPStatus returns the HTTP status code for an error code
// Returns 500 Internal Server Error if the error code is not found
func GetHTTPStatus(code string) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}
