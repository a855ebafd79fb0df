package handler

import "github.com/contentgen/backend/internal/interfaces/http/dto"

// The types below only describe response envelopes for the OpenAPI docs.

// APIResponse is the success envelope with a typed data field
// @Description Success envelope
type APIResponse[T any] struct {
	Success bool `json:"success" example:"true"`
	Data    T    `json:"data,omitempty"`
}

// PageResponse is the envelope of paginated list endpoints
// @Description Paginated list envelope
type PageResponse[T any] struct {
	Success bool      `json:"success" example:"true"`
	Data    []T       `json:"data"`
	Meta    *dto.Meta `json:"meta"`
}

// ErrorResponse is the error envelope. Validation failures list the
// rejected fields in error.details.
// @Description Error envelope
type ErrorResponse struct {
	Success bool           `json:"success" example:"false"`
	Error   *dto.ErrorInfo `json:"error"`
}
