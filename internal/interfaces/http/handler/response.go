package handler

import "github.com/storeadmin/backend/internal/interfaces/http/dto"

// APIResponse is the success envelope as documented in the OpenAPI spec.
// Handlers respond with dto.Response; this generic mirror only exists so
// swag can emit a typed data field per endpoint.
// @Description Standard API response wrapper with typed data field
type APIResponse[T any] struct {
	Success bool           `json:"success"`
	Data    T              `json:"data,omitempty"`
	Error   *dto.ErrorInfo `json:"error,omitempty"`
	Meta    *dto.Meta      `json:"meta,omitempty"`
}

// ErrorResponse is the error envelope as documented in the OpenAPI spec.
// @Description Standard error response
type ErrorResponse struct {
	Success bool           `json:"success" example:"false"`
	Error   *dto.ErrorInfo `json:"error,omitempty"`
}
