package dto

import "net/http"

// Error codes returned by the gateway. Format: ERR_<CATEGORY>
const (
	// ErrCodeValidation is used when query or path binding fails
	ErrCodeValidation = "ERR_VALIDATION"
	// ErrCodeNotFound is used when the upstream reports a missing resource
	ErrCodeNotFound = "ERR_NOT_FOUND"
	// ErrCodeRateLimited is used when the local rate limiter trips
	ErrCodeRateLimited = "ERR_RATE_LIMITED"
	// ErrCodeUpstreamUnavailable is used for upstream connect/transport failures
	ErrCodeUpstreamUnavailable = "ERR_UPSTREAM_UNAVAILABLE"
	// ErrCodeUpstreamPayload is used when the upstream body cannot be decoded
	ErrCodeUpstreamPayload = "ERR_UPSTREAM_PAYLOAD"
	// ErrCodeUpstreamRejected is used for upstream non-2xx and success=false envelopes
	ErrCodeUpstreamRejected = "ERR_UPSTREAM_REJECTED"
	// ErrCodeUpstreamTimeout is used when the upstream deadline expires
	ErrCodeUpstreamTimeout = "ERR_UPSTREAM_TIMEOUT"
	// ErrCodeInternal is used for anything else
	ErrCodeInternal = "ERR_INTERNAL"
)

// ErrorCodeHTTPStatus maps error codes to HTTP status codes
var ErrorCodeHTTPStatus = map[string]int{
	ErrCodeValidation:          http.StatusBadRequest,
	ErrCodeNotFound:            http.StatusNotFound,
	ErrCodeRateLimited:         http.StatusTooManyRequests,
	ErrCodeUpstreamUnavailable: http.StatusBadGateway,
	ErrCodeUpstreamPayload:     http.StatusBadGateway,
	ErrCodeUpstreamRejected:    http.StatusBadGateway,
	ErrCodeUpstreamTimeout:     http.StatusGatewayTimeout,
	ErrCodeInternal:            http.StatusInternalServerError,
}

// GetHTTPStatus returns the HTTP status code for an error code.
// Returns 500 Internal Server Error if the error code is not found.
func GetHTTPStatus(code string) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// domainErrorCodeMapping maps domain error codes to wire error codes
var domainErrorCodeMapping = map[string]string{
	"NOT_FOUND":            ErrCodeNotFound,
	"INVALID_INPUT":        ErrCodeValidation,
	"UPSTREAM_UNAVAILABLE": ErrCodeUpstreamUnavailable,
	"UPSTREAM_TIMEOUT":     ErrCodeUpstreamTimeout,
	"UPSTREAM_REJECTED":    ErrCodeUpstreamRejected,
	"UPSTREAM_PAYLOAD":     ErrCodeUpstreamPayload,
}

// NormalizeErrorCode converts a domain error code to the wire format.
// Codes already in the wire format or unknown come back as-is.
func NormalizeErrorCode(code string) string {
	if wireCode, ok := domainErrorCodeMapping[code]; ok {
		return wireCode
	}
	return code
}
