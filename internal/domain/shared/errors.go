// Package shared holds the error vocabulary common to every gateway domain.
package shared

// DomainError carries a stable machine code alongside the human message.
// Handlers match these with errors.As and map the code to an HTTP status.
type DomainError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (e *DomainError) Error() string {
	return e.Message
}

// NewDomainError creates a domain error with the given code and message.
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// Sentinel errors. The upstream client wraps these with call detail, so
// match them with errors.As rather than direct comparison.
var (
	ErrNotFound            = NewDomainError("NOT_FOUND", "Resource not found")
	ErrInvalidInput        = NewDomainError("INVALID_INPUT", "Invalid input provided")
	ErrUpstreamUnavailable = NewDomainError("UPSTREAM_UNAVAILABLE", "Upstream service is unreachable")
	ErrUpstreamTimeout     = NewDomainError("UPSTREAM_TIMEOUT", "Upstream service did not respond in time")
	ErrUpstreamRejected    = NewDomainError("UPSTREAM_REJECTED", "Upstream service rejected the request")
	ErrUpstreamPayload     = NewDomainError("UPSTREAM_PAYLOAD", "Upstream service returned an unreadable payload")
)
