package handlers

const (
	RequestIDHeader = "X-Request-ID"

	CodeInternalServerError = "INTERNAL_SERVER_ERROR"
	CodeTooManyRequests     = "TOO_MANY_REQUESTS"
	CodeForbidden           = "FORBIDDEN"

	ErrInvalidJSON         = "Invalid JSON body"
	ErrInvalidID           = "Invalid id"
	ErrUnauthorized        = "Unauthorized"
	ErrInvalidCSRFToken    = "Invalid CSRF token"
	ErrTooManyAttempts     = "Too many login attempts, try again later"
	ErrInternalServerError = "Internal server error"
)
