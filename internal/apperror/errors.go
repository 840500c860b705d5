package apperror

import "errors"

// Sentinel errors shared between services, controllers and the chat core.
// Controllers map these to HTTP statuses; the chat hub maps them to error events.
var (
	ErrAuthenticationFailed = errors.New("authentication failed")
	ErrInvalidCredentials   = errors.New("invalid credentials")
	ErrNotFound             = errors.New("not found")
	ErrForbidden            = errors.New("forbidden")
	ErrStorageUnavailable   = errors.New("storage unavailable")
)
