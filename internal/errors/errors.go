package errors

import "errors"

// Common error types for the grant server
var (
	// Randomness errors
	ErrRandomnessUnavailable = errors.New("randomness unavailable")
	ErrInvalidLength         = errors.New("invalid length")

	// Client errors
	ErrInvalidClientID     = errors.New("invalid client id")
	ErrInvalidClientSecret = errors.New("invalid client secret")
	ErrInvalidClient       = errors.New("invalid client")
	ErrClientNotFound      = errors.New("client not found")

	// Authorization errors
	ErrInvalidAuthorizationCode = errors.New("invalid authorization code")
	ErrInvalidRequest           = errors.New("invalid request")

	// Token errors
	ErrTokenNotFound = errors.New("token not found")
)
