package auth

import apperrors "github.com/jrsteele09/go-grant-server/internal/errors"

// Error kinds surfaced by the authorization flow. Match them with errors.Is.
var (
	ErrRandomnessUnavailable    = apperrors.ErrRandomnessUnavailable
	ErrInvalidClientID          = apperrors.ErrInvalidClientID
	ErrInvalidClientSecret      = apperrors.ErrInvalidClientSecret
	ErrInvalidAuthorizationCode = apperrors.ErrInvalidAuthorizationCode
)
