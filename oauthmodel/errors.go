package oauthmodel

import "errors"

var (
	ErrMissingClientID        = errors.New("client_id is required")
	ErrMissingCode            = errors.New("code is required")
	ErrMissingGrantType       = errors.New("grant_type is required")
	ErrUnsupportedGrantType   = errors.New("unsupported grant type")
	ErrConflictingClientAuth  = errors.New("client credentials supplied in both header and body")
	ErrMissingToken           = errors.New("token is required")
	ErrUnparseableRequestBody = errors.New("unable to parse request body")
)
