package oauthmodel

import (
	"net/http"

	"github.com/pkg/errors"
)

// AuthorizationParameters holds the parameters the consent front end posts to
// /oauth2/authorize once the resource owner has approved the request.
type AuthorizationParameters struct {
	ClientCredentials

	// Scope is the approved permission string.
	// Example: "read write"
	// Note: Opaque here; its grammar belongs to the resource servers
	Scope string

	// State is the client's CSRF value from the original authorization
	// request. It is bound into the code and must be repeated at /oauth2/token.
	// Example: "xyz"
	State string
}

// ParseAuthorizationParameters extracts AuthorizationParameters from a form
// encoded POST. Client fields come from the form only; the Authorization
// header on this route carries the consent key, not client credentials.
func ParseAuthorizationParameters(r *http.Request) (*AuthorizationParameters, error) {
	if err := r.ParseForm(); err != nil {
		return nil, errors.Wrap(ErrUnparseableRequestBody, err.Error())
	}
	clientID := r.PostForm.Get("client_id")
	if clientID == "" {
		return nil, ErrMissingClientID
	}
	return &AuthorizationParameters{
		ClientCredentials: ClientCredentials{
			ClientID:     clientID,
			ClientSecret: r.PostForm.Get("client_secret"),
		},
		Scope: r.PostForm.Get("scope"),
		State: r.PostForm.Get("state"),
	}, nil
}
