package oauthmodel

import (
	"net/http"
	"strings"

	"github.com/jrsteele09/go-grant-server/oauth2"
	"github.com/pkg/errors"
)

// ClientCredentials are the client_id and client_secret presented by a
// client, taken from HTTP Basic auth or the form body.
type ClientCredentials struct {
	ClientID     string
	ClientSecret string
}

// TokenRequest holds parameters for the OAuth2 token request.
// This represents the request body sent to the /oauth2/token endpoint.
type TokenRequest struct {
	ClientCredentials

	// GrantType must be "authorization_code".
	GrantType oauth2.GrantType

	// Code is the authorization code received from the authorization endpoint.
	// Usage: Exchanged once for a token, then becomes invalid
	Code string

	// State must equal the state supplied when the code was issued; it is
	// part of the grant binding.
	State string
}

// IntrospectionRequest holds the RFC 7662 introspection parameters.
type IntrospectionRequest struct {
	ClientCredentials
	Token string
}

// ParseClientCredentials reads client authentication from Basic auth, falling
// back to client_id/client_secret form fields. The form must be parsed.
func ParseClientCredentials(r *http.Request) (ClientCredentials, error) {
	id, secret, hasBasic := r.BasicAuth()
	if hasBasic {
		if r.PostForm.Get("client_secret") != "" {
			return ClientCredentials{}, ErrConflictingClientAuth
		}
		return ClientCredentials{ClientID: strings.TrimSpace(id), ClientSecret: secret}, nil
	}
	creds := ClientCredentials{
		ClientID:     strings.TrimSpace(r.PostForm.Get("client_id")),
		ClientSecret: r.PostForm.Get("client_secret"),
	}
	if creds.ClientID == "" {
		return ClientCredentials{}, ErrMissingClientID
	}
	return creds, nil
}

// ParseTokenRequest extracts a TokenRequest from a form encoded POST.
func ParseTokenRequest(r *http.Request) (*TokenRequest, error) {
	if err := r.ParseForm(); err != nil {
		return nil, errors.Wrap(ErrUnparseableRequestBody, err.Error())
	}

	grantType := strings.TrimSpace(r.PostForm.Get("grant_type"))
	if grantType == "" {
		return nil, ErrMissingGrantType
	}
	if oauth2.GrantType(grantType) != oauth2.AuthorizationCodeGrant {
		return nil, ErrUnsupportedGrantType
	}

	creds, err := ParseClientCredentials(r)
	if err != nil {
		return nil, err
	}

	code := strings.TrimSpace(r.PostForm.Get("code"))
	if code == "" {
		return nil, ErrMissingCode
	}

	return &TokenRequest{
		ClientCredentials: creds,
		GrantType:         oauth2.AuthorizationCodeGrant,
		Code:              code,
		State:             r.PostForm.Get("state"),
	}, nil
}

// ParseIntrospectionRequest extracts an IntrospectionRequest from a form
// encoded POST.
func ParseIntrospectionRequest(r *http.Request) (*IntrospectionRequest, error) {
	if err := r.ParseForm(); err != nil {
		return nil, errors.Wrap(ErrUnparseableRequestBody, err.Error())
	}
	creds, err := ParseClientCredentials(r)
	if err != nil {
		return nil, err
	}
	tok := strings.TrimSpace(r.PostForm.Get("token"))
	if tok == "" {
		return nil, ErrMissingToken
	}
	return &IntrospectionRequest{ClientCredentials: creds, Token: tok}, nil
}
