package oauth2

// TokenResponse represents the response from an OAuth2 token request.
// This is the standard OAuth2 token endpoint response format as defined in RFC 6749.
type TokenResponse struct {
	// AccessToken is an opaque random hex string used to access protected resources.
	// Example: "9f86d081884c7d659a2feaa0c55ad015a3bf4f1b"
	// Usage: Include in Authorization header: "Bearer <access_token>"
	// Security: Returned exactly once; the server keeps only its SHA-256 hash
	AccessToken string `json:"access_token"`

	// TokenType indicates how to use the access token (always "bearer" in this implementation).
	// Standard: required by RFC 6749 section 5.1
	TokenType string `json:"token_type"`

	// Scope indicates the access token's granted permissions.
	// Example: "read write"
	// Note: Opaque to this server; echoed from the approved grant
	Scope string `json:"scope,omitempty"`
}

// AuthorizationResponse is returned to the consent front end after approval.
type AuthorizationResponse struct {
	// Code is the single-use authorization code.
	// Security: Must be passed to the client, never stored
	Code string `json:"code"`

	// State echoes the value that was bound into the code.
	State string `json:"state,omitempty"`

	// ExpiresIn is the number of seconds the code stays redeemable.
	ExpiresIn int `json:"expires_in"`
}

// IntrospectionResponse follows RFC 7662. Only Active is set for unknown tokens.
type IntrospectionResponse struct {
	Active   bool   `json:"active"`
	Scope    string `json:"scope,omitempty"`
	ClientID string `json:"client_id,omitempty"`
	Iat      int64  `json:"iat,omitempty"`
}

// ErrorResponse is the RFC 6749 error body.
type ErrorResponse struct {
	Error            string `json:"error"`
	ErrorDescription string `json:"error_description,omitempty"`
}
