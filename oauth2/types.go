package oauth2

// GrantType represents the OAuth 2.0 grant type used at the token endpoint.
// Determines what credentials are required to obtain tokens.
type GrantType string

const (
	// AuthorizationCodeGrant exchanges an authorization code for an access token.
	// Used in: Authorization Code Flow
	// Token request includes: code, state, client_id, client_secret
	// Returns: access_token and the scope that was approved
	AuthorizationCodeGrant GrantType = "authorization_code"
)

// TokenTypeBearer is the only token type issued.
// Usage: Tells client to use "Authorization: Bearer <token>" header
const TokenTypeBearer = "bearer"

// Error codes from RFC 6749 section 5.2 used by the token and authorize endpoints.
const (
	ErrorInvalidRequest         = "invalid_request"
	ErrorInvalidClient          = "invalid_client"
	ErrorInvalidGrant           = "invalid_grant"
	ErrorUnsupportedGrantType   = "unsupported_grant_type"
	ErrorServerError            = "server_error"
	ErrorTemporarilyUnavailable = "temporarily_unavailable"
	ErrorAccessDenied           = "access_denied"
)
