package server

// Route path constants
// All application routes are defined here to ensure consistency and prevent typos
const (
	// Consent front end routes (require the consent API key)
	RouteClients         = "/clients"
	RouteOAuth2Authorize = "/oauth2/authorize"

	// Client facing OAuth2 routes (require client credentials)
	RouteOAuth2Token      = "/oauth2/token"
	RouteOAuth2Introspect = "/oauth2/introspect"

	// Operational routes
	RouteHealth  = "/healthz"
	RouteMetrics = "/metrics"
)
