package server

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func (s *Server) initRoutes() {
	// Consent front end
	s.RegisterRouteHandler("POST "+RouteClients, ChainMiddleware(s.RegisterClient(), s.ConsentMiddleware()...))
	s.RegisterRouteHandler("POST "+RouteOAuth2Authorize, ChainMiddleware(s.Authorize(), s.ConsentMiddleware()...))

	// OAuth2 API routes
	s.RegisterRouteHandler("POST "+RouteOAuth2Token, ChainMiddleware(s.Token(), s.APIMiddleware()...))
	s.RegisterRouteHandler("OPTIONS "+RouteOAuth2Token, ChainMiddleware(noContent, s.APIMiddleware()...))
	s.RegisterRouteHandler("POST "+RouteOAuth2Introspect, ChainMiddleware(s.Introspect(), s.APIMiddleware()...))

	// Operational
	s.RegisterRouteFunc("GET "+RouteHealth, s.Health())
	if s.gatherer != nil {
		metrics := promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{})
		s.RegisterRouteHandler("GET "+RouteMetrics, metrics)
	}
}

func noContent(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusNoContent)
}
