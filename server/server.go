package server

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/jrsteele09/go-grant-server/auth"
	"github.com/jrsteele09/go-grant-server/clients"
	"github.com/jrsteele09/go-grant-server/internal/config"
	"github.com/jrsteele09/go-grant-server/token"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
)

// Dependencies are the collaborators the HTTP layer maps requests onto.
type Dependencies struct {
	Auth     *auth.AuthorizationService // Code issuance and token exchange
	Clients  *clients.Registry          // Client registration and credential checks
	Tokens   token.Repo                 // Hashes of issued access tokens
	Gatherer prometheus.Gatherer        // Source for /metrics; nil disables the route
	Logger   zerolog.Logger
}

type Server struct {
	env      string // Environment (e.g., "DEV", "PROD")
	mux      *http.ServeMux
	routes   []string
	config   config.Config
	auth     *auth.AuthorizationService
	clients  *clients.Registry
	tokens   token.Repo
	gatherer prometheus.Gatherer
	logger   zerolog.Logger
}

func New(config config.Config, deps Dependencies) (*Server, error) {
	if deps.Auth == nil {
		return nil, errors.New("[Server New] authorization service is required")
	}
	if deps.Clients == nil {
		return nil, errors.New("[Server New] client registry is required")
	}
	if deps.Tokens == nil {
		return nil, errors.New("[Server New] token repo is required")
	}

	s := &Server{
		env:      config.GetEnv(),
		mux:      http.NewServeMux(),
		config:   config,
		auth:     deps.Auth,
		clients:  deps.Clients,
		tokens:   deps.Tokens,
		gatherer: deps.Gatherer,
		logger:   deps.Logger,
	}

	s.initRoutes()
	s.logRoutes()

	return s, nil
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

func (s *Server) RegisterRouteHandler(pattern string, handler http.Handler) {
	s.routes = append(s.routes, pattern)
	s.mux.Handle(pattern, handler)
}

func (s *Server) RegisterRouteFunc(pattern string, handler func(http.ResponseWriter, *http.Request)) {
	s.routes = append(s.routes, pattern)
	s.mux.HandleFunc(pattern, handler)
}

func (s *Server) logRoutes() {
	if s.env != "DEV" {
		return // Skip logging in non-development environments
	}
	for _, route := range s.routes {
		parts := strings.SplitN(route, " ", 2)

		if len(parts) > 1 {
			s.logRoute(parts[0], parts[1])
		} else {
			s.logRoute("", parts[0])
		}
	}
}

func (s *Server) logRoute(method, path string) {
	paddedMethod := fmt.Sprintf(" %-7s", method)
	color, ok := methodColors[method]
	if !ok {
		color = Gray
	}
	s.logger.Info().Msgf("[%-19s] %s", color+paddedMethod+ResetColor, path)
}
