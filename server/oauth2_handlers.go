package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/jrsteele09/go-grant-server/auth"
	apperrors "github.com/jrsteele09/go-grant-server/internal/errors"
	"github.com/jrsteele09/go-grant-server/oauth2"
	"github.com/jrsteele09/go-grant-server/oauthmodel"
	"github.com/jrsteele09/go-grant-server/token"
	"github.com/rs/zerolog"
)

const contentTypeJSON = "application/json; charset=utf-8"

// Authorize issues a code for an approved scope. It is called by the consent
// front end after the resource owner has logged in and approved.
func (s *Server) Authorize() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		params, err := oauthmodel.ParseAuthorizationParameters(r)
		if err != nil {
			writeJSONError(w, oauth2.ErrorInvalidRequest, err.Error(), http.StatusBadRequest)
			return
		}

		if err := s.checkAuthorizingClient(params.ClientCredentials); err != nil {
			s.writeServiceError(w, r, err)
			return
		}

		code, err := s.auth.IssueAuthorizationCode(params.ClientID, params.ClientSecret, params.Scope, params.State)
		if err != nil {
			s.writeServiceError(w, r, err)
			return
		}

		writeJSON(w, http.StatusOK, oauth2.AuthorizationResponse{
			Code:      code.Code,
			State:     params.State,
			ExpiresIn: int(s.auth.GrantTTL() / time.Second),
		})
	}
}

// Token exchanges an authorization code for an access token.
func (s *Server) Token() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tokenReq, err := oauthmodel.ParseTokenRequest(r)
		if err != nil {
			writeRequestError(w, err)
			return
		}

		client, err := s.clients.Verify(tokenReq.ClientID, tokenReq.ClientSecret)
		if err != nil {
			s.writeServiceError(w, r, err)
			return
		}

		result, err := s.auth.IssueAccessToken(tokenReq.Code, tokenReq.State, client.ID, tokenReq.ClientSecret)
		if err != nil {
			s.writeServiceError(w, r, err)
			return
		}

		if err := s.tokens.Upsert(&token.IssuedToken{
			Hash:     result.TokenHash,
			ClientID: client.ID,
			Scope:    result.Scope,
			IssuedAt: time.Now(),
		}); err != nil {
			s.writeServiceError(w, r, err)
			return
		}

		writeJSON(w, http.StatusOK, oauth2.TokenResponse{
			AccessToken: result.Token,
			TokenType:   oauth2.TokenTypeBearer,
			Scope:       result.Scope,
		})
	}
}

// Introspect reports whether an access token is known (RFC 7662).
func (s *Server) Introspect() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		introspectReq, err := oauthmodel.ParseIntrospectionRequest(r)
		if err != nil {
			writeRequestError(w, err)
			return
		}

		if _, err := s.clients.Verify(introspectReq.ClientID, introspectReq.ClientSecret); err != nil {
			s.writeServiceError(w, r, err)
			return
		}

		issued, err := s.tokens.Get(token.Hash(introspectReq.Token))
		if err != nil {
			writeJSON(w, http.StatusOK, oauth2.IntrospectionResponse{Active: false})
			return
		}

		writeJSON(w, http.StatusOK, oauth2.IntrospectionResponse{
			Active:   true,
			Scope:    issued.Scope,
			ClientID: issued.ClientID,
			Iat:      issued.IssuedAt.Unix(),
		})
	}
}

// checkAuthorizingClient confirms the client is registered. With
// secret-bound grants the secret is part of the code, so it is verified
// here as well.
func (s *Server) checkAuthorizingClient(creds oauthmodel.ClientCredentials) error {
	if s.auth.Binding() == auth.BindingClientSecret {
		_, err := s.clients.Verify(creds.ClientID, creds.ClientSecret)
		return err
	}
	_, err := s.clients.Lookup(creds.ClientID)
	return err
}

// writeServiceError maps core errors onto OAuth2 error responses. Details
// stay in the log; the response carries only the error code.
func (s *Server) writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	logger := zerolog.Ctx(r.Context())

	switch {
	case errors.Is(err, auth.ErrInvalidAuthorizationCode):
		logger.Info().Err(err).Msg("Token request rejected")
		writeJSONError(w, oauth2.ErrorInvalidGrant, "authorization code is invalid or expired", http.StatusBadRequest)
	case errors.Is(err, apperrors.ErrInvalidClient):
		logger.Info().Err(err).Msg("Client authentication failed")
		w.Header().Set("WWW-Authenticate", `Basic realm="oauth2"`)
		writeJSONError(w, oauth2.ErrorInvalidClient, "client authentication failed", http.StatusUnauthorized)
	case errors.Is(err, auth.ErrInvalidClientID), errors.Is(err, auth.ErrInvalidClientSecret):
		logger.Info().Err(err).Msg("Malformed client credentials")
		writeJSONError(w, oauth2.ErrorInvalidRequest, err.Error(), http.StatusBadRequest)
	case errors.Is(err, auth.ErrRandomnessUnavailable):
		logger.Error().Err(err).Msg("Entropy source failed")
		writeJSONError(w, oauth2.ErrorTemporarilyUnavailable, "try again later", http.StatusServiceUnavailable)
	default:
		logger.Error().Err(err).Msg("Request failed")
		writeJSONError(w, oauth2.ErrorServerError, "internal error", http.StatusInternalServerError)
	}
}

// writeRequestError maps request parsing failures.
func writeRequestError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, oauthmodel.ErrUnsupportedGrantType):
		writeJSONError(w, oauth2.ErrorUnsupportedGrantType, err.Error(), http.StatusBadRequest)
	case errors.Is(err, oauthmodel.ErrMissingClientID):
		w.Header().Set("WWW-Authenticate", `Basic realm="oauth2"`)
		writeJSONError(w, oauth2.ErrorInvalidClient, err.Error(), http.StatusUnauthorized)
	default:
		writeJSONError(w, oauth2.ErrorInvalidRequest, err.Error(), http.StatusBadRequest)
	}
}

func writeJSON(w http.ResponseWriter, statusCode int, body any) {
	w.Header().Set("Content-Type", contentTypeJSON)
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(body)
}

func writeJSONError(w http.ResponseWriter, errorCode, description string, statusCode int) {
	writeJSON(w, statusCode, oauth2.ErrorResponse{
		Error:            errorCode,
		ErrorDescription: description,
	})
}
