package server

import (
	"net/http"
	"strings"

	"github.com/jrsteele09/go-grant-server/oauth2"
)

// RegisterClient issues a new client ID and secret. The secret appears in
// this response only.
func (s *Server) RegisterClient() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			writeJSONError(w, oauth2.ErrorInvalidRequest, "unable to parse request body", http.StatusBadRequest)
			return
		}

		credential, err := s.clients.Register(strings.TrimSpace(r.PostForm.Get("description")))
		if err != nil {
			s.writeServiceError(w, r, err)
			return
		}
		writeJSON(w, http.StatusCreated, credential)
	}
}

// Health reports liveness.
func (s *Server) Health() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}
