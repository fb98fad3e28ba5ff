package server

import (
	"net/http"

	apperrors "github.com/jrsteele09/podsave-web/internal/errors"
	"github.com/jrsteele09/podsave-web/registration"
	"github.com/jrsteele09/podsave-web/session"
	"github.com/rs/zerolog/log"
)

// sessionState is the JSON view of a browser context's session.
type sessionState struct {
	Authenticated bool               `json:"authenticated"`
	Stage         registration.Stage `json:"stage,omitempty"`
	NextRoute     string             `json:"next_route,omitempty"`
	registration.Flags
}

// SessionStateHandler reports the caller's session for client-side scripts.
// Reading it runs the same expiry check as the page guards.
func (s *Server) SessionStateHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		store, _ := s.sessionFor(w, r)
		writeJSON(w, http.StatusOK, currentState(r, store))
	}
}

func currentState(r *http.Request, store *session.Store) sessionState {
	if !store.IsAuthenticated(r.Context()) {
		return sessionState{}
	}
	stage, _ := store.RegistrationStage(r.Context())
	return sessionState{
		Authenticated: true,
		Stage:         stage.OrNone(),
		NextRoute:     landingRoute(stage),
		Flags:         registration.FlagsFor(stage),
	}
}

// RefreshHandler swaps the stored token for a fresh one. The stage is kept.
func (s *Server) RefreshHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		store, contextID := s.sessionFromContext(w, r)
		token, ok := store.Token(r.Context())
		if !ok {
			writeJSONError(w, http.StatusUnauthorized, "unauthorized", "no active session")
			return
		}

		grant, err := s.backend.Refresh(r.Context(), token)
		if err != nil {
			if apperrors.Is(err, apperrors.ErrUnauthorized) {
				s.endSession(r.Context(), store, contextID)
				writeJSONError(w, http.StatusUnauthorized, "unauthorized", "session ended")
				return
			}
			log.Err(err).Msg("token refresh failed")
			writeJSONError(w, http.StatusBadGateway, "upstream_error", "could not refresh session")
			return
		}

		store.SetToken(r.Context(), grant.Token, grant.ExpiresAt)
		writeJSON(w, http.StatusOK, currentState(r, store))
	}
}

// HealthHandler answers liveness checks.
func (s *Server) HealthHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}
