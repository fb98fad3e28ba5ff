package server

import (
	"net/http"

	apperrors "github.com/jrsteele09/podsave-web/internal/errors"
	"github.com/rs/zerolog/log"
)

// DashboardHandler renders the member's pods. Cards the member has not unlocked
// yet are blurred from the session flags; the data itself is authorised by the
// backend through the bearer token.
func (s *Server) DashboardHandler() http.HandlerFunc {
	tmpl := mustParseTemplate("dashboard.html")

	return func(w http.ResponseWriter, r *http.Request) {
		store, contextID := s.sessionFromContext(w, r)
		token, ok := s.bearerToken(w, r, store)
		if !ok {
			return
		}

		data := s.onboardingData(r, store, "Dashboard")
		data.Steps = nil
		if data.Stage.Complete() {
			data.NextRoute = ""
		}

		member, err := s.backend.Me(r.Context(), token)
		if err != nil {
			if apperrors.Is(err, apperrors.ErrUnauthorized) {
				s.handleBackendError(w, r, store, contextID, err, RouteDashboard)
				return
			}
			log.Err(err).Msg("dashboard: failed to load member")
			data.Error = "We couldn't load your account right now."
		} else {
			data.Member = member
			data.Email = member.Email
		}

		pods, err := s.backend.Pods(r.Context(), token)
		if err != nil {
			if apperrors.Is(err, apperrors.ErrUnauthorized) {
				s.handleBackendError(w, r, store, contextID, err, RouteDashboard)
				return
			}
			log.Err(err).Msg("dashboard: failed to load pods")
			data.Error = "We couldn't load your pods right now."
		} else {
			data.Pods = pods
		}

		render(w, tmpl, http.StatusOK, data)
	}
}
