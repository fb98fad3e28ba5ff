package server

import (
	"net/http"
	"strings"

	"github.com/jrsteele09/podsave-web/backend"
	apperrors "github.com/jrsteele09/podsave-web/internal/errors"
	"github.com/jrsteele09/podsave-web/registration"
	"github.com/jrsteele09/podsave-web/session"
	"github.com/rs/zerolog/log"
)

// LoginPageUIHandler displays the login page (GET /login)
func (s *Server) LoginPageUIHandler() http.HandlerFunc {
	loginTmpl := mustParseTemplate("login.html")

	return func(w http.ResponseWriter, r *http.Request) {
		store, _ := s.sessionFor(w, r)
		if store.IsAuthenticated(r.Context()) {
			stage, _ := store.RegistrationStage(r.Context())
			redirectSuccess(w, r, landingRoute(stage))
			return
		}

		data := s.pageData(r, "Log in")
		data.Email = r.URL.Query().Get("email")
		render(w, loginTmpl, http.StatusOK, data)
	}
}

// LoginSubmissionHandler processes the login form submission
func (s *Server) LoginSubmissionHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			redirectWithError(w, r, RouteLogin, "Invalid form data")
			return
		}

		email := strings.TrimSpace(r.FormValue("email"))
		password := r.FormValue("password")
		retry := withQuery(RouteLogin, "email", email)
		if email == "" || password == "" {
			redirectWithError(w, r, retry, "Email and password are required")
			return
		}

		grant, err := s.backend.Login(r.Context(), backend.Credentials{Email: email, Password: password})
		if err != nil {
			switch {
			case apperrors.Is(err, apperrors.ErrInvalidCredentials):
				redirectWithError(w, r, retry, "Invalid email or password")
			case apperrors.Is(err, apperrors.ErrRateLimited):
				redirectWithError(w, r, retry, "Too many attempts. Please wait a moment and try again.")
			default:
				log.Err(err).Msg("login failed")
				redirectWithError(w, r, retry, "We couldn't log you in right now. Please try again.")
			}
			return
		}

		stage := grant.Stage
		if stage == "" {
			stage = s.stageFromMember(r.Context(), grant.Token)
		}
		s.startSession(w, r, grant, stage.OrNone(), RouteLogin)
	}
}

// startSession stores a fresh Session Record under a newly issued browser
// context and sends the member on to where their stage belongs. Whatever record
// the old context held is dropped, so a context id known before login never
// becomes authenticated.
func (s *Server) startSession(w http.ResponseWriter, r *http.Request, grant *backend.TokenGrant, stage registration.Stage, page string) {
	if oldID, ok := s.existingContext(r); ok {
		s.endSession(r.Context(), s.sessions.For(oldID), oldID)
	}
	contextID := s.newBrowserContext(w, r)
	store := s.sessions.For(contextID)
	store.Start(r.Context(), session.Authenticated{
		Token:     grant.Token,
		ExpiresAt: grant.ExpiresAt,
		Stage:     stage,
	})
	if !store.IsAuthenticated(r.Context()) {
		// Storage failed or the token was already expired.
		redirectWithError(w, r, page, "We couldn't start your session. Please try again.")
		return
	}
	log.Info().Str("stage", stage.String()).Msg("session started")
	redirectSuccess(w, r, landingRoute(stage))
}

// LogoutHandler ends the session on the backend and in the Session Store.
func (s *Server) LogoutHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		store, contextID := s.sessionFor(w, r)
		if token, ok := store.Token(r.Context()); ok {
			if err := s.backend.Logout(r.Context(), token); err != nil {
				log.Warn().Err(err).Msg("backend logout failed")
			}
		}
		s.endSession(r.Context(), store, contextID)
		s.ClearContextCookie(w, r)
		redirectSuccess(w, r, "/")
	}
}
