package server

import (
	"net/http"
	"net/mail"
	"strings"

	"github.com/jrsteele09/podsave-web/backend"
	apperrors "github.com/jrsteele09/podsave-web/internal/errors"
	"github.com/jrsteele09/podsave-web/registration"
	"github.com/rs/zerolog/log"
)

const minPasswordLength = 8

// SignupGetHandler renders the signup page
func (s *Server) SignupGetHandler() http.HandlerFunc {
	tmpl := mustParseTemplate("signup.html")

	return func(w http.ResponseWriter, r *http.Request) {
		store, _ := s.sessionFor(w, r)
		if store.IsAuthenticated(r.Context()) {
			stage, _ := store.RegistrationStage(r.Context())
			redirectSuccess(w, r, landingRoute(stage))
			return
		}

		data := s.pageData(r, "Create your account")
		data.Email = r.URL.Query().Get("email")
		render(w, tmpl, http.StatusOK, data)
	}
}

// SignupPostHandler creates the account and starts onboarding
func (s *Server) SignupPostHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			redirectWithError(w, r, RouteSignup, "Invalid form data")
			return
		}

		req := backend.SignupRequest{
			Email:     strings.TrimSpace(r.FormValue("email")),
			Password:  r.FormValue("password"),
			FirstName: strings.TrimSpace(r.FormValue("first_name")),
			LastName:  strings.TrimSpace(r.FormValue("last_name")),
		}
		retry := withQuery(RouteSignup, "email", req.Email)
		if msg := validateSignup(req, r.FormValue("confirm_password")); msg != "" {
			redirectWithError(w, r, retry, msg)
			return
		}

		grant, err := s.backend.Signup(r.Context(), req)
		if err != nil {
			switch {
			case apperrors.Is(err, apperrors.ErrInvalidRequest):
				redirectWithError(w, r, retry, userMessage(err, "We couldn't create an account with those details."))
			case apperrors.Is(err, apperrors.ErrRateLimited):
				redirectWithError(w, r, retry, "Too many attempts. Please wait a moment and try again.")
			default:
				log.Err(err).Msg("signup failed")
				redirectWithError(w, r, retry, "We couldn't create your account right now. Please try again.")
			}
			return
		}

		s.startSession(w, r, grant, registration.StageNone, RouteSignup)
	}
}

func validateSignup(req backend.SignupRequest, confirm string) string {
	if req.Email == "" || req.Password == "" {
		return "Email and password are required"
	}
	if _, err := mail.ParseAddress(req.Email); err != nil {
		return "Please enter a valid email address"
	}
	if len(req.Password) < minPasswordLength {
		return "Password must be at least 8 characters"
	}
	if req.Password != confirm {
		return "Passwords do not match"
	}
	return ""
}
