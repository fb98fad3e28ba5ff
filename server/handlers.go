package server

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/jrsteele09/podsave-web/backend"
	"github.com/jrsteele09/podsave-web/identity"
	apperrors "github.com/jrsteele09/podsave-web/internal/errors"
	"github.com/jrsteele09/podsave-web/registration"
	"github.com/jrsteele09/podsave-web/session"
	"github.com/rs/zerolog/log"
)

// PageData is the template model shared by every page
type PageData struct {
	AppName       string
	Title         string
	Error         string
	Notice        string
	Email         string
	Authenticated bool
	Stage         registration.Stage
	Steps         []OnboardingStep
	Flags         registration.Flags
	NextRoute     string
	Member        *backend.Member
	Pods          []backend.Pod
	Verification  *identity.Verification
	Routes        PageRoutes
}

// OnboardingStep is one entry of the progress bar on onboarding pages
type OnboardingStep struct {
	Label   string
	Done    bool
	Current bool
}

// PageRoutes exposes route constants to templates
type PageRoutes struct {
	Index                   string
	Login                   string
	AuthLogin               string
	Signup                  string
	AuthSignup              string
	Logout                  string
	Dashboard               string
	RegisterNext            string
	Registration            string
	KYCDocument             string
	KYCIDNumber             string
	EmailVerification       string
	EmailVerificationResend string
	BankConnection          string
	RegistrationDone        string
}

var pageRoutes = PageRoutes{
	Index:                   "/",
	Login:                   RouteLogin,
	AuthLogin:               RouteAuthLogin,
	Signup:                  RouteSignup,
	AuthSignup:              RouteAuthSignup,
	Logout:                  RouteAuthLogout,
	Dashboard:               RouteDashboard,
	RegisterNext:            RouteRegisterNext,
	Registration:            RouteRegistrationStart,
	KYCDocument:             RouteKYCDocument,
	KYCIDNumber:             RouteKYCIDNumber,
	EmailVerification:       RouteEmailVerification,
	EmailVerificationResend: RouteEmailVerificationResend,
	BankConnection:          RouteBankConnection,
	RegistrationDone:        RouteRegistrationDone,
}

var stepLabels = map[registration.Stage]string{
	registration.StageNone:                "Your details",
	registration.StageRegistered:          "Identity document",
	registration.StageKYCDocumentComplete: "ID number",
	registration.StageKYCIDNumberComplete: "Email",
	registration.StageEmailVerified:       "Bank account",
}

func (s *Server) pageData(r *http.Request, title string) PageData {
	return PageData{
		AppName: s.config.GetAppName(),
		Title:   title,
		Error:   r.URL.Query().Get("error"),
		Notice:  r.URL.Query().Get("notice"),
		Routes:  pageRoutes,
	}
}

// onboardingData is pageData plus the member's progress.
func (s *Server) onboardingData(r *http.Request, store *session.Store, title string) PageData {
	data := s.pageData(r, title)
	data.Authenticated = true
	stage, _ := store.RegistrationStage(r.Context())
	data.Stage = stage.OrNone()
	data.Flags = registration.FlagsFor(stage)
	data.NextRoute = registration.ResolveNextRoute(stage)
	for _, st := range registration.Stages() {
		label, ok := stepLabels[st]
		if !ok {
			continue
		}
		data.Steps = append(data.Steps, OnboardingStep{
			Label:   label,
			Done:    data.Stage.Index() > st.Index(),
			Current: data.Stage == st,
		})
	}
	return data
}

// landingRoute is where a member goes right after logging in.
func landingRoute(stage registration.Stage) string {
	if stage.Complete() {
		return RouteDashboard
	}
	return registration.ResolveNextRoute(stage)
}

// advance records a completed onboarding step and moves on to the page the new
// stage resolves to. When the stage cannot be stored the member is sent back
// through the resolver, which re-applies the guard.
func (s *Server) advance(w http.ResponseWriter, r *http.Request, store *session.Store, stage registration.Stage) {
	if !store.SetRegistrationStage(r.Context(), stage) {
		redirectSuccess(w, r, RouteRegisterNext)
		return
	}
	log.Debug().Str("stage", stage.String()).Msg("registration stage advanced")
	redirectSuccess(w, r, registration.ResolveNextRoute(stage))
}

// bearerToken fetches the token for a backend call. A missing token means the
// session ended while the request was in flight.
func (s *Server) bearerToken(w http.ResponseWriter, r *http.Request, store *session.Store) (string, bool) {
	token, ok := store.Token(r.Context())
	if !ok {
		redirectSuccess(w, r, RouteLogin)
		return "", false
	}
	return token, true
}

// handleBackendError turns a failed backend call into a response. A rejected
// token ends the session; any other failure leaves the Session Record alone and
// sends the member back to page with a message.
func (s *Server) handleBackendError(w http.ResponseWriter, r *http.Request, store *session.Store, contextID string, err error, page string) {
	switch {
	case apperrors.Is(err, apperrors.ErrUnauthorized):
		log.Info().Err(err).Str("path", r.URL.Path).Msg("backend rejected session token")
		s.endSession(r.Context(), store, contextID)
		redirectSuccess(w, r, RouteLogin)
	case apperrors.Is(err, apperrors.ErrInvalidRequest):
		redirectWithError(w, r, page, userMessage(err, "Please check the details you entered and try again."))
	case apperrors.Is(err, apperrors.ErrRateLimited):
		redirectWithError(w, r, page, "Too many attempts. Please wait a moment and try again.")
	default:
		log.Err(err).Str("path", r.URL.Path).Msg("backend call failed")
		redirectWithError(w, r, page, "Something went wrong on our side. Please try again.")
	}
}

// userMessage prefers the backend's own explanation of a rejected request.
func userMessage(err error, fallback string) string {
	var apiErr *backend.APIError
	if apperrors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	return fallback
}

// stageFromMember asks the backend for the member's stage when a token grant
// did not carry one. Failures resolve to the absent stage.
func (s *Server) stageFromMember(ctx context.Context, token string) registration.Stage {
	m, err := s.backend.Me(ctx, token)
	if err != nil {
		log.Warn().Err(err).Msg("could not fetch member stage after login")
		return ""
	}
	stage, _ := m.Stage()
	return stage
}

type jsonError struct {
	Error            string `json:"error"`
	ErrorDescription string `json:"error_description,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Err(err).Msg("Failed to encode JSON response")
	}
}

func writeJSONError(w http.ResponseWriter, status int, code, description string) {
	writeJSON(w, status, jsonError{Error: code, ErrorDescription: description})
}
