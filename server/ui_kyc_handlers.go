package server

import (
	"net/http"

	"github.com/jrsteele09/podsave-web/registration"
	"github.com/rs/zerolog/log"
)

// KYCDocumentPageHandler explains the document check. Starting it is a POST.
func (s *Server) KYCDocumentPageHandler() http.HandlerFunc {
	tmpl := mustParseTemplate("kyc_document.html")

	return func(w http.ResponseWriter, r *http.Request) {
		store, _ := s.sessionFromContext(w, r)
		data := s.onboardingData(r, store, "Verify your identity")
		render(w, tmpl, http.StatusOK, data)
	}
}

// KYCDocumentStartHandler starts a hosted identity verification and sends the
// member to it. The provider returns them to RouteKYCDocumentReturn.
func (s *Server) KYCDocumentStartHandler() http.HandlerFunc {
	tmpl := mustParseTemplate("kyc_document.html")

	return func(w http.ResponseWriter, r *http.Request) {
		store, contextID := s.sessionFromContext(w, r)
		token, ok := s.bearerToken(w, r, store)
		if !ok {
			return
		}
		member, err := s.backend.Me(r.Context(), token)
		if err != nil {
			s.handleBackendError(w, r, store, contextID, err, RouteKYCDocument)
			return
		}

		v, err := s.verifier.Start(r.Context(), member.ID, s.baseURL(r)+RouteKYCDocumentReturn)
		if err != nil {
			log.Err(err).Msg("failed to start identity verification")
			data := s.onboardingData(r, store, "Verify your identity")
			data.Error = "We couldn't start identity verification. Please try again."
			render(w, tmpl, http.StatusBadGateway, data)
			return
		}

		s.SetKYCSessionCookie(w, v.ID, r, kycSessionMaxAge)
		// The hosted page lives on another origin.
		if isHTMXRequest(r) {
			w.Header().Set("HX-Redirect", v.URL)
			w.WriteHeader(http.StatusNoContent)
			return
		}
		http.Redirect(w, r, v.URL, http.StatusSeeOther)
	}
}

// KYCDocumentReturnHandler is where the provider sends the member back. Only a
// verified session moves the stage on; anything else leaves the record as is.
func (s *Server) KYCDocumentReturnHandler() http.HandlerFunc {
	tmpl := mustParseTemplate("kyc_document.html")

	return func(w http.ResponseWriter, r *http.Request) {
		store, contextID := s.sessionFromContext(w, r)
		stage, _ := store.RegistrationStage(r.Context())
		if stage.OrNone() != registration.StageRegistered {
			// Already past this step, or not there yet.
			redirectSuccess(w, r, registration.ResolveNextRoute(stage))
			return
		}

		cookie, err := r.Cookie(kycSessionCookieName)
		if err != nil || cookie.Value == "" {
			redirectWithError(w, r, RouteKYCDocument, "Your verification session has expired. Please start again.")
			return
		}

		v, err := s.verifier.Status(r.Context(), cookie.Value)
		if err != nil {
			log.Err(err).Str("verification", cookie.Value).Msg("failed to read identity verification")
			data := s.onboardingData(r, store, "Verify your identity")
			data.Error = "We couldn't check your verification. Please refresh this page."
			render(w, tmpl, http.StatusBadGateway, data)
			return
		}

		if !v.Verified() {
			data := s.onboardingData(r, store, "Verify your identity")
			data.Verification = v
			render(w, tmpl, http.StatusOK, data)
			return
		}

		token, ok := s.bearerToken(w, r, store)
		if !ok {
			return
		}
		current, err := s.backend.Me(r.Context(), token)
		if err != nil {
			s.handleBackendError(w, r, store, contextID, err, RouteKYCDocument)
			return
		}
		if !v.BelongsTo(current.ID) {
			log.Warn().Str("verification", v.ID).Str("member", current.ID).Msg("identity verification started for another member")
			s.SetKYCSessionCookie(w, "", r, -1)
			redirectWithError(w, r, RouteKYCDocument, "This verification doesn't belong to your account. Please start again.")
			return
		}

		member, err := s.backend.ConfirmIdentityVerification(r.Context(), token, v.ID)
		if err != nil {
			s.handleBackendError(w, r, store, contextID, err, RouteKYCDocument)
			return
		}

		next, ok := registration.StageFromVerificationStatus(member.IdentityVerification)
		if !ok {
			// The provider says verified but the backend has not caught up yet.
			data := s.onboardingData(r, store, "Verify your identity")
			data.Verification = v
			data.Verification.Status = registration.VerificationProcessing
			render(w, tmpl, http.StatusOK, data)
			return
		}

		s.SetKYCSessionCookie(w, "", r, -1)
		s.advance(w, r, store, next)
	}
}
