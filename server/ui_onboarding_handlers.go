package server

import (
	"net/http"
	"regexp"
	"strings"

	"github.com/jrsteele09/podsave-web/backend"
	"github.com/jrsteele09/podsave-web/registration"
)

var (
	emailCodePattern = regexp.MustCompile(`^[0-9]{6}$`)
	idNumberPattern  = regexp.MustCompile(`^[A-Za-z0-9 -]{4,32}$`)
)

// RegisterNextHandler sends the member to the page their stage resolves to
func (s *Server) RegisterNextHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		store, _ := s.sessionFromContext(w, r)
		stage, _ := store.RegistrationStage(r.Context())
		redirectSuccess(w, r, registration.ResolveNextRoute(stage))
	}
}

// RegistrationGetHandler renders the profile form
func (s *Server) RegistrationGetHandler() http.HandlerFunc {
	tmpl := mustParseTemplate("register.html")

	return func(w http.ResponseWriter, r *http.Request) {
		store, _ := s.sessionFromContext(w, r)
		render(w, tmpl, http.StatusOK, s.onboardingData(r, store, "Your details"))
	}
}

// RegistrationPostHandler submits the profile to the backend
func (s *Server) RegistrationPostHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		store, contextID := s.sessionFromContext(w, r)
		if err := r.ParseForm(); err != nil {
			redirectWithError(w, r, RouteRegistrationStart, "Invalid form data")
			return
		}

		profile := backend.Profile{
			FirstName:   strings.TrimSpace(r.FormValue("first_name")),
			LastName:    strings.TrimSpace(r.FormValue("last_name")),
			Phone:       strings.TrimSpace(r.FormValue("phone")),
			DateOfBirth: strings.TrimSpace(r.FormValue("date_of_birth")),
			Address: backend.Address{
				Line1:      strings.TrimSpace(r.FormValue("line1")),
				Line2:      strings.TrimSpace(r.FormValue("line2")),
				City:       strings.TrimSpace(r.FormValue("city")),
				PostalCode: strings.TrimSpace(r.FormValue("postal_code")),
				Country:    strings.ToUpper(strings.TrimSpace(r.FormValue("country"))),
			},
		}
		if missing := missingProfileField(profile); missing != "" {
			redirectWithError(w, r, RouteRegistrationStart, missing+" is required")
			return
		}

		token, ok := s.bearerToken(w, r, store)
		if !ok {
			return
		}
		if err := s.backend.UpdateProfile(r.Context(), token, profile); err != nil {
			s.handleBackendError(w, r, store, contextID, err, RouteRegistrationStart)
			return
		}
		s.advance(w, r, store, registration.StageRegistered)
	}
}

func missingProfileField(p backend.Profile) string {
	fields := []struct {
		name  string
		value string
	}{
		{"First name", p.FirstName},
		{"Last name", p.LastName},
		{"Phone number", p.Phone},
		{"Date of birth", p.DateOfBirth},
		{"Address", p.Address.Line1},
		{"City", p.Address.City},
		{"Postal code", p.Address.PostalCode},
		{"Country", p.Address.Country},
	}
	for _, f := range fields {
		if f.value == "" {
			return f.name
		}
	}
	return ""
}

// KYCIDNumberGetHandler renders the national ID number form
func (s *Server) KYCIDNumberGetHandler() http.HandlerFunc {
	tmpl := mustParseTemplate("kyc_id_number.html")

	return func(w http.ResponseWriter, r *http.Request) {
		store, _ := s.sessionFromContext(w, r)
		render(w, tmpl, http.StatusOK, s.onboardingData(r, store, "Your ID number"))
	}
}

// KYCIDNumberPostHandler submits the ID number to the backend
func (s *Server) KYCIDNumberPostHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		store, contextID := s.sessionFromContext(w, r)
		if err := r.ParseForm(); err != nil {
			redirectWithError(w, r, RouteKYCIDNumber, "Invalid form data")
			return
		}
		idNumber := strings.TrimSpace(r.FormValue("id_number"))
		if !idNumberPattern.MatchString(idNumber) {
			redirectWithError(w, r, RouteKYCIDNumber, "Please enter a valid ID number")
			return
		}

		token, ok := s.bearerToken(w, r, store)
		if !ok {
			return
		}
		if err := s.backend.SubmitIDNumber(r.Context(), token, idNumber); err != nil {
			s.handleBackendError(w, r, store, contextID, err, RouteKYCIDNumber)
			return
		}
		s.advance(w, r, store, registration.StageKYCIDNumberComplete)
	}
}

// VerifyEmailGetHandler renders the email code form
func (s *Server) VerifyEmailGetHandler() http.HandlerFunc {
	tmpl := mustParseTemplate("verify_email.html")

	return func(w http.ResponseWriter, r *http.Request) {
		store, _ := s.sessionFromContext(w, r)
		render(w, tmpl, http.StatusOK, s.onboardingData(r, store, "Verify your email"))
	}
}

// VerifyEmailPostHandler checks the emailed code with the backend
func (s *Server) VerifyEmailPostHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		store, contextID := s.sessionFromContext(w, r)
		if err := r.ParseForm(); err != nil {
			redirectWithError(w, r, RouteEmailVerification, "Invalid form data")
			return
		}
		code := strings.TrimSpace(r.FormValue("code"))
		if !emailCodePattern.MatchString(code) {
			redirectWithError(w, r, RouteEmailVerification, "Enter the 6 digit code from your email")
			return
		}

		token, ok := s.bearerToken(w, r, store)
		if !ok {
			return
		}
		if err := s.backend.VerifyEmail(r.Context(), token, code); err != nil {
			s.handleBackendError(w, r, store, contextID, err, RouteEmailVerification)
			return
		}
		s.advance(w, r, store, registration.StageEmailVerified)
	}
}

// ResendVerificationHandler asks the backend for a new email code
func (s *Server) ResendVerificationHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		store, contextID := s.sessionFromContext(w, r)
		token, ok := s.bearerToken(w, r, store)
		if !ok {
			return
		}
		if err := s.backend.ResendEmailVerification(r.Context(), token); err != nil {
			s.handleBackendError(w, r, store, contextID, err, RouteEmailVerification)
			return
		}
		redirectWithNotice(w, r, RouteEmailVerification, "We've sent you a new code")
	}
}

// BankGetHandler renders the bank connection page
func (s *Server) BankGetHandler() http.HandlerFunc {
	tmpl := mustParseTemplate("bank.html")

	return func(w http.ResponseWriter, r *http.Request) {
		store, _ := s.sessionFromContext(w, r)
		render(w, tmpl, http.StatusOK, s.onboardingData(r, store, "Connect your bank"))
	}
}

// BankPostHandler links the account token from the bank connection widget
func (s *Server) BankPostHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		store, contextID := s.sessionFromContext(w, r)
		if err := r.ParseForm(); err != nil {
			redirectWithError(w, r, RouteBankConnection, "Invalid form data")
			return
		}
		accountToken := strings.TrimSpace(r.FormValue("account_token"))
		if accountToken == "" {
			redirectWithError(w, r, RouteBankConnection, "Please connect a bank account to continue")
			return
		}

		token, ok := s.bearerToken(w, r, store)
		if !ok {
			return
		}
		if err := s.backend.ConnectBank(r.Context(), token, accountToken); err != nil {
			s.handleBackendError(w, r, store, contextID, err, RouteBankConnection)
			return
		}
		s.advance(w, r, store, registration.StageBankConnected)
	}
}

// RegistrationCompleteHandler renders the end of onboarding
func (s *Server) RegistrationCompleteHandler() http.HandlerFunc {
	tmpl := mustParseTemplate("complete.html")

	return func(w http.ResponseWriter, r *http.Request) {
		store, _ := s.sessionFromContext(w, r)
		render(w, tmpl, http.StatusOK, s.onboardingData(r, store, "You're all set"))
	}
}
