package server

import (
	"net/http"
	"strings"
)

func (s *Server) initRoutes() {
	s.RegisterRouteHandler("GET /{$}", ChainMiddleware(s.IndexHandler(), s.HTMLMiddleWare()...))
	s.RegisterRouteHandler("GET "+RouteHealth, ChainMiddleware(s.HealthHandler(), s.APIMiddleware()...))

	// LOGIN & SIGNUP
	s.RegisterRouteHandler("GET "+RouteLogin, ChainMiddleware(s.LoginPageUIHandler(), s.HTMLMiddleWare()...))
	s.RegisterRouteHandler("POST "+RouteAuthLogin, ChainMiddleware(s.LoginSubmissionHandler(), s.HTMLMiddleWare(s.RateLimitMiddleware(RouteLogin))...))
	s.RegisterRouteHandler("GET "+RouteSignup, ChainMiddleware(s.SignupGetHandler(), s.HTMLMiddleWare()...))
	s.RegisterRouteHandler("POST "+RouteAuthSignup, ChainMiddleware(s.SignupPostHandler(), s.HTMLMiddleWare(s.RateLimitMiddleware(RouteSignup))...))
	s.RegisterRouteHandler("POST "+RouteAuthLogout, ChainMiddleware(s.LogoutHandler(), s.HTMLMiddleWare()...))
	s.RegisterRouteHandler("POST "+RouteAuthRefresh, ChainMiddleware(s.RefreshHandler(), s.APIMiddleware(s.RequireAPISession())...))

	// ONBOARDING (each page only renders for the stage that resolves to it)
	s.RegisterRouteHandler("GET "+RouteRegisterNext, ChainMiddleware(s.RegisterNextHandler(), s.HTMLMiddleWare(s.RequireSession())...))
	s.RegisterRouteHandler("GET "+RouteRegistrationStart, ChainMiddleware(s.RegistrationGetHandler(), s.HTMLMiddleWare(s.RequireOnboardingStep(RouteRegistrationStart))...))
	s.RegisterRouteHandler("POST "+RouteRegistrationStart, ChainMiddleware(s.RegistrationPostHandler(), s.HTMLMiddleWare(s.RequireOnboardingStep(RouteRegistrationStart))...))
	s.RegisterRouteHandler("GET "+RouteKYCDocument, ChainMiddleware(s.KYCDocumentPageHandler(), s.HTMLMiddleWare(s.RequireOnboardingStep(RouteKYCDocument))...))
	s.RegisterRouteHandler("POST "+RouteKYCDocument, ChainMiddleware(s.KYCDocumentStartHandler(), s.HTMLMiddleWare(s.RequireOnboardingStep(RouteKYCDocument))...))
	s.RegisterRouteHandler("GET "+RouteKYCDocumentReturn, ChainMiddleware(s.KYCDocumentReturnHandler(), s.HTMLMiddleWare(s.RequireSession())...))
	s.RegisterRouteHandler("GET "+RouteKYCIDNumber, ChainMiddleware(s.KYCIDNumberGetHandler(), s.HTMLMiddleWare(s.RequireOnboardingStep(RouteKYCIDNumber))...))
	s.RegisterRouteHandler("POST "+RouteKYCIDNumber, ChainMiddleware(s.KYCIDNumberPostHandler(), s.HTMLMiddleWare(s.RequireOnboardingStep(RouteKYCIDNumber))...))
	s.RegisterRouteHandler("GET "+RouteEmailVerification, ChainMiddleware(s.VerifyEmailGetHandler(), s.HTMLMiddleWare(s.RequireOnboardingStep(RouteEmailVerification))...))
	s.RegisterRouteHandler("POST "+RouteEmailVerification, ChainMiddleware(s.VerifyEmailPostHandler(), s.HTMLMiddleWare(s.RequireOnboardingStep(RouteEmailVerification))...))
	s.RegisterRouteHandler("POST "+RouteEmailVerificationResend, ChainMiddleware(s.ResendVerificationHandler(), s.HTMLMiddleWare(s.RequireOnboardingStep(RouteEmailVerification))...))
	s.RegisterRouteHandler("GET "+RouteBankConnection, ChainMiddleware(s.BankGetHandler(), s.HTMLMiddleWare(s.RequireOnboardingStep(RouteBankConnection))...))
	s.RegisterRouteHandler("POST "+RouteBankConnection, ChainMiddleware(s.BankPostHandler(), s.HTMLMiddleWare(s.RequireOnboardingStep(RouteBankConnection))...))
	s.RegisterRouteHandler("GET "+RouteRegistrationDone, ChainMiddleware(s.RegistrationCompleteHandler(), s.HTMLMiddleWare(s.RequireOnboardingStep(RouteRegistrationDone))...))

	// MEMBER
	s.RegisterRouteHandler("GET "+RouteDashboard, ChainMiddleware(s.DashboardHandler(), s.HTMLMiddleWare(s.RequireSession())...))

	// API routes
	s.RegisterRouteHandler("GET "+RouteAPISession, ChainMiddleware(s.SessionStateHandler(), s.APIMiddleware()...))
	s.RegisterRouteHandler("OPTIONS /api/", ChainMiddleware(s.preflightHandler(), s.APIMiddleware()...))

	s.RegisterRouteHandler("GET "+RouteStaticCSS, ChainMiddleware(s.serveFileHandler(), s.HTMLMiddleWare()...))
	s.RegisterRouteHandler("GET "+RouteStaticJS, ChainMiddleware(s.serveFileHandler(), s.HTMLMiddleWare()...))
}

func (s *Server) serveFileHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		filePath := strings.TrimPrefix(r.URL.Path, "/")
		if filePath == "" {
			http.Error(w, "404 - Page Not Found", http.StatusNotFound)
			return
		}
		err := StreamFile(w, r, filePath)
		if err != nil {
			logError("GET", filePath, err.Error())
			http.Error(w, "404 - Page Not Found", http.StatusNotFound)
			return
		}
	}
}

// preflightHandler answers CORS preflights; CorsMiddleware writes the headers.
func (s *Server) preflightHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}
}
