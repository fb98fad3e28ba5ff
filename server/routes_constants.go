package server

import "github.com/jrsteele09/podsave-web/registration"

// Route path constants
// Onboarding routes come from the registration package so the guard and the mux agree
const (
	// Auth Routes - Login, Signup & Logout
	RouteLogin       = registration.RouteLogin
	RouteAuthLogin   = "/auth/login"
	RouteSignup      = "/signup"
	RouteAuthSignup  = "/auth/signup"
	RouteAuthLogout  = "/auth/logout"
	RouteAuthRefresh = "/auth/refresh"

	// Onboarding Routes
	RouteRegisterNext            = "/register/next"
	RouteRegistrationStart       = registration.RouteRegistrationStart
	RouteKYCDocument             = registration.RouteKYCDocument
	RouteKYCDocumentReturn       = registration.RouteKYCDocument + "/return"
	RouteKYCIDNumber             = registration.RouteKYCIDNumber
	RouteEmailVerification       = registration.RouteEmailVerification
	RouteEmailVerificationResend = registration.RouteEmailVerification + "/resend"
	RouteBankConnection          = registration.RouteBankConnection
	RouteRegistrationDone        = registration.RouteRegistrationDone

	// Member Routes
	RouteDashboard = registration.RouteDashboard

	// API Routes
	RouteAPISession = "/api/session"
	RouteHealth     = "/healthz"

	// Static Asset Routes (patterns)
	RouteStaticCSS = "/css/{file}"
	RouteStaticJS  = "/js/{file}"
)
