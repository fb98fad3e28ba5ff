package registration

// Onboarding and authentication routes. These are fixed; nothing computes them.
const (
	RouteLogin             = "/login"
	RouteRegistrationStart = "/register"
	RouteKYCDocument       = "/register/kyc/document"
	RouteKYCIDNumber       = "/register/kyc/id-number"
	RouteEmailVerification = "/register/verify-email"
	RouteBankConnection    = "/register/bank"
	RouteRegistrationDone  = "/register/complete"
	RouteDashboard         = "/dashboard"
)

var nextRoutes = map[Stage]string{
	StageNone:                RouteRegistrationStart,
	StageRegistered:          RouteKYCDocument,
	StageKYCDocumentComplete: RouteKYCIDNumber,
	StageKYCIDNumberComplete: RouteEmailVerification,
	StageEmailVerified:       RouteBankConnection,
	StageBankConnected:       RouteRegistrationDone,
}

// ResolveNextRoute returns the single route a member at stage s belongs on.
// The absent stage and unrecognised values resolve as StageNone.
func ResolveNextRoute(s Stage) string {
	return nextRoutes[s.OrNone()]
}

// OnboardingRoutes lists every route the resolver can return, in onboarding order.
func OnboardingRoutes() []string {
	routes := make([]string, 0, len(stages))
	for _, st := range stages {
		routes = append(routes, nextRoutes[st])
	}
	return routes
}

// IsOnboardingRoute reports whether path is one of the resolver's targets.
func IsOnboardingRoute(path string) bool {
	for _, r := range nextRoutes {
		if r == path {
			return true
		}
	}
	return false
}
