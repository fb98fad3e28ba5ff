// Package guard decides whether a request for a protected page may render,
// and where to send it otherwise.
package guard

import (
	"context"

	"github.com/jrsteele09/podsave-web/registration"
)

// Authenticator is the part of the session store the guard needs for plain
// protected pages.
type Authenticator interface {
	IsAuthenticated(ctx context.Context) bool
}

// StageReader adds the stored registration stage, for onboarding pages.
type StageReader interface {
	Authenticator
	RegistrationStage(ctx context.Context) (registration.Stage, bool)
}

// Decision is the outcome of one guard check.
type Decision struct {
	Allow    bool
	Redirect string // set when Allow is false
	Stale    bool   // a newer navigation started while this check ran; do not redirect
}

type Guard struct {
	loginRoute  string
	navigations *Navigations
}

// New creates a Guard that sends unauthenticated callers to loginRoute.
func New(loginRoute string) *Guard {
	if loginRoute == "" {
		loginRoute = registration.RouteLogin
	}
	return &Guard{
		loginRoute:  loginRoute,
		navigations: NewNavigations(),
	}
}

// Navigations exposes the per browser context navigation tracker.
func (g *Guard) Navigations() *Navigations {
	return g.navigations
}

// LoginRoute is where unauthenticated callers are sent.
func (g *Guard) LoginRoute() string {
	return g.loginRoute
}

// Check allows authenticated callers and redirects everyone else to login.
// It runs the store's self-correcting read, so an expired token is cleared here.
func (g *Guard) Check(ctx context.Context, a Authenticator) Decision {
	if !a.IsAuthenticated(ctx) {
		return Decision{Redirect: g.loginRoute}
	}
	return Decision{Allow: true}
}

// Onboarding guards an onboarding page. Authenticated callers are allowed only
// on the route their stage resolves to and are redirected there otherwise.
func (g *Guard) Onboarding(ctx context.Context, s StageReader, path string) Decision {
	if d := g.Check(ctx, s); !d.Allow {
		return d
	}
	stage, _ := s.RegistrationStage(ctx)
	if next := registration.ResolveNextRoute(stage); next != path {
		return Decision{Redirect: next}
	}
	return Decision{Allow: true}
}

// Navigate runs check as the newest navigation of a browser context. If another
// navigation of the same context starts before check returns, a redirect from
// this check is marked stale so only the most recent check redirects.
func (g *Guard) Navigate(contextID string, check func() Decision) Decision {
	seq := g.navigations.Begin(contextID)
	d := check()
	if !d.Allow && !g.navigations.Current(contextID, seq) {
		d.Stale = true
	}
	return d
}
