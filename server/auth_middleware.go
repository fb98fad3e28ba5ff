package server

import (
	"context"
	"net/http"

	"github.com/jrsteele09/podsave-web/guard"
	"github.com/jrsteele09/podsave-web/session"
	"github.com/rs/zerolog/log"
)

// ContextKey is a custom type for context keys to avoid collisions
type ContextKey string

const (
	// ContextKeySession stores the Session Store of the calling browser context
	ContextKeySession ContextKey = "session"
	// ContextKeyContextID stores the browser context id
	ContextKeyContextID ContextKey = "context_id"
)

func withSession(ctx context.Context, store *session.Store, contextID string) context.Context {
	ctx = context.WithValue(ctx, ContextKeySession, store)
	return context.WithValue(ctx, ContextKeyContextID, contextID)
}

// sessionFromContext returns the store a guard middleware put on the request.
// Handlers mounted without a guard resolve it from the cookie instead.
func (s *Server) sessionFromContext(w http.ResponseWriter, r *http.Request) (*session.Store, string) {
	store, ok := r.Context().Value(ContextKeySession).(*session.Store)
	id, _ := r.Context().Value(ContextKeyContextID).(string)
	if ok && id != "" {
		return store, id
	}
	return s.sessionFor(w, r)
}

// RequireSession is middleware for pages that need an authenticated member.
// Unauthenticated callers are sent to the login page without an error banner.
func (s *Server) RequireSession() func(http.HandlerFunc) http.HandlerFunc {
	return s.navigationGuard(func(ctx context.Context, store *session.Store) guard.Decision {
		return s.guard.Check(ctx, store)
	})
}

// RequireOnboardingStep guards the onboarding page at path: it renders only for
// members whose stage resolves to it, everyone else goes where they belong.
func (s *Server) RequireOnboardingStep(path string) func(http.HandlerFunc) http.HandlerFunc {
	return s.navigationGuard(func(ctx context.Context, store *session.Store) guard.Decision {
		return s.guard.Onboarding(ctx, store, path)
	})
}

func (s *Server) navigationGuard(check func(context.Context, *session.Store) guard.Decision) func(http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			store, contextID := s.sessionFor(w, r)
			decision := s.guard.Navigate(contextID, func() guard.Decision {
				return check(r.Context(), store)
			})

			switch {
			case decision.Allow:
				next(w, r.WithContext(withSession(r.Context(), store, contextID)))
			case decision.Stale:
				// A newer navigation from this browser owns the redirect.
				log.Debug().Str("path", r.URL.Path).Msg("dropping stale guard redirect")
				w.WriteHeader(http.StatusNoContent)
			default:
				redirectSuccess(w, r, decision.Redirect)
			}
		}
	}
}

// RequireAPISession is middleware for JSON routes. It answers 401 instead of
// redirecting and does not take part in navigation ordering.
func (s *Server) RequireAPISession() func(http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			store, contextID := s.sessionFor(w, r)
			if d := s.guard.Check(r.Context(), store); !d.Allow {
				writeJSONError(w, http.StatusUnauthorized, "unauthorized", "no active session")
				return
			}
			next(w, r.WithContext(withSession(r.Context(), store, contextID)))
		}
	}
}

// endSession destroys the record and forgets the navigation history of contextID.
func (s *Server) endSession(ctx context.Context, store *session.Store, contextID string) {
	store.Clear(ctx)
	s.guard.Navigations().Forget(contextID)
}
