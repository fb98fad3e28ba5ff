package guard_test

import (
	"context"
	"testing"
	"time"

	"github.com/jrsteele09/podsave-web/guard"
	"github.com/jrsteele09/podsave-web/registration"
	"github.com/jrsteele09/podsave-web/session"
	"github.com/stretchr/testify/require"
)

func newStore(t *testing.T) *session.Store {
	t.Helper()
	return session.NewStore(session.NewInMemoryStorage(), "podsave:session:test")
}

func TestCheck(t *testing.T) {
	ctx := context.Background()
	g := guard.New(registration.RouteLogin)

	t.Run("no session redirects to login", func(t *testing.T) {
		d := g.Check(ctx, newStore(t))
		require.False(t, d.Allow)
		require.Equal(t, registration.RouteLogin, d.Redirect)
	})

	t.Run("valid session is allowed", func(t *testing.T) {
		store := newStore(t)
		store.SetToken(ctx, "tok1", time.Now().Add(time.Hour))

		d := g.Check(ctx, store)
		require.True(t, d.Allow)
		require.Empty(t, d.Redirect)
	})

	t.Run("expired token redirects even with a stage present", func(t *testing.T) {
		store := newStore(t)
		store.SetToken(ctx, "tok1", time.Now().Add(-time.Second))
		require.True(t, store.SetRegistrationStage(ctx, registration.StageEmailVerified))

		d := g.Check(ctx, store)
		require.False(t, d.Allow)
		require.Equal(t, registration.RouteLogin, d.Redirect)

		_, ok := store.Token(ctx)
		require.False(t, ok, "expired session should be cleared by the check")
	})

	t.Run("re-evaluated after the session is cleared", func(t *testing.T) {
		store := newStore(t)
		store.SetToken(ctx, "tok1", time.Time{})
		require.True(t, g.Check(ctx, store).Allow)

		store.Clear(ctx)
		require.False(t, g.Check(ctx, store).Allow)
	})
}

func TestOnboarding(t *testing.T) {
	ctx := context.Background()
	g := guard.New("")

	t.Run("unauthenticated goes to login", func(t *testing.T) {
		d := g.Onboarding(ctx, newStore(t), registration.RouteKYCDocument)
		require.Equal(t, registration.RouteLogin, d.Redirect)
	})

	t.Run("absent stage belongs on registration start", func(t *testing.T) {
		store := newStore(t)
		store.SetToken(ctx, "tok1", time.Time{})

		require.True(t, g.Onboarding(ctx, store, registration.RouteRegistrationStart).Allow)

		d := g.Onboarding(ctx, store, registration.RouteBankConnection)
		require.False(t, d.Allow)
		require.Equal(t, registration.RouteRegistrationStart, d.Redirect)
	})

	t.Run("mid-onboarding is redirected to the resolved step", func(t *testing.T) {
		store := newStore(t)
		store.SetToken(ctx, "tok1", time.Time{})
		store.SetRegistrationStage(ctx, registration.StageKYCIDNumberComplete)

		d := g.Onboarding(ctx, store, registration.RouteKYCDocument)
		require.False(t, d.Allow)
		require.Equal(t, registration.RouteEmailVerification, d.Redirect)

		require.True(t, g.Onboarding(ctx, store, registration.RouteEmailVerification).Allow)
	})
}

func TestNavigate_MostRecentCheckWins(t *testing.T) {
	g := guard.New(registration.RouteLogin)
	const id = "device-1"

	t.Run("current check redirects", func(t *testing.T) {
		d := g.Navigate(id, func() guard.Decision {
			return guard.Decision{Redirect: registration.RouteLogin}
		})
		require.False(t, d.Stale)
	})

	t.Run("superseded check does not redirect", func(t *testing.T) {
		d := g.Navigate(id, func() guard.Decision {
			// A newer navigation starts and resolves while this one is pending
			newer := g.Navigate(id, func() guard.Decision { return guard.Decision{Allow: true} })
			require.True(t, newer.Allow)
			return guard.Decision{Redirect: registration.RouteLogin}
		})
		require.True(t, d.Stale)
	})

	t.Run("other browser contexts do not interfere", func(t *testing.T) {
		d := g.Navigate(id, func() guard.Decision {
			g.Navigations().Begin("device-2")
			return guard.Decision{Redirect: registration.RouteLogin}
		})
		require.False(t, d.Stale)
	})

	t.Run("allowed checks are never stale", func(t *testing.T) {
		d := g.Navigate(id, func() guard.Decision {
			g.Navigations().Begin(id)
			return guard.Decision{Allow: true}
		})
		require.True(t, d.Allow)
		require.False(t, d.Stale)
	})
}

func TestNavigations(t *testing.T) {
	n := guard.NewNavigations()

	first := n.Begin("a")
	second := n.Begin("a")
	require.Greater(t, second, first)
	require.False(t, n.Current("a", first))
	require.True(t, n.Current("a", second))
	require.False(t, n.Current("b", 1))

	n.Forget("a")
	require.Equal(t, 0, n.Len())
	require.False(t, n.Current("a", second))
}
