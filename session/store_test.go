package session_test

import (
	"context"
	"testing"
	"time"

	"github.com/jrsteele09/podsave-web/registration"
	"github.com/jrsteele09/podsave-web/session"
	"github.com/stretchr/testify/require"
)

const testNamespace = "podsave:session:device-1"

type testFixture struct {
	storage *session.InMemoryStorage
	store   *session.Store
	now     time.Time
}

func setupTestFixture(t *testing.T) *testFixture {
	t.Helper()

	f := &testFixture{
		storage: session.NewInMemoryStorage(),
		now:     time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
	}
	f.store = session.NewStore(f.storage, testNamespace, session.WithClock(func() time.Time { return f.now }))
	return f
}

func (f *testFixture) raw(t *testing.T) map[string]string {
	t.Helper()
	fields, err := f.storage.Read(context.Background(), testNamespace)
	require.NoError(t, err)
	return fields
}

func TestStore_EmptyRecord(t *testing.T) {
	f := setupTestFixture(t)
	ctx := context.Background()

	_, ok := f.store.Token(ctx)
	require.False(t, ok)
	_, ok = f.store.RegistrationStage(ctx)
	require.False(t, ok)
	require.False(t, f.store.IsAuthenticated(ctx))
	require.Equal(t, session.Unauthenticated{}, f.store.Load(ctx))
}

func TestStore_LoginScenario(t *testing.T) {
	f := setupTestFixture(t)
	ctx := context.Background()

	f.store.SetToken(ctx, "tok1", f.now.Add(3600*time.Second))

	require.True(t, f.store.IsAuthenticated(ctx))
	token, ok := f.store.Token(ctx)
	require.True(t, ok)
	require.Equal(t, "tok1", token)

	stage, _ := f.store.RegistrationStage(ctx)
	require.Equal(t, registration.RouteRegistrationStart, registration.ResolveNextRoute(stage))
}

func TestStore_IsAuthenticated_FutureExpiryLeavesRecord(t *testing.T) {
	f := setupTestFixture(t)
	ctx := context.Background()

	f.store.SetToken(ctx, "tok1", f.now.Add(time.Minute))
	require.True(t, f.store.SetRegistrationStage(ctx, registration.StageRegistered))
	before := f.raw(t)

	require.True(t, f.store.IsAuthenticated(ctx))
	require.Equal(t, before, f.raw(t))
}

func TestStore_IsAuthenticated_ExpiredClears(t *testing.T) {
	f := setupTestFixture(t)
	ctx := context.Background()

	f.store.SetToken(ctx, "tok1", f.now.Add(-time.Second))
	require.True(t, f.store.SetRegistrationStage(ctx, registration.StageEmailVerified))

	// Reads other than IsAuthenticated are pure
	token, ok := f.store.Token(ctx)
	require.True(t, ok)
	require.Equal(t, "tok1", token)

	require.False(t, f.store.IsAuthenticated(ctx))

	_, ok = f.store.Token(ctx)
	require.False(t, ok)
	_, ok = f.store.RegistrationStage(ctx)
	require.False(t, ok)
	require.Equal(t, 0, f.storage.Len())
}

func TestStore_IsAuthenticated_ExpiryExactlyNow(t *testing.T) {
	f := setupTestFixture(t)
	ctx := context.Background()

	f.store.SetToken(ctx, "tok1", f.now)
	require.False(t, f.store.IsAuthenticated(ctx))
}

func TestStore_NoExpiryNeverExpires(t *testing.T) {
	f := setupTestFixture(t)
	ctx := context.Background()

	f.store.SetToken(ctx, "tok1", f.now.Add(-time.Hour))
	f.store.SetToken(ctx, "tok2", time.Time{})

	require.NotContains(t, f.raw(t), session.FieldExpiresAt)
	f.now = f.now.Add(365 * 24 * time.Hour)
	require.True(t, f.store.IsAuthenticated(ctx))
}

func TestStore_SetToken_EmptyIgnored(t *testing.T) {
	f := setupTestFixture(t)
	ctx := context.Background()

	f.store.SetToken(ctx, "", f.now.Add(time.Hour))
	require.Equal(t, 0, f.storage.Len())
}

func TestStore_SetRegistrationStage(t *testing.T) {
	t.Run("rejects unknown stage", func(t *testing.T) {
		f := setupTestFixture(t)
		ctx := context.Background()
		f.store.SetToken(ctx, "tok1", f.now.Add(time.Hour))
		require.True(t, f.store.SetRegistrationStage(ctx, registration.StageRegistered))

		require.False(t, f.store.SetRegistrationStage(ctx, "bogus_value"))

		stage, ok := f.store.RegistrationStage(ctx)
		require.True(t, ok)
		require.Equal(t, registration.StageRegistered, stage)
	})

	t.Run("rejects stage without token", func(t *testing.T) {
		f := setupTestFixture(t)
		ctx := context.Background()

		require.False(t, f.store.SetRegistrationStage(ctx, registration.StageRegistered))
		require.Equal(t, 0, f.storage.Len())
	})

	t.Run("does not enforce ordering", func(t *testing.T) {
		f := setupTestFixture(t)
		ctx := context.Background()
		f.store.SetToken(ctx, "tok1", f.now.Add(time.Hour))

		require.True(t, f.store.SetRegistrationStage(ctx, registration.StageBankConnected))
		require.True(t, f.store.SetRegistrationStage(ctx, registration.StageRegistered))

		stage, _ := f.store.RegistrationStage(ctx)
		require.Equal(t, registration.StageRegistered, stage)
	})
}

func TestStore_KYCIDNumberScenario(t *testing.T) {
	f := setupTestFixture(t)
	ctx := context.Background()
	f.store.SetToken(ctx, "tok1", f.now.Add(time.Hour))

	require.True(t, f.store.SetRegistrationStage(ctx, registration.StageKYCIDNumberComplete))

	flags := f.store.Flags(ctx)
	require.False(t, flags.EmailVerified)
	require.True(t, flags.KYCCompleted)

	stage, _ := f.store.RegistrationStage(ctx)
	require.Equal(t, registration.RouteEmailVerification, registration.ResolveNextRoute(stage))
}

func TestStore_Clear(t *testing.T) {
	f := setupTestFixture(t)
	ctx := context.Background()
	f.store.SetToken(ctx, "tok1", f.now.Add(time.Hour))
	f.store.SetRegistrationStage(ctx, registration.StageRegistered)

	f.store.Clear(ctx)

	_, ok := f.store.Token(ctx)
	require.False(t, ok)
	_, ok = f.store.RegistrationStage(ctx)
	require.False(t, ok)
	require.False(t, f.store.IsAuthenticated(ctx))
}

func TestStore_Start(t *testing.T) {
	f := setupTestFixture(t)
	ctx := context.Background()
	f.store.SetToken(ctx, "old", f.now.Add(time.Hour))
	f.store.SetRegistrationStage(ctx, registration.StageEmailVerified)

	f.store.Start(ctx, session.Authenticated{Token: "new"})

	rec, ok := f.store.Load(ctx).(session.Authenticated)
	require.True(t, ok)
	require.Equal(t, "new", rec.Token)
	require.True(t, rec.ExpiresAt.IsZero())
	require.Empty(t, rec.Stage)
}

func TestStore_CorruptRecord(t *testing.T) {
	ctx := context.Background()

	t.Run("stage without token reads as logged out", func(t *testing.T) {
		f := setupTestFixture(t)
		require.NoError(t, f.storage.Write(ctx, testNamespace, map[string]string{session.FieldStage: "registered"}))

		require.Equal(t, session.Unauthenticated{}, f.store.Load(ctx))
		_, ok := f.store.RegistrationStage(ctx)
		require.False(t, ok)
		require.False(t, f.store.IsAuthenticated(ctx))
	})

	t.Run("unknown stage reads as absent", func(t *testing.T) {
		f := setupTestFixture(t)
		require.NoError(t, f.storage.Write(ctx, testNamespace, map[string]string{
			session.FieldToken: "tok1",
			session.FieldStage: "document_verified",
		}))

		_, ok := f.store.RegistrationStage(ctx)
		require.False(t, ok)
		require.True(t, f.store.IsAuthenticated(ctx))
	})

	t.Run("unparsable expiry is treated as expired", func(t *testing.T) {
		f := setupTestFixture(t)
		require.NoError(t, f.storage.Write(ctx, testNamespace, map[string]string{
			session.FieldToken:     "tok1",
			session.FieldExpiresAt: "tomorrow",
		}))

		require.False(t, f.store.IsAuthenticated(ctx))
		require.Equal(t, 0, f.storage.Len())
	})
}

func TestStore_UnavailableStorage(t *testing.T) {
	ctx := context.Background()
	store := session.NewStore(session.UnavailableStorage{}, testNamespace)

	require.NotPanics(t, func() {
		store.SetToken(ctx, "tok1", time.Now().Add(time.Hour))
		require.False(t, store.SetRegistrationStage(ctx, registration.StageRegistered))
		store.Clear(ctx)
	})

	_, ok := store.Token(ctx)
	require.False(t, ok)
	require.False(t, store.IsAuthenticated(ctx))
	require.Equal(t, registration.Flags{}, store.Flags(ctx))
}

func TestProvider_IsolatesBrowserContexts(t *testing.T) {
	ctx := context.Background()
	storage := session.NewInMemoryStorage()
	p := session.NewProvider(storage, "podsave:session")

	p.For("device-a").SetToken(ctx, "tok-a", time.Time{})

	require.True(t, p.For("device-a").IsAuthenticated(ctx))
	require.False(t, p.For("device-b").IsAuthenticated(ctx))

	fields, err := storage.Read(ctx, "podsave:session:device-a")
	require.NoError(t, err)
	require.Equal(t, "tok-a", fields[session.FieldToken])
}

func TestProvider_EmptyContextID(t *testing.T) {
	ctx := context.Background()
	storage := session.NewInMemoryStorage()
	p := session.NewProvider(storage, "podsave:session")

	p.For("").SetToken(ctx, "tok", time.Time{})

	require.False(t, p.For("").IsAuthenticated(ctx))
	require.Equal(t, 0, storage.Len())
}
