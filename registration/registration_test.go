package registration_test

import (
	"testing"

	"github.com/jrsteele09/podsave-web/registration"
	"github.com/stretchr/testify/require"
)

func TestResolveNextRoute(t *testing.T) {
	cases := map[registration.Stage]string{
		registration.StageNone:                registration.RouteRegistrationStart,
		registration.StageRegistered:          registration.RouteKYCDocument,
		registration.StageKYCDocumentComplete: registration.RouteKYCIDNumber,
		registration.StageKYCIDNumberComplete: registration.RouteEmailVerification,
		registration.StageEmailVerified:       registration.RouteBankConnection,
		registration.StageBankConnected:       registration.RouteRegistrationDone,
	}
	for stage, want := range cases {
		t.Run(string(stage), func(t *testing.T) {
			require.Equal(t, want, registration.ResolveNextRoute(stage))
		})
	}

	t.Run("absent resolves as none", func(t *testing.T) {
		require.Equal(t, registration.ResolveNextRoute(registration.StageNone), registration.ResolveNextRoute(""))
	})

	t.Run("unrecognised resolves as none", func(t *testing.T) {
		require.Equal(t, registration.RouteRegistrationStart, registration.ResolveNextRoute("document_verified"))
	})
}

func TestParseStage(t *testing.T) {
	for _, st := range registration.Stages() {
		got, ok := registration.ParseStage(string(st))
		require.True(t, ok)
		require.Equal(t, st, got)
	}

	_, ok := registration.ParseStage("bogus_value")
	require.False(t, ok)

	_, ok = registration.ParseStage("")
	require.False(t, ok)
}

func TestFlagsFor(t *testing.T) {
	tests := []struct {
		stage registration.Stage
		want  registration.Flags
	}{
		{"", registration.Flags{}},
		{registration.StageNone, registration.Flags{}},
		{registration.StageRegistered, registration.Flags{}},
		{registration.StageKYCDocumentComplete, registration.Flags{}},
		{registration.StageKYCIDNumberComplete, registration.Flags{KYCCompleted: true}},
		{registration.StageEmailVerified, registration.Flags{EmailVerified: true, KYCCompleted: true}},
		{registration.StageBankConnected, registration.Flags{EmailVerified: true, KYCCompleted: true}},
	}
	for _, tt := range tests {
		t.Run(string(tt.stage), func(t *testing.T) {
			require.Equal(t, tt.want, registration.FlagsFor(tt.stage))
		})
	}
}

func TestNextStage(t *testing.T) {
	next, ok := registration.NextStage("")
	require.True(t, ok)
	require.Equal(t, registration.StageRegistered, next)

	next, ok = registration.NextStage(registration.StageEmailVerified)
	require.True(t, ok)
	require.Equal(t, registration.StageBankConnected, next)

	_, ok = registration.NextStage(registration.StageBankConnected)
	require.False(t, ok)
}

func TestOnboardingRoutes(t *testing.T) {
	routes := registration.OnboardingRoutes()
	require.Len(t, routes, 6)
	require.Equal(t, registration.RouteRegistrationStart, routes[0])
	require.Equal(t, registration.RouteRegistrationDone, routes[5])

	require.True(t, registration.IsOnboardingRoute(registration.RouteBankConnection))
	require.False(t, registration.IsOnboardingRoute(registration.RouteDashboard))
}

func TestStageFromVerificationStatus(t *testing.T) {
	st, ok := registration.StageFromVerificationStatus("verified")
	require.True(t, ok)
	require.Equal(t, registration.StageKYCDocumentComplete, st)

	for _, status := range []string{"requires_input", "processing", "canceled", "document_verified", ""} {
		_, ok := registration.StageFromVerificationStatus(status)
		require.False(t, ok, status)
	}
}
