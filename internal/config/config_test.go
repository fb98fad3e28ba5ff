package config_test

import (
	"net/netip"
	"testing"
	"time"

	"github.com/jrsteele09/podsave-web/internal/config"
	"github.com/stretchr/testify/require"
)

func TestNew_Defaults(t *testing.T) {
	c, err := config.New()
	require.NoError(t, err)

	require.Equal(t, ":8080", c.GetPort())
	require.Equal(t, "DEV", c.GetEnv())
	require.Equal(t, config.StorageMemory, c.GetSessionStorage())
	require.Equal(t, "podsave:session", c.GetSessionNamespace())
	require.Equal(t, 720*time.Hour, c.GetSessionRetention())
	require.Equal(t, 10*time.Second, c.GetBackendTimeout())
	require.True(t, c.GetEnableRateLimiting())
	require.Empty(t, c.GetAllowedOrigins())
	require.Empty(t, c.GetTrustedProxies())
}

func TestNew_FromEnvironment(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("ENV", "prod")
	t.Setenv("BACKEND_URL", "https://api.example.com/v1/")
	t.Setenv("SESSION_STORAGE", "redis")
	t.Setenv("REDIS_URL", "redis://localhost:6379/0")
	t.Setenv("ALLOWED_ORIGINS", "https://a.example.com, https://b.example.com")
	t.Setenv("LOGIN_RATE_BURST", "2")

	c, err := config.New()
	require.NoError(t, err)

	require.Equal(t, ":9090", c.GetPort())
	require.Equal(t, "PROD", c.GetEnv())
	require.Equal(t, "https://api.example.com/v1", c.GetBackendURL())
	require.Equal(t, config.StorageRedis, c.GetSessionStorage())
	require.Equal(t, 2, c.GetLoginRateBurst())
	require.True(t, c.GetAllowedOrigins().IsAllowedOrigin("https://b.example.com"))
	require.Equal(t, "https://a.example.com, https://b.example.com", c.GetAllowedOrigins().String())
}

func TestNew_RedisRequiresURL(t *testing.T) {
	t.Setenv("SESSION_STORAGE", "redis")

	_, err := config.New()
	require.Error(t, err)
	require.Contains(t, err.Error(), "REDIS_URL")
}

func TestNew_UnknownStorage(t *testing.T) {
	t.Setenv("SESSION_STORAGE", "localstorage")

	_, err := config.New()
	require.Error(t, err)
	require.Contains(t, err.Error(), "unknown SESSION_STORAGE")
}

func TestNew_TrustedProxies(t *testing.T) {
	t.Setenv("TRUSTED_PROXIES", "10.0.0.0/8, 192.0.2.10,2001:db8::/32")

	c, err := config.New()
	require.NoError(t, err)
	require.Equal(t, []netip.Prefix{
		netip.MustParsePrefix("10.0.0.0/8"),
		netip.MustParsePrefix("192.0.2.10/32"),
		netip.MustParsePrefix("2001:db8::/32"),
	}, c.GetTrustedProxies())
}

func TestNew_InvalidTrustedProxy(t *testing.T) {
	t.Setenv("TRUSTED_PROXIES", "10.0.0.0/8,proxy.internal")

	_, err := config.New()
	require.Error(t, err)
	require.Contains(t, err.Error(), "TRUSTED_PROXIES")
}
