package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

type Config interface {
	EnvConfig
	CorsConfig
	SessionConfig
	SecurityConfig
	IntegrationConfig
}

type EnvConfig interface {
	GetPort() string
	GetAppName() string
	GetEnv() string
	GetLogLevel() string
	GetBaseURL() string
}

type CorsConfig interface {
	GetAllowedOrigins() AllowedOrigins
	GetAllowedMethods() string
	GetAllowedHeaders() string
}

type SessionConfig interface {
	GetSessionStorage() StorageKind
	GetRedisURL() string
	GetSessionNamespace() string
	GetSessionRetention() time.Duration
	GetContextCookieName() string
}

type IntegrationConfig interface {
	GetBackendURL() string
	GetBackendTimeout() time.Duration
	GetStripeSecretKey() string
}

type mainConfig struct {
	EnvVars
	Cors
	Security
}

// New parses the process environment into a Config.
func New() (Config, error) {
	c := mainConfig{}
	if err := env.Parse(&c.EnvVars); err != nil {
		return nil, fmt.Errorf("[config New] failed to parse environment: %w", err)
	}
	if err := env.Parse(&c.Security); err != nil {
		return nil, fmt.Errorf("[config New] failed to parse security settings: %w", err)
	}
	proxies, err := parseTrustedProxies(c.Security.TrustedProxies)
	if err != nil {
		return nil, err
	}
	c.Security.trustedProxies = proxies
	c.Cors = NewCors(c.EnvVars.AllowedOrigins)
	if err := c.validate(); err != nil {
		return nil, err
	}
	return c, nil
}

func (c mainConfig) validate() error {
	if c.GetSessionStorage() == StorageRedis && c.RedisURL == "" {
		return fmt.Errorf("[config New] REDIS_URL is required when SESSION_STORAGE=redis")
	}
	switch c.GetSessionStorage() {
	case StorageMemory, StorageRedis, StorageDisabled:
	default:
		return fmt.Errorf("[config New] unknown SESSION_STORAGE %q", c.SessionStorage)
	}
	return nil
}
