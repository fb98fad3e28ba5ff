package config

import (
	"fmt"
	"strings"
	"time"
)

// StorageKind selects the medium the session records are kept in.
type StorageKind string

const (
	StorageMemory   StorageKind = "memory"
	StorageRedis    StorageKind = "redis"
	StorageDisabled StorageKind = "disabled"
)

type EnvVars struct {
	Port     string `env:"PORT" envDefault:"8080"`
	AppName  string `env:"APP_NAME" envDefault:"Savings Pod"`
	Env      string `env:"ENV" envDefault:"DEV"`
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`
	BaseURL  string `env:"BASE_URL" envDefault:"http://localhost:8080"`

	BackendURL     string        `env:"BACKEND_URL" envDefault:"http://localhost:9000/v1"`
	BackendTimeout time.Duration `env:"BACKEND_TIMEOUT" envDefault:"10s"`

	SessionStorage    string        `env:"SESSION_STORAGE" envDefault:"memory"`
	RedisURL          string        `env:"REDIS_URL"`
	SessionNamespace  string        `env:"SESSION_NAMESPACE" envDefault:"podsave:session"`
	SessionRetention  time.Duration `env:"SESSION_RETENTION" envDefault:"720h"`
	ContextCookieName string        `env:"CONTEXT_COOKIE_NAME" envDefault:"podsave_ctx"`

	StripeSecretKey string `env:"STRIPE_SECRET_KEY"`

	AllowedOrigins []string `env:"ALLOWED_ORIGINS" envSeparator:","`
}

var _ EnvConfig = EnvVars{}
var _ SessionConfig = EnvVars{}
var _ IntegrationConfig = EnvVars{}

func (e EnvVars) GetPort() string {
	port := e.Port
	if port == "" {
		port = "8080"
	}
	if port[0] != ':' {
		port = fmt.Sprintf(":%s", port)
	}
	return port
}

func (e EnvVars) GetAppName() string {
	return e.AppName
}

func (e EnvVars) GetEnv() string {
	if e.Env == "" {
		return "DEV"
	}
	return strings.ToUpper(e.Env)
}

func (e EnvVars) GetLogLevel() string {
	return e.LogLevel
}

// GetBaseURL returns the public URL of this site (e.g., "https://app.example.com").
// Used to build return URLs handed to the identity provider.
func (e EnvVars) GetBaseURL() string {
	return strings.TrimSuffix(e.BaseURL, "/")
}

func (e EnvVars) GetBackendURL() string {
	return strings.TrimSuffix(e.BackendURL, "/")
}

func (e EnvVars) GetBackendTimeout() time.Duration {
	return e.BackendTimeout
}

func (e EnvVars) GetStripeSecretKey() string {
	return e.StripeSecretKey
}

func (e EnvVars) GetSessionStorage() StorageKind {
	return StorageKind(strings.ToLower(e.SessionStorage))
}

func (e EnvVars) GetRedisURL() string {
	return e.RedisURL
}

func (e EnvVars) GetSessionNamespace() string {
	return e.SessionNamespace
}

func (e EnvVars) GetSessionRetention() time.Duration {
	return e.SessionRetention
}

func (e EnvVars) GetContextCookieName() string {
	return e.ContextCookieName
}
