package server

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/jrsteele09/podsave-web/backend"
	"github.com/jrsteele09/podsave-web/guard"
	"github.com/jrsteele09/podsave-web/identity"
	"github.com/jrsteele09/podsave-web/internal/config"
	"github.com/jrsteele09/podsave-web/registration"
	"github.com/jrsteele09/podsave-web/session"
	"github.com/rs/zerolog/log"
)

const contentTypeHTML = "text/html; charset=utf-8"

// Backend is the remote API as the handlers use it.
type Backend interface {
	Login(ctx context.Context, creds backend.Credentials) (*backend.TokenGrant, error)
	Signup(ctx context.Context, req backend.SignupRequest) (*backend.TokenGrant, error)
	Refresh(ctx context.Context, token string) (*backend.TokenGrant, error)
	Logout(ctx context.Context, token string) error
	Me(ctx context.Context, token string) (*backend.Member, error)
	UpdateProfile(ctx context.Context, token string, p backend.Profile) error
	ConfirmIdentityVerification(ctx context.Context, token, verificationID string) (*backend.Member, error)
	SubmitIDNumber(ctx context.Context, token, idNumber string) error
	VerifyEmail(ctx context.Context, token, code string) error
	ResendEmailVerification(ctx context.Context, token string) error
	ConnectBank(ctx context.Context, token, accountToken string) error
	Pods(ctx context.Context, token string) ([]backend.Pod, error)
}

var _ Backend = (*backend.Client)(nil)

type Server struct {
	env      string // Environment (e.g., "DEV", "PROD")
	mux      *http.ServeMux
	routes   []string
	config   config.Config
	sessions *session.Provider
	backend  Backend
	verifier identity.Verifier
	guard    *guard.Guard
	limiter  *clientLimiter
}

func New(config config.Config, sessions *session.Provider, backend Backend, verifier identity.Verifier) (*Server, error) {
	if sessions == nil {
		return nil, fmt.Errorf("[Server New] a session provider is required")
	}
	if backend == nil {
		return nil, fmt.Errorf("[Server New] a backend client is required")
	}
	if verifier == nil {
		return nil, fmt.Errorf("[Server New] an identity verifier is required")
	}

	s := &Server{
		mux:      http.NewServeMux(),
		config:   config,
		sessions: sessions,
		backend:  backend,
		verifier: verifier,
		guard:    guard.New(registration.RouteLogin),
		limiter: newClientLimiter(
			config.GetLoginRateLimit(),
			config.GetLoginRateBurst(),
			config.GetLimiterIdleTimeout(),
		),
	}
	s.env = config.GetEnv()

	s.initRoutes()
	s.logRoutes()

	return s, nil
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

func (s *Server) RegisterRouteHandler(pattern string, handler http.Handler) {
	s.routes = append(s.routes, pattern)
	s.mux.Handle(pattern, handler)
}

func (s *Server) RegisterRouteFunc(pattern string, handler func(http.ResponseWriter, *http.Request)) {
	s.routes = append(s.routes, pattern)
	s.mux.HandleFunc(pattern, handler)
}

func (s *Server) logRoutes() {
	if s.env != "DEV" {
		return // Skip logging in non-development environments
	}
	for _, route := range s.routes {
		parts := strings.SplitN(route, " ", 2)

		if len(parts) > 1 {
			logRoute(parts[0], parts[1])
		} else {
			logRoute("", parts[0])
		}
	}
}

func logRoute(method, path string) {
	log.Info().Msgf("[%-19s] %s", colouredMethod(method), path)
}

func logError(method, path, error string) {
	log.Error().Msgf("[%-19s] %s %s", colouredMethod(method), path, Red+error+ResetColor)
}

// Helper function to determine the scheme (http/https)
func getScheme(r *http.Request) string {
	if r.TLS != nil {
		return "https"
	}
	if scheme := r.Header.Get("X-Forwarded-Proto"); scheme != "" {
		return scheme
	}
	return "http"
}

// baseURL is the configured public URL, or the one the request arrived on.
func (s *Server) baseURL(r *http.Request) string {
	if u := s.config.GetBaseURL(); u != "" {
		return strings.TrimRight(u, "/")
	}
	return getScheme(r) + "://" + r.Host
}
