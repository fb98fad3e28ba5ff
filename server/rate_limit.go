package server

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"
)

type limiterEntry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// clientLimiter keeps one token bucket per client key.
type clientLimiter struct {
	mu        sync.Mutex
	clients   map[string]*limiterEntry
	limit     rate.Limit
	burst     int
	idle      time.Duration
	lastPrune time.Time
	now       func() time.Time
}

func newClientLimiter(perSecond float64, burst int, idle time.Duration) *clientLimiter {
	if burst < 1 {
		burst = 1
	}
	return &clientLimiter{
		clients: make(map[string]*limiterEntry),
		limit:   rate.Limit(perSecond),
		burst:   burst,
		idle:    idle,
		now:     time.Now,
	}
}

// Allow spends one token from key's bucket.
func (l *clientLimiter) Allow(key string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	if l.idle > 0 && now.Sub(l.lastPrune) > l.idle {
		for k, e := range l.clients {
			if now.Sub(e.lastSeen) > l.idle {
				delete(l.clients, k)
			}
		}
		l.lastPrune = now
	}

	e, ok := l.clients[key]
	if !ok {
		e = &limiterEntry{limiter: rate.NewLimiter(l.limit, l.burst)}
		l.clients[key] = e
	}
	e.lastSeen = now
	return e.limiter.AllowN(now, 1)
}

// Len reports how many clients are tracked.
func (l *clientLimiter) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.clients)
}

// RateLimitMiddleware throttles credential submissions per client IP and sends
// throttled callers back to page with an error.
func (s *Server) RateLimitMiddleware(page string) func(http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			if !s.config.GetEnableRateLimiting() {
				next(w, r)
				return
			}
			ip := clientIP(r, s.config.GetTrustedProxies())
			if !s.limiter.Allow(ip) {
				log.Warn().Str("ip", ip).Str("path", r.URL.Path).Msg("rate limit exceeded")
				w.Header().Set("Retry-After", strconv.Itoa(s.retryAfterSeconds()))
				redirectWithError(w, r, page, "Too many attempts. Please wait a moment and try again.")
				return
			}
			next(w, r)
		}
	}
}

func (s *Server) retryAfterSeconds() int {
	perSecond := s.config.GetLoginRateLimit()
	if perSecond <= 0 {
		return 60
	}
	secs := int(1 / perSecond)
	if secs < 1 {
		secs = 1
	}
	return secs
}
