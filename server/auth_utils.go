package server

import (
	"net"
	"net/http"
	"net/netip"
	"net/url"
	"strings"

	"github.com/google/uuid"
	"github.com/jrsteele09/podsave-web/session"
)

const (
	// kycSessionCookieName tracks the identity verification started from this browser
	kycSessionCookieName = "kyc_verification_id"
	// kycSessionMaxAge is long enough to finish the hosted verification flow
	kycSessionMaxAge = 60 * 60
)

// browserContext returns the id of the calling browser context, issuing a new
// context cookie when the request carries none or a malformed one.
func (s *Server) browserContext(w http.ResponseWriter, r *http.Request) string {
	if id, ok := s.existingContext(r); ok {
		return id
	}
	return s.newBrowserContext(w, r)
}

// existingContext reads the context id the request arrived with, if it is well formed.
func (s *Server) existingContext(r *http.Request) (string, bool) {
	cookie, err := r.Cookie(s.config.GetContextCookieName())
	if err != nil {
		return "", false
	}
	id, err := uuid.Parse(cookie.Value)
	if err != nil {
		return "", false
	}
	return id.String(), true
}

// newBrowserContext issues a fresh context id and its cookie.
func (s *Server) newBrowserContext(w http.ResponseWriter, r *http.Request) string {
	name := s.config.GetContextCookieName()
	id := uuid.NewString()
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    id,
		Path:     "/",
		HttpOnly: true,
		Secure:   getScheme(r) == "https",
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(s.config.GetSessionRetention().Seconds()),
	})
	// Later reads within the same request see the new context.
	setRequestCookie(r, name, id)
	return id
}

// setRequestCookie replaces name in the request's Cookie header.
func setRequestCookie(r *http.Request, name, value string) {
	cookies := r.Cookies()
	r.Header.Del("Cookie")
	for _, c := range cookies {
		if c.Name != name {
			r.AddCookie(c)
		}
	}
	r.AddCookie(&http.Cookie{Name: name, Value: value})
}

// sessionFor resolves the Session Store of the calling browser context.
func (s *Server) sessionFor(w http.ResponseWriter, r *http.Request) (*session.Store, string) {
	id := s.browserContext(w, r)
	return s.sessions.For(id), id
}

// ClearContextCookie drops the browser context so the next visit starts a fresh one.
func (s *Server) ClearContextCookie(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     s.config.GetContextCookieName(),
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		Secure:   getScheme(r) == "https",
		SameSite: http.SameSiteLaxMode,
		MaxAge:   -1,
	})
}

func (s *Server) SetKYCSessionCookie(w http.ResponseWriter, verificationID string, r *http.Request, maxAge int) {
	http.SetCookie(w, &http.Cookie{
		Name:     kycSessionCookieName,
		Value:    verificationID,
		Path:     RouteKYCDocument,
		HttpOnly: true,
		Secure:   getScheme(r) == "https",
		SameSite: http.SameSiteLaxMode,
		MaxAge:   maxAge,
	})
}

// clientIP is the address rate limits are keyed on. X-Forwarded-For is only read
// when the direct peer is a trusted proxy, walking it from the right past any
// further trusted hops.
func clientIP(r *http.Request, trusted []netip.Prefix) string {
	peer, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		peer = r.RemoteAddr
	}
	addr, err := netip.ParseAddr(peer)
	if err != nil || !isTrustedProxy(addr, trusted) {
		return peer
	}

	hops := strings.Split(strings.Join(r.Header.Values("X-Forwarded-For"), ","), ",")
	for i := len(hops) - 1; i >= 0; i-- {
		hop, err := netip.ParseAddr(strings.TrimSpace(hops[i]))
		if err != nil {
			break
		}
		hop = hop.Unmap()
		if !isTrustedProxy(hop, trusted) {
			return hop.String()
		}
		peer = hop.String()
	}
	return peer
}

func isTrustedProxy(addr netip.Addr, trusted []netip.Prefix) bool {
	addr = addr.Unmap()
	for _, prefix := range trusted {
		if prefix.Contains(addr) {
			return true
		}
	}
	return false
}

// redirectSuccess helper for htmx-aware success redirects
func redirectSuccess(w http.ResponseWriter, r *http.Request, path string) {
	if isHTMXRequest(r) {
		w.Header().Set("HX-Redirect", path)
		w.WriteHeader(http.StatusNoContent) // 204 - no content, just redirect instruction
		return
	}
	http.Redirect(w, r, path, http.StatusSeeOther)
}

// redirectWithError helper for htmx-aware error redirects
func redirectWithError(w http.ResponseWriter, r *http.Request, path, errorMsg string) {
	redirectSuccess(w, r, withQuery(path, "error", errorMsg))
}

// redirectWithNotice is redirectWithError for informational messages
func redirectWithNotice(w http.ResponseWriter, r *http.Request, path, notice string) {
	redirectSuccess(w, r, withQuery(path, "notice", notice))
}

func withQuery(path, key, value string) string {
	sep := "?"
	if strings.Contains(path, "?") {
		sep = "&"
	}
	return path + sep + key + "=" + url.QueryEscape(value)
}

// isHTMXRequest checks if the request was initiated by HTMX
func isHTMXRequest(r *http.Request) bool {
	return r.Header.Get("HX-Request") == "true"
}
