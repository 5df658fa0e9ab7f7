package session

import (
	"net"
	"net/http"
)

const (
	CookieName = "session_id"
)

// CookieOptions defines how session cookies are issued.
type CookieOptions struct {
	Secure bool
	Domain string // requesting host; port is stripped before use
	MaxAge int    // seconds, matches the server-side session TTL
}

// SetCookie issues the session cookie to the client. The cookie is a
// lookup key only; the server-side record stays authoritative.
func SetCookie(w http.ResponseWriter, sessionID string, opts CookieOptions) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    sessionID,
		Path:     "/",
		Domain:   stripPort(opts.Domain),
		MaxAge:   opts.MaxAge,
		HttpOnly: true,
		Secure:   opts.Secure,
	})
}

// ClearCookie removes the session cookie from the client.
func ClearCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
	})
}

func stripPort(host string) string {
	if h, _, err := net.SplitHostPort(host); err == nil {
		return h
	}
	return host
}
