package session

import (
	"net/http"

	"github.com/dmitrymomot/httpsession/pkg/cookie"
)

// Transport is the cookie collaborator: it reads the incoming session id
// from a request and writes the Set-Cookie equivalent on the response.
// Parsing and signing of cookie values are outside this package; the
// default transport moves the raw id.
type Transport interface {
	// ReadID extracts the session id from the request, or "" when absent.
	ReadID(r *http.Request, name string) string

	// WriteCookie emits the session cookie with the given attributes.
	WriteCookie(w http.ResponseWriter, name, value string, c *cookie.Cookie)
}

// CookieTransport is the default Transport, backed by the standard
// library's cookie handling.
type CookieTransport struct{}

func (CookieTransport) ReadID(r *http.Request, name string) string {
	c, err := r.Cookie(name)
	if err != nil {
		return ""
	}
	return c.Value
}

func (CookieTransport) WriteCookie(w http.ResponseWriter, name, value string, c *cookie.Cookie) {
	http.SetCookie(w, c.Attributes(name, value))
}
