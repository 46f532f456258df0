package cookie

import (
	"net/http"
	"time"
)

// Cookie describes the attributes and expiration policy of one session
// cookie. Every session owns its Cookie exclusively; instances are never
// shared between sessions.
//
// Exactly one of MaxAge/Expires is the source of truth: SetMaxAge derives
// Expires from the duration and snapshots it in OriginalMaxAge so that
// sliding expiration can recompute Expires later. A nil Expires means a
// session-only (non-persistent) cookie.
type Cookie struct {
	Path     string        `json:"path"`
	Domain   string        `json:"domain,omitempty"`
	HTTPOnly bool          `json:"httpOnly"`
	Secure   bool          `json:"secure"`
	SameSite http.SameSite `json:"sameSite,omitempty"`

	// Expires is the absolute expiry; nil for session cookies.
	Expires *time.Time `json:"expires,omitempty"`

	// OriginalMaxAge is the configured duration SetMaxAge was last called
	// with. ResetMaxAge slides Expires forward from it.
	OriginalMaxAge *time.Duration `json:"originalMaxAge,omitempty"`
}

// New creates a Cookie with the package defaults (path "/", HttpOnly)
// adjusted by the given options.
func New(opts ...Option) *Cookie {
	options := applyOptions(defaultOptions(), opts)

	c := &Cookie{
		Path:     options.Path,
		Domain:   options.Domain,
		HTTPOnly: options.HTTPOnly,
		Secure:   options.Secure,
		SameSite: options.SameSite,
	}

	if options.MaxAge > 0 {
		c.SetMaxAge(options.MaxAge)
	} else if options.Expires != nil {
		t := *options.Expires
		c.Expires = &t
	}

	return c
}

// SetMaxAge makes the cookie persistent: it atomically updates Expires to
// now+d and records d as OriginalMaxAge for later recomputation.
func (c *Cookie) SetMaxAge(d time.Duration) {
	dd := d
	t := time.Now().Add(d)
	c.OriginalMaxAge = &dd
	c.Expires = &t
}

// ResetMaxAge recomputes Expires from OriginalMaxAge relative to now
// (sliding expiration). Session cookies are left untouched.
func (c *Cookie) ResetMaxAge() {
	if c.OriginalMaxAge != nil {
		c.SetMaxAge(*c.OriginalMaxAge)
	}
}

// MaxAge returns the remaining lifetime, or zero for session cookies.
func (c *Cookie) MaxAge() time.Duration {
	if c.Expires == nil {
		return 0
	}
	return time.Until(*c.Expires)
}

// Expired reports whether the cookie's absolute expiry has passed.
// Session cookies never expire server-side.
func (c *Cookie) Expired(now time.Time) bool {
	return c.Expires != nil && now.After(*c.Expires)
}

// Clone returns an independent copy so that two sessions never alias one
// Cookie.
func (c *Cookie) Clone() *Cookie {
	clone := *c
	if c.Expires != nil {
		t := *c.Expires
		clone.Expires = &t
	}
	if c.OriginalMaxAge != nil {
		d := *c.OriginalMaxAge
		clone.OriginalMaxAge = &d
	}
	return &clone
}

// Attributes produces the http.Cookie a cookie-writing collaborator needs.
// Name and value are supplied by the caller; everything else comes from the
// receiver.
func (c *Cookie) Attributes(name, value string) *http.Cookie {
	hc := &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     c.Path,
		Domain:   c.Domain,
		HttpOnly: c.HTTPOnly,
		Secure:   c.Secure,
		SameSite: c.SameSite,
	}
	if c.Expires != nil {
		hc.Expires = *c.Expires
		if maxAge := int(time.Until(*c.Expires).Seconds()); maxAge > 0 {
			hc.MaxAge = maxAge
		} else {
			hc.MaxAge = -1
		}
	}
	return hc
}
