package cookie

import (
	"net/http"
	"time"
)

// Options holds the attribute set a Cookie is constructed from.
type Options struct {
	Path     string
	Domain   string
	MaxAge   time.Duration
	Expires  *time.Time
	Secure   bool
	HTTPOnly bool
	SameSite http.SameSite
}

type Option func(*Options)

func WithPath(path string) Option {
	return func(o *Options) {
		o.Path = path
	}
}

func WithDomain(domain string) Option {
	return func(o *Options) {
		o.Domain = domain
	}
}

// WithMaxAge makes the cookie persistent with the given lifetime.
func WithMaxAge(d time.Duration) Option {
	return func(o *Options) {
		o.MaxAge = d
	}
}

// WithExpires sets an absolute expiry. Ignored when a max age is set, since
// the max age is the source of truth for sliding expiration.
func WithExpires(t time.Time) Option {
	return func(o *Options) {
		o.Expires = &t
	}
}

func WithSecure(secure bool) Option {
	return func(o *Options) {
		o.Secure = secure
	}
}

func WithHTTPOnly(httpOnly bool) Option {
	return func(o *Options) {
		o.HTTPOnly = httpOnly
	}
}

func WithSameSite(sameSite http.SameSite) Option {
	return func(o *Options) {
		o.SameSite = sameSite
	}
}

func defaultOptions() Options {
	return Options{
		Path:     "/",
		HTTPOnly: true,
	}
}

// applyOptions copies the base options and applies the option functions on
// the copy, leaving the base untouched.
func applyOptions(base Options, opts []Option) Options {
	result := base
	for _, opt := range opts {
		opt(&result)
	}
	return result
}
