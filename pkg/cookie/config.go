package cookie

import (
	"net/http"
	"time"
)

// Config holds cookie configuration for twelve-factor setups.
type Config struct {
	Path     string        `env:"SESSION_COOKIE_PATH" envDefault:"/"`
	Domain   string        `env:"SESSION_COOKIE_DOMAIN" envDefault:""`
	MaxAge   time.Duration `env:"SESSION_COOKIE_MAX_AGE" envDefault:"0"` // 0 = session cookie
	Secure   bool          `env:"SESSION_COOKIE_SECURE" envDefault:"false"`
	HTTPOnly bool          `env:"SESSION_COOKIE_HTTP_ONLY" envDefault:"true"`
	SameSite http.SameSite `env:"SESSION_COOKIE_SAME_SITE" envDefault:"0"`
}

// DefaultConfig returns default cookie configuration.
func DefaultConfig() Config {
	return Config{
		Path:     "/",
		HTTPOnly: true,
	}
}

// NewFromConfig creates a Cookie from the provided Config. Additional
// options are applied after the config-derived ones.
func NewFromConfig(cfg Config, opts ...Option) *Cookie {
	configOpts := make([]Option, 0, 6)

	if cfg.Path != "" {
		configOpts = append(configOpts, WithPath(cfg.Path))
	}
	if cfg.Domain != "" {
		configOpts = append(configOpts, WithDomain(cfg.Domain))
	}
	if cfg.MaxAge > 0 {
		configOpts = append(configOpts, WithMaxAge(cfg.MaxAge))
	}
	if cfg.Secure {
		configOpts = append(configOpts, WithSecure(true))
	}
	configOpts = append(configOpts, WithHTTPOnly(cfg.HTTPOnly))
	if cfg.SameSite != 0 {
		configOpts = append(configOpts, WithSameSite(cfg.SameSite))
	}

	configOpts = append(configOpts, opts...)

	return New(configOpts...)
}
