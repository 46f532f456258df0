package session

import (
	"log/slog"
	"net/http"

	"github.com/dmitrymomot/httpsession/pkg/cookie"
)

// Option is a functional option for configuring the Manager.
type Option func(*Manager)

// WithStore sets a custom session store.
func WithStore(store Store) Option {
	return func(m *Manager) {
		m.store = store
	}
}

// WithTransport sets a custom id transport.
func WithTransport(transport Transport) Option {
	return func(m *Manager) {
		m.transport = transport
	}
}

// WithConfig sets custom configuration.
func WithConfig(config Config) Option {
	return func(m *Manager) {
		m.config = config
	}
}

// WithName sets the session cookie name.
func WithName(name string) Option {
	return func(m *Manager) {
		m.config.Name = name
	}
}

// WithCookie configures the cookie template new sessions derive their
// cookie from.
func WithCookie(opts ...cookie.Option) Option {
	return func(m *Manager) {
		m.cookieTemplate = cookie.New(opts...)
	}
}

// WithCookieTemplate sets a prebuilt cookie template.
func WithCookieTemplate(c *cookie.Cookie) Option {
	return func(m *Manager) {
		m.cookieTemplate = c
	}
}

// WithGenerateID sets a custom session id generator. A nil function keeps
// the default.
func WithGenerateID(fn GenerateIDFunc) Option {
	return func(m *Manager) {
		if fn != nil {
			m.genID = fn
		}
	}
}

// WithProxy sets the trust-proxy policy for secure-cookie determination.
// Not calling it leaves the policy unset: the upstream-computed secure
// signal is consulted instead of forwarded headers.
func WithProxy(trust bool) Option {
	return func(m *Manager) {
		m.trustProxy = &trust
	}
}

// WithResave forces store writes for unmodified sessions.
func WithResave(resave bool) Option {
	return func(m *Manager) {
		m.config.Resave = resave
	}
}

// WithRolling forces cookie re-emission on every response.
func WithRolling(rolling bool) Option {
	return func(m *Manager) {
		m.config.Rolling = rolling
	}
}

// WithSaveUninitialized persists newly generated, never-modified sessions.
func WithSaveUninitialized(save bool) Option {
	return func(m *Manager) {
		m.config.SaveUninitialized = save
	}
}

// WithUnsetMode sets the policy for sessions detached via Unset.
func WithUnsetMode(mode UnsetMode) Option {
	return func(m *Manager) {
		m.config.Unset = mode
	}
}

// WithLogger sets the logger used for diagnostics.
func WithLogger(log *slog.Logger) Option {
	return func(m *Manager) {
		if log != nil {
			m.logger = log
		}
	}
}

// WithErrorHandler sets the handler invoked when loading a session fails
// with a backend error. Without one, the failure is logged and the request
// proceeds without a session for that turn.
func WithErrorHandler(fn func(w http.ResponseWriter, r *http.Request, err error)) Option {
	return func(m *Manager) {
		m.errorHandler = fn
	}
}
