package session

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/dmitrymomot/httpsession/pkg/cookie"
	"github.com/dmitrymomot/httpsession/pkg/logger"
)

// defaultSweepInterval is used when the manager falls back to the built-in
// memory store.
const defaultSweepInterval = 5 * time.Minute

// Manager is the session lifecycle orchestrator. It decides, per request,
// whether to generate a new session, whether the session was modified,
// whether to persist or destroy it, and whether to (re)issue the cookie.
// One Manager serves many concurrent requests; the store is the only
// resource shared between them.
type Manager struct {
	config         Config
	store          Store
	transport      Transport
	cookieTemplate *cookie.Cookie
	genID          GenerateIDFunc
	trustProxy     *bool
	logger         *slog.Logger
	errorHandler   func(w http.ResponseWriter, r *http.Request, err error)
	status         atomic.Int32
}

// New creates a session manager. Configuration is validated up front:
// an invalid unset policy fails here, before any request is served.
func New(opts ...Option) (*Manager, error) {
	m := &Manager{
		config: DefaultConfig(),
	}

	for _, opt := range opts {
		opt(m)
	}

	switch m.config.Unset {
	case UnsetKeep, UnsetDestroy:
	case "":
		m.config.Unset = UnsetKeep
	default:
		return nil, fmt.Errorf("%w: %q", ErrInvalidUnsetMode, m.config.Unset)
	}

	if m.config.Name == "" {
		m.config.Name = "connect.sid"
	}
	if m.store == nil {
		m.store = NewMemoryStore(defaultSweepInterval)
	}
	if m.transport == nil {
		m.transport = CookieTransport{}
	}
	if m.cookieTemplate == nil {
		m.cookieTemplate = cookie.New()
	}
	if m.genID == nil {
		m.genID = GenerateID
	}
	if m.logger == nil {
		m.logger = slog.Default()
	}
	m.logger = m.logger.With(logger.Component("session"))

	m.status.Store(int32(StatusReady))
	if notifier, ok := m.store.(StatusNotifier); ok {
		notifier.Notify(m.onStatusChange)
	}

	return m, nil
}

// Ready reports whether the store is connected. While it is not, every
// request runs in bypass mode: no session is attached and no store I/O is
// attempted.
func (m *Manager) Ready() bool {
	return Status(m.status.Load()) == StatusReady
}

// Store returns the configured store.
func (m *Manager) Store() Store {
	return m.store
}

// Name returns the session cookie name.
func (m *Manager) Name() string {
	return m.config.Name
}

// NewSession creates a detached session with a freshly generated id, blank
// data and a cookie derived from the configured template. Nothing is
// persisted until Save. Inside a request, prefer the session the
// middleware attaches to the context.
func (m *Manager) NewSession() (*Session, error) {
	return m.generate()
}

// Load hydrates the session stored under id, for programmatic access
// outside a request cycle. Returns ErrSessionNotFound on a miss.
func (m *Manager) Load(ctx context.Context, id string) (*Session, error) {
	rec, err := m.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return m.hydrate(id, rec), nil
}

// onStatusChange is the subscription callback readiness-aware stores invoke
// on connect/disconnect transitions.
func (m *Manager) onStatusChange(s Status) {
	prev := Status(m.status.Swap(int32(s)))
	if prev != s {
		m.logger.Info("session: store status changed",
			slog.String("from", prev.String()),
			slog.String("to", s.String()),
		)
	}
}

// generate constructs a fresh session with a newly assigned id, blank data
// and a cookie derived from the configured template.
func (m *Manager) generate() (*Session, error) {
	id, err := m.genID()
	if err != nil {
		return nil, err
	}
	return &Session{
		id:     id,
		data:   make(map[string]any),
		Cookie: m.cookieTemplate.Clone(),
		mgr:    m,
	}, nil
}

// hydrate rebuilds a session from a stored record. Records persisted
// before a cookie was ever saved fall back to the configured template.
func (m *Manager) hydrate(id string, rec *Record) *Session {
	c := rec.Cookie
	if c == nil {
		c = m.cookieTemplate.Clone()
	}
	data := rec.Data
	if data == nil {
		data = make(map[string]any)
	}
	return &Session{
		id:     id,
		data:   data,
		Cookie: c,
		mgr:    m,
	}
}

// fail reports a session loading failure. With an error handler configured
// the handler owns the response; otherwise the error is logged and the
// caller continues without a session.
func (m *Manager) fail(w http.ResponseWriter, r *http.Request, err error) bool {
	m.logger.ErrorContext(r.Context(), "session: load failed", logger.Error(err))
	if m.errorHandler != nil {
		m.errorHandler(w, r, err)
		return true
	}
	return false
}
