package session

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"sync/atomic"

	"github.com/dmitrymomot/httpsession/pkg/logger"
)

// requestState carries the per-request snapshots the finalization policies
// compare against: the id that arrived in the cookie, and the id and data
// fingerprint observed at load/generation time.
type requestState struct {
	sess *Session

	// cookieID is the raw id from the request cookie, "" when absent.
	cookieID string
	// lastID remembers the session id across Unset so the destroy policy
	// still knows which record to remove.
	lastID string

	originalID   string
	originalHash uint64
	hashErr      bool

	cookieEmitted bool
	finalized     atomic.Bool
}

// attach binds a loaded or generated session and snapshots its identity
// and fingerprint.
func (st *requestState) attach(sess *Session) {
	st.sess = sess
	st.lastID = sess.id
	st.originalID = sess.id

	h, err := fingerprint(sess.data)
	if err != nil {
		// Non-canonical data is treated as modified from the start.
		st.hashErr = true
		return
	}
	st.originalHash = h
}

// isModified reports whether the session data or id diverged from the
// snapshots taken at load time.
func (st *requestState) isModified() bool {
	if st.hashErr {
		return true
	}
	h, err := fingerprint(st.sess.data)
	if err != nil {
		return true
	}
	return st.originalID != st.sess.id || st.originalHash != h
}

// Middleware attaches session handling to an HTTP handler chain. On entry
// it loads or generates the request's session; on response finalization it
// applies the save/destroy/cookie policies and commits to the store before
// the response completes.
func (m *Manager) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Re-entrant invocation: a session is already attached upstream.
		if _, ok := stateFromContext(r.Context()); ok {
			next.ServeHTTP(w, r)
			return
		}

		// Store outage: serve the request sessionless instead of hanging
		// every request on backend I/O.
		if !m.Ready() {
			m.logger.DebugContext(r.Context(), "session: store disconnected, bypassing")
			next.ServeHTTP(w, r)
			return
		}

		// Requests outside the cookie's path scope carry no session.
		if !pathInScope(m.cookieTemplate.Path, r.URL.Path) {
			next.ServeHTTP(w, r)
			return
		}

		st := &requestState{
			cookieID: m.transport.ReadID(r, m.config.Name),
		}

		if ok := m.load(w, r, st); !ok {
			return
		}
		if st.sess == nil {
			// Backend failure without an error handler: degrade to "no
			// session this turn".
			next.ServeHTTP(w, r)
			return
		}

		ww := &responseWriter{ResponseWriter: w, mgr: m, st: st, req: r}
		next.ServeHTTP(ww, r.WithContext(withState(r.Context(), st)))

		// The commit must survive a client abort: keep the request's values
		// but drop its cancellation, so a disconnect mid-response cannot
		// cancel the store write.
		m.finalize(context.WithoutCancel(r.Context()), st, ww)
	})
}

// load hydrates the session addressed by the incoming id, or generates a
// fresh one when the id is absent or unknown. It returns false when an
// error handler took over the response.
func (m *Manager) load(w http.ResponseWriter, r *http.Request, st *requestState) bool {
	if st.cookieID == "" {
		return m.generateInto(w, r, st)
	}

	rec, err := m.store.Get(r.Context(), st.cookieID)
	switch {
	case err == nil:
		st.attach(m.hydrate(st.cookieID, rec))
		return true
	case errors.Is(err, ErrSessionNotFound):
		return m.generateInto(w, r, st)
	default:
		// Backend failure: surfaced, never swallowed, but the request is
		// still handled.
		return !m.fail(w, r, errors.Join(ErrStoreUnavailable, err))
	}
}

func (m *Manager) generateInto(w http.ResponseWriter, r *http.Request, st *requestState) bool {
	sess, err := m.generate()
	if err != nil {
		return !m.fail(w, r, err)
	}
	st.attach(sess)
	return true
}

// finalize runs the decision policies and commits to the store. It executes
// at most once per response; repeated calls are no-ops returning false.
// The middleware returns (and the response completes) only after the store
// call has finished.
func (m *Manager) finalize(ctx context.Context, st *requestState, w *responseWriter) bool {
	if !st.finalized.CompareAndSwap(false, true) {
		return false
	}

	// The handler never wrote: headers are still open, so the cookie
	// decision runs now.
	if !w.wroteHeader {
		m.emitCookie(st, w.ResponseWriter, w.req)
	}

	switch {
	case m.shouldDestroy(st):
		if err := m.store.Destroy(ctx, st.lastID); err != nil {
			m.logger.ErrorContext(ctx, "session: destroy failed",
				logger.SessionID(st.lastID), logger.Error(err))
		}

	case st.sess == nil || st.sess.destroyed:
		// Unset with "keep" policy, or the handler destroyed the session
		// itself; either way the record needs no commit.

	default:
		st.sess.ResetMaxAge()
		if m.shouldSave(st) {
			if err := st.sess.Save(ctx); err != nil {
				m.logger.ErrorContext(ctx, "session: save failed",
					logger.SessionID(st.sess.id), logger.Error(err))
			}
		} else if ts, ok := m.store.(TouchStore); ok && m.shouldTouch(st) {
			if err := ts.Touch(ctx, st.sess.id, st.sess.record()); err != nil {
				m.logger.ErrorContext(ctx, "session: touch failed",
					logger.SessionID(st.sess.id), logger.Error(err))
			}
		}
	}

	return true
}

// emitCookie decides, once per response and before headers are sent,
// whether the session cookie goes out.
func (m *Manager) emitCookie(st *requestState, w http.ResponseWriter, r *http.Request) {
	if st.cookieEmitted {
		return
	}
	st.cookieEmitted = true

	if st.sess == nil || st.sess.destroyed {
		return
	}
	if !m.shouldSetCookie(st) {
		return
	}
	if st.sess.Cookie.Secure && !m.isSecureRequest(r) {
		// Diagnostic condition, not an error: the response simply goes out
		// without a Set-Cookie.
		m.logger.DebugContext(r.Context(), "session: cookie is secure but request is not, skipping",
			logger.SessionID(st.sess.id))
		return
	}

	st.sess.ResetMaxAge()
	m.transport.WriteCookie(w, m.config.Name, st.sess.id, st.sess.Cookie)
}

// shouldDestroy: an id exists, the unset policy is "destroy", and the
// session was detached from the request.
func (m *Manager) shouldDestroy(st *requestState) bool {
	return st.sess == nil && st.lastID != "" && m.config.Unset == UnsetDestroy
}

// shouldSave: a generated (or regenerated) session is written when
// SaveUninitialized is on or it was modified; a session whose id matches
// the incoming cookie is written when Resave is on or it was modified.
func (m *Manager) shouldSave(st *requestState) bool {
	if st.sess == nil {
		return false
	}
	if st.cookieID != st.sess.id {
		return m.config.SaveUninitialized || st.isModified()
	}
	return m.config.Resave || st.isModified()
}

// shouldTouch: an unmodified session addressed by the incoming cookie gets
// a cheap expiration refresh instead of a full rewrite.
func (m *Manager) shouldTouch(st *requestState) bool {
	return st.sess != nil && st.cookieID == st.sess.id && !m.shouldSave(st)
}

// shouldSetCookie: rolling always re-emits; a new id is emitted under the
// same conditions it is saved; an unchanged id is re-emitted only when the
// cookie is persistent and the session was modified.
func (m *Manager) shouldSetCookie(st *requestState) bool {
	if st.sess == nil {
		return false
	}
	if m.config.Rolling {
		return true
	}
	if st.cookieID != st.sess.id {
		return m.config.SaveUninitialized || st.isModified()
	}
	return st.sess.Cookie.Expires != nil && st.isModified()
}

// pathInScope reports whether the request path falls under the cookie's
// configured path.
func pathInScope(cookiePath, requestPath string) bool {
	if cookiePath == "" || cookiePath == "/" {
		return true
	}
	if !strings.HasPrefix(requestPath, cookiePath) {
		return false
	}
	// "/admin" scopes "/admin" and "/admin/...", not "/administrator".
	return len(requestPath) == len(cookiePath) ||
		requestPath[len(cookiePath)] == '/' ||
		strings.HasSuffix(cookiePath, "/")
}
