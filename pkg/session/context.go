package session

import "context"

type stateContextKey struct{}

type secureContextKey struct{}

// withState attaches the per-request session state. The indirection through
// requestState lets Unset detach the session in a way the finalizer
// observes.
func withState(ctx context.Context, st *requestState) context.Context {
	return context.WithValue(ctx, stateContextKey{}, st)
}

func stateFromContext(ctx context.Context) (*requestState, bool) {
	st, ok := ctx.Value(stateContextKey{}).(*requestState)
	return st, ok
}

// FromContext retrieves the request's session. The second return is false
// when no session is attached (bypass mode, out-of-scope path, or a prior
// Unset).
func FromContext(ctx context.Context) (*Session, bool) {
	st, ok := stateFromContext(ctx)
	if !ok || st.sess == nil {
		return nil, false
	}
	return st.sess, true
}

// MustFromContext retrieves the request's session or panics.
func MustFromContext(ctx context.Context) *Session {
	sess, ok := FromContext(ctx)
	if !ok {
		panic("session: not found in context")
	}
	return sess
}

// Unset detaches the session from the request. What happens to the stored
// record is decided by the configured unset policy at response
// finalization: "destroy" removes it and suppresses the cookie, "keep"
// leaves it untouched. Returns false when the request carries no session.
func Unset(ctx context.Context) bool {
	st, ok := stateFromContext(ctx)
	if !ok || st.sess == nil {
		return false
	}
	st.lastID = st.sess.id
	st.sess = nil
	return true
}

// MarkSecure records that an upstream collaborator (a TLS-terminating
// proxy handler, typically) determined the request arrived over a secure
// channel. The manager consults it when the trust-proxy policy is unset.
func MarkSecure(ctx context.Context) context.Context {
	return context.WithValue(ctx, secureContextKey{}, true)
}

func markedSecure(ctx context.Context) bool {
	v, _ := ctx.Value(secureContextKey{}).(bool)
	return v
}
