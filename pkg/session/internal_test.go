package session

import (
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFingerprint(t *testing.T) {
	t.Run("equal content hashes equal", func(t *testing.T) {
		a := map[string]any{"user": "alice", "role": "admin", "n": 42}
		b := map[string]any{"n": 42, "role": "admin", "user": "alice"}

		ha, err := fingerprint(a)
		require.NoError(t, err)
		hb, err := fingerprint(b)
		require.NoError(t, err)
		assert.Equal(t, ha, hb)
	})

	t.Run("nested maps are canonical", func(t *testing.T) {
		a := map[string]any{"prefs": map[string]any{"theme": "dark", "lang": "en"}}
		b := map[string]any{"prefs": map[string]any{"lang": "en", "theme": "dark"}}

		ha, err := fingerprint(a)
		require.NoError(t, err)
		hb, err := fingerprint(b)
		require.NoError(t, err)
		assert.Equal(t, ha, hb)
	})

	t.Run("mutation changes the hash", func(t *testing.T) {
		data := map[string]any{"user": "alice"}
		before, err := fingerprint(data)
		require.NoError(t, err)

		data["user"] = "bob"
		after, err := fingerprint(data)
		require.NoError(t, err)
		assert.NotEqual(t, before, after)
	})

	t.Run("empty and nil maps are equivalent", func(t *testing.T) {
		he, err := fingerprint(map[string]any{})
		require.NoError(t, err)
		hn, err := fingerprint(nil)
		require.NoError(t, err)
		assert.Equal(t, he, hn)
		assert.Equal(t, emptyFingerprint, he)
	})

	t.Run("non-serializable value fails", func(t *testing.T) {
		_, err := fingerprint(map[string]any{"fn": func() {}})
		assert.Error(t, err)
	})
}

func TestPathInScope(t *testing.T) {
	tests := []struct {
		cookiePath  string
		requestPath string
		want        bool
	}{
		{"/", "/", true},
		{"/", "/anything", true},
		{"", "/anything", true},
		{"/admin", "/admin", true},
		{"/admin", "/admin/users", true},
		{"/admin", "/administrator", false},
		{"/admin", "/", false},
		{"/admin/", "/admin/users", true},
		{"/admin/", "/admin", false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, pathInScope(tt.cookiePath, tt.requestPath),
			"cookiePath=%q requestPath=%q", tt.cookiePath, tt.requestPath)
	}
}

func TestFinalize_RunsAtMostOnce(t *testing.T) {
	m, err := New(WithStore(NewMemoryStore(0)))
	require.NoError(t, err)

	sess, err := m.generate()
	require.NoError(t, err)
	sess.Set("user", "alice")

	st := &requestState{}
	st.attach(sess)
	// Simulate the mutation happening after the load-time snapshot.
	st.originalHash = emptyFingerprint

	r := httptest.NewRequest("GET", "/", nil)
	w := &responseWriter{ResponseWriter: httptest.NewRecorder(), mgr: m, st: st, req: r}

	assert.True(t, m.finalize(r.Context(), st, w))
	assert.False(t, m.finalize(r.Context(), st, w), "second finalization must be a no-op")

	// Exactly one record was written despite two finalization attempts.
	store := m.store.(*MemoryStore)
	assert.Equal(t, 1, store.Len())
}

func TestIsSecureRequest(t *testing.T) {
	newManager := func(opts ...Option) *Manager {
		m, err := New(append(opts, WithStore(NewMemoryStore(0)))...)
		require.NoError(t, err)
		return m
	}

	t.Run("tls always secure", func(t *testing.T) {
		m := newManager(WithProxy(false))
		r := httptest.NewRequest("GET", "https://example.com/", nil)
		assert.True(t, m.isSecureRequest(r))
	})

	t.Run("trust false ignores forwarded header", func(t *testing.T) {
		m := newManager(WithProxy(false))
		r := httptest.NewRequest("GET", "http://example.com/", nil)
		r.Header.Set("X-Forwarded-Proto", "https")
		assert.False(t, m.isSecureRequest(r))
	})

	t.Run("trust unset consults upstream signal", func(t *testing.T) {
		m := newManager()
		r := httptest.NewRequest("GET", "http://example.com/", nil)
		assert.False(t, m.isSecureRequest(r))

		r = r.WithContext(MarkSecure(r.Context()))
		assert.True(t, m.isSecureRequest(r))
	})

	t.Run("trust true parses forwarded proto", func(t *testing.T) {
		m := newManager(WithProxy(true))
		r := httptest.NewRequest("GET", "http://example.com/", nil)
		assert.False(t, m.isSecureRequest(r))

		r.Header.Set("X-Forwarded-Proto", "https")
		assert.True(t, m.isSecureRequest(r))

		// First entry of the list wins, case-insensitive, trimmed.
		r.Header.Set("X-Forwarded-Proto", " HTTPS , http")
		assert.True(t, m.isSecureRequest(r))

		r.Header.Set("X-Forwarded-Proto", "http,https")
		assert.False(t, m.isSecureRequest(r))
	})
}
