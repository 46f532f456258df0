package session_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/httpsession/pkg/cookie"
	"github.com/dmitrymomot/httpsession/pkg/session"
)

func newManager(t *testing.T, opts ...session.Option) *session.Manager {
	t.Helper()
	opts = append([]session.Option{session.WithStore(session.NewMemoryStore(0))}, opts...)
	m, err := session.New(opts...)
	require.NoError(t, err)
	return m
}

func TestSession_Accessors(t *testing.T) {
	m := newManager(t)
	sess, err := m.NewSession()
	require.NoError(t, err)

	assert.NotEmpty(t, sess.ID())
	assert.Equal(t, 0, sess.Len())

	sess.Set("user", "alice")
	sess.Set("count", 3)
	sess.Set("admin", true)

	user, ok := sess.GetString("user")
	assert.True(t, ok)
	assert.Equal(t, "alice", user)

	count, ok := sess.GetInt("count")
	assert.True(t, ok)
	assert.Equal(t, 3, count)

	admin, ok := sess.GetBool("admin")
	assert.True(t, ok)
	assert.True(t, admin)

	_, ok = sess.Get("missing")
	assert.False(t, ok)

	sess.Delete("admin")
	_, ok = sess.Get("admin")
	assert.False(t, ok)

	sess.Clear()
	assert.Equal(t, 0, sess.Len())
}

func TestSession_SaveAndLoad(t *testing.T) {
	m := newManager(t)
	ctx := context.Background()

	sess, err := m.NewSession()
	require.NoError(t, err)
	sess.Set("user", "alice")
	require.NoError(t, sess.Save(ctx))

	loaded, err := m.Load(ctx, sess.ID())
	require.NoError(t, err)
	assert.Equal(t, sess.ID(), loaded.ID())

	user, ok := loaded.GetString("user")
	assert.True(t, ok)
	assert.Equal(t, "alice", user)
}

func TestSession_Destroy(t *testing.T) {
	m := newManager(t)
	ctx := context.Background()

	sess, err := m.NewSession()
	require.NoError(t, err)
	require.NoError(t, sess.Save(ctx))
	require.NoError(t, sess.Destroy(ctx))

	_, err = m.Load(ctx, sess.ID())
	assert.ErrorIs(t, err, session.ErrSessionNotFound)

	// A destroyed session is detached from further use.
	assert.ErrorIs(t, sess.Save(ctx), session.ErrSessionDestroyed)
	assert.ErrorIs(t, sess.Reload(ctx), session.ErrSessionDestroyed)
	assert.ErrorIs(t, sess.Destroy(ctx), session.ErrSessionDestroyed)
	assert.ErrorIs(t, sess.Touch(ctx), session.ErrSessionDestroyed)
}

func TestSession_Reload(t *testing.T) {
	m := newManager(t)
	ctx := context.Background()

	sess, err := m.NewSession()
	require.NoError(t, err)
	sess.Set("user", "alice")
	require.NoError(t, sess.Save(ctx))

	// Overwrite the stored record behind the session's back.
	other, err := m.Load(ctx, sess.ID())
	require.NoError(t, err)
	other.Set("user", "bob")
	require.NoError(t, other.Save(ctx))

	sess.Set("scratch", "local-only")
	require.NoError(t, sess.Reload(ctx))

	user, _ := sess.GetString("user")
	assert.Equal(t, "bob", user)
	_, ok := sess.Get("scratch")
	assert.False(t, ok, "reload replaces local data in place")
}

func TestSession_Touch(t *testing.T) {
	m := newManager(t, session.WithCookie(cookie.WithMaxAge(time.Minute)))
	ctx := context.Background()

	sess, err := m.NewSession()
	require.NoError(t, err)
	require.NoError(t, sess.Save(ctx))

	// Rewind the expiry, then touch to slide it forward again.
	past := time.Now().Add(time.Second)
	sess.Cookie.Expires = &past
	require.NoError(t, sess.Touch(ctx))

	assert.WithinDuration(t, time.Now().Add(time.Minute), *sess.Cookie.Expires, time.Second)

	// The stored record saw the refresh too (MemoryStore supports Touch).
	loaded, err := m.Load(ctx, sess.ID())
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(time.Minute), *loaded.Cookie.Expires, time.Second)
}

func TestSession_Regenerate(t *testing.T) {
	m := newManager(t)
	ctx := context.Background()

	sess, err := m.NewSession()
	require.NoError(t, err)
	oldID := sess.ID()
	sess.Set("user", "alice")
	require.NoError(t, sess.Save(ctx))

	require.NoError(t, sess.Regenerate(ctx))

	assert.NotEqual(t, oldID, sess.ID())
	assert.Equal(t, 0, sess.Len(), "regenerated session starts blank")

	_, err = m.Load(ctx, oldID)
	assert.ErrorIs(t, err, session.ErrSessionNotFound, "old record is destroyed")
}

func TestSession_ResetMaxAge(t *testing.T) {
	m := newManager(t, session.WithCookie(cookie.WithMaxAge(time.Hour)))

	sess, err := m.NewSession()
	require.NoError(t, err)

	past := time.Now().Add(time.Minute)
	sess.Cookie.Expires = &past

	sess.ResetMaxAge()
	assert.WithinDuration(t, time.Now().Add(time.Hour), *sess.Cookie.Expires, time.Second)
}
