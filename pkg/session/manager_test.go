package session_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/httpsession/pkg/session"
)

// notifierStore wraps a Store with manually driven readiness signals.
type notifierStore struct {
	session.Store
	listeners []func(session.Status)
}

func (s *notifierStore) Notify(fn func(session.Status)) {
	s.listeners = append(s.listeners, fn)
}

func (s *notifierStore) signal(status session.Status) {
	for _, fn := range s.listeners {
		fn(status)
	}
}

func TestNew(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		m, err := session.New()
		require.NoError(t, err)
		assert.Equal(t, "connect.sid", m.Name())
		assert.True(t, m.Ready())
		assert.NotNil(t, m.Store())
	})

	t.Run("invalid unset mode fails at construction", func(t *testing.T) {
		_, err := session.New(session.WithUnsetMode("discard"))
		assert.ErrorIs(t, err, session.ErrInvalidUnsetMode)
	})

	t.Run("valid unset modes", func(t *testing.T) {
		for _, mode := range []session.UnsetMode{session.UnsetKeep, session.UnsetDestroy} {
			_, err := session.New(session.WithUnsetMode(mode))
			assert.NoError(t, err)
		}
	})
}

func TestNewFromConfig(t *testing.T) {
	cfg := session.Config{
		Name:              "sid",
		Resave:            true,
		Rolling:           true,
		SaveUninitialized: true,
		Unset:             session.UnsetDestroy,
	}

	m, err := session.NewFromConfig(cfg, session.WithStore(session.NewMemoryStore(0)))
	require.NoError(t, err)
	assert.Equal(t, "sid", m.Name())

	t.Run("invalid config rejected", func(t *testing.T) {
		_, err := session.NewFromConfig(session.Config{Unset: "drop"})
		assert.ErrorIs(t, err, session.ErrInvalidUnsetMode)
	})
}

func TestManager_Readiness(t *testing.T) {
	store := &notifierStore{Store: session.NewMemoryStore(0)}
	m, err := session.New(session.WithStore(store))
	require.NoError(t, err)

	assert.True(t, m.Ready())

	store.signal(session.StatusDisconnected)
	assert.False(t, m.Ready())

	store.signal(session.StatusReady)
	assert.True(t, m.Ready())
}

func TestManager_GenerateID(t *testing.T) {
	t.Run("default ids are unique and url-safe", func(t *testing.T) {
		m := newManager(t)
		seen := make(map[string]struct{})
		for i := 0; i < 100; i++ {
			sess, err := m.NewSession()
			require.NoError(t, err)
			id := sess.ID()
			assert.NotContains(t, seen, id)
			assert.NotContains(t, id, "+")
			assert.NotContains(t, id, "/")
			assert.NotContains(t, id, "=")
			seen[id] = struct{}{}
		}
	})

	t.Run("custom generator", func(t *testing.T) {
		m := newManager(t, session.WithGenerateID(func() (string, error) {
			return "fixed-id", nil
		}))
		sess, err := m.NewSession()
		require.NoError(t, err)
		assert.Equal(t, "fixed-id", sess.ID())
	})

	t.Run("uuid generator", func(t *testing.T) {
		m := newManager(t, session.WithGenerateID(session.UUIDGenerateID))
		sess, err := m.NewSession()
		require.NoError(t, err)
		_, err = uuid.Parse(sess.ID())
		assert.NoError(t, err)
	})
}

func TestManager_SessionsOwnTheirCookies(t *testing.T) {
	m := newManager(t)

	a, err := m.NewSession()
	require.NoError(t, err)
	b, err := m.NewSession()
	require.NoError(t, err)

	require.NotSame(t, a.Cookie, b.Cookie)

	a.Cookie.Path = "/only-a"
	assert.Equal(t, "/", b.Cookie.Path)
}

func TestManager_Load_Miss(t *testing.T) {
	m := newManager(t)
	_, err := m.Load(context.Background(), "unknown")
	assert.ErrorIs(t, err, session.ErrSessionNotFound)
}
