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

func TestMemoryStore_SetGet(t *testing.T) {
	store := session.NewMemoryStore(0)
	defer store.Close()
	ctx := context.Background()

	t.Run("round trip", func(t *testing.T) {
		rec := &session.Record{
			Data:   map[string]any{"user": "alice"},
			Cookie: cookie.New(cookie.WithMaxAge(time.Hour)),
		}
		require.NoError(t, store.Set(ctx, "sid1", rec))

		got, err := store.Get(ctx, "sid1")
		require.NoError(t, err)
		assert.Equal(t, "alice", got.Data["user"])
		require.NotNil(t, got.Cookie)
		assert.Equal(t, time.Hour, *got.Cookie.OriginalMaxAge)
	})

	t.Run("miss", func(t *testing.T) {
		_, err := store.Get(ctx, "nope")
		assert.ErrorIs(t, err, session.ErrSessionNotFound)
	})

	t.Run("deep copy isolation", func(t *testing.T) {
		rec := &session.Record{
			Data:   map[string]any{"key": "value"},
			Cookie: cookie.New(),
		}
		require.NoError(t, store.Set(ctx, "sid2", rec))

		// Mutating the original after Set must not affect the store.
		rec.Data["key"] = "mutated"

		first, err := store.Get(ctx, "sid2")
		require.NoError(t, err)
		assert.Equal(t, "value", first.Data["key"])

		// Mutating one Get result must not leak into the next.
		first.Data["key"] = "mutated again"
		second, err := store.Get(ctx, "sid2")
		require.NoError(t, err)
		assert.Equal(t, "value", second.Data["key"])
	})

	t.Run("expired record treated as absent", func(t *testing.T) {
		c := cookie.New()
		past := time.Now().Add(-time.Minute)
		c.Expires = &past

		require.NoError(t, store.Set(ctx, "sid3", &session.Record{
			Data:   map[string]any{},
			Cookie: c,
		}))

		_, err := store.Get(ctx, "sid3")
		assert.ErrorIs(t, err, session.ErrSessionNotFound)
	})
}

func TestMemoryStore_Destroy(t *testing.T) {
	store := session.NewMemoryStore(0)
	defer store.Close()
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "sid", &session.Record{Data: map[string]any{}, Cookie: cookie.New()}))
	require.NoError(t, store.Destroy(ctx, "sid"))

	_, err := store.Get(ctx, "sid")
	assert.ErrorIs(t, err, session.ErrSessionNotFound)

	// Destroying a non-existent id succeeds silently.
	assert.NoError(t, store.Destroy(ctx, "sid"))
}

func TestMemoryStore_Touch(t *testing.T) {
	store := session.NewMemoryStore(0)
	defer store.Close()
	ctx := context.Background()

	c := cookie.New(cookie.WithMaxAge(time.Minute))
	require.NoError(t, store.Set(ctx, "sid", &session.Record{
		Data:   map[string]any{"user": "alice"},
		Cookie: c,
	}))

	refreshed := c.Clone()
	refreshed.SetMaxAge(time.Hour)
	require.NoError(t, store.Touch(ctx, "sid", &session.Record{
		Data:   map[string]any{"ignored": true},
		Cookie: refreshed,
	}))

	got, err := store.Get(ctx, "sid")
	require.NoError(t, err)
	// Touch refreshes cookie metadata without rewriting the data.
	assert.Equal(t, "alice", got.Data["user"])
	assert.NotContains(t, got.Data, "ignored")
	assert.Equal(t, time.Hour, *got.Cookie.OriginalMaxAge)

	// Touching an unknown id is a no-op.
	assert.NoError(t, store.Touch(ctx, "ghost", &session.Record{Cookie: refreshed}))
}

func TestMemoryStore_AllLenClear(t *testing.T) {
	store := session.NewMemoryStore(0)
	defer store.Close()
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "a", &session.Record{Data: map[string]any{"n": 1}, Cookie: cookie.New()}))
	require.NoError(t, store.Set(ctx, "b", &session.Record{Data: map[string]any{"n": 2}, Cookie: cookie.New()}))

	expired := cookie.New()
	past := time.Now().Add(-time.Minute)
	expired.Expires = &past
	require.NoError(t, store.Set(ctx, "c", &session.Record{Data: map[string]any{}, Cookie: expired}))

	all, err := store.All(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)
	assert.Contains(t, all, "a")
	assert.Contains(t, all, "b")

	assert.Equal(t, 3, store.Len())

	store.Clear()
	assert.Equal(t, 0, store.Len())
}

func TestMemoryStore_Sweep(t *testing.T) {
	store := session.NewMemoryStore(10 * time.Millisecond)
	defer store.Close()
	ctx := context.Background()

	expired := cookie.New()
	past := time.Now().Add(-time.Minute)
	expired.Expires = &past

	require.NoError(t, store.Set(ctx, "dead", &session.Record{Data: map[string]any{}, Cookie: expired}))
	require.NoError(t, store.Set(ctx, "live", &session.Record{Data: map[string]any{}, Cookie: cookie.New()}))

	assert.Eventually(t, func() bool {
		return store.Len() == 1
	}, time.Second, 10*time.Millisecond)
}
