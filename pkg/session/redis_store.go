package session

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	redisconn "github.com/dmitrymomot/httpsession/pkg/redis"
)

// RedisStore persists session records in Redis with key-level TTLs derived
// from the cookie expiry. It implements StatusNotifier: a background watcher
// pings the server and flips the store between ready and disconnected so
// the manager can bypass sessions during an outage instead of erroring
// every request.
type RedisStore struct {
	client       redis.UniversalClient
	prefix       string
	defaultTTL   time.Duration
	pingInterval time.Duration

	mu        sync.Mutex
	listeners []func(Status)
	status    Status

	done chan struct{}
	once sync.Once
}

// RedisStoreOption configures a RedisStore.
type RedisStoreOption func(*RedisStore)

// WithRedisKeyPrefix sets the key namespace (default "sess:").
func WithRedisKeyPrefix(prefix string) RedisStoreOption {
	return func(s *RedisStore) {
		s.prefix = prefix
	}
}

// WithRedisDefaultTTL sets the TTL applied to records whose cookie is
// session-only and therefore carries no expiry (default 24h).
func WithRedisDefaultTTL(ttl time.Duration) RedisStoreOption {
	return func(s *RedisStore) {
		s.defaultTTL = ttl
	}
}

// WithRedisPingInterval sets the readiness probe cadence; zero disables
// the watcher and the store reports ready forever.
func WithRedisPingInterval(interval time.Duration) RedisStoreOption {
	return func(s *RedisStore) {
		s.pingInterval = interval
	}
}

// NewRedisStore creates a Redis-backed session store.
func NewRedisStore(client redis.UniversalClient, opts ...RedisStoreOption) *RedisStore {
	s := &RedisStore{
		client:       client,
		prefix:       "sess:",
		defaultTTL:   24 * time.Hour,
		pingInterval: 15 * time.Second,
		status:       StatusReady,
		done:         make(chan struct{}),
	}

	for _, opt := range opts {
		opt(s)
	}

	if s.pingInterval > 0 {
		go s.watch()
	}

	return s
}

// NewRedisStoreFromConfig connects to Redis per cfg (with retries) and
// builds a store on top of the resulting client.
func NewRedisStoreFromConfig(ctx context.Context, cfg redisconn.Config, opts ...RedisStoreOption) (*RedisStore, error) {
	client, err := redisconn.Connect(ctx, cfg)
	if err != nil {
		return nil, err
	}
	return NewRedisStore(client, opts...), nil
}

func (s *RedisStore) key(id string) string {
	return s.prefix + id
}

// Get retrieves the record for id.
func (s *RedisStore) Get(ctx context.Context, id string) (*Record, error) {
	raw, err := s.client.Get(ctx, s.key(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrSessionNotFound
	}
	if err != nil {
		return nil, err
	}
	return decodeRecord(raw)
}

// Set overwrites the record for id. The key TTL follows the cookie expiry;
// session-only cookies fall back to the default TTL so abandoned records
// still age out.
func (s *RedisStore) Set(ctx context.Context, id string, rec *Record) error {
	raw, err := json.Marshal(rec)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, s.key(id), raw, s.ttl(rec)).Err()
}

// Destroy removes the record for id. Missing keys are a silent success.
func (s *RedisStore) Destroy(ctx context.Context, id string) error {
	return s.client.Del(ctx, s.key(id)).Err()
}

// Touch refreshes the key TTL without rewriting the record.
func (s *RedisStore) Touch(ctx context.Context, id string, rec *Record) error {
	return s.client.Expire(ctx, s.key(id), s.ttl(rec)).Err()
}

// Notify registers a readiness listener. Part of the StatusNotifier
// contract.
func (s *RedisStore) Notify(fn func(Status)) {
	s.mu.Lock()
	s.listeners = append(s.listeners, fn)
	s.mu.Unlock()
}

// Close stops the readiness watcher. The Redis client itself is owned by
// the caller.
func (s *RedisStore) Close() error {
	s.once.Do(func() { close(s.done) })
	return nil
}

func (s *RedisStore) ttl(rec *Record) time.Duration {
	if rec != nil && rec.Cookie != nil && rec.Cookie.Expires != nil {
		if ttl := time.Until(*rec.Cookie.Expires); ttl > 0 {
			return ttl
		}
	}
	return s.defaultTTL
}

// watch probes the server and publishes ready/disconnected transitions.
func (s *RedisStore) watch() {
	ticker := time.NewTicker(s.pingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			ctx, cancel := context.WithTimeout(context.Background(), s.pingInterval)
			err := s.client.Ping(ctx).Err()
			cancel()

			if err != nil {
				s.transition(StatusDisconnected)
			} else {
				s.transition(StatusReady)
			}
		case <-s.done:
			return
		}
	}
}

func (s *RedisStore) transition(next Status) {
	s.mu.Lock()
	if s.status == next {
		s.mu.Unlock()
		return
	}
	s.status = next
	listeners := make([]func(Status), len(s.listeners))
	copy(listeners, s.listeners)
	s.mu.Unlock()

	for _, fn := range listeners {
		fn(next)
	}
}
