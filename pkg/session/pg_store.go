package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dmitrymomot/httpsession/pkg/pg"
)

// PGStore persists session records in a PostgreSQL table:
//
//	CREATE TABLE sessions (
//	    sid        text PRIMARY KEY,
//	    record     jsonb NOT NULL,
//	    expires_at timestamptz
//	)
//
// Expired rows are invisible to Get and removed by a periodic prune.
type PGStore struct {
	pool       *pgxpool.Pool
	table      string
	defaultTTL time.Duration

	ticker *time.Ticker
	done   chan struct{}
	once   sync.Once
}

// PGStoreOption configures a PGStore.
type PGStoreOption func(*PGStore)

// WithPGTable sets the table name (default "sessions").
func WithPGTable(table string) PGStoreOption {
	return func(s *PGStore) {
		s.table = table
	}
}

// WithPGDefaultTTL sets the expiry applied to records whose cookie is
// session-only (default 24h).
func WithPGDefaultTTL(ttl time.Duration) PGStoreOption {
	return func(s *PGStore) {
		s.defaultTTL = ttl
	}
}

// WithPGPruneInterval sets how often expired rows are deleted; zero
// disables pruning.
func WithPGPruneInterval(interval time.Duration) PGStoreOption {
	return func(s *PGStore) {
		if interval > 0 {
			s.ticker = time.NewTicker(interval)
		}
	}
}

// NewPGStore creates a Postgres-backed session store, creating the table
// when it does not exist yet.
func NewPGStore(ctx context.Context, pool *pgxpool.Pool, opts ...PGStoreOption) (*PGStore, error) {
	s := &PGStore{
		pool:       pool,
		table:      "sessions",
		defaultTTL: 24 * time.Hour,
		done:       make(chan struct{}),
	}

	for _, opt := range opts {
		opt(s)
	}

	ddl := fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
		sid        text PRIMARY KEY,
		record     jsonb NOT NULL,
		expires_at timestamptz
	)`, s.table)
	if _, err := s.pool.Exec(ctx, ddl); err != nil {
		return nil, err
	}

	if s.ticker != nil {
		go s.pruneLoop()
	}

	return s, nil
}

// NewPGStoreFromConfig connects to Postgres per cfg (with retries) and
// builds a store on top of the resulting pool.
func NewPGStoreFromConfig(ctx context.Context, cfg pg.Config, opts ...PGStoreOption) (*PGStore, error) {
	pool, err := pg.Connect(ctx, cfg)
	if err != nil {
		return nil, err
	}
	return NewPGStore(ctx, pool, opts...)
}

// Get retrieves the live record for id.
func (s *PGStore) Get(ctx context.Context, id string) (*Record, error) {
	query := fmt.Sprintf(
		`SELECT record FROM %s WHERE sid = $1 AND (expires_at IS NULL OR expires_at > now())`,
		s.table,
	)

	var raw []byte
	err := s.pool.QueryRow(ctx, query, id).Scan(&raw)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrSessionNotFound
	}
	if err != nil {
		return nil, err
	}
	return decodeRecord(raw)
}

// Set upserts the record for id.
func (s *PGStore) Set(ctx context.Context, id string, rec *Record) error {
	raw, err := json.Marshal(rec)
	if err != nil {
		return err
	}

	query := fmt.Sprintf(`INSERT INTO %s (sid, record, expires_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (sid) DO UPDATE SET record = $2, expires_at = $3`, s.table)
	_, err = s.pool.Exec(ctx, query, id, raw, s.expiresAt(rec))
	return err
}

// Destroy removes the record for id. Missing rows are a silent success.
func (s *PGStore) Destroy(ctx context.Context, id string) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE sid = $1`, s.table)
	_, err := s.pool.Exec(ctx, query, id)
	return err
}

// Touch refreshes only the row's expiry.
func (s *PGStore) Touch(ctx context.Context, id string, rec *Record) error {
	query := fmt.Sprintf(`UPDATE %s SET expires_at = $2 WHERE sid = $1`, s.table)
	_, err := s.pool.Exec(ctx, query, id, s.expiresAt(rec))
	return err
}

// Prune deletes expired rows. Exposed so deployments without the built-in
// ticker can schedule it themselves.
func (s *PGStore) Prune(ctx context.Context) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE expires_at IS NOT NULL AND expires_at < now()`, s.table)
	_, err := s.pool.Exec(ctx, query)
	return err
}

// Close stops the prune goroutine. The pool is owned by the caller.
func (s *PGStore) Close() error {
	if s.ticker != nil {
		s.ticker.Stop()
		s.once.Do(func() { close(s.done) })
	}
	return nil
}

func (s *PGStore) expiresAt(rec *Record) time.Time {
	if rec != nil && rec.Cookie != nil && rec.Cookie.Expires != nil {
		return *rec.Cookie.Expires
	}
	return time.Now().Add(s.defaultTTL)
}

func (s *PGStore) pruneLoop() {
	for {
		select {
		case <-s.ticker.C:
			_ = s.Prune(context.Background())
		case <-s.done:
			return
		}
	}
}
