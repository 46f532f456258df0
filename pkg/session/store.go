package session

import (
	"context"

	"github.com/dmitrymomot/httpsession/pkg/cookie"
)

// Record is the serializable snapshot a store persists per session id:
// application data plus the cookie attributes at save time.
type Record struct {
	Data   map[string]any `json:"data"`
	Cookie *cookie.Cookie `json:"cookie"`
}

// Store defines the persistence interface for session records, addressed by
// session id. Implementations must tolerate concurrent calls against
// different ids; concurrent writes to the same id are last-write-wins and
// no locking is provided by the contract.
type Store interface {
	// Get retrieves the record for id. Returns ErrSessionNotFound on a
	// miss; any other error is a backend failure.
	Get(ctx context.Context, id string) (*Record, error)

	// Set fully overwrites the record for id. Idempotent.
	Set(ctx context.Context, id string, rec *Record) error

	// Destroy removes the record. Destroying a non-existent id succeeds.
	Destroy(ctx context.Context, id string) error
}

// TouchStore is an optional interface for stores that can refresh a
// record's expiration metadata without a full rewrite.
type TouchStore interface {
	Touch(ctx context.Context, id string, rec *Record) error
}

// Status is the readiness state of a store.
type Status int32

const (
	StatusReady Status = iota
	StatusDisconnected
)

func (s Status) String() string {
	if s == StatusDisconnected {
		return "disconnected"
	}
	return "ready"
}

// StatusNotifier is an optional interface for stores that can lose their
// backend. The manager subscribes once at construction and serves requests
// in bypass mode (no session attached) while the store is disconnected.
// Stores that never disconnect, like the in-memory one, simply don't
// implement it.
type StatusNotifier interface {
	Notify(fn func(Status))
}
