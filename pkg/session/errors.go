package session

import "errors"

var (
	// ErrSessionNotFound indicates a store miss. It is not a failure: the
	// orchestrator responds by generating a fresh session.
	ErrSessionNotFound = errors.New("session.not_found")

	// ErrSessionDestroyed indicates an operation on a session that was
	// already destroyed and detached from its store.
	ErrSessionDestroyed = errors.New("session.destroyed")

	// ErrStoreUnavailable wraps backend failures on get/set/destroy.
	ErrStoreUnavailable = errors.New("session.store_unavailable")

	// ErrIDGeneration indicates session id generation failed.
	ErrIDGeneration = errors.New("session.id_generation_failed")

	// ErrNoStore indicates no store is configured.
	ErrNoStore = errors.New("session.no_store")

	// ErrInvalidUnsetMode indicates an unset policy other than "destroy" or
	// "keep" was configured.
	ErrInvalidUnsetMode = errors.New("session.invalid_unset_mode")
)
