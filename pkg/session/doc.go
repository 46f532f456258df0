// Package session manages server-side session state for HTTP
// request/response cycles: it loads, creates, mutates, persists and
// destroys session records in a pluggable backing store, and decides what
// session cookie (if any) to emit on each response.
//
// # Architecture
//
// A Manager orchestrates the session lifecycle. On request entry its
// Middleware reads the incoming id through a Transport and either hydrates
// the session from the Store or generates a fresh one; at response
// finalization it applies the decision policies (resave, rolling,
// saveUninitialized, unset) and commits to the store before the response
// completes.
//
//	┌────────┐  cookie   ┌───────────┐
//	│ Client │ ────────► │ Transport │
//	└────────┘           └───────────┘
//	       ▲                   │
//	       │                   ▼
//	┌─────────────────────────────────┐
//	│     Manager (orchestrator)      │
//	└─────────────────────────────────┘
//	       │   get / set / destroy / touch
//	       ▼
//	┌────────┐
//	│ Store  │ (memory, redis, postgres, mongo)
//	└────────┘
//
// Modification is detected by fingerprinting: a stable hash of the session
// data (cookie excluded) is taken at load time and again at finalization;
// equal hashes with an unchanged id mean nothing is written unless Resave
// forces it. Session-data values must serialize deterministically; that is
// a contract on stored types, not something the hash special-cases.
//
// # Usage
//
//	manager, err := session.New(
//	    session.WithStore(session.NewMemoryStore(5*time.Minute)),
//	    session.WithCookie(cookie.WithMaxAge(30*time.Minute)),
//	    session.WithSaveUninitialized(false),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	mux := http.NewServeMux()
//	mux.HandleFunc("/login", func(w http.ResponseWriter, r *http.Request) {
//	    sess := session.MustFromContext(r.Context())
//	    sess.Set("user", "alice")
//	})
//	mux.HandleFunc("/logout", func(w http.ResponseWriter, r *http.Request) {
//	    session.Unset(r.Context()) // applies the configured unset policy
//	})
//	http.ListenAndServe(":8080", manager.Middleware(mux))
//
// # Stores
//
// Any type implementing Store can be plugged in; TouchStore and
// StatusNotifier are optional extensions for cheap expiry refreshes and
// readiness signalling. MemoryStore ships as default and testing fixture;
// RedisStore, PGStore and MongoStore cover the usual production backends.
//
// # Concurrency
//
// One request is handled by a single flow and its finalization runs at
// most once, enforced by an internal guard. The store is the only shared
// resource: concurrent writes against the same id are last-write-wins, and
// the contract deliberately provides no cross-request locking.
//
// # Error Handling
//
// Store misses (ErrSessionNotFound) are not failures; they trigger
// generation. Backend failures degrade the request to "no session this
// turn" and are logged (or handed to WithErrorHandler). Configuration
// errors fail at construction, before any request is served.
package session
