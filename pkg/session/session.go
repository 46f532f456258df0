package session

import (
	"context"
	"errors"
	"maps"

	"github.com/dmitrymomot/httpsession/pkg/cookie"
)

// Session is a mutable record bound to one store and one id. The id is
// assigned at generation time and stays fixed for the lifetime of the
// request unless Regenerate is called. The cookie is owned exclusively:
// two sessions never share a Cookie instance.
type Session struct {
	// Cookie carries the attributes the session cookie will be emitted
	// with. Mutating it (e.g. SetMaxAge) takes effect on the next response.
	Cookie *cookie.Cookie

	id        string
	data      map[string]any
	mgr       *Manager
	destroyed bool
}

// ID returns the opaque session identifier.
func (s *Session) ID() string {
	return s.id
}

// Get retrieves a value from session data.
func (s *Session) Get(key string) (any, bool) {
	if s == nil || s.data == nil {
		return nil, false
	}
	val, ok := s.data[key]
	return val, ok
}

// GetString retrieves a string value from session data.
func (s *Session) GetString(key string) (string, bool) {
	val, ok := s.Get(key)
	if !ok {
		return "", false
	}
	str, ok := val.(string)
	return str, ok
}

// GetInt retrieves an int value from session data.
func (s *Session) GetInt(key string) (int, bool) {
	val, ok := s.Get(key)
	if !ok {
		return 0, false
	}
	switch v := val.(type) {
	case int:
		return v, true
	case int64:
		return int(v), true
	case float64:
		// JSON numbers come back as float64 after hydration
		return int(v), true
	default:
		return 0, false
	}
}

// GetBool retrieves a bool value from session data.
func (s *Session) GetBool(key string) (bool, bool) {
	val, ok := s.Get(key)
	if !ok {
		return false, false
	}
	b, ok := val.(bool)
	return b, ok
}

// Set stores a value in session data.
func (s *Session) Set(key string, value any) {
	if s == nil {
		return
	}
	if s.data == nil {
		s.data = make(map[string]any)
	}
	s.data[key] = value
}

// Delete removes a value from session data.
func (s *Session) Delete(key string) {
	if s == nil || s.data == nil {
		return
	}
	delete(s.data, key)
}

// Clear removes all data from the session.
func (s *Session) Clear() {
	if s == nil || s.data == nil {
		return
	}
	clear(s.data)
}

// Len returns the number of keys in session data.
func (s *Session) Len() int {
	if s == nil {
		return 0
	}
	return len(s.data)
}

// Save serializes current data and cookie to the bound store under the
// session id.
func (s *Session) Save(ctx context.Context) error {
	if err := s.usable(); err != nil {
		return err
	}
	if err := s.mgr.store.Set(ctx, s.id, s.record()); err != nil {
		return errors.Join(ErrStoreUnavailable, err)
	}
	return nil
}

// Destroy removes the session from the store and detaches it: subsequent
// store-touching operations return ErrSessionDestroyed.
func (s *Session) Destroy(ctx context.Context) error {
	if err := s.usable(); err != nil {
		return err
	}
	if err := s.mgr.store.Destroy(ctx, s.id); err != nil {
		return errors.Join(ErrStoreUnavailable, err)
	}
	s.destroyed = true
	return nil
}

// Reload re-fetches the record from the store and replaces the local data
// in place, so outstanding references to the data map observe the
// refreshed content.
func (s *Session) Reload(ctx context.Context) error {
	if err := s.usable(); err != nil {
		return err
	}
	rec, err := s.mgr.store.Get(ctx, s.id)
	if err != nil {
		if errors.Is(err, ErrSessionNotFound) {
			return err
		}
		return errors.Join(ErrStoreUnavailable, err)
	}

	if s.data == nil {
		s.data = make(map[string]any, len(rec.Data))
	} else {
		clear(s.data)
	}
	maps.Copy(s.data, rec.Data)
	return nil
}

// Touch slides the cookie expiry forward and, when the store supports it,
// refreshes the stored expiration metadata without a full rewrite.
func (s *Session) Touch(ctx context.Context) error {
	if err := s.usable(); err != nil {
		return err
	}
	s.ResetMaxAge()
	if ts, ok := s.mgr.store.(TouchStore); ok {
		if err := ts.Touch(ctx, s.id, s.record()); err != nil {
			return errors.Join(ErrStoreUnavailable, err)
		}
	}
	return nil
}

// Regenerate destroys the current record, assigns a freshly generated id
// and resets the session to blank data with a new cookie. The session stays
// attached to the request, so the new id is committed and emitted at
// response finalization like any generated session.
func (s *Session) Regenerate(ctx context.Context) error {
	if err := s.usable(); err != nil {
		return err
	}
	if err := s.mgr.store.Destroy(ctx, s.id); err != nil {
		return errors.Join(ErrStoreUnavailable, err)
	}

	id, err := s.mgr.genID()
	if err != nil {
		return err
	}

	s.id = id
	s.data = make(map[string]any)
	s.Cookie = s.mgr.cookieTemplate.Clone()
	return nil
}

// ResetMaxAge recomputes the cookie expiry from its original max age
// (sliding expiration). Session-only cookies are left as configured.
func (s *Session) ResetMaxAge() {
	if s == nil || s.Cookie == nil {
		return
	}
	s.Cookie.ResetMaxAge()
}

// record snapshots the session for persistence.
func (s *Session) record() *Record {
	return &Record{
		Data:   s.data,
		Cookie: s.Cookie,
	}
}

func (s *Session) usable() error {
	if s == nil || s.mgr == nil || s.mgr.store == nil {
		return ErrNoStore
	}
	if s.destroyed {
		return ErrSessionDestroyed
	}
	return nil
}
