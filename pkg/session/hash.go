package session

import (
	"encoding/json"

	"github.com/cespare/xxhash/v2"
)

// fingerprint computes a stable hash of session data, cookie excluded.
// Equality of two fingerprints means "not modified".
//
// encoding/json sorts map keys, nested maps included, so the serialization
// is canonical and unrelated key-order differences never change the hash.
// Values that do not serialize deterministically (custom marshalers and the
// like) are a contract violation on stored data types; a marshal failure is
// surfaced so the caller can treat the session as modified.
func fingerprint(data map[string]any) (uint64, error) {
	if len(data) == 0 {
		return emptyFingerprint, nil
	}
	b, err := json.Marshal(data)
	if err != nil {
		return 0, err
	}
	return xxhash.Sum64(b), nil
}

// emptyFingerprint is the hash of a blank data map. Precomputed constant
// keeps generation of never-touched sessions allocation-free.
var emptyFingerprint = xxhash.Sum64([]byte("{}"))
