package session

import (
	"net/http"
	"strings"
)

// isSecureRequest decides whether a Secure-flagged cookie may be emitted
// for this request, under the tri-state trust-proxy policy:
//
//   - transport-level encryption always wins;
//   - trust false never believes forwarded headers;
//   - trust unset consults the upstream-computed signal (MarkSecure),
//     defaulting to not secure;
//   - trust true reads the forwarded protocol header.
func (m *Manager) isSecureRequest(r *http.Request) bool {
	if r.TLS != nil {
		return true
	}

	if m.trustProxy == nil {
		return markedSecure(r.Context())
	}
	if !*m.trustProxy {
		return false
	}

	return forwardedProto(r) == "https"
}

// forwardedProto returns the first entry of the X-Forwarded-Proto header,
// trimmed and lowercased. Proxies append to the list, so the first entry is
// the protocol the client used.
func forwardedProto(r *http.Request) string {
	header := r.Header.Get("X-Forwarded-Proto")
	if header == "" {
		return ""
	}
	if i := strings.IndexByte(header, ','); i >= 0 {
		header = header[:i]
	}
	return strings.ToLower(strings.TrimSpace(header))
}
