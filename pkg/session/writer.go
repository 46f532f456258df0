package session

import (
	"net/http"
)

// responseWriter intercepts the first header write so the cookie emission
// decision runs before any headers reach the wire. This replaces hook-based
// response patching with an explicit wrapper registered by the middleware.
type responseWriter struct {
	http.ResponseWriter

	mgr         *Manager
	st          *requestState
	req         *http.Request
	wroteHeader bool
}

func (w *responseWriter) WriteHeader(code int) {
	if !w.wroteHeader {
		w.wroteHeader = true
		w.mgr.emitCookie(w.st, w.ResponseWriter, w.req)
	}
	w.ResponseWriter.WriteHeader(code)
}

func (w *responseWriter) Write(b []byte) (int, error) {
	if !w.wroteHeader {
		w.WriteHeader(http.StatusOK)
	}
	return w.ResponseWriter.Write(b)
}

// Flush releases buffered response bytes while the session commit may still
// be pending; the middleware only signals completion (returns) after the
// store call has run.
func (w *responseWriter) Flush() {
	if f, ok := w.ResponseWriter.(http.Flusher); ok {
		if !w.wroteHeader {
			w.WriteHeader(http.StatusOK)
		}
		f.Flush()
	}
}

// Unwrap supports http.ResponseController.
func (w *responseWriter) Unwrap() http.ResponseWriter {
	return w.ResponseWriter
}
