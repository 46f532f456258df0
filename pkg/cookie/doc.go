// Package cookie provides the value type describing a session cookie's
// attributes and expiration policy.
//
// A Cookie is owned exclusively by one session. Its persistence model is
// driven by SetMaxAge: calling it stores the configured duration in
// OriginalMaxAge and derives the absolute Expires from it, so that
// ResetMaxAge can slide the expiry forward on each response. A cookie whose
// Expires is nil is a session-only cookie and is never given an expiry by
// the server.
//
// The type carries no name or value; Attributes assembles the http.Cookie a
// writing collaborator needs once name and value are known:
//
//	c := cookie.New(
//	    cookie.WithPath("/app"),
//	    cookie.WithMaxAge(30*time.Minute),
//	    cookie.WithSameSite(http.SameSiteLaxMode),
//	)
//	http.SetCookie(w, c.Attributes("connect.sid", sessionID))
//
// Cookies marshal to JSON so stores can persist the attribute snapshot
// alongside session data and restore it on hydration.
package cookie
