package session

import "time"

// Session represents a logged-in browser session.
// A session is identified by its (hashed) token; the raw token only ever lives
// inside the browser's cookie. The identity token issued by the identity
// provider is the only payload and is treated as an opaque string.
type Session struct {
	ID      string
	Token   string
	IDToken string
	Expires int64
}

// IsExpired returns whether the session has passed its expiry timestamp
func (session *Session) IsExpired() bool {
	return session.Expires <= time.Now().Unix()
}
