package store

import "time"

// RefreshSession is the server-side record behind a refresh token. Held only
// in memory: a restart invalidates outstanding refresh tokens, which is
// acceptable for this service.
type RefreshSession struct {
	Token     string    `json:"token"`
	UserId    string    `json:"user_id"`
	Name      string    `json:"name"`
	ExpiresAt time.Time `json:"expires_at"`
}
