package session

import (
	"time"

	"codearena-gateway/internal/domain/identity"
)

// PersistedSession is the non-sensitive copy of a session written to Redis so
// a reload does not start from a blank screen. It carries no credential and
// is always provisional: the profile bootstrapper reconciles it against a
// fresh resolution before any role-gated view renders.
type PersistedSession struct {
	Identity *identity.Identity `json:"identity"`
	SavedAt  time.Time          `json:"saved_at"`
}
