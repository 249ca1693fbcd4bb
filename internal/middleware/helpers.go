package middleware

import (
	"codearena-gateway/internal/domain/identity"
	"codearena-gateway/internal/pkg/credential"
	"codearena-gateway/internal/pkg/session"

	"github.com/gin-gonic/gin"
)

// Context keys set by SessionMiddleware.
const (
	ctxSessionID    = "session_id"
	ctxSessionStore = "session_store"
	ctxCredential   = "ambient_credential"
)

// MustGetStore gets the session store from context or panics. Safe on any
// route behind SessionMiddleware.
func MustGetStore(c *gin.Context) *session.Store {
	v, exists := c.Get(ctxSessionStore)
	if !exists {
		panic("session_store not found in context")
	}
	return v.(*session.Store)
}

// MustGetSessionID gets the gateway session ID from context or panics.
func MustGetSessionID(c *gin.Context) string {
	v, exists := c.Get(ctxSessionID)
	if !exists {
		panic("session_id not found in context")
	}
	return v.(string)
}

// GetCredential gets the ambient upstream credential from context. A zero
// credential means the browser presented none.
func GetCredential(c *gin.Context) credential.Ambient {
	v, exists := c.Get(ctxCredential)
	if !exists {
		return credential.Ambient{}
	}
	return v.(credential.Ambient)
}

// CurrentIdentity returns the resolved identity, or nil when the session is
// unauthenticated.
func CurrentIdentity(c *gin.Context) *identity.Identity {
	snap := MustGetStore(c).Snapshot()
	if !snap.Authenticated {
		return nil
	}
	return snap.Identity
}
