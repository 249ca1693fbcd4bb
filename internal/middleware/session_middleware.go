package middleware

import (
	"context"
	"time"

	"codearena-gateway/internal/bootstrap"
	"codearena-gateway/internal/pkg/credential"
	"codearena-gateway/internal/pkg/session"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// SessionMiddleware attaches a gateway session to every request. It assigns
// the session cookie on first contact, extracts the ambient upstream
// credential, and kicks off profile resolution, waiting up to bootstrapWait
// for it so most navigations see a resolved session.
type SessionMiddleware struct {
	manager       *session.Manager
	bootstrapper  *bootstrap.Bootstrapper
	sessionCookie string
	credCookie    string
	sessionTTL    time.Duration
	bootstrapWait time.Duration
	logger        *zap.Logger
}

func NewSessionMiddleware(
	manager *session.Manager,
	bootstrapper *bootstrap.Bootstrapper,
	sessionCookie, credCookie string,
	sessionTTL, bootstrapWait time.Duration,
	logger *zap.Logger,
) *SessionMiddleware {
	return &SessionMiddleware{
		manager:       manager,
		bootstrapper:  bootstrapper,
		sessionCookie: sessionCookie,
		credCookie:    credCookie,
		sessionTTL:    sessionTTL,
		bootstrapWait: bootstrapWait,
		logger:        logger,
	}
}

func (m *SessionMiddleware) Attach() gin.HandlerFunc {
	return func(c *gin.Context) {
		sid, err := c.Cookie(m.sessionCookie)
		if err != nil || sid == "" {
			sid = session.NewSessionID()
			c.SetCookie(m.sessionCookie, sid, int(m.sessionTTL.Seconds()), "/", "", false, true)
		}

		store := m.manager.Get(c.Request.Context(), sid)
		cred, _ := credential.FromRequest(c.Request, m.credCookie)

		// Bounded wait: a slow upstream must not hang every navigation, the
		// guard serves the loading placeholder instead.
		waitCtx, cancel := context.WithTimeout(c.Request.Context(), m.bootstrapWait)
		resolved := m.bootstrapper.Ensure(waitCtx, cred, store)
		cancel()
		if !resolved {
			m.logger.Debug("session not resolved within bootstrap wait",
				zap.String("sid", sid), zap.String("path", c.Request.URL.Path))
		}

		c.Set(ctxSessionID, sid)
		c.Set(ctxSessionStore, store)
		c.Set(ctxCredential, cred)

		c.Next()
	}
}
