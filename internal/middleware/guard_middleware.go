package middleware

import (
	"net/http"

	"codearena-gateway/internal/domain/identity"
	"codearena-gateway/internal/pkg/response"
	"codearena-gateway/internal/routeguard"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// GuardMiddleware applies route guard decisions to navigations. The guard
// itself is pure; this middleware is the only place its decisions become
// HTTP effects.
type GuardMiddleware struct {
	logger *zap.Logger
}

func NewGuardMiddleware(logger *zap.Logger) *GuardMiddleware {
	return &GuardMiddleware{logger: logger}
}

// Guard protects a role-gated view route.
func (m *GuardMiddleware) Guard(rule routeguard.Rule) gin.HandlerFunc {
	return func(c *gin.Context) {
		snap := MustGetStore(c).Snapshot()
		m.apply(c, routeguard.Evaluate(snap, rule))
	}
}

// Public protects an auth surface: authenticated visitors are bounced to
// their landing page instead of seeing a login form again.
func (m *GuardMiddleware) Public() gin.HandlerFunc {
	return func(c *gin.Context) {
		snap := MustGetStore(c).Snapshot()
		m.apply(c, routeguard.EvaluatePublic(snap))
	}
}

func (m *GuardMiddleware) apply(c *gin.Context, decision routeguard.Decision) {
	switch decision.Kind {
	case routeguard.DecisionLoading:
		response.Success(c, http.StatusOK, "resolving session", gin.H{"loading": true})
		c.Abort()
	case routeguard.DecisionRedirect:
		m.logger.Debug("guard redirect",
			zap.String("from", c.Request.URL.Path),
			zap.String("to", decision.Target))
		c.Redirect(http.StatusFound, decision.Target)
		c.Abort()
	default:
		c.Next()
	}
}

// RequireAuthenticated protects a data endpoint: no redirect dance, a plain
// 401 the frontend can act on.
func (m *GuardMiddleware) RequireAuthenticated() gin.HandlerFunc {
	return func(c *gin.Context) {
		snap := MustGetStore(c).Snapshot()
		if snap.Loading || !snap.Resolved {
			response.Error(c, http.StatusServiceUnavailable, "session still resolving", nil)
			return
		}
		if !snap.Authenticated || snap.Identity == nil {
			response.Unauthorized(c, "authentication required")
			return
		}
		c.Next()
	}
}

// RequireRole protects a data endpoint to specific roles. Must follow
// RequireAuthenticated.
func (m *GuardMiddleware) RequireRole(roles ...identity.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		snap := MustGetStore(c).Snapshot()
		if snap.Identity != nil {
			for _, role := range roles {
				if snap.Identity.Role == role {
					c.Next()
					return
				}
			}
		}
		response.Error(c, http.StatusForbidden, "insufficient role", nil)
	}
}
