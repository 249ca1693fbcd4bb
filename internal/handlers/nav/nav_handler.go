// Package nav serves the navigable views. Each guarded view returns a JSON
// payload describing what the frontend should render; the route guard
// middleware has already decided the caller is allowed to see it.
package nav

import (
	"net/http"

	chatroom "codearena-gateway/internal/chat"
	"codearena-gateway/internal/middleware"
	"codearena-gateway/internal/pkg/response"
	"codearena-gateway/internal/routeguard"
	"codearena-gateway/internal/upstream"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type NavHandler struct {
	groupAPI upstream.GroupAPI
	adminAPI upstream.AdminAPI
	registry *chatroom.Registry
	logger   *zap.Logger
}

func NewNavHandler(groupAPI upstream.GroupAPI, adminAPI upstream.AdminAPI, registry *chatroom.Registry, logger *zap.Logger) *NavHandler {
	return &NavHandler{
		groupAPI: groupAPI,
		adminAPI: adminAPI,
		registry: registry,
		logger:   logger,
	}
}

// Root sends the visitor to wherever their session says they belong.
func (h *NavHandler) Root(c *gin.Context) {
	snap := middleware.MustGetStore(c).Snapshot()
	c.Redirect(http.StatusFound, routeguard.DefaultRedirect(snap))
}

// NotFound handles unmatched paths the same way as the root path.
func (h *NavHandler) NotFound(c *gin.Context) {
	snap := middleware.MustGetStore(c).Snapshot()
	c.Redirect(http.StatusFound, routeguard.DefaultRedirect(snap))
}

// AuthSurface renders a public auth view by name.
func (h *NavHandler) AuthSurface(view string) gin.HandlerFunc {
	return func(c *gin.Context) {
		response.Success(c, http.StatusOK, "view", gin.H{"view": view})
	}
}

// Dashboard renders the landing view for users and leaders: who they are
// plus the groups they belong to.
func (h *NavHandler) Dashboard(c *gin.Context) {
	id := middleware.CurrentIdentity(c)

	groups, err := h.groupAPI.MyGroups(c.Request.Context(), middleware.GetCredential(c))
	if err != nil {
		h.logger.Warn("dashboard group listing failed", zap.Error(err))
		groups = nil
	}

	response.Success(c, http.StatusOK, "view", gin.H{
		"view":   "dashboard",
		"user":   id,
		"groups": groups,
	})
}

// Groups renders the browsable group directory.
func (h *NavHandler) Groups(c *gin.Context) {
	groups, err := h.groupAPI.List(c.Request.Context(), middleware.GetCredential(c))
	if err != nil {
		h.logger.Warn("group listing failed", zap.Error(err))
		groups = nil
	}

	response.Success(c, http.StatusOK, "view", gin.H{
		"view":   "groups",
		"groups": groups,
	})
}

// GroupDetail renders one group with membership state and recent chat.
func (h *NavHandler) GroupDetail(c *gin.Context) {
	groupID := c.Param("group_id")
	cred := middleware.GetCredential(c)
	id := middleware.CurrentIdentity(c)

	g, err := h.groupAPI.Get(c.Request.Context(), cred, groupID)
	if err != nil {
		response.NotFound(c, "group not found")
		return
	}

	isMember := false
	if id != nil {
		if member, err := h.groupAPI.IsMember(c.Request.Context(), cred, groupID, id.ID); err == nil {
			isMember = member
		}
	}

	response.Success(c, http.StatusOK, "view", gin.H{
		"view":      "group_detail",
		"group":     g,
		"is_member": isMember,
		"chat":      h.registry.History(groupID),
	})
}

// Competition renders the competition arena view.
func (h *NavHandler) Competition(c *gin.Context) {
	response.Success(c, http.StatusOK, "view", gin.H{
		"view":           "competition",
		"group_id":       c.Param("group_id"),
		"competition_id": c.Param("competition_id"),
	})
}

// AdminRoot forwards to the default admin view.
func (h *NavHandler) AdminRoot(c *gin.Context) {
	c.Redirect(http.StatusFound, routeguard.PathAdminUsers)
}

// AdminUsers renders the user management view with its first page.
func (h *NavHandler) AdminUsers(c *gin.Context) {
	users, err := h.adminAPI.Users(c.Request.Context(), middleware.GetCredential(c), 1, 20)
	if err != nil {
		h.logger.Warn("admin user listing failed", zap.Error(err))
	}

	response.Success(c, http.StatusOK, "view", gin.H{
		"view":  "admin_users",
		"users": users,
	})
}

// AdminGroups renders the group moderation queue.
func (h *NavHandler) AdminGroups(c *gin.Context) {
	pending, err := h.adminAPI.PendingGroups(c.Request.Context(), middleware.GetCredential(c))
	if err != nil {
		h.logger.Warn("pending group listing failed", zap.Error(err))
	}

	response.Success(c, http.StatusOK, "view", gin.H{
		"view":    "admin_groups",
		"pending": pending,
	})
}
