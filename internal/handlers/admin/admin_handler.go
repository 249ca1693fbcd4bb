package admin

import (
	"errors"
	"net/http"
	"strconv"

	"codearena-gateway/internal/middleware"
	xerrors "codearena-gateway/internal/pkg/errors"
	"codearena-gateway/internal/pkg/response"
	"codearena-gateway/internal/upstream"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type AdminHandler struct {
	adminAPI upstream.AdminAPI
	logger   *zap.Logger
}

func NewAdminHandler(adminAPI upstream.AdminAPI, logger *zap.Logger) *AdminHandler {
	return &AdminHandler{adminAPI: adminAPI, logger: logger}
}

// Users returns one page of the platform user roster.
func (h *AdminHandler) Users(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))

	users, err := h.adminAPI.Users(c.Request.Context(), middleware.GetCredential(c), page, limit)
	if err != nil {
		h.fail(c, "failed to list users", err)
		return
	}
	response.Success(c, http.StatusOK, "users", users)
}

func (h *AdminHandler) PendingGroups(c *gin.Context) {
	groups, err := h.adminAPI.PendingGroups(c.Request.Context(), middleware.GetCredential(c))
	if err != nil {
		h.fail(c, "failed to list pending groups", err)
		return
	}
	response.Success(c, http.StatusOK, "pending groups", groups)
}

func (h *AdminHandler) ApproveGroup(c *gin.Context) {
	groupID := c.Param("group_id")
	g, err := h.adminAPI.ApproveGroup(c.Request.Context(), middleware.GetCredential(c), groupID)
	if err != nil {
		h.fail(c, "failed to approve group", err)
		return
	}

	h.logger.Info("group approved", zap.String("group_id", groupID))
	response.Success(c, http.StatusOK, "group approved", g)
}

func (h *AdminHandler) RejectGroup(c *gin.Context) {
	groupID := c.Param("group_id")
	g, err := h.adminAPI.RejectGroup(c.Request.Context(), middleware.GetCredential(c), groupID)
	if err != nil {
		h.fail(c, "failed to reject group", err)
		return
	}

	h.logger.Info("group rejected", zap.String("group_id", groupID))
	response.Success(c, http.StatusOK, "group rejected", g)
}

func (h *AdminHandler) fail(c *gin.Context, msg string, err error) {
	switch {
	case errors.Is(err, xerrors.ErrNotFound):
		response.NotFound(c, msg)
	case errors.Is(err, xerrors.ErrUnauthenticated):
		response.Unauthorized(c, msg)
	case errors.Is(err, xerrors.ErrForbidden):
		response.Error(c, http.StatusForbidden, msg, err)
	default:
		h.logger.Error(msg, zap.Error(err))
		response.Error(c, http.StatusBadGateway, msg, err)
	}
}
