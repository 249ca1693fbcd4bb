package group

import (
	"errors"
	"net/http"

	"codearena-gateway/internal/domain/group"
	"codearena-gateway/internal/middleware"
	xerrors "codearena-gateway/internal/pkg/errors"
	"codearena-gateway/internal/pkg/response"
	"codearena-gateway/internal/upstream"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type GroupHandler struct {
	groupAPI upstream.GroupAPI
	logger   *zap.Logger
}

func NewGroupHandler(groupAPI upstream.GroupAPI, logger *zap.Logger) *GroupHandler {
	return &GroupHandler{groupAPI: groupAPI, logger: logger}
}

func (h *GroupHandler) List(c *gin.Context) {
	groups, err := h.groupAPI.List(c.Request.Context(), middleware.GetCredential(c))
	if err != nil {
		h.fail(c, "failed to list groups", err)
		return
	}
	response.Success(c, http.StatusOK, "groups", groups)
}

func (h *GroupHandler) MyGroups(c *gin.Context) {
	groups, err := h.groupAPI.MyGroups(c.Request.Context(), middleware.GetCredential(c))
	if err != nil {
		h.fail(c, "failed to list my groups", err)
		return
	}
	response.Success(c, http.StatusOK, "my groups", groups)
}

func (h *GroupHandler) Get(c *gin.Context) {
	g, err := h.groupAPI.Get(c.Request.Context(), middleware.GetCredential(c), c.Param("group_id"))
	if err != nil {
		h.fail(c, "failed to load group", err)
		return
	}
	response.Success(c, http.StatusOK, "group", g)
}

func (h *GroupHandler) Create(c *gin.Context) {
	var req group.CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, "invalid request", err)
		return
	}

	g, err := h.groupAPI.Create(c.Request.Context(), middleware.GetCredential(c), req)
	if err != nil {
		h.fail(c, "failed to create group", err)
		return
	}

	h.logger.Info("group created", zap.String("group_id", g.ID), zap.String("name", g.Name))
	response.Success(c, http.StatusCreated, "group created, pending approval", g)
}

func (h *GroupHandler) Join(c *gin.Context) {
	groupID := c.Param("group_id")
	if err := h.groupAPI.Join(c.Request.Context(), middleware.GetCredential(c), groupID); err != nil {
		if errors.Is(err, xerrors.ErrConflict) {
			response.Error(c, http.StatusConflict, "already a member", err)
			return
		}
		h.fail(c, "failed to join group", err)
		return
	}
	response.Success(c, http.StatusOK, "joined group", nil)
}

func (h *GroupHandler) Leave(c *gin.Context) {
	groupID := c.Param("group_id")
	if err := h.groupAPI.Leave(c.Request.Context(), middleware.GetCredential(c), groupID); err != nil {
		h.fail(c, "failed to leave group", err)
		return
	}
	response.Success(c, http.StatusOK, "left group", nil)
}

func (h *GroupHandler) IsMember(c *gin.Context) {
	isMember, err := h.groupAPI.IsMember(
		c.Request.Context(),
		middleware.GetCredential(c),
		c.Param("group_id"),
		c.Param("user_id"),
	)
	if err != nil {
		h.fail(c, "failed to check membership", err)
		return
	}
	response.Success(c, http.StatusOK, "membership", gin.H{"isMember": isMember})
}

func (h *GroupHandler) fail(c *gin.Context, msg string, err error) {
	switch {
	case errors.Is(err, xerrors.ErrNotFound):
		response.NotFound(c, msg)
	case errors.Is(err, xerrors.ErrUnauthenticated):
		response.Unauthorized(c, msg)
	default:
		h.logger.Error(msg, zap.Error(err))
		response.Error(c, http.StatusBadGateway, msg, err)
	}
}
