package chat

import (
	"net/http"

	chatroom "codearena-gateway/internal/chat"
	"codearena-gateway/internal/middleware"
	"codearena-gateway/internal/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// The gateway fronts a same-origin SPA; cross-origin upgrades are not a
	// supported deployment.
	CheckOrigin: func(r *http.Request) bool { return true },
}

type ChatHandler struct {
	registry *chatroom.Registry
	logger   *zap.Logger
}

func NewChatHandler(registry *chatroom.Registry, logger *zap.Logger) *ChatHandler {
	return &ChatHandler{registry: registry, logger: logger}
}

// History returns the room's recent messages.
func (h *ChatHandler) History(c *gin.Context) {
	groupID := c.Param("group_id")
	response.Success(c, http.StatusOK, "chat history", h.registry.History(groupID))
}

// Connect upgrades to a websocket and joins the caller to the room. Bot
// chatter starts with the room's first subscriber.
func (h *ChatHandler) Connect(c *gin.Context) {
	id := middleware.CurrentIdentity(c)
	if id == nil {
		response.Unauthorized(c, "authentication required")
		return
	}
	groupID := c.Param("group_id")

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", zap.Error(err))
		return
	}

	h.logger.Debug("chat client connected",
		zap.String("group_id", groupID),
		zap.String("user_id", id.ID),
	)
	chatroom.NewClient(conn, h.registry, groupID, *id, h.logger).Run()
}

// Post publishes a message over plain HTTP, for clients without websocket
// support.
func (h *ChatHandler) Post(c *gin.Context) {
	id := middleware.CurrentIdentity(c)
	if id == nil {
		response.Unauthorized(c, "authentication required")
		return
	}

	var req struct {
		Text string `json:"text" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, "invalid request", err)
		return
	}

	msg := chatroom.NewMessage(c.Param("group_id"), *id, req.Text)
	h.registry.Publish(msg)
	response.Success(c, http.StatusCreated, "message sent", msg)
}
