package chat

import (
	"encoding/json"
	"time"

	"codearena-gateway/internal/domain/chat"
	"codearena-gateway/internal/domain/identity"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 4 * 1024
)

// Client pumps one websocket connection for one room. The read pump accepts
// {"text": ...} frames from the browser; the write pump streams room
// messages out as JSON.
type Client struct {
	conn     *websocket.Conn
	registry *Registry
	groupID  string
	sender   identity.Identity
	logger   *zap.Logger
}

func NewClient(conn *websocket.Conn, registry *Registry, groupID string, sender identity.Identity, logger *zap.Logger) *Client {
	return &Client{
		conn:     conn,
		registry: registry,
		groupID:  groupID,
		sender:   sender,
		logger:   logger,
	}
}

// Run subscribes the connection to its room and pumps until either side
// closes. It blocks for the lifetime of the connection.
func (c *Client) Run() {
	messages, unsubscribe := c.registry.Subscribe(c.groupID)
	defer unsubscribe()

	done := make(chan struct{})
	go c.writePump(messages, done)
	c.readPump()
	close(done)
}

func (c *Client) readPump() {
	defer c.conn.Close()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.logger.Debug("websocket read error", zap.Error(err))
			}
			return
		}

		var req chat.SendRequest
		if err := json.Unmarshal(data, &req); err != nil || req.Text == "" {
			continue
		}
		c.registry.Publish(NewMessage(c.groupID, c.sender, req.Text))
	}
}

func (c *Client) writePump(messages <-chan chat.Message, done <-chan struct{}) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case <-done:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			c.conn.WriteMessage(websocket.CloseMessage, []byte{})
			return

		case msg := <-messages:
			data, err := json.Marshal(msg)
			if err != nil {
				c.logger.Error("failed to marshal chat message", zap.Error(err))
				continue
			}
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
