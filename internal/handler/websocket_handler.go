package handler

import (
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/Yekna/dj-jukebox/internal/model"
	"github.com/Yekna/dj-jukebox/internal/service"
)

// RoomWSHandler handles the live channel: GET /ws/rooms/:pin.
type RoomWSHandler struct {
	hub        *service.RoomHub
	maxMsgSize int64
	logger     *zap.Logger
}

// NewRoomWSHandler creates the websocket handler.
func NewRoomWSHandler(hub *service.RoomHub, maxMsgSize int64, logger *zap.Logger) *RoomWSHandler {
	return &RoomWSHandler{hub: hub, maxMsgSize: maxMsgSize, logger: logger}
}

// ServeWS upgrades the connection, joins the hub under the path pin, acks with
// a connected event, then runs the receive loop. The hub does not check the
// pin against the room store: a pin with no active room is a valid, quiet
// subscription.
func (h *RoomWSHandler) ServeWS(c *gin.Context) {
	pin := c.Param("pin")
	if !validPin(pin) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "pin must be 4 digits"})
		return
	}

	conn, err := h.hub.Upgrader().Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", zap.Error(err))
		return
	}
	defer conn.Close()
	if h.maxMsgSize > 0 {
		conn.SetReadLimit(h.maxMsgSize)
	}

	listener, cleanup := h.hub.Join(pin, conn)
	defer cleanup()

	// Synchronous ack so the client can tell "server ready" from "socket
	// open". Queued ahead of any broadcast that lands after Join.
	ack, _ := json.Marshal(model.ConnectedEvent(pin))
	if err := conn.WriteMessage(websocket.TextMessage, ack); err != nil {
		return
	}

	go h.writePump(listener)
	h.readPump(listener)
}

// readPump consumes inbound messages until the transport dies. Only a
// user-presence announcement is interpreted; every other shape is ignored
// without an error reply.
func (h *RoomWSHandler) readPump(l *service.Listener) {
	defer func() {
		_ = l.Conn.Close()
	}()
	for {
		_, data, err := l.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				h.logger.Debug("read error", zap.String("pin", l.Pin), zap.Error(err))
			}
			return
		}
		var msg model.InboundMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			continue
		}
		if msg.Type == model.InboundUserJoined {
			h.hub.Broadcast(l.Pin, model.UserJoinedEvent(msg.User))
		}
	}
}

// writePump drains the listener's queue into the connection.
func (h *RoomWSHandler) writePump(l *service.Listener) {
	defer func() {
		_ = l.Conn.Close()
	}()
	for data := range l.Send {
		if err := l.Conn.WriteMessage(websocket.TextMessage, data); err != nil {
			return
		}
	}
}

func validPin(pin string) bool {
	if len(pin) != 4 {
		return false
	}
	for _, r := range pin {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
