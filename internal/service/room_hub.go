package service

import (
	"encoding/json"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/Yekna/dj-jukebox/internal/model"
)

// Listener is one live connection subscribed to a room pin. The hub owns the
// registry entry and the Send channel; the websocket connection belongs to the
// transport layer (the write pump in the handler drains Send into it).
type Listener struct {
	Pin  string
	Conn *websocket.Conn
	Send chan []byte
}

// RoomHub fans out room-scoped events to live listeners, keyed by room pin.
// It is intentionally decoupled from the room store: joining a pin with no
// active room is allowed and simply delivers nothing beyond the connected ack.
type RoomHub struct {
	mu        sync.RWMutex
	listeners map[string]map[*Listener]struct{} // pin -> listener set
	sendBuf   int
	upgrader  websocket.Upgrader
	log       *zap.Logger
}

// NewRoomHub creates a hub. sendBuf is the per-listener outbound queue depth;
// a listener whose queue is full misses events rather than blocking the room.
func NewRoomHub(readBuf, writeBuf, sendBuf int, log *zap.Logger) *RoomHub {
	if sendBuf <= 0 {
		sendBuf = 64
	}
	return &RoomHub{
		listeners: make(map[string]map[*Listener]struct{}),
		sendBuf:   sendBuf,
		log:       log,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  readBuf,
			WriteBufferSize: writeBuf,
			// Guests connect from arbitrary origins; the join itself is
			// unauthenticated, so origin checking buys nothing here.
			CheckOrigin: func(*http.Request) bool { return true },
		},
	}
}

// Join registers a listener under pin and returns it together with an
// idempotent cleanup function. Multiple listeners per pin are the normal case.
func (h *RoomHub) Join(pin string, conn *websocket.Conn) (*Listener, func()) {
	l := &Listener{
		Pin:  pin,
		Conn: conn,
		Send: make(chan []byte, h.sendBuf),
	}
	h.mu.Lock()
	if h.listeners[pin] == nil {
		h.listeners[pin] = make(map[*Listener]struct{})
	}
	h.listeners[pin][l] = struct{}{}
	h.mu.Unlock()

	h.log.Info("listener joined",
		zap.String("pin", pin),
		zap.Int("room_listeners", h.ListenerCount(pin)))

	var once sync.Once
	cleanup := func() {
		once.Do(func() { h.leave(l) })
	}
	return l, cleanup
}

func (h *RoomHub) leave(l *Listener) {
	h.mu.Lock()
	defer h.mu.Unlock()
	set, ok := h.listeners[l.Pin]
	if !ok {
		return
	}
	if _, ok := set[l]; !ok {
		return
	}
	delete(set, l)
	if len(set) == 0 {
		delete(h.listeners, l.Pin)
	}
	close(l.Send)
	h.log.Info("listener left", zap.String("pin", l.Pin))
}

// Broadcast delivers event to every listener currently registered under pin,
// best effort. A listener with a full queue is skipped; delivery failures
// never surface to the caller. Per listener, events arrive in Broadcast order.
func (h *RoomHub) Broadcast(pin string, event model.Event) {
	data, err := json.Marshal(event)
	if err != nil {
		h.log.Error("marshal event", zap.String("type", event.Type), zap.Error(err))
		return
	}

	// Sends are non-blocking, so the read lock is held across the loop; that
	// also keeps leave() from closing a Send channel mid-broadcast.
	h.mu.RLock()
	defer h.mu.RUnlock()
	for l := range h.listeners[pin] {
		select {
		case l.Send <- data:
		default:
			// Slow or dead listener; drop and let its transport reap it.
			h.log.Warn("listener send buffer full, dropping event",
				zap.String("pin", pin),
				zap.String("type", event.Type))
		}
	}
}

// Upgrader returns the shared websocket upgrader for HTTP handlers.
func (h *RoomHub) Upgrader() *websocket.Upgrader {
	return &h.upgrader
}

// ListenerCount returns the number of listeners under pin.
func (h *RoomHub) ListenerCount(pin string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.listeners[pin])
}
