package ws

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/gorilla/websocket"

	"github.com/webitel/dispatch-core/internal/dispatch"
	"github.com/webitel/dispatch-core/internal/domain/ident"
	"github.com/webitel/dispatch-core/internal/domain/registry"
	"github.com/webitel/dispatch-core/internal/transport/wire"
)

const sendBufferSize = 256

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// Handler upgrades incoming requests to WebSocket push listeners.
type Handler struct {
	dispatcher *dispatch.Dispatcher
	logger     *slog.Logger
}

// NewHandler constructs a Handler.
func NewHandler(d *dispatch.Dispatcher, logger *slog.Logger) *Handler {
	return &Handler{dispatcher: d, logger: logger}
}

// ServeHTTP upgrades the connection, registers it as a wildcard listener,
// and streams delivered events as JSON frames until the socket closes.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("ws: upgrade failed", "err", err)
		return
	}
	defer conn.Close()

	c := newConnection(sendBufferSize)

	if _, err := dispatch.Sync(h.dispatcher.Connect(ident.WildcardEventType(), registry.Entry{
		ListenerType: c.listenerType,
		Callable:     c.push,
	})); err != nil {
		h.logger.Error("ws: connect failed", "err", err)
		return
	}
	defer func() {
		if _, err := dispatch.Sync(h.dispatcher.DisconnectFromAll(c.listenerType)); err != nil {
			h.logger.Error("ws: disconnect failed", "err", err)
		}
		c.close()
	}()

	go h.readLoop(conn)
	h.writeLoop(conn, c)
}

// readLoop discards inbound frames but must run so gorilla/websocket
// processes control frames (ping/pong/close) and reports the disconnect
// promptly.
func (h *Handler) readLoop(conn *websocket.Conn) {
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (h *Handler) writeLoop(conn *websocket.Conn, c *connection) {
	for ev := range c.recv() {
		env, err := wire.FromEvent(ev, nil)
		if err != nil {
			h.logger.Error("ws: envelope encode failed", "err", err)
			continue
		}
		payload, err := json.Marshal(env)
		if err != nil {
			h.logger.Error("ws: marshal failed", "err", err)
			continue
		}
		if err := conn.WriteMessage(websocket.TextMessage, payload); err != nil {
			return
		}
	}
}
