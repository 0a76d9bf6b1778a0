package httpd

import (
	"net/http"
	"sync"

	"github.com/gorilla/websocket"

	"github.com/custodia-labs/calbridge/internal/core/domain"
	"github.com/custodia-labs/calbridge/internal/core/ports/driven"
	"github.com/custodia-labs/calbridge/internal/logger"
)

// Ensure Hub implements the interface.
var _ driven.ResultPublisher = (*Hub)(nil)

// Hub broadcasts sync results to all connected websocket clients.
// Delivery is best-effort: a client that disconnects, or whose write fails,
// is dropped without blocking the publisher.
type Hub struct {
	mu       sync.Mutex
	conns    map[*websocket.Conn]struct{}
	upgrader websocket.Upgrader
}

// NewHub creates a result broadcast hub.
func NewHub() *Hub {
	return &Hub{
		conns: make(map[*websocket.Conn]struct{}),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// The API binds to localhost only
			CheckOrigin: func(*http.Request) bool { return true },
		},
	}
}

// HandleWebSocket upgrades the connection and keeps it registered until the
// client goes away. Inbound messages are discarded; the socket is
// broadcast-only.
func (h *Hub) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.Warn("results: websocket upgrade failed: %v", err)
		return
	}

	h.mu.Lock()
	h.conns[conn] = struct{}{}
	h.mu.Unlock()
	logger.Debug("results: client connected (%d active)", h.ClientCount())

	defer func() {
		h.remove(conn)
		logger.Debug("results: client disconnected (%d active)", h.ClientCount())
	}()

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}

// Publish broadcasts one result to every connected client.
func (h *Hub) Publish(result domain.SyncResult) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for conn := range h.conns {
		if err := conn.WriteJSON(result); err != nil {
			conn.Close()
			delete(h.conns, conn)
		}
	}
}

// ClientCount returns the number of connected clients.
func (h *Hub) ClientCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.conns)
}

// Close disconnects all clients.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for conn := range h.conns {
		conn.Close()
		delete(h.conns, conn)
	}
}

func (h *Hub) remove(conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	conn.Close()
	delete(h.conns, conn)
}
