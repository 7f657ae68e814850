// Package toast pushes transient notifications to connected UI clients over
// websockets and tracks how many are currently on screen.
package toast

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"logview-backend/internal/model"
)

// Hub fans toasts out to every connected websocket client. Visible() counts
// toasts still within their on-screen lifetime so the notifier can apply
// back-pressure.
type Hub struct {
	mu        sync.Mutex
	conns     map[*websocket.Conn]bool
	broadcast []time.Time
	lifetime  time.Duration
	upgrader  websocket.Upgrader
}

func NewHub(lifetime time.Duration) *Hub {
	if lifetime <= 0 {
		lifetime = 10 * time.Second
	}
	return &Hub{
		conns:    make(map[*websocket.Conn]bool),
		lifetime: lifetime,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
}

// Handle upgrades the request and keeps the connection registered until the
// client goes away.
func (h *Hub) Handle(ctx *gin.Context) {
	conn, err := h.upgrader.Upgrade(ctx.Writer, ctx.Request, nil)
	if err != nil {
		log.Error().Err(err).Msg("Failed to upgrade notification websocket")
		return
	}

	h.mu.Lock()
	h.conns[conn] = true
	total := len(h.conns)
	h.mu.Unlock()
	log.Debug().Int("clients", total).Msg("Notification client connected")

	go h.readLoop(conn)
}

func (h *Hub) readLoop(conn *websocket.Conn) {
	defer h.drop(conn)
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (h *Hub) drop(conn *websocket.Conn) {
	h.mu.Lock()
	delete(h.conns, conn)
	h.mu.Unlock()
	_ = conn.Close()
	log.Debug().Msg("Notification client disconnected")
}

// Broadcast sends a toast to every client and records it as visible.
func (h *Hub) Broadcast(t model.Toast) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.pruneLocked(time.Now())
	h.broadcast = append(h.broadcast, time.Now())

	for conn := range h.conns {
		if err := conn.WriteJSON(t); err != nil {
			log.Warn().Err(err).Msg("Dropping broken notification client")
			delete(h.conns, conn)
			_ = conn.Close()
		}
	}
}

// Visible counts toasts broadcast within the on-screen lifetime.
func (h *Hub) Visible() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.pruneLocked(time.Now())
	return len(h.broadcast)
}

func (h *Hub) pruneLocked(now time.Time) {
	cutoff := now.Add(-h.lifetime)
	kept := h.broadcast[:0]
	for _, at := range h.broadcast {
		if at.After(cutoff) {
			kept = append(kept, at)
		}
	}
	h.broadcast = kept
}
