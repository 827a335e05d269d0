package ws

import (
	"context"
	"sync"

	"github.com/gorilla/websocket"

	"energy_forecaster/internal/session"
	"energy_forecaster/pkg/logger"
)

// Client represents a connected WebSocket client and its form session.
type Client struct {
	hub     *Hub
	conn    *websocket.Conn
	send    chan []byte
	session *session.Session
	log     logger.Logger
}

// Hub tracks connected clients. Sessions are never shared between clients.
type Hub struct {
	mu      sync.RWMutex
	clients map[*Client]bool
}

func NewHub() *Hub {
	return &Hub{
		clients: make(map[*Client]bool),
	}
}

func (h *Hub) Register(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.clients[c] = true
}

func (h *Hub) Unregister(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[c]; ok {
		delete(h.clients, c)
		close(c.send)
	}
}

// CloseAll sends a close frame to every client, e.g. on shutdown.
func (h *Hub) CloseAll() {
	h.mu.RLock()
	defer h.mu.RUnlock()
	msg := websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutting down")
	for c := range h.clients {
		if c.conn != nil {
			_ = c.conn.WriteControl(websocket.CloseMessage, msg, deadline())
		}
	}
}

// ClientCount returns the number of connected clients.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Send queues msg for this client only. A full buffer drops the message.
func (c *Client) Send(msg []byte) {
	select {
	case c.send <- msg:
	default:
		c.log.Warn(context.Background(), "client buffer full, dropping message")
	}
}

func (c *Client) writePump() {
	defer c.conn.Close()
	for msg := range c.send {
		if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
			return
		}
	}
}
