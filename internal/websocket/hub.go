// Package websocket pushes live dataset events to connected dashboard
// clients: a dataset finished loading, or KPIs were recomputed after a
// filter change. Clients only listen; inbound messages are discarded.
package websocket

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"truccoanalytics/internal/infrastructure"
)

// Event types broadcast to dashboard clients.
const (
	TypeConnection    = "connection"
	TypeDatasetLoaded = "dataset:loaded"
	TypeKPIRefreshed  = "kpi:refreshed"
)

// Message is the envelope of every event sent over the wire.
type Message struct {
	Type      string    `json:"type"`
	SessionID string    `json:"session_id,omitempty"`
	Payload   any       `json:"payload,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// Hub maintains the set of active clients and broadcasts messages to them.
type Hub struct {
	clients    map[*Client]bool
	broadcast  chan []byte
	register   chan *Client
	unregister chan *Client

	mu      sync.RWMutex
	running bool
	quit    chan struct{}

	logger *slog.Logger
}

// NewHub creates a new Hub instance.
func NewHub(logger *slog.Logger) *Hub {
	if logger == nil {
		logger = infrastructure.GetLogger()
	}
	return &Hub{
		clients:    make(map[*Client]bool),
		broadcast:  make(chan []byte, 64),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		quit:       make(chan struct{}),
		logger:     logger.With(slog.String("component", "websocket.hub")),
	}
}

// Start launches the hub loop. Safe to call once.
func (h *Hub) Start() {
	h.mu.Lock()
	if h.running {
		h.mu.Unlock()
		return
	}
	h.running = true
	h.mu.Unlock()

	go h.run()
}

// Stop shuts the hub down and disconnects all clients.
func (h *Hub) Stop() {
	h.mu.Lock()
	if !h.running {
		h.mu.Unlock()
		return
	}
	h.running = false
	h.mu.Unlock()

	close(h.quit)
}

func (h *Hub) run() {
	for {
		select {
		case <-h.quit:
			h.mu.Lock()
			for client := range h.clients {
				close(client.send)
				delete(h.clients, client)
			}
			h.mu.Unlock()
			h.logger.Info("hub shutting down")
			return

		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			count := len(h.clients)
			h.mu.Unlock()

			h.logger.Info("client registered",
				slog.String("client_id", client.id),
				slog.String("remote_addr", client.remoteAddr),
				slog.Int("total_clients", count))

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
			}
			count := len(h.clients)
			h.mu.Unlock()

			h.logger.Info("client unregistered",
				slog.String("client_id", client.id),
				slog.Int("total_clients", count))

		case message := <-h.broadcast:
			h.mu.Lock()
			for client := range h.clients {
				select {
				case client.send <- message:
				default:
					// Slow client, drop it rather than block the hub.
					delete(h.clients, client)
					close(client.send)
				}
			}
			h.mu.Unlock()
		}
	}
}

// ClientCount returns the number of connected clients.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Broadcast sends a typed event to all connected clients.
func (h *Hub) Broadcast(ctx context.Context, msgType, sessionID string, payload any) {
	msg := Message{
		Type:      msgType,
		SessionID: sessionID,
		Payload:   payload,
		Timestamp: time.Now(),
	}

	data, err := json.Marshal(msg)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to marshal broadcast message",
			slog.String("type", msgType),
			slog.String("error", err.Error()))
		return
	}

	select {
	case h.broadcast <- data:
	case <-h.quit:
	}
}

// BroadcastDatasetLoaded announces a freshly uploaded dataset.
func (h *Hub) BroadcastDatasetLoaded(ctx context.Context, sessionID string, payload any) {
	h.Broadcast(ctx, TypeDatasetLoaded, sessionID, payload)
}

// BroadcastKPIRefreshed announces recomputed KPIs for a session.
func (h *Hub) BroadcastKPIRefreshed(ctx context.Context, sessionID string, payload any) {
	h.Broadcast(ctx, TypeKPIRefreshed, sessionID, payload)
}
