package sse

import (
	"encoding/json"
	"sync"

	"go.uber.org/zap"
)

// Event represents a Server-Sent Event
type Event struct {
	EventType string `json:"event"`
	Data      string `json:"data"`
}

// Client represents a connected SSE client
type Client struct {
	ID     string
	UserID string
	Events chan Event
}

// Hub manages all SSE client connections
type Hub struct {
	mu      sync.RWMutex
	clients map[string]*Client
	logger  *zap.Logger
}

// NewHub creates a new SSE Hub
func NewHub(logger *zap.Logger) *Hub {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Hub{
		clients: make(map[string]*Client),
		logger:  logger.Named("sse"),
	}
}

// Register adds a new client to the hub
func (h *Hub) Register(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.clients[client.ID] = client
	h.logger.Debug("client registered",
		zap.String("client_id", client.ID),
		zap.String("user_id", client.UserID),
		zap.Int("total", len(h.clients)))
}

// Unregister removes a client from the hub
func (h *Hub) Unregister(clientID string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if client, ok := h.clients[clientID]; ok {
		close(client.Events)
		delete(h.clients, clientID)
		h.logger.Debug("client unregistered", zap.String("client_id", clientID), zap.Int("total", len(h.clients)))
	}
}

// ClientCount number of connected clients
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// SendToUser sends an event to every connection of one user
func (h *Hub) SendToUser(userID string, event Event) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	sent := 0
	for _, client := range h.clients {
		if client.UserID == userID && h.deliver(client, event) {
			sent++
		}
	}
	return sent
}

// deliver never blocks; a full buffer drops the event.
func (h *Hub) deliver(client *Client, event Event) bool {
	select {
	case client.Events <- event:
		return true
	default:
		h.logger.Warn("client buffer full, skipping event",
			zap.String("client_id", client.ID),
			zap.String("event", event.EventType))
		return false
	}
}

// NotificationPayload body of a "notification" event
type NotificationPayload struct {
	ID      uint   `json:"id"`
	Message string `json:"message"`
}

// PublishNotification pushes a freshly stored notification to its owner
func (h *Hub) PublishNotification(userID string, id uint, message string) {
	data, _ := json.Marshal(NotificationPayload{ID: id, Message: message})
	h.SendToUser(userID, Event{EventType: "notification", Data: string(data)})
}

// PublishRequestUpdate tells a user that a service request changed
func (h *Hub) PublishRequestUpdate(userID string, requestID uint, status string) {
	data, _ := json.Marshal(map[string]interface{}{"request_id": requestID, "status": status})
	h.SendToUser(userID, Event{EventType: "service_request_update", Data: string(data)})
}
