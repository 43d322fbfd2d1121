package services

import (
	"log"
	"sync"
	"time"

	"github.com/goalpost-dev/goalpost/internal/goals"
	"github.com/gorilla/websocket"
)

const writeWait = 10 * time.Second

// EventHub fans committed goal and task events out to the owner's connected
// websocket clients. It implements goals.Observer, so the save workflow
// notifies it synchronously after each commit.
type EventHub struct {
	mu      sync.RWMutex
	clients map[uint]map[*websocket.Conn]bool
}

func NewEventHub() *EventHub {
	return &EventHub{clients: make(map[uint]map[*websocket.Conn]bool)}
}

func (h *EventHub) Register(ownerID uint, conn *websocket.Conn) {
	h.mu.Lock()
	if h.clients[ownerID] == nil {
		h.clients[ownerID] = make(map[*websocket.Conn]bool)
	}
	h.clients[ownerID][conn] = true
	h.mu.Unlock()
}

func (h *EventHub) Unregister(ownerID uint, conn *websocket.Conn) {
	h.mu.Lock()
	h.remove(ownerID, conn)
	h.mu.Unlock()
}

// remove expects h.mu to be held.
func (h *EventHub) remove(ownerID uint, conn *websocket.Conn) {
	if clients, exists := h.clients[ownerID]; exists {
		delete(clients, conn)

		if len(clients) == 0 {
			delete(h.clients, ownerID)
		}
	}
}

// Notify implements goals.Observer. Events only ever reach the owner's own
// connections.
func (h *EventHub) Notify(event goals.Event) {
	h.mu.RLock()
	clients, exists := h.clients[event.OwnerID]

	if !exists || len(clients) == 0 {
		h.mu.RUnlock()
		return
	}

	// Copy so the lock is not held during writes
	clientsCopy := make([]*websocket.Conn, 0, len(clients))
	for conn := range clients {
		clientsCopy = append(clientsCopy, conn)
	}
	h.mu.RUnlock()

	for _, conn := range clientsCopy {
		if err := conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
			log.Printf("Failed to set write deadline for event broadcast: %v", err)
			continue
		}

		if err := conn.WriteJSON(event); err != nil {
			log.Printf("Failed to broadcast %s to client: %v", event.Type, err)

			h.mu.Lock()
			h.remove(event.OwnerID, conn)
			h.mu.Unlock()

			conn.Close()
		}
	}
}
