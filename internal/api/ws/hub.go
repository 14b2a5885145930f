package ws

import (
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

type Message struct {
	Type string      `json:"type"`
	Data interface{} `json:"data"`
}

type BattleEventData struct {
	BattleID uint64 `json:"battleId"`
	Status   string `json:"status"`
	Winner   string `json:"winner,omitempty"`
}

type Hub struct {
	connections map[uuid.UUID]*websocket.Conn
	mu          sync.RWMutex
}

var globalHub *Hub
var once sync.Once

func GetHub() *Hub {
	once.Do(func() {
		globalHub = &Hub{
			connections: make(map[uuid.UUID]*websocket.Conn),
		}
	})
	return globalHub
}

func (h *Hub) Register(trainerID uuid.UUID, conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.connections[trainerID] = conn
	fmt.Printf("[Hub] Trainer %s connected. Total connections: %d\n", trainerID, len(h.connections))
}

func (h *Hub) Unregister(trainerID uuid.UUID) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if conn, exists := h.connections[trainerID]; exists {
		conn.Close()
		delete(h.connections, trainerID)
		fmt.Printf("[Hub] Trainer %s disconnected. Total connections: %d\n", trainerID, len(h.connections))
	}
}

func (h *Hub) SendToTrainer(trainerID uuid.UUID, msg Message) error {
	h.mu.RLock()
	conn, exists := h.connections[trainerID]
	h.mu.RUnlock()

	if !exists {
		return nil
	}

	return conn.WriteJSON(msg)
}

// SendBattleEvent pushes a battle lifecycle change to every listed
// participant that currently holds a connection.
func (h *Hub) SendBattleEvent(event string, data BattleEventData, participants ...uuid.UUID) {
	msg := Message{Type: event, Data: data}
	for _, id := range participants {
		if err := h.SendToTrainer(id, msg); err != nil {
			fmt.Printf("[Hub] Error sending %s to %s: %v\n", event, id, err)
		}
	}
}

func (h *Hub) GetConnectedTrainerIDs() []uuid.UUID {
	h.mu.RLock()
	defer h.mu.RUnlock()

	ids := make([]uuid.UUID, 0, len(h.connections))
	for id := range h.connections {
		ids = append(ids, id)
	}
	return ids
}
