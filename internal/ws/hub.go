package ws

import (
	"encoding/json"
	"sync"

	"github.com/google/uuid"

	"github.com/ignatzorin/payouts-backend/internal/logger"
)

// Hub управляет WebSocket клиентами, сгруппированными по владельцу.
// Используется для push-уведомлений о смене статуса заявок: UI не обязан
// опрашивать список выводов, события приходят сами.
type Hub struct {
	mu         sync.RWMutex
	clients    map[string]map[*Client]struct{}
	register   chan *Client
	unregister chan *Client
	broadcast  chan message
}

type message struct {
	ownerID string
	payload []byte
}

// NewHub создаёт новый хаб.
func NewHub() *Hub {
	return &Hub{
		clients:    make(map[string]map[*Client]struct{}),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan message, 32),
	}
}

// Run запускает главный цикл хаба.
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.addClient(client)
		case client := <-h.unregister:
			h.removeClient(client)
		case msg := <-h.broadcast:
			h.send(msg.ownerID, msg.payload)
		}
	}
}

// Register добавляет клиента.
func (h *Hub) Register(client *Client) {
	h.register <- client
}

// Unregister удаляет клиента.
func (h *Hub) Unregister(client *Client) {
	h.unregister <- client
}

// NotifyStatusChange отправляет владельцу событие о смене статуса заявки.
// Реализует service.StatusNotifier; доставка best-effort.
func (h *Hub) NotifyStatusChange(ownerID string, withdrawalID uuid.UUID, status string) {
	payload := map[string]any{
		"type": "withdrawal.status_changed",
		"data": map[string]any{
			"withdrawal_id": withdrawalID.String(),
			"status":        status,
		},
	}
	raw, err := json.Marshal(payload)
	if err != nil {
		logger.Log.WithError(err).Error("ws: не удалось сериализовать уведомление")
		return
	}

	select {
	case h.broadcast <- message{ownerID: ownerID, payload: raw}:
	default:
		logger.Log.WithField("owner_id", ownerID).Warn("ws: буфер уведомлений переполнен, сообщение отброшено")
	}
}

func (h *Hub) addClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.clients[client.ownerID]; !ok {
		h.clients[client.ownerID] = make(map[*Client]struct{})
	}
	h.clients[client.ownerID][client] = struct{}{}
}

func (h *Hub) removeClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if clients, ok := h.clients[client.ownerID]; ok {
		delete(clients, client)
		if len(clients) == 0 {
			delete(h.clients, client.ownerID)
		}
	}
}

func (h *Hub) send(ownerID string, payload []byte) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for client := range h.clients[ownerID] {
		select {
		case client.send <- payload:
		default:
			// Медленный клиент: закрываем соединение, не блокируя остальных.
			go client.Close()
		}
	}
}
