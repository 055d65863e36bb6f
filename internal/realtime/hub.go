package realtime

import (
	"context"
	"encoding/json"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Hub представляет центральную шину realtime-событий: все WebSocket
// соединения регистрируются здесь, публикации адресуются пользователям
type Hub struct {
	clients      map[uuid.UUID]*Client
	clientsMutex sync.RWMutex
	userClients  map[string]map[uuid.UUID]bool // userID -> map[clientID]bool
	userMutex    sync.RWMutex
	ctx          context.Context
	cancel       context.CancelFunc
}

// EventType определяет тип события шины
type EventType string

const (
	EventMessageNew   EventType = "message:new"
	EventBarterStatus EventType = "barter:status"
	EventConnected    EventType = "connected"
)

// Event представляет типизированное событие для подписчиков
type Event struct {
	Type            EventType       `json:"type"`
	BarterRequestID string          `json:"barter_request_id,omitempty"`
	UserID          string          `json:"user_id,omitempty"`
	Timestamp       time.Time       `json:"timestamp"`
	Payload         json.RawMessage `json:"payload,omitempty"`
}

// NewHub создает новый экземпляр Hub
func NewHub() *Hub {
	ctx, cancel := context.WithCancel(context.Background())
	return &Hub{
		clients:     make(map[uuid.UUID]*Client),
		userClients: make(map[string]map[uuid.UUID]bool),
		ctx:         ctx,
		cancel:      cancel,
	}
}

// AddClient регистрирует нового клиента
func (h *Hub) AddClient(client *Client) {
	h.clientsMutex.Lock()
	h.clients[client.ID] = client
	h.clientsMutex.Unlock()

	// Связываем клиент с пользователем
	h.userMutex.Lock()
	if _, exists := h.userClients[client.UserID]; !exists {
		h.userClients[client.UserID] = make(map[uuid.UUID]bool)
	}
	h.userClients[client.UserID][client.ID] = true
	h.userMutex.Unlock()

	log.Printf("WebSocket client %s connected for user %s", client.ID, client.UserID)
}

// RemoveClient удаляет клиента
func (h *Hub) RemoveClient(clientID uuid.UUID) {
	h.clientsMutex.RLock()
	client, exists := h.clients[clientID]
	h.clientsMutex.RUnlock()

	if !exists {
		return
	}

	userID := client.UserID

	// Удаляем клиент из связи с пользователем
	h.userMutex.Lock()
	if clients, ok := h.userClients[userID]; ok {
		delete(clients, clientID)
		if len(clients) == 0 {
			delete(h.userClients, userID)
		}
	}
	h.userMutex.Unlock()

	h.clientsMutex.Lock()
	delete(h.clients, clientID)
	h.clientsMutex.Unlock()

	log.Printf("WebSocket client %s disconnected for user %s", clientID, userID)
}

// SendToUser отправляет событие всем соединениям конкретного пользователя.
// Если у пользователя открыто несколько соединений, каждое получает свою
// копию события
func (h *Hub) SendToUser(userID string, event Event) {
	if userID == "" {
		return
	}

	// Снимаем список соединений под блокировкой: по живой map итерироваться
	// нельзя, отключающийся клиент конкурентно удаляет из нее записи
	h.userMutex.RLock()
	clientIDs := make([]uuid.UUID, 0, len(h.userClients[userID]))
	for clientID := range h.userClients[userID] {
		clientIDs = append(clientIDs, clientID)
	}
	h.userMutex.RUnlock()

	if len(clientIDs) == 0 {
		// Пользователь не онлайн, данные он получит при следующем запросе
		return
	}

	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}

	eventJSON, err := json.Marshal(event)
	if err != nil {
		log.Printf("Error marshaling event: %v", err)
		return
	}

	for _, clientID := range clientIDs {
		h.clientsMutex.RLock()
		client, exists := h.clients[clientID]
		h.clientsMutex.RUnlock()

		if !exists {
			continue
		}

		select {
		case client.send <- eventJSON:
			// Событие добавлено в очередь отправки
		default:
			// Канал заполнен, клиент слишком медленный - закрываем соединение
			log.Printf("Send channel full for client %s, closing connection", client.ID)
			client.Close()
			h.RemoveClient(client.ID)
		}
	}
}

// NotifyParticipants отправляет событие обеим сторонам обмена
func (h *Hub) NotifyParticipants(requesterID, ownerID string, event Event) {
	h.SendToUser(requesterID, event)
	h.SendToUser(ownerID, event)
}

// Shutdown корректно завершает работу шины
func (h *Hub) Shutdown() {
	h.cancel()

	h.clientsMutex.Lock()
	for _, client := range h.clients {
		client.Close()
	}
	h.clients = make(map[uuid.UUID]*Client)
	h.clientsMutex.Unlock()

	h.userMutex.Lock()
	h.userClients = make(map[string]map[uuid.UUID]bool)
	h.userMutex.Unlock()
}
