package realtime

import (
	"encoding/json"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHubAddRemoveClient(t *testing.T) {
	hub := NewHub()

	client := NewClient("user-1", nil, hub)
	hub.AddClient(client)

	hub.clientsMutex.RLock()
	_, exists := hub.clients[client.ID]
	hub.clientsMutex.RUnlock()
	assert.True(t, exists)

	hub.userMutex.RLock()
	assert.True(t, hub.userClients["user-1"][client.ID])
	hub.userMutex.RUnlock()

	hub.RemoveClient(client.ID)

	hub.clientsMutex.RLock()
	_, exists = hub.clients[client.ID]
	hub.clientsMutex.RUnlock()
	assert.False(t, exists)

	// Пустая запись пользователя тоже удаляется
	hub.userMutex.RLock()
	_, exists = hub.userClients["user-1"]
	hub.userMutex.RUnlock()
	assert.False(t, exists)
}

func TestHubSendToUser(t *testing.T) {
	hub := NewHub()

	client := NewClient("user-1", nil, hub)
	other := NewClient("user-2", nil, hub)
	hub.AddClient(client)
	hub.AddClient(other)

	hub.SendToUser("user-1", Event{
		Type:            EventBarterStatus,
		BarterRequestID: "b-1",
		Payload:         json.RawMessage(`{"status":"accepted"}`),
	})

	select {
	case raw := <-client.send:
		var event Event
		require.NoError(t, json.Unmarshal(raw, &event))
		assert.Equal(t, EventBarterStatus, event.Type)
		assert.Equal(t, "b-1", event.BarterRequestID)
		assert.False(t, event.Timestamp.IsZero())
	default:
		t.Fatal("событие не доставлено клиенту")
	}

	// Чужой клиент ничего не получает
	assert.Empty(t, other.send)
}

func TestHubSendToUserMultipleConnections(t *testing.T) {
	hub := NewHub()

	first := NewClient("user-1", nil, hub)
	second := NewClient("user-1", nil, hub)
	hub.AddClient(first)
	hub.AddClient(second)

	hub.NotifyParticipants("user-1", "user-2", Event{Type: EventMessageNew})

	// Каждое соединение пользователя получает свою копию события
	assert.Len(t, first.send, 1)
	assert.Len(t, second.send, 1)
}

func TestHubSendDuringDisconnect(t *testing.T) {
	hub := NewHub()

	clients := make([]*Client, 50)
	for i := range clients {
		clients[i] = NewClient("user-1", nil, hub)
		hub.AddClient(clients[i])
	}

	// Доставка событий не должна гоняться с отключением соединений
	// того же пользователя (проверяется под -race)
	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		for i := 0; i < 100; i++ {
			hub.SendToUser("user-1", Event{Type: EventMessageNew})
		}
	}()

	go func() {
		defer wg.Done()
		for _, client := range clients {
			hub.RemoveClient(client.ID)
		}
	}()

	wg.Wait()
}

func TestHubSendToUnknownUser(t *testing.T) {
	hub := NewHub()

	// Отправка офлайн-пользователю не должна паниковать
	hub.SendToUser("ghost", Event{Type: EventMessageNew})
	hub.SendToUser("", Event{Type: EventMessageNew})
}
