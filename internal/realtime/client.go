package realtime

import (
	"log"
	"time"

	"github.com/fasthttp/websocket"
	"github.com/google/uuid"
)

const (
	// Максимальное время ожидания для pong от клиента
	pongWait = 60 * time.Second

	// Отправлять ping-сообщения клиенту с этим интервалом
	pingPeriod = (pongWait * 9) / 10

	// Максимальный размер сообщения от клиента
	maxMessageSize = 4 * 1024

	// Размер буфера для отправляемых событий
	sendBufferSize = 256
)

// Client представляет собой отдельное WebSocket соединение
type Client struct {
	ID     uuid.UUID
	UserID string
	conn   *websocket.Conn
	send   chan []byte
	hub    *Hub
	done   chan struct{}
}

// NewClient создает новый экземпляр Client
func NewClient(userID string, conn *websocket.Conn, hub *Hub) *Client {
	return &Client{
		ID:     uuid.New(),
		UserID: userID,
		conn:   conn,
		send:   make(chan []byte, sendBufferSize),
		hub:    hub,
		done:   make(chan struct{}),
	}
}

// Run регистрирует клиента и обслуживает соединение до отключения
func (c *Client) Run() {
	c.hub.AddClient(c)

	go c.writePump()
	c.readPump() // Блокируется до закрытия соединения
}

// Close закрывает соединение клиента
func (c *Client) Close() {
	select {
	case <-c.done:
		// Уже закрыто
	default:
		close(c.done)
		c.conn.Close()
	}
}

// readPump читает входящие кадры: клиенты шины ничего не публикуют,
// чтение нужно только для обработки pong и закрытия
func (c *Client) readPump() {
	defer func() {
		c.hub.RemoveClient(c.ID)
		c.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("WebSocket read error for client %s: %v", c.ID, err)
			}
			return
		}
	}
}

// writePump отправляет события из очереди и поддерживает соединение ping-ами
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.Close()
	}()

	for {
		select {
		case event, ok := <-c.send:
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			if err := c.conn.WriteMessage(websocket.TextMessage, event); err != nil {
				log.Printf("WebSocket write error for client %s: %v", c.ID, err)
				return
			}

		case <-ticker.C:
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}

		case <-c.done:
			return
		}
	}
}
