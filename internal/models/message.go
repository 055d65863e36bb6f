package models

import (
	"time"

	"github.com/google/uuid"
)

// Message представляет сообщение в переписке по обмену
type Message struct {
	ID              uuid.UUID `json:"id"`
	BarterRequestID uuid.UUID `json:"barter_request_id"`
	SenderID        uuid.UUID `json:"sender_id"`
	Content         string    `json:"content"`
	CreatedAt       time.Time `json:"created_at"`

	// Дополнительные поля для API
	Sender *Profile `json:"sender,omitempty"`
}

// BarterThread представляет строку списка переписок: обмен плюс
// метаданные последнего сообщения (аналог barter_messages_view)
type BarterThread struct {
	BarterRequestID       uuid.UUID    `json:"barter_request_id"`
	Status                BarterStatus `json:"status"`
	RequesterID           uuid.UUID    `json:"requester_id"`
	OwnerID               uuid.UUID    `json:"owner_id"`
	RequesterName         string       `json:"requester_name"`
	OwnerName             string       `json:"owner_name"`
	RequestedProductName  string       `json:"requested_product_name"`
	RequestedProductImage string       `json:"requested_product_image,omitempty"`
	OfferedProductName    string       `json:"offered_product_name"`
	OfferedProductImage   string       `json:"offered_product_image,omitempty"`
	LatestMessage         string       `json:"latest_message,omitempty"`
	LatestMessageSender   *uuid.UUID   `json:"latest_message_sender,omitempty"`
	LatestMessageTime     *time.Time   `json:"latest_message_time,omitempty"`
}
