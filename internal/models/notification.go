package models

import (
	"time"

	"github.com/google/uuid"
)

// NotificationBarterMessage — тип уведомления о новом сообщении по обмену
const NotificationBarterMessage = "barter_message"

// Notification представляет сохранённое уведомление пользователя
type Notification struct {
	ID        uuid.UUID        `json:"id"`
	UserID    uuid.UUID        `json:"user_id"`
	Type      string           `json:"type"`
	Data      NotificationData `json:"data"`
	Read      bool             `json:"read"`
	CreatedAt time.Time        `json:"created_at"`
}

// NotificationData содержит полезную нагрузку уведомления
type NotificationData struct {
	BarterID   uuid.UUID `json:"barter_id"`
	Message    string    `json:"message"`
	SenderName string    `json:"sender_name"`
}
