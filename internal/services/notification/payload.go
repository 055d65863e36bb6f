package notification

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/swaply/barter-api/internal/models"
)

// MessageWebhookPayload представляет тело вебхука о новом сообщении
type MessageWebhookPayload struct {
	Record MessageRecord `json:"record"`
}

// MessageRecord описывает вставленное сообщение
type MessageRecord struct {
	BarterRequestID uuid.UUID `json:"barter_request_id"`
	SenderID        uuid.UUID `json:"sender_id"`
	Content         string    `json:"content"`
}

// recipientOf возвращает участника обмена, который не является отправителем
func recipientOf(barter *models.BarterRequest, senderID uuid.UUID) uuid.UUID {
	if barter.RequesterID == senderID {
		return barter.OwnerID
	}
	return barter.RequesterID
}

// pushTitle формирует заголовок push-уведомления о сообщении
func pushTitle(productName string) string {
	return fmt.Sprintf("New message about %s", productName)
}

// pushBody формирует текст push-уведомления о сообщении
func pushBody(senderName, content string) string {
	return fmt.Sprintf("%s: %s", senderName, content)
}
