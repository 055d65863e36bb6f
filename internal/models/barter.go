package models

import (
	"time"

	"github.com/google/uuid"
)

// BarterStatus описывает статус предложения обмена
type BarterStatus string

const (
	BarterInquiry   BarterStatus = "inquiry"
	BarterPending   BarterStatus = "pending"
	BarterAccepted  BarterStatus = "accepted"
	BarterRejected  BarterStatus = "rejected"
	BarterCompleted BarterStatus = "completed"
)

// barterTransitions задаёт допустимые переходы статусов.
// Запрос без предложенного товара (inquiry) открывает переписку и
// становится pending, когда отправитель прикрепляет свой товар.
// Отмена предложения отправителем реализована как удаление записи,
// а не как отдельный статус.
var barterTransitions = map[BarterStatus][]BarterStatus{
	BarterInquiry:  {BarterPending, BarterRejected},
	BarterPending:  {BarterAccepted, BarterRejected},
	BarterAccepted: {BarterCompleted},
}

// ParseBarterStatus проверяет и нормализует статус обмена
func ParseBarterStatus(s string) (BarterStatus, bool) {
	switch BarterStatus(s) {
	case BarterInquiry, BarterPending, BarterAccepted, BarterRejected, BarterCompleted:
		return BarterStatus(s), true
	}
	return "", false
}

// CanTransition сообщает, допустим ли переход из текущего статуса в целевой
func (s BarterStatus) CanTransition(to BarterStatus) bool {
	for _, next := range barterTransitions[s] {
		if next == to {
			return true
		}
	}
	return false
}

// ChatOpen сообщает, можно ли ещё отправлять сообщения по этому обмену
func (s BarterStatus) ChatOpen() bool {
	return s != BarterRejected && s != BarterCompleted
}

// BarterRequest представляет предложение обмена одного товара на другой.
// OfferedProductID пуст у запроса-расспроса (inquiry), пока отправитель
// не прикрепил свой товар
type BarterRequest struct {
	ID                 uuid.UUID    `json:"id"`
	RequesterID        uuid.UUID    `json:"requester_id"`
	OwnerID            uuid.UUID    `json:"owner_id"`
	RequestedProductID uuid.UUID    `json:"requested_product_id"`
	OfferedProductID   *uuid.UUID   `json:"offered_product_id,omitempty"`
	Status             BarterStatus `json:"status"`
	CreatedAt          time.Time    `json:"created_at"`
	UpdatedAt          time.Time    `json:"updated_at"`

	// Дополнительные поля для API
	RequestedProduct *Product `json:"requested_product,omitempty"`
	OfferedProduct   *Product `json:"offered_product,omitempty"`
	Requester        *Profile `json:"requester,omitempty"`
	Owner            *Profile `json:"owner,omitempty"`
}
