package models

import (
	"time"

	"github.com/google/uuid"
)

// FavoriteProduct представляет закладку пользователя на товар
type FavoriteProduct struct {
	ID        uuid.UUID `json:"id"`
	UserID    uuid.UUID `json:"user_id"`
	ProductID uuid.UUID `json:"product_id"`
	CreatedAt time.Time `json:"created_at"`

	// Дополнительные поля для API
	Product *Product `json:"product,omitempty"`
}
