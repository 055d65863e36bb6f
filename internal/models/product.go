package models

import (
	"time"

	"github.com/google/uuid"
)

// Condition описывает состояние товара
type Condition string

const (
	ConditionNew     Condition = "new"
	ConditionLikeNew Condition = "used_like_new"
	ConditionGood    Condition = "used_good"
	ConditionFair    Condition = "used_fair"
)

// ParseCondition проверяет и нормализует состояние товара
func ParseCondition(s string) (Condition, bool) {
	switch Condition(s) {
	case ConditionNew, ConditionLikeNew, ConditionGood, ConditionFair:
		return Condition(s), true
	}
	return "", false
}

// Product представляет товар в каталоге
type Product struct {
	ID          uuid.UUID `json:"id"`
	UserID      uuid.UUID `json:"user_id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	CategoryID  uuid.UUID `json:"category_id"`
	Condition   Condition `json:"condition"`
	Images      []string  `json:"images"`
	Rating      int       `json:"rating"`
	CreatedAt   time.Time `json:"created_at"`

	// Дополнительные поля для API
	Owner *Profile `json:"owner,omitempty"`
}

// Category представляет категорию товаров
type Category struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
	Icon string    `json:"icon,omitempty"`
}
