package models

import (
	"time"

	"github.com/google/uuid"
)

// Profile представляет профиль пользователя
type Profile struct {
	ID         uuid.UUID `json:"id"`
	TelegramID int64     `json:"-"`
	Username   string    `json:"username,omitempty"`
	FullName   string    `json:"full_name,omitempty"`
	Email      string    `json:"email,omitempty"`
	AvatarURL  string    `json:"avatar_url,omitempty"`
	PushToken  string    `json:"-"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}
