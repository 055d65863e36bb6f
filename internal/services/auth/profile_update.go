package auth

import (
	"log"
	"strings"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"

	"github.com/swaply/barter-api/internal/db"
)

// profileUpdate содержит изменяемые поля профиля; отсутствующие
// в запросе поля остаются прежними
type profileUpdate struct {
	FullName  *string `json:"full_name"`
	Email     *string `json:"email"`
	AvatarURL *string `json:"avatar_url"`
}

// normalize обрезает пробелы и сообщает, задано ли хоть одно поле
func (u *profileUpdate) normalize() bool {
	changed := false
	for _, field := range []**string{&u.FullName, &u.Email, &u.AvatarURL} {
		if *field == nil {
			continue
		}
		trimmed := strings.TrimSpace(**field)
		*field = &trimmed
		changed = true
	}
	return changed
}

// UpdateProfile обновляет данные профиля текущего пользователя
// (имя, email, аватар — URL из /api/upload)
func (s *AuthService) UpdateProfile(c fiber.Ctx) error {
	userID := c.Locals("userID").(string)
	if userID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Пользователь не авторизован"})
	}

	userUUID, err := uuid.Parse(userID)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Неверный формат ID пользователя"})
	}

	var payload profileUpdate
	if err := c.Bind().Body(&payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Неверный формат данных"})
	}

	if !payload.normalize() {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Не указано ни одного поля для обновления"})
	}

	profile, err := db.UpdateProfile(userUUID, payload.FullName, payload.Email, payload.AvatarURL)
	if err != nil {
		log.Printf("Ошибка обновления профиля %s: %v", userUUID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Ошибка обновления профиля"})
	}

	return c.JSON(fiber.Map{
		"success": true,
		"user":    profile,
	})
}
