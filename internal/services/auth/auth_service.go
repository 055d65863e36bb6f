package auth

import (
	"log"
	"strings"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
	initdata "github.com/telegram-mini-apps/init-data-golang"

	"github.com/swaply/barter-api/internal/config"
	"github.com/swaply/barter-api/internal/db"
	"github.com/swaply/barter-api/internal/utils"
)

// AuthService – структура для обработки авторизации
type AuthService struct {
	cfg        *config.Config
	jwtService *utils.JWTService
}

// NewAuthService – конструктор AuthService
func NewAuthService(cfg *config.Config) *AuthService {
	return &AuthService{
		cfg:        cfg,
		jwtService: utils.NewJWTService(cfg.JWTSecret),
	}
}

// TelegramAuthHandler проверяет initData, создает профиль и возвращает JWT
func (s *AuthService) TelegramAuthHandler(c fiber.Ctx) error {
	var payload struct {
		InitData string `json:"init_data"`
	}

	if err := c.Bind().Body(&payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request"})
	}

	// Проверяем initData
	expiration := 24 * time.Hour
	if err := initdata.Validate(payload.InitData, s.cfg.TelegramBotToken, expiration); err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid Telegram data"})
	}

	// Парсим данные
	data, err := initdata.Parse(payload.InitData)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Failed to parse initData"})
	}

	fullName := strings.TrimSpace(data.User.FirstName + " " + data.User.LastName)

	// Создаем или обновляем профиль пользователя
	profile, err := db.UpsertTelegramProfile(data.User.ID, data.User.Username, fullName, data.User.PhotoURL)
	if err != nil {
		log.Printf("Ошибка создания профиля: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to create profile"})
	}

	// Генерируем JWT
	jwtToken, err := s.jwtService.GenerateToken(profile.ID.String())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to generate JWT"})
	}

	return c.JSON(fiber.Map{
		"token": jwtToken,
		"user":  profile,
	})
}

// GetProfile возвращает профиль текущего пользователя
func (s *AuthService) GetProfile(c fiber.Ctx) error {
	userID := c.Locals("userID").(string)
	if userID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Пользователь не авторизован"})
	}

	userUUID, err := uuid.Parse(userID)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Неверный формат ID пользователя"})
	}

	profile, err := db.GetProfileByID(userUUID)
	if err != nil {
		log.Printf("Ошибка получения профиля %s: %v", userUUID, err)
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Профиль не найден"})
	}

	return c.JSON(fiber.Map{
		"user": profile,
	})
}

// UpdatePushToken сохраняет Expo push-токен пользователя
func (s *AuthService) UpdatePushToken(c fiber.Ctx) error {
	userID := c.Locals("userID").(string)
	if userID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Пользователь не авторизован"})
	}

	userUUID, err := uuid.Parse(userID)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Неверный формат ID пользователя"})
	}

	var payload struct {
		PushToken string `json:"push_token"`
	}

	if err := c.Bind().Body(&payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Неверный формат данных"})
	}

	if err := db.SetPushToken(userUUID, payload.PushToken); err != nil {
		log.Printf("Ошибка сохранения push-токена: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Ошибка сохранения токена"})
	}

	return c.JSON(fiber.Map{"success": true})
}
