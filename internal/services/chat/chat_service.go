package chat

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/swaply/barter-api/internal/config"
	"github.com/swaply/barter-api/internal/db"
	"github.com/swaply/barter-api/internal/models"
	"github.com/swaply/barter-api/internal/realtime"
	"github.com/swaply/barter-api/internal/utils"
)

// ChatService представляет сервис переписки по предложениям обмена
type ChatService struct {
	cfg        *config.Config
	jwtService *utils.JWTService
	hub        *realtime.Hub
}

// NewChatService создает новый экземпляр ChatService
func NewChatService(cfg *config.Config, hub *realtime.Hub) *ChatService {
	return &ChatService{
		cfg:        cfg,
		jwtService: utils.NewJWTService(cfg.JWTSecret),
		hub:        hub,
	}
}

// GetMessages возвращает сообщения по предложению обмена
func (s *ChatService) GetMessages(c fiber.Ctx) error {
	userID := c.Locals("userID").(string)
	barterID := c.Params("id")

	if userID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Пользователь не авторизован"})
	}

	userUUID, err := uuid.Parse(userID)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Неверный формат ID пользователя"})
	}

	barterUUID, err := uuid.Parse(barterID)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Неверный формат ID предложения обмена"})
	}

	ctx, cancel := db.GetContext()
	defer cancel()

	// Проверяем, что пользователь участвует в этом обмене
	if _, err := s.loadBarterForParticipant(ctx, barterUUID, userUUID); err != nil {
		return s.respondBarterError(c, err)
	}

	// Получаем сообщения, новые первыми
	limit := 50

	before := c.Query("before")
	var query string
	var queryArgs []interface{}

	if before != "" {
		beforeUUID, err := uuid.Parse(before)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Неверный формат ID сообщения"})
		}

		query = `
            SELECT m.id, m.barter_request_id, m.sender_id, m.content, m.created_at
            FROM messages m
            WHERE m.barter_request_id = $1
              AND m.created_at < (SELECT created_at FROM messages WHERE id = $2)
            ORDER BY m.created_at DESC
            LIMIT $3
        `
		queryArgs = []interface{}{barterUUID, beforeUUID, limit}
	} else {
		query = `
            SELECT m.id, m.barter_request_id, m.sender_id, m.content, m.created_at
            FROM messages m
            WHERE m.barter_request_id = $1
            ORDER BY m.created_at DESC
            LIMIT $2
        `
		queryArgs = []interface{}{barterUUID, limit}
	}

	rows, err := db.Pool.Query(ctx, query, queryArgs...)
	if err != nil {
		log.Printf("Ошибка запроса сообщений: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Ошибка получения сообщений"})
	}
	defer rows.Close()

	var messages []models.Message
	for rows.Next() {
		var msg models.Message
		if err := rows.Scan(
			&msg.ID,
			&msg.BarterRequestID,
			&msg.SenderID,
			&msg.Content,
			&msg.CreatedAt,
		); err != nil {
			log.Printf("Ошибка сканирования сообщения: %v", err)
			continue
		}

		msg.Sender = getProfileInfo(ctx, msg.SenderID)
		messages = append(messages, msg)
	}

	return c.JSON(fiber.Map{
		"messages": messages,
		"has_more": len(messages) == limit,
	})
}

// SendMessage отправляет новое сообщение по предложению обмена
func (s *ChatService) SendMessage(c fiber.Ctx) error {
	userID := c.Locals("userID").(string)
	barterID := c.Params("id")

	if userID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Пользователь не авторизован"})
	}

	userUUID, err := uuid.Parse(userID)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Неверный формат ID пользователя"})
	}

	barterUUID, err := uuid.Parse(barterID)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Неверный формат ID предложения обмена"})
	}

	// Получаем данные запроса
	var requestData struct {
		Content string `json:"content"`
	}

	if err := c.Bind().Body(&requestData); err != nil {
		log.Printf("Ошибка чтения тела запроса: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Неверный формат данных"})
	}

	if requestData.Content == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Текст сообщения не может быть пустым"})
	}

	ctx, cancel := db.GetContext()
	defer cancel()

	barter, err := s.loadBarterForParticipant(ctx, barterUUID, userUUID)
	if err != nil {
		return s.respondBarterError(c, err)
	}

	// Переписка по отклоненному или завершенному обмену закрыта
	if !barter.Status.ChatOpen() {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Переписка по этому обмену закрыта"})
	}

	// Создаем новое сообщение
	messageID := uuid.New()
	now := time.Now()

	_, err = db.Pool.Exec(ctx, `
        INSERT INTO messages (id, barter_request_id, sender_id, content, created_at)
        VALUES ($1, $2, $3, $4, $5)
    `, messageID, barterUUID, userUUID, requestData.Content, now)

	if err != nil {
		log.Printf("Ошибка создания сообщения: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Ошибка сохранения сообщения"})
	}

	// Создаем объект сообщения для ответа
	message := models.Message{
		ID:              messageID,
		BarterRequestID: barterUUID,
		SenderID:        userUUID,
		Content:         requestData.Content,
		CreatedAt:       now,
		Sender:          getProfileInfo(ctx, userUUID),
	}

	// Публикуем событие обеим сторонам: у отправителя могут быть
	// открыты другие устройства
	payload, _ := json.Marshal(message)
	s.hub.NotifyParticipants(barter.RequesterID.String(), barter.OwnerID.String(), realtime.Event{
		Type:            realtime.EventMessageNew,
		BarterRequestID: barterUUID.String(),
		UserID:          userID,
		Payload:         payload,
	})

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": message,
		"success": true,
	})
}

var (
	errBarterNotFound = errors.New("barter request not found")
	errNotParticipant = errors.New("user is not a participant")
)

// loadBarterForParticipant загружает предложение обмена и проверяет,
// что пользователь является его участником
func (s *ChatService) loadBarterForParticipant(ctx context.Context, barterID, userID uuid.UUID) (*models.BarterRequest, error) {
	var barter models.BarterRequest
	err := db.Pool.QueryRow(ctx, `
        SELECT id, requester_id, owner_id, status
        FROM barter_requests
        WHERE id = $1
    `, barterID).Scan(&barter.ID, &barter.RequesterID, &barter.OwnerID, &barter.Status)

	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, errBarterNotFound
		}
		log.Printf("Ошибка запроса предложения обмена: %v", err)
		return nil, err
	}

	if barter.RequesterID != userID && barter.OwnerID != userID {
		return nil, errNotParticipant
	}

	return &barter, nil
}

// respondBarterError переводит ошибку доступа к обмену в HTTP-ответ
func (s *ChatService) respondBarterError(c fiber.Ctx, err error) error {
	switch err {
	case errBarterNotFound:
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Предложение обмена не найдено"})
	case errNotParticipant:
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "У вас нет доступа к этой переписке"})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Ошибка получения предложения обмена"})
	}
}

// getProfileInfo получает базовую информацию об отправителе
func getProfileInfo(ctx context.Context, profileID uuid.UUID) *models.Profile {
	var profile models.Profile
	err := db.Pool.QueryRow(ctx, `
        SELECT id, COALESCE(username, ''), COALESCE(full_name, ''), COALESCE(avatar_url, '')
        FROM profiles
        WHERE id = $1
    `, profileID).Scan(
		&profile.ID,
		&profile.Username,
		&profile.FullName,
		&profile.AvatarURL,
	)

	if err != nil {
		log.Printf("Ошибка получения данных пользователя %s: %v", profileID, err)
		return nil
	}

	return &profile
}
