package notification

import (
	"log"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/swaply/barter-api/internal/config"
	"github.com/swaply/barter-api/internal/db"
	"github.com/swaply/barter-api/internal/models"
	"github.com/swaply/barter-api/internal/push"
	"github.com/swaply/barter-api/internal/utils"
)

// NotificationService обрабатывает вебхуки о сообщениях и хранит уведомления
type NotificationService struct {
	cfg        *config.Config
	jwtService *utils.JWTService
	sender     push.Sender
}

// NewNotificationService создает новый экземпляр NotificationService
func NewNotificationService(cfg *config.Config, sender push.Sender) *NotificationService {
	return &NotificationService{
		cfg:        cfg,
		jwtService: utils.NewJWTService(cfg.JWTSecret),
		sender:     sender,
	}
}

// HandleMessageWebhook обрабатывает вебхук о новом сообщении:
// сохраняет уведомление получателю и отправляет push через Expo
func (s *NotificationService) HandleMessageWebhook(c fiber.Ctx) error {
	var payload MessageWebhookPayload
	if err := c.Bind().Body(&payload); err != nil {
		log.Printf("Ошибка чтения тела вебхука: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Неверный формат данных"})
	}

	record := payload.Record
	if record.BarterRequestID == uuid.Nil || record.SenderID == uuid.Nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Неверный формат данных"})
	}

	ctx, cancel := db.GetContext()
	defer cancel()

	// Загружаем обмен вместе с названием запрошенного товара
	var barter models.BarterRequest
	var productName string

	err := db.Pool.QueryRow(ctx, `
        SELECT b.id, b.requester_id, b.owner_id, b.status, p.name
        FROM barter_requests b
        JOIN products p ON p.id = b.requested_product_id
        WHERE b.id = $1
    `, record.BarterRequestID).Scan(
		&barter.ID,
		&barter.RequesterID,
		&barter.OwnerID,
		&barter.Status,
		&productName,
	)

	if err != nil {
		if err == pgx.ErrNoRows {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Barter not found"})
		}
		log.Printf("Ошибка запроса предложения обмена: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Ошибка обработки вебхука"})
	}

	recipientID := recipientOf(&barter, record.SenderID)

	// Имя отправителя для текста уведомления
	var senderName string
	err = db.Pool.QueryRow(ctx, `
        SELECT COALESCE(NULLIF(full_name, ''), username, 'Someone')
        FROM profiles
        WHERE id = $1
    `, record.SenderID).Scan(&senderName)
	if err != nil {
		log.Printf("Ошибка получения имени отправителя %s: %v", record.SenderID, err)
		senderName = "Someone"
	}

	// Сохраняем уведомление всегда, даже если push не уйдет
	notificationID := uuid.New()
	_, err = db.Pool.Exec(ctx, `
        INSERT INTO notifications (id, user_id, type, data, read)
        VALUES ($1, $2, $3, $4, false)
    `, notificationID, recipientID, models.NotificationBarterMessage, models.NotificationData{
		BarterID:   barter.ID,
		Message:    record.Content,
		SenderName: senderName,
	})
	if err != nil {
		log.Printf("Ошибка сохранения уведомления: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Ошибка сохранения уведомления"})
	}

	// Ошибка доставки push не должна ломать вебхук
	s.sendPush(recipientID, productName, senderName, record)

	return c.JSON(fiber.Map{"success": true})
}

// sendPush отправляет push-уведомление получателю, если у него есть токен
func (s *NotificationService) sendPush(recipientID uuid.UUID, productName, senderName string, record MessageRecord) {
	ctx, cancel := db.GetContext()
	defer cancel()

	var pushToken string
	err := db.Pool.QueryRow(ctx, `
        SELECT COALESCE(push_token, '')
        FROM profiles
        WHERE id = $1
    `, recipientID).Scan(&pushToken)
	if err != nil {
		log.Printf("Ошибка получения push-токена %s: %v", recipientID, err)
		return
	}

	if pushToken == "" {
		return
	}

	err = s.sender.Send(pushToken, pushTitle(productName), pushBody(senderName, record.Content), map[string]string{
		"type":     models.NotificationBarterMessage,
		"barterId": record.BarterRequestID.String(),
		"senderId": record.SenderID.String(),
	})
	if err != nil {
		log.Printf("⚠️ Ошибка отправки push-уведомления: %v", err)
	}
}

// GetNotifications возвращает уведомления текущего пользователя
func (s *NotificationService) GetNotifications(c fiber.Ctx) error {
	userID := c.Locals("userID").(string)
	if userID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Пользователь не авторизован"})
	}

	userUUID, err := uuid.Parse(userID)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Неверный формат ID пользователя"})
	}

	limit, offset := utils.ParsePagination(c.Query("limit", "20"), c.Query("offset", "0"), 20, 100)

	ctx, cancel := db.GetContext()
	defer cancel()

	rows, err := db.Pool.Query(ctx, `
        SELECT id, user_id, type, data, read, created_at
        FROM notifications
        WHERE user_id = $1
        ORDER BY created_at DESC
        LIMIT $2 OFFSET $3
    `, userUUID, limit, offset)
	if err != nil {
		log.Printf("Ошибка запроса уведомлений: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Ошибка получения уведомлений"})
	}
	defer rows.Close()

	var notifications []models.Notification
	for rows.Next() {
		var n models.Notification
		if err := rows.Scan(&n.ID, &n.UserID, &n.Type, &n.Data, &n.Read, &n.CreatedAt); err != nil {
			log.Printf("Ошибка сканирования уведомления: %v", err)
			continue
		}
		notifications = append(notifications, n)
	}

	return c.JSON(fiber.Map{
		"notifications": notifications,
	})
}

// MarkNotificationRead помечает уведомление прочитанным
func (s *NotificationService) MarkNotificationRead(c fiber.Ctx) error {
	userID := c.Locals("userID").(string)
	notificationID := c.Params("id")

	if userID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Пользователь не авторизован"})
	}

	userUUID, err := uuid.Parse(userID)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Неверный формат ID пользователя"})
	}

	notificationUUID, err := uuid.Parse(notificationID)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Неверный формат ID уведомления"})
	}

	ctx, cancel := db.GetContext()
	defer cancel()

	result, err := db.Pool.Exec(ctx, `
        UPDATE notifications
        SET read = true
        WHERE id = $1 AND user_id = $2
    `, notificationUUID, userUUID)
	if err != nil {
		log.Printf("Ошибка обновления уведомления: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Ошибка обновления уведомления"})
	}

	if result.RowsAffected() == 0 {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Уведомление не найдено"})
	}

	return c.JSON(fiber.Map{"success": true})
}
