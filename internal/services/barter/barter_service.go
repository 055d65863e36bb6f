package barter

import (
	"context"
	"encoding/json"
	"log"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/swaply/barter-api/internal/config"
	"github.com/swaply/barter-api/internal/db"
	"github.com/swaply/barter-api/internal/models"
	"github.com/swaply/barter-api/internal/realtime"
	"github.com/swaply/barter-api/internal/utils"
)

// BarterService представляет сервис жизненного цикла предложений обмена
type BarterService struct {
	cfg        *config.Config
	jwtService *utils.JWTService
	hub        *realtime.Hub
}

// NewBarterService создает новый экземпляр BarterService
func NewBarterService(cfg *config.Config, hub *realtime.Hub) *BarterService {
	return &BarterService{
		cfg:        cfg,
		jwtService: utils.NewJWTService(cfg.JWTSecret),
		hub:        hub,
	}
}

// CreateBarterRequest создает новое предложение обмена
func (s *BarterService) CreateBarterRequest(c fiber.Ctx) error {
	userID := c.Locals("userID").(string)
	if userID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Пользователь не авторизован"})
	}

	requesterID, err := uuid.Parse(userID)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Неверный формат ID пользователя"})
	}

	// Извлекаем данные из запроса
	var requestData struct {
		RequestedProductID string `json:"requested_product_id"`
		OfferedProductID   string `json:"offered_product_id"`
	}

	if err := c.Bind().Body(&requestData); err != nil {
		log.Printf("Ошибка декодирования тела запроса: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Неверный формат данных"})
	}

	// Запрашиваемый товар обязателен. Предлагаемый можно не указывать:
	// тогда создается запрос-расспрос (inquiry), открывающий переписку
	if requestData.RequestedProductID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Необходимо указать ID запрашиваемого товара"})
	}

	requestedProductID, err := uuid.Parse(requestData.RequestedProductID)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Неверный формат ID запрашиваемого товара"})
	}

	var offeredProductID *uuid.UUID
	if requestData.OfferedProductID != "" {
		parsed, err := uuid.Parse(requestData.OfferedProductID)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Неверный формат ID предлагаемого товара"})
		}
		offeredProductID = &parsed
	}

	ctx, cancel := db.GetContext()
	defer cancel()

	if offeredProductID != nil {
		// Проверяем, что предлагаемый товар принадлежит отправителю
		var offeredOwnerID uuid.UUID
		err = db.Pool.QueryRow(ctx, `
            SELECT user_id FROM products WHERE id = $1
        `, offeredProductID).Scan(&offeredOwnerID)

		if err != nil {
			if err == pgx.ErrNoRows {
				return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Предлагаемый товар не найден"})
			}
			log.Printf("Ошибка запроса предлагаемого товара: %v", err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Ошибка проверки товара"})
		}

		if offeredOwnerID != requesterID {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Вы не можете предложить чужой товар для обмена"})
		}
	}

	// Получаем владельца запрашиваемого товара
	var ownerID uuid.UUID
	err = db.Pool.QueryRow(ctx, `
        SELECT user_id FROM products WHERE id = $1
    `, requestedProductID).Scan(&ownerID)

	if err != nil {
		if err == pgx.ErrNoRows {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Запрашиваемый товар не найден"})
		}
		log.Printf("Ошибка запроса запрашиваемого товара: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Ошибка проверки товара"})
	}

	// Проверяем, что пользователь не предлагает обмен самому себе
	if ownerID == requesterID {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Вы не можете предложить обмен самому себе"})
	}

	status := models.BarterPending
	if offeredProductID == nil {
		status = models.BarterInquiry
	}

	// Вставляем предложение. Дубликат активного предложения на тот же
	// товар отсекается частичным уникальным индексом, а не предварительной
	// проверкой: конкурирующие вставки не могут создать две строки
	barterID := uuid.New()
	tag, err := db.Pool.Exec(ctx, `
        INSERT INTO barter_requests (id, requester_id, owner_id, requested_product_id, offered_product_id, status)
        VALUES ($1, $2, $3, $4, $5, $6)
        ON CONFLICT (requester_id, requested_product_id) WHERE status IN ('inquiry', 'pending') DO NOTHING
    `, barterID, requesterID, ownerID, requestedProductID, offeredProductID, status)

	if err != nil {
		log.Printf("Ошибка создания предложения обмена: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Ошибка сохранения предложения обмена"})
	}

	if tag.RowsAffected() == 0 {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "У вас уже есть активное предложение на этот товар"})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success":   true,
		"barter_id": barterID,
		"status":    status,
		"message":   "Предложение обмена успешно создано",
	})
}

// AttachOffer прикрепляет товар отправителя к запросу-расспросу,
// переводя его из inquiry в pending
func (s *BarterService) AttachOffer(c fiber.Ctx) error {
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

	var requestData struct {
		OfferedProductID string `json:"offered_product_id"`
	}

	if err := c.Bind().Body(&requestData); err != nil {
		log.Printf("Ошибка декодирования тела запроса: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Неверный формат данных"})
	}

	offeredProductID, err := uuid.Parse(requestData.OfferedProductID)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Неверный формат ID предлагаемого товара"})
	}

	ctx, cancel := db.GetContext()
	defer cancel()

	var barter models.BarterRequest
	err = db.Pool.QueryRow(ctx, `
        SELECT id, requester_id, owner_id, status
        FROM barter_requests
        WHERE id = $1
    `, barterUUID).Scan(&barter.ID, &barter.RequesterID, &barter.OwnerID, &barter.Status)

	if err != nil {
		if err == pgx.ErrNoRows {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Предложение обмена не найдено"})
		}
		log.Printf("Ошибка запроса предложения обмена: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Ошибка получения предложения обмена"})
	}

	// Прикрепить товар может только отправитель запроса
	if barter.RequesterID != userUUID {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Только отправитель запроса может прикрепить товар"})
	}

	if !barter.Status.CanTransition(models.BarterPending) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Недопустимый переход статуса из " + string(barter.Status),
		})
	}

	// Проверяем, что предлагаемый товар принадлежит отправителю
	var offeredOwnerID uuid.UUID
	err = db.Pool.QueryRow(ctx, `
        SELECT user_id FROM products WHERE id = $1
    `, offeredProductID).Scan(&offeredOwnerID)

	if err != nil {
		if err == pgx.ErrNoRows {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Предлагаемый товар не найден"})
		}
		log.Printf("Ошибка запроса предлагаемого товара: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Ошибка проверки товара"})
	}

	if offeredOwnerID != userUUID {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Вы не можете предложить чужой товар для обмена"})
	}

	// Охрана по текущему статусу: параллельный запрос не переведет
	// один и тот же расспрос в pending дважды
	tag, err := db.Pool.Exec(ctx, `
        UPDATE barter_requests
        SET offered_product_id = $1, status = 'pending', updated_at = NOW()
        WHERE id = $2 AND status = 'inquiry'
    `, offeredProductID, barterUUID)

	if err != nil {
		log.Printf("Ошибка прикрепления товара к запросу: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Ошибка обновления предложения обмена"})
	}

	if tag.RowsAffected() == 0 {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "Статус предложения уже изменился, обновите список"})
	}

	// Уведомляем обе стороны об изменении статуса
	payload, _ := json.Marshal(fiber.Map{"status": models.BarterPending})
	s.hub.NotifyParticipants(barter.RequesterID.String(), barter.OwnerID.String(), realtime.Event{
		Type:            realtime.EventBarterStatus,
		BarterRequestID: barterUUID.String(),
		UserID:          userID,
		Payload:         payload,
	})

	return c.JSON(fiber.Map{
		"success":   true,
		"barter_id": barterID,
		"status":    models.BarterPending,
	})
}

// GetMyBarterRequests возвращает список входящих и исходящих предложений обмена
func (s *BarterService) GetMyBarterRequests(c fiber.Ctx) error {
	userID := c.Locals("userID").(string)
	if userID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Пользователь не авторизован"})
	}

	userUUID, err := uuid.Parse(userID)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Неверный формат ID пользователя"})
	}

	// Тип предложений (входящие/исходящие/все) и фильтр по статусу
	requestType := c.Query("type", "all") // all, incoming, outgoing
	status := c.Query("status", "all")    // all, inquiry, pending, accepted, rejected, completed

	if status != "all" {
		if _, ok := models.ParseBarterStatus(status); !ok {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Недопустимый статус предложения обмена"})
		}
	}

	ctx, cancel := db.GetContext()
	defer cancel()

	// Формируем запрос в зависимости от типа и статуса
	var where string
	args := []interface{}{userUUID}

	switch requestType {
	case "incoming":
		where = "b.owner_id = $1"
	case "outgoing":
		where = "b.requester_id = $1"
	default:
		where = "(b.requester_id = $1 OR b.owner_id = $1)"
	}

	if status != "all" {
		args = append(args, status)
		where += " AND b.status = $2"
	}

	query := `
        SELECT b.id, b.requester_id, b.owner_id, b.requested_product_id, b.offered_product_id,
               b.status, b.created_at, b.updated_at
        FROM barter_requests b
        WHERE ` + where + `
        ORDER BY b.created_at DESC
    `

	rows, err := db.Pool.Query(ctx, query, args...)
	if err != nil {
		log.Printf("Ошибка запроса предложений обмена: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Ошибка получения предложений обмена"})
	}
	defer rows.Close()

	var barters []models.BarterRequest
	for rows.Next() {
		var barter models.BarterRequest
		if err := rows.Scan(
			&barter.ID,
			&barter.RequesterID,
			&barter.OwnerID,
			&barter.RequestedProductID,
			&barter.OfferedProductID,
			&barter.Status,
			&barter.CreatedAt,
			&barter.UpdatedAt,
		); err != nil {
			log.Printf("Ошибка сканирования строки: %v", err)
			continue
		}

		// Загружаем дополнительную информацию о товарах и пользователях
		barter.RequestedProduct = s.getProductInfo(ctx, barter.RequestedProductID)
		if barter.OfferedProductID != nil {
			barter.OfferedProduct = s.getProductInfo(ctx, *barter.OfferedProductID)
		}
		barter.Requester = s.getProfileInfo(ctx, barter.RequesterID)
		barter.Owner = s.getProfileInfo(ctx, barter.OwnerID)

		barters = append(barters, barter)
	}

	return c.JSON(fiber.Map{
		"barters": barters,
		"count":   len(barters),
	})
}

// UpdateBarterStatus обновляет статус предложения обмена
// (принятие/отклонение/завершение)
func (s *BarterService) UpdateBarterStatus(c fiber.Ctx) error {
	userID := c.Locals("userID").(string)
	if userID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Пользователь не авторизован"})
	}

	barterID := c.Params("id")
	if barterID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "ID предложения обмена не указан"})
	}

	// Получаем новый статус из запроса
	var requestData struct {
		Status string `json:"status"` // accepted, rejected, completed
	}

	if err := c.Bind().Body(&requestData); err != nil {
		log.Printf("Ошибка декодирования тела запроса: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Неверный формат данных"})
	}

	// В inquiry ничего не переводится, а переход в pending идет через
	// прикрепление товара, не через этот маршрут
	newStatus, ok := models.ParseBarterStatus(requestData.Status)
	if !ok || newStatus == models.BarterPending || newStatus == models.BarterInquiry {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Недопустимый статус предложения обмена"})
	}

	barterUUID, err := uuid.Parse(barterID)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Неверный формат ID предложения обмена"})
	}

	userUUID, err := uuid.Parse(userID)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Неверный формат ID пользователя"})
	}

	ctx, cancel := db.GetContext()
	defer cancel()

	// Загружаем текущее состояние предложения
	var barter models.BarterRequest
	err = db.Pool.QueryRow(ctx, `
        SELECT id, requester_id, owner_id, status
        FROM barter_requests
        WHERE id = $1
    `, barterUUID).Scan(&barter.ID, &barter.RequesterID, &barter.OwnerID, &barter.Status)

	if err != nil {
		if err == pgx.ErrNoRows {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Предложение обмена не найдено"})
		}
		log.Printf("Ошибка запроса предложения обмена: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Ошибка получения предложения обмена"})
	}

	isOwner := barter.OwnerID == userUUID
	isRequester := barter.RequesterID == userUUID

	if !isOwner && !isRequester {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Вы не участвуете в этом обмене"})
	}

	if !changeAllowedBy(newStatus, isOwner, isRequester) {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "У вас нет права на этот переход статуса"})
	}

	// Проверяем допустимость перехода по таблице переходов
	if !barter.Status.CanTransition(newStatus) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Недопустимый переход статуса из " + string(barter.Status),
		})
	}

	// Обновляем статус с охраной по текущему значению: если параллельный
	// запрос успел изменить строку, обновление не пройдет
	tag, err := db.Pool.Exec(ctx, `
        UPDATE barter_requests
        SET status = $1, updated_at = NOW()
        WHERE id = $2 AND status = $3
    `, newStatus, barterUUID, barter.Status)

	if err != nil {
		log.Printf("Ошибка обновления статуса предложения: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Ошибка обновления статуса предложения"})
	}

	if tag.RowsAffected() == 0 {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "Статус предложения уже изменился, обновите список"})
	}

	// Уведомляем обе стороны об изменении статуса
	payload, _ := json.Marshal(fiber.Map{"status": newStatus})
	s.hub.NotifyParticipants(barter.RequesterID.String(), barter.OwnerID.String(), realtime.Event{
		Type:            realtime.EventBarterStatus,
		BarterRequestID: barterUUID.String(),
		UserID:          userID,
		Payload:         payload,
	})

	return c.JSON(fiber.Map{
		"success":   true,
		"barter_id": barterID,
		"status":    newStatus,
	})
}

// DeleteBarterRequest удаляет предложение обмена (отмена отправителем)
func (s *BarterService) DeleteBarterRequest(c fiber.Ctx) error {
	userID := c.Locals("userID").(string)
	barterID := c.Params("id")

	if userID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Пользователь не авторизован"})
	}

	barterUUID, err := uuid.Parse(barterID)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Неверный формат ID предложения обмена"})
	}

	userUUID, err := uuid.Parse(userID)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Неверный формат ID пользователя"})
	}

	ctx, cancel := db.GetContext()
	defer cancel()

	var barter models.BarterRequest
	err = db.Pool.QueryRow(ctx, `
        SELECT id, requester_id, owner_id, status
        FROM barter_requests
        WHERE id = $1
    `, barterUUID).Scan(&barter.ID, &barter.RequesterID, &barter.OwnerID, &barter.Status)

	if err != nil {
		if err == pgx.ErrNoRows {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Предложение обмена не найдено"})
		}
		log.Printf("Ошибка запроса предложения обмена: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Ошибка получения предложения обмена"})
	}

	// Отменить предложение может только отправитель и только пока на него
	// не ответили
	if barter.RequesterID != userUUID {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Только отправитель предложения может его отменить"})
	}

	if barter.Status != models.BarterPending && barter.Status != models.BarterInquiry {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Нельзя отменить предложение, которое уже не находится в ожидании"})
	}

	// Сообщения удаляются каскадно по внешнему ключу
	_, err = db.Pool.Exec(ctx, `
        DELETE FROM barter_requests WHERE id = $1
    `, barterUUID)

	if err != nil {
		log.Printf("Ошибка удаления предложения обмена: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Ошибка удаления предложения обмена"})
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Предложение обмена отменено",
	})
}

// getProductInfo получает информацию о товаре
func (s *BarterService) getProductInfo(ctx context.Context, productID uuid.UUID) *models.Product {
	var product models.Product

	err := db.Pool.QueryRow(ctx, `
        SELECT id, user_id, name, description, category_id, condition, images, rating, created_at
        FROM products
        WHERE id = $1
    `, productID).Scan(
		&product.ID,
		&product.UserID,
		&product.Name,
		&product.Description,
		&product.CategoryID,
		&product.Condition,
		&product.Images,
		&product.Rating,
		&product.CreatedAt,
	)

	if err != nil {
		log.Printf("Ошибка получения товара %s: %v", productID, err)
		return nil
	}

	return &product
}

// getProfileInfo получает информацию о пользователе
func (s *BarterService) getProfileInfo(ctx context.Context, profileID uuid.UUID) *models.Profile {
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
		log.Printf("Ошибка получения профиля %s: %v", profileID, err)
		return nil
	}

	return &profile
}
