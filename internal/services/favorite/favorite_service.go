package favorite

import (
	"log"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/swaply/barter-api/internal/config"
	"github.com/swaply/barter-api/internal/db"
	"github.com/swaply/barter-api/internal/models"
	"github.com/swaply/barter-api/internal/utils"
)

// FavoriteService представляет сервис для работы с избранными товарами
type FavoriteService struct {
	cfg        *config.Config
	jwtService *utils.JWTService
}

// NewFavoriteService создает новый экземпляр FavoriteService
func NewFavoriteService(cfg *config.Config) *FavoriteService {
	return &FavoriteService{
		cfg:        cfg,
		jwtService: utils.NewJWTService(cfg.JWTSecret),
	}
}

// AddToFavorites добавляет товар в избранное
func (s *FavoriteService) AddToFavorites(c fiber.Ctx) error {
	userID := c.Locals("userID").(string)
	if userID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Пользователь не авторизован"})
	}

	// Извлекаем ID товара из запроса
	var requestData struct {
		ProductID string `json:"product_id"`
	}

	if err := c.Bind().Body(&requestData); err != nil {
		log.Printf("Ошибка декодирования тела запроса: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Неверный формат данных"})
	}

	if requestData.ProductID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "ID товара не указан"})
	}

	userUUID, err := uuid.Parse(userID)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Неверный формат ID пользователя"})
	}

	productUUID, err := uuid.Parse(requestData.ProductID)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Неверный формат ID товара"})
	}

	// Проверяем, существует ли товар
	ctx, cancel := db.GetContext()
	defer cancel()

	var exists bool
	err = db.Pool.QueryRow(ctx, `
		SELECT EXISTS(SELECT 1 FROM products WHERE id = $1)
	`, productUUID).Scan(&exists)

	if err != nil {
		log.Printf("Ошибка проверки существования товара: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Ошибка проверки товара"})
	}

	if !exists {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Товар не найден"})
	}

	// Добавляем товар в избранное. Повторное добавление отсекает
	// уникальный индекс (user_id, product_id)
	favoriteID := uuid.New()
	tag, err := db.Pool.Exec(ctx, `
		INSERT INTO favorite_products (id, user_id, product_id)
		VALUES ($1, $2, $3)
		ON CONFLICT (user_id, product_id) DO NOTHING
	`, favoriteID, userUUID, productUUID)

	if err != nil {
		log.Printf("Ошибка добавления в избранное: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Ошибка добавления в избранное"})
	}

	if tag.RowsAffected() == 0 {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "Товар уже добавлен в избранное"})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"id":      favoriteID,
		"message": "Товар успешно добавлен в избранное",
	})
}

// RemoveFromFavorites удаляет товар из избранного
func (s *FavoriteService) RemoveFromFavorites(c fiber.Ctx) error {
	userID := c.Locals("userID").(string)
	productID := c.Params("id")

	if userID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Пользователь не авторизован"})
	}

	if productID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "ID товара не указан"})
	}

	userUUID, err := uuid.Parse(userID)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Неверный формат ID пользователя"})
	}

	productUUID, err := uuid.Parse(productID)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Неверный формат ID товара"})
	}

	ctx, cancel := db.GetContext()
	defer cancel()

	tag, err := db.Pool.Exec(ctx, `
		DELETE FROM favorite_products WHERE user_id = $1 AND product_id = $2
	`, userUUID, productUUID)

	if err != nil {
		log.Printf("Ошибка удаления из избранного: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Ошибка удаления из избранного"})
	}

	if tag.RowsAffected() == 0 {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Товар не найден в избранном"})
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Товар успешно удален из избранного",
	})
}

// GetFavorites возвращает список избранных товаров пользователя
func (s *FavoriteService) GetFavorites(c fiber.Ctx) error {
	userID := c.Locals("userID").(string)
	if userID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Пользователь не авторизован"})
	}

	userUUID, err := uuid.Parse(userID)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Неверный формат ID пользователя"})
	}

	// Параметры пагинации
	limit, offset := utils.ParsePagination(c.Query("limit", "20"), c.Query("offset", "0"), 20, 100)

	ctx, cancel := db.GetContext()
	defer cancel()

	query := `
		SELECT f.id, f.user_id, f.product_id, f.created_at,
			   p.id, p.user_id, p.name, p.description, p.category_id, p.condition, p.images, p.rating, p.created_at
		FROM favorite_products f
		JOIN products p ON f.product_id = p.id
		WHERE f.user_id = $1
		ORDER BY f.created_at DESC
		LIMIT $2 OFFSET $3
	`

	rows, err := db.Pool.Query(ctx, query, userUUID, limit, offset)
	if err != nil {
		log.Printf("Ошибка запроса избранных товаров: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Ошибка получения избранных товаров"})
	}
	defer rows.Close()

	var favorites []models.FavoriteProduct
	for rows.Next() {
		var favorite models.FavoriteProduct
		var product models.Product

		if err := rows.Scan(
			&favorite.ID,
			&favorite.UserID,
			&favorite.ProductID,
			&favorite.CreatedAt,
			&product.ID,
			&product.UserID,
			&product.Name,
			&product.Description,
			&product.CategoryID,
			&product.Condition,
			&product.Images,
			&product.Rating,
			&product.CreatedAt,
		); err != nil {
			log.Printf("Ошибка сканирования строки: %v", err)
			continue
		}

		favorite.Product = &product
		favorites = append(favorites, favorite)
	}

	// Получаем общее количество избранных товаров для пагинации
	var total int
	err = db.Pool.QueryRow(ctx, `
		SELECT COUNT(*) FROM favorite_products WHERE user_id = $1
	`, userUUID).Scan(&total)

	if err != nil {
		log.Printf("Ошибка подсчета избранных товаров: %v", err)
		// Игнорируем ошибку, просто не вернем общее количество
	}

	return c.JSON(fiber.Map{
		"favorites": favorites,
		"total":     total,
		"limit":     limit,
		"offset":    offset,
	})
}

// CheckFavorite проверяет, добавлен ли товар в избранное
func (s *FavoriteService) CheckFavorite(c fiber.Ctx) error {
	userID := c.Locals("userID").(string)
	productID := c.Params("id")

	if userID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Пользователь не авторизован"})
	}

	if productID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "ID товара не указан"})
	}

	userUUID, err := uuid.Parse(userID)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Неверный формат ID пользователя"})
	}

	productUUID, err := uuid.Parse(productID)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Неверный формат ID товара"})
	}

	ctx, cancel := db.GetContext()
	defer cancel()

	var favoriteID uuid.UUID
	err = db.Pool.QueryRow(ctx, `
		SELECT id FROM favorite_products WHERE user_id = $1 AND product_id = $2
	`, userUUID, productUUID).Scan(&favoriteID)

	if err != nil {
		if err == pgx.ErrNoRows {
			return c.JSON(fiber.Map{
				"is_favorite": false,
			})
		}
		log.Printf("Ошибка проверки избранного: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Ошибка проверки избранного"})
	}

	return c.JSON(fiber.Map{
		"is_favorite": true,
		"favorite_id": favoriteID,
	})
}
