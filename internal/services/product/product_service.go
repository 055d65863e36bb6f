package product

import (
	"context"
	"fmt"
	"log"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/swaply/barter-api/internal/config"
	"github.com/swaply/barter-api/internal/db"
	"github.com/swaply/barter-api/internal/models"
	"github.com/swaply/barter-api/internal/utils"
)

// ProductService представляет сервис для работы с каталогом товаров
type ProductService struct {
	cfg        *config.Config
	jwtService *utils.JWTService
	uploader   *Uploader
}

// NewProductService создает новый экземпляр ProductService
func NewProductService(cfg *config.Config) (*ProductService, error) {
	uploader, err := NewUploader(cfg)
	if err != nil {
		return nil, fmt.Errorf("ошибка инициализации загрузчика изображений: %w", err)
	}

	return &ProductService{
		cfg:        cfg,
		jwtService: utils.NewJWTService(cfg.JWTSecret),
		uploader:   uploader,
	}, nil
}

// CreateProduct обрабатывает создание нового товара
func (s *ProductService) CreateProduct(c fiber.Ctx) error {
	userID := c.Locals("userID").(string)
	if userID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Пользователь не авторизован"})
	}

	userUUID, err := uuid.Parse(userID)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Неверный формат ID пользователя"})
	}

	// Извлекаем данные из запроса
	var requestData struct {
		Name        string   `json:"name"`
		Description string   `json:"description"`
		CategoryID  string   `json:"category_id"`
		Condition   string   `json:"condition"`
		Images      []string `json:"images"`
		Rating      int      `json:"rating"`
	}

	if err := c.Bind().Body(&requestData); err != nil {
		log.Printf("Ошибка декодирования тела запроса: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Неверный формат данных"})
	}

	// Валидация обязательных полей
	if requestData.Name == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Название обязательно"})
	}

	if len(requestData.Images) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Добавьте хотя бы одно изображение"})
	}

	categoryUUID, err := uuid.Parse(requestData.CategoryID)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Неверный формат ID категории"})
	}

	condition, ok := models.ParseCondition(requestData.Condition)
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Недопустимое состояние товара"})
	}

	if requestData.Rating < 0 || requestData.Rating > 5 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Оценка должна быть от 0 до 5"})
	}

	ctx, cancel := db.GetContext()
	defer cancel()

	// Проверяем существование категории
	var categoryExists bool
	err = db.Pool.QueryRow(ctx, `
		SELECT EXISTS(SELECT 1 FROM categories WHERE id = $1)
	`, categoryUUID).Scan(&categoryExists)

	if err != nil {
		log.Printf("Ошибка проверки категории: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Ошибка проверки категории"})
	}

	if !categoryExists {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Категория не найдена"})
	}

	// Вставляем товар
	productID := uuid.New()
	_, err = db.Pool.Exec(ctx, `
		INSERT INTO products (id, user_id, name, description, category_id, condition, images, rating)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`, productID, userUUID, requestData.Name, requestData.Description,
		categoryUUID, condition, requestData.Images, requestData.Rating)

	if err != nil {
		log.Printf("Ошибка вставки товара: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Ошибка сохранения товара"})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success":    true,
		"product_id": productID,
		"message":    "Товар успешно создан",
	})
}

// GetPublicProducts возвращает каталог товаров с фильтрами и пагинацией
func (s *ProductService) GetPublicProducts(c fiber.Ctx) error {
	limit, offset := utils.ParsePagination(c.Query("limit", "20"), c.Query("offset", "0"), 20, 100)

	// Собираем условия фильтрации
	where := "TRUE"
	args := []interface{}{}

	if category := c.Query("category_id"); category != "" {
		categoryUUID, err := uuid.Parse(category)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Неверный формат ID категории"})
		}
		args = append(args, categoryUUID)
		where += fmt.Sprintf(" AND category_id = $%d", len(args))
	}

	if condition := c.Query("condition"); condition != "" {
		parsed, ok := models.ParseCondition(condition)
		if !ok {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Недопустимое состояние товара"})
		}
		args = append(args, parsed)
		where += fmt.Sprintf(" AND condition = $%d", len(args))
	}

	if search := c.Query("q"); search != "" {
		args = append(args, "%"+search+"%")
		where += fmt.Sprintf(" AND name ILIKE $%d", len(args))
	}

	ctx, cancel := db.GetContext()
	defer cancel()

	query := fmt.Sprintf(`
		SELECT id, user_id, name, description, category_id, condition, images, rating, created_at
		FROM products
		WHERE %s
		ORDER BY created_at DESC
		LIMIT $%d OFFSET $%d
	`, where, len(args)+1, len(args)+2)

	rows, err := db.Pool.Query(ctx, query, append(args, limit, offset)...)
	if err != nil {
		log.Printf("Ошибка запроса товаров: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Ошибка получения товаров"})
	}
	defer rows.Close()

	var products []models.Product
	for rows.Next() {
		var product models.Product
		if err := rows.Scan(
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

		product.Owner = getProfileInfo(ctx, product.UserID)
		products = append(products, product)
	}

	// Получаем общее количество товаров для пагинации
	var total int
	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM products WHERE %s", where)
	if err := db.Pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		log.Printf("Ошибка подсчета товаров: %v", err)
		// Игнорируем ошибку, просто не вернем общее количество
	}

	return c.JSON(fiber.Map{
		"products": products,
		"total":    total,
		"limit":    limit,
		"offset":   offset,
	})
}

// GetProduct возвращает детальную информацию о товаре
func (s *ProductService) GetProduct(c fiber.Ctx) error {
	productID := c.Params("id")
	if productID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "ID товара не указан"})
	}

	productUUID, err := uuid.Parse(productID)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Неверный формат ID товара"})
	}

	ctx, cancel := db.GetContext()
	defer cancel()

	var product models.Product
	err = db.Pool.QueryRow(ctx, `
		SELECT id, user_id, name, description, category_id, condition, images, rating, created_at
		FROM products
		WHERE id = $1
	`, productUUID).Scan(
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
		if err == pgx.ErrNoRows {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Товар не найден"})
		}
		log.Printf("Ошибка получения товара: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Ошибка получения товара"})
	}

	product.Owner = getProfileInfo(ctx, product.UserID)

	return c.JSON(fiber.Map{
		"product": product,
	})
}

// GetMyProducts возвращает список товаров текущего пользователя
func (s *ProductService) GetMyProducts(c fiber.Ctx) error {
	userID := c.Locals("userID").(string)
	if userID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Пользователь не авторизован"})
	}

	userUUID, err := uuid.Parse(userID)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Неверный формат ID пользователя"})
	}

	ctx, cancel := db.GetContext()
	defer cancel()

	rows, err := db.Pool.Query(ctx, `
		SELECT id, user_id, name, description, category_id, condition, images, rating, created_at
		FROM products
		WHERE user_id = $1
		ORDER BY created_at DESC
	`, userUUID)

	if err != nil {
		log.Printf("Ошибка запроса товаров: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Ошибка получения товаров"})
	}
	defer rows.Close()

	var products []models.Product
	for rows.Next() {
		var product models.Product
		if err := rows.Scan(
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
		products = append(products, product)
	}

	return c.JSON(fiber.Map{
		"products": products,
		"count":    len(products),
	})
}

// DeleteProduct удаляет товар
func (s *ProductService) DeleteProduct(c fiber.Ctx) error {
	productID := c.Params("id")
	userIDStr := c.Locals("userID").(string)

	if productID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "ID товара не указан"})
	}

	productUUID, err := uuid.Parse(productID)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Неверный формат ID товара"})
	}

	userID, err := uuid.Parse(userIDStr)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Неверный формат ID пользователя"})
	}

	// Проверяем, что товар существует и принадлежит пользователю
	ctx, cancel := db.GetContext()
	defer cancel()

	var ownerID uuid.UUID
	err = db.Pool.QueryRow(ctx, "SELECT user_id FROM products WHERE id = $1", productUUID).Scan(&ownerID)
	if err != nil {
		if err == pgx.ErrNoRows {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Товар не найден"})
		}
		log.Printf("Ошибка запроса товара: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Ошибка получения товара"})
	}

	if ownerID != userID {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "У вас нет доступа к удалению этого товара"})
	}

	// Закладки удаляются каскадно по внешнему ключу
	_, err = db.Pool.Exec(ctx, "DELETE FROM products WHERE id = $1", productUUID)
	if err != nil {
		log.Printf("Ошибка удаления товара: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Ошибка удаления товара"})
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Товар успешно удален",
	})
}

// GetCategories возвращает список категорий
func (s *ProductService) GetCategories(c fiber.Ctx) error {
	ctx, cancel := db.GetContext()
	defer cancel()

	rows, err := db.Pool.Query(ctx, `
		SELECT id, name, COALESCE(icon, '') FROM categories ORDER BY name ASC
	`)
	if err != nil {
		log.Printf("Ошибка запроса категорий: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Ошибка получения категорий"})
	}
	defer rows.Close()

	var categories []models.Category
	for rows.Next() {
		var category models.Category
		if err := rows.Scan(&category.ID, &category.Name, &category.Icon); err != nil {
			log.Printf("Ошибка сканирования категории: %v", err)
			continue
		}
		categories = append(categories, category)
	}

	return c.JSON(fiber.Map{
		"categories": categories,
	})
}

// getProfileInfo получает базовую информацию о владельце товара
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
		log.Printf("Ошибка получения профиля %s: %v", profileID, err)
		return nil
	}

	return &profile
}
