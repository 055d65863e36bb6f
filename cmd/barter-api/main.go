package main

import (
	"log"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/cors"
	"github.com/gofiber/fiber/v3/middleware/logger"
	"github.com/gofiber/fiber/v3/middleware/recover"

	"github.com/swaply/barter-api/internal/config"
	"github.com/swaply/barter-api/internal/db"
	"github.com/swaply/barter-api/internal/push"
	"github.com/swaply/barter-api/internal/realtime"
	"github.com/swaply/barter-api/internal/services/auth"
	"github.com/swaply/barter-api/internal/services/barter"
	"github.com/swaply/barter-api/internal/services/chat"
	"github.com/swaply/barter-api/internal/services/favorite"
	"github.com/swaply/barter-api/internal/services/notification"
	"github.com/swaply/barter-api/internal/services/product"
	"github.com/swaply/barter-api/internal/utils"
)

func main() {
	// Загружаем конфигурацию
	cfg := config.LoadConfig()

	// Инициализируем базу данных
	if err := db.InitDB(cfg); err != nil {
		log.Fatalf("❌ Ошибка при инициализации базы данных: %v", err)
	}
	defer db.CloseDB()

	// Создаём экземпляр Fiber
	app := fiber.New(fiber.Config{
		AppName:      "Swaply Barter API",
		ErrorHandler: errorHandler,
	})

	// Добавляем middleware
	app.Use(recover.New())
	app.Use(logger.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Webhook-Secret"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowCredentials: false,
	}))

	// Шина событий для WebSocket-подписчиков
	hub := realtime.NewHub()
	defer hub.Shutdown()

	// Создаём сервисы
	authService := auth.NewAuthService(cfg)
	favoriteService := favorite.NewFavoriteService(cfg)
	barterService := barter.NewBarterService(cfg, hub)
	chatService := chat.NewChatService(cfg, hub)
	notificationService := notification.NewNotificationService(cfg, push.NewExpoSender())

	productService, err := product.NewProductService(cfg)
	if err != nil {
		log.Fatalf("❌ Ошибка при инициализации сервиса товаров: %v", err)
	}

	// Регистрируем маршруты
	authService.SetupRoutes(app)
	productService.SetupRoutes(app)
	favoriteService.SetupRoutes(app)
	barterService.SetupRoutes(app)
	chatService.SetupRoutes(app)
	notificationService.SetupRoutes(app)
	hub.SetupRoutes(app, utils.NewJWTService(cfg.JWTSecret))

	// Запускаем сервер
	log.Printf("✅ Swaply Barter API запущен на порту %s", cfg.Port)
	log.Fatal(app.Listen(":" + cfg.Port))
}

// errorHandler обрабатывает ошибки Fiber
func errorHandler(c fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError

	// Проверяем, является ли ошибка из Fiber
	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
	}

	// Отправляем ошибку в JSON
	return c.Status(code).JSON(fiber.Map{
		"error": err.Error(),
	})
}
