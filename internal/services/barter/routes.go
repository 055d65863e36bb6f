package barter

import (
	"github.com/gofiber/fiber/v3"
	"github.com/swaply/barter-api/internal/middleware"
)

// SetupRoutes настраивает маршруты для API обменов
func (s *BarterService) SetupRoutes(app *fiber.App) {
	// Группа для API обменов
	api := app.Group("/api/barters")

	// Защищенные маршруты (требуют авторизации)
	api.Use(middleware.AuthMiddleware(s.jwtService))

	// Маршрут для создания предложения обмена
	api.Post("/", s.CreateBarterRequest)

	// Маршрут для получения списка предложений обмена
	api.Get("/", s.GetMyBarterRequests)

	// Маршрут для получения переписок с последними сообщениями
	api.Get("/inbox", s.GetBarterInbox)

	// Маршрут для обновления статуса предложения обмена
	api.Put("/:id/status", s.UpdateBarterStatus)

	// Маршрут для прикрепления товара к запросу-расспросу
	api.Put("/:id/offer", s.AttachOffer)

	// Маршрут для отмены предложения обмена
	api.Delete("/:id", s.DeleteBarterRequest)
}
