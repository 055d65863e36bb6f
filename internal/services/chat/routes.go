package chat

import (
	"github.com/gofiber/fiber/v3"

	"github.com/swaply/barter-api/internal/middleware"
)

// SetupRoutes настраивает маршруты для переписки
func (s *ChatService) SetupRoutes(app *fiber.App) {
	auth := middleware.AuthMiddleware(s.jwtService)

	app.Get("/api/barters/:id/messages", s.GetMessages, auth)
	app.Post("/api/barters/:id/messages", s.SendMessage, auth)
}
