package auth

import (
	"github.com/gofiber/fiber/v3"

	"github.com/swaply/barter-api/internal/middleware"
)

// SetupRoutes регистрирует маршруты в Fiber
func (s *AuthService) SetupRoutes(app *fiber.App) {
	app.Post("/api/auth/telegram", s.TelegramAuthHandler)

	// Защищенные маршруты
	auth := middleware.AuthMiddleware(s.jwtService)

	app.Get("/api/profile", s.GetProfile, auth)
	app.Put("/api/profile", s.UpdateProfile, auth)
	app.Put("/api/profile/push-token", s.UpdatePushToken, auth)
}
