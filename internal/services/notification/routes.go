package notification

import (
	"crypto/subtle"

	"github.com/gofiber/fiber/v3"

	"github.com/swaply/barter-api/internal/middleware"
)

// SetupRoutes настраивает маршруты уведомлений
func (s *NotificationService) SetupRoutes(app *fiber.App) {
	auth := middleware.AuthMiddleware(s.jwtService)

	app.Post("/webhooks/message", s.HandleMessageWebhook, s.webhookAuth)

	app.Get("/api/notifications", s.GetNotifications, auth)
	app.Put("/api/notifications/:id/read", s.MarkNotificationRead, auth)
}

// webhookAuth проверяет секрет вебхука в заголовке X-Webhook-Secret
func (s *NotificationService) webhookAuth(c fiber.Ctx) error {
	secret := c.Get("X-Webhook-Secret")
	if secret == "" || subtle.ConstantTimeCompare([]byte(secret), []byte(s.cfg.WebhookSecret)) != 1 {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Неверный секрет вебхука"})
	}
	return c.Next()
}
