package realtime

import (
	"log"

	"github.com/fasthttp/websocket"
	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
	"github.com/valyala/fasthttp"

	"github.com/swaply/barter-api/internal/utils"
)

var upgrader = websocket.FastHTTPUpgrader{
	CheckOrigin: func(ctx *fasthttp.RequestCtx) bool { return true },
}

// SetupRoutes регистрирует WebSocket-эндпоинт шины событий
func (h *Hub) SetupRoutes(app *fiber.App, jwtService *utils.JWTService) {
	app.Get("/ws", h.handleConnection(jwtService))
}

// handleConnection апгрейдит соединение; токен передается query-параметром,
// потому что браузерный WebSocket API не умеет выставлять заголовки
func (h *Hub) handleConnection(jwtService *utils.JWTService) fiber.Handler {
	return func(c fiber.Ctx) error {
		token := c.Query("token")
		if token == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Токен не указан"})
		}

		userID, err := jwtService.ExtractUserID(token)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid or expired token"})
		}

		if _, err := uuid.Parse(userID); err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid user ID"})
		}

		err = upgrader.Upgrade(c.RequestCtx(), func(conn *websocket.Conn) {
			client := NewClient(userID, conn, h)
			client.Run()
		})

		if err != nil {
			log.Printf("WebSocket upgrade error: %v", err)
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Ошибка установки WebSocket соединения"})
		}

		return nil
	}
}
