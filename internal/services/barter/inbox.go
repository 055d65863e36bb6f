package barter

import (
	"log"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/swaply/barter-api/internal/db"
	"github.com/swaply/barter-api/internal/models"
)

// GetBarterInbox возвращает переписки пользователя: по одной строке на
// обмен с метаданными последнего сообщения, свежие сверху
func (s *BarterService) GetBarterInbox(c fiber.Ctx) error {
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
        SELECT b.id, b.status, b.requester_id, b.owner_id,
               COALESCE(rp.username, ''), COALESCE(op.username, ''),
               req.name, COALESCE(req.images[1], ''),
               COALESCE(off.name, ''), COALESCE(off.images[1], ''),
               m.content, m.sender_id, m.created_at
        FROM barter_requests b
        JOIN profiles rp ON rp.id = b.requester_id
        JOIN profiles op ON op.id = b.owner_id
        JOIN products req ON req.id = b.requested_product_id
        LEFT JOIN products off ON off.id = b.offered_product_id
        LEFT JOIN LATERAL (
            SELECT content, sender_id, created_at
            FROM messages
            WHERE barter_request_id = b.id
            ORDER BY created_at DESC
            LIMIT 1
        ) m ON true
        WHERE b.requester_id = $1 OR b.owner_id = $1
        ORDER BY COALESCE(m.created_at, b.created_at) DESC
    `, userUUID)

	if err != nil {
		log.Printf("Ошибка запроса переписок: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Ошибка получения переписок"})
	}
	defer rows.Close()

	var threads []models.BarterThread
	for rows.Next() {
		var thread models.BarterThread
		var content pgtype.Text
		var senderID *uuid.UUID
		var messageTime pgtype.Timestamptz

		if err := rows.Scan(
			&thread.BarterRequestID,
			&thread.Status,
			&thread.RequesterID,
			&thread.OwnerID,
			&thread.RequesterName,
			&thread.OwnerName,
			&thread.RequestedProductName,
			&thread.RequestedProductImage,
			&thread.OfferedProductName,
			&thread.OfferedProductImage,
			&content,
			&senderID,
			&messageTime,
		); err != nil {
			log.Printf("Ошибка сканирования строки: %v", err)
			continue
		}

		if content.Valid {
			thread.LatestMessage = content.String
		}
		thread.LatestMessageSender = senderID
		if messageTime.Valid {
			t := messageTime.Time
			thread.LatestMessageTime = &t
		}

		threads = append(threads, thread)
	}

	return c.JSON(fiber.Map{
		"threads": threads,
		"count":   len(threads),
	})
}
