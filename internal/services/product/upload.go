package product

import (
	"log"
	"strings"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"github.com/gofiber/fiber/v3"

	"github.com/swaply/barter-api/internal/config"
	"github.com/swaply/barter-api/internal/db"
)

// Uploader загружает изображения товаров в Cloudinary
type Uploader struct {
	cld    *cloudinary.Cloudinary
	folder string
}

// NewUploader создает новый экземпляр Uploader
func NewUploader(cfg *config.Config) (*Uploader, error) {
	cld, err := cloudinary.NewFromParams(
		cfg.CloudinaryConfig.CloudName,
		cfg.CloudinaryConfig.APIKey,
		cfg.CloudinaryConfig.APISecret,
	)
	if err != nil {
		return nil, err
	}

	return &Uploader{
		cld:    cld,
		folder: cfg.CloudinaryConfig.UploadFolder,
	}, nil
}

// UploadImage принимает изображение в base64 и возвращает публичный URL.
// Голый base64 без префикса data URI дополняется до JPEG
func (s *ProductService) UploadImage(c fiber.Ctx) error {
	userID := c.Locals("userID").(string)
	if userID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Пользователь не авторизован"})
	}

	var requestData struct {
		Image string `json:"image"`
	}

	if err := c.Bind().Body(&requestData); err != nil {
		log.Printf("Ошибка декодирования тела запроса: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Неверный формат данных"})
	}

	if requestData.Image == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Изображение не передано"})
	}

	source := requestData.Image
	if !strings.HasPrefix(source, "data:") {
		source = "data:image/jpeg;base64," + source
	}

	ctx, cancel := db.GetContext()
	defer cancel()

	result, err := s.uploader.cld.Upload.Upload(ctx, source, uploader.UploadParams{
		Folder: s.uploader.folder,
	})

	if err != nil {
		log.Printf("Ошибка загрузки изображения в Cloudinary: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Ошибка загрузки изображения"})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"url":     result.SecureURL,
	})
}
