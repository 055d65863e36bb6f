package product

import (
	"github.com/gofiber/fiber/v3"
	"github.com/swaply/barter-api/internal/middleware"
)

// SetupRoutes настраивает маршруты для API каталога.
// Каталог читается без авторизации, изменяющие маршруты защищены
// поштучно, чтобы middleware группы не перекрыл публичные GET
func (s *ProductService) SetupRoutes(app *fiber.App) {
	auth := middleware.AuthMiddleware(s.jwtService)

	// Публичные маршруты каталога
	app.Get("/api/products", s.GetPublicProducts)
	app.Get("/api/products/:id", s.GetProduct)
	app.Get("/api/categories", s.GetCategories)

	// Защищенные маршруты (требуют авторизации)
	app.Post("/api/products", s.CreateProduct, auth)
	app.Delete("/api/products/:id", s.DeleteProduct, auth)
	app.Get("/api/my/products", s.GetMyProducts, auth)
	app.Post("/api/upload", s.UploadImage, auth)
}
