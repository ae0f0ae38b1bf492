package routes

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"godown-app/config"
	"godown-app/controllers"
	"godown-app/middleware"
)

func SetupProductRoutes(app *fiber.App, db *gorm.DB) {
	productController := controllers.NewProductController(db)

	api := app.Group(config.MAIN_ROUTES+"/products", middleware.AuthMiddleware)

	api.Get("/search", productController.SearchStock)
	api.Get("/types", productController.GetProductTypes)
	api.Post("/", productController.CreateProduct)
	api.Get("/", productController.GetAllProducts)
	api.Put("/:id", productController.UpdateProduct)
	api.Delete("/:id", productController.DeleteProduct)

	brands := app.Group(config.MAIN_ROUTES+"/brands", middleware.AuthMiddleware)
	brands.Post("/", productController.CreateBrand)
	brands.Get("/", productController.GetAllBrands)
	brands.Put("/:id", productController.UpdateBrand)
}
