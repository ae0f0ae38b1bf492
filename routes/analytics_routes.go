package routes

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"godown-app/config"
	"godown-app/controllers"
	"godown-app/middleware"
)

func SetupAnalyticsRoutes(app *fiber.App, db *gorm.DB) {
	analyticsController := controllers.NewAnalyticsController(db)

	api := app.Group(config.MAIN_ROUTES+"/analytics", middleware.AuthMiddleware)

	api.Get("/overview", analyticsController.GetOverview)
	api.Get("/movements", analyticsController.GetMovements)
	api.Get("/top-products", analyticsController.GetTopProducts)
	api.Get("/movements/export", analyticsController.ExportMovements)
	api.Post("/movements/email", analyticsController.EmailReport)
}
