package routes

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"godown-app/config"
	"godown-app/controllers"
	"godown-app/middleware"
)

func SetupDeliveryRoutes(app *fiber.App, db *gorm.DB) {
	deliveryController := controllers.NewDeliveryController(db)
	bookingController := controllers.NewBookingController(db)

	api := app.Group(config.MAIN_ROUTES+"/challans", middleware.AuthMiddleware)

	api.Get("/pending", deliveryController.GetPendingChallans)
	api.Post("/", deliveryController.CreateChallan)
	api.Get("/", deliveryController.GetAllChallans)
	api.Get("/:id", deliveryController.GetChallanByID)
	api.Post("/:id/convert", bookingController.ConvertChallan)
}
