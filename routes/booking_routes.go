package routes

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"godown-app/config"
	"godown-app/controllers"
	"godown-app/middleware"
)

func SetupBookingRoutes(app *fiber.App, db *gorm.DB) {
	bookingController := controllers.NewBookingController(db)

	api := app.Group(config.MAIN_ROUTES+"/bookings", middleware.AuthMiddleware)

	api.Get("/customers", bookingController.GetCustomers)
	api.Post("/", bookingController.CreateBooking)
	api.Get("/", bookingController.GetAllBookings)
	api.Get("/:id", bookingController.GetBookingByID)
	api.Get("/:id/document", bookingController.GetBookingDocument)
	api.Put("/:id", bookingController.UpdateBooking)
	api.Delete("/:id", bookingController.DeleteBooking)
}
