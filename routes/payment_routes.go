package routes

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"godown-app/config"
	"godown-app/controllers"
	"godown-app/middleware"
)

func SetupPaymentRoutes(app *fiber.App, db *gorm.DB) {
	paymentController := controllers.NewPaymentController(db)

	api := app.Group(config.MAIN_ROUTES+"/payments", middleware.AuthMiddleware)

	api.Get("/pending", paymentController.GetPendingBills)
	api.Get("/admins", paymentController.GetAdmins)
	api.Get("/transactions", paymentController.GetTransactions)
	api.Post("/", paymentController.RecordPayment)
	api.Get("/statement/:bookingId", paymentController.GetStatement)

	dispatch := app.Group(config.MAIN_ROUTES+"/dispatches", middleware.AuthMiddleware)
	dispatch.Post("/", paymentController.RecordDispatch)
	dispatch.Get("/:bookingId", paymentController.GetDispatches)

	banks := app.Group(config.MAIN_ROUTES+"/banks", middleware.AuthMiddleware)
	banks.Get("/", paymentController.GetMyBanks)
	banks.Post("/", paymentController.AddBank)
	banks.Delete("/:id", paymentController.RemoveBank)
}
