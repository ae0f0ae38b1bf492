package routes

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"godown-app/config"
	"godown-app/controllers"
	"godown-app/middleware"
)

func SetupBillingRoutes(app *fiber.App, db *gorm.DB) {
	billingController := controllers.NewBillingController(db)

	api := app.Group(config.MAIN_ROUTES+"/billings", middleware.AuthMiddleware)

	api.Get("/next-no", billingController.GetNextBillNo)
	api.Get("/check-no", billingController.CheckBillNo)
	api.Get("/customers", billingController.GetRecentCustomers)
	api.Get("/states", billingController.GetStateCodes)
	api.Post("/", billingController.CreateBilling)
	api.Get("/", billingController.GetAllBillings)
	api.Get("/:id", billingController.GetBillingByID)
	api.Delete("/:id", billingController.DeleteBilling)
}
