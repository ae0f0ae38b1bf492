package routes

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// SetupRoutes wires every resource group onto the app.
func SetupRoutes(app *fiber.App, db *gorm.DB) {
	SetupAuthRoutes(app, db)
	SetupGodownRoutes(app, db)
	SetupProductRoutes(app, db)
	SetupBookingRoutes(app, db)
	SetupDeliveryRoutes(app, db)
	SetupPaymentRoutes(app, db)
	SetupBillingRoutes(app, db)
	SetupAnalyticsRoutes(app, db)
}
