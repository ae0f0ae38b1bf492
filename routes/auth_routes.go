package routes

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"godown-app/config"
	"godown-app/controllers"
	"godown-app/middleware"
)

func SetupAuthRoutes(app *fiber.App, db *gorm.DB) {
	authController := controllers.NewAuthController(db)

	api := app.Group(config.MAIN_ROUTES + "/auth")
	api.Post("/login", authController.Login)

	protected := app.Group(config.MAIN_ROUTES+"/auth", middleware.AuthMiddleware)
	protected.Post("/register", authController.Register)
	protected.Get("/me", authController.Me)
}
