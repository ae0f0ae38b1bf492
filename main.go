package main

import (
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"

	"godown-app/config"
	"godown-app/database"
	"godown-app/routes"
	"godown-app/utils"
)

func main() {
	config.LoadConfig()
	config.SetupLogger()

	app := fiber.New()

	db, err := config.ConnectDB()
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	if err := database.Migrate(db); err != nil {
		log.Fatalf("Failed to auto migrate: %v", err)
	}

	database.RunSeeders(db)

	utils.InitIDGen()

	config.SetupCORS(app)
	routes.SetupRoutes(app, db)

	logrus.WithField("port", config.APP_PORT).Info("Starting server")
	if err := app.Listen(":" + config.APP_PORT); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
