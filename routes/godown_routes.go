package routes

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"godown-app/config"
	"godown-app/controllers"
	"godown-app/middleware"
)

func SetupGodownRoutes(app *fiber.App, db *gorm.DB) {
	godownController := controllers.NewGodownController(db)

	api := app.Group(config.MAIN_ROUTES+"/godowns", middleware.AuthMiddleware)

	api.Post("/", godownController.CreateGodown)
	api.Get("/", godownController.GetAllGodowns)
	api.Put("/:id", godownController.RenameGodown)
	api.Delete("/:id", godownController.DeleteGodown)

	api.Get("/:id/stock", godownController.GetStock)
	api.Post("/:id/stock", godownController.AddStock)
	api.Post("/:id/stock/bulk", godownController.BulkAllocate)
	api.Delete("/:id/stock/:stockId", godownController.DeleteStock)
	api.Get("/:id/export", godownController.ExportHistory)

	stock := app.Group(config.MAIN_ROUTES+"/stock", middleware.AuthMiddleware)
	stock.Post("/transfer", godownController.TransferStock)
	stock.Post("/:stockId/take", godownController.TakeStock)
	stock.Post("/:stockId/add", godownController.TopUpStock)
	stock.Get("/:stockId/history", godownController.GetStockHistory)
}
