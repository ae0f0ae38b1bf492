package controllers

import (
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator"
	"github.com/gofiber/fiber/v2"
	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"

	"godown-app/middleware"
	"godown-app/models"
	"godown-app/repositories"
)

type GodownController struct {
	DB      *gorm.DB
	godowns *repositories.GodownRepository
	stocks  *repositories.StockRepository
}

func NewGodownController(db *gorm.DB) *GodownController {
	return &GodownController{
		DB:      db,
		godowns: repositories.NewGodownRepository(db),
		stocks:  repositories.NewStockRepository(db),
	}
}

func (c *GodownController) CreateGodown(ctx *fiber.Ctx) error {
	var input struct {
		Name string `json:"name" validate:"required,min=2"`
	}

	if err := ctx.BodyParser(&input); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	validate := validator.New()
	if err := validate.Struct(input); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	godown, err := c.godowns.Create(input.Name)
	if err != nil {
		if errors.Is(err, repositories.ErrGodownExists) {
			return ctx.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "Godown already exists"})
		}
		return internalError(ctx, err)
	}

	return ctx.Status(fiber.StatusOK).JSON(fiber.Map{"success": true, "message": "Godown created successfully", "data": godown})
}

func (c *GodownController) GetAllGodowns(ctx *fiber.Ctx) error {
	godowns, err := c.godowns.List()
	if err != nil {
		return internalError(ctx, err)
	}

	return ctx.Status(fiber.StatusOK).JSON(fiber.Map{"success": true, "message": "Godowns found", "data": godowns})
}

func (c *GodownController) RenameGodown(ctx *fiber.Ctx) error {
	id, err := ctx.ParamsInt("id")
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid ID"})
	}

	var input struct {
		Name string `json:"name" validate:"required,min=2"`
	}
	if err := ctx.BodyParser(&input); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	validate := validator.New()
	if err := validate.Struct(input); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	godown, err := c.godowns.Rename(uint(id), input.Name)
	if err != nil {
		switch {
		case errors.Is(err, repositories.ErrNotFound):
			return ctx.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Godown not found"})
		case errors.Is(err, repositories.ErrGodownExists):
			return ctx.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "Godown already exists"})
		}
		return internalError(ctx, err)
	}

	return ctx.Status(fiber.StatusOK).JSON(fiber.Map{"success": true, "message": "Godown renamed successfully", "data": godown})
}

func (c *GodownController) DeleteGodown(ctx *fiber.Ctx) error {
	id, err := ctx.ParamsInt("id")
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid ID"})
	}

	if err := c.godowns.Delete(uint(id)); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ctx.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Godown not found"})
		}
		return internalError(ctx, err)
	}

	return ctx.Status(fiber.StatusOK).JSON(fiber.Map{"success": true, "message": "Godown deleted successfully"})
}

func (c *GodownController) GetStock(ctx *fiber.Ctx) error {
	id, err := ctx.ParamsInt("id")
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid ID"})
	}

	stock, err := c.stocks.StockByGodown(uint(id))
	if err != nil {
		return internalError(ctx, err)
	}

	return ctx.Status(fiber.StatusOK).JSON(fiber.Map{"success": true, "message": "Stock found", "data": stock})
}

func (c *GodownController) AddStock(ctx *fiber.Ctx) error {
	id, err := ctx.ParamsInt("id")
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid ID"})
	}

	var input struct {
		ProductType string `json:"product_type" validate:"required"`
		ProductName string `json:"productname" validate:"required"`
		Brand       string `json:"brand" validate:"required"`
		Cases       int    `json:"cases" validate:"required,gt=0"`
		Date        string `json:"date"`
	}

	if err := ctx.BodyParser(&input); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	validate := validator.New()
	if err := validate.Struct(input); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	var customDate *time.Time
	if input.Date != "" {
		parsed, err := time.Parse("2006-01-02", input.Date)
		if err != nil {
			return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid date, expected YYYY-MM-DD"})
		}
		customDate = &parsed
	}

	tx := c.DB.Begin()
	stockID, err := c.stocks.Intake(tx, uint(id), input.ProductType, input.ProductName, input.Brand,
		input.Cases, middleware.Username(ctx), customDate)
	if err != nil {
		tx.Rollback()
		if errors.Is(err, repositories.ErrNotFound) {
			return ctx.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
		}
		return internalError(ctx, err)
	}
	if err := tx.Commit().Error; err != nil {
		return internalError(ctx, err)
	}

	return ctx.Status(fiber.StatusOK).JSON(fiber.Map{"success": true, "message": "Stock added successfully", "data": fiber.Map{"stock_id": stockID}})
}

// BulkAllocate takes a list of intake lines and applies them in one
// transaction.
func (c *GodownController) BulkAllocate(ctx *fiber.Ctx) error {
	id, err := ctx.ParamsInt("id")
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid ID"})
	}

	var input struct {
		Entries []repositories.IntakeEntry `json:"entries" validate:"required,min=1"`
		Date    string                     `json:"date"`
	}

	if err := ctx.BodyParser(&input); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	validate := validator.New()
	if err := validate.Struct(input); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	for _, e := range input.Entries {
		if e.ProductType == "" || e.ProductName == "" || e.Brand == "" || e.Cases <= 0 {
			return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Each entry needs product_type, productname, brand and a positive case count"})
		}
	}

	var customDate *time.Time
	if input.Date != "" {
		parsed, err := time.Parse("2006-01-02", input.Date)
		if err != nil {
			return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid date, expected YYYY-MM-DD"})
		}
		customDate = &parsed
	}

	ids, err := c.stocks.BulkAllocate(uint(id), input.Entries, middleware.Username(ctx), customDate)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ctx.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
		}
		return internalError(ctx, err)
	}

	return ctx.Status(fiber.StatusOK).JSON(fiber.Map{"success": true, "message": "Stock allocated successfully", "data": fiber.Map{"stock_ids": ids}})
}

func (c *GodownController) TakeStock(ctx *fiber.Ctx) error {
	stockID, err := ctx.ParamsInt("stockId")
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid stock ID"})
	}

	var input struct {
		Cases int `json:"cases" validate:"required,gt=0"`
	}
	if err := ctx.BodyParser(&input); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	validate := validator.New()
	if err := validate.Struct(input); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	remaining, err := c.stocks.Take(uint(stockID), input.Cases, middleware.Username(ctx))
	if err != nil {
		switch {
		case errors.Is(err, repositories.ErrNotFound):
			return ctx.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Stock not found"})
		case errors.Is(err, repositories.ErrInsufficientStock):
			return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
		}
		return internalError(ctx, err)
	}

	return ctx.Status(fiber.StatusOK).JSON(fiber.Map{"success": true, "message": "Stock taken successfully", "data": fiber.Map{"remaining_cases": remaining}})
}

func (c *GodownController) TopUpStock(ctx *fiber.Ctx) error {
	stockID, err := ctx.ParamsInt("stockId")
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid stock ID"})
	}

	var input struct {
		Cases int `json:"cases" validate:"required,gt=0"`
	}
	if err := ctx.BodyParser(&input); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	validate := validator.New()
	if err := validate.Struct(input); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	current, err := c.stocks.AddToExisting(uint(stockID), input.Cases, middleware.Username(ctx))
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ctx.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Stock not found"})
		}
		return internalError(ctx, err)
	}

	return ctx.Status(fiber.StatusOK).JSON(fiber.Map{"success": true, "message": "Stock added successfully", "data": fiber.Map{"current_cases": current}})
}

func (c *GodownController) DeleteStock(ctx *fiber.Ctx) error {
	godownID, err := ctx.ParamsInt("id")
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid ID"})
	}
	stockID, err := ctx.ParamsInt("stockId")
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid stock ID"})
	}

	if err := c.stocks.DeleteEntry(uint(godownID), uint(stockID)); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ctx.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Stock not found in this godown"})
		}
		return internalError(ctx, err)
	}

	return ctx.Status(fiber.StatusOK).JSON(fiber.Map{"success": true, "message": "Stock deleted successfully"})
}

func (c *GodownController) TransferStock(ctx *fiber.Ctx) error {
	var input struct {
		SourceStockID  uint   `json:"source_stock_id" validate:"required"`
		TargetGodownID uint   `json:"target_godown_id" validate:"required"`
		Cases          int    `json:"cases" validate:"required,gt=0"`
		Date           string `json:"date"`
	}

	if err := ctx.BodyParser(&input); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	validate := validator.New()
	if err := validate.Struct(input); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	var customDate *time.Time
	if input.Date != "" {
		parsed, err := time.Parse("2006-01-02", input.Date)
		if err != nil {
			return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid date, expected YYYY-MM-DD"})
		}
		customDate = &parsed
	}

	err := c.stocks.Transfer(input.SourceStockID, input.TargetGodownID, input.Cases,
		middleware.Username(ctx), customDate)
	if err != nil {
		switch {
		case errors.Is(err, repositories.ErrNotFound):
			return ctx.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
		case errors.Is(err, repositories.ErrInsufficientStock):
			return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
		}
		return internalError(ctx, err)
	}

	return ctx.Status(fiber.StatusOK).JSON(fiber.Map{"success": true, "message": "Stock transferred successfully"})
}

func (c *GodownController) GetStockHistory(ctx *fiber.Ctx) error {
	stockID, err := ctx.ParamsInt("stockId")
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid stock ID"})
	}

	history, err := c.stocks.HistoryForStock(uint(stockID))
	if err != nil {
		return internalError(ctx, err)
	}

	return ctx.Status(fiber.StatusOK).JSON(fiber.Map{"success": true, "message": "History found", "data": history})
}

// ExportHistory streams the godown's full movement log as an Excel sheet.
func (c *GodownController) ExportHistory(ctx *fiber.Ctx) error {
	id, err := ctx.ParamsInt("id")
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid ID"})
	}

	godown, err := c.godowns.GetByID(uint(id))
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ctx.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Godown not found"})
		}
		return internalError(ctx, err)
	}

	history, err := c.stocks.HistoryForGodown(uint(id))
	if err != nil {
		return internalError(ctx, err)
	}

	f := excelize.NewFile()
	sheet := "History"
	f.SetSheetName("Sheet1", sheet)

	headers := []string{"Date", "Action", "Product", "Brand", "Type", "Cases", "Pieces", "Customer", "Added By", "Taken By", "Agent"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheet, cell, h)
	}

	inStyle, _ := f.NewStyle(&excelize.Style{
		Fill: excelize.Fill{Type: "pattern", Color: []string{"C6EFCE"}, Pattern: 1},
	})
	outStyle, _ := f.NewStyle(&excelize.Style{
		Fill: excelize.Fill{Type: "pattern", Color: []string{"FFC7CE"}, Pattern: 1},
	})

	for row, h := range history {
		values := []interface{}{
			h.Date.Format("2006-01-02 15:04"),
			h.Action, h.ProductName, h.Brand, h.ProductType,
			h.Cases, h.PerCaseTotal, h.CustomerName, h.AddedBy, h.TakenBy, h.AgentName,
		}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row+2)
			f.SetCellValue(sheet, cell, v)
		}

		style := inStyle
		if h.Action == models.StockActionTaken {
			style = outStyle
		}
		first, _ := excelize.CoordinatesToCellName(1, row+2)
		last, _ := excelize.CoordinatesToCellName(len(values), row+2)
		f.SetCellStyle(sheet, first, last, style)
	}

	filename := fmt.Sprintf("%s_history.xlsx", godown.Name)
	ctx.Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	ctx.Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))

	if err := f.Write(ctx.Response().BodyWriter()); err != nil {
		return internalError(ctx, err)
	}
	return nil
}
