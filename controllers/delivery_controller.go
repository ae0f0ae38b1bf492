package controllers

import (
	"errors"

	"github.com/go-playground/validator"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"godown-app/middleware"
	"godown-app/models"
	"godown-app/repositories"
)

type DeliveryController struct {
	DB       *gorm.DB
	delivery *repositories.DeliveryRepository
}

func NewDeliveryController(db *gorm.DB) *DeliveryController {
	return &DeliveryController{DB: db, delivery: repositories.NewDeliveryRepository(db)}
}

func (c *DeliveryController) CreateChallan(ctx *fiber.Ctx) error {
	var input struct {
		CustomerName string               `json:"customer_name" validate:"required"`
		Address      string               `json:"address"`
		GSTIN        string               `json:"gstin"`
		LRNumber     string               `json:"lr_number"`
		From         string               `json:"from"`
		To           string               `json:"to"`
		Through      string               `json:"through"`
		Items        []models.ChallanItem `json:"items" validate:"required,min=1"`
	}

	if err := ctx.BodyParser(&input); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	validate := validator.New()
	if err := validate.Struct(input); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	for _, item := range input.Items {
		if item.StockID == 0 || item.Cases <= 0 {
			return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Each item needs a stock id and a positive case count"})
		}
	}

	challan, err := c.delivery.Create(models.DeliveryChallan{
		CustomerName: input.CustomerName,
		Address:      input.Address,
		GSTIN:        input.GSTIN,
		LRNumber:     input.LRNumber,
		FromLocation: input.From,
		ToLocation:   input.To,
		Through:      input.Through,
		Items:        input.Items,
	}, middleware.Username(ctx))
	if err != nil {
		switch {
		case errors.Is(err, repositories.ErrNotFound):
			return ctx.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
		case errors.Is(err, repositories.ErrInsufficientStock):
			return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
		}
		return internalError(ctx, err)
	}

	return ctx.Status(fiber.StatusOK).JSON(fiber.Map{"success": true, "message": "Challan created successfully", "data": challan})
}

func (c *DeliveryController) GetPendingChallans(ctx *fiber.Ctx) error {
	challans, err := c.delivery.Pending()
	if err != nil {
		return internalError(ctx, err)
	}

	return ctx.Status(fiber.StatusOK).JSON(fiber.Map{"success": true, "message": "Pending challans found", "data": challans})
}

func (c *DeliveryController) GetAllChallans(ctx *fiber.Ctx) error {
	challans, err := c.delivery.List()
	if err != nil {
		return internalError(ctx, err)
	}

	return ctx.Status(fiber.StatusOK).JSON(fiber.Map{"success": true, "message": "Challans found", "data": challans})
}

func (c *DeliveryController) GetChallanByID(ctx *fiber.Ctx) error {
	id, err := ctx.ParamsInt("id")
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid ID"})
	}

	challan, err := c.delivery.GetPriced(uint(id))
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ctx.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Challan not found"})
		}
		return internalError(ctx, err)
	}

	return ctx.Status(fiber.StatusOK).JSON(fiber.Map{"success": true, "message": "Challan found", "data": challan})
}
