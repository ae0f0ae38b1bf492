package controllers

import (
	"errors"

	"github.com/go-playground/validator"
	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"godown-app/middleware"
	"godown-app/models"
	"godown-app/repositories"
)

type PaymentController struct {
	DB       *gorm.DB
	payments *repositories.PaymentRepository
	admins   *repositories.AdminRepository
}

func NewPaymentController(db *gorm.DB) *PaymentController {
	return &PaymentController{
		DB:       db,
		payments: repositories.NewPaymentRepository(db),
		admins:   repositories.NewAdminRepository(db),
	}
}

func (c *PaymentController) RecordPayment(ctx *fiber.Ctx) error {
	var input struct {
		BookingID     uint    `json:"booking_id" validate:"required"`
		AmountPaid    float64 `json:"amount_paid" validate:"required,gt=0"`
		PaymentMethod string  `json:"payment_method" validate:"required"`
		BankName      string  `json:"bank_name"`
	}

	if err := ctx.BodyParser(&input); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	validate := validator.New()
	if err := validate.Struct(input); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	payment, err := c.payments.Record(models.Payment{
		BookingID:     input.BookingID,
		AmountPaid:    decimal.NewFromFloat(input.AmountPaid),
		PaymentMethod: input.PaymentMethod,
		BankName:      input.BankName,
		AdminID:       middleware.AdminID(ctx),
	})
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ctx.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Booking not found"})
		}
		return internalError(ctx, err)
	}

	return ctx.Status(fiber.StatusOK).JSON(fiber.Map{"success": true, "message": "Payment recorded successfully", "data": payment})
}

func (c *PaymentController) GetPendingBills(ctx *fiber.Ctx) error {
	rows, err := c.payments.PendingBills()
	if err != nil {
		return internalError(ctx, err)
	}

	return ctx.Status(fiber.StatusOK).JSON(fiber.Map{"success": true, "message": "Pending bills found", "data": rows})
}

func (c *PaymentController) GetStatement(ctx *fiber.Ctx) error {
	bookingID, err := ctx.ParamsInt("bookingId")
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid booking ID"})
	}

	statement, err := c.payments.StatementFor(uint(bookingID))
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ctx.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Booking not found"})
		}
		return internalError(ctx, err)
	}

	return ctx.Status(fiber.StatusOK).JSON(fiber.Map{"success": true, "message": "Statement found", "data": statement})
}

// GetTransactions lists payments across bookings. ?mine=true scopes the
// list to the calling admin.
func (c *PaymentController) GetTransactions(ctx *fiber.Ctx) error {
	var adminID uint
	if ctx.Query("mine") == "true" {
		adminID = middleware.AdminID(ctx)
	}

	rows, err := c.payments.Transactions(adminID)
	if err != nil {
		return internalError(ctx, err)
	}

	return ctx.Status(fiber.StatusOK).JSON(fiber.Map{"success": true, "message": "Transactions found", "data": rows})
}

type dispatchLineInput struct {
	ProductIndex    int     `json:"product_index"`
	ProductName     string  `json:"product_name" validate:"required"`
	Brand           string  `json:"brand"`
	DispatchedCases int     `json:"dispatched_cases" validate:"required,gt=0"`
	DispatchedQty   int     `json:"dispatched_qty"`
	RatePerBox      float64 `json:"rate_per_box"`
	DiscountPercent float64 `json:"discount_percent"`
	Amount          float64 `json:"amount"`
	Godown          string  `json:"godown"`
}

// RecordDispatch logs one or more shipped lines against a booking in a
// single transaction.
func (c *PaymentController) RecordDispatch(ctx *fiber.Ctx) error {
	var input struct {
		BookingID     uint                `json:"booking_id" validate:"required"`
		TransportName string              `json:"transport_name"`
		LRNumber      string              `json:"lr_number"`
		Items         []dispatchLineInput `json:"items" validate:"required,min=1,dive"`
	}

	if err := ctx.BodyParser(&input); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	validate := validator.New()
	if err := validate.Struct(input); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	logs := make([]models.DispatchLog, len(input.Items))
	for i, item := range input.Items {
		logs[i] = models.DispatchLog{
			ProductIndex:    item.ProductIndex,
			ProductName:     item.ProductName,
			Brand:           item.Brand,
			DispatchedCases: item.DispatchedCases,
			DispatchedQty:   item.DispatchedQty,
			RatePerBox:      decimal.NewFromFloat(item.RatePerBox),
			DiscountPercent: decimal.NewFromFloat(item.DiscountPercent),
			Amount:          decimal.NewFromFloat(item.Amount),
			Godown:          item.Godown,
			TransportName:   input.TransportName,
			LRNumber:        input.LRNumber,
		}
	}

	saved, err := c.payments.RecordDispatches(input.BookingID, logs)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ctx.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Booking not found"})
		}
		return internalError(ctx, err)
	}

	return ctx.Status(fiber.StatusOK).JSON(fiber.Map{"success": true, "message": "Dispatch recorded successfully", "data": saved})
}

func (c *PaymentController) GetAdmins(ctx *fiber.Ctx) error {
	admins, err := c.admins.List()
	if err != nil {
		return internalError(ctx, err)
	}

	return ctx.Status(fiber.StatusOK).JSON(fiber.Map{"success": true, "message": "Admins found", "data": admins})
}

func (c *PaymentController) GetDispatches(ctx *fiber.Ctx) error {
	bookingID, err := ctx.ParamsInt("bookingId")
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid booking ID"})
	}

	logs, err := c.payments.DispatchesFor(uint(bookingID))
	if err != nil {
		return internalError(ctx, err)
	}

	return ctx.Status(fiber.StatusOK).JSON(fiber.Map{"success": true, "message": "Dispatches found", "data": logs})
}

func (c *PaymentController) GetMyBanks(ctx *fiber.Ctx) error {
	banks, err := c.admins.BanksFor(middleware.Username(ctx))
	if err != nil {
		return internalError(ctx, err)
	}

	return ctx.Status(fiber.StatusOK).JSON(fiber.Map{"success": true, "message": "Banks found", "data": banks})
}

func (c *PaymentController) AddBank(ctx *fiber.Ctx) error {
	var input struct {
		BankName string `json:"bank_name" validate:"required,min=2"`
	}

	if err := ctx.BodyParser(&input); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	validate := validator.New()
	if err := validate.Struct(input); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	bank, err := c.admins.AddBank(middleware.Username(ctx), input.BankName)
	if err != nil {
		return internalError(ctx, err)
	}

	return ctx.Status(fiber.StatusOK).JSON(fiber.Map{"success": true, "message": "Bank added successfully", "data": bank})
}

func (c *PaymentController) RemoveBank(ctx *fiber.Ctx) error {
	id, err := ctx.ParamsInt("id")
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid ID"})
	}

	if err := c.admins.RemoveBank(uint(id)); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ctx.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Bank not found"})
		}
		return internalError(ctx, err)
	}

	return ctx.Status(fiber.StatusOK).JSON(fiber.Map{"success": true, "message": "Bank removed successfully"})
}
