package controllers

import (
	"errors"

	"github.com/go-playground/validator"
	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"godown-app/models"
	"godown-app/repositories"
)

// BillingController serves the manual billing desk: bills numbered with the
// company prefix, independent of the godown stock ledger.
type BillingController struct {
	DB       *gorm.DB
	billings *repositories.BillingRepository
}

func NewBillingController(db *gorm.DB) *BillingController {
	return &BillingController{DB: db, billings: repositories.NewBillingRepository(db)}
}

func (c *BillingController) CreateBilling(ctx *fiber.Ctx) error {
	var input struct {
		BillNo            string            `json:"bill_no"`
		CustomerName      string            `json:"customer_name" validate:"required"`
		CustomerAddress   string            `json:"customer_address"`
		CustomerGSTIN     string            `json:"customer_gstin"`
		CustomerPlace     string            `json:"customer_place"`
		CustomerStateCode string            `json:"customer_state_code"`
		Through           string            `json:"through"`
		Destination       string            `json:"destination"`
		NoOfCases         int               `json:"no_of_cases"`
		Subtotal          float64           `json:"subtotal"`
		PackingAmount     float64           `json:"packing_amount"`
		ExtraAmount       float64           `json:"extra_amount"`
		CgstAmount        float64           `json:"cgst_amount"`
		SgstAmount        float64           `json:"sgst_amount"`
		IgstAmount        float64           `json:"igst_amount"`
		NetAmount         float64           `json:"net_amount"`
		Items             []models.LineItem `json:"items"`
		Type              string            `json:"type"`
	}

	if err := ctx.BodyParser(&input); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	validate := validator.New()
	if err := validate.Struct(input); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	if input.Type != "" && input.Type != models.BillTypeTax && input.Type != models.BillTypeSupply {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Type must be tax or supply"})
	}

	billing, err := c.billings.Create(models.Billing{
		BillNo:            input.BillNo,
		CustomerName:      input.CustomerName,
		CustomerAddress:   input.CustomerAddress,
		CustomerGSTIN:     input.CustomerGSTIN,
		CustomerPlace:     input.CustomerPlace,
		CustomerStateCode: input.CustomerStateCode,
		Through:           input.Through,
		Destination:       input.Destination,
		NoOfCases:         input.NoOfCases,
		Subtotal:          decimal.NewFromFloat(input.Subtotal),
		PackingAmount:     decimal.NewFromFloat(input.PackingAmount),
		ExtraAmount:       decimal.NewFromFloat(input.ExtraAmount),
		CgstAmount:        decimal.NewFromFloat(input.CgstAmount),
		SgstAmount:        decimal.NewFromFloat(input.SgstAmount),
		IgstAmount:        decimal.NewFromFloat(input.IgstAmount),
		NetAmount:         decimal.NewFromFloat(input.NetAmount),
		Items:             input.Items,
		Type:              input.Type,
	})
	if err != nil {
		if errors.Is(err, repositories.ErrDuplicateBillNo) {
			return ctx.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "Bill number already exists"})
		}
		return internalError(ctx, err)
	}

	return ctx.Status(fiber.StatusOK).JSON(fiber.Map{"success": true, "message": "Billing created successfully", "data": billing})
}

func (c *BillingController) GetNextBillNo(ctx *fiber.Ctx) error {
	next, err := c.billings.NextBillNo()
	if err != nil {
		return internalError(ctx, err)
	}

	return ctx.Status(fiber.StatusOK).JSON(fiber.Map{"success": true, "message": "Next bill number", "data": fiber.Map{"bill_no": next}})
}

func (c *BillingController) CheckBillNo(ctx *fiber.Ctx) error {
	billNo := ctx.Query("bill_no")
	if billNo == "" {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Query parameter bill_no is required"})
	}

	exists, err := c.billings.Exists(billNo)
	if err != nil {
		return internalError(ctx, err)
	}

	return ctx.Status(fiber.StatusOK).JSON(fiber.Map{"success": true, "message": "Bill number checked", "data": fiber.Map{"exists": exists}})
}

func (c *BillingController) GetAllBillings(ctx *fiber.Ctx) error {
	billings, err := c.billings.List(ctx.Query("type"))
	if err != nil {
		return internalError(ctx, err)
	}

	return ctx.Status(fiber.StatusOK).JSON(fiber.Map{"success": true, "message": "Billings found", "data": billings})
}

func (c *BillingController) GetBillingByID(ctx *fiber.Ctx) error {
	id, err := ctx.ParamsInt("id")
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid ID"})
	}

	billing, err := c.billings.GetByID(uint(id))
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ctx.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Billing not found"})
		}
		return internalError(ctx, err)
	}

	return ctx.Status(fiber.StatusOK).JSON(fiber.Map{"success": true, "message": "Billing found", "data": billing})
}

func (c *BillingController) DeleteBilling(ctx *fiber.Ctx) error {
	id, err := ctx.ParamsInt("id")
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid ID"})
	}

	if err := c.billings.Delete(uint(id)); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ctx.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Billing not found"})
		}
		return internalError(ctx, err)
	}

	return ctx.Status(fiber.StatusOK).JSON(fiber.Map{"success": true, "message": "Billing deleted successfully"})
}

func (c *BillingController) GetRecentCustomers(ctx *fiber.Ctx) error {
	customers, err := c.billings.RecentCustomers(ctx.Query("q"))
	if err != nil {
		return internalError(ctx, err)
	}

	return ctx.Status(fiber.StatusOK).JSON(fiber.Map{"success": true, "message": "Customers found", "data": customers})
}

func (c *BillingController) GetStateCodes(ctx *fiber.Ctx) error {
	states, err := c.billings.StateCodes()
	if err != nil {
		return internalError(ctx, err)
	}

	return ctx.Status(fiber.StatusOK).JSON(fiber.Map{"success": true, "message": "State codes found", "data": states})
}
