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

type BookingController struct {
	DB       *gorm.DB
	bookings *repositories.BookingRepository
}

func NewBookingController(db *gorm.DB) *BookingController {
	return &BookingController{DB: db, bookings: repositories.NewBookingRepository(db)}
}

type bookingInput struct {
	BillDate     string              `json:"bill_date"`
	CustomerName string              `json:"customer_name" validate:"required"`
	Address      string              `json:"address"`
	GSTIN        string              `json:"gstin"`
	LRNumber     string              `json:"lr_number"`
	AgentName    string              `json:"agent_name"`
	From         string              `json:"from"`
	To           string              `json:"to"`
	Through      string              `json:"through"`
	StockFrom    string              `json:"stock_from"`
	Items        []models.LineItem   `json:"items" validate:"required,min=1"`
	ExtraCharges models.ExtraCharges `json:"extra_charges"`
}

func (in bookingInput) toBooking() models.Booking {
	return models.Booking{
		BillDate:     in.BillDate,
		CustomerName: in.CustomerName,
		Address:      in.Address,
		GSTIN:        in.GSTIN,
		LRNumber:     in.LRNumber,
		AgentName:    in.AgentName,
		FromLocation: in.From,
		ToLocation:   in.To,
		Through:      in.Through,
		StockFrom:    in.StockFrom,
		Items:        in.Items,
		ExtraCharges: in.ExtraCharges,
	}
}

func bookingErrStatus(ctx *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, repositories.ErrNotFound):
		return ctx.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, repositories.ErrInsufficientStock):
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, repositories.ErrChallanMismatch):
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, repositories.ErrAlreadyConverted):
		return ctx.Status(fiber.StatusConflict).JSON(fiber.Map{"error": err.Error()})
	}
	return internalError(ctx, err)
}

func (c *BookingController) CreateBooking(ctx *fiber.Ctx) error {
	var input bookingInput
	if err := ctx.BodyParser(&input); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	validate := validator.New()
	if err := validate.Struct(input); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	booking, err := c.bookings.Create(input.toBooking(), middleware.Username(ctx))
	if err != nil {
		return bookingErrStatus(ctx, err)
	}

	return ctx.Status(fiber.StatusOK).JSON(fiber.Map{"success": true, "message": "Booking created successfully", "data": booking})
}

func (c *BookingController) GetAllBookings(ctx *fiber.Ctx) error {
	bookings, err := c.bookings.List(ctx.Query("q"))
	if err != nil {
		return internalError(ctx, err)
	}

	return ctx.Status(fiber.StatusOK).JSON(fiber.Map{"success": true, "message": "Bookings found", "data": bookings})
}

func (c *BookingController) GetBookingByID(ctx *fiber.Ctx) error {
	id, err := ctx.ParamsInt("id")
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid ID"})
	}

	booking, err := c.bookings.GetByID(uint(id))
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ctx.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Booking not found"})
		}
		return internalError(ctx, err)
	}

	return ctx.Status(fiber.StatusOK).JSON(fiber.Map{"success": true, "message": "Booking found", "data": booking})
}

// GetBookingDocument returns the booking with its full tax breakdown for
// the printable bill.
func (c *BookingController) GetBookingDocument(ctx *fiber.Ctx) error {
	id, err := ctx.ParamsInt("id")
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid ID"})
	}

	doc, err := c.bookings.GetDocument(uint(id))
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ctx.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Booking not found"})
		}
		return internalError(ctx, err)
	}

	return ctx.Status(fiber.StatusOK).JSON(fiber.Map{"success": true, "message": "Booking document", "data": doc})
}

func (c *BookingController) UpdateBooking(ctx *fiber.Ctx) error {
	id, err := ctx.ParamsInt("id")
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid ID"})
	}

	var input bookingInput
	if err := ctx.BodyParser(&input); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	validate := validator.New()
	if err := validate.Struct(input); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	booking, err := c.bookings.Update(uint(id), input.toBooking(), middleware.Username(ctx))
	if err != nil {
		return bookingErrStatus(ctx, err)
	}

	return ctx.Status(fiber.StatusOK).JSON(fiber.Map{"success": true, "message": "Booking updated successfully", "data": booking})
}

func (c *BookingController) DeleteBooking(ctx *fiber.Ctx) error {
	id, err := ctx.ParamsInt("id")
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid ID"})
	}

	if err := c.bookings.Delete(uint(id), middleware.Username(ctx)); err != nil {
		return bookingErrStatus(ctx, err)
	}

	return ctx.Status(fiber.StatusOK).JSON(fiber.Map{"success": true, "message": "Booking deleted successfully"})
}

// ConvertChallan turns a pending delivery challan into a bill using the
// rates submitted by the billing desk.
func (c *BookingController) ConvertChallan(ctx *fiber.Ctx) error {
	challanID, err := ctx.ParamsInt("id")
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid challan ID"})
	}

	var input bookingInput
	if err := ctx.BodyParser(&input); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	validate := validator.New()
	if err := validate.Struct(input); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	booking, err := c.bookings.ConvertChallan(uint(challanID), input.toBooking(), middleware.Username(ctx))
	if err != nil {
		return bookingErrStatus(ctx, err)
	}

	return ctx.Status(fiber.StatusOK).JSON(fiber.Map{"success": true, "message": "Challan converted to bill successfully", "data": booking})
}

func (c *BookingController) GetCustomers(ctx *fiber.Ctx) error {
	customers, err := c.bookings.Customers(ctx.Query("q"))
	if err != nil {
		return internalError(ctx, err)
	}

	return ctx.Status(fiber.StatusOK).JSON(fiber.Map{"success": true, "message": "Customers found", "data": customers})
}
