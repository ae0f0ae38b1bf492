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

type ProductController struct {
	DB       *gorm.DB
	products *repositories.ProductRepository
	stocks   *repositories.StockRepository
}

func NewProductController(db *gorm.DB) *ProductController {
	return &ProductController{
		DB:       db,
		products: repositories.NewProductRepository(db),
		stocks:   repositories.NewStockRepository(db),
	}
}

type productInput struct {
	ProductType string  `json:"product_type" validate:"required"`
	ProductName string  `json:"productname" validate:"required"`
	Brand       string  `json:"brand" validate:"required"`
	HSNCode     string  `json:"hsn_code"`
	Price       float64 `json:"price" validate:"required,gt=0"`
	PerCase     int     `json:"per_case" validate:"required,gt=0"`
}

func (c *ProductController) CreateProduct(ctx *fiber.Ctx) error {
	var input productInput
	if err := ctx.BodyParser(&input); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	validate := validator.New()
	if err := validate.Struct(input); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	product, err := c.products.Create(models.Product{
		ProductType: input.ProductType,
		ProductName: input.ProductName,
		Brand:       input.Brand,
		HSNCode:     input.HSNCode,
		Price:       decimal.NewFromFloat(input.Price),
		PerCase:     input.PerCase,
	})
	if err != nil {
		if errors.Is(err, repositories.ErrProductExists) {
			return ctx.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "Product already exists for this brand"})
		}
		return internalError(ctx, err)
	}

	return ctx.Status(fiber.StatusOK).JSON(fiber.Map{"success": true, "message": "Product created successfully", "data": product})
}

func (c *ProductController) GetAllProducts(ctx *fiber.Ctx) error {
	products, err := c.products.List(ctx.Query("type"), ctx.Query("brand"))
	if err != nil {
		return internalError(ctx, err)
	}

	return ctx.Status(fiber.StatusOK).JSON(fiber.Map{"success": true, "message": "Products found", "data": products})
}

func (c *ProductController) GetProductTypes(ctx *fiber.Ctx) error {
	types, err := c.products.Types()
	if err != nil {
		return internalError(ctx, err)
	}

	return ctx.Status(fiber.StatusOK).JSON(fiber.Map{"success": true, "message": "Product types found", "data": types})
}

func (c *ProductController) UpdateProduct(ctx *fiber.Ctx) error {
	id, err := ctx.ParamsInt("id")
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid ID"})
	}

	var input productInput
	if err := ctx.BodyParser(&input); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	product, err := c.products.Update(uint(id), models.Product{
		HSNCode: input.HSNCode,
		Price:   decimal.NewFromFloat(input.Price),
		PerCase: input.PerCase,
	})
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ctx.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Product not found"})
		}
		return internalError(ctx, err)
	}

	return ctx.Status(fiber.StatusOK).JSON(fiber.Map{"success": true, "message": "Product updated successfully", "data": product})
}

func (c *ProductController) DeleteProduct(ctx *fiber.Ctx) error {
	id, err := ctx.ParamsInt("id")
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid ID"})
	}

	if err := c.products.Delete(uint(id)); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ctx.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Product not found"})
		}
		return internalError(ctx, err)
	}

	return ctx.Status(fiber.StatusOK).JSON(fiber.Map{"success": true, "message": "Product deleted successfully"})
}

func (c *ProductController) CreateBrand(ctx *fiber.Ctx) error {
	var input struct {
		Name      string `json:"name" validate:"required,min=2"`
		AgentName string `json:"agent_name"`
	}

	if err := ctx.BodyParser(&input); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	validate := validator.New()
	if err := validate.Struct(input); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	brand, err := c.products.CreateBrand(input.Name, input.AgentName)
	if err != nil {
		if errors.Is(err, repositories.ErrBrandExists) {
			return ctx.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "Brand already exists"})
		}
		return internalError(ctx, err)
	}

	return ctx.Status(fiber.StatusOK).JSON(fiber.Map{"success": true, "message": "Brand created successfully", "data": brand})
}

func (c *ProductController) GetAllBrands(ctx *fiber.Ctx) error {
	brands, err := c.products.Brands()
	if err != nil {
		return internalError(ctx, err)
	}

	return ctx.Status(fiber.StatusOK).JSON(fiber.Map{"success": true, "message": "Brands found", "data": brands})
}

func (c *ProductController) UpdateBrand(ctx *fiber.Ctx) error {
	id, err := ctx.ParamsInt("id")
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid ID"})
	}

	var input struct {
		AgentName string `json:"agent_name"`
	}
	if err := ctx.BodyParser(&input); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	brand, err := c.products.UpdateBrandAgent(uint(id), input.AgentName)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ctx.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Brand not found"})
		}
		return internalError(ctx, err)
	}

	return ctx.Status(fiber.StatusOK).JSON(fiber.Map{"success": true, "message": "Brand updated successfully", "data": brand})
}

// SearchStock is the global product search across godowns for the booking
// form.
func (c *ProductController) SearchStock(ctx *fiber.Ctx) error {
	term := ctx.Query("q")
	if term == "" {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Query parameter q is required"})
	}

	results, err := c.stocks.SearchGlobal(term)
	if err != nil {
		return internalError(ctx, err)
	}

	return ctx.Status(fiber.StatusOK).JSON(fiber.Map{"success": true, "message": "Search results", "data": results})
}
