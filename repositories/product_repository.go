package repositories

import (
	"errors"

	"gorm.io/gorm"

	"godown-app/models"
)

type ProductRepository struct {
	db *gorm.DB
}

func NewProductRepository(db *gorm.DB) *ProductRepository {
	return &ProductRepository{db: db}
}

// Create adds a product to the master. The natural key is the full
// type + name + brand triple, so the same name may exist under two brands.
func (r *ProductRepository) Create(product models.Product) (*models.Product, error) {
	var existing models.Product
	err := r.db.Where("product_type = ? AND LOWER(productname) = LOWER(?) AND LOWER(brand) = LOWER(?)",
		product.ProductType, product.ProductName, product.Brand).First(&existing).Error
	if err == nil {
		return nil, ErrProductExists
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	if err := r.db.Create(&product).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

// List filters by type and/or brand; empty strings mean no filter.
func (r *ProductRepository) List(productType, brand string) ([]models.Product, error) {
	var products []models.Product
	q := r.db.Order("product_type, productname")
	if productType != "" {
		q = q.Where("product_type = ?", productType)
	}
	if brand != "" {
		q = q.Where("LOWER(brand) = LOWER(?)", brand)
	}
	if err := q.Find(&products).Error; err != nil {
		return nil, err
	}
	return products, nil
}

func (r *ProductRepository) Types() ([]string, error) {
	var types []string
	if err := r.db.Model(&models.Product{}).
		Distinct("product_type").Order("product_type").
		Pluck("product_type", &types).Error; err != nil {
		return nil, err
	}
	return types, nil
}

func (r *ProductRepository) Update(id uint, updated models.Product) (*models.Product, error) {
	var product models.Product
	if err := r.db.First(&product, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	product.HSNCode = updated.HSNCode
	product.Price = updated.Price
	product.PerCase = updated.PerCase

	if err := r.db.Save(&product).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *ProductRepository) Delete(id uint) error {
	result := r.db.Delete(&models.Product{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// CreateBrand registers a brand under its normalized name.
func (r *ProductRepository) CreateBrand(name, agentName string) (*models.Brand, error) {
	normalized := models.NormalizeName(name)

	var existing models.Brand
	err := r.db.Where("name = ?", normalized).First(&existing).Error
	if err == nil {
		return nil, ErrBrandExists
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	brand := models.Brand{Name: normalized, AgentName: agentName}
	if err := r.db.Create(&brand).Error; err != nil {
		return nil, err
	}
	return &brand, nil
}

func (r *ProductRepository) Brands() ([]models.Brand, error) {
	var brands []models.Brand
	if err := r.db.Order("name").Find(&brands).Error; err != nil {
		return nil, err
	}
	return brands, nil
}

func (r *ProductRepository) UpdateBrandAgent(id uint, agentName string) (*models.Brand, error) {
	var brand models.Brand
	if err := r.db.First(&brand, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	brand.AgentName = agentName
	if err := r.db.Save(&brand).Error; err != nil {
		return nil, err
	}
	return &brand, nil
}
