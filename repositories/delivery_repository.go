package repositories

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"godown-app/models"
)

type DeliveryRepository struct {
	db       *gorm.DB
	stocks   *StockRepository
	sequence *SequenceRepository
}

func NewDeliveryRepository(db *gorm.DB) *DeliveryRepository {
	return &DeliveryRepository{
		db:       db,
		stocks:   NewStockRepository(db),
		sequence: NewSequenceRepository(db),
	}
}

// Create allocates a DC-<n> number from the shared bill/challan counter and
// deducts stock for every line immediately; the later conversion to a bill
// does not touch stock again. per_case is taken from the locked stock row,
// not from the request.
func (r *DeliveryRepository) Create(challan models.DeliveryChallan, createdBy string) (*models.DeliveryChallan, error) {
	tx := r.db.Begin()
	if tx.Error != nil {
		return nil, tx.Error
	}
	defer func() {
		if rec := recover(); rec != nil {
			tx.Rollback()
		}
	}()

	next, err := r.sequence.NextBillChallanNumber(tx)
	if err != nil {
		tx.Rollback()
		return nil, err
	}
	challan.ChallanNumber = fmt.Sprintf("DC-%d", next)

	for i, item := range challan.Items {
		stock, err := r.stocks.lockStock(tx, item.StockID)
		if err != nil {
			tx.Rollback()
			return nil, err
		}

		challan.Items[i].PerCase = stock.PerCase
		challan.Items[i].ProductName = stock.ProductName
		challan.Items[i].Brand = stock.Brand
		challan.Items[i].ProductType = stock.ProductType

		if err := r.stocks.Deduct(tx, item.StockID, item.Cases, challan.CustomerName, createdBy); err != nil {
			tx.Rollback()
			return nil, err
		}
	}

	challan.CreatedBy = createdBy
	challan.ConvertedToBill = false

	if err := tx.Create(&challan).Error; err != nil {
		tx.Rollback()
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		return nil, err
	}
	return &challan, nil
}

// Pending returns challans not yet converted, newest first.
func (r *DeliveryRepository) Pending() ([]models.DeliveryChallan, error) {
	var challans []models.DeliveryChallan
	if err := r.db.Where("converted_to_bill = FALSE").
		Order("created_at DESC").Find(&challans).Error; err != nil {
		return nil, err
	}
	return challans, nil
}

func (r *DeliveryRepository) List() ([]models.DeliveryChallan, error) {
	var challans []models.DeliveryChallan
	if err := r.db.Order("created_at DESC").Find(&challans).Error; err != nil {
		return nil, err
	}
	return challans, nil
}

// PricedChallanItem is a challan line joined with the product master's
// current price, the starting point for the conversion form.
type PricedChallanItem struct {
	models.ChallanItem
	RatePerBox float64 `json:"rate_per_box"`
}

type PricedChallan struct {
	Challan models.DeliveryChallan `json:"challan"`
	Items   []PricedChallanItem    `json:"items"`
}

// GetPriced loads one challan and resolves current master prices for its
// lines. Lines whose product no longer exists get a zero rate.
func (r *DeliveryRepository) GetPriced(id uint) (*PricedChallan, error) {
	var challan models.DeliveryChallan
	if err := r.db.First(&challan, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	priced := make([]PricedChallanItem, len(challan.Items))
	for i, item := range challan.Items {
		priced[i] = PricedChallanItem{ChallanItem: item}

		var product models.Product
		err := r.db.Where("product_type = ? AND LOWER(productname) = LOWER(?) AND LOWER(brand) = LOWER(?)",
			item.ProductType, item.ProductName, item.Brand).First(&product).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				continue
			}
			return nil, err
		}
		priced[i].RatePerBox, _ = product.Price.Float64()
	}

	return &PricedChallan{Challan: challan, Items: priced}, nil
}
