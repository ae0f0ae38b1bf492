package repositories

import (
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"godown-app/models"
)

type StockRepository struct {
	db *gorm.DB
}

func NewStockRepository(db *gorm.DB) *StockRepository {
	return &StockRepository{db: db}
}

// lockStock reads the stock row FOR UPDATE so the balance check and the
// decrement that follows are serialized against concurrent mutators.
func (r *StockRepository) lockStock(tx *gorm.DB, stockID uint) (*models.Stock, error) {
	var stock models.Stock
	if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&stock, stockID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &stock, nil
}

// Deduct removes cases from a stock row inside the caller's transaction.
// Fails with ErrInsufficientStock before touching anything when the balance
// is too low.
func (r *StockRepository) Deduct(tx *gorm.DB, stockID uint, cases int, customerName, takenBy string) error {
	stock, err := r.lockStock(tx, stockID)
	if err != nil {
		return err
	}

	if cases > stock.CurrentCases {
		return fmt.Errorf("%w: %s", ErrInsufficientStock, stock.ProductName)
	}

	now := time.Now()
	if err := tx.Model(&models.Stock{}).Where("id = ?", stockID).Updates(map[string]interface{}{
		"current_cases":   gorm.Expr("current_cases - ?", cases),
		"taken_cases":     gorm.Expr("taken_cases + ?", cases),
		"last_taken_date": now,
	}).Error; err != nil {
		return err
	}

	history := models.StockHistory{
		StockID:      stockID,
		Action:       models.StockActionTaken,
		Cases:        cases,
		PerCaseTotal: cases * stock.PerCase,
		CustomerName: customerName,
		TakenBy:      takenBy,
	}
	return tx.Create(&history).Error
}

// Restore puts cases back, flooring taken_cases at zero. Used when a booking
// is edited or deleted to reverse its earlier deductions.
func (r *StockRepository) Restore(tx *gorm.DB, stockID uint, cases int, customerName, addedBy string) error {
	stock, err := r.lockStock(tx, stockID)
	if err != nil {
		return err
	}

	newTaken := stock.TakenCases - cases
	if newTaken < 0 {
		newTaken = 0
	}

	if err := tx.Model(&models.Stock{}).Where("id = ?", stockID).Updates(map[string]interface{}{
		"current_cases": gorm.Expr("current_cases + ?", cases),
		"taken_cases":   newTaken,
	}).Error; err != nil {
		return err
	}

	history := models.StockHistory{
		StockID:      stockID,
		Action:       models.StockActionAdded,
		Cases:        cases,
		PerCaseTotal: cases * stock.PerCase,
		CustomerName: customerName,
		AddedBy:      addedBy,
	}
	return tx.Create(&history).Error
}

// Intake locates or creates the stock row for the natural key and adds
// cases to it. per_case comes from the product master the first time the
// row is created and is not changed by later intakes.
func (r *StockRepository) Intake(tx *gorm.DB, godownID uint, productType, productName, brand string, cases int, addedBy string, customDate *time.Time) (uint, error) {
	var godown models.Godown
	if err := tx.First(&godown, godownID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, ErrNotFound
		}
		return 0, err
	}

	var product models.Product
	if err := tx.Where("product_type = ? AND productname = ? AND brand = ?",
		productType, productName, brand).First(&product).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, fmt.Errorf("%w: product %s (%s)", ErrNotFound, productName, brand)
		}
		return 0, err
	}

	if err := r.ensureBrand(tx, brand); err != nil {
		return 0, err
	}

	var stock models.Stock
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("godown_id = ? AND product_type = ? AND productname = ? AND brand = ?",
			godownID, productType, productName, brand).
		First(&stock).Error

	dateAdded := time.Now()
	if customDate != nil {
		dateAdded = *customDate
	}

	switch {
	case err == nil:
		if err := tx.Model(&models.Stock{}).Where("id = ?", stock.ID).Updates(map[string]interface{}{
			"current_cases": gorm.Expr("current_cases + ?", cases),
			"date_added":    dateAdded,
		}).Error; err != nil {
			return 0, err
		}
	case errors.Is(err, gorm.ErrRecordNotFound):
		stock = models.Stock{
			GodownID:     godownID,
			ProductType:  productType,
			ProductName:  productName,
			Brand:        brand,
			CurrentCases: cases,
			PerCase:      product.PerCase,
			DateAdded:    dateAdded,
		}
		if err := tx.Create(&stock).Error; err != nil {
			return 0, err
		}
	default:
		return 0, err
	}

	history := models.StockHistory{
		StockID:      stock.ID,
		Action:       models.StockActionAdded,
		Cases:        cases,
		PerCaseTotal: cases * product.PerCase,
		Date:         dateAdded,
		AddedBy:      addedBy,
	}
	return stock.ID, tx.Create(&history).Error
}

// IntakeEntry is one line of a bulk allocation.
type IntakeEntry struct {
	ProductType string `json:"product_type"`
	ProductName string `json:"productname"`
	Brand       string `json:"brand"`
	Cases       int    `json:"cases"`
}

// BulkAllocate runs a list of intakes as one transaction; any bad line
// rolls back the whole batch.
func (r *StockRepository) BulkAllocate(godownID uint, entries []IntakeEntry, addedBy string, customDate *time.Time) ([]uint, error) {
	tx := r.db.Begin()
	if tx.Error != nil {
		return nil, tx.Error
	}
	defer func() {
		if rec := recover(); rec != nil {
			tx.Rollback()
		}
	}()

	ids := make([]uint, 0, len(entries))
	for _, e := range entries {
		stockID, err := r.Intake(tx, godownID, e.ProductType, e.ProductName, e.Brand, e.Cases, addedBy, customDate)
		if err != nil {
			tx.Rollback()
			return nil, err
		}
		ids = append(ids, stockID)
	}

	if err := tx.Commit().Error; err != nil {
		return nil, err
	}
	return ids, nil
}

// Transfer moves cases between godowns in one transaction: lock and deduct
// at the source, locate or create the same product's row at the target, add
// there, and write one history row on each side naming the counterpart.
func (r *StockRepository) Transfer(sourceStockID, targetGodownID uint, cases int, addedBy string, customDate *time.Time) error {
	tx := r.db.Begin()
	if tx.Error != nil {
		return tx.Error
	}
	defer func() {
		if rec := recover(); rec != nil {
			tx.Rollback()
		}
	}()

	source, err := r.lockStock(tx, sourceStockID)
	if err != nil {
		tx.Rollback()
		return err
	}

	if cases > source.CurrentCases {
		tx.Rollback()
		return fmt.Errorf("%w: %s", ErrInsufficientStock, source.ProductName)
	}

	var sourceGodown models.Godown
	if err := tx.First(&sourceGodown, source.GodownID).Error; err != nil {
		tx.Rollback()
		return err
	}

	var targetGodown models.Godown
	if err := tx.First(&targetGodown, targetGodownID).Error; err != nil {
		tx.Rollback()
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: target godown", ErrNotFound)
		}
		return err
	}

	when := time.Now()
	if customDate != nil {
		when = *customDate
	}

	if err := tx.Model(&models.Stock{}).Where("id = ?", sourceStockID).Updates(map[string]interface{}{
		"current_cases":   gorm.Expr("current_cases - ?", cases),
		"taken_cases":     gorm.Expr("taken_cases + ?", cases),
		"last_taken_date": when,
	}).Error; err != nil {
		tx.Rollback()
		return err
	}

	perCaseTotal := cases * source.PerCase

	if err := tx.Create(&models.StockHistory{
		StockID:      sourceStockID,
		Action:       models.StockActionTaken,
		Cases:        cases,
		PerCaseTotal: perCaseTotal,
		Date:         when,
		AddedBy:      addedBy,
		CustomerName: "TRANSFERRED TO " + models.DisplayName(targetGodown.Name),
	}).Error; err != nil {
		tx.Rollback()
		return err
	}

	var target models.Stock
	err = tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("godown_id = ? AND product_type = ? AND productname = ? AND brand = ?",
			targetGodownID, source.ProductType, source.ProductName, source.Brand).
		First(&target).Error

	switch {
	case err == nil:
		if err := tx.Model(&models.Stock{}).Where("id = ?", target.ID).Updates(map[string]interface{}{
			"current_cases": gorm.Expr("current_cases + ?", cases),
			"date_added":    when,
		}).Error; err != nil {
			tx.Rollback()
			return err
		}
	case errors.Is(err, gorm.ErrRecordNotFound):
		if err := r.ensureBrand(tx, source.Brand); err != nil {
			tx.Rollback()
			return err
		}
		target = models.Stock{
			GodownID:     targetGodownID,
			ProductType:  source.ProductType,
			ProductName:  source.ProductName,
			Brand:        source.Brand,
			CurrentCases: cases,
			PerCase:      source.PerCase,
			DateAdded:    when,
		}
		if err := tx.Create(&target).Error; err != nil {
			tx.Rollback()
			return err
		}
	default:
		tx.Rollback()
		return err
	}

	if err := tx.Create(&models.StockHistory{
		StockID:      target.ID,
		Action:       models.StockActionAdded,
		Cases:        cases,
		PerCaseTotal: perCaseTotal,
		Date:         when,
		AddedBy:      fmt.Sprintf("TRANSFERRED FROM %s by %s", models.DisplayName(sourceGodown.Name), addedBy),
	}).Error; err != nil {
		tx.Rollback()
		return err
	}

	return tx.Commit().Error
}

// Take is the standalone stock-withdrawal endpoint: one deduction in its own
// transaction. Returns the remaining case count.
func (r *StockRepository) Take(stockID uint, cases int, takenBy string) (int, error) {
	tx := r.db.Begin()
	if tx.Error != nil {
		return 0, tx.Error
	}

	stock, err := r.lockStock(tx, stockID)
	if err != nil {
		tx.Rollback()
		return 0, err
	}

	if err := r.Deduct(tx, stockID, cases, "", takenBy); err != nil {
		tx.Rollback()
		return 0, err
	}

	if err := tx.Commit().Error; err != nil {
		return 0, err
	}
	return stock.CurrentCases - cases, nil
}

// AddToExisting tops up an existing stock row in its own transaction.
func (r *StockRepository) AddToExisting(stockID uint, cases int, addedBy string) (int, error) {
	tx := r.db.Begin()
	if tx.Error != nil {
		return 0, tx.Error
	}

	stock, err := r.lockStock(tx, stockID)
	if err != nil {
		tx.Rollback()
		return 0, err
	}

	if err := tx.Model(&models.Stock{}).Where("id = ?", stockID).Updates(map[string]interface{}{
		"current_cases": gorm.Expr("current_cases + ?", cases),
		"date_added":    time.Now(),
	}).Error; err != nil {
		tx.Rollback()
		return 0, err
	}

	if err := tx.Create(&models.StockHistory{
		StockID:      stockID,
		Action:       models.StockActionAdded,
		Cases:        cases,
		PerCaseTotal: cases * stock.PerCase,
		AddedBy:      addedBy,
	}).Error; err != nil {
		tx.Rollback()
		return 0, err
	}

	if err := tx.Commit().Error; err != nil {
		return 0, err
	}
	return stock.CurrentCases + cases, nil
}

// DeleteEntry removes a stock row and its history after checking the row
// actually belongs to the given godown.
func (r *StockRepository) DeleteEntry(godownID, stockID uint) error {
	tx := r.db.Begin()
	if tx.Error != nil {
		return tx.Error
	}

	var stock models.Stock
	if err := tx.Where("id = ? AND godown_id = ?", stockID, godownID).First(&stock).Error; err != nil {
		tx.Rollback()
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}

	if err := tx.Where("stock_id = ?", stockID).Delete(&models.StockHistory{}).Error; err != nil {
		tx.Rollback()
		return err
	}
	if err := tx.Delete(&models.Stock{}, stockID).Error; err != nil {
		tx.Rollback()
		return err
	}

	return tx.Commit().Error
}

// FindRestoreTarget resolves the stock row a booking line should be restored
// to. The stock id persisted on the line wins; for historical items saved
// without one, fall back to a name + godown match and log that the fuzzy
// path was taken.
func (r *StockRepository) FindRestoreTarget(tx *gorm.DB, item models.LineItem) (*models.Stock, error) {
	if item.StockID > 0 {
		var stock models.Stock
		if err := tx.First(&stock, item.StockID).Error; err == nil {
			return &stock, nil
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
	}

	var stock models.Stock
	err := tx.Joins("JOIN godowns ON godowns.id = stocks.godown_id").
		Where("LOWER(stocks.productname) = LOWER(?) AND godowns.name = ?",
			item.ProductName, models.NormalizeName(item.Godown)).
		First(&stock).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	logrus.WithFields(logrus.Fields{
		"productname": item.ProductName,
		"godown":      item.Godown,
		"stock_id":    stock.ID,
	}).Warn("restock matched by name+godown fallback, line item had no stock id")

	return &stock, nil
}

func (r *StockRepository) ensureBrand(tx *gorm.DB, brand string) error {
	normalized := models.NormalizeName(brand)
	var existing models.Brand
	err := tx.Where("name = ?", normalized).First(&existing).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return tx.Create(&models.Brand{Name: normalized}).Error
	}
	return err
}

// StockWithRate joins a stock row with its current master price.
type StockWithRate struct {
	ID           uint    `json:"id"`
	ProductType  string  `json:"product_type"`
	ProductName  string  `json:"productname"`
	Brand        string  `json:"brand"`
	PerCase      int     `json:"per_case"`
	CurrentCases int     `json:"current_cases"`
	RatePerBox   float64 `json:"rate_per_box"`
	GodownID     uint    `json:"godown_id"`
	GodownName   string  `json:"godown_name"`
	AgentName    string  `json:"agent_name"`
}

func (r *StockRepository) StockByGodown(godownID uint) ([]StockWithRate, error) {
	var rows []StockWithRate

	sql := `SELECT
			s.id, s.product_type, s.productname, s.brand, s.per_case, s.current_cases,
			COALESCE(p.price, 0) AS rate_per_box,
			s.godown_id,
			g.name AS godown_name,
			COALESCE(b.agent_name, '-') AS agent_name
		FROM stocks s
		JOIN godowns g ON s.godown_id = g.id
		LEFT JOIN products p
			ON p.product_type = s.product_type
			AND LOWER(p.productname) = LOWER(s.productname)
			AND LOWER(p.brand) = LOWER(s.brand)
		LEFT JOIN brands b ON b.name = s.brand
		WHERE s.godown_id = ?
		ORDER BY s.product_type, s.productname`

	if err := r.db.Raw(sql, godownID).Scan(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// SearchGlobal finds in-stock products across every godown by name or brand.
func (r *StockRepository) SearchGlobal(term string) ([]StockWithRate, error) {
	var rows []StockWithRate
	pattern := "%" + models.NormalizeName(term) + "%"

	sql := `SELECT
			s.id, s.product_type, s.productname, s.brand, s.per_case, s.current_cases,
			COALESCE(p.price, 0) AS rate_per_box,
			s.godown_id,
			g.name AS godown_name
		FROM stocks s
		JOIN godowns g ON s.godown_id = g.id
		LEFT JOIN products p
			ON p.product_type = s.product_type
			AND LOWER(p.productname) = LOWER(s.productname)
			AND LOWER(p.brand) = LOWER(s.brand)
		WHERE s.current_cases > 0
			AND (LOWER(s.productname) LIKE ? OR LOWER(s.brand) LIKE ?)
		ORDER BY s.product_type, s.productname`

	if err := r.db.Raw(sql, pattern, pattern).Scan(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// HistoryRow is one audit line joined with its stock master data.
type HistoryRow struct {
	ID           uint      `json:"id"`
	StockID      uint      `json:"stock_id"`
	Action       string    `json:"action"`
	Cases        int       `json:"cases"`
	PerCaseTotal int       `json:"per_case_total"`
	Date         time.Time `json:"date"`
	CustomerName string    `json:"customer_name"`
	AddedBy      string    `json:"added_by"`
	TakenBy      string    `json:"taken_by"`
	ProductName  string    `json:"productname"`
	Brand        string    `json:"brand"`
	ProductType  string    `json:"product_type"`
	AgentName    string    `json:"agent_name"`
}

func (r *StockRepository) HistoryForStock(stockID uint) ([]HistoryRow, error) {
	var rows []HistoryRow

	sql := `SELECT
			h.id, h.stock_id, h.action, h.cases, h.per_case_total, h.date,
			COALESCE(h.customer_name, '-') AS customer_name,
			h.added_by, h.taken_by,
			s.productname, s.brand, s.product_type,
			COALESCE(b.agent_name, '-') AS agent_name
		FROM stock_history h
		JOIN stocks s ON h.stock_id = s.id
		LEFT JOIN brands b ON b.name = s.brand
		WHERE h.stock_id = ?
		ORDER BY h.date DESC`

	if err := r.db.Raw(sql, stockID).Scan(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// HistoryForGodown feeds the Excel export: the full movement log of one
// godown, newest first.
func (r *StockRepository) HistoryForGodown(godownID uint) ([]HistoryRow, error) {
	var rows []HistoryRow

	sql := `SELECT
			h.id, h.stock_id, h.action, h.cases, h.per_case_total, h.date,
			COALESCE(h.customer_name, '-') AS customer_name,
			h.added_by, h.taken_by,
			s.productname, s.brand, s.product_type,
			COALESCE(b.agent_name, '-') AS agent_name
		FROM stock_history h
		JOIN stocks s ON h.stock_id = s.id
		LEFT JOIN brands b ON b.name = s.brand
		WHERE s.godown_id = ?
		ORDER BY h.date DESC`

	if err := r.db.Raw(sql, godownID).Scan(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}
