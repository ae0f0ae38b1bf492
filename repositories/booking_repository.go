package repositories

import (
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"godown-app/models"
	"godown-app/services"
)

type BookingRepository struct {
	db       *gorm.DB
	stocks   *StockRepository
	sequence *SequenceRepository
}

func NewBookingRepository(db *gorm.DB) *BookingRepository {
	return &BookingRepository{
		db:       db,
		stocks:   NewStockRepository(db),
		sequence: NewSequenceRepository(db),
	}
}

// deductsStock reports whether a booking with these flags took cases out of
// the ledger when it was created. Challan-backed bills never deduct again;
// the challan already did.
func deductsStock(extra models.ExtraCharges) bool {
	return extra.IsDirectBill && !extra.FromChallan
}

// Create allocates the next bill number, deducts stock for direct bills and
// persists the booking with server-side totals, all in one transaction.
func (r *BookingRepository) Create(booking models.Booking, createdBy string) (*models.Booking, error) {
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
	booking.BillNumber = fmt.Sprintf("BILL-%d", next)

	booking.Items = services.ProcessItems(booking.Items)

	if deductsStock(booking.ExtraCharges) {
		for _, item := range booking.Items {
			if err := r.stocks.Deduct(tx, item.StockID, item.Cases, booking.CustomerName, createdBy); err != nil {
				tx.Rollback()
				return nil, err
			}
		}
	}

	totals := services.ComputeTotals(booking.Items, booking.ExtraCharges)
	booking.Total = totals.GrandTotal

	if err := tx.Create(&booking).Error; err != nil {
		tx.Rollback()
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		return nil, err
	}
	return &booking, nil
}

// Update reverses every deduction of the stored booking, applies the new
// line items as if the booking were being created fresh, and persists the
// result. Old and new item sets need not overlap at all.
func (r *BookingRepository) Update(id uint, updated models.Booking, editedBy string) (*models.Booking, error) {
	tx := r.db.Begin()
	if tx.Error != nil {
		return nil, tx.Error
	}
	defer func() {
		if rec := recover(); rec != nil {
			tx.Rollback()
		}
	}()

	var existing models.Booking
	if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&existing, id).Error; err != nil {
		tx.Rollback()
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	// The stock mode is fixed at creation. A request body cannot flip a
	// direct bill into a non-deducting one, or the restock below and the
	// deduct decision would disagree.
	updated.ExtraCharges.IsDirectBill = existing.ExtraCharges.IsDirectBill
	updated.ExtraCharges.FromChallan = existing.ExtraCharges.FromChallan

	if deductsStock(existing.ExtraCharges) {
		if err := r.restockItems(tx, existing.Items, existing.CustomerName, editedBy); err != nil {
			tx.Rollback()
			return nil, err
		}
	}

	updated.Items = services.ProcessItems(updated.Items)

	if deductsStock(updated.ExtraCharges) {
		for _, item := range updated.Items {
			if err := r.stocks.Deduct(tx, item.StockID, item.Cases, updated.CustomerName, editedBy); err != nil {
				tx.Rollback()
				return nil, err
			}
		}
	}

	totals := services.ComputeTotals(updated.Items, updated.ExtraCharges)

	existing.BillDate = updated.BillDate
	existing.CustomerName = updated.CustomerName
	existing.Address = updated.Address
	existing.GSTIN = updated.GSTIN
	existing.LRNumber = updated.LRNumber
	existing.AgentName = updated.AgentName
	existing.FromLocation = updated.FromLocation
	existing.ToLocation = updated.ToLocation
	existing.Through = updated.Through
	existing.StockFrom = updated.StockFrom
	existing.Items = updated.Items
	existing.ExtraCharges = updated.ExtraCharges
	existing.Total = totals.GrandTotal

	if err := tx.Save(&existing).Error; err != nil {
		tx.Rollback()
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		return nil, err
	}
	return &existing, nil
}

// Delete restores every case the booking had taken and removes it, along
// with its payments and dispatch logs.
func (r *BookingRepository) Delete(id uint, deletedBy string) error {
	tx := r.db.Begin()
	if tx.Error != nil {
		return tx.Error
	}
	defer func() {
		if rec := recover(); rec != nil {
			tx.Rollback()
		}
	}()

	var booking models.Booking
	if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&booking, id).Error; err != nil {
		tx.Rollback()
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}

	if deductsStock(booking.ExtraCharges) {
		if err := r.restockItems(tx, booking.Items, booking.CustomerName, deletedBy); err != nil {
			tx.Rollback()
			return err
		}
	}

	if err := tx.Where("booking_id = ?", id).Delete(&models.Payment{}).Error; err != nil {
		tx.Rollback()
		return err
	}
	if err := tx.Where("booking_id = ?", id).Delete(&models.DispatchLog{}).Error; err != nil {
		tx.Rollback()
		return err
	}
	if err := tx.Delete(&models.Booking{}, id).Error; err != nil {
		tx.Rollback()
		return err
	}

	return tx.Commit().Error
}

func (r *BookingRepository) restockItems(tx *gorm.DB, items models.LineItems, customerName, by string) error {
	for _, item := range items {
		stock, err := r.stocks.FindRestoreTarget(tx, item)
		if err != nil {
			if errors.Is(err, ErrNotFound) {
				// Stock row was deleted after the booking was made.
				// Nothing left to restore into; skip the line.
				continue
			}
			return err
		}
		if err := r.stocks.Restore(tx, stock.ID, item.Cases, customerName, by); err != nil {
			return err
		}
	}
	return nil
}

// ConvertChallan promotes a pending delivery challan into a booking. The
// challan row is locked with converted_to_bill = FALSE in the predicate, so
// two concurrent conversions cannot both succeed. The bill keeps the
// challan's digits (DC-7 becomes BILL-7) and stock is not deducted again.
func (r *BookingRepository) ConvertChallan(challanID uint, booking models.Booking, convertedBy string) (*models.Booking, error) {
	tx := r.db.Begin()
	if tx.Error != nil {
		return nil, tx.Error
	}
	defer func() {
		if rec := recover(); rec != nil {
			tx.Rollback()
		}
	}()

	var challan models.DeliveryChallan
	if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ? AND converted_to_bill = FALSE", challanID).
		First(&challan).Error; err != nil {
		tx.Rollback()
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAlreadyConverted
		}
		return nil, err
	}

	booking.BillNumber = "BILL-" + strings.TrimPrefix(challan.ChallanNumber, "DC-")
	booking.FromChallan = true
	booking.ChallanNumber = challan.ChallanNumber
	booking.ExtraCharges.FromChallan = true

	items, err := priceChallanItems(challan.Items, booking.Items)
	if err != nil {
		tx.Rollback()
		return nil, err
	}
	booking.Items = items

	booking.Items = services.ProcessItems(booking.Items)
	totals := services.ComputeTotals(booking.Items, booking.ExtraCharges)
	booking.Total = totals.GrandTotal

	if err := tx.Create(&booking).Error; err != nil {
		tx.Rollback()
		return nil, err
	}

	if err := tx.Model(&models.DeliveryChallan{}).Where("id = ?", challan.ID).
		Update("converted_to_bill", true).Error; err != nil {
		tx.Rollback()
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		return nil, err
	}
	return &booking, nil
}

// priceChallanItems builds the bill's line items from the challan's stored
// lines, which are what was actually deducted. The request only contributes
// rate and discount, matched by stock id; extra lines, missing lines, or a
// changed case count are rejected, so the desk cannot bill goods the
// challan never reserved.
func priceChallanItems(challanItems models.ChallanItems, requested models.LineItems) (models.LineItems, error) {
	priced := make(map[uint]models.LineItem, len(requested))
	for _, item := range requested {
		if _, dup := priced[item.StockID]; dup {
			return nil, ErrChallanMismatch
		}
		priced[item.StockID] = item
	}
	if len(priced) != len(challanItems) {
		return nil, ErrChallanMismatch
	}

	items := make(models.LineItems, len(challanItems))
	for i, ci := range challanItems {
		req, ok := priced[ci.StockID]
		if !ok {
			return nil, ErrChallanMismatch
		}
		// A zero case count means "as challaned"; any other value has to
		// agree with what was deducted.
		if req.Cases != 0 && req.Cases != ci.Cases {
			return nil, ErrChallanMismatch
		}
		items[i] = models.LineItem{
			StockID:         ci.StockID,
			ProductName:     ci.ProductName,
			Brand:           ci.Brand,
			Cases:           ci.Cases,
			PerCase:         ci.PerCase,
			RatePerBox:      req.RatePerBox,
			DiscountPercent: req.DiscountPercent,
			Godown:          ci.Godown,
		}
	}
	return items, nil
}

// List returns bookings newest first, optionally filtered by a customer or
// bill-number search term.
func (r *BookingRepository) List(search string) ([]models.Booking, error) {
	var bookings []models.Booking
	q := r.db.Order("created_at DESC")
	if search != "" {
		pattern := "%" + strings.ToLower(search) + "%"
		q = q.Where("LOWER(customer_name) LIKE ? OR LOWER(bill_number) LIKE ?", pattern, pattern)
	}
	if err := q.Find(&bookings).Error; err != nil {
		return nil, err
	}
	return bookings, nil
}

func (r *BookingRepository) GetByID(id uint) (*models.Booking, error) {
	var booking models.Booking
	if err := r.db.First(&booking, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &booking, nil
}

// CustomerSuggestion backs the booking form's autocomplete.
type CustomerSuggestion struct {
	CustomerName string `json:"customer_name"`
	Address      string `json:"address"`
	GSTIN        string `json:"gstin"`
	ToLocation   string `json:"to"`
}

// Customers returns the latest address and GSTIN seen for each distinct
// customer whose name matches the term.
func (r *BookingRepository) Customers(term string) ([]CustomerSuggestion, error) {
	var rows []CustomerSuggestion
	pattern := "%" + strings.ToLower(term) + "%"

	sql := `SELECT DISTINCT ON (LOWER(customer_name))
			customer_name, address, gstin, to_location
		FROM bookings
		WHERE LOWER(customer_name) LIKE ?
		ORDER BY LOWER(customer_name), created_at DESC
		LIMIT 20`

	if err := r.db.Raw(sql, pattern).Scan(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// Document bundles a booking with its full recomputed breakdown for the
// printable bill view.
type Document struct {
	Booking models.Booking      `json:"booking"`
	Totals  services.BillTotals `json:"totals"`
}

func (r *BookingRepository) GetDocument(id uint) (*Document, error) {
	booking, err := r.GetByID(id)
	if err != nil {
		return nil, err
	}
	totals := services.ComputeTotals(booking.Items, booking.ExtraCharges).Rounded()
	return &Document{Booking: *booking, Totals: totals}, nil
}
