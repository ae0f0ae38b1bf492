package repositories_test

import (
	"errors"
	"os"
	"strings"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"godown-app/config"
	"godown-app/database"
	"godown-app/models"
	"godown-app/repositories"
	"godown-app/utils"
)

// setupDB connects to the database named by the DB_* environment and wipes
// every table, so each test starts from a clean ledger.
func setupDB(t *testing.T) *gorm.DB {
	t.Helper()

	if strings.TrimSpace(os.Getenv("INTEGRATION_TESTS")) == "" {
		t.Skip("set INTEGRATION_TESTS=1 to run integration tests (requires postgres)")
	}

	t.Setenv("COMPANY_NAME", "NISHA TRADERS")
	config.LoadConfig()
	utils.InitIDGen()

	db, err := config.ConnectDB()
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))

	err = db.Exec(`TRUNCATE stock_history, stocks, godowns, products, brands,
		sequence_counters, bookings, delivery, billings, payments,
		dispatch_logs, admins, admin_banks RESTART IDENTITY CASCADE`).Error
	require.NoError(t, err)

	return db
}

func seedGodown(t *testing.T, db *gorm.DB, name string) *models.Godown {
	t.Helper()
	godown, err := repositories.NewGodownRepository(db).Create(name)
	require.NoError(t, err)
	return godown
}

func seedProduct(t *testing.T, db *gorm.DB, name string, perCase int) *models.Product {
	t.Helper()
	product, err := repositories.NewProductRepository(db).Create(models.Product{
		ProductType: "crackers",
		ProductName: name,
		Brand:       "standard",
		Price:       decimal.NewFromInt(100),
		PerCase:     perCase,
	})
	require.NoError(t, err)
	return product
}

func seedStock(t *testing.T, db *gorm.DB, godownID uint, name string, cases int) uint {
	t.Helper()
	stocks := repositories.NewStockRepository(db)

	tx := db.Begin()
	stockID, err := stocks.Intake(tx, godownID, "crackers", name, "standard", cases, "tester", nil)
	require.NoError(t, err)
	require.NoError(t, tx.Commit().Error)
	return stockID
}

func getStock(t *testing.T, db *gorm.DB, id uint) models.Stock {
	t.Helper()
	var stock models.Stock
	require.NoError(t, db.First(&stock, id).Error)
	return stock
}

func TestSequenceNumbersUniqueUnderConcurrency(t *testing.T) {
	db := setupDB(t)
	seq := repositories.NewSequenceRepository(db)

	const workers = 20
	results := make(chan int64, workers)
	var wg sync.WaitGroup

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			tx := db.Begin()
			n, err := seq.NextBillChallanNumber(tx)
			if err != nil {
				tx.Rollback()
				t.Error(err)
				return
			}
			if err := tx.Commit().Error; err != nil {
				t.Error(err)
				return
			}
			results <- n
		}()
	}

	wg.Wait()
	close(results)

	seen := map[int64]bool{}
	for n := range results {
		assert.False(t, seen[n], "number %d allocated twice", n)
		seen[n] = true
	}
	assert.Len(t, seen, workers)
}

func TestDeductRejectsInsufficientStock(t *testing.T) {
	db := setupDB(t)
	stocks := repositories.NewStockRepository(db)

	godown := seedGodown(t, db, "Main Godown")
	seedProduct(t, db, "SPARKLE", 12)
	stockID := seedStock(t, db, godown.ID, "SPARKLE", 5)

	tx := db.Begin()
	err := stocks.Deduct(tx, stockID, 10, "ACME", "tester")
	require.ErrorIs(t, err, repositories.ErrInsufficientStock)
	tx.Rollback()

	stock := getStock(t, db, stockID)
	assert.Equal(t, 5, stock.CurrentCases)
	assert.Equal(t, 0, stock.TakenCases)

	var count int64
	require.NoError(t, db.Model(&models.StockHistory{}).
		Where("stock_id = ? AND action = ?", stockID, models.StockActionTaken).
		Count(&count).Error)
	assert.Zero(t, count, "failed deduction must not leave a history row")
}

func TestConcurrentDeductsNeverExceedIntake(t *testing.T) {
	db := setupDB(t)
	stocks := repositories.NewStockRepository(db)

	godown := seedGodown(t, db, "Main Godown")
	seedProduct(t, db, "SPARKLE", 12)
	stockID := seedStock(t, db, godown.ID, "SPARKLE", 10)

	const workers = 20
	var succeeded int64
	var wg sync.WaitGroup

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			tx := db.Begin()
			if err := stocks.Deduct(tx, stockID, 1, "ACME", "tester"); err != nil {
				tx.Rollback()
				if !errors.Is(err, repositories.ErrInsufficientStock) {
					t.Error(err)
				}
				return
			}
			if err := tx.Commit().Error; err != nil {
				t.Error(err)
				return
			}
			atomic.AddInt64(&succeeded, 1)
		}()
	}

	wg.Wait()

	assert.LessOrEqual(t, succeeded, int64(10), "deductions must not exceed intake")

	stock := getStock(t, db, stockID)
	assert.GreaterOrEqual(t, stock.CurrentCases, 0)
	assert.Equal(t, 10-int(succeeded), stock.CurrentCases)
	assert.Equal(t, int(succeeded), stock.TakenCases)
}

func TestRestoreReversesDeduct(t *testing.T) {
	db := setupDB(t)
	stocks := repositories.NewStockRepository(db)

	godown := seedGodown(t, db, "Main Godown")
	seedProduct(t, db, "SPARKLE", 12)
	stockID := seedStock(t, db, godown.ID, "SPARKLE", 10)

	tx := db.Begin()
	require.NoError(t, stocks.Deduct(tx, stockID, 4, "ACME", "tester"))
	require.NoError(t, tx.Commit().Error)

	stock := getStock(t, db, stockID)
	require.Equal(t, 6, stock.CurrentCases)
	require.Equal(t, 4, stock.TakenCases)
	require.NotNil(t, stock.LastTakenDate)

	tx = db.Begin()
	require.NoError(t, stocks.Restore(tx, stockID, 4, "ACME", "tester"))
	require.NoError(t, tx.Commit().Error)

	stock = getStock(t, db, stockID)
	assert.Equal(t, 10, stock.CurrentCases)
	assert.Equal(t, 0, stock.TakenCases)

	var actions []string
	require.NoError(t, db.Model(&models.StockHistory{}).
		Where("stock_id = ?", stockID).Order("id").
		Pluck("action", &actions).Error)
	assert.Equal(t, []string{"added", "taken", "added"}, actions)
}

func TestTransferCreatesTargetRow(t *testing.T) {
	db := setupDB(t)
	stocks := repositories.NewStockRepository(db)

	source := seedGodown(t, db, "Main Godown")
	target := seedGodown(t, db, "City Shop")
	seedProduct(t, db, "SPARKLE", 12)
	sourceStockID := seedStock(t, db, source.ID, "SPARKLE", 10)

	require.NoError(t, stocks.Transfer(sourceStockID, target.ID, 3, "tester", nil))

	sourceStock := getStock(t, db, sourceStockID)
	assert.Equal(t, 7, sourceStock.CurrentCases)
	assert.Equal(t, 3, sourceStock.TakenCases)

	var targetStock models.Stock
	require.NoError(t, db.Where("godown_id = ? AND productname = ?", target.ID, "SPARKLE").
		First(&targetStock).Error)
	assert.Equal(t, 3, targetStock.CurrentCases)
	assert.Equal(t, 12, targetStock.PerCase)

	var sourceHistory models.StockHistory
	require.NoError(t, db.Where("stock_id = ? AND action = ?", sourceStockID, models.StockActionTaken).
		First(&sourceHistory).Error)
	assert.Contains(t, sourceHistory.CustomerName, "TRANSFERRED TO CITY SHOP")

	var targetHistory models.StockHistory
	require.NoError(t, db.Where("stock_id = ? AND action = ?", targetStock.ID, models.StockActionAdded).
		First(&targetHistory).Error)
	assert.Contains(t, targetHistory.AddedBy, "TRANSFERRED FROM MAIN GODOWN by tester")
}

func TestTransferToMissingGodownFails(t *testing.T) {
	db := setupDB(t)
	stocks := repositories.NewStockRepository(db)

	source := seedGodown(t, db, "Main Godown")
	seedProduct(t, db, "SPARKLE", 12)
	sourceStockID := seedStock(t, db, source.ID, "SPARKLE", 10)

	err := stocks.Transfer(sourceStockID, 9999, 3, "tester", nil)
	require.ErrorIs(t, err, repositories.ErrNotFound)

	sourceStock := getStock(t, db, sourceStockID)
	assert.Equal(t, 10, sourceStock.CurrentCases, "failed transfer must not deduct")
}

func directBooking(stockID uint, cases int) models.Booking {
	return models.Booking{
		CustomerName: "ACME FIREWORKS",
		BillDate:     "2026-01-15",
		Items: models.LineItems{{
			StockID:     stockID,
			ProductName: "SPARKLE",
			Brand:       "standard",
			Cases:       cases,
			PerCase:     12,
			RatePerBox:  100,
			Godown:      "Main Godown",
		}},
		ExtraCharges: models.ExtraCharges{
			ApplyCGST:    true,
			ApplySGST:    true,
			IsDirectBill: true,
		},
	}
}

func TestBookingLifecycleRestocksOnEditAndDelete(t *testing.T) {
	db := setupDB(t)
	bookings := repositories.NewBookingRepository(db)

	godown := seedGodown(t, db, "Main Godown")
	seedProduct(t, db, "SPARKLE", 12)
	stockID := seedStock(t, db, godown.ID, "SPARKLE", 20)

	created, err := bookings.Create(directBooking(stockID, 8), "tester")
	require.NoError(t, err)
	assert.Equal(t, "BILL-1", created.BillNumber)
	assert.Equal(t, 8, getStock(t, db, stockID).TakenCases)

	// Server recomputes the total: 8 * 12 * 100 = 9600, +18% GST = 11328.
	assert.Equal(t, "11328", created.Total.String())

	updated, err := bookings.Update(created.ID, directBooking(stockID, 3), "tester")
	require.NoError(t, err)
	assert.Equal(t, "BILL-1", updated.BillNumber, "bill number survives edits")

	stock := getStock(t, db, stockID)
	assert.Equal(t, 17, stock.CurrentCases)
	assert.Equal(t, 3, stock.TakenCases)

	require.NoError(t, bookings.Delete(created.ID, "tester"))

	stock = getStock(t, db, stockID)
	assert.Equal(t, 20, stock.CurrentCases)
	assert.Equal(t, 0, stock.TakenCases)

	_, err = bookings.GetByID(created.ID)
	assert.ErrorIs(t, err, repositories.ErrNotFound)
}

func TestBookingEditFailsWhenNewItemsExceedStock(t *testing.T) {
	db := setupDB(t)
	bookings := repositories.NewBookingRepository(db)

	godown := seedGodown(t, db, "Main Godown")
	seedProduct(t, db, "SPARKLE", 12)
	stockID := seedStock(t, db, godown.ID, "SPARKLE", 10)

	created, err := bookings.Create(directBooking(stockID, 8), "tester")
	require.NoError(t, err)

	// 8 restored + 2 free = 10 available; 11 must fail and roll back.
	_, err = bookings.Update(created.ID, directBooking(stockID, 11), "tester")
	require.ErrorIs(t, err, repositories.ErrInsufficientStock)

	stock := getStock(t, db, stockID)
	assert.Equal(t, 2, stock.CurrentCases, "rollback keeps the original deduction")
	assert.Equal(t, 8, stock.TakenCases)
}

func TestBookingEditKeepsStockMode(t *testing.T) {
	db := setupDB(t)
	bookings := repositories.NewBookingRepository(db)

	godown := seedGodown(t, db, "Main Godown")
	seedProduct(t, db, "SPARKLE", 12)
	stockID := seedStock(t, db, godown.ID, "SPARKLE", 20)

	created, err := bookings.Create(directBooking(stockID, 8), "tester")
	require.NoError(t, err)
	require.Equal(t, 8, getStock(t, db, stockID).TakenCases)

	// An edit whose body omits the direct-bill flag must not turn the
	// booking into a non-deducting one.
	edit := directBooking(stockID, 3)
	edit.ExtraCharges.IsDirectBill = false

	updated, err := bookings.Update(created.ID, edit, "tester")
	require.NoError(t, err)
	assert.True(t, updated.ExtraCharges.IsDirectBill, "stock mode is fixed at creation")

	stock := getStock(t, db, stockID)
	assert.Equal(t, 17, stock.CurrentCases, "the old 8 restored, the new 3 deducted")
	assert.Equal(t, 3, stock.TakenCases)
}

func TestChallanConvertsExactlyOnce(t *testing.T) {
	db := setupDB(t)
	delivery := repositories.NewDeliveryRepository(db)
	bookings := repositories.NewBookingRepository(db)

	godown := seedGodown(t, db, "Main Godown")
	seedProduct(t, db, "SPARKLE", 12)
	stockID := seedStock(t, db, godown.ID, "SPARKLE", 20)

	challan, err := delivery.Create(models.DeliveryChallan{
		CustomerName: "ACME FIREWORKS",
		Items: models.ChallanItems{{
			StockID: stockID,
			Cases:   5,
		}},
	}, "tester")
	require.NoError(t, err)
	assert.Equal(t, "DC-1", challan.ChallanNumber)
	assert.Equal(t, 15, getStock(t, db, stockID).CurrentCases, "challan deducts at creation")

	bill := directBooking(stockID, 5)
	converted, err := bookings.ConvertChallan(challan.ID, bill, "tester")
	require.NoError(t, err)
	assert.Equal(t, "BILL-1", converted.BillNumber, "bill reuses the challan digits")
	assert.True(t, converted.FromChallan)
	assert.Equal(t, 15, getStock(t, db, stockID).CurrentCases, "conversion must not deduct again")

	_, err = bookings.ConvertChallan(challan.ID, bill, "tester")
	assert.ErrorIs(t, err, repositories.ErrAlreadyConverted)
}

func TestChallanConversionRejectsAlteredItems(t *testing.T) {
	db := setupDB(t)
	delivery := repositories.NewDeliveryRepository(db)
	bookings := repositories.NewBookingRepository(db)

	godown := seedGodown(t, db, "Main Godown")
	seedProduct(t, db, "SPARKLE", 12)
	seedProduct(t, db, "ROCKET", 12)
	stockID := seedStock(t, db, godown.ID, "SPARKLE", 20)
	otherStockID := seedStock(t, db, godown.ID, "ROCKET", 20)

	challan, err := delivery.Create(models.DeliveryChallan{
		CustomerName: "ACME FIREWORKS",
		Items: models.ChallanItems{{
			StockID: stockID,
			Cases:   5,
		}},
	}, "tester")
	require.NoError(t, err)

	// Inflated case count.
	bill := directBooking(stockID, 7)
	_, err = bookings.ConvertChallan(challan.ID, bill, "tester")
	require.ErrorIs(t, err, repositories.ErrChallanMismatch)

	// A line the challan never reserved.
	bill = directBooking(otherStockID, 5)
	_, err = bookings.ConvertChallan(challan.ID, bill, "tester")
	require.ErrorIs(t, err, repositories.ErrChallanMismatch)

	// Rejections must not mark the challan converted.
	pending, err := delivery.Pending()
	require.NoError(t, err)
	require.Len(t, pending, 1)

	// Zero cases means "as challaned"; the bill carries the challan's
	// quantities and the request's pricing.
	bill = directBooking(stockID, 0)
	bill.Items[0].RatePerBox = 150
	converted, err := bookings.ConvertChallan(challan.ID, bill, "tester")
	require.NoError(t, err)
	require.Len(t, converted.Items, 1)
	assert.Equal(t, 5, converted.Items[0].Cases)
	assert.Equal(t, float64(150), converted.Items[0].RatePerBox)
}

func TestManualBillingNumbering(t *testing.T) {
	db := setupDB(t)
	billings := repositories.NewBillingRepository(db)

	next, err := billings.NextBillNo()
	require.NoError(t, err)
	assert.Equal(t, "NT-001", next)

	first, err := billings.Create(models.Billing{CustomerName: "ACME"})
	require.NoError(t, err)
	assert.Equal(t, "NT-001", first.BillNo)

	next, err = billings.NextBillNo()
	require.NoError(t, err)
	assert.Equal(t, "NT-002", next)

	_, err = billings.Create(models.Billing{BillNo: "NT-001", CustomerName: "ACME"})
	assert.ErrorIs(t, err, repositories.ErrDuplicateBillNo)
}

func TestPaymentBalanceRecomputed(t *testing.T) {
	db := setupDB(t)
	bookings := repositories.NewBookingRepository(db)
	payments := repositories.NewPaymentRepository(db)
	admins := repositories.NewAdminRepository(db)

	godown := seedGodown(t, db, "Main Godown")
	seedProduct(t, db, "SPARKLE", 12)
	stockID := seedStock(t, db, godown.ID, "SPARKLE", 20)

	admin, err := admins.Create(models.Admin{Username: "cashier", PasswordHash: "x"})
	require.NoError(t, err)

	booking, err := bookings.Create(directBooking(stockID, 8), "tester")
	require.NoError(t, err)

	pending, err := payments.PendingBills()
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, "11328", pending[0].Balance.String())

	p, err := payments.Record(models.Payment{
		BookingID:     booking.ID,
		AmountPaid:    decimal.NewFromInt(5000),
		PaymentMethod: "cash",
		AdminID:       admin.ID,
	})
	require.NoError(t, err)
	assert.NotEmpty(t, p.RefNo)

	statement, err := payments.StatementFor(booking.ID)
	require.NoError(t, err)
	assert.Equal(t, "6328", statement.Balance.String())

	_, err = payments.Record(models.Payment{
		BookingID:     booking.ID,
		AmountPaid:    decimal.NewFromInt(6328),
		PaymentMethod: "upi",
		AdminID:       admin.ID,
	})
	require.NoError(t, err)

	pending, err = payments.PendingBills()
	require.NoError(t, err)
	assert.Empty(t, pending, "fully paid bills leave the pending list")
}
