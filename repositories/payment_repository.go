package repositories

import (
	"errors"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"godown-app/models"
	"godown-app/utils"
)

type PaymentRepository struct {
	db *gorm.DB
}

func NewPaymentRepository(db *gorm.DB) *PaymentRepository {
	return &PaymentRepository{db: db}
}

// Record appends one payment. The reference number is generated here so two
// admins posting at the same instant can never share one.
func (r *PaymentRepository) Record(payment models.Payment) (*models.Payment, error) {
	var booking models.Booking
	if err := r.db.First(&booking, payment.BookingID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	payment.RefNo = utils.NewRefNo()
	if err := r.db.Create(&payment).Error; err != nil {
		return nil, err
	}
	return &payment, nil
}

// PendingBillRow is one booking with money still owed. When dispatch logs
// exist for the booking, the dispatched total replaces the booked total as
// the amount due.
type PendingBillRow struct {
	BookingID       uint            `json:"booking_id"`
	BillNumber      string          `json:"bill_number"`
	CustomerName    string          `json:"customer_name"`
	BillDate        string          `json:"bill_date"`
	Total           decimal.Decimal `json:"total"`
	DispatchedTotal decimal.Decimal `json:"dispatched_total"`
	EffectiveTotal  decimal.Decimal `json:"effective_total"`
	Paid            decimal.Decimal `json:"paid"`
	Balance         decimal.Decimal `json:"balance"`
}

func (r *PaymentRepository) PendingBills() ([]PendingBillRow, error) {
	var rows []PendingBillRow

	sql := `WITH paid AS (
			SELECT booking_id, SUM(amount_paid) AS amt
			FROM payments GROUP BY booking_id
		), dispatched AS (
			SELECT booking_id, SUM(amount) AS amt, COUNT(*) AS cnt
			FROM dispatch_logs GROUP BY booking_id
		)
		SELECT
			b.id AS booking_id, b.bill_number, b.customer_name, b.bill_date, b.total,
			COALESCE(d.amt, 0) AS dispatched_total,
			CASE WHEN COALESCE(d.cnt, 0) > 0 THEN d.amt ELSE b.total END AS effective_total,
			COALESCE(p.amt, 0) AS paid,
			CASE WHEN COALESCE(d.cnt, 0) > 0 THEN d.amt ELSE b.total END - COALESCE(p.amt, 0) AS balance
		FROM bookings b
		LEFT JOIN paid p ON p.booking_id = b.id
		LEFT JOIN dispatched d ON d.booking_id = b.id
		WHERE CASE WHEN COALESCE(d.cnt, 0) > 0 THEN d.amt ELSE b.total END - COALESCE(p.amt, 0) > 0
		ORDER BY b.created_at DESC`

	if err := r.db.Raw(sql).Scan(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// Statement is the full money view of one booking: the balance line plus
// every payment and dispatch behind it.
type Statement struct {
	PendingBillRow
	Payments   []models.Payment     `json:"payments"`
	Dispatches []models.DispatchLog `json:"dispatches"`
}

func (r *PaymentRepository) StatementFor(bookingID uint) (*Statement, error) {
	var booking models.Booking
	if err := r.db.First(&booking, bookingID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	var payments []models.Payment
	if err := r.db.Where("booking_id = ?", bookingID).
		Order("transaction_date ASC").Find(&payments).Error; err != nil {
		return nil, err
	}

	var dispatches []models.DispatchLog
	if err := r.db.Where("booking_id = ?", bookingID).
		Order("dispatched_at ASC").Find(&dispatches).Error; err != nil {
		return nil, err
	}

	st := Statement{Payments: payments, Dispatches: dispatches}
	st.BookingID = booking.ID
	st.BillNumber = booking.BillNumber
	st.CustomerName = booking.CustomerName
	st.BillDate = booking.BillDate
	st.Total = booking.Total

	for _, p := range payments {
		st.Paid = st.Paid.Add(p.AmountPaid)
	}
	for _, d := range dispatches {
		st.DispatchedTotal = st.DispatchedTotal.Add(d.Amount)
	}

	st.EffectiveTotal = booking.Total
	if len(dispatches) > 0 {
		st.EffectiveTotal = st.DispatchedTotal
	}
	st.Balance = st.EffectiveTotal.Sub(st.Paid)

	return &st, nil
}

// TransactionRow joins a payment with its booking and the admin who took it.
type TransactionRow struct {
	RefNo           string          `json:"ref_no"`
	BillNumber      string          `json:"bill_number"`
	CustomerName    string          `json:"customer_name"`
	AmountPaid      decimal.Decimal `json:"amount_paid"`
	PaymentMethod   string          `json:"payment_method"`
	BankName        string          `json:"bank_name"`
	TransactionDate string          `json:"transaction_date"`
	AdminUsername   string          `json:"admin_username"`
}

// Transactions lists payments newest first, optionally scoped to one admin.
func (r *PaymentRepository) Transactions(adminID uint) ([]TransactionRow, error) {
	var rows []TransactionRow

	sql := `SELECT
			p.ref_no, b.bill_number, b.customer_name,
			p.amount_paid, p.payment_method, p.bank_name,
			p.transaction_date, a.username AS admin_username
		FROM payments p
		JOIN bookings b ON b.id = p.booking_id
		JOIN admins a ON a.id = p.admin_id`

	q := r.db
	if adminID > 0 {
		sql += ` WHERE p.admin_id = ?
		ORDER BY p.transaction_date DESC`
		if err := q.Raw(sql, adminID).Scan(&rows).Error; err != nil {
			return nil, err
		}
		return rows, nil
	}

	sql += ` ORDER BY p.transaction_date DESC`
	if err := q.Raw(sql).Scan(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// RecordDispatches logs partial shipments against one booking, all lines in
// one transaction.
func (r *PaymentRepository) RecordDispatches(bookingID uint, logs []models.DispatchLog) ([]models.DispatchLog, error) {
	var booking models.Booking
	if err := r.db.First(&booking, bookingID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	tx := r.db.Begin()
	if tx.Error != nil {
		return nil, tx.Error
	}

	for i := range logs {
		logs[i].BookingID = bookingID
		if err := tx.Create(&logs[i]).Error; err != nil {
			tx.Rollback()
			return nil, err
		}
	}

	if err := tx.Commit().Error; err != nil {
		return nil, err
	}
	return logs, nil
}

func (r *PaymentRepository) DispatchesFor(bookingID uint) ([]models.DispatchLog, error) {
	var logs []models.DispatchLog
	if err := r.db.Where("booking_id = ?", bookingID).
		Order("dispatched_at ASC").Find(&logs).Error; err != nil {
		return nil, err
	}
	return logs, nil
}
