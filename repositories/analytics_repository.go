package repositories

import (
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type AnalyticsRepository struct {
	db *gorm.DB
}

func NewAnalyticsRepository(db *gorm.DB) *AnalyticsRepository {
	return &AnalyticsRepository{db: db}
}

// MovementBucket is one period's intake and outtake, in cases.
type MovementBucket struct {
	Bucket     string `json:"bucket"`
	AddedCases int    `json:"added_cases"`
	TakenCases int    `json:"taken_cases"`
}

var bucketTrunc = map[string]string{
	"day":   "day",
	"week":  "week",
	"month": "month",
	"year":  "year",
}

// Movements aggregates the stock history into period buckets. godownID zero
// means all godowns; an unknown period falls back to daily.
func (r *AnalyticsRepository) Movements(period string, godownID uint) ([]MovementBucket, error) {
	trunc, ok := bucketTrunc[period]
	if !ok {
		trunc = "day"
	}

	var rows []MovementBucket

	sql := `SELECT
			TO_CHAR(DATE_TRUNC('` + trunc + `', h.date), 'YYYY-MM-DD') AS bucket,
			COALESCE(SUM(CASE WHEN h.action = 'added' THEN h.cases ELSE 0 END), 0) AS added_cases,
			COALESCE(SUM(CASE WHEN h.action = 'taken' THEN h.cases ELSE 0 END), 0) AS taken_cases
		FROM stock_history h
		JOIN stocks s ON s.id = h.stock_id`

	args := []interface{}{}
	if godownID > 0 {
		sql += ` WHERE s.godown_id = ?`
		args = append(args, godownID)
	}
	sql += ` GROUP BY 1 ORDER BY 1`

	if err := r.db.Raw(sql, args...).Scan(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// Overview is the dashboard header: live stock, open paperwork, money owed.
type Overview struct {
	GodownCount     int64           `json:"godown_count"`
	StockCases      int64           `json:"stock_cases"`
	BookingCount    int64           `json:"booking_count"`
	PendingChallans int64           `json:"pending_challans"`
	Outstanding     decimal.Decimal `json:"outstanding"`
}

func (r *AnalyticsRepository) GetOverview() (*Overview, error) {
	var o Overview

	if err := r.db.Raw(`SELECT COUNT(*) FROM godowns`).Scan(&o.GodownCount).Error; err != nil {
		return nil, err
	}
	if err := r.db.Raw(`SELECT COALESCE(SUM(current_cases), 0) FROM stocks`).Scan(&o.StockCases).Error; err != nil {
		return nil, err
	}
	if err := r.db.Raw(`SELECT COUNT(*) FROM bookings`).Scan(&o.BookingCount).Error; err != nil {
		return nil, err
	}
	if err := r.db.Raw(`SELECT COUNT(*) FROM delivery WHERE converted_to_bill = FALSE`).Scan(&o.PendingChallans).Error; err != nil {
		return nil, err
	}

	sql := `WITH paid AS (
			SELECT booking_id, SUM(amount_paid) AS amt
			FROM payments GROUP BY booking_id
		), dispatched AS (
			SELECT booking_id, SUM(amount) AS amt, COUNT(*) AS cnt
			FROM dispatch_logs GROUP BY booking_id
		)
		SELECT COALESCE(SUM(
			CASE WHEN COALESCE(d.cnt, 0) > 0 THEN d.amt ELSE b.total END - COALESCE(p.amt, 0)
		), 0)
		FROM bookings b
		LEFT JOIN paid p ON p.booking_id = b.id
		LEFT JOIN dispatched d ON d.booking_id = b.id`

	if err := r.db.Raw(sql).Scan(&o.Outstanding).Error; err != nil {
		return nil, err
	}
	return &o, nil
}

// TopProduct is one row of the most-moved products board.
type TopProduct struct {
	ProductName string `json:"productname"`
	Brand       string `json:"brand"`
	TakenCases  int    `json:"taken_cases"`
}

func (r *AnalyticsRepository) TopProducts(limit int) ([]TopProduct, error) {
	if limit <= 0 {
		limit = 10
	}

	var rows []TopProduct
	sql := `SELECT s.productname, s.brand,
			COALESCE(SUM(h.cases), 0) AS taken_cases
		FROM stock_history h
		JOIN stocks s ON s.id = h.stock_id
		WHERE h.action = 'taken'
		GROUP BY s.productname, s.brand
		ORDER BY taken_cases DESC
		LIMIT ?`

	if err := r.db.Raw(sql, limit).Scan(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}
