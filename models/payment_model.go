package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Payment rows are append-only; the outstanding balance of a booking is
// always recomputed from the sum, never cached on the booking.
type Payment struct {
	ID              uint            `gorm:"primaryKey" json:"id"`
	RefNo           string          `gorm:"size:30;uniqueIndex" json:"ref_no"`
	BookingID       uint            `gorm:"index;not null" json:"booking_id"`
	AmountPaid      decimal.Decimal `gorm:"type:decimal(14,2);not null" json:"amount_paid"`
	PaymentMethod   string          `gorm:"size:50;not null" json:"payment_method"`
	BankName        string          `gorm:"size:100" json:"bank_name"`
	TransactionDate time.Time       `gorm:"autoCreateTime" json:"transaction_date"`
	AdminID         uint            `gorm:"index;not null" json:"admin_id"`
}

// DispatchLog records a partial shipment against one booking line. Where
// dispatch logs exist, the booking balance is dispatched total minus paid.
type DispatchLog struct {
	ID              uint            `gorm:"primaryKey" json:"id"`
	BookingID       uint            `gorm:"index;not null" json:"booking_id"`
	ProductIndex    int             `json:"product_index"`
	ProductName     string          `gorm:"size:255" json:"product_name"`
	Brand           string          `gorm:"size:100" json:"brand"`
	DispatchedCases int             `json:"dispatched_cases"`
	DispatchedQty   int             `json:"dispatched_qty"`
	RatePerBox      decimal.Decimal `gorm:"type:decimal(10,2);default:0" json:"rate_per_box"`
	DiscountPercent decimal.Decimal `gorm:"type:decimal(5,2);default:0" json:"discount_percent"`
	Amount          decimal.Decimal `gorm:"type:decimal(14,2);default:0" json:"amount"`
	Godown          string          `gorm:"size:100" json:"godown"`
	TransportName   string          `gorm:"size:100" json:"transport_name"`
	LRNumber        string          `gorm:"size:50" json:"lr_number"`
	DispatchedAt    time.Time       `gorm:"autoCreateTime" json:"dispatched_at"`
}
