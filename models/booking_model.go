package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// LineItem is one row of a booking's item blob. Amount is always recomputed
// from cases, per_case, rate and discount at persistence time; the caller's
// echoed value is never stored.
type LineItem struct {
	SNo             int     `json:"s_no"`
	StockID         uint    `json:"id"`
	ProductName     string  `json:"productname"`
	Brand           string  `json:"brand"`
	Cases           int     `json:"cases"`
	PerCase         int     `json:"per_case"`
	Quantity        int     `json:"quantity"`
	RatePerBox      float64 `json:"rate_per_box"`
	DiscountPercent float64 `json:"discount_percent"`
	Amount          float64 `json:"amount"`
	Godown          string  `json:"godown"`
}

type LineItems []LineItem

func (l LineItems) Value() (driver.Value, error) {
	return json.Marshal(l)
}

func (l *LineItems) Scan(value interface{}) error {
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, l)
	case string:
		return json.Unmarshal([]byte(v), l)
	case nil:
		*l = nil
		return nil
	default:
		return fmt.Errorf("cannot convert %T to LineItems", value)
	}
}

// ExtraCharges records which taxes and discounts were applied so the bill
// document can be rebuilt later without touching live stock or prices.
type ExtraCharges struct {
	PackingPercent     float64 `json:"packing_percent"`
	AdditionalDiscount float64 `json:"additional_discount"`
	TaxableValue       float64 `json:"taxable_value"`
	ApplyProcessingFee bool    `json:"apply_processing_fee"`
	ApplyCGST          bool    `json:"apply_cgst"`
	ApplySGST          bool    `json:"apply_sgst"`
	ApplyIGST          bool    `json:"apply_igst"`
	IsDirectBill       bool    `json:"is_direct_bill"`
	FromChallan        bool    `json:"from_challan"`
}

func (e ExtraCharges) Value() (driver.Value, error) {
	return json.Marshal(e)
}

func (e *ExtraCharges) Scan(value interface{}) error {
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, e)
	case string:
		return json.Unmarshal([]byte(v), e)
	case nil:
		*e = ExtraCharges{}
		return nil
	default:
		return fmt.Errorf("cannot convert %T to ExtraCharges", value)
	}
}

type Booking struct {
	ID            uint            `gorm:"primaryKey" json:"id"`
	BillNumber    string          `gorm:"size:50;uniqueIndex;not null" json:"bill_number"`
	BillDate      string          `gorm:"size:10" json:"bill_date"`
	CustomerName  string          `gorm:"size:255;not null" json:"customer_name"`
	Address       string          `gorm:"size:500" json:"address"`
	GSTIN         string          `gorm:"size:20" json:"gstin"`
	LRNumber      string          `gorm:"size:50" json:"lr_number"`
	AgentName     string          `gorm:"size:100" json:"agent_name"`
	FromLocation  string          `gorm:"column:from_location;size:100" json:"from"`
	ToLocation    string          `gorm:"column:to_location;size:100" json:"to"`
	Through       string          `gorm:"size:100" json:"through"`
	StockFrom     string          `gorm:"size:100" json:"stock_from"`
	Items         LineItems       `gorm:"type:jsonb" json:"items"`
	Total         decimal.Decimal `gorm:"type:decimal(14,2);default:0" json:"total"`
	ExtraCharges  ExtraCharges    `gorm:"type:jsonb" json:"extra_charges"`
	FromChallan   bool            `gorm:"default:false" json:"from_challan"`
	ChallanNumber string          `gorm:"size:50" json:"challan_number"`
	CreatedAt     time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
}
