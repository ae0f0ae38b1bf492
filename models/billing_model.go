package models

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	BillTypeTax    = "tax"
	BillTypeSupply = "supply"
)

// Billing is a manually numbered tax/supply bill (NT-001 style, prefixed by
// the company initials). Amounts arrive precomputed from the billing desk
// and are stored as given; stock is not touched by these.
type Billing struct {
	ID                uint            `gorm:"primaryKey" json:"id"`
	BillNo            string          `gorm:"size:50;uniqueIndex;not null" json:"bill_no"`
	CustomerName      string          `gorm:"size:255;not null" json:"customer_name"`
	CustomerAddress   string          `gorm:"size:500" json:"customer_address"`
	CustomerGSTIN     string          `gorm:"size:20" json:"customer_gstin"`
	CustomerPlace     string          `gorm:"size:100" json:"customer_place"`
	CustomerStateCode string          `gorm:"size:5;default:'33'" json:"customer_state_code"`
	Through           string          `gorm:"size:100;default:'DIRECT'" json:"through"`
	Destination       string          `gorm:"size:100" json:"destination"`
	NoOfCases         int             `gorm:"default:0" json:"no_of_cases"`
	Subtotal          decimal.Decimal `gorm:"type:decimal(14,2);default:0" json:"subtotal"`
	PackingAmount     decimal.Decimal `gorm:"type:decimal(14,2);default:0" json:"packing_amount"`
	ExtraAmount       decimal.Decimal `gorm:"type:decimal(14,2);default:0" json:"extra_amount"`
	CgstAmount        decimal.Decimal `gorm:"type:decimal(14,2);default:0" json:"cgst_amount"`
	SgstAmount        decimal.Decimal `gorm:"type:decimal(14,2);default:0" json:"sgst_amount"`
	IgstAmount        decimal.Decimal `gorm:"type:decimal(14,2);default:0" json:"igst_amount"`
	NetAmount         decimal.Decimal `gorm:"type:decimal(14,2);default:0" json:"net_amount"`
	Items             LineItems       `gorm:"type:jsonb" json:"items"`
	CompanyName       string          `gorm:"size:255" json:"company_name"`
	Type              string          `gorm:"size:10;default:'tax'" json:"type"`
	CreatedAt         time.Time       `gorm:"autoCreateTime" json:"created_at"`
}

// StateCode is the GST state-code list used on supply bills.
type StateCode struct {
	Code      string `gorm:"primaryKey;size:5" json:"code"`
	StateName string `gorm:"size:100;not null" json:"state_name"`
}

func (StateCode) TableName() string {
	return "codestate"
}
